package ner

import (
	"testing"

	"github.com/scilens/biomark/internal/entity"
)

func TestParseLLMMatches(t *testing.T) {
	source := "Imatinib inhibits BCR-ABL in chronic myeloid leukemia."
	content := `[
		{"text": "Imatinib", "label": "CHEMICAL", "start": 0, "end": 8},
		{"text": "BCR-ABL", "label": "GENE_OR_GENE_PRODUCT", "start": 18, "end": 25},
		{"text": "chronic myeloid leukemia", "label": "DISEASE", "start": 29, "end": 53}
	]`

	matches, err := parseLLMMatches(content, source)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	if matches[0].Label != entity.LabelChemical {
		t.Errorf("expected CHEMICAL, got %s", matches[0].Label)
	}
	if matches[2].Start != 29 || matches[2].End != 53 {
		t.Errorf("expected offsets 29..53, got %d..%d", matches[2].Start, matches[2].End)
	}
}

func TestParseLLMMatchesCodeFence(t *testing.T) {
	source := "TP53 is mutated in many cancers."
	content := "```json\n[{\"text\": \"TP53\", \"label\": \"GENE_OR_GENE_PRODUCT\", \"start\": 0, \"end\": 4}]\n```"

	matches, err := parseLLMMatches(content, source)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].Text != "TP53" {
		t.Fatalf("expected one TP53 match, got %+v", matches)
	}
}

func TestParseLLMMatchesWrapperObject(t *testing.T) {
	source := "Aspirin reduces inflammation."
	content := `{"entities": [{"text": "Aspirin", "label": "CHEMICAL", "start": 0, "end": 7}]}`

	matches, err := parseLLMMatches(content, source)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].Text != "Aspirin" {
		t.Fatalf("expected one Aspirin match, got %+v", matches)
	}
}

func TestParseLLMMatchesRepairsOffsets(t *testing.T) {
	source := "The EGFR inhibitor gefitinib."
	// Model miscounted: offsets point at the wrong characters.
	content := `[{"text": "gefitinib", "label": "CHEMICAL", "start": 2, "end": 11}]`

	matches, err := parseLLMMatches(content, source)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Start != 19 || matches[0].End != 28 {
		t.Errorf("expected repaired offsets 19..28, got %d..%d", matches[0].Start, matches[0].End)
	}
}

func TestParseLLMMatchesDropsHallucinatedSpan(t *testing.T) {
	source := "Water is not an entity here."
	content := `[{"text": "Remdesivir", "label": "CHEMICAL", "start": 0, "end": 10}]`

	matches, err := parseLLMMatches(content, source)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("expected hallucinated span to be dropped, got %+v", matches)
	}
}

func TestParseLLMMatchesDropsUnknownLabel(t *testing.T) {
	source := "Dr. Smith studied BRCA1."
	content := `[
		{"text": "Dr. Smith", "label": "PERSON", "start": 0, "end": 9},
		{"text": "BRCA1", "label": "GENE_OR_GENE_PRODUCT", "start": 18, "end": 23}
	]`

	matches, err := parseLLMMatches(content, source)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].Text != "BRCA1" {
		t.Fatalf("expected only the BRCA1 match, got %+v", matches)
	}
}

func TestParseLLMMatchesBadJSON(t *testing.T) {
	_, err := parseLLMMatches("I found three entities in the text.", "some text")
	if err == nil {
		t.Fatal("expected error for non-JSON response")
	}
}

func TestParseLLMMatchesUnicodeOffsets(t *testing.T) {
	source := "β-амилоид accumulates in Alzheimer's disease."
	content := `[{"text": "Alzheimer's disease", "label": "DISEASE", "start": 99, "end": 120}]`

	matches, err := parseLLMMatches(content, source)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	// Offsets are rune-based, so the multibyte prefix must not shift them.
	if matches[0].Start != 25 || matches[0].End != 44 {
		t.Errorf("expected rune offsets 25..44, got %d..%d", matches[0].Start, matches[0].End)
	}
}

func TestStripCodeFence(t *testing.T) {
	if got := stripCodeFence("```json\n[]\n```"); got != "[]" {
		t.Errorf("expected [], got %q", got)
	}
	if got := stripCodeFence("[]"); got != "[]" {
		t.Errorf("expected passthrough, got %q", got)
	}
}

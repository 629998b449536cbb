package ner

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/scilens/biomark/internal/entity"
)

// llmSystemPrompt drives the LLM-backed backends. The labels mirror the
// scispaCy tag set so every backend speaks the same vocabulary.
const llmSystemPrompt = `You are a precise biomedical named-entity recognizer. Identify every mention of a gene or gene product, protein, chemical compound, or disease in the text.

Return ONLY a JSON array, no other text. Each element must be an object:
  {"text": "<exact span from the text>", "label": "<one of GENE_OR_GENE_PRODUCT, PROTEIN, CHEMICAL, DISEASE>", "start": <character offset>, "end": <character offset>}

Rules:
- "text" must be copied verbatim from the input, never paraphrased.
- Use only the four labels above; skip anything that does not fit them.
- Do not invent entities that are not present in the text.
- Return [] when the text contains no biomedical entities.`

// rawLLMMatch is the JSON element shape the prompt asks for.
type rawLLMMatch struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// parseLLMMatches turns an LLM response into matches against source.
// Models wrap JSON in code fences and routinely miscount offsets, so the
// parser strips fences, drops labels outside the known set, drops spans that
// do not occur in the source text, and recomputes offsets from the source
// when the reported ones do not line up.
func parseLLMMatches(content, source string) ([]entity.Match, error) {
	content = stripCodeFence(content)

	var raw []rawLLMMatch
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		// Some models wrap the array in an object despite instructions.
		var wrapper struct {
			Entities []rawLLMMatch `json:"entities"`
		}
		if err2 := json.Unmarshal([]byte(content), &wrapper); err2 != nil || wrapper.Entities == nil {
			return nil, fmt.Errorf("backend returned unparseable annotations: %w", err)
		}
		raw = wrapper.Entities
	}

	sourceRunes := []rune(source)
	matches := make([]entity.Match, 0, len(raw))
	for _, r := range raw {
		label := entity.Label(strings.ToUpper(strings.TrimSpace(r.Label)))
		if !label.Known() {
			continue
		}
		span := strings.TrimSpace(r.Text)
		if span == "" {
			continue
		}

		start, end := r.Start, r.End
		if !offsetsMatch(sourceRunes, span, start, end) {
			var ok bool
			start, end, ok = locateSpan(source, span)
			if !ok {
				// The model reported a span that is not in the text.
				continue
			}
		}

		matches = append(matches, entity.Match{
			Text:  span,
			Label: label,
			Start: start,
			End:   end,
		})
	}
	return matches, nil
}

// offsetsMatch reports whether source[start:end] (in runes) equals span.
func offsetsMatch(sourceRunes []rune, span string, start, end int) bool {
	if start < 0 || end > len(sourceRunes) || start >= end {
		return false
	}
	return string(sourceRunes[start:end]) == span
}

// locateSpan finds the first occurrence of span in source and returns its
// rune offsets.
func locateSpan(source, span string) (start, end int, ok bool) {
	idx := strings.Index(source, span)
	if idx < 0 {
		return 0, 0, false
	}
	start = utf8.RuneCountInString(source[:idx])
	end = start + utf8.RuneCountInString(span)
	return start, end, true
}

// stripCodeFence removes a surrounding ```json ... ``` block if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:] // drop the language tag line
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// Package entity defines the biomedical entity labels recognized by biomark
// and the match records produced by the NER backends.
package entity

// Label identifies one of the biomedical entity categories of interest.
// The values use the scispaCy wire spelling.
type Label string

const (
	// LabelGene marks genes and gene products.
	LabelGene Label = "GENE_OR_GENE_PRODUCT"
	// LabelProtein marks proteins.
	LabelProtein Label = "PROTEIN"
	// LabelChemical marks chemical compounds.
	LabelChemical Label = "CHEMICAL"
	// LabelDisease marks diseases and conditions.
	LabelDisease Label = "DISEASE"
)

// KnownLabels returns the labels of interest in precedence order.
// When one cell holds matches with different labels, the earliest label in
// this slice wins the cell fill.
func KnownLabels() []Label {
	return []Label{LabelGene, LabelProtein, LabelChemical, LabelDisease}
}

// Known reports whether l is one of the four labels of interest.
func (l Label) Known() bool {
	switch l {
	case LabelGene, LabelProtein, LabelChemical, LabelDisease:
		return true
	}
	return false
}

// Description returns the human-readable name shown in legends and reports.
func (l Label) Description() string {
	switch l {
	case LabelGene:
		return "Gene/Gene Product"
	case LabelProtein:
		return "Protein"
	case LabelChemical:
		return "Chemical"
	case LabelDisease:
		return "Disease"
	}
	return string(l)
}

// precedence returns the rank of l in KnownLabels (lower wins). Unknown
// labels rank last.
func (l Label) precedence() int {
	for i, k := range KnownLabels() {
		if l == k {
			return i
		}
	}
	return len(KnownLabels())
}

// Wins reports whether l takes precedence over other for a cell fill.
func (l Label) Wins(other Label) bool {
	return l.precedence() < other.precedence()
}

// Match is a single recognized span within one text, with character offsets
// as reported by the backend.
type Match struct {
	Text  string `json:"text"`
	Label Label  `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// CellMatch ties a Match to the spreadsheet cell it was found in.
// Row is the 1-based worksheet row (the header is row 1, so the first data
// row is row 2). Column is the header name of the source column.
type CellMatch struct {
	Match
	Row      int    `json:"row"`
	Column   string `json:"column"`
	CellText string `json:"cellText"`
}

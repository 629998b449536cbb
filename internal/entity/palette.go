package entity

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Palette maps each label to an RRGGBB fill color.
type Palette map[Label]string

// DefaultPalette returns the standard highlight colors: yellow for genes,
// light green for proteins, light salmon for chemicals, light pink for
// diseases.
func DefaultPalette() Palette {
	return Palette{
		LabelGene:     "FFFF00",
		LabelProtein:  "90EE90",
		LabelChemical: "FFA07A",
		LabelDisease:  "FFB6C1",
	}
}

// Color returns the fill color for l, falling back to the default palette
// when the label is missing from p.
func (p Palette) Color(l Label) string {
	if c, ok := p[l]; ok {
		return c
	}
	return DefaultPalette()[l]
}

var hexColor = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

// LoadPalette reads a YAML palette file mapping label names to RRGGBB values
// and merges it over the defaults. Unknown labels and malformed colors are
// rejected so a typo doesn't silently leave a label on its default fill.
func LoadPalette(path string) (Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("palette file not found: %s — check that the path is correct", path)
		}
		return nil, fmt.Errorf("could not read palette file %s: %w", path, err)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid palette YAML: %w", err)
	}

	p := DefaultPalette()
	for name, color := range raw {
		label := Label(strings.ToUpper(strings.TrimSpace(name)))
		if !label.Known() {
			return nil, fmt.Errorf("unknown label %q in palette — known labels: %v", name, KnownLabels())
		}
		color = strings.TrimPrefix(strings.TrimSpace(color), "#")
		if !hexColor.MatchString(color) {
			return nil, fmt.Errorf("invalid color %q for label %s — expected RRGGBB hex", raw[name], label)
		}
		p[label] = strings.ToUpper(color)
	}

	return p, nil
}

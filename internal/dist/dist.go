package dist

import (
	"regexp"
	"strings"
)

// Distribution represents an installed Python distribution as recorded in
// environment metadata. Name is the distribution's own declared name, which
// may differ from its import name.
type Distribution struct {
	Name     string   // e.g., "Pillow"
	Version  string   // e.g., "10.2.0"
	Requires []string // raw requirement strings, e.g., "numpy>=1.20,<2.0"
}

// ResultEntry is one dependent found by a search: the declared display name
// of the requiring distribution and the version specifier it declared.
type ResultEntry struct {
	Dependent string `json:"dependent" yaml:"dependent"`
	Specifier string `json:"specifier" yaml:"specifier"` // "any" when unconstrained
}

var normalizeRe = regexp.MustCompile(`[-_.]+`)

// NormalizeName canonicalizes a package name for comparison: case is folded
// and runs of "-", "_" and "." collapse to a single "_" (PEP 503). The result
// is for matching only, never for display.
func NormalizeName(name string) string {
	return normalizeRe.ReplaceAllString(strings.ToLower(name), "_")
}

package pep508

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidRequirement is wrapped by all parse failures. Callers scanning
// real-world metadata should treat it as per-entry noise, not a fatal error.
var ErrInvalidRequirement = errors.New("invalid requirement")

// Requirement is a parsed PEP 508 dependency declaration. Markers are kept
// verbatim and never evaluated here.
type Requirement struct {
	Name      string
	Extras    []string
	Specifier string // version clauses joined by ",", empty means any version
	Marker    string
}

var (
	// name [extras] (specifier) ; marker
	requirementRe = regexp.MustCompile(`^([A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?)\s*(\[[^\]]*\])?\s*([^;]*?)\s*(?:;\s*(.+))?$`)
	specClauseRe  = regexp.MustCompile(`^(===|==|!=|~=|<=|>=|<|>)\s*[A-Za-z0-9._*+!-]+$`)
)

// Parse parses a raw requirement string like "numpy>=1.20,<2.0" or
// "requests[security] (>=2.0) ; python_version < '3.10'".
func Parse(raw string) (*Requirement, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty string", ErrInvalidRequirement)
	}

	matches := requirementRe.FindStringSubmatch(trimmed)
	if matches == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRequirement, raw)
	}

	req := &Requirement{
		Name:   matches[1],
		Marker: strings.TrimSpace(matches[4]),
	}

	if extras := matches[2]; extras != "" {
		for _, e := range strings.Split(strings.Trim(extras, "[]"), ",") {
			e = strings.TrimSpace(e)
			if e != "" {
				req.Extras = append(req.Extras, e)
			}
		}
	}

	spec, err := parseSpecifier(matches[3])
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidRequirement, raw, err)
	}
	req.Specifier = spec

	return req, nil
}

// parseSpecifier validates a comma-separated clause list like ">=1.20, <2.0",
// optionally parenthesized, and returns it in compact form.
func parseSpecifier(s string) (string, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if s == "" {
		return "", nil
	}

	clauses := strings.Split(s, ",")
	for i, c := range clauses {
		c = strings.TrimSpace(c)
		if !specClauseRe.MatchString(c) {
			return "", fmt.Errorf("bad version clause %q", c)
		}
		clauses[i] = strings.ReplaceAll(c, " ", "")
	}
	return strings.Join(clauses, ","), nil
}

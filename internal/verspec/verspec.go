package verspec

import (
	"fmt"

	pep440 "github.com/aquasecurity/go-pep440-version"
)

// Matcher adapts the PEP 440 grammar to the finder's version-matching
// contract. Pre-release versions are always admitted by specifier checks,
// matching the behavior of packaging's contains(..., prereleases=True).
type Matcher struct{}

// New creates a PEP 440 matcher.
func New() *Matcher {
	return &Matcher{}
}

// ValidateVersion reports whether s parses as a PEP 440 version.
func (m *Matcher) ValidateVersion(s string) error {
	if _, err := pep440.Parse(s); err != nil {
		return fmt.Errorf("parsing version %q: %w", s, err)
	}
	return nil
}

// Contains reports whether the given specifier set admits the version. An
// empty specifier admits every version.
func (m *Matcher) Contains(specifier, version string) (bool, error) {
	if specifier == "" {
		return true, nil
	}

	v, err := pep440.Parse(version)
	if err != nil {
		return false, fmt.Errorf("parsing version %q: %w", version, err)
	}

	specs, err := pep440.NewSpecifiers(specifier, pep440.WithPreRelease(true))
	if err != nil {
		return false, fmt.Errorf("parsing specifier %q: %w", specifier, err)
	}

	return specs.Check(v), nil
}

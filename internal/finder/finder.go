package finder

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/frederic-klein/whatrequires/internal/dist"
	"github.com/frederic-klein/whatrequires/internal/pep508"
)

// Index enumerates the installed distributions of a Python environment.
type Index interface {
	Distributions() ([]dist.Distribution, error)
}

// VersionMatcher checks version strings against PEP 440 specifiers. It is an
// optional capability: a Finder built without one rejects version-filtered
// queries instead of silently ignoring the filter.
type VersionMatcher interface {
	ValidateVersion(s string) error
	Contains(specifier, version string) (bool, error)
}

// User-correctable errors crossing the finder boundary. Malformed requirement
// strings inside distribution metadata never do; they are skipped per entry.
var (
	ErrEmptyQuery               = errors.New("package name must not be empty")
	ErrVersionSearchUnavailable = errors.New("version search is not available")
)

// InvalidVersionError reports an unparsable target version supplied while
// version search was enabled. Distinct from a zero-result outcome.
type InvalidVersionError struct {
	Input string
	Err   error
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid version format %q, use a form like 1.2.3", e.Input)
}

func (e *InvalidVersionError) Unwrap() error { return e.Err }

// Query is one search request. TargetVersion is only consulted when
// VersionSearch is set and the string is non-empty.
type Query struct {
	Package       string
	TargetVersion string
	VersionSearch bool
}

// Result holds the outcome of one completed search. It is caller-owned and
// built fresh per invocation; "search not yet run" is simply the absence of
// a Result, while NoMatches marks a search that ran and found nothing.
type Result struct {
	Entries   []dist.ResultEntry
	NoMatches bool
	Malformed int // requirement strings skipped as unparsable
	Summary   string
}

// Finder answers "which installed distributions declare a dependency on
// package X", optionally narrowed to requirements compatible with a given
// version of X. The scan is read-only and idempotent.
type Finder struct {
	index   Index
	matcher VersionMatcher
	log     *log.Logger
}

// New creates a Finder. matcher may be nil, in which case version-filtered
// queries fail with ErrVersionSearchUnavailable.
func New(index Index, matcher VersionMatcher, logger *log.Logger) *Finder {
	if logger == nil {
		logger = log.Default()
	}
	return &Finder{
		index:   index,
		matcher: matcher,
		log:     logger,
	}
}

// Find runs one search and returns the sorted dependents of the target.
func (f *Finder) Find(q Query) (*Result, error) {
	target := strings.ToLower(strings.TrimSpace(q.Package))
	if target == "" {
		return nil, ErrEmptyQuery
	}

	targetVersion := strings.TrimSpace(q.TargetVersion)
	filterByVersion := q.VersionSearch && targetVersion != ""
	if filterByVersion {
		if f.matcher == nil {
			return nil, ErrVersionSearchUnavailable
		}
		if err := f.matcher.ValidateVersion(targetVersion); err != nil {
			return nil, &InvalidVersionError{Input: targetVersion, Err: err}
		}
	}

	dists, err := f.index.Distributions()
	if err != nil {
		return nil, fmt.Errorf("enumerating distributions: %w", err)
	}

	normalizedTarget := dist.NormalizeName(target)
	result := &Result{}

	for _, d := range dists {
		for _, raw := range d.Requires {
			req, err := pep508.Parse(raw)
			if err != nil {
				// Expected noise in real-world metadata: skip the single
				// entry, keep scanning the rest of the distribution.
				result.Malformed++
				f.log.Debug("skipping malformed requirement", "distribution", d.Name, "raw", raw)
				continue
			}

			if dist.NormalizeName(req.Name) != normalizedTarget {
				continue
			}

			if filterByVersion {
				ok, err := f.matcher.Contains(req.Specifier, targetVersion)
				if err != nil {
					result.Malformed++
					f.log.Debug("skipping uncheckable specifier", "distribution", d.Name, "specifier", req.Specifier)
					continue
				}
				if !ok {
					continue
				}
			}

			specifier := req.Specifier
			if specifier == "" {
				specifier = "any"
			}
			result.Entries = append(result.Entries, dist.ResultEntry{
				Dependent: d.Name,
				Specifier: specifier,
			})
		}
	}

	sort.Slice(result.Entries, func(i, j int) bool {
		a, b := result.Entries[i], result.Entries[j]
		if a.Dependent != b.Dependent {
			return a.Dependent < b.Dependent
		}
		return a.Specifier < b.Specifier
	})

	if len(result.Entries) > 0 {
		result.Summary = fmt.Sprintf("Found %d dependents for '%s'", len(result.Entries), target)
		if filterByVersion {
			result.Summary += fmt.Sprintf(" matching version '%s'", targetVersion)
		}
	} else {
		result.NoMatches = true
		result.Summary = fmt.Sprintf("No dependents found for '%s' with the specified criteria.", target)
	}

	return result, nil
}

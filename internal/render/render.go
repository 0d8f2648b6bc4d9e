package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/frederic-klein/whatrequires/internal/dist"
	"github.com/frederic-klein/whatrequires/internal/finder"
)

// Renderer consumes one completed search result. Implementations own their
// output destination; Render is called at most once per result.
type Renderer interface {
	Render(res *finder.Result) error
}

// New returns the renderer for a format name: "text", "json" or "yaml".
func New(format string, w io.Writer) (Renderer, error) {
	switch format {
	case "text":
		return NewText(w), nil
	case "json":
		return NewJSON(w), nil
	case "yaml":
		return NewYAML(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

var (
	summaryStyle   = lipgloss.NewStyle().Bold(true)
	dependentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	specifierStyle = lipgloss.NewStyle().Faint(true)
)

// Text renders results for a terminal.
type Text struct {
	w io.Writer
}

// NewText creates a terminal renderer.
func NewText(w io.Writer) *Text {
	return &Text{w: w}
}

// Render writes the summary line followed by one row per dependent, or the
// empty-state message when the search found nothing.
func (t *Text) Render(res *finder.Result) error {
	if _, err := fmt.Fprintln(t.w, summaryStyle.Render(res.Summary)); err != nil {
		return err
	}

	if res.NoMatches {
		_, err := fmt.Fprintln(t.w, "No direct dependents found.")
		return err
	}

	for _, e := range res.Entries {
		_, err := fmt.Fprintf(t.w, "  - %s (%s)\n",
			dependentStyle.Render(e.Dependent), specifierStyle.Render(e.Specifier))
		if err != nil {
			return err
		}
	}
	return nil
}

// document is the machine-readable projection of a result shared by the
// JSON and YAML renderers.
type document struct {
	Summary    string             `json:"summary" yaml:"summary"`
	Dependents []dist.ResultEntry `json:"dependents" yaml:"dependents"`
	Skipped    int                `json:"skipped_malformed,omitempty" yaml:"skipped_malformed,omitempty"`
}

func newDocument(res *finder.Result) document {
	doc := document{
		Summary:    res.Summary,
		Dependents: res.Entries,
		Skipped:    res.Malformed,
	}
	if doc.Dependents == nil {
		doc.Dependents = []dist.ResultEntry{}
	}
	return doc
}

// JSON renders results as an indented JSON document.
type JSON struct {
	w io.Writer
}

// NewJSON creates a JSON renderer.
func NewJSON(w io.Writer) *JSON {
	return &JSON{w: w}
}

func (j *JSON) Render(res *finder.Result) error {
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	return enc.Encode(newDocument(res))
}

// YAML renders results as a YAML document.
type YAML struct {
	w io.Writer
}

// NewYAML creates a YAML renderer.
func NewYAML(w io.Writer) *YAML {
	return &YAML{w: w}
}

func (y *YAML) Render(res *finder.Result) error {
	out, err := yaml.Marshal(newDocument(res))
	if err != nil {
		return err
	}
	_, err = y.w.Write(out)
	return err
}

// Package export renders a snapshot of the causal graph for humans
// and downstream tooling. JSON and YAML preserve the full entity
// fields; the text format prints a compact adjacency view of which
// causes feed which outcomes.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/laskinner/dag-tui/entity"
	"github.com/laskinner/dag-tui/risk"
)

// Format represents an output encoding for a graph snapshot.
type Format string

const (
	// FormatJSON renders the snapshot as indented JSON.
	FormatJSON Format = "json"

	// FormatYAML renders the snapshot as YAML.
	FormatYAML Format = "yaml"

	// FormatText renders a human-readable adjacency listing.
	FormatText Format = "text"
)

// IsValid returns true if the format is valid.
func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatText:
		return true
	default:
		return false
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// FileExtension returns the file extension for the format.
func (f Format) FileExtension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	case FormatText:
		return ".txt"
	default:
		return ""
	}
}

// ParseFormat parses a string into a Format value.
// Returns an error if the string is not a valid format.
func ParseFormat(s string) (Format, error) {
	format := Format(s)
	if !format.IsValid() {
		return "", fmt.Errorf("invalid export format: %s", s)
	}
	return format, nil
}

// AllFormats returns all valid formats.
func AllFormats() []Format {
	return []Format{
		FormatJSON,
		FormatYAML,
		FormatText,
	}
}

// Snapshot is a point-in-time copy of the graph ready for rendering.
type Snapshot struct {
	Causes   []entity.Cause   `json:"causes" yaml:"causes"`
	Outcomes []entity.Outcome `json:"outcomes" yaml:"outcomes"`
}

// Write renders the snapshot to w in the given format.
func Write(w io.Writer, format Format, snap Snapshot) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(snap)
	case FormatText:
		return writeText(w, snap)
	default:
		return fmt.Errorf("invalid export format: %s", format)
	}
}

// writeText prints each cause with its outgoing edges, then each
// outcome with its derived values and contributors.
func writeText(w io.Writer, snap Snapshot) error {
	var b strings.Builder

	titles := make(map[string]string, len(snap.Causes)+len(snap.Outcomes))
	for _, c := range snap.Causes {
		titles[c.ID] = c.Title
	}
	for _, o := range snap.Outcomes {
		titles[o.ID] = o.Title
	}

	b.WriteString("Causes:\n")
	for _, c := range snap.Causes {
		fmt.Fprintf(&b, "  [%s] %s (p=%s%%, s=%d)\n",
			c.ID, c.Title, entity.FormatProbability(c.Probability), c.Severity)
		for _, target := range c.Causes {
			fmt.Fprintf(&b, "    -> %s\n", labelFor(titles, target))
		}
	}

	b.WriteString("Outcomes:\n")
	for _, o := range snap.Outcomes {
		tier := risk.Classify(o.Probability)
		fmt.Fprintf(&b, "  [%s] %s (p=%s%%, s=%d, %s)\n",
			o.ID, o.Title, entity.FormatProbability(o.Probability), o.Severity, tier.DisplayName())
		for _, source := range o.CausedBy {
			fmt.Fprintf(&b, "    <- %s\n", labelFor(titles, source))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func labelFor(titles map[string]string, id string) string {
	if title, ok := titles[id]; ok && title != "" {
		return fmt.Sprintf("%s [%s]", title, id)
	}
	return fmt.Sprintf("(unresolved) [%s]", id)
}

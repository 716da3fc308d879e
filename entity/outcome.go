package entity

import (
	"errors"

	"github.com/laskinner/dag-tui/store"
)

// Outcome is an entity whose probability and severity are derived from its
// contributing causes rather than independently authored.
//
// The stored Probability and Severity are the values last written by the
// aggregation engine: the mean contributor probability and the maximum
// contributor severity. An outcome with no resolvable contributors keeps
// its last computed values.
type Outcome struct {
	// ID is the unique outcome identifier, immutable once created.
	// Assigned by the engine if empty at creation.
	ID string `json:"id" yaml:"id"`

	// Title is a short label for the outcome.
	Title string `json:"title" yaml:"title"`

	// Description is free text.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// CausedBy lists ids of the causes contributing to this outcome.
	// Maintained by the engine as the reverse of each cause's Causes field.
	CausedBy []string `json:"caused_by,omitempty" yaml:"caused_by,omitempty"`

	// Probability is the derived mean contributor probability.
	Probability float64 `json:"probability" yaml:"probability"`

	// Severity is the derived maximum contributor severity.
	Severity int `json:"severity" yaml:"severity"`
}

// NewOutcome creates an Outcome with the given title and description.
func NewOutcome(title, description string) *Outcome {
	return &Outcome{
		Title:       title,
		Description: description,
	}
}

// WithID sets the outcome id and returns the outcome for method chaining.
func (o *Outcome) WithID(id string) *Outcome {
	o.ID = id
	return o
}

// WithCausedBy sets the contributing cause ids and returns the outcome for
// method chaining.
func (o *Outcome) WithCausedBy(causeIDs ...string) *Outcome {
	o.CausedBy = causeIDs
	return o
}

// Validate checks that the outcome has all required fields set.
// Returns an error if Title is empty.
func (o *Outcome) Validate() error {
	if o.Title == "" {
		return errors.New("outcome title is required")
	}
	return nil
}

// Record converts the outcome into its row representation.
func (o *Outcome) Record() store.Record {
	return store.Record{
		FieldID:          o.ID,
		FieldTitle:       o.Title,
		FieldDescription: o.Description,
		FieldCausedBy:    JoinIDList(o.CausedBy),
		FieldProbability: FormatProbability(o.Probability),
		FieldSeverity:    FormatSeverity(o.Severity),
	}
}

// OutcomeFromRecord decodes a row into an Outcome. Absent or malformed
// numeric fields decode as zero.
func OutcomeFromRecord(rec store.Record) Outcome {
	return Outcome{
		ID:          rec[FieldID],
		Title:       rec[FieldTitle],
		Description: rec[FieldDescription],
		CausedBy:    ParseIDList(rec[FieldCausedBy]),
		Probability: ParseProbability(rec[FieldProbability]),
		Severity:    ParseSeverity(rec[FieldSeverity]),
	}
}

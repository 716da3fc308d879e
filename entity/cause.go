package entity

import (
	"errors"
	"strconv"

	"github.com/laskinner/dag-tui/store"
)

// Cause is an atomic risk-contributing node.
//
// Probability is a percentage in [0,100] and Severity an integer in [1,10],
// both user-supplied. Zero means unset; an unset value still contributes
// zero to outcome aggregation rather than being excluded. Values outside
// range are carried as-is; the aggregation arithmetic does not clamp.
type Cause struct {
	// ID is the unique cause identifier, immutable once created.
	// Assigned by the engine if empty at creation.
	ID string `json:"id" yaml:"id"`

	// Title is a short label for the cause.
	Title string `json:"title" yaml:"title"`

	// Description is free text.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// CausedBy lists ids of entities that lead to this cause.
	CausedBy []string `json:"caused_by,omitempty" yaml:"caused_by,omitempty"`

	// Causes lists ids of outcomes this cause contributes to.
	Causes []string `json:"causes,omitempty" yaml:"causes,omitempty"`

	// Probability is the estimated likelihood as a percentage.
	Probability float64 `json:"probability" yaml:"probability"`

	// Severity is the estimated impact on a 1-10 scale.
	Severity int `json:"severity" yaml:"severity"`
}

// NewCause creates a Cause with the given title and description.
func NewCause(title, description string) *Cause {
	return &Cause{
		Title:       title,
		Description: description,
	}
}

// WithID sets the cause id and returns the cause for method chaining.
func (c *Cause) WithID(id string) *Cause {
	c.ID = id
	return c
}

// WithCauses sets the outcomes this cause contributes to and returns the
// cause for method chaining.
func (c *Cause) WithCauses(outcomeIDs ...string) *Cause {
	c.Causes = outcomeIDs
	return c
}

// WithCausedBy sets the upstream entity ids and returns the cause for
// method chaining.
func (c *Cause) WithCausedBy(ids ...string) *Cause {
	c.CausedBy = ids
	return c
}

// WithProbability sets the probability percentage and returns the cause
// for method chaining.
func (c *Cause) WithProbability(p float64) *Cause {
	c.Probability = p
	return c
}

// WithSeverity sets the severity and returns the cause for method chaining.
func (c *Cause) WithSeverity(s int) *Cause {
	c.Severity = s
	return c
}

// Validate checks that the cause has all required fields set.
// Returns an error if Title is empty.
func (c *Cause) Validate() error {
	if c.Title == "" {
		return errors.New("cause title is required")
	}
	return nil
}

// Record converts the cause into its row representation.
func (c *Cause) Record() store.Record {
	return store.Record{
		FieldID:          c.ID,
		FieldTitle:       c.Title,
		FieldDescription: c.Description,
		FieldCausedBy:    JoinIDList(c.CausedBy),
		FieldCauses:      JoinIDList(c.Causes),
		FieldProbability: FormatProbability(c.Probability),
		FieldSeverity:    FormatSeverity(c.Severity),
	}
}

// CauseFromRecord decodes a row into a Cause. Absent or malformed numeric
// fields decode as zero.
func CauseFromRecord(rec store.Record) Cause {
	return Cause{
		ID:          rec[FieldID],
		Title:       rec[FieldTitle],
		Description: rec[FieldDescription],
		CausedBy:    ParseIDList(rec[FieldCausedBy]),
		Causes:      ParseIDList(rec[FieldCauses]),
		Probability: ParseProbability(rec[FieldProbability]),
		Severity:    ParseSeverity(rec[FieldSeverity]),
	}
}

// ParseProbability decodes a stored probability value. Empty or malformed
// text reads as 0.
func ParseProbability(s string) float64 {
	if s == "" {
		return 0
	}
	p, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return p
}

// FormatProbability renders a probability for storage. Whole numbers render
// without a decimal point so a derived mean of 50 stores as "50".
func FormatProbability(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// ParseSeverity decodes a stored severity value. Empty or malformed text
// reads as 0 (unset).
func ParseSeverity(s string) int {
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

// FormatSeverity renders a severity for storage.
func FormatSeverity(s int) string {
	return strconv.Itoa(s)
}

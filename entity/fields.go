package entity

import "github.com/laskinner/dag-tui/store"

// Canonical record field names shared by causes and outcomes.
const (
	FieldID          = store.FieldID
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCausedBy    = "causedBy"
	FieldCauses      = "causes"
	FieldProbability = "probability"
	FieldSeverity    = "severity"
)

// CauseFields returns the field names of a cause row in canonical order.
func CauseFields() []string {
	return []string{
		FieldID,
		FieldTitle,
		FieldDescription,
		FieldCausedBy,
		FieldCauses,
		FieldProbability,
		FieldSeverity,
	}
}

// OutcomeFields returns the field names of an outcome row in canonical order.
// Outcomes carry no forward "causes" field; their probability and severity
// are derived, not authored.
func OutcomeFields() []string {
	return []string{
		FieldID,
		FieldTitle,
		FieldDescription,
		FieldCausedBy,
		FieldProbability,
		FieldSeverity,
	}
}

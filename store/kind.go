package store

import "fmt"

// Kind identifies which entity table a store operation targets.
type Kind string

const (
	// KindCause addresses the table of atomic risk causes.
	KindCause Kind = "cause"

	// KindOutcome addresses the table of derived outcomes.
	KindOutcome Kind = "outcome"
)

// IsValid returns true if the kind is a known entity kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindCause, KindOutcome:
		return true
	default:
		return false
	}
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// ParseKind parses a string into a Kind value.
// Returns an error if the string is not a known entity kind.
func ParseKind(s string) (Kind, error) {
	kind := Kind(s)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid entity kind: %s", s)
	}
	return kind, nil
}

// AllKinds returns all known entity kinds.
func AllKinds() []Kind {
	return []Kind{KindCause, KindOutcome}
}

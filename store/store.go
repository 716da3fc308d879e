package store

import (
	"context"
	"errors"
)

// FieldID is the field name every record must carry. Its value is the row's
// unique identifier within its entity kind.
const FieldID = "id"

// Common errors returned by entity store operations.
var (
	// ErrNotFound is returned when no row matches the requested id.
	ErrNotFound = errors.New("store: record not found")

	// ErrDuplicateID is returned when appending a row whose id already exists
	// within the same entity kind.
	ErrDuplicateID = errors.New("store: duplicate record id")

	// ErrInvalidKind is returned when an operation targets an unknown entity kind.
	ErrInvalidKind = errors.New("store: invalid entity kind")

	// ErrInvalidRecord is returned when a record is missing its id field.
	ErrInvalidRecord = errors.New("store: record missing id field")

	// ErrStoreFailed is returned when the underlying storage backend fails.
	ErrStoreFailed = errors.New("store: operation failed")
)

// Record is a single row: a mapping of field name to text value.
// Numeric fields (probability, severity) are stored as their decimal text
// representation; adjacency fields are comma-delimited id lists.
type Record map[string]string

// ID returns the record's id field, or the empty string if unset.
func (r Record) ID() string {
	return r[FieldID]
}

// Clone returns a deep copy of the record. Mutating the copy never affects
// the original.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// EntityStore is the persistence contract the risk graph engine depends on.
//
// Implementations must treat each Kind as an independent table: ids are
// unique per kind, not across kinds. All operations are synchronous and
// blocking; failures surface as errors rather than being swallowed, and the
// caller decides whether to retry.
//
// ReadAll returns rows in insertion order. An empty table yields an empty
// slice, not an error.
type EntityStore interface {
	// ReadAll returns every row of the given kind in insertion order.
	ReadAll(ctx context.Context, kind Kind) ([]Record, error)

	// Append inserts a new row. The caller supplies all fields including the
	// unique id. Returns ErrDuplicateID if a row with the same id exists.
	Append(ctx context.Context, kind Kind, rec Record) error

	// UpdateField updates exactly one field of the row matching id.
	// Returns ErrNotFound if no such row exists.
	UpdateField(ctx context.Context, kind Kind, id, field, value string) error

	// DeleteByID removes the row matching id.
	// Returns ErrNotFound if no such row exists.
	DeleteByID(ctx context.Context, kind Kind, id string) error
}

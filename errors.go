package dagtui

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Sentinel errors for common engine error conditions.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrCauseNotFound indicates the requested cause does not exist.
	ErrCauseNotFound = errors.New("cause not found")

	// ErrOutcomeNotFound indicates the requested outcome does not exist.
	ErrOutcomeNotFound = errors.New("outcome not found")

	// ErrDuplicateEntity indicates an add operation supplied an id that
	// already exists within the entity kind.
	ErrDuplicateEntity = errors.New("entity id already exists")

	// ErrInvalidEntity indicates the supplied entity failed validation.
	ErrInvalidEntity = errors.New("invalid entity")
)

// Error kinds categorize errors by their type.
const (
	// KindNotFound represents errors where an entity was not found.
	KindNotFound = "not_found"

	// KindValidation represents errors related to input validation.
	KindValidation = "validation"

	// KindStorage represents failures of the external entity store.
	KindStorage = "storage"

	// KindInternal represents internal engine errors.
	KindInternal = "internal"
)

// EngineError is a structured error type that wraps underlying errors with
// additional context about the operation that failed and the category of error.
//
// EngineError implements the error interface and supports error unwrapping,
// making it compatible with errors.Is() and errors.As().
type EngineError struct {
	// Op is the operation that failed (e.g., "Engine.AddCause").
	Op string

	// Kind categorizes the error (e.g., KindNotFound, KindStorage).
	Kind string

	// Err is the underlying error that caused this error.
	Err error

	// Context provides additional context about the error (optional),
	// such as the entity id or field involved.
	Context map[string]any
}

// Error implements the error interface, returning a formatted error message
// that includes the operation, kind, and underlying error.
func (e *EngineError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("dagtui: %s: %s", e.Op, e.Kind)
	}

	if len(e.Context) > 0 {
		return fmt.Sprintf("dagtui: %s (%s): %v [context: %+v]", e.Op, e.Kind, e.Err, e.Context)
	}

	return fmt.Sprintf("dagtui: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error, allowing errors.Is() and errors.As()
// to work correctly with wrapped errors.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// Is implements error matching for EngineError, allowing comparison based on
// the underlying error or the EngineError itself.
func (e *EngineError) Is(target error) bool {
	if target == nil {
		return false
	}

	if t, ok := target.(*EngineError); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			if t.Op == "" || e.Op == t.Op {
				return true
			}
		}
	}

	return errors.Is(e.Err, target)
}

// WithContext returns a new EngineError with the provided context added.
func (e *EngineError) WithContext(ctx map[string]any) *EngineError {
	newErr := *e
	if newErr.Context == nil {
		newErr.Context = make(map[string]any)
	}
	for k, v := range ctx {
		newErr.Context[k] = v
	}
	return &newErr
}

// NewNotFoundError creates a new EngineError with KindNotFound.
func NewNotFoundError(op string, err error) *EngineError {
	return &EngineError{
		Op:   op,
		Kind: KindNotFound,
		Err:  err,
	}
}

// NewValidationError creates a new EngineError with KindValidation.
func NewValidationError(op string, err error) *EngineError {
	return &EngineError{
		Op:   op,
		Kind: KindValidation,
		Err:  err,
	}
}

// NewStorageError creates a new EngineError with KindStorage.
func NewStorageError(op string, err error) *EngineError {
	return &EngineError{
		Op:   op,
		Kind: KindStorage,
		Err:  err,
	}
}

// NewInternalError creates a new EngineError with KindInternal.
func NewInternalError(op string, err error) *EngineError {
	return &EngineError{
		Op:   op,
		Kind: KindInternal,
		Err:  err,
	}
}

// CloseWithLog attempts to close the provided resource and logs any error
// at warning level. This is intended for use in defer statements so that
// cleanup errors on store backends are not silently ignored.
//
// The name parameter should describe the resource being closed (e.g.,
// "sqlite store", "redis connection"). If logger is nil, slog.Default()
// is used.
//
// Example usage:
//
//	defer dagtui.CloseWithLog(st, logger, "sqlite store")
func CloseWithLog(closer io.Closer, logger *slog.Logger, name string) {
	if closer == nil {
		return
	}

	if logger == nil {
		logger = slog.Default()
	}

	if err := closer.Close(); err != nil {
		logger.Warn("failed to close resource",
			"resource", name,
			"error", err)
	}
}

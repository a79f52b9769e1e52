package audit

import (
	"context"
	"fmt"
	"time"
)

// Decision is the outcome of a mediated permission check.
type Decision string

const (
	DecisionAllow Decision = "allow"
	DecisionDeny  Decision = "deny"
)

// Record is one access-control decision on the audit side channel.
type Record struct {
	// ID is a UUID assigned by the recorder.
	ID string

	// Timestamp is when the decision was observed.
	Timestamp time.Time

	// Hook is the extension point the decision was made under
	// (e.g. "dml", "invocation", "object_access").
	Hook string

	// Subject is the security label of the acting subject.
	Subject string

	// Target identifies what was checked: an object name, an object
	// address, or a target security label for transition checks.
	Target string

	// Class is the security class the check was evaluated against.
	Class string

	// Permissions is the rendered permission set, e.g. "{select insert}".
	Permissions string

	// Decision is the outcome.
	Decision Decision
}

// Query selects audit records. Zero-valued fields match everything.
type Query struct {
	// Since and Until bound the record timestamp (inclusive lower,
	// exclusive upper).
	Since *time.Time
	Until *time.Time

	// Decision filters by outcome when non-empty.
	Decision Decision

	// Class filters by security class when non-empty.
	Class string

	// Limit caps the number of returned records. Zero means the backend
	// default (1000).
	Limit int
}

// Storage is a backend for audit records. Implementations must be safe for
// concurrent use: the async recorder writes while queries run.
type Storage interface {
	// Store persists one record.
	Store(ctx context.Context, record *Record) error

	// Query returns records matching the query, newest first.
	Query(ctx context.Context, query *Query) ([]*Record, error)

	// Prune deletes records older than the given time and returns how
	// many were removed.
	Prune(ctx context.Context, before time.Time) (int64, error)

	// Close releases backend resources.
	Close() error
}

// StorageError wraps a backend failure with the backend name and the
// operation that failed.
type StorageError struct {
	Backend string
	Op      string
	Cause   error
}

// Error returns the error message.
func (e *StorageError) Error() string {
	return fmt.Sprintf("audit storage %s: %s: %v", e.Backend, e.Op, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

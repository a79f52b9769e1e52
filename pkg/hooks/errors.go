package hooks

import (
	"errors"
	"fmt"

	"seguard-hq/seguard/pkg/oracle"
)

// ErrAlreadyInstalled indicates a second Install on the same mediator.
var ErrAlreadyInstalled = errors.New("mediation hooks already installed")

// AccessDeniedError is a statement-level access denial. The host is
// expected to roll back the statement and surface it as a hard error,
// never to silently drop output.
type AccessDeniedError struct {
	// Class is the security class the denied check was evaluated against.
	Class oracle.ObjectClass

	// Permissions is the denied permission set.
	Permissions oracle.Permission

	// Object names what was denied: an object name or a target label.
	Object string
}

// Error returns the error message.
func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access denied: %s %s on %q", e.Class, e.Permissions, e.Object)
}

// FatalError is a session-ending failure. A session that cannot be
// labeled must never proceed with access control effectively disabled.
type FatalError struct {
	Message string
	Cause   error
}

// Error returns the error message.
func (e *FatalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fatal: %s: %v", e.Message, e.Cause)
	}
	return "fatal: " + e.Message
}

// Unwrap returns the underlying cause.
func (e *FatalError) Unwrap() error {
	return e.Cause
}

// ContractViolationError is a programming error in the host integration:
// an event the mediation layer never subscribed to, or a protocol misuse
// such as a double Start on an invocation frame. It aborts loudly rather
// than degrade silently.
type ContractViolationError struct {
	Message string
}

// Error returns the error message.
func (e *ContractViolationError) Error() string {
	return "hook contract violation: " + e.Message
}

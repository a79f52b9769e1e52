// Package session holds the per-session security state of the mediation
// layer: the subject's current security label, the enforcement mode, and the
// operation context that scopes command dispatch.
//
// # Security Labels
//
// A Label is an opaque mandatory-access-control context string (for example
// "user_u:user_r:user_t:s0"). The session label always identifies whoever the
// host engine is currently executing on behalf of. Label transfer is always a
// swap: SwapLabel returns the previous holder's label so a symmetric restore
// is possible at any nesting depth.
//
// # Enforcement Modes
//
// The mode moves forward only over the session's lifetime:
//
//	Disabled   - policy subsystem unavailable at startup (terminal)
//	Internal   - pre-authentication default
//	Permissive - denials are logged, not enforced
//	Enforcing  - denials block operations
//
// Internal transitions to exactly one of Permissive or Enforcing at the
// session's first successful authentication, and never transitions again.
//
// # Operation Context
//
// OperationContext records the command kind (and, for CREATE DATABASE, the
// named template source) for the dynamic extent of one possibly nested
// command dispatch. BeginDispatch snapshots the context and returns a restore
// function intended for defer, so the previous context is reinstated on every
// exit path including panic unwinding.
//
// State is session-scoped and single-threaded by design: the host completes
// one command before starting the next, so no internal locking is needed.
package session

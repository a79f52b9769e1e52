// Package hooks implements the mediation layer's entry points into the
// host query engine and dispatches the callbacks.
//
// The host exposes a set of extension points modelled by HookPoints: one
// function slot per lifecycle event (authentication completion, object
// creation, DML permission checks, function invocation boundaries, utility
// command dispatch, query execution start). Mediator.Install registers this
// layer's handler at every point exactly once, preserving whatever handler
// was previously installed and delegating to it in a fixed per-point order:
// most points delegate first and then apply this layer's own logic; the DML
// gate delegates first so a prior denial short-circuits this layer's more
// expensive policy queries; the trusted-procedure Start event runs this
// layer's label switch before delegating so chained handlers observe the
// switched label.
//
// All access decisions are delegated to the external Decision Oracle using
// the session's current subject label. The mediator only sequences the
// questions, propagates the subject label across nested and failing
// dispatches, and turns answers into errors:
//
//   - AccessDeniedError: statement-level denial, recoverable by rollback
//   - FatalError: the session must end (e.g. the peer cannot be labeled)
//   - ContractViolationError: programming error in the host integration,
//     surfaced loudly instead of degrading silently
//
// Every state mutation performed on entry to a nested dispatch is restored
// via defer on every exit path, including panic unwinding, so a failed
// statement never leaves residual context for the next one.
package hooks

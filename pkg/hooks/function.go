package hooks

import (
	"fmt"

	"seguard-hq/seguard/pkg/oracle"
)

// needsInvocationGuard tells the host whether the given function must be
// called through the invocation-boundary wrapper instead of being inlined.
//
// The wrapper is needed when a chained provider wants it, when the policy
// defines the function as a trusted procedure (its execution switches the
// subject label), or when the subject lacks execute permission. The last
// case forces the eventual permission error through the well-defined
// wrapper path rather than silent inlining. The execute probe is advisory
// and not audited; the authoritative check happens later on the normal
// execution path.
func (m *Mediator) needsInvocationGuard(functionID oracle.ObjectID) (bool, error) {
	defer m.timeHook("needs_guard")()

	if m.nextNeedsGuard != nil {
		yes, err := m.nextNeedsGuard(functionID)
		if err != nil {
			return false, err
		}
		if yes {
			return true, nil
		}
	}

	if _, ok := m.oracle.TransitionLabel(functionID); ok {
		return true, nil
	}

	allowed, err := m.oracle.CheckPermission(
		m.state.Label(),
		oracle.ObjectAddress{ObjectID: functionID},
		oracle.ClassProcedure,
		oracle.PermExecute,
		oracle.AuditNone,
	)
	if err != nil {
		return false, err
	}
	if !allowed {
		return true, nil
	}

	return false, nil
}

// invocationBoundary is the entry point of the trusted-procedure
// transition manager. It switches the subject label on Start of a trusted
// procedure and restores it on End or Abort.
//
// Per activation the state machine is Uninitialized -> Started ->
// {Ended, Aborted}; the frame lives in the host-provided private slot.
func (m *Mediator) invocationBoundary(event InvocationEvent, call *FunctionCall, slot *PrivateSlot) error {
	defer m.timeHook("invocation")()

	switch event {
	case InvocationStart:
		frame := slot.frame
		if frame == nil {
			frame = &InvocationFrame{}
			if label, ok := m.oracle.TransitionLabel(call.ID); ok {
				frame.newLabel = &label

				// process:transition between the current and the new
				// label, checked before any swap: a denial here aborts
				// the call before execution.
				allowed, err := m.oracle.CheckPermissionLabel(
					m.state.Label(),
					label,
					oracle.ClassProcess,
					oracle.PermTransition,
				)
				if err != nil {
					return err
				}
				m.observeDecision("invocation", m.state.Label(), string(label), oracle.ClassProcess, oracle.PermTransition, allowed, oracle.AuditDefault)
				if !m.permitted(allowed, oracle.ClassProcess, oracle.PermTransition, string(label)) {
					return &AccessDeniedError{
						Class:       oracle.ClassProcess,
						Permissions: oracle.PermTransition,
						Object:      string(label),
					}
				}
			}
			slot.frame = frame
		}

		if frame.oldLabel != nil {
			return &ContractViolationError{
				Message: fmt.Sprintf("invocation frame for function %d started twice", call.ID),
			}
		}
		if frame.newLabel != nil {
			old := m.state.SwapLabel(*frame.newLabel)
			frame.oldLabel = &old
			if m.metrics != nil {
				m.metrics.ObserveTransition()
			}
			m.logger.Debug("trusted procedure label switch",
				"function", call.Name,
				"old_label", string(old),
				"new_label", string(*frame.newLabel),
			)
		}

		if m.nextInvocation != nil {
			return m.nextInvocation(event, call, &frame.next)
		}
		return nil

	case InvocationEnd, InvocationAbort:
		frame := slot.frame
		if frame == nil {
			return &ContractViolationError{
				Message: fmt.Sprintf("invocation %s without start for function %d", event, call.ID),
			}
		}

		// Chained handlers run first so their cleanup observes the
		// still-switched label. Restoration is unconditional with
		// respect to their outcome.
		var nextErr error
		if m.nextInvocation != nil {
			nextErr = m.nextInvocation(event, call, &frame.next)
		}

		if frame.oldLabel != nil {
			m.state.SwapLabel(*frame.oldLabel)
			frame.oldLabel = nil
		}
		return nextErr

	default:
		return &ContractViolationError{
			Message: fmt.Sprintf("unexpected invocation event: %s", event),
		}
	}
}

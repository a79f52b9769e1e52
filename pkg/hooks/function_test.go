package hooks

import (
	"errors"
	"testing"

	"seguard-hq/seguard/pkg/oracle"
	"seguard-hq/seguard/pkg/session"
)

func TestNeedsGuard_TrustedProcedure(t *testing.T) {
	fo := &fakeOracle{
		transitions: map[oracle.ObjectID]session.Label{
			2001: "u:r:trusted_t:s0",
		},
	}
	m := newTestMediator(t, fo)
	points := &HookPoints{}
	if err := m.Install(points); err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	yes, err := points.NeedsInvocationGuard(2001)
	if err != nil {
		t.Fatalf("needs-guard failed: %v", err)
	}
	if !yes {
		t.Error("a trusted procedure must require the guard")
	}
}

func TestNeedsGuard_ExecuteDenied(t *testing.T) {
	fo := &fakeOracle{
		decide: func(class oracle.ObjectClass, perms oracle.Permission) bool {
			return !(class == oracle.ClassProcedure && perms == oracle.PermExecute)
		},
	}
	m := newTestMediator(t, fo)
	points := &HookPoints{}
	if err := m.Install(points); err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	yes, err := points.NeedsInvocationGuard(2002)
	if err != nil {
		t.Fatalf("needs-guard failed: %v", err)
	}
	if !yes {
		t.Error("a non-executable function must route through the guard")
	}
}

func TestNeedsGuard_PlainExecutableFunction(t *testing.T) {
	fo := &fakeOracle{}
	m := newTestMediator(t, fo)
	points := &HookPoints{}
	if err := m.Install(points); err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	yes, err := points.NeedsInvocationGuard(2003)
	if err != nil {
		t.Fatalf("needs-guard failed: %v", err)
	}
	if yes {
		t.Error("a plain executable function must not require the guard")
	}
}

func TestNeedsGuard_ChainedYesWins(t *testing.T) {
	fo := &fakeOracle{}
	m := newTestMediator(t, fo)
	points := &HookPoints{
		NeedsInvocationGuard: func(oracle.ObjectID) (bool, error) { return true, nil },
	}
	if err := m.Install(points); err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	yes, err := points.NeedsInvocationGuard(2004)
	if err != nil {
		t.Fatalf("needs-guard failed: %v", err)
	}
	if !yes {
		t.Error("a chained provider's yes must stand")
	}
}

// authenticate drives the mediator through a successful client
// authentication so invocation tests run with a client label.
func authenticate(t *testing.T, m *Mediator, points *HookPoints) {
	t.Helper()
	if err := points.Authentication(nil, AuthOK); err != nil {
		t.Fatalf("authentication failed: %v", err)
	}
}

func TestInvocation_StartEndSwapsAndRestores(t *testing.T) {
	fo := &fakeOracle{
		peerLabel: "u:r:client_t:s0",
		transitions: map[oracle.ObjectID]session.Label{
			3001: "u:r:trusted_t:s0",
		},
	}
	m := newTestMediator(t, fo)
	points := &HookPoints{}
	if err := m.Install(points); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	authenticate(t, m, points)

	call := &FunctionCall{ID: 3001, Name: "audit_insert"}
	slot := &PrivateSlot{}

	if err := points.Invocation(InvocationStart, call, slot); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if m.State().Label() != "u:r:trusted_t:s0" {
		t.Errorf("label during call = %q, want trusted label", m.State().Label())
	}
	// The transition check ran with the pre-swap subject.
	if fo.lastLabelSubject != "u:r:client_t:s0" {
		t.Errorf("transition check subject = %q, want pre-swap label", fo.lastLabelSubject)
	}

	if err := points.Invocation(InvocationEnd, call, slot); err != nil {
		t.Fatalf("end failed: %v", err)
	}
	if m.State().Label() != "u:r:client_t:s0" {
		t.Errorf("label after end = %q, want client label restored", m.State().Label())
	}
}

func TestInvocation_AbortRestoresLabel(t *testing.T) {
	fo := &fakeOracle{
		peerLabel: "u:r:client_t:s0",
		transitions: map[oracle.ObjectID]session.Label{
			3001: "u:r:trusted_t:s0",
		},
	}
	m := newTestMediator(t, fo)
	points := &HookPoints{}
	if err := m.Install(points); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	authenticate(t, m, points)

	call := &FunctionCall{ID: 3001, Name: "audit_insert"}
	slot := &PrivateSlot{}

	if err := points.Invocation(InvocationStart, call, slot); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := points.Invocation(InvocationAbort, call, slot); err != nil {
		t.Fatalf("abort failed: %v", err)
	}
	if m.State().Label() != "u:r:client_t:s0" {
		t.Errorf("label after abort = %q, want client label restored", m.State().Label())
	}
}

func TestInvocation_TransitionDenied(t *testing.T) {
	fo := &fakeOracle{
		peerLabel: "u:r:client_t:s0",
		transitions: map[oracle.ObjectID]session.Label{
			3001: "u:r:trusted_t:s0",
		},
		decide: func(class oracle.ObjectClass, perms oracle.Permission) bool {
			return !(class == oracle.ClassProcess && perms == oracle.PermTransition)
		},
	}
	m := newTestMediator(t, fo)
	points := &HookPoints{}
	if err := m.Install(points); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	authenticate(t, m, points)

	err := points.Invocation(InvocationStart, &FunctionCall{ID: 3001}, &PrivateSlot{})
	var denied *AccessDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected AccessDeniedError, got %v", err)
	}
	if m.State().Label() != "u:r:client_t:s0" {
		t.Errorf("label after denied start = %q, must be unchanged", m.State().Label())
	}
}

func TestInvocation_NonTrustedFunctionKeepsLabel(t *testing.T) {
	fo := &fakeOracle{peerLabel: "u:r:client_t:s0"}
	m := newTestMediator(t, fo)
	points := &HookPoints{}
	if err := m.Install(points); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	authenticate(t, m, points)

	call := &FunctionCall{ID: 3002, Name: "plain_fn"}
	slot := &PrivateSlot{}
	if err := points.Invocation(InvocationStart, call, slot); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if m.State().Label() != "u:r:client_t:s0" {
		t.Errorf("label = %q, must stay the client label", m.State().Label())
	}
	if err := points.Invocation(InvocationEnd, call, slot); err != nil {
		t.Fatalf("end failed: %v", err)
	}
}

func TestInvocation_DoubleStartIsContractViolation(t *testing.T) {
	fo := &fakeOracle{
		peerLabel: "u:r:client_t:s0",
		transitions: map[oracle.ObjectID]session.Label{
			3001: "u:r:trusted_t:s0",
		},
	}
	m := newTestMediator(t, fo)
	points := &HookPoints{}
	if err := m.Install(points); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	authenticate(t, m, points)

	call := &FunctionCall{ID: 3001}
	slot := &PrivateSlot{}
	if err := points.Invocation(InvocationStart, call, slot); err != nil {
		t.Fatalf("first start failed: %v", err)
	}
	err := points.Invocation(InvocationStart, call, slot)
	var violation *ContractViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected ContractViolationError, got %v", err)
	}
}

func TestInvocation_EndWithoutStartIsContractViolation(t *testing.T) {
	fo := &fakeOracle{peerLabel: "u:r:client_t:s0"}
	m := newTestMediator(t, fo)
	points := &HookPoints{}
	if err := m.Install(points); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	authenticate(t, m, points)

	err := points.Invocation(InvocationEnd, &FunctionCall{ID: 3002}, &PrivateSlot{})
	var violation *ContractViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected ContractViolationError, got %v", err)
	}
}

func TestInvocation_ChainedCleanupSeesSwitchedLabel(t *testing.T) {
	fo := &fakeOracle{
		peerLabel: "u:r:client_t:s0",
		transitions: map[oracle.ObjectID]session.Label{
			3001: "u:r:trusted_t:s0",
		},
	}
	m := newTestMediator(t, fo)

	var labelAtChainedEnd session.Label
	chainErr := errors.New("chained cleanup failed")
	points := &HookPoints{}
	if err := m.Install(points); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	m.nextInvocation = func(event InvocationEvent, call *FunctionCall, slot *PrivateSlot) error {
		if event == InvocationEnd {
			labelAtChainedEnd = m.State().Label()
			return chainErr
		}
		return nil
	}
	authenticate(t, m, points)

	call := &FunctionCall{ID: 3001}
	slot := &PrivateSlot{}
	if err := points.Invocation(InvocationStart, call, slot); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	err := points.Invocation(InvocationEnd, call, slot)
	if !errors.Is(err, chainErr) {
		t.Fatalf("chained error lost: %v", err)
	}
	if labelAtChainedEnd != "u:r:trusted_t:s0" {
		t.Errorf("chained cleanup saw %q, want the still-switched label", labelAtChainedEnd)
	}
	// The restore must happen regardless of the chained failure.
	if m.State().Label() != "u:r:client_t:s0" {
		t.Errorf("label after failing end = %q, want client label restored", m.State().Label())
	}
}

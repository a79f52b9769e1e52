package session

import "testing"

func TestBeginDispatch_RestoresOnExit(t *testing.T) {
	state := NewState("l", ModeInternal, nil)
	state.Operation().CommandKind = CommandSelect

	func() {
		defer state.BeginDispatch()()
		state.Operation().CommandKind = CommandCreateTable
		state.Operation().TemplateSource = "template0"
	}()

	if got := state.Operation().CommandKind; got != CommandSelect {
		t.Errorf("command kind not restored, got %q", got)
	}
	if got := state.Operation().TemplateSource; got != "" {
		t.Errorf("template source not restored, got %q", got)
	}
}

func TestBeginDispatch_NestedLIFO(t *testing.T) {
	state := NewState("l", ModeInternal, nil)

	outer := state.BeginDispatch()
	state.Operation().CommandKind = CommandCreateDatabase
	state.Operation().TemplateSource = "template1"

	inner := state.BeginDispatch()
	state.Operation().CommandKind = CommandSelect

	// The outer dispatch's template source is still visible to the inner
	// dispatch until it mutates it.
	if state.Operation().TemplateSource != "template1" {
		t.Errorf("inner dispatch lost outer template source")
	}

	inner()
	if state.Operation().CommandKind != CommandCreateDatabase {
		t.Errorf("inner restore wrong, got %q", state.Operation().CommandKind)
	}

	outer()
	if state.Operation().CommandKind != CommandUnknown {
		t.Errorf("outer restore wrong, got %q", state.Operation().CommandKind)
	}
}

func TestBeginDispatch_PanicTransparent(t *testing.T) {
	state := NewState("l", ModeInternal, nil)
	state.Operation().CommandKind = CommandInsert

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		func() {
			defer state.BeginDispatch()()
			state.Operation().CommandKind = CommandLoad
			panic("simulated error unwinding through nested dispatch")
		}()
	}()

	if got := state.Operation().CommandKind; got != CommandInsert {
		t.Errorf("context not restored across panic, got %q", got)
	}
}

package session

// CommandKind identifies the statement kind driving the current command
// dispatch. Host engines may define further kinds; the mediation layer only
// interprets the ones below.
type CommandKind string

const (
	// CommandUnknown is the zero value, outside any tracked dispatch.
	CommandUnknown CommandKind = ""

	CommandCreateTable         CommandKind = "CreateTable"
	CommandCreateView          CommandKind = "CreateView"
	CommandCreateSequence      CommandKind = "CreateSequence"
	CommandCreateCompositeType CommandKind = "CreateCompositeType"
	CommandCreateForeignTable  CommandKind = "CreateForeignTable"
	CommandCreateDatabase      CommandKind = "CreateDatabase"

	CommandSelect CommandKind = "Select"
	CommandInsert CommandKind = "Insert"
	CommandUpdate CommandKind = "Update"
	CommandDelete CommandKind = "Delete"

	// CommandLoad is dynamic native-code loading. Rejected outright in
	// enforcing mode because a loaded module could override these hooks.
	CommandLoad CommandKind = "Load"
)

// OperationContext is contextual information on the command currently being
// dispatched. It is scoped to the dynamic extent of one (possibly nested)
// dispatch and must be snapshotted before entering a nested dispatch.
type OperationContext struct {
	// CommandKind is the statement kind of the current dispatch.
	CommandKind CommandKind

	// TemplateSource is the template database named on a CREATE DATABASE
	// command. Remembered here because the source database may have no
	// reachable catalog record by the time the post-create event fires.
	// Empty elsewhere, including the defaulted case.
	TemplateSource string
}

// Operation returns the mutable operation context of the current dispatch.
// Callers inside a dispatch may set the command kind and template source;
// the enclosing BeginDispatch restore undoes any mutation.
func (s *State) Operation() *OperationContext {
	return &s.op
}

// BeginDispatch snapshots the operation context and returns the restore
// function. The restore must run on every exit path of the nested dispatch,
// so callers defer it immediately:
//
//	defer state.BeginDispatch()()   // or: restore := state.BeginDispatch(); defer restore()
//
// Restores are strictly nested (LIFO) and, via defer, transparent to panic
// unwinding.
func (s *State) BeginDispatch() func() {
	saved := s.op
	return func() {
		s.op = saved
	}
}

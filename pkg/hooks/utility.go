package hooks

import (
	"seguard-hq/seguard/pkg/oracle"
	"seguard-hq/seguard/pkg/session"
)

// utilityCommand is the entry point of the utility command hook. It
// captures the command kind (and the CREATE DATABASE template source) for
// the dynamic extent of the dispatch, and applies the coarse-grained
// denials that need no parse-tree detail.
func (m *Mediator) utilityCommand(stmt *UtilityStatement) error {
	defer m.timeHook("utility")()
	defer m.state.BeginDispatch()()

	op := m.state.Operation()
	op.CommandKind = stmt.Node.CommandKind()

	switch op.CommandKind {
	case session.CommandCreateDatabase:
		// Remember the template database named by the user. It is the
		// one fact not recoverable later: the source database may have
		// no reachable catalog record by post-create time. Advisory
		// extraction, first match wins.
		if node, ok := stmt.Node.(*CreateDatabaseNode); ok {
			for _, option := range node.Options {
				if option.Name == "template" {
					op.TemplateSource = option.Value
					break
				}
			}
		}

	case session.CommandLoad:
		// LOAD is rejected across the board in enforcing mode, before
		// any delegation: a loaded binary module could arbitrarily
		// override these hooks.
		if m.state.Enforcing() {
			return &AccessDeniedError{
				Class:       oracle.ClassDatabase,
				Permissions: oracle.PermLoadModule,
				Object:      "LOAD",
			}
		}

	default:
		// Other utility commands need more detailed information for an
		// access control decision than is worth a second parse here.
	}

	if m.nextUtility != nil {
		return m.nextUtility(stmt)
	}
	return nil
}

// executorStart is the entry point of the query execution hook. It maps
// the executor's operation onto the command kind so the object-lifecycle
// dispatcher can tell a SELECT INTO creation from an internal one.
func (m *Mediator) executorStart(desc *QueryDescriptor, flags int) error {
	defer m.timeHook("executor_start")()
	defer m.state.BeginDispatch()()

	op := m.state.Operation()
	switch desc.Operation {
	case OpSelect:
		op.CommandKind = session.CommandSelect
	case OpInsert:
		op.CommandKind = session.CommandInsert
	case OpUpdate:
		op.CommandKind = session.CommandUpdate
	case OpDelete:
		op.CommandKind = session.CommandDelete
	default:
		// Any other operation fails in the executor shortly after; no
		// context to capture.
	}

	if m.nextExecutorStart != nil {
		return m.nextExecutorStart(desc, flags)
	}
	return nil
}

package hooks

import "fmt"

// objectAccess is the entry point of the object lifecycle hook. It
// dispatches creation-completed events by catalog and sub-identity; the
// mediation layer never subscribes to anything else, so any other event
// kind aborts loudly.
func (m *Mediator) objectAccess(event ObjectEvent) error {
	defer m.timeHook("object_access")()

	if m.nextObjectAccess != nil {
		if err := m.nextObjectAccess(event); err != nil {
			return err
		}
	}

	if event.Kind != AccessPostCreate {
		return &ContractViolationError{
			Message: fmt.Sprintf("unexpected object access kind: %s", event.Kind),
		}
	}

	switch event.Class {
	case CatalogDatabase:
		return m.handlers.DatabasePostCreate(event.ObjectID, m.state.Operation().TemplateSource)

	case CatalogSchema:
		return m.handlers.SchemaPostCreate(event.ObjectID)

	case CatalogRelation:
		if event.SubID != 0 {
			return m.handlers.AttributePostCreate(event.ObjectID, event.SubID)
		}
		// A whole relation only gets creation checks when the current
		// command is a genuine user-facing creation. Other kinds create
		// relations incidentally (internal rewrites) and duplicate an
		// already-checked object.
		if m.relationCreationKinds[m.state.Operation().CommandKind] {
			return m.handlers.RelationPostCreate(event.ObjectID)
		}
		return nil

	case CatalogProcedure:
		return m.handlers.ProcedurePostCreate(event.ObjectID)

	default:
		// Unsupported object classes are not under mediation.
		return nil
	}
}

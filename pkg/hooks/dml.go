package hooks

import "seguard-hq/seguard/pkg/oracle"

// dmlPermissionCheck is the entry point of the DML permission hook.
//
// Security providers stack conjunctively: if a previously chained provider
// already denied, this layer's own (more expensive) policy queries are
// never issued.
func (m *Mediator) dmlPermissionCheck(refs []RangeTableRef, abortOnDeny bool) (bool, error) {
	defer m.timeHook("dml")()

	if m.nextDML != nil {
		ok, err := m.nextDML(refs, abortOnDeny)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}

	return m.checkDMLPrivileges(refs, abortOnDeny)
}

// checkDMLPrivileges evaluates this layer's per-table and per-column
// policy queries. Denial is binary: the caller raises a hard error, rows
// are never silently filtered.
func (m *Mediator) checkDMLPrivileges(refs []RangeTableRef, abortOnDeny bool) (bool, error) {
	subject := m.state.Label()

	for _, ref := range refs {
		if ref.Required == 0 && len(ref.Columns) == 0 {
			continue
		}

		if ref.Required != 0 {
			allowed, err := m.oracle.CheckPermission(
				subject,
				oracle.ObjectAddress{ObjectID: ref.TableID},
				oracle.ClassTable,
				ref.Required,
				oracle.AuditDefault,
			)
			if err != nil {
				return false, err
			}
			m.observeDecision("dml", subject, ref.Name, oracle.ClassTable, ref.Required, allowed, oracle.AuditDefault)
			if !m.permitted(allowed, oracle.ClassTable, ref.Required, ref.Name) {
				return m.denyDML(abortOnDeny, oracle.ClassTable, ref.Required, ref.Name)
			}
		}

		for _, col := range ref.Columns {
			if col.Required == 0 {
				continue
			}
			allowed, err := m.oracle.CheckPermission(
				subject,
				oracle.ObjectAddress{ObjectID: ref.TableID, SubID: col.SubID},
				oracle.ClassColumn,
				col.Required,
				oracle.AuditDefault,
			)
			if err != nil {
				return false, err
			}
			name := ref.Name + "." + col.Name
			m.observeDecision("dml", subject, name, oracle.ClassColumn, col.Required, allowed, oracle.AuditDefault)
			if !m.permitted(allowed, oracle.ClassColumn, col.Required, name) {
				return m.denyDML(abortOnDeny, oracle.ClassColumn, col.Required, name)
			}
		}
	}

	return true, nil
}

func (m *Mediator) denyDML(abortOnDeny bool, class oracle.ObjectClass, perms oracle.Permission, object string) (bool, error) {
	if abortOnDeny {
		return false, &AccessDeniedError{Class: class, Permissions: perms, Object: object}
	}
	return false, nil
}

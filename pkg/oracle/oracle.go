package oracle

import (
	"strings"

	"seguard-hq/seguard/pkg/session"
)

// ObjectID identifies a catalog object (relation, procedure, database...)
// within the host engine.
type ObjectID uint64

// ObjectAddress addresses an object or sub-object for a permission check.
// SubID is zero for whole objects and a positive column number for columns.
type ObjectAddress struct {
	ObjectID ObjectID
	SubID    int
}

// ObjectClass is the security class a permission check is evaluated
// against. The names follow the policy engine's database object classes.
type ObjectClass string

const (
	ClassDatabase  ObjectClass = "db_database"
	ClassSchema    ObjectClass = "db_schema"
	ClassTable     ObjectClass = "db_table"
	ClassColumn    ObjectClass = "db_column"
	ClassProcedure ObjectClass = "db_procedure"
	ClassProcess   ObjectClass = "process"
)

// Permission is a bitmask of requested access vectors.
type Permission uint32

const (
	PermCreate Permission = 1 << iota
	PermDrop
	PermSelect
	PermInsert
	PermUpdate
	PermDelete
	PermExecute
	PermLoadModule
	PermTransition
)

var permNames = []struct {
	bit  Permission
	name string
}{
	{PermCreate, "create"},
	{PermDrop, "drop"},
	{PermSelect, "select"},
	{PermInsert, "insert"},
	{PermUpdate, "update"},
	{PermDelete, "delete"},
	{PermExecute, "execute"},
	{PermLoadModule, "load_module"},
	{PermTransition, "transition"},
}

// String renders the permission set as "{select insert}", the form used in
// denial messages and audit records.
func (p Permission) String() string {
	var names []string
	for _, pn := range permNames {
		if p&pn.bit != 0 {
			names = append(names, pn.name)
		}
	}
	return "{" + strings.Join(names, " ") + "}"
}

// AuditMode controls whether a permission check is recorded on the audit
// side channel.
type AuditMode int

const (
	// AuditDefault records the decision when debug auditing is enabled.
	AuditDefault AuditMode = iota

	// AuditNone suppresses the audit record. Used for advisory probes
	// (such as the needs-wrapper execute check) whose real check follows
	// later on the normal path.
	AuditNone
)

// Oracle is the external policy decision engine. All methods are
// synchronous; the mediation layer never suspends around them.
type Oracle interface {
	// Available reports whether the policy subsystem is usable at all.
	// When false the mediation layer runs in disabled mode: no hooks are
	// installed and nothing is enforced.
	Available() bool

	// ProcessLabel returns the security label of the host server process,
	// used as the pre-authentication subject label.
	ProcessLabel() (session.Label, error)

	// PeerLabel returns the security label of the client on the other end
	// of the given transport handle. Failure here is fatal to the
	// session: an unlabelable session must never proceed.
	PeerLabel(transport any) (session.Label, error)

	// CheckPermission asks whether subject may exercise perms on the
	// addressed object under the given security class. The audit mode is
	// advisory metadata for the caller's audit trail, not a decision
	// input.
	CheckPermission(subject session.Label, target ObjectAddress, class ObjectClass, perms Permission, audit AuditMode) (bool, error)

	// CheckPermissionLabel is CheckPermission against an explicit target
	// label rather than a catalog object. Used for process:transition
	// checks before a trusted-procedure label switch.
	CheckPermissionLabel(subject, target session.Label, class ObjectClass, perms Permission) (bool, error)

	// TransitionLabel returns the label the subject switches to while
	// executing the given function, if the policy defines the function as
	// a trusted procedure.
	TransitionLabel(functionID ObjectID) (session.Label, bool)
}

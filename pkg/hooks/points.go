package hooks

import (
	"fmt"

	"seguard-hq/seguard/pkg/oracle"
	"seguard-hq/seguard/pkg/session"
)

// AuthStatus is the outcome the host reports on authentication completion.
type AuthStatus int

const (
	AuthOK AuthStatus = iota
	AuthFailed
)

// AccessKind is the kind of an object lifecycle event. The mediation layer
// subscribes to creation-completion events only; receiving any other kind
// is a contract violation.
type AccessKind int

const (
	AccessPostCreate AccessKind = iota
	AccessDrop
	AccessNamespaceSearch
)

// String returns the event kind name used in error messages.
func (k AccessKind) String() string {
	switch k {
	case AccessPostCreate:
		return "post-create"
	case AccessDrop:
		return "drop"
	case AccessNamespaceSearch:
		return "namespace-search"
	default:
		return fmt.Sprintf("access-kind(%d)", int(k))
	}
}

// Catalog identifies which system catalog a lifecycle event's object
// belongs to.
type Catalog int

const (
	CatalogDatabase Catalog = iota
	CatalogSchema
	CatalogRelation
	CatalogProcedure
	// CatalogOther stands for any catalog the mediation layer does not
	// supervise; events there are ignored.
	CatalogOther
)

// ObjectEvent is an object lifecycle event delivered by the host.
// SubID is zero for whole objects and the column number for columns of a
// relation.
type ObjectEvent struct {
	Kind     AccessKind
	Class    Catalog
	ObjectID oracle.ObjectID
	SubID    int
}

// ColumnRef names one referenced column of a DML range table entry.
type ColumnRef struct {
	SubID    int
	Name     string
	Required oracle.Permission
}

// RangeTableRef is one table or view referenced by a DML statement,
// together with the access the executor determined it needs.
type RangeTableRef struct {
	TableID  oracle.ObjectID
	Name     string
	Required oracle.Permission
	Columns  []ColumnRef
}

// FunctionCall identifies a function activation at an invocation boundary.
type FunctionCall struct {
	ID   oracle.ObjectID
	Name string
}

// InvocationEvent is the phase of a guarded function invocation.
type InvocationEvent int

const (
	InvocationStart InvocationEvent = iota
	InvocationEnd
	InvocationAbort
)

// String returns the event name used in error messages.
func (e InvocationEvent) String() string {
	switch e {
	case InvocationStart:
		return "start"
	case InvocationEnd:
		return "end"
	case InvocationAbort:
		return "abort"
	default:
		return fmt.Sprintf("invocation-event(%d)", int(e))
	}
}

// PrivateSlot is the per-activation storage the host hands to every
// invocation boundary event of one function call. Each link in the hook
// chain owns one slot and threads a private sub-slot to the next link, so
// stacked security providers never trample each other's state.
type PrivateSlot struct {
	frame *InvocationFrame
}

// InvocationFrame is the per-activation record of the trusted-procedure
// transition manager. It is created lazily on the first Start of an
// activation. oldLabel is set at most once per activation (a second Start
// with it still set is a contract violation) and cleared exactly once on
// End or Abort.
type InvocationFrame struct {
	oldLabel *session.Label
	newLabel *session.Label
	next     PrivateSlot
}

// CommandNode is a parsed utility command. The mediation layer only ever
// inspects the command kind and, for CREATE DATABASE, the options list; it
// deliberately has no other knowledge of the host's parse trees.
type CommandNode interface {
	CommandKind() session.CommandKind
}

// GenericNode is a CommandNode carrying nothing but its kind. Hosts use it
// for every command the mediation layer has no structural interest in.
type GenericNode struct {
	Kind session.CommandKind
}

// CommandKind returns the statement kind.
func (n *GenericNode) CommandKind() session.CommandKind { return n.Kind }

// CommandOption is one name/value option of a utility command.
type CommandOption struct {
	Name  string
	Value string
}

// CreateDatabaseNode is the parsed form of a CREATE DATABASE command.
type CreateDatabaseNode struct {
	Name    string
	Options []CommandOption
}

// CommandKind returns session.CommandCreateDatabase.
func (n *CreateDatabaseNode) CommandKind() session.CommandKind {
	return session.CommandCreateDatabase
}

// UtilityStatement is one utility command dispatch.
type UtilityStatement struct {
	Node          CommandNode
	Query         string
	Params        []any
	IsTopLevel    bool
	Dest          any
	CompletionTag *string
}

// QueryOperation is the executor's operation classification.
type QueryOperation int

const (
	OpUnknown QueryOperation = iota
	OpSelect
	OpInsert
	OpUpdate
	OpDelete
)

// QueryDescriptor describes a query entering the executor.
type QueryDescriptor struct {
	Operation QueryOperation
	Query     string
}

// Handler signatures of the host's extension points.
type (
	AuthenticationFunc       func(transport any, status AuthStatus) error
	ObjectAccessFunc         func(event ObjectEvent) error
	DMLPermissionFunc        func(refs []RangeTableRef, abortOnDeny bool) (bool, error)
	NeedsInvocationGuardFunc func(functionID oracle.ObjectID) (bool, error)
	InvocationFunc           func(event InvocationEvent, call *FunctionCall, slot *PrivateSlot) error
	UtilityFunc              func(stmt *UtilityStatement) error
	ExecutorStartFunc        func(desc *QueryDescriptor, flags int) error
)

// HookPoints is the host's set of extension point slots, the explicit
// model of its hook function pointers. The host initializes the Utility
// and ExecutorStart slots with its standard dispatch implementations;
// installing a handler chains in front of whatever is present.
type HookPoints struct {
	Authentication       AuthenticationFunc
	ObjectAccess         ObjectAccessFunc
	DMLPermission        DMLPermissionFunc
	NeedsInvocationGuard NeedsInvocationGuardFunc
	Invocation           InvocationFunc
	Utility              UtilityFunc
	ExecutorStart        ExecutorStartFunc
}

package hooks

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"seguard-hq/seguard/pkg/audit"
	"seguard-hq/seguard/pkg/oracle"
	"seguard-hq/seguard/pkg/session"
	"seguard-hq/seguard/pkg/telemetry/metrics"
)

// Settings holds the runtime enforcement flags. They are the only mutable
// configuration: the config watcher may update them mid-session, so they
// are read atomically.
type Settings struct {
	permissive atomic.Bool
	debugAudit atomic.Bool
}

// NewSettings creates settings with the given initial flag values.
func NewSettings(permissive, debugAudit bool) *Settings {
	s := &Settings{}
	s.Update(permissive, debugAudit)
	return s
}

// Permissive reports whether authentication selects permissive mode.
func (s *Settings) Permissive() bool { return s.permissive.Load() }

// DebugAudit reports whether every decision is audited.
func (s *Settings) DebugAudit() bool { return s.debugAudit.Load() }

// Update replaces both flag values.
func (s *Settings) Update(permissive, debugAudit bool) {
	s.permissive.Store(permissive)
	s.debugAudit.Store(debugAudit)
}

// ObjectHandlers receives the routed object-creation events. Labeling new
// objects and the catalog work behind it are out of scope for the
// mediation layer, so hosts plug in their implementation here.
type ObjectHandlers interface {
	DatabasePostCreate(id oracle.ObjectID, templateSource string) error
	SchemaPostCreate(id oracle.ObjectID) error
	RelationPostCreate(id oracle.ObjectID) error
	AttributePostCreate(id oracle.ObjectID, subID int) error
	ProcedurePostCreate(id oracle.ObjectID) error
}

// NoopObjectHandlers ignores every routed event.
type NoopObjectHandlers struct{}

func (NoopObjectHandlers) DatabasePostCreate(oracle.ObjectID, string) error { return nil }
func (NoopObjectHandlers) SchemaPostCreate(oracle.ObjectID) error           { return nil }
func (NoopObjectHandlers) RelationPostCreate(oracle.ObjectID) error         { return nil }
func (NoopObjectHandlers) AttributePostCreate(oracle.ObjectID, int) error   { return nil }
func (NoopObjectHandlers) ProcedurePostCreate(oracle.ObjectID) error        { return nil }

// defaultRelationCreationKinds is the set of command kinds treated as
// genuine user-facing relation creation. Relations created incidentally
// under any other kind (such as an internal table rewrite) duplicate an
// already-checked object rather than introduce a new one, and are skipped.
//
// The set is host-version-specific policy, not a fixed law; Options lets
// integrations extend it.
var defaultRelationCreationKinds = []session.CommandKind{
	session.CommandCreateTable,
	session.CommandCreateView,
	session.CommandCreateSequence,
	session.CommandCreateCompositeType,
	session.CommandCreateForeignTable,
	session.CommandSelect, // SELECT INTO / CREATE TABLE AS
}

// Options configures a Mediator.
type Options struct {
	// Oracle is the external policy decision engine. Required.
	Oracle oracle.Oracle

	// Handlers receives routed object-creation events.
	// Default: NoopObjectHandlers.
	Handlers ObjectHandlers

	// Settings are the runtime enforcement flags.
	// Default: enforcing, no debug audit.
	Settings *Settings

	// Recorder, when set, receives an audit record for every decision
	// while the debug-audit flag is on.
	Recorder *audit.Recorder

	// Metrics, when set, observes decisions, transitions, and hook
	// dispatch latency.
	Metrics *metrics.DecisionMetrics

	// RelationCreationKinds overrides the command kinds treated as
	// genuine relation creation. Nil keeps the default set.
	RelationCreationKinds []session.CommandKind

	// Logger is the structured logger. Default: slog.Default.
	Logger *slog.Logger
}

// Mediator is the security mediation layer: it owns the per-session
// security state and implements one handler per extension point.
//
// A Mediator is session-scoped. Like the rest of the session state it
// relies on the host's one-command-at-a-time execution model and performs
// no internal locking (the Settings flags are the one exception, since the
// config watcher writes them from its own goroutine).
type Mediator struct {
	state    *session.State
	oracle   oracle.Oracle
	handlers ObjectHandlers
	settings *Settings
	recorder *audit.Recorder
	metrics  *metrics.DecisionMetrics
	logger   *slog.Logger

	relationCreationKinds map[session.CommandKind]bool

	installed bool

	// Previously installed handlers, preserved at Install time.
	nextAuth          AuthenticationFunc
	nextObjectAccess  ObjectAccessFunc
	nextDML           DMLPermissionFunc
	nextNeedsGuard    NeedsInvocationGuardFunc
	nextInvocation    InvocationFunc
	nextUtility       UtilityFunc
	nextExecutorStart ExecutorStartFunc
}

// New creates a mediator.
//
// If the policy subsystem is unavailable the mediator starts in disabled
// mode: Install becomes a no-op and nothing is ever enforced. Otherwise
// the session starts in internal mode with the host process's own label as
// subject, to be replaced by the peer label at authentication.
func New(opts Options) (*Mediator, error) {
	if opts.Oracle == nil {
		return nil, fmt.Errorf("decision oracle is required")
	}
	if opts.Handlers == nil {
		opts.Handlers = NoopObjectHandlers{}
	}
	if opts.Settings == nil {
		opts.Settings = NewSettings(false, false)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	logger := opts.Logger.With("component", "hooks")

	kinds := opts.RelationCreationKinds
	if kinds == nil {
		kinds = defaultRelationCreationKinds
	}
	kindSet := make(map[session.CommandKind]bool, len(kinds))
	for _, k := range kinds {
		kindSet[k] = true
	}

	m := &Mediator{
		oracle:                opts.Oracle,
		handlers:              opts.Handlers,
		settings:              opts.Settings,
		recorder:              opts.Recorder,
		metrics:               opts.Metrics,
		logger:                logger,
		relationCreationKinds: kindSet,
	}

	if !opts.Oracle.Available() {
		m.state = session.NewState("", session.ModeDisabled, opts.Logger)
		logger.Warn("policy subsystem unavailable, mediation disabled")
		return m, nil
	}

	label, err := opts.Oracle.ProcessLabel()
	if err != nil {
		return nil, &FatalError{Message: "failed to get server process label", Cause: err}
	}
	m.state = session.NewState(label, session.ModeInternal, opts.Logger)

	logger.Info("mediator initialized",
		"process_label", string(label),
		"mode", m.state.Mode().String(),
	)
	return m, nil
}

// State exposes the session security state, mainly for the host's own
// introspection and for tests.
func (m *Mediator) State() *session.State {
	return m.state
}

// Install registers this layer's handler at every extension point exactly
// once, preserving the previously installed handlers. In disabled mode it
// registers nothing and returns nil.
func (m *Mediator) Install(points *HookPoints) error {
	if points == nil {
		return fmt.Errorf("hook points are required")
	}
	if m.installed {
		return ErrAlreadyInstalled
	}
	m.installed = true

	if m.state.Mode() == session.ModeDisabled {
		m.logger.Info("mediation disabled, hooks not installed")
		return nil
	}

	m.nextAuth = points.Authentication
	points.Authentication = m.authenticationComplete

	m.nextObjectAccess = points.ObjectAccess
	points.ObjectAccess = m.objectAccess

	m.nextDML = points.DMLPermission
	points.DMLPermission = m.dmlPermissionCheck

	m.nextNeedsGuard = points.NeedsInvocationGuard
	points.NeedsInvocationGuard = m.needsInvocationGuard

	m.nextInvocation = points.Invocation
	points.Invocation = m.invocationBoundary

	m.nextUtility = points.Utility
	points.Utility = m.utilityCommand

	m.nextExecutorStart = points.ExecutorStart
	points.ExecutorStart = m.executorStart

	m.logger.Info("mediation hooks installed")
	return nil
}

// timeHook returns a completion callback observing the dispatch latency of
// one hook invocation.
func (m *Mediator) timeHook(hook string) func() {
	if m.metrics == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.metrics.ObserveHook(hook, time.Since(start))
	}
}

// observeDecision feeds one oracle answer to the observability side
// channels. AuditNone suppresses the audit record (advisory probes); it
// never affects the decision itself.
func (m *Mediator) observeDecision(hook string, subject session.Label, target string, class oracle.ObjectClass, perms oracle.Permission, allowed bool, auditMode oracle.AuditMode) {
	if m.metrics != nil {
		m.metrics.ObserveDecision(string(class), allowed)
	}
	if auditMode == oracle.AuditNone {
		return
	}
	if m.recorder == nil || !m.settings.DebugAudit() {
		return
	}
	decision := audit.DecisionAllow
	if !allowed {
		decision = audit.DecisionDeny
	}
	m.recorder.Record(audit.Record{
		Hook:        hook,
		Subject:     string(subject),
		Target:      target,
		Class:       string(class),
		Permissions: perms.String(),
		Decision:    decision,
	})
}

// permitted applies the enforcement mode to an oracle denial: permissive
// mode logs the denial and lets the operation proceed.
func (m *Mediator) permitted(allowed bool, class oracle.ObjectClass, perms oracle.Permission, object string) bool {
	if allowed {
		return true
	}
	if m.state.Mode() == session.ModePermissive {
		m.logger.Warn("permissive: would deny",
			"class", string(class),
			"permissions", perms.String(),
			"object", object,
			"subject", string(m.state.Label()),
		)
		return true
	}
	return false
}

package session

import (
	"fmt"
	"log/slog"
)

// Label is an opaque security context identifying a subject or object.
// The mediation layer never interprets its contents; only the external
// policy engine does.
type Label string

// Mode is the enforcement mode of the session.
type Mode int

const (
	// ModeDisabled means the policy subsystem was unavailable at startup.
	// No hooks are installed and nothing is enforced. Terminal.
	ModeDisabled Mode = iota

	// ModeInternal is the pre-authentication default. Background sessions
	// that never authenticate stay in this mode with the server process
	// label.
	ModeInternal

	// ModePermissive evaluates policy but logs denials instead of
	// enforcing them.
	ModePermissive

	// ModeEnforcing blocks operations on denial.
	ModeEnforcing
)

// String returns the mode name used in logs and audit records.
func (m Mode) String() string {
	switch m {
	case ModeDisabled:
		return "disabled"
	case ModeInternal:
		return "internal"
	case ModePermissive:
		return "permissive"
	case ModeEnforcing:
		return "enforcing"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ModeTransitionError reports an attempt to move the enforcement mode
// against the forward-only invariant. It is a programming error, not a
// policy decision.
type ModeTransitionError struct {
	From Mode
	To   Mode
}

// Error returns the error message.
func (e *ModeTransitionError) Error() string {
	return fmt.Sprintf("illegal enforcement mode transition %s -> %s", e.From, e.To)
}

// State is the per-session security state. It is owned by exactly one
// session and must not be shared across sessions; the host's one-command-
// at-a-time execution model makes internal locking unnecessary.
type State struct {
	label Label
	mode  Mode
	op    OperationContext

	logger *slog.Logger
}

// NewState creates session state with the given initial subject label and
// mode. At module init the label is the host process label and the mode is
// ModeInternal (or ModeDisabled when the policy subsystem is unavailable).
func NewState(label Label, mode Mode, logger *slog.Logger) *State {
	if logger == nil {
		logger = slog.Default()
	}
	return &State{
		label:  label,
		mode:   mode,
		logger: logger.With("component", "session"),
	}
}

// Label returns the current subject label.
func (s *State) Label() Label {
	return s.label
}

// SwapLabel installs a new subject label and returns the previous one.
// Every label transfer goes through here so the caller can always restore
// symmetrically.
func (s *State) SwapLabel(label Label) Label {
	old := s.label
	s.label = label
	return old
}

// Mode returns the current enforcement mode.
func (s *State) Mode() Mode {
	return s.mode
}

// Enforcing reports whether denials currently block operations.
func (s *State) Enforcing() bool {
	return s.mode == ModeEnforcing
}

// SetMode moves the enforcement mode forward. The only legal transitions
// are Internal -> Permissive and Internal -> Enforcing, performed once at
// the session's first successful authentication.
func (s *State) SetMode(mode Mode) error {
	if s.mode != ModeInternal || (mode != ModePermissive && mode != ModeEnforcing) {
		return &ModeTransitionError{From: s.mode, To: mode}
	}
	s.logger.Debug("enforcement mode set",
		"from", s.mode.String(),
		"to", mode.String(),
	)
	s.mode = mode
	return nil
}

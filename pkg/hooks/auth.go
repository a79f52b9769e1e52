package hooks

import "seguard-hq/seguard/pkg/session"

// authenticationComplete is the entry point of the authentication hook.
// It switches the session label to the peer's label and moves the
// enforcement mode out of internal, once, on the session's first
// successful authentication.
func (m *Mediator) authenticationComplete(transport any, status AuthStatus) error {
	defer m.timeHook("authentication")()

	if m.nextAuth != nil {
		if err := m.nextAuth(transport, status); err != nil {
			return err
		}
	}

	// On failed authentication the transport is closed shortly after;
	// there is nothing to label.
	if status != AuthOK {
		return nil
	}

	peer, err := m.oracle.PeerLabel(transport)
	if err != nil {
		// A session whose peer cannot be labeled must never proceed
		// with access control effectively disabled.
		return &FatalError{Message: "unable to get peer label", Cause: err}
	}

	m.state.SwapLabel(peer)

	mode := session.ModeEnforcing
	if m.settings.Permissive() {
		mode = session.ModePermissive
	}
	if err := m.state.SetMode(mode); err != nil {
		return &ContractViolationError{Message: "authentication completed twice: " + err.Error()}
	}

	m.logger.Info("session labeled",
		"peer_label", string(peer),
		"mode", mode.String(),
	)
	return nil
}

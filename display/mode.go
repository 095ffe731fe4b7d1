package display

import (
	"fmt"
	"time"
)

// WindowGetMode returns the window's current mode. Unknown ids fail closed
// to ModeWindowed.
func (s *Server) WindowGetMode(id WindowID) WindowMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wd, ok := s.window(id); ok {
		return wd.mode
	}
	return ModeWindowed
}

// WindowSetMode drives the mode state machine. Calling with the current
// mode is a no-op and issues no protocol requests. The un-set/set ordering
// below is load-bearing: some window managers ignore a higher-priority state
// request while a lower-priority hint is in the wrong position.
func (s *Server) WindowSetMode(mode WindowMode, id WindowID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	wd, ok := s.windows[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidWindow, id)
	}
	err := s.setModeLocked(wd, mode)
	s.flush()
	return err
}

func (s *Server) setModeLocked(wd *windowData, mode WindowMode) error {
	if wd.mode == mode {
		return nil
	}

	// Leave the current mode first.
	switch wd.mode {
	case ModeWindowed:
		// Nothing to undo.
	case ModeMinimized:
		if err := s.conn.SetIconified(wd.handle, false); err != nil {
			s.logger.Warn("restore from minimized failed", "window_id", wd.id, "error", err)
		}
	case ModeFullscreen:
		wd.mode = ModeWindowed
		s.setWMFullscreen(wd, false)
		// The on-top flag rides on the maximized hint while fullscreen;
		// drop it before the window is repositioned.
		if wd.flags[FlagAlwaysOnTop] {
			s.setWMMaximized(wd, false)
		}
		s.setPositionLocked(wd, wd.lastPositionBeforeFullscreen)
	case ModeMaximized:
		s.setWMMaximized(wd, false)
	}

	// Enter the target mode.
	switch mode {
	case ModeWindowed:
		wd.mode = ModeWindowed
	case ModeMinimized:
		// Fire and forget: confirmation never arrives on some managers.
		if err := s.conn.SetIconified(wd.handle, true); err != nil {
			s.logger.Warn("minimize failed", "window_id", wd.id, "error", err)
		}
		wd.mode = ModeMinimized
	case ModeFullscreen:
		wd.lastPositionBeforeFullscreen = wd.position
		// Set the maximized hint first when on-top: managers ignore the
		// fullscreen request while the lower-priority hint is unset.
		if wd.flags[FlagAlwaysOnTop] {
			s.setWMMaximized(wd, true)
		}
		wd.mode = ModeFullscreen
		s.setWMFullscreen(wd, true)
	case ModeMaximized:
		wd.mode = ModeWindowed
		if s.setWMMaximized(wd, true) {
			wd.mode = ModeMaximized
		}
	default:
		return fmt.Errorf("%w: unknown mode %d", ErrInvalidState, mode)
	}
	return nil
}

// setWMMaximized sends the maximize request and, when enabling, probes for
// the manager honoring it. The protocol never obligates the manager to
// comply, so the probe gives up after a bounded number of attempts and the
// local state converges to whatever was observed.
func (s *Server) setWMMaximized(wd *windowData, on bool) bool {
	if err := s.conn.SetMaximized(wd.handle, on); err != nil {
		s.logger.Warn("maximize request failed", "window_id", wd.id, "on", on, "error", err)
		return false
	}
	if !on {
		return true
	}

	allowed, err := s.conn.MaximizeAllowed(wd.handle)
	if err != nil {
		s.logger.Warn("maximize allowed query failed", "window_id", wd.id, "error", err)
		return false
	}
	if !allowed {
		return false
	}
	for attempt := 0; attempt < maximizeProbeAttempts; attempt++ {
		state, err := s.conn.WMState(wd.handle)
		if err == nil && state.Maximized {
			return true
		}
		time.Sleep(s.maximizeProbeInterval)
	}
	// Not honored within the timeout. Accepted silently as a no-op.
	return false
}

// setWMFullscreen sends the fullscreen state request with the decoration
// and size-hint bookkeeping around it.
func (s *Server) setWMFullscreen(wd *windowData, on bool) {
	if on && !wd.flags[FlagBorderless] {
		// Remove decorations for the duration of fullscreen.
		if err := s.conn.SetDecorated(wd.handle, false); err != nil {
			s.logger.Warn("undecorate for fullscreen failed", "window_id", wd.id, "error", err)
		}
	}
	if on {
		// Publish unconstrained hints so the manager treats the window
		// as resizable; otherwise the fullscreen flag may be ignored.
		s.updateSizeHints(wd)
	}
	if err := s.conn.SetFullscreen(wd.handle, on); err != nil {
		s.logger.Warn("fullscreen request failed", "window_id", wd.id, "on", on, "error", err)
	}
	if !on {
		// Restore the real constraints and the decorations implied by
		// the borderless flag.
		s.updateSizeHints(wd)
		if err := s.conn.SetDecorated(wd.handle, !wd.flags[FlagBorderless]); err != nil {
			s.logger.Warn("redecorate after fullscreen failed", "window_id", wd.id, "error", err)
		}
	}
}

// WindowGetFlag returns a flag's current value. Unknown ids fail closed to
// false.
func (s *Server) WindowGetFlag(flag WindowFlag, id WindowID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	wd, ok := s.window(id)
	if !ok || flag < 0 || flag >= FlagMax {
		return false
	}
	return wd.flags[flag]
}

// WindowSetFlag applies one flag. Setting a flag to its current value is
// idempotent at the registry level, but side effects (hint re-derivation,
// size re-application) are still performed so the on-screen state can be
// repaired.
func (s *Server) WindowSetFlag(flag WindowFlag, enabled bool, id WindowID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	wd, ok := s.windows[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidWindow, id)
	}
	err := s.setFlagLocked(wd, flag, enabled)
	s.flush()
	return err
}

func (s *Server) setFlagLocked(wd *windowData, flag WindowFlag, enabled bool) error {
	switch flag {
	case FlagResizeDisabled:
		wd.flags[FlagResizeDisabled] = enabled
		s.updateSizeHints(wd)

	case FlagBorderless:
		if err := s.conn.SetDecorated(wd.handle, !enabled); err != nil {
			s.logger.Warn("set decorations failed", "window_id", wd.id, "error", err)
		}
		wd.flags[FlagBorderless] = enabled
		// Decoration changes make some managers resize the client area;
		// re-apply the current size to counter that.
		size := wd.size
		wd.size = Size{}
		s.setSizeLocked(wd, size)

	case FlagAlwaysOnTop:
		if wd.transientParent != InvalidWindowID {
			s.logger.Warn("can't set on-top on a transient window", "window_id", wd.id)
			return fmt.Errorf("%w: window has a transient parent", ErrInvalidState)
		}
		if enabled && wd.mode == ModeFullscreen {
			s.setWMMaximized(wd, true)
		}
		if err := s.conn.SetOnTop(wd.handle, enabled); err != nil {
			s.logger.Warn("set on-top failed", "window_id", wd.id, "error", err)
		}
		if !enabled && wd.mode != ModeFullscreen {
			s.setWMMaximized(wd, false)
		}
		wd.flags[FlagAlwaysOnTop] = enabled

	case FlagTransparent:
		// The visual is chosen at creation time; past that this is a
		// registry-only property.
		wd.flags[FlagTransparent] = enabled

	default:
		return fmt.Errorf("%w: unknown flag %d", ErrInvalidState, flag)
	}
	return nil
}

// WindowCanDraw reports whether presentation work for the window is
// worthwhile. Minimized windows are the only occluded state the protocol
// reports reliably.
func (s *Server) WindowCanDraw(id WindowID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	wd, ok := s.window(id)
	if !ok {
		return false
	}
	return wd.mode != ModeMinimized
}

// CanAnyWindowDraw reports whether at least one window is not minimized.
func (s *Server) CanAnyWindowDraw() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, wd := range s.windows {
		if wd.mode != ModeMinimized {
			return true
		}
	}
	return false
}

// WindowIsMaximizeAllowed reports whether the window manager advertises the
// maximize action for the window.
func (s *Server) WindowIsMaximizeAllowed(id WindowID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	wd, ok := s.window(id)
	if !ok {
		return false
	}
	allowed, err := s.conn.MaximizeAllowed(wd.handle)
	if err != nil {
		s.logger.Warn("maximize allowed query failed", "window_id", id, "error", err)
		return false
	}
	return allowed
}

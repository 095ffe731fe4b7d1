package display

// Per-window callback registration. Each setter replaces any prior
// registration for that window; nil unregisters. Unknown window ids are
// logged and ignored, matching the getter convention.

func (s *Server) WindowSetRectChangedCallback(fn RectChangedFunc, id WindowID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wd, ok := s.window(id); ok {
		wd.rectChanged = fn
	}
}

func (s *Server) WindowSetWindowEventCallback(fn WindowEventFunc, id WindowID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wd, ok := s.window(id); ok {
		wd.windowEvent = fn
	}
}

func (s *Server) WindowSetInputEventCallback(fn InputEventFunc, id WindowID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wd, ok := s.window(id); ok {
		wd.inputEvent = fn
	}
}

func (s *Server) WindowSetInputTextCallback(fn InputTextFunc, id WindowID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wd, ok := s.window(id); ok {
		wd.inputText = fn
	}
}

func (s *Server) WindowSetDropFilesCallback(fn DropFilesFunc, id WindowID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wd, ok := s.window(id); ok {
		wd.dropFiles = fn
	}
}

// sendWindowEvent queues a lifecycle notification for one window's
// registered consumer. Runs under s.mu; the consumer itself runs once the
// lock is released, via runPendingCallbacks.
func (s *Server) sendWindowEvent(wd *windowData, event WindowEvent) {
	if fn := wd.windowEvent; fn != nil {
		id := wd.id
		s.pending = append(s.pending, func() { fn(id, event) })
	}
}

// dispatchInputEvent routes a normalized input event: the global sink first,
// then the target window's consumer, or every window's consumer when the
// event names no target. Runs under s.mu; the consumers are queued and run
// unlocked, in routing order.
func (s *Server) dispatchInputEvent(event InputEvent) {
	if fn := s.inputHandler; fn != nil {
		s.pending = append(s.pending, func() { fn(event) })
	}

	target := event.TargetWindow()
	if target == InvalidWindowID {
		for _, wd := range s.windows {
			if fn := wd.inputEvent; fn != nil {
				s.pending = append(s.pending, func() { fn(event) })
			}
		}
		return
	}
	if wd, ok := s.windows[target]; ok && wd.inputEvent != nil {
		fn := wd.inputEvent
		s.pending = append(s.pending, func() { fn(event) })
	}
}

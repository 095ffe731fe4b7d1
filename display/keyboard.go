package display

// KeyboardGetLayoutCount reports how many keyboard layout groups are
// configured.
func (s *Server) KeyboardGetLayoutCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	layouts, err := s.conn.KeyboardLayouts()
	if err != nil {
		s.logger.Warn("keyboard layout query failed", "error", err)
		return 0
	}
	return len(layouts)
}

// KeyboardGetCurrentLayout reports the active layout group index, or -1
// when it cannot be determined.
func (s *Server) KeyboardGetCurrentLayout() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.conn.CurrentKeyboardLayout()
	if err != nil {
		s.logger.Warn("keyboard layout query failed", "error", err)
		return -1
	}
	return index
}

// KeyboardSetCurrentLayout switches the active layout group. Out-of-range
// indices are ignored.
func (s *Server) KeyboardSetCurrentLayout(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	layouts, err := s.conn.KeyboardLayouts()
	if err != nil {
		s.logger.Warn("keyboard layout query failed", "error", err)
		return
	}
	if index < 0 || index >= len(layouts) {
		return
	}
	if err := s.conn.SetCurrentKeyboardLayout(index); err != nil {
		s.logger.Warn("keyboard layout switch failed", "index", index, "error", err)
	}
}

// KeyboardGetLayoutName reports the layout group's name, empty when the
// index is out of range.
func (s *Server) KeyboardGetLayoutName(index int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	layouts, err := s.conn.KeyboardLayouts()
	if err != nil {
		s.logger.Warn("keyboard layout query failed", "error", err)
		return ""
	}
	if index < 0 || index >= len(layouts) {
		return ""
	}
	return layouts[index].Name
}

// KeyboardGetLayoutLanguage reports the layout group's language code,
// empty when the index is out of range.
func (s *Server) KeyboardGetLayoutLanguage(index int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	layouts, err := s.conn.KeyboardLayouts()
	if err != nil {
		s.logger.Warn("keyboard layout query failed", "error", err)
		return ""
	}
	if index < 0 || index >= len(layouts) {
		return ""
	}
	return layouts[index].Language
}

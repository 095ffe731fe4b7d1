package display

// ClipboardSet publishes text as the clipboard selection. The ingestion
// goroutine answers paste requests from other clients until the selection
// is taken away.
func (s *Server) ClipboardSet(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conn.ClipboardSet(text); err != nil {
		s.logger.Warn("clipboard set failed", "error", err)
		return
	}
	s.flush()
}

// ClipboardGet fetches the current clipboard selection as text. Failures
// yield the empty string.
func (s *Server) ClipboardGet() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	text, err := s.conn.ClipboardGet()
	if err != nil {
		s.logger.Warn("clipboard get failed", "error", err)
		return ""
	}
	return text
}

package display

import "github.com/hollowtree/xdisplay/internal/dialog"

// Alert shows a blocking modal error box through the desktop's dialog
// program. Best effort; a missing dialog program degrades to a log line.
func (s *Server) Alert(title, text string) {
	if err := dialog.Alert(s.logger, title, text); err != nil {
		s.logger.Warn("alert failed", "title", title, "error", err)
	}
}

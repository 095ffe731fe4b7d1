package display

import (
	"fmt"
	"image"

	"github.com/hollowtree/xdisplay/display/driver"
)

// WindowGetPosition returns the window's logical position. Unknown ids fail
// closed to the zero Point.
func (s *Server) WindowGetPosition(id WindowID) Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wd, ok := s.window(id); ok {
		return wd.position
	}
	return Point{}
}

// WindowSetPosition requests a move. The decoration extents are subtracted
// so the requested position names the client area, not the frame. The
// authoritative position update arrives with the configure event.
func (s *Server) WindowSetPosition(p Point, id WindowID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wd, ok := s.window(id)
	if !ok {
		return
	}
	s.setPositionLocked(wd, p)
	s.flush()
}

func (s *Server) setPositionLocked(wd *windowData, p Point) {
	x, y := p.X, p.Y
	if !wd.flags[FlagBorderless] {
		left, _, top, _, err := s.conn.FrameExtents(wd.handle)
		if err == nil {
			x -= left
			y -= top
		}
	}
	if err := s.conn.Move(wd.handle, x, y); err != nil {
		s.logger.Warn("move failed", "window_id", wd.id, "error", err)
	}
}

// WindowGetSize returns the window's logical size. Unknown ids fail closed
// to the zero Size.
func (s *Server) WindowGetSize(id WindowID) Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wd, ok := s.window(id); ok {
		return wd.size
	}
	return Size{}
}

// WindowSetSize requests a resize, re-deriving size hints first so the
// window manager will permit the new size.
func (s *Server) WindowSetSize(size Size, id WindowID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wd, ok := s.window(id)
	if !ok {
		return
	}
	s.setSizeLocked(wd, size)
	s.flush()
}

func (s *Server) setSizeLocked(wd *windowData, size Size) {
	if size.Width < 1 {
		size.Width = 1
	}
	if size.Height < 1 {
		size.Height = 1
	}
	if wd.size == size {
		return
	}
	wd.size = size
	s.updateSizeHints(wd)
	if err := s.conn.Resize(wd.handle, size.Width, size.Height); err != nil {
		s.logger.Warn("resize failed", "window_id", wd.id, "error", err)
	}
}

// WindowGetMinSize returns the user-set minimum size constraint.
func (s *Server) WindowGetMinSize(id WindowID) Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wd, ok := s.window(id); ok {
		return wd.minSize
	}
	return Size{}
}

// WindowSetMinSize sets the minimum size constraint. A minimum above the
// current maximum is rejected with no mutation.
func (s *Server) WindowSetMinSize(size Size, id WindowID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	wd, ok := s.windows[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidWindow, id)
	}
	if size != (Size{}) && wd.maxSize != (Size{}) &&
		(size.Width > wd.maxSize.Width || size.Height > wd.maxSize.Height) {
		s.logger.Warn("minimum window size can't be larger than maximum window size",
			"window_id", id)
		return fmt.Errorf("%w: min size exceeds max size", ErrInvalidState)
	}
	wd.minSize = size
	s.updateSizeHints(wd)
	s.flush()
	return nil
}

// WindowGetMaxSize returns the user-set maximum size constraint.
func (s *Server) WindowGetMaxSize(id WindowID) Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wd, ok := s.window(id); ok {
		return wd.maxSize
	}
	return Size{}
}

// WindowSetMaxSize sets the maximum size constraint. A maximum below the
// current minimum is rejected with no mutation.
func (s *Server) WindowSetMaxSize(size Size, id WindowID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	wd, ok := s.windows[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidWindow, id)
	}
	if size != (Size{}) &&
		(size.Width < wd.minSize.Width || size.Height < wd.minSize.Height) {
		s.logger.Warn("maximum window size can't be smaller than minimum window size",
			"window_id", id)
		return fmt.Errorf("%w: max size below min size", ErrInvalidState)
	}
	wd.maxSize = size
	s.updateSizeHints(wd)
	s.flush()
	return nil
}

// updateSizeHints re-derives and publishes the window's size hints from its
// mode, flags and constraints. In fullscreen no constraints are published
// at all, so the window manager can't find a reason to ignore the
// fullscreen state flag.
func (s *Server) updateSizeHints(wd *windowData) {
	hints := driver.SizeHints{
		Position: wd.position,
		Size:     wd.size,
	}
	switch {
	case wd.mode == ModeFullscreen:
		// Position and size only.
	case wd.flags[FlagResizeDisabled]:
		hints.HasMin, hints.Min = true, wd.size
		hints.HasMax, hints.Max = true, wd.size
	default:
		if wd.minSize != (Size{}) {
			hints.HasMin, hints.Min = true, wd.minSize
		}
		if wd.maxSize != (Size{}) {
			hints.HasMax, hints.Max = true, wd.maxSize
		}
	}
	if err := s.conn.SetSizeHints(wd.handle, hints); err != nil {
		s.logger.Warn("set size hints failed", "window_id", wd.id, "error", err)
	}
}

// WindowSetTitle sets the window's title.
func (s *Server) WindowSetTitle(title string, id WindowID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wd, ok := s.window(id)
	if !ok {
		return
	}
	if err := s.conn.SetTitle(wd.handle, title); err != nil {
		s.logger.Warn("set title failed", "window_id", id, "error", err)
	}
	s.flush()
}

// SetIcon publishes the image as the main window's icon.
func (s *Server) SetIcon(img image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wd, ok := s.window(MainWindowID)
	if !ok {
		return
	}
	if err := s.conn.SetIcon(wd.handle, img); err != nil {
		s.logger.Warn("set icon failed", "error", err)
	}
	s.flush()
}

// WindowRequestAttention asks the window manager to mark the window as
// demanding attention. The manager clears it after the user reacts.
func (s *Server) WindowRequestAttention(id WindowID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wd, ok := s.window(id)
	if !ok {
		return
	}
	if err := s.conn.SetAttention(wd.handle); err != nil {
		s.logger.Warn("request attention failed", "window_id", id, "error", err)
	}
	s.flush()
}

// WindowMoveToForeground activates and raises the window.
func (s *Server) WindowMoveToForeground(id WindowID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wd, ok := s.window(id)
	if !ok {
		return
	}
	if err := s.conn.Activate(wd.handle); err != nil {
		s.logger.Warn("move to foreground failed", "window_id", id, "error", err)
	}
	s.flush()
}

package display

import (
	"fmt"
	"image"

	"github.com/hollowtree/xdisplay/display/driver"
)

// maxCursorSize is the largest custom cursor edge the protocol accepts.
const maxCursorSize = 256

// MouseSetMode switches the pointer acquisition mode. Switching is a no-op
// when the mode is already current. Captured mode grabs the pointer to the
// main window, hides the cursor and warps it to the window center; Confined
// grabs without hiding or warping.
func (s *Server) MouseSetMode(mode PointerMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if mode == s.pointerMode {
		return
	}

	wasGrabbed := s.pointerMode == PointerCaptured || s.pointerMode == PointerConfined
	if wasGrabbed {
		if err := s.conn.UngrabPointer(); err != nil {
			s.logger.Warn("ungrab pointer failed", "error", err)
		}
	}

	visible := mode == PointerVisible || mode == PointerConfined
	for _, wd := range s.windows {
		if err := s.conn.SetCursorVisible(wd.handle, visible); err != nil {
			s.logger.Warn("cursor visibility change failed",
				"window_id", wd.id, "error", err)
		}
	}

	s.pointerMode = mode

	// A grab transition invalidates accumulated relative motion: the
	// samples belong to the previous interpretation.
	s.relMotion = Point{}
	s.lastPosValid = false

	if mode == PointerCaptured || mode == PointerConfined {
		main, ok := s.windows[MainWindowID]
		if !ok {
			return
		}
		if err := s.conn.GrabPointer(main.handle); err != nil {
			s.logger.Warn("pointer grab failed", "error", err)
		}
		if mode == PointerCaptured {
			center := Point{X: main.size.Width / 2, Y: main.size.Height / 2}
			s.center = center
			if err := s.conn.WarpPointer(main.handle, center); err != nil {
				s.logger.Warn("pointer warp failed", "error", err)
			}
		}
	}
	s.flush()
}

// MouseGetMode reports the current pointer acquisition mode.
func (s *Server) MouseGetMode() PointerMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pointerMode
}

// MouseWarpToPosition moves the pointer to a main-window-local position. In
// captured mode the warp is virtual: only the tracked position moves, since
// the real pointer is pinned to the window center. Otherwise the pointer is
// warped for real and the resulting protocol echo is marked for the
// one-shot duplicate filter.
func (s *Server) MouseWarpToPosition(p Point) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pointerMode == PointerCaptured {
		s.lastPos = p
		s.lastPosValid = true
		return
	}

	main, ok := s.windows[MainWindowID]
	if !ok {
		return
	}
	if err := s.conn.WarpPointer(main.handle, p); err != nil {
		s.logger.Warn("pointer warp failed", "error", err)
		return
	}
	s.filterPos = p
	s.filterArmed = true
	s.flush()
}

// MouseGetPosition reports the pointer's screen position. Failures fall
// back to the last tracked position.
func (s *Server) MouseGetPosition() Point {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.conn.QueryPointer()
	if err != nil {
		s.logger.Warn("pointer query failed", "error", err)
		return s.lastPos
	}
	return p
}

// MouseGetButtonState reports the currently pressed buttons as tracked from
// the event stream.
func (s *Server) MouseGetButtonState() ButtonMask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buttonMask
}

// CursorSetShape selects the pointer shape shown over the server's windows.
func (s *Server) CursorSetShape(shape driver.Cursor) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if shape == s.currentCursor || shape < 0 || shape >= driver.CursorMax {
		return
	}
	s.currentCursor = shape

	// Hidden and captured pointers show no cursor; the shape takes
	// effect when visibility returns.
	if s.pointerMode == PointerHidden || s.pointerMode == PointerCaptured {
		return
	}
	for _, wd := range s.windows {
		if err := s.conn.SetCursor(wd.handle, shape); err != nil {
			s.logger.Warn("cursor set failed", "window_id", wd.id, "error", err)
		}
	}
	s.flush()
}

// CursorGetShape reports the current pointer shape.
func (s *Server) CursorGetShape() driver.Cursor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentCursor
}

// CursorSetCustomImage replaces one shape's image with a custom cursor. A
// nil image restores the stock shape.
func (s *Server) CursorSetCustomImage(img image.Image, shape driver.Cursor, hotspot Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if shape < 0 || shape >= driver.CursorMax {
		return ErrInvalidState
	}
	if img != nil {
		bounds := img.Bounds()
		if bounds.Dx() > maxCursorSize || bounds.Dy() > maxCursorSize {
			return fmt.Errorf("%w: cursor image exceeds %dx%d",
				ErrInvalidState, maxCursorSize, maxCursorSize)
		}
		if hotspot.X < 0 || hotspot.Y < 0 ||
			hotspot.X >= bounds.Dx() || hotspot.Y >= bounds.Dy() {
			return fmt.Errorf("%w: hotspot outside cursor image", ErrInvalidState)
		}
	}
	if err := s.conn.LoadCursor(shape, img, hotspot.X, hotspot.Y); err != nil {
		return err
	}
	if shape == s.currentCursor {
		for _, wd := range s.windows {
			if err := s.conn.SetCursor(wd.handle, shape); err != nil {
				s.logger.Warn("cursor set failed", "window_id", wd.id, "error", err)
			}
		}
	}
	s.flush()
	return nil
}

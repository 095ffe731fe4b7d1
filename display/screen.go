package display

import "github.com/hollowtree/xdisplay/display/driver"

// defaultDPI is reported when a monitor does not expose physical
// dimensions.
const defaultDPI = 96

// outputs fetches the connected monitor list. Failures log and return nil;
// the screen accessors then fall back to zero values.
func (s *Server) outputs() []Output {
	outs, err := s.conn.Outputs()
	if err != nil {
		s.logger.Warn("output query failed", "error", err)
		return nil
	}
	connected := outs[:0]
	for _, o := range outs {
		if o.Connected {
			connected = append(connected, o)
		}
	}
	return connected
}

// Output re-exports the driver monitor descriptor.
type Output = driver.Output

// ScreenCount reports the number of connected monitors.
func (s *Server) ScreenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.outputs())
}

// ScreenPosition reports the monitor's origin in the global coordinate
// space. An out-of-range index yields the zero point.
func (s *Server) ScreenPosition(screen int) Point {
	s.mu.Lock()
	defer s.mu.Unlock()

	outs := s.outputs()
	if screen < 0 || screen >= len(outs) {
		return Point{}
	}
	return Point{X: outs[screen].X, Y: outs[screen].Y}
}

// ScreenSize reports the monitor's pixel dimensions. An out-of-range index
// yields the zero size.
func (s *Server) ScreenSize(screen int) Size {
	s.mu.Lock()
	defer s.mu.Unlock()

	outs := s.outputs()
	if screen < 0 || screen >= len(outs) {
		return Size{}
	}
	return Size{Width: outs[screen].Width, Height: outs[screen].Height}
}

// ScreenUsableRect reports the monitor's geometry. Reserved strut areas
// (panels, docks) are not subtracted; the full output rect is returned.
func (s *Server) ScreenUsableRect(screen int) Rect {
	s.mu.Lock()
	defer s.mu.Unlock()

	outs := s.outputs()
	if screen < 0 || screen >= len(outs) {
		return Rect{}
	}
	o := outs[screen]
	return Rect{X: o.X, Y: o.Y, Width: o.Width, Height: o.Height}
}

// ScreenDPI derives dots-per-inch from the monitor's pixel and physical
// dimensions, averaging the two axes. Monitors that report no physical
// size get the conventional default.
func (s *Server) ScreenDPI(screen int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	outs := s.outputs()
	if screen < 0 || screen >= len(outs) {
		return defaultDPI
	}
	o := outs[screen]
	if o.PhysicalWidth <= 0 || o.PhysicalHeight <= 0 {
		return defaultDPI
	}
	xdpi := o.Width * 254 / (o.PhysicalWidth * 10)
	ydpi := o.Height * 254 / (o.PhysicalHeight * 10)
	if dpi := (xdpi + ydpi) / 2; dpi > 0 {
		return dpi
	}
	return defaultDPI
}

// WindowGetCurrentScreen reports the monitor containing the window's
// center, or 0 when no monitor contains it.
func (s *Server) WindowGetCurrentScreen(id WindowID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	wd, ok := s.window(id)
	if !ok {
		return 0
	}
	return s.screenOfLocked(wd)
}

// WindowSetCurrentScreen moves the window onto the given monitor, keeping
// its offset relative to the monitor origin proportional where possible.
func (s *Server) WindowSetCurrentScreen(screen int, id WindowID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wd, ok := s.window(id)
	if !ok {
		return
	}
	outs := s.outputs()
	if screen < 0 || screen >= len(outs) {
		return
	}
	if cur := s.screenOfLocked(wd); cur == screen {
		return
	}
	o := outs[screen]
	s.setPositionLocked(wd, Point{X: o.X, Y: o.Y})
	s.flush()
}

// screenOfLocked is WindowGetCurrentScreen without the lock, for callers
// already inside a public entry point.
func (s *Server) screenOfLocked(wd *windowData) int {
	center := Point{
		X: wd.position.X + wd.size.Width/2,
		Y: wd.position.Y + wd.size.Height/2,
	}
	for i, o := range s.outputs() {
		r := Rect{X: o.X, Y: o.Y, Width: o.Width, Height: o.Height}
		if r.Contains(center) {
			return i
		}
	}
	return 0
}

package display

import (
	"github.com/hollowtree/xdisplay/display/driver"
)

// filterTolerance is the squared-distance tolerance for the one-shot
// spurious-motion filter.
const filterTolerance = 2

func distanceSquared(a, b Point) int {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// processEvent classifies one raw event and applies it: window-state
// mutation, input-event construction, callback dispatch. Runs under s.mu.
func (s *Server) processEvent(ev driver.Event) {
	switch ev := ev.(type) {
	case driver.RawMotionEvent:
		s.relMotion.X += ev.DX
		s.relMotion.Y += ev.DY

	case driver.MotionEvent:
		s.processMotion(ev)

	case driver.ButtonEvent:
		s.processButton(ev)

	case driver.KeyEvent:
		s.processKey(ev)

	case driver.TextEvent:
		if wd := s.windowByHandle(ev.Window); wd != nil && wd.inputText != nil {
			fn, id := wd.inputText, wd.id
			s.pending = append(s.pending, func() { fn(id, ev.Text) })
		}

	case driver.ConfigureEvent:
		s.processConfigure(ev)

	case driver.FocusEvent:
		wd := s.windowByHandle(ev.Window)
		if wd == nil {
			return
		}
		wd.focused = ev.In
		if ev.In {
			s.sendWindowEvent(wd, WindowEventFocusIn)
		} else {
			s.sendWindowEvent(wd, WindowEventFocusOut)
		}

	case driver.CrossingEvent:
		wd := s.windowByHandle(ev.Window)
		if wd == nil {
			return
		}
		if ev.Enter {
			s.sendWindowEvent(wd, WindowEventMouseEnter)
		} else {
			s.sendWindowEvent(wd, WindowEventMouseExit)
		}

	case driver.CloseEvent:
		if wd := s.windowByHandle(ev.Window); wd != nil {
			s.sendWindowEvent(wd, WindowEventCloseRequest)
		}

	case driver.DropEvent:
		if wd := s.windowByHandle(ev.Window); wd != nil && wd.dropFiles != nil {
			fn, id := wd.dropFiles, wd.id
			s.pending = append(s.pending, func() { fn(id, ev.Files) })
		}
	}
}

// processConfigure applies the protocol's authoritative geometry notice:
// update the record, resize the presentation surface, fire the rect-changed
// callback.
func (s *Server) processConfigure(ev driver.ConfigureEvent) {
	wd := s.windowByHandle(ev.Window)
	if wd == nil {
		return
	}
	rect := Rect{X: ev.X, Y: ev.Y, Width: ev.Width, Height: ev.Height}
	wd.position = rect.Position()
	wd.size = rect.Size()

	if err := s.renderer.WindowResize(wd.id, rect.Width, rect.Height); err != nil {
		// Non-fatal: the window can't draw until a later resize succeeds.
		s.logger.Warn("surface resize failed", "window_id", wd.id, "error", err)
	}

	if fn := wd.rectChanged; fn != nil {
		id := wd.id
		s.pending = append(s.pending, func() { fn(id, rect) })
	}
}

// processMotion is the pointer-motion disambiguation path. Absolute motion
// reports, relative-motion samples and programmatic warps all funnel into
// one normalized event per genuine movement.
func (s *Server) processMotion(ev driver.MotionEvent) {
	wd := s.windowByHandle(ev.Window)
	if wd == nil {
		return
	}
	local := Point{X: ev.X, Y: ev.Y}

	// A captured pointer is warped back to the window center after every
	// report; an event landing exactly there is the echo of that warp,
	// not user motion.
	if s.pointerMode == PointerCaptured {
		main, ok := s.windows[MainWindowID]
		if ok && local.X == main.size.Width/2 && local.Y == main.size.Height/2 {
			s.center = local
			return
		}
	}

	s.lastTime = ev.Time

	// One-shot duplicate suppression for spurious repeats near a marked
	// position. The marker is invalidated regardless of a hit so a
	// legitimate future event at the same spot is not dropped.
	filtered := s.filterArmed && distanceSquared(local, s.filterPos) < filterTolerance
	s.filterArmed = false
	if filtered {
		return
	}

	pos := local
	if s.pointerMode == PointerCaptured {
		if s.relMotion == (Point{}) {
			// Nothing accumulated this cycle: nothing to report.
			return
		}
		s.center = local
		pos = Point{X: s.lastPos.X + s.relMotion.X, Y: s.lastPos.Y + s.relMotion.Y}
	}

	if !s.lastPosValid {
		s.lastPos = pos
		s.lastPosValid = true
	}

	// Relative motion comes from the raw samples when captured (absolute
	// coordinates are meaningless once the pointer is re-centered every
	// frame) and from position deltas otherwise.
	var rel Point
	if s.pointerMode == PointerCaptured {
		rel = s.relMotion
	} else {
		rel = Point{X: pos.X - s.lastPos.X, Y: pos.Y - s.lastPos.Y}
	}

	// Consume the accumulated sample either way.
	s.relMotion = Point{}

	global := Point{X: ev.RootX, Y: ev.RootY}
	if s.pointerMode == PointerCaptured {
		// Only the delta means anything in captured mode; report the
		// stable center as the position and pin the real pointer back
		// there for the next sample.
		if main, ok := s.windows[MainWindowID]; ok {
			pos = Point{X: main.size.Width / 2, Y: main.size.Height / 2}
			if local != pos {
				if err := s.conn.WarpPointer(main.handle, pos); err != nil {
					s.logger.Warn("pointer re-center failed", "error", err)
				}
			}
		}
		global = pos
	}

	motion := MouseMotion{
		Window:         wd.id,
		Position:       pos,
		GlobalPosition: global,
		Relative:       rel,
		Pressure:       s.syntheticPressure(),
		Mods:           modifiersFromState(ev.State),
		Buttons:        s.buttonMask,
	}
	s.lastPos = pos

	if wd.focused {
		s.dispatchInputEvent(motion)
		return
	}

	// The protocol delivers motion only to the topmost window under the
	// pointer. Redirect to the focused window so a drag that started
	// there keeps receiving events across window boundaries.
	focused := s.focusedWindow()
	if focused == nil {
		return
	}
	translated, err := s.conn.TranslateCoordinates(wd.handle, focused.handle, local)
	if err != nil {
		s.logger.Warn("coordinate translation failed",
			"from", wd.id, "to", focused.id, "error", err)
		return
	}
	motion.Window = focused.id
	motion.Position = translated
	motion.GlobalPosition = translated
	s.dispatchInputEvent(motion)
}

// syntheticPressure derives pressure from the left button when the device
// reports none: 1.0 pressed, 0.0 released.
func (s *Server) syntheticPressure() float64 {
	if s.buttonMask&(1<<(MouseButtonLeft-1)) != 0 {
		return 1.0
	}
	return 0.0
}

// doubleClickWindow is the press-to-press distance and delay within which a
// second press counts as a double click.
const (
	doubleClickMillis     = 400
	doubleClickDistanceSq = 25
)

func (s *Server) processButton(ev driver.ButtonEvent) {
	wd := s.windowByHandle(ev.Window)
	if wd == nil {
		return
	}

	mask := ButtonMask(1) << uint(ev.Button-1)
	if ev.Pressed {
		s.buttonMask |= mask
	} else {
		s.buttonMask &^= mask
	}
	s.lastTime = ev.Time

	pos := Point{X: ev.X, Y: ev.Y}
	button := MouseButton{
		Window:         wd.id,
		Button:         ev.Button,
		Pressed:        ev.Pressed,
		Position:       pos,
		GlobalPosition: Point{X: ev.RootX, Y: ev.RootY},
		Mods:           modifiersFromState(ev.State),
		Buttons:        s.buttonMask,
	}

	if ev.Pressed {
		if ev.Button == s.lastClickButton &&
			ev.Time-s.lastClickTime < doubleClickMillis &&
			distanceSquared(pos, s.lastClickPos) < doubleClickDistanceSq {
			button.DoubleClick = true
			// A triple press is not two double clicks.
			s.lastClickButton = -1
		} else {
			s.lastClickTime = ev.Time
			s.lastClickButton = ev.Button
			s.lastClickPos = pos
		}
	}

	s.dispatchInputEvent(button)
}

func (s *Server) processKey(ev driver.KeyEvent) {
	wd := s.windowByHandle(ev.Window)
	if wd == nil {
		return
	}
	s.lastTime = ev.Time
	s.dispatchInputEvent(KeyInput{
		Window:  wd.id,
		Key:     ev.Key,
		Rune:    ev.Rune,
		Pressed: ev.Pressed,
		Echo:    ev.Echo,
		Mods:    modifiersFromState(ev.State),
	})
}

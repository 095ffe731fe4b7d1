package display

import (
	"fmt"
	"image"
	"strings"
	"testing"

	"github.com/hollowtree/xdisplay/display/driver"
)

func TestMouseSetModeCapturedGrabsAndWarps(t *testing.T) {
	s, conn := newTestServer(t, Options{Resolution: Size{Width: 800, Height: 600}})
	h := mainHandle(t, s)

	conn.reset()
	s.MouseSetMode(PointerCaptured)

	log := conn.callLog()
	if !contains(log, fmt.Sprintf("GrabPointer %d", h)) {
		t.Fatalf("expected grab in %v", log)
	}
	if !contains(log, fmt.Sprintf("WarpPointer %d 400,300", h)) {
		t.Fatalf("expected warp to center in %v", log)
	}
	if !contains(log, fmt.Sprintf("SetCursorVisible %d false", h)) {
		t.Fatalf("expected cursor hidden in %v", log)
	}
	if got := s.MouseGetMode(); got != PointerCaptured {
		t.Fatalf("mode = %v", got)
	}
}

func TestMouseSetModeConfinedKeepsCursor(t *testing.T) {
	s, conn := newTestServer(t, Options{})
	h := mainHandle(t, s)

	conn.reset()
	s.MouseSetMode(PointerConfined)

	log := conn.callLog()
	if !contains(log, fmt.Sprintf("GrabPointer %d", h)) {
		t.Fatalf("expected grab in %v", log)
	}
	if !contains(log, fmt.Sprintf("SetCursorVisible %d true", h)) {
		t.Fatalf("expected cursor visible in %v", log)
	}
	for _, call := range log {
		if strings.HasPrefix(call, "WarpPointer") {
			t.Fatalf("unexpected warp: %v", log)
		}
	}
}

func TestMouseSetModeBackToVisibleUngrabs(t *testing.T) {
	s, conn := newTestServer(t, Options{})

	s.MouseSetMode(PointerCaptured)
	conn.reset()
	s.MouseSetMode(PointerVisible)

	if !contains(conn.callLog(), "UngrabPointer") {
		t.Fatalf("expected ungrab in %v", conn.callLog())
	}
}

func TestMouseSetModeSameModeIsNoOp(t *testing.T) {
	s, conn := newTestServer(t, Options{})

	conn.reset()
	s.MouseSetMode(PointerVisible)
	if log := conn.callLog(); len(log) != 0 {
		t.Fatalf("expected no requests, got %v", log)
	}
}

func TestMouseWarpCapturedIsVirtual(t *testing.T) {
	s, conn := newTestServer(t, Options{})

	s.MouseSetMode(PointerCaptured)
	conn.reset()
	s.MouseWarpToPosition(Point{X: 50, Y: 60})

	for _, call := range conn.callLog() {
		if strings.HasPrefix(call, "WarpPointer") {
			t.Fatalf("unexpected real warp: %v", conn.callLog())
		}
	}
}

func TestCursorShapeDeferredWhileHidden(t *testing.T) {
	s, conn := newTestServer(t, Options{})

	s.MouseSetMode(PointerHidden)
	conn.reset()
	s.CursorSetShape(driver.CursorIBeam)

	for _, call := range conn.callLog() {
		if strings.HasPrefix(call, "SetCursor ") {
			t.Fatalf("cursor applied while hidden: %v", conn.callLog())
		}
	}
	// The shape is still tracked for when visibility returns.
	if got := s.CursorGetShape(); got != driver.CursorIBeam {
		t.Fatalf("shape = %v", got)
	}
}

func TestCursorShapeAppliedToAllWindows(t *testing.T) {
	s, conn := newTestServer(t, Options{})

	child, err := s.CreateSubWindow(ModeWindowed, 0, Rect{Width: 100, Height: 100})
	if err != nil {
		t.Fatalf("CreateSubWindow: %v", err)
	}
	conn.reset()
	s.CursorSetShape(driver.CursorCross)

	log := conn.callLog()
	wantMain := fmt.Sprintf("SetCursor %d %d", mainHandle(t, s), driver.CursorCross)
	wantChild := fmt.Sprintf("SetCursor %d %d", handleOf(t, s, child), driver.CursorCross)
	if !contains(log, wantMain) || !contains(log, wantChild) {
		t.Fatalf("expected %q and %q in %v", wantMain, wantChild, log)
	}
}

func TestCursorSetShapeSameShapeIsNoOp(t *testing.T) {
	s, conn := newTestServer(t, Options{})

	conn.reset()
	s.CursorSetShape(driver.CursorArrow)
	if log := conn.callLog(); len(log) != 0 {
		t.Fatalf("expected no requests, got %v", log)
	}
}

func TestCursorCustomImageValidation(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	if err := s.CursorSetCustomImage(nil, driver.CursorMax, Point{}); err == nil {
		t.Fatal("expected shape range error")
	}
	// Nil image restores the stock shape.
	if err := s.CursorSetCustomImage(nil, driver.CursorArrow, Point{}); err != nil {
		t.Fatalf("CursorSetCustomImage: %v", err)
	}

	huge := image.NewRGBA(image.Rect(0, 0, 512, 512))
	if err := s.CursorSetCustomImage(huge, driver.CursorArrow, Point{}); err == nil {
		t.Fatal("expected size error")
	}
	small := image.NewRGBA(image.Rect(0, 0, 32, 32))
	if err := s.CursorSetCustomImage(small, driver.CursorArrow, Point{X: 32, Y: 0}); err == nil {
		t.Fatal("expected hotspot error")
	}
	if err := s.CursorSetCustomImage(small, driver.CursorArrow, Point{X: 8, Y: 8}); err != nil {
		t.Fatalf("CursorSetCustomImage: %v", err)
	}
}

func TestClipboardRoundTrip(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	s.ClipboardSet("copied text")
	if got := s.ClipboardGet(); got != "copied text" {
		t.Fatalf("ClipboardGet = %q", got)
	}
}

func TestKeyboardLayoutAccessors(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	if got := s.KeyboardGetLayoutCount(); got != 1 {
		t.Fatalf("layout count = %d", got)
	}
	if got := s.KeyboardGetCurrentLayout(); got != 0 {
		t.Fatalf("current layout = %d", got)
	}
	if got := s.KeyboardGetLayoutName(0); got != "us" {
		t.Fatalf("layout name = %q", got)
	}
	if got := s.KeyboardGetLayoutName(3); got != "" {
		t.Fatalf("out-of-range name = %q", got)
	}
}

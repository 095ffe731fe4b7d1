package display

import (
	"fmt"
	"testing"
)

func TestSetPositionSubtractsFrameExtents(t *testing.T) {
	s, conn := newTestServer(t, Options{})
	conn.frameLeft, conn.frameTop = 4, 28
	h := mainHandle(t, s)

	conn.reset()
	s.WindowSetPosition(Point{X: 100, Y: 100}, MainWindowID)
	want := fmt.Sprintf("Move %d 96,72", h)
	if !contains(conn.callLog(), want) {
		t.Fatalf("expected %q in %v", want, conn.callLog())
	}
}

func TestSetPositionBorderlessSkipsExtents(t *testing.T) {
	s, conn := newTestServer(t, Options{})
	conn.frameLeft, conn.frameTop = 4, 28
	if err := s.WindowSetFlag(FlagBorderless, true, MainWindowID); err != nil {
		t.Fatalf("WindowSetFlag: %v", err)
	}
	h := mainHandle(t, s)

	conn.reset()
	s.WindowSetPosition(Point{X: 100, Y: 100}, MainWindowID)
	want := fmt.Sprintf("Move %d 100,100", h)
	if !contains(conn.callLog(), want) {
		t.Fatalf("expected %q in %v", want, conn.callLog())
	}
}

func TestSetSizeClampsAndSkipsNoOp(t *testing.T) {
	s, conn := newTestServer(t, Options{Resolution: Size{Width: 640, Height: 480}})
	h := mainHandle(t, s)

	conn.reset()
	s.WindowSetSize(Size{Width: 0, Height: -5}, MainWindowID)
	want := fmt.Sprintf("Resize %d 1x1", h)
	if !contains(conn.callLog(), want) {
		t.Fatalf("expected %q in %v", want, conn.callLog())
	}
	if got := s.WindowGetSize(MainWindowID); got != (Size{Width: 1, Height: 1}) {
		t.Fatalf("size = %+v", got)
	}

	conn.reset()
	s.WindowSetSize(Size{Width: 1, Height: 1}, MainWindowID)
	for _, call := range conn.callLog() {
		if call == want {
			t.Fatalf("resize reissued for unchanged size: %v", conn.callLog())
		}
	}
}

func TestWindowSetTitle(t *testing.T) {
	s, conn := newTestServer(t, Options{})
	h := mainHandle(t, s)

	conn.reset()
	s.WindowSetTitle("hello", MainWindowID)
	want := fmt.Sprintf("SetTitle %d %q", h, "hello")
	if !contains(conn.callLog(), want) {
		t.Fatalf("expected %q in %v", want, conn.callLog())
	}
}

func TestWindowRequestAttention(t *testing.T) {
	s, conn := newTestServer(t, Options{})
	h := mainHandle(t, s)

	conn.reset()
	s.WindowRequestAttention(MainWindowID)
	want := fmt.Sprintf("SetAttention %d", h)
	if !contains(conn.callLog(), want) {
		t.Fatalf("expected %q in %v", want, conn.callLog())
	}
}

func TestWindowMoveToForeground(t *testing.T) {
	s, conn := newTestServer(t, Options{})
	h := mainHandle(t, s)

	conn.reset()
	s.WindowMoveToForeground(MainWindowID)
	want := fmt.Sprintf("Activate %d", h)
	if !contains(conn.callLog(), want) {
		t.Fatalf("expected %q in %v", want, conn.callLog())
	}
}

func TestMinMaxSizeAppliedToHints(t *testing.T) {
	s, conn := newTestServer(t, Options{Resolution: Size{Width: 640, Height: 480}})
	h := mainHandle(t, s)

	conn.reset()
	if err := s.WindowSetMinSize(Size{Width: 320, Height: 240}, MainWindowID); err != nil {
		t.Fatalf("WindowSetMinSize: %v", err)
	}
	if err := s.WindowSetMaxSize(Size{Width: 1280, Height: 960}, MainWindowID); err != nil {
		t.Fatalf("WindowSetMaxSize: %v", err)
	}
	want := fmt.Sprintf("SetSizeHints %d min=true/{320 240} max=true/{1280 960}", h)
	if !contains(conn.callLog(), want) {
		t.Fatalf("expected %q in %v", want, conn.callLog())
	}
	if got := s.WindowGetMinSize(MainWindowID); got != (Size{Width: 320, Height: 240}) {
		t.Fatalf("min = %+v", got)
	}
	if got := s.WindowGetMaxSize(MainWindowID); got != (Size{Width: 1280, Height: 960}) {
		t.Fatalf("max = %+v", got)
	}
}

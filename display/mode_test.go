package display

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestMinSizeAboveMaxRejected(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	if err := s.WindowSetMaxSize(Size{Width: 800, Height: 600}, MainWindowID); err != nil {
		t.Fatalf("WindowSetMaxSize: %v", err)
	}
	err := s.WindowSetMinSize(Size{Width: 1000, Height: 700}, MainWindowID)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	// No mutation on rejection.
	if got := s.WindowGetMinSize(MainWindowID); got != (Size{}) {
		t.Fatalf("min size mutated to %+v", got)
	}
}

func TestMaxSizeBelowMinRejected(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	if err := s.WindowSetMinSize(Size{Width: 400, Height: 300}, MainWindowID); err != nil {
		t.Fatalf("WindowSetMinSize: %v", err)
	}
	err := s.WindowSetMaxSize(Size{Width: 200, Height: 100}, MainWindowID)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if got := s.WindowGetMaxSize(MainWindowID); got != (Size{}) {
		t.Fatalf("max size mutated to %+v", got)
	}
}

func TestSetModeSameModeIsNoOp(t *testing.T) {
	s, conn := newTestServer(t, Options{})

	conn.reset()
	if err := s.WindowSetMode(ModeWindowed, MainWindowID); err != nil {
		t.Fatalf("WindowSetMode: %v", err)
	}
	if log := conn.callLog(); len(log) != 0 {
		t.Fatalf("expected no protocol requests, got %v", log)
	}
}

func TestMaximizeConfirmedByProbe(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	if err := s.WindowSetMode(ModeMaximized, MainWindowID); err != nil {
		t.Fatalf("WindowSetMode: %v", err)
	}
	if got := s.WindowGetMode(MainWindowID); got != ModeMaximized {
		t.Fatalf("expected maximized, got %v", got)
	}
}

func TestMaximizeNotHonoredStaysWindowed(t *testing.T) {
	s, conn := newTestServer(t, Options{})
	conn.maximizeHonor = false

	if err := s.WindowSetMode(ModeMaximized, MainWindowID); err != nil {
		t.Fatalf("WindowSetMode: %v", err)
	}
	// Silently accepted as a no-op.
	if got := s.WindowGetMode(MainWindowID); got != ModeWindowed {
		t.Fatalf("expected windowed, got %v", got)
	}
}

func TestMaximizeNotAllowedStaysWindowed(t *testing.T) {
	s, conn := newTestServer(t, Options{})
	conn.maximizeAllow = false

	if err := s.WindowSetMode(ModeMaximized, MainWindowID); err != nil {
		t.Fatalf("WindowSetMode: %v", err)
	}
	if got := s.WindowGetMode(MainWindowID); got != ModeWindowed {
		t.Fatalf("expected windowed, got %v", got)
	}
	if s.WindowIsMaximizeAllowed(MainWindowID) {
		t.Fatal("expected maximize not allowed")
	}
}

func TestFullscreenRestoresPreFullscreenPosition(t *testing.T) {
	s, conn := newTestServer(t, Options{Resolution: Size{Width: 640, Height: 480}})

	before := s.WindowGetPosition(MainWindowID)
	if err := s.WindowSetMode(ModeFullscreen, MainWindowID); err != nil {
		t.Fatalf("enter fullscreen: %v", err)
	}

	conn.reset()
	if err := s.WindowSetMode(ModeWindowed, MainWindowID); err != nil {
		t.Fatalf("leave fullscreen: %v", err)
	}
	h := mainHandle(t, s)
	want := fmt.Sprintf("Move %d %d,%d", h, before.X, before.Y)
	found := false
	for _, call := range conn.callLog() {
		if call == want {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected %q in %v", want, conn.callLog())
	}
}

func TestFullscreenWithOnTopSetsMaximizeHintFirst(t *testing.T) {
	s, conn := newTestServer(t, Options{})

	if err := s.WindowSetFlag(FlagAlwaysOnTop, true, MainWindowID); err != nil {
		t.Fatalf("WindowSetFlag: %v", err)
	}
	conn.reset()
	if err := s.WindowSetMode(ModeFullscreen, MainWindowID); err != nil {
		t.Fatalf("WindowSetMode: %v", err)
	}

	maxIdx, fsIdx := -1, -1
	for i, call := range conn.callLog() {
		if strings.HasPrefix(call, "SetMaximized") && strings.HasSuffix(call, "true") && maxIdx < 0 {
			maxIdx = i
		}
		if strings.HasPrefix(call, "SetFullscreen") && strings.HasSuffix(call, "true") {
			fsIdx = i
		}
	}
	if maxIdx < 0 || fsIdx < 0 || maxIdx > fsIdx {
		t.Fatalf("expected maximize hint before fullscreen request, got %v", conn.callLog())
	}
}

func TestLeaveFullscreenWithOnTopUnsetsMaximizeBeforeMove(t *testing.T) {
	s, conn := newTestServer(t, Options{})

	if err := s.WindowSetFlag(FlagAlwaysOnTop, true, MainWindowID); err != nil {
		t.Fatalf("WindowSetFlag: %v", err)
	}
	if err := s.WindowSetMode(ModeFullscreen, MainWindowID); err != nil {
		t.Fatalf("enter fullscreen: %v", err)
	}

	conn.reset()
	if err := s.WindowSetMode(ModeWindowed, MainWindowID); err != nil {
		t.Fatalf("leave fullscreen: %v", err)
	}
	unmaxIdx, moveIdx := -1, -1
	for i, call := range conn.callLog() {
		if strings.HasPrefix(call, "SetMaximized") && strings.HasSuffix(call, "false") {
			unmaxIdx = i
		}
		if strings.HasPrefix(call, "Move ") && moveIdx < 0 {
			moveIdx = i
		}
	}
	if unmaxIdx < 0 || moveIdx < 0 || unmaxIdx > moveIdx {
		t.Fatalf("expected unmaximize before reposition, got %v", conn.callLog())
	}
}

func TestFullscreenUndecoratesAndRedecorates(t *testing.T) {
	s, conn := newTestServer(t, Options{})

	conn.reset()
	if err := s.WindowSetMode(ModeFullscreen, MainWindowID); err != nil {
		t.Fatalf("enter fullscreen: %v", err)
	}
	h := mainHandle(t, s)
	wantOff := fmt.Sprintf("SetDecorated %d false", h)
	if log := conn.callLog(); !contains(log, wantOff) {
		t.Fatalf("expected %q in %v", wantOff, log)
	}

	conn.reset()
	if err := s.WindowSetMode(ModeWindowed, MainWindowID); err != nil {
		t.Fatalf("leave fullscreen: %v", err)
	}
	wantOn := fmt.Sprintf("SetDecorated %d true", h)
	if log := conn.callLog(); !contains(log, wantOn) {
		t.Fatalf("expected %q in %v", wantOn, log)
	}
}

func TestMinimizeIsFireAndForget(t *testing.T) {
	s, conn := newTestServer(t, Options{})

	conn.reset()
	if err := s.WindowSetMode(ModeMinimized, MainWindowID); err != nil {
		t.Fatalf("WindowSetMode: %v", err)
	}
	h := mainHandle(t, s)
	want := fmt.Sprintf("SetIconified %d true", h)
	if log := conn.callLog(); !contains(log, want) {
		t.Fatalf("expected %q in %v", want, log)
	}
	if got := s.WindowGetMode(MainWindowID); got != ModeMinimized {
		t.Fatalf("expected minimized, got %v", got)
	}
	if s.WindowCanDraw(MainWindowID) {
		t.Fatal("minimized window should not draw")
	}
}

func TestCanAnyWindowDraw(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	if !s.CanAnyWindowDraw() {
		t.Fatal("expected drawable main window")
	}
	if err := s.WindowSetMode(ModeMinimized, MainWindowID); err != nil {
		t.Fatalf("WindowSetMode: %v", err)
	}
	if s.CanAnyWindowDraw() {
		t.Fatal("expected no drawable windows")
	}
}

func TestBorderlessReappliesSize(t *testing.T) {
	s, conn := newTestServer(t, Options{Resolution: Size{Width: 640, Height: 480}})

	conn.reset()
	if err := s.WindowSetFlag(FlagBorderless, true, MainWindowID); err != nil {
		t.Fatalf("WindowSetFlag: %v", err)
	}
	h := mainHandle(t, s)
	want := fmt.Sprintf("Resize %d 640x480", h)
	if log := conn.callLog(); !contains(log, want) {
		t.Fatalf("expected %q in %v", want, log)
	}
	if !s.WindowGetFlag(FlagBorderless, MainWindowID) {
		t.Fatal("flag not recorded")
	}
}

func TestOnTopRejectedForTransientWindow(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	child, _ := s.CreateSubWindow(ModeWindowed, 0, Rect{Width: 100, Height: 100})
	if err := s.WindowSetTransient(child, MainWindowID); err != nil {
		t.Fatalf("WindowSetTransient: %v", err)
	}
	err := s.WindowSetFlag(FlagAlwaysOnTop, true, child)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if s.WindowGetFlag(FlagAlwaysOnTop, child) {
		t.Fatal("flag set despite rejection")
	}
}

func TestResizeDisabledPinsHintsToSize(t *testing.T) {
	s, conn := newTestServer(t, Options{Resolution: Size{Width: 640, Height: 480}})

	conn.reset()
	if err := s.WindowSetFlag(FlagResizeDisabled, true, MainWindowID); err != nil {
		t.Fatalf("WindowSetFlag: %v", err)
	}
	h := mainHandle(t, s)
	want := fmt.Sprintf("SetSizeHints %d min=true/{640 480} max=true/{640 480}", h)
	if log := conn.callLog(); !contains(log, want) {
		t.Fatalf("expected %q in %v", want, log)
	}
}

func contains(log []string, want string) bool {
	for _, call := range log {
		if call == want {
			return true
		}
	}
	return false
}

package display

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/hollowtree/xdisplay/display/driver"
)

// Callbacks run after the server lock is released, so a consumer may call
// any accessor or mutator from inside one.
func TestCallbacksRunOutsideServerLock(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	h := mainHandle(t, s)

	var seen Size
	s.WindowSetRectChangedCallback(func(id WindowID, rect Rect) {
		seen = s.WindowGetSize(id)
	}, MainWindowID)

	inject(s, driver.ConfigureEvent{Window: h, X: 10, Y: 20, Width: 300, Height: 200})

	if seen != (Size{Width: 300, Height: 200}) {
		t.Fatalf("size read from callback = %+v", seen)
	}
}

func TestWindowEventCallbackMayMutateServer(t *testing.T) {
	s, conn := newTestServer(t, Options{})
	h := mainHandle(t, s)

	s.WindowSetWindowEventCallback(func(id WindowID, ev WindowEvent) {
		if ev == WindowEventFocusIn {
			s.WindowSetTitle("focused", id)
		}
	}, MainWindowID)

	inject(s, driver.FocusEvent{Window: h, In: true})

	want := fmt.Sprintf("SetTitle %d %q", h, "focused")
	if !contains(conn.callLog(), want) {
		t.Fatalf("title not set from callback:\n%s", strings.Join(conn.callLog(), "\n"))
	}
}

// Callbacks queued by another callback are drained in the same
// ProcessEvents pass.
func TestCallbackQueuedByCallbackRunsSameFrame(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	h := mainHandle(t, s)

	var texts []string
	s.WindowSetInputTextCallback(func(id WindowID, text string) {
		texts = append(texts, text)
	}, MainWindowID)
	s.WindowSetWindowEventCallback(func(id WindowID, ev WindowEvent) {
		if ev == WindowEventFocusIn {
			s.mu.Lock()
			fn := s.windows[id].inputText
			s.pending = append(s.pending, func() { fn(id, "nested") })
			s.mu.Unlock()
		}
	}, MainWindowID)

	inject(s, driver.FocusEvent{Window: h, In: true})

	if len(texts) != 1 || texts[0] != "nested" {
		t.Fatalf("nested callback not drained, texts = %v", texts)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	s, conn := newTestServer(t, Options{})

	s.Close()
	s.Close()

	closes := 0
	for _, call := range conn.callLog() {
		if call == "Close" {
			closes++
		}
	}
	if closes != 1 {
		t.Fatalf("connection closed %d times", closes)
	}
}

func TestNewDestroysWindowWhenMapFails(t *testing.T) {
	conn := newStubConn()
	conn.mapErr = errors.New("map refused")

	s, err := New(conn, Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if s != nil {
		t.Fatal("expected nil server on construction failure")
	}
	if !contains(conn.callLog(), "DestroyWindow 100") {
		t.Fatalf("window not destroyed:\n%s", strings.Join(conn.callLog(), "\n"))
	}
}

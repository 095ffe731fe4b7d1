package display

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/hollowtree/xdisplay/display/driver"
)

// stubConn is a recording driver.Conn. Every mutating call appends a line
// to calls; knobs control what the fake window manager reports back.
type stubConn struct {
	mu    sync.Mutex
	calls []string

	nextHandle driver.Handle

	// Knobs.
	outputs        []driver.Output
	maximizeHonor  bool // manager honors maximize requests
	maximizeAllow  bool
	frameLeft      int
	frameTop       int
	wmMaximized    bool
	wmIconified    bool
	clipboard      string
	translateShift Point // added by TranslateCoordinates
	mapErr         error // returned by MapWindow
}

func newStubConn() *stubConn {
	return &stubConn{
		nextHandle:    100,
		maximizeHonor: true,
		maximizeAllow: true,
		outputs: []driver.Output{{
			Name: "TEST-1", Width: 1920, Height: 1080,
			PhysicalWidth: 509, PhysicalHeight: 286, Connected: true,
		}},
	}
}

func (c *stubConn) record(format string, args ...any) {
	c.mu.Lock()
	c.calls = append(c.calls, fmt.Sprintf(format, args...))
	c.mu.Unlock()
}

// callLog returns a snapshot of the recorded calls.
func (c *stubConn) callLog() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func (c *stubConn) reset() {
	c.mu.Lock()
	c.calls = nil
	c.mu.Unlock()
}

func (c *stubConn) CreateWindow(rect driver.Rect, attrs driver.WindowAttributes) (driver.Handle, error) {
	c.mu.Lock()
	h := c.nextHandle
	c.nextHandle++
	c.mu.Unlock()
	c.record("CreateWindow %dx%d+%d+%d transparent=%v h=%d",
		rect.Width, rect.Height, rect.X, rect.Y, attrs.Transparent, h)
	return h, nil
}

func (c *stubConn) DestroyWindow(h driver.Handle) error {
	c.record("DestroyWindow %d", h)
	return nil
}

func (c *stubConn) MapWindow(h driver.Handle) error {
	c.record("MapWindow %d", h)
	return c.mapErr
}

func (c *stubConn) UnmapWindow(h driver.Handle) error {
	c.record("UnmapWindow %d", h)
	return nil
}

func (c *stubConn) Move(h driver.Handle, x, y int) error {
	c.record("Move %d %d,%d", h, x, y)
	return nil
}

func (c *stubConn) Resize(h driver.Handle, width, height int) error {
	c.record("Resize %d %dx%d", h, width, height)
	return nil
}

func (c *stubConn) FrameExtents(h driver.Handle) (int, int, int, int, error) {
	return c.frameLeft, 0, c.frameTop, 0, nil
}

func (c *stubConn) SetTitle(h driver.Handle, title string) error {
	c.record("SetTitle %d %q", h, title)
	return nil
}

func (c *stubConn) SetIcon(h driver.Handle, img image.Image) error {
	c.record("SetIcon %d", h)
	return nil
}

func (c *stubConn) SetSizeHints(h driver.Handle, hints driver.SizeHints) error {
	c.record("SetSizeHints %d min=%v/%v max=%v/%v",
		h, hints.HasMin, hints.Min, hints.HasMax, hints.Max)
	return nil
}

func (c *stubConn) SetTransientFor(h driver.Handle, parent driver.Handle) error {
	c.record("SetTransientFor %d parent=%d", h, parent)
	return nil
}

func (c *stubConn) SetDecorated(h driver.Handle, decorated bool) error {
	c.record("SetDecorated %d %v", h, decorated)
	return nil
}

func (c *stubConn) SetMaximized(h driver.Handle, on bool) error {
	c.record("SetMaximized %d %v", h, on)
	c.mu.Lock()
	if c.maximizeHonor {
		c.wmMaximized = on
	}
	c.mu.Unlock()
	return nil
}

func (c *stubConn) SetFullscreen(h driver.Handle, on bool) error {
	c.record("SetFullscreen %d %v", h, on)
	return nil
}

func (c *stubConn) SetIconified(h driver.Handle, on bool) error {
	c.record("SetIconified %d %v", h, on)
	c.mu.Lock()
	c.wmIconified = on
	c.mu.Unlock()
	return nil
}

func (c *stubConn) SetOnTop(h driver.Handle, on bool) error {
	c.record("SetOnTop %d %v", h, on)
	return nil
}

func (c *stubConn) SetAttention(h driver.Handle) error {
	c.record("SetAttention %d", h)
	return nil
}

func (c *stubConn) Activate(h driver.Handle) error {
	c.record("Activate %d", h)
	return nil
}

func (c *stubConn) WMState(h driver.Handle) (driver.WMState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return driver.WMState{Maximized: c.wmMaximized, Iconified: c.wmIconified}, nil
}

func (c *stubConn) MaximizeAllowed(h driver.Handle) (bool, error) {
	return c.maximizeAllow, nil
}

func (c *stubConn) Outputs() ([]driver.Output, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]driver.Output(nil), c.outputs...), nil
}

func (c *stubConn) TranslateCoordinates(src, dst driver.Handle, p Point) (Point, error) {
	return Point{X: p.X + c.translateShift.X, Y: p.Y + c.translateShift.Y}, nil
}

func (c *stubConn) QueryPointer() (Point, error) {
	return Point{}, nil
}

func (c *stubConn) WarpPointer(h driver.Handle, p Point) error {
	c.record("WarpPointer %d %d,%d", h, p.X, p.Y)
	return nil
}

func (c *stubConn) GrabPointer(h driver.Handle) error {
	c.record("GrabPointer %d", h)
	return nil
}

func (c *stubConn) UngrabPointer() error {
	c.record("UngrabPointer")
	return nil
}

func (c *stubConn) SetCursor(h driver.Handle, shape driver.Cursor) error {
	c.record("SetCursor %d %d", h, shape)
	return nil
}

func (c *stubConn) SetCursorVisible(h driver.Handle, visible bool) error {
	c.record("SetCursorVisible %d %v", h, visible)
	return nil
}

func (c *stubConn) LoadCursor(shape driver.Cursor, img image.Image, hotX, hotY int) error {
	c.record("LoadCursor %d", shape)
	return nil
}

func (c *stubConn) ClipboardSet(text string) error {
	c.mu.Lock()
	c.clipboard = text
	c.mu.Unlock()
	return nil
}

func (c *stubConn) ClipboardGet() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clipboard, nil
}

func (c *stubConn) KeyboardLayouts() ([]driver.Layout, error) {
	return []driver.Layout{{Name: "us", Language: "us"}}, nil
}

func (c *stubConn) CurrentKeyboardLayout() (int, error) { return 0, nil }

func (c *stubConn) SetCurrentKeyboardLayout(index int) error { return nil }

func (c *stubConn) WaitEvent(timeout time.Duration) bool {
	time.Sleep(time.Millisecond)
	return false
}

func (c *stubConn) PollEvent() (driver.Event, error) { return nil, nil }

func (c *stubConn) Flush() error { return nil }

func (c *stubConn) Close() error {
	c.record("Close")
	return nil
}

// newTestServer builds a server on a fresh stub with a quiet logger and a
// fast maximize probe.
func newTestServer(t *testing.T, opts Options) (*Server, *stubConn) {
	t.Helper()
	conn := newStubConn()
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s, err := New(conn, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.maximizeProbeInterval = time.Microsecond
	t.Cleanup(s.Close)
	return s, conn
}

// inject queues raw events and drains them through ProcessEvents.
func inject(s *Server, events ...driver.Event) {
	s.eventsMu.Lock()
	s.queue = append(s.queue, events...)
	s.eventsMu.Unlock()
	s.ProcessEvents()
}

// mainHandle returns the main window's native handle.
func mainHandle(t *testing.T, s *Server) driver.Handle {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	wd, ok := s.windows[MainWindowID]
	if !ok {
		t.Fatal("main window missing")
	}
	return wd.handle
}

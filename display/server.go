package display

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hollowtree/xdisplay/display/driver"
)

// Sentinel errors reported by the public entry points.
var (
	// ErrUnavailable means the windowing protocol could not be reached or
	// the presentation context failed to initialize. No partial server is
	// left running.
	ErrUnavailable = errors.New("display: server unavailable")
	// ErrInvalidWindow means the operation named an unknown window, or a
	// window that cannot be targeted (deleting the main window).
	ErrInvalidWindow = errors.New("display: invalid window")
	// ErrInvalidState means the requested mutation is illegal in the
	// window's current state; the window is left unchanged.
	ErrInvalidState = errors.New("display: invalid state")
)

// Renderer is the presentation-context boundary. The server notifies it of
// window surface lifecycle; it never calls back into the server.
type Renderer interface {
	// WindowCreate makes a presentation surface for a new window. An
	// error aborts window creation.
	WindowCreate(id WindowID, h driver.Handle, width, height int) error
	// WindowResize resizes the surface. Errors are non-fatal; the window
	// simply cannot draw until a later resize succeeds.
	WindowResize(id WindowID, width, height int) error
	WindowDestroy(id WindowID)
}

// nopRenderer backs servers that present nothing (tests, probes).
type nopRenderer struct{}

func (nopRenderer) WindowCreate(WindowID, driver.Handle, int, int) error { return nil }
func (nopRenderer) WindowResize(WindowID, int, int) error                { return nil }
func (nopRenderer) WindowDestroy(WindowID)                               {}

// Options configures New.
type Options struct {
	// Resolution is the main window's initial size. Zero falls back to
	// 640x480.
	Resolution Size
	// Mode is the main window's initial mode.
	Mode WindowMode
	// Flags is a bitmask of FlagBit values applied to the main window in
	// ascending flag order.
	Flags uint32
	// Title is the main window's initial title.
	Title string
	// Renderer receives surface lifecycle calls. Nil means no
	// presentation.
	Renderer Renderer
	// Logger receives diagnostics. Nil means slog.Default().
	Logger *slog.Logger
}

const (
	// eventWaitTimeout bounds one ingestion wait cycle; shutdown latency
	// is at most this long.
	eventWaitTimeout = time.Second

	// Maximize confirmation probe: the window manager never has to
	// honor the request, so give up after 50 attempts of 10ms.
	maximizeProbeAttempts = 50

	defaultWidth  = 640
	defaultHeight = 480
)

// Server is a display server instance. One background goroutine ingests
// protocol events; the owner drains them from its frame loop via
// ProcessEvents. All window mutation happens on the owner's goroutine,
// serialized by a single coarse lock.
type Server struct {
	conn     driver.Conn
	renderer Renderer
	logger   *slog.Logger

	mu      sync.Mutex // guards windows and all input-translation state
	windows map[WindowID]*windowData
	nextID  WindowID

	// Input-translation state, lifecycle = server lifetime.
	pointerMode  PointerMode
	lastPos      Point
	lastPosValid bool
	relMotion    Point
	buttonMask   ButtonMask
	lastTime     uint32
	filterPos    Point
	filterArmed  bool
	center       Point

	currentCursor   driver.Cursor
	lastClickTime   uint32
	lastClickButton int
	lastClickPos    Point

	inputHandler InputEventFunc

	// Consumer callbacks queued during event processing. They run after
	// s.mu is released, so a callback may call back into the server.
	pending []func()

	eventsMu sync.Mutex
	queue    []driver.Event

	maximizeProbeInterval time.Duration

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New builds a server on an established protocol connection, creates the
// main window centered on the first output, applies the requested flags and
// mode, maps it, and starts the event-ingestion goroutine.
func New(conn driver.Conn, opts Options) (*Server, error) {
	if conn == nil {
		return nil, fmt.Errorf("%w: no protocol connection", ErrUnavailable)
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = nopRenderer{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		conn:                  conn,
		renderer:              renderer,
		logger:                logger,
		windows:               make(map[WindowID]*windowData),
		pointerMode:           PointerVisible,
		currentCursor:         driver.CursorArrow,
		lastClickButton:       -1,
		lastClickPos:          Point{X: -100, Y: -100},
		maximizeProbeInterval: 10 * time.Millisecond,
		done:                  make(chan struct{}),
	}

	res := opts.Resolution
	if res.Width <= 0 || res.Height <= 0 {
		res = Size{Width: defaultWidth, Height: defaultHeight}
	}
	pos := Point{}
	if screen := s.ScreenSize(0); screen.Width > 0 && screen.Height > 0 {
		pos.X = (screen.Width - res.Width) / 2
		pos.Y = (screen.Height - res.Height) / 2
	}

	id, err := s.CreateSubWindow(opts.Mode, opts.Flags, Rect{
		X: pos.X, Y: pos.Y, Width: res.Width, Height: res.Height,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: main window: %v", ErrUnavailable, err)
	}
	if opts.Title != "" {
		s.WindowSetTitle(opts.Title, id)
	}
	if err := s.ShowWindow(id); err != nil {
		// Tear the half-built window down so construction failure leaves
		// nothing running.
		s.mu.Lock()
		if wd, ok := s.windows[id]; ok {
			s.renderer.WindowDestroy(id)
			if derr := s.conn.DestroyWindow(wd.handle); derr != nil {
				logger.Warn("destroy after failed map", "window_id", id, "error", derr)
			}
			delete(s.windows, id)
		}
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: map main window: %v", ErrUnavailable, err)
	}

	s.wg.Add(1)
	go s.pollEvents()

	return s, nil
}

// Name identifies the backend in diagnostics.
func (s *Server) Name() string { return "X11" }

// HasFeature reports whether the backend declares the capability.
func (s *Server) HasFeature(f Feature) bool {
	switch f {
	case FeatureSubwindows,
		FeatureMouse,
		FeatureMouseWarp,
		FeatureClipboard,
		FeatureCursorShape,
		FeatureCustomCursorShape,
		FeatureIME,
		FeatureWindowTransparency,
		FeatureIcon,
		FeatureNativeIcon,
		FeatureSwapBuffers:
		return true
	}
	return false
}

// SetInputEventHandler registers the global input sink invoked before
// per-window input callbacks. Last write wins.
func (s *Server) SetInputEventHandler(fn InputEventFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputHandler = fn
}

// pollEvents is the event-ingestion goroutine: block on the connection with
// a bounded wait, then drain everything readable into the shared queue. The
// shutdown flag is observed at the top of each cycle, so Close may take up
// to one wait cycle to join.
func (s *Server) pollEvents() {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		default:
		}

		s.conn.WaitEvent(eventWaitTimeout)

		s.eventsMu.Lock()
		for {
			ev, err := s.conn.PollEvent()
			if err != nil {
				s.logger.Warn("event poll failed", "error", err)
				break
			}
			if ev == nil {
				break
			}
			s.queue = append(s.queue, ev)
		}
		s.eventsMu.Unlock()
	}
}

// drainQueue takes ownership of everything the ingestion goroutine has
// queued so far. The mutex is held only for the swap.
func (s *Server) drainQueue() []driver.Event {
	s.eventsMu.Lock()
	defer s.eventsMu.Unlock()
	events := s.queue
	s.queue = nil
	return events
}

// ProcessEvents drains accumulated protocol events and dispatches them to
// the registered callbacks. Call once per frame from the owner's main
// goroutine. Callbacks run synchronously on that goroutine after the
// drained events have been applied, and they may call back into the
// server.
func (s *Server) ProcessEvents() {
	events := s.drainQueue()

	s.mu.Lock()
	for _, ev := range events {
		s.processEvent(ev)
	}
	s.mu.Unlock()

	s.runPendingCallbacks()

	if err := s.conn.Flush(); err != nil {
		s.logger.Warn("flush failed", "error", err)
	}
}

// runPendingCallbacks invokes the consumer callbacks queued while events
// were processed. Runs without s.mu held; anything a callback queues in
// turn is drained as well.
func (s *Server) runPendingCallbacks() {
	for {
		s.mu.Lock()
		pending := s.pending
		s.pending = nil
		s.mu.Unlock()

		if len(pending) == 0 {
			return
		}
		for _, fn := range pending {
			fn()
		}
	}
}

// Close signals the ingestion goroutine, joins it, tears down every window
// and closes the connection. Queued-but-undrained events are discarded.
// Further calls are no-ops.
func (s *Server) Close() {
	s.closeOnce.Do(s.close)
}

func (s *Server) close() {
	close(s.done)
	s.wg.Wait()

	s.eventsMu.Lock()
	s.queue = nil
	s.eventsMu.Unlock()

	s.mu.Lock()
	for id, wd := range s.windows {
		s.renderer.WindowDestroy(id)
		if err := s.conn.UnmapWindow(wd.handle); err != nil {
			s.logger.Warn("unmap failed during shutdown", "window_id", id, "error", err)
		}
		if err := s.conn.DestroyWindow(wd.handle); err != nil {
			s.logger.Warn("destroy failed during shutdown", "window_id", id, "error", err)
		}
		delete(s.windows, id)
	}
	s.mu.Unlock()

	if err := s.conn.Close(); err != nil {
		s.logger.Warn("connection close failed", "error", err)
	}
}

// Package driver defines the contract between the display server core and
// a windowing-protocol backend. Implementations translate these calls into
// whatever the native protocol speaks (EWMH client messages, properties,
// grabs); the core never sees protocol atoms or wire formats.
package driver

import (
	"image"
	"time"
)

// Handle is an opaque reference to a backend-owned window resource.
type Handle uint32

// None is the zero Handle; it names no window.
const None Handle = 0

// Point is a position in logical screen or window coordinates.
type Point struct {
	X int
	Y int
}

// Size is a width/height pair. The zero Size means "unset" wherever a
// constraint is optional.
type Size struct {
	Width  int
	Height int
}

// Rect combines a position and a size.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Position returns the rect's origin.
func (r Rect) Position() Point { return Point{X: r.X, Y: r.Y} }

// Size returns the rect's dimensions.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// WindowAttributes carries creation-time options that must be chosen before
// the native window exists (they select the visual).
type WindowAttributes struct {
	Transparent bool
}

// SizeHints is the resizability contract advertised to the window manager.
// Min/Max are honored only when the corresponding Has flag is set.
type SizeHints struct {
	Position Point
	Size     Size
	HasMin   bool
	Min      Size
	HasMax   bool
	Max      Size
}

// WMState is the subset of window-manager state the core probes after
// sending a state-change request the manager is free to ignore.
type WMState struct {
	Maximized bool
	Iconified bool
}

// Output describes one connected monitor. Physical dimensions are in
// millimeters and may be zero when the monitor does not report them.
type Output struct {
	Name           string
	X              int
	Y              int
	Width          int
	Height         int
	PhysicalWidth  int
	PhysicalHeight int
	Connected      bool
}

// Layout describes one keyboard layout group.
type Layout struct {
	Name     string
	Language string
}

// Cursor identifies a pointer shape. Shapes can be replaced by custom
// images via LoadCursor.
type Cursor int

const (
	CursorArrow Cursor = iota
	CursorIBeam
	CursorPointingHand
	CursorCross
	CursorWait
	CursorBusy
	CursorDrag
	CursorCanDrop
	CursorForbidden
	CursorVSize
	CursorHSize
	CursorBDiagSize
	CursorFDiagSize
	CursorMove
	CursorVSplit
	CursorHSplit
	CursorHelp
	CursorMax
)

// Modifier bits carried in raw event State fields. Backends normalize
// whatever their protocol reports into these positions.
const (
	StateShift   uint16 = 1 << 0
	StateControl uint16 = 1 << 2
	StateAlt     uint16 = 1 << 3
	StateMeta    uint16 = 1 << 6
)

// Conn is a live connection to the windowing protocol. All methods are
// called from the core's goroutines; implementations must be safe for the
// event-ingestion goroutine (WaitEvent/PollEvent) to run concurrently with
// the rest.
type Conn interface {
	// CreateWindow allocates an unmapped native window at the given
	// geometry. The returned handle stays valid until DestroyWindow.
	CreateWindow(rect Rect, attrs WindowAttributes) (Handle, error)
	DestroyWindow(h Handle) error
	MapWindow(h Handle) error
	UnmapWindow(h Handle) error

	Move(h Handle, x, y int) error
	Resize(h Handle, width, height int) error
	// FrameExtents reports the window-manager decoration border sizes.
	FrameExtents(h Handle) (left, right, top, bottom int, err error)

	SetTitle(h Handle, title string) error
	SetIcon(h Handle, img image.Image) error
	SetSizeHints(h Handle, hints SizeHints) error
	// SetTransientFor links h under parent for stacking and focus.
	// Passing None clears the link.
	SetTransientFor(h Handle, parent Handle) error
	SetDecorated(h Handle, decorated bool) error

	// State-change requests. The window manager may decline any of them;
	// WMState is how the core observes what actually happened.
	SetMaximized(h Handle, on bool) error
	SetFullscreen(h Handle, on bool) error
	SetIconified(h Handle, on bool) error
	SetOnTop(h Handle, on bool) error
	SetAttention(h Handle) error
	Activate(h Handle) error
	WMState(h Handle) (WMState, error)
	MaximizeAllowed(h Handle) (bool, error)

	Outputs() ([]Output, error)
	TranslateCoordinates(src, dst Handle, p Point) (Point, error)
	QueryPointer() (Point, error)
	WarpPointer(h Handle, p Point) error
	GrabPointer(h Handle) error
	UngrabPointer() error
	SetCursor(h Handle, shape Cursor) error
	SetCursorVisible(h Handle, visible bool) error
	LoadCursor(shape Cursor, img image.Image, hotX, hotY int) error

	ClipboardSet(text string) error
	ClipboardGet() (string, error)

	KeyboardLayouts() ([]Layout, error)
	CurrentKeyboardLayout() (int, error)
	SetCurrentKeyboardLayout(index int) error

	// WaitEvent blocks until at least one event is readable or the
	// timeout elapses. It reports whether events are pending.
	WaitEvent(timeout time.Duration) bool
	// PollEvent returns the next pending event without blocking, or nil
	// when the queue is empty.
	PollEvent() (Event, error)
	// Flush marks a request-batch boundary. Implementations that write
	// requests eagerly may treat it as a no-op; it must never block on a
	// server round trip.
	Flush() error
	Close() error
}

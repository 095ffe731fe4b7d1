package driver

// Event is a raw protocol event handed from the backend to the core in
// arrival order. The sealed marker keeps the set closed: the core's
// classification switch is exhaustive over these types.
type Event interface {
	event()
}

// MotionEvent is an absolute pointer motion report.
type MotionEvent struct {
	Window Handle
	X, Y   int // window-local
	RootX  int
	RootY  int
	State  uint16
	Time   uint32
}

// RawMotionEvent is a relative motion sample from the pointing device.
// Backends emit it only for genuine device motion, never for programmatic
// warps.
type RawMotionEvent struct {
	DX int
	DY int
}

// ButtonEvent is a pointer button press or release. Button indices start
// at 1; wheel steps arrive as buttons 4-7 per protocol convention.
type ButtonEvent struct {
	Window  Handle
	Button  int
	Pressed bool
	X, Y    int
	RootX   int
	RootY   int
	State   uint16
	Time    uint32
}

// KeyEvent is a keyboard press or release, already translated by the
// backend's keycode table.
type KeyEvent struct {
	Window  Handle
	Key     Key
	Rune    rune
	Pressed bool
	Echo    bool
	State   uint16
	Time    uint32
}

// TextEvent carries committed text input (IME or direct).
type TextEvent struct {
	Window Handle
	Text   string
}

// ConfigureEvent is the protocol's authoritative notice that a window's
// on-screen geometry changed.
type ConfigureEvent struct {
	Window Handle
	X, Y   int
	Width  int
	Height int
}

// FocusEvent reports keyboard focus entering or leaving a window.
type FocusEvent struct {
	Window Handle
	In     bool
}

// CrossingEvent reports the pointer entering or leaving a window.
type CrossingEvent struct {
	Window Handle
	Enter  bool
}

// CloseEvent is the window manager's request to close a window.
type CloseEvent struct {
	Window Handle
}

// DropEvent delivers file paths dropped onto a window.
type DropEvent struct {
	Window Handle
	Files  []string
}

func (MotionEvent) event()    {}
func (RawMotionEvent) event() {}
func (ButtonEvent) event()    {}
func (KeyEvent) event()       {}
func (TextEvent) event()      {}
func (ConfigureEvent) event() {}
func (FocusEvent) event()     {}
func (CrossingEvent) event()  {}
func (CloseEvent) event()     {}
func (DropEvent) event()      {}

// Package display implements a multi-window display server backend: it owns
// the window registry, the mode/flag state machine, and the pipeline that
// turns raw protocol events into normalized input events dispatched to
// per-window callbacks. The protocol itself lives behind driver.Conn.
package display

import "github.com/hollowtree/xdisplay/display/driver"

// Geometry types are shared with the driver contract so values cross the
// boundary without conversion.
type (
	Point = driver.Point
	Size  = driver.Size
	Rect  = driver.Rect
)

// WindowID names a window for its lifetime. IDs are allocated from a
// monotonically increasing counter and never reused.
type WindowID int

const (
	// MainWindowID is the first window, created by New. It cannot be
	// deleted while the server lives.
	MainWindowID WindowID = 0
	// InvalidWindowID names no window.
	InvalidWindowID WindowID = -1
)

// WindowMode is a window's exclusive presentation state.
type WindowMode int

const (
	ModeWindowed WindowMode = iota
	ModeMinimized
	ModeMaximized
	ModeFullscreen
)

func (m WindowMode) String() string {
	switch m {
	case ModeWindowed:
		return "windowed"
	case ModeMinimized:
		return "minimized"
	case ModeMaximized:
		return "maximized"
	case ModeFullscreen:
		return "fullscreen"
	}
	return "unknown"
}

// WindowFlag is an independent boolean window property.
type WindowFlag int

const (
	FlagResizeDisabled WindowFlag = iota
	FlagBorderless
	FlagAlwaysOnTop
	FlagTransparent
	FlagMax
)

func (f WindowFlag) String() string {
	switch f {
	case FlagResizeDisabled:
		return "resize_disabled"
	case FlagBorderless:
		return "borderless"
	case FlagAlwaysOnTop:
		return "always_on_top"
	case FlagTransparent:
		return "transparent"
	}
	return "unknown"
}

// FlagBit returns the mask bit used when flags are packed into a creation
// bitmask.
func FlagBit(f WindowFlag) uint32 { return 1 << uint(f) }

// PointerMode selects how pointer input is acquired and reported.
type PointerMode int

const (
	// PointerVisible shows the cursor and reports absolute positions.
	PointerVisible PointerMode = iota
	// PointerHidden hides the cursor; positions stay absolute.
	PointerHidden
	// PointerCaptured grabs the pointer, hides the cursor and re-centers
	// it every frame; only relative motion is meaningful.
	PointerCaptured
	// PointerConfined grabs the pointer to the main window but keeps the
	// cursor visible and positions absolute.
	PointerConfined
)

// WindowEvent is a window lifecycle notification delivered through the
// per-window window-event callback.
type WindowEvent int

const (
	WindowEventMouseEnter WindowEvent = iota
	WindowEventMouseExit
	WindowEventFocusIn
	WindowEventFocusOut
	WindowEventCloseRequest
	WindowEventGoBackRequest
	WindowEventDPIChange
)

// Feature is a capability the backend may declare.
type Feature int

const (
	FeatureSubwindows Feature = iota
	FeatureTouchscreen
	FeatureMouse
	FeatureMouseWarp
	FeatureClipboard
	FeatureCursorShape
	FeatureCustomCursorShape
	FeatureIME
	FeatureWindowTransparency
	FeatureHiDPI
	FeatureIcon
	FeatureNativeIcon
	FeatureSwapBuffers
)

// Modifiers is the normalized keyboard modifier bitmask attached to input
// events.
type Modifiers uint32

const (
	ModShift Modifiers = 1 << iota
	ModControl
	ModAlt
	ModMeta
)

// modifiersFromState maps a raw protocol modifier bitmask onto the portable
// set. AltGr deliberately does not count as Alt.
func modifiersFromState(state uint16) Modifiers {
	var m Modifiers
	if state&driver.StateShift != 0 {
		m |= ModShift
	}
	if state&driver.StateControl != 0 {
		m |= ModControl
	}
	if state&driver.StateAlt != 0 {
		m |= ModAlt
	}
	if state&driver.StateMeta != 0 {
		m |= ModMeta
	}
	return m
}

// ButtonMask is the pressed-button bitmask: bit i set means button i+1 is
// held.
type ButtonMask uint32

// MouseButtonLeft and friends are the conventional button indices.
const (
	MouseButtonLeft   = 1
	MouseButtonMiddle = 2
	MouseButtonRight  = 3
	MouseWheelUp      = 4
	MouseWheelDown    = 5
	MouseWheelLeft    = 6
	MouseWheelRight   = 7
)

// InputEvent is a normalized engine input event produced by the translation
// pipeline.
type InputEvent interface {
	// TargetWindow is the window the event should be delivered to, or
	// InvalidWindowID for broadcast.
	TargetWindow() WindowID
}

// MouseMotion reports pointer movement.
type MouseMotion struct {
	Window         WindowID
	Position       Point
	GlobalPosition Point
	Relative       Point
	Pressure       float64
	Tilt           Point
	Mods           Modifiers
	Buttons        ButtonMask
}

// MouseButton reports a button press or release.
type MouseButton struct {
	Window         WindowID
	Button         int
	Pressed        bool
	DoubleClick    bool
	Position       Point
	GlobalPosition Point
	Mods           Modifiers
	Buttons        ButtonMask
}

// KeyInput reports a key press or release.
type KeyInput struct {
	Window  WindowID
	Key     driver.Key
	Rune    rune
	Pressed bool
	Echo    bool
	Mods    Modifiers
}

func (e MouseMotion) TargetWindow() WindowID { return e.Window }
func (e MouseButton) TargetWindow() WindowID { return e.Window }
func (e KeyInput) TargetWindow() WindowID    { return e.Window }

// Per-window callback signatures. Each slot holds at most one consumer;
// registering replaces any prior registration.
type (
	RectChangedFunc func(id WindowID, rect Rect)
	WindowEventFunc func(id WindowID, event WindowEvent)
	InputEventFunc  func(event InputEvent)
	InputTextFunc   func(id WindowID, text string)
	DropFilesFunc   func(id WindowID, files []string)
)

package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/hollowtree/xdisplay/display/driver"
)

func (c *Conn) SetMaximized(h driver.Handle, on bool) error {
	return c.wmStateRequest(xproto.Window(h), on,
		"_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT")
}

func (c *Conn) SetFullscreen(h driver.Handle, on bool) error {
	return c.wmStateRequest(xproto.Window(h), on, "_NET_WM_STATE_FULLSCREEN")
}

// SetIconified requests iconification via the ICCCM WM_CHANGE_STATE message;
// de-iconification is a plain map plus activation.
func (c *Conn) SetIconified(h driver.Handle, on bool) error {
	win := xproto.Window(h)
	if on {
		const iconicState = 3
		changeState, err := c.atom("WM_CHANGE_STATE")
		if err != nil {
			return err
		}
		return c.sendClientMessage(win, changeState, [5]uint32{iconicState})
	}
	if err := xproto.MapWindowChecked(c.xu.Conn(), win).Check(); err != nil {
		return fmt.Errorf("map window: %w", err)
	}
	return c.Activate(h)
}

func (c *Conn) SetOnTop(h driver.Handle, on bool) error {
	return c.wmStateRequest(xproto.Window(h), on, "_NET_WM_STATE_ABOVE")
}

func (c *Conn) SetAttention(h driver.Handle) error {
	return c.wmStateRequest(xproto.Window(h), true, "_NET_WM_STATE_DEMANDS_ATTENTION")
}

// Activate raises and focuses the window via _NET_ACTIVE_WINDOW.
func (c *Conn) Activate(h driver.Handle) error {
	active, err := c.atom("_NET_ACTIVE_WINDOW")
	if err != nil {
		return err
	}
	const sourceIndication = 1 // normal application
	return c.sendClientMessage(xproto.Window(h), active,
		[5]uint32{sourceIndication, 0, 0, 0, 0})
}

// WMState reads back what the window manager actually did with the window.
func (c *Conn) WMState(h driver.Handle) (driver.WMState, error) {
	states, err := ewmh.WmStateGet(c.xu, xproto.Window(h))
	if err != nil {
		return driver.WMState{}, fmt.Errorf("get _NET_WM_STATE: %w", err)
	}
	var st driver.WMState
	horz, vert := false, false
	for _, s := range states {
		switch s {
		case "_NET_WM_STATE_MAXIMIZED_HORZ":
			horz = true
		case "_NET_WM_STATE_MAXIMIZED_VERT":
			vert = true
		case "_NET_WM_STATE_HIDDEN":
			st.Iconified = true
		}
	}
	st.Maximized = horz && vert
	return st, nil
}

// MaximizeAllowed checks _NET_WM_ALLOWED_ACTIONS for both maximize
// directions.
func (c *Conn) MaximizeAllowed(h driver.Handle) (bool, error) {
	actions, err := ewmh.WmAllowedActionsGet(c.xu, xproto.Window(h))
	if err != nil {
		return false, fmt.Errorf("get _NET_WM_ALLOWED_ACTIONS: %w", err)
	}
	horz, vert := false, false
	for _, a := range actions {
		switch a {
		case "_NET_WM_ACTION_MAXIMIZE_HORZ":
			horz = true
		case "_NET_WM_ACTION_MAXIMIZE_VERT":
			vert = true
		}
	}
	return horz && vert, nil
}

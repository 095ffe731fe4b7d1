// Package x11 implements the windowing-protocol backend on the X protocol,
// speaking EWMH and ICCCM to the window manager over a pure-Go connection.
package x11

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/render"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"

	"github.com/hollowtree/xdisplay/display/driver"
)

// Conn is a live X connection. It satisfies driver.Conn; the pending event
// buffer and clipboard state are guarded by mu because the ingestion
// goroutine pumps events concurrently with main-thread requests.
type Conn struct {
	xu   *xgbutil.XUtil
	root xproto.Window

	mu      sync.Mutex
	pending []driver.Event

	// Warp bookkeeping: the motion event echoing a programmatic warp must
	// not contribute a relative-motion sample.
	skipRaw      bool
	lastRoot     driver.Point
	lastRootSeen bool

	// Key-repeat detection holds a release back one event to pair it
	// with the repeat press carrying the same timestamp.
	heldRelease *xproto.KeyReleaseEvent

	// Clipboard: text we own, the window selections run through, and the
	// parked reply channel for an in-flight paste request.
	clipText  string
	clipOwned bool
	clipWin   xproto.Window
	selNotify chan *xproto.SelectionNotifyEvent

	// Drag and drop session state.
	dndSource xproto.Window
	dndType   xproto.Atom

	hiddenCursor xproto.Cursor
	cursors      [driver.CursorMax]xproto.Cursor

	kbdGroup int

	atoms map[string]xproto.Atom
}

// New connects to the X server named by DISPLAY and initializes the
// extensions the backend depends on.
func New() (*Conn, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect to X server: %w", err)
	}
	if err := randr.Init(xu.Conn()); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("randr init: %w", err)
	}
	if err := render.Init(xu.Conn()); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("render init: %w", err)
	}
	keybind.Initialize(xu)

	c := &Conn{
		xu:        xu,
		root:      xu.RootWin(),
		selNotify: make(chan *xproto.SelectionNotifyEvent, 1),
		atoms:     make(map[string]xproto.Atom),
	}
	if err := c.initCursors(); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("cursor init: %w", err)
	}
	return c, nil
}

// atom interns and caches a named atom.
func (c *Conn) atom(name string) (xproto.Atom, error) {
	c.mu.Lock()
	if a, ok := c.atoms[name]; ok {
		c.mu.Unlock()
		return a, nil
	}
	c.mu.Unlock()

	reply, err := xproto.InternAtom(c.xu.Conn(), false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("intern atom %s: %w", name, err)
	}

	c.mu.Lock()
	c.atoms[name] = reply.Atom
	c.mu.Unlock()
	return reply.Atom, nil
}

// sendClientMessage delivers a 32-bit-format client message to the root
// window with the substructure masks the window manager listens on. The
// message is built manually because the xgbutil ewmh request helpers panic
// on this library version (uint vs int type assertion).
func (c *Conn) sendClientMessage(win xproto.Window, typeAtom xproto.Atom, data [5]uint32) error {
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   typeAtom,
		Data:   xproto.ClientMessageDataUnionData32New(data[:]),
	}
	return xproto.SendEventChecked(
		c.xu.Conn(),
		false,
		c.root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

// wmStateRequest sends the _NET_WM_STATE add/remove message for up to two
// state atoms.
func (c *Conn) wmStateRequest(win xproto.Window, add bool, states ...string) error {
	const (
		actionRemove = 0
		actionAdd    = 1
	)
	wmState, err := c.atom("_NET_WM_STATE")
	if err != nil {
		return err
	}
	action := uint32(actionRemove)
	if add {
		action = actionAdd
	}
	data := [5]uint32{action}
	for i, name := range states {
		a, err := c.atom(name)
		if err != nil {
			return err
		}
		data[1+i] = uint32(a)
	}
	return c.sendClientMessage(win, wmState, data)
}

// Flush is a no-op: the binding writes each request to the socket as it is
// issued, so there is no client-side buffer to drain. Kept so callers can
// mark request-batch boundaries without a round trip.
func (c *Conn) Flush() error {
	return nil
}

// Close disconnects. Pending events are dropped.
func (c *Conn) Close() error {
	c.xu.Conn().Close()
	return nil
}

package x11

import (
	"net/url"
	"strings"
	"time"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/keybind"

	"github.com/hollowtree/xdisplay/display/driver"
	"github.com/hollowtree/xdisplay/internal/keymap"
)

// pumpInterval is how often WaitEvent re-polls the connection while waiting
// for its deadline.
const pumpInterval = 5 * time.Millisecond

// WaitEvent polls the connection until an event is pending or the timeout
// elapses.
func (c *Conn) WaitEvent(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		c.pump()

		c.mu.Lock()
		n := len(c.pending)
		c.mu.Unlock()
		if n > 0 {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(pumpInterval)
	}
}

// PollEvent returns the next translated event, nil when none is pending.
func (c *Conn) PollEvent() (driver.Event, error) {
	c.pump()

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.pending) == 0 {
		return nil, nil
	}
	ev := c.pending[0]
	c.pending = c.pending[1:]
	return ev, nil
}

// pump drains the wire connection, translating each protocol event and
// answering the ones that must never wait for a frame (selection requests,
// drag-and-drop handshakes).
func (c *Conn) pump() {
	for {
		raw, err := c.xu.Conn().PollForEvent()
		if err != nil {
			continue
		}
		if raw == nil {
			break
		}
		c.translate(raw)
	}
	c.flushHeldRelease()
}

// push appends a translated event to the pending buffer.
func (c *Conn) push(ev driver.Event) {
	c.mu.Lock()
	c.pending = append(c.pending, ev)
	c.mu.Unlock()
}

func (c *Conn) translate(raw xgb.Event) {
	// A held key release pairs only with the immediately following press.
	if _, ok := raw.(xproto.KeyPressEvent); !ok {
		c.flushHeldRelease()
	}

	switch ev := raw.(type) {
	case xproto.MotionNotifyEvent:
		c.translateMotion(ev)

	case xproto.ButtonPressEvent:
		c.push(driver.ButtonEvent{
			Window:  driver.Handle(ev.Event),
			Button:  int(ev.Detail),
			Pressed: true,
			X:       int(ev.EventX), Y: int(ev.EventY),
			RootX: int(ev.RootX), RootY: int(ev.RootY),
			State: ev.State,
			Time:  uint32(ev.Time),
		})

	case xproto.ButtonReleaseEvent:
		c.push(driver.ButtonEvent{
			Window:  driver.Handle(ev.Event),
			Button:  int(ev.Detail),
			Pressed: false,
			X:       int(ev.EventX), Y: int(ev.EventY),
			RootX: int(ev.RootX), RootY: int(ev.RootY),
			State: ev.State,
			Time:  uint32(ev.Time),
		})

	case xproto.KeyPressEvent:
		echo := false
		if held := c.heldRelease; held != nil &&
			held.Detail == ev.Detail && held.Time == ev.Time {
			// Release+press with identical timestamps is auto-repeat:
			// swallow the release, mark the press.
			c.heldRelease = nil
			echo = true
		} else {
			c.flushHeldRelease()
		}
		c.pushKey(xproto.KeyReleaseEvent(ev), true, echo)

	case xproto.KeyReleaseEvent:
		c.heldRelease = &ev

	case xproto.ConfigureNotifyEvent:
		c.push(driver.ConfigureEvent{
			Window: driver.Handle(ev.Window),
			X:      int(ev.X), Y: int(ev.Y),
			Width:  int(ev.Width),
			Height: int(ev.Height),
		})

	case xproto.FocusInEvent:
		if ev.Mode == xproto.NotifyModeNormal {
			c.push(driver.FocusEvent{Window: driver.Handle(ev.Event), In: true})
		}

	case xproto.FocusOutEvent:
		if ev.Mode == xproto.NotifyModeNormal {
			c.push(driver.FocusEvent{Window: driver.Handle(ev.Event), In: false})
		}

	case xproto.EnterNotifyEvent:
		if ev.Mode == xproto.NotifyModeNormal {
			c.push(driver.CrossingEvent{Window: driver.Handle(ev.Event), Enter: true})
		}

	case xproto.LeaveNotifyEvent:
		if ev.Mode == xproto.NotifyModeNormal {
			c.push(driver.CrossingEvent{Window: driver.Handle(ev.Event), Enter: false})
		}

	case xproto.ClientMessageEvent:
		c.translateClientMessage(ev)

	case xproto.SelectionRequestEvent:
		c.answerSelectionRequest(&ev)

	case xproto.SelectionNotifyEvent:
		c.routeSelectionNotify(ev)

	case xproto.MappingNotifyEvent:
		// Keyboard table changed under us.
		keybind.Initialize(c.xu)
	}
}

// translateMotion synthesizes a relative-motion sample from root-coordinate
// deltas, skipping the sample for motion caused by our own warps, then
// forwards the absolute report.
func (c *Conn) translateMotion(ev xproto.MotionNotifyEvent) {
	root := driver.Point{X: int(ev.RootX), Y: int(ev.RootY)}

	c.mu.Lock()
	skip := c.skipRaw || !c.lastRootSeen
	c.skipRaw = false
	dx := root.X - c.lastRoot.X
	dy := root.Y - c.lastRoot.Y
	c.lastRoot = root
	c.lastRootSeen = true
	c.mu.Unlock()

	if !skip && (dx != 0 || dy != 0) {
		c.push(driver.RawMotionEvent{DX: dx, DY: dy})
	}
	c.push(driver.MotionEvent{
		Window: driver.Handle(ev.Event),
		X:      int(ev.EventX), Y: int(ev.EventY),
		RootX: root.X, RootY: root.Y,
		State: ev.State,
		Time:  uint32(ev.Time),
	})
}

func (c *Conn) flushHeldRelease() {
	if held := c.heldRelease; held != nil {
		c.heldRelease = nil
		c.pushKey(*held, false, false)
	}
}

// pushKey translates a key event through the keysym table. The shifted
// keysym column drives the rune so typed text matches what the user sees.
func (c *Conn) pushKey(ev xproto.KeyReleaseEvent, pressed, echo bool) {
	column := byte(0)
	if ev.State&xproto.ModMaskShift != 0 {
		column = 1
	}
	keysym := keybind.KeysymGet(c.xu, ev.Detail, column)
	key := keymap.Lookup(uint32(keysym))
	if key == driver.KeyNone {
		// Fall back to the unshifted column for keys whose shifted
		// entry is dead or unbound.
		keysym = keybind.KeysymGet(c.xu, ev.Detail, 0)
		key = keymap.Lookup(uint32(keysym))
	}

	var r rune
	if keysym >= 0x20 && keysym <= 0x7e || keysym >= 0xa0 && keysym <= 0xff {
		r = rune(keysym)
	}

	kev := driver.KeyEvent{
		Window:  driver.Handle(ev.Event),
		Key:     key,
		Rune:    r,
		Pressed: pressed,
		Echo:    echo,
		State:   ev.State,
		Time:    uint32(ev.Time),
	}
	c.push(kev)

	if pressed && r != 0 && ev.State&xproto.ModMaskControl == 0 {
		c.push(driver.TextEvent{
			Window: driver.Handle(ev.Event),
			Text:   string(r),
		})
	}
}

// translateClientMessage handles window-manager protocol and drag-and-drop
// messages.
func (c *Conn) translateClientMessage(ev xproto.ClientMessageEvent) {
	if ev.Format != 32 {
		return
	}
	data := ev.Data.Data32

	wmProtocols, _ := c.atom("WM_PROTOCOLS")
	wmDelete, _ := c.atom("WM_DELETE_WINDOW")
	if ev.Type == wmProtocols && xproto.Atom(data[0]) == wmDelete {
		c.push(driver.CloseEvent{Window: driver.Handle(ev.Window)})
		return
	}

	xdndEnter, _ := c.atom("XdndEnter")
	xdndPosition, _ := c.atom("XdndPosition")
	xdndLeave, _ := c.atom("XdndLeave")
	xdndDrop, _ := c.atom("XdndDrop")

	switch ev.Type {
	case xdndEnter:
		c.dndEnter(ev.Window, data)
	case xdndPosition:
		c.dndPosition(ev.Window, data)
	case xdndLeave:
		c.mu.Lock()
		c.dndSource = 0
		c.dndType = 0
		c.mu.Unlock()
	case xdndDrop:
		c.dndDrop(ev.Window, data)
	}
}

// routeSelectionNotify separates drag-and-drop data deliveries from
// clipboard paste replies.
func (c *Conn) routeSelectionNotify(ev xproto.SelectionNotifyEvent) {
	xdndSelection, _ := c.atom("XdndSelection")
	if ev.Selection == xdndSelection {
		c.dndReceive(ev)
		return
	}
	select {
	case c.selNotify <- &ev:
	default:
		// No paste request in flight; stale reply.
	}
}

// dndVersion is the XDND protocol version we advertise.
const dndVersion = 5

// dndAwareSet marks a window as a drag-and-drop target.
func (c *Conn) dndAwareSet(win xproto.Window) {
	aware, err := c.atom("XdndAware")
	if err != nil {
		return
	}
	xproto.ChangeProperty(c.xu.Conn(), xproto.PropModeReplace, win,
		aware, xproto.AtomAtom, 32, 1, []byte{dndVersion, 0, 0, 0})
}

// dndEnter starts a drop session: remember the source and pick the uri-list
// type if offered.
func (c *Conn) dndEnter(win xproto.Window, data []uint32) {
	source := xproto.Window(data[0])
	uriList, err := c.atom("text/uri-list")
	if err != nil {
		return
	}

	var chosen xproto.Atom
	if data[1]&1 != 0 {
		// More than three types: they live in XdndTypeList on the source.
		typeList, err := c.atom("XdndTypeList")
		if err != nil {
			return
		}
		reply, err := xproto.GetProperty(c.xu.Conn(), false, source,
			typeList, xproto.AtomAtom, 0, 1024).Reply()
		if err != nil {
			return
		}
		for i := 0; i+4 <= len(reply.Value); i += 4 {
			a := xproto.Atom(xgb.Get32(reply.Value[i:]))
			if a == uriList {
				chosen = a
				break
			}
		}
	} else {
		for _, d := range data[2:5] {
			if xproto.Atom(d) == uriList {
				chosen = uriList
				break
			}
		}
	}

	c.mu.Lock()
	c.dndSource = source
	c.dndType = chosen
	c.mu.Unlock()
	_ = win
}

// dndPosition acknowledges the drag with an XdndStatus accepting a copy.
func (c *Conn) dndPosition(win xproto.Window, data []uint32) {
	source := xproto.Window(data[0])
	status, err := c.atom("XdndStatus")
	if err != nil {
		return
	}
	actionCopy, err := c.atom("XdndActionCopy")
	if err != nil {
		return
	}

	c.mu.Lock()
	accept := uint32(0)
	if c.dndType != 0 {
		accept = 1
	}
	c.mu.Unlock()

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: source,
		Type:   status,
		Data: xproto.ClientMessageDataUnionData32New([]uint32{
			uint32(win), accept, 0, 0, uint32(actionCopy),
		}),
	}
	xproto.SendEvent(c.xu.Conn(), false, source,
		xproto.EventMaskNoEvent, string(ev.Bytes()))
}

// dndDrop asks the source to deliver the data through XdndSelection.
func (c *Conn) dndDrop(win xproto.Window, data []uint32) {
	c.mu.Lock()
	dtype := c.dndType
	c.mu.Unlock()
	if dtype == 0 {
		c.dndFinish(win, false)
		return
	}

	xdndSelection, err := c.atom("XdndSelection")
	if err != nil {
		return
	}
	property, err := c.atom("XDISPLAY_DND")
	if err != nil {
		return
	}
	xproto.ConvertSelection(c.xu.Conn(), win, xdndSelection, dtype,
		property, xproto.Timestamp(data[2]))
}

// dndReceive reads the delivered uri-list, emits the drop and closes the
// session.
func (c *Conn) dndReceive(ev xproto.SelectionNotifyEvent) {
	defer c.dndFinish(ev.Requestor, ev.Property != xproto.AtomNone)

	if ev.Property == xproto.AtomNone {
		return
	}
	reply, err := xproto.GetProperty(c.xu.Conn(), true, ev.Requestor,
		ev.Property, xproto.GetPropertyTypeAny, 0, 1<<20).Reply()
	if err != nil {
		return
	}
	files := parseURIList(string(reply.Value))
	if len(files) == 0 {
		return
	}
	c.push(driver.DropEvent{
		Window: driver.Handle(ev.Requestor),
		Files:  files,
	})
}

// dndFinish closes the drop session with XdndFinished.
func (c *Conn) dndFinish(win xproto.Window, accepted bool) {
	c.mu.Lock()
	source := c.dndSource
	c.dndSource = 0
	c.dndType = 0
	c.mu.Unlock()
	if source == 0 {
		return
	}

	finished, err := c.atom("XdndFinished")
	if err != nil {
		return
	}
	actionCopy, _ := c.atom("XdndActionCopy")

	flags := uint32(0)
	action := uint32(0)
	if accepted {
		flags = 1
		action = uint32(actionCopy)
	}
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: source,
		Type:   finished,
		Data: xproto.ClientMessageDataUnionData32New([]uint32{
			uint32(win), flags, action, 0, 0,
		}),
	}
	xproto.SendEvent(c.xu.Conn(), false, source,
		xproto.EventMaskNoEvent, string(ev.Bytes()))
}

// parseURIList extracts local file paths from a text/uri-list payload.
func parseURIList(s string) []string {
	var files []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.HasPrefix(line, "file://") {
			continue
		}
		path := strings.TrimPrefix(line, "file://")
		// Strip an authority component (usually empty or localhost).
		if i := strings.Index(path, "/"); i > 0 {
			path = path[i:]
		}
		if decoded, err := url.PathUnescape(path); err == nil {
			path = decoded
		}
		files = append(files, path)
	}
	return files
}

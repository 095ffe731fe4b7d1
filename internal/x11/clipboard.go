package x11

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/BurntSushi/xgb/xproto"
)

// clipboardTimeout bounds the wait for another client to deliver a paste.
const clipboardTimeout = time.Second

// ClipboardSet takes ownership of both CLIPBOARD and PRIMARY and serves the
// text to requestors from the event pump.
func (c *Conn) ClipboardSet(text string) error {
	clipboard, err := c.atom("CLIPBOARD")
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.clipText = text
	c.clipOwned = true
	c.mu.Unlock()

	owner := c.clipboardWindow()
	if err := xproto.SetSelectionOwnerChecked(c.xu.Conn(), owner,
		clipboard, xproto.TimeCurrentTime).Check(); err != nil {
		return fmt.Errorf("own CLIPBOARD: %w", err)
	}
	if err := xproto.SetSelectionOwnerChecked(c.xu.Conn(), owner,
		xproto.AtomPrimary, xproto.TimeCurrentTime).Check(); err != nil {
		return fmt.Errorf("own PRIMARY: %w", err)
	}
	return nil
}

// ClipboardGet returns our own text when we hold the selection, otherwise
// asks the owner to convert to UTF8_STRING and waits for the reply.
func (c *Conn) ClipboardGet() (string, error) {
	c.mu.Lock()
	if c.clipOwned {
		text := c.clipText
		c.mu.Unlock()
		return text, nil
	}
	c.mu.Unlock()

	clipboard, err := c.atom("CLIPBOARD")
	if err != nil {
		return "", err
	}
	utf8String, err := c.atom("UTF8_STRING")
	if err != nil {
		return "", err
	}
	property, err := c.atom("XDISPLAY_SELECTION")
	if err != nil {
		return "", err
	}

	requestor := c.clipboardWindow()
	if err := xproto.ConvertSelectionChecked(c.xu.Conn(), requestor,
		clipboard, utf8String, property, xproto.TimeCurrentTime).Check(); err != nil {
		return "", fmt.Errorf("convert selection: %w", err)
	}

	// The owner answers with a SelectionNotify; the event pump parks it
	// on selNotify instead of the normal queue.
	select {
	case ev := <-c.selNotify:
		if ev.Property == xproto.AtomNone {
			return "", nil
		}
		reply, err := xproto.GetProperty(c.xu.Conn(), true, requestor,
			ev.Property, xproto.GetPropertyTypeAny, 0, 1<<20).Reply()
		if err != nil {
			return "", fmt.Errorf("read selection property: %w", err)
		}
		return string(reply.Value), nil
	case <-time.After(clipboardTimeout):
		return "", fmt.Errorf("selection owner did not answer")
	}
}

// clipboardWindow is the window selections are owned through: the first
// window created on this connection, falling back to the root before any
// window exists.
func (c *Conn) clipboardWindow() xproto.Window {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.clipWin != 0 {
		return c.clipWin
	}
	return c.root
}

// answerSelectionRequest serves our clipboard text to another client. Runs
// inline on the event pump so paste requests never wait for a frame.
func (c *Conn) answerSelectionRequest(req *xproto.SelectionRequestEvent) {
	c.mu.Lock()
	text := c.clipText
	owned := c.clipOwned
	c.mu.Unlock()

	property := req.Property
	if property == xproto.AtomNone {
		property = req.Target
	}

	notify := xproto.SelectionNotifyEvent{
		Time:      req.Time,
		Requestor: req.Requestor,
		Selection: req.Selection,
		Target:    req.Target,
		Property:  xproto.AtomNone,
	}

	targets, _ := c.atom("TARGETS")
	utf8String, _ := c.atom("UTF8_STRING")

	if owned {
		switch req.Target {
		case targets:
			data := make([]byte, 8)
			binary.LittleEndian.PutUint32(data[:4], uint32(utf8String))
			binary.LittleEndian.PutUint32(data[4:], uint32(xproto.AtomString))
			err := xproto.ChangePropertyChecked(c.xu.Conn(),
				xproto.PropModeReplace, req.Requestor, property,
				xproto.AtomAtom, 32, 2, data).Check()
			if err == nil {
				notify.Property = property
			}
		case utf8String, xproto.AtomString:
			err := xproto.ChangePropertyChecked(c.xu.Conn(),
				xproto.PropModeReplace, req.Requestor, property,
				req.Target, 8, uint32(len(text)), []byte(text)).Check()
			if err == nil {
				notify.Property = property
			}
		}
	}

	xproto.SendEvent(c.xu.Conn(), false, req.Requestor,
		xproto.EventMaskNoEvent, string(notify.Bytes()))
}

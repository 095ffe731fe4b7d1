package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/hollowtree/xdisplay/display/driver"
)

// Outputs enumerates enabled CRTCs via RandR. Disabled CRTCs (zero area or
// no outputs routed) are skipped.
func (c *Conn) Outputs() ([]driver.Output, error) {
	resources, err := randr.GetScreenResources(c.xu.Conn(), c.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("get screen resources: %w", err)
	}

	var outputs []driver.Output
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.xu.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		out := driver.Output{
			Name:      fmt.Sprintf("Output%d", i),
			X:         int(info.X),
			Y:         int(info.Y),
			Width:     int(info.Width),
			Height:    int(info.Height),
			Connected: true,
		}
		if oi, err := randr.GetOutputInfo(c.xu.Conn(), info.Outputs[0],
			resources.ConfigTimestamp).Reply(); err == nil {
			out.Name = string(oi.Name)
			out.PhysicalWidth = int(oi.MmWidth)
			out.PhysicalHeight = int(oi.MmHeight)
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

// TranslateCoordinates maps a point from one window's space into another's.
func (c *Conn) TranslateCoordinates(src, dst driver.Handle, p driver.Point) (driver.Point, error) {
	reply, err := xproto.TranslateCoordinates(c.xu.Conn(),
		xproto.Window(src), xproto.Window(dst),
		int16(p.X), int16(p.Y)).Reply()
	if err != nil {
		return driver.Point{}, fmt.Errorf("translate coordinates: %w", err)
	}
	return driver.Point{X: int(reply.DstX), Y: int(reply.DstY)}, nil
}

// QueryPointer reports the pointer's root-space position.
func (c *Conn) QueryPointer() (driver.Point, error) {
	reply, err := xproto.QueryPointer(c.xu.Conn(), c.root).Reply()
	if err != nil {
		return driver.Point{}, fmt.Errorf("query pointer: %w", err)
	}
	return driver.Point{X: int(reply.RootX), Y: int(reply.RootY)}, nil
}

// WarpPointer moves the pointer to a window-local position. The resulting
// motion event is an echo, not user input; raw-motion synthesis skips it.
func (c *Conn) WarpPointer(h driver.Handle, p driver.Point) error {
	c.mu.Lock()
	c.skipRaw = true
	c.mu.Unlock()

	return xproto.WarpPointerChecked(c.xu.Conn(),
		xproto.WindowNone, xproto.Window(h),
		0, 0, 0, 0,
		int16(p.X), int16(p.Y)).Check()
}

// GrabPointer confines the pointer to the window and routes all pointer
// events to it.
func (c *Conn) GrabPointer(h driver.Handle) error {
	win := xproto.Window(h)
	reply, err := xproto.GrabPointer(c.xu.Conn(),
		true, win,
		xproto.EventMaskButtonPress|xproto.EventMaskButtonRelease|
			xproto.EventMaskPointerMotion|xproto.EventMaskEnterWindow|
			xproto.EventMaskLeaveWindow,
		xproto.GrabModeAsync, xproto.GrabModeAsync,
		win, xproto.CursorNone, xproto.TimeCurrentTime).Reply()
	if err != nil {
		return fmt.Errorf("grab pointer: %w", err)
	}
	if reply.Status != xproto.GrabStatusSuccess {
		return fmt.Errorf("grab pointer: status %d", reply.Status)
	}
	return nil
}

func (c *Conn) UngrabPointer() error {
	return xproto.UngrabPointerChecked(c.xu.Conn(), xproto.TimeCurrentTime).Check()
}

package x11

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"

	"github.com/hollowtree/xdisplay/display/driver"
)

// windowEventMask selects everything the input pipeline consumes.
const windowEventMask = xproto.EventMaskKeyPress |
	xproto.EventMaskKeyRelease |
	xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskPointerMotion |
	xproto.EventMaskEnterWindow |
	xproto.EventMaskLeaveWindow |
	xproto.EventMaskFocusChange |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskExposure |
	xproto.EventMaskPropertyChange

// CreateWindow allocates an unmapped top-level window. Transparent windows
// get a 32-bit visual with its own colormap when the screen offers one.
func (c *Conn) CreateWindow(rect driver.Rect, attrs driver.WindowAttributes) (driver.Handle, error) {
	wid, err := xproto.NewWindowId(c.xu.Conn())
	if err != nil {
		return driver.None, fmt.Errorf("allocate window id: %w", err)
	}

	screen := c.xu.Screen()
	depth := screen.RootDepth
	visual := screen.RootVisual
	colormap := screen.DefaultColormap

	if attrs.Transparent {
		if d, v, ok := c.argbVisual(); ok {
			depth, visual = d, v
			cid, err := xproto.NewColormapId(c.xu.Conn())
			if err != nil {
				return driver.None, fmt.Errorf("allocate colormap id: %w", err)
			}
			if err := xproto.CreateColormapChecked(c.xu.Conn(),
				xproto.ColormapAllocNone, cid, c.root, visual).Check(); err != nil {
				return driver.None, fmt.Errorf("create colormap: %w", err)
			}
			colormap = cid
		}
	}

	err = xproto.CreateWindowChecked(c.xu.Conn(),
		depth, wid, c.root,
		int16(rect.X), int16(rect.Y), uint16(rect.Width), uint16(rect.Height),
		0, xproto.WindowClassInputOutput, visual,
		xproto.CwBackPixel|xproto.CwBorderPixel|xproto.CwColormap|xproto.CwEventMask,
		[]uint32{0, 0, uint32(colormap), windowEventMask},
	).Check()
	if err != nil {
		return driver.None, fmt.Errorf("create window: %w", err)
	}

	if err := icccm.WmProtocolsSet(c.xu, wid, []string{"WM_DELETE_WINDOW"}); err != nil {
		return driver.None, fmt.Errorf("set WM_PROTOCOLS: %w", err)
	}
	c.dndAwareSet(wid)
	xproto.ChangeWindowAttributes(c.xu.Conn(), wid,
		xproto.CwCursor, []uint32{uint32(c.cursors[driver.CursorArrow])})

	c.mu.Lock()
	if c.clipWin == 0 {
		c.clipWin = wid
	}
	c.mu.Unlock()

	return driver.Handle(wid), nil
}

// argbVisual finds a 32-bit TrueColor visual for per-pixel alpha.
func (c *Conn) argbVisual() (byte, xproto.Visualid, bool) {
	for _, depth := range c.xu.Screen().AllowedDepths {
		if depth.Depth != 32 {
			continue
		}
		for _, vis := range depth.Visuals {
			if vis.Class == xproto.VisualClassTrueColor {
				return depth.Depth, vis.VisualId, true
			}
		}
	}
	return 0, 0, false
}

func (c *Conn) DestroyWindow(h driver.Handle) error {
	return xproto.DestroyWindowChecked(c.xu.Conn(), xproto.Window(h)).Check()
}

func (c *Conn) MapWindow(h driver.Handle) error {
	return xproto.MapWindowChecked(c.xu.Conn(), xproto.Window(h)).Check()
}

func (c *Conn) UnmapWindow(h driver.Handle) error {
	return xproto.UnmapWindowChecked(c.xu.Conn(), xproto.Window(h)).Check()
}

func (c *Conn) Move(h driver.Handle, x, y int) error {
	return xproto.ConfigureWindowChecked(c.xu.Conn(), xproto.Window(h),
		xproto.ConfigWindowX|xproto.ConfigWindowY,
		[]uint32{uint32(x), uint32(y)},
	).Check()
}

func (c *Conn) Resize(h driver.Handle, width, height int) error {
	return xproto.ConfigureWindowChecked(c.xu.Conn(), xproto.Window(h),
		xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(width), uint32(height)},
	).Check()
}

// FrameExtents reports the decoration border sizes. Windows the manager has
// not decorated yet report zeros without error.
func (c *Conn) FrameExtents(h driver.Handle) (left, right, top, bottom int, err error) {
	extents, err := ewmh.FrameExtentsGet(c.xu, xproto.Window(h))
	if err != nil {
		return 0, 0, 0, 0, nil
	}
	return int(extents.Left), int(extents.Right), int(extents.Top), int(extents.Bottom), nil
}

func (c *Conn) SetTitle(h driver.Handle, title string) error {
	win := xproto.Window(h)
	if err := ewmh.WmNameSet(c.xu, win, title); err != nil {
		return fmt.Errorf("set _NET_WM_NAME: %w", err)
	}
	// Legacy property for window managers predating EWMH.
	if err := icccm.WmNameSet(c.xu, win, title); err != nil {
		return fmt.Errorf("set WM_NAME: %w", err)
	}
	return nil
}

// SetIcon publishes the image as _NET_WM_ICON in 32-bit ARGB rows.
func (c *Conn) SetIcon(h driver.Handle, img image.Image) error {
	bounds := img.Bounds()
	w, hgt := bounds.Dx(), bounds.Dy()
	rgba := image.NewRGBA(image.Rect(0, 0, w, hgt))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	data := make([]uint, w*hgt)
	for y := 0; y < hgt; y++ {
		for x := 0; x < w; x++ {
			i := rgba.PixOffset(x, y)
			r, g, b, a := rgba.Pix[i], rgba.Pix[i+1], rgba.Pix[i+2], rgba.Pix[i+3]
			data[y*w+x] = uint(a)<<24 | uint(r)<<16 | uint(g)<<8 | uint(b)
		}
	}
	icon := ewmh.WmIcon{Width: uint(w), Height: uint(hgt), Data: data}
	if err := ewmh.WmIconSet(c.xu, xproto.Window(h), []ewmh.WmIcon{icon}); err != nil {
		return fmt.Errorf("set _NET_WM_ICON: %w", err)
	}
	return nil
}

// SetSizeHints publishes WM_NORMAL_HINTS. Min/max are included only when
// flagged, so the manager treats the window as freely resizable otherwise.
func (c *Conn) SetSizeHints(h driver.Handle, hints driver.SizeHints) error {
	nh := icccm.NormalHints{
		Flags:  icccm.SizeHintPPosition | icccm.SizeHintPSize,
		X:      hints.Position.X,
		Y:      hints.Position.Y,
		Width:  uint(hints.Size.Width),
		Height: uint(hints.Size.Height),
	}
	if hints.HasMin {
		nh.Flags |= icccm.SizeHintPMinSize
		nh.MinWidth = uint(hints.Min.Width)
		nh.MinHeight = uint(hints.Min.Height)
	}
	if hints.HasMax {
		nh.Flags |= icccm.SizeHintPMaxSize
		nh.MaxWidth = uint(hints.Max.Width)
		nh.MaxHeight = uint(hints.Max.Height)
	}
	if err := icccm.WmNormalHintsSet(c.xu, xproto.Window(h), &nh); err != nil {
		return fmt.Errorf("set WM_NORMAL_HINTS: %w", err)
	}
	return nil
}

func (c *Conn) SetTransientFor(h driver.Handle, parent driver.Handle) error {
	win := xproto.Window(h)
	if parent == driver.None {
		return xproto.DeletePropertyChecked(c.xu.Conn(), win,
			xproto.AtomWmTransientFor).Check()
	}
	if err := icccm.WmTransientForSet(c.xu, win, xproto.Window(parent)); err != nil {
		return fmt.Errorf("set WM_TRANSIENT_FOR: %w", err)
	}
	return nil
}

// Motif hint constants for SetDecorated. The property survived every EWMH
// revision because no replacement covers plain decoration toggling.
const (
	motifHintDecorations = 1 << 1
	motifDecorAll        = 1
)

func (c *Conn) SetDecorated(h driver.Handle, decorated bool) error {
	var decor uint = 0
	if decorated {
		decor = motifDecorAll
	}
	err := xprop.ChangeProp32(c.xu, xproto.Window(h),
		"_MOTIF_WM_HINTS", "_MOTIF_WM_HINTS",
		motifHintDecorations, 0, decor, 0, 0)
	if err != nil {
		return fmt.Errorf("set _MOTIF_WM_HINTS: %w", err)
	}
	return nil
}

package x11

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/BurntSushi/xgb/render"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xcursor"

	"github.com/hollowtree/xdisplay/display/driver"
)

// fontCursors maps portable shapes onto the standard X cursor font glyphs.
var fontCursors = [driver.CursorMax]uint16{
	driver.CursorArrow:        xcursor.LeftPtr,
	driver.CursorIBeam:        xcursor.XTerm,
	driver.CursorPointingHand: xcursor.Hand2,
	driver.CursorCross:        xcursor.Crosshair,
	driver.CursorWait:         xcursor.Watch,
	driver.CursorBusy:         xcursor.Watch,
	driver.CursorDrag:         xcursor.Fleur,
	driver.CursorCanDrop:      xcursor.Hand1,
	driver.CursorForbidden:    xcursor.XCursor,
	driver.CursorVSize:        xcursor.SBVDoubleArrow,
	driver.CursorHSize:        xcursor.SBHDoubleArrow,
	driver.CursorBDiagSize:    xcursor.TopRightCorner,
	driver.CursorFDiagSize:    xcursor.TopLeftCorner,
	driver.CursorMove:         xcursor.Fleur,
	driver.CursorVSplit:       xcursor.SBVDoubleArrow,
	driver.CursorHSplit:       xcursor.SBHDoubleArrow,
	driver.CursorHelp:         xcursor.QuestionArrow,
}

// initCursors loads every stock shape and builds the blank cursor used when
// the pointer is hidden.
func (c *Conn) initCursors() error {
	for shape, glyph := range fontCursors {
		cur, err := xcursor.CreateCursor(c.xu, glyph)
		if err != nil {
			return fmt.Errorf("create font cursor %d: %w", shape, err)
		}
		c.cursors[shape] = cur
	}

	// 1x1 empty bitmap serves as the invisible cursor.
	pixmap, err := xproto.NewPixmapId(c.xu.Conn())
	if err != nil {
		return fmt.Errorf("allocate pixmap id: %w", err)
	}
	if err := xproto.CreatePixmapChecked(c.xu.Conn(), 1, pixmap,
		xproto.Drawable(c.root), 1, 1).Check(); err != nil {
		return fmt.Errorf("create blank pixmap: %w", err)
	}
	cursor, err := xproto.NewCursorId(c.xu.Conn())
	if err != nil {
		return fmt.Errorf("allocate cursor id: %w", err)
	}
	if err := xproto.CreateCursorChecked(c.xu.Conn(), cursor,
		pixmap, pixmap, 0, 0, 0, 0, 0, 0, 0, 0).Check(); err != nil {
		return fmt.Errorf("create blank cursor: %w", err)
	}
	xproto.FreePixmap(c.xu.Conn(), pixmap)
	c.hiddenCursor = cursor
	return nil
}

// SetCursor applies a shape to one window.
func (c *Conn) SetCursor(h driver.Handle, shape driver.Cursor) error {
	if shape < 0 || shape >= driver.CursorMax {
		return fmt.Errorf("unknown cursor shape %d", shape)
	}
	return xproto.ChangeWindowAttributesChecked(c.xu.Conn(), xproto.Window(h),
		xproto.CwCursor, []uint32{uint32(c.cursors[shape])}).Check()
}

// SetCursorVisible swaps between the blank cursor and the arrow. The core
// re-applies the active shape afterwards when visibility returns.
func (c *Conn) SetCursorVisible(h driver.Handle, visible bool) error {
	cursor := c.hiddenCursor
	if visible {
		cursor = c.cursors[driver.CursorArrow]
	}
	return xproto.ChangeWindowAttributesChecked(c.xu.Conn(), xproto.Window(h),
		xproto.CwCursor, []uint32{uint32(cursor)}).Check()
}

// LoadCursor replaces one shape with a custom ARGB image rendered through
// the RENDER extension. A nil image restores the stock glyph.
func (c *Conn) LoadCursor(shape driver.Cursor, img image.Image, hotX, hotY int) error {
	if shape < 0 || shape >= driver.CursorMax {
		return fmt.Errorf("unknown cursor shape %d", shape)
	}
	if img == nil {
		cur, err := xcursor.CreateCursor(c.xu, fontCursors[shape])
		if err != nil {
			return fmt.Errorf("restore font cursor: %w", err)
		}
		c.cursors[shape] = cur
		return nil
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	// RENDER wants premultiplied BGRA rows.
	data := make([]byte, 4*w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := rgba.PixOffset(x, y)
			r, g, b, a := uint32(rgba.Pix[i]), uint32(rgba.Pix[i+1]),
				uint32(rgba.Pix[i+2]), uint32(rgba.Pix[i+3])
			o := 4 * (y*w + x)
			data[o] = byte(b * a / 255)
			data[o+1] = byte(g * a / 255)
			data[o+2] = byte(r * a / 255)
			data[o+3] = byte(a)
		}
	}

	pixmap, err := xproto.NewPixmapId(c.xu.Conn())
	if err != nil {
		return fmt.Errorf("allocate pixmap id: %w", err)
	}
	if err := xproto.CreatePixmapChecked(c.xu.Conn(), 32, pixmap,
		xproto.Drawable(c.root), uint16(w), uint16(h)).Check(); err != nil {
		return fmt.Errorf("create cursor pixmap: %w", err)
	}
	defer xproto.FreePixmap(c.xu.Conn(), pixmap)

	gc, err := xproto.NewGcontextId(c.xu.Conn())
	if err != nil {
		return fmt.Errorf("allocate gc id: %w", err)
	}
	if err := xproto.CreateGCChecked(c.xu.Conn(), gc,
		xproto.Drawable(pixmap), 0, nil).Check(); err != nil {
		return fmt.Errorf("create gc: %w", err)
	}
	defer xproto.FreeGC(c.xu.Conn(), gc)

	if err := xproto.PutImageChecked(c.xu.Conn(), xproto.ImageFormatZPixmap,
		xproto.Drawable(pixmap), gc,
		uint16(w), uint16(h), 0, 0, 0, 32, data).Check(); err != nil {
		return fmt.Errorf("upload cursor image: %w", err)
	}

	format, err := c.argbPictFormat()
	if err != nil {
		return err
	}
	picture, err := render.NewPictureId(c.xu.Conn())
	if err != nil {
		return fmt.Errorf("allocate picture id: %w", err)
	}
	if err := render.CreatePictureChecked(c.xu.Conn(), picture,
		xproto.Drawable(pixmap), format, 0, nil).Check(); err != nil {
		return fmt.Errorf("create picture: %w", err)
	}
	defer render.FreePicture(c.xu.Conn(), picture)

	cursor, err := xproto.NewCursorId(c.xu.Conn())
	if err != nil {
		return fmt.Errorf("allocate cursor id: %w", err)
	}
	if err := render.CreateCursorChecked(c.xu.Conn(), cursor, picture,
		uint16(hotX), uint16(hotY)).Check(); err != nil {
		return fmt.Errorf("create render cursor: %w", err)
	}

	c.cursors[shape] = cursor
	return nil
}

// argbPictFormat locates the 32-bit direct picture format with an alpha
// channel.
func (c *Conn) argbPictFormat() (render.Pictformat, error) {
	reply, err := render.QueryPictFormats(c.xu.Conn()).Reply()
	if err != nil {
		return 0, fmt.Errorf("query picture formats: %w", err)
	}
	for _, f := range reply.Formats {
		if f.Type == render.PictTypeDirect && f.Depth == 32 && f.Direct.AlphaMask != 0 {
			return f.Id, nil
		}
	}
	return 0, fmt.Errorf("no ARGB32 picture format")
}

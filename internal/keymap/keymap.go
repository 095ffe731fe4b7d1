// Package keymap translates X keysyms into portable key codes. The table
// covers Latin-1 printable keys, the editing/navigation/function block and
// the keypad; anything else maps to KeyNone.
package keymap

import "github.com/hollowtree/xdisplay/display/driver"

// X keysym constants, from keysymdef.h.
const (
	xkBackSpace = 0xff08
	xkTab       = 0xff09
	xkReturn    = 0xff0d
	xkPause     = 0xff13
	xkScrollLck = 0xff14
	xkEscape    = 0xff1b
	xkHome      = 0xff50
	xkLeft      = 0xff51
	xkUp        = 0xff52
	xkRight     = 0xff53
	xkDown      = 0xff54
	xkPageUp    = 0xff55
	xkPageDown  = 0xff56
	xkEnd       = 0xff57
	xkPrint     = 0xff61
	xkInsert    = 0xff63
	xkMenu      = 0xff67
	xkNumLock   = 0xff7f
	xkKPEnter   = 0xff8d
	xkKPHome    = 0xff95
	xkKPLeft    = 0xff96
	xkKPUp      = 0xff97
	xkKPRight   = 0xff98
	xkKPDown    = 0xff99
	xkKPPageUp  = 0xff9a
	xkKPPageDn  = 0xff9b
	xkKPEnd     = 0xff9c
	xkKPInsert  = 0xff9e
	xkKPDelete  = 0xff9f
	xkKPMul     = 0xffaa
	xkKPAdd     = 0xffab
	xkKPSub     = 0xffad
	xkKPDecimal = 0xffae
	xkKPDiv     = 0xffaf
	xkKP0       = 0xffb0
	xkKP9       = 0xffb9
	xkF1        = 0xffbe
	xkF12       = 0xffc9
	xkShiftL    = 0xffe1
	xkShiftR    = 0xffe2
	xkControlL  = 0xffe3
	xkControlR  = 0xffe4
	xkCapsLock  = 0xffe5
	xkMetaL     = 0xffe7
	xkMetaR     = 0xffe8
	xkAltL      = 0xffe9
	xkAltR      = 0xffea
	xkSuperL    = 0xffeb
	xkSuperR    = 0xffec
	xkDelete    = 0xffff
)

var special = map[uint32]driver.Key{
	xkBackSpace: driver.KeyBackspace,
	xkTab:       driver.KeyTab,
	xkReturn:    driver.KeyEnter,
	xkPause:     driver.KeyPause,
	xkScrollLck: driver.KeyScrollLock,
	xkEscape:    driver.KeyEscape,
	xkHome:      driver.KeyHome,
	xkLeft:      driver.KeyLeft,
	xkUp:        driver.KeyUp,
	xkRight:     driver.KeyRight,
	xkDown:      driver.KeyDown,
	xkPageUp:    driver.KeyPageUp,
	xkPageDown:  driver.KeyPageDown,
	xkEnd:       driver.KeyEnd,
	xkPrint:     driver.KeyPrintScreen,
	xkInsert:    driver.KeyInsert,
	xkMenu:      driver.KeyMenu,
	xkNumLock:   driver.KeyNumLock,
	xkKPEnter:   driver.KeyKPEnter,
	xkKPHome:    driver.KeyHome,
	xkKPLeft:    driver.KeyLeft,
	xkKPUp:      driver.KeyUp,
	xkKPRight:   driver.KeyRight,
	xkKPDown:    driver.KeyDown,
	xkKPPageUp:  driver.KeyPageUp,
	xkKPPageDn:  driver.KeyPageDown,
	xkKPEnd:     driver.KeyEnd,
	xkKPInsert:  driver.KeyInsert,
	xkKPDelete:  driver.KeyDelete,
	xkKPMul:     driver.KeyKPMultiply,
	xkKPAdd:     driver.KeyKPAdd,
	xkKPSub:     driver.KeyKPSubtract,
	xkKPDecimal: driver.KeyKPDecimal,
	xkKPDiv:     driver.KeyKPDivide,
	xkShiftL:    driver.KeyShift,
	xkShiftR:    driver.KeyShift,
	xkControlL:  driver.KeyControl,
	xkControlR:  driver.KeyControl,
	xkCapsLock:  driver.KeyCapsLock,
	xkMetaL:     driver.KeyMeta,
	xkMetaR:     driver.KeyMeta,
	xkAltL:      driver.KeyAlt,
	xkAltR:      driver.KeyAlt,
	xkSuperL:    driver.KeyMeta,
	xkSuperR:    driver.KeyMeta,
	xkDelete:    driver.KeyDelete,
}

// Lookup maps an X keysym to its portable key code, KeyNone when the keysym
// has no portable equivalent.
func Lookup(keysym uint32) driver.Key {
	// Latin-1 printables fold to their uppercase value.
	if keysym >= 0x20 && keysym <= 0x7e {
		if keysym >= 'a' && keysym <= 'z' {
			keysym -= 'a' - 'A'
		}
		return driver.Key(keysym)
	}
	if keysym >= xkF1 && keysym <= xkF12 {
		return driver.KeyF1 + driver.Key(keysym-xkF1)
	}
	if keysym >= xkKP0 && keysym <= xkKP9 {
		return driver.KeyKP0 + driver.Key(keysym-xkKP0)
	}
	if k, ok := special[keysym]; ok {
		return k
	}
	return driver.KeyNone
}

// IsModifier reports whether the key is a bare modifier. Modifier presses
// carry no rune.
func IsModifier(k driver.Key) bool {
	switch k {
	case driver.KeyShift, driver.KeyControl, driver.KeyAlt, driver.KeyMeta:
		return true
	}
	return false
}

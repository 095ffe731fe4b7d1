package driver

// Key is a portable key code. Printable keys use their uppercase Unicode
// value; editing and function keys live above the Unicode range so the two
// sets can never collide.
type Key int

const KeyNone Key = 0

// Printable keys.
const (
	KeySpace      Key = ' '
	KeyApostrophe Key = '\''
	KeyComma      Key = ','
	KeyMinus      Key = '-'
	KeyPeriod     Key = '.'
	KeySlash      Key = '/'
	Key0          Key = '0'
	Key1          Key = '1'
	Key2          Key = '2'
	Key3          Key = '3'
	Key4          Key = '4'
	Key5          Key = '5'
	Key6          Key = '6'
	Key7          Key = '7'
	Key8          Key = '8'
	Key9          Key = '9'
	KeySemicolon  Key = ';'
	KeyEqual      Key = '='
	KeyA          Key = 'A'
	KeyB          Key = 'B'
	KeyC          Key = 'C'
	KeyD          Key = 'D'
	KeyE          Key = 'E'
	KeyF          Key = 'F'
	KeyG          Key = 'G'
	KeyH          Key = 'H'
	KeyI          Key = 'I'
	KeyJ          Key = 'J'
	KeyK          Key = 'K'
	KeyL          Key = 'L'
	KeyM          Key = 'M'
	KeyN          Key = 'N'
	KeyO          Key = 'O'
	KeyP          Key = 'P'
	KeyQ          Key = 'Q'
	KeyR          Key = 'R'
	KeyS          Key = 'S'
	KeyT          Key = 'T'
	KeyU          Key = 'U'
	KeyV          Key = 'V'
	KeyW          Key = 'W'
	KeyX          Key = 'X'
	KeyY          Key = 'Y'
	KeyZ          Key = 'Z'
	KeyBracketL   Key = '['
	KeyBackslash  Key = '\\'
	KeyBracketR   Key = ']'
	KeyGrave      Key = '`'
)

// Editing, navigation, function and modifier keys.
const (
	KeyEscape Key = 0x110000 + iota
	KeyEnter
	KeyTab
	KeyBackspace
	KeyInsert
	KeyDelete
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyShift
	KeyControl
	KeyAlt
	KeyMeta
	KeyCapsLock
	KeyNumLock
	KeyScrollLock
	KeyPrintScreen
	KeyPause
	KeyMenu
	KeyKPEnter
	KeyKP0
	KeyKP1
	KeyKP2
	KeyKP3
	KeyKP4
	KeyKP5
	KeyKP6
	KeyKP7
	KeyKP8
	KeyKP9
	KeyKPMultiply
	KeyKPAdd
	KeyKPSubtract
	KeyKPDecimal
	KeyKPDivide
)

package x11

import (
	"fmt"
	"os"
	"strings"

	"github.com/hollowtree/xdisplay/display/driver"
)

// layouts are read from the session environment. The wire protocol's XKB
// extension has no pure-Go bindings, so group switching degrades to the
// layouts the session was started with; most sessions configure exactly
// one.
func sessionLayouts() []driver.Layout {
	names := strings.Split(os.Getenv("XKB_DEFAULT_LAYOUT"), ",")
	if names[0] == "" {
		names = []string{"us"}
	}
	layouts := make([]driver.Layout, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		layouts = append(layouts, driver.Layout{Name: name, Language: name})
	}
	if len(layouts) == 0 {
		layouts = []driver.Layout{{Name: "us", Language: "us"}}
	}
	return layouts
}

func (c *Conn) KeyboardLayouts() ([]driver.Layout, error) {
	return sessionLayouts(), nil
}

func (c *Conn) CurrentKeyboardLayout() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kbdGroup, nil
}

func (c *Conn) SetCurrentKeyboardLayout(index int) error {
	layouts := sessionLayouts()
	if index < 0 || index >= len(layouts) {
		return fmt.Errorf("layout index %d out of range", index)
	}
	c.mu.Lock()
	c.kbdGroup = index
	c.mu.Unlock()
	return nil
}

// Package keymap translates USB HID keyboard usages into Atari ST IKBD
// scancodes.
//
// ST scancodes are positional: the code identifies the physical key, not the
// legend printed on it. A layout is a 128-entry table indexed by USB usage
// ID; entry 0 means the usage has no ST equivalent. Builtin layouts cover
// the common ST keyboard variants, and TOML files can overlay adjustments
// on any of them.
package keymap

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ST scancodes the translators address directly.
const (
	ScanEscape     uint8 = 0x01
	ScanControl    uint8 = 0x1D
	ScanLeftShift  uint8 = 0x2A
	ScanRightShift uint8 = 0x36
	ScanAlternate  uint8 = 0x38
	ScanCapsLock   uint8 = 0x3A
	ScanUndo       uint8 = 0x61
	ScanHelp       uint8 = 0x62

	// ScanMouseToggle is a code no real ST keyboard emits. ScrollLock maps
	// here so the mouse-toggle hotkey can ride the ordinary key table.
	ScanMouseToggle uint8 = 0x46
)

// TableSize is the number of layout entries, one per USB usage 0..127.
const TableSize = 128

// NoKey marks a usage with no ST equivalent.
const NoKey uint8 = 0

// MaxScancode is the highest scancode the IKBD key table holds.
const MaxScancode uint8 = 0x7F

// Layout is one USB-to-ST translation table.
type Layout struct {
	Name  string
	Table [TableSize]uint8
}

// Lookup translates a USB keycode. Usages outside the table return NoKey.
func (l *Layout) Lookup(usage uint8) uint8 {
	if int(usage) >= len(l.Table) {
		return NoKey
	}
	return l.Table[usage]
}

var (
	mu      sync.RWMutex
	layouts = map[string]*Layout{}
)

// Register makes a layout available to ByName. Re-registering a name
// replaces the previous layout.
func Register(l *Layout) {
	mu.Lock()
	defer mu.Unlock()
	layouts[strings.ToLower(l.Name)] = l
}

// ByName returns a registered layout.
func ByName(name string) (*Layout, error) {
	mu.RLock()
	defer mu.RUnlock()
	l, ok := layouts[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("keymap: unknown layout %q (have %s)", name, strings.Join(namesLocked(), ", "))
	}
	return l, nil
}

// Names lists the registered layout names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	names := make([]string, 0, len(layouts))
	for n := range layouts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Default returns the layout used when none is configured.
func Default() *Layout {
	l, err := ByName("gb")
	if err != nil {
		panic("keymap: builtin gb layout missing")
	}
	return l
}

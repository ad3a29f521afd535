package ikbd

import (
	"log/slog"

	"github.com/pikbd/pikbd/keymap"
)

// KeyTableSize is the size of the ST key-down table. Scancode 0 is unused.
const KeyTableSize = 128

// Mouse button mask bits, shared with the joystick fire buttons.
const (
	ButtonMaskRight uint8 = 0x01
	ButtonMaskLeft  uint8 = 0x02
)

// Input is the query facade over the translated ST-side input state.
//
// The zero value is not usable; construct with New. All methods belong to
// the single polling goroutine.
type Input struct {
	reg    *Registry
	layout *keymap.Layout
	sink   MotionSink
	logger *slog.Logger

	keys    [KeyTableSize]bool
	buttons uint8
	joy     uint8

	pendX, pendY int // accumulated corrected deltas since the last flush
	lastX, lastY int // previous corrected sample per axis

	mouseEn bool
}

// New builds the facade over an attached registry. A nil layout selects the
// default, a nil sink discards flushed motion, a nil logger falls back to
// the process default. Mouse reporting starts enabled, the ST's power-on
// state.
func New(reg *Registry, layout *keymap.Layout, sink MotionSink, logger *slog.Logger) *Input {
	if layout == nil {
		layout = keymap.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Input{
		reg:     reg,
		layout:  layout,
		sink:    sink,
		logger:  logger,
		mouseEn: true,
	}
}

// Registry returns the registry the facade translates from.
func (in *Input) Registry() *Registry {
	return in.reg
}

// Tick runs one full polling pass: keyboards, mice, joysticks.
func (in *Input) Tick(cycles int64) {
	in.ProcessKeyboards()
	in.ProcessMice(cycles)
	in.ProcessJoysticks()
}

// KeyDown reports whether the ST key with the given scancode is held.
func (in *Input) KeyDown(code uint8) bool {
	if int(code) < len(in.keys) {
		return in.keys[code]
	}
	return false
}

// MouseButtons returns the two-bit button mask: bit 1 left, bit 0 right.
// Joystick fire buttons write the same mask.
func (in *Input) MouseButtons() uint8 {
	return in.buttons
}

// Joystick returns the packed direction byte: stick 0 in bits 0..3, stick 1
// in bits 4..7, each nibble ordered up, down, left, right.
func (in *Input) Joystick() uint8 {
	return in.joy
}

// MouseEnabled reports whether ST mouse reporting is on.
func (in *Input) MouseEnabled() bool {
	return in.mouseEn
}

// SetMouseEnabled switches ST mouse reporting. The translators never change
// this themselves; the hotkey watcher or host application does.
func (in *Input) SetMouseEnabled(on bool) {
	if in.mouseEn != on {
		in.logger.Info("mouse reporting switched", "enabled", on)
	}
	in.mouseEn = on
}

// ToggleMouse flips mouse reporting and returns the new state.
func (in *Input) ToggleMouse() bool {
	in.SetMouseEnabled(!in.mouseEn)
	return in.mouseEn
}

// Reset clears the key-down table, the ST reset behavior. Button, joystick
// and pending mouse state are left alone.
func (in *Input) Reset() {
	for i := range in.keys {
		in.keys[i] = false
	}
}

package sim

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pikbd/pikbd/hid"
)

// Scenario is a scripted set of input devices loaded from YAML. Each device
// plays its steps in order, one step per requested report.
type Scenario struct {
	Name    string         `yaml:"name"`
	Devices []DeviceScript `yaml:"devices"`
}

// DeviceScript describes one scripted device. Class selects the report
// shape: "keyboard" and "mouse" use the boot protocol, "gamepad" gets a
// descriptor fabricated from Buttons and Signed.
type DeviceScript struct {
	Class   string `yaml:"class"`
	Buttons int    `yaml:"buttons"` // gamepad button count, default 2
	Signed  bool   `yaml:"signed"`  // gamepad axes -127..127 instead of 0..255
	Loop    bool   `yaml:"loop"`    // restart the script when it runs out
	Steps   []Step `yaml:"steps"`
}

// Step is one report's worth of device state. Keyboards read Keys (USB usage
// IDs) and Modifiers, mice read Buttons and X, Y, Wheel as deltas, gamepads
// read Fire (1-based button numbers) and X, Y as directions: -1 is left or
// up, 1 is right or down. Repeat holds the step for that many polls.
type Step struct {
	Keys      []int    `yaml:"keys"`
	Modifiers []string `yaml:"modifiers"`
	Buttons   []string `yaml:"buttons"`
	Fire      []int    `yaml:"fire"`
	X         int      `yaml:"x"`
	Y         int      `yaml:"y"`
	Wheel     int      `yaml:"wheel"`
	Repeat    int      `yaml:"repeat"`
}

const defaultPadButtons = 2

// ParseScenario decodes and validates a YAML scenario.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("sim: parsing scenario: %w", err)
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// LoadScenario reads and parses a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sim: reading scenario: %w", err)
	}
	return ParseScenario(data)
}

func (sc *Scenario) validate() error {
	if len(sc.Devices) == 0 {
		return fmt.Errorf("sim: scenario %q has no devices", sc.Name)
	}
	if len(sc.Devices) > 255 {
		return fmt.Errorf("sim: scenario %q has %d devices, the address space holds 255", sc.Name, len(sc.Devices))
	}
	for i := range sc.Devices {
		if err := sc.Devices[i].validate(); err != nil {
			return fmt.Errorf("sim: device %d: %w", i, err)
		}
	}
	return nil
}

func (d *DeviceScript) validate() error {
	switch strings.ToLower(d.Class) {
	case "keyboard":
		for _, st := range d.Steps {
			if len(st.Keys) > hid.KeyboardRollover {
				return fmt.Errorf("step has %d keys, boot keyboards report at most %d", len(st.Keys), hid.KeyboardRollover)
			}
			for _, k := range st.Keys {
				if k <= 0 || k > 0xFF {
					return fmt.Errorf("key usage %d out of range", k)
				}
			}
			for _, m := range st.Modifiers {
				if _, ok := modifierBits[strings.ToLower(m)]; !ok {
					return fmt.Errorf("unknown modifier %q", m)
				}
			}
		}
	case "mouse":
		for _, st := range d.Steps {
			for _, b := range st.Buttons {
				if _, ok := mouseButtonBits[strings.ToLower(b)]; !ok {
					return fmt.Errorf("unknown mouse button %q", b)
				}
			}
			for _, v := range [...]int{st.X, st.Y, st.Wheel} {
				if v < math.MinInt8 || v > math.MaxInt8 {
					return fmt.Errorf("delta %d does not fit a report byte", v)
				}
			}
		}
	case "gamepad":
		if d.Buttons < 0 || d.Buttons > 8 {
			return fmt.Errorf("%d buttons, a single report byte carries at most 8", d.Buttons)
		}
		buttons := d.Buttons
		if buttons == 0 {
			buttons = defaultPadButtons
		}
		for _, st := range d.Steps {
			for _, f := range st.Fire {
				if f < 1 || f > buttons {
					return fmt.Errorf("fire button %d out of range 1..%d", f, buttons)
				}
			}
			if st.X < -1 || st.X > 1 || st.Y < -1 || st.Y > 1 {
				return fmt.Errorf("gamepad directions must be -1, 0 or 1")
			}
		}
	default:
		return fmt.Errorf("unknown device class %q", d.Class)
	}
	return nil
}

var modifierBits = map[string]uint8{
	"lctrl":  hid.ModLeftCtrl,
	"ctrl":   hid.ModLeftCtrl,
	"lshift": hid.ModLeftShift,
	"shift":  hid.ModLeftShift,
	"lalt":   hid.ModLeftAlt,
	"alt":    hid.ModLeftAlt,
	"lmeta":  hid.ModLeftMeta,
	"meta":   hid.ModLeftMeta,
	"rctrl":  hid.ModRightCtrl,
	"rshift": hid.ModRightShift,
	"ralt":   hid.ModRightAlt,
	"rmeta":  hid.ModRightMeta,
}

var mouseButtonBits = map[string]uint8{
	"left":   hid.ButtonLeft,
	"right":  hid.ButtonRight,
	"middle": hid.ButtonMiddle,
}

func modifierByte(names []string) uint8 {
	var mods uint8
	for _, m := range names {
		mods |= modifierBits[strings.ToLower(m)]
	}
	return mods
}

func mouseButtonByte(names []string) uint8 {
	var buttons uint8
	for _, b := range names {
		buttons |= mouseButtonBits[strings.ToLower(b)]
	}
	return buttons
}

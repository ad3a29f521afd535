package hid

import (
	"fmt"
)

const (
	// BootKeyboardReportLen is the fixed boot-protocol keyboard report length.
	BootKeyboardReportLen = 8
	// BootMouseReportLen covers buttons, X, Y, wheel and AC pan. The boot
	// minimum on the wire is 3 bytes; the extensions are common on real mice.
	BootMouseReportLen = 5
)

// KeyboardRollover is the number of keycode slots in a boot keyboard report.
const KeyboardRollover = 6

// KeyboardReport is a boot-protocol keyboard input report: modifier byte,
// reserved byte, six keycode slots.
type KeyboardReport struct {
	Modifiers uint8
	Keys      [KeyboardRollover]uint8
}

// UnmarshalBinary decodes a raw report. Buffers shorter than the full 8
// bytes zero-fill the missing slots; only an empty buffer is an error.
func (r *KeyboardReport) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("hid: empty keyboard report")
	}
	r.Modifiers = data[0]
	for i := range r.Keys {
		r.Keys[i] = 0
		if n := 2 + i; n < len(data) {
			r.Keys[i] = data[n]
		}
	}
	return nil
}

// MarshalBinary encodes the full 8-byte boot report.
func (r KeyboardReport) MarshalBinary() ([]byte, error) {
	buf := make([]byte, BootKeyboardReportLen)
	buf[0] = r.Modifiers
	copy(buf[2:], r.Keys[:])
	return buf, nil
}

// MouseReport is a boot-protocol mouse input report. X and Y are relative
// deltas for the interval since the previous report.
type MouseReport struct {
	Buttons uint8
	X       int8
	Y       int8
	Wheel   int8
	Pan     int8
}

// UnmarshalBinary decodes a raw report of at least the 3-byte boot minimum.
// Wheel and pan read as zero when the device does not send them.
func (r *MouseReport) UnmarshalBinary(data []byte) error {
	if len(data) < 3 {
		return fmt.Errorf("hid: mouse report too short: %d bytes", len(data))
	}
	r.Buttons = data[0]
	r.X = int8(data[1])
	r.Y = int8(data[2])
	r.Wheel, r.Pan = 0, 0
	if len(data) > 3 {
		r.Wheel = int8(data[3])
	}
	if len(data) > 4 {
		r.Pan = int8(data[4])
	}
	return nil
}

// MarshalBinary encodes the 5-byte extended boot report.
func (r MouseReport) MarshalBinary() ([]byte, error) {
	return []byte{r.Buttons, uint8(r.X), uint8(r.Y), uint8(r.Wheel), uint8(r.Pan)}, nil
}

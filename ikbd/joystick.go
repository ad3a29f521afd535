package ikbd

import (
	"github.com/pikbd/pikbd/hid"
)

// Joystick direction bits within a stick's nibble.
const (
	joyUp    = 0
	joyDown  = 1
	joyLeft  = 2
	joyRight = 3
)

// ProcessJoysticks walks the generic devices in address order and folds the
// first two into the joystick byte and the shared button mask.
//
// The ST numbers its ports so that the first pad found acts as stick 1 (the
// usual game port, high nibble) and the second as stick 0 (low nibble).
// Slots follow registry order even while a pad is mid-transfer: a busy pad
// keeps its stick and simply contributes nothing this tick. Any further
// pads are ignored.
func (in *Input) ProcessJoysticks() {
	slot := 2
	in.reg.Walk(ClassGeneric, func(d *Device) bool {
		slot--
		if slot < 0 {
			return false
		}
		if !in.reg.Ready(d) {
			return true
		}
		in.applyJoystick(uint8(slot), d)
		in.reg.request(d)
		return true
	})
}

// applyJoystick dispatches the pad's descriptor items against its current
// report. Button items drive the stick's fire bit in the shared button
// mask; X and Y items each own two direction bits, decided against the
// descriptor's logical center. Items absent from the current report (other
// report IDs, short reports) are skipped.
func (in *Input) applyJoystick(stick uint8, d *Device) {
	fire := ButtonMaskRight // stick 1
	if stick == 0 {
		fire = ButtonMaskLeft
	}

	for _, it := range d.Layout.Items {
		if it.Kind != hid.KindInput {
			continue
		}
		v, ok := it.Value(d.Buf)
		if !ok {
			continue
		}

		switch {
		case it.UsagePage == hid.UsagePageButton:
			if v != 0 {
				in.buttons |= fire
			} else {
				in.buttons &^= fire
			}

		case it.UsagePage == hid.UsagePageGenericDesktop &&
			(it.Usage == hid.UsageX || it.Usage == hid.UsageY):
			bit := uint8(joyUp)
			if it.Usage == hid.UsageX {
				bit = joyLeft
			}
			if stick == 1 {
				bit += 4
			}
			in.joy &^= 0x3 << bit
			c := it.Center()
			switch {
			case v < c: // up or left
				in.joy |= 1 << bit
			case v > c: // down or right
				in.joy |= 1 << (bit + 1)
			}
		}
	}
}

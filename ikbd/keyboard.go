package ikbd

import (
	"github.com/pikbd/pikbd/hid"
	"github.com/pikbd/pikbd/keymap"
)

// ProcessKeyboards folds every ready keyboard's current report into the key
// table and re-arms the device.
//
// Each report rebuilds the table wholesale: a scancode is down only if one
// of the report's six slots maps to it. The four modifier scancodes are then
// overwritten from the modifier byte, left and right control and alternate
// collapsing onto the ST's single keys. With several keyboards attached the
// highest address processed last wins the non-modifier table.
func (in *Input) ProcessKeyboards() {
	in.reg.ForEach(ClassKeyboard, func(d *Device) {
		var rep hid.KeyboardReport
		if err := rep.UnmarshalBinary(d.Buf); err != nil {
			in.logger.Warn("discarding malformed keyboard report", "addr", d.Addr, "error", err)
			return
		}

		var stKeys [hid.KeyboardRollover]uint8
		for i, code := range rep.Keys {
			stKeys[i] = in.layout.Lookup(code)
		}

		for code := 1; code < len(in.keys); code++ {
			down := false
			for _, sk := range stKeys {
				if sk == uint8(code) {
					down = true
					break
				}
			}
			in.keys[code] = down
		}

		in.keys[keymap.ScanLeftShift] = rep.Modifiers&hid.ModLeftShift != 0
		in.keys[keymap.ScanRightShift] = rep.Modifiers&hid.ModRightShift != 0
		in.keys[keymap.ScanControl] = rep.Modifiers&(hid.ModLeftCtrl|hid.ModRightCtrl) != 0
		in.keys[keymap.ScanAlternate] = rep.Modifiers&(hid.ModLeftAlt|hid.ModRightAlt) != 0

		in.reg.request(d)
	})
}

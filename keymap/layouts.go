package keymap

// gbTable is the base positional table, laid out for the 102-key ISO ST
// keyboard. Unlisted usages have no ST equivalent.
var gbTable = [TableSize]uint8{
	0x04: 0x1E, // A
	0x05: 0x30, // B
	0x06: 0x2E, // C
	0x07: 0x20, // D
	0x08: 0x12, // E
	0x09: 0x21, // F
	0x0A: 0x22, // G
	0x0B: 0x23, // H
	0x0C: 0x17, // I
	0x0D: 0x24, // J
	0x0E: 0x25, // K
	0x0F: 0x26, // L
	0x10: 0x32, // M
	0x11: 0x31, // N
	0x12: 0x18, // O
	0x13: 0x19, // P
	0x14: 0x10, // Q
	0x15: 0x13, // R
	0x16: 0x1F, // S
	0x17: 0x14, // T
	0x18: 0x16, // U
	0x19: 0x2F, // V
	0x1A: 0x11, // W
	0x1B: 0x2D, // X
	0x1C: 0x15, // Y
	0x1D: 0x2C, // Z
	0x1E: 0x02, // 1
	0x1F: 0x03, // 2
	0x20: 0x04, // 3
	0x21: 0x05, // 4
	0x22: 0x06, // 5
	0x23: 0x07, // 6
	0x24: 0x08, // 7
	0x25: 0x09, // 8
	0x26: 0x0A, // 9
	0x27: 0x0B, // 0
	0x28: 0x1C, // Return
	0x29: 0x01, // Escape
	0x2A: 0x0E, // Backspace
	0x2B: 0x0F, // Tab
	0x2C: 0x39, // Space
	0x2D: 0x0C, // - _
	0x2E: 0x0D, // = +
	0x2F: 0x1A, // [ {
	0x30: 0x1B, // ] }
	0x31: 0x2B, // backslash
	0x32: 0x2B, // non-US # ~ shares the backslash position
	0x33: 0x27, // ; :
	0x34: 0x28, // ' @
	0x35: 0x29, // ` tilde
	0x36: 0x33, // , <
	0x37: 0x34, // . >
	0x38: 0x35, // / ?
	0x39: 0x3A, // Caps Lock
	0x3A: 0x3B, // F1
	0x3B: 0x3C, // F2
	0x3C: 0x3D, // F3
	0x3D: 0x3E, // F4
	0x3E: 0x3F, // F5
	0x3F: 0x40, // F6
	0x40: 0x41, // F7
	0x41: 0x42, // F8
	0x42: 0x43, // F9
	0x43: 0x44, // F10
	0x44: 0x62, // F11 -> Help
	0x45: 0x61, // F12 -> Undo
	0x47: 0x46, // Scroll Lock -> mouse toggle slot
	0x49: 0x52, // Insert
	0x4A: 0x47, // Home -> ClrHome
	0x4C: 0x53, // Delete
	0x4F: 0x4D, // Right
	0x50: 0x4B, // Left
	0x51: 0x50, // Down
	0x52: 0x48, // Up
	0x54: 0x65, // KP /
	0x55: 0x66, // KP *
	0x56: 0x4A, // KP -
	0x57: 0x4E, // KP +
	0x58: 0x72, // KP Enter
	0x59: 0x6D, // KP 1
	0x5A: 0x6E, // KP 2
	0x5B: 0x6F, // KP 3
	0x5C: 0x6A, // KP 4
	0x5D: 0x6B, // KP 5
	0x5E: 0x6C, // KP 6
	0x5F: 0x67, // KP 7
	0x60: 0x68, // KP 8
	0x61: 0x69, // KP 9
	0x62: 0x70, // KP 0
	0x63: 0x71, // KP .
	0x64: 0x60, // ISO key
}

func init() {
	Register(&Layout{Name: "gb", Table: gbTable})

	// The US ST keyboard has no ISO key and no separate hash key.
	us := gbTable
	us[0x32] = NoKey
	us[0x64] = NoKey
	Register(&Layout{Name: "us", Table: us})

	// The German and French ST keyboards move legends, not positions, so
	// the positional table carries over unchanged.
	Register(&Layout{Name: "de", Table: gbTable})
	Register(&Layout{Name: "fr", Table: gbTable})
}

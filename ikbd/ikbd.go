// Package ikbd turns USB HID input reports into the signal vocabulary of an
// Atari ST IKBD keyboard controller.
//
// The package owns no transport. A HostStack collaborator answers device
// class, mount and busy questions and arms report transfers; the Registry
// tracks attached devices over it; Input runs the translators and holds the
// resulting ST-side state: a 128-entry key-down table, a two-bit mouse
// button mask shared with the joystick fire buttons, accumulated relative
// mouse motion and a packed two-stick joystick byte.
//
// Everything here follows a single-writer model: one goroutine ticks the
// Process methods and reads the queries back. Only the host stack's busy
// bookkeeping may involve other goroutines, and that stays behind the
// HostStack implementation.
package ikbd

// DeviceClass is the coarse HID device classification the translators
// dispatch on.
type DeviceClass uint8

const (
	ClassNone DeviceClass = iota
	ClassKeyboard
	ClassMouse
	ClassGeneric
)

func (c DeviceClass) String() string {
	switch c {
	case ClassKeyboard:
		return "keyboard"
	case ClassMouse:
		return "mouse"
	case ClassGeneric:
		return "generic"
	}
	return "none"
}

// HostStack is the host-side USB collaborator the registry consumes.
//
// Implementations answer for a flat address space of attached devices.
// RequestReport arms the next interrupt transfer into buf; the report is in
// place once IsBusy goes false again. Busy state may be completed from
// another goroutine, so implementations guard it themselves.
type HostStack interface {
	DeviceClass(addr uint8) DeviceClass
	IsMounted(addr uint8) bool
	IsBusy(addr uint8) bool
	RequestReport(addr uint8, buf []byte) error
	ReportDescriptor(addr uint8) ([]byte, error)
}

// MotionSink consumes flushed mouse motion, the accumulated X and Y deltas
// since the previous flush.
type MotionSink interface {
	SetSpeed(dx, dy int)
}

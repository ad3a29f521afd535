// Package hidraw implements the host-stack collaborator over Linux
// /dev/hidraw device nodes.
//
// Devices are classified by parsing their report descriptors, reports are
// read with one outstanding blocking read per device standing in for an
// interrupt transfer, and /dev is watched for hotplug. Attach and detach
// are surfaced as events the polling loop drains, so registry writes stay
// on a single goroutine; only the busy bookkeeping crosses goroutines and
// that stays behind this package's lock.
package hidraw

// EventKind says what happened to a device node.
type EventKind uint8

const (
	EventAttach EventKind = iota
	EventDetach
)

func (k EventKind) String() string {
	if k == EventAttach {
		return "attach"
	}
	return "detach"
}

// Event is one hotplug notification.
type Event struct {
	Kind EventKind
	Addr uint8
}

package ikbd

import (
	"log/slog"
	"slices"

	"golang.org/x/exp/maps"

	"github.com/pikbd/pikbd/hid"
)

// maxReportLen caps receive buffers for descriptor-driven devices.
const maxReportLen = 64

// Device is one attached HID device tracked by the registry.
type Device struct {
	Addr   uint8
	Class  DeviceClass
	Buf    []byte
	Layout *hid.Layout // parsed report descriptor, generic devices only
}

// Registry maps host addresses to attached devices. Mount and busy state are
// live host-stack queries, never cached; the registry only remembers what a
// device is and where its reports land.
//
// The registry is written from the same goroutine that ticks the
// translators, so it carries no lock of its own.
type Registry struct {
	host    HostStack
	logger  *slog.Logger
	devices map[uint8]*Device
}

func NewRegistry(host HostStack, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		host:    host,
		logger:  logger,
		devices: map[uint8]*Device{},
	}
}

// Attach registers the device at addr and arms its first report transfer.
// Devices of unsupported classes, and generic devices whose report
// descriptor cannot be fetched or yields no input fields, are logged and
// left unregistered.
func (r *Registry) Attach(addr uint8) {
	class := r.host.DeviceClass(addr)
	d := &Device{Addr: addr, Class: class}

	switch class {
	case ClassKeyboard:
		d.Buf = make([]byte, hid.BootKeyboardReportLen)
	case ClassMouse:
		d.Buf = make([]byte, hid.BootMouseReportLen)
	case ClassGeneric:
		raw, err := r.host.ReportDescriptor(addr)
		if err != nil {
			r.logger.Warn("report descriptor unavailable, ignoring device", "addr", addr, "error", err)
			return
		}
		d.Layout = hid.Parse(raw)
		n := d.Layout.MaxInputLength()
		if n == 0 {
			r.logger.Warn("report descriptor has no input fields, ignoring device", "addr", addr)
			return
		}
		if n > maxReportLen {
			n = maxReportLen
		}
		d.Buf = make([]byte, n)
	default:
		r.logger.Debug("ignoring device of unsupported class", "addr", addr)
		return
	}

	r.devices[addr] = d
	r.logger.Info("device mounted", "addr", addr, "class", class.String())
	r.request(d)
}

// Detach removes the device at addr. Unknown addresses are a no-op.
func (r *Registry) Detach(addr uint8) {
	d, ok := r.devices[addr]
	if !ok {
		return
	}
	delete(r.devices, addr)
	r.logger.Info("device unmounted", "addr", addr, "class", d.Class.String())
}

// Ready reports whether the device is mounted with no transfer in flight.
func (r *Registry) Ready(d *Device) bool {
	return r.host.IsMounted(d.Addr) && !r.host.IsBusy(d.Addr)
}

// ForEach visits the ready devices of one class in address order. Devices
// that are unmounted or mid-transfer are skipped silently; they keep their
// registry slot and will be visited once their report has landed.
func (r *Registry) ForEach(class DeviceClass, fn func(d *Device)) {
	for _, addr := range r.addrs() {
		d := r.devices[addr]
		if d.Class != class || !r.Ready(d) {
			continue
		}
		fn(d)
	}
}

// Walk visits every device of one class in address order, ready or not,
// until fn returns false.
func (r *Registry) Walk(class DeviceClass, fn func(d *Device) bool) {
	for _, addr := range r.addrs() {
		d := r.devices[addr]
		if d.Class != class {
			continue
		}
		if !fn(d) {
			return
		}
	}
}

// Devices returns all registered devices in address order.
func (r *Registry) Devices() []*Device {
	rv := make([]*Device, 0, len(r.devices))
	for _, addr := range r.addrs() {
		rv = append(rv, r.devices[addr])
	}
	return rv
}

func (r *Registry) addrs() []uint8 {
	addrs := maps.Keys(r.devices)
	slices.Sort(addrs)
	return addrs
}

// request arms the next report transfer. Failures only log; the device
// simply reports nothing new this tick.
func (r *Registry) request(d *Device) {
	if err := r.host.RequestReport(d.Addr, d.Buf); err != nil {
		r.logger.Warn("report request failed", "addr", d.Addr, "error", err)
	}
}

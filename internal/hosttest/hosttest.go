// Package hosttest provides a scriptable host-stack fake for exercising the
// translation core without hardware.
//
// Each device carries a queue of reports. RequestReport delivers the next
// queued report synchronously and leaves the device ready; with an empty
// queue the request stays armed and the device reads busy until Push
// completes it, which is how a real interrupt transfer behaves.
package hosttest

import (
	"fmt"

	"github.com/pikbd/pikbd/ikbd"
)

// Device is one scripted device on the fake stack.
type Device struct {
	Class         ikbd.DeviceClass
	Mounted       bool
	Busy          bool
	Descriptor    []byte
	DescriptorErr error
	RequestErr    error

	// Requests counts RequestReport calls, armed or delivered.
	Requests int

	queue [][]byte
	armed []byte
}

// Push completes an armed request with data, or queues it for the next
// request. Delivery copies into the requester's buffer.
func (d *Device) Push(data []byte) {
	if d.armed != nil {
		copy(d.armed, data)
		d.armed = nil
		d.Busy = false
		return
	}
	d.queue = append(d.queue, data)
}

// Stack is an in-memory ikbd.HostStack.
type Stack struct {
	devices map[uint8]*Device
}

func New() *Stack {
	return &Stack{devices: map[uint8]*Device{}}
}

// Add registers a scripted device at addr and returns it.
func (s *Stack) Add(addr uint8, d *Device) *Device {
	s.devices[addr] = d
	return d
}

// Device returns the scripted device at addr, nil when absent.
func (s *Stack) Device(addr uint8) *Device {
	return s.devices[addr]
}

func (s *Stack) DeviceClass(addr uint8) ikbd.DeviceClass {
	if d, ok := s.devices[addr]; ok {
		return d.Class
	}
	return ikbd.ClassNone
}

func (s *Stack) IsMounted(addr uint8) bool {
	d, ok := s.devices[addr]
	return ok && d.Mounted
}

func (s *Stack) IsBusy(addr uint8) bool {
	d, ok := s.devices[addr]
	return ok && d.Busy
}

func (s *Stack) RequestReport(addr uint8, buf []byte) error {
	d, ok := s.devices[addr]
	if !ok {
		return errUnknownDevice(addr)
	}
	d.Requests++
	if d.RequestErr != nil {
		return d.RequestErr
	}
	if len(d.queue) == 0 {
		d.armed = buf
		d.Busy = true
		return nil
	}
	copy(buf, d.queue[0])
	d.queue = d.queue[1:]
	d.Busy = false
	return nil
}

func (s *Stack) ReportDescriptor(addr uint8) ([]byte, error) {
	d, ok := s.devices[addr]
	if !ok {
		return nil, errUnknownDevice(addr)
	}
	if d.DescriptorErr != nil {
		return nil, d.DescriptorErr
	}
	return d.Descriptor, nil
}

type errUnknownDevice uint8

func (e errUnknownDevice) Error() string {
	return fmt.Sprintf("hosttest: no device at address %d", uint8(e))
}

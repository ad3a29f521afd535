// Package sim is a scripted host stack: devices and their report sequences
// come from a YAML scenario file instead of hardware. Each requested report
// advances the owning device's script one step, so a scenario plays out
// deterministically under the polling loop.
package sim

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/pikbd/pikbd/hid"
	"github.com/pikbd/pikbd/ikbd"
	"github.com/pikbd/pikbd/internal/log"
)

type device struct {
	class   ikbd.DeviceClass
	desc    []byte
	reports [][]byte
	pos     int
	loop    bool
}

// Stack implements ikbd.HostStack over a scenario. Like the registry it is
// owned by the polling goroutine and takes no locks.
type Stack struct {
	logger  *slog.Logger
	tracer  *log.Tracer
	devices map[uint8]*device
}

// Open loads a scenario file and builds its device set.
func Open(path string, logger *slog.Logger, tracer *log.Tracer) (*Stack, error) {
	sc, err := LoadScenario(path)
	if err != nil {
		return nil, err
	}
	return New(sc, logger, tracer)
}

// New builds the device set for an already parsed scenario. Addresses are
// assigned in scenario order starting at 1.
func New(sc *Scenario, logger *slog.Logger, tracer *log.Tracer) (*Stack, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Stack{logger: logger, tracer: tracer, devices: map[uint8]*device{}}
	for i := range sc.Devices {
		d, err := buildDevice(&sc.Devices[i])
		if err != nil {
			return nil, fmt.Errorf("sim: device %d: %w", i, err)
		}
		addr := uint8(i + 1)
		s.devices[addr] = d
		s.tracer.Descriptor(addr, d.desc)
		logger.Debug("sim device ready", "addr", addr, "class", d.class.String(), "steps", len(d.reports))
	}
	logger.Info("scenario loaded", "name", sc.Name, "devices", len(sc.Devices))
	return s, nil
}

// Addresses returns the scripted device addresses in attach order.
func (s *Stack) Addresses() []uint8 {
	addrs := maps.Keys(s.devices)
	slices.Sort(addrs)
	return addrs
}

func (s *Stack) Close() error { return nil }

func (s *Stack) DeviceClass(addr uint8) ikbd.DeviceClass {
	if d, ok := s.devices[addr]; ok {
		return d.class
	}
	return ikbd.ClassNone
}

func (s *Stack) IsMounted(addr uint8) bool {
	_, ok := s.devices[addr]
	return ok
}

// IsBusy is always false: scripted transfers complete inside RequestReport.
func (s *Stack) IsBusy(addr uint8) bool { return false }

func (s *Stack) ReportDescriptor(addr uint8) ([]byte, error) {
	d, ok := s.devices[addr]
	if !ok {
		return nil, fmt.Errorf("sim: no device at address %d", addr)
	}
	return d.desc, nil
}

// RequestReport delivers the device's current step into buf and advances the
// script. A script that runs out keeps repeating its last step, the way an
// idle device keeps reporting its steady state; Loop restarts instead.
func (s *Stack) RequestReport(addr uint8, buf []byte) error {
	d, ok := s.devices[addr]
	if !ok {
		return fmt.Errorf("sim: no device at address %d", addr)
	}
	clear(buf)
	if len(d.reports) == 0 {
		return nil
	}
	copy(buf, d.reports[d.pos])
	s.tracer.Report(addr, buf)
	d.pos++
	if d.pos >= len(d.reports) {
		d.pos = len(d.reports) - 1
		if d.loop {
			d.pos = 0
		}
	}
	return nil
}

func buildDevice(ds *DeviceScript) (*device, error) {
	var (
		d    device
		desc hid.Descriptor
	)
	switch strings.ToLower(ds.Class) {
	case "keyboard":
		d.class = ikbd.ClassKeyboard
		desc = bootKeyboardDescriptor()
		for _, st := range ds.Steps {
			rep := hid.KeyboardReport{Modifiers: modifierByte(st.Modifiers)}
			for i, k := range st.Keys {
				rep.Keys[i] = uint8(k)
			}
			raw, err := rep.MarshalBinary()
			if err != nil {
				return nil, err
			}
			appendStep(&d, raw, st.Repeat)
		}
	case "mouse":
		d.class = ikbd.ClassMouse
		desc = bootMouseDescriptor()
		for _, st := range ds.Steps {
			rep := hid.MouseReport{
				Buttons: mouseButtonByte(st.Buttons),
				X:       int8(st.X),
				Y:       int8(st.Y),
				Wheel:   int8(st.Wheel),
			}
			raw, err := rep.MarshalBinary()
			if err != nil {
				return nil, err
			}
			appendStep(&d, raw, st.Repeat)
		}
	case "gamepad":
		d.class = ikbd.ClassGeneric
		buttons := ds.Buttons
		if buttons == 0 {
			buttons = defaultPadButtons
		}
		desc = gamepadDescriptor(buttons, ds.Signed)
		for _, st := range ds.Steps {
			appendStep(&d, padReport(st, ds.Signed), st.Repeat)
		}
	default:
		return nil, fmt.Errorf("unknown device class %q", ds.Class)
	}

	raw, err := desc.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encoding descriptor: %w", err)
	}
	d.desc = raw
	d.loop = ds.Loop
	return &d, nil
}

func appendStep(d *device, report []byte, repeat int) {
	if repeat < 1 {
		repeat = 1
	}
	for i := 0; i < repeat; i++ {
		d.reports = append(d.reports, report)
	}
}

func padReport(st Step, signed bool) []byte {
	var fire uint8
	for _, f := range st.Fire {
		fire |= 1 << (f - 1)
	}
	return []byte{fire, axisByte(st.X, signed), axisByte(st.Y, signed)}
}

// axisByte maps a direction to the descriptor's minimum, center or maximum.
func axisByte(dir int, signed bool) uint8 {
	if signed {
		switch {
		case dir < 0:
			return uint8(int8(-127))
		case dir > 0:
			return 127
		}
		return 0
	}
	switch {
	case dir < 0:
		return 0x00
	case dir > 0:
		return 0xFF
	}
	return 0x80
}

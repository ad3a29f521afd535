package ikbd_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pikbd/pikbd/hid"
	"github.com/pikbd/pikbd/ikbd"
	"github.com/pikbd/pikbd/internal/hosttest"
	"github.com/pikbd/pikbd/keymap"
)

// speedRecorder captures flushed mouse motion.
type speedRecorder struct {
	calls [][2]int
}

func (s *speedRecorder) SetSpeed(dx, dy int) {
	s.calls = append(s.calls, [2]int{dx, dy})
}

type rig struct {
	stack *hosttest.Stack
	reg   *ikbd.Registry
	in    *ikbd.Input
	speed *speedRecorder
}

func newRig(t *testing.T) *rig {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	stack := hosttest.New()
	reg := ikbd.NewRegistry(stack, logger)
	speed := &speedRecorder{}
	return &rig{
		stack: stack,
		reg:   reg,
		in:    ikbd.New(reg, nil, speed, logger),
		speed: speed,
	}
}

// addKeyboard attaches a mounted keyboard. A nil report pushes an idle one
// so the device comes up ready rather than mid-transfer.
func (r *rig) addKeyboard(addr uint8, report []byte) *hosttest.Device {
	d := r.stack.Add(addr, &hosttest.Device{Class: ikbd.ClassKeyboard, Mounted: true})
	if report == nil {
		report = kbReport(0)
	}
	d.Push(report)
	r.reg.Attach(addr)
	return d
}

func (r *rig) addMouse(addr uint8, report []byte) *hosttest.Device {
	d := r.stack.Add(addr, &hosttest.Device{Class: ikbd.ClassMouse, Mounted: true})
	if report == nil {
		report = mouseReport(0, 0, 0)
	}
	d.Push(report)
	r.reg.Attach(addr)
	return d
}

func (r *rig) addPad(addr uint8, descriptor, report []byte) *hosttest.Device {
	d := r.stack.Add(addr, &hosttest.Device{
		Class:      ikbd.ClassGeneric,
		Mounted:    true,
		Descriptor: descriptor,
	})
	if report == nil {
		report = padReport(false, 0x80, 0x80)
	}
	d.Push(report)
	r.reg.Attach(addr)
	return d
}

func newInputWithoutSink(t *testing.T, r *rig) *ikbd.Input {
	t.Helper()
	return ikbd.New(r.reg, nil, nil, slog.New(slog.DiscardHandler))
}

func newInputWithLayout(t *testing.T, r *rig, layout *keymap.Layout) *ikbd.Input {
	t.Helper()
	return ikbd.New(r.reg, layout, r.speed, slog.New(slog.DiscardHandler))
}

func kbReport(modifiers uint8, keys ...uint8) []byte {
	rep := hid.KeyboardReport{Modifiers: modifiers}
	copy(rep.Keys[:], keys)
	data, _ := rep.MarshalBinary()
	return data
}

func mouseReport(buttons uint8, x, y int8) []byte {
	data, _ := hid.MouseReport{Buttons: buttons, X: x, Y: y}.MarshalBinary()
	return data
}

func padReport(fire bool, x, y uint8) []byte {
	var b uint8
	if fire {
		b = 1
	}
	return []byte{b, x, y}
}

// digitalPadDescriptor builds a one-button pad with unsigned byte axes, the
// shape cheap USB retro pads report.
func digitalPadDescriptor(t *testing.T) []byte {
	t.Helper()
	raw, err := hid.Descriptor{Items: []hid.Item{
		hid.UsagePage{Page: hid.UsagePageGenericDesktop},
		hid.Usage{Usage: hid.UsageJoystick},
		hid.Collection{Kind: hid.CollectionApplication, Items: []hid.Item{
			hid.UsagePage{Page: hid.UsagePageButton},
			hid.UsageMinimum{Min: 1},
			hid.UsageMaximum{Max: 1},
			hid.LogicalMinimum{Min: 0},
			hid.LogicalMaximum{Max: 1},
			hid.ReportSize{Bits: 1},
			hid.ReportCount{Count: 1},
			hid.Input{Flags: hid.MainVar},
			hid.ReportSize{Bits: 7},
			hid.ReportCount{Count: 1},
			hid.Input{Flags: hid.MainConst},
			hid.UsagePage{Page: hid.UsagePageGenericDesktop},
			hid.Usage{Usage: hid.UsageX},
			hid.Usage{Usage: hid.UsageY},
			hid.LogicalMinimum{Min: 0},
			hid.LogicalMaximum{Max: 255},
			hid.ReportSize{Bits: 8},
			hid.ReportCount{Count: 2},
			hid.Input{Flags: hid.MainVar},
		}},
	}}.Bytes()
	require.NoError(t, err)
	return raw
}

package ikbd

import (
	"github.com/pikbd/pikbd/hid"
)

// wrapThreshold is the per-axis direction flip magnitude past which a
// sample is assumed to have wrapped rather than reversed.
const wrapThreshold = 45

// ProcessMice folds every ready mouse's current report into the button mask
// and the pending motion accumulators, re-arms the devices, and flushes the
// accumulated motion to the sink when cycles is non-zero.
//
// Some mice overflow the boot protocol's signed byte range instead of
// clamping. A sample that flips sign against a previous sample of magnitude
// above wrapThreshold is taken as wrapped and replaced with full-scale
// motion in the previous direction. The corrected sample is what both the
// accumulator and the next comparison see.
func (in *Input) ProcessMice(cycles int64) {
	in.reg.ForEach(ClassMouse, func(d *Device) {
		var rep hid.MouseReport
		if err := rep.UnmarshalBinary(d.Buf); err != nil {
			in.logger.Warn("discarding malformed mouse report", "addr", d.Addr, "error", err)
			return
		}

		if rep.Buttons&hid.ButtonLeft != 0 {
			in.buttons |= ButtonMaskLeft
		} else {
			in.buttons &^= ButtonMaskLeft
		}
		if rep.Buttons&hid.ButtonRight != 0 {
			in.buttons |= ButtonMaskRight
		} else {
			in.buttons &^= ButtonMaskRight
		}

		dx := wrapCorrect(int(rep.X), in.lastX)
		dy := wrapCorrect(int(rep.Y), in.lastY)
		in.lastX, in.lastY = dx, dy
		in.pendX += dx
		in.pendY += dy

		in.reg.request(d)
	})

	if cycles == 0 {
		return
	}
	// Flushed motion goes to the sink even while mouse reporting is off and
	// even when nothing accumulated; the consumer owns the enable decision
	// and a zero flush is its stop signal.
	if in.sink != nil {
		in.sink.SetSpeed(in.pendX, in.pendY)
	}
	in.pendX, in.pendY = 0, 0
}

func wrapCorrect(v, last int) int {
	switch {
	case v < 0 && last > wrapThreshold:
		return 127
	case v > 0 && last < -wrapThreshold:
		return -127
	}
	return v
}

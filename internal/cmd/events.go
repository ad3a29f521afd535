package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/pikbd/pikbd/ikbd"
	"github.com/pikbd/pikbd/keymap"
)

// snapshot is one tick's worth of translated state, copied off the facade so
// diffing and rendering never touch it from another goroutine.
type snapshot struct {
	keys    [ikbd.KeyTableSize]bool
	buttons uint8
	joy     uint8
	mouseEn bool
}

func takeSnapshot(in *ikbd.Input) snapshot {
	var s snapshot
	for code := range s.keys {
		s.keys[code] = in.KeyDown(uint8(code))
	}
	s.buttons = in.MouseButtons()
	s.joy = in.Joystick()
	s.mouseEn = in.MouseEnabled()
	return s
}

// diffEvents renders the transitions between two snapshots as event lines
// for stdout consumers:
//
//	K+ 2a    ST scancode down
//	K- 2a    ST scancode up
//	B 02     button mask changed
//	J 80     joystick byte changed
//	T off    mouse reporting toggled
func diffEvents(prev, cur snapshot) []string {
	var lines []string
	for code := range cur.keys {
		switch {
		case cur.keys[code] && !prev.keys[code]:
			lines = append(lines, fmt.Sprintf("K+ %02x", code))
		case !cur.keys[code] && prev.keys[code]:
			lines = append(lines, fmt.Sprintf("K- %02x", code))
		}
	}
	if cur.buttons != prev.buttons {
		lines = append(lines, fmt.Sprintf("B %02x", cur.buttons))
	}
	if cur.joy != prev.joy {
		lines = append(lines, fmt.Sprintf("J %02x", cur.joy))
	}
	if cur.mouseEn != prev.mouseEn {
		state := "off"
		if cur.mouseEn {
			state = "on"
		}
		lines = append(lines, "T "+state)
	}
	return lines
}

// motionSink receives the per-tick mouse flush. The translator calls it
// every tick as the stop signal; only actual motion is worth a line.
type motionSink struct {
	logger *slog.Logger
	out    io.Writer // nil disables stdout event lines
}

func (s *motionSink) SetSpeed(dx, dy int) {
	if dx == 0 && dy == 0 {
		return
	}
	s.logger.Debug("mouse motion", "dx", dx, "dy", dy)
	if s.out != nil {
		fmt.Fprintf(s.out, "M %d %d\n", dx, dy)
	}
}

// watchToggle flips mouse reporting on the toggle pseudo-key's down edge and
// returns the key state for the next tick's edge detection.
func watchToggle(in *ikbd.Input, wasDown bool) bool {
	down := in.KeyDown(keymap.ScanMouseToggle)
	if down && !wasDown {
		in.ToggleMouse()
	}
	return down
}

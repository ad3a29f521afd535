package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"golang.org/x/term"

	"github.com/pikbd/pikbd/ikbd"
	"github.com/pikbd/pikbd/internal/log"
	"github.com/pikbd/pikbd/keymap"
)

// Monitor shows the translated ST input state live in the terminal.
type Monitor struct {
	Sim       string        `help:"Play a YAML scenario instead of opening hidraw devices" env:"PIKBD_SIM"`
	Layout    string        `help:"Keyboard layout name" default:"gb" env:"PIKBD_LAYOUT"`
	LayoutDir string        `help:"Directory of extra layout TOML files" env:"PIKBD_LAYOUT_DIR"`
	Tick      time.Duration `help:"Polling interval" default:"25ms" env:"PIKBD_TICK"`
}

// Run is called by Kong when the monitor command is executed.
func (m *Monitor) Run(logger *slog.Logger, tracer *log.Tracer) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("monitor needs a terminal")
	}

	if m.LayoutDir != "" {
		if err := loadLayoutDir(m.LayoutDir, logger); err != nil {
			return err
		}
	}
	layout, err := keymap.ByName(m.Layout)
	if err != nil {
		return err
	}

	v := newMonitorView()

	// Console logging would tear the UI, so the monitor gets its own logger
	// writing into the log pane.
	paneLogger := slog.New(slog.NewTextHandler(v.logView, nil))

	session, err := openHost(m.Sim, paneLogger, tracer)
	if err != nil {
		return err
	}

	reg := ikbd.NewRegistry(session.stack, paneLogger)
	for _, addr := range session.initial {
		reg.Attach(addr)
	}
	in := ikbd.New(reg, layout, &motionSink{logger: paneLogger}, paneLogger)

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		m.poll(v, in, reg, session, done)
	}()

	err = v.app.Run()
	close(done)
	<-finished
	_ = session.close()
	return err
}

// poll owns the registry and facade while the UI runs on the main goroutine;
// rendered strings cross over through the application's update queue.
func (m *Monitor) poll(v *monitorView, in *ikbd.Input, reg *ikbd.Registry, session *hostSession, done <-chan struct{}) {
	ticker := time.NewTicker(m.Tick)
	defer ticker.Stop()

	var toggle bool
	for {
		select {
		case <-done:
			return
		case ev := <-session.events:
			applyHotplug(reg, ev)
		case <-ticker.C:
			in.Tick(int64(m.Tick))
			toggle = watchToggle(in, toggle)

			s := takeSnapshot(in)
			state := renderState(s)
			keys := renderKeys(s)
			devices := renderDevices(reg.Devices())
			v.app.QueueUpdateDraw(func() {
				v.state.SetText(state)
				v.keys.SetText(keys)
				v.devices.SetText(devices)
			})
		}
	}
}

type monitorView struct {
	app     *tview.Application
	state   *tview.TextView
	keys    *tview.TextView
	devices *tview.TextView
	logView *tview.TextView
}

func newMonitorView() *monitorView {
	v := &monitorView{
		app: tview.NewApplication(),
		state: tview.NewTextView().
			SetWrap(false).
			SetDynamicColors(true),
		keys: tview.NewTextView().
			SetWrap(false).
			SetDynamicColors(true),
		devices: tview.NewTextView().
			SetWrap(false),
		logView: tview.NewTextView().
			SetMaxLines(200),
	}
	v.state.SetBackgroundColor(tcell.ColorDarkBlue)
	v.keys.SetBorder(true)
	v.keys.SetTitle(" ST key matrix ")
	v.devices.SetBorder(true)
	v.devices.SetTitle(" devices ")
	v.logView.SetChangedFunc(func() { v.app.Draw() })

	rows := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(v.state, 1, 0, false).
		AddItem(v.keys, 10, 0, false).
		AddItem(v.devices, 0, 1, false).
		AddItem(v.logView, 0, 2, false)
	v.app.SetRoot(rows, true)

	v.app.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		if ev.Rune() == 'q' || ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			v.app.Stop()
			return nil
		}
		return ev
	})
	return v
}

func renderState(s snapshot) string {
	return fmt.Sprintf("mouse %s   buttons L:%d R:%d   joy1 %s   joy0 %s   q quits",
		onOff(s.mouseEn),
		bit(s.buttons, ikbd.ButtonMaskLeft),
		bit(s.buttons, ikbd.ButtonMaskRight),
		nibbleArrows(s.joy>>4),
		nibbleArrows(s.joy&0x0F))
}

// renderKeys draws the 128-entry key table as an 8x16 scancode grid with the
// held keys highlighted.
func renderKeys(s snapshot) string {
	var b strings.Builder
	for row := 0; row < ikbd.KeyTableSize/16; row++ {
		for col := 0; col < 16; col++ {
			code := row*16 + col
			if col > 0 {
				b.WriteByte(' ')
			}
			if s.keys[code] {
				fmt.Fprintf(&b, "[black:yellow]%02x[-:-]", code)
			} else {
				fmt.Fprintf(&b, "[gray]%02x[-]", code)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func renderDevices(devices []*ikbd.Device) string {
	if len(devices) == 0 {
		return "no devices attached"
	}
	var b strings.Builder
	for _, d := range devices {
		fmt.Fprintf(&b, "%3d  %-8s  %d byte reports\n", d.Addr, d.Class, len(d.Buf))
	}
	return b.String()
}

func nibbleArrows(n uint8) string {
	dirs := []struct {
		bit uint8
		r   rune
	}{{1, '↑'}, {2, '↓'}, {4, '←'}, {8, '→'}}
	var b strings.Builder
	for _, d := range dirs {
		if n&d.bit != 0 {
			b.WriteRune(d.r)
		} else {
			b.WriteRune('·')
		}
	}
	return b.String()
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func bit(mask, b uint8) int {
	if mask&b != 0 {
		return 1
	}
	return 0
}

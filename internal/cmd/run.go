package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pikbd/pikbd/host/hidraw"
	"github.com/pikbd/pikbd/ikbd"
	"github.com/pikbd/pikbd/internal/log"
	"github.com/pikbd/pikbd/keymap"
)

// Run drives the translation loop against hidraw devices or a scenario.
type Run struct {
	Sim       string        `help:"Play a YAML scenario instead of opening hidraw devices" env:"PIKBD_SIM"`
	Layout    string        `help:"Keyboard layout name" default:"gb" env:"PIKBD_LAYOUT"`
	LayoutDir string        `help:"Directory of extra layout TOML files" env:"PIKBD_LAYOUT_DIR"`
	Tick      time.Duration `help:"Polling interval" default:"10ms" env:"PIKBD_TICK"`
	Ticks     int           `help:"Stop after this many ticks (0 runs until interrupted)" default:"0"`
	Events    bool          `help:"Write state transitions to stdout" env:"PIKBD_EVENTS"`
}

// Run is called by Kong when the run command is executed.
func (r *Run) Run(logger *slog.Logger, tracer *log.Tracer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if r.LayoutDir != "" {
		if err := loadLayoutDir(r.LayoutDir, logger); err != nil {
			return err
		}
	}
	layout, err := keymap.ByName(r.Layout)
	if err != nil {
		return err
	}

	session, err := openHost(r.Sim, logger, tracer)
	if err != nil {
		return err
	}
	defer func() { _ = session.close() }()

	reg := ikbd.NewRegistry(session.stack, logger)
	for _, addr := range session.initial {
		reg.Attach(addr)
	}

	sink := &motionSink{logger: logger}
	if r.Events {
		sink.out = os.Stdout
	}
	in := ikbd.New(reg, layout, sink, logger)

	logger.Info("translation loop running", "layout", layout.Name, "tick", r.Tick)

	ticker := time.NewTicker(r.Tick)
	defer ticker.Stop()

	var (
		prev   = takeSnapshot(in)
		toggle bool
		ticks  int
	)
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil
		case ev := <-session.events:
			applyHotplug(reg, ev)
		case <-ticker.C:
			in.Tick(int64(r.Tick))
			toggle = watchToggle(in, toggle)
			cur := takeSnapshot(in)
			if r.Events {
				for _, line := range diffEvents(prev, cur) {
					fmt.Println(line)
				}
			}
			prev = cur
			ticks++
			if r.Ticks > 0 && ticks >= r.Ticks {
				logger.Info("tick budget spent", "ticks", ticks)
				return nil
			}
		}
	}
}

func applyHotplug(reg *ikbd.Registry, ev hidraw.Event) {
	switch ev.Kind {
	case hidraw.EventAttach:
		reg.Attach(ev.Addr)
	case hidraw.EventDetach:
		reg.Detach(ev.Addr)
	}
}

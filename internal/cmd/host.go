// Package cmd implements the pikbd subcommands.
package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/pikbd/pikbd/host/hidraw"
	"github.com/pikbd/pikbd/host/sim"
	"github.com/pikbd/pikbd/ikbd"
	"github.com/pikbd/pikbd/internal/log"
	"github.com/pikbd/pikbd/keymap"
)

// hostSession bundles an opened host stack with what the polling loop needs
// to drive it: the hotplug channel (nil for scenarios, which have none) and
// the addresses already present at open.
type hostSession struct {
	stack   ikbd.HostStack
	events  <-chan hidraw.Event
	initial []uint8
	close   func() error
}

// openHost opens the hidraw stack, or a scripted scenario when simPath is
// set.
func openHost(simPath string, logger *slog.Logger, tracer *log.Tracer) (*hostSession, error) {
	if simPath != "" {
		s, err := sim.Open(simPath, logger, tracer)
		if err != nil {
			return nil, err
		}
		return &hostSession{stack: s, initial: s.Addresses(), close: s.Close}, nil
	}
	s, err := hidraw.Open(logger, tracer)
	if err != nil {
		return nil, err
	}
	return &hostSession{stack: s, events: s.Events(), close: s.Close}, nil
}

// loadLayoutDir registers every layout TOML file in dir.
func loadLayoutDir(dir string, logger *slog.Logger) error {
	paths, err := filepath.Glob(filepath.Join(dir, "*.toml"))
	if err != nil {
		return err
	}
	for _, path := range paths {
		layout, err := keymap.Load(path)
		if err != nil {
			return fmt.Errorf("loading layout %s: %w", path, err)
		}
		logger.Debug("layout loaded", "name", layout.Name, "path", path)
	}
	return nil
}

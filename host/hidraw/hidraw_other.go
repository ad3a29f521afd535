//go:build !linux

package hidraw

import (
	"errors"
	"log/slog"

	"github.com/pikbd/pikbd/ikbd"
	"github.com/pikbd/pikbd/internal/log"
)

// Stack exists on non-Linux platforms so the CLI can compile there; Open
// always fails because there is no hidraw subsystem to talk to.
type Stack struct{}

func Open(logger *slog.Logger, tracer *log.Tracer) (*Stack, error) {
	return nil, errors.New("hidraw: only available on Linux")
}

func (s *Stack) Events() <-chan Event { return nil }

func (s *Stack) Close() error { return nil }

func (s *Stack) DeviceClass(addr uint8) ikbd.DeviceClass { return ikbd.ClassNone }

func (s *Stack) IsMounted(addr uint8) bool { return false }

func (s *Stack) IsBusy(addr uint8) bool { return false }

func (s *Stack) ReportDescriptor(addr uint8) ([]byte, error) {
	return nil, errors.New("hidraw: only available on Linux")
}

func (s *Stack) RequestReport(addr uint8, buf []byte) error {
	return errors.New("hidraw: only available on Linux")
}

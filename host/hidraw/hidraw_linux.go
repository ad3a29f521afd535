//go:build linux

package hidraw

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/howeyc/fsnotify"
	"golang.org/x/sys/unix"

	"github.com/pikbd/pikbd/hid"
	"github.com/pikbd/pikbd/ikbd"
	"github.com/pikbd/pikbd/internal/log"
)

const devDir = "/dev"

type device struct {
	path    string
	file    *os.File
	class   ikbd.DeviceClass
	desc    []byte
	mounted bool
	busy    bool
}

// Stack is the hidraw-backed ikbd.HostStack.
type Stack struct {
	logger *slog.Logger
	tracer *log.Tracer

	mu      sync.Mutex
	devices map[uint8]*device
	byPath  map[string]uint8

	watcher *fsnotify.Watcher
	events  chan Event
	done    chan struct{}
	wg      sync.WaitGroup
}

// Open enumerates the existing hidraw nodes and starts the hotplug watcher.
// Nodes that cannot be opened yet (permissions, races with udev) are skipped
// with a log line; they get another chance on their next /dev event.
func Open(logger *slog.Logger, tracer *log.Tracer) (*Stack, error) {
	if logger == nil {
		logger = slog.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("hidraw: creating watcher: %w", err)
	}
	if err := watcher.Watch(devDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("hidraw: watching %s: %w", devDir, err)
	}

	s := &Stack{
		logger:  logger,
		tracer:  tracer,
		devices: map[uint8]*device{},
		byPath:  map[string]uint8{},
		watcher: watcher,
		events:  make(chan Event, 32),
		done:    make(chan struct{}),
	}

	paths, err := filepath.Glob(filepath.Join(devDir, "hidraw*"))
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("hidraw: scanning %s: %w", devDir, err)
	}
	for _, path := range paths {
		s.tryAdd(path)
	}

	s.wg.Add(1)
	go s.watch()
	return s, nil
}

// Events returns the hotplug channel. The polling loop drains it and applies
// attach and detach to the registry, which keeps all registry writes on one
// goroutine.
func (s *Stack) Events() <-chan Event {
	return s.events
}

// Close stops the watcher, closes every node and waits for in-flight reads.
// Closing a node wakes its pending read with os.ErrClosed.
func (s *Stack) Close() error {
	select {
	case <-s.done:
		return nil
	default:
	}
	close(s.done)
	s.watcher.Close()

	s.mu.Lock()
	var open []*os.File
	for _, d := range s.devices {
		if d.mounted {
			d.mounted = false
			open = append(open, d.file)
		}
	}
	s.mu.Unlock()
	for _, f := range open {
		f.Close()
	}

	s.wg.Wait()
	return nil
}

func (s *Stack) DeviceClass(addr uint8) ikbd.DeviceClass {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.devices[addr]; ok {
		return d.class
	}
	return ikbd.ClassNone
}

func (s *Stack) IsMounted(addr uint8) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.devices[addr]
	return ok && d.mounted
}

func (s *Stack) IsBusy(addr uint8) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.devices[addr]
	return ok && d.busy
}

func (s *Stack) ReportDescriptor(addr uint8) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.devices[addr]
	if !ok {
		return nil, fmt.Errorf("hidraw: no device at address %d", addr)
	}
	return d.desc, nil
}

// RequestReport arms one blocking read into buf. The read completes on its
// own goroutine and busy clears once the report is in place, so a report
// becomes visible to the caller no later than its next IsBusy poll. Reports
// shorter than buf have the tail zeroed so stale bytes cannot linger.
func (s *Stack) RequestReport(addr uint8, buf []byte) error {
	s.mu.Lock()
	d, ok := s.devices[addr]
	if !ok || !d.mounted {
		s.mu.Unlock()
		return fmt.Errorf("hidraw: no device at address %d", addr)
	}
	if d.busy {
		s.mu.Unlock()
		return fmt.Errorf("hidraw: transfer already pending on address %d", addr)
	}
	d.busy = true
	f := d.file
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		scratch := make([]byte, len(buf))
		n, err := f.Read(scratch)

		s.mu.Lock()
		defer s.mu.Unlock()
		d.busy = false
		if err != nil || n <= 0 {
			if err != nil && !errors.Is(err, os.ErrClosed) && d.mounted {
				s.logger.Debug("hidraw read failed", "addr", addr, "error", err)
			}
			return
		}
		copy(buf, scratch[:n])
		clear(buf[n:])
		s.tracer.Report(addr, buf)
	}()
	return nil
}

func (s *Stack) watch() {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case ev, ok := <-s.watcher.Event:
			if !ok {
				return
			}
			if !strings.HasPrefix(filepath.Base(ev.Name), "hidraw") {
				continue
			}
			switch {
			// udev fixes up node permissions after creation, so the
			// attrib event is often the first usable moment.
			case ev.IsCreate() || ev.IsAttrib():
				s.tryAdd(ev.Name)
			case ev.IsDelete():
				s.remove(ev.Name)
			}
		case err, ok := <-s.watcher.Error:
			if !ok {
				return
			}
			s.logger.Warn("hidraw watcher error", "error", err)
		}
	}
}

// tryAdd opens, probes and registers a node. Paths already tracked and nodes
// without an input role the ST cares about are left alone.
func (s *Stack) tryAdd(path string) {
	s.mu.Lock()
	_, tracked := s.byPath[path]
	s.mu.Unlock()
	if tracked {
		return
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		f, err = os.OpenFile(path, os.O_RDONLY, 0)
	}
	if err != nil {
		s.logger.Debug("hidraw node not usable yet", "path", path, "error", err)
		return
	}

	desc, name, vendor, product, err := probe(f)
	if err != nil {
		s.logger.Warn("probing hidraw node failed, ignoring it", "path", path, "error", err)
		f.Close()
		return
	}
	class := classify(hid.Parse(desc))
	if class == ikbd.ClassNone {
		s.logger.Debug("node has no input role for the ST", "path", path, "name", name)
		f.Close()
		return
	}

	s.mu.Lock()
	addr, ok := s.freeAddrLocked()
	if !ok {
		s.mu.Unlock()
		s.logger.Warn("address space exhausted, ignoring node", "path", path)
		f.Close()
		return
	}
	s.devices[addr] = &device{path: path, file: f, class: class, desc: desc, mounted: true}
	s.byPath[path] = addr
	s.mu.Unlock()

	s.tracer.Descriptor(addr, desc)
	s.logger.Info("hidraw device attached",
		"addr", addr, "path", path, "class", class.String(), "name", name,
		"id", fmt.Sprintf("%04x:%04x", vendor, product))
	s.emit(Event{Kind: EventAttach, Addr: addr})
}

func (s *Stack) remove(path string) {
	s.mu.Lock()
	addr, ok := s.byPath[path]
	if !ok {
		s.mu.Unlock()
		return
	}
	d := s.devices[addr]
	d.mounted = false
	delete(s.byPath, path)
	delete(s.devices, addr)
	s.mu.Unlock()
	d.file.Close()

	s.logger.Info("hidraw device detached", "addr", addr, "path", path)
	s.emit(Event{Kind: EventDetach, Addr: addr})
}

func (s *Stack) emit(ev Event) {
	select {
	case s.events <- ev:
	default:
		s.logger.Warn("hotplug event dropped", "kind", ev.Kind.String(), "addr", ev.Addr)
	}
}

// freeAddrLocked picks the lowest unused address, reusing freed slots.
func (s *Stack) freeAddrLocked() (uint8, bool) {
	for a := 1; a < 256; a++ {
		if _, used := s.devices[uint8(a)]; !used {
			return uint8(a), true
		}
	}
	return 0, false
}

func classify(l *hid.Layout) ikbd.DeviceClass {
	if l.Page != hid.UsagePageGenericDesktop {
		return ikbd.ClassNone
	}
	switch l.Usage {
	case hid.UsageKeyboard:
		return ikbd.ClassKeyboard
	case hid.UsageMouse, hid.UsagePointer:
		return ikbd.ClassMouse
	case hid.UsageJoystick, hid.UsageGamePad:
		return ikbd.ClassGeneric
	}
	return ikbd.ClassNone
}

// probe fetches the report descriptor and identity over the node's ioctl
// surface. It uses the raw control path so the file stays registered with
// the runtime poller for later reads.
func probe(f *os.File) (desc []byte, name string, vendor, product uint16, err error) {
	conn, err := f.SyscallConn()
	if err != nil {
		return nil, "", 0, 0, err
	}
	ctlErr := conn.Control(func(fdptr uintptr) {
		fd := int(fdptr)
		size, ierr := unix.IoctlGetUint32(fd, unix.HIDIOCGRDESCSIZE)
		if ierr != nil {
			err = fmt.Errorf("descriptor size: %w", ierr)
			return
		}
		if size == 0 || size > unix.HID_MAX_DESCRIPTOR_SIZE {
			err = fmt.Errorf("descriptor size %d out of range", size)
			return
		}
		raw := unix.HIDRawReportDescriptor{Size: size}
		if ierr := unix.IoctlHIDGetDesc(fd, &raw); ierr != nil {
			err = fmt.Errorf("descriptor: %w", ierr)
			return
		}
		desc = make([]byte, size)
		copy(desc, raw.Value[:size])

		if n, ierr := unix.IoctlHIDGetRawName(fd); ierr == nil {
			name = strings.TrimSpace(n)
		}
		if info, ierr := unix.IoctlHIDGetRawInfo(fd); ierr == nil {
			vendor, product = uint16(info.Vendor), uint16(info.Product)
		}
	})
	if err == nil {
		err = ctlErr
	}
	if err != nil {
		return nil, "", 0, 0, err
	}
	return desc, name, vendor, product, nil
}

package keymap

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml"
)

// layoutFile is the on-disk TOML layout format:
//
//	name = "custom"
//	base = "gb"
//
//	[keys]
//	"0x64" = 0x60   # usage -> ST scancode, 0 removes the mapping
type layoutFile struct {
	Name string           `toml:"name"`
	Base string           `toml:"base"`
	Keys map[string]int64 `toml:"keys"`
}

// Load reads a TOML layout file: a base layout plus usage-to-scancode
// overrides. The result is returned and registered under its name.
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keymap: reading layout: %w", err)
	}
	l, err := parseLayout(data)
	if err != nil {
		return nil, fmt.Errorf("keymap: %s: %w", path, err)
	}
	Register(l)
	return l, nil
}

func parseLayout(data []byte) (*Layout, error) {
	var lf layoutFile
	if err := toml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("parsing layout: %w", err)
	}
	if lf.Name == "" {
		return nil, fmt.Errorf("layout file has no name")
	}
	if lf.Base == "" {
		lf.Base = "gb"
	}
	base, err := ByName(lf.Base)
	if err != nil {
		return nil, err
	}
	l := &Layout{Name: lf.Name, Table: base.Table}
	for k, v := range lf.Keys {
		usage, err := strconv.ParseUint(k, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("bad usage key %q: %w", k, err)
		}
		if usage >= TableSize {
			return nil, fmt.Errorf("usage %q out of table range", k)
		}
		if v < 0 || v > int64(MaxScancode) {
			return nil, fmt.Errorf("scancode %d for usage %q out of range", v, k)
		}
		l.Table[usage] = uint8(v)
	}
	return l, nil
}

package cmd

import (
	"fmt"
	"log/slog"

	"github.com/pikbd/pikbd/keymap"
)

// Layouts lists the registered keyboard layouts or dumps one table.
type Layouts struct {
	Name string `arg:"" optional:"" help:"Layout to dump; omit to list all"`
	Dir  string `help:"Directory of extra layout TOML files" env:"PIKBD_LAYOUT_DIR"`
}

// Run is called by Kong when the layouts command is executed.
func (l *Layouts) Run(logger *slog.Logger) error {
	if l.Dir != "" {
		if err := loadLayoutDir(l.Dir, logger); err != nil {
			return err
		}
	}
	if l.Name == "" {
		for _, name := range keymap.Names() {
			fmt.Println(name)
		}
		return nil
	}
	layout, err := keymap.ByName(l.Name)
	if err != nil {
		return err
	}
	for usage, code := range layout.Table {
		if code == keymap.NoKey {
			continue
		}
		fmt.Printf("usage 0x%02x -> st 0x%02x\n", usage, code)
	}
	return nil
}

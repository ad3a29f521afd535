// Package config defines the CLI structure and configuration for pikbd.
package config

import (
	"github.com/pikbd/pikbd/internal/cmd"
)

type Log struct {
	Level     string `help:"Log level: trace, debug, info, warn, error" default:"info" env:"PIKBD_LOG_LEVEL"`
	File      string `help:"Log file path (default: none; logs only to console)" env:"PIKBD_LOG_FILE"`
	TraceFile string `help:"Raw report trace file path (default: none)" env:"PIKBD_LOG_TRACE_FILE"`
}

// CLI is the root command structure for Kong CLI parsing.
type CLI struct {
	Log `embed:"" prefix:"log."`

	Config string `help:"Config file path" env:"PIKBD_CONFIG"`

	Run     cmd.Run     `cmd:"" help:"Translate HID input into ST keyboard state"`
	Monitor cmd.Monitor `cmd:"" help:"Watch the translated ST input state live"`
	Layouts cmd.Layouts `cmd:"" help:"List or dump keyboard layouts"`
}

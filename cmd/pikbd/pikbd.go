package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"

	"github.com/pikbd/pikbd/internal/config"
	"github.com/pikbd/pikbd/internal/configpaths"
	"github.com/pikbd/pikbd/internal/log"
)

func main() {
	userCfg := findUserConfig(os.Args[1:])
	jsonPaths, yamlPaths, tomlPaths := configpaths.ConfigCandidatePaths(userCfg)

	var cli config.CLI
	ctx := kong.Parse(&cli,
		kong.Name("pikbd"),
		kong.Description(Description()),
		kong.UsageOnError(),
		// Load configuration from JSON/YAML/TOML in priority order; flags/env override config values.
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)

	logger, closeFiles, err := log.SetupLogger(cli.Log.Level, cli.Log.File)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to setup logger:", err)
		os.Exit(2)
	}
	defer func() {
		for _, c := range closeFiles {
			_ = c.Close()
		}
	}()

	tracer := setupTracer(&cli, logger, &closeFiles)

	ctx.Bind(logger)
	ctx.Bind(tracer)

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}

func findUserConfig(args []string) string {
	for i, a := range args {
		if strings.HasPrefix(a, "--config=") {
			return a[len("--config="):]
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return os.Getenv("PIKBD_CONFIG")
}

// setupTracer builds the raw report tracer: into its own file when
// configured, onto the console when the log level is trace, otherwise off.
func setupTracer(cli *config.CLI, logger *slog.Logger, closeFiles *[]io.Closer) *log.Tracer {
	if cli.Log.TraceFile != "" {
		f, err := os.OpenFile(cli.Log.TraceFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			logger.Error("failed to open trace file", "file", cli.Log.TraceFile, "error", err)
			return log.NewTracer(nil)
		}
		*closeFiles = append(*closeFiles, f)
		h := slog.NewTextHandler(f, &slog.HandlerOptions{Level: log.LevelTrace})
		return log.NewTracer(slog.New(h))
	}
	if strings.EqualFold(cli.Log.Level, "trace") {
		return log.NewTracer(logger)
	}
	return log.NewTracer(nil)
}

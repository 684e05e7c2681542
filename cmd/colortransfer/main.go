package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wudi/colortransfer/config"
	"github.com/wudi/colortransfer/observability"
	"github.com/wudi/colortransfer/pipeline"
)

const (
	exitOK    = 0
	exitRun   = 1
	exitUsage = 2
)

type options struct {
	configPath string
	overrides  map[string]string // flag name -> value, only for flags set on the command line
	positional []string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "colortransfer: %v\n", err)
		return exitUsage
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "colortransfer: %v\n", err)
		return exitUsage
	}

	logger := observability.NewLogger(stderr, observability.LogOptions{Level: cfg.Log.Level, JSON: cfg.Log.JSON})
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	p, job, err := pipeline.FromConfig(cfg, logger, metrics)
	if err != nil {
		fmt.Fprintf(stderr, "colortransfer: %v\n", err)
		return exitUsage
	}
	_, runErr := p.Run(ctx, job)

	if cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsFile, reg); err != nil {
			logger.Error("write metrics", observability.String("path", cfg.MetricsFile), observability.Error("error", err))
		}
	}
	if runErr != nil {
		fmt.Fprintf(stderr, "colortransfer: %v\n", runErr)
		return exitRun
	}
	return exitOK
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("colortransfer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: colortransfer [flags] <content> <reference> <output>\n")
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "YAML configuration file")
	fs.String("space", "", "Working color space (lalphabeta, cielab)")
	fs.Int("quality", 0, "JPEG quality 1-100 for .jpg/.jpeg output")
	fs.String("report", "", "Write a YAML transfer report to this path")
	fs.String("metrics-out", "", "Write Prometheus metrics in text format to this path")
	fs.String("log-level", "", "Log level: debug, info, warn, error")
	fs.Bool("log-json", false, "Emit JSON logs")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts := options{
		configPath: *configPath,
		overrides:  map[string]string{},
		positional: fs.Args(),
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name != "config" {
			opts.overrides[f.Name] = f.Value.String()
		}
	})
	switch len(opts.positional) {
	case 0, 3:
	default:
		fs.Usage()
		return options{}, fmt.Errorf("expected <content> <reference> <output>, got %d arguments", len(opts.positional))
	}
	return opts, nil
}

// loadConfig layers flags and positional arguments over file and
// environment configuration.
func loadConfig(opts options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, err
	}
	if len(opts.positional) == 3 {
		cfg.Content, cfg.Reference, cfg.Output = opts.positional[0], opts.positional[1], opts.positional[2]
	}
	for name, val := range opts.overrides {
		switch name {
		case "space":
			cfg.ColorSpace = val
		case "quality":
			cfg.JPEGQuality, _ = strconv.Atoi(val)
		case "report":
			cfg.Report = val
		case "metrics-out":
			cfg.MetricsFile = val
		case "log-level":
			cfg.Log.Level = val
		case "log-json":
			cfg.Log.JSON, _ = strconv.ParseBool(val)
		}
	}
	return cfg, cfg.Validate()
}

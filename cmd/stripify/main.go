// stripify converts Ragnarok Online RSM models and Wavefront OBJ meshes into
// vertex cache friendly triangle strips.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-strip/internal/config"
	"github.com/Faultbox/midgard-strip/internal/logger"
)

// errUsage is returned by commands called with missing arguments.
var errUsage = errors.New("usage")

func main() {
	os.Exit(run())
}

func run() int {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	logger.Sugar.Debugf("Config: %+v", cfg)

	args := config.Args()
	if len(args) < 1 {
		printUsage()
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	command := args[0]
	args = args[1:]

	switch command {
	case "stats":
		err = cmdStats(cfg, args, os.Stdout)
	case "strip":
		err = cmdStrip(ctx, cfg, args, os.Stdout)
	case "grf":
		err = cmdGRF(ctx, cfg, args, os.Stdout)
	case "info":
		err = cmdInfo(args, os.Stdout)
	case "list", "ls":
		err = cmdList(args, os.Stdout)
	case "extract", "x":
		err = cmdExtract(args, os.Stdout)
	case "watch":
		err = cmdWatch(ctx, cfg, args, os.Stdout)
	case "config":
		err = cmdConfig(cfg, args, os.Stdout)
	case "help", "-h", "--help":
		printUsage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		return 1
	}

	switch {
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, err)
		return 2
	case errors.Is(err, context.Canceled):
		logger.Info("interrupted")
		return 130
	case err != nil:
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func printUsage() {
	fmt.Println(`stripify - triangle strip optimizer for RSM and OBJ meshes

Usage:
  stripify [global flags] <command> [options]

Commands:
  stats <path>...                    Show vertex cache statistics of the input lists
  strip [-o report.yaml] <path>...   Stripify files or directories and report
  grf [-o report.yaml] [pattern]     Stripify models inside the configured GRF archives
  watch <dir>                        Re-stripify meshes as they change
  info <file.grf>                    Show archive information
  list <file.grf> [pattern]          List files (optional glob pattern)
  extract <file.grf> <pattern> [dir] Extract matching files
  config [path]                      Write the effective config

Global flags:
  -config path   -debug   -cache N   -min-strip N   -no-stitch
  -lists   -restart   -reorder   -validate   -workers N

Examples:
  stripify stats data/model/prontera
  stripify -cache 16 -restart strip -o report.yaml model.rsm
  stripify grf "*.rsm"
  stripify extract data.grf "*.rsm" ./models`)
}

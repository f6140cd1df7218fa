package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-strip/internal/config"
	"github.com/Faultbox/midgard-strip/internal/logger"
	"github.com/Faultbox/midgard-strip/internal/pipeline"
)

// watchDelay collapses the burst of events an editor produces on save.
const watchDelay = 250 * time.Millisecond

func cmdWatch(ctx context.Context, cfg *config.Config, args []string, w io.Writer) error {
	fs := newFlagSet("watch")
	twoSided := fs.Bool("two-sided", false, "Add back faces for two-sided RSM faces")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("%w: stripify watch <dir>", errUsage)
	}
	dir := fs.Arg(0)
	opts := loadOptions(cfg, *twoSided)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	logger.Info("watching", zap.String("dir", dir))
	fmt.Fprintf(w, "Watching %s (Ctrl+C to stop)\n", dir)

	pending := make(map[string]struct{})
	timer := time.NewTimer(watchDelay)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !shouldProcess(event, opts) {
				continue
			}
			pending[event.Name] = struct{}{}
			timer.Reset(watchDelay)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))

		case <-timer.C:
			for _, path := range drain(pending) {
				if err := stripFile(ctx, cfg, path, opts, w); err != nil {
					logger.Warn("strip failed", zap.String("file", path), zap.Error(err))
					fmt.Fprintf(w, "%s: %v\n", path, err)
				}
			}
		}
	}
}

// shouldProcess reports whether event is a write or create of a mesh file.
func shouldProcess(event fsnotify.Event, opts pipeline.LoadOptions) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	return opts.Accepts(event.Name)
}

// drain empties pending and returns its paths sorted.
func drain(pending map[string]struct{}) []string {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
		delete(pending, p)
	}
	sort.Strings(paths)
	return paths
}

func stripFile(ctx context.Context, cfg *config.Config, path string, opts pipeline.LoadOptions, w io.Writer) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return nil
	}

	jobs, err := pipeline.LoadFile(path, opts)
	if err != nil {
		return err
	}
	reports, err := pipeline.Run(ctx, jobs, runOptions(cfg))
	if err != nil {
		return err
	}

	s := pipeline.Summarize(reports)
	fmt.Fprintf(w, "%s  %s: %d meshes, %d triangles, ACMR %.3f -> %.3f\n",
		time.Now().Format("15:04:05"), filepath.Base(path),
		s.Meshes, s.Triangles, s.ACMRBefore, s.ACMRAfter)
	return nil
}

package runner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce batches filesystem events before a re-run. Editors save
// in bursts; one build per burst is the useful granularity.
const DefaultDebounce = 250 * time.Millisecond

// WatchOptions configure a watch loop.
type WatchOptions struct {
	Options

	// Dirs are the roots to watch recursively. Empty means the current
	// directory.
	Dirs []string

	// Debounce is the quiet period after a change before re-running.
	// Zero means DefaultDebounce.
	Debounce time.Duration
}

// Watch runs the build once, then re-runs it after every debounced change
// batch under the watched roots, until ctx is canceled. Build failures do
// not stop the loop; the point of watching is to see the next attempt.
func Watch(ctx context.Context, opts WatchOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("runner: watcher: %w", err)
	}
	defer watcher.Close()

	dirs := opts.Dirs
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	for _, dir := range dirs {
		if err := watchTree(watcher, dir); err != nil {
			return err
		}
	}

	debounce := opts.Debounce
	if debounce == 0 {
		debounce = DefaultDebounce
	}

	runOnce := func() {
		result, err := Run(ctx, opts.Options)
		if err != nil && ctx.Err() == nil {
			slog.Error("build run failed", "error", err)
			return
		}
		slog.Info("build finished", "exit_code", result.ExitCode)
	}

	runOnce()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if skipPath(ev.Name) {
				continue
			}
			// New directories join the watch before the next burst.
			if ev.Op.Has(fsnotify.Create) {
				_ = watchTree(watcher, ev.Name)
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)
		case <-fire:
			fire = nil
			runOnce()
		}
	}
}

// watchTree adds dir and every non-skipped subdirectory to the watcher.
// Non-directories are ignored, so Create events for files pass through
// harmlessly.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are not fatal to watching
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipPath(path) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			slog.Warn("cannot watch directory", "dir", path, "error", err)
		}
		return nil
	})
}

// skipPath filters the usual non-source noise: hidden entries, vendored
// code, and the Go toolchain's underscore-prefixed directories.
func skipPath(path string) bool {
	base := filepath.Base(path)
	if base == "vendor" {
		return true
	}
	return strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_")
}

package scanner

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow batches bursts of filesystem events into one callback.
const debounceWindow = 300 * time.Millisecond

// Watch observes every directory under the configured roots and invokes
// onChange after filesystem activity settles. It blocks until ctx is
// cancelled. Each onChange invocation is expected to start a fresh
// analysis: the run-scoped file cache never invalidates, so reuse across
// changes would serve stale content.
func Watch(ctx context.Context, cfg Config, onChange func()) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	excludeSet := make(map[string]bool)
	excludes := cfg.Excludes
	if len(excludes) == 0 {
		excludes = DefaultExcludes
	}
	for _, name := range excludes {
		excludeSet[name] = true
	}

	addTree := func(root string) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || !d.IsDir() {
				return nil
			}
			if excludeSet[d.Name()] {
				return filepath.SkipDir
			}
			if err := watcher.Add(path); err != nil {
				logger.Warn("failed to watch directory", "path", path, "error", err)
			}
			return nil
		})
	}
	for _, root := range cfg.ServerRoots {
		addTree(root)
	}
	for _, root := range cfg.ClientRoots {
		addTree(root)
	}

	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// A new directory must be added to the watch set.
			if event.Op.Has(fsnotify.Create) {
				addTree(event.Name)
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceWindow, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		case <-fire:
			onChange()
		}
	}
}

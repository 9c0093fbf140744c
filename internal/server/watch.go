// internal/server/watch.go
package server

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the watcher waits after the last change
// before resyncing.
const DefaultDebounce = 300 * time.Millisecond

// Watcher calls a rebuild function whenever a post in BlogDir or the
// Readme itself changes. Bursts of events are collapsed into one call.
type Watcher struct {
	BlogDir    string
	Readme     string
	Extensions []string
	Debounce   time.Duration
	Logger     *zap.Logger
}

// Run watches until ctx is done. rebuild is never called concurrently
// with itself.
func (w *Watcher) Run(ctx context.Context, rebuild func()) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create file watcher: %w", err)
	}
	defer fsw.Close()

	// The README's parent directory is watched rather than the file so that
	// editors which save through a rename keep being seen.
	dirs := []string{filepath.Clean(w.BlogDir), filepath.Dir(filepath.Clean(w.Readme))}
	for _, dir := range slices.Compact(dirs) {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		w.logger().Info("watching directory", zap.String("dir", dir))
	}

	w.loop(ctx, fsw.Events, fsw.Errors, rebuild)
	return nil
}

func (w *Watcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, rebuild func()) {
	logger := w.logger()
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				return
			}
			if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
				continue
			}
			if !w.relevant(event.Name) {
				continue
			}
			logger.Debug("change detected", zap.String("path", event.Name), zap.Stringer("op", event.Op))
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			rebuild()

		case err, ok := <-errs:
			if !ok {
				return
			}
			logger.Warn("watcher error", zap.Error(err))
		}
	}
}

// relevant reports whether a change to path can alter the generated
// document: a content file directly in the blog directory, or the README.
func (w *Watcher) relevant(path string) bool {
	path = filepath.Clean(path)
	if path == filepath.Clean(w.Readme) {
		return true
	}
	if filepath.Dir(path) != filepath.Clean(w.BlogDir) {
		return false
	}
	return slices.Contains(w.Extensions, filepath.Ext(path))
}

func (w *Watcher) logger() *zap.Logger {
	if w.Logger == nil {
		return zap.NewNop()
	}
	return w.Logger
}

package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultWatchDebounce = 250 * time.Millisecond

// Watcher reloads the configuration when its file changes on disk. The
// parent directory is watched so editors that replace the file by rename are
// still noticed.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger

	mu        sync.Mutex
	callbacks []func(*LoadResult)
}

// NewWatcher creates a watcher for the config at path.
func NewWatcher(path string, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		path:     path,
		debounce: defaultWatchDebounce,
		logger:   logger,
	}
}

// OnConfigChange registers a callback run after every successful reload.
func (w *Watcher) OnConfigChange(callback func(*LoadResult)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Run watches until ctx is cancelled. Invalid configs are logged and
// skipped; the previous config stays in effect.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer fw.Close()

	target, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", w.path, err)
	}
	if err := fw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, target) {
				continue
			}
			w.logger.Debug("config file event", "op", ev.Op.String(), "file", ev.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", "error", err)

		case <-fire:
			fire = nil
			res, err := LoadFromPath(w.path)
			if err != nil {
				w.logger.Warn("config reload failed, keeping previous config", "error", err)
				continue
			}
			w.logger.Info("config reloaded", "path", res.Path)
			w.notify(res)
		}
	}
}

func relevant(ev fsnotify.Event, target string) bool {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) &&
		!ev.Op.Has(fsnotify.Rename) && !ev.Op.Has(fsnotify.Remove) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	return err == nil && abs == target
}

// notify copies callbacks, releases the lock, then calls them.
func (w *Watcher) notify(res *LoadResult) {
	w.mu.Lock()
	callbacks := make([]func(*LoadResult), len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	for _, callback := range callbacks {
		callback(res)
	}
}

package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDebounce = 400 * time.Millisecond

// Watcher reloads the config file when it changes on disk, so the editorial
// policy tables can be tuned without a restart. Reloads that fail to parse or
// validate are logged and skipped; the last good config stays in effect.
type Watcher struct {
	path     string
	onReload func(*Config)
	logger   *zap.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher creates a config watcher. onReload is invoked with each
// successfully loaded config.
func NewWatcher(path string, logger *zap.Logger, onReload func(*Config)) *Watcher {
	return &Watcher{path: path, onReload: onReload, logger: logger}
}

// Start watches the config file's directory until ctx is cancelled. Watching
// the directory rather than the file survives editors that replace the file
// on save.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return err
	}
	go w.run(ctx, fw)
	return nil
}

func (w *Watcher) run(ctx context.Context, fw *fsnotify.Watcher) {
	defer fw.Close()
	target := filepath.Clean(w.path)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Warn("config watch error", zap.Error(err))
			}
		}
	}
}

// scheduleReload debounces bursts of write events into a single reload.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(reloadDebounce, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		if w.logger != nil {
			w.logger.Warn("config reload skipped", zap.String("path", w.path), zap.Error(err))
		}
		return
	}
	if w.logger != nil {
		w.logger.Info("config reloaded", zap.String("path", w.path))
	}
	w.onReload(cfg)
}

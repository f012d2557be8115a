package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDebounce is the debounce window for watcher events.
const WatchDebounce = 300 * time.Millisecond

// Watcher reloads the configuration file when it changes on disk. The parent
// directory is watched so editors that replace the file by rename are seen.
type Watcher struct {
	path     string
	logf     func(string, ...any)
	onReload func(*AppConfig)

	mu      sync.Mutex
	started bool
	watcher *fsnotify.Watcher
	done    chan struct{}
	timer   *time.Timer
}

// NewWatcher creates a watcher for the configuration file at path.
func NewWatcher(path string, logf func(string, ...any)) *Watcher {
	return &Watcher{path: filepath.Clean(path), logf: logf}
}

// Start begins watching. onReload receives every successfully parsed reload.
// The watcher stops when ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context, onReload func(*AppConfig)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		_ = watcher.Close()
		return err
	}

	w.started = true
	w.watcher = watcher
	w.onReload = onReload
	w.done = make(chan struct{})
	go w.run(ctx)
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		return
	}
	w.started = false
	close(w.done)
	if w.timer != nil {
		w.timer.Stop()
	}
	_ = w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.debugf("config watcher error: %v", err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(WatchDebounce, w.reload)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	active := w.started
	onReload := w.onReload
	w.mu.Unlock()
	if !active {
		return
	}

	cfg, err := loadFile(w.path)
	if err != nil {
		w.debugf("config reload failed: %v", err)
		return
	}
	w.debugf("config reloaded from %s", w.path)
	if onReload != nil {
		onReload(cfg)
	}
}

func (w *Watcher) debugf(format string, args ...any) {
	if w.logf == nil {
		return
	}
	w.logf(format, args...)
}

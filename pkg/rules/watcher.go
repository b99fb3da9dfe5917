package rules

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatcherConfig contains configuration for the catalog watcher.
type WatcherConfig struct {
	// Dir is the catalog directory to watch.
	Dir string

	// DebounceInterval is the quiet period after a burst of file events
	// before a reload is triggered. Default: 200ms.
	DebounceInterval time.Duration

	// Extensions are the file extensions that trigger a reload.
	// Default: .yaml, .yml.
	Extensions []string
}

// DefaultWatcherConfig returns the default watcher configuration for dir.
func DefaultWatcherConfig(dir string) *WatcherConfig {
	return &WatcherConfig{
		Dir:              dir,
		DebounceInterval: 200 * time.Millisecond,
		Extensions:       []string{".yaml", ".yml"},
	}
}

// Watcher watches a catalog directory and triggers reloads on change,
// debounced so editor save storms cause one reload, not many.
type Watcher struct {
	watcher *fsnotify.Watcher
	config  *WatcherConfig
	logger  *slog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a catalog watcher.
func NewWatcher(config *WatcherConfig, logger *slog.Logger) (*Watcher, error) {
	if config == nil || config.Dir == "" {
		return nil, fmt.Errorf("watcher config requires a directory")
	}
	if config.DebounceInterval <= 0 {
		config.DebounceInterval = 200 * time.Millisecond
	}
	if len(config.Extensions) == 0 {
		config.Extensions = []string{".yaml", ".yml"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher: fsw,
		config:  config,
		logger:  logger.With("component", "rules.watcher"),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Watch blocks, invoking onReload after each debounced batch of catalog
// file changes, until the context is cancelled or Stop is called.
// Reload failures are logged and watching continues: a half-edited
// catalog must never take down the running rule set.
func (w *Watcher) Watch(ctx context.Context, onReload func() error) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	if err := w.watcher.Add(w.config.Dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", w.config.Dir, err)
	}

	w.logger.Info("catalog watcher started",
		"dir", w.config.Dir,
		"debounce_ms", w.config.DebounceInterval.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-w.stopCh:
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.shouldProcess(event) {
				continue
			}

			w.logger.Debug("catalog file event",
				"path", event.Name,
				"op", event.Op.String(),
			)
			w.trigger(func() {
				w.logger.Info("reloading catalogs", "path", event.Name)
				if err := onReload(); err != nil {
					w.logger.Error("catalog reload failed", "error", err)
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("catalog watcher error", "error", err)
		}
	}
}

// Stop stops the watcher and cancels any pending debounced reload.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	return w.watcher.Close()
}

// trigger schedules cb after the debounce interval, resetting the timer
// on every call so rapid event bursts collapse into one reload.
func (w *Watcher) trigger(cb func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.config.DebounceInterval, cb)
}

// shouldProcess filters events down to catalog file content changes.
func (w *Watcher) shouldProcess(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	for _, allowed := range w.config.Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

package rules

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestNewWatcherValidation(t *testing.T) {
	if _, err := NewWatcher(nil, nil); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := NewWatcher(&WatcherConfig{}, nil); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestWatcherTriggersReloadOnCatalogChange(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWatcher(DefaultWatcherConfig(dir), nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan struct{}, 1)
	go func() {
		_ = w.Watch(ctx, func() error {
			select {
			case reloaded <- struct{}{}:
			default:
			}
			return nil
		})
	}()
	defer w.Stop()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(path, []byte("regulation: eu_ai_act\n"), 0o644); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}

	select {
	case <-reloaded:
	case <-time.After(3 * time.Second):
		t.Fatal("reload not triggered by catalog change")
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	w, err := NewWatcher(DefaultWatcherConfig(t.TempDir()), nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"yaml write", fsnotify.Event{Name: "catalog.yaml", Op: fsnotify.Write}, true},
		{"yml create", fsnotify.Event{Name: "extra.yml", Op: fsnotify.Create}, true},
		{"other extension", fsnotify.Event{Name: "notes.txt", Op: fsnotify.Write}, false},
		{"hidden file", fsnotify.Event{Name: ".catalog.yaml.swp", Op: fsnotify.Write}, false},
		{"chmod only", fsnotify.Event{Name: "catalog.yaml", Op: fsnotify.Chmod}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.shouldProcess(tt.event); got != tt.want {
				t.Errorf("shouldProcess(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

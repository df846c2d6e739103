package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ohare93/pacer/internal/project"
	"github.com/ohare93/pacer/internal/store"
)

func TestNewWatcher(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer w.Close()

	if w.Events == nil {
		t.Error("Events channel should not be nil")
	}
	if w.Errors == nil {
		t.Error("Errors channel should not be nil")
	}
}

func TestWatchDir_Missing(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer w.Close()

	if err := w.WatchDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Expected error for missing data directory")
	}
}

func TestClassifyEvent(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer w.Close()

	tests := []struct {
		path string
		want EventType
	}{
		{"/data/projects.json", ProjectsChanged},
		{"/data/tags.json", TagsChanged},
		{"/data/focus.json", FocusChanged},
	}
	for _, tt := range tests {
		event := w.classifyEvent(tt.path)
		if event == nil {
			t.Fatalf("classifyEvent(%q) = nil", tt.path)
		}
		if event.Type != tt.want {
			t.Errorf("classifyEvent(%q) = %v, want %v", tt.path, event.Type, tt.want)
		}
	}

	for _, path := range []string{"/data/projects.json.tmp", "/data/notes.txt", "/data/pacer.db"} {
		if event := w.classifyEvent(path); event != nil {
			t.Errorf("classifyEvent(%q) = %v, want nil", path, event.Type)
		}
	}
}

func TestWatchDatabaseClassifies(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer w.Close()

	dbPath := filepath.Join(t.TempDir(), "pacer.db")
	if err := w.WatchDatabase(dbPath); err != nil {
		t.Fatalf("WatchDatabase: %v", err)
	}
	for _, name := range []string{"pacer.db", "pacer.db-journal", "pacer.db-wal"} {
		event := w.classifyEvent(filepath.Join(filepath.Dir(dbPath), name))
		if event == nil || event.Type != DatabaseChanged {
			t.Errorf("expected DatabaseChanged for %s", name)
		}
	}
}

func TestWatcherSeesStoreSave(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewJSONStore(dir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	w, err := New()
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer w.Close()

	if err := w.WatchDir(dir); err != nil {
		t.Fatalf("Failed to watch data dir: %v", err)
	}
	w.Start()

	// Give the watcher time to start
	time.Sleep(50 * time.Millisecond)

	if err := s.SaveProjects(context.Background(), project.NewCollection()); err != nil {
		t.Fatalf("SaveProjects: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-w.Events:
			if event.Type == ProjectsChanged {
				return
			}
		case <-deadline:
			t.Fatal("Timed out waiting for projects event")
		}
	}
}

func TestWatcherTagsFileWrite(t *testing.T) {
	dir := t.TempDir()
	tagsPath := filepath.Join(dir, "tags.json")
	if err := os.WriteFile(tagsPath, []byte("[]"), 0644); err != nil {
		t.Fatalf("Failed to create tags.json: %v", err)
	}

	w, err := New()
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer w.Close()

	if err := w.WatchDir(dir); err != nil {
		t.Fatalf("Failed to watch data dir: %v", err)
	}
	w.Start()
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(tagsPath, []byte(`["Work"]`), 0644); err != nil {
		t.Fatalf("Failed to write tags.json: %v", err)
	}

	select {
	case event := <-w.Events:
		if event.Type != TagsChanged {
			t.Errorf("Expected TagsChanged event, got %v", event.Type)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timed out waiting for event")
	}
}

func TestWatcherStop(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}

	w.Start()

	if err := w.Stop(); err != nil {
		t.Errorf("Failed to stop watcher: %v", err)
	}

	// Stop should be idempotent
	if err := w.Stop(); err != nil {
		t.Errorf("Second stop should not error: %v", err)
	}
}

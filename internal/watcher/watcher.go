// Package watcher reports changes to pacer's data files.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// EventType represents which document changed
type EventType int

const (
	ProjectsChanged EventType = iota
	TagsChanged
	FocusChanged
	DatabaseChanged
)

func (t EventType) String() string {
	switch t {
	case ProjectsChanged:
		return "projects"
	case TagsChanged:
		return "tags"
	case FocusChanged:
		return "focus"
	case DatabaseChanged:
		return "database"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Event represents a file change event
type Event struct {
	Type EventType
	Path string
}

// Watcher watches a data directory for document changes
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan Event
	Errors  chan error
	done    chan struct{}
	files   map[string]EventType
	mu      sync.Mutex
	running bool
	closed  bool
}

// New creates a new file watcher
func New() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher: fsWatcher,
		Events:  make(chan Event, 100),
		Errors:  make(chan error, 10),
		done:    make(chan struct{}),
		files: map[string]EventType{
			"projects.json": ProjectsChanged,
			"tags.json":     TagsChanged,
			"focus.json":    FocusChanged,
		},
	}, nil
}

// WatchDir watches a JSON store's data directory
func (w *Watcher) WatchDir(dataDir string) error {
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		return fmt.Errorf("data directory does not exist: %s", dataDir)
	}
	if err := w.watcher.Add(dataDir); err != nil {
		return fmt.Errorf("failed to watch data directory: %w", err)
	}
	return nil
}

// WatchDatabase watches a SQLite database file. The directory is watched so
// the journal and WAL files written next to it are seen too.
func (w *Watcher) WatchDatabase(dbPath string) error {
	base := filepath.Base(dbPath)
	w.mu.Lock()
	for _, suffix := range []string{"", "-journal", "-wal"} {
		w.files[base+suffix] = DatabaseChanged
	}
	w.mu.Unlock()
	return w.WatchDir(filepath.Dir(dbPath))
}

// Start begins watching for file changes
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.running || w.closed {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	go w.eventLoop()
}

// eventLoop processes file system events
func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Atomic saves show up as Create on the target name
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			e := w.classifyEvent(event.Name)
			if e != nil {
				select {
				case w.Events <- *e:
				default:
					// Channel full, skip event
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		}
	}
}

// classifyEvent maps a changed path to a document, ignoring temp files
func (w *Watcher) classifyEvent(path string) *Event {
	w.mu.Lock()
	defer w.mu.Unlock()

	t, ok := w.files[filepath.Base(path)]
	if !ok {
		return nil
	}
	return &Event{Type: t, Path: path}
}

// Stop stops the watcher and releases the underlying watches
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if w.running {
		close(w.done)
		w.running = false
	}
	return w.watcher.Close()
}

// Close is an alias for Stop
func (w *Watcher) Close() error {
	return w.Stop()
}

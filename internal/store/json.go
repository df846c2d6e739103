package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ohare93/pacer/internal/project"
	"github.com/ohare93/pacer/internal/telemetry"
)

const (
	projectsFile = "projects.json"
	tagsFile     = "tags.json"
	focusFile    = "focus.json"
)

// JSONStoreConfig holds configurable options for JSONStore
type JSONStoreConfig struct {
	Dir     string // Data directory (default: ~/.pacer)
	Logger  *zap.Logger
	Metrics *telemetry.Metrics
}

// JSONStore keeps each document in its own JSON file under Dir
type JSONStore struct {
	dir     string
	logger  *zap.Logger
	metrics *telemetry.Metrics

	mu sync.Mutex
	// blocked holds documents that could not be read or moved aside;
	// saving over them would lose data.
	blocked map[string]error
	rename  func(oldpath, newpath string) error
}

// NewJSONStore creates a store rooted at dir
func NewJSONStore(dir string) (*JSONStore, error) {
	return NewJSONStoreWithConfig(JSONStoreConfig{Dir: dir})
}

// NewJSONStoreWithConfig creates a store with custom configuration
func NewJSONStoreWithConfig(cfg JSONStoreConfig) (*JSONStore, error) {
	dir := cfg.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".pacer")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JSONStore{dir: dir, logger: logger, metrics: cfg.Metrics, blocked: map[string]error{}, rename: os.Rename}, nil
}

// Dir returns the data directory
func (s *JSONStore) Dir() string {
	return s.dir
}

// Paths returns the files this store reads and writes
func (s *JSONStore) Paths() []string {
	return []string{
		filepath.Join(s.dir, projectsFile),
		filepath.Join(s.dir, tagsFile),
		filepath.Join(s.dir, focusFile),
	}
}

// LoadProjects reads projects.json. Both the current {"projects","deleted"}
// document and the legacy bare array are accepted.
func (s *JSONStore) LoadProjects(ctx context.Context) (*project.Collection, error) {
	defer s.metrics.ObserveStore("load_projects", time.Now())

	data, ok := s.read(DocProjects, projectsFile)
	if !ok {
		return project.NewCollection(), nil
	}
	c, err := decodeProjects(data)
	if err != nil {
		s.fallback(DocProjects, projectsFile, err)
		return project.NewCollection(), nil
	}
	s.unblock(DocProjects)
	return c, nil
}

// SaveProjects rewrites projects.json
func (s *JSONStore) SaveProjects(ctx context.Context, c *project.Collection) error {
	defer s.metrics.ObserveStore("save_projects", time.Now())
	return s.write(DocProjects, projectsFile, normalize(c))
}

// LoadTags reads tags.json, seeding the default list when absent
func (s *JSONStore) LoadTags(ctx context.Context) ([]string, error) {
	defer s.metrics.ObserveStore("load_tags", time.Now())

	data, ok := s.read(DocTags, tagsFile)
	if !ok {
		return defaultTags(), nil
	}
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		s.fallback(DocTags, tagsFile, err)
		return defaultTags(), nil
	}
	s.unblock(DocTags)
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

// SaveTags rewrites tags.json
func (s *JSONStore) SaveTags(ctx context.Context, tags []string) error {
	defer s.metrics.ObserveStore("save_tags", time.Now())
	if tags == nil {
		tags = []string{}
	}
	return s.write(DocTags, tagsFile, tags)
}

// LoadFocus reads focus.json
func (s *JSONStore) LoadFocus(ctx context.Context) ([]project.FocusSession, error) {
	defer s.metrics.ObserveStore("load_focus", time.Now())

	data, ok := s.read(DocFocus, focusFile)
	if !ok {
		return []project.FocusSession{}, nil
	}
	sessions, err := decodeFocus(data)
	if err != nil {
		s.fallback(DocFocus, focusFile, err)
		return []project.FocusSession{}, nil
	}
	s.unblock(DocFocus)
	return sessions, nil
}

// SaveFocus rewrites focus.json
func (s *JSONStore) SaveFocus(ctx context.Context, sessions []project.FocusSession) error {
	defer s.metrics.ObserveStore("save_focus", time.Now())
	if sessions == nil {
		sessions = []project.FocusSession{}
	}
	return s.write(DocFocus, focusFile, sessions)
}

// Close is a no-op; every write is already on disk.
func (s *JSONStore) Close() error {
	return nil
}

// read returns the file contents, or false when the file is missing or unreadable.
func (s *JSONStore) read(doc, name string) ([]byte, bool) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		s.unblock(doc)
		return nil, false
	}
	if err != nil {
		s.fallback(doc, name, err)
		return nil, false
	}
	return data, true
}

// fallback reports an unreadable document and moves the file aside as
// <name>.corrupt-<timestamp> so the next save cannot overwrite it. When the
// move fails, saves of doc are refused instead.
func (s *JSONStore) fallback(doc, name string, err error) {
	path := filepath.Join(s.dir, name)
	aside := fmt.Sprintf("%s.corrupt-%s", path, time.Now().Format("20060102T150405.000000000"))
	if rerr := s.rename(path, aside); rerr != nil {
		s.mu.Lock()
		s.blocked[doc] = err
		s.mu.Unlock()
		aside = ""
		s.logger.Error("failed to move unreadable document aside, saves are disabled",
			zap.String("document", doc),
			zap.String("path", path),
			zap.Error(rerr))
	}
	s.logger.Warn("unreadable document, starting from empty",
		zap.String("document", doc),
		zap.String("dir", s.dir),
		zap.String("moved_to", aside),
		zap.Error(err))
	s.metrics.StoreRecovered(doc)
}

func (s *JSONStore) unblock(doc string) {
	s.mu.Lock()
	delete(s.blocked, doc)
	s.mu.Unlock()
}

// write marshals v to a temp file and renames it over the target
func (s *JSONStore) write(doc, name string, v any) error {
	s.mu.Lock()
	blocked := s.blocked[doc]
	s.mu.Unlock()
	if blocked != nil {
		return fmt.Errorf("refusing to overwrite unreadable %s document: %w", doc, blocked)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

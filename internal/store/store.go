// Package store persists projects, the tag list and focus sessions.
package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ohare93/pacer/internal/config"
	"github.com/ohare93/pacer/internal/project"
	"github.com/ohare93/pacer/internal/telemetry"
)

// Document names, used for file names, log fields and metric labels.
const (
	DocProjects = "projects"
	DocTags     = "tags"
	DocFocus    = "focus"
)

// Store is the persistence contract shared by the JSON and SQLite backends.
// Loads never fail on unreadable data: the document is replaced by its empty
// default and the problem is logged.
type Store interface {
	LoadProjects(ctx context.Context) (*project.Collection, error)
	SaveProjects(ctx context.Context, c *project.Collection) error
	LoadTags(ctx context.Context) ([]string, error)
	SaveTags(ctx context.Context, tags []string) error
	LoadFocus(ctx context.Context) ([]project.FocusSession, error)
	SaveFocus(ctx context.Context, sessions []project.FocusSession) error
	Close() error
}

// Open returns the backend selected by cfg.Storage.Backend.
func Open(cfg *config.Config, logger *zap.Logger, m *telemetry.Metrics) (Store, error) {
	switch cfg.Storage.Backend {
	case "", "json":
		return NewJSONStoreWithConfig(JSONStoreConfig{Dir: cfg.DataDir, Logger: logger, Metrics: m})
	case "sqlite":
		return NewSQLiteStore(cfg.Storage.SQLiteFile, logger, m)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func defaultTags() []string {
	return append([]string(nil), project.DefaultTags...)
}

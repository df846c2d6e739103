package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ohare93/pacer/internal/project"
	"github.com/ohare93/pacer/internal/telemetry"
)

// SQLiteStore keeps documents in a single SQLite database. Projects are
// stored as JSON bodies keyed by id so the schema does not track every field.
type SQLiteStore struct {
	db      *sql.DB
	path    string
	logger  *zap.Logger
	metrics *telemetry.Metrics

	mu      sync.Mutex
	blocked map[string]error // documents whose last load failed
}

// NewSQLiteStore opens (creating if needed) the database at path.
// ":memory:" gives a throwaway database.
func NewSQLiteStore(path string, logger *zap.Logger, m *telemetry.Metrics) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps :memory: databases shared and writes serialized.
	db.SetMaxOpenConns(1)

	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SQLiteStore{db: db, path: path, logger: logger, metrics: m, blocked: map[string]error{}}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		deleted INTEGER NOT NULL DEFAULT 0,
		pos INTEGER NOT NULL,
		body TEXT NOT NULL              -- project as JSON
	);

	CREATE TABLE IF NOT EXISTS tags (
		pos INTEGER PRIMARY KEY,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS focus_sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL,
		project_id TEXT NOT NULL DEFAULT ''
	);

	-- Project rows that could not be decoded, kept out of the rewrite
	CREATE TABLE IF NOT EXISTS quarantined_projects (
		id TEXT NOT NULL,
		deleted INTEGER NOT NULL,
		body TEXT NOT NULL,
		reason TEXT NOT NULL,
		moved_at TEXT NOT NULL
	);

	-- Records which documents have been written at least once
	CREATE TABLE IF NOT EXISTS documents (
		name TEXT PRIMARY KEY,
		saved_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Path returns the database file
func (s *SQLiteStore) Path() string {
	return s.path
}

// LoadProjects reads both partitions. Rows whose body cannot be decoded are
// moved to quarantined_projects so a later save does not drop them. A failed
// query yields an empty collection and disables project saves until a load
// succeeds.
func (s *SQLiteStore) LoadProjects(ctx context.Context) (*project.Collection, error) {
	defer s.metrics.ObserveStore("load_projects", time.Now())

	c, bad, err := s.queryProjects(ctx)
	if err != nil {
		s.fail(DocProjects, err)
		return project.NewCollection(), nil
	}
	for _, row := range bad {
		s.skip(DocProjects, row.id, row.err)
		if err := s.quarantine(ctx, row); err != nil {
			s.fail(DocProjects, err)
			return normalize(c), nil
		}
	}
	s.unblock(DocProjects)
	return normalize(c), nil
}

type badRow struct {
	id      string
	deleted int
	body    string
	err     error
}

func (s *SQLiteStore) queryProjects(ctx context.Context) (*project.Collection, []badRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, deleted, body FROM projects ORDER BY pos`)
	if err != nil {
		return nil, nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	c := project.NewCollection()
	var bad []badRow
	for rows.Next() {
		var row badRow
		if err := rows.Scan(&row.id, &row.deleted, &row.body); err != nil {
			return nil, nil, fmt.Errorf("scan project: %w", err)
		}
		p, err := decodeProject([]byte(row.body))
		if err != nil {
			row.err = err
			bad = append(bad, row)
			continue
		}
		if p.ID == "" {
			p.ID = row.id
		}
		if row.deleted != 0 {
			c.Deleted = append(c.Deleted, p)
		} else {
			c.Projects = append(c.Projects, p)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate projects: %w", err)
	}
	return c, bad, nil
}

// quarantine moves an undecodable project row out of the projects table
func (s *SQLiteStore) quarantine(ctx context.Context, row badRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin quarantine: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO quarantined_projects (id, deleted, body, reason, moved_at) VALUES (?, ?, ?, ?, ?)`,
		row.id, row.deleted, row.body, row.err.Error(), time.Now().UTC().Format(time.RFC3339))
	if err == nil {
		_, err = tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, row.id)
	}
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("quarantine project %s: %w", row.id, err)
	}
	return tx.Commit()
}

// SaveProjects replaces every stored project in one transaction
func (s *SQLiteStore) SaveProjects(ctx context.Context, c *project.Collection) error {
	defer s.metrics.ObserveStore("save_projects", time.Now())
	c = normalize(c)

	return s.inTx(ctx, DocProjects, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM projects`); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO projects (id, deleted, pos, body) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		pos := 0
		insert := func(list []*project.Project, deleted int) error {
			for _, p := range list {
				body, err := json.Marshal(p)
				if err != nil {
					return fmt.Errorf("marshal project %s: %w", p.ID, err)
				}
				if _, err := stmt.ExecContext(ctx, p.ID, deleted, pos, string(body)); err != nil {
					return fmt.Errorf("insert project %s: %w", p.ID, err)
				}
				pos++
			}
			return nil
		}
		if err := insert(c.Projects, 0); err != nil {
			return err
		}
		return insert(c.Deleted, 1)
	})
}

// LoadTags returns the saved tag list, or the defaults if it was never saved
// or cannot be read
func (s *SQLiteStore) LoadTags(ctx context.Context) ([]string, error) {
	defer s.metrics.ObserveStore("load_tags", time.Now())

	tags, err := s.queryTags(ctx)
	if err != nil {
		s.fail(DocTags, err)
		return defaultTags(), nil
	}
	s.unblock(DocTags)
	return tags, nil
}

func (s *SQLiteStore) queryTags(ctx context.Context) ([]string, error) {
	saved, err := s.saved(ctx, DocTags)
	if err != nil {
		return nil, err
	}
	if !saved {
		return defaultTags(), nil
	}

	rows, err := s.db.QueryContext(ctx, `SELECT name FROM tags ORDER BY pos`)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

// SaveTags replaces the tag list
func (s *SQLiteStore) SaveTags(ctx context.Context, tags []string) error {
	defer s.metrics.ObserveStore("save_tags", time.Now())

	return s.inTx(ctx, DocTags, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tags`); err != nil {
			return err
		}
		for i, name := range tags {
			if _, err := tx.ExecContext(ctx, `INSERT INTO tags (pos, name) VALUES (?, ?)`, i, name); err != nil {
				return fmt.Errorf("insert tag %q: %w", name, err)
			}
		}
		return nil
	})
}

// LoadFocus returns focus sessions in insertion order. Rows with an
// unparseable date are skipped; a failed query yields an empty log.
func (s *SQLiteStore) LoadFocus(ctx context.Context) ([]project.FocusSession, error) {
	defer s.metrics.ObserveStore("load_focus", time.Now())

	sessions, err := s.queryFocus(ctx)
	if err != nil {
		s.fail(DocFocus, err)
		return []project.FocusSession{}, nil
	}
	s.unblock(DocFocus)
	return sessions, nil
}

func (s *SQLiteStore) queryFocus(ctx context.Context) ([]project.FocusSession, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date, duration_minutes, project_id FROM focus_sessions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query focus sessions: %w", err)
	}
	defer rows.Close()

	sessions := []project.FocusSession{}
	for rows.Next() {
		var (
			date string
			fs   project.FocusSession
		)
		if err := rows.Scan(&date, &fs.DurationMinutes, &fs.ProjectID); err != nil {
			return nil, fmt.Errorf("scan focus session: %w", err)
		}
		fs.Date, err = parseTime(date)
		if err != nil {
			s.skip(DocFocus, date, err)
			continue
		}
		sessions = append(sessions, fs)
	}
	return sessions, rows.Err()
}

// SaveFocus replaces the focus log
func (s *SQLiteStore) SaveFocus(ctx context.Context, sessions []project.FocusSession) error {
	defer s.metrics.ObserveStore("save_focus", time.Now())

	return s.inTx(ctx, DocFocus, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM focus_sessions`); err != nil {
			return err
		}
		for _, fs := range sessions {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO focus_sessions (date, duration_minutes, project_id) VALUES (?, ?, ?)`,
				fs.Date.Format(time.RFC3339Nano), fs.DurationMinutes, fs.ProjectID)
			if err != nil {
				return fmt.Errorf("insert focus session: %w", err)
			}
		}
		return nil
	})
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// inTx runs fn in a transaction and marks doc as saved on success
func (s *SQLiteStore) inTx(ctx context.Context, doc string, fn func(tx *sql.Tx) error) error {
	s.mu.Lock()
	blocked := s.blocked[doc]
	s.mu.Unlock()
	if blocked != nil {
		return fmt.Errorf("refusing to overwrite unreadable %s document: %w", doc, blocked)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s transaction: %w", doc, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("save %s: %w", doc, err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (name, saved_at) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET saved_at = excluded.saved_at`,
		doc, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("mark %s saved: %w", doc, err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) saved(ctx context.Context, doc string) (bool, error) {
	var name string
	err := s.db.QueryRowContext(ctx, `SELECT name FROM documents WHERE name = ?`, doc).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query documents: %w", err)
	}
	return true, nil
}

func (s *SQLiteStore) skip(doc, key string, err error) {
	s.logger.Warn("skipping unreadable row",
		zap.String("document", doc),
		zap.String("key", key),
		zap.Error(err))
	s.metrics.StoreRecovered(doc)
}

// fail reports a document that could not be loaded and blocks saves of it
func (s *SQLiteStore) fail(doc string, err error) {
	s.mu.Lock()
	s.blocked[doc] = err
	s.mu.Unlock()
	s.logger.Warn("unreadable document, starting from empty",
		zap.String("document", doc),
		zap.String("path", s.path),
		zap.Error(err))
	s.metrics.StoreRecovered(doc)
}

func (s *SQLiteStore) unblock(doc string) {
	s.mu.Lock()
	delete(s.blocked, doc)
	s.mu.Unlock()
}

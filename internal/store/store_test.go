package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ohare93/pacer/internal/config"
	"github.com/ohare93/pacer/internal/project"
	"github.com/ohare93/pacer/internal/telemetry"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func sampleCollection(t *testing.T) *project.Collection {
	t.Helper()
	c := project.NewCollection()
	now := time.Date(2026, 10, 19, 9, 30, 0, 0, time.Local)

	trip := project.New("Trip to Kyoto", day(2026, 11, 1), day(2026, 11, 9),
		[]project.Task{project.NewTask("Book flight"), project.NewTask("Pack")}, []string{"Personal"}, now)
	trip.Reward = "ramen"
	_, err := trip.ToggleTask(trip.Tasks[0].ID, now)
	require.NoError(t, err)

	old := project.New("Old thing", day(2026, 9, 1), day(2026, 9, 2), nil, nil, now)

	require.NoError(t, c.Add(trip))
	require.NoError(t, c.Add(old))
	_, err = c.SoftDelete(old.ID, now)
	require.NoError(t, err)
	return c
}

func backends(t *testing.T) map[string]Store {
	t.Helper()
	js, err := NewJSONStore(t.TempDir())
	require.NoError(t, err)
	sq, err := NewSQLiteStore(filepath.Join(t.TempDir(), "pacer.db"), nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })
	return map[string]Store{"json": js, "sqlite": sq}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			want := sampleCollection(t)
			require.NoError(t, s.SaveProjects(ctx, want))

			got, err := s.LoadProjects(ctx)
			require.NoError(t, err)
			require.Len(t, got.Projects, 1)
			require.Len(t, got.Deleted, 1)

			p := got.Projects[0]
			assert.Equal(t, want.Projects[0].ID, p.ID)
			assert.Equal(t, "Trip to Kyoto", p.Goal)
			assert.True(t, p.StartDate.Equal(day(2026, 11, 1)))
			assert.True(t, p.EndDate.Equal(day(2026, 11, 9)))
			assert.Equal(t, []string{"Personal"}, p.Tags)
			assert.Equal(t, "ramen", p.Reward)
			require.Len(t, p.Tasks, 2)
			assert.True(t, p.Tasks[0].Completed)
			assert.False(t, p.Tasks[1].Completed)
			assert.Nil(t, p.CompletedAt)

			d := got.Deleted[0]
			require.NotNil(t, d.DeletedAt)
			assert.Equal(t, "Old thing", d.Goal)
			assert.NotNil(t, d.Tasks)
		})
	}
}

func TestStoreTagsDefaultAndRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			tags, err := s.LoadTags(ctx)
			require.NoError(t, err)
			assert.Equal(t, project.DefaultTags, tags)

			require.NoError(t, s.SaveTags(ctx, []string{"Trips", "Work"}))
			tags, err = s.LoadTags(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"Trips", "Work"}, tags)

			require.NoError(t, s.SaveTags(ctx, nil))
			tags, err = s.LoadTags(ctx)
			require.NoError(t, err)
			assert.Empty(t, tags, "an emptied list stays empty")
		})
	}
}

func TestStoreFocusRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			sessions, err := s.LoadFocus(ctx)
			require.NoError(t, err)
			assert.Empty(t, sessions)

			at := time.Date(2026, 10, 19, 14, 0, 0, 0, time.Local)
			require.NoError(t, s.SaveFocus(ctx, []project.FocusSession{
				{Date: at, DurationMinutes: 25, ProjectID: "p1"},
				{Date: at.Add(time.Hour), DurationMinutes: 50},
			}))

			sessions, err = s.LoadFocus(ctx)
			require.NoError(t, err)
			require.Len(t, sessions, 2)
			assert.True(t, sessions[0].Date.Equal(at))
			assert.Equal(t, 25, sessions[0].DurationMinutes)
			assert.Equal(t, "p1", sessions[0].ProjectID)
			assert.Equal(t, "", sessions[1].ProjectID)
		})
	}
}

func TestStoreMissingDocumentsLoadEmpty(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c, err := s.LoadProjects(ctx)
			require.NoError(t, err)
			assert.NotNil(t, c.Projects)
			assert.NotNil(t, c.Deleted)
			assert.Empty(t, c.Projects)
		})
	}
}

func TestJSONStoreLegacyArray(t *testing.T) {
	dir := t.TempDir()
	legacy := `[{"id":"p1","goal":"Legacy goal","tasks":[{"id":"t1","task":"Step","completed":true}],
		"start_date":"2026-01-02T00:00:00Z","end_date":"2026-01-05T00:00:00Z","created_at":"2026-01-01T00:00:00Z"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, projectsFile), []byte(legacy), 0644))

	s, err := NewJSONStore(dir)
	require.NoError(t, err)
	c, err := s.LoadProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, c.Projects, 1)
	assert.Empty(t, c.Deleted)
	assert.Equal(t, "Legacy goal", c.Projects[0].Goal)
	assert.NotNil(t, c.Projects[0].Tags)
}

func TestJSONStoreMalformedRecovers(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, projectsFile), []byte("{not json"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, tagsFile), []byte(`{"a":1}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, focusFile), []byte("42"), 0644))

	core, logs := observer.New(zap.WarnLevel)
	m := telemetry.New()
	s, err := NewJSONStoreWithConfig(JSONStoreConfig{Dir: dir, Logger: zap.New(core), Metrics: m})
	require.NoError(t, err)
	ctx := context.Background()

	c, err := s.LoadProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, c.Projects)

	tags, err := s.LoadTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, project.DefaultTags, tags)

	focus, err := s.LoadFocus(ctx)
	require.NoError(t, err)
	assert.Empty(t, focus)

	assert.Equal(t, 3, logs.FilterMessage("unreadable document, starting from empty").Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreRecoveries.WithLabelValues(DocProjects)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreRecoveries.WithLabelValues(DocTags)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreRecoveries.WithLabelValues(DocFocus)))
}

func TestJSONStoreWritesAtomically(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.SaveProjects(context.Background(), sampleCollection(t)))

	_, err = os.Stat(filepath.Join(dir, projectsFile+".tmp"))
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")

	data, err := os.ReadFile(filepath.Join(dir, projectsFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"deleted"`)
	assert.Len(t, s.Paths(), 3)
}

func TestSQLiteStoreSkipsBadRows(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s, err := NewSQLiteStore(":memory:", zap.New(core), nil)
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.SaveProjects(ctx, sampleCollection(t)))
	_, err = s.db.ExecContext(ctx, `INSERT INTO projects (id, deleted, pos, body) VALUES ('bad', 0, 99, '{oops')`)
	require.NoError(t, err)

	c, err := s.LoadProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, c.Projects, 1)
	assert.Equal(t, 1, logs.FilterMessage("skipping unreadable row").Len())

	// The next rewrite must not drop the row it could not read.
	require.NoError(t, s.SaveProjects(ctx, c))
	var body string
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT body FROM quarantined_projects WHERE id = 'bad'`).Scan(&body))
	assert.Equal(t, "{oops", body)

	c, err = s.LoadProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, c.Projects, 1)
	assert.Equal(t, 1, logs.FilterMessage("skipping unreadable row").Len(), "quarantined rows are not reread")
}

func TestSQLiteStoreReadsNaiveTimestamps(t *testing.T) {
	s, err := NewSQLiteStore(":memory:", nil, nil)
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	_, err = s.db.ExecContext(ctx, `INSERT INTO projects (id, deleted, pos, body) VALUES ('p1', 0, 0, ?)`,
		`{"id":"p1","goal":"Legacy","tasks":[{"task":"a","completed":false},{"task":"b","completed":true}],
		"start_date":"2026-02-01T00:00:00","end_date":"2026-02-19T00:00:00","created_at":"2026-01-20T10:15:00.123456"}`)
	require.NoError(t, err)

	c, err := s.LoadProjects(ctx)
	require.NoError(t, err)
	require.Len(t, c.Projects, 1)
	p := c.Projects[0]
	assert.True(t, p.StartDate.Equal(day(2026, 2, 1)))
	assert.True(t, p.CreatedAt.Equal(time.Date(2026, 1, 20, 10, 15, 0, 123456000, time.Local)))
	require.Len(t, p.Tasks, 2)
	assert.NotEmpty(t, p.Tasks[0].ID)
	assert.NotEqual(t, p.Tasks[0].ID, p.Tasks[1].ID)
}

func TestSQLiteStoreRefusesSaveAfterFailedLoad(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	m := telemetry.New()
	s, err := NewSQLiteStore(":memory:", zap.New(core), m)
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.SaveTags(ctx, []string{"Trips"}))
	_, err = s.db.ExecContext(ctx, `DROP TABLE projects; DROP TABLE tags`)
	require.NoError(t, err)

	c, err := s.LoadProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, c.Projects)
	tags, err := s.LoadTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, project.DefaultTags, tags)
	assert.Equal(t, 2, logs.FilterMessage("unreadable document, starting from empty").Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreRecoveries.WithLabelValues(DocProjects)))

	err = s.SaveProjects(ctx, project.NewCollection())
	assert.ErrorContains(t, err, "refusing to overwrite")
	assert.ErrorContains(t, s.SaveTags(ctx, nil), "refusing to overwrite")

	require.NoError(t, s.initSchema())
	_, err = s.LoadProjects(ctx)
	require.NoError(t, err)
	assert.NoError(t, s.SaveProjects(ctx, sampleCollection(t)))
}

// legacyPythonFile is projects.json as the original tool wrote it:
// json.dump(indent=4) of a bare list with naive isoformat() timestamps
// and tasks without ids.
const legacyPythonFile = `[
    {
        "id": "3f0c9a52-7d1e-4b8a-9c55-1f2e3d4c5b6a",
        "goal": "2/1-2/19 \u65c5\u884c Kyoto",
        "start_date": "2026-02-01T00:00:00",
        "end_date": "2026-02-19T00:00:00",
        "tasks": [
            {
                "task": "Book flight",
                "completed": true
            },
            {
                "task": "Pack",
                "completed": false
            }
        ],
        "tags": [
            "Personal"
        ],
        "created_at": "2026-01-20T10:15:00.123456"
    },
    {
        "id": "8a1d2e3f-0000-4000-8000-000000000002",
        "goal": "Finish essay",
        "start_date": "2026-01-05T00:00:00",
        "end_date": "2026-01-09T00:00:00",
        "tasks": [
            {
                "task": "Draft",
                "completed": true
            }
        ],
        "created_at": "2026-01-04T21:00:00.5",
        "completed_at": "2026-01-08T18:42:07.906211",
        "reward": "cake"
    }
]`

func TestJSONStoreReadsLegacyPythonFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, projectsFile), []byte(legacyPythonFile), 0644))

	core, logs := observer.New(zap.WarnLevel)
	s, err := NewJSONStoreWithConfig(JSONStoreConfig{Dir: dir, Logger: zap.New(core)})
	require.NoError(t, err)
	ctx := context.Background()

	c, err := s.LoadProjects(ctx)
	require.NoError(t, err)
	assert.Zero(t, logs.Len(), "legacy file is readable")
	require.Len(t, c.Projects, 2)
	assert.Empty(t, c.Deleted)

	trip := c.Projects[0]
	assert.Equal(t, "2/1-2/19 旅行 Kyoto", trip.Goal)
	assert.True(t, trip.StartDate.Equal(day(2026, 2, 1)))
	assert.True(t, trip.EndDate.Equal(day(2026, 2, 19)))
	assert.True(t, trip.CreatedAt.Equal(time.Date(2026, 1, 20, 10, 15, 0, 123456000, time.Local)))
	assert.Nil(t, trip.CompletedAt)

	essay := c.Projects[1]
	require.NotNil(t, essay.CompletedAt)
	assert.True(t, essay.CompletedAt.Equal(time.Date(2026, 1, 8, 18, 42, 7, 906211000, time.Local)))
	assert.Equal(t, "cake", essay.Reward)
	assert.NotNil(t, essay.Tags)

	// Tasks without ids get distinct ids that survive a reload.
	require.Len(t, trip.Tasks, 2)
	assert.NotEmpty(t, trip.Tasks[0].ID)
	assert.NotEqual(t, trip.Tasks[0].ID, trip.Tasks[1].ID)
	again, err := s.LoadProjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, trip.Tasks[0].ID, again.Projects[0].Tasks[0].ID)
	assert.Equal(t, trip.Tasks[1].ID, again.Projects[0].Tasks[1].ID)

	// Saving keeps the legacy projects and pins their task ids.
	require.NoError(t, s.SaveProjects(ctx, c))
	saved, err := s.LoadProjects(ctx)
	require.NoError(t, err)
	require.Len(t, saved.Projects, 2)
	assert.Equal(t, trip.Goal, saved.Projects[0].Goal)
	assert.Equal(t, trip.Tasks[1].ID, saved.Projects[0].Tasks[1].ID)
}

func TestJSONStoreReadsLegacyFocusFile(t *testing.T) {
	dir := t.TempDir()
	legacy := `[
    {
        "date": "2026-03-02T14:05:09.250000",
        "duration_minutes": 25,
        "project_id": "p1"
    },
    {
        "date": "2026-03-03",
        "duration_minutes": 50
    }
]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, focusFile), []byte(legacy), 0644))
	s, err := NewJSONStore(dir)
	require.NoError(t, err)

	sessions, err := s.LoadFocus(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.True(t, sessions[0].Date.Equal(time.Date(2026, 3, 2, 14, 5, 9, 250000000, time.Local)))
	assert.True(t, sessions[1].Date.Equal(day(2026, 3, 3)))
}

func TestJSONStoreMovesUnreadableFileAside(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, projectsFile), []byte(`{"projects": [{"goal": 7}]}`), 0644))
	s, err := NewJSONStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	c, err := s.LoadProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, c.Projects)

	matches, err := filepath.Glob(filepath.Join(dir, projectsFile+".corrupt-*"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Equal(t, `{"projects": [{"goal": 7}]}`, string(data))

	require.NoError(t, c.Add(project.New("Fresh start", day(2026, 10, 19), day(2026, 10, 20), nil, nil, time.Now())))
	require.NoError(t, s.SaveProjects(ctx, c))
	data, err = os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"goal": 7`), "the unreadable copy is left alone")
}

func TestJSONStoreRefusesSaveWhenFileCannotMove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, projectsFile)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	core, logs := observer.New(zap.WarnLevel)
	s, err := NewJSONStoreWithConfig(JSONStoreConfig{Dir: dir, Logger: zap.New(core)})
	require.NoError(t, err)
	s.rename = func(string, string) error { return os.ErrPermission }
	ctx := context.Background()

	c, err := s.LoadProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, c.Projects)
	assert.Equal(t, 1, logs.FilterMessage("failed to move unreadable document aside, saves are disabled").Len())

	err = s.SaveProjects(ctx, c)
	assert.ErrorContains(t, err, "refusing to overwrite unreadable projects document")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(data))

	// Once the file is repaired, loading clears the block.
	require.NoError(t, os.WriteFile(path, []byte(`{"projects":[],"deleted":[]}`), 0644))
	_, err = s.LoadProjects(ctx)
	require.NoError(t, err)
	assert.NoError(t, s.SaveProjects(ctx, c))
}

func TestOpenSelectsBackend(t *testing.T) {
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Storage.SQLiteFile = filepath.Join(cfg.DataDir, "pacer.db")

	s, err := Open(cfg, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &JSONStore{}, s)

	cfg.Storage.Backend = "sqlite"
	s, err = Open(cfg, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	cfg.Storage.Backend = "bolt"
	_, err = Open(cfg, nil, nil)
	assert.Error(t, err)
}

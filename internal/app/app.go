// Package app is the application service shared by the CLI, the TUI and the
// HTTP API. Every operation loads the documents it needs, mutates them and
// saves them back while holding a single lock, so derived figures are always
// recomputed from the whole collection.
package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ohare93/pacer/internal/dates"
	"github.com/ohare93/pacer/internal/intake"
	"github.com/ohare93/pacer/internal/project"
	"github.com/ohare93/pacer/internal/store"
	"github.com/ohare93/pacer/internal/telemetry"
)

// ErrBlankGoal is returned when a project is added without goal text.
var ErrBlankGoal = project.Invalidf("goal is required")

// App coordinates persistence, intake and the derived metrics.
type App struct {
	mu      sync.Mutex
	store   store.Store
	intake  *intake.Intake
	now     func() time.Time
	logger  *zap.Logger
	metrics *telemetry.Metrics
}

// New creates an App. in may be nil for a template-only intake; logger and
// m may be nil.
func New(s store.Store, in *intake.Intake, logger *zap.Logger, m *telemetry.Metrics) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	if in == nil {
		in = intake.New(nil, nil, logger)
	}
	return &App{
		store:   s,
		intake:  in,
		now:     time.Now,
		logger:  logger,
		metrics: m,
	}
}

// WithClock replaces the clock used for "now" and "today", including the
// intake's.
func (a *App) WithClock(now func() time.Time) *App {
	a.now = now
	a.intake.WithClock(now)
	return a
}

// Today returns the current calendar day.
func (a *App) Today() time.Time {
	return dates.Day(a.now())
}

// Store exposes the underlying store.
func (a *App) Store() store.Store {
	return a.store
}

// update loads the collection, applies fn and saves it if fn succeeds.
func (a *App) update(ctx context.Context, fn func(c *project.Collection) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	c, err := a.store.LoadProjects(ctx)
	if err != nil {
		return fmt.Errorf("load projects: %w", err)
	}
	if err := fn(c); err != nil {
		return err
	}
	if err := a.store.SaveProjects(ctx, c); err != nil {
		return fmt.Errorf("save projects: %w", err)
	}
	return nil
}

// view loads the collection read-only.
func (a *App) view(ctx context.Context) (*project.Collection, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	c, err := a.store.LoadProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	return c, nil
}

// AddProject runs intake on req and appends the result.
func (a *App) AddProject(ctx context.Context, req intake.Request) (intake.Result, error) {
	if strings.TrimSpace(req.Goal) == "" {
		return intake.Result{}, ErrBlankGoal
	}

	known, err := a.Tags(ctx)
	if err != nil {
		return intake.Result{}, err
	}

	// The checklist may wait on a model, so intake runs outside the lock on
	// a per-call copy.
	in := *a.intake
	in.KnownTags = func() []string { return known }
	res, ok := in.CreateDetailed(ctx, req)
	if !ok {
		return intake.Result{}, ErrBlankGoal
	}

	if err := a.update(ctx, func(c *project.Collection) error {
		return c.Add(res.Project)
	}); err != nil {
		return intake.Result{}, err
	}

	a.metrics.ProjectCreated(string(res.Source))
	a.logger.Info("project added",
		zap.String("id", res.Project.ID),
		zap.String("checklist_source", string(res.Source)),
		zap.Int("tasks", len(res.Project.Tasks)))
	return res, nil
}

// ListProjects returns active projects matching query (all when blank).
func (a *App) ListProjects(ctx context.Context, query string) ([]*project.Project, error) {
	c, err := a.view(ctx)
	if err != nil {
		return nil, err
	}
	return c.Filter(query), nil
}

// GetProject resolves an active project by id or unique id prefix.
func (a *App) GetProject(ctx context.Context, ref string) (*project.Project, error) {
	c, err := a.view(ctx)
	if err != nil {
		return nil, err
	}
	return c.Resolve(ref)
}

// editProject resolves ref and applies fn to the project.
func (a *App) editProject(ctx context.Context, ref string, fn func(p *project.Project) error) (*project.Project, error) {
	var out *project.Project
	err := a.update(ctx, func(c *project.Collection) error {
		p, err := c.Resolve(ref)
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		out = p
		return nil
	})
	return out, err
}

// ToggleTask flips one task of a project.
func (a *App) ToggleTask(ctx context.Context, ref, taskID string) (*project.Project, project.Task, error) {
	var task project.Task
	p, err := a.editProject(ctx, ref, func(p *project.Project) error {
		t, err := p.ToggleTask(taskID, a.now())
		task = t
		return err
	})
	return p, task, err
}

// AddTask appends a task to a project.
func (a *App) AddTask(ctx context.Context, ref, text string) (*project.Project, project.Task, error) {
	var task project.Task
	p, err := a.editProject(ctx, ref, func(p *project.Project) error {
		t, err := p.AddTask(text)
		task = t
		return err
	})
	return p, task, err
}

// RemoveTask deletes a task from a project.
func (a *App) RemoveTask(ctx context.Context, ref, taskID string) (*project.Project, error) {
	return a.editProject(ctx, ref, func(p *project.Project) error {
		return p.RemoveTask(taskID, a.now())
	})
}

// SetDates replaces a project's date range.
func (a *App) SetDates(ctx context.Context, ref string, start, end time.Time) (*project.Project, error) {
	return a.editProject(ctx, ref, func(p *project.Project) error {
		return p.SetDates(start, end)
	})
}

// SetGoal renames a project.
func (a *App) SetGoal(ctx context.Context, ref, goal string) (*project.Project, error) {
	return a.editProject(ctx, ref, func(p *project.Project) error {
		return p.SetGoal(goal)
	})
}

// SetReward sets or clears a project's reward.
func (a *App) SetReward(ctx context.Context, ref, reward string) (*project.Project, error) {
	return a.editProject(ctx, ref, func(p *project.Project) error {
		p.SetReward(reward)
		return nil
	})
}

// UpdateProject applies a partial edit in one save. An invalid field leaves
// the project untouched.
func (a *App) UpdateProject(ctx context.Context, ref string, e project.Edit) (*project.Project, error) {
	return a.editProject(ctx, ref, func(p *project.Project) error {
		return p.Apply(e)
	})
}

// DeleteProject moves a project to the bin.
func (a *App) DeleteProject(ctx context.Context, ref string) (*project.Project, error) {
	var out *project.Project
	err := a.update(ctx, func(c *project.Collection) error {
		p, err := c.Resolve(ref)
		if err != nil {
			return err
		}
		out, err = c.SoftDelete(p.ID, a.now())
		return err
	})
	return out, err
}

// RestoreProject moves a binned project back to the active list.
func (a *App) RestoreProject(ctx context.Context, ref string) (*project.Project, error) {
	var out *project.Project
	err := a.update(ctx, func(c *project.Collection) error {
		p, err := c.ResolveDeleted(ref)
		if err != nil {
			return err
		}
		out, err = c.Restore(p.ID)
		return err
	})
	return out, err
}

// PurgeProject permanently removes a binned project.
func (a *App) PurgeProject(ctx context.Context, ref string) error {
	return a.update(ctx, func(c *project.Collection) error {
		p, err := c.ResolveDeleted(ref)
		if err != nil {
			return err
		}
		return c.Purge(p.ID)
	})
}

// EmptyBin purges every binned project and returns how many were removed.
func (a *App) EmptyBin(ctx context.Context) (int, error) {
	n := 0
	err := a.update(ctx, func(c *project.Collection) error {
		n = c.EmptyBin()
		return nil
	})
	return n, err
}

// Deleted lists the bin.
func (a *App) Deleted(ctx context.Context) ([]*project.Project, error) {
	c, err := a.view(ctx)
	if err != nil {
		return nil, err
	}
	return c.Deleted, nil
}

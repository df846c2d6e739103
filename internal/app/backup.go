package app

import (
	"context"
	"fmt"

	"github.com/ohare93/pacer/internal/report"
)

// Backup snapshots every document.
func (a *App) Backup(ctx context.Context) (report.Backup, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	c, err := a.store.LoadProjects(ctx)
	if err != nil {
		return report.Backup{}, fmt.Errorf("load projects: %w", err)
	}
	tags, err := a.store.LoadTags(ctx)
	if err != nil {
		return report.Backup{}, fmt.Errorf("load tags: %w", err)
	}
	focus, err := a.store.LoadFocus(ctx)
	if err != nil {
		return report.Backup{}, fmt.Errorf("load focus sessions: %w", err)
	}
	return report.Backup{Projects: c.Projects, Deleted: c.Deleted, Tags: tags, Focus: focus}, nil
}

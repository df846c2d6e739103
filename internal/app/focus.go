package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ohare93/pacer/internal/project"
)

// LogFocus records a finished focus session. ref may be empty for a session
// not tied to a project.
func (a *App) LogFocus(ctx context.Context, minutes int, ref string) (project.FocusSession, error) {
	if minutes <= 0 {
		return project.FocusSession{}, project.Invalidf("focus duration must be positive, got %d", minutes)
	}

	fs := project.FocusSession{Date: a.now(), DurationMinutes: minutes}
	if ref != "" {
		p, err := a.GetProject(ctx, ref)
		if err != nil {
			return project.FocusSession{}, err
		}
		fs.ProjectID = p.ID
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	sessions, err := a.store.LoadFocus(ctx)
	if err != nil {
		return project.FocusSession{}, fmt.Errorf("load focus sessions: %w", err)
	}
	sessions = append(sessions, fs)
	if err := a.store.SaveFocus(ctx, sessions); err != nil {
		return project.FocusSession{}, fmt.Errorf("save focus sessions: %w", err)
	}

	a.logger.Debug("focus logged", zap.Int("minutes", minutes), zap.String("project", fs.ProjectID))
	return fs, nil
}

// FocusSessions returns the focus log, oldest first.
func (a *App) FocusSessions(ctx context.Context) ([]project.FocusSession, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	sessions, err := a.store.LoadFocus(ctx)
	if err != nil {
		return nil, fmt.Errorf("load focus sessions: %w", err)
	}
	return sessions, nil
}

// FocusMinutes totals the logged minutes, overall and per project id.
func FocusMinutes(sessions []project.FocusSession) (total int, byProject map[string]int) {
	byProject = map[string]int{}
	for _, s := range sessions {
		total += s.DurationMinutes
		if s.ProjectID != "" {
			byProject[s.ProjectID] += s.DurationMinutes
		}
	}
	return total, byProject
}

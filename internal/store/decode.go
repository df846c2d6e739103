package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ohare93/pacer/internal/dates"
	"github.com/ohare93/pacer/internal/project"
)

// timeLayouts are tried in order. Naive timestamps, as written by Python's
// isoformat(), are read in local time.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	dates.ISOLayout,
}

// flexTime decodes any of timeLayouts; null and "" leave it unset.
type flexTime struct {
	time.Time
	set bool
}

func (t *flexTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parsed, err := parseTime(s)
	if err != nil {
		return err
	}
	t.Time, t.set = parsed, true
	return nil
}

func (t flexTime) ptr() *time.Time {
	if !t.set {
		return nil
	}
	v := t.Time
	return &v
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if layout == time.RFC3339Nano {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

type taskDoc struct {
	ID        string `json:"id"`
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
}

// projectDoc mirrors project.Project with tolerant timestamps
type projectDoc struct {
	ID          string    `json:"id"`
	Goal        string    `json:"goal"`
	Tasks       []taskDoc `json:"tasks"`
	StartDate   flexTime  `json:"start_date"`
	EndDate     flexTime  `json:"end_date"`
	Tags        []string  `json:"tags"`
	CreatedAt   flexTime  `json:"created_at"`
	CompletedAt flexTime  `json:"completed_at"`
	Reward      string    `json:"reward"`
	DeletedAt   flexTime  `json:"deleted_at"`
}

func (d projectDoc) project() *project.Project {
	p := &project.Project{
		ID:          d.ID,
		Goal:        d.Goal,
		Tasks:       make([]project.Task, 0, len(d.Tasks)),
		StartDate:   dates.Day(d.StartDate.Time),
		EndDate:     dates.Day(d.EndDate.Time),
		Tags:        d.Tags,
		CreatedAt:   d.CreatedAt.Time,
		CompletedAt: d.CompletedAt.ptr(),
		Reward:      d.Reward,
		DeletedAt:   d.DeletedAt.ptr(),
	}
	for _, t := range d.Tasks {
		p.Tasks = append(p.Tasks, project.Task{ID: t.ID, Task: t.Task, Completed: t.Completed})
	}
	if !d.EndDate.set {
		p.EndDate = p.StartDate
	}
	if p.StartDate.After(p.EndDate) {
		p.StartDate, p.EndDate = p.EndDate, p.StartDate
	}
	return p
}

type collectionDoc struct {
	Projects []projectDoc `json:"projects"`
	Deleted  []projectDoc `json:"deleted"`
}

// decodeProjects reads the {"projects","deleted"} document or the legacy
// bare array of active projects.
func decodeProjects(data []byte) (*project.Collection, error) {
	var doc collectionDoc
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &doc.Projects); err != nil {
			return nil, err
		}
	} else if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}

	c := project.NewCollection()
	for _, d := range doc.Projects {
		c.Projects = append(c.Projects, d.project())
	}
	for _, d := range doc.Deleted {
		c.Deleted = append(c.Deleted, d.project())
	}
	return normalize(c), nil
}

func decodeProject(body []byte) (*project.Project, error) {
	var d projectDoc
	if err := json.Unmarshal(body, &d); err != nil {
		return nil, err
	}
	return d.project(), nil
}

type focusDoc struct {
	Date            flexTime `json:"date"`
	DurationMinutes int      `json:"duration_minutes"`
	ProjectID       string   `json:"project_id"`
}

func decodeFocus(data []byte) ([]project.FocusSession, error) {
	var docs []focusDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, err
	}
	sessions := make([]project.FocusSession, 0, len(docs))
	for _, d := range docs {
		sessions = append(sessions, project.FocusSession{
			Date:            d.Date.Time,
			DurationMinutes: d.DurationMinutes,
			ProjectID:       d.ProjectID,
		})
	}
	return sessions, nil
}

// normalize fills nil slices and assigns ids to projects and tasks written
// without one. Assigned ids are derived from the content so they stay the
// same across loads until the document is saved.
func normalize(c *project.Collection) *project.Collection {
	if c.Projects == nil {
		c.Projects = []*project.Project{}
	}
	if c.Deleted == nil {
		c.Deleted = []*project.Project{}
	}
	for i, p := range append(append([]*project.Project(nil), c.Projects...), c.Deleted...) {
		if p.ID == "" {
			p.ID = derivedID(strconv.Itoa(i), p.Goal, p.CreatedAt.Format(time.RFC3339Nano))
		}
		if p.Tasks == nil {
			p.Tasks = []project.Task{}
		}
		for j := range p.Tasks {
			if p.Tasks[j].ID == "" {
				p.Tasks[j].ID = derivedID(p.ID, strconv.Itoa(j), p.Tasks[j].Task)
			}
		}
		if p.Tags == nil {
			p.Tags = []string{}
		}
	}
	return c
}

func derivedID(parts ...string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(strings.Join(parts, "\x00"))).String()
}

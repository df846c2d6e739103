package project

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ohare93/pacer/internal/dates"
)

// ErrNotFound is returned when a project or task id does not resolve.
var ErrNotFound = errors.New("not found")

// ValidationError reports input that was rejected rather than a failure.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// Invalidf formats a ValidationError.
func Invalidf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsInvalid reports whether err is or wraps a ValidationError.
func IsInvalid(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// Task is one checkpoint in a project's checklist
type Task struct {
	ID        string `json:"id" yaml:"id"`
	Task      string `json:"task" yaml:"task" validate:"required"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// Project is a goal with a date range and an ordered checklist
type Project struct {
	ID          string     `json:"id" yaml:"id" validate:"required"`
	Goal        string     `json:"goal" yaml:"goal" validate:"required"`
	Tasks       []Task     `json:"tasks" yaml:"tasks" validate:"dive"`
	StartDate   time.Time  `json:"start_date" yaml:"start_date"`
	EndDate     time.Time  `json:"end_date" yaml:"end_date"`
	Tags        []string   `json:"tags" yaml:"tags"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	Reward      string     `json:"reward,omitempty" yaml:"reward,omitempty"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" yaml:"deleted_at,omitempty"`
}

// FocusSession records one finished focus timer run
type FocusSession struct {
	Date            time.Time `json:"date" yaml:"date"`
	DurationMinutes int       `json:"duration_minutes" yaml:"duration_minutes"`
	ProjectID       string    `json:"project_id,omitempty" yaml:"project_id,omitempty"`
}

var validate = validator.New()

// NewID returns a fresh opaque identifier for projects and tasks.
func NewID() string {
	return uuid.New().String()
}

// NewTask creates an unchecked task with a fresh id
func NewTask(text string) Task {
	return Task{ID: NewID(), Task: text}
}

// New creates a project with normalized calendar dates. Start and end are
// swapped when given in the wrong order.
func New(goal string, start, end time.Time, tasks []Task, tags []string, now time.Time) *Project {
	start, end = dates.Day(start), dates.Day(end)
	if start.After(end) {
		start, end = end, start
	}
	if tags == nil {
		tags = []string{}
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return &Project{
		ID:        NewID(),
		Goal:      goal,
		Tasks:     tasks,
		StartDate: start,
		EndDate:   end,
		Tags:      tags,
		CreatedAt: now,
	}
}

// Validate checks required fields and the date-range invariant
func (p *Project) Validate() error {
	if err := validate.Struct(p); err != nil {
		return Invalidf("invalid project: %v", err)
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return Invalidf("invalid project %s: start and end dates are required", p.ID)
	}
	if p.StartDate.After(p.EndDate) {
		return Invalidf("invalid project %s: start date %s is after end date %s",
			p.ID, p.StartDate.Format(dates.ISOLayout), p.EndDate.Format(dates.ISOLayout))
	}
	return nil
}

// DoneCount returns the number of completed tasks
func (p *Project) DoneCount() int {
	n := 0
	for _, t := range p.Tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

// IsDone reports whether every task is checked. Projects without tasks are never done.
func (p *Project) IsDone() bool {
	return len(p.Tasks) > 0 && p.DoneCount() == len(p.Tasks)
}

// DurationDays returns the inclusive number of planned days
func (p *Project) DurationDays() int {
	return dates.DaysBetween(p.StartDate, p.EndDate) + 1
}

// AddTask appends a new unchecked task and returns it
func (p *Project) AddTask(text string) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, Invalidf("task text is required")
	}
	t := NewTask(text)
	p.Tasks = append(p.Tasks, t)
	// A new open task reopens a finished project.
	p.CompletedAt = nil
	return t, nil
}

// RemoveTask deletes a task by id, keeping the order of the rest. Removing
// the last open task finishes the project at now.
func (p *Project) RemoveTask(taskID string, now time.Time) error {
	i := p.taskIndex(taskID)
	if i < 0 {
		return fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	p.Tasks = append(p.Tasks[:i], p.Tasks[i+1:]...)
	switch {
	case !p.IsDone():
		p.CompletedAt = nil
	case p.CompletedAt == nil:
		p.CompletedAt = &now
	}
	return nil
}

// ToggleTask flips a task's completed flag. Checking the last open task
// stamps CompletedAt; unchecking any task clears it.
func (p *Project) ToggleTask(taskID string, now time.Time) (Task, error) {
	i := p.taskIndex(taskID)
	if i < 0 {
		return Task{}, fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	p.Tasks[i].Completed = !p.Tasks[i].Completed
	if p.Tasks[i].Completed && p.IsDone() {
		p.CompletedAt = &now
	} else if !p.Tasks[i].Completed {
		p.CompletedAt = nil
	}
	return p.Tasks[i], nil
}

// TaskByIndex resolves a 1-based checklist position, as shown in listings
func (p *Project) TaskByIndex(n int) (Task, error) {
	if n < 1 || n > len(p.Tasks) {
		return Task{}, Invalidf("invalid task number: %d (have %d tasks)", n, len(p.Tasks))
	}
	return p.Tasks[n-1], nil
}

func (p *Project) taskIndex(taskID string) int {
	for i, t := range p.Tasks {
		if t.ID == taskID {
			return i
		}
	}
	return -1
}

// SetDates replaces the date range
func (p *Project) SetDates(start, end time.Time) error {
	start, end = dates.Day(start), dates.Day(end)
	if start.After(end) {
		return Invalidf("start date %s is after end date %s", start.Format(dates.ISOLayout), end.Format(dates.ISOLayout))
	}
	p.StartDate = start
	p.EndDate = end
	return nil
}

// SetGoal renames the project
func (p *Project) SetGoal(goal string) error {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return Invalidf("goal is required")
	}
	p.Goal = goal
	return nil
}

// SetReward sets the self-reward text; empty clears it
func (p *Project) SetReward(reward string) {
	p.Reward = strings.TrimSpace(reward)
}

// Edit is a partial update; nil fields are left unchanged
type Edit struct {
	Goal      *string
	StartDate *time.Time
	EndDate   *time.Time
	Reward    *string
}

// Apply checks every field of e before changing p, so either all of them
// take effect or none do.
func (p *Project) Apply(e Edit) error {
	goal := p.Goal
	if e.Goal != nil {
		goal = strings.TrimSpace(*e.Goal)
		if goal == "" {
			return Invalidf("goal is required")
		}
	}
	start, end := p.StartDate, p.EndDate
	if e.StartDate != nil {
		start = dates.Day(*e.StartDate)
	}
	if e.EndDate != nil {
		end = dates.Day(*e.EndDate)
	}
	if start.After(end) {
		return Invalidf("start date %s is after end date %s", start.Format(dates.ISOLayout), end.Format(dates.ISOLayout))
	}

	p.Goal = goal
	p.StartDate, p.EndDate = start, end
	if e.Reward != nil {
		p.SetReward(*e.Reward)
	}
	return nil
}

// HasTag reports whether the project carries tag (case-insensitive)
func (p *Project) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// AddTag adds a tag to the project
func (p *Project) AddTag(tag string) {
	if tag == "" || p.HasTag(tag) {
		return
	}
	p.Tags = append(p.Tags, tag)
}

// RemoveTag removes every case-insensitive match of tag from the project
func (p *Project) RemoveTag(tag string) bool {
	kept := p.Tags[:0]
	for _, t := range p.Tags {
		if !strings.EqualFold(t, tag) {
			kept = append(kept, t)
		}
	}
	removed := len(kept) < len(p.Tags)
	p.Tags = kept
	return removed
}

// RenameTag replaces oldName with newName, dropping duplicates
func (p *Project) RenameTag(oldName, newName string) bool {
	if !p.RemoveTag(oldName) {
		return false
	}
	p.AddTag(newName)
	return true
}

// Matches reports whether query is a case-insensitive substring of the goal or any tag
func (p *Project) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Goal), q) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// ShortID returns the first block of the UUID for display
func (p *Project) ShortID() string {
	if i := strings.IndexByte(p.ID, '-'); i > 0 {
		return p.ID[:i]
	}
	return p.ID
}

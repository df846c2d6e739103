package project

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestNewSwapsDatesAndNormalizes(t *testing.T) {
	now := time.Date(2026, 3, 1, 14, 30, 0, 0, time.Local)
	p := New("Trip", day(2026, 3, 10).Add(5*time.Hour), day(2026, 3, 2), nil, nil, now)

	if !p.StartDate.Equal(day(2026, 3, 2)) {
		t.Errorf("StartDate = %v, want 2026-03-02", p.StartDate)
	}
	if !p.EndDate.Equal(day(2026, 3, 10)) {
		t.Errorf("EndDate = %v, want 2026-03-10", p.EndDate)
	}
	if p.Tasks == nil || p.Tags == nil {
		t.Error("expected non-nil tasks and tags")
	}
	if p.ID == "" {
		t.Error("expected an id")
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Project)
		wantErr bool
	}{
		{name: "valid", mutate: func(p *Project) {}},
		{name: "missing goal", mutate: func(p *Project) { p.Goal = "" }, wantErr: true},
		{name: "missing id", mutate: func(p *Project) { p.ID = "" }, wantErr: true},
		{name: "start after end", mutate: func(p *Project) { p.StartDate = day(2026, 4, 1) }, wantErr: true},
		{name: "zero end", mutate: func(p *Project) { p.EndDate = time.Time{} }, wantErr: true},
		{name: "empty task text", mutate: func(p *Project) { p.Tasks = append(p.Tasks, Task{ID: "x"}) }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New("Goal", day(2026, 3, 1), day(2026, 3, 8), []Task{NewTask("a")}, nil, time.Now())
			tt.mutate(p)
			err := p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestToggleTaskStampsCompletion(t *testing.T) {
	now := time.Date(2026, 3, 5, 9, 0, 0, 0, time.Local)
	p := New("Goal", day(2026, 3, 1), day(2026, 3, 8), []Task{NewTask("a"), NewTask("b")}, nil, now)

	_, err := p.ToggleTask(p.Tasks[0].ID, now)
	require.NoError(t, err)
	assert.Nil(t, p.CompletedAt)
	assert.False(t, p.IsDone())

	_, err = p.ToggleTask(p.Tasks[1].ID, now)
	require.NoError(t, err)
	require.NotNil(t, p.CompletedAt)
	assert.True(t, p.CompletedAt.Equal(now))
	assert.True(t, p.IsDone())

	_, err = p.ToggleTask(p.Tasks[1].ID, now)
	require.NoError(t, err)
	assert.Nil(t, p.CompletedAt)

	_, err = p.ToggleTask("missing", now)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestAddAndRemoveTask(t *testing.T) {
	now := time.Now()
	p := New("Goal", day(2026, 3, 1), day(2026, 3, 8), []Task{NewTask("a")}, nil, now)
	_, err := p.ToggleTask(p.Tasks[0].ID, now)
	require.NoError(t, err)
	require.NotNil(t, p.CompletedAt)

	added, err := p.AddTask("  b  ")
	require.NoError(t, err)
	assert.Equal(t, "b", added.Task)
	assert.False(t, added.Completed)
	assert.Nil(t, p.CompletedAt, "a new open task reopens the project")

	_, err = p.AddTask("   ")
	assert.Error(t, err)

	require.NoError(t, p.RemoveTask(p.Tasks[0].ID, now))
	require.Len(t, p.Tasks, 1)
	assert.Equal(t, "b", p.Tasks[0].Task)
	assert.ErrorIs(t, p.RemoveTask("nope", now), ErrNotFound)
}

func TestRemoveTaskFinishesProject(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local)
	now := created.Add(48 * time.Hour)
	p := New("Goal", day(2026, 3, 1), day(2026, 3, 8), []Task{NewTask("a"), NewTask("b")}, nil, created)
	_, err := p.ToggleTask(p.Tasks[0].ID, created)
	require.NoError(t, err)
	require.Nil(t, p.CompletedAt)

	require.NoError(t, p.RemoveTask(p.Tasks[1].ID, now))
	assert.True(t, p.IsDone())
	require.NotNil(t, p.CompletedAt, "removing the last open task finishes the project")
	assert.True(t, p.CompletedAt.Equal(now))

	require.NoError(t, p.RemoveTask(p.Tasks[0].ID, now.Add(time.Hour)))
	assert.Empty(t, p.Tasks)
	assert.Nil(t, p.CompletedAt, "a project without tasks is not done")
}

func TestRemoveTaskKeepsEarlierCompletion(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local)
	p := New("Goal", day(2026, 3, 1), day(2026, 3, 8), []Task{NewTask("a"), NewTask("b"), NewTask("c")}, nil, created)
	for _, task := range p.Tasks {
		_, err := p.ToggleTask(task.ID, created)
		require.NoError(t, err)
	}
	require.NotNil(t, p.CompletedAt)

	require.NoError(t, p.RemoveTask(p.Tasks[2].ID, created.Add(time.Hour)))
	require.NotNil(t, p.CompletedAt)
	assert.True(t, p.CompletedAt.Equal(created))
}

func TestTaskByIndex(t *testing.T) {
	p := New("Goal", day(2026, 3, 1), day(2026, 3, 8), []Task{NewTask("a"), NewTask("b")}, nil, time.Now())

	task, err := p.TaskByIndex(2)
	require.NoError(t, err)
	assert.Equal(t, "b", task.Task)

	_, err = p.TaskByIndex(0)
	assert.Error(t, err)
	_, err = p.TaskByIndex(3)
	assert.Error(t, err)
}

func TestSetDatesRejectsInvertedRange(t *testing.T) {
	p := New("Goal", day(2026, 3, 1), day(2026, 3, 8), nil, nil, time.Now())
	assert.Error(t, p.SetDates(day(2026, 3, 9), day(2026, 3, 1)))
	require.NoError(t, p.SetDates(day(2026, 3, 2), day(2026, 3, 2)))
	assert.Equal(t, 1, p.DurationDays())
}

func TestTagsAndMatches(t *testing.T) {
	p := New("Write thesis chapter", day(2026, 3, 1), day(2026, 3, 8), nil, []string{"Work"}, time.Now())

	p.AddTag("work")
	assert.Equal(t, []string{"Work"}, p.Tags, "duplicate tag ignored case-insensitively")
	p.AddTag("Urgent")
	assert.True(t, p.HasTag("urgent"))

	assert.True(t, p.RenameTag("Urgent", "Later"))
	assert.Equal(t, []string{"Work", "Later"}, p.Tags)
	assert.False(t, p.RenameTag("Missing", "X"))

	assert.True(t, p.Matches("THESIS"))
	assert.True(t, p.Matches("lat"))
	assert.True(t, p.Matches(""))
	assert.False(t, p.Matches("gym"))
}

func TestRemoveTagIgnoresCase(t *testing.T) {
	p := New("Write thesis chapter", day(2026, 3, 1), day(2026, 3, 8), nil, []string{"Work", "Health"}, time.Now())
	require.True(t, p.HasTag("work"))

	assert.True(t, p.RemoveTag("work"))
	assert.False(t, p.HasTag("Work"))
	assert.Equal(t, []string{"Health"}, p.Tags)
	assert.False(t, p.RemoveTag("WORK"))

	assert.True(t, p.RenameTag("HEALTH", "Fitness"))
	assert.Equal(t, []string{"Fitness"}, p.Tags)
}

func TestShortID(t *testing.T) {
	p := &Project{ID: "abcd1234-ef00-0000-0000-000000000000"}
	if got := p.ShortID(); got != "abcd1234" {
		t.Errorf("ShortID() = %q, want abcd1234", got)
	}
	p.ID = "plain"
	if got := p.ShortID(); got != "plain" {
		t.Errorf("ShortID() = %q, want plain", got)
	}
}

func TestExtractTags(t *testing.T) {
	tests := []struct {
		name  string
		goal  string
		known []string
		want  []string
	}{
		{name: "no tags", goal: "Book flight", known: DefaultTags, want: []string{}},
		{name: "known word", goal: "Finish work report", known: DefaultTags, want: []string{"Work"}},
		{name: "hashtag new", goal: "Pack bags #travel", known: DefaultTags, want: []string{"travel"}},
		{name: "hashtag known keeps casing", goal: "#health run, health check", known: DefaultTags, want: []string{"Health"}},
		{name: "punctuation separated", goal: "urgent: call mom (personal)", known: DefaultTags, want: []string{"Urgent", "Personal"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTags(tt.goal, tt.known))
		})
	}
}

func TestInvalidErrors(t *testing.T) {
	p := New("Goal", day(2026, 3, 1), day(2026, 3, 8), nil, nil, time.Now())

	err := p.SetDates(day(2026, 3, 9), day(2026, 3, 1))
	assert.True(t, IsInvalid(err))
	_, err = p.AddTask(" ")
	assert.True(t, IsInvalid(err))

	err = p.RemoveTask("missing", time.Now())
	assert.False(t, IsInvalid(err))
	assert.True(t, errors.Is(err, ErrNotFound))

	wrapped := fmt.Errorf("save: %w", Invalidf("bad %s", "input"))
	assert.True(t, IsInvalid(wrapped))
	assert.EqualError(t, wrapped, "save: bad input")
}

package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohare93/pacer/internal/app"
	"github.com/ohare93/pacer/internal/project"
	"github.com/ohare93/pacer/internal/store"
	"github.com/ohare93/pacer/internal/watcher"
)

var clock = time.Date(2026, 10, 19, 9, 30, 0, 0, time.Local)

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	s, err := store.NewJSONStore(t.TempDir())
	require.NoError(t, err)
	return app.New(s, nil, nil, nil).WithClock(func() time.Time { return clock })
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and runs the resulting command chain synchronously,
// feeding every message back into the model.
func press(t *testing.T, m Model, k tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(k)
	return drain(t, next.(Model), cmd)
}

func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for i := 0; cmd != nil && i < 10; i++ {
		msg := cmd()
		switch msg.(type) {
		case projectsLoadedMsg, projectAddedMsg, taskToggledMsg, projectDeletedMsg:
		default:
			// Cursor blinks and similar UI ticks are not followed.
			return m
		}
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m
}

func loaded(t *testing.T, a *app.App) Model {
	t.Helper()
	m := InitialModel(a, nil)
	// A blinking cursor schedules timers the tests would wait on.
	m.textInput.Cursor.SetMode(cursor.CursorStatic)
	return drain(t, m, m.Init())
}

func TestModelInitialization(t *testing.T) {
	m := InitialModel(newTestApp(t), nil)

	if m.mode != listView {
		t.Errorf("Expected initial mode to be listView, got %v", m.mode)
	}
	if m.cursor != 0 {
		t.Errorf("Expected initial cursor to be 0, got %d", m.cursor)
	}
	if m.Init() == nil {
		t.Error("Expected Init to load projects")
	}
}

func TestAddProjectFromInput(t *testing.T) {
	a := newTestApp(t)
	m := loaded(t, a)
	assert.Empty(t, m.projects)
	assert.Contains(t, m.View(), "No projects yet")

	m = press(t, m, key("a"))
	require.Equal(t, inputView, m.mode)

	// Keys that are shortcuts elsewhere are plain text while typing.
	m = press(t, m, key("2/1-2/19 Travel jq"))
	assert.Equal(t, inputView, m.mode)
	assert.Equal(t, "2/1-2/19 Travel jq", m.textInput.Value())

	m = press(t, m, key("enter"))
	assert.Equal(t, listView, m.mode)
	require.Len(t, m.projects, 1)
	assert.Equal(t, "2/1-2/19 Travel jq", m.projects[0].Goal)
	assert.Contains(t, m.message, "template checklist")
	assert.Contains(t, m.View(), "Travel jq")
}

func TestAddProjectEmptyInputStaysOpen(t *testing.T) {
	m := loaded(t, newTestApp(t))
	m = press(t, m, key("a"))
	m = press(t, m, key("enter"))

	assert.Equal(t, inputView, m.mode)
	assert.Equal(t, "Type a goal first", m.message)

	m = press(t, m, key("esc"))
	assert.Equal(t, listView, m.mode)
	assert.Equal(t, "Cancelled", m.message)
}

func TestToggleTaskInDetailView(t *testing.T) {
	a := newTestApp(t)
	m := loaded(t, a)
	m = press(t, m, key("a"))
	m = press(t, m, key("2/1-2/19 Travel"))
	m = press(t, m, key("enter"))
	require.Len(t, m.projects, 1)
	id := m.projects[0].ID

	m = press(t, m, key("enter"))
	require.Equal(t, detailView, m.mode)

	m = press(t, m, key("j"))
	assert.Equal(t, 1, m.taskCursor)
	m = press(t, m, key(" "))
	assert.True(t, strings.HasPrefix(m.message, "Done: "), m.message)

	p, err := a.GetProject(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, p.Tasks[0].Completed)
	assert.True(t, p.Tasks[1].Completed)
	assert.Contains(t, m.View(), "[x]")

	m = press(t, m, key(" "))
	assert.True(t, strings.HasPrefix(m.message, "Reopened: "), m.message)

	m = press(t, m, key("esc"))
	assert.Equal(t, listView, m.mode)
	assert.Empty(t, m.selectedID)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	a := newTestApp(t)
	m := loaded(t, a)
	m = press(t, m, key("a"))
	m = press(t, m, key("Study for exam"))
	m = press(t, m, key("enter"))
	require.Len(t, m.projects, 1)

	m = press(t, m, key("x"))
	require.Equal(t, confirmDeleteView, m.mode)
	assert.Contains(t, m.View(), "Study for exam")
	m = press(t, m, key("n"))
	assert.Equal(t, listView, m.mode)
	assert.Len(t, m.projects, 1)

	m = press(t, m, key("x"))
	m = press(t, m, key("y"))
	assert.Equal(t, listView, m.mode)
	assert.Empty(t, m.projects)
	assert.Contains(t, m.message, "bin")

	deleted, err := a.Deleted(context.Background())
	require.NoError(t, err)
	assert.Len(t, deleted, 1)
}

func TestDeleteIgnoredWithoutProjects(t *testing.T) {
	m := loaded(t, newTestApp(t))
	m = press(t, m, key("x"))
	assert.Equal(t, listView, m.mode)
}

func TestCursorMovementClamped(t *testing.T) {
	m := InitialModel(newTestApp(t), nil)
	m.projects = []*project.Project{
		{ID: "a", Goal: "one", StartDate: clock, EndDate: clock},
		{ID: "b", Goal: "two", StartDate: clock, EndDate: clock},
	}

	m = press(t, m, key("k"))
	assert.Equal(t, 0, m.cursor)
	m = press(t, m, key("j"))
	m = press(t, m, key("j"))
	assert.Equal(t, 1, m.cursor)

	next, _ := m.Update(projectsLoadedMsg{projects: m.projects[:1]})
	m = next.(Model)
	assert.Equal(t, 0, m.cursor)
}

func TestDetailViewLeavesWhenProjectDisappears(t *testing.T) {
	m := InitialModel(newTestApp(t), nil)
	m.projects = []*project.Project{{ID: "a", Goal: "one", StartDate: clock, EndDate: clock}}
	m = press(t, m, key("enter"))
	require.Equal(t, detailView, m.mode)

	next, _ := m.Update(projectsLoadedMsg{projects: []*project.Project{}})
	m = next.(Model)
	assert.Equal(t, listView, m.mode)
	assert.Equal(t, "Project no longer exists", m.message)
}

func TestWatcherEventReloads(t *testing.T) {
	w, err := watcher.New()
	require.NoError(t, err)
	defer w.Close()

	m := InitialModel(newTestApp(t), w)
	_, cmd := m.Update(watcherEventMsg{event: watcher.Event{Type: watcher.ProjectsChanged}})
	assert.NotNil(t, cmd)
}

func TestHelpView(t *testing.T) {
	m := loaded(t, newTestApp(t))
	m = press(t, m, key("?"))
	require.Equal(t, helpView, m.mode)
	assert.Contains(t, m.View(), "toggle the task")

	m = press(t, m, key("j"))
	assert.Equal(t, listView, m.mode)
}

func TestStatusLabel(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 10, d, 0, 0, 0, 0, time.Local) }
	tests := []struct {
		name string
		p    *project.Project
		want string
	}{
		{name: "not started", p: &project.Project{StartDate: day(25), EndDate: day(28), Tasks: []project.Task{{Task: "a"}}}, want: "Not Started"},
		{name: "active", p: &project.Project{StartDate: day(18), EndDate: day(22), Tasks: []project.Task{{Task: "a"}}}, want: "Active"},
		{name: "delayed", p: &project.Project{StartDate: day(1), EndDate: day(10), Tasks: []project.Task{{Task: "a"}}}, want: "Delayed"},
		{name: "completed", p: &project.Project{StartDate: day(1), EndDate: day(10), Tasks: []project.Task{{Task: "a", Completed: true}}}, want: "Completed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusLabel(tt.p, clock))
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is way too long", 10, "this is..."},
		{"", 5, ""},
		{"旅行计划准备行李", 5, "旅行..."},
	}

	for _, tt := range tests {
		result := truncate(tt.input, tt.maxLen)
		if result != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, result, tt.expected)
		}
	}
}

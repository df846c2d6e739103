// Package tui is the interactive terminal front end for browsing projects,
// ticking off checklist items and capturing new goals.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ohare93/pacer/internal/app"
	"github.com/ohare93/pacer/internal/project"
	"github.com/ohare93/pacer/internal/watcher"
)

type viewMode int

const (
	listView viewMode = iota
	detailView
	inputView
	confirmDeleteView
	helpView
)

// requestTimeout bounds a single store or intake call issued from the UI.
// Intake may wait on an LLM, so this is generous.
const requestTimeout = 90 * time.Second

// Model is the bubbletea model for the pacer TUI
type Model struct {
	app         *app.App
	fileWatcher *watcher.Watcher

	projects   []*project.Project
	cursor     int
	taskCursor int
	selectedID string

	mode      viewMode
	textInput textinput.Model
	adding    bool

	message string
	err     error
	width   int
	height  int
}

// InitialModel creates a model backed by a. w may be nil, in which case
// changes made by other processes show up only on a manual reload.
func InitialModel(a *app.App, w *watcher.Watcher) Model {
	ti := textinput.New()
	ti.Placeholder = "e.g. 11/3-11/8 Trip to Kyoto #travel"
	ti.CharLimit = 256
	ti.Width = 60

	return Model{
		app:         a,
		fileWatcher: w,
		mode:        listView,
		textInput:   ti,
	}
}

func (m Model) Init() tea.Cmd {
	if m.fileWatcher != nil {
		return tea.Batch(loadProjects(m.app), listenForWatcherEvents(m.fileWatcher))
	}
	return loadProjects(m.app)
}

// selectedProject returns the project under the cursor in list view, or the
// one opened in detail view.
func (m Model) selectedProject() *project.Project {
	if m.selectedID != "" {
		for _, p := range m.projects {
			if p.ID == m.selectedID {
				return p
			}
		}
		return nil
	}
	if m.cursor >= 0 && m.cursor < len(m.projects) {
		return m.projects[m.cursor]
	}
	return nil
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.projects) {
		m.cursor = len(m.projects) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// Run starts the program on the alternate screen and blocks until the user quits.
func Run(a *app.App, w *watcher.Watcher) error {
	if w != nil {
		w.Start()
	}
	_, err := tea.NewProgram(InitialModel(a, w), tea.WithAltScreen()).Run()
	return err
}

package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case projectsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.projects = msg.projects
		m.clampCursor()
		if m.mode == detailView {
			p := m.selectedProject()
			if p == nil {
				// Removed by another process
				m.mode = listView
				m.selectedID = ""
				m.message = "Project no longer exists"
			} else if m.taskCursor >= len(p.Tasks) {
				m.taskCursor = max(len(p.Tasks)-1, 0)
			}
		}
		return m, nil

	case projectAddedMsg:
		m.adding = false
		if msg.err != nil {
			m.message = "Error: " + msg.err.Error()
			return m, nil
		}
		p := msg.result.Project
		m.message = fmt.Sprintf("Added %q (%s to %s, %s checklist)",
			p.Goal, p.StartDate.Format("Jan 2"), p.EndDate.Format("Jan 2"), msg.result.Source)
		return m, loadProjects(m.app)

	case taskToggledMsg:
		if msg.err != nil {
			m.message = "Error: " + msg.err.Error()
			return m, nil
		}
		if msg.task.Completed {
			m.message = "Done: " + msg.task.Task
		} else {
			m.message = "Reopened: " + msg.task.Task
		}
		if msg.project != nil && msg.project.IsDone() && msg.project.Reward != "" {
			m.message += " | Reward unlocked: " + msg.project.Reward
		}
		return m, loadProjects(m.app)

	case projectDeletedMsg:
		m.mode = listView
		m.selectedID = ""
		if msg.err != nil {
			m.message = "Error: " + msg.err.Error()
			return m, nil
		}
		m.message = fmt.Sprintf("Moved %q to the bin", msg.project.Goal)
		return m, loadProjects(m.app)

	case watcherEventMsg:
		return m, tea.Batch(loadProjects(m.app), listenForWatcherEvents(m.fileWatcher))

	case watcherErrorMsg:
		m.message = "Watcher error: " + msg.err.Error()
		return m, listenForWatcherEvents(m.fileWatcher)

	case tea.KeyMsg:
		switch m.mode {
		case inputView:
			return m.handleInputKey(msg)
		case confirmDeleteView:
			return m.handleConfirmKey(msg)
		case detailView:
			return m.handleDetailKey(msg)
		case helpView:
			return m.handleHelpKey(msg)
		default:
			return m.handleListKey(msg)
		}
	}

	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.message = ""
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.projects)-1 {
			m.cursor++
			m.message = ""
		}
		return m, nil

	case "enter", "l":
		if p := m.selectedProject(); p != nil {
			m.selectedID = p.ID
			m.taskCursor = 0
			m.mode = detailView
			m.message = ""
		}
		return m, nil

	case "a", "n":
		if m.adding {
			m.message = "Still planning the last goal..."
			return m, nil
		}
		m.mode = inputView
		m.message = ""
		m.textInput.SetValue("")
		cmd := m.textInput.Focus()
		return m, cmd

	case "x", "d":
		if len(m.projects) > 0 {
			m.mode = confirmDeleteView
		}
		return m, nil

	case "r":
		m.message = "Reloaded"
		return m, loadProjects(m.app)

	case "?":
		m.mode = helpView
		return m, nil
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.selectedProject()
	if p == nil {
		m.mode = listView
		m.selectedID = ""
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "esc", "b", "h":
		m.mode = listView
		m.selectedID = ""
		m.message = ""
		return m, nil

	case "up", "k":
		if m.taskCursor > 0 {
			m.taskCursor--
		}
		return m, nil

	case "down", "j":
		if m.taskCursor < len(p.Tasks)-1 {
			m.taskCursor++
		}
		return m, nil

	case " ", "enter":
		if m.taskCursor < len(p.Tasks) {
			return m, toggleTask(m.app, p.ID, p.Tasks[m.taskCursor].ID)
		}
		return m, nil

	case "x", "d":
		m.mode = confirmDeleteView
		return m, nil
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEsc:
		m.textInput.Blur()
		m.mode = listView
		m.message = "Cancelled"
		return m, nil

	case tea.KeyEnter:
		goal := strings.TrimSpace(m.textInput.Value())
		if goal == "" {
			m.message = "Type a goal first"
			return m, nil
		}
		m.textInput.Blur()
		m.textInput.SetValue("")
		m.mode = listView
		m.adding = true
		m.message = "Planning..."
		return m, addProject(m.app, goal)
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	back := listView
	if m.selectedID != "" {
		back = detailView
	}

	switch msg.String() {
	case "y", "Y":
		p := m.selectedProject()
		if p == nil {
			m.mode = listView
			return m, nil
		}
		return m, deleteProject(m.app, p.ID)

	case "n", "N", "esc":
		m.mode = back
		m.message = "Cancelled"
		return m, nil

	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	default:
		m.mode = listView
		return m, nil
	}
}

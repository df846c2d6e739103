package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ohare93/pacer/internal/app"
	"github.com/ohare93/pacer/internal/intake"
	"github.com/ohare93/pacer/internal/project"
	"github.com/ohare93/pacer/internal/watcher"
)

type projectsLoadedMsg struct {
	projects []*project.Project
	err      error
}

type projectAddedMsg struct {
	result intake.Result
	err    error
}

type taskToggledMsg struct {
	project *project.Project
	task    project.Task
	err     error
}

type projectDeletedMsg struct {
	project *project.Project
	err     error
}

func loadProjects(a *app.App) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()

		projects, err := a.ListProjects(ctx, "")
		return projectsLoadedMsg{projects: projects, err: err}
	}
}

func addProject(a *app.App, goal string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()

		res, err := a.AddProject(ctx, intake.Request{Goal: goal})
		return projectAddedMsg{result: res, err: err}
	}
}

func toggleTask(a *app.App, projectID, taskID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()

		p, task, err := a.ToggleTask(ctx, projectID, taskID)
		return taskToggledMsg{project: p, task: task, err: err}
	}
}

func deleteProject(a *app.App, projectID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()

		p, err := a.DeleteProject(ctx, projectID)
		return projectDeletedMsg{project: p, err: err}
	}
}

// Watcher event messages
type watcherEventMsg struct {
	event watcher.Event
}

type watcherErrorMsg struct {
	err error
}

// listenForWatcherEvents waits for the next change to the data files
func listenForWatcherEvents(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		select {
		case event := <-w.Events:
			return watcherEventMsg{event: event}
		case err := <-w.Errors:
			return watcherErrorMsg{err: err}
		}
	}
}

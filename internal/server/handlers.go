package server

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ohare93/pacer/internal/dates"
	"github.com/ohare93/pacer/internal/intake"
	"github.com/ohare93/pacer/internal/metrics"
	"github.com/ohare93/pacer/internal/project"
	"github.com/ohare93/pacer/internal/report"
)

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleListProjects lists active projects, filtered by ?q=
func (s *Server) handleListProjects(c echo.Context) error {
	projects, err := s.app.ListProjects(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projects)
}

func (s *Server) handleCreateProject(c echo.Context) error {
	var body CreateProjectRequest
	if err := decode(c, &body); err != nil {
		return err
	}

	req := intake.Request{Goal: body.Goal, Tags: body.Tags}
	var err error
	if req.Start, err = optionalDay(body.StartDate); err != nil {
		return err
	}
	if req.End, err = optionalDay(body.EndDate); err != nil {
		return err
	}
	if req.ContextDate, err = optionalDay(body.ContextDate); err != nil {
		return err
	}
	for _, text := range body.Tasks {
		req.Tasks = append(req.Tasks, project.NewTask(text))
	}

	res, err := s.app.AddProject(c.Request().Context(), req)
	if err != nil {
		return err
	}
	c.Response().Header().Set("X-Checklist-Source", string(res.Source))
	return c.JSON(http.StatusCreated, res.Project)
}

func (s *Server) handleGetProject(c echo.Context) error {
	p, err := s.app.GetProject(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// handleUpdateProject applies every given field in one save, or none of them
func (s *Server) handleUpdateProject(c echo.Context) error {
	var body UpdateProjectRequest
	if err := decode(c, &body); err != nil {
		return err
	}

	edit := project.Edit{Goal: body.Goal, Reward: body.Reward}
	var err error
	if body.StartDate != nil {
		if edit.StartDate, err = optionalDay(*body.StartDate); err != nil {
			return err
		}
	}
	if body.EndDate != nil {
		if edit.EndDate, err = optionalDay(*body.EndDate); err != nil {
			return err
		}
	}

	p, err := s.app.UpdateProject(c.Request().Context(), c.Param("id"), edit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// handleDeleteProject moves a project to the bin
func (s *Server) handleDeleteProject(c echo.Context) error {
	p, err := s.app.DeleteProject(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleRestoreProject(c echo.Context) error {
	p, err := s.app.RestoreProject(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleAddTask(c echo.Context) error {
	var body TaskRequest
	if err := decode(c, &body); err != nil {
		return err
	}
	p, _, err := s.app.AddTask(c.Request().Context(), c.Param("id"), body.Task)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (s *Server) handleToggleTask(c echo.Context) error {
	p, _, err := s.app.ToggleTask(c.Request().Context(), c.Param("id"), c.Param("task"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleRemoveTask(c echo.Context) error {
	p, err := s.app.RemoveTask(c.Request().Context(), c.Param("id"), c.Param("task"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleListBin(c echo.Context) error {
	projects, err := s.app.Deleted(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projects)
}

func (s *Server) handleEmptyBin(c echo.Context) error {
	n, err := s.app.EmptyBin(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, CountResponse{Count: n})
}

func (s *Server) handlePurgeProject(c echo.Context) error {
	if err := s.app.PurgeProject(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListTags(c echo.Context) error {
	tags, err := s.app.Tags(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tags)
}

func (s *Server) handleAddTag(c echo.Context) error {
	var body TagRequest
	if err := decode(c, &body); err != nil {
		return err
	}
	if err := s.app.AddTag(c.Request().Context(), body.Name); err != nil {
		return err
	}
	return s.handleListTags(c)
}

// handleRenameTag renames {name} to the body's name on the list and every project
func (s *Server) handleRenameTag(c echo.Context) error {
	var body TagRequest
	if err := decode(c, &body); err != nil {
		return err
	}
	n, err := s.app.RenameTag(c.Request().Context(), c.Param("name"), body.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, CountResponse{Count: n})
}

func (s *Server) handleRemoveTag(c echo.Context) error {
	n, err := s.app.RemoveTag(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, CountResponse{Count: n})
}

func (s *Server) handleListFocus(c echo.Context) error {
	sessions, err := s.app.FocusSessions(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessions)
}

func (s *Server) handleLogFocus(c echo.Context) error {
	var body FocusRequest
	if err := decode(c, &body); err != nil {
		return err
	}
	fs, err := s.app.LogFocus(c.Request().Context(), body.Minutes, body.ProjectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, fs)
}

func (s *Server) handleDashboard(c echo.Context) error {
	stats, err := s.app.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) handleInsights(c echo.Context) error {
	ins, err := s.app.Insights(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ins)
}

// handleReview serves KPIs for ?period=last7|month|year|custom&from=&to=
func (s *Server) handleReview(c echo.Context) error {
	period, err := s.period(c)
	if err != nil {
		return err
	}
	review, err := s.app.Review(c.Request().Context(), period)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, review)
}

// handleReport serves the period report as a download, CSV unless ?format= says otherwise
func (s *Server) handleReport(c echo.Context) error {
	period, err := s.period(c)
	if err != nil {
		return err
	}
	format := report.FormatCSV
	if f := c.QueryParam("format"); f != "" {
		if format, err = report.ParseFormat(f); err != nil {
			return project.Invalidf("%v", err)
		}
	}

	rows, err := s.app.Report(c.Request().Context(), period)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := report.Write(&buf, rows, format); err != nil {
		return err
	}
	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName(period.Label(), format)))
	return c.Blob(http.StatusOK, format.ContentType(), buf.Bytes())
}

func (s *Server) handleBackup(c echo.Context) error {
	b, err := s.app.Backup(c.Request().Context())
	if err != nil {
		return err
	}
	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.BackupFileName))
	return c.JSON(http.StatusOK, b)
}

func (s *Server) period(c echo.Context) (metrics.Period, error) {
	q := c.QueryParams()
	name := q.Get("period")
	if name == "" {
		name = string(metrics.PeriodMonth)
	}
	kind, err := metrics.ParsePeriodKind(name)
	if err != nil {
		return metrics.Period{}, project.Invalidf("%v", err)
	}

	var bounds []time.Time
	for _, key := range []string{"from", "to"} {
		if v := q.Get(key); v != "" {
			d, err := dates.ParseDay(v)
			if err != nil {
				return metrics.Period{}, project.Invalidf("invalid %s: %v", key, err)
			}
			bounds = append(bounds, d)
		}
	}

	p, err := metrics.NewPeriod(kind, s.app.Today(), bounds...)
	if err != nil {
		return metrics.Period{}, project.Invalidf("%v", err)
	}
	return p, nil
}

func optionalDay(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := dates.ParseDay(s)
	if err != nil {
		return nil, project.Invalidf("invalid date %q: %v", s, err)
	}
	return &d, nil
}

// Package intake turns free-text goals into dated projects with a checklist.
package intake

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ohare93/pacer/internal/checklist"
	"github.com/ohare93/pacer/internal/dates"
	"github.com/ohare93/pacer/internal/project"
)

// Request describes a project to create. Nil fields are filled in from the
// goal text; a nil Tags slice means "infer from the goal".
type Request struct {
	Goal  string
	Start *time.Time
	End   *time.Time
	Tasks []project.Task
	Tags  []string
	// ContextDate is the day the user had selected when typing the goal.
	// It is appended to the text fed to the date extractor when Start is nil.
	ContextDate *time.Time
}

// Result carries the created project and how its checklist was produced.
type Result struct {
	Project     *project.Project
	Source      checklist.Source
	DateMatched bool
}

// Intake composes the date extractor and checklist generator.
type Intake struct {
	Extractor *dates.Extractor
	Generator *checklist.Generator
	// KnownTags is consulted when a request has no tags.
	KnownTags func() []string
	Now       func() time.Time
	SpanDays  int
	Logger    *zap.Logger
}

// New creates an intake with the real clock and a template-only generator
// unless gen is given.
func New(ext *dates.Extractor, gen *checklist.Generator, logger *zap.Logger) *Intake {
	if ext == nil {
		ext = dates.NewExtractor()
	}
	if gen == nil {
		gen = checklist.NewGenerator(nil, 0, logger)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Intake{
		Extractor: ext,
		Generator: gen,
		KnownTags: func() []string { return project.DefaultTags },
		Now:       time.Now,
		SpanDays:  dates.DefaultSpanDays,
		Logger:    logger,
	}
}

// Create builds a project from req. A blank goal is rejected with
// (nil, false); nothing else fails. The project is not persisted.
func (in *Intake) Create(ctx context.Context, req Request) (*project.Project, bool) {
	res, ok := in.CreateDetailed(ctx, req)
	if !ok {
		return nil, false
	}
	return res.Project, true
}

// CreateDetailed is Create plus the checklist source and whether a date was
// found in the text.
func (in *Intake) CreateDetailed(ctx context.Context, req Request) (Result, bool) {
	goal := strings.TrimSpace(req.Goal)
	if goal == "" {
		return Result{}, false
	}

	now := in.now()
	var res Result
	start, end := req.Start, req.End
	tasks := req.Tasks

	if len(tasks) == 0 {
		text := goal
		if req.ContextDate != nil && start == nil {
			text += " from " + req.ContextDate.Format(dates.ISOLayout)
		}

		tasks, res.Source = in.Generator.Generate(ctx, text)

		if start == nil || end == nil {
			s, e, matched := in.Extractor.Extract(text)
			res.DateMatched = matched
			if matched {
				if start == nil {
					start = &s
				}
				if end == nil {
					end = &e
				}
			}
		}
	}

	if start == nil {
		today := dates.Day(now)
		start = &today
	}
	if end == nil {
		e := dates.AddDays(*start, in.span())
		end = &e
	}

	tags := req.Tags
	if tags == nil {
		tags = project.ExtractTags(goal, in.knownTags())
	}

	// project.New swaps an inverted range.
	p := project.New(goal, *start, *end, tasks, tags, now)
	res.Project = p

	in.Logger.Debug("project drafted",
		zap.String("id", p.ID),
		zap.String("checklist_source", string(res.Source)),
		zap.Bool("date_matched", res.DateMatched),
		zap.Int("tasks", len(p.Tasks)))
	return res, true
}

// WithClock points both the intake and its extractor at now.
func (in *Intake) WithClock(now func() time.Time) *Intake {
	in.Now = now
	in.Extractor.Now = now
	return in
}

func (in *Intake) now() time.Time {
	if in.Now == nil {
		return time.Now()
	}
	return in.Now()
}

func (in *Intake) span() int {
	if in.SpanDays <= 0 {
		return dates.DefaultSpanDays
	}
	return in.SpanDays
}

func (in *Intake) knownTags() []string {
	if in.KnownTags == nil {
		return project.DefaultTags
	}
	return in.KnownTags()
}

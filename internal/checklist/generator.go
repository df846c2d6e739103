// Package checklist produces the default four-step checklist for a new goal.
//
// A Generator first asks an optional Provider (normally a chat model) and
// falls back to a keyword template whenever the provider is missing, fails,
// times out or returns nothing usable. Generate never returns an error.
package checklist

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ohare93/pacer/internal/project"
)

// MaxSteps caps the number of tasks taken from a provider response.
const MaxSteps = 4

// DefaultTimeout bounds a single provider call.
const DefaultTimeout = 8 * time.Second

// Source records which path produced a checklist.
type Source string

const (
	SourceLLM      Source = "llm"
	SourceTemplate Source = "template"
)

// ErrNoSteps is returned by providers whose response contained no list items.
var ErrNoSteps = errors.New("no checklist steps in response")

// Provider produces checklist step texts for a goal.
type Provider interface {
	Steps(ctx context.Context, goal string) ([]string, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, goal string) ([]string, error)

// Steps calls f.
func (f ProviderFunc) Steps(ctx context.Context, goal string) ([]string, error) {
	return f(ctx, goal)
}

// Generator turns goal text into tasks.
type Generator struct {
	primary Provider
	timeout time.Duration
	logger  *zap.Logger
}

// NewGenerator creates a generator. primary may be nil, in which case only
// the template path is used. A non-positive timeout selects DefaultTimeout.
func NewGenerator(primary Provider, timeout time.Duration, logger *zap.Logger) *Generator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{primary: primary, timeout: timeout, logger: logger}
}

// Generate returns fresh, unchecked tasks for goal and the path that produced them.
func (g *Generator) Generate(ctx context.Context, goal string) ([]project.Task, Source) {
	steps, src := g.steps(ctx, goal)
	tasks := make([]project.Task, 0, len(steps))
	for _, s := range steps {
		tasks = append(tasks, project.NewTask(s))
	}
	return tasks, src
}

func (g *Generator) steps(ctx context.Context, goal string) ([]string, Source) {
	if g.primary == nil {
		return TemplateSteps(goal), SourceTemplate
	}

	steps, err := WithFallback(g.primary, g.timeout)(ctx, goal)
	if err != nil {
		g.logger.Debug("checklist provider unavailable, using template",
			zap.Error(err),
			zap.String("category", string(Classify(goal))))
		return TemplateSteps(goal), SourceTemplate
	}
	return steps, SourceLLM
}

// WithFallback wraps p so that every failure mode (error, panic, timeout,
// empty result) surfaces as an error the caller can map to the template.
// Successful results are trimmed to MaxSteps.
func WithFallback(p Provider, timeout time.Duration) func(context.Context, string) ([]string, error) {
	return func(ctx context.Context, goal string) ([]string, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		type result struct {
			steps []string
			err   error
		}
		ch := make(chan result, 1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					ch <- result{err: fmt.Errorf("checklist provider panicked: %v", r)}
				}
			}()
			steps, err := p.Steps(ctx, goal)
			ch <- result{steps: steps, err: err}
		}()

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("checklist provider: %w", ctx.Err())
		case r := <-ch:
			if r.err != nil {
				return nil, r.err
			}
			steps := cleanSteps(r.steps)
			if len(steps) == 0 {
				return nil, ErrNoSteps
			}
			return steps, nil
		}
	}
}

func cleanSteps(in []string) []string {
	out := make([]string, 0, MaxSteps)
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == MaxSteps {
			break
		}
	}
	return out
}

var (
	numberedRe = regexp.MustCompile(`^\d+\.`)
	markerRe   = regexp.MustCompile(`^[-*\d.]+\s*`)
)

// ParseSteps extracts list items from a model response. Lines starting with
// "- ", "* " or "N." count; their markers are stripped.
func ParseSteps(content string) []string {
	var steps []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "- ") && !strings.HasPrefix(line, "* ") && !numberedRe.MatchString(line) {
			continue
		}
		text := strings.TrimSpace(markerRe.ReplaceAllString(line, ""))
		if text != "" {
			steps = append(steps, text)
		}
	}
	return steps
}

// Prompt is the instruction sent to the chat model.
func Prompt(goal string) string {
	return fmt.Sprintf("Identify the type of project (e.g., Travel, Work, Study) from: '%s'. "+
		"Then generate a checklist of %d concrete, short steps for it. "+
		"Return only the steps as a bulleted list.", goal, MaxSteps)
}

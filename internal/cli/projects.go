package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ohare93/pacer/internal/app"
	"github.com/ohare93/pacer/internal/checklist"
	"github.com/ohare93/pacer/internal/dates"
	"github.com/ohare93/pacer/internal/intake"
	"github.com/ohare93/pacer/internal/project"
)

func newAddCmd(e *env) *cobra.Command {
	var (
		start, end, contextDate string
		tags, tasks             []string
	)

	cmd := &cobra.Command{
		Use:   "add <goal>",
		Short: "Plan a new project from a one-line goal",
		Long: `Create a project from a goal sentence.

Dates in the goal are picked up (11/3-11/8, 2月1日-2月19日, 2026-11-02,
"next friday"); without one the project runs for a week from today.
The checklist comes from the configured model, or from built-in templates
when no model is available. Hashtags and known tag words become tags.

Examples:
  pacer add "11/3-11/8 Trip to Kyoto #travel"
  pacer add "Finish thesis chapter" --end 2026-11-30
  pacer add "Move flat" --task "Book van" --task "Pack kitchen"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}

			req := intake.Request{Goal: strings.Join(args, " ")}
			if req.Start, err = optionalDay(start, "--start"); err != nil {
				return err
			}
			if req.End, err = optionalDay(end, "--end"); err != nil {
				return err
			}
			if req.ContextDate, err = optionalDay(contextDate, "--on"); err != nil {
				return err
			}
			if cmd.Flags().Changed("tag") {
				req.Tags = tags
			}
			for _, t := range tasks {
				req.Tasks = append(req.Tasks, project.NewTask(t))
			}

			res, err := a.AddProject(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Planned %s\n", StyleSuccess.Render("✓"), StyleID.Render(res.Project.ShortID()))
			printProject(out, res.Project, e.today())
			if res.Source == checklist.SourceTemplate && len(tasks) == 0 {
				fmt.Fprintln(out, StyleDim.Render("\nChecklist from templates."))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&contextDate, "on", "", "Calendar day the goal was written for (YYYY-MM-DD)")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Tags (replaces inferred tags)")
	cmd.Flags().StringArrayVar(&tasks, "task", nil, "Checklist item (repeatable; skips generation)")
	return cmd
}

func newListCmd(e *env) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:     "list [query]",
		Aliases: []string{"ls"},
		Short:   "List active projects, optionally filtered by goal or tag",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			}

			var projects []*project.Project
			if month != "" {
				m, err := time.ParseInLocation("2006-01", month, time.Local)
				if err != nil {
					return project.Invalidf("invalid --month %q (want YYYY-MM)", month)
				}
				inMonth, err := a.ProjectsInMonth(cmd.Context(), m.Year(), m.Month())
				if err != nil {
					return err
				}
				for _, p := range inMonth {
					if p.Matches(query) {
						projects = append(projects, p)
					}
				}
			} else if projects, err = a.ListProjects(cmd.Context(), query); err != nil {
				return err
			}

			printProjectTable(cmd.OutOrStdout(), projects, e.today())
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "Only projects overlapping this month (YYYY-MM)")
	return cmd
}

func newShowCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a project and its checklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			p, err := a.GetProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printProject(cmd.OutOrStdout(), p, e.today())
			return nil
		},
	}
}

func newCheckCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "check <id> <n>",
		Short: "Toggle checklist item n (1-based)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			taskID, err := taskAt(cmd.Context(), a, args[0], args[1])
			if err != nil {
				return err
			}

			p, task, err := a.ToggleTask(cmd.Context(), args[0], taskID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if task.Completed {
				fmt.Fprintf(out, "%s %s\n", StyleSuccess.Render("✓"), task.Task)
			} else {
				fmt.Fprintf(out, "↺ reopened: %s\n", task.Task)
			}
			fmt.Fprintf(out, "%d/%d done\n", p.DoneCount(), len(p.Tasks))
			if p.IsDone() {
				fmt.Fprintln(out, StyleSuccess.Render("Project complete!"))
				if p.Reward != "" {
					fmt.Fprintf(out, "Reward unlocked: %s\n", StyleReward.Render(p.Reward))
				}
			}
			return nil
		},
	}
}

func newTaskCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Add or remove checklist items",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <id> <text>",
		Short: "Append a checklist item",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			p, task, err := a.AddTask(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added item %d to %s: %s\n", len(p.Tasks), p.ShortID(), task.Task)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "rm <id> <n>",
		Aliases: []string{"remove"},
		Short:   "Remove checklist item n (1-based)",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			taskID, err := taskAt(cmd.Context(), a, args[0], args[1])
			if err != nil {
				return err
			}
			p, err := a.RemoveTask(cmd.Context(), args[0], taskID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed item %s from %s\n", args[1], p.ShortID())
			printTasks(cmd.OutOrStdout(), p)
			return nil
		},
	})
	return cmd
}

func newDatesCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "dates <id> <start> [end]",
		Short: "Change a project's date range (YYYY-MM-DD)",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			start, err := dates.ParseDay(args[1])
			if err != nil {
				return project.Invalidf("invalid start date %q: %v", args[1], err)
			}
			end := start
			if len(args) == 3 {
				if end, err = dates.ParseDay(args[2]); err != nil {
					return project.Invalidf("invalid end date %q: %v", args[2], err)
				}
			}
			p, err := a.SetDates(cmd.Context(), args[0], start, end)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now runs %s\n", p.ShortID(), formatRange(p))
			return nil
		},
	}
}

func newGoalCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "goal <id> <text>",
		Short: "Rename a project's goal",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			p, err := a.SetGoal(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", p.ShortID(), p.Goal)
			return nil
		},
	}
}

func newRewardCmd(e *env) *cobra.Command {
	var clearReward bool

	cmd := &cobra.Command{
		Use:   "reward <id> [text]",
		Short: "Set the reward unlocked when a project is finished",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !clearReward && len(args) < 2 {
				return project.Invalidf("reward text is required (or pass --clear)")
			}
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			text := ""
			if !clearReward {
				text = strings.Join(args[1:], " ")
			}
			p, err := a.SetReward(cmd.Context(), args[0], text)
			if err != nil {
				return err
			}
			if p.Reward == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared reward for %s\n", p.ShortID())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Reward for %s: %s\n", p.ShortID(), StyleReward.Render(p.Reward))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearReward, "clear", false, "Remove the reward")
	return cmd
}

// taskAt resolves a 1-based checklist position to a task id
func taskAt(ctx context.Context, a *app.App, ref, n string) (string, error) {
	idx, err := strconv.Atoi(n)
	if err != nil {
		return "", project.Invalidf("task number must be an integer, got %q", n)
	}
	p, err := a.GetProject(ctx, ref)
	if err != nil {
		return "", err
	}
	task, err := p.TaskByIndex(idx)
	if err != nil {
		return "", err
	}
	return task.ID, nil
}

func optionalDay(s, flag string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := dates.ParseDay(s)
	if err != nil {
		return nil, project.Invalidf("invalid %s %q: %v", flag, s, err)
	}
	return &d, nil
}

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ohare93/pacer/internal/dates"
	"github.com/ohare93/pacer/internal/project"
)

func newParseCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <text>",
		Short: "Preview the dates and tags pacer reads from a goal",
		Long: `Show the date range and tags that 'pacer add' would take from a goal,
without creating anything.

Examples:
  pacer parse "2/1-2/19 Travel"
  pacer parse "旅行 12月24日"
  pacer parse "gym every day until next friday #health"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := e.config()
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")

			ext := dates.NewExtractor()
			ext.Now = e.now
			ext.SpanDays = cfg.Intake.DefaultSpanDays
			start, end, matched := ext.Extract(text)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Start: %s\n", start.Format(dates.ISOLayout))
			fmt.Fprintf(out, "End:   %s\n", end.Format(dates.ISOLayout))
			if matched {
				fmt.Fprintf(out, "Span:  %d days\n", dates.DaysBetween(start, end)+1)
			} else {
				fmt.Fprintln(out, StyleDim.Render(fmt.Sprintf("No date found; defaulting to %d days from today.", dates.DaysBetween(start, end))))
			}

			known := project.DefaultTags
			if a, err := e.open(cmd.Context()); err == nil {
				if tags, err := a.Tags(cmd.Context()); err == nil {
					known = tags
				}
			}
			if tags := project.ExtractTags(text, known); len(tags) > 0 {
				fmt.Fprintf(out, "Tags:  %s\n", strings.Join(tags, ", "))
			}
			return nil
		},
	}
}

package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ohare93/pacer/internal/app"
	"github.com/ohare93/pacer/internal/dates"
	"github.com/ohare93/pacer/internal/project"
)

func newFocusCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Show focus time, overall and per project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			sessions, err := a.FocusSessions(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			total, byProject := app.FocusMinutes(sessions)
			fmt.Fprintf(out, "%d sessions, %s total\n", len(sessions), StyleHighlight.Render(formatMinutes(total)))
			if len(byProject) == 0 {
				return nil
			}

			projects, err := a.ListProjects(cmd.Context(), "")
			if err != nil {
				return err
			}
			for _, p := range projects {
				if m, ok := byProject[p.ID]; ok {
					fmt.Fprintf(out, "  %s  %-8s %s\n", StyleID.Render(fmt.Sprintf("%-8s", p.ShortID())), formatMinutes(m), p.Goal)
				}
			}
			return nil
		},
	}

	var ref string
	logCmd := &cobra.Command{
		Use:   "log <minutes>",
		Short: "Record a finished focus session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := strconv.Atoi(args[0])
			if err != nil {
				return project.Invalidf("minutes must be an integer, got %q", args[0])
			}
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			s, err := a.LogFocus(cmd.Context(), minutes, ref)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s on %s\n", formatMinutes(s.DurationMinutes), s.Date.Format(dates.ISOLayout))
			return nil
		},
	}
	logCmd.Flags().StringVarP(&ref, "project", "p", "", "Project the session was spent on")
	cmd.AddCommand(logCmd)
	return cmd
}

func formatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", m/60, m%60)
}

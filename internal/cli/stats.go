package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ohare93/pacer/internal/app"
	"github.com/ohare93/pacer/internal/dates"
	"github.com/ohare93/pacer/internal/metrics"
	"github.com/ohare93/pacer/internal/project"
)

// periodFlags are the review window flags shared by stats and export
type periodFlags struct {
	kind string
	from string
	to   string
}

func (f *periodFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "period", string(metrics.PeriodMonth), "Window: last7, month, year or custom")
	cmd.Flags().StringVar(&f.from, "from", "", "Custom window start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "Custom window end (YYYY-MM-DD)")
}

func (f *periodFlags) period(today time.Time) (metrics.Period, error) {
	kind, err := metrics.ParsePeriodKind(f.kind)
	if err != nil {
		return metrics.Period{}, project.Invalidf("%v", err)
	}
	var bounds []time.Time
	for _, v := range []string{f.from, f.to} {
		if v == "" {
			continue
		}
		d, err := dates.ParseDay(v)
		if err != nil {
			return metrics.Period{}, project.Invalidf("invalid date %q: %v", v, err)
		}
		bounds = append(bounds, d)
	}
	if len(bounds) > 0 && kind != metrics.PeriodCustom {
		return metrics.Period{}, project.Invalidf("--from and --to need --period custom")
	}
	return metrics.NewPeriod(kind, today, bounds...)
}

func newStatsCmd(e *env) *cobra.Command {
	var (
		pf   periodFlags
		year int
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Dashboard, period review and monthly load",
		Long: `Show the dashboard (active, planned, delayed and done projects, rhythm
score and time debt), a review of projects starting in the chosen period
compared with the one before, and how many projects overlap each month.

Examples:
  pacer stats
  pacer stats --period year
  pacer stats --period custom --from 2026-09-01 --to 2026-09-30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			period, err := pf.period(a.Today())
			if err != nil {
				return err
			}
			if year == 0 {
				year = a.Today().Year()
			}

			stats, err := a.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			review, err := a.Review(cmd.Context(), period)
			if err != nil {
				return err
			}
			density, err := a.MonthDensity(cmd.Context(), year)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printDashboard(out, stats)
			fmt.Fprintln(out)
			printReview(out, review)
			fmt.Fprintln(out)
			printDensity(out, year, density)
			return nil
		},
	}

	pf.register(cmd)
	cmd.Flags().IntVar(&year, "year", 0, "Year for the monthly load chart (default this year)")
	return cmd
}

func printDashboard(w io.Writer, s app.Stats) {
	c := s.Counts
	fmt.Fprintln(w, StyleHighlight.Render("Dashboard"))
	fmt.Fprintf(w, "  %s  %s  %s  %s  (%d total)\n",
		StyleActive.Render(fmt.Sprintf("%d active", c.Active)),
		StylePlanned.Render(fmt.Sprintf("%d planned", c.Planned)),
		StyleDelayed.Render(fmt.Sprintf("%d delayed", c.Delayed)),
		StyleComplete.Render(fmt.Sprintf("%d done", c.Done)),
		c.Total,
	)
	fmt.Fprintf(w, "  Rhythm score: %d/100\n", s.RhythmScore)
	debt := fmt.Sprintf("%d days", s.TimeDebt)
	if s.TimeDebt > 0 {
		debt = StyleDelayed.Render(debt)
	}
	fmt.Fprintf(w, "  Time debt:    %s\n", debt)
}

func printReview(w io.Writer, r app.Review) {
	fmt.Fprintln(w, StyleHighlight.Render("Review: "+r.Label))
	cur := r.Current
	if cur.Count == 0 {
		fmt.Fprintln(w, StyleDim.Render("  No projects started in this period."))
		return
	}

	var d *metrics.Review
	if r.Previous != nil {
		delta := cur.Delta(*r.Previous)
		d = &delta
	}
	fmt.Fprintf(w, "  Projects:     %d%s\n", cur.Count, deltaInt(d, func(x metrics.Review) int { return x.Count }))
	fmt.Fprintf(w, "  Avg progress: %d%%%s\n", metrics.Pct(cur.AvgProgress), deltaPct(d, func(x metrics.Review) float64 { return x.AvgProgress }))
	fmt.Fprintf(w, "  Early:        %d%%%s\n", metrics.Pct(cur.EarlyRate), deltaPct(d, func(x metrics.Review) float64 { return x.EarlyRate }))
	fmt.Fprintf(w, "  On time:      %d%%%s\n", metrics.Pct(cur.OnTimeRate), deltaPct(d, func(x metrics.Review) float64 { return x.OnTimeRate }))
	fmt.Fprintf(w, "  Delayed:      %d%%%s\n", metrics.Pct(cur.DelayRate), deltaPct(d, func(x metrics.Review) float64 { return x.DelayRate }))
	fmt.Fprintf(w, "  Avg delay:    %.1f days\n", cur.AvgDelayDays)

	parts := make([]string, 0, len(metrics.Outcomes))
	for _, o := range metrics.Outcomes {
		parts = append(parts, fmt.Sprintf("%s %d", o, r.Outcomes[o]))
	}
	fmt.Fprintf(w, "  Outcomes:     %s\n", strings.Join(parts, " · "))
	fmt.Fprintf(w, "  %s\n", r.Verdict)
}

func deltaInt(d *metrics.Review, f func(metrics.Review) int) string {
	if d == nil {
		return ""
	}
	return StyleDim.Render(fmt.Sprintf(" (%+d)", f(*d)))
}

func deltaPct(d *metrics.Review, f func(metrics.Review) float64) string {
	if d == nil {
		return ""
	}
	return StyleDim.Render(fmt.Sprintf(" (%+d pts)", metrics.Pct(f(*d))))
}

func printDensity(w io.Writer, year int, density [12]int) {
	fmt.Fprintln(w, StyleHighlight.Render(fmt.Sprintf("Monthly load %d", year)))
	for i, n := range density {
		bar := strings.Repeat("█", n)
		fmt.Fprintf(w, "  %s %-3d %s\n", time.Month(i+1).String()[:3], n, StyleActive.Render(bar))
	}
}

func newInsightsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Planning patterns and tips from your project history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			ins, err := a.Insights(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, s := range ins.Suggestions {
				fmt.Fprintln(out, StyleHighlight.Render(s.Title))
				if s.Description != "" {
					fmt.Fprintf(out, "  %s\n", s.Description)
				}
				if s.Tip != "" {
					fmt.Fprintf(out, "  %s\n", StyleDim.Render("Tip: "+s.Tip))
				}
			}
			return nil
		},
	}
}

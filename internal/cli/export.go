package cli

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ohare93/pacer/internal/project"
	"github.com/ohare93/pacer/internal/report"
)

func newExportCmd(e *env) *cobra.Command {
	var (
		pf     periodFlags
		format string
		output string
		backup bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a period report (CSV, JSON or YAML) or a full backup",
		Long: `Export the projects that started in a period as a flat report, one row
per project with dates, progress, status and time status.

By default the report is written to pacer_report_<period>.<format> in the
current directory. Use --output - to write to stdout.

--backup writes every project (binned ones included), tags and focus
sessions instead, as pacer.json (or YAML with --format yaml).

Examples:
  pacer export
  pacer export --period year --format json --output -
  pacer export --period custom --from 2026-09-01 --to 2026-09-30
  pacer export --backup`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}

			if backup && !cmd.Flags().Changed("format") {
				format = string(report.FormatJSON)
			}
			f, err := report.ParseFormat(format)
			if err != nil {
				return project.Invalidf("%v", err)
			}

			var buf bytes.Buffer
			name := ""
			if backup {
				b, err := a.Backup(cmd.Context())
				if err != nil {
					return err
				}
				if err := report.WriteBackup(&buf, b, f); err != nil {
					return project.Invalidf("%v", err)
				}
				name = strings.TrimSuffix(report.BackupFileName, ".json") + "." + string(f)
			} else {
				period, err := pf.period(a.Today())
				if err != nil {
					return err
				}
				rows, err := a.Report(cmd.Context(), period)
				if err != nil {
					return err
				}
				if err := report.Write(&buf, rows, f); err != nil {
					return err
				}
				name = report.FileName(period.Label(), f)
			}

			if output == "-" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if output == "" {
				output = name
			}
			if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
				return fmt.Errorf("failed to write export file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", output)
			return nil
		},
	}

	pf.register(cmd)
	cmd.Flags().StringVar(&format, "format", string(report.FormatCSV), "Output format: csv, json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, or - for stdout")
	cmd.Flags().BoolVar(&backup, "backup", false, "Export a full data backup instead of a report")
	return cmd
}

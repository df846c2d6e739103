package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ohare93/pacer/internal/dates"
)

func newDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Move a project to the bin",
		Long: `Move a project to the bin. Binned projects are hidden from listings and
statistics but keep their checklist; bring one back with 'pacer restore'.

Examples:
  pacer delete 3f2a
  pacer bin --empty`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			p, err := a.DeleteProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to the bin: %s\n", StyleID.Render(p.ShortID()), p.Goal)
			return nil
		},
	}
}

func newRestoreCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Bring a project back from the bin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			p, err := a.RestoreProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %s: %s\n", StyleID.Render(p.ShortID()), p.Goal)
			return nil
		},
	}
}

func newBinCmd(e *env) *cobra.Command {
	var (
		empty bool
		purge string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "bin",
		Short: "List binned projects, or purge them for good",
		Long: `List projects in the bin.

--purge <id> permanently removes one binned project and --empty removes all
of them. Both ask for confirmation unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if empty || purge != "" {
				prompt := "Permanently delete every project in the bin?"
				if purge != "" {
					prompt = fmt.Sprintf("Permanently delete binned project %s?", purge)
				}
				if !force {
					ok, err := e.confirm(prompt)
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(out, "Cancelled")
						return nil
					}
				}

				if purge != "" {
					if err := a.PurgeProject(cmd.Context(), purge); err != nil {
						return err
					}
					fmt.Fprintf(out, "Purged %s\n", purge)
					return nil
				}
				n, err := a.EmptyBin(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Emptied the bin (%d projects)\n", n)
				return nil
			}

			deleted, err := a.Deleted(cmd.Context())
			if err != nil {
				return err
			}
			if len(deleted) == 0 {
				fmt.Fprintln(out, StyleDim.Render("The bin is empty."))
				return nil
			}
			for _, p := range deleted {
				when := ""
				if p.DeletedAt != nil {
					when = StyleDim.Render(" (binned " + p.DeletedAt.Format(dates.ISOLayout) + ")")
				}
				fmt.Fprintf(out, " %s  %s%s\n", StyleID.Render(fmt.Sprintf("%-8s", p.ShortID())), p.Goal, when)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&empty, "empty", false, "Permanently delete every binned project")
	cmd.Flags().StringVar(&purge, "purge", "", "Permanently delete one binned project")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")
	cmd.MarkFlagsMutuallyExclusive("empty", "purge")
	return cmd
}

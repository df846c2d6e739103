package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTagsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tags",
		Aliases: []string{"tag"},
		Short:   "List and manage tags",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			tags, err := a.Tags(cmd.Context())
			if err != nil {
				return err
			}
			projects, err := a.ListProjects(cmd.Context(), "")
			if err != nil {
				return err
			}

			counts := make(map[string]int, len(tags))
			for _, p := range projects {
				for _, t := range p.Tags {
					counts[t]++
				}
			}
			out := cmd.OutOrStdout()
			if len(tags) == 0 {
				fmt.Fprintln(out, StyleDim.Render("No tags."))
			}
			for _, t := range tags {
				fmt.Fprintf(out, "  #%-16s %s\n", t, StyleDim.Render(fmt.Sprintf("%d active", counts[t])))
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Add a tag to the tag list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.AddTag(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added tag #%s\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "rename <old> <new>",
		Aliases: []string{"mv"},
		Short:   "Rename a tag everywhere, merging into an existing tag",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			n, err := a.RenameTag(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed #%s to #%s on %d projects\n", args[0], args[1], n)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"remove"},
		Short:   "Remove a tag from the list and from every project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			n, err := a.RemoveTag(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed #%s from %d projects\n", args[0], n)
			return nil
		},
	})
	return cmd
}

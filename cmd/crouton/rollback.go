package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/croutondev/crouton/compiler/gen"
)

func newRollbackCmd(root *rootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "rollback <layer> <collection>",
		Short: "Remove the files of the last generation run",
		Long: `rollback deletes exactly the files recorded in the collection's
manifest from the last run. Files added by hand are never touched.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := gen.Rollback(root.root, args[0], args[1], dryRun)
			if err != nil {
				return err
			}
			prefix := color.New(color.FgRed).Sprint("removed")
			if dryRun {
				prefix = color.New(color.FgYellow).Sprint("would remove")
			}
			for _, p := range paths {
				fmt.Println(prefix, p)
			}
			fmt.Printf("%d files\n", len(paths))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list without deleting")
	return cmd
}

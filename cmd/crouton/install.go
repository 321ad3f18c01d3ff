package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newInstallCmd(root *rootOptions) *cobra.Command {
	var skipGenerate bool

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Scaffold a host project and run a first generation",
		Long: `install writes the starter config and schema (like init), creates the
layer directory tree and generates the sample collection so a fresh
project has working artifacts to read from the start.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd.Context(), root, skipGenerate)
		},
	}
	cmd.Flags().BoolVar(&skipGenerate, "skip-generate", false, "scaffold only, do not generate the sample")
	return cmd
}

func runInstall(ctx context.Context, root *rootOptions, skipGenerate bool) error {
	if _, err := os.Stat(root.configFile); err != nil {
		if err := runInit(root); err != nil {
			return err
		}
	} else {
		fmt.Println(color.YellowString("keeping"), root.configFile)
	}
	if err := os.MkdirAll(root.root, 0o755); err != nil {
		return err
	}
	if skipGenerate {
		return nil
	}
	opts := &generateOptions{rootOptions: root}
	report, err := generateOnce(ctx, opts, nil)
	if err != nil {
		return err
	}
	printReport(opts, report)
	return nil
}

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/croutondev/crouton/compiler/load"
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	var only string

	cmd := &cobra.Command{
		Use:   "config [path]",
		Short: "Validate and display the resolved project config",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := root.configFile
			if len(args) == 1 {
				path = args[0]
			}
			return runConfig(path, only)
		},
	}
	cmd.Flags().StringVar(&only, "only", "", "show a single collection")
	return cmd
}

func runConfig(path, only string) error {
	pc, err := load.LoadConfig(path)
	if err != nil {
		return err
	}
	cols, err := pc.Load()
	if err != nil {
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	fmt.Println(bold("config:"), path)
	fmt.Println(bold("dialect:"), pc.Dialect)
	fmt.Println(bold("teams:"), pc.Flags.UseTeamUtility, bold(" metadata:"), pc.Flags.UseMetadata)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Layer", "Collection", "Fields", "Flags"})
	table.SetBorder(false)
	matched := false
	for _, c := range cols {
		if only != "" && c.Name != only {
			continue
		}
		matched = true
		table.Append([]string{c.Layer, c.Name, strconv.Itoa(len(c.Fields)), collectionFlags(c)})
	}
	if only != "" && !matched {
		return fmt.Errorf("collection %q is not part of any target", only)
	}
	table.Render()
	return nil
}

func collectionFlags(c *load.Collection) string {
	var flags []string
	if c.Hierarchy {
		flags = append(flags, "hierarchy")
	}
	if c.Sortable {
		flags = append(flags, "sortable")
	}
	if c.Translatable() {
		flags = append(flags, fmt.Sprintf("translations(%s)", strings.Join(c.TranslationFields, ",")))
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, " ")
}

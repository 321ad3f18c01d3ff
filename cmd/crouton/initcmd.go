package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const starterConfig = `# crouton project config
dialect: sqlite
flags:
  useTeamUtility: false
  useMetadata: true
collections:
  - name: tasks
    fieldsFile: schemas/tasks.json
targets:
  - layer: todo
    collections: [tasks]
`

const starterSchema = `{
  "title": {
    "type": "string",
    "meta": { "required": true, "maxLength": 255 }
  },
  "done": {
    "type": "boolean"
  },
  "dueDate": {
    "type": "date"
  }
}
`

func newInitCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a starter config and example schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(root)
		},
	}
}

func runInit(root *rootOptions) error {
	if _, err := os.Stat(root.configFile); err == nil {
		return fmt.Errorf("%s already exists", root.configFile)
	}
	schemaPath := filepath.Join(filepath.Dir(root.configFile), "schemas", "tasks.json")
	if err := os.MkdirAll(filepath.Dir(schemaPath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(root.configFile, []byte(starterConfig), 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(schemaPath, []byte(starterSchema), 0o644); err != nil {
		return err
	}
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Println(green("created"), root.configFile)
	fmt.Println(green("created"), schemaPath)
	fmt.Println("next: edit the schema, then run: crouton generate")
	return nil
}

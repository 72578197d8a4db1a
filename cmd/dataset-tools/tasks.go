// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/dataset-tools/internal/tasks"
	"github.com/pdiddy/dataset-tools/pkg/types"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks [name]",
	Short: "List the available tasks or print one task's definition",
	Long: `Tasks lists the built-in tasks and those loaded from the configured
task file. With a task name it prints that task's definition as YAML, in the
format accepted by --tasks-file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTasks,
}

func init() {
	rootCmd.AddCommand(tasksCmd)
}

func runTasks(cmd *cobra.Command, args []string) error {
	r, err := registry()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		task, err := r.Get(args[0])
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(tasks.File{Tasks: []types.Task{task}}); err != nil {
			return fmt.Errorf("encoding task %s: %w", task.Name, err)
		}
		return enc.Close()
	}

	list := r.List()
	fmt.Fprintf(out, "%-26s  %-6s  %-18s  %s\n", "Name", "Kind", "Output", "Description")
	fmt.Fprintln(out, strings.Repeat("-", 100))
	for _, t := range list {
		output := t.Sink.Path
		if output == "" {
			output = "(" + string(t.Sink.Format) + ")"
		}
		fmt.Fprintf(out, "%-26s  %-6s  %-18s  %s\n", t.Name, t.Kind, output, t.Description)
	}
	fmt.Fprintf(out, "\n%d tasks\n", len(list))
	return nil
}

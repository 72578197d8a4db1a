// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/dataset-tools/internal/compress"
	"github.com/pdiddy/dataset-tools/internal/pipeline"
	"github.com/pdiddy/dataset-tools/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run <task> [inputs...]",
	Short: "Run a conversion task",
	Long: `Run reads the task's input files, transforms every row, groups or
tabulates the records, and writes the result. Inputs given on the command
line replace the task's configured files; arguments containing glob
characters are expanded recursively ("wiki/**/*.md").

Nothing is written when any input row is malformed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTask,
}

func init() {
	runCmd.Flags().String("output", "", "output path (default: the task's configured path)")
	runCmd.Flags().String("format", "", "output format: json, csv, yaml, or sqlite")
	runCmd.Flags().Bool("compress", false, "compress the output with gzip or pigz")

	rootCmd.AddCommand(runCmd)
}

func runTask(cmd *cobra.Command, args []string) error {
	r, err := registry()
	if err != nil {
		return err
	}
	task, err := r.Get(args[0])
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output != "" {
		task.Sink.Path = output
	}
	if format, _ := cmd.Flags().GetString("format"); format != "" {
		task.Sink.Format = types.SinkFormat(format)
		if output == "" && task.Sink.Path != "" {
			task.Sink.Path = pipeline.WithFormat(task.Sink.Path, task.Sink.Format)
		}
	}
	if cmd.Flags().Changed("compress") {
		task.Sink.Compress, _ = cmd.Flags().GetBool("compress")
	}

	switch {
	case task.Sink.Format == types.SinkSQLite && output == "":
		task.Sink.Path = settings.Catalog
	case task.Sink.Path == "":
		task.Sink.Path = outputPath(pipeline.DefaultPath(task))
	default:
		task.Sink.Path = outputPath(task.Sink.Path)
	}

	runner := &pipeline.Runner{Log: logger}
	if task.Sink.Compress && task.Sink.Format != types.SinkSQLite {
		c, err := compress.Detect(settings.Compressor)
		if err != nil {
			return err
		}
		runner.Compressor = c
	}

	res, err := runner.Run(context.Background(), task, args[1:])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d rows from %d file(s), %d records, %d keys written to %s\n",
		res.Task, res.Rows, len(res.Files), res.Records, res.Keys, res.Output)
	if res.Artifact != "" {
		fmt.Fprintf(out, "%s: compressed to %s\n", res.Task, res.Artifact)
	}
	return nil
}

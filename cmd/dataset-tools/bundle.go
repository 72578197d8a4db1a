// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/dataset-tools/internal/bundle"
	"github.com/pdiddy/dataset-tools/internal/compress"
)

var bundleCmd = &cobra.Command{
	Use:   "bundle <dir>",
	Short: "Combine every task JSON file under a directory into one dataset",
	Long: `Bundle finds the task files under dir (recursively, sorted by path),
adds an "id" member holding each file's base name, and writes them as
task-0, task-1, ... to a single JSON file. The file is then compressed with
gzip, or pigz when gzip is not installed.`,
	Args: cobra.ExactArgs(1),
	RunE: runBundle,
}

func init() {
	bundleCmd.Flags().String("pattern", bundle.DefaultPattern, "glob matched below dir")
	bundleCmd.Flags().String("output", bundle.DefaultOutput, "combined dataset path")
	bundleCmd.Flags().Bool("no-compress", false, "skip compression")

	rootCmd.AddCommand(bundleCmd)
}

func runBundle(cmd *cobra.Command, args []string) error {
	pattern, _ := cmd.Flags().GetString("pattern")
	output, _ := cmd.Flags().GetString("output")
	noCompress, _ := cmd.Flags().GetBool("no-compress")

	opts := bundle.Options{
		Dir:     args[0],
		Pattern: pattern,
		Output:  outputPath(output),
	}
	if !noCompress {
		c, err := compress.Detect(settings.Compressor)
		if err != nil {
			return err
		}
		opts.Compressor = c
	}

	res, err := bundle.Run(opts, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Combined %d task files into %s\n", res.Tasks, res.Output)
	if res.Artifact != "" {
		fmt.Fprintf(out, "Compressed to %s\n", res.Artifact)
	}
	return nil
}

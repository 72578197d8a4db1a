// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/dataset-tools/internal/catalog"
	"github.com/pdiddy/dataset-tools/internal/sink"
	"github.com/pdiddy/dataset-tools/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect task outputs recorded in the SQLite catalog",
	Long: `Catalog reads the SQLite database written by tasks run with
--format sqlite. Use subcommands to list recorded runs or print the latest
output of a task.`,
}

// --- list subcommand ---

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runCatalogList,
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	store, err := catalog.Open(settings.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Runs(context.Background())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No recorded runs.")
		return nil
	}
	fmt.Fprintf(out, "%-36s  %-26s  %-20s  %5s  %5s\n", "Run", "Task", "Created", "Keys", "IDs")
	fmt.Fprintln(out, strings.Repeat("-", 100))
	for _, r := range runs {
		fmt.Fprintf(out, "%-36s  %-26s  %-20s  %5d  %5d\n",
			r.ID, r.Task, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Keys, r.IDs)
	}
	return nil
}

// --- show subcommand ---

var catalogShowCmd = &cobra.Command{
	Use:   "show <task>",
	Short: "Print or export the latest recorded output of a task",
	Long: `Show prints the most recent output recorded for a task. With --output
the output is written to a file instead, in any format the run command
supports except sqlite.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogShow,
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	store, err := catalog.Open(settings.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	run, m, err := store.Latest(context.Background(), args[0])
	if err != nil {
		return err
	}
	logger.Debug("latest run loaded",
		zap.String("run", run.ID),
		zap.String("task", run.Task),
		zap.Time("created_at", run.CreatedAt))

	if output != "" {
		cfg := types.SinkConfig{Format: types.SinkFormat(format), Path: outputPath(output)}
		if cfg.Format == types.SinkSQLite {
			return fmt.Errorf("cannot export to sqlite: use the catalog directly")
		}
		if err := sink.WriteMap(context.Background(), cfg, run.Task, m); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", run.Task, cfg.Path)
		return nil
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json", "":
		return sink.EncodeJSON(out, m)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q: use json or yaml, or --output for csv", format)
	}
}

func init() {
	catalogShowCmd.Flags().String("format", "json", "output format: json or yaml (csv with --output)")
	catalogShowCmd.Flags().String("output", "", "write to this file instead of stdout")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	rootCmd.AddCommand(catalogCmd)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the dataset-tools CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/dataset-tools/internal/logging"
	"github.com/pdiddy/dataset-tools/internal/tasks"
	"github.com/pdiddy/dataset-tools/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// logger is built from settings before any subcommand runs.
	logger = zap.NewNop()

	// settings holds the merged config file, environment and flag values.
	settings types.Settings
)

// rootCmd is the base command for the dataset-tools CLI.
var rootCmd = &cobra.Command{
	Use:   "dataset-tools",
	Short: "Convert and bundle metadata for the ARC dataset collection",
	Long: `dataset-tools converts dataset metadata between CSV, Markdown tables,
JSON and YAML, and bundles task files into a single compressed dataset.

Each conversion is a task: a declarative description of the source files,
the field transforms, the grouping rule and the output. Built-in tasks cover
the parapraxis, task tagging and ice-dsl conversions; more can be loaded
from a YAML task file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.Unmarshal(&settings); err != nil {
			return fmt.Errorf("reading settings: %w", err)
		}
		l, err := logging.New(settings.Log.Level, settings.Log.Format)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	viper.SetDefault("output_dir", ".")
	viper.SetDefault("catalog", "catalog.db")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", logging.FormatConsole)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./dataset-tools.yaml or ~/.config/dataset-tools/config.yaml)")
	pf.String("output-dir", "", "directory for relative output paths")
	pf.String("tasks-file", "", "YAML file with additional task definitions")
	pf.String("catalog", "", "SQLite catalog database")
	pf.String("compressor", "", "compression binary: gzip or pigz (default: detect)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: console or json")

	for key, flag := range map[string]string{
		"output_dir": "output-dir",
		"tasks_file": "tasks-file",
		"catalog":    "catalog",
		"compressor": "compressor",
		"log.level":  "log-level",
		"log.format": "log-format",
	} {
		if err := viper.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("dataset-tools")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "dataset-tools"))
		}
	}

	viper.SetEnvPrefix("DATASET_TOOLS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// registry returns the built-in tasks merged with the configured task file.
func registry() (*tasks.Registry, error) {
	r := tasks.Builtin()
	if settings.TasksFile != "" {
		if err := r.LoadInto(settings.TasksFile); err != nil {
			return nil, err
		}
		logger.Debug("task file loaded", zap.String("path", settings.TasksFile))
	}
	return r, nil
}

// outputPath places a relative path under the configured output directory.
func outputPath(path string) string {
	if path == "" || filepath.IsAbs(path) || settings.OutputDir == "" {
		return path
	}
	return filepath.Join(settings.OutputDir, path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

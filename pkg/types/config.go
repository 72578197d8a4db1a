// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is json or console (default console).
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Settings holds the CLI configuration read from dataset-tools.yaml and
// DATASET_TOOLS_* environment variables.
type Settings struct {
	// OutputDir is prepended to relative sink paths (default ".").
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// TasksFile is an optional YAML file with extra task definitions.
	TasksFile string `json:"tasks_file,omitempty" yaml:"tasks_file,omitempty" mapstructure:"tasks_file"`

	// Catalog is the SQLite database used by the sqlite sink and the
	// catalog subcommands (default "catalog.db").
	Catalog string `json:"catalog" yaml:"catalog" mapstructure:"catalog"`

	// Compressor forces the compression binary (gzip or pigz). Empty means
	// detect.
	Compressor string `json:"compressor,omitempty" yaml:"compressor,omitempty" mapstructure:"compressor"`

	Log LogConfig `json:"log" yaml:"log" mapstructure:"log"`
}

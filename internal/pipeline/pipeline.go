// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one task end to end: read every input row,
// transform the rows into records, aggregate the records, and write the
// result. All input is consumed before anything is written, so an error
// in any input leaves the destination untouched.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/dataset-tools/internal/aggregate"
	"github.com/pdiddy/dataset-tools/internal/compress"
	"github.com/pdiddy/dataset-tools/internal/source"
	"github.com/pdiddy/dataset-tools/internal/sink"
	"github.com/pdiddy/dataset-tools/internal/tasks"
	"github.com/pdiddy/dataset-tools/internal/transform"
	"github.com/pdiddy/dataset-tools/pkg/types"
)

// globMeta holds the characters that mark an input as a pattern.
const globMeta = "*?[{"

// Result summarizes a task run.
type Result struct {
	Task string

	// Files lists the inputs read, in order.
	Files []string

	// Rows is the number of source rows read.
	Rows int

	// Records is the number of records kept after filtering.
	Records int

	// Keys is the number of buckets (group tasks) or rows (table tasks)
	// written.
	Keys int

	// Output is the written file, or the catalog database for sqlite.
	Output string

	// Artifact is the compressed file when compression ran.
	Artifact string
}

// Runner runs tasks. The zero value logs nothing and detects a compressor
// on first use.
type Runner struct {
	Log *zap.Logger

	// Compressor is used for tasks whose sink asks for compression.
	Compressor compress.Compressor
}

// Run runs task with a default Runner.
func Run(ctx context.Context, task types.Task, inputs []string, log *zap.Logger) (Result, error) {
	r := &Runner{Log: log}
	return r.Run(ctx, task, inputs)
}

// Run executes task. Non-empty inputs replace the task's configured paths
// and patterns; an input containing glob characters is treated as a
// pattern.
func (r *Runner) Run(ctx context.Context, task types.Task, inputs []string) (Result, error) {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	res := Result{Task: task.Name}

	if err := tasks.Validate(task); err != nil {
		return res, err
	}

	paths, patterns := task.Source.Paths, task.Source.Patterns
	if len(inputs) > 0 {
		paths, patterns = splitInputs(inputs)
	}
	files, err := source.Discover(paths, patterns)
	if err != nil {
		return res, fmt.Errorf("task %s: %w", task.Name, err)
	}
	res.Files = files
	log.Debug("inputs resolved", zap.String("task", task.Name), zap.Strings("files", files))

	rows, err := source.ReadAll(task.Source, files)
	if err != nil {
		return res, err
	}
	res.Rows = len(rows)

	tr, err := transform.New(task)
	if err != nil {
		return res, err
	}

	cfg := task.Sink
	if cfg.Path == "" {
		cfg.Path = DefaultPath(task)
	}

	switch task.Kind {
	case types.TaskGroup:
		m, n, err := group(tr, task.Group, rows)
		if err != nil {
			return res, err
		}
		res.Records, res.Keys = n, m.Len()
		if err := sink.WriteMap(ctx, cfg, task.Name, m); err != nil {
			return res, err
		}
	case types.TaskTable:
		t, n, err := table(tr, task.Table, rows)
		if err != nil {
			return res, err
		}
		res.Records, res.Keys = n, t.Len()
		if err := sink.WriteTable(cfg, t); err != nil {
			return res, err
		}
	}
	res.Output = cfg.Path
	log.Info("task output written",
		zap.String("task", task.Name),
		zap.String("path", cfg.Path),
		zap.Int("rows", res.Rows),
		zap.Int("records", res.Records),
		zap.Int("keys", res.Keys))

	if !cfg.Compress || cfg.Format == types.SinkSQLite {
		return res, nil
	}
	c := r.Compressor
	if c == nil {
		if c, err = compress.Detect(""); err != nil {
			return res, err
		}
	}
	artifact, err := c.Compress(cfg.Path)
	if err != nil {
		return res, err
	}
	res.Artifact = artifact
	log.Info("output compressed", zap.String("compressor", c.Name()), zap.String("path", artifact))
	return res, nil
}

func group(tr *transform.Transformer, cfg types.GroupConfig, rows []types.Row) (*aggregate.Map, int, error) {
	m := aggregate.New(cfg.KeyOrder, cfg.IDOrder)
	if cfg.By == types.GroupBySplit {
		m.Declare(cfg.UnmatchedKey, cfg.MatchedKey)
	}

	n := 0
	for _, row := range rows {
		rec, keep, err := tr.Apply(row)
		if err != nil {
			return nil, 0, err
		}
		if !keep {
			continue
		}
		n++
		pairs, err := transform.Pairs(rec, cfg)
		if err != nil {
			return nil, 0, err
		}
		for _, p := range pairs {
			m.Add(p.Key, p.ID)
		}
	}
	m.Finalize()
	return m, n, nil
}

func table(tr *transform.Transformer, cfg types.TableConfig, rows []types.Row) (*aggregate.Table, int, error) {
	var names []string
	if len(rows) > 0 {
		names = rows[0].Names()
	}
	t, err := aggregate.NewTable(tr.Columns(names), cfg)
	if err != nil {
		return nil, 0, err
	}

	n := 0
	for _, row := range rows {
		rec, keep, err := tr.Apply(row)
		if err != nil {
			return nil, 0, err
		}
		if !keep {
			continue
		}
		n++
		if err := t.Append(rec); err != nil {
			return nil, 0, err
		}
	}
	return t, n, nil
}

func splitInputs(inputs []string) (paths, patterns []string) {
	for _, in := range inputs {
		if strings.ContainsAny(in, globMeta) {
			patterns = append(patterns, in)
		} else {
			paths = append(paths, in)
		}
	}
	return paths, patterns
}

// DefaultPath names the output after the task: "<name>.<format>", with
// tables defaulting to CSV and maps to JSON.
func DefaultPath(task types.Task) string {
	format := task.Sink.Format
	if format == "" {
		format = types.SinkJSON
		if task.Kind == types.TaskTable {
			format = types.SinkCSV
		}
	}
	return filepath.Clean(task.Name + "." + extension(format))
}

// WithFormat replaces the extension of path with the one for format.
// A path without an extension gains one.
func WithFormat(path string, format types.SinkFormat) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + extension(format)
}

func extension(format types.SinkFormat) string {
	if format == types.SinkSQLite {
		return "db"
	}
	return string(format)
}

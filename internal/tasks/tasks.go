// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tasks holds the registry of conversion tasks: the built-in
// presets plus tasks loaded from YAML files.
package tasks

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/dataset-tools/internal/aggregate"
	"github.com/pdiddy/dataset-tools/pkg/types"
)

// ErrUnknownTask is returned by Get for a name that is not registered.
var ErrUnknownTask = errors.New("unknown task")

// File is the on-disk representation of a task file.
type File struct {
	Tasks []types.Task `yaml:"tasks"`
}

// Registry maps task names to tasks.
type Registry struct {
	tasks map[string]types.Task
}

// Builtin returns a registry holding the built-in presets.
func Builtin() *Registry {
	r := &Registry{tasks: make(map[string]types.Task)}
	for _, t := range builtins() {
		r.tasks[t.Name] = t
	}
	return r
}

// Add validates task and registers it, replacing any task of the same name.
func (r *Registry) Add(task types.Task) error {
	if err := Validate(task); err != nil {
		return err
	}
	r.tasks[task.Name] = task
	return nil
}

// Get returns the task registered under name.
func (r *Registry) Get(name string) (types.Task, error) {
	t, ok := r.tasks[name]
	if !ok {
		return types.Task{}, fmt.Errorf("%w %q", ErrUnknownTask, name)
	}
	return t, nil
}

// List returns every registered task sorted by name.
func (r *Registry) List() []types.Task {
	out := make([]types.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b types.Task) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// LoadInto reads the task file at path and adds its tasks to r. Loaded
// tasks override built-ins of the same name.
func (r *Registry) LoadInto(path string) error {
	loaded, err := Load(path)
	if err != nil {
		return err
	}
	for _, t := range loaded {
		if err := r.Add(t); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

// Load reads a YAML task file. Every task is validated; names must be
// unique within the file.
func Load(path string) ([]types.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading task file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing task file %s: %w", path, err)
	}

	seen := make(map[string]bool, len(f.Tasks))
	for _, t := range f.Tasks {
		if err := Validate(t); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if seen[t.Name] {
			return nil, fmt.Errorf("%s: task %s defined twice", path, t.Name)
		}
		seen[t.Name] = true
	}
	return f.Tasks, nil
}

// Validate checks that task names a known kind, source format, grouping
// rule and sink format, and that the options each of them requires are set.
func Validate(task types.Task) error {
	if task.Name == "" {
		return fmt.Errorf("task without a name")
	}
	errf := func(format string, args ...any) error {
		return fmt.Errorf("task %s: "+format, append([]any{task.Name}, args...)...)
	}

	switch task.Source.Format {
	case types.FormatDelimited:
	case types.FormatPipeTable:
		if len(task.Source.Columns) == 0 {
			return errf("pipe-table source needs column positions")
		}
	default:
		return errf("unknown source format %q", task.Source.Format)
	}

	if len(task.Fields) == 0 && !task.KeepRest {
		return errf("no fields selected")
	}
	for _, f := range task.Fields {
		if f.Name == "" {
			return errf("field without a name")
		}
	}
	for _, w := range task.Where {
		if (w.Equals == nil) == (w.NotEquals == nil) {
			return errf("where clause on %s needs exactly one of equals and not_equals", w.Field)
		}
	}

	switch task.Kind {
	case types.TaskGroup:
		if err := validateGroup(task.Group); err != nil {
			return errf("%w", err)
		}
		switch task.Sink.Format {
		case "", types.SinkJSON, types.SinkYAML, types.SinkCSV, types.SinkSQLite:
		default:
			return errf("unknown sink format %q", task.Sink.Format)
		}
	case types.TaskTable:
		if !aggregate.ValidOrder(task.Table.Order) {
			return errf("unknown table order %q", task.Table.Order)
		}
		switch task.Sink.Format {
		case "", types.SinkJSON, types.SinkYAML, types.SinkCSV:
		default:
			return errf("sink format %q does not support tables", task.Sink.Format)
		}
	default:
		return errf("unknown kind %q", task.Kind)
	}
	return nil
}

func validateGroup(g types.GroupConfig) error {
	switch g.By {
	case types.GroupByColumn:
		if g.Column == "" {
			return fmt.Errorf("group by column needs a column")
		}
	case types.GroupByFlags:
	case types.GroupBySplit:
		if g.Column == "" || g.Sentinel == "" {
			return fmt.Errorf("group by split needs a column and a sentinel")
		}
		if g.MatchedKey == "" || g.UnmatchedKey == "" || g.MatchedKey == g.UnmatchedKey {
			return fmt.Errorf("group by split needs distinct matched and unmatched keys")
		}
	default:
		return fmt.Errorf("unknown grouping %q", g.By)
	}
	if !aggregate.ValidOrder(g.KeyOrder) {
		return fmt.Errorf("unknown key order %q", g.KeyOrder)
	}
	if !aggregate.ValidOrder(g.IDOrder) {
		return fmt.Errorf("unknown id order %q", g.IDOrder)
	}
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bundle combines a directory of task JSON files into one dataset
// file and hands it to an external compressor.
package bundle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/pdiddy/dataset-tools/internal/compress"
	"github.com/pdiddy/dataset-tools/internal/sink"
)

const (
	// DefaultPattern matches every task file below the dataset directory.
	DefaultPattern = "**/*.json"

	// DefaultOutput is the file name of the combined dataset.
	DefaultOutput = "dataset.json"

	keyPrefix = "task-"
	idMember  = "id"
)

// Dataset is the combined dataset: task-0, task-1, ... in file order.
type Dataset struct {
	tasks object
}

// Len returns the number of tasks.
func (d *Dataset) Len() int { return len(d.tasks) }

// MarshalJSON encodes the dataset with its keys in index order.
func (d *Dataset) MarshalJSON() ([]byte, error) {
	if d.tasks == nil {
		return []byte("{}"), nil
	}
	return d.tasks.MarshalJSON()
}

// Build reads files in the given order. Each file must hold a JSON object;
// it gains an "id" member set to the file's base name without ".json" and
// is stored under "task-<index>". A file that does not parse stops the
// build with an error naming the path.
func Build(files []string) (*Dataset, error) {
	d := &Dataset{}
	for i, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		task, err := decodeObject(data)
		if err != nil {
			return nil, fmt.Errorf("problem parsing json file at path %s: %w", path, err)
		}

		id, err := json.Marshal(TaskID(path))
		if err != nil {
			return nil, err
		}
		task = task.set(idMember, id)

		value, err := task.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", path, err)
		}
		d.tasks = append(d.tasks, member{key: keyPrefix + strconv.Itoa(i), value: value})
	}
	return d, nil
}

// Write writes the dataset to path as indented JSON, replacing any
// existing file atomically.
func Write(path string, d *Dataset) error {
	return sink.WriteJSON(path, d)
}

// TaskID derives a task identifier from a file path.
func TaskID(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".json")
}

// Options configures Run.
type Options struct {
	// Dir is the dataset directory searched for task files.
	Dir string

	// Pattern is matched below Dir (default DefaultPattern).
	Pattern string

	// Output is the combined file path (default DefaultOutput).
	Output string

	// Compressor compresses Output after it is written. Nil skips
	// compression.
	Compressor compress.Compressor
}

// Result summarizes a bundle run.
type Result struct {
	Tasks    int
	Output   string
	Artifact string
}

// Discover returns the regular files below dir matching pattern, sorted.
// The pattern is matched relative to dir, so glob characters in dir itself
// are taken literally. A directory with no matches yields an empty list.
func Discover(dir, pattern string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), pattern)
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", pattern, err)
	}
	var files []string
	for _, m := range matches {
		path := filepath.Join(dir, filepath.FromSlash(m))
		if fi, err := os.Lstat(path); err == nil && fi.Mode().IsRegular() {
			files = append(files, path)
		}
	}
	slices.Sort(files)
	return files, nil
}

// Run discovers the task files under opts.Dir in sorted order, writes the
// combined dataset, and compresses it. A directory without task files
// produces an empty dataset.
func Run(opts Options, log *zap.Logger) (Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	pattern := opts.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	output := opts.Output
	if output == "" {
		output = DefaultOutput
	}

	files, err := Discover(opts.Dir, pattern)
	if err != nil {
		return Result{}, fmt.Errorf("discovering task files in %s: %w", opts.Dir, err)
	}
	log.Debug("discovered task files", zap.String("dir", opts.Dir), zap.Int("files", len(files)))

	d, err := Build(files)
	if err != nil {
		return Result{}, err
	}
	if err := Write(output, d); err != nil {
		return Result{}, err
	}
	log.Info("combined dataset written", zap.String("path", output), zap.Int("tasks", d.Len()))

	res := Result{Tasks: d.Len(), Output: output}
	if opts.Compressor == nil {
		return res, nil
	}

	artifact, err := opts.Compressor.Compress(output)
	if err != nil {
		return res, err
	}
	log.Info("dataset compressed", zap.String("compressor", opts.Compressor.Name()), zap.String("path", artifact))
	res.Artifact = artifact
	return res, nil
}

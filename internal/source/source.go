// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source reads delimited text and Markdown pipe tables into rows.
//
// Delimited sources are looked up by header name; pipe tables are looked up
// by fixed column position. A task picks one contract and the reader never
// falls back to the other.
package source

import (
	"fmt"
	"iter"
	"os"

	"github.com/pdiddy/dataset-tools/pkg/types"
)

const (
	defaultDelimiter      = ","
	defaultPipeDelimiter  = "|"
	defaultPipeSkipLines  = 2
	maxLineBytes          = 1024 * 1024 // 1MB
	unnamedColumnTemplate = "Unnamed: %d"
)

// Read returns the rows of the file at path in source order. The file is
// read into memory on the first iteration; the sequence stops at the first
// error, which is always fatal for the caller.
func Read(cfg types.SourceConfig, path string) iter.Seq2[types.Row, error] {
	return func(yield func(types.Row, error) bool) {
		data, err := os.ReadFile(path)
		if err != nil {
			yield(types.Row{}, fmt.Errorf("reading %s: %w", path, err))
			return
		}

		switch cfg.Format {
		case types.FormatDelimited, "":
			readDelimited(cfg, path, data, yield)
		case types.FormatPipeTable:
			readPipeTable(cfg, path, data, yield)
		default:
			yield(types.Row{}, fmt.Errorf("unsupported source format %q", cfg.Format))
		}
	}
}

// ReadAll reads every path in order and returns the concatenated rows.
func ReadAll(cfg types.SourceConfig, paths []string) ([]types.Row, error) {
	var rows []types.Row
	for _, p := range paths {
		for row, err := range Read(cfg, p) {
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func malformed(path string, line int, format string, args ...any) error {
	return fmt.Errorf("%s:%d: %w: %s", path, line, types.ErrMalformedInput, fmt.Sprintf(format, args...))
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"bufio"
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/pdiddy/dataset-tools/pkg/types"
)

// readPipeTable skips the leading header lines, splits every other line on
// the delimiter, and maps the configured positions to field names. With the
// usual "| a | b |" layout position 0 is the empty cell before the first
// pipe.
func readPipeTable(cfg types.SourceConfig, path string, data []byte, yield func(types.Row, error) bool) {
	if len(cfg.Columns) == 0 {
		yield(types.Row{}, fmt.Errorf("pipe-table source %s: no column positions configured", path))
		return
	}

	delim := cfg.Delimiter
	if delim == "" {
		delim = defaultPipeDelimiter
	}
	skip := defaultPipeSkipLines
	if cfg.SkipLines != nil {
		skip = *cfg.SkipLines
	}

	positions := make([]int, 0, len(cfg.Columns))
	for pos := range cfg.Columns {
		if pos < 0 {
			yield(types.Row{}, fmt.Errorf("pipe-table source %s: negative column position %d", path, pos))
			return
		}
		positions = append(positions, pos)
	}
	slices.Sort(positions)
	need := positions[len(positions)-1] + 1

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for line := 1; scanner.Scan(); line++ {
		if line <= skip {
			continue
		}

		cols := strings.Split(scanner.Text(), delim)
		if len(cols) < need {
			yield(types.Row{}, malformed(path, line, "expected at least %d columns, got %d", need, len(cols)))
			return
		}

		row := types.Row{Source: path, Line: line, Fields: make([]types.Field, len(positions))}
		for i, pos := range positions {
			row.Fields[i] = types.Field{
				Name:  cfg.Columns[pos],
				Value: strings.TrimSpace(cols[pos]),
			}
		}
		if !yield(row, nil) {
			return
		}
	}
	if err := scanner.Err(); err != nil {
		yield(types.Row{}, fmt.Errorf("reading %s: %w", path, err))
	}
}

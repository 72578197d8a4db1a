// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/dataset-tools/pkg/types"
)

// readDelimited yields one row per record after the header line.
// Empty header cells are named "Unnamed: <index>", matching the column
// names pandas gives an exported index.
func readDelimited(cfg types.SourceConfig, path string, data []byte, yield func(types.Row, error) bool) {
	delim := cfg.Delimiter
	if delim == "" {
		delim = defaultDelimiter
	}
	comma, size := utf8.DecodeRuneInString(delim)
	if size != len(delim) {
		yield(types.Row{}, fmt.Errorf("delimiter %q must be a single character", delim))
		return
	}

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	r.Comma = comma

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		if len(cfg.Require) > 0 {
			yield(types.Row{}, malformed(path, 1, "missing header"))
		}
		return
	}
	if err != nil {
		yield(types.Row{}, malformed(path, 1, "header: %v", err))
		return
	}
	for i, name := range header {
		if strings.TrimSpace(name) == "" {
			header[i] = fmt.Sprintf(unnamedColumnTemplate, i)
		}
	}
	for _, name := range cfg.Require {
		if !slices.Contains(header, name) {
			yield(types.Row{}, malformed(path, 1, "missing column %q", name))
			return
		}
	}

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				yield(types.Row{}, malformed(path, pe.Line, "%v", pe.Err))
				return
			}
			yield(types.Row{}, fmt.Errorf("reading %s: %w", path, err))
			return
		}

		line, _ := r.FieldPos(0)
		row := types.Row{Source: path, Line: line, Fields: make([]types.Field, len(header))}
		for i, name := range header {
			row.Fields[i] = types.Field{Name: name, Value: rec[i]}
		}
		if !yield(row, nil) {
			return
		}
	}
}

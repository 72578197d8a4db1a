// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sink serializes aggregate maps and tables to JSON, YAML, CSV, or
// the SQLite catalog. File outputs are written to a temporary file in the
// destination directory and renamed into place, so a failed run never
// leaves a truncated file behind.
package sink

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/dataset-tools/pkg/types"
)

// WriteFile writes the output of fn to path atomically. Any failure to
// create, write, or rename the file is reported as types.ErrWrite.
func WriteFile(path string, fn func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return writeErr(path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return writeErr(path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	w := bufio.NewWriter(tmp)
	if err := fn(w); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return writeErr(path, err)
	}
	if err := tmp.Close(); err != nil {
		return writeErr(path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return writeErr(path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return writeErr(path, err)
	}
	return nil
}

func writeErr(path string, err error) error {
	return fmt.Errorf("writing %s: %w: %w", path, types.ErrWrite, err)
}

// WriteJSON writes v as JSON indented by two spaces, without HTML escaping,
// followed by a newline.
func WriteJSON(path string, v any) error {
	return WriteFile(path, func(w io.Writer) error {
		return EncodeJSON(w, v)
	})
}

// EncodeJSON is the encoding used by WriteJSON.
func EncodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteYAML writes v as YAML indented by two spaces.
func WriteYAML(path string, v any) error {
	return WriteFile(path, func(w io.Writer) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	})
}

// WriteCSV writes a header line followed by rows.
func WriteCSV(path string, header []string, rows [][]string) error {
	return WriteFile(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(header); err != nil {
			return err
		}
		if err := cw.WriteAll(rows); err != nil {
			return err
		}
		return cw.Error()
	})
}

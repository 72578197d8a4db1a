// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"fmt"
	"slices"

	"github.com/pdiddy/dataset-tools/pkg/types"
)

// Table holds records as typed rows under a fixed column list.
//
// With UniqueBy set, a later record with the same value in that column
// replaces the earlier one in place. With SortBy set, Rows returns the rows
// stably sorted by that column.
type Table struct {
	columns []string
	cfg     types.TableConfig
	rows    [][]types.Value
	index   map[string]int
}

// NewTable returns an empty table with the given columns.
func NewTable(columns []string, cfg types.TableConfig) (*Table, error) {
	t := &Table{columns: slices.Clone(columns), cfg: cfg, index: make(map[string]int)}
	for _, col := range []string{cfg.UniqueBy, cfg.SortBy} {
		if col != "" && !slices.Contains(columns, col) {
			return nil, fmt.Errorf("table has no column %q", col)
		}
	}
	if !ValidOrder(cfg.Order) {
		return nil, fmt.Errorf("unknown order %q", cfg.Order)
	}
	return t, nil
}

// Append adds rec as a row. Every table column must be present in rec.
func (t *Table) Append(rec types.Record) error {
	row := make([]types.Value, len(t.columns))
	for i, col := range t.columns {
		v, ok := rec.Get(col)
		if !ok {
			return fmt.Errorf("%s:%d: %w: record has no column %q", rec.Source, rec.Line, types.ErrMalformedInput, col)
		}
		row[i] = v
	}

	if t.cfg.UniqueBy != "" {
		key := row[slices.Index(t.columns, t.cfg.UniqueBy)].String()
		if i, ok := t.index[key]; ok {
			t.rows[i] = row
			return nil
		}
		t.index[key] = len(t.rows)
	}
	t.rows = append(t.rows, row)
	return nil
}

// Columns returns the column names.
func (t *Table) Columns() []string { return slices.Clone(t.columns) }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Rows returns the rows in output order, each cell rendered as a string.
func (t *Table) Rows() [][]string {
	values := t.Values()
	rows := make([][]string, len(values))
	for i, row := range values {
		rows[i] = make([]string, len(row))
		for j, v := range row {
			rows[i][j] = v.String()
		}
	}
	return rows
}

// Values returns a copy of the typed rows in output order.
func (t *Table) Values() [][]types.Value {
	rows := slices.Clone(t.rows)
	if t.cfg.SortBy == "" {
		return rows
	}
	col := slices.Index(t.columns, t.cfg.SortBy)
	slices.SortStableFunc(rows, func(a, b []types.Value) int {
		return Compare(t.cfg.Order, a[col].String(), b[col].String())
	})
	return rows
}

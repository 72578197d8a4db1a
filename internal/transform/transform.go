// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transform turns source rows into typed records and records into
// (key, id) pairs for aggregation.
package transform

import (
	"fmt"

	"github.com/pdiddy/dataset-tools/pkg/types"
)

type compiledField struct {
	name  string
	from  string
	steps []step
}

// Transformer applies a task's field list and filters to rows. It holds no
// state between rows.
type Transformer struct {
	idField  string
	fields   []compiledField
	selected map[string]bool
	drop     map[string]bool
	keepRest bool
	where    []types.WhereClause
}

// New compiles the field transforms of task.
func New(task types.Task) (*Transformer, error) {
	t := &Transformer{
		idField:  task.ID,
		selected: make(map[string]bool),
		drop:     make(map[string]bool),
		keepRest: task.KeepRest,
		where:    task.Where,
	}

	for _, f := range task.Fields {
		if f.Name == "" {
			return nil, fmt.Errorf("task %s: field without a name", task.Name)
		}
		steps, err := compileChain(f.Transforms)
		if err != nil {
			return nil, fmt.Errorf("task %s: field %s: %w", task.Name, f.Name, err)
		}
		t.fields = append(t.fields, compiledField{name: f.Name, from: f.Source(), steps: steps})
		t.selected[f.Source()] = true
	}
	for _, name := range task.Drop {
		t.drop[name] = true
	}

	if len(t.fields) == 0 && !t.keepRest {
		return nil, fmt.Errorf("task %s: no fields selected", task.Name)
	}
	if t.idField == "" && len(t.fields) > 0 {
		t.idField = t.fields[0].name
	}
	return t, nil
}

// Apply converts one row into a record. The boolean result is false when
// the record is filtered out by a where clause. A field missing from the
// row is malformed input; a value that cannot be coerced is a format error.
//
// Without KeepRest the record holds the configured fields in their listed
// order. With KeepRest it follows the source column order: a configured
// field takes the place of its source column and every other column not
// dropped passes through unchanged.
func (t *Transformer) Apply(row types.Row) (types.Record, bool, error) {
	rec := types.Record{IDField: t.idField, Source: row.Source, Line: row.Line}

	computed := make(map[string]types.Value, len(t.fields))
	for _, f := range t.fields {
		raw, ok := row.Get(f.from)
		if !ok {
			return rec, false, fmt.Errorf("%s:%d: %w: missing field %q", row.Source, row.Line, types.ErrMalformedInput, f.from)
		}
		v, err := runChain(f.steps, raw)
		if err != nil {
			return rec, false, fmt.Errorf("%s:%d: field %s: %w", row.Source, row.Line, f.name, err)
		}
		computed[f.name] = v
	}

	for _, name := range t.Columns(row.Names()) {
		v, ok := computed[name]
		if !ok {
			raw, _ := row.Get(name)
			v = types.Value{Kind: types.KindString, Raw: raw}
		}
		rec.Values = append(rec.Values, types.NamedValue{Name: name, Value: v})
	}

	idName := t.idField
	if idName == "" && len(rec.Values) > 0 {
		idName = rec.Values[0].Name
		rec.IDField = idName
	}
	id, ok := rec.Get(idName)
	if !ok {
		return rec, false, fmt.Errorf("%s:%d: %w: missing identifier field %q", row.Source, row.Line, types.ErrMalformedInput, idName)
	}
	rec.ID = id.String()

	keep, err := t.match(rec)
	if err != nil {
		return rec, false, fmt.Errorf("%s:%d: %w", row.Source, row.Line, err)
	}
	return rec, keep, nil
}

func (t *Transformer) match(rec types.Record) (bool, error) {
	for _, w := range t.where {
		v, ok := rec.Get(w.Field)
		if !ok {
			return false, fmt.Errorf("%w: where clause names unknown field %q", types.ErrMalformedInput, w.Field)
		}
		s := v.String()
		if w.Equals != nil && s != *w.Equals {
			return false, nil
		}
		if w.NotEquals != nil && s == *w.NotEquals {
			return false, nil
		}
	}
	return true, nil
}

// Columns returns the output column names for records built from a row
// with the given source field names, in the order Apply emits them.
func (t *Transformer) Columns(sourceNames []string) []string {
	cols := make([]string, 0, len(t.fields)+len(sourceNames))
	if !t.keepRest {
		for _, f := range t.fields {
			cols = append(cols, f.name)
		}
		return cols
	}

	emitted := make(map[string]bool, len(t.fields))
	for _, name := range sourceNames {
		if t.selected[name] {
			for _, f := range t.fields {
				if f.from == name && !emitted[f.name] {
					cols = append(cols, f.name)
					emitted[f.name] = true
				}
			}
			continue
		}
		if t.drop[name] {
			continue
		}
		cols = append(cols, name)
	}
	return cols
}

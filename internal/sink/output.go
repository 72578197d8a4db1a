// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/dataset-tools/internal/aggregate"
	"github.com/pdiddy/dataset-tools/internal/catalog"
	"github.com/pdiddy/dataset-tools/pkg/types"
)

// mapCSVHeader is the header of a map written as CSV: one line per
// (key, id) pair.
var mapCSVHeader = []string{"key", "id"}

// WriteMap writes m to cfg.Path in cfg.Format. For the sqlite format
// cfg.Path is the catalog database and m is recorded under task.
func WriteMap(ctx context.Context, cfg types.SinkConfig, task string, m *aggregate.Map) error {
	switch cfg.Format {
	case types.SinkJSON, "":
		return WriteJSON(cfg.Path, m)
	case types.SinkYAML:
		return WriteYAML(cfg.Path, m)
	case types.SinkCSV:
		var rows [][]string
		for key, ids := range m.All() {
			for _, id := range ids {
				rows = append(rows, []string{key, id})
			}
		}
		return WriteCSV(cfg.Path, mapCSVHeader, rows)
	case types.SinkSQLite:
		store, err := catalog.Open(cfg.Path)
		if err != nil {
			return fmt.Errorf("%w: %w", types.ErrWrite, err)
		}
		defer store.Close()
		if _, err := store.Record(ctx, task, m); err != nil {
			return fmt.Errorf("%w: %w", types.ErrWrite, err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported sink format %q", cfg.Format)
	}
}

// WriteTable writes t to cfg.Path. JSON and YAML render each row as an
// object whose members follow the column order.
func WriteTable(cfg types.SinkConfig, t *aggregate.Table) error {
	switch cfg.Format {
	case types.SinkCSV, "":
		return WriteCSV(cfg.Path, t.Columns(), t.Rows())
	case types.SinkJSON:
		return WriteJSON(cfg.Path, tableObjects(t))
	case types.SinkYAML:
		return WriteYAML(cfg.Path, tableNode(t))
	default:
		return fmt.Errorf("sink format %q does not support tables", cfg.Format)
	}
}

// rowObject is one table row encoded as an ordered JSON object. Integer
// and boolean cells are written as JSON numbers and booleans.
type rowObject struct {
	columns []string
	values  []types.Value
}

func (r rowObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := appendString(&buf, col); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := appendValue(&buf, r.values[i]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func appendValue(buf *bytes.Buffer, v types.Value) error {
	switch v.Kind {
	case types.KindInt:
		buf.WriteString(strconv.Itoa(v.Int))
		return nil
	case types.KindBool:
		buf.WriteString(strconv.FormatBool(v.Bool))
		return nil
	default:
		return appendString(buf, v.Raw)
	}
}

func appendString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1)
	return nil
}

func tableObjects(t *aggregate.Table) []rowObject {
	cols := t.Columns()
	rows := t.Values()
	out := make([]rowObject, len(rows))
	for i, row := range rows {
		out[i] = rowObject{columns: cols, values: row}
	}
	return out
}

func tableNode(t *aggregate.Table) *yaml.Node {
	cols := t.Columns()
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, row := range t.Values() {
		obj := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for i, col := range cols {
			obj.Content = append(obj.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: col},
				valueNode(row[i]),
			)
		}
		seq.Content = append(seq.Content, obj)
	}
	return seq
}

func valueNode(v types.Value) *yaml.Node {
	switch v.Kind {
	case types.KindInt:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(v.Int)}
	case types.KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.Bool)}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Raw}
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/dataset-tools/pkg/types"
)

// MarshalJSON encodes the map as a JSON object whose members follow the
// key order. Empty buckets encode as [].
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	i := 0
	for key, ids := range m.All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		i++
		if err := writeJSON(&buf, key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if ids == nil {
			ids = []string{}
		}
		if err := writeJSON(&buf, ids); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1) // Encode appends a newline
	return nil
}

// UnmarshalJSON decodes a JSON object of string arrays, keeping the member
// order of the document. A map without declared orders switches to
// insertion order so that re-encoding reproduces the input.
func (m *Map) UnmarshalJSON(data []byte) error {
	if m.keyOrder == "" {
		m.keyOrder = types.OrderInsertion
	}
	if m.idOrder == "" {
		m.idOrder = types.OrderInsertion
	}
	m.keys = nil
	m.buckets = make(map[string]*bucket)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("aggregate map: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("aggregate map: expected key, got %v", tok)
		}
		var ids []string
		if err := dec.Decode(&ids); err != nil {
			return fmt.Errorf("aggregate map: bucket %q: %w", key, err)
		}
		m.Declare(key)
		for _, id := range ids {
			m.Add(key, id)
		}
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalYAML encodes the map as an ordered YAML mapping of sequences.
// Keys are always tagged as strings so numeric categories stay quoted.
func (m *Map) MarshalYAML() (any, error) {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for key, ids := range m.All() {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, id := range ids {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: id})
		}
		if len(ids) == 0 {
			seq.Style = yaml.FlowStyle
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			seq,
		)
	}
	return root, nil
}

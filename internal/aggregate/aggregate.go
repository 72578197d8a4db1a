// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate groups identifiers into ordered, de-duplicated buckets
// and keeps tabular records in a deterministic order.
package aggregate

import (
	"iter"
	"slices"

	"github.com/pdiddy/dataset-tools/pkg/types"
)

type bucket struct {
	ids  []string
	seen map[string]bool
}

// Map is an AggregateMap: group key to unique identifiers. Within a bucket
// an identifier appears once. Keys and identifiers are reported in the
// declared orders; the sort happens lazily after the last Add.
type Map struct {
	keyOrder types.Order
	idOrder  types.Order
	keys     []string
	buckets  map[string]*bucket
	dirty    bool
}

// New returns an empty map. Empty orders mean lexical.
func New(keyOrder, idOrder types.Order) *Map {
	if keyOrder == "" {
		keyOrder = types.OrderLexical
	}
	if idOrder == "" {
		idOrder = types.OrderLexical
	}
	return &Map{keyOrder: keyOrder, idOrder: idOrder, buckets: make(map[string]*bucket)}
}

// Declare creates empty buckets for keys that do not exist yet, so they are
// emitted even if nothing is added to them.
func (m *Map) Declare(keys ...string) {
	for _, k := range keys {
		m.ensure(k)
	}
}

// Add appends id to the bucket for key unless it is already there.
func (m *Map) Add(key, id string) {
	b := m.ensure(key)
	if b.seen[id] {
		return
	}
	b.seen[id] = true
	b.ids = append(b.ids, id)
	m.dirty = true
}

func (m *Map) ensure(key string) *bucket {
	if m.buckets == nil {
		m.buckets = make(map[string]*bucket)
	}
	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{seen: make(map[string]bool)}
		m.buckets[key] = b
		m.keys = append(m.keys, key)
		m.dirty = true
	}
	return b
}

// Finalize sorts every bucket and the key list. It is called implicitly by
// the accessors and may be called again after further Adds.
func (m *Map) Finalize() {
	if !m.dirty {
		return
	}
	for _, b := range m.buckets {
		Sort(m.idOrder, b.ids)
	}
	Sort(m.keyOrder, m.keys)
	m.dirty = false
}

// Len returns the number of keys.
func (m *Map) Len() int { return len(m.keys) }

// Keys returns the keys in order.
func (m *Map) Keys() []string {
	m.Finalize()
	return slices.Clone(m.keys)
}

// IDs returns the identifiers of key in order, or nil if key is absent.
func (m *Map) IDs(key string) []string {
	m.Finalize()
	b, ok := m.buckets[key]
	if !ok {
		return nil
	}
	return slices.Clone(b.ids)
}

// All iterates over keys and their identifiers in order.
func (m *Map) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		m.Finalize()
		for _, k := range m.keys {
			if !yield(k, slices.Clone(m.buckets[k].ids)) {
				return
			}
		}
	}
}

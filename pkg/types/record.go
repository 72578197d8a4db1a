// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strconv"

// ValueKind identifies the typed form of a Value.
type ValueKind string

const (
	KindString ValueKind = "string"
	KindInt    ValueKind = "int"
	KindBool   ValueKind = "bool"
)

// Value is a transformed field value. Raw keeps the text after string
// transforms; Int and Bool are set according to Kind.
type Value struct {
	Kind ValueKind `json:"kind" yaml:"kind"`
	Raw  string    `json:"raw" yaml:"raw"`
	Int  int       `json:"int,omitempty" yaml:"int,omitempty"`
	Bool bool      `json:"bool,omitempty" yaml:"bool,omitempty"`
}

// String renders the value for tabular output. Booleans use the same
// "True"/"False" literals the flag columns are read with, so a written
// table can be fed back into a flags grouping.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.Itoa(v.Int)
	case KindBool:
		if v.Bool {
			return "True"
		}
		return "False"
	default:
		return v.Raw
	}
}

// NamedValue pairs an output field name with its Value.
type NamedValue struct {
	Name  string `json:"name" yaml:"name"`
	Value Value  `json:"value" yaml:"value"`
}

// Record is a Row after field selection, renaming, and type coercion.
type Record struct {
	// ID is the task or file identifier the record describes.
	ID string `json:"id" yaml:"id"`

	// IDField is the output name of the identifier field.
	IDField string `json:"id_field" yaml:"id_field"`

	// Values holds every selected field, including the identifier, in
	// output order.
	Values []NamedValue `json:"values" yaml:"values"`

	// Source and Line locate the row the record came from.
	Source string `json:"source" yaml:"source"`
	Line   int    `json:"line" yaml:"line"`
}

// Get returns the named value and whether it exists.
func (r Record) Get(name string) (Value, bool) {
	for _, nv := range r.Values {
		if nv.Name == name {
			return nv.Value, true
		}
	}
	return Value{}, false
}

// Names returns the record's field names in output order.
func (r Record) Names() []string {
	names := make([]string, len(r.Values))
	for i, nv := range r.Values {
		names[i] = nv.Name
	}
	return names
}

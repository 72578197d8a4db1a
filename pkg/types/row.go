// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Field is one named raw value in a Row.
type Field struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Row is one source record as raw string fields, in source column order.
// Rows are produced by the source reader and are not modified afterwards.
type Row struct {
	// Source is the path of the file the row was read from.
	Source string `json:"source" yaml:"source"`

	// Line is the 1-based line number of the row in Source.
	Line int `json:"line" yaml:"line"`

	// Fields holds the row's values in column order.
	Fields []Field `json:"fields" yaml:"fields"`
}

// Get returns the value of the named field and whether it exists.
func (r Row) Get(name string) (string, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Names returns the row's field names in column order.
func (r Row) Names() []string {
	names := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		names[i] = f.Name
	}
	return names
}

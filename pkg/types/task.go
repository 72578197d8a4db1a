// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures of the dataset-tools
// conversion pipeline: rows, records, task configuration and errors.
package types

// SourceFormat selects how the reader splits a source file into rows.
type SourceFormat string

const (
	// FormatDelimited reads a header line followed by delimited rows; fields
	// are looked up by header name.
	FormatDelimited SourceFormat = "delimited"

	// FormatPipeTable reads a Markdown pipe table; fields are looked up by
	// fixed column position.
	FormatPipeTable SourceFormat = "pipe-table"
)

// SourceConfig describes where a task's rows come from and how to split them.
type SourceConfig struct {
	// Format is delimited or pipe-table.
	Format SourceFormat `json:"format" yaml:"format"`

	// Paths lists explicit input files, read in order.
	Paths []string `json:"paths,omitempty" yaml:"paths,omitempty"`

	// Patterns lists doublestar glob patterns (e.g. "wiki/**/*.md").
	Patterns []string `json:"patterns,omitempty" yaml:"patterns,omitempty"`

	// Delimiter overrides the field separator ("," for delimited, "|" for
	// pipe-table).
	Delimiter string `json:"delimiter,omitempty" yaml:"delimiter,omitempty"`

	// SkipLines is the number of leading pipe-table lines to skip. Nil means
	// two (header and separator).
	SkipLines *int `json:"skip_lines,omitempty" yaml:"skip_lines,omitempty"`

	// Columns maps pipe-table column positions to field names. Position 0
	// is the empty cell before the leading pipe.
	Columns map[int]string `json:"columns,omitempty" yaml:"columns,omitempty"`

	// Require lists delimited header columns that must be present.
	Require []string `json:"require,omitempty" yaml:"require,omitempty"`
}

// TransformKind names a per-field value transform.
type TransformKind string

const (
	TransformIdentity   TransformKind = "identity"
	TransformTrimSuffix TransformKind = "trim_suffix"
	TransformTrimPrefix TransformKind = "trim_prefix"
	TransformReplace    TransformKind = "replace"
	TransformExtract    TransformKind = "extract"
	TransformInt        TransformKind = "int"
	TransformBool       TransformKind = "bool"
)

// TransformSpec is one step of a field's transform chain.
type TransformSpec struct {
	Kind TransformKind `json:"kind" yaml:"kind"`

	// Arg is the suffix, prefix, search string, or pattern, depending on Kind.
	Arg string `json:"arg,omitempty" yaml:"arg,omitempty"`

	// With is the replacement text for TransformReplace.
	With string `json:"with,omitempty" yaml:"with,omitempty"`
}

// FieldSpec selects one source field into a record.
type FieldSpec struct {
	// Name is the output field name.
	Name string `json:"name" yaml:"name"`

	// From is the source field name. Empty means Name.
	From string `json:"from,omitempty" yaml:"from,omitempty"`

	// Transforms are applied in order.
	Transforms []TransformSpec `json:"transforms,omitempty" yaml:"transforms,omitempty"`
}

// Source returns the source field name.
func (f FieldSpec) Source() string {
	if f.From != "" {
		return f.From
	}
	return f.Name
}

// WhereClause keeps only records whose field matches. Exactly one of
// Equals and NotEquals should be set.
type WhereClause struct {
	Field     string  `json:"field" yaml:"field"`
	Equals    *string `json:"equals,omitempty" yaml:"equals,omitempty"`
	NotEquals *string `json:"not_equals,omitempty" yaml:"not_equals,omitempty"`
}

// GroupBy selects how a record is turned into (key, id) pairs.
type GroupBy string

const (
	// GroupByColumn buckets the id under the value of one column.
	GroupByColumn GroupBy = "column"

	// GroupByFlags buckets the id under every column holding the sentinel.
	GroupByFlags GroupBy = "flags"

	// GroupBySplit buckets the id under MatchedKey or UnmatchedKey depending
	// on whether Column holds the sentinel.
	GroupBySplit GroupBy = "split"
)

// Order is a comparison used to sort keys, ids, or table rows.
type Order string

const (
	OrderLexical   Order = "lexical"
	OrderNumeric   Order = "numeric"
	OrderInsertion Order = "insertion"
)

// GroupConfig configures the aggregation of a group task.
type GroupConfig struct {
	By     GroupBy `json:"by" yaml:"by"`
	Column string  `json:"column,omitempty" yaml:"column,omitempty"`

	// Sentinel is the literal that marks a flag column or a split match.
	// Defaults to "True" for flags.
	Sentinel string `json:"sentinel,omitempty" yaml:"sentinel,omitempty"`

	// Exclude lists columns never treated as flags.
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`

	MatchedKey   string `json:"matched_key,omitempty" yaml:"matched_key,omitempty"`
	UnmatchedKey string `json:"unmatched_key,omitempty" yaml:"unmatched_key,omitempty"`

	KeyOrder Order `json:"key_order,omitempty" yaml:"key_order,omitempty"`
	IDOrder  Order `json:"id_order,omitempty" yaml:"id_order,omitempty"`
}

// TableConfig configures the row handling of a table task.
type TableConfig struct {
	// UniqueBy keeps only the last row for each value of this column.
	UniqueBy string `json:"unique_by,omitempty" yaml:"unique_by,omitempty"`

	// SortBy sorts rows by this column.
	SortBy string `json:"sort_by,omitempty" yaml:"sort_by,omitempty"`
	Order  Order  `json:"order,omitempty" yaml:"order,omitempty"`
}

// SinkFormat selects the output serialization.
type SinkFormat string

const (
	SinkJSON   SinkFormat = "json"
	SinkCSV    SinkFormat = "csv"
	SinkYAML   SinkFormat = "yaml"
	SinkSQLite SinkFormat = "sqlite"
)

// SinkConfig describes where a task's output goes.
type SinkConfig struct {
	Format SinkFormat `json:"format" yaml:"format"`
	Path   string     `json:"path" yaml:"path"`

	// Compress runs the external compressor on the written file.
	Compress bool `json:"compress,omitempty" yaml:"compress,omitempty"`
}

// TaskKind selects the shape of a task's output.
type TaskKind string

const (
	// TaskGroup produces an aggregate map of key to sorted unique ids.
	TaskGroup TaskKind = "group"

	// TaskTable produces a table of records with a fixed column list.
	TaskTable TaskKind = "table"
)

// Task is the declarative configuration of one conversion job.
type Task struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Kind        TaskKind `json:"kind" yaml:"kind"`

	Source SourceConfig `json:"source" yaml:"source"`

	// ID is the output name of the identifier field.
	ID string `json:"id" yaml:"id"`

	Fields []FieldSpec `json:"fields,omitempty" yaml:"fields,omitempty"`

	// KeepRest keeps every source column not named in Drop, in source order,
	// with the columns named in Fields transformed in place.
	KeepRest bool     `json:"keep_rest,omitempty" yaml:"keep_rest,omitempty"`
	Drop     []string `json:"drop,omitempty" yaml:"drop,omitempty"`

	Where []WhereClause `json:"where,omitempty" yaml:"where,omitempty"`

	Group GroupConfig `json:"group,omitempty" yaml:"group,omitempty"`
	Table TableConfig `json:"table,omitempty" yaml:"table,omitempty"`

	Sink SinkConfig `json:"sink" yaml:"sink"`
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transform

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/dataset-tools/pkg/types"
)

func row(fields ...string) types.Row {
	r := types.Row{Source: "input.csv", Line: 2}
	for i := 0; i+1 < len(fields); i += 2 {
		r.Fields = append(r.Fields, types.Field{Name: fields[i], Value: fields[i+1]})
	}
	return r
}

func ptr(s string) *string { return &s }

func TestSteps(t *testing.T) {
	tests := []struct {
		name    string
		specs   []types.TransformSpec
		in      string
		want    types.Value
		wantErr error
	}{
		{
			name: "identity",
			in:   "007bbfb7.json",
			want: types.Value{Kind: types.KindString, Raw: "007bbfb7.json"},
		},
		{
			name:  "trim suffix",
			specs: []types.TransformSpec{{Kind: types.TransformTrimSuffix, Arg: ".json"}},
			in:    "007bbfb7.json",
			want:  types.Value{Kind: types.KindString, Raw: "007bbfb7"},
		},
		{
			name:  "trim prefix",
			specs: []types.TransformSpec{{Kind: types.TransformTrimPrefix, Arg: "training/"}},
			in:    "training/007bbfb7",
			want:  types.Value{Kind: types.KindString, Raw: "007bbfb7"},
		},
		{
			name:  "replace every occurrence",
			specs: []types.TransformSpec{{Kind: types.TransformReplace, Arg: ".json", With: ""}},
			in:    "a.json.json",
			want:  types.Value{Kind: types.KindString, Raw: "a"},
		},
		{
			name:  "extract basename from windows path",
			specs: []types.TransformSpec{{Kind: types.TransformExtract, Arg: `([^\\]+)\.json$`}},
			in:    `C:\arc\training\007bbfb7.json`,
			want:  types.Value{Kind: types.KindString, Raw: "007bbfb7"},
		},
		{
			name:  "extract without match is empty",
			specs: []types.TransformSpec{{Kind: types.TransformExtract, Arg: `([^\\]+)\.json$`}},
			in:    "007bbfb7.txt",
			want:  types.Value{Kind: types.KindString, Raw: ""},
		},
		{
			name:  "extract whole match without groups",
			specs: []types.TransformSpec{{Kind: types.TransformExtract, Arg: `[0-9a-f]{8}`}},
			in:    "task 007bbfb7 done",
			want:  types.Value{Kind: types.KindString, Raw: "007bbfb7"},
		},
		{
			name:  "int",
			specs: []types.TransformSpec{{Kind: types.TransformInt}},
			in:    "-1",
			want:  types.Value{Kind: types.KindInt, Raw: "-1", Int: -1},
		},
		{
			name:    "int rejects text",
			specs:   []types.TransformSpec{{Kind: types.TransformInt}},
			in:      "n/a",
			wantErr: types.ErrFormat,
		},
		{
			name:  "bool true literal",
			specs: []types.TransformSpec{{Kind: types.TransformBool}},
			in:    "True",
			want:  types.Value{Kind: types.KindBool, Raw: "True", Bool: true},
		},
		{
			name:  "bool anything else is false",
			specs: []types.TransformSpec{{Kind: types.TransformBool}},
			in:    "true",
			want:  types.Value{Kind: types.KindBool, Raw: "true"},
		},
		{
			name: "chain strips then coerces",
			specs: []types.TransformSpec{
				{Kind: types.TransformTrimPrefix, Arg: "score="},
				{Kind: types.TransformInt},
			},
			in:   "score=3",
			want: types.Value{Kind: types.KindInt, Raw: "3", Int: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps, err := compileChain(tt.specs)
			require.NoError(t, err)

			got, err := runChain(steps, tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompileStep_Errors(t *testing.T) {
	for _, spec := range []types.TransformSpec{
		{Kind: "upper"},
		{Kind: types.TransformExtract, Arg: "("},
		{Kind: types.TransformReplace},
	} {
		_, err := compileStep(spec)
		assert.Error(t, err, "spec %+v", spec)
	}
}

func TestApply(t *testing.T) {
	task := types.Task{
		Name: "parapraxis-category-clean",
		ID:   "file_name",
		Fields: []types.FieldSpec{
			{Name: "file_name", Transforms: []types.TransformSpec{{Kind: types.TransformExtract, Arg: `([^\\]+)\.json$`}}},
			{Name: "category", From: "cat", Transforms: []types.TransformSpec{{Kind: types.TransformInt}}},
		},
	}
	tr, err := New(task)
	require.NoError(t, err)

	rec, keep, err := tr.Apply(row("extra", "ignored", "cat", "3", "file_name", `D:\x\007bbfb7.json`))
	require.NoError(t, err)
	assert.True(t, keep)

	want := types.Record{
		ID:      "007bbfb7",
		IDField: "file_name",
		Source:  "input.csv",
		Line:    2,
		Values: []types.NamedValue{
			{Name: "file_name", Value: types.Value{Kind: types.KindString, Raw: "007bbfb7"}},
			{Name: "category", Value: types.Value{Kind: types.KindInt, Raw: "3", Int: 3}},
		},
	}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestApply_KeepRestAndDrop(t *testing.T) {
	task := types.Task{
		Name:     "task-tagging-clean",
		Fields:   []types.FieldSpec{{Name: "task_name", Transforms: []types.TransformSpec{{Kind: types.TransformReplace, Arg: ".json"}}}},
		KeepRest: true,
		Drop:     []string{"Unnamed: 0", "task"},
	}
	tr, err := New(task)
	require.NoError(t, err)

	src := row("Unnamed: 0", "0", "task", "{...}", "task_name", "007bbfb7.json", "symmetry", "True", "pattern", "False")
	rec, _, err := tr.Apply(src)
	require.NoError(t, err)

	assert.Equal(t, "007bbfb7", rec.ID)
	assert.Equal(t, []string{"task_name", "symmetry", "pattern"}, rec.Names())
	assert.Equal(t, []string{"task_name", "symmetry", "pattern"}, tr.Columns(src.Names()))
}

func TestApply_KeepRestFollowsSourceOrder(t *testing.T) {
	tr, err := New(types.Task{
		Name:     "flags",
		ID:       "path_data",
		Fields:   []types.FieldSpec{{Name: "path_data"}},
		KeepRest: true,
	})
	require.NoError(t, err)

	src := row("taskA", "True", "path_data", "007bbfb7", "taskB", "False")
	rec, _, err := tr.Apply(src)
	require.NoError(t, err)
	assert.Equal(t, "007bbfb7", rec.ID)
	assert.Equal(t, "path_data", rec.IDField)
	assert.Equal(t, []string{"taskA", "path_data", "taskB"}, rec.Names())
}

func TestApply_Errors(t *testing.T) {
	tr, err := New(types.Task{
		Name:   "scores",
		Fields: []types.FieldSpec{{Name: "taskid"}, {Name: "score", Transforms: []types.TransformSpec{{Kind: types.TransformInt}}}},
	})
	require.NoError(t, err)

	_, _, err = tr.Apply(row("taskid", "x"))
	require.ErrorIs(t, err, types.ErrMalformedInput)

	_, _, err = tr.Apply(row("taskid", "x", "score", "high"))
	require.ErrorIs(t, err, types.ErrFormat)
	assert.Contains(t, err.Error(), "input.csv:2")
}

func TestApply_Where(t *testing.T) {
	tr, err := New(types.Task{
		Name:   "solved",
		Fields: []types.FieldSpec{{Name: "taskid"}, {Name: "score"}},
		Where:  []types.WhereClause{{Field: "score", NotEquals: ptr("-1")}},
	})
	require.NoError(t, err)

	_, keep, err := tr.Apply(row("taskid", "a", "score", "-1"))
	require.NoError(t, err)
	assert.False(t, keep)

	_, keep, err = tr.Apply(row("taskid", "b", "score", "4"))
	require.NoError(t, err)
	assert.True(t, keep)

	tr, err = New(types.Task{
		Name:   "bad",
		Fields: []types.FieldSpec{{Name: "taskid"}},
		Where:  []types.WhereClause{{Field: "score", Equals: ptr("1")}},
	})
	require.NoError(t, err)
	_, _, err = tr.Apply(row("taskid", "a"))
	require.ErrorIs(t, err, types.ErrMalformedInput)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(types.Task{Name: "empty"})
	require.Error(t, err)

	_, err = New(types.Task{Name: "bad", Fields: []types.FieldSpec{{Name: "x", Transforms: []types.TransformSpec{{Kind: "nope"}}}}})
	require.Error(t, err)
}

func TestPairs(t *testing.T) {
	flagsRecord := func(id string, flags ...string) types.Record {
		rec := types.Record{ID: id, IDField: "path_data", Values: []types.NamedValue{
			{Name: "path_data", Value: types.Value{Kind: types.KindString, Raw: id}},
		}}
		for i := 0; i+1 < len(flags); i += 2 {
			rec.Values = append(rec.Values, types.NamedValue{Name: flags[i], Value: types.Value{Kind: types.KindString, Raw: flags[i+1]}})
		}
		return rec
	}

	tests := []struct {
		name string
		rec  types.Record
		cfg  types.GroupConfig
		want []Pair
	}{
		{
			name: "only sentinel columns fan out",
			rec:  flagsRecord("x", "taskA", "True", "taskB", "False"),
			cfg:  types.GroupConfig{By: types.GroupByFlags},
			want: []Pair{{Key: "taskA", ID: "x"}},
		},
		{
			name: "one pair per sentinel column",
			rec:  flagsRecord("x", "a", "True", "b", "True", "c", "True", "d", "no"),
			cfg:  types.GroupConfig{By: types.GroupByFlags},
			want: []Pair{{Key: "a", ID: "x"}, {Key: "b", ID: "x"}, {Key: "c", ID: "x"}},
		},
		{
			name: "excluded and identifier columns never match",
			rec:  flagsRecord("True", "a", "True", "b", "True"),
			cfg:  types.GroupConfig{By: types.GroupByFlags, Exclude: []string{"b"}},
			want: []Pair{{Key: "a", ID: "True"}},
		},
		{
			name: "no sentinel no pairs",
			rec:  flagsRecord("x", "a", "False"),
			cfg:  types.GroupConfig{By: types.GroupByFlags},
		},
		{
			name: "custom sentinel",
			rec:  flagsRecord("x", "a", "1", "b", "0"),
			cfg:  types.GroupConfig{By: types.GroupByFlags, Sentinel: "1"},
			want: []Pair{{Key: "a", ID: "x"}},
		},
		{
			name: "column value is the key",
			rec:  flagsRecord("007bbfb7", "category", "3"),
			cfg:  types.GroupConfig{By: types.GroupByColumn, Column: "category"},
			want: []Pair{{Key: "3", ID: "007bbfb7"}},
		},
		{
			name: "split matched",
			rec:  flagsRecord("x", "score", "-1"),
			cfg:  types.GroupConfig{By: types.GroupBySplit, Column: "score", Sentinel: "-1", MatchedKey: "unsolved", UnmatchedKey: "solved"},
			want: []Pair{{Key: "unsolved", ID: "x"}},
		},
		{
			name: "split unmatched",
			rec:  flagsRecord("x", "score", "0"),
			cfg:  types.GroupConfig{By: types.GroupBySplit, Column: "score", Sentinel: "-1", MatchedKey: "unsolved", UnmatchedKey: "solved"},
			want: []Pair{{Key: "solved", ID: "x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Pairs(tt.rec, tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPairs_Errors(t *testing.T) {
	rec := types.Record{ID: "x", IDField: "id"}

	_, err := Pairs(rec, types.GroupConfig{By: types.GroupByColumn, Column: "category"})
	require.ErrorIs(t, err, types.ErrMalformedInput)

	_, err = Pairs(rec, types.GroupConfig{By: types.GroupBySplit, Column: "score"})
	require.ErrorIs(t, err, types.ErrMalformedInput)

	_, err = Pairs(rec, types.GroupConfig{By: "bucket"})
	require.Error(t, err)
}

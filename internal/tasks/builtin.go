// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tasks

import "github.com/pdiddy/dataset-tools/pkg/types"

// Wiki pages holding the ice-dsl score tables, in the order they are read.
var icedslPages = []string{
	"Training-Riddles-0-to-3.md",
	"Training Riddles 4 to 7.md",
	"Training Riddles 8 to b.md",
	"Training Riddles c to f.md",
	"Evaluation Riddles 0 to 3.md",
	"Evaluation Riddles 4 to 7.md",
	"Evaluation Riddles 8 to b.md",
	"Evaluation Riddles c to f.md",
}

var trimJSON = []types.TransformSpec{{Kind: types.TransformReplace, Arg: ".json"}}

// builtins returns fresh copies of the built-in task presets. Each one
// reproduces a conversion of the dataset collection's metadata; inputs and
// outputs are relative to the working directory.
func builtins() []types.Task {
	return []types.Task{
		{
			Name:        "parapraxis-clean",
			Description: "Keep path_data and correct from the parapraxis export, dropping the .json suffix",
			Kind:        types.TaskTable,
			Source: types.SourceConfig{
				Format:  types.FormatDelimited,
				Paths:   []string{"input.csv"},
				Require: []string{"path_data", "correct"},
			},
			ID: "path_data",
			Fields: []types.FieldSpec{
				{Name: "path_data", Transforms: trimJSON},
				{Name: "correct"},
			},
			Sink: types.SinkConfig{Format: types.SinkCSV, Path: "a.csv"},
		},
		{
			Name:        "parapraxis-flags",
			Description: "Group parapraxis task ids under every column flagged True",
			Kind:        types.TaskGroup,
			Source:      types.SourceConfig{Format: types.FormatDelimited, Paths: []string{"a.csv"}},
			ID:          "path_data",
			Fields:      []types.FieldSpec{{Name: "path_data"}},
			KeepRest:    true,
			Group: types.GroupConfig{
				By:       types.GroupByFlags,
				Sentinel: "True",
				KeyOrder: types.OrderLexical,
				IDOrder:  types.OrderLexical,
			},
			Sink: types.SinkConfig{Format: types.SinkJSON, Path: "b.json"},
		},
		{
			Name:        "parapraxis-category-clean",
			Description: "Reduce the parapraxis category export to file name and category",
			Kind:        types.TaskTable,
			Source: types.SourceConfig{
				Format:  types.FormatDelimited,
				Paths:   []string{"input.csv"},
				Require: []string{"file_name", "category"},
			},
			ID: "file_name",
			Fields: []types.FieldSpec{
				{Name: "file_name", Transforms: []types.TransformSpec{{Kind: types.TransformExtract, Arg: `([^\\]+)\.json$`}}},
				{Name: "category"},
			},
			Sink: types.SinkConfig{Format: types.SinkCSV, Path: "a.csv"},
		},
		{
			Name:        "parapraxis-category",
			Description: "Group file names by numeric category",
			Kind:        types.TaskGroup,
			Source:      types.SourceConfig{Format: types.FormatDelimited, Paths: []string{"a.csv"}},
			ID:          "file_name",
			Fields:      []types.FieldSpec{{Name: "file_name"}, {Name: "category"}},
			Group: types.GroupConfig{
				By:       types.GroupByColumn,
				Column:   "category",
				KeyOrder: types.OrderNumeric,
				IDOrder:  types.OrderLexical,
			},
			Sink: types.SinkConfig{Format: types.SinkJSON, Path: "b.json"},
		},
		{
			Name:        "task-tagging-clean",
			Description: "Drop the index and task columns from the tagged training tasks and trim task names",
			Kind:        types.TaskTable,
			Source: types.SourceConfig{
				Format:  types.FormatDelimited,
				Paths:   []string{"training_tasks_tagged.csv"},
				Require: []string{"task_name"},
			},
			ID:       "task_name",
			Fields:   []types.FieldSpec{{Name: "task_name", Transforms: trimJSON}},
			KeepRest: true,
			Drop:     []string{"Unnamed: 0", "task"},
			Sink:     types.SinkConfig{Format: types.SinkCSV, Path: "a.csv"},
		},
		{
			Name:        "task-tagging",
			Description: "Group tagged task names under every tag flagged True",
			Kind:        types.TaskGroup,
			Source:      types.SourceConfig{Format: types.FormatDelimited, Paths: []string{"a.csv"}},
			ID:          "task_name",
			Fields:      []types.FieldSpec{{Name: "task_name"}},
			KeepRest:    true,
			Group: types.GroupConfig{
				By:       types.GroupByFlags,
				Sentinel: "True",
				KeyOrder: types.OrderLexical,
				IDOrder:  types.OrderLexical,
			},
			Sink: types.SinkConfig{Format: types.SinkJSON, Path: "b.json"},
		},
		{
			Name:        "icedsl-scores",
			Description: "Collect ice-dsl scores from the wiki riddle tables into one sorted CSV",
			Kind:        types.TaskTable,
			Source: types.SourceConfig{
				Format:  types.FormatPipeTable,
				Paths:   icedslPages,
				Columns: map[int]string{1: "taskid", 4: "score"},
			},
			ID: "taskid",
			Fields: []types.FieldSpec{
				{Name: "taskid"},
				{Name: "score", Transforms: []types.TransformSpec{{Kind: types.TransformInt}}},
			},
			Table: types.TableConfig{UniqueBy: "taskid", SortBy: "taskid", Order: types.OrderLexical},
			Sink:  types.SinkConfig{Format: types.SinkCSV, Path: "output.csv"},
		},
		{
			Name:        "icedsl-split",
			Description: "Split ice-dsl task ids into solved and unsolved (score -1)",
			Kind:        types.TaskGroup,
			Source:      types.SourceConfig{Format: types.FormatDelimited, Paths: []string{"output.csv"}},
			ID:          "taskid",
			Fields:      []types.FieldSpec{{Name: "taskid"}, {Name: "score"}},
			Group: types.GroupConfig{
				By:           types.GroupBySplit,
				Column:       "score",
				Sentinel:     "-1",
				MatchedKey:   "icecuber_unsolved",
				UnmatchedKey: "icecuber_solved",
				KeyOrder:     types.OrderInsertion,
				IDOrder:      types.OrderInsertion,
			},
			Sink: types.SinkConfig{Format: types.SinkJSON, Path: "output2.json"},
		},
	}
}

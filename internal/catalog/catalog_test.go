// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pdiddy/dataset-tools/internal/aggregate"
	"github.com/pdiddy/dataset-tools/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "index", "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func categoryMap() *aggregate.Map {
	m := aggregate.New(types.OrderNumeric, types.OrderLexical)
	m.Add("3", "007bbfb7")
	m.Add("10", "00d62c1b")
	m.Add("3", "025d127b")
	m.Declare("12")
	return m
}

func TestRecordAndLatest(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	run, err := s.Record(ctx, "parapraxis-category", categoryMap())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, 3, run.Keys)
	assert.Equal(t, 3, run.IDs)

	got, m, err := s.Latest(ctx, "parapraxis-category")
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, 3, got.Keys)
	assert.Equal(t, 3, got.IDs)

	want, err := json.Marshal(categoryMap())
	require.NoError(t, err)
	gotJSON, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(gotJSON))
	assert.Equal(t, string(want), string(gotJSON), "recorded order must be preserved")
}

func TestLatest_NewestRunWins(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	first := aggregate.New("", "")
	first.Add("a", "1")
	_, err := s.Record(ctx, "t", first)
	require.NoError(t, err)

	second := aggregate.New("", "")
	second.Add("b", "2")
	run, err := s.Record(ctx, "t", second)
	require.NoError(t, err)

	got, m, err := s.Latest(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, []string{"b"}, m.Keys())
}

func TestLatest_NotFound(t *testing.T) {
	s := testStore(t)
	_, _, err := s.Latest(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRuns(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.Record(ctx, "parapraxis-category", categoryMap())
	require.NoError(t, err)
	empty := aggregate.New("", "")
	_, err = s.Record(ctx, "icedsl-split", empty)
	require.NoError(t, err)

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "icedsl-split", runs[0].Task)
	assert.Equal(t, 0, runs[0].Keys)
	assert.Equal(t, "parapraxis-category", runs[1].Task)
	assert.Equal(t, 3, runs[1].Keys)
	assert.Equal(t, 3, runs[1].IDs)
}

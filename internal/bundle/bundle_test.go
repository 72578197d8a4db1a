// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bundle

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTask(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	a := writeTask(t, dir, "training/007bbfb7.json", `{"train": [{"input": [[0]], "output": [[1]]}], "test": []}`)
	b := writeTask(t, dir, "evaluation/00576224.json", `{"id": "old", "train": []}`)

	d, err := Build([]string{a, b})
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())

	got, err := json.MarshalIndent(d, "", "  ")
	require.NoError(t, err)

	want := `{
  "task-0": {
    "train": [
      {
        "input": [
          [
            0
          ]
        ],
        "output": [
          [
            1
          ]
        ]
      }
    ],
    "test": [],
    "id": "007bbfb7"
  },
  "task-1": {
    "id": "00576224",
    "train": []
  }
}`
	assert.Equal(t, want, string(got))
}

func TestBuild_KeysFollowFileOrder(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for i := 0; i < 12; i++ {
		files = append(files, writeTask(t, dir, filepath.Join("d", string(rune('a'+i))+".json"), `{}`))
	}

	d, err := Build(files)
	require.NoError(t, err)

	data, err := d.MarshalJSON()
	require.NoError(t, err)
	obj, err := decodeObject(data)
	require.NoError(t, err)
	require.Len(t, obj, 12)
	assert.Equal(t, "task-2", obj[2].key)
	assert.Equal(t, "task-10", obj[10].key)
	assert.JSONEq(t, `{"id": "k"}`, string(obj[10].value))
}

func TestBuild_ParseError(t *testing.T) {
	dir := t.TempDir()
	good := writeTask(t, dir, "a.json", `{}`)
	bad := writeTask(t, dir, "b.json", `{"train": [`)

	_, err := Build([]string{good, bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)

	notObject := writeTask(t, dir, "c.json", `[1, 2]`)
	_, err = Build([]string{notObject})
	require.Error(t, err)
}

func TestBuild_Empty(t *testing.T) {
	d, err := Build(nil)
	require.NoError(t, err)
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestTaskID(t *testing.T) {
	assert.Equal(t, "007bbfb7", TaskID("/data/ARC/training/007bbfb7.json"))
	assert.Equal(t, "notes.txt", TaskID("notes.txt"))
}

type fakeCompressor struct {
	calls []string
	err   error
}

func (f *fakeCompressor) Name() string    { return "fake" }
func (f *fakeCompressor) Available() bool { return true }
func (f *fakeCompressor) Compress(path string) (string, error) {
	f.calls = append(f.calls, path)
	if f.err != nil {
		return "", f.err
	}
	return path + ".gz", nil
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	writeTask(t, dir, "ARC-AGI-2/training/b.json", `{"train": []}`)
	writeTask(t, dir, "ARC-AGI-2/evaluation/a.json", `{"train": []}`)
	writeTask(t, dir, "ARC-AGI-2/README.md", `# not a task`)

	out := filepath.Join(t.TempDir(), "dataset.json")
	comp := &fakeCompressor{}

	res, err := Run(Options{Dir: filepath.Join(dir, "ARC-AGI-2"), Output: out, Compressor: comp}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Tasks)
	assert.Equal(t, out, res.Output)
	assert.Equal(t, out+".gz", res.Artifact)
	assert.Equal(t, []string{out}, comp.calls)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	obj, err := decodeObject(data)
	require.NoError(t, err)
	require.Len(t, obj, 2)
	assert.JSONEq(t, `{"train": [], "id": "a"}`, string(obj[0].value), "evaluation sorts before training")
}

func TestRun_EmptyDirectory(t *testing.T) {
	out := filepath.Join(t.TempDir(), "d.json")
	comp := &fakeCompressor{}

	res, err := Run(Options{Dir: t.TempDir(), Output: out, Compressor: comp}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Tasks)
	assert.Equal(t, out+".gz", res.Artifact)
	assert.Equal(t, []string{out}, comp.calls)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
}

func TestRun_GlobCharactersInDirectory(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "[data]")
	writeTask(t, dir, "training/0a.json", `{"train": []}`)
	writeTask(t, root, "d/other.json", `{"train": []}`)

	out := filepath.Join(t.TempDir(), "d.json")
	res, err := Run(Options{Dir: dir, Output: out}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Tasks)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id": "0a"`)
	assert.NotContains(t, string(data), `"id": "other"`)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeTask(t, dir, "b/2.json", `{}`)
	writeTask(t, dir, "a/1.json", `{}`)
	writeTask(t, dir, "a/notes.md", `#`)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "c.json"), 0o755))

	files, err := Discover(dir, DefaultPattern)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a", "1.json"), filepath.Join(dir, "b", "2.json")}, files)

	_, err = Discover(filepath.Join(dir, "missing"), DefaultPattern)
	require.Error(t, err)

	_, err = Discover(dir, "[")
	require.Error(t, err)
}

func TestRun_Errors(t *testing.T) {
	_, err := Run(Options{Dir: filepath.Join(t.TempDir(), "missing"), Output: filepath.Join(t.TempDir(), "d.json")}, nil)
	require.Error(t, err, "missing directory")

	dir := t.TempDir()
	writeTask(t, dir, "a.json", `{}`)
	out := filepath.Join(t.TempDir(), "d.json")
	res, err := Run(Options{Dir: dir, Output: out, Compressor: &fakeCompressor{err: errors.New("gzip failed")}}, nil)
	require.Error(t, err)
	assert.Equal(t, out, res.Output, "the uncompressed dataset is still reported")
	assert.FileExists(t, out)
}

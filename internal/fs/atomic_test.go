package fs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic_Basic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tsconfig.json")
	fsys := NewRealFS()

	data := []byte(`{"extends": "./base.json"}`)
	require.NoError(t, WriteFileAtomic(fsys, path, data, 0o644))

	got, err := fsys.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(got))
	assertNoTempFiles(t, dir)
}

func TestWriteFileAtomic_Overwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "package.json")
	fsys := NewRealFS()

	require.NoError(t, WriteFileAtomic(fsys, path, []byte(`{"old": true}`), 0o644))
	updated := []byte(`{"new": true, "version": 2}`)
	require.NoError(t, WriteFileAtomic(fsys, path, updated, 0o644))

	got, err := fsys.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(updated), string(got))
	assertNoTempFiles(t, dir)
}

func TestWriteFileAtomic_Permissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	fsys := NewRealFS()

	require.NoError(t, WriteFileAtomic(fsys, path, []byte("x"), 0o600))

	info, err := fsys.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestWriteFileAtomic_RenameFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "base.json")

	realFS := NewRealFS()
	initial := []byte(`{"initial": true}`)
	require.NoError(t, realFS.WriteFile(path, initial, 0o644))

	stubFS := &failingRenameFS{FS: realFS}
	err := WriteFileAtomic(stubFS, path, []byte(`{"new": true}`), 0o644)
	require.Error(t, err)

	got, err := realFS.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(initial), string(got), "original content must survive a failed rename")
	assertNoTempFiles(t, dir)
}

// failingRenameFS wraps an FS and fails on Rename operations.
type failingRenameFS struct {
	FS
}

func (f *failingRenameFS) Rename(oldpath, newpath string) error {
	return os.ErrPermission
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".wsgen-tmp-"), "temp file left behind: %s", e.Name())
	}
}

func TestWriteJSONAtomic_PrettyAndValid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	fsys := NewRealFS()

	type ledger struct {
		Files map[string]string `json:"files"`
	}
	require.NoError(t, WriteJSONAtomic(fsys, path, ledger{Files: map[string]string{"a": "1"}}, 0o644))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(content), "\n"))
	assert.Contains(t, string(content), "\n  \"files\"")

	var got ledger
	require.NoError(t, json.Unmarshal(content, &got))
	assert.Equal(t, "1", got.Files["a"])
}

func TestWriteJSONAtomic_ParentDirMustExist(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing", "state.json")
	assert.Error(t, WriteJSONAtomic(NewRealFS(), path, "x", 0o644))
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	fsys := NewRealFS()

	ok, err := Exists(fsys, filepath.Join(dir, "nope"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Exists(fsys, dir)
	require.NoError(t, err)
	assert.True(t, ok)
}

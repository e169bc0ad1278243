package registry

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestBuild_AssignsIDsInArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	fileA := filepath.Join(dir, "fileA.txt")
	writeFile(t, fileA, "hello")
	dirB := filepath.Join(dir, "dirB")
	writeFile(t, filepath.Join(dirB, "nested", "b.txt"), "world")

	r, err := Build([]string{fileA, dirB})
	require.NoError(t, err)
	t.Cleanup(func() { r.Cleanup() })

	require.Equal(t, 2, r.Len())

	item0, err := r.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "fileA.txt", item0.DisplayName)
	assert.Equal(t, fileA, item0.SourcePath)
	assert.False(t, item0.Temporary)
	assert.EqualValues(t, 5, item0.SizeBytes)

	item1, err := r.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "dirB.zip", item1.DisplayName)
	assert.True(t, item1.Temporary)
	assert.Greater(t, item1.SizeBytes, int64(0))
}

func TestBuild_ArchiveContainsRecursiveContents(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "project")
	writeFile(t, filepath.Join(src, "a.txt"), "aaa")
	writeFile(t, filepath.Join(src, "sub", "b.txt"), "bbb")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "empty"), 0o755))

	r, err := Build([]string{src})
	require.NoError(t, err)
	t.Cleanup(func() { r.Cleanup() })

	item, err := r.Get(0)
	require.NoError(t, err)

	zr, err := zip.OpenReader(item.SourcePath)
	require.NoError(t, err)
	defer zr.Close()

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	assert.True(t, names["a.txt"])
	assert.True(t, names["sub/b.txt"])
	assert.True(t, names["empty/"])
}

func TestBuild_MissingPathAbortsEntirely(t *testing.T) {
	dir := t.TempDir()
	exists := filepath.Join(dir, "exists.txt")
	writeFile(t, exists, "data")

	r, err := Build([]string{exists, filepath.Join(dir, "missing.txt")})
	assert.ErrorIs(t, err, ErrSourceNotFound)
	assert.Nil(t, r)

	// No partial state: even the path that existed is not retrievable.
	_, err = r.Get(0)
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.List())
}

func TestGet_OutOfRange(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	writeFile(t, file, "x")

	r, err := Build([]string{file})
	require.NoError(t, err)

	for _, id := range []int{-1, 1, 42} {
		_, err := r.Get(id)
		assert.ErrorIs(t, err, ErrItemNotFound, "id %d", id)
	}
}

func TestList_StableAcrossCalls(t *testing.T) {
	dir := t.TempDir()
	f1 := filepath.Join(dir, "one.txt")
	f2 := filepath.Join(dir, "two.txt")
	writeFile(t, f1, "1")
	writeFile(t, f2, "22")

	r, err := Build([]string{f1, f2})
	require.NoError(t, err)

	first := r.List()
	second := r.List()
	assert.Equal(t, first, second)
	require.Len(t, first, 2)
	assert.Equal(t, 0, first[0].ID)
	assert.Equal(t, "one.txt", first[0].DisplayName)
	assert.Equal(t, 1, first[1].ID)
	assert.EqualValues(t, 2, first[1].SizeBytes)
}

func TestCleanup_RemovesArchives(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "stuff")
	writeFile(t, filepath.Join(src, "f.txt"), "f")

	r, err := Build([]string{src})
	require.NoError(t, err)

	item, err := r.Get(0)
	require.NoError(t, err)
	require.FileExists(t, item.SourcePath)

	require.NoError(t, r.Cleanup())
	assert.NoFileExists(t, item.SourcePath)

	// Idempotent.
	assert.NoError(t, r.Cleanup())
}

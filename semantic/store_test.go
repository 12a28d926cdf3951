package semantic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/filesdsl/filesdsl/budget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFolder(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cats.txt"), []byte("Cats are small feline companions that purr."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rockets.txt"), []byte("Rockets use combustion to reach orbit."), 0o644))
	return dir
}

func TestStore_PrepareThenChunksForFile(t *testing.T) {
	dir := writeTestFolder(t)
	store := NewStore()

	stats, err := store.Prepare(dir, budget.Unbounded())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.IndexedFiles)
	assert.Equal(t, 2, stats.IndexedPages)
	assert.DirExists(t, filepath.Join(dir, IndexDirName))

	chunks, covered, err := store.ChunksForFile(filepath.Join(dir, "cats.txt"))
	require.NoError(t, err)
	require.True(t, covered)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0], "Cats")
}

func TestStore_ChunksForFile_NotCovered(t *testing.T) {
	dir := t.TempDir()
	store := NewStore()
	_, covered, err := store.ChunksForFile(filepath.Join(dir, "nope.txt"))
	require.NoError(t, err)
	assert.False(t, covered)
}

func TestStore_SearchFilePages_RanksBySimilarity(t *testing.T) {
	dir := writeTestFolder(t)
	store := NewStore()
	_, err := store.Prepare(dir, budget.Unbounded())
	require.NoError(t, err)

	pages, err := store.SearchFilePages(filepath.Join(dir, "cats.txt"), "feline purring companion", 1)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 1, pages[0])
}

func TestStore_SearchFilePages_MissingIndexError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lonely.txt"), []byte("x"), 0o644))
	store := NewStore()

	_, err := store.SearchFilePages(filepath.Join(dir, "lonely.txt"), "query", 1)
	require.Error(t, err)
}

func TestStore_SearchFilePages_RejectsEmptyQuery(t *testing.T) {
	dir := writeTestFolder(t)
	store := NewStore()
	_, err := store.Prepare(dir, budget.Unbounded())
	require.NoError(t, err)

	_, err = store.SearchFilePages(filepath.Join(dir, "cats.txt"), "   ", 1)
	require.Error(t, err)
}

func TestStore_FilesUnderPrefix(t *testing.T) {
	dir := writeTestFolder(t)
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "nested.txt"), []byte("Nested file about gardening."), 0o644))

	store := NewStore()
	_, err := store.Prepare(dir, budget.Unbounded())
	require.NoError(t, err)

	t.Run("non-recursive excludes nested files", func(t *testing.T) {
		paths, ok, err := store.FilesUnderPrefix(dir, false)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Len(t, paths, 2)
	})

	t.Run("recursive includes nested files", func(t *testing.T) {
		paths, ok, err := store.FilesUnderPrefix(dir, true)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Len(t, paths, 3)
	})
}

func TestStore_Prepare_NonexistentFolder(t *testing.T) {
	store := NewStore()
	_, err := store.Prepare(filepath.Join(t.TempDir(), "missing"), budget.Unbounded())
	require.Error(t, err)
}

func TestStore_Prepare_SkipsIndexDirOnRebuild(t *testing.T) {
	dir := writeTestFolder(t)
	store := NewStore()
	_, err := store.Prepare(dir, budget.Unbounded())
	require.NoError(t, err)

	stats, err := store.Prepare(dir, budget.Unbounded())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.IndexedFiles)
}

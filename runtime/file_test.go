package runtime

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/filesdsl/filesdsl/budget"
	"github.com/filesdsl/filesdsl/sandbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T, root string) *Context {
	t.Helper()
	sb, err := sandbox.NewRoot(root)
	require.NoError(t, err)
	return &Context{Sandbox: sb, Budget: budget.Unbounded(), Cwd: root}
}

func writeLines(t *testing.T, path string, n int) {
	t.Helper()
	var lines []byte
	for i := 0; i < n; i++ {
		lines = append(lines, []byte("line\n")...)
	}
	require.NoError(t, os.WriteFile(path, lines, 0o644))
}

func TestNewFileChecked(t *testing.T) {
	dir := t.TempDir()
	ctx := testContext(t, dir)

	t.Run("succeeds for an existing file", func(t *testing.T) {
		path := filepath.Join(dir, "a.txt")
		require.NoError(t, os.WriteFile(path, []byte("hi"), 0o644))
		f, err := NewFileChecked(ctx, path, dir)
		require.NoError(t, err)
		assert.Equal(t, path, f.AbsPath)
	})

	t.Run("fails for a missing file with no index", func(t *testing.T) {
		_, err := NewFileChecked(ctx, filepath.Join(dir, "missing.txt"), dir)
		require.Error(t, err)
	})
}

func TestFile_Read(t *testing.T) {
	dir := t.TempDir()
	ctx := testContext(t, dir)
	path := filepath.Join(dir, "big.txt")
	writeLines(t, path, 200)
	f := NewFile(path, dir)

	t.Run("no pages joins all chunks", func(t *testing.T) {
		v, err := f.Read(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, StrKind, v.Kind)
	})

	t.Run("selected pages preserve request order and dedup", func(t *testing.T) {
		v, err := f.Read(ctx, []int64{2, 1, 2})
		require.NoError(t, err)
		require.Equal(t, SeqKind, v.Kind)
		assert.Len(t, v.Seq, 2)
	})

	t.Run("out of range page is an error", func(t *testing.T) {
		_, err := f.Read(ctx, []int64{999})
		require.Error(t, err)
	})
}

func TestFile_SearchAndContains(t *testing.T) {
	dir := t.TempDir()
	ctx := testContext(t, dir)
	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))
	f := NewFile(path, dir)

	matches, err := f.Search(ctx, "world", false)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, matches)

	ok, err := f.Contains(ctx, "WORLD", true)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.Contains(ctx, "nope", false)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFile_HeadTail(t *testing.T) {
	dir := t.TempDir()
	ctx := testContext(t, dir)
	path := filepath.Join(dir, "big.txt")
	writeLines(t, path, 200)
	f := NewFile(path, dir)

	head, err := f.Head(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, head)

	tail, err := f.Tail(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, tail)
}

func TestFile_Snippets(t *testing.T) {
	dir := t.TempDir()
	ctx := testContext(t, dir)
	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("the quick brown fox jumps over the lazy dog"), 0o644))
	f := NewFile(path, dir)

	snippets, err := f.Snippets(ctx, "fox", 5, 5, false)
	require.NoError(t, err)
	require.Len(t, snippets, 1)
	assert.Contains(t, snippets[0], "[page 1]")
	assert.Contains(t, snippets[0], "fox")
}

func TestFile_SemanticSearch_NoIndex(t *testing.T) {
	dir := t.TempDir()
	ctx := testContext(t, dir)
	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("text"), 0o644))
	f := NewFile(path, dir)

	_, err := f.SemanticSearch(ctx, "query", 5)
	require.Error(t, err)
}

func TestFile_DisplayPath(t *testing.T) {
	f := &File{AbsPath: "/root/docs/a.txt", DisplayRoot: "/root"}
	assert.Equal(t, "docs/a.txt", f.DisplayPath())

	noRoot := &File{AbsPath: "/root/docs/a.txt"}
	assert.Equal(t, "/root/docs/a.txt", noRoot.DisplayPath())
}

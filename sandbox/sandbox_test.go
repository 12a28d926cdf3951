package sandbox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/filesdsl/filesdsl/fdslerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "a.txt"), []byte("x"), 0o644))

	root, err := NewRoot(dir)
	require.NoError(t, err)

	t.Run("resolves a relative path against the root", func(t *testing.T) {
		got, err := root.Resolve("", "sub/a.txt")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "sub", "a.txt"), got)
	})

	t.Run("resolves relative to a cwd inside the root", func(t *testing.T) {
		got, err := root.Resolve(sub, "a.txt")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(sub, "a.txt"), got)
	})

	t.Run("rejects escaping the root with ..", func(t *testing.T) {
		_, err := root.Resolve("", "../outside.txt")
		require.Error(t, err)
		var se *fdslerr.SandboxError
		assert.ErrorAs(t, err, &se)
	})

	t.Run("rejects an absolute path outside the root", func(t *testing.T) {
		_, err := root.Resolve("", "/etc/passwd")
		require.Error(t, err)
		var se *fdslerr.SandboxError
		assert.ErrorAs(t, err, &se)
	})

	t.Run("accepts the root itself", func(t *testing.T) {
		got, err := root.Resolve("", ".")
		require.NoError(t, err)
		assert.Equal(t, dir, got)
	})
}

func TestResolve_SymlinkEscape(t *testing.T) {
	dir := t.TempDir()
	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "secret.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Symlink(outside, filepath.Join(dir, "escape")))

	root, err := NewRoot(dir)
	require.NoError(t, err)

	_, err = root.Resolve("", "escape/secret.txt")
	require.Error(t, err)
	var se *fdslerr.SandboxError
	assert.ErrorAs(t, err, &se)
}

func TestExistsAndIsDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	assert.True(t, Exists(dir))
	assert.True(t, Exists(file))
	assert.False(t, Exists(filepath.Join(dir, "missing")))

	assert.True(t, IsDir(dir))
	assert.False(t, IsDir(file))
}

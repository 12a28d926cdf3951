package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filesdsl/filesdsl/docextract"
)

func TestLoadConfig_WiresChunkLinesIntoDocextract(t *testing.T) {
	original := docextract.TextChunkLines
	originalPath := configPath
	defer func() {
		docextract.TextChunkLines = original
		configPath = originalPath
	}()

	dir := t.TempDir()
	path := filepath.Join(dir, "fdsl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunk_lines: 40\n"), 0o644))

	configPath = path
	loadConfig()

	assert.Equal(t, 40, docextract.TextChunkLines)
	assert.Equal(t, 40, cfg.ChunkLines)
}

func TestLoadConfig_MissingFileFallsBackToDefaults(t *testing.T) {
	original := docextract.TextChunkLines
	originalPath := configPath
	defer func() {
		docextract.TextChunkLines = original
		configPath = originalPath
	}()

	configPath = filepath.Join(t.TempDir(), "does-not-exist.yaml")
	loadConfig()

	assert.Equal(t, docextract.DefaultTextChunkLines, docextract.TextChunkLines)
}

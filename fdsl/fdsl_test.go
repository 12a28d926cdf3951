package fdsl

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filesdsl/filesdsl/runtime"
)

func TestRunScript_BasicExecution(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.txt"), []byte("hello filesdsl"), 0o644))

	var out bytes.Buffer
	env, err := RunScript(`print(File("doc.txt").read())`+"\n", ".", dir, &out)
	require.NoError(t, err)
	assert.Equal(t, "hello filesdsl\n", out.String())
	assert.Empty(t, env)
}

func TestRunScript_SandboxContainment(t *testing.T) {
	dir := t.TempDir()
	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "secret.txt"), []byte("top secret"), 0o644))

	var out bytes.Buffer
	_, err := RunScript(`f = File("../`+filepath.Base(outside)+`/secret.txt")`+"\n", ".", dir, &out)
	require.Error(t, err)
}

func TestExecuteFDSL_CapturesOutputAndReturnsIt(t *testing.T) {
	dir := t.TempDir()
	out, err := ExecuteFDSL(`print("result:", 1 + 1)`+"\n", ".", dir, nil)
	require.NoError(t, err)
	assert.Equal(t, "result: 2\n", out)
}

func TestExecuteFDSL_TimeoutReturnsPartialOutput(t *testing.T) {
	dir := t.TempDir()
	src := `print("start")` + "\n" + `total = 0` + "\n" + `for i in [1:1000000000]:` + "\n" + `    total = total + i` + "\n"
	timeout := 2 * time.Millisecond
	out, err := ExecuteFDSL(src, ".", dir, &timeout)
	require.Error(t, err)
	assert.Contains(t, out, "start")
}

func TestRunScript_PrepareThenReadAfterOriginalDeleted(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("durable content"), 0o644))

	stats, err := sharedIndex.Prepare(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.IndexedFiles)

	require.NoError(t, os.Remove(path))

	var out bytes.Buffer
	_, err = RunScript(`print(File("doc.txt").read())`+"\n", ".", dir, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "durable content")
}

func TestRunScript_ConcurrentInvocationsDoNotShareStdout(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.txt"), []byte("x"), 0o644))

	var wg sync.WaitGroup
	results := make([]string, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := ExecuteFDSL(`print("n:", `+strconv.Itoa(i)+`)`+"\n", ".", dir, nil)
			require.NoError(t, err)
			results[i] = out
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		assert.Equal(t, "n: "+strconv.Itoa(i)+"\n", r)
	}
}

func TestRunScript_ReturnsFinalEnvironment(t *testing.T) {
	dir := t.TempDir()
	env, err := RunScript("x = 1 + 1\ny = \"done\"\n", ".", dir, nil)
	require.NoError(t, err)
	assert.Equal(t, runtime.Int(2), env["x"])
	assert.Equal(t, runtime.Str("done"), env["y"])
}

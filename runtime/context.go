package runtime

import (
	"io"

	"github.com/filesdsl/filesdsl/budget"
	"github.com/filesdsl/filesdsl/sandbox"
)

// SemanticProvider is implemented by the semantic package and injected
// into a Context so that runtime (Directory/File) can consult a
// prepared index without runtime importing semantic: semantic extracts
// pages via docextract directly during prepare, so the dependency
// between the two packages runs one way only.
type SemanticProvider interface {
	// ChunksForFile returns a file's chunks from the index, and
	// whether the file is covered by a reachable index at all.
	ChunksForFile(absPath string) (chunks []string, covered bool, err error)
	// SearchFilePages ranks a file's indexed pages against query.
	SearchFilePages(absPath, query string, topK int) ([]int, error)
	// FilesUnderPrefix returns the absolute paths of indexed files
	// reachable under dirAbsPath, and whether any index covers it.
	FilesUnderPrefix(dirAbsPath string, recursive bool) (paths []string, covered bool, err error)
}

// Context carries the per-invocation state every built-in needs: the
// sandbox boundary, the execution budget, the script's working
// directory, the captured stdout sink, and (optionally) a semantic
// index provider. Every field is local to one invocation so that
// concurrent run_script/execute_fdsl calls never share mutable state.
type Context struct {
	Sandbox *sandbox.Root
	Budget  *budget.Budget
	Cwd     string // absolute path, inside Sandbox
	Index   SemanticProvider
	Stdout  io.Writer
}

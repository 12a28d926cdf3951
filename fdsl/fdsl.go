// Package fdsl is the embedding API: the two entry points a host
// process uses to parse and evaluate a script, per spec.md §4.10. Each
// call is fully self-contained — its own environment, its own stdout
// sink, its own optional budget — so concurrent calls never interleave
// output or share mutable per-invocation state. The only state shared
// across calls is the semantic index cache, which is deliberately
// process-wide (spec.md §5) and safe for concurrent readers.
package fdsl

import (
	"bytes"
	"io"
	"time"

	"github.com/filesdsl/filesdsl/budget"
	"github.com/filesdsl/filesdsl/eval"
	"github.com/filesdsl/filesdsl/fdslerr"
	"github.com/filesdsl/filesdsl/parser"
	"github.com/filesdsl/filesdsl/runtime"
	"github.com/filesdsl/filesdsl/sandbox"
	"github.com/filesdsl/filesdsl/semantic"
)

// sharedIndex is the one process-wide piece of mutable state
// evaluation touches: a concurrency-safe cache of loaded semantic
// indexes, reused across invocations since rebuilding it per call
// would defeat the point of a prepared index.
var sharedIndex = semantic.NewStore()

// RunScript parses and evaluates source and returns its final
// environment. cwd is resolved against sandboxRoot before execution;
// every Directory/File built-in is confined to sandboxRoot.
func RunScript(source, cwd, sandboxRoot string, stdout io.Writer) (map[string]runtime.Value, error) {
	return runScript(source, cwd, sandboxRoot, stdout, nil)
}

// ExecuteFDSL runs code with a fresh, private stdout buffer and
// returns the captured text. A non-nil timeout bounds execution with a
// budget; on timeout (or any other failure) the text captured before
// the failure is still returned alongside the error.
func ExecuteFDSL(code, cwd, sandboxRoot string, timeout *time.Duration) (string, error) {
	var buf bytes.Buffer
	var b *budget.Budget
	if timeout != nil {
		b = budget.New(*timeout)
	}
	_, err := runScript(code, cwd, sandboxRoot, &buf, b)
	if err != nil {
		if te, ok := err.(*fdslerr.TimeoutError); ok {
			te.PartialOutput = buf.String()
		}
		return buf.String(), err
	}
	return buf.String(), nil
}

func runScript(source, cwd, sandboxRoot string, stdout io.Writer, b *budget.Budget) (map[string]runtime.Value, error) {
	root, err := sandbox.NewRoot(sandboxRoot)
	if err != nil {
		return nil, err
	}
	absCwd, err := root.Resolve("", cwd)
	if err != nil {
		return nil, err
	}

	program, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}

	if b == nil {
		b = budget.Unbounded()
	}
	ctx := &runtime.Context{
		Sandbox: root,
		Budget:  b,
		Cwd:     absCwd,
		Index:   sharedIndex,
		Stdout:  stdout,
	}
	return eval.New(ctx).Run(program)
}

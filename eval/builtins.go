package eval

import (
	"fmt"
	"strings"

	"github.com/filesdsl/filesdsl/fdslerr"
	"github.com/filesdsl/filesdsl/runtime"
)

func (e *Evaluator) resolvePath(path string) (string, error) {
	return e.ctx.Sandbox.Resolve(e.ctx.Cwd, path)
}

// builtinDirectory implements Directory(path, recursive=true).
func (e *Evaluator) builtinDirectory(ctx *runtime.Context, args []runtime.Value, kwargs map[string]runtime.Value) (runtime.Value, error) {
	path, err := requireString(args, kwargs, 0, "path")
	if err != nil {
		return runtime.Value{}, err
	}
	recursive, err := optionalBool(args, kwargs, 1, "recursive", true)
	if err != nil {
		return runtime.Value{}, err
	}
	abs, err := e.resolvePath(path)
	if err != nil {
		return runtime.Value{}, err
	}
	d, err := runtime.NewDirectory(ctx, abs, recursive, ctx.Cwd)
	if err != nil {
		return runtime.Value{}, err
	}
	return runtime.Dir(d), nil
}

// builtinFile implements File(path).
func (e *Evaluator) builtinFile(ctx *runtime.Context, args []runtime.Value, kwargs map[string]runtime.Value) (runtime.Value, error) {
	path, err := requireString(args, kwargs, 0, "path")
	if err != nil {
		return runtime.Value{}, err
	}
	abs, err := e.resolvePath(path)
	if err != nil {
		return runtime.Value{}, err
	}
	f, err := runtime.NewFileChecked(ctx, abs, ctx.Cwd)
	if err != nil {
		return runtime.Value{}, err
	}
	return runtime.File_(f), nil
}

// builtinLen implements len(x) over sequences, strings and
// directories.
func (e *Evaluator) builtinLen(ctx *runtime.Context, args []runtime.Value, kwargs map[string]runtime.Value) (runtime.Value, error) {
	v, ok := arg(args, kwargs, 0, "x")
	if !ok {
		return runtime.Value{}, fdslerr.NewRuntimeError("len() requires one argument")
	}
	switch v.Kind {
	case runtime.SeqKind:
		return runtime.Int(int64(len(v.Seq))), nil
	case runtime.StrKind:
		return runtime.Int(int64(len([]rune(v.Str)))), nil
	case runtime.DirKind:
		n, err := v.Dir.Len(ctx)
		if err != nil {
			return runtime.Value{}, err
		}
		return runtime.Int(int64(n)), nil
	default:
		return runtime.Value{}, fdslerr.NewRuntimeError("len() does not support %s", v.TypeName())
	}
}

// builtinPrint implements print(...): renders each argument, joins
// with single spaces, writes a trailing newline to the active stdout
// sink.
func (e *Evaluator) builtinPrint(ctx *runtime.Context, args []runtime.Value, kwargs map[string]runtime.Value) (runtime.Value, error) {
	parts := make([]string, len(args))
	for i, v := range args {
		parts[i] = v.Render()
	}
	if ctx.Stdout != nil {
		fmt.Fprintln(ctx.Stdout, strings.Join(parts, " "))
	}
	return runtime.Value{}, nil
}

package eval

import (
	"github.com/filesdsl/filesdsl/ast"
	"github.com/filesdsl/filesdsl/fdslerr"
	"github.com/filesdsl/filesdsl/runtime"
)

func (e *Evaluator) evalCall(call *ast.Call) (runtime.Value, error) {
	if attr, ok := call.Callee.(*ast.Attribute); ok {
		obj, err := e.evalExpr(attr.Obj)
		if err != nil {
			return runtime.Value{}, err
		}
		args, kwargs, err := e.evalArgs(call)
		if err != nil {
			return runtime.Value{}, err
		}
		return e.dispatchMethod(obj, attr.Name, args, kwargs, call.Pos())
	}

	callee, err := e.evalExpr(call.Callee)
	if err != nil {
		return runtime.Value{}, err
	}
	if callee.Kind != runtime.BuiltinKind {
		return runtime.Value{}, &fdslerr.RuntimeError{Pos: call.Pos(), Message: "value of type " + callee.TypeName() + " is not callable"}
	}
	args, kwargs, err := e.evalArgs(call)
	if err != nil {
		return runtime.Value{}, err
	}
	return callee.Builtin.Fn(e.ctx, args, kwargs)
}

func (e *Evaluator) evalArgs(call *ast.Call) ([]runtime.Value, map[string]runtime.Value, error) {
	args := make([]runtime.Value, len(call.Args))
	for i, a := range call.Args {
		v, err := e.evalExpr(a)
		if err != nil {
			return nil, nil, err
		}
		args[i] = v
	}
	kwargs := make(map[string]runtime.Value, len(call.Kwargs))
	for _, kw := range call.Kwargs {
		v, err := e.evalExpr(kw.Value)
		if err != nil {
			return nil, nil, err
		}
		kwargs[kw.Name] = v
	}
	return args, kwargs, nil
}

// arg looks up the argument at positional index or keyword name,
// positional taking precedence, per the call-argument binding rules
// every built-in/method below follows.
func arg(args []runtime.Value, kwargs map[string]runtime.Value, index int, name string) (runtime.Value, bool) {
	if index < len(args) {
		return args[index], true
	}
	if v, ok := kwargs[name]; ok {
		return v, true
	}
	return runtime.Value{}, false
}

func requireString(args []runtime.Value, kwargs map[string]runtime.Value, index int, name string) (string, error) {
	v, ok := arg(args, kwargs, index, name)
	if !ok {
		return "", fdslerr.NewRuntimeError("missing required argument '%s'", name)
	}
	if v.Kind != runtime.StrKind {
		return "", fdslerr.NewRuntimeError("argument '%s' must be a string, got %s", name, v.TypeName())
	}
	return v.Str, nil
}

func optionalString(args []runtime.Value, kwargs map[string]runtime.Value, index int, name, def string) (string, error) {
	v, ok := arg(args, kwargs, index, name)
	if !ok {
		return def, nil
	}
	if v.Kind != runtime.StrKind {
		return "", fdslerr.NewRuntimeError("argument '%s' must be a string, got %s", name, v.TypeName())
	}
	return v.Str, nil
}

func optionalBool(args []runtime.Value, kwargs map[string]runtime.Value, index int, name string, def bool) (bool, error) {
	v, ok := arg(args, kwargs, index, name)
	if !ok {
		return def, nil
	}
	if v.Kind != runtime.BoolKind {
		return false, fdslerr.NewRuntimeError("argument '%s' must be a bool, got %s", name, v.TypeName())
	}
	return v.Bool, nil
}

func optionalBoolPtr(args []runtime.Value, kwargs map[string]runtime.Value, index int, name string) (*bool, error) {
	v, ok := arg(args, kwargs, index, name)
	if !ok {
		return nil, nil
	}
	if v.Kind != runtime.BoolKind {
		return nil, fdslerr.NewRuntimeError("argument '%s' must be a bool, got %s", name, v.TypeName())
	}
	b := v.Bool
	return &b, nil
}

func optionalInt(args []runtime.Value, kwargs map[string]runtime.Value, index int, name string, def int64) (int64, error) {
	v, ok := arg(args, kwargs, index, name)
	if !ok {
		return def, nil
	}
	if v.Kind != runtime.IntKind {
		return 0, fdslerr.NewRuntimeError("argument '%s' must be an integer, got %s", name, v.TypeName())
	}
	return v.Int, nil
}

// optionalPages extracts read()'s pages argument: absent means "whole
// document", an int means a single page, a list means an explicit
// ordered page selection.
func optionalPages(args []runtime.Value, kwargs map[string]runtime.Value) ([]int64, error) {
	v, ok := arg(args, kwargs, 0, "pages")
	if !ok {
		return nil, nil
	}
	switch v.Kind {
	case runtime.IntKind:
		return []int64{v.Int}, nil
	case runtime.SeqKind:
		pages := make([]int64, len(v.Seq))
		for i, item := range v.Seq {
			if item.Kind != runtime.IntKind {
				return nil, fdslerr.NewRuntimeError("pages must be integers, got %s", item.TypeName())
			}
			pages[i] = item.Int
		}
		return pages, nil
	default:
		return nil, fdslerr.NewRuntimeError("pages must be an integer or a list of integers, got %s", v.TypeName())
	}
}

// Package eval implements the FilesDSL tree-walking evaluator: a
// direct recursive interpreter over the ast package's statement and
// expression nodes, with a flat string-to-value environment and an
// immutable built-in table seeded at the start of every run.
package eval

import (
	"fmt"

	"github.com/filesdsl/filesdsl/ast"
	"github.com/filesdsl/filesdsl/fdslerr"
	"github.com/filesdsl/filesdsl/runtime"
)

// Evaluator runs one script to completion against one Context. Every
// field is local to the invocation; no package-level mutable state is
// touched by Run, satisfying the re-entrancy contract.
type Evaluator struct {
	ctx *runtime.Context
	env map[string]runtime.Value
}

// New creates an Evaluator with the four built-in names seeded:
// Directory, File, len, print.
func New(ctx *runtime.Context) *Evaluator {
	e := &Evaluator{ctx: ctx, env: make(map[string]runtime.Value)}
	e.env["Directory"] = runtime.BuiltinValue(&runtime.Builtin{Name: "Directory", Fn: e.builtinDirectory})
	e.env["File"] = runtime.BuiltinValue(&runtime.Builtin{Name: "File", Fn: e.builtinFile})
	e.env["len"] = runtime.BuiltinValue(&runtime.Builtin{Name: "len", Fn: e.builtinLen})
	e.env["print"] = runtime.BuiltinValue(&runtime.Builtin{Name: "print", Fn: e.builtinPrint})
	return e
}

// Run executes program's statements in order and returns the final
// environment. Names still bound to the built-in of the same name are
// left out, so the result holds only what the script bound.
func (e *Evaluator) Run(program *ast.Program) (map[string]runtime.Value, error) {
	if err := e.execStatements(program.Statements); err != nil {
		return nil, err
	}
	final := make(map[string]runtime.Value, len(e.env))
	for name, v := range e.env {
		if v.Kind == runtime.BuiltinKind && v.Builtin.Name == name {
			continue
		}
		final[name] = v
	}
	return final, nil
}

func (e *Evaluator) execStatements(stmts []ast.Statement) error {
	for _, stmt := range stmts {
		if err := e.ctx.Budget.Check("evaluator statement"); err != nil {
			return err
		}
		if err := e.execStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) execStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.Assign:
		v, err := e.evalExpr(s.Value)
		if err != nil {
			return err
		}
		e.env[s.Name] = v
		return nil

	case *ast.ExprStmt:
		_, err := e.evalExpr(s.Value)
		return err

	case *ast.ForStatement:
		return e.execFor(s)

	case *ast.IfStatement:
		return e.execIf(s)

	default:
		return fdslerr.NewRuntimeError("unsupported statement type %T", stmt)
	}
}

func (e *Evaluator) execFor(s *ast.ForStatement) error {
	// A list literal is iterated element-by-element without first
	// materializing it into a runtime sequence: a range item such as
	// [1:1000000000] would otherwise allocate its entire expansion
	// before the loop body (and the budget) ever runs.
	if list, ok := s.Iterable.(*ast.ListLiteral); ok {
		return e.execForList(s, list)
	}

	iterable, err := e.evalExpr(s.Iterable)
	if err != nil {
		return err
	}
	items, err := e.iterate(iterable, s.Pos())
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := e.ctx.Budget.Check("evaluator loop"); err != nil {
			return err
		}
		e.env[s.Var] = item
		if err := e.execStatements(s.Body); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) execForList(s *ast.ForStatement, list *ast.ListLiteral) error {
	for _, itemExpr := range list.Items {
		if rangeItem, ok := itemExpr.(*ast.RangeItem); ok {
			start, err := e.evalExpr(rangeItem.Start)
			if err != nil {
				return err
			}
			end, err := e.evalExpr(rangeItem.End)
			if err != nil {
				return err
			}
			if start.Kind != runtime.IntKind || end.Kind != runtime.IntKind {
				return &fdslerr.RuntimeError{Pos: rangeItem.Pos(), Message: "range bounds must be integers"}
			}
			if err := e.runRange(s, start.Int, end.Int); err != nil {
				return err
			}
			continue
		}
		v, err := e.evalExpr(itemExpr)
		if err != nil {
			return err
		}
		if err := e.ctx.Budget.Check("evaluator loop"); err != nil {
			return err
		}
		e.env[s.Var] = v
		if err := e.execStatements(s.Body); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) runRange(s *ast.ForStatement, start, end int64) error {
	step := int64(1)
	if start > end {
		step = -1
	}
	for n := start; (step > 0 && n <= end) || (step < 0 && n >= end); n += step {
		if err := e.ctx.Budget.Check("evaluator loop"); err != nil {
			return err
		}
		e.env[s.Var] = runtime.Int(n)
		if err := e.execStatements(s.Body); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) iterate(v runtime.Value, pos fdslerr.Pos) ([]runtime.Value, error) {
	switch v.Kind {
	case runtime.SeqKind:
		return v.Seq, nil
	case runtime.DirKind:
		files, err := v.Dir.Files(e.ctx, nil)
		if err != nil {
			return nil, err
		}
		items := make([]runtime.Value, len(files))
		for i, f := range files {
			items[i] = runtime.File_(f)
		}
		return items, nil
	default:
		return nil, &fdslerr.RuntimeError{Pos: pos, Message: fmt.Sprintf("value of type %s is not iterable", v.TypeName())}
	}
}

func (e *Evaluator) execIf(s *ast.IfStatement) error {
	for _, branch := range s.Branches {
		cond, err := e.evalExpr(branch.Cond)
		if err != nil {
			return err
		}
		if cond.Truthy() {
			return e.execStatements(branch.Body)
		}
	}
	if s.Else != nil {
		return e.execStatements(s.Else)
	}
	return nil
}

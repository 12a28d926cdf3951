package eval

import (
	"github.com/filesdsl/filesdsl/ast"
	"github.com/filesdsl/filesdsl/fdslerr"
	"github.com/filesdsl/filesdsl/runtime"
)

func (e *Evaluator) evalExpr(expr ast.Expression) (runtime.Value, error) {
	switch x := expr.(type) {
	case *ast.Literal:
		return literalValue(x), nil

	case *ast.Name:
		v, ok := e.env[x.Ident]
		if !ok {
			return runtime.Value{}, &fdslerr.RuntimeError{Pos: x.Pos(), Message: "unknown variable '" + x.Ident + "'"}
		}
		return v, nil

	case *ast.ListLiteral:
		return e.evalListLiteral(x)

	case *ast.RangeItem:
		return runtime.Value{}, &fdslerr.RuntimeError{Pos: x.Pos(), Message: "range expression is only valid as a list item"}

	case *ast.Attribute:
		return runtime.Value{}, &fdslerr.RuntimeError{Pos: x.Pos(), Message: "object has no attribute '" + x.Name + "'"}

	case *ast.Call:
		return e.evalCall(x)

	case *ast.UnaryOp:
		return e.evalUnary(x)

	case *ast.BinaryOp:
		return e.evalBinary(x)

	case *ast.CompareOp:
		return e.evalCompare(x)

	default:
		return runtime.Value{}, &fdslerr.RuntimeError{Pos: expr.Pos(), Message: "unsupported expression"}
	}
}

func literalValue(lit *ast.Literal) runtime.Value {
	switch v := lit.Value.(type) {
	case int64:
		return runtime.Int(v)
	case string:
		return runtime.Str(v)
	case bool:
		return runtime.Bool(v)
	default:
		return runtime.Value{}
	}
}

func (e *Evaluator) evalListLiteral(lit *ast.ListLiteral) (runtime.Value, error) {
	var items []runtime.Value
	for _, itemExpr := range lit.Items {
		if rangeItem, ok := itemExpr.(*ast.RangeItem); ok {
			start, err := e.evalExpr(rangeItem.Start)
			if err != nil {
				return runtime.Value{}, err
			}
			end, err := e.evalExpr(rangeItem.End)
			if err != nil {
				return runtime.Value{}, err
			}
			if start.Kind != runtime.IntKind || end.Kind != runtime.IntKind {
				return runtime.Value{}, &fdslerr.RuntimeError{Pos: rangeItem.Pos(), Message: "range bounds must be integers"}
			}
			for _, n := range expandRange(start.Int, end.Int) {
				items = append(items, runtime.Int(n))
			}
			continue
		}
		v, err := e.evalExpr(itemExpr)
		if err != nil {
			return runtime.Value{}, err
		}
		items = append(items, v)
	}
	return runtime.Seq(items), nil
}

// expandRange returns the inclusive integer range from a to b,
// ascending when a <= b and descending otherwise.
func expandRange(a, b int64) []int64 {
	if a <= b {
		out := make([]int64, 0, b-a+1)
		for n := a; n <= b; n++ {
			out = append(out, n)
		}
		return out
	}
	out := make([]int64, 0, a-b+1)
	for n := a; n >= b; n-- {
		out = append(out, n)
	}
	return out
}

func (e *Evaluator) evalUnary(u *ast.UnaryOp) (runtime.Value, error) {
	operand, err := e.evalExpr(u.Operand)
	if err != nil {
		return runtime.Value{}, err
	}
	switch u.Op {
	case "-":
		if operand.Kind != runtime.IntKind {
			return runtime.Value{}, &fdslerr.RuntimeError{Pos: u.Pos(), Message: "unary '-' requires an integer, got " + operand.TypeName()}
		}
		return runtime.Int(-operand.Int), nil
	case "not":
		return runtime.Bool(!operand.Truthy()), nil
	default:
		return runtime.Value{}, &fdslerr.RuntimeError{Pos: u.Pos(), Message: "unknown unary operator " + u.Op}
	}
}

func (e *Evaluator) evalBinary(b *ast.BinaryOp) (runtime.Value, error) {
	if b.Op == "and" {
		left, err := e.evalExpr(b.Left)
		if err != nil {
			return runtime.Value{}, err
		}
		if !left.Truthy() {
			return runtime.Bool(false), nil
		}
		right, err := e.evalExpr(b.Right)
		if err != nil {
			return runtime.Value{}, err
		}
		return runtime.Bool(right.Truthy()), nil
	}
	if b.Op == "or" {
		left, err := e.evalExpr(b.Left)
		if err != nil {
			return runtime.Value{}, err
		}
		if left.Truthy() {
			return runtime.Bool(true), nil
		}
		right, err := e.evalExpr(b.Right)
		if err != nil {
			return runtime.Value{}, err
		}
		return runtime.Bool(right.Truthy()), nil
	}

	left, err := e.evalExpr(b.Left)
	if err != nil {
		return runtime.Value{}, err
	}
	right, err := e.evalExpr(b.Right)
	if err != nil {
		return runtime.Value{}, err
	}

	switch b.Op {
	case "+":
		return addValues(left, right, b.Pos())
	case "-", "*", "/", "%":
		return arithValues(b.Op, left, right, b.Pos())
	default:
		return runtime.Value{}, &fdslerr.RuntimeError{Pos: b.Pos(), Message: "unknown binary operator " + b.Op}
	}
}

func addValues(left, right runtime.Value, pos fdslerr.Pos) (runtime.Value, error) {
	if left.Kind != right.Kind {
		return runtime.Value{}, &fdslerr.RuntimeError{Pos: pos, Message: "cannot add " + left.TypeName() + " and " + right.TypeName()}
	}
	switch left.Kind {
	case runtime.IntKind:
		return runtime.Int(left.Int + right.Int), nil
	case runtime.StrKind:
		return runtime.Str(left.Str + right.Str), nil
	case runtime.SeqKind:
		combined := make([]runtime.Value, 0, len(left.Seq)+len(right.Seq))
		combined = append(combined, left.Seq...)
		combined = append(combined, right.Seq...)
		return runtime.Seq(combined), nil
	default:
		return runtime.Value{}, &fdslerr.RuntimeError{Pos: pos, Message: "cannot add values of type " + left.TypeName()}
	}
}

func arithValues(op string, left, right runtime.Value, pos fdslerr.Pos) (runtime.Value, error) {
	if left.Kind != runtime.IntKind || right.Kind != runtime.IntKind {
		return runtime.Value{}, &fdslerr.RuntimeError{Pos: pos, Message: "operator '" + op + "' requires two integers, got " + left.TypeName() + " and " + right.TypeName()}
	}
	switch op {
	case "-":
		return runtime.Int(left.Int - right.Int), nil
	case "*":
		return runtime.Int(left.Int * right.Int), nil
	case "/":
		if right.Int == 0 {
			return runtime.Value{}, &fdslerr.RuntimeError{Pos: pos, Message: "division by zero"}
		}
		// Go's integer division already truncates toward zero, matching
		// the host platform convention the spec requires.
		return runtime.Int(left.Int / right.Int), nil
	case "%":
		if right.Int == 0 {
			return runtime.Value{}, &fdslerr.RuntimeError{Pos: pos, Message: "division by zero"}
		}
		// original_source's interpreter.py defers to Python's %, which
		// floors toward negative infinity and takes the divisor's sign.
		m := left.Int % right.Int
		if m != 0 && (m < 0) != (right.Int < 0) {
			m += right.Int
		}
		return runtime.Int(m), nil
	default:
		return runtime.Value{}, &fdslerr.RuntimeError{Pos: pos, Message: "unknown arithmetic operator " + op}
	}
}

func (e *Evaluator) evalCompare(c *ast.CompareOp) (runtime.Value, error) {
	left, err := e.evalExpr(c.Left)
	if err != nil {
		return runtime.Value{}, err
	}
	right, err := e.evalExpr(c.Right)
	if err != nil {
		return runtime.Value{}, err
	}

	switch c.Op {
	case "==":
		return runtime.Bool(valuesEqual(left, right)), nil
	case "!=":
		return runtime.Bool(!valuesEqual(left, right)), nil
	default:
		return orderCompare(c.Op, left, right, c.Pos())
	}
}

func orderCompare(op string, left, right runtime.Value, pos fdslerr.Pos) (runtime.Value, error) {
	if left.Kind != right.Kind || (left.Kind != runtime.IntKind && left.Kind != runtime.StrKind) {
		return runtime.Value{}, &fdslerr.RuntimeError{Pos: pos, Message: "cannot order-compare " + left.TypeName() + " and " + right.TypeName()}
	}
	var less, equal bool
	if left.Kind == runtime.IntKind {
		less, equal = left.Int < right.Int, left.Int == right.Int
	} else {
		less, equal = left.Str < right.Str, left.Str == right.Str
	}
	switch op {
	case "<":
		return runtime.Bool(less), nil
	case "<=":
		return runtime.Bool(less || equal), nil
	case ">":
		return runtime.Bool(!less && !equal), nil
	case ">=":
		return runtime.Bool(!less), nil
	default:
		return runtime.Value{}, &fdslerr.RuntimeError{Pos: pos, Message: "unknown comparison operator " + op}
	}
}

func valuesEqual(a, b runtime.Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case runtime.IntKind:
		return a.Int == b.Int
	case runtime.StrKind:
		return a.Str == b.Str
	case runtime.BoolKind:
		return a.Bool == b.Bool
	case runtime.SeqKind:
		if len(a.Seq) != len(b.Seq) {
			return false
		}
		for i := range a.Seq {
			if !valuesEqual(a.Seq[i], b.Seq[i]) {
				return false
			}
		}
		return true
	case runtime.DirKind:
		return a.Dir == b.Dir
	case runtime.FileKind:
		return a.File == b.File
	case runtime.BuiltinKind:
		return a.Builtin == b.Builtin
	default:
		return false
	}
}

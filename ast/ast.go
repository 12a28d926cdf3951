// Package ast defines the FilesDSL abstract syntax tree: a tagged
// union over statements and expressions, each node carrying the
// source location it was parsed from.
package ast

import "github.com/filesdsl/filesdsl/fdslerr"

// Statement is implemented by every statement node.
type Statement interface {
	statementNode()
	Pos() fdslerr.Pos
}

// Expression is implemented by every expression node.
type Expression interface {
	expressionNode()
	Pos() fdslerr.Pos
}

// Program is a parsed script: a flat sequence of top-level statements.
type Program struct {
	Statements []Statement
}

// Base embeds the source location every node carries.
type Base struct {
	Loc fdslerr.Pos
}

func (b Base) Pos() fdslerr.Pos { return b.Loc }

// NewBase constructs the embeddable position field.
func NewBase(pos fdslerr.Pos) Base {
	return Base{Loc: pos}
}

// Assign rebinds Name to the value of Value.
type Assign struct {
	Base
	Name  string
	Value Expression
}

func (*Assign) statementNode() {}

// ExprStmt evaluates Value and discards the result.
type ExprStmt struct {
	Base
	Value Expression
}

func (*ExprStmt) statementNode() {}

// ForStatement binds Var to each element yielded by Iterable in turn
// and executes Body for each.
type ForStatement struct {
	Base
	Var      string
	Iterable Expression
	Body     []Statement
}

func (*ForStatement) statementNode() {}

// IfBranch is one `if`/`elif` arm: Cond guards Body.
type IfBranch struct {
	Cond Expression
	Body []Statement
}

// IfStatement runs the first branch whose Cond is truthy, or Else if
// none match and Else is non-nil.
type IfStatement struct {
	Base
	Branches []IfBranch
	Else     []Statement
}

func (*IfStatement) statementNode() {}

// Literal is an int, string or bool constant.
type Literal struct {
	Base
	Value any // int64 | string | bool
}

func (*Literal) expressionNode() {}

// Name is a variable reference.
type Name struct {
	Base
	Ident string
}

func (*Name) expressionNode() {}

// RangeItem is only valid as a list-literal element: `a:b` expands to
// the inclusive integer range between Start and End.
type RangeItem struct {
	Base
	Start Expression
	End   Expression
}

func (*RangeItem) expressionNode() {}

// ListLiteral is `[ item, item, ... ]`.
type ListLiteral struct {
	Base
	Items []Expression
}

func (*ListLiteral) expressionNode() {}

// Attribute is `Obj.Name`.
type Attribute struct {
	Base
	Obj  Expression
	Name string
}

func (*Attribute) expressionNode() {}

// KeywordArg is a `name = expr` call argument.
type KeywordArg struct {
	Name  string
	Value Expression
}

// Call is `Callee(Args..., Kwargs...)`.
type Call struct {
	Base
	Callee Expression
	Args   []Expression
	Kwargs []KeywordArg
}

func (*Call) expressionNode() {}

// UnaryOp is a prefix operator: "-" or "not".
type UnaryOp struct {
	Base
	Op      string
	Operand Expression
}

func (*UnaryOp) expressionNode() {}

// BinaryOp is an arithmetic or logical infix operator: "+", "-", "*",
// "/", "%", "and", "or".
type BinaryOp struct {
	Base
	Op          string
	Left, Right Expression
}

func (*BinaryOp) expressionNode() {}

// CompareOp is a comparison infix operator: "==", "!=", "<", "<=",
// ">", ">=".
type CompareOp struct {
	Base
	Op          string
	Left, Right Expression
}

func (*CompareOp) expressionNode() {}

package parser

import (
	"testing"

	"github.com/alecthomas/repr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filesdsl/filesdsl/ast"
	"github.com/filesdsl/filesdsl/fdslerr"
)

func TestParse_Assign(t *testing.T) {
	prog, err := Parse("x = 1 + 2")
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)

	assign, ok := prog.Statements[0].(*ast.Assign)
	require.True(t, ok, "expected *ast.Assign, got %s", repr.String(prog.Statements[0]))
	assert.Equal(t, "x", assign.Name)

	bin, ok := assign.Value.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)
}

func TestParse_ExprStatement(t *testing.T) {
	prog, err := Parse(`print("hi")`)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)
	stmt, ok := prog.Statements[0].(*ast.ExprStmt)
	require.True(t, ok)
	call, ok := stmt.Value.(*ast.Call)
	require.True(t, ok)
	name, ok := call.Callee.(*ast.Name)
	require.True(t, ok)
	assert.Equal(t, "print", name.Ident)
	require.Len(t, call.Args, 1)
}

func TestParse_ForLoopWithRange(t *testing.T) {
	src := "for i in [1:10]:\n    print(i)\n"
	prog, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)

	forStmt, ok := prog.Statements[0].(*ast.ForStatement)
	require.True(t, ok)
	assert.Equal(t, "i", forStmt.Var)
	require.Len(t, forStmt.Body, 1)

	list, ok := forStmt.Iterable.(*ast.ListLiteral)
	require.True(t, ok)
	require.Len(t, list.Items, 1)
	rng, ok := list.Items[0].(*ast.RangeItem)
	require.True(t, ok, "expected *ast.RangeItem, got %s", repr.String(list.Items[0]))
	assert.Equal(t, int64(1), rng.Start.(*ast.Literal).Value)
	assert.Equal(t, int64(10), rng.End.(*ast.Literal).Value)
}

func TestParse_IfElifElse(t *testing.T) {
	src := "if x == 1:\n    print(\"a\")\nelif x == 2:\n    print(\"b\")\nelse:\n    print(\"c\")\n"
	prog, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)

	ifStmt, ok := prog.Statements[0].(*ast.IfStatement)
	require.True(t, ok)
	require.Len(t, ifStmt.Branches, 2)
	require.Len(t, ifStmt.Else, 1)
}

func TestParse_MultilineBracketContinuation(t *testing.T) {
	src := "x = [\n    1,\n    2,\n]\n"
	prog, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)
	assign := prog.Statements[0].(*ast.Assign)
	list, ok := assign.Value.(*ast.ListLiteral)
	require.True(t, ok)
	assert.Len(t, list.Items, 2)
}

func TestParse_KeywordArguments(t *testing.T) {
	prog, err := Parse(`Directory(path=".", recursive=False)`)
	require.NoError(t, err)
	stmt := prog.Statements[0].(*ast.ExprStmt)
	call := stmt.Value.(*ast.Call)
	require.Len(t, call.Kwargs, 2)
	assert.Equal(t, "path", call.Kwargs[0].Name)
	assert.Equal(t, "recursive", call.Kwargs[1].Name)
}

func TestParse_MethodCallChain(t *testing.T) {
	prog, err := Parse(`Directory(".").files().len()`)
	require.NoError(t, err)
	stmt := prog.Statements[0].(*ast.ExprStmt)
	outer, ok := stmt.Value.(*ast.Call)
	require.True(t, ok)
	attr, ok := outer.Callee.(*ast.Attribute)
	require.True(t, ok)
	assert.Equal(t, "len", attr.Name)
}

func TestParse_TabIndentationIsRejected(t *testing.T) {
	src := "if True:\n\tprint(1)\n"
	_, err := Parse(src)
	require.Error(t, err)
	var se *fdslerr.SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Message, "Tabs")
}

func TestParse_InvalidAssignmentTarget(t *testing.T) {
	_, err := Parse(`1 = 2`)
	require.Error(t, err)
}

func TestParse_UnterminatedBracket(t *testing.T) {
	_, err := Parse("x = [1, 2\n")
	require.Error(t, err)
}

func TestParse_ElifWithoutIf(t *testing.T) {
	_, err := Parse("elif True:\n    print(1)\n")
	require.Error(t, err)
}

func TestParse_CommentsAndBlankLinesIgnored(t *testing.T) {
	src := "# a comment\n\nx = 1  # trailing comment\n"
	prog, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)
}

func TestParse_UnexpectedIndentation(t *testing.T) {
	_, err := Parse("x = 1\n    y = 2\n")
	require.Error(t, err)
}

package parser

import (
	"fmt"

	"github.com/filesdsl/filesdsl/ast"
	"github.com/filesdsl/filesdsl/fdslerr"
	"github.com/filesdsl/filesdsl/lexer"
)

// exprParser turns a token stream for one logical line into an
// expression tree, precedence-climbing from "or" (lowest) down to
// primaries (highest): or -> and -> not -> compare -> add -> mul ->
// unary -> postfix -> primary.
type exprParser struct {
	tokens     []lexer.Token
	index      int
	line       int
	baseColumn int
	sourceLine string
}

func newExprParser(tokens []lexer.Token, line, baseColumn int, sourceLine string) *exprParser {
	return &exprParser{tokens: tokens, line: line, baseColumn: baseColumn, sourceLine: sourceLine}
}

func (p *exprParser) parse() (ast.Expression, error) {
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.current().Kind != lexer.EOF {
		tok := p.current()
		return nil, p.errorf(tok, "Unexpected token '%s'", tokenText(tok))
	}
	return expr, nil
}

func tokenText(t lexer.Token) string {
	if t.Value != "" {
		return t.Value
	}
	return t.Kind.String()
}

func (p *exprParser) current() lexer.Token { return p.tokens[p.index] }

func (p *exprParser) peek(n int) lexer.Token {
	idx := p.index + n
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *exprParser) advance() lexer.Token {
	t := p.tokens[p.index]
	if p.index < len(p.tokens)-1 {
		p.index++
	}
	return t
}

func (p *exprParser) match(kinds ...lexer.Kind) (lexer.Token, bool) {
	cur := p.current()
	for _, k := range kinds {
		if cur.Kind == k {
			p.advance()
			return cur, true
		}
	}
	return lexer.Token{}, false
}

func (p *exprParser) expect(kind lexer.Kind, message string) (lexer.Token, error) {
	cur := p.current()
	if cur.Kind != kind {
		return lexer.Token{}, p.errorf(cur, "%s", message)
	}
	p.advance()
	return cur, nil
}

func (p *exprParser) errorf(tok lexer.Token, format string, args ...any) error {
	return &fdslerr.SyntaxError{
		Pos:        fdslerr.Pos{Line: p.line, Col: p.baseColumn + tok.Column},
		SourceLine: p.sourceLine,
		Message:    fmt.Sprintf(format, args...),
	}
}

func (p *exprParser) loc(tok lexer.Token) fdslerr.Pos {
	return fdslerr.Pos{Line: p.line, Col: p.baseColumn + tok.Column}
}

func (p *exprParser) parseOr() (ast.Expression, error) {
	expr, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.match(lexer.Or)
		if !ok {
			return expr, nil
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		expr = &ast.BinaryOp{Base: ast.NewBase(p.loc(tok)), Op: "or", Left: expr, Right: right}
	}
}

func (p *exprParser) parseAnd() (ast.Expression, error) {
	expr, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.match(lexer.And)
		if !ok {
			return expr, nil
		}
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		expr = &ast.BinaryOp{Base: ast.NewBase(p.loc(tok)), Op: "and", Left: expr, Right: right}
	}
}

func (p *exprParser) parseNot() (ast.Expression, error) {
	if tok, ok := p.match(lexer.Not); ok {
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Base: ast.NewBase(p.loc(tok)), Op: "not", Operand: operand}, nil
	}
	return p.parseCompare()
}

var compareOps = map[lexer.Kind]string{
	lexer.EqEq: "==",
	lexer.Neq:  "!=",
	lexer.Lt:   "<",
	lexer.Lte:  "<=",
	lexer.Gt:   ">",
	lexer.Gte:  ">=",
}

func (p *exprParser) parseCompare() (ast.Expression, error) {
	expr, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.match(lexer.EqEq, lexer.Neq, lexer.Lt, lexer.Lte, lexer.Gt, lexer.Gte)
		if !ok {
			return expr, nil
		}
		right, err := p.parseAdd()
		if err != nil {
			return nil, err
		}
		expr = &ast.CompareOp{Base: ast.NewBase(p.loc(tok)), Op: compareOps[tok.Kind], Left: expr, Right: right}
	}
}

func (p *exprParser) parseAdd() (ast.Expression, error) {
	expr, err := p.parseMul()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.match(lexer.Plus, lexer.Minus)
		if !ok {
			return expr, nil
		}
		op := "+"
		if tok.Kind == lexer.Minus {
			op = "-"
		}
		right, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		expr = &ast.BinaryOp{Base: ast.NewBase(p.loc(tok)), Op: op, Left: expr, Right: right}
	}
}

var mulOps = map[lexer.Kind]string{
	lexer.Star:    "*",
	lexer.Slash:   "/",
	lexer.Percent: "%",
}

func (p *exprParser) parseMul() (ast.Expression, error) {
	expr, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.match(lexer.Star, lexer.Slash, lexer.Percent)
		if !ok {
			return expr, nil
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		expr = &ast.BinaryOp{Base: ast.NewBase(p.loc(tok)), Op: mulOps[tok.Kind], Left: expr, Right: right}
	}
}

func (p *exprParser) parseUnary() (ast.Expression, error) {
	if tok, ok := p.match(lexer.Minus); ok {
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Base: ast.NewBase(p.loc(tok)), Op: "-", Operand: operand}, nil
	}
	return p.parsePostfix()
}

func (p *exprParser) parsePostfix() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		if tok, ok := p.match(lexer.Dot); ok {
			nameTok, err := p.expect(lexer.Name, "Expected attribute name after '.'")
			if err != nil {
				return nil, err
			}
			expr = &ast.Attribute{Base: ast.NewBase(p.loc(tok)), Obj: expr, Name: nameTok.Value}
			continue
		}
		if p.current().Kind == lexer.LParen {
			expr, err = p.parseCall(expr)
			if err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return expr, nil
}

func (p *exprParser) parseCall(callee ast.Expression) (ast.Expression, error) {
	lparen, err := p.expect(lexer.LParen, "Expected '('")
	if err != nil {
		return nil, err
	}
	var args []ast.Expression
	var kwargs []ast.KeywordArg
	seenKeyword := false
	if p.current().Kind != lexer.RParen {
		for {
			if p.current().Kind == lexer.Name && p.peek(1).Kind == lexer.Eq {
				seenKeyword = true
				key := p.advance().Value
				p.advance() // EQ
				value, err := p.parseOr()
				if err != nil {
					return nil, err
				}
				for _, existing := range kwargs {
					if existing.Name == key {
						return nil, p.errorf(p.current(), "Duplicate keyword argument '%s'", key)
					}
				}
				kwargs = append(kwargs, ast.KeywordArg{Name: key, Value: value})
			} else {
				if seenKeyword {
					return nil, p.errorf(p.current(), "Positional arguments cannot follow keyword arguments")
				}
				arg, err := p.parseOr()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
			}

			if _, ok := p.match(lexer.Comma); ok {
				if p.current().Kind == lexer.RParen {
					break
				}
				continue
			}
			break
		}
	}
	if _, err := p.expect(lexer.RParen, "Expected ')' to close function call"); err != nil {
		return nil, err
	}
	return &ast.Call{Base: ast.NewBase(p.loc(lparen)), Callee: callee, Args: args, Kwargs: kwargs}, nil
}

func (p *exprParser) parsePrimary() (ast.Expression, error) {
	tok := p.current()
	switch tok.Kind {
	case lexer.Number:
		p.advance()
		var n int64
		if _, err := fmt.Sscanf(tok.Value, "%d", &n); err != nil {
			return nil, p.errorf(tok, "Invalid integer literal '%s'", tok.Value)
		}
		return &ast.Literal{Base: ast.NewBase(p.loc(tok)), Value: n}, nil
	case lexer.String:
		p.advance()
		return &ast.Literal{Base: ast.NewBase(p.loc(tok)), Value: tok.Value}, nil
	case lexer.True:
		p.advance()
		return &ast.Literal{Base: ast.NewBase(p.loc(tok)), Value: true}, nil
	case lexer.False:
		p.advance()
		return &ast.Literal{Base: ast.NewBase(p.loc(tok)), Value: false}, nil
	case lexer.Name:
		p.advance()
		return &ast.Name{Base: ast.NewBase(p.loc(tok)), Ident: tok.Value}, nil
	case lexer.LParen:
		p.advance()
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen, "Expected ')' after expression"); err != nil {
			return nil, err
		}
		return expr, nil
	case lexer.LBrack:
		return p.parseList()
	}
	return nil, p.errorf(tok, "Expected expression")
}

func (p *exprParser) parseList() (ast.Expression, error) {
	lbrack, err := p.expect(lexer.LBrack, "Expected '['")
	if err != nil {
		return nil, err
	}
	var items []ast.Expression
	if p.current().Kind != lexer.RBrack {
		for {
			item, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			if colon, ok := p.match(lexer.Colon); ok {
				end, err := p.parseOr()
				if err != nil {
					return nil, err
				}
				items = append(items, &ast.RangeItem{Base: ast.NewBase(p.loc(colon)), Start: item, End: end})
			} else {
				items = append(items, item)
			}
			if _, ok := p.match(lexer.Comma); ok {
				if p.current().Kind == lexer.RBrack {
					break
				}
				continue
			}
			break
		}
	}
	if _, err := p.expect(lexer.RBrack, "Expected ']' to close list"); err != nil {
		return nil, err
	}
	return &ast.ListLiteral{Base: ast.NewBase(p.loc(lbrack)), Items: items}, nil
}

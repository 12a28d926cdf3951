// Package parser implements FilesDSL's line-structured, indentation-
// significant statement parser and its embedded Pratt expression
// parser, producing an ast.Program.
package parser

import (
	"regexp"
	"strings"

	"github.com/filesdsl/filesdsl/ast"
	"github.com/filesdsl/filesdsl/fdslerr"
)

var (
	identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	forRe        = regexp.MustCompile(`^for\s+([A-Za-z_][A-Za-z0-9_]*)\s+in\s+(.+):\s*$`)
	ifRe         = regexp.MustCompile(`^if\s+(.+):\s*$`)
	elifRe       = regexp.MustCompile(`^elif\s+(.+):\s*$`)
)

// Parser turns FilesDSL source text into an ast.Program.
type Parser struct {
	lines []string
	index int
}

// Parse parses source into a Program, or returns a *fdslerr.SyntaxError.
func Parse(source string) (*ast.Program, error) {
	p := &Parser{lines: splitLines(source)}
	stmts, err := p.parseBlock(0)
	if err != nil {
		return nil, err
	}
	return &ast.Program{Statements: stmts}, nil
}

// splitLines mirrors Python's str.splitlines(): no trailing empty
// element for a final newline, and no element at all for "".
func splitLines(source string) []string {
	if source == "" {
		return nil
	}
	normalized := strings.ReplaceAll(strings.ReplaceAll(source, "\r\n", "\n"), "\r", "\n")
	lines := strings.Split(normalized, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" && strings.HasSuffix(normalized, "\n") {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func (p *Parser) lineCount() int { return len(p.lines) }

func (p *Parser) currentLine() string { return p.lines[p.index] }

func (p *Parser) raise(message string, line, col int) error {
	var sourceLine string
	if line >= 1 && line <= len(p.lines) {
		sourceLine = p.lines[line-1]
	}
	return &fdslerr.SyntaxError{
		Pos:        fdslerr.Pos{Line: line, Col: col},
		SourceLine: sourceLine,
		Message:    message,
	}
}

// stripComment drops everything from an unquoted '#' onward, honoring
// single/double-quoted strings with backslash escapes.
func stripComment(raw string) string {
	runes := []rune(raw)
	var inQuote rune
	escaped := false
	for i, ch := range runes {
		if inQuote != 0 {
			if escaped {
				escaped = false
				continue
			}
			if ch == '\\' {
				escaped = true
				continue
			}
			if ch == inQuote {
				inQuote = 0
			}
			continue
		}
		if ch == '\'' || ch == '"' {
			inQuote = ch
			continue
		}
		if ch == '#' {
			return string(runes[:i])
		}
	}
	return raw
}

func isBlankOrComment(raw string) bool {
	return strings.TrimSpace(stripComment(raw)) == ""
}

func (p *Parser) leadingIndent(raw string, lineNo int) (int, error) {
	if strings.HasPrefix(raw, "\t") {
		return 0, p.raise("Tabs are not supported for indentation", lineNo, 1)
	}
	runes := []rune(raw)
	indent := 0
	for indent < len(runes) {
		switch runes[indent] {
		case ' ':
			indent++
			continue
		case '\t':
			return 0, p.raise("Tabs are not supported for indentation", lineNo, indent+1)
		}
		break
	}
	return indent, nil
}

func (p *Parser) parseBlock(expectedIndent int) ([]ast.Statement, error) {
	var statements []ast.Statement
	for p.index < p.lineCount() {
		raw := p.currentLine()
		lineNo := p.index + 1
		if isBlankOrComment(raw) {
			p.index++
			continue
		}

		indent, err := p.leadingIndent(raw, lineNo)
		if err != nil {
			return nil, err
		}
		if indent < expectedIndent {
			break
		}
		if indent > expectedIndent {
			return nil, p.raise("Unexpected indentation", lineNo, indent+1)
		}

		strippedRunes := []rune(strings.TrimRight(stripComment(raw), " \t"))
		stripped := string(strippedRunes[indent:])
		stmt, err := p.parseStatement(stripped, lineNo, indent)
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}

func (p *Parser) parseStatement(text string, lineNo, indent int) (ast.Statement, error) {
	switch {
	case strings.HasPrefix(text, "for "):
		return p.parseForStatement(text, lineNo, indent)
	case strings.HasPrefix(text, "if "):
		return p.parseIfStatement(text, lineNo, indent)
	case strings.HasPrefix(text, "elif "):
		return nil, p.raise("'elif' without matching 'if'", lineNo, indent+1)
	case text == "else:":
		return nil, p.raise("'else' without matching 'if'", lineNo, indent+1)
	}

	if assignIndex := findAssignment(text); assignIndex != -1 {
		runes := []rune(text)
		lhs := strings.TrimSpace(string(runes[:assignIndex]))
		rhs := strings.TrimSpace(string(runes[assignIndex+1:]))
		if !identifierRe.MatchString(lhs) {
			return nil, p.raise("Invalid assignment target. Only simple variable names are allowed", lineNo, indent+1)
		}
		if rhs == "" {
			return nil, p.raise("Missing expression on right side of assignment", lineNo, indent+assignIndex+2)
		}
		rhsIndex := indexOf(text, rhs)
		exprCol := indent + rhsIndex + 1
		rhsFull, consumed, err := p.collectContinuedExpression(rhs, lineNo)
		if err != nil {
			return nil, err
		}
		expr, err := p.parseExpression(rhsFull, lineNo, exprCol)
		if err != nil {
			return nil, err
		}
		p.index += consumed
		return &ast.Assign{Base: ast.NewBase(fdslerr.Pos{Line: lineNo, Col: indent + 1}), Name: lhs, Value: expr}, nil
	}

	exprText, consumed, err := p.collectContinuedExpression(text, lineNo)
	if err != nil {
		return nil, err
	}
	expr, err := p.parseExpression(exprText, lineNo, indent+1)
	if err != nil {
		return nil, err
	}
	p.index += consumed
	return &ast.ExprStmt{Base: ast.NewBase(fdslerr.Pos{Line: lineNo, Col: indent + 1}), Value: expr}, nil
}

// indexOf returns the rune index at which substr first occurs in s.
func indexOf(s, substr string) int {
	byteIdx := strings.Index(s, substr)
	if byteIdx < 0 {
		return 0
	}
	return len([]rune(s[:byteIdx]))
}

func (p *Parser) collectContinuedExpression(text string, lineNo int) (string, int, error) {
	expression := text
	balance := delimiterBalance(text)
	consumed := 1

	for balance > 0 {
		nextIndex := p.index + consumed
		if nextIndex >= p.lineCount() {
			return "", 0, p.raise("Unterminated expression. Missing closing bracket/parenthesis", lineNo, 1)
		}
		nextLine := strings.TrimSpace(stripComment(p.lines[nextIndex]))
		expression = expression + "\n" + nextLine
		balance += delimiterBalance(nextLine)
		consumed++
	}
	return expression, consumed, nil
}

func delimiterBalance(text string) int {
	balance := 0
	var inQuote rune
	escaped := false
	for _, ch := range text {
		if inQuote != 0 {
			if escaped {
				escaped = false
				continue
			}
			if ch == '\\' {
				escaped = true
				continue
			}
			if ch == inQuote {
				inQuote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"':
			inQuote = ch
		case '(', '[':
			balance++
		case ')', ']':
			balance--
		}
	}
	return balance
}

func (p *Parser) parseForStatement(text string, lineNo, indent int) (ast.Statement, error) {
	match := forRe.FindStringSubmatch(text)
	if match == nil {
		return nil, p.raise("Invalid for-loop syntax. Use: for item in iterable:", lineNo, indent+1)
	}
	varName := match[1]
	iterableText := strings.TrimSpace(match[2])
	iterableCol := indent + indexOf(text, iterableText) + 1
	iterable, err := p.parseExpression(iterableText, lineNo, iterableCol)
	if err != nil {
		return nil, err
	}
	p.index++
	body, err := p.parseChildBlock(indent, lineNo, indent+1)
	if err != nil {
		return nil, err
	}
	return &ast.ForStatement{
		Base:     ast.NewBase(fdslerr.Pos{Line: lineNo, Col: indent + 1}),
		Var:      varName,
		Iterable: iterable,
		Body:     body,
	}, nil
}

func (p *Parser) parseIfStatement(text string, lineNo, indent int) (ast.Statement, error) {
	match := ifRe.FindStringSubmatch(text)
	if match == nil {
		return nil, p.raise("Invalid if syntax. Use: if condition:", lineNo, indent+1)
	}
	condText := strings.TrimSpace(match[1])
	condCol := indent + indexOf(text, condText) + 1
	cond, err := p.parseExpression(condText, lineNo, condCol)
	if err != nil {
		return nil, err
	}
	p.index++
	body, err := p.parseChildBlock(indent, lineNo, indent+1)
	if err != nil {
		return nil, err
	}
	branches := []ast.IfBranch{{Cond: cond, Body: body}}
	var elseBody []ast.Statement
	haveElse := false

	for p.index < p.lineCount() {
		scan := p.index
		for scan < p.lineCount() && isBlankOrComment(p.lines[scan]) {
			scan++
		}
		if scan >= p.lineCount() {
			p.index = scan
			break
		}

		raw := p.lines[scan]
		scanLineNo := scan + 1
		scanIndent, err := p.leadingIndent(raw, scanLineNo)
		if err != nil {
			return nil, err
		}
		if scanIndent != indent {
			p.index = scan
			break
		}

		strippedRunes := []rune(strings.TrimRight(stripComment(raw), " \t"))
		stripped := string(strippedRunes[scanIndent:])

		if strings.HasPrefix(stripped, "elif ") {
			if haveElse {
				return nil, p.raise("'elif' cannot appear after 'else'", scanLineNo, scanIndent+1)
			}
			elifMatch := elifRe.FindStringSubmatch(stripped)
			if elifMatch == nil {
				return nil, p.raise("Invalid elif syntax. Use: elif condition:", scanLineNo, scanIndent+1)
			}
			condText := strings.TrimSpace(elifMatch[1])
			condCol := scanIndent + indexOf(stripped, condText) + 1
			cond, err := p.parseExpression(condText, scanLineNo, condCol)
			if err != nil {
				return nil, err
			}
			p.index = scan + 1
			elifBody, err := p.parseChildBlock(scanIndent, scanLineNo, scanIndent+1)
			if err != nil {
				return nil, err
			}
			branches = append(branches, ast.IfBranch{Cond: cond, Body: elifBody})
			continue
		}

		if stripped == "else:" {
			if haveElse {
				return nil, p.raise("Only one else block is allowed", scanLineNo, scanIndent+1)
			}
			p.index = scan + 1
			elseBody, err = p.parseChildBlock(scanIndent, scanLineNo, scanIndent+1)
			if err != nil {
				return nil, err
			}
			haveElse = true
			continue
		}

		p.index = scan
		break
	}

	return &ast.IfStatement{
		Base:     ast.NewBase(fdslerr.Pos{Line: lineNo, Col: indent + 1}),
		Branches: branches,
		Else:     elseBody,
	}, nil
}

func (p *Parser) parseChildBlock(parentIndent, parentLine, parentCol int) ([]ast.Statement, error) {
	scan := p.index
	for scan < p.lineCount() && isBlankOrComment(p.lines[scan]) {
		scan++
	}
	if scan >= p.lineCount() {
		return nil, p.raise("Expected an indented block", parentLine, parentCol)
	}
	childLineNo := scan + 1
	childIndent, err := p.leadingIndent(p.lines[scan], childLineNo)
	if err != nil {
		return nil, err
	}
	if childIndent <= parentIndent {
		return nil, p.raise("Expected an indented block", childLineNo, childIndent+1)
	}
	p.index = scan
	return p.parseBlock(childIndent)
}

// findAssignment returns the rune index of the first bare '=' at
// bracket depth zero outside of a quoted string, ignoring '=' preceded
// by '=', '!', '<' or '>', or followed by '=' (so ==, !=, <=, >= never
// match).
// Returns -1 if no such assignment operator is present.
func findAssignment(text string) int {
	runes := []rune(text)
	depth := 0
	var inQuote rune
	escaped := false
	for idx, ch := range runes {
		if inQuote != 0 {
			if escaped {
				escaped = false
				continue
			}
			if ch == '\\' {
				escaped = true
				continue
			}
			if ch == inQuote {
				inQuote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"':
			inQuote = ch
			continue
		case '(', '[':
			depth++
			continue
		case ')', ']':
			if depth > 0 {
				depth--
			}
			continue
		}
		if ch != '=' || depth != 0 {
			continue
		}

		var prev, next rune
		if idx > 0 {
			prev = runes[idx-1]
		}
		if idx+1 < len(runes) {
			next = runes[idx+1]
		}
		if prev == '=' || prev == '!' || prev == '<' || prev == '>' || next == '=' {
			continue
		}
		return idx
	}
	return -1
}

func (p *Parser) parseExpression(text string, lineNo, column int) (ast.Expression, error) {
	tokens, err := lexerTokenize(text)
	if err != nil {
		return nil, p.lexErrorToSyntaxError(err, lineNo, column)
	}
	ep := newExprParser(tokens, lineNo, column, p.lines[lineNo-1])
	return ep.parse()
}

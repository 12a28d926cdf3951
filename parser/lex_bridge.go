package parser

import (
	"github.com/filesdsl/filesdsl/fdslerr"
	"github.com/filesdsl/filesdsl/lexer"
)

func lexerTokenize(text string) ([]lexer.Token, error) {
	return lexer.Tokenize(text)
}

// lexErrorToSyntaxError translates a lexer.Error (line-relative column)
// into a *fdslerr.SyntaxError with an absolute source column.
func (p *Parser) lexErrorToSyntaxError(err error, lineNo, baseColumn int) error {
	lexErr, ok := err.(*lexer.Error)
	if !ok {
		return err
	}
	return p.raise(lexErr.Message, lineNo, baseColumn+lexErr.Column)
}

package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []Token) []Kind {
	out := make([]Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenize_Operators(t *testing.T) {
	tokens, err := Tokenize("+ - * / % ( ) [ ] , . : = == != < <= > >=")
	require.NoError(t, err)
	assert.Equal(t, []Kind{
		Plus, Minus, Star, Slash, Percent, LParen, RParen, LBrack, RBrack,
		Comma, Dot, Colon, Eq, EqEq, Neq, Lt, Lte, Gt, Gte, EOF,
	}, kinds(tokens))
}

func TestTokenize_Keywords(t *testing.T) {
	tokens, err := Tokenize("and or not True False true false")
	require.NoError(t, err)
	assert.Equal(t, []Kind{And, Or, Not, True, False, True, False, EOF}, kinds(tokens))
}

func TestTokenize_Numbers(t *testing.T) {
	tokens, err := Tokenize("0 42 1000000000")
	require.NoError(t, err)
	require.Len(t, tokens, 4)
	assert.Equal(t, "0", tokens[0].Value)
	assert.Equal(t, "42", tokens[1].Value)
	assert.Equal(t, "1000000000", tokens[2].Value)
}

func TestTokenize_Names(t *testing.T) {
	tokens, err := Tokenize("x foo_bar _private x1")
	require.NoError(t, err)
	require.Len(t, tokens, 5)
	for i, want := range []string{"x", "foo_bar", "_private", "x1"} {
		assert.Equal(t, Name, tokens[i].Kind)
		assert.Equal(t, want, tokens[i].Value)
	}
}

func TestTokenize_Strings(t *testing.T) {
	t.Run("single and double quotes", func(t *testing.T) {
		tokens, err := Tokenize(`'hello' "world"`)
		require.NoError(t, err)
		require.Len(t, tokens, 3)
		assert.Equal(t, "hello", tokens[0].Value)
		assert.Equal(t, "world", tokens[1].Value)
	})

	t.Run("escape sequences", func(t *testing.T) {
		tokens, err := Tokenize(`'a\nb\t\\c\'d'`)
		require.NoError(t, err)
		require.Len(t, tokens, 2)
		assert.Equal(t, "a\nb\t\\c'd", tokens[0].Value)
	})

	t.Run("unterminated string is an error", func(t *testing.T) {
		_, err := Tokenize(`'unterminated`)
		require.Error(t, err)
	})

	t.Run("unterminated escape is an error", func(t *testing.T) {
		_, err := Tokenize(`'bad\`)
		require.Error(t, err)
	})
}

func TestTokenize_ColumnsTrackRuneOffsets(t *testing.T) {
	tokens, err := Tokenize("x = 1")
	require.NoError(t, err)
	require.Len(t, tokens, 4)
	assert.Equal(t, 0, tokens[0].Column)
	assert.Equal(t, 2, tokens[1].Column)
	assert.Equal(t, 4, tokens[2].Column)
}

func TestTokenize_UnexpectedCharacter(t *testing.T) {
	_, err := Tokenize("x & y")
	require.Error(t, err)
	var lexErr *Error
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, 2, lexErr.Column)
}

func TestTokenize_EmptyInput(t *testing.T) {
	tokens, err := Tokenize("")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, EOF, tokens[0].Kind)
}

package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Run("folds CRLF and CR to LF", func(t *testing.T) {
		assert.Equal(t, "a\nb\nc", Normalize("a\r\nb\rc"))
	})

	t.Run("keeps tab and newline", func(t *testing.T) {
		assert.Equal(t, "a\tb\nc", Normalize("a\tb\nc"))
	})

	t.Run("collapses other whitespace to a single space", func(t *testing.T) {
		assert.Equal(t, "a b", Normalize("a b"))
		assert.Equal(t, "a b", Normalize("a   b"))
	})

	t.Run("drops control and format characters other than tab/newline", func(t *testing.T) {
		assert.Equal(t, "ab", Normalize("ab"))
		assert.Equal(t, "ab", Normalize("a​b")) // zero-width space is Cf
	})

	t.Run("NFKC-normalizes compatibility forms", func(t *testing.T) {
		// U+FB01 LATIN SMALL LIGATURE FI decomposes to "fi" under NFKC.
		assert.Equal(t, "fi", Normalize("ﬁ"))
	})

	t.Run("is idempotent", func(t *testing.T) {
		once := Normalize("Héllo\r\nWörld\t​!")
		twice := Normalize(once)
		assert.Equal(t, once, twice)
	})
}

package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmbed_Deterministic(t *testing.T) {
	a := Embed("The quick brown fox")
	b := Embed("The quick brown fox")
	assert.Equal(t, a, b)
}

func TestEmbed_Dimensionality(t *testing.T) {
	assert.Len(t, Embed("anything"), Dim)
}

func TestEmbed_IsCaseInsensitive(t *testing.T) {
	a := Embed("Hello World")
	b := Embed("hello world")
	assert.Equal(t, a, b)
}

func TestEmbed_EmptyTextIsZeroVector(t *testing.T) {
	vec := Embed("")
	for _, v := range vec {
		assert.Equal(t, 0.0, v)
	}
}

func TestEmbed_L2Normalized(t *testing.T) {
	vec := Embed("alpha beta gamma alpha beta alpha")
	var normSq float64
	for _, v := range vec {
		normSq += v * v
	}
	assert.InDelta(t, 1.0, normSq, 1e-9)
}

func TestCosineSimilarity_IdenticalTextIsOne(t *testing.T) {
	v := Embed("machine learning models")
	assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
}

func TestCosineSimilarity_UnrelatedTextIsLowerThanIdentical(t *testing.T) {
	a := Embed("cats and dogs in the garden")
	b := Embed("quantum physics lecture notes")
	same := CosineSimilarity(a, a)
	cross := CosineSimilarity(a, b)
	assert.Less(t, cross, same)
}

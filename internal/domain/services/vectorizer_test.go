package services

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenizedDocs(texts ...string) [][]string {
	docs := make([][]string, len(texts))
	for i, text := range texts {
		docs[i] = strings.Fields(text)
	}
	return docs
}

func TestFitVectorizerDeterministic(t *testing.T) {
	docs := tokenizedDocs(
		"your computer has a virus",
		"you won a lottery prize",
		"your account will be suspended",
	)

	a := FitVectorizer(docs, 5000)
	b := FitVectorizer(docs, 5000)

	assert.Equal(t, a.Vocabulary, b.Vocabulary)
	assert.Equal(t, a.IDF, b.IDF)
}

func TestFitVectorizerShape(t *testing.T) {
	docs := tokenizedDocs("a b c", "b c d")

	params := FitVectorizer(docs, 5000)

	assert.Len(t, params.IDF, len(params.Vocabulary))
	assert.Equal(t, 2, params.NgramMax)
	for _, idf := range params.IDF {
		assert.Greater(t, idf, 0.0)
	}
}

func TestFitVectorizerMaxFeatures(t *testing.T) {
	docs := tokenizedDocs(
		"alpha beta gamma delta",
		"alpha beta epsilon zeta",
		"alpha eta theta iota",
	)

	params := FitVectorizer(docs, 3)
	require.Len(t, params.Vocabulary, 3)

	// Most frequent term always survives the cut
	_, ok := params.Vocabulary["alpha"]
	assert.True(t, ok)

	// Indices follow sorted term order
	for term, idx := range params.Vocabulary {
		for other, otherIdx := range params.Vocabulary {
			if term < other {
				assert.Less(t, idx, otherIdx)
			}
		}
	}
}

func TestFitVectorizerIncludesBigrams(t *testing.T) {
	docs := tokenizedDocs("gift card payment", "gift card required")

	params := FitVectorizer(docs, 5000)
	_, ok := params.Vocabulary["gift card"]
	assert.True(t, ok)
}

func TestVectorizeL2Normalized(t *testing.T) {
	docs := tokenizedDocs("wire the money now", "send the money today")
	params := FitVectorizer(docs, 5000)

	vec := Vectorize(params, strings.Fields("wire the money now now now"))

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
}

func TestVectorizeRepeatable(t *testing.T) {
	docs := tokenizedDocs(
		"urgent wire the money now before it is too late",
		"send the money today through western union",
		"your bank account needs urgent verification now",
	)
	params := FitVectorizer(docs, 5000)
	tokens := strings.Fields("urgent urgent wire the money now before your bank account")

	// Many nonzero dimensions so a map-order norm accumulation would
	// surface as byte-level drift between calls
	base := Vectorize(params, tokens)
	for i := 0; i < 50; i++ {
		assert.Equal(t, base, Vectorize(params, tokens))
	}
}

func TestVectorizeUnknownTermsDropped(t *testing.T) {
	docs := tokenizedDocs("known words only")
	params := FitVectorizer(docs, 5000)

	vec := Vectorize(params, strings.Fields("completely different vocabulary"))
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestVectorizeEmptyTokens(t *testing.T) {
	docs := tokenizedDocs("some corpus text")
	params := FitVectorizer(docs, 5000)

	vec := Vectorize(params, nil)
	assert.Len(t, vec, len(params.IDF))
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

package ranker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ferg-cod3s/lmfetch/internal/embedding"
)

func TestCosineSimilarityIdentical(t *testing.T) {
	v := embedding.Vector{1, 2, 3}
	assert.InDelta(t, 1.0, cosineSimilarity(v, v), 1e-9)
}

func TestCosineSimilarityOrthogonal(t *testing.T) {
	a := embedding.Vector{1, 0}
	b := embedding.Vector{0, 1}
	assert.InDelta(t, 0.0, cosineSimilarity(a, b), 1e-9)
}

func TestCosineSimilarityMismatchedLengthsReturnsZero(t *testing.T) {
	a := embedding.Vector{1, 2}
	b := embedding.Vector{1, 2, 3}
	assert.Zero(t, cosineSimilarity(a, b))
}

func TestCosineSimilarityZeroVectorReturnsZero(t *testing.T) {
	a := embedding.Vector{0, 0, 0}
	b := embedding.Vector{1, 2, 3}
	assert.Zero(t, cosineSimilarity(a, b))
}

package ranker

import (
	"math"

	"github.com/ferg-cod3s/lmfetch/internal/embedding"
)

// cosineSimilarity computes cosine similarity between two vectors, ported
// from the teacher's vectorstore/memory.go. Returns 0 for mismatched
// lengths or zero-magnitude vectors rather than erroring, since a missing
// embedding should degrade a chunk's score, not abort ranking.
func cosineSimilarity(a, b embedding.Vector) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, magA, magB float32
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	if magA == 0 || magB == 0 {
		return 0
	}

	return dot / float32(math.Sqrt(float64(magA))*math.Sqrt(float64(magB)))
}

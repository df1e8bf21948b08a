package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferg-cod3s/lmfetch/internal/lmfetchtypes"
)

func scored(path string, tokens int, score float64) lmfetchtypes.ScoredChunk {
	return lmfetchtypes.ScoredChunk{
		Chunk: lmfetchtypes.Chunk{FilePath: path, Tokens: tokens},
		Score: score,
	}
}

func TestSelectNeverExceedsEffectiveBudget(t *testing.T) {
	chunks := []lmfetchtypes.ScoredChunk{
		scored("a.go", 10000, 10),
		scored("b.go", 10000, 9),
		scored("c.go", 10000, 8),
		scored("d.go", 10000, 7),
		scored("e.go", 10000, 6),
	}

	selected := Select(chunks, 25000)

	total := 0
	for _, s := range selected {
		total += s.Tokens + 50
	}
	effective := int(float64(25000) * 0.95)
	assert.LessOrEqual(t, total, effective)
	assert.Len(t, selected, 2) // 2*10050 = 20100 <= 23750
}

func TestSelectSkipsOversizedChunksButKeepsSmallerLaterOnes(t *testing.T) {
	chunks := []lmfetchtypes.ScoredChunk{
		scored("big.go", 9000, 10),
		scored("small.go", 100, 9),
	}

	selected := Select(chunks, 1000)
	require.Len(t, selected, 1)
	assert.Equal(t, "small.go", selected[0].FilePath)
}

func TestSelectPreservesInputOrder(t *testing.T) {
	chunks := []lmfetchtypes.ScoredChunk{
		scored("a.go", 10, 1),
		scored("b.go", 10, 5),
		scored("c.go", 10, 3),
	}

	selected := Select(chunks, 1000)
	require.Len(t, selected, 3)
	assert.Equal(t, "a.go", selected[0].FilePath) // Select preserves input order, doesn't re-sort
}

func TestSelectWithZeroBudgetSelectsNothing(t *testing.T) {
	chunks := []lmfetchtypes.ScoredChunk{scored("a.go", 10, 1)}
	selected := Select(chunks, 0)
	assert.Empty(t, selected)
}

package ranker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferg-cod3s/lmfetch/internal/embedding"
	"github.com/ferg-cod3s/lmfetch/internal/lmfetch/embedcache"
	"github.com/ferg-cod3s/lmfetch/internal/lmfetch/generator"
	"github.com/ferg-cod3s/lmfetch/internal/lmfetchtypes"
)

func TestHybridRankerFusesSignalsAndReturnsAllChunks(t *testing.T) {
	chunks := []lmfetchtypes.Chunk{
		chunk("src/auth.py", "login", "def login(user):\n    return authenticate(user)\n", lmfetchtypes.KindFunction),
		chunk("src/util.py", "helper", "def helper():\n    return 1\n", lmfetchtypes.KindFunction),
	}

	h := NewHybrid(embedding.NewMock(32), generator.NewMock(), embedcache.New(""), lmfetchtypes.ImportanceMap{
		"src/auth.py": 0.8,
		"src/util.py": 0.3,
	}, nil)

	scored := h.Rank(context.Background(), chunks, "login")
	require.Len(t, scored, 2)
	for _, s := range scored {
		assert.GreaterOrEqual(t, s.Score, 0.0)
	}
}

func TestHybridRankerDegradesGracefullyWithoutEmbedderOrGenerator(t *testing.T) {
	chunks := []lmfetchtypes.Chunk{
		chunk("src/auth.py", "login", "def login(user): pass", lmfetchtypes.KindFunction),
	}

	h := NewHybrid(nil, nil, embedcache.New(""), lmfetchtypes.ImportanceMap{}, nil)
	scored := h.Rank(context.Background(), chunks, "login")
	require.Len(t, scored, 1)
	assert.GreaterOrEqual(t, scored[0].Score, 0.0)
}

func TestHybridRankerMarkdownPenaltyLowersFileImportanceContribution(t *testing.T) {
	md := chunk("docs.md", "", "login login login", lmfetchtypes.KindSection)
	md.Language = "markdown"
	code := chunk("src/auth.py", "login", "def login(): pass", lmfetchtypes.KindFunction)

	importance := lmfetchtypes.ImportanceMap{"docs.md": 0.9, "src/auth.py": 0.9}
	h := NewHybrid(embedding.NewMock(16), generator.NewMock(), embedcache.New(""), importance, nil)

	scored := h.Rank(context.Background(), []lmfetchtypes.Chunk{md, code}, "login")
	require.Len(t, scored, 2)
	// both chunks share the same raw importance and roughly comparable
	// keyword/embedding signals, but the markdown chunk's fileImportance
	// contribution is scaled by 0.6 (spec.md §9's noted double penalty).
	var mdScore, codeScore float64
	for _, s := range scored {
		if s.FilePath == "docs.md" {
			mdScore = s.Score
		} else {
			codeScore = s.Score
		}
	}
	assert.NotEqual(t, mdScore, codeScore)
}

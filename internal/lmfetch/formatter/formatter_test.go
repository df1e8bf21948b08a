package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ferg-cod3s/lmfetch/internal/lmfetchtypes"
)

func sc(path string, start, end int, kind lmfetchtypes.ChunkKind, name, content, lang string) lmfetchtypes.ScoredChunk {
	return lmfetchtypes.ScoredChunk{Chunk: lmfetchtypes.Chunk{
		FilePath: path, StartLine: start, EndLine: end, Kind: kind, Name: name,
		Content: content, Language: lang,
	}}
}

func TestFormatGroupsByPathPreservingFirstSeenOrder(t *testing.T) {
	chunks := []lmfetchtypes.ScoredChunk{
		sc("b.go", 1, 5, lmfetchtypes.KindFunction, "f", "func f() {}", "go"),
		sc("a.go", 1, 5, lmfetchtypes.KindFunction, "g", "func g() {}", "go"),
		sc("b.go", 10, 12, lmfetchtypes.KindFunction, "h", "func h() {}", "go"),
	}

	out := Format(chunks)
	bIdx := strings.Index(out, "## b.go")
	aIdx := strings.Index(out, "## a.go")
	require := assert.New(t)
	require.NotEqual(-1, bIdx)
	require.NotEqual(-1, aIdx)
	require.Less(bIdx, aIdx)
	// b.go's chunk list is not split by the interleaved a.go entry.
	require.Equal(1, strings.Count(out, "## b.go"))
}

func TestFormatSortsChunksAscendingWithinFile(t *testing.T) {
	chunks := []lmfetchtypes.ScoredChunk{
		sc("a.go", 20, 25, lmfetchtypes.KindFunction, "second", "func second() {}", "go"),
		sc("a.go", 1, 5, lmfetchtypes.KindFunction, "first", "func first() {}", "go"),
	}

	out := Format(chunks)
	firstIdx := strings.Index(out, "first")
	secondIdx := strings.Index(out, "second")
	assert.Less(t, firstIdx, secondIdx)
}

func TestFormatUsesSingleLineHeadingWhenStartEqualsEnd(t *testing.T) {
	chunks := []lmfetchtypes.ScoredChunk{
		sc("a.go", 7, 7, lmfetchtypes.KindVariable, "x", "var x = 1", "go"),
	}
	out := Format(chunks)
	assert.Contains(t, out, "### Line 7 (variable: x)")
}

func TestFormatOmitsParentheticalWhenNoName(t *testing.T) {
	chunks := []lmfetchtypes.ScoredChunk{
		sc("a.go", 1, 3, lmfetchtypes.KindSection, "", "// preamble", "go"),
	}
	out := Format(chunks)
	assert.Contains(t, out, "### Lines 1-3\n")
	assert.NotContains(t, out, "(section:")
}

func TestFormatFencesContentWithLanguageTag(t *testing.T) {
	chunks := []lmfetchtypes.ScoredChunk{
		sc("a.py", 1, 2, lmfetchtypes.KindFunction, "f", "def f():\n    pass", "python"),
	}
	out := Format(chunks)
	assert.Contains(t, out, "```python\ndef f():\n    pass\n```")
}

package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferg-cod3s/lmfetch/internal/lmfetchtypes"
	"github.com/ferg-cod3s/lmfetch/internal/lmfetch/tokencount"
)

func newChunker(t *testing.T) *Chunker {
	t.Helper()
	counter, err := tokencount.NewCounter()
	require.NoError(t, err)
	return New(counter)
}

func padLines(body string, n int) string {
	var sb strings.Builder
	sb.WriteString(body)
	for i := 0; i < n; i++ {
		sb.WriteString("    pass_line\n")
	}
	return sb.String()
}

func TestChunkCoverageIsDisjointAndMonotone(t *testing.T) {
	content := padLines("def first():\n", 12) + padLines("def second():\n", 12)
	file := lmfetchtypes.SourceFile{RelPath: "m.py", Content: content, Language: "python"}

	chunks := newChunker(t).Chunk(file)
	require.Len(t, chunks, 2)

	for i := 1; i < len(chunks); i++ {
		assert.Less(t, chunks[i-1].EndLine, chunks[i].StartLine+1)
		assert.Greater(t, chunks[i].StartLine, chunks[i-1].EndLine)
	}
}

func TestChunkDetectsPythonFunctionBoundaries(t *testing.T) {
	content := padLines("def login(user):\n", 12)
	file := lmfetchtypes.SourceFile{RelPath: "auth.py", Content: content, Language: "python"}

	chunks := newChunker(t).Chunk(file)
	require.Len(t, chunks, 1)
	assert.Equal(t, lmfetchtypes.KindFunction, chunks[0].Kind)
	assert.Equal(t, "login", chunks[0].Name)
}

func TestChunkFallsBackToSizeChunkingForUnknownLanguage(t *testing.T) {
	content := strings.Repeat("some line of plain text\n", 5)
	file := lmfetchtypes.SourceFile{RelPath: "notes.txt", Content: content, Language: "text"}

	chunks := newChunker(t).Chunk(file)
	require.Len(t, chunks, 1)
	assert.Equal(t, lmfetchtypes.KindSection, chunks[0].Kind)
}

func TestChunkEmitsPreambleSectionWhenLeadingLinesAreLong(t *testing.T) {
	preamble := strings.Repeat("# import line\n", 12)
	content := preamble + padLines("def body():\n", 12)
	file := lmfetchtypes.SourceFile{RelPath: "m.py", Content: content, Language: "python"}

	chunks := newChunker(t).Chunk(file)
	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Equal(t, "imports/preamble", chunks[0].Name)
	assert.Equal(t, 1, chunks[0].StartLine)
}

func TestChunkSplitsOversizedCandidateIntoContinuations(t *testing.T) {
	content := padLines("def huge():\n", 250)
	file := lmfetchtypes.SourceFile{RelPath: "m.py", Content: content, Language: "python"}

	chunks := newChunker(t).Chunk(file)
	require.Len(t, chunks, 2)
	assert.Equal(t, "huge", chunks[0].Name)
	assert.Equal(t, "huge (cont. 2)", chunks[1].Name)
}

func TestChunkReturnsNilForEmptyFile(t *testing.T) {
	file := lmfetchtypes.SourceFile{RelPath: "empty.py", Content: "", Language: "python"}
	chunks := newChunker(t).Chunk(file)
	assert.Nil(t, chunks)
}

func TestChunkAssignsTokenCounts(t *testing.T) {
	content := padLines("def f():\n", 12)
	file := lmfetchtypes.SourceFile{RelPath: "m.py", Content: content, Language: "python"}

	chunks := newChunker(t).Chunk(file)
	require.Len(t, chunks, 1)
	assert.Greater(t, chunks[0].Tokens, 0)
}

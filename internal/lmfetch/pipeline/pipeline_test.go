package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, root string) {
	t.Helper()
	files := map[string]string{
		"auth/login.py": "def login(user, password):\n" + strings.Repeat("    pass\n", 12) +
			"def logout(user):\n" + strings.Repeat("    pass\n", 12),
		"README.md": strings.Repeat("# notes about the project\n", 12),
	}
	for rel, content := range files {
		full := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func boolPtr(b bool) *bool { return &b }

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := New(Config{CacheDBPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

func TestBuildReturnsFormattedContextForExactNameHit(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root)

	p := newTestPipeline(t)
	result, err := p.Build(context.Background(), BuildOptions{
		Path:   root,
		Query:  "login",
		Budget: "10000",
		Fast:   boolPtr(true),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.FilesProcessed)
	assert.Greater(t, result.ChunksCreated, 0)
	assert.NotEmpty(t, result.Chunks)
	assert.Contains(t, result.Context, "login")
}

func TestBuildWithEmptyDirectoryReturnsEmptyResultNotError(t *testing.T) {
	root := t.TempDir()

	p := newTestPipeline(t)
	result, err := p.Build(context.Background(), BuildOptions{
		Path:   root,
		Query:  "anything",
		Budget: "1000",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.FilesProcessed)
	assert.Empty(t, result.Context)
}

func TestBuildNeverExceedsEffectiveBudget(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root)

	p := newTestPipeline(t)
	result, err := p.Build(context.Background(), BuildOptions{
		Path:   root,
		Query:  "login logout",
		Budget: "50",
		Fast:   boolPtr(true),
	})
	require.NoError(t, err)
	// effective budget is floor(0.95*50) = 47, with 50 tokens of overhead per chunk
	assert.LessOrEqual(t, result.Tokens+50*len(result.Chunks), 47)
}

func TestBuildReportsProgressMessagesInOrder(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root)

	p := newTestPipeline(t)
	var messages []string
	_, err := p.Build(context.Background(), BuildOptions{
		Path:       root,
		Query:      "login",
		Budget:     "10000",
		Fast:       boolPtr(true),
		OnProgress: func(m string) { messages = append(messages, m) },
	})
	require.NoError(t, err)

	require.NotEmpty(t, messages)
	assert.Equal(t, "Discovering files", messages[0])
	assert.Contains(t, messages, "Selecting best chunks")
	assert.Contains(t, messages, "Formatting context")
}

func TestBuildNonFastPathEmitsHybridProgressMessages(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root)

	p := newTestPipeline(t)
	var messages []string
	_, err := p.Build(context.Background(), BuildOptions{
		Path:       root,
		Query:      "login",
		Budget:     "10000",
		Fast:       boolPtr(false),
		OnProgress: func(m string) { messages = append(messages, m) },
	})
	require.NoError(t, err)
	assert.Contains(t, messages, "Generating hypothetical answer")
	assert.Contains(t, messages, "Computing semantic similarity")
	assert.Contains(t, messages, "Combining ranking signals")
}

func TestBuildDefaultsToFastModeWhenUnset(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root)

	p := newTestPipeline(t)
	var messages []string
	_, err := p.Build(context.Background(), BuildOptions{
		Path:       root,
		Query:      "login",
		Budget:     "10000",
		OnProgress: func(m string) { messages = append(messages, m) },
	})
	require.NoError(t, err)
	assert.NotContains(t, messages, "Generating hypothetical answer", "zero-value Fast must resolve to fast mode per spec.md §4.7")
}

func TestBuildRejectsUnreadableRootPath(t *testing.T) {
	p := newTestPipeline(t)
	_, err := p.Build(context.Background(), BuildOptions{
		Path:   filepath.Join(t.TempDir(), "does-not-exist"),
		Query:  "x",
		Budget: "1000",
	})
	assert.Error(t, err)
}

func TestBuildRejectsMalformedBudget(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root)

	p := newTestPipeline(t)
	_, err := p.Build(context.Background(), BuildOptions{
		Path:   root,
		Query:  "login",
		Budget: "not-a-budget",
	})
	assert.Error(t, err)
}

func TestBuildReusesCachedChunksOnSecondRun(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root)

	p := newTestPipeline(t)
	ctx := context.Background()

	first, err := p.Build(ctx, BuildOptions{Path: root, Query: "login", Budget: "10000", Fast: boolPtr(true)})
	require.NoError(t, err)

	second, err := p.Build(ctx, BuildOptions{Path: root, Query: "login", Budget: "10000", Fast: boolPtr(true)})
	require.NoError(t, err)

	assert.Equal(t, first.ChunksCreated, second.ChunksCreated)
}

func TestChunkerBatchSizeClampsToSpecRange(t *testing.T) {
	assert.Equal(t, 5, chunkerBatchSize(1))
	assert.Equal(t, 5, chunkerBatchSize(40))
	assert.Equal(t, 10, chunkerBatchSize(91))
	assert.Equal(t, 20, chunkerBatchSize(500))
}

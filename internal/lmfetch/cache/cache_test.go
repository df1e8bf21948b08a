package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferg-cod3s/lmfetch/internal/lmfetchtypes"
)

func openTest(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestHasFreshChunksFalseForUnknownFile(t *testing.T) {
	c := openTest(t)
	fresh, err := c.HasFreshChunks(context.Background(), "a.go", time.Now())
	require.NoError(t, err)
	assert.False(t, fresh)
}

func TestPutAndGetChunksRoundTrips(t *testing.T) {
	c := openTest(t)
	ctx := context.Background()
	mtime := time.Now()

	require.NoError(t, c.PutFile(ctx, "a.go", "package a\n", mtime, "go"))
	chunks := []lmfetchtypes.Chunk{
		{ID: "id1", FilePath: "a.go", Content: "func f() {}", StartLine: 1, EndLine: 1, Kind: lmfetchtypes.KindFunction, Name: "f"},
	}
	require.NoError(t, c.PutChunks(ctx, "a.go", chunks))

	fresh, err := c.HasFreshChunks(ctx, "a.go", mtime)
	require.NoError(t, err)
	assert.True(t, fresh)

	got, err := c.GetChunks(ctx, "a.go")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "f", got[0].Name)
	assert.Equal(t, "go", got[0].Language)
}

func TestHasFreshChunksFalseWhenFileChangedSinceCaching(t *testing.T) {
	c := openTest(t)
	ctx := context.Background()
	cachedAt := time.Now()

	require.NoError(t, c.PutFile(ctx, "a.go", "package a\n", cachedAt, "go"))
	require.NoError(t, c.PutChunks(ctx, "a.go", []lmfetchtypes.Chunk{{ID: "id1", FilePath: "a.go", StartLine: 1, EndLine: 1}}))

	fresh, err := c.HasFreshChunks(ctx, "a.go", cachedAt.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, fresh, "file's mtime is newer than what was cached")
}

func TestPruneTwiceInSuccessionIsANoOp(t *testing.T) {
	c := openTest(t)
	ctx := context.Background()

	require.NoError(t, c.PutFile(ctx, "old.go", "package old\n", time.Now(), "go"))
	require.NoError(t, c.PutChunks(ctx, "old.go", []lmfetchtypes.Chunk{{ID: "id1", FilePath: "old.go", StartLine: 1, EndLine: 1}}))

	// Backdate last_accessed past the prune TTL directly; PutFile always
	// stamps last_accessed to now, so this is the only way to exercise
	// pruning without waiting 30 days.
	staleCutoff := time.Now().Add(-pruneTTL - time.Hour).Unix()
	_, err := c.db.ExecContext(ctx, `UPDATE files SET last_accessed = ? WHERE path = ?`, staleCutoff, "old.go")
	require.NoError(t, err)

	require.NoError(t, c.Prune(ctx))
	fresh, err := c.HasFreshChunks(ctx, "old.go", time.Now())
	require.NoError(t, err)
	assert.False(t, fresh)

	require.NoError(t, c.Prune(ctx))
}

func TestClearEmptiesBothTables(t *testing.T) {
	c := openTest(t)
	ctx := context.Background()

	require.NoError(t, c.PutFile(ctx, "a.go", "package a\n", time.Now(), "go"))
	require.NoError(t, c.PutChunks(ctx, "a.go", []lmfetchtypes.Chunk{{ID: "id1", FilePath: "a.go", StartLine: 1, EndLine: 1}}))

	require.NoError(t, c.Clear(ctx))

	chunks, err := c.GetChunks(ctx, "a.go")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

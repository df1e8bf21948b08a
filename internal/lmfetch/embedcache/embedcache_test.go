package embedcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferg-cod3s/lmfetch/internal/embedding"
)

func TestMemoryOnlyCacheRoundTrips(t *testing.T) {
	c := New("")
	_, ok := c.Get("hello")
	assert.False(t, ok)

	v := embedding.Vector{1, 2, 3}
	c.Put("hello", v)

	got, ok := c.Get("hello")
	require.True(t, ok)
	assert.Equal(t, v, got)
}

func TestDiskBackedCachePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	c1 := New(dir)
	v := embedding.Vector{4, 5, 6}
	c1.Put("persisted", v)

	// Put's disk write is fire-and-forget; give the goroutine a moment.
	time.Sleep(50 * time.Millisecond)

	c2 := New(dir)
	got, ok := c2.Get("persisted")
	require.True(t, ok)
	assert.Equal(t, v, got)
}

func TestGetOnUnknownKeyReturnsFalse(t *testing.T) {
	c := New(t.TempDir())
	_, ok := c.Get("never put")
	assert.False(t, ok)
}

// Package embedcache provides the two-tier embedding cache the hybrid
// ranker uses to avoid re-embedding unchanged chunk text (spec.md §4.7.2,
// "Embedding cache"). Keying pattern (SHA-256 of the to-embed text) is
// grounded on embedding.MockEmbedder's hash-seeding convention.
package embedcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/ferg-cod3s/lmfetch/internal/embedding"
)

// Cache is a two-tier cache: an in-memory map and a fire-and-forget
// per-vector JSON disk cache under dir.
type Cache struct {
	mu   sync.RWMutex
	mem  map[string]embedding.Vector
	dir  string // disk cache directory; empty disables disk persistence
}

// New creates a Cache. If dir is non-empty, vectors are additionally
// persisted as individual JSON files under dir.
func New(dir string) *Cache {
	return &Cache{mem: make(map[string]embedding.Vector), dir: dir}
}

func key(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

// Get returns a cached vector for text, checking memory then disk.
func (c *Cache) Get(text string) (embedding.Vector, bool) {
	k := key(text)

	c.mu.RLock()
	v, ok := c.mem[k]
	c.mu.RUnlock()
	if ok {
		return v, true
	}

	if c.dir == "" {
		return nil, false
	}
	data, err := os.ReadFile(filepath.Join(c.dir, k+".json")) // #nosec G304 -- k is a hex SHA-256 digest
	if err != nil {
		return nil, false
	}
	var vec embedding.Vector
	if err := json.Unmarshal(data, &vec); err != nil {
		return nil, false
	}

	c.mu.Lock()
	c.mem[k] = vec
	c.mu.Unlock()
	return vec, true
}

// Put stores vector for text in memory, and fire-and-forget writes it to
// disk if a disk directory is configured. Writes are last-writer-wins
// under concurrent callers (spec.md §5).
func (c *Cache) Put(text string, vector embedding.Vector) {
	k := key(text)

	c.mu.Lock()
	c.mem[k] = vector
	c.mu.Unlock()

	if c.dir == "" {
		return
	}
	go func() {
		data, err := json.Marshal(vector)
		if err != nil {
			return
		}
		_ = os.MkdirAll(c.dir, 0o755)
		_ = os.WriteFile(filepath.Join(c.dir, k+".json"), data, 0o644)
	}()
}

// Package cache persists (file identity, chunk list) pairs so repeated
// runs can skip re-chunking unchanged files (spec.md §4.4). Schema and
// transaction style are adapted from the teacher's
// internal/vectorstore/sqlite/store.go, reshaped from its single
// documents+FTS5 table to the two-relation files/chunks schema the spec
// specifies.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure-Go driver, no cgo toolchain required

	"github.com/ferg-cod3s/lmfetch/internal/lmfetchtypes"
)

const pruneTTL = 30 * 24 * time.Hour

// Cache is a SQLite-backed chunk cache. One Cache owns one exclusive
// session for the duration of a Pipeline run (spec.md §5, "Shared resources").
type Cache struct {
	db *sql.DB
}

// Open opens (creating if necessary) the cache database at path. Use
// ":memory:" for an ephemeral cache, matching the teacher's
// SetMaxOpenConns(1) guard for in-memory safety under concurrent access.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	db.SetMaxOpenConns(1)

	c := &Cache{db: db}
	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return c, nil
}

func (c *Cache) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS files (
		path TEXT PRIMARY KEY,
		content_hash TEXT NOT NULL,
		mtime INTEGER NOT NULL,
		size INTEGER NOT NULL,
		last_accessed INTEGER NOT NULL,
		language TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS chunks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		file_path TEXT NOT NULL REFERENCES files(path) ON DELETE CASCADE,
		chunk_id TEXT NOT NULL,
		content TEXT NOT NULL,
		start_line INTEGER NOT NULL,
		end_line INTEGER NOT NULL,
		kind TEXT NOT NULL,
		name TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_chunks_file_path ON chunks(file_path);
	`
	_, err := c.db.Exec("PRAGMA foreign_keys = ON;" + schema)
	return err
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// HasFreshChunks reports whether a files row exists with mtime >= mtime and
// at least one chunk row, bumping last_accessed to now on hit (spec.md §4.4).
// Freshness is gated on mtime alone by design (see DESIGN.md's Open
// Question decision) — the stored hash is not consulted here.
func (c *Cache) HasFreshChunks(ctx context.Context, path string, mtime time.Time) (bool, error) {
	var storedMtime int64
	var chunkCount int
	err := c.db.QueryRowContext(ctx, `
		SELECT f.mtime, (SELECT COUNT(*) FROM chunks WHERE file_path = f.path)
		FROM files f WHERE f.path = ?`, path).Scan(&storedMtime, &chunkCount)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query fresh chunks: %w", err)
	}
	fresh := storedMtime >= mtime.Unix() && chunkCount > 0
	if fresh {
		if _, err := c.db.ExecContext(ctx, `UPDATE files SET last_accessed = ? WHERE path = ?`, time.Now().Unix(), path); err != nil {
			return true, fmt.Errorf("bump last_accessed: %w", err)
		}
	}
	return fresh, nil
}

// GetChunks loads the cached chunk rows for path, ordered by start line.
func (c *Cache) GetChunks(ctx context.Context, path string) ([]lmfetchtypes.Chunk, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT chunk_id, content, start_line, end_line, kind, name,
		       (SELECT language FROM files WHERE path = ?)
		FROM chunks WHERE file_path = ? ORDER BY start_line ASC`, path, path)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var chunks []lmfetchtypes.Chunk
	for rows.Next() {
		var ch lmfetchtypes.Chunk
		var name sql.NullString
		var kind string
		if err := rows.Scan(&ch.ID, &ch.Content, &ch.StartLine, &ch.EndLine, &kind, &name, &ch.Language); err != nil {
			return nil, fmt.Errorf("scan chunk row: %w", err)
		}
		ch.FilePath = path
		ch.Kind = lmfetchtypes.ChunkKind(kind)
		ch.Name = name.String
		chunks = append(chunks, ch)
	}
	return chunks, rows.Err()
}

// PutFile upserts the files row, computing the content hash over content.
func (c *Cache) PutFile(ctx context.Context, path, content string, mtime time.Time, language string) error {
	hash := sha256.Sum256([]byte(content))
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO files (path, content_hash, mtime, size, last_accessed, language)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET content_hash = excluded.content_hash,
			mtime = excluded.mtime, size = excluded.size,
			last_accessed = excluded.last_accessed, language = excluded.language`,
		path, hex.EncodeToString(hash[:]), mtime.Unix(), len(content), time.Now().Unix(), language)
	if err != nil {
		return fmt.Errorf("put file: %w", err)
	}
	return nil
}

// PutChunks atomically replaces all chunk rows for path.
func (c *Cache) PutChunks(ctx context.Context, path string, chunks []lmfetchtypes.Chunk) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE file_path = ?`, path); err != nil {
		return fmt.Errorf("clear chunks: %w", err)
	}
	for _, ch := range chunks {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO chunks (file_path, chunk_id, content, start_line, end_line, kind, name)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			path, ch.ID, ch.Content, ch.StartLine, ch.EndLine, string(ch.Kind), ch.Name); err != nil {
			return fmt.Errorf("insert chunk: %w", err)
		}
	}
	return tx.Commit()
}

// Prune deletes files rows whose last_accessed predates the TTL; cascade
// removes their chunks. Running Prune twice in succession is a no-op
// (spec.md §8, invariant 4).
func (c *Cache) Prune(ctx context.Context) error {
	cutoff := time.Now().Add(-pruneTTL).Unix()
	_, err := c.db.ExecContext(ctx, `DELETE FROM files WHERE last_accessed < ?`, cutoff)
	if err != nil {
		return fmt.Errorf("prune: %w", err)
	}
	return nil
}

// Clear empties both relations.
func (c *Cache) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
		return fmt.Errorf("clear chunks: %w", err)
	}
	if _, err := c.db.ExecContext(ctx, `DELETE FROM files`); err != nil {
		return fmt.Errorf("clear files: %w", err)
	}
	return nil
}

// Package chunker splits a SourceFile into Chunks using per-language
// ordered boundary-pattern tables, falling back to fixed-size slicing
// (spec.md §4.2).
package chunker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ferg-cod3s/lmfetch/internal/lmfetchtypes"
	"github.com/ferg-cod3s/lmfetch/internal/lmfetch/tokencount"
)

const (
	minLines = 10
	maxLines = 200
)

// Chunker splits file content into Chunks.
type Chunker struct {
	counter *tokencount.Counter
}

// New creates a Chunker backed by counter for token counting.
func New(counter *tokencount.Counter) *Chunker {
	return &Chunker{counter: counter}
}

type boundary struct {
	line int // 1-indexed
	kind lmfetchtypes.ChunkKind
	name string
}

// Chunk splits file into a list of Chunks per spec.md §4.2.
func (c *Chunker) Chunk(file lmfetchtypes.SourceFile) []lmfetchtypes.Chunk {
	lines := splitLines(file.Content)
	if len(lines) == 0 {
		return nil
	}

	patterns, ok := languagePatterns[file.Language]
	if !ok {
		return c.sizeChunk(file, lines)
	}

	boundaries := detectBoundaries(lines, patterns)
	if len(boundaries) == 0 {
		return c.sizeChunk(file, lines)
	}

	type candidate struct {
		start, end int
		kind       lmfetchtypes.ChunkKind
		name       string
	}

	candidates := make([]candidate, 0, len(boundaries))
	for i, b := range boundaries {
		end := len(lines)
		if i+1 < len(boundaries) {
			end = boundaries[i+1].line - 1
		}
		candidates = append(candidates, candidate{start: b.line, end: end, kind: b.kind, name: b.name})
	}

	filtered := make([]candidate, 0, len(candidates))
	for _, cand := range candidates {
		length := cand.end - cand.start + 1
		if length < minLines && len(boundaries) != 1 {
			continue
		}
		filtered = append(filtered, cand)
	}

	var chunks []lmfetchtypes.Chunk

	if boundaries[0].line > 1 {
		preambleEnd := boundaries[0].line - 1
		if preambleEnd >= minLines {
			chunks = append(chunks, c.makeChunk(file, lines, 1, preambleEnd, lmfetchtypes.KindSection, "imports/preamble"))
		}
	}

	for _, cand := range filtered {
		length := cand.end - cand.start + 1
		if length <= maxLines {
			chunks = append(chunks, c.makeChunk(file, lines, cand.start, cand.end, cand.kind, cand.name))
			continue
		}
		sliceStart := cand.start
		part := 0
		for sliceStart <= cand.end {
			sliceEnd := sliceStart + maxLines - 1
			if sliceEnd > cand.end {
				sliceEnd = cand.end
			}
			name := cand.name
			if part > 0 {
				name = fmt.Sprintf("%s (cont. %d)", cand.name, part+1)
			}
			chunks = append(chunks, c.makeChunk(file, lines, sliceStart, sliceEnd, cand.kind, name))
			sliceStart = sliceEnd + 1
			part++
		}
	}

	return chunks
}

func detectBoundaries(lines []string, patterns []boundaryPattern) []boundary {
	var boundaries []boundary
	for i, line := range lines {
		for _, p := range patterns {
			m := p.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			name := ""
			if p.nameGroup > 0 && p.nameGroup < len(m) {
				name = m[p.nameGroup]
			}
			boundaries = append(boundaries, boundary{line: i + 1, kind: p.kind, name: name})
			break
		}
	}
	return boundaries
}

// sizeChunk implements the fallback in spec.md §4.2 ("Size chunking"): used
// when a language has no pattern set or no boundaries were found.
func (c *Chunker) sizeChunk(file lmfetchtypes.SourceFile, lines []string) []lmfetchtypes.Chunk {
	if len(lines) <= maxLines {
		return []lmfetchtypes.Chunk{c.makeChunk(file, lines, 1, len(lines), lmfetchtypes.KindSection, "")}
	}
	var chunks []lmfetchtypes.Chunk
	start := 1
	for start <= len(lines) {
		end := start + maxLines - 1
		if end > len(lines) {
			end = len(lines)
		}
		chunks = append(chunks, c.makeChunk(file, lines, start, end, lmfetchtypes.KindSection, ""))
		start = end + 1
	}
	return chunks
}

func (c *Chunker) makeChunk(file lmfetchtypes.SourceFile, lines []string, start, end int, kind lmfetchtypes.ChunkKind, name string) lmfetchtypes.Chunk {
	content := strings.Join(lines[start-1:end], "\n")
	tokens := 0
	if c.counter != nil {
		tokens = c.counter.Count(content)
	}
	return lmfetchtypes.Chunk{
		ID:        chunkID(file.RelPath, start),
		FilePath:  file.RelPath,
		Content:   content,
		StartLine: start,
		EndLine:   end,
		Kind:      kind,
		Name:      name,
		Language:  file.Language,
		Tokens:    tokens,
	}
}

func chunkID(filePath string, start int) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", filePath, start)))
	return hex.EncodeToString(h[:16])
}

// splitLines splits on "\n" without losing a trailing empty line, matching
// the teacher's treatment of file content as a flat line list.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

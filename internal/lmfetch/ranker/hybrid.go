package ranker

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ferg-cod3s/lmfetch/internal/embedding"
	"github.com/ferg-cod3s/lmfetch/internal/lmfetch/embedcache"
	"github.com/ferg-cod3s/lmfetch/internal/lmfetch/generator"
	"github.com/ferg-cod3s/lmfetch/internal/lmfetchtypes"
	"github.com/ferg-cod3s/lmfetch/internal/observability"
)

const (
	embedBatchSize  = 100
	embedBatchTimeout = 30 * time.Second
	embedMaxRetries = 2
	contentTruncateChars = 8000
	hydeMaxTokens   = 200
)

// HybridRanker composes the KeywordRanker with embedding-based semantic
// similarity and a file-importance prior (spec.md §4.7.2). Composition,
// not inheritance — grounded on the teacher's search.Pipeline composition
// (internal/search/search.go).
type HybridRanker struct {
	keyword   *KeywordRanker
	embedder  embedding.Embedder
	generator generator.Generator
	cache     *embedcache.Cache
	importance lmfetchtypes.ImportanceMap
	log       *observability.Logger
}

// NewHybrid creates a HybridRanker.
func NewHybrid(embedder embedding.Embedder, gen generator.Generator, cache *embedcache.Cache, importance lmfetchtypes.ImportanceMap, log *observability.Logger) *HybridRanker {
	return &HybridRanker{
		keyword:    NewKeyword(),
		embedder:   embedder,
		generator:  gen,
		cache:      cache,
		importance: importance,
		log:        log,
	}
}

// Rank runs the keyword ranker, normalizes its scores, generates a HyDE
// hypothetical answer, embeds chunks and the hypothetical answer, scores
// by cosine similarity, and fuses the three signals.
func (h *HybridRanker) Rank(ctx context.Context, chunks []lmfetchtypes.Chunk, query string) []lmfetchtypes.ScoredChunk {
	keywordScored := h.keyword.Rank(chunks, query)
	keywordNorm := normalizeScores(keywordScored)

	hyde := h.generateHyDE(ctx, query)
	hydeVec := h.embedOne(ctx, hyde)

	chunkVecs := h.embedChunks(ctx, chunks)

	result := make([]lmfetchtypes.ScoredChunk, len(chunks))
	for i, c := range chunks {
		embedScore := 0.0
		if hydeVec != nil && chunkVecs[i] != nil {
			embedScore = float64(cosineSimilarity(hydeVec, chunkVecs[i]))
		}

		fileImportance := 0.5
		if v, ok := h.importance[c.FilePath]; ok {
			fileImportance = v
		}
		if c.Language == "markdown" {
			fileImportance *= 0.6
		}

		final := 0.4*keywordNorm[c.ID] + 0.4*embedScore + 0.2*fileImportance
		result[i] = lmfetchtypes.ScoredChunk{Chunk: c, Score: final}
	}

	sort.SliceStable(result, func(i, j int) bool { return result[i].Score > result[j].Score })
	return result
}

func normalizeScores(scored []lmfetchtypes.ScoredChunk) map[string]float64 {
	byChunk := make(map[string]float64, len(scored))
	min, max := math.Inf(1), math.Inf(-1)
	for _, s := range scored {
		byChunk[s.ID] = s.Score
		if s.Score < min {
			min = s.Score
		}
		if s.Score > max {
			max = s.Score
		}
	}
	norm := make(map[string]float64, len(scored))
	for id, score := range byChunk {
		if max == min {
			norm[id] = 0.5
			continue
		}
		norm[id] = (score - min) / (max - min)
	}
	// Keyed by chunk ID: the keyword ranker returns its results sorted by
	// score, so their order does not match the caller's chunk slice.
	return norm
}

func (h *HybridRanker) generateHyDE(ctx context.Context, query string) string {
	if h.generator == nil {
		return query
	}
	// Generator implementations own instruction-building around the bare
	// query (see generator.Generator's doc); passing it unadorned here
	// avoids stacking two near-identical instruction prefixes into one
	// prompt when a real model-backed generator is configured.
	answer, err := h.generator.Generate(ctx, query, hydeMaxTokens)
	if err != nil {
		if h.log != nil {
			h.log.Warn("HyDE generation failed, falling back to raw query", "error", err)
		}
		return query
	}
	return answer
}

func (h *HybridRanker) embedOne(ctx context.Context, text string) embedding.Vector {
	vecs := h.embedBatch(ctx, []string{text})
	if len(vecs) == 0 {
		return nil
	}
	return vecs[0]
}

// embedChunks embeds each chunk's enriched representation
// ("File: <path>\n<kind>: <name>\n<content truncated to 8000 chars>"),
// batching per embedBatchSize with the two-tier cache consulted first.
func (h *HybridRanker) embedChunks(ctx context.Context, chunks []lmfetchtypes.Chunk) []embedding.Vector {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = enrich(c)
	}
	return h.embedBatch(ctx, texts)
}

func enrich(c lmfetchtypes.Chunk) string {
	content := c.Content
	if len(content) > contentTruncateChars {
		content = content[:contentTruncateChars]
	}
	return fmt.Sprintf("File: %s\n%s: %s\n%s", c.FilePath, c.Kind, c.Name, content)
}

// embedBatch embeds texts, consulting the cache first, batching uncached
// texts in groups of embedBatchSize, each with a 30s timeout and up to 2
// retries with backoff (spec.md §5). Batch failures degrade to zero
// vectors of the embedder's dimensionality (spec.md §7).
func (h *HybridRanker) embedBatch(ctx context.Context, texts []string) []embedding.Vector {
	results := make([]embedding.Vector, len(texts))
	var toEmbed []string
	var toEmbedIdx []int

	for i, t := range texts {
		if h.cache != nil {
			if v, ok := h.cache.Get(t); ok {
				results[i] = v
				continue
			}
		}
		toEmbed = append(toEmbed, t)
		toEmbedIdx = append(toEmbedIdx, i)
	}

	dims := 384
	if h.embedder != nil {
		dims = h.embedder.Dimensions()
	}

	for start := 0; start < len(toEmbed); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(toEmbed) {
			end = len(toEmbed)
		}
		batch := toEmbed[start:end]

		vecs, err := h.embedWithRetry(ctx, batch)
		for j, idx := range toEmbedIdx[start:end] {
			if err != nil || j >= len(vecs) {
				results[idx] = make(embedding.Vector, dims)
				continue
			}
			results[idx] = vecs[j]
			if h.cache != nil {
				h.cache.Put(batch[j], vecs[j])
			}
		}
	}

	return results
}

func (h *HybridRanker) embedWithRetry(ctx context.Context, texts []string) ([]embedding.Vector, error) {
	if h.embedder == nil || len(texts) == 0 {
		return nil, fmt.Errorf("no embedder configured")
	}

	backoff := 500 * time.Millisecond
	var lastErr error
	for attempt := 0; attempt <= embedMaxRetries; attempt++ {
		batchCtx, cancel := context.WithTimeout(ctx, embedBatchTimeout)
		embeddings, err := h.embedder.EmbedBatch(batchCtx, texts)
		cancel()
		if err == nil {
			vecs := make([]embedding.Vector, len(embeddings))
			for i, e := range embeddings {
				vecs[i] = e.Vector
			}
			return vecs, nil
		}
		lastErr = err
		if h.log != nil {
			h.log.Warn("embedding batch failed, retrying", "attempt", attempt, "error", err)
		}
		if attempt < embedMaxRetries {
			time.Sleep(backoff)
			backoff = time.Duration(float64(backoff) * 1.75)
		}
	}
	return nil, lastErr
}

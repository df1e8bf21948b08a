// Package selector greedily packs ranked chunks into a token budget
// (spec.md §4.8).
package selector

import (
	"log/slog"

	"github.com/ferg-cod3s/lmfetch/internal/lmfetchtypes"
)

// perChunkOverhead is the estimated token cost of each chunk's formatted
// header ("### Lines a-b (kind: name)\n```lang\n...\n```\n").
const perChunkOverhead = 50

// softBudgetFactor derives the effective budget from the total budget,
// leaving slack for formatting overhead.
const softBudgetFactor = 0.95

// stopFactor halts accumulation once the running total reaches this
// fraction of the effective budget, rather than packing right up to it.
const stopFactor = 0.98

// Select greedily packs scored chunks (already ranked descending by
// score) into totalBudget tokens. Chunks are accepted in order; a chunk
// that doesn't fit is skipped, not substituted — later, smaller chunks
// may still be accepted (spec.md §4.8, "Rationale").
func Select(scored []lmfetchtypes.ScoredChunk, totalBudget int) []lmfetchtypes.ScoredChunk {
	effective := int(float64(totalBudget) * softBudgetFactor)
	stopAt := int(float64(effective) * stopFactor)

	selected := make([]lmfetchtypes.ScoredChunk, 0, len(scored))
	total := 0

	for _, sc := range scored {
		if total >= stopAt {
			slog.Debug("selector stopping, near budget", "total", total, "stopAt", stopAt)
			break
		}

		cost := sc.Tokens + perChunkOverhead
		if total+cost > effective {
			slog.Debug("chunk skipped, exceeds remaining budget",
				"path", sc.FilePath, "cost", cost, "remaining", effective-total)
			continue
		}

		selected = append(selected, sc)
		total += cost
		slog.Debug("chunk selected", "path", sc.FilePath, "cost", cost, "total", total)
	}

	return selected
}

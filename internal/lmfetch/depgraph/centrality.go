package depgraph

import "github.com/ferg-cod3s/lmfetch/internal/lmfetchtypes"

const (
	iterations = 10
	damping    = 0.85
)

// Centrality computes a simplified PageRank over graph, per spec.md §4.5.
// Represented as two forward/inverse maps, deliberately not cycle-detected
// (spec.md §9: "PageRank converges under any non-negative adjacency").
func Centrality(graph *lmfetchtypes.DependencyGraph, allPaths []string) map[string]float64 {
	scores := make(map[string]float64, len(allPaths))
	outDegree := make(map[string]int, len(allPaths))
	for _, p := range allPaths {
		scores[p] = 1.0
		outDegree[p] = len(graph.Imports[p])
	}

	for i := 0; i < iterations; i++ {
		next := make(map[string]float64, len(allPaths))
		for _, p := range allPaths {
			sum := 0.0
			for _, q := range graph.ImportedBy[p] {
				if outDegree[q] > 0 {
					sum += scores[q] / float64(outDegree[q])
				}
			}
			next[p] = (1 - damping) + damping*sum
		}
		scores = next
	}

	max := 0.0
	for _, v := range scores {
		if v > max {
			max = v
		}
	}
	if max > 0 {
		for p := range scores {
			scores[p] = scores[p] / max
		}
	}
	return scores
}

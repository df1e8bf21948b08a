// Package ranker implements the keyword ranker (always runs) and the
// hybrid ranker (keyword + embedding + file-importance, fast=false),
// composed rather than inherited (spec.md §4.7, §9).
package ranker

import (
	"math"
	"sort"
	"strings"

	"github.com/ferg-cod3s/lmfetch/internal/lmfetchtypes"
)

// KeywordRanker scores chunks against a query using term-matching
// heuristics over content, path, and name (spec.md §4.7.1).
type KeywordRanker struct{}

// NewKeyword creates a KeywordRanker.
func NewKeyword() *KeywordRanker { return &KeywordRanker{} }

// Rank scores and sorts chunks descending by relevance to query.
func (k *KeywordRanker) Rank(chunks []lmfetchtypes.Chunk, query string) []lmfetchtypes.ScoredChunk {
	important := importantTerms(query)
	importantStemmed := make(map[string]bool, len(important))
	for term := range important {
		for _, w := range splitWords(term) {
			importantStemmed[stem(w)] = true
		}
	}

	queryTokens := tokenize(query, true)

	scored := make([]lmfetchtypes.ScoredChunk, len(chunks))
	for i, c := range chunks {
		score := 0.0
		if len(queryTokens) > 0 {
			score = scoreChunk(c, queryTokens, importantStemmed)
		}
		scored[i] = lmfetchtypes.ScoredChunk{Chunk: c, Score: score}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	return scored
}

func scoreChunk(c lmfetchtypes.Chunk, queryTokens []string, importantStemmed map[string]bool) float64 {
	contentTokens := tokenize(c.Content, false)
	pathTokens := tokenize(c.FilePath, false)
	nameTokens := tokenize(c.Name, false)

	density := math.Min(1.0, 200.0/math.Max(float64(len(contentTokens)), 1))

	total := 0.0
	allMatched := true

	for _, q := range queryTokens {
		boost := 1.0
		if importantStemmed[q] {
			boost = 5.0
		}

		contentMatches := substringMatches(contentTokens, q)
		pathMatches := substringMatches(pathTokens, q)
		nameMatches := substringMatches(nameTokens, q)

		if contentMatches > 0 {
			total += (1 + math.Log(float64(contentMatches))) * (1 + density) * 1.0 * boost
		}
		total += float64(pathMatches) * 2.0 * boost
		total += float64(nameMatches) * 3.0 * boost

		if containsExact(contentTokens, q) {
			total += 2 * boost
		}
		if containsExact(pathTokens, q) {
			total += 10 * boost
		}
		if containsExact(nameTokens, q) {
			total += 20 * boost
		}

		if contentMatches == 0 && pathMatches == 0 && nameMatches == 0 {
			allMatched = false
		}
	}

	if len(queryTokens) >= 2 && allMatched {
		total *= 1.5
	}

	path := c.FilePath
	if strings.Contains(path, ".test.") || strings.Contains(path, ".spec.") ||
		strings.Contains(path, "__fixtures__") || strings.Contains(path, "__tests__") {
		total *= 0.5
	}
	if strings.Contains(path, "/codemod/") || strings.Contains(path, "/codemods/") {
		total *= 0.3
	}
	if strings.Contains(path, "prepare") && !containsExact(queryTokens, "prepar") {
		total *= 0.7
	}

	return total
}

func substringMatches(tokens []string, q string) int {
	count := 0
	for _, t := range tokens {
		if strings.Contains(t, q) || strings.Contains(q, t) {
			count++
		}
	}
	return count
}

func containsExact(tokens []string, q string) bool {
	for _, t := range tokens {
		if t == q {
			return true
		}
	}
	return false
}

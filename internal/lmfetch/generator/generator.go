// Package generator provides the HyDE (hypothetical document embeddings)
// text-generation black box the hybrid ranker asks for a short, plausible
// answer to embed instead of the raw query (spec.md §4.7.2).
package generator

import "context"

// Generator produces a short hypothetical answer document for a query.
// Shaped like embedding.Provider/Embedder so it composes the same way.
type Generator interface {
	// Generate returns a short hypothetical-answer completion for the bare
	// query, bounded to roughly maxTokens. Implementations own their own
	// instruction framing around query — callers pass the query text only,
	// so the instruction text is never duplicated into the final prompt.
	// On failure the caller substitutes the raw query (spec.md §7,
	// recoverable-silent).
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
	Model() string
}

// Provider is a factory for creating generators with specific configurations.
type Provider interface {
	Name() string
	Create(config map[string]interface{}) (Generator, error)
}

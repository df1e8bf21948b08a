package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// MockGenerator returns a deterministic, hash-derived stand-in for a
// hypothetical answer, so ranker tests don't depend on network access.
// Determinism pattern grounded on embedding.MockEmbedder's hash-seeding.
type MockGenerator struct{}

// NewMock creates a new mock generator.
func NewMock() *MockGenerator { return &MockGenerator{} }

// Generate returns a short deterministic string derived from prompt.
func (m *MockGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("cannot generate from empty prompt")
	}
	hash := sha256.Sum256([]byte(prompt))
	return fmt.Sprintf("// hypothetical answer for: %s\n// ref %s", prompt, hex.EncodeToString(hash[:8])), nil
}

// Model returns the model identifier.
func (m *MockGenerator) Model() string { return "mock" }

// MockProvider implements Provider for the mock generator.
type MockProvider struct{}

func (p *MockProvider) Name() string { return "mock" }

func (p *MockProvider) Create(config map[string]interface{}) (Generator, error) {
	return NewMock(), nil
}

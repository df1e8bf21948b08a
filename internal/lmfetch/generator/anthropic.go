package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicGenerator generates hypothetical-answer text via Anthropic's
// messages API. Unlike the teacher's embeddings placeholder (Anthropic had
// no public embeddings endpoint), this is a real call — HyDE only needs
// short text completion.
type AnthropicGenerator struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropic creates an Anthropic-backed generator. apiKey may be empty,
// in which case the SDK reads ANTHROPIC_API_KEY from the environment.
func NewAnthropic(apiKey, model string) *AnthropicGenerator {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if model == "" {
		model = string(anthropic.ModelClaude3_5HaikuLatest)
	}
	return &AnthropicGenerator{
		client: anthropic.NewClient(opts...),
		model:  anthropic.Model(model),
	}
}

// Generate asks the model for a short hypothetical code snippet answering
// the bare query in prompt, bounded to maxTokens output tokens. This is the
// only place the instruction wording around the query is built — callers
// pass the query unadorned (generator.Generator's contract).
func (a *AnthropicGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = 200
	}
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(
				"Write a short hypothetical code snippet that answers this question: " + prompt,
			)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic generation: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("anthropic generation: empty response")
	}
	return sb.String(), nil
}

// Model returns the model identifier.
func (a *AnthropicGenerator) Model() string { return string(a.model) }

// AnthropicProvider implements Provider for the Anthropic generator.
type AnthropicProvider struct{}

func (p *AnthropicProvider) Name() string { return "anthropic" }

func (p *AnthropicProvider) Create(config map[string]interface{}) (Generator, error) {
	apiKey, _ := config["api_key"].(string)
	model, _ := config["model"].(string)
	return NewAnthropic(apiKey, model), nil
}

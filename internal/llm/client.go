// Package llm provides the generation capability: one prompt in, one text
// completion (or a provider error) out.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// GenerationConfig limits and tunes a single generation call.
type GenerationConfig struct {
	// MaxOutputTokens caps generated length in provider tokens.
	MaxOutputTokens int
	Temperature     float64
	TopP            float64
	TopK            int
}

// DefaultGenerationConfig returns the tuning used for chat replies.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		MaxOutputTokens: 1000,
		Temperature:     0.9,
		TopP:            0.8,
		TopK:            40,
	}
}

// GenerationRequest is a single-turn prompt plus its configuration.
type GenerationRequest struct {
	Model  string
	Prompt string
	Config GenerationConfig
}

// GenerationResult is a successful completion.
type GenerationResult struct {
	Text         string
	Model        string
	TokensIn     int
	TokensOut    int
	FinishReason string
	LatencyMs    int64
}

// Client is the interface for LLM providers.
type Client interface {
	// Generate submits the prompt and waits for the completion.
	Generate(ctx context.Context, req *GenerationRequest) (*GenerationResult, error)

	// Name returns the provider name.
	Name() string

	// Models returns available models.
	Models() []string
}

// Provider is the type of LLM provider.
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// ErrEmptyResponse is returned when a provider answers without any text.
var ErrEmptyResponse = errors.New("empty response from model")

// BlockedError reports a completion withheld by the provider. Reason carries
// the provider's own marker, e.g. SAFETY or RECITATION.
type BlockedError struct {
	Provider string
	Reason   string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("%s: response blocked: %s", e.Provider, e.Reason)
}

// NewClient creates a new LLM client based on provider.
func NewClient(ctx context.Context, provider Provider, apiKey string) (Client, error) {
	switch provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, apiKey)
	case ProviderAnthropic:
		return NewAnthropicClient(apiKey)
	case ProviderOpenAI:
		return NewOpenAIClient(apiKey)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", provider)
	}
}

package llm

import (
	"context"
	"errors"
	"time"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// contentGenerator is the part of genai.Models the client uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient is the Google Gemini LLM client.
type GeminiClient struct {
	models contentGenerator
}

// NewGeminiClient creates a new Gemini client for the Gemini developer API.
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	return &GeminiClient{models: client.Models}, nil
}

// Name returns the provider name.
func (c *GeminiClient) Name() string {
	return "gemini"
}

// Models returns available models.
func (c *GeminiClient) Models() []string {
	return []string{
		"gemini-2.5-flash",
		"gemini-2.5-pro",
		"gemini-2.0-flash",
	}
}

// Generate sends a single-turn prompt.
func (c *GeminiClient) Generate(ctx context.Context, req *GenerationRequest) (*GenerationResult, error) {
	start := time.Now()

	model := req.Model
	if model == "" {
		model = defaultGeminiModel
	}

	contents := []*genai.Content{
		genai.NewContentFromText(req.Prompt, genai.RoleUser),
	}

	resp, err := c.models.GenerateContent(ctx, model, contents, geminiConfig(req.Config))
	if err != nil {
		return nil, err
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, &BlockedError{Provider: c.Name(), Reason: string(resp.PromptFeedback.BlockReason)}
	}

	var finishReason genai.FinishReason
	if len(resp.Candidates) > 0 {
		finishReason = resp.Candidates[0].FinishReason
	}
	switch finishReason {
	case genai.FinishReasonSafety, genai.FinishReasonRecitation:
		return nil, &BlockedError{Provider: c.Name(), Reason: string(finishReason)}
	}

	text := resp.Text()
	if text == "" {
		return nil, ErrEmptyResponse
	}

	result := &GenerationResult{
		Text:         text,
		Model:        model,
		FinishReason: string(finishReason),
		LatencyMs:    time.Since(start).Milliseconds(),
	}
	if resp.ModelVersion != "" {
		result.Model = resp.ModelVersion
	}
	if resp.UsageMetadata != nil {
		result.TokensIn = int(resp.UsageMetadata.PromptTokenCount)
		result.TokensOut = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	return result, nil
}

func geminiConfig(cfg GenerationConfig) *genai.GenerateContentConfig {
	out := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(cfg.MaxOutputTokens),
	}
	if cfg.Temperature > 0 {
		out.Temperature = genai.Ptr(float32(cfg.Temperature))
	}
	if cfg.TopP > 0 {
		out.TopP = genai.Ptr(float32(cfg.TopP))
	}
	if cfg.TopK > 0 {
		out.TopK = genai.Ptr(float32(cfg.TopK))
	}
	return out
}

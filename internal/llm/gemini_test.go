package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/excalibur-labs/helios-chat/internal/shaper"
)

type fakeGenerator struct {
	resp   *genai.GenerateContentResponse
	err    error
	model  string
	config *genai.GenerateContentConfig
	prompt string
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func textResponse(text string, finish genai.FinishReason) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      genai.NewContentFromText(text, genai.RoleModel),
			FinishReason: finish,
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     12,
			CandidatesTokenCount: 7,
		},
	}
}

func TestGeminiGenerate(t *testing.T) {
	fake := &fakeGenerator{resp: textResponse("Deflector recalibrated.", genai.FinishReasonStop)}
	client := &GeminiClient{models: fake}

	res, err := client.Generate(context.Background(), &GenerationRequest{
		Prompt: "recalibrate",
		Config: DefaultGenerationConfig(),
	})
	require.NoError(t, err)

	assert.Equal(t, "Deflector recalibrated.", res.Text)
	assert.Equal(t, 12, res.TokensIn)
	assert.Equal(t, 7, res.TokensOut)
	assert.Equal(t, defaultGeminiModel, fake.model)
	assert.Equal(t, "recalibrate", fake.prompt)

	require.NotNil(t, fake.config)
	assert.Equal(t, int32(1000), fake.config.MaxOutputTokens)
	require.NotNil(t, fake.config.TopK)
	assert.Equal(t, float32(40), *fake.config.TopK)
	require.NotNil(t, fake.config.Temperature)
	assert.InDelta(t, 0.9, *fake.config.Temperature, 1e-6)
}

func TestGeminiGenerateBlocked(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want shaper.FailureReason
	}{
		{
			name: "recitation finish",
			resp: textResponse("", genai.FinishReasonRecitation),
			want: shaper.FailureRecitation,
		},
		{
			name: "safety finish",
			resp: textResponse("partial", genai.FinishReasonSafety),
			want: shaper.FailureSafety,
		},
		{
			name: "prompt blocked",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{
					BlockReason: genai.BlockedReasonSafety,
				},
			},
			want: shaper.FailureSafety,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &GeminiClient{models: &fakeGenerator{resp: tt.resp}}
			_, err := client.Generate(context.Background(), &GenerationRequest{Prompt: "x"})
			require.Error(t, err)

			var blocked *BlockedError
			require.True(t, errors.As(err, &blocked))
			assert.Equal(t, tt.want, shaper.ClassifyFailure(err))
		})
	}
}

func TestGeminiGenerateEmptyAndError(t *testing.T) {
	client := &GeminiClient{models: &fakeGenerator{resp: &genai.GenerateContentResponse{}}}
	_, err := client.Generate(context.Background(), &GenerationRequest{Prompt: "x"})
	assert.ErrorIs(t, err, ErrEmptyResponse)

	upstream := errors.New("Error 429, Message: Resource has been exhausted (e.g. check quota)., Status: RESOURCE_EXHAUSTED")
	client = &GeminiClient{models: &fakeGenerator{err: upstream}}
	_, err = client.Generate(context.Background(), &GenerationRequest{Prompt: "x"})
	assert.Equal(t, shaper.FailureQuota, shaper.ClassifyFailure(err))
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(context.Background(), ProviderGemini, "")
	assert.Error(t, err)

	_, err = NewClient(context.Background(), ProviderOpenAI, "")
	assert.Error(t, err)

	_, err = NewClient(context.Background(), Provider("mystery"), "key")
	assert.Error(t, err)

	c, err := NewClient(context.Background(), ProviderOpenAI, "sk-test")
	require.NoError(t, err)
	assert.Equal(t, "openai", c.Name())
}

// Package service provides business logic for the chat backend.
package service

import (
	"context"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/excalibur-labs/helios-chat/internal/classifier"
	"github.com/excalibur-labs/helios-chat/internal/llm"
	"github.com/excalibur-labs/helios-chat/internal/model"
	"github.com/excalibur-labs/helios-chat/internal/shaper"
	"github.com/excalibur-labs/helios-chat/pkg/logger"
	"github.com/excalibur-labs/helios-chat/pkg/metrics"
)

const tracerName = "github.com/excalibur-labs/helios-chat/internal/service"

// ChatService answers a single chat turn: refuse, or generate and shape.
type ChatService struct {
	llmClient llm.Client
	shaper    *shaper.Shaper
	model     string
	config    llm.GenerationConfig
	logger    *logger.Logger
	tracer    trace.Tracer
}

// Options configures a ChatService.
type Options struct {
	Model    string
	Config   llm.GenerationConfig
	MaxWords int
}

// NewChatService creates a new chat service. A model the provider does not
// list is logged and still sent as-is.
func NewChatService(llmClient llm.Client, opts Options, log *logger.Logger) *ChatService {
	if opts.Model != "" && !slices.Contains(llmClient.Models(), opts.Model) {
		log.Warn("model not in provider model list",
			zap.String("provider", llmClient.Name()),
			zap.String("model", opts.Model),
			zap.Strings("known", llmClient.Models()),
		)
	}
	return &ChatService{
		llmClient: llmClient,
		shaper:    shaper.New(opts.MaxWords),
		model:     opts.Model,
		config:    opts.Config,
		logger:    log,
		tracer:    otel.Tracer(tracerName),
	}
}

// Limits returns the generation config and the word budget in effect.
func (s *ChatService) Limits() (llm.GenerationConfig, int) {
	return s.config, s.shaper.MaxWords()
}

// Backend describes the provider answering generated turns.
func (s *ChatService) Backend() model.UsageBackend {
	return model.UsageBackend{
		Provider: s.llmClient.Name(),
		Model:    s.model,
		Models:   s.llmClient.Models(),
	}
}

// Respond runs one turn. It never fails: generation errors come back as
// fallback text in the reply.
func (s *ChatService) Respond(ctx context.Context, message string) (*model.Reply, error) {
	return s.Reply(ctx, message), nil
}

// Reply runs one turn and returns the text to display.
func (s *ChatService) Reply(ctx context.Context, message string) *model.Reply {
	if classifier.ShouldRefuse(message) {
		s.logger.Info("long-form request refused")
		metrics.RefusalsTotal.Inc()
		return &model.Reply{Text: classifier.RefusalText, Refused: true}
	}

	text, err := s.generate(ctx, message)
	outcome := s.shaper.Resolve(text, err)

	if err != nil {
		s.logger.Warn("generation failed",
			zap.Error(err),
			zap.String("reason", string(outcome.Failure)),
		)
		metrics.GenerationFailuresTotal.WithLabelValues(string(outcome.Failure)).Inc()
	}
	if outcome.Truncated {
		s.logger.Info("reply truncated",
			zap.Int("max_words", s.shaper.MaxWords()),
			zap.Int("words", outcome.WordCount),
		)
		metrics.TruncationsTotal.Inc()
	}

	return &model.Reply{
		Text:      outcome.Text,
		Truncated: outcome.Truncated,
		Failure:   string(outcome.Failure),
	}
}

func (s *ChatService) generate(ctx context.Context, message string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "llm.generate",
		trace.WithAttributes(
			attribute.String("llm.provider", s.llmClient.Name()),
			attribute.String("llm.model", s.model),
			attribute.Int("llm.max_output_tokens", s.config.MaxOutputTokens),
		),
	)
	defer span.End()

	start := time.Now()
	res, err := s.llmClient.Generate(ctx, &llm.GenerationRequest{
		Model:  s.model,
		Prompt: BuildPrompt(message),
		Config: s.config,
	})
	duration := time.Since(start).Seconds()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		metrics.RecordGeneration(s.llmClient.Name(), "error", duration, 0, 0)
		return "", err
	}

	span.SetAttributes(
		attribute.Int("llm.tokens_in", res.TokensIn),
		attribute.Int("llm.tokens_out", res.TokensOut),
		attribute.String("llm.finish_reason", res.FinishReason),
	)
	metrics.RecordGeneration(s.llmClient.Name(), "success", duration, res.TokensIn, res.TokensOut)

	s.logger.Debug("generation completed",
		zap.String("model", res.Model),
		zap.Int("tokens_in", res.TokensIn),
		zap.Int("tokens_out", res.TokensOut),
		zap.Int64("latency_ms", res.LatencyMs),
	)

	return res.Text, nil
}

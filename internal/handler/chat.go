// Package handler provides HTTP handlers for the chat server.
package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/excalibur-labs/helios-chat/internal/llm"
	"github.com/excalibur-labs/helios-chat/internal/model"
	"github.com/excalibur-labs/helios-chat/pkg/logger"
)

// Replier answers a single stateless chat turn.
type Replier interface {
	Reply(ctx context.Context, message string) *model.Reply
	Limits() (llm.GenerationConfig, int)
	Backend() model.UsageBackend
}

// ChatHandler handles the stateless chat endpoints.
type ChatHandler struct {
	service Replier
	logger  *logger.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(svc Replier, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		service: svc,
		logger:  log,
	}
}

// Chat handles POST /chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	message, ok := decodeMessage(w, r)
	if !ok {
		h.logger.Warn("received empty or invalid message")
		return
	}

	reply := h.service.Reply(r.Context(), message)

	h.logger.Info("chat reply",
		zap.Bool("refused", reply.Refused),
		zap.Bool("truncated", reply.Truncated),
		zap.String("failure", reply.Failure),
		zap.Int("chars", len(reply.Text)),
	)

	writeJSON(w, http.StatusOK, &model.ChatResponse{Text: reply.Text})
}

// Usage handles GET /usage
func (h *ChatHandler) Usage(w http.ResponseWriter, r *http.Request) {
	cfg, maxWords := h.service.Limits()

	writeJSON(w, http.StatusOK, &model.UsageResponse{
		Info: "Replies are limited by the model's output token cap and by a word budget.",
		Limits: model.UsageLimits{
			MaxOutputTokens: cfg.MaxOutputTokens,
			MaxWords:        maxWords,
			Temperature:     cfg.Temperature,
		},
		Backend: h.service.Backend(),
	})
}

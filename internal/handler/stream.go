package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/excalibur-labs/helios-chat/internal/model"
	"github.com/excalibur-labs/helios-chat/internal/session"
	"github.com/excalibur-labs/helios-chat/pkg/metrics"
)

// Stream handles POST /api/v1/sessions/:id/stream
// It runs one turn and emits each appended message as an SSE event, so a
// renderer can draw the transcript without polling.
func (h *SessionHandler) Stream(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	message, ok := decodeMessage(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	metrics.IncrementSSEConnections()
	defer metrics.DecrementSSEConnections()

	turn, err := h.controller.Submit(r.Context(), s, message)
	if err != nil {
		code := "turn_error"
		switch {
		case errors.Is(err, session.ErrSessionEnded):
			code = "session_ended"
		case errors.Is(err, session.ErrInvalidInput):
			code = "invalid_input"
		}
		sendSSEEvent(w, flusher, "error", &model.ErrorEvent{Code: code, Message: err.Error()})
		return
	}

	for i := range turn.Messages {
		if err := sendSSEEvent(w, flusher, "message", &turn.Messages[i]); err != nil {
			h.logger.Warn("failed to send SSE event", zap.Error(err))
			return
		}
	}

	sendSSEEvent(w, flusher, "done", map[string]model.SessionState{"state": turn.State})
}

func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "event: %s\n", event)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
	flusher.Flush()

	return nil
}

package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/excalibur-labs/helios-chat/internal/middleware"
	"github.com/excalibur-labs/helios-chat/internal/model"
	"github.com/excalibur-labs/helios-chat/internal/session"
	"github.com/excalibur-labs/helios-chat/pkg/logger"
)

// SessionHandler handles session endpoints.
type SessionHandler struct {
	store      *session.Store
	controller *session.Controller
	logger     *logger.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(store *session.Store, controller *session.Controller, log *logger.Logger) *SessionHandler {
	return &SessionHandler{
		store:      store,
		controller: controller,
		logger:     log,
	}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s, err := h.store.Create(middleware.GetUserID(r.Context()))
	if err != nil {
		h.logger.Warn("session not created", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, s.View())
}

// List handles GET /api/v1/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions := h.store.List(middleware.GetUserID(r.Context()))

	views := make([]*model.SessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, s.View())
	}
	writeJSON(w, http.StatusOK, views)
}

// Get handles GET /api/v1/sessions/:id
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}

// Delete handles DELETE /api/v1/sessions/:id
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if err := middleware.ValidateSessionID(sessionID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Delete(sessionID, middleware.GetUserID(r.Context())); err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Send handles POST /api/v1/sessions/:id/messages
func (h *SessionHandler) Send(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	message, ok := decodeMessage(w, r)
	if !ok {
		return
	}

	turn, err := h.controller.Submit(r.Context(), s, message)
	if err != nil {
		writeTurnError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, &model.TurnResponse{
		SessionID: turn.SessionID,
		State:     turn.State,
		Messages:  turn.Messages,
	})
}

func (h *SessionHandler) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sessionID := chi.URLParam(r, "id")
	if err := middleware.ValidateSessionID(sessionID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	s, err := h.store.Get(sessionID, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return s, true
}

func writeTurnError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, middleware.EmptyMessageText)
	case errors.Is(err, session.ErrSessionEnded):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "failed to process message")
	}
}

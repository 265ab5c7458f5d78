package handler

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/excalibur-labs/helios-chat/internal/llm"
	"github.com/excalibur-labs/helios-chat/internal/model"
	"github.com/excalibur-labs/helios-chat/internal/session"
	"github.com/excalibur-labs/helios-chat/pkg/logger"
)

type fakeReplier struct {
	calls []string
}

func (f *fakeReplier) Reply(ctx context.Context, message string) *model.Reply {
	f.calls = append(f.calls, message)
	return &model.Reply{Text: "ack: " + message}
}

func (f *fakeReplier) Respond(ctx context.Context, message string) (*model.Reply, error) {
	return f.Reply(ctx, message), nil
}

func (f *fakeReplier) Limits() (llm.GenerationConfig, int) {
	return llm.DefaultGenerationConfig(), 100
}

func (f *fakeReplier) Backend() model.UsageBackend {
	return model.UsageBackend{Provider: "fake", Models: []string{"fake-1", "fake-2"}}
}

func setupRouter(t *testing.T) (*chi.Mux, *fakeReplier) {
	t.Helper()
	return setupRouterWithStore(t, session.NewStore(session.StoreConfig{}))
}

func setupRouterWithStore(t *testing.T, store *session.Store) (*chi.Mux, *fakeReplier) {
	t.Helper()
	log := logger.NewNop()
	replier := &fakeReplier{}

	chatHandler := NewChatHandler(replier, log)
	sessionHandler := NewSessionHandler(
		store,
		session.NewController(replier, nil, log),
		log,
	)
	healthHandler := NewHealthHandler(nil)

	r := chi.NewRouter()
	r.Post("/chat", chatHandler.Chat)
	r.Get("/usage", chatHandler.Usage)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Route("/api/v1/sessions", func(r chi.Router) {
		r.Post("/", sessionHandler.Create)
		r.Get("/", sessionHandler.List)
		r.Get("/{id}", sessionHandler.Get)
		r.Delete("/{id}", sessionHandler.Delete)
		r.Post("/{id}/messages", sessionHandler.Send)
		r.Post("/{id}/stream", sessionHandler.Stream)
	})

	return r, replier
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestChat(t *testing.T) {
	r, replier := setupRouter(t)

	rr := do(r, http.MethodPost, "/chat", `{"message":"status report"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp model.ChatResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "ack: status report", resp.Text)
	assert.Equal(t, []string{"status report"}, replier.calls)
}

func TestChatRejectsInvalidInput(t *testing.T) {
	r, replier := setupRouter(t)

	for _, body := range []string{`{}`, `{"message":""}`, `{"message":"   "}`, `{"message":42}`, `not json`} {
		t.Run(body, func(t *testing.T) {
			rr := do(r, http.MethodPost, "/chat", body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)

			var resp model.ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			if body == `not json` {
				assert.Equal(t, "invalid request body", resp.Error)
			} else {
				assert.Equal(t, "Message content cannot be empty.", resp.Error)
			}
		})
	}
	assert.Empty(t, replier.calls)
}

func TestUsage(t *testing.T) {
	r, _ := setupRouter(t)

	rr := do(r, http.MethodGet, "/usage", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp model.UsageResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, 1000, resp.Limits.MaxOutputTokens)
	assert.Equal(t, 100, resp.Limits.MaxWords)
	assert.Equal(t, 0.9, resp.Limits.Temperature)
	assert.Equal(t, "fake", resp.Backend.Provider)
	assert.Equal(t, []string{"fake-1", "fake-2"}, resp.Backend.Models)
}

func createSession(t *testing.T, r http.Handler) string {
	t.Helper()
	rr := do(r, http.MethodPost, "/api/v1/sessions/", "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var view model.SessionView
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&view))
	assert.Equal(t, model.SessionActive, view.State)
	return view.ID
}

func TestSessionLifecycle(t *testing.T) {
	r, replier := setupRouter(t)
	id := createSession(t, r)

	rr := do(r, http.MethodPost, "/api/v1/sessions/"+id+"/messages", `{"message":"how do I recalibrate the deflector"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var turn model.TurnResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&turn))
	assert.Equal(t, model.SessionActive, turn.State)
	require.Len(t, turn.Messages, 2)
	assert.Equal(t, "ack: how do I recalibrate the deflector", turn.Messages[1].Content)

	rr = do(r, http.MethodPost, "/api/v1/sessions/"+id+"/messages", `{"message":"thanks, bye"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&turn))
	assert.Equal(t, model.SessionEnded, turn.State)
	assert.Equal(t, session.FarewellText, turn.Messages[1].Content)

	rr = do(r, http.MethodPost, "/api/v1/sessions/"+id+"/messages", `{"message":"one more thing"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = do(r, http.MethodGet, "/api/v1/sessions/"+id, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var view model.SessionView
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&view))
	assert.Equal(t, model.SessionEnded, view.State)
	assert.Len(t, view.Transcript, 4)

	assert.Len(t, replier.calls, 1)

	rr = do(r, http.MethodDelete, "/api/v1/sessions/"+id, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = do(r, http.MethodGet, "/api/v1/sessions/"+id, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateSessionAtCapacity(t *testing.T) {
	r, _ := setupRouterWithStore(t, session.NewStore(session.StoreConfig{MaxSessions: 1}))
	createSession(t, r)

	rr := do(r, http.MethodPost, "/api/v1/sessions/", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, session.ErrStoreFull.Error(), resp.Error)
}

func TestSessionNotFoundAndBadID(t *testing.T) {
	r, _ := setupRouter(t)

	rr := do(r, http.MethodGet, "/api/v1/sessions/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(r, http.MethodGet, "/api/v1/sessions/0190b5a8-7c3e-7b0a-9f1e-2d4c5b6a7e8f", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStream(t *testing.T) {
	r, _ := setupRouter(t)
	id := createSession(t, r)

	rr := do(r, http.MethodPost, "/api/v1/sessions/"+id+"/stream", `{"message":"goodbye"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))

	var events []string
	scanner := bufio.NewScanner(bytes.NewReader(rr.Body.Bytes()))
	for scanner.Scan() {
		if name, ok := strings.CutPrefix(scanner.Text(), "event: "); ok {
			events = append(events, name)
		}
	}
	assert.Equal(t, []string{"message", "message", "done"}, events)
	assert.Contains(t, rr.Body.String(), `"state":"ended"`)

	rr = do(r, http.MethodPost, "/api/v1/sessions/"+id+"/stream", `{"message":"hello?"}`)
	assert.Contains(t, rr.Body.String(), "event: error")
	assert.Contains(t, rr.Body.String(), "session_ended")
}

func TestHealth(t *testing.T) {
	r, _ := setupRouter(t)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ready", "").Code)
}

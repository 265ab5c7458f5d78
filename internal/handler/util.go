package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/excalibur-labs/helios-chat/internal/middleware"
	"github.com/excalibur-labs/helios-chat/internal/model"
)

// maxBodyBytes bounds request bodies; it leaves room for JSON framing around
// the largest accepted message.
const maxBodyBytes = 2 * middleware.MaxMessageBytes

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, &model.ErrorResponse{Error: message})
}

// decodeMessage reads {"message": "..."} and validates it. Missing,
// non-string and blank messages all fail the same way.
func decodeMessage(w http.ResponseWriter, r *http.Request) (string, bool) {
	var body struct {
		Message interface{} `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return "", false
	}

	message, ok := body.Message.(string)
	if !ok {
		writeError(w, http.StatusBadRequest, middleware.EmptyMessageText)
		return "", false
	}

	if err := middleware.ValidateMessageContent(message); err != nil {
		if errors.Is(err, middleware.ErrEmptyMessage) {
			writeError(w, http.StatusBadRequest, middleware.EmptyMessageText)
		} else {
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return "", false
	}

	return message, true
}

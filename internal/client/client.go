// Package client talks to the chat server's POST /chat endpoint. It is the
// remote Responder used by presentation front ends.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/excalibur-labs/helios-chat/internal/model"
)

// TransportError means no usable reply came back from the server. It is
// distinct from a generation failure, which arrives as ordinary reply text.
type TransportError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("chat request failed: %v", e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("chat request failed: status %d: %s", e.StatusCode, e.Message)
	default:
		return "chat request failed: " + e.Message
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client calls a remote chat server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the server at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Respond sends message to POST /chat and returns the display text.
func (c *Client) Respond(ctx context.Context, message string) (*model.Reply, error) {
	body, err := json.Marshal(&model.ChatRequest{Message: message})
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	var payload struct {
		Text  string `json:"text"`
		Error string `json:"error"`
	}
	decodeErr := json.NewDecoder(resp.Body).Decode(&payload)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := payload.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &TransportError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return nil, &TransportError{Err: fmt.Errorf("decode response: %w", decodeErr)}
	}
	if payload.Error != "" {
		return nil, &TransportError{Message: payload.Error}
	}

	return &model.Reply{Text: payload.Text}, nil
}

package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/excalibur-labs/helios-chat/internal/classifier"
	"github.com/excalibur-labs/helios-chat/internal/model"
	"github.com/excalibur-labs/helios-chat/pkg/logger"
	"github.com/excalibur-labs/helios-chat/pkg/metrics"
)

// FarewellText is appended when the user ends the conversation.
const FarewellText = "Goodbye! Thanks for chatting. Feel free to start a new session if you want to start a new conversation."

// TransportFailureText is appended when the responder could not be reached.
const TransportFailureText = "Error: Could not get a response."

var (
	// ErrInvalidInput is returned for empty or blank messages.
	ErrInvalidInput = errors.New("message content cannot be empty")
	// ErrSessionEnded is returned for input sent after the conversation ended.
	ErrSessionEnded = errors.New("conversation has ended")
)

// Responder produces the model reply for one user message.
type Responder interface {
	Respond(ctx context.Context, message string) (*model.Reply, error)
}

// Publisher receives transcript appends and lifecycle events.
type Publisher interface {
	PublishMessage(ctx context.Context, msg *model.Message) error
	PublishEvent(ctx context.Context, event *model.SessionEvent) error
}

// NopPublisher discards everything.
type NopPublisher struct{}

func (NopPublisher) PublishMessage(context.Context, *model.Message) error    { return nil }
func (NopPublisher) PublishEvent(context.Context, *model.SessionEvent) error { return nil }

// Turn lists what one accepted user message appended to the transcript.
type Turn struct {
	SessionID string
	State     model.SessionState
	Messages  []model.Message
}

// Ended reports whether this turn ended the session.
func (t *Turn) Ended() bool {
	return t.State == model.SessionEnded
}

// Controller runs turns against sessions.
type Controller struct {
	responder Responder
	publisher Publisher
	logger    *logger.Logger
}

// NewController creates a controller. A nil publisher discards events.
func NewController(responder Responder, publisher Publisher, log *logger.Logger) *Controller {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Controller{
		responder: responder,
		publisher: publisher,
		logger:    log,
	}
}

// Submit runs one user turn. A termination phrase ends the session with a
// farewell and no reply is requested. Otherwise exactly one model message is
// appended, whatever the responder returns.
func (c *Controller) Submit(ctx context.Context, s *Session, text string) (*Turn, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidInput
	}

	s.turnMu.Lock()
	defer s.turnMu.Unlock()

	if s.Ended() {
		return nil, ErrSessionEnded
	}

	log := c.logger.With(zap.String("session_id", s.ID))
	turn := &Turn{SessionID: s.ID}

	turn.Messages = append(turn.Messages, c.append(ctx, s, model.Message{
		Role:    model.RoleUser,
		Content: text,
	}))

	if classifier.ShouldTerminate(text) {
		turn.Messages = append(turn.Messages, c.append(ctx, s, model.Message{
			Role:     model.RoleModel,
			Content:  FarewellText,
			Farewell: true,
		}))
		if s.end() {
			log.Info("session ended by user")
			metrics.TerminationsTotal.Inc()
			c.publishEvent(ctx, &model.SessionEvent{
				ID:        uuid.Must(uuid.NewV7()).String(),
				SessionID: s.ID,
				Type:      model.EventTypeEnded,
				Reason:    "termination phrase",
				CreatedAt: time.Now(),
			})
		}
		turn.State = s.State()
		return turn, nil
	}

	reply, err := c.responder.Respond(ctx, text)
	if err != nil || reply == nil {
		log.Warn("responder failed", zap.Error(err))
		reply = &model.Reply{Text: TransportFailureText, Failure: "transport"}
	}

	turn.Messages = append(turn.Messages, c.append(ctx, s, model.Message{
		Role:      model.RoleModel,
		Content:   reply.Text,
		Refused:   reply.Refused,
		Truncated: reply.Truncated,
		Failure:   reply.Failure,
	}))
	turn.State = s.State()
	return turn, nil
}

func (c *Controller) append(ctx context.Context, s *Session, msg model.Message) model.Message {
	stored := s.append(msg)
	metrics.MessagesTotal.WithLabelValues(string(stored.Role)).Inc()
	if err := c.publisher.PublishMessage(ctx, &stored); err != nil {
		c.logger.Warn("failed to publish message",
			zap.String("session_id", s.ID),
			zap.Error(err),
		)
	}
	return stored
}

func (c *Controller) publishEvent(ctx context.Context, event *model.SessionEvent) {
	if err := c.publisher.PublishEvent(ctx, event); err != nil {
		c.logger.Warn("failed to publish event",
			zap.String("session_id", event.SessionID),
			zap.Error(err),
		)
	}
}

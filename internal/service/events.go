package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Workflow event names published for external indexing.
const (
	EventAssignmentCreated  = "assignment.created"
	EventSubmissionAccepted = "submission.accepted"
	EventGradingStarted     = "grading.started"
	EventGradeRecorded      = "grade.recorded"
)

// EventPublisher announces workflow events. Publishing is best-effort: a
// failed publish never fails the operation that triggered it.
type EventPublisher interface {
	Publish(ctx context.Context, event string, payload interface{})
}

type natsEventPublisher struct {
	conn   *nats.Conn
	prefix string
	logger zerolog.Logger
}

type eventEnvelope struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
	SentAt  time.Time   `json:"sent_at"`
}

// NewNATSEventPublisher builds a publisher that emits JSON envelopes on
// "<prefix>.<event>" subjects.
func NewNATSEventPublisher(conn *nats.Conn, prefix string, logger zerolog.Logger) EventPublisher {
	if prefix == "" {
		prefix = "sealgrade"
	}

	return &natsEventPublisher{
		conn:   conn,
		prefix: prefix,
		logger: logger.With().Str("component", "event_publisher").Logger(),
	}
}

func (p *natsEventPublisher) Publish(_ context.Context, event string, payload interface{}) {
	if p.conn == nil {
		return
	}

	body, err := json.Marshal(eventEnvelope{
		Event:   event,
		Payload: payload,
		SentAt:  time.Now().UTC(),
	})
	if err != nil {
		p.logger.Warn().Err(err).Str("event", event).Msg("failed to encode event")
		return
	}

	subject := p.prefix + "." + event
	if err := p.conn.Publish(subject, body); err != nil {
		p.logger.Warn().Err(err).Str("subject", subject).Msg("failed to publish event")
	}
}

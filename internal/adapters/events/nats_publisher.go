// Package events publishes job financial events to NATS for downstream
// consumers (dashboards, notification services).
//
// Subject convention: jobledger.financials.<event_type>
// Event types: job_created, job_deleted, budget_updated, cost_recorded,
// invoice_recorded, payment_recorded, variation_order_created,
// variation_order_approved, variation_order_rejected,
// variation_order_amended.
//
// Publishing is best-effort: failures are logged but never propagated, so
// eventing can never interrupt a financial mutation.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	portssvc "github.com/voltcraft/jobledger/internal/core/ports/services"
)

const subjectPrefix = "jobledger.financials."

// FinancialEvent is the JSON schema published to NATS.
type FinancialEvent struct {
	EventType  string         `json:"event_type"`
	JobID      string         `json:"job_id"`
	ActorID    string         `json:"actor_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// NatsPublisher publishes financial events over a NATS connection.
type NatsPublisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

var _ portssvc.EventPublisher = (*NatsPublisher)(nil)

// NewNatsPublisher connects to the given NATS URL and returns a publisher.
func NewNatsPublisher(url string, logger *slog.Logger) (*NatsPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("jobledger"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &NatsPublisher{conn: conn, logger: logger}, nil
}

// Publish emits one financial event. Errors are logged, never returned.
func (p *NatsPublisher) Publish(ctx context.Context, eventType string, jobID string, actorID string, payload map[string]any) {
	if p == nil || p.conn == nil {
		return
	}

	event := FinancialEvent{
		EventType:  eventType,
		JobID:      jobID,
		ActorID:    actorID,
		OccurredAt: time.Now(),
		Payload:    payload,
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal financial event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
		return
	}

	if err := p.conn.Publish(subjectPrefix+eventType, data); err != nil {
		p.logger.Warn("Failed to publish financial event",
			slog.String("event_type", eventType),
			slog.String("job_id", jobID),
			slog.String("error", err.Error()))
	}
}

// Close drains the connection, flushing buffered events.
func (p *NatsPublisher) Close() {
	if p != nil && p.conn != nil {
		if err := p.conn.Drain(); err != nil {
			p.logger.Warn("Failed to drain NATS connection", slog.String("error", err.Error()))
		}
	}
}

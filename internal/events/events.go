// Package events publishes quote lifecycle events over NATS. The delivery
// worker subscribes to these subjects to render and email finalized
// quotations out of the request path.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// Subjects for quote lifecycle events.
const (
	SubjectQuoteFinalized = "quote.finalized"

	// QueueDelivery is the queue group delivery workers join so each event is
	// handled by exactly one worker.
	QueueDelivery = "quote-delivery"
)

// QuoteFinalized is the payload published when a quotation is persisted.
type QuoteFinalized struct {
	QuotationID uuid.UUID `json:"quotation_id"`
	Number      string    `json:"number"`
	Domain      string    `json:"domain"`
	FinalizedAt time.Time `json:"finalized_at"`
}

// Publisher publishes quote events to NATS.
type Publisher struct {
	conn *nats.Conn
}

// NewPublisher wraps an established NATS connection.
func NewPublisher(conn *nats.Conn) *Publisher {
	return &Publisher{conn: conn}
}

// PublishQuoteFinalized announces a finalized quotation.
func (p *Publisher) PublishQuoteFinalized(event QuoteFinalized) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal quote.finalized event: %w", err)
	}
	if err := p.conn.Publish(SubjectQuoteFinalized, data); err != nil {
		return fmt.Errorf("failed to publish quote.finalized event: %w", err)
	}
	return nil
}

// Connect dials NATS with sane reconnect behavior for a long-lived service.
func Connect(url, name string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}

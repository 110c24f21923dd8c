// internal/adapter/events/nats_publisher.go

package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"w3intel/internal/domain/dashboard"
)

// Conn is the subset of *nats.Conn used by the publisher
type Conn interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher forwards dashboard view events to NATS subjects of the form
// <prefix>.<session id>.<event kind>
type NATSPublisher struct {
	conn   Conn
	prefix string
}

// NewNATSPublisher creates a new NATS publisher
func NewNATSPublisher(conn *nats.Conn, prefix string) *NATSPublisher {
	return newPublisher(conn, prefix)
}

func newPublisher(conn Conn, prefix string) *NATSPublisher {
	if prefix == "" {
		prefix = "dashboard"
	}
	return &NATSPublisher{
		conn:   conn,
		prefix: prefix,
	}
}

// Subject returns the subject an event is published on
func (p *NATSPublisher) Subject(event dashboard.ViewEvent) string {
	return fmt.Sprintf("%s.%s.%s", p.prefix, event.State.SessionID, event.Kind)
}

// Publish serializes the event and publishes it
func (p *NATSPublisher) Publish(ctx context.Context, event dashboard.ViewEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error marshaling view event: %w", err)
	}

	if err := p.conn.Publish(p.Subject(event), data); err != nil {
		return fmt.Errorf("error publishing view event: %w", err)
	}
	return nil
}

var _ dashboard.Publisher = (*NATSPublisher)(nil)

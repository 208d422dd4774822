// Package events publishes content-change notifications so that
// downstream consumers (the marketing frontend, cache layers) can
// revalidate after an admin mutation. Publishing is best-effort: a broker
// failure never fails the mutation that triggered it.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Actions carried by content events.
const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionDeleted   = "deleted"
	ActionReordered = "reordered"
)

// Event describes a single content mutation.
type Event struct {
	// Resource is the plural resource name ("projects", "testimonials",
	// "team").
	Resource string `json:"resource"`

	// Action is one of the Action constants.
	Action string `json:"action"`

	// ID identifies the mutated record; zero for batch actions.
	ID int `json:"id,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}

// Handler processes an event delivered to a subscriber. Return an error to
// signal a retry/nack.
type Handler func(ctx context.Context, event Event) error

// Backend defines the broker-agnostic operations used by the publisher.
type Backend interface {
	Publish(ctx context.Context, topic string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, topic string, handler func(ctx context.Context, data []byte) error) error
	Close() error
}

// Publisher emits content events to a configured backend. A nil Publisher
// is valid and publishes nothing, so wiring stays unconditional.
type Publisher struct {
	backend Backend
	topic   string
	logger  *slog.Logger
}

// NewPublisher constructs a Publisher for the provided backend and topic.
func NewPublisher(backend Backend, topic string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		backend: backend,
		topic:   topic,
		logger:  logger,
	}
}

// Publish emits an event, logging on failure.
func (p *Publisher) Publish(ctx context.Context, event Event) {
	if p == nil || p.backend == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("marshal content event", "error", err)
		return
	}

	attrs := map[string]string{
		"resource": event.Resource,
		"action":   event.Action,
	}
	if _, err := p.backend.Publish(ctx, p.topic, data, attrs); err != nil {
		p.logger.Error("publish content event",
			"resource", event.Resource,
			"action", event.Action,
			"error", err)
	}
}

// Subscribe consumes events from the publisher's topic, decoding each
// payload before handing it to the handler.
func (p *Publisher) Subscribe(ctx context.Context, handler Handler) error {
	if p == nil || p.backend == nil {
		return nil
	}
	return p.backend.Subscribe(ctx, p.topic, func(ctx context.Context, data []byte) error {
		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			return err
		}
		return handler(ctx, event)
	})
}

// Close closes the underlying backend.
func (p *Publisher) Close() error {
	if p == nil || p.backend == nil {
		return nil
	}
	return p.backend.Close()
}

package events

import (
	"context"

	"go.uber.org/zap"
)

// Publisher defines the interface for publishing domain events
type Publisher interface {
	// Publish publishes an event to the message broker
	Publish(ctx context.Context, exchange string, event *Event, headers Headers) error

	// Close closes the publisher connection
	Close() error
}

// Emitter publishes v1 catalog events on behalf of one service. A nil Emitter
// or one without a publisher drops events.
type Emitter struct {
	publisher Publisher
	service   string
}

func NewEmitter(publisher Publisher, service string) *Emitter {
	return &Emitter{
		publisher: publisher,
		service:   service,
	}
}

// Emit never fails the caller: publish errors are logged so that a broker
// outage does not fail a request.
func (e *Emitter) Emit(ctx context.Context, eventName string, payload interface{}) {
	if e == nil || e.publisher == nil {
		return
	}

	headers := NewHeaders(ctx, e.service)
	event := NewEvent(eventName, EventVersionV1, payload, headers)

	if err := e.publisher.Publish(ctx, CatalogExchange, event, headers); err != nil {
		zap.L().Error("Failed to publish catalog event",
			zap.String("event", eventName),
			zap.String("traceId", headers.TraceID),
			zap.String("correlationId", headers.CorrelationID),
			zap.Error(err),
		)
	}
}

package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is the envelope every catalog change is published in.
type Event struct {
	ID            string      `json:"id"`
	Event         string      `json:"event"`   // e.g., "item.created"
	Version       string      `json:"version"` // e.g., "v1"
	Service       string      `json:"service"`
	Timestamp     time.Time   `json:"timestamp"`
	Payload       interface{} `json:"payload"`
	TraceID       string      `json:"traceId"`
	CorrelationID string      `json:"correlationId"` // request id of the HTTP call that caused it
}

// Headers travel as message headers next to the envelope.
type Headers struct {
	TraceID       string
	CorrelationID string
	Service       string
}

type correlationIDKey struct{}

// WithCorrelationID tags ctx with the id of the request being served.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationID returns the id set by WithCorrelationID, or a new one when
// ctx carries none.
func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

func NewHeaders(ctx context.Context, service string) Headers {
	return Headers{
		TraceID:       uuid.NewString(),
		CorrelationID: CorrelationID(ctx),
		Service:       service,
	}
}

func NewEvent(eventName, version string, payload interface{}, headers Headers) *Event {
	return &Event{
		ID:            uuid.NewString(),
		Event:         eventName,
		Version:       version,
		Service:       headers.Service,
		Timestamp:     time.Now().UTC(),
		Payload:       payload,
		TraceID:       headers.TraceID,
		CorrelationID: headers.CorrelationID,
	}
}

func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// RoutingKey is "<event>.<version>", e.g. item.created.v1.
func (e *Event) RoutingKey() string {
	return e.Event + "." + e.Version
}

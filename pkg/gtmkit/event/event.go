// Package event provides the customer-event plumbing for the gtmkit pixel.
//
// The hosting storefront runtime publishes named lifecycle events
// (page_viewed, product_viewed, checkout_completed, ...) onto a Bus; the
// pixel registers one handler per name. Delivery is synchronous and
// single-threaded, matching the web-pixel sandbox: a handler runs to
// completion before Publish returns.
package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is a single customer-event occurrence.
// Events are immutable once created.
type Event interface {
	ID() string       // Unique event identifier
	Name() string     // Lifecycle event name (e.g., "product_viewed")
	ClientID() string // Browser client identifier assigned by the storefront

	Timestamp() time.Time // When the event occurred
	Version() int         // Payload schema version

	Data() any         // Payload as delivered by the storefront
	DataBytes() []byte // Serialized payload
}

// Metadata contains the envelope fields shared by all events.
type Metadata struct {
	EventID       string    `json:"id"`
	EventName     string    `json:"name"`
	ClientID      string    `json:"clientId"`
	Timestamp     time.Time `json:"timestamp"`
	SchemaVersion int       `json:"schema_version"`
}

// BaseEvent is a generic event envelope.
// T is the payload type for type-safe access.
type BaseEvent[T any] struct {
	Meta    Metadata `json:"metadata"`
	Payload T        `json:"payload"`

	// Cached serialization (computed lazily)
	cachedBytes []byte
}

// ID returns the unique event identifier.
func (e *BaseEvent[T]) ID() string {
	return e.Meta.EventID
}

// Name returns the lifecycle event name.
func (e *BaseEvent[T]) Name() string {
	return e.Meta.EventName
}

// ClientID returns the storefront-assigned browser client identifier.
func (e *BaseEvent[T]) ClientID() string {
	return e.Meta.ClientID
}

// Timestamp returns when the event occurred.
func (e *BaseEvent[T]) Timestamp() time.Time {
	return e.Meta.Timestamp
}

// Version returns the payload schema version.
func (e *BaseEvent[T]) Version() int {
	return e.Meta.SchemaVersion
}

// Data returns the event payload.
func (e *BaseEvent[T]) Data() any {
	return e.Payload
}

// TypedData returns the strongly-typed payload.
func (e *BaseEvent[T]) TypedData() T {
	return e.Payload
}

// DataBytes returns the serialized payload.
// The result is cached for efficiency.
func (e *BaseEvent[T]) DataBytes() []byte {
	if e.cachedBytes == nil {
		// Best effort - errors are ignored for interface compliance
		e.cachedBytes, _ = json.Marshal(e.Payload)
	}
	return e.cachedBytes
}

// MarshalJSON implements json.Marshaler.
func (e *BaseEvent[T]) MarshalJSON() ([]byte, error) {
	type alias BaseEvent[T]
	return json.Marshal((*alias)(e))
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *BaseEvent[T]) UnmarshalJSON(data []byte) error {
	type alias BaseEvent[T]
	if err := json.Unmarshal(data, (*alias)(e)); err != nil {
		return err
	}
	e.cachedBytes = nil // Clear cache on unmarshal
	return nil
}

// Option configures event creation.
type Option func(*eventConfig)

type eventConfig struct {
	id        string
	clientID  string
	timestamp time.Time
	version   int
}

// WithEventID sets a specific event ID (default: auto-generated UUID).
func WithEventID(id string) Option {
	return func(cfg *eventConfig) {
		cfg.id = id
	}
}

// WithClientID sets the browser client identifier.
func WithClientID(id string) Option {
	return func(cfg *eventConfig) {
		cfg.clientID = id
	}
}

// WithTimestamp sets a specific timestamp (default: time.Now()).
func WithTimestamp(t time.Time) Option {
	return func(cfg *eventConfig) {
		cfg.timestamp = t
	}
}

// WithSchemaVersion sets the payload schema version.
func WithSchemaVersion(v int) Option {
	return func(cfg *eventConfig) {
		cfg.version = v
	}
}

// New creates a new event with the given name and payload.
func New[T any](name string, payload T, opts ...Option) *BaseEvent[T] {
	cfg := &eventConfig{
		id:        uuid.New().String(),
		timestamp: time.Now(),
		version:   1,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &BaseEvent[T]{
		Meta: Metadata{
			EventID:       cfg.id,
			EventName:     name,
			ClientID:      cfg.clientID,
			Timestamp:     cfg.timestamp,
			SchemaVersion: cfg.version,
		},
		Payload: payload,
	}
}

// NewAny creates a new event with an untyped (any) payload.
// This is the usual path for payloads decoded from JSON.
func NewAny(name string, payload any, opts ...Option) *BaseEvent[any] {
	return New(name, payload, opts...)
}

// FromJSON creates an event whose payload is the decoded JSON object.
func FromJSON(name string, raw []byte, opts ...Option) (*BaseEvent[any], error) {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return NewAny(name, payload, opts...), nil
}

// Handler processes events.
type Handler interface {
	// Handle processes an event. The adapter is terminal: handlers
	// transform and push downstream, they never produce derived events.
	Handle(ctx context.Context, evt Event) error

	// Handles returns the event names this handler processes.
	// An empty slice means the handler accepts all events.
	Handles() []string
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, evt Event) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, evt Event) error {
	return f(ctx, evt)
}

// Handles returns nil (accepts all events).
func (f HandlerFunc) Handles() []string {
	return nil
}

// TypedHandler wraps a function handling a specific payload type.
// Payloads arriving as decoded JSON (map[string]any) are re-marshaled
// into T; payloads already of type T are passed through.
func TypedHandler[T any](
	names []string,
	fn func(ctx context.Context, payload T, meta Metadata) error,
) Handler {
	return &typedHandler[T]{
		names: names,
		fn:    fn,
	}
}

type typedHandler[T any] struct {
	names []string
	fn    func(ctx context.Context, payload T, meta Metadata) error
}

func (h *typedHandler[T]) Handle(ctx context.Context, evt Event) error {
	var payload T

	switch d := evt.Data().(type) {
	case T:
		payload = d
	case map[string]any:
		// JSON unmarshal path
		bytes, err := json.Marshal(d)
		if err != nil {
			return &EventError{
				Event:   evt,
				Message: "failed to marshal event data",
				Err:     err,
			}
		}
		if err := json.Unmarshal(bytes, &payload); err != nil {
			return &EventError{
				Event:   evt,
				Message: "failed to unmarshal event data to expected type",
				Err:     err,
			}
		}
	default:
		return &EventError{
			Event:   evt,
			Message: "unexpected payload type",
		}
	}

	meta := Metadata{
		EventID:       evt.ID(),
		EventName:     evt.Name(),
		ClientID:      evt.ClientID(),
		Timestamp:     evt.Timestamp(),
		SchemaVersion: evt.Version(),
	}

	return h.fn(ctx, payload, meta)
}

func (h *typedHandler[T]) Handles() []string {
	return h.names
}

// MiddlewareFunc wraps handlers to add cross-cutting concerns.
type MiddlewareFunc func(next Handler) Handler

// ChainMiddleware applies middleware in order, with first middleware outermost.
func ChainMiddleware(handler Handler, middleware ...MiddlewareFunc) Handler {
	// Apply in reverse order so first middleware is outermost
	for i := len(middleware) - 1; i >= 0; i-- {
		handler = middleware[i](handler)
	}
	return handler
}

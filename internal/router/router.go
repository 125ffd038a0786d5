// Package router delivers typed messages between the observer, coordinator
// and panel contexts and dispatches each message to exactly one handler.
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"toxshield/internal/models"
)

// Origin identifies the context a message was sent from. Messages sent from
// a page carry the page's tab; messages from the panel carry none.
type Origin struct {
	Tab    models.TabID
	HasTab bool
}

// FromTab returns the origin of a message sent by the observer in tab.
func FromTab(tab models.TabID) Origin {
	return Origin{Tab: tab, HasTab: true}
}

// Envelope is one message in flight.
type Envelope struct {
	ID      uuid.UUID
	Type    models.MessageType
	Origin  Origin
	Payload json.RawMessage
}

// Decode unmarshals the payload into v.
func (e Envelope) Decode(v any) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("%w: %s has no payload", ErrBadPayload, e.Type)
	}
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBadPayload, e.Type, err)
	}
	return nil
}

// HandlerFunc answers one message. The returned value must be JSON-encodable.
type HandlerFunc func(ctx context.Context, env Envelope) (any, error)

// Dispatcher is anything that can answer an envelope.
type Dispatcher interface {
	Dispatch(ctx context.Context, env Envelope) (any, error)
}

// Router maps each message type to its handler.
type Router struct {
	name     string
	mu       sync.RWMutex
	handlers map[models.MessageType]HandlerFunc
}

// New creates an empty router. name shows up in logs.
func New(name string) *Router {
	return &Router{
		name:     name,
		handlers: make(map[models.MessageType]HandlerFunc),
	}
}

// Handle registers fn for t. Registering an invalid type or the same type
// twice panics.
func (r *Router) Handle(t models.MessageType, fn HandlerFunc) {
	if !t.Valid() {
		panic(fmt.Sprintf("router %s: cannot register %q: %v", r.name, t, ErrUnknownType))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[t]; exists {
		panic(fmt.Sprintf("router %s: handler for %s already registered", r.name, t))
	}
	r.handlers[t] = fn
}

// Handles reports whether a handler is registered for t.
func (r *Router) Handles(t models.MessageType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[t]
	return ok
}

// Dispatch runs the handler registered for env.Type. Handlers run on the
// caller's goroutine, so messages from different tabs proceed concurrently.
func (r *Router) Dispatch(ctx context.Context, env Envelope) (any, error) {
	if !env.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}

	r.mu.RLock()
	fn, ok := r.handlers[env.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrUnhandled, env.Type, r.name)
	}

	if env.ID == uuid.Nil {
		env.ID = uuid.New()
	}
	slog.Debug("dispatch", "router", r.name, "id", env.ID, "type", env.Type, "tab", env.Origin.Tab, "has_tab", env.Origin.HasTab)

	return fn(ctx, env)
}

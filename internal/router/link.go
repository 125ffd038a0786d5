package router

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"toxshield/internal/models"
)

// Caller sends a typed request and decodes the typed response into out.
// out may be nil when the response is ignored.
type Caller interface {
	Call(ctx context.Context, t models.MessageType, payload any, out any) error
}

// Link connects one sending context to a receiving dispatcher. Payloads and
// responses are JSON-encoded on the way through, so both sides only ever see
// their own copies of a record.
type Link struct {
	dst    Dispatcher
	origin Origin
}

// NewLink returns a link that delivers to dst on behalf of origin.
func NewLink(dst Dispatcher, origin Origin) *Link {
	return &Link{dst: dst, origin: origin}
}

// Call implements Caller.
func (l *Link) Call(ctx context.Context, t models.MessageType, payload any, out any) error {
	env := Envelope{
		ID:     uuid.New(),
		Type:   t,
		Origin: l.origin,
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%w: encode %s: %v", ErrBadPayload, t, err)
		}
		env.Payload = raw
	}

	resp, err := l.dst.Dispatch(ctx, env)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode %s response: %w", t, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", t, err)
	}
	return nil
}

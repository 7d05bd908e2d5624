package sink

import (
	"context"

	"github.com/hazyhaar/lapse/picturemaker/shot"
)

// EventFunc is called for each event.
type EventFunc func(ctx context.Context, ev shot.Event) error

// Callback delivers events via a Go function call, for embedding
// picturemaker in a larger process.
type Callback struct {
	fn EventFunc
}

// NewCallback creates a Callback sink. fn may be nil.
func NewCallback(fn EventFunc) *Callback {
	return &Callback{fn: fn}
}

func (c *Callback) Send(ctx context.Context, ev shot.Event) error {
	if c.fn != nil {
		return c.fn(ctx, ev)
	}
	return nil
}

func (c *Callback) Close() error { return nil }

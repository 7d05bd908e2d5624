// Package sink delivers session log events to output backends.
package sink

import (
	"context"

	"github.com/hazyhaar/lapse/picturemaker/shot"
)

// Sink is the output interface for session events.
type Sink interface {
	Send(ctx context.Context, ev shot.Event) error
	Close() error
}

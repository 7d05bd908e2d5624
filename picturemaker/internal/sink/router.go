package sink

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/hazyhaar/lapse/picturemaker/shot"
)

// Router fans events out to every sink. A failing sink does not block the
// others: errors are logged and the first one is returned.
type Router struct {
	sinks  []Sink
	logger *slog.Logger
	now    func() time.Time
}

// NewRouter creates a fan-out router.
func NewRouter(logger *slog.Logger, sinks ...Sink) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{sinks: sinks, logger: logger, now: time.Now}
}

// Len reports how many sinks the router delivers to.
func (r *Router) Len() int { return len(r.sinks) }

func (r *Router) Send(ctx context.Context, ev shot.Event) error {
	var firstErr error
	for _, s := range r.sinks {
		if err := s.Send(ctx, ev); err != nil {
			r.logger.Warn("sink: send event failed", "session", ev.SessionID, "seq", ev.Seq, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (r *Router) Close() error {
	var firstErr error
	for _, s := range r.sinks {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// LogFunc adapts the router to a session log callback. Each message is
// stamped with sessionID, a per-call sequence number and the current time.
// Delivery errors are logged, never returned to the session.
func (r *Router) LogFunc(ctx context.Context, sessionID string) func(string) {
	var seq atomic.Uint64
	return func(msg string) {
		ev := shot.Event{
			SessionID: sessionID,
			Seq:       seq.Add(1),
			Message:   msg,
			Timestamp: shot.Millis(r.now()),
		}
		_ = r.Send(ctx, ev)
	}
}

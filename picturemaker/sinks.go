package picturemaker

import (
	"context"
	"io"
	"log/slog"

	"github.com/hazyhaar/lapse/picturemaker/internal/sink"
	"github.com/hazyhaar/lapse/picturemaker/shot"
)

// Sink is the output interface for session log events.
type Sink = sink.Sink

// Router fans events out to several sinks.
type Router = sink.Router

// NewRouter creates a fan-out router. Use Router.LogFunc as Config.Log.
func NewRouter(logger *slog.Logger, sinks ...Sink) *Router {
	return sink.NewRouter(logger, sinks...)
}

// NewStdoutSink creates a JSON-lines sink on w (os.Stdout when nil).
func NewStdoutSink(w io.Writer) Sink {
	return sink.NewStdout(w)
}

// NewWebhookSink creates a webhook POST sink with retry.
func NewWebhookSink(url string, logger *slog.Logger) Sink {
	return sink.NewWebhook(url, sink.WithWebhookLogger(logger))
}

// NewCallbackSink delivers events in-process.
func NewCallbackSink(fn func(ctx context.Context, ev shot.Event) error) Sink {
	return sink.NewCallback(fn)
}

package picturemaker

import (
	"context"
	"log/slog"
	"time"

	"github.com/hazyhaar/lapse/idgen"
	"github.com/hazyhaar/lapse/picturemaker/shot"
)

// Target is what a Launcher opens a page on.
type Target struct {
	Address  string
	Viewport Viewport
	FullPage bool
}

// Handle is an acquired browser and its page. Close must be safe to call
// more than once.
type Handle interface {
	Screenshot(ctx context.Context) ([]byte, error)
	Close() error
}

// Launcher starts a browser, opens a page at the target viewport and
// requests navigation without waiting for it to finish.
type Launcher interface {
	Launch(ctx context.Context, target Target) (Handle, error)
}

// Storage persists shots.
type Storage interface {
	// EnsureDir creates folder and missing parents; existing is fine.
	EnsureDir(folder string) error
	// Write stores data under a name derived from t and returns its path.
	Write(folder string, t time.Time, data []byte) (string, error)
}

// Recorder journals session progress. Its errors are logged, not reported.
type Recorder interface {
	Begin(ctx context.Context, run shot.Run) error
	Shot(ctx context.Context, s shot.Shot) error
	Finish(ctx context.Context, run shot.Run) error
}

// Option configures a Session.
type Option func(*Session)

// WithLauncher sets the browser launcher.
func WithLauncher(l Launcher) Option {
	return func(s *Session) { s.launcher = l }
}

// WithBrowser drives Chrome through Rod with the given configuration.
func WithBrowser(cfg BrowserConfig) Option {
	return func(s *Session) {
		s.launcher = nil
		s.browserCfg = &cfg
	}
}

// WithStorage sets where shots are written.
func WithStorage(st Storage) Option {
	return func(s *Session) { s.storage = st }
}

// WithRecorder journals every session.
func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithClock sets the time source used for file names and journal stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithSleep replaces the context-aware wait used for the settle delay and
// the interval between shots.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Session) { s.sleep = fn }
}

// WithSettleDelay overrides DefaultSettleDelay.
func WithSettleDelay(d time.Duration) Option {
	return func(s *Session) { s.settle = d }
}

// WithIDGenerator sets how session IDs are produced.
func WithIDGenerator(gen idgen.Generator) Option {
	return func(s *Session) { s.newID = gen }
}

// WithSessionID pins the ID of every run, so callers can correlate sinks
// set up before Start.
func WithSessionID(id string) Option {
	return func(s *Session) { s.newID = func() string { return id } }
}

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// Package picturemaker captures periodic screenshots of a web page into a
// folder of timestamped PNG files, producing a time-lapse sequence.
//
// A Session opens one browser page on the target address, waits a fixed
// settle delay, then captures, writes and logs ShotCount shots separated
// by the configured interval. Every step runs on the caller's goroutine.
//
// The log stream of a session is always:
//
//	Starting
//	1 screenshot of N
//	...
//	ERROR:\n<message>   (only on failure)
//	End
package picturemaker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hazyhaar/lapse/idgen"
	"github.com/hazyhaar/lapse/picturemaker/shot"
)

const (
	DefaultWidth  = 1450
	DefaultHeight = 720

	// DefaultSettleDelay is the fixed wait between requesting navigation and
	// the first capture. Navigation completion is not awaited.
	DefaultSettleDelay = 5 * time.Second
)

// Log events emitted by Start.
const (
	EventStarting = "Starting"
	EventEnd      = "End"
	errorPrefix   = "ERROR:\n"
)

// Viewport is the browser viewport size in CSS pixels.
type Viewport struct {
	Width  int
	Height int
}

// Config is the immutable description of one capture session.
type Config struct {
	// ShootingMinutes is the total session duration in minutes.
	ShootingMinutes float64
	// Interval separates two consecutive shots.
	Interval time.Duration
	// Address is the page to capture.
	Address string
	// OutputFolder receives the PNG files. Created with parents if absent.
	OutputFolder string
	// Viewport defaults to 1450x720 for zero fields.
	Viewport Viewport
	// ViewportOnly captures the visible viewport instead of the full page.
	ViewportOnly bool
	// Log receives every progress and diagnostic event. Nil = no-op.
	Log func(string)
}

func (c Config) viewport() Viewport {
	v := c.Viewport
	if v.Width <= 0 {
		v.Width = DefaultWidth
	}
	if v.Height <= 0 {
		v.Height = DefaultHeight
	}
	return v
}

// Session runs capture sessions for one Config. It keeps no per-run state,
// so Start may be called repeatedly or from several goroutines.
type Session struct {
	cfg      Config
	launcher Launcher
	storage  Storage
	recorder Recorder
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
	settle   time.Duration
	newID    idgen.Generator
	logger   *slog.Logger

	browserCfg *BrowserConfig
}

// New creates a Session. Without WithLauncher it drives a local headless
// Chrome through Rod.
func New(cfg Config, opts ...Option) *Session {
	s := &Session{
		cfg:    cfg,
		now:    time.Now,
		sleep:  sleepCtx,
		settle: DefaultSettleDelay,
		newID:  idgen.Default,
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.launcher == nil {
		var bc BrowserConfig
		if s.browserCfg != nil {
			bc = *s.browserCfg
		}
		if bc.Logger == nil {
			bc.Logger = s.logger
		}
		s.launcher = NewBrowserLauncher(bc)
	}
	if s.storage == nil {
		s.storage = NewDirStorage("")
	}
	if s.cfg.Log == nil {
		s.cfg.Log = func(string) {}
	}
	return s
}

// Start runs one capture session to completion. It never returns an error
// and never panics: any failure is reported once through the log callback
// as "ERROR:\n<message>", and "End" is always the last event.
func (s *Session) Start(ctx context.Context) {
	s.cfg.Log(EventStarting)

	run := shot.Run{
		ID:           s.newID(),
		Address:      s.cfg.Address,
		OutputFolder: s.cfg.OutputFolder,
		Total:        ShotCount(s.cfg.ShootingMinutes, s.cfg.Interval),
		Status:       shot.StatusRunning,
		StartedAt:    shot.Millis(s.now()),
	}
	log := s.logger.With("session", run.ID)
	log.Info("picturemaker: session starting",
		"url", run.Address, "folder", run.OutputFolder, "shots", run.Total, "interval", s.cfg.Interval)
	s.record(log, "begin", func(r Recorder) error { return r.Begin(ctx, run) })

	taken, err := s.run(ctx, log, run)

	run.Taken = taken
	run.Status = shot.StatusDone
	run.EndedAt = shot.Millis(s.now())
	if err != nil {
		run.Status = shot.StatusFailed
		run.Error = err.Error()
		log.Error("picturemaker: session failed", "taken", taken, "error", err)
		s.cfg.Log(errorPrefix + run.Error)
	} else {
		log.Info("picturemaker: session complete", "taken", taken)
	}
	fctx := context.WithoutCancel(ctx)
	s.record(log, "finish", func(r Recorder) error { return r.Finish(fctx, run) })

	s.cfg.Log(EventEnd)
}

// run is the single recovery boundary: collaborator errors and panics both
// come back as err. The browser, once acquired, is released on every path.
func (s *Session) run(ctx context.Context, log *slog.Logger, run shot.Run) (taken int, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Debug("picturemaker: recovered panic", "value", r)
			err = &panicError{value: r}
		}
	}()

	h, err := s.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer s.release(log, h)

	if err := s.storage.EnsureDir(s.cfg.OutputFolder); err != nil {
		return 0, err
	}

	return s.shoot(ctx, log, h, run)
}

// acquire launches the browser on the target, then waits the settle delay
// regardless of how far navigation got.
func (s *Session) acquire(ctx context.Context) (Handle, error) {
	v := s.cfg.viewport()
	h, err := s.launcher.Launch(ctx, Target{
		Address:  s.cfg.Address,
		Viewport: v,
		FullPage: !s.cfg.ViewportOnly,
	})
	if err != nil {
		return nil, err
	}
	if err := s.sleep(ctx, s.settle); err != nil {
		h.Close()
		return nil, err
	}
	return h, nil
}

// shoot captures run.Total shots. The first failing capture or write ends
// the loop; nothing is retried.
func (s *Session) shoot(ctx context.Context, log *slog.Logger, h Handle, run shot.Run) (int, error) {
	total := run.Total
	for i := 0; i < total; i++ {
		data, err := h.Screenshot(ctx)
		if err != nil {
			return i, err
		}

		at := s.now()
		path, err := s.storage.Write(s.cfg.OutputFolder, at, data)
		if err != nil {
			return i, err
		}

		s.cfg.Log(fmt.Sprintf("%d screenshot of %d", i+1, total))
		log.Debug("picturemaker: shot written", "seq", i+1, "path", path, "bytes", len(data))

		sh := shot.Shot{
			SessionID: run.ID,
			Seq:       i + 1,
			Total:     total,
			Path:      path,
			Bytes:     len(data),
			TakenAt:   shot.Millis(at),
		}
		s.record(log, "shot", func(r Recorder) error { return r.Shot(ctx, sh) })

		if i < total-1 {
			if err := s.sleep(ctx, s.cfg.Interval); err != nil {
				return i + 1, err
			}
		}
	}
	return total, nil
}

func (s *Session) release(log *slog.Logger, h Handle) {
	if err := h.Close(); err != nil {
		log.Warn("picturemaker: browser release failed", "error", err)
	}
}

// record forwards to the optional Recorder. Journal failures, panics
// included, are logged and never affect the session.
func (s *Session) record(log *slog.Logger, op string, fn func(Recorder) error) {
	if s.recorder == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Warn("picturemaker: journal "+op+" panicked", "error", describe(r))
		}
	}()
	if err := fn(s.recorder); err != nil {
		log.Warn("picturemaker: journal "+op+" failed", "error", err)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

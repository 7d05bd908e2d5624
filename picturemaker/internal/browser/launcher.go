// Package browser drives Chrome through Rod for screenshot capture:
// launch (or connect to a remote instance), open one page at a fixed
// viewport, start navigation without waiting for it, capture PNGs, and
// release everything exactly once.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// Config configures the launcher.
type Config struct {
	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local Chrome via launcher.
	RemoteURL string

	// Bin is the Chrome binary. Empty = let Rod find or download one.
	Bin string

	// Headful runs a visible Chrome inside an Xvfb display.
	Headful bool

	// Stealth opens pages through go-rod/stealth.
	Stealth bool

	// ResourceBlocking lists resource types to block (fonts, media, ...).
	ResourceBlocking []string

	// XvfbDisplay for headful mode. Default: ":99".
	XvfbDisplay string

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.XvfbDisplay == "" {
		c.XvfbDisplay = ":99"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Target is the page a Handle is opened on.
type Target struct {
	Address  string
	Width    int
	Height   int
	FullPage bool
}

// Launcher starts one Chrome per Launch call. It holds no browser state
// itself, so a Launcher may serve several sessions.
type Launcher struct {
	cfg Config
}

// NewLauncher creates a Launcher.
func NewLauncher(cfg Config) *Launcher {
	cfg.defaults()
	return &Launcher{cfg: cfg}
}

// Launch starts Chrome, opens a page on target and kicks off navigation.
// It returns as soon as navigation has been requested. On error every
// resource acquired so far is released.
func (l *Launcher) Launch(ctx context.Context, target Target) (h *Handle, err error) {
	log := l.cfg.Logger
	h = &Handle{logger: log, fullPage: target.FullPage}
	defer func() {
		if err != nil {
			h.Close()
			h = nil
		}
	}()

	if l.cfg.Headful && l.cfg.RemoteURL == "" {
		cmd, err := startXvfb(ctx, l.cfg.XvfbDisplay, target.Width, target.Height, log)
		if err != nil {
			return h, fmt.Errorf("browser: xvfb: %w", err)
		}
		h.xvfb = cmd
	}

	wsURL, err := l.controlURL(ctx, h)
	if err != nil {
		return h, err
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		return h, fmt.Errorf("browser: connect: %w", err)
	}
	h.browser = b

	if err := b.IgnoreCertErrors(true); err != nil {
		log.Warn("browser: ignore cert errors failed", "error", err)
	}

	page, err := openPage(b, l.cfg.Stealth)
	if err != nil {
		return h, err
	}
	h.page = page

	if len(l.cfg.ResourceBlocking) > 0 {
		h.router = applyResourceBlocking(page, l.cfg.ResourceBlocking)
	}

	if err := setViewport(page, target.Width, target.Height); err != nil {
		return h, err
	}

	h.navigate(ctx, target.Address)
	return h, nil
}

func (l *Launcher) controlURL(ctx context.Context, h *Handle) (string, error) {
	log := l.cfg.Logger

	if l.cfg.RemoteURL != "" {
		log.Info("browser: connecting to remote", "url", l.cfg.RemoteURL)
		return l.cfg.RemoteURL, nil
	}

	ln := launcher.New().
		Context(ctx).
		Headless(!l.cfg.Headful).
		// Keep cross-origin iframes in the captured page's renderer.
		Set("disable-features", "site-per-process")

	if l.cfg.Bin != "" {
		ln = ln.Bin(l.cfg.Bin)
	}
	if l.cfg.Headful {
		ln = ln.Env(append(os.Environ(), "DISPLAY="+l.cfg.XvfbDisplay)...)
	}

	u, err := ln.Launch()
	if err != nil {
		return "", fmt.Errorf("browser: launch: %w", err)
	}
	h.lnch = ln
	log.Info("browser: launched local chrome", "url", u, "headful", l.cfg.Headful)
	return u, nil
}

// LookPath reports the Chrome binary Rod would use, without downloading.
func LookPath() (string, bool) {
	return launcher.LookPath()
}

package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// networkIdle is how long the page must stay without requests before the
// background navigation reports it as settled.
const networkIdle = 500 * time.Millisecond

// ErrClosed is returned by Screenshot after Close.
var ErrClosed = errors.New("browser: handle is closed")

// Handle owns one Chrome process (or remote connection) and the single page
// opened on it.
type Handle struct {
	browser  *rod.Browser
	page     *rod.Page
	router   *rod.HijackRouter
	lnch     *launcher.Launcher
	xvfb     *exec.Cmd
	fullPage bool
	logger   *slog.Logger

	stopNav context.CancelFunc
	navDone chan struct{}

	mu       sync.Mutex
	closed   bool
	closeErr error
}

func openPage(b *rod.Browser, useStealth bool) (*rod.Page, error) {
	var page *rod.Page
	var err error
	if useStealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		return nil, fmt.Errorf("browser: create page: %w", err)
	}
	return page, nil
}

func setViewport(page *rod.Page, width, height int) error {
	err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		return fmt.Errorf("browser: set viewport %dx%d: %w", width, height, err)
	}
	return nil
}

// navigate requests navigation to address and waits for network idle in
// the background. There is no navigation timeout: the wait ends on idle,
// on a navigation error, or when the handle is closed.
func (h *Handle) navigate(ctx context.Context, address string) {
	navCtx, cancel := context.WithCancel(ctx)
	h.stopNav = cancel
	h.navDone = make(chan struct{})

	page := h.page.Context(navCtx)
	go func() {
		defer close(h.navDone)

		wait := page.WaitRequestIdle(networkIdle, nil, nil, nil)
		if err := page.Navigate(address); err != nil {
			if navCtx.Err() == nil {
				h.logger.Warn("browser: navigate failed", "url", address, "error", err)
			}
			return
		}
		wait()
		if navCtx.Err() == nil {
			h.logger.Debug("browser: network idle", "url", address)
		}
	}()
}

// Screenshot captures the page as PNG. Full-page unless the handle was
// opened with FullPage false.
func (h *Handle) Screenshot(ctx context.Context) ([]byte, error) {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	data, err := h.page.Context(ctx).Screenshot(h.fullPage, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("browser: screenshot: %w", err)
	}
	return data, nil
}

// Close releases the page, the browser, the launched process and Xvfb.
// Only the first call does any work; later calls return its result.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return h.closeErr
	}
	h.closed = true

	if h.stopNav != nil {
		h.stopNav()
		<-h.navDone
	}
	if h.router != nil {
		if err := h.router.Stop(); err != nil {
			h.logger.Debug("browser: stop hijack router", "error", err)
		}
	}
	if h.browser != nil {
		if err := h.browser.Close(); err != nil {
			h.closeErr = fmt.Errorf("browser: close: %w", err)
		}
	}
	if h.lnch != nil {
		if h.browser == nil || h.closeErr != nil {
			h.lnch.Kill()
		}
		h.lnch.Cleanup()
	}
	if h.xvfb != nil {
		stopXvfb(h.xvfb, h.logger)
	}
	return h.closeErr
}

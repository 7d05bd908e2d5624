package picturemaker

import (
	"context"

	"github.com/hazyhaar/lapse/picturemaker/internal/browser"
)

// BrowserConfig controls how Chrome is obtained. Re-exported from internal.
type BrowserConfig = browser.Config

// NewBrowserLauncher returns a Launcher backed by Rod. Each Launch starts
// its own Chrome (with site-per-process disabled so cross-origin iframes
// render in the captured page) or connects to cfg.RemoteURL.
func NewBrowserLauncher(cfg BrowserConfig) Launcher {
	return rodLauncher{l: browser.NewLauncher(cfg)}
}

type rodLauncher struct {
	l *browser.Launcher
}

func (r rodLauncher) Launch(ctx context.Context, t Target) (Handle, error) {
	h, err := r.l.Launch(ctx, browser.Target{
		Address:  t.Address,
		Width:    t.Viewport.Width,
		Height:   t.Viewport.Height,
		FullPage: t.FullPage,
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

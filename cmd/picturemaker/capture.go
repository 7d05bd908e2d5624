package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hazyhaar/lapse/idgen"
	"github.com/hazyhaar/lapse/picturemaker"
)

var errCaptureFailed = errors.New("capture session failed")

type captureOptions struct {
	configPath   string
	url          string
	minutes      float64
	interval     time.Duration
	out          string
	width        int
	height       int
	fileLayout   string
	viewportOnly bool
	remote       string
	bin          string
	headful      bool
	stealth      bool
	block        []string
	journal      string
	webhook      string
	allowPrivate bool
}

func newCaptureCmd(a *app) *cobra.Command {
	var o captureOptions

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Capture a page at a fixed interval for a fixed duration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd.Flags(), &o)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runCapture(ctx, a, cmd, cfg)
		},
	}

	bindCaptureFlags(cmd.Flags(), &o)
	return cmd
}

func bindCaptureFlags(f *pflag.FlagSet, o *captureOptions) {
	f.StringVar(&o.configPath, "config", "", "path to picturemaker.yaml")
	f.StringVar(&o.url, "url", "", "page to capture")
	f.Float64Var(&o.minutes, "minutes", 0, "total shooting time in minutes")
	f.DurationVar(&o.interval, "interval", 0, "time between shots (default 30s)")
	f.StringVar(&o.out, "out", "", "output folder (default ./screenshots)")
	f.IntVar(&o.width, "width", 0, "viewport width (default 1450)")
	f.IntVar(&o.height, "height", 0, "viewport height (default 720)")
	f.StringVar(&o.fileLayout, "file-layout", "", "Go time layout for shot file names (default 2006-01-02_15-04-05.000)")
	f.BoolVar(&o.viewportOnly, "viewport-only", false, "capture the viewport instead of the full page")
	f.StringVar(&o.remote, "remote", "", "WebSocket URL of a running Chrome")
	f.StringVar(&o.bin, "chrome", "", "Chrome binary to launch")
	f.BoolVar(&o.headful, "headful", false, "run a visible Chrome inside Xvfb")
	f.BoolVar(&o.stealth, "stealth", false, "open the page with anti-detection patches")
	f.StringSliceVar(&o.block, "block", nil, "resource types to block (fonts, media, images, stylesheets)")
	f.StringVar(&o.journal, "journal", "", "SQLite journal path")
	f.StringVar(&o.webhook, "webhook", "", "POST every log event to this URL")
	f.BoolVar(&o.allowPrivate, "webhook-allow-private", false, "allow --webhook to target loopback or private hosts")
}

// resolveConfig loads --config when given, lets explicitly set flags
// override it, then applies defaults.
func resolveConfig(f *pflag.FlagSet, o *captureOptions) (*picturemaker.FileConfig, error) {
	cfg := &picturemaker.FileConfig{}
	if o.configPath != "" {
		loaded, err := picturemaker.LoadConfigFile(o.configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if f.Changed("url") {
		cfg.Capture.URL = o.url
	}
	if f.Changed("minutes") {
		cfg.Capture.ShootingTime = o.minutes
	}
	if f.Changed("interval") {
		cfg.Capture.Interval = o.interval
	}
	if f.Changed("out") {
		cfg.Capture.Output = o.out
	}
	if f.Changed("width") {
		cfg.Capture.Width = o.width
	}
	if f.Changed("height") {
		cfg.Capture.Height = o.height
	}
	if f.Changed("file-layout") {
		cfg.Capture.FileLayout = o.fileLayout
	}
	if f.Changed("viewport-only") {
		cfg.Capture.ViewportOnly = o.viewportOnly
	}
	if f.Changed("remote") {
		cfg.Browser.Remote = o.remote
	}
	if f.Changed("chrome") {
		cfg.Browser.Bin = o.bin
	}
	if f.Changed("headful") {
		cfg.Browser.Headful = o.headful
	}
	if f.Changed("stealth") {
		cfg.Browser.Stealth = o.stealth
	}
	if f.Changed("block") {
		cfg.Browser.ResourceBlocking = o.block
	}
	if f.Changed("journal") {
		cfg.Journal = o.journal
	}
	if f.Changed("webhook") {
		cfg.Sinks = append(cfg.Sinks, picturemaker.SinkConfig{
			Type:         "webhook",
			URL:          o.webhook,
			AllowPrivate: o.allowPrivate,
		})
	}

	cfg.ApplyDefaults()

	if cfg.Capture.URL == "" {
		return nil, errors.New("capture: a url is required (--url or capture.url)")
	}
	if err := picturemaker.CheckAddress(cfg.Capture.URL); err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	if !(cfg.Capture.ShootingTime > 0) {
		return nil, errors.New("capture: shooting time must be positive (--minutes or capture.shooting_time)")
	}
	for _, sc := range cfg.Sinks {
		if sc.Type != "webhook" {
			continue
		}
		if err := picturemaker.CheckWebhookURL(sc.URL, sc.AllowPrivate); err != nil {
			return nil, fmt.Errorf("capture: webhook: %w", err)
		}
	}
	return cfg, nil
}

func runCapture(ctx context.Context, a *app, cmd *cobra.Command, cfg *picturemaker.FileConfig) error {
	logger := a.logger
	id := idgen.New()

	var sinks []picturemaker.Sink
	for _, sc := range cfg.Sinks {
		switch sc.Type {
		case "stdout":
			sinks = append(sinks, picturemaker.NewStdoutSink(cmd.OutOrStdout()))
		case "webhook":
			sinks = append(sinks, picturemaker.NewWebhookSink(sc.URL, logger))
		default:
			logger.Warn("picturemaker: unknown sink type", "type", sc.Type)
		}
	}
	if !hasStdout(cfg.Sinks) {
		sinks = append(sinks, picturemaker.NewStdoutSink(cmd.OutOrStdout()))
	}
	router := picturemaker.NewRouter(logger, sinks...)
	defer router.Close()
	logger.Debug("picturemaker: sinks ready", "session", id, "count", router.Len())

	// "End" must still reach the sinks after Ctrl-C.
	emit := router.LogFunc(context.WithoutCancel(ctx), id)
	failed := false
	logFn := func(msg string) {
		if strings.HasPrefix(msg, "ERROR:") {
			failed = true
		}
		emit(msg)
	}

	opts := []picturemaker.Option{
		picturemaker.WithSessionID(id),
		picturemaker.WithLogger(logger),
		picturemaker.WithBrowser(picturemaker.BrowserSettings(cfg.Browser)),
		picturemaker.WithStorage(picturemaker.NewDirStorage(cfg.Capture.FileLayout)),
	}
	if cfg.Journal != "" {
		j, err := picturemaker.OpenJournal(cfg.Journal)
		if err != nil {
			return err
		}
		defer j.Close()
		opts = append(opts, picturemaker.WithRecorder(j))
	}

	picturemaker.New(picturemaker.SessionConfig(cfg.Capture, logFn), opts...).Start(ctx)

	if failed {
		return errCaptureFailed
	}
	return nil
}

func hasStdout(sinks []picturemaker.SinkConfig) bool {
	for _, sc := range sinks {
		if sc.Type == "stdout" {
			return true
		}
	}
	return false
}

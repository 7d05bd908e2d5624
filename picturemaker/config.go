package picturemaker

import (
	"github.com/hazyhaar/lapse/picturemaker/internal/config"
	"github.com/hazyhaar/lapse/picturemaker/internal/safeurl"
)

// FileConfig is the YAML configuration file. Re-exported from internal.
type FileConfig = config.Config

// CaptureConfig is the capture section of FileConfig.
type CaptureConfig = config.CaptureConfig

// FileBrowserConfig is the browser section of FileConfig.
type FileBrowserConfig = config.BrowserConfig

// SinkConfig defines a log event output.
type SinkConfig = config.SinkConfig

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (*FileConfig, error) {
	return config.LoadFile(path)
}

// SessionConfig converts the capture section into a session Config.
func SessionConfig(c CaptureConfig, log func(string)) Config {
	return Config{
		ShootingMinutes: c.ShootingTime,
		Interval:        c.Interval,
		Address:         c.URL,
		OutputFolder:    c.Output,
		Viewport:        Viewport{Width: c.Width, Height: c.Height},
		ViewportOnly:    c.ViewportOnly,
		Log:             log,
	}
}

// BrowserSettings converts the browser section into a BrowserConfig.
func BrowserSettings(b FileBrowserConfig) BrowserConfig {
	return BrowserConfig{
		RemoteURL:        b.Remote,
		Bin:              b.Bin,
		Headful:          b.Headful,
		Stealth:          b.Stealth,
		ResourceBlocking: b.ResourceBlocking,
		XvfbDisplay:      b.XvfbDisplay,
	}
}

// CheckAddress reports whether raw is a page Chrome can be pointed at:
// http(s) with a host, or a file URL.
func CheckAddress(raw string) error {
	return safeurl.Target(raw)
}

// CheckWebhookURL reports whether raw is a usable webhook endpoint. Private
// and loopback hosts are rejected unless allowPrivate is set.
func CheckWebhookURL(raw string, allowPrivate bool) error {
	return safeurl.Webhook(raw, allowPrivate)
}

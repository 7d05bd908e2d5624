// Package config loads picturemaker configuration from YAML files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/lapse/picturemaker/internal/storage"
)

const (
	DefaultWidth    = 1450
	DefaultHeight   = 720
	DefaultInterval = 30 * time.Second
)

// Config is the top-level picturemaker configuration.
type Config struct {
	Browser BrowserConfig `yaml:"browser"`
	Capture CaptureConfig `yaml:"capture"`
	Sinks   []SinkConfig  `yaml:"sinks"`
	Journal string        `yaml:"journal"` // SQLite path; empty disables the journal
}

// BrowserConfig controls how Chrome is obtained.
type BrowserConfig struct {
	Remote           string   `yaml:"remote"`
	Bin              string   `yaml:"bin"`
	Headful          bool     `yaml:"headful"`
	Stealth          bool     `yaml:"stealth"`
	ResourceBlocking []string `yaml:"resource_blocking"`
	XvfbDisplay      string   `yaml:"xvfb_display"`
}

// CaptureConfig describes one capture session.
type CaptureConfig struct {
	URL          string        `yaml:"url"`
	ShootingTime float64       `yaml:"shooting_time"` // minutes
	Interval     time.Duration `yaml:"interval"`
	Output       string        `yaml:"output"`
	FileLayout   string        `yaml:"file_layout"` // time layout of shot file names
	Width        int           `yaml:"width"`
	Height       int           `yaml:"height"`
	ViewportOnly bool          `yaml:"viewport_only"`
}

// SinkConfig defines a log event output.
type SinkConfig struct {
	Type         string `yaml:"type"`          // stdout | webhook
	URL          string `yaml:"url"`           // for webhook
	AllowPrivate bool   `yaml:"allow_private"` // webhook may target loopback or RFC 1918 hosts
}

// LoadFile reads a YAML configuration file and applies defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Browser.XvfbDisplay == "" {
		c.Browser.XvfbDisplay = ":99"
	}
	if c.Capture.Interval <= 0 {
		c.Capture.Interval = DefaultInterval
	}
	if c.Capture.Width <= 0 {
		c.Capture.Width = DefaultWidth
	}
	if c.Capture.Height <= 0 {
		c.Capture.Height = DefaultHeight
	}
	if c.Capture.Output == "" {
		c.Capture.Output = "screenshots"
	}
	if c.Capture.FileLayout == "" {
		c.Capture.FileLayout = storage.DefaultLayout
	}
}

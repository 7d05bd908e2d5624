// Package storage persists screenshots as timestamped PNG files.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultLayout names files by local wall-clock time with millisecond
// resolution. Two shots inside the same millisecond share a name and the
// later one overwrites the earlier.
const DefaultLayout = "2006-01-02_15-04-05.000"

// Ext is appended to every file name.
const Ext = ".png"

// Dir writes shots into folders on the local filesystem.
type Dir struct {
	layout string
}

// Option configures a Dir.
type Option func(*Dir)

// WithLayout sets the time layout used for file names.
func WithLayout(layout string) Option {
	return func(d *Dir) { d.layout = layout }
}

// New creates a Dir.
func New(opts ...Option) *Dir {
	d := &Dir{layout: DefaultLayout}
	for _, o := range opts {
		o(d)
	}
	return d
}

// EnsureDir creates folder and any missing parents. An existing folder is
// not an error.
func (d *Dir) EnsureDir(folder string) error {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir %s: %w", folder, err)
	}
	return nil
}

// FileName returns the file name for a shot taken at t.
func (d *Dir) FileName(t time.Time) string {
	return t.Format(d.layout) + Ext
}

// Write stores data in folder under the name for t, replacing any file
// already there, and returns the full path.
func (d *Dir) Write(folder string, t time.Time, data []byte) (string, error) {
	path := filepath.Join(folder, d.FileName(t))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write %s: %w", path, err)
	}
	return path, nil
}

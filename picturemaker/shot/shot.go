// Package shot defines the records a capture session emits: persisted
// shots, session runs and log events. Sinks and the journal consume these
// types; any external consumer imports this package to read them.
package shot

import "time"

// Status is the lifecycle state of a Run.
type Status string

const (
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Run describes one capture session from "Starting" to "End".
type Run struct {
	ID           string `json:"id"`
	Address      string `json:"address"`
	OutputFolder string `json:"output_folder"`
	Total        int    `json:"total"` // computed shot count
	Taken        int    `json:"taken"`
	Status       Status `json:"status"`
	Error        string `json:"error,omitempty"`
	StartedAt    int64  `json:"started_at"`         // epoch milliseconds
	EndedAt      int64  `json:"ended_at,omitempty"` // epoch milliseconds
}

// Shot is one screenshot written to disk.
type Shot struct {
	SessionID string `json:"session_id"`
	Seq       int    `json:"seq"` // 1-based
	Total     int    `json:"total"`
	Path      string `json:"path"`
	Bytes     int    `json:"bytes"`
	TakenAt   int64  `json:"taken_at"` // epoch milliseconds
}

// Event is a session log message wrapped for delivery to sinks.
type Event struct {
	SessionID string `json:"session_id"`
	Seq       uint64 `json:"seq"` // monotonically increasing per session
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
}

// Millis converts t to epoch milliseconds.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

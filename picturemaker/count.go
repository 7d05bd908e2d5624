package picturemaker

import (
	"math"
	"time"
)

// ShotCount is the number of captures in a session:
// floor(minutes*60 / interval-in-seconds).
//
// The division is done on whole milliseconds so a duration such as 0.7
// minutes (42000 ms) is not shortened by float rounding. A non-positive
// duration or interval yields 0; a count past the int range is clamped.
func ShotCount(minutes float64, interval time.Duration) int {
	ms := interval.Milliseconds()
	if minutes <= 0 || ms <= 0 || math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return 0
	}
	total := math.Round(minutes * 60_000)
	if total >= math.MaxInt64 {
		return math.MaxInt
	}
	n := int64(total) / ms
	if n > math.MaxInt {
		return math.MaxInt
	}
	return int(n)
}

package picturemaker

import (
	"math"
	"testing"
	"time"
)

func TestShotCount(t *testing.T) {
	cases := []struct {
		minutes  float64
		interval time.Duration
		want     int
	}{
		{1, 30 * time.Second, 2},
		{0.5, 60 * time.Second, 0},
		{0.5, 30 * time.Second, 1},
		{10, time.Minute, 10},
		{1, 7 * time.Second, 8},   // 60/7 = 8.57
		{0.7, 6 * time.Second, 7}, // 42000 ms / 6000 ms exactly
		{0.1, 100 * time.Millisecond, 60},
		{2, 1500 * time.Millisecond, 80},
		{1, 0, 0},
		{1, -time.Second, 0},
		{0, time.Second, 0},
		{-1, time.Second, 0},
		{math.NaN(), time.Second, 0},
		{math.Inf(1), time.Second, 0},
		{1e15, time.Millisecond, math.MaxInt},
		{math.MaxFloat64, time.Hour, math.MaxInt},
	}
	for _, c := range cases {
		if got := ShotCount(c.minutes, c.interval); got != c.want {
			t.Errorf("ShotCount(%v, %v) = %d, want %d", c.minutes, c.interval, got, c.want)
		}
	}
}

func TestShotCount_MatchesFloorFormula(t *testing.T) {
	for minutes := 1; minutes <= 30; minutes++ {
		for _, ms := range []int64{250, 1000, 3000, 7000, 45000, 60000} {
			interval := time.Duration(ms) * time.Millisecond
			want := int(math.Floor(float64(minutes) * 60 / (float64(ms) / 1000)))
			if got := ShotCount(float64(minutes), interval); got != want {
				t.Errorf("ShotCount(%d, %v) = %d, want %d", minutes, interval, got, want)
			}
		}
	}
}

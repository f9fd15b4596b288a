// Package time contains time related helpers
package time

import "time"

// Ptr returns a pointer to t or nil if t is zero
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// Millis returns d in fractional milliseconds
func Millis(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

// Remaining returns how much of a budget ending at deadline is left at now, never negative
func Remaining(deadline, now time.Time) time.Duration {
	if d := deadline.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Min returns the smaller of two durations
func Min(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

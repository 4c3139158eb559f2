// Package util provides utility functions for formatting and common operations.
package util

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// FormatDuration formats seconds as HH:MM:SS.
func FormatDuration(seconds float64) string {
	if seconds < 0 || seconds != seconds { // NaN check
		return "??:??:??"
	}

	totalSecs := int64(seconds)
	hours := totalSecs / 3600
	minutes := (totalSecs % 3600) / 60
	secs := totalSecs % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

// FormatElapsed formats a run duration. Runs shorter than a second are
// shown in milliseconds.
func FormatElapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return FormatDuration(d.Seconds())
}

// FormatThreshold formats a threshold with two decimals, or "n/a" when the
// run stopped without one.
func FormatThreshold(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatStep formats a signed step, e.g. "+2.00", "-1.41" or "0".
func FormatStep(step float64) string {
	if step == 0 {
		return "0"
	}
	return fmt.Sprintf("%+.2f", step)
}

// FormatPercent formats a probability in [0, 1] as a percentage.
func FormatPercent(p float64) string {
	if math.IsNaN(p) {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", p*100)
}

// JSONNumber returns v, or nil when v has no JSON representation.
func JSONNumber(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

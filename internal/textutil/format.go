package textutil

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Size renders a byte count using binary units (KiB, MiB, GiB).
func Size(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}

// Duration renders a duration in seconds as HH:MM:SS, truncating fractions.
// Unknown durations (negative input) render as "--:--:--".
func Duration(seconds float64) string {
	if seconds < 0 {
		return "--:--:--"
	}
	total := int64(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

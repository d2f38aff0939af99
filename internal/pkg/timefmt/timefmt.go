package timefmt

import "fmt"

// FormatSeconds renders a duration in seconds as H:MM:SS with zero-padded
// minutes and seconds. Fractional seconds are truncated, so 125.8 renders
// as "0:02:05". Negative inputs clamp to zero.
func FormatSeconds(seconds float64) string {
	total := int(seconds)
	if total < 0 {
		total = 0
	}
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
}

package lyrics

import (
	"fmt"
	"math"
)

// placeholder is rendered for every field of a time that has no value.
const placeholder = "--"

// FormatTimer renders seconds as mm:ss.mmm, or hh:mm:ss when withHours is
// set. Every field is truncated, never rounded, so 59.9996 renders as
// 00:59.999. NaN and infinite values render each field as "--".
//
// Without hours the minute field is not wrapped: 3700s renders as 61:40.000.
func FormatTimer(seconds float64, withHours bool) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		if withHours {
			return placeholder + ":" + placeholder + ":" + placeholder
		}
		return placeholder + ":" + placeholder + "." + placeholder
	}

	whole := math.Floor(seconds)
	secs := int(math.Floor(math.Mod(seconds, 60)))
	if withHours {
		hours := int(math.Floor(seconds / 3600))
		minutes := int(math.Floor(math.Mod(seconds/60, 60)))
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	minutes := int(math.Floor(seconds / 60))
	millis := int(math.Floor((seconds - whole) * 1000))
	return fmt.Sprintf("%02d:%02d.%03d", minutes, secs, millis)
}

// FormatTime is FormatTimer for an optional time; nil renders placeholders.
func FormatTime(t *float64, withHours bool) string {
	if t == nil {
		return FormatTimer(math.NaN(), withHours)
	}
	return FormatTimer(*t, withHours)
}

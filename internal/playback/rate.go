package playback

import (
	"fmt"
	"strconv"
	"strings"
)

// RateLimits bounds the playback rate.
type RateLimits struct {
	Min float64
	Max float64
}

// DefaultRateLimits allows half to four times normal speed.
var DefaultRateLimits = RateLimits{Min: 0.5, Max: 4.0}

// Clamp returns r limited to [l.Min, l.Max].
func (l RateLimits) Clamp(r float64) float64 {
	return max(l.Min, min(r, l.Max))
}

// ChangeRate applies change to current. A change with a leading sign
// ("+0.1", "-0.25") is relative, anything else is an absolute rate. The
// result is clamped to limits.
func ChangeRate(current float64, change string, limits RateLimits) (float64, error) {
	change = strings.TrimSpace(change)
	v, err := strconv.ParseFloat(change, 64)
	if err != nil {
		return current, fmt.Errorf("playback rate %q: %w", change, err)
	}
	if strings.HasPrefix(change, "+") || strings.HasPrefix(change, "-") {
		v += current
	}
	return limits.Clamp(v), nil
}

// FormatRate renders a rate the way the speed display shows it.
func FormatRate(r float64) string {
	return strconv.FormatFloat(r, 'f', 3, 64)
}

package playback

import (
	"math"

	"github.com/miracle2k/elrc-maker/internal/lyrics"
)

// PositionLabel renders "position / duration" for p. While no media is
// loaded (duration unknown) both sides show placeholders.
func PositionLabel(p Player) string {
	d, ok := p.Duration()
	if !ok {
		return lyrics.FormatTimer(math.NaN(), false) + " / " + lyrics.FormatTimer(math.NaN(), false)
	}
	return lyrics.FormatTimer(p.Position(), false) + " / " + lyrics.FormatTimer(d, false)
}

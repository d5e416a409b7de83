// Package playback connects the lyrics timing model to a media transport.
// The transport itself (decoding, output) is behind the Player interface;
// this package maps positions to words and words back to seek targets.
package playback

// EventKind identifies a player event.
type EventKind int

const (
	// EventTick reports a new playback position.
	EventTick EventKind = iota
	// EventDuration reports that the track duration became known.
	EventDuration
	EventPlay
	EventPause
)

func (k EventKind) String() string {
	switch k {
	case EventTick:
		return "tick"
	case EventDuration:
		return "duration"
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	}
	return "unknown"
}

// Event is delivered to player subscribers.
type Event struct {
	Kind     EventKind
	Position float64
	Duration float64
}

// Player is the media transport the aligner drives. Implementations clamp
// seek targets to the playable range themselves.
type Player interface {
	Position() float64
	// Duration returns the track length, and false while it is unknown.
	Duration() (float64, bool)
	Playing() bool
	Play()
	Pause()
	Seek(seconds float64)
	Rate() float64
	SetRate(rate float64)
	// Subscribe registers fn for position ticks, duration and play state
	// events and returns a function that removes it.
	Subscribe(fn func(Event)) (unsubscribe func())
}

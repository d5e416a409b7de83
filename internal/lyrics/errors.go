package lyrics

import "errors"

var (
	// ErrIndex is returned when an index does not address a word of the
	// sequence.
	ErrIndex = errors.New("word index out of range")

	// ErrNoDuration is returned by lookups that need the track duration as
	// the implicit bound for trailing untimed words.
	ErrNoDuration = errors.New("no duration set")

	// ErrFormat is returned for malformed snapshot or import payloads.
	// Callers usually fall back to treating the payload as free text.
	ErrFormat = errors.New("malformed lyrics payload")

	// ErrEmpty is returned by time lookups on a sequence without words.
	ErrEmpty = errors.New("sequence has no words")

	// ErrNoAnchor is returned when interpolation has no two distinct anchors
	// to work with (a single untimed word).
	ErrNoAnchor = errors.New("no interpolation anchors")
)

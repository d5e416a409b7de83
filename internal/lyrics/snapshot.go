package lyrics

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// snapshotWord mirrors Word with an optional text so missing fields can be
// told apart from empty ones.
type snapshotWord struct {
	Text *string  `json:"text"`
	Time *float64 `json:"time"`
}

// MarshalSnapshot returns the JSON snapshot of s: an array of
// {"text": string, "time": number|null} objects in reading order.
func MarshalSnapshot(s *Sequence) ([]byte, error) {
	data, err := json.Marshal(s.words)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// UnmarshalSnapshot restores a sequence from a JSON snapshot. Times are
// restored exactly as stored. Payloads that are not an array of objects, or
// contain a word without text, fail with ErrFormat.
func UnmarshalSnapshot(data []byte, duration float64) (*Sequence, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("snapshot: not a json array: %w", ErrFormat)
	}

	var raw []snapshotWord
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("snapshot: %v: %w", err, ErrFormat)
	}

	words := make([]Word, len(raw))
	for i, w := range raw {
		if w.Text == nil || *w.Text == "" {
			return nil, fmt.Errorf("snapshot: word %d: missing text: %w", i, ErrFormat)
		}
		words[i] = Word{Text: *w.Text, Time: w.Time}
	}
	return New(duration, words...), nil
}

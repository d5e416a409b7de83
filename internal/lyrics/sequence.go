// Package lyrics holds the timing model of the aligner: an ordered sequence
// of words, each with an optional timestamp, together with the rules for
// assigning, invalidating and interpolating those timestamps, and the text
// formats a sequence is read from and written to.
//
// A Sequence is not safe for concurrent use. All mutation is expected to
// happen from a single goroutine, and every change notification is delivered
// synchronously before the mutating call returns.
package lyrics

import (
	"fmt"
	"math"
	"strings"
)

// Listener receives a change notification for the word at index. t is the
// new time, or nil when the word became untimed. Listeners own t.
type Listener func(index int, t *float64)

type subscription struct {
	id int
	fn Listener
}

// Sequence is the ordered list of words of one lyrics text plus the
// duration of the track they belong to. The order of words never changes
// after construction; only their times do.
type Sequence struct {
	words    []Word
	duration float64
	hasDur   bool

	listeners []subscription
	nextID    int
}

// New returns a sequence over a copy of words. A duration that is not a
// positive finite number leaves the duration unknown.
func New(duration float64, words ...Word) *Sequence {
	s := &Sequence{words: make([]Word, len(words))}
	for i, w := range words {
		s.words[i] = Word{Text: w.Text, Time: copyTime(w.Time)}
	}
	s.SetDuration(duration)
	return s
}

// SetDuration sets the track length. It is usually called once when the
// playback side learns the duration. Non-positive, NaN and infinite values
// mark the duration as unknown.
func (s *Sequence) SetDuration(d float64) {
	if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
		s.duration, s.hasDur = 0, false
		return
	}
	s.duration, s.hasDur = d, true
}

// Duration returns the track length and whether it is known.
func (s *Sequence) Duration() (float64, bool) { return s.duration, s.hasDur }

// Len returns the number of words.
func (s *Sequence) Len() int { return len(s.words) }

// Word returns a copy of the word at index.
func (s *Sequence) Word(index int) (Word, error) {
	if err := s.checkIndex(index); err != nil {
		return Word{}, err
	}
	w := s.words[index]
	return Word{Text: w.Text, Time: copyTime(w.Time)}, nil
}

// Words returns a copy of all words in reading order.
func (s *Sequence) Words() []Word {
	out := make([]Word, len(s.words))
	for i, w := range s.words {
		out[i] = Word{Text: w.Text, Time: copyTime(w.Time)}
	}
	return out
}

// Text returns the words joined by single spaces.
func (s *Sequence) Text() string {
	parts := make([]string, len(s.words))
	for i, w := range s.words {
		parts[i] = w.Text
	}
	return strings.Join(parts, " ")
}

// TimedCount returns how many words carry an explicit time.
func (s *Sequence) TimedCount() int {
	n := 0
	for _, w := range s.words {
		if w.Time != nil {
			n++
		}
	}
	return n
}

// Subscribe registers fn for change notifications and returns a function
// that removes it again.
func (s *Sequence) Subscribe(fn Listener) (unsubscribe func()) {
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	return func() {
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Sequence) notify(index int, t *float64) {
	for _, sub := range s.listeners {
		sub.fn(index, copyTime(t))
	}
}

// SetTime assigns t to the word at index, or clears it when t is nil. A NaN
// time is treated as a clear.
//
// An assignment always wins over the times around it: every later word timed
// at or before t and every earlier word timed at or after t is cleared. Each
// change emits one notification: first the target (only if its value
// changed), then the cleared later words in index order, then the cleared
// earlier words walking back towards the start.
//
// Times outside [0, duration] are stored as given.
func (s *Sequence) SetTime(index int, t *float64) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	if t != nil && math.IsNaN(*t) {
		t = nil
	}

	changed := !sameTime(s.words[index].Time, t)
	s.words[index].Time = copyTime(t)
	if changed {
		s.notify(index, t)
	}

	if t == nil {
		return nil
	}
	at := *t

	for i := index + 1; i < len(s.words); i++ {
		if w := s.words[i].Time; w != nil && *w <= at {
			s.words[i].Time = nil
			s.notify(i, nil)
		}
	}
	for i := index - 1; i >= 0; i-- {
		if w := s.words[i].Time; w != nil && *w >= at {
			s.words[i].Time = nil
			s.notify(i, nil)
		}
	}
	return nil
}

// IndexForTime returns the index of the word playing at timestamp.
//
// Untimed words are assumed to be spread evenly between their timed
// neighbours. The first word is taken to start at 0 and an untimed last word
// to sit at the duration, which therefore must be known. The interpolated
// index is truncated towards zero, so a timestamp before 0 may yield a
// negative index. A timestamp beyond every anchor yields the last index.
func (s *Sequence) IndexForTime(timestamp float64) (int, error) {
	if !s.hasDur {
		return 0, fmt.Errorf("index for time %.3f: %w", timestamp, ErrNoDuration)
	}
	if len(s.words) == 0 {
		return 0, fmt.Errorf("index for time %.3f: %w", timestamp, ErrEmpty)
	}

	earlierIndex, earlierTime := 0, 0.0
	last := len(s.words) - 1
	for i, w := range s.words {
		var at float64
		switch {
		case w.Time != nil:
			at = *w.Time
		case i == last:
			at = s.duration
		default:
			continue
		}

		if at >= timestamp {
			if at == earlierTime {
				return i, nil
			}
			rel := (timestamp - earlierTime) / (at - earlierTime)
			return int(float64(earlierIndex) + rel*float64(i-earlierIndex)), nil
		}
		if w.Time != nil {
			earlierIndex, earlierTime = i, *w.Time
		}
	}
	return last, nil
}

// ApproximateTime returns the time of the word at index: its own time when
// timed, otherwise a linear interpolation by position between the nearest
// timed words around it. Without an earlier anchor the sequence start (index
// 0 at 0s) is used, without a later one the last word at the duration.
func (s *Sequence) ApproximateTime(index int) (float64, error) {
	if err := s.checkIndex(index); err != nil {
		return 0, err
	}
	if t := s.words[index].Time; t != nil {
		return *t, nil
	}

	earlierIndex, earlierTime := 0, 0.0
	for i := index - 1; i >= 0; i-- {
		if t := s.words[i].Time; t != nil {
			earlierIndex, earlierTime = i, *t
			break
		}
	}

	laterIndex, laterTime, found := len(s.words)-1, 0.0, false
	for i := index + 1; i < len(s.words); i++ {
		if t := s.words[i].Time; t != nil {
			laterIndex, laterTime, found = i, *t, true
			break
		}
	}
	if !found {
		if !s.hasDur {
			return 0, fmt.Errorf("approximate time of word %d: %w", index, ErrNoDuration)
		}
		laterTime = s.duration
	}

	if laterIndex == earlierIndex {
		return 0, fmt.Errorf("approximate time of word %d: %w", index, ErrNoAnchor)
	}
	rel := float64(index-earlierIndex) / float64(laterIndex-earlierIndex)
	return earlierTime + rel*(laterTime-earlierTime), nil
}

func (s *Sequence) checkIndex(index int) error {
	if index < 0 || index >= len(s.words) {
		return fmt.Errorf("word %d of %d: %w", index, len(s.words), ErrIndex)
	}
	return nil
}

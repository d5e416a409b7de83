package lyrics

// Word is a single lyrics token plus its optional absolute timestamp in
// seconds. A nil Time means the word is untimed.
type Word struct {
	Text string   `json:"text"`
	Time *float64 `json:"time"`
}

// Timed reports whether the word carries an explicit timestamp.
func (w Word) Timed() bool { return w.Time != nil }

// Seconds returns a pointer to a copy of v, for use as a Word time.
func Seconds(v float64) *float64 { return &v }

func copyTime(t *float64) *float64 {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func sameTime(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

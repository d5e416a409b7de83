package lyrics

import (
	"errors"
	"testing"
)

func TestMarshalSnapshot(t *testing.T) {
	s := New(10, Word{Text: "a", Time: Seconds(1.5)}, Word{Text: "b"})

	data, err := MarshalSnapshot(s)
	if err != nil {
		t.Fatalf("MarshalSnapshot: %v", err)
	}
	want := `[{"text":"a","time":1.5},{"text":"b","time":null}]`
	if string(data) != want {
		t.Errorf("MarshalSnapshot = %s, want %s", data, want)
	}
}

func TestSnapshot_RoundTrip(t *testing.T) {
	src := FromText("the quick brown fox jumps", 42)
	_ = src.SetTime(1, Seconds(3.5))
	_ = src.SetTime(3, Seconds(17.001))

	data, err := MarshalSnapshot(src)
	if err != nil {
		t.Fatalf("MarshalSnapshot: %v", err)
	}
	got, err := UnmarshalSnapshot(data, 42)
	if err != nil {
		t.Fatalf("UnmarshalSnapshot: %v", err)
	}

	want := src.Words()
	for i, w := range got.Words() {
		if w.Text != want[i].Text || !sameTime(w.Time, want[i].Time) {
			t.Errorf("word %d = %+v, want %+v", i, w, want[i])
		}
	}
	if got.Len() != len(want) {
		t.Errorf("Len = %d, want %d", got.Len(), len(want))
	}
}

func TestUnmarshalSnapshot_MissingTimeIsUntimed(t *testing.T) {
	s, err := UnmarshalSnapshot([]byte(`[{"text":"a"}]`), 10)
	if err != nil {
		t.Fatalf("UnmarshalSnapshot: %v", err)
	}
	if w, _ := s.Word(0); w.Timed() {
		t.Errorf("expected untimed word, got %v", *w.Time)
	}
}

func TestUnmarshalSnapshot_Malformed(t *testing.T) {
	tests := []string{
		``,
		`{"text":"a"}`,
		`"a b c"`,
		`[{"time":1}]`,
		`[{"text":""}]`,
		`[1, 2]`,
		`[{"text":"a"`,
	}
	for _, in := range tests {
		if _, err := UnmarshalSnapshot([]byte(in), 10); !errors.Is(err, ErrFormat) {
			t.Errorf("UnmarshalSnapshot(%q) err = %v, want ErrFormat", in, err)
		}
	}
}

package lyrics

import (
	"errors"
	"testing"
)

func TestFromText(t *testing.T) {
	s := FromText("  hello\tworld\n\n  foo ", 12)

	want := []string{"hello", "world", "foo"}
	words := s.Words()
	if len(words) != len(want) {
		t.Fatalf("got %d words, want %d", len(words), len(want))
	}
	for i, w := range words {
		if w.Text != want[i] {
			t.Errorf("word %d = %q, want %q", i, w.Text, want[i])
		}
		if w.Timed() {
			t.Errorf("word %d should be untimed", i)
		}
	}
	if d, ok := s.Duration(); !ok || d != 12 {
		t.Errorf("Duration = %v, %v, want 12, true", d, ok)
	}
	if s.Text() != "hello world foo" {
		t.Errorf("Text = %q", s.Text())
	}
}

func TestFromText_Empty(t *testing.T) {
	if s := FromText(" \n\t ", 10); s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestParseImport(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		kind     ImportKind
		text     string
		timed    int
		audio    string
		fallback bool
	}{
		{
			name:    "free text",
			payload: "hello there world",
			kind:    ImportText,
			text:    "hello there world",
		},
		{
			name:    "document with html",
			payload: `{"text":"<p>Hello <b>world</b></p><script>x()</script>","audio":"song.mp3"}`,
			kind:    ImportDocument,
			text:    "Hello world",
			audio:   "song.mp3",
		},
		{
			name:    "snapshot",
			payload: `[{"text":"a","time":1},{"text":"b","time":null}]`,
			kind:    ImportSnapshot,
			text:    "a b",
			timed:   1,
		},
		{
			name:    "elrc export",
			payload: "\n[00:01.000] a <00:02.000> b c",
			kind:    ImportELRC,
			text:    "a b c",
			timed:   2,
		},
		{
			name:     "broken json array falls back",
			payload:  `[not json`,
			kind:     ImportText,
			text:     "[not json",
			fallback: true,
		},
		{
			name:     "document without text falls back",
			payload:  `{"audio":"x.mp3"}`,
			kind:     ImportText,
			text:     `{"audio":"x.mp3"}`,
			fallback: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseImport(tt.payload, 30)
			if got.Kind != tt.kind {
				t.Errorf("Kind = %q, want %q", got.Kind, tt.kind)
			}
			if got.Sequence.Text() != tt.text {
				t.Errorf("Text = %q, want %q", got.Sequence.Text(), tt.text)
			}
			if got.Sequence.TimedCount() != tt.timed {
				t.Errorf("TimedCount = %d, want %d", got.Sequence.TimedCount(), tt.timed)
			}
			if got.Audio != tt.audio {
				t.Errorf("Audio = %q, want %q", got.Audio, tt.audio)
			}
			if (got.Fallback != nil) != tt.fallback {
				t.Errorf("Fallback = %v, want fallback %v", got.Fallback, tt.fallback)
			}
			if got.Fallback != nil && !errors.Is(got.Fallback, ErrFormat) {
				t.Errorf("Fallback should wrap ErrFormat, got %v", got.Fallback)
			}
		})
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain words", "plain words"},
		{"a <i>b</i> c", "a b c"},
		{"<style>p{}</style>x<script>y()</script>", "x"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripHTML(tt.in); got != tt.want {
			t.Errorf("StripHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

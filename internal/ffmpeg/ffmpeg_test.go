package ffmpeg

import (
	"errors"
	"testing"
)

func TestParseProbe(t *testing.T) {
	out := []byte(`{"streams":[{"codec_name":"mp3"}],"format":{"duration":"183.457000"}}`)
	info, err := parseProbe(out)
	if err != nil {
		t.Fatalf("parseProbe: %v", err)
	}
	if info.Duration != 183.457 || info.Codec != "mp3" {
		t.Errorf("parseProbe = %+v", info)
	}
}

func TestParseProbe_NoStream(t *testing.T) {
	info, err := parseProbe([]byte(`{"format":{"duration":"12.5"}}`))
	if err != nil {
		t.Fatalf("parseProbe: %v", err)
	}
	if info.Codec != "N/A" {
		t.Errorf("codec = %q, want N/A", info.Codec)
	}
}

func TestParseProbe_Errors(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		wantDur bool
	}{
		{"not json", `ffprobe: error`, false},
		{"no duration", `{"format":{}}`, true},
		{"zero duration", `{"format":{"duration":"0.000000"}}`, true},
		{"na duration", `{"format":{"duration":"N/A"}}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseProbe([]byte(tt.out))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrNoDuration); got != tt.wantDur {
				t.Errorf("errors.Is(err, ErrNoDuration) = %v, want %v", got, tt.wantDur)
			}
		})
	}
}

func TestIsAudioExtension(t *testing.T) {
	tests := []struct {
		ext  string
		want bool
	}{
		{".mp3", true},
		{".MP3", true},
		{".ogg", true},
		{".txt", false},
		{".mkv", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsAudioExtension(tt.ext); got != tt.want {
			t.Errorf("IsAudioExtension(%q) = %v, want %v", tt.ext, got, tt.want)
		}
	}
}

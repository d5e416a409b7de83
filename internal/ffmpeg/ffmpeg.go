// Package ffmpeg learns what the aligner needs to know about an audio file
// from ffprobe: chiefly its duration, which the timing model cannot work
// without.
package ffmpeg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrNoDuration is returned when ffprobe reports no usable duration.
var ErrNoDuration = errors.New("no duration in media")

// MediaInfo holds duration and codec information from ffprobe.
type MediaInfo struct {
	Duration float64
	Codec    string
}

// Available returns true if ffprobe is on the PATH.
func Available() bool {
	_, err := exec.LookPath("ffprobe")
	return err == nil
}

// probeOutput mirrors ffprobe JSON structure.
type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecName string `json:"codec_name"`
	} `json:"streams"`
}

// ProbeMedia uses ffprobe to get media duration and audio codec.
func ProbeMedia(ctx context.Context, path string) (*MediaInfo, error) {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return nil, fmt.Errorf("ffprobe not found: %w", err)
	}

	cmd := exec.CommandContext(ctx,
		"ffprobe",
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=codec_name:format=duration",
		"-of", "json",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}
	return parseProbe(out)
}

func parseProbe(out []byte) (*MediaInfo, error) {
	var probe probeOutput
	if err := json.Unmarshal(out, &probe); err != nil {
		return nil, fmt.Errorf("ffprobe JSON parse error: %w", err)
	}

	dur, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil || dur <= 0 {
		return nil, fmt.Errorf("ffprobe duration %q: %w", probe.Format.Duration, ErrNoDuration)
	}

	codec := "N/A"
	if len(probe.Streams) > 0 && probe.Streams[0].CodecName != "" {
		codec = probe.Streams[0].CodecName
	}

	return &MediaInfo{Duration: dur, Codec: codec}, nil
}

// IsAudioExtension returns true for file extensions a browser audio element
// commonly plays.
func IsAudioExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".mp3", ".m4a", ".wav", ".flac", ".ogg", ".oga", ".opus", ".aac", ".webm":
		return true
	}
	return false
}

// LogMediaInfo logs file size and media information and returns the probe
// result. Failures are logged, not returned; the duration then stays
// unknown.
func LogMediaInfo(ctx context.Context, path string) *MediaInfo {
	stat, err := os.Stat(path)
	if err != nil {
		slog.Warn("cannot stat file", "path", path, "err", err)
		return nil
	}
	if !IsAudioExtension(filepath.Ext(path)) {
		slog.Warn("file does not look like audio", "path", filepath.Base(path))
	}

	sizeMB := float64(stat.Size()) / (1024 * 1024)
	info, err := ProbeMedia(ctx, path)
	if err != nil {
		slog.Warn("cannot probe media", "path", filepath.Base(path), "size_mb", fmt.Sprintf("%.2f", sizeMB), "err", err)
		return nil
	}

	minutes := int(info.Duration) / 60
	seconds := int(info.Duration) % 60
	slog.Info(fmt.Sprintf("file size: %.2f MB | duration: %02d:%02d | codec: %s", sizeMB, minutes, seconds, info.Codec),
		"file", filepath.Base(path))
	return info
}

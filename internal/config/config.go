package config

import (
	"log/slog"
	"time"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Level returns the slog level for l, defaulting to info.
func (l LogLevel) Level() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// StoreSettings selects where editing state is persisted.
type StoreSettings struct {
	// Backend is one of memory, file or postgres.
	Backend     string `yaml:"backend"`
	Dir         string `yaml:"dir"`
	PostgresDSN string `yaml:"postgres_dsn"`
	// Key is the key the lyrics snapshot is saved under.
	Key string `yaml:"key"`
}

// PlaybackSettings holds the transport behaviour of an alignment session.
type PlaybackSettings struct {
	// Preroll is how many seconds before a word playback starts when jumping
	// to it.
	Preroll  float64 `yaml:"preroll"`
	SeekStep float64 `yaml:"seek_step"`
	RateStep float64 `yaml:"rate_step"`
	MinRate  float64 `yaml:"min_rate"`
	MaxRate  float64 `yaml:"max_rate"`
	TickHz   float64 `yaml:"tick_hz"`
}

// ExportSettings tunes the ELRC export.
type ExportSettings struct {
	WordsPerLine int `yaml:"words_per_line"`
}

// MetricsSettings configures the Prometheus endpoint.
type MetricsSettings struct {
	// ListenAddr serves /metrics during alignment sessions when set.
	ListenAddr string `yaml:"listen_addr"`
}

// Config holds the full application configuration.
type Config struct {
	LogLevel LogLevel         `yaml:"log_level"`
	Store    StoreSettings    `yaml:"store"`
	Playback PlaybackSettings `yaml:"playback"`
	Export   ExportSettings   `yaml:"export"`
	Metrics  MetricsSettings  `yaml:"metrics"`

	// ShutdownTimeout bounds how long the metrics server may take to stop.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Default returns a Config with the built-in defaults.
func Default() *Config {
	return &Config{
		LogLevel: LogInfo,
		Store: StoreSettings{
			Backend: "file",
			Key:     "lyrics",
		},
		Playback: PlaybackSettings{
			Preroll:  1.5,
			SeekStep: 1,
			RateStep: 0.1,
			MinRate:  0.5,
			MaxRate:  4.0,
			TickHz:   4,
		},
		Export: ExportSettings{
			WordsPerLine: 10,
		},
		ShutdownTimeout: 5 * time.Second,
	}
}

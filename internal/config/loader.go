package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ValidBackends lists the store backends [Validate] accepts.
var ValidBackends = []string{"memory", "file", "postgres"}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is not empty), then ELRC_* environment variables, which may come
// from a .env file in the working directory.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("config: open %q: %w", path, err)
		}
		defer f.Close()
		if err := decode(f, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}

	if err := applyEnv(cfg, os.Getenv); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromReader decodes YAML from r over the defaults and validates the
// result. Useful in tests where configs are constructed from string
// literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := decode(r, cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: decode yaml: %w", err)
	}
	return nil
}

// applyEnv overrides cfg with ELRC_* variables read through getenv.
func applyEnv(cfg *Config, getenv func(string) string) error {
	var errs []error

	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	float := func(key string, dst *float64) {
		if v := getenv(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = f
		}
	}

	if v := getenv("ELRC_LOG_LEVEL"); v != "" {
		cfg.LogLevel = LogLevel(v)
	}
	str("ELRC_STORE_BACKEND", &cfg.Store.Backend)
	str("ELRC_STORE_DIR", &cfg.Store.Dir)
	str("ELRC_STORE_POSTGRES_DSN", &cfg.Store.PostgresDSN)
	str("ELRC_STORE_KEY", &cfg.Store.Key)
	str("ELRC_METRICS_LISTEN_ADDR", &cfg.Metrics.ListenAddr)
	float("ELRC_PLAYBACK_PREROLL", &cfg.Playback.Preroll)
	float("ELRC_PLAYBACK_TICK_HZ", &cfg.Playback.TickHz)
	if v := getenv("ELRC_EXPORT_WORDS_PER_LINE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("ELRC_EXPORT_WORDS_PER_LINE: %w", err))
		} else {
			cfg.Export.WordsPerLine = n
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: environment: %w", errors.Join(errs...))
	}
	return nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.LogLevel != "" && !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}

	if !slices.Contains(ValidBackends, cfg.Store.Backend) {
		errs = append(errs, fmt.Errorf("store.backend %q is invalid; valid values: memory, file, postgres", cfg.Store.Backend))
	}
	if cfg.Store.Backend == "postgres" && cfg.Store.PostgresDSN == "" {
		errs = append(errs, errors.New("store.postgres_dsn is required for the postgres backend"))
	}
	if cfg.Store.Key == "" {
		errs = append(errs, errors.New("store.key is required"))
	}

	p := cfg.Playback
	if p.Preroll < 0 {
		errs = append(errs, fmt.Errorf("playback.preroll %.2f must not be negative", p.Preroll))
	}
	if p.SeekStep <= 0 {
		errs = append(errs, fmt.Errorf("playback.seek_step %.2f must be positive", p.SeekStep))
	}
	if p.RateStep <= 0 {
		errs = append(errs, fmt.Errorf("playback.rate_step %.2f must be positive", p.RateStep))
	}
	if p.MinRate <= 0 || p.MaxRate < p.MinRate {
		errs = append(errs, fmt.Errorf("playback rate range [%.2f, %.2f] is invalid", p.MinRate, p.MaxRate))
	}
	if p.TickHz <= 0 {
		errs = append(errs, fmt.Errorf("playback.tick_hz %.2f must be positive", p.TickHz))
	}

	if cfg.Export.WordsPerLine < 1 {
		errs = append(errs, fmt.Errorf("export.words_per_line %d must be at least 1", cfg.Export.WordsPerLine))
	}

	if cfg.Metrics.ListenAddr == "" {
		slog.Debug("metrics.listen_addr is empty; /metrics will not be served")
	}

	return errors.Join(errs...)
}

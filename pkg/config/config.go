package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Limits  Limits  `toml:"limits"`
	Log     Log     `toml:"log"`
	Metrics Metrics `toml:"metrics"`
	Watch   Watch   `toml:"watch"`
}

type Limits struct {
	MaxSteps     int64 `toml:"max_steps"` // 0 disables
	MaxCallDepth int   `toml:"max_call_depth"`
	MaxNesting   int   `toml:"max_nesting"`
	MaxFileSize  int64 `toml:"max_file_size"`
}

type Log struct {
	Level  string `toml:"level"`  // debug|info|warn|error
	Format string `toml:"format"` // text|json
}

type Metrics struct {
	Enabled bool   `toml:"enabled"`
	Listen  string `toml:"listen"`
}

type Watch struct {
	Pattern  string        `toml:"pattern"`
	Debounce time.Duration `toml:"debounce"`
}

func Default() *Config {
	return &Config{
		Limits: Limits{
			MaxSteps:     10_000_000,
			MaxCallDepth: 256,
			MaxNesting:   512,
			MaxFileSize:  1 << 20,
		},
		Log:     Log{Level: "info", Format: "text"},
		Metrics: Metrics{Listen: ":9464"},
		Watch:   Watch{Pattern: "*.mt", Debounce: 300 * time.Millisecond},
	}
}

// Load reads a TOML file over the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: %s: unknown keys %s", ErrInvalid, path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Limits.MaxSteps < 0 {
		errs = append(errs, fmt.Errorf("%w: limits.max_steps must not be negative", ErrInvalid))
	}
	if c.Limits.MaxCallDepth < 0 {
		errs = append(errs, fmt.Errorf("%w: limits.max_call_depth must not be negative", ErrInvalid))
	}
	if c.Limits.MaxNesting < 0 {
		errs = append(errs, fmt.Errorf("%w: limits.max_nesting must not be negative", ErrInvalid))
	}
	if c.Limits.MaxFileSize < 0 {
		errs = append(errs, fmt.Errorf("%w: limits.max_file_size must not be negative", ErrInvalid))
	}
	if _, err := c.Log.level(); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("%w: log.format %q (want text or json)", ErrInvalid, c.Log.Format))
	}
	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		errs = append(errs, fmt.Errorf("%w: metrics.listen is empty", ErrInvalid))
	}
	if _, err := glob.Compile(c.Watch.Pattern); err != nil {
		errs = append(errs, fmt.Errorf("%w: watch.pattern: %v", ErrInvalid, err))
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("%w: watch.debounce must not be negative", ErrInvalid))
	}
	return errors.Join(errs...)
}

func (l Log) level() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("%w: log.level %q", ErrInvalid, l.Level)
}

// NewLogger builds the logger described by l, writing to w.
func (l Log) NewLogger(w io.Writer) *slog.Logger {
	level, err := l.level()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "minitri.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, int64(10_000_000), cfg.Limits.MaxSteps)
	assert.Equal(t, 256, cfg.Limits.MaxCallDepth)
	assert.Equal(t, 512, cfg.Limits.MaxNesting)
	assert.Equal(t, ":9464", cfg.Metrics.Listen)
	assert.Equal(t, "*.mt", cfg.Watch.Pattern)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[limits]
max_steps = 0
max_call_depth = 64

[log]
level = "debug"
format = "json"

[metrics]
enabled = true
listen = "127.0.0.1:9000"

[watch]
pattern = "**/*.tri"
debounce = "1s"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(0), cfg.Limits.MaxSteps)
	assert.Equal(t, 64, cfg.Limits.MaxCallDepth)
	assert.Equal(t, 512, cfg.Limits.MaxNesting, "unset keys keep their defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "127.0.0.1:9000", cfg.Metrics.Listen)
	assert.Equal(t, "**/*.tri", cfg.Watch.Pattern)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative steps", "[limits]\nmax_steps = -1"},
		{"negative depth", "[limits]\nmax_call_depth = -3"},
		{"bad level", "[log]\nlevel = \"loud\""},
		{"bad format", "[log]\nformat = \"xml\""},
		{"empty listen", "[metrics]\nenabled = true\nlisten = \"\""},
		{"bad pattern", "[watch]\npattern = \"[a\""},
		{"unknown key", "[limits]\nmax_stack = 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "[limits\nmax_steps = 1"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := Log{Level: "warn", Format: "json"}.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", 1)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"k":1`)
}

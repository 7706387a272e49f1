package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "trackviz.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	p := writeConfig(t, "render:\n  width: 1024\nbasemap:\n  timeout: 5s\n  cache: none\n")
	cfg, err := Load(p, nil)
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Render.Width)
	assert.Equal(t, 800, cfg.Render.Height)
	assert.Equal(t, 5*time.Second, cfg.Basemap.Timeout)
	assert.Equal(t, "none", cfg.Basemap.Cache)
	assert.Equal(t, Default().Basemap.Endpoint, cfg.Basemap.Endpoint)
}

func TestLoadEnvAndFlags(t *testing.T) {
	t.Setenv("TRACKVIZ_RENDER_HEIGHT", "600")
	t.Setenv("TRACKVIZ_RENDER_WIDTH", "300")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("width", 0, "")
	require.NoError(t, fs.Parse([]string{"--width", "640"}))

	cfg, err := Load(writeConfig(t, "log:\n  level: debug\n"), fs)
	require.NoError(t, err)
	assert.Equal(t, 600, cfg.Render.Height)
	assert.Equal(t, 640, cfg.Render.Width, "flag beats env")
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadValidation(t *testing.T) {
	for name, content := range map[string]string{
		"tiny width":       "render:\n  width: 2\n",
		"unknown cache":    "basemap:\n  cache: redis\n",
		"valkey sans addr": "basemap:\n  cache: valkey\n",
		"bad endpoint":     "basemap:\n  endpoint: not a url\n",
		"bad log level":    "log:\n  level: loud\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config validation failed")
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDefault(&buf))
	assert.Contains(t, buf.String(), "endpoint: https://overpass-api.de/api/interpreter")

	cfg, err := Load(writeConfig(t, buf.String()), nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

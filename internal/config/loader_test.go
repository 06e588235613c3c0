package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
server:
  port: 9090
  mode: "debug"
model:
  path: "/var/lib/textselect/model.tsmi"
  watch_reload: true
cache:
  size: 64
log:
  level: "debug"
  format: "console"
`

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadValidFile(t *testing.T) {
	cfg, err := Load(writeConfigFile(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "/var/lib/textselect/model.tsmi", cfg.Model.Path)
	assert.True(t, cfg.Model.WatchReload)
	assert.Equal(t, 64, cfg.Cache.Size)
	assert.Equal(t, "console", cfg.Log.Format)

	// Unset fields pick up defaults.
	assert.Equal(t, DefaultReadTimeout, cfg.Server.ReadTimeout)
	assert.Equal(t, DefaultReloadDebounce, cfg.Model.ReloadDebounce)
	assert.Equal(t, DefaultLogOutput, cfg.Log.Output)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing model path", "server:\n  port: 8080\n"},
		{"bad port", "server:\n  port: 70000\nmodel:\n  path: m.tsmi\n"},
		{"bad mode", "server:\n  mode: verbose\nmodel:\n  path: m.tsmi\n"},
		{"bad log level", "model:\n  path: m.tsmi\nlog:\n  level: chatty\n"},
		{"bad log format", "model:\n  path: m.tsmi\nlog:\n  format: xml\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfigFile(t, tc.yaml))
			require.Error(t, err)
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TEXTSELECT_MODEL_PATH", "/tmp/model.tsmi")
	t.Setenv("TEXTSELECT_SERVER_PORT", "8181")
	t.Setenv("TEXTSELECT_LOG_LEVEL", "warn")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/model.tsmi", cfg.Model.Path)
	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, DefaultServerMode, cfg.Server.Mode)
}

func TestApplyDefaultsDoesNotOverride(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 1234
	cfg.Cache.Size = -1
	ApplyDefaults(cfg)

	assert.Equal(t, 1234, cfg.Server.Port)
	assert.Equal(t, -1, cfg.Cache.Size, "explicit cache-off must survive defaulting")
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.Model.Path = "model.tsmi"
	ApplyDefaults(cfg)
	require.NoError(t, cfg.Validate())
}

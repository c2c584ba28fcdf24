package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigClampsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := "session_size: 100\npoll_interval_seconds: 0\napi_token: abc\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.SessionSize)
	assert.Equal(t, 2, cfg.PollIntervalSeconds)
	assert.Equal(t, "abc", cfg.APIToken)
	assert.Equal(t, "porcelain", cfg.Theme)
}

func TestSaveAndReloadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")

	cfg := DefaultConfig()
	cfg.APIToken = "tok"
	cfg.SessionSize = 7
	cfg.OpenCommand = "firefox"
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveConfigRequiresPath(t *testing.T) {
	require.Error(t, SaveConfig(DefaultConfig(), ""))
}

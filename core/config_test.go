package core

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NotNil(t, cfg)
	assert.False(t, cfg.Debug)
	assert.NotEmpty(t, cfg.Charsets["alpha"])
	assert.NotEmpty(t, cfg.Charsets["alphanum"])
	assert.NotEmpty(t, cfg.Charsets["hex"])
	assert.NotEmpty(t, cfg.ExtensionRoot)
	assert.NotEmpty(t, cfg.HistoryPath)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")

	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, DefaultConfig().Charsets["hex"], cfg.Charsets["hex"])
}

func TestLoadConfig_ValidFile(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "adaptix_test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	contents := "debug: true\nextension_root: /tmp/ext\nhistory_path: /tmp/hist\ncharsets:\n  custom: abc123\n"
	require.NoError(t, os.WriteFile(tmpFile.Name(), []byte(contents), 0644))

	cfg, err := LoadConfig(tmpFile.Name())

	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "/tmp/ext", cfg.ExtensionRoot)
	assert.Equal(t, "/tmp/hist", cfg.HistoryPath)
	assert.Equal(t, "abc123", cfg.Charsets["custom"])
	// built-in charsets survive a merge
	assert.NotEmpty(t, cfg.Charsets["alphanum"])
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")

	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "adaptix_test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	require.NoError(t, os.WriteFile(tmpFile.Name(), []byte("debug: [unterminated"), 0644))

	cfg, err := LoadConfig(tmpFile.Name())

	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestSaveConfig(t *testing.T) {
	cfg := DefaultConfig()
	tmpFile, err := os.CreateTemp("", "adaptix_test_save_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	require.NoError(t, SaveConfig(cfg, tmpFile.Name()))

	info, err := os.Stat(tmpFile.Name())
	require.NoError(t, err)
	assert.NotZero(t, info.Size())

	loaded, err := LoadConfig(tmpFile.Name())
	require.NoError(t, err)
	assert.Equal(t, cfg.ExtensionRoot, loaded.ExtensionRoot)
	assert.Equal(t, cfg.HistoryPath, loaded.HistoryPath)
}

func TestSaveConfig_InvalidPath(t *testing.T) {
	cfg := DefaultConfig()
	err := SaveConfig(cfg, "/nonexistent-dir-xyz/config.yaml")

	assert.Error(t, err)
}

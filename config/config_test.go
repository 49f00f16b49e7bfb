package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	// Create a temporary directory for test files
	tempDir := t.TempDir()

	// Create a test config file
	configPath := filepath.Join(tempDir, "test_config.yaml")
	configContent := `
log_level: -4
file_extension: m4a
audio_bitrate: 128k
negotiation_timeout_seconds: 10
storage:
  type: local
  music_dir: /tmp/music
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	assert.NoError(t, err)

	// Test loading the config
	cfg, err := Load(configPath)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, -4, cfg.LogLevel)
	assert.Equal(t, "m4a", cfg.FileExtension)
	assert.Equal(t, "128k", cfg.AudioBitrate)
	assert.Equal(t, 10, cfg.NegotiationTimeoutSeconds)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "/tmp/music", cfg.Storage.MusicDir)
}

func TestLoadDefaults(t *testing.T) {
	tempDir := t.TempDir()

	configPath := filepath.Join(tempDir, "minimal_config.yaml")
	err := os.WriteFile(configPath, []byte("log_level: 0\n"), 0644)
	assert.NoError(t, err)

	cfg, err := Load(configPath)

	assert.NoError(t, err)
	assert.Equal(t, "mp3", cfg.FileExtension)
	assert.Equal(t, "192k", cfg.AudioBitrate)
	assert.Equal(t, 30, cfg.NegotiationTimeoutSeconds)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "music", cfg.Storage.MusicDir)
}

func TestLoadEmptyFile(t *testing.T) {
	tempDir := t.TempDir()

	// An empty document still yields a config with all defaults applied.
	configPath := filepath.Join(tempDir, "empty_config.yaml")
	err := os.WriteFile(configPath, nil, 0644)
	assert.NoError(t, err)

	cfg, err := Load(configPath)

	assert.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, "mp3", cfg.FileExtension)
	assert.Equal(t, "192k", cfg.AudioBitrate)
	assert.Equal(t, "local", cfg.Storage.Type)
}

func TestLoadNonExistentFile(t *testing.T) {
	// Test loading a non-existent config file
	cfg, err := Load("non_existent_file.yaml")

	// Assert
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadInvalidYAML(t *testing.T) {
	// Create a temporary directory for test files
	tempDir := t.TempDir()

	// Create an invalid YAML file
	configPath := filepath.Join(tempDir, "invalid_config.yaml")
	configContent := `
log_level: 0
file_extension: mp3
invalid_yaml: [this is not valid yaml
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	assert.NoError(t, err)

	// Test loading the invalid config
	cfg, err := Load(configPath)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel      int    `yaml:"log_level"`
	FileExtension string `yaml:"file_extension"`
	AudioBitrate  string `yaml:"audio_bitrate"`

	// NegotiationTimeoutSeconds bounds a single stream negotiation.
	NegotiationTimeoutSeconds int `yaml:"negotiation_timeout_seconds"`

	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type StorageConfig struct {
	// Type of storage: "local" or "gcs"
	Type string `yaml:"type"`

	// Local storage options
	MusicDir string `yaml:"music_dir"`

	// GCS options
	Bucket          string `yaml:"bucket"`
	ObjectPrefix    string `yaml:"object_prefix"`
	CredentialsFile string `yaml:"credentials_file"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Unmarshal into a value: yaml.Unmarshal leaves a *Config nil for
	// an empty document, and the defaulting below must still run.
	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, err
	}

	// Set defaults if not provided
	if config.FileExtension == "" {
		config.FileExtension = "mp3"
	}

	if config.AudioBitrate == "" {
		config.AudioBitrate = "192k"
	}

	if config.NegotiationTimeoutSeconds == 0 {
		config.NegotiationTimeoutSeconds = 30
	}

	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}

	if config.Storage.Type == "" {
		config.Storage.Type = "local"
	}

	if config.Storage.MusicDir == "" {
		config.Storage.MusicDir = "music"
	}

	return &config, nil
}

package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	AttribGraph AttribGraphConfig `yaml:"attribgraph"`
}

// AttribGraphConfig is the project configuration.
type AttribGraphConfig struct {
	Input    InputConfig    `yaml:"input"`
	Training TrainingConfig `yaml:"training"`
	Model    ModelConfig    `yaml:"model"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// InputConfig controls where relationship bundles are read from.
type InputConfig struct {
	// BundlesPath is a directory of bundle JSON files or a single JSON file
	// holding an array of bundles.
	BundlesPath string `yaml:"bundles_path"`
}

// TrainingConfig controls corpus synthesis and training.
type TrainingConfig struct {
	PerLabel int `yaml:"per_label"`
	// DatabaseVersion is the caller-supplied version in "(major, minor, micro)"
	// form; empty means the compiled-in baseline.
	DatabaseVersion string `yaml:"database_version"`
}

// ModelConfig controls artifact persistence.
type ModelConfig struct {
	Mode  string           `yaml:"mode"` // file|redis
	File  FileStoreConfig  `yaml:"file"`
	Redis RedisStoreConfig `yaml:"redis"`
}

// FileStoreConfig config for file-based artifact storage.
type FileStoreConfig struct {
	Path string `yaml:"path"`
}

// RedisStoreConfig config for Redis-based artifact storage.
type RedisStoreConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// ServerConfig controls the prediction HTTP server.
type ServerConfig struct {
	Listen          string        `yaml:"listen"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig controls logging output.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
	File    string `yaml:"file"`
	Console bool   `yaml:"console"`
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

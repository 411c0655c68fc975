package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultConfig []byte

// BlobStoreConfig points at the object store bucket holding the reference
// datasets (historical repair log and warranty terms).
type BlobStoreConfig struct {
	Endpoint    string `yaml:"endpoint" env:"TRIAGED_BLOBSTORE_ENDPOINT"`
	Bucket      string `yaml:"bucket" env:"TRIAGED_BLOBSTORE_BUCKET"`
	HistoryKey  string `yaml:"history_key" env:"TRIAGED_BLOBSTORE_HISTORY_KEY"`
	WarrantyKey string `yaml:"warranty_key" env:"TRIAGED_BLOBSTORE_WARRANTY_KEY"`
}

type AnthropicConfig struct {
	APIKey    string `yaml:"api_key" env:"TRIAGED_ANTHROPIC_API_KEY"`
	Model     string `yaml:"model" env:"TRIAGED_ANTHROPIC_MODEL"`
	MaxTokens int64  `yaml:"max_tokens" env:"TRIAGED_ANTHROPIC_MAX_TOKENS"`
}

// MatchingConfig caps how many historical cases go into the prompt.
// Debug responses may carry more cases than the prompt does.
type MatchingConfig struct {
	MaxCases      int `yaml:"max_cases" env:"TRIAGED_MATCHING_MAX_CASES"`
	DebugMaxCases int `yaml:"debug_max_cases" env:"TRIAGED_MATCHING_DEBUG_MAX_CASES"`
}

type Config struct {
	Log struct {
		Level string `yaml:"level" env:"TRIAGED_LOG_LEVEL"`
	} `yaml:"log"`
	Server struct {
		ListenPort string `yaml:"listen_port" env:"TRIAGED_SERVER_PORT"`
		DebugMode  bool   `yaml:"debug_mode" env:"TRIAGED_SERVER_DEBUG"`
		Auth       struct {
			Enabled  bool   `yaml:"enabled" env:"TRIAGED_AUTH_ENABLED"`
			Username string `yaml:"username" env:"TRIAGED_AUTH_USERNAME"`
			Password string `yaml:"password" env:"TRIAGED_AUTH_PASSWORD"`
		} `yaml:"auth"`
	} `yaml:"server"`
	BlobStore BlobStoreConfig `yaml:"blobstore"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	Matching  MatchingConfig  `yaml:"matching"`
	Database  struct {
		Path string `yaml:"path" env:"TRIAGED_DATABASE_PATH"`
	} `yaml:"database"`
}

// Load loads configuration from the specified file path.
// It first loads the embedded default configuration, then merges the user config on top.
// Finally, it overrides values with environment variables.
func Load(path string) (*Config, error) {
	// First, load the embedded default config
	var cfg Config
	if err := yaml.Unmarshal(defaultConfig, &cfg); err != nil {
		return nil, err
	}

	// If a path is specified and the file exists, merge user config on top
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
			// File doesn't exist, just use defaults
			slog.Warn("config file not found, using defaults", "path", path)
		} else {
			// Expand environment variables in user config (legacy support)
			expandedData := []byte(os.ExpandEnv(string(data)))

			// Unmarshal user config on top of defaults (merges non-zero values)
			if err := yaml.Unmarshal(expandedData, &cfg); err != nil {
				return nil, err
			}
			slog.Info("loaded user config", "path", path)
		}
	}

	// Override with environment variables using cleanenv
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadDefault loads the embedded default configuration.
func LoadDefault() (*Config, error) {
	return Load("")
}

// DefaultConfigBytes returns the raw embedded default configuration.
// Useful for generating example config files.
func DefaultConfigBytes() []byte {
	return defaultConfig
}

// Validate checks configuration for required fields and valid ranges.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []error

	// Required fields
	if c.Anthropic.APIKey == "" {
		errs = append(errs, errors.New("anthropic.api_key is required"))
	}
	if c.Anthropic.Model == "" {
		errs = append(errs, errors.New("anthropic.model is required"))
	}
	if c.Anthropic.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("anthropic.max_tokens must be positive, got %d", c.Anthropic.MaxTokens))
	}

	if c.BlobStore.Endpoint == "" {
		errs = append(errs, errors.New("blobstore.endpoint is required"))
	}
	if c.BlobStore.Bucket == "" {
		errs = append(errs, errors.New("blobstore.bucket is required"))
	}
	if c.BlobStore.HistoryKey == "" {
		errs = append(errs, errors.New("blobstore.history_key is required"))
	}
	if c.BlobStore.WarrantyKey == "" {
		errs = append(errs, errors.New("blobstore.warranty_key is required"))
	}

	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}

	if c.Matching.MaxCases <= 0 {
		errs = append(errs, fmt.Errorf("matching.max_cases must be positive, got %d", c.Matching.MaxCases))
	}
	if c.Matching.DebugMaxCases <= 0 {
		errs = append(errs, fmt.Errorf("matching.debug_max_cases must be positive, got %d", c.Matching.DebugMaxCases))
	}

	// Server auth requires username if enabled (password is auto-generated if not set)
	if c.Server.Auth.Enabled {
		if c.Server.Auth.Username == "" {
			errs = append(errs, errors.New("server.auth.username is required when server.auth.enabled is true"))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

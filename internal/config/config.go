package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"draftsmith/internal/task"
)

// DefaultPath is where the CLI looks for configuration when --config is not given.
const DefaultPath = "draftsmith.yaml"

// Config holds all draftsmith configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// HTTP front end
	Server ServerConfig `yaml:"server"`

	// One engine per task family
	Engines EnginesConfig `yaml:"engines"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the HTTP front end.
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	ReadTimeout  string `yaml:"read_timeout"`
	WriteTimeout string `yaml:"write_timeout"`

	// RequestTimeout bounds a single generation at the boundary. The core
	// itself never times out.
	RequestTimeout string `yaml:"request_timeout"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "draftsmith",
		Version: "0.3.0",

		Server: ServerConfig{
			Addr:           ":5000",
			ReadTimeout:    "15s",
			WriteTimeout:   "5m",
			RequestTimeout: "4m",
		},

		Engines: EnginesConfig{
			Creative: EngineConfig{
				Backend:       BackendLlamaCpp,
				BaseURL:       "http://localhost:8080",
				Model:         "TinyLlama-1.1B-Chat-v1.0",
				Timeout:       "120s",
				MaxConcurrent: 1,
			},
			Summarize: EngineConfig{
				Backend:       BackendLlamaCpp,
				BaseURL:       "http://localhost:8081",
				Model:         "flan-t5-small",
				Timeout:       "180s",
				MaxConcurrent: 1,
			},
			Draft: EngineConfig{
				Backend:       BackendLlamaCpp,
				BaseURL:       "http://localhost:8082",
				Model:         "flan-t5-base",
				Timeout:       "120s",
				MaxConcurrent: 1,
			},
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv("DRAFTSMITH_ADDR"); addr != "" {
		c.Server.Addr = addr
	}

	// A single llama.cpp server can back every family.
	if url := os.Getenv("LLAMACPP_URL"); url != "" {
		for _, e := range c.Engines.all() {
			if e.Backend == BackendLlamaCpp {
				e.BaseURL = url
			}
		}
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		for _, e := range c.Engines.all() {
			if e.Backend == BackendGemini && e.APIKey == "" {
				e.APIKey = key
			}
		}
	}
}

// GetReadTimeout returns the server read timeout as a duration.
func (c *Config) GetReadTimeout() time.Duration {
	return parseDuration(c.Server.ReadTimeout, 15*time.Second)
}

// GetWriteTimeout returns the server write timeout as a duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return parseDuration(c.Server.WriteTimeout, 5*time.Minute)
}

// GetRequestTimeout returns the per-generation boundary timeout as a duration.
func (c *Config) GetRequestTimeout() time.Duration {
	return parseDuration(c.Server.RequestTimeout, 4*time.Minute)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server address not configured")
	}
	for _, f := range task.Families {
		if err := c.Engines.For(f).Validate(); err != nil {
			return fmt.Errorf("engines.%s: %w", f, err)
		}
	}
	return nil
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

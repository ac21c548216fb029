// Package config provides configuration loading and management for Vibeshift.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/vibeshift/model"
	"github.com/c360studio/vibeshift/platform"
)

// Config represents the complete Vibeshift configuration
type Config struct {
	Server    ServerConfig              `yaml:"server"`
	Model     ModelConfig               `yaml:"model"`
	Grounding GroundingConfig           `yaml:"grounding"`
	Platforms map[string]platform.Rules `yaml:"platforms"`
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	// Addr is the listen address (default: :8080)
	Addr string `yaml:"addr"`
	// ShutdownTimeout is the grace period for in-flight requests on shutdown
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ModelConfig configures the LLM model settings
type ModelConfig struct {
	// Temperature controls randomness for rewrite generation (0.0-1.0)
	Temperature float64 `yaml:"temperature"`
	// Timeout is the maximum time to wait for model responses
	Timeout time.Duration `yaml:"timeout"`
	// Endpoints overrides or extends the built-in endpoint registry
	Endpoints map[string]*model.EndpointConfig `yaml:"endpoints"`
	// Capabilities overrides the capability-to-endpoint chains
	Capabilities map[string]*model.CapabilityConfig `yaml:"capabilities"`
}

// GroundingConfig configures the grounding store
type GroundingConfig struct {
	// NATSURL is the NATS server URL (empty = in-memory store only)
	NATSURL string `yaml:"nats_url"`
	// Bucket is the JetStream KV bucket for guideline documents
	Bucket string `yaml:"bucket"`
	// SeedDir is a directory of guideline files ingested at startup
	SeedDir string `yaml:"seed_dir"`
	// Watch enables re-ingestion when files under SeedDir change
	Watch bool `yaml:"watch"`
	// TopK is the default number of documents retrieved per query
	TopK int `yaml:"top_k"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Model: ModelConfig{
			Temperature: 0.7,
			Timeout:     60 * time.Second,
		},
		Grounding: GroundingConfig{
			NATSURL: "",
			Bucket:  "vibeshift-guidelines",
			TopK:    5,
		},
		Platforms: nil,
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 1 {
		return fmt.Errorf("model.temperature must be between 0 and 1")
	}
	if c.Grounding.TopK < 1 {
		return fmt.Errorf("grounding.top_k must be at least 1")
	}
	for name, ep := range c.Model.Endpoints {
		if ep == nil || ep.Provider == "" {
			return fmt.Errorf("model.endpoints.%s: provider is required", name)
		}
	}
	for name, rules := range c.Platforms {
		if rules.MaxChars < 1 {
			return fmt.Errorf("platforms.%s: max_chars must be at least 1", name)
		}
		if rules.HashtagsMax < 0 {
			return fmt.Errorf("platforms.%s: hashtags_max must not be negative", name)
		}
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Server
	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}
	if other.Server.ShutdownTimeout != 0 {
		c.Server.ShutdownTimeout = other.Server.ShutdownTimeout
	}

	// Model
	if other.Model.Temperature != 0 {
		c.Model.Temperature = other.Model.Temperature
	}
	if other.Model.Timeout != 0 {
		c.Model.Timeout = other.Model.Timeout
	}
	if len(other.Model.Endpoints) > 0 {
		if c.Model.Endpoints == nil {
			c.Model.Endpoints = make(map[string]*model.EndpointConfig)
		}
		for name, ep := range other.Model.Endpoints {
			c.Model.Endpoints[name] = ep
		}
	}
	if len(other.Model.Capabilities) > 0 {
		if c.Model.Capabilities == nil {
			c.Model.Capabilities = make(map[string]*model.CapabilityConfig)
		}
		for name, cap := range other.Model.Capabilities {
			c.Model.Capabilities[name] = cap
		}
	}

	// Grounding
	if other.Grounding.NATSURL != "" {
		c.Grounding.NATSURL = other.Grounding.NATSURL
	}
	if other.Grounding.Bucket != "" {
		c.Grounding.Bucket = other.Grounding.Bucket
	}
	if other.Grounding.SeedDir != "" {
		c.Grounding.SeedDir = other.Grounding.SeedDir
	}
	if other.Grounding.Watch {
		c.Grounding.Watch = true
	}
	if other.Grounding.TopK != 0 {
		c.Grounding.TopK = other.Grounding.TopK
	}

	// Platforms
	if len(other.Platforms) > 0 {
		if c.Platforms == nil {
			c.Platforms = make(map[string]platform.Rules)
		}
		for name, rules := range other.Platforms {
			c.Platforms[name] = rules
		}
	}
}

// ApplyToRegistry installs configured endpoints and capability chains
// into a model registry.
func (c *Config) ApplyToRegistry(reg *model.Registry) error {
	for name, ep := range c.Model.Endpoints {
		reg.SetEndpoint(name, ep)
	}
	for name, capCfg := range c.Model.Capabilities {
		capability := model.ParseCapability(name)
		if !capability.IsValid() {
			return fmt.Errorf("model.capabilities.%s: unknown capability", name)
		}
		reg.SetCapability(capability, capCfg)
	}
	return nil
}

package configs

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/lalomorales22/ditto/app/clients"
)

type Config struct {
	Model   ModelConfig      `yaml:"model" validate:"required"`
	Storage StorageConfig    `yaml:"storage"`
	Runtime RuntimeConfig    `yaml:"runtime" validate:"required"`
	Project ProjectConfig    `yaml:"project" validate:"required"`
	Clients []clients.Config `yaml:"clients,omitempty"`
}

type ModelConfig struct {
	Name        string  `yaml:"name" validate:"required"`
	BaseURL     string  `yaml:"base_url" validate:"omitempty,url"`
	APIKey      string  `yaml:"api_key"`
	Temperature float64 `yaml:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `yaml:"max_tokens" validate:"gte=0"`
	ToolCalling *bool   `yaml:"tool_calling"`
}

// SupportsTools reports whether the configured model is expected to emit
// tool calls. Unset means yes.
func (mc ModelConfig) SupportsTools() bool {
	return mc.ToolCalling == nil || *mc.ToolCalling
}

type StorageConfig struct {
	Path string `yaml:"path"`
}

type RuntimeConfig struct {
	MaxRounds           int    `yaml:"max_iterations" validate:"required,gt=0"`
	RoundDelaySeconds   int    `yaml:"round_delay_seconds" validate:"gte=0"`
	RetryBackoffSeconds int    `yaml:"retry_backoff_seconds" validate:"gte=0"`
	RoundTimeoutSeconds int    `yaml:"round_timeout_seconds" validate:"gte=0"`
	LogDir              string `yaml:"log_dir"`
}

type ProjectConfig struct {
	Name        string `yaml:"name" validate:"required"`
	Description string `yaml:"description"`
	Root        string `yaml:"root"`
	Input       string `yaml:"input" validate:"required"`
}

// LoadConfig reads the YAML config at path, expands ${ENV} references, and
// validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read configs file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Runtime.MaxRounds == 0 {
		c.Runtime.MaxRounds = 50
	}
	if c.Runtime.LogDir == "" {
		c.Runtime.LogDir = "logs"
	}
	if c.Project.Root == "" {
		c.Project.Root = "projects"
	}
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configs: %w", err)
	}
	return nil
}

func (rc RuntimeConfig) RoundDelay() time.Duration {
	return time.Duration(rc.RoundDelaySeconds) * time.Second
}

func (rc RuntimeConfig) RetryBackoff() time.Duration {
	return time.Duration(rc.RetryBackoffSeconds) * time.Second
}

func (rc RuntimeConfig) RoundTimeout() time.Duration {
	return time.Duration(rc.RoundTimeoutSeconds) * time.Second
}

package llm

import (
	"fmt"
	"os"
	"time"

	"github.com/switchyard-io/switchyard/pkg/resilience"
)

// Config holds language model connection and generation parameters.
// BaseURL overrides the default OpenAI endpoint for compatible gateways.
type Config struct {
	APIKey            string            `toml:"api_key"`
	BaseURL           string            `toml:"base_url"`
	Model             string            `toml:"model"`
	EmbedModel        string            `toml:"embed_model"`
	EmbedDimensions   int               `toml:"embed_dimensions"`
	MaxTokens         int               `toml:"max_tokens"`
	Temperature       float64           `toml:"temperature"`
	Timeout           string            `toml:"timeout"`
	RequestsPerMinute int               `toml:"requests_per_minute"`
	Resilience        resilience.Config `toml:"resilience"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	APIKey          string
	BaseURL         string
	Model           string
	EmbedModel      string
	EmbedDimensions string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.EmbedModel != "" {
		c.EmbedModel = overlay.EmbedModel
	}
	if overlay.EmbedDimensions != 0 {
		c.EmbedDimensions = overlay.EmbedDimensions
	}
	if overlay.MaxTokens != 0 {
		c.MaxTokens = overlay.MaxTokens
	}
	if overlay.Temperature != 0 {
		c.Temperature = overlay.Temperature
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.RequestsPerMinute != 0 {
		c.RequestsPerMinute = overlay.RequestsPerMinute
	}
	c.Resilience.Merge(&overlay.Resilience)
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

func (c *Config) loadDefaults() {
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
	if c.EmbedModel == "" {
		c.EmbedModel = "text-embedding-3-large"
	}
	if c.EmbedDimensions == 0 {
		c.EmbedDimensions = 1024
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 1000
	}
	if c.Temperature == 0 {
		c.Temperature = 0.3
	}
	if c.Timeout == "" {
		c.Timeout = "60s"
	}
	if c.RequestsPerMinute == 0 {
		c.RequestsPerMinute = 120
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.APIKey != "" {
		if v := os.Getenv(env.APIKey); v != "" {
			c.APIKey = v
		}
	}
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.Model != "" {
		if v := os.Getenv(env.Model); v != "" {
			c.Model = v
		}
	}
	if env.EmbedModel != "" {
		if v := os.Getenv(env.EmbedModel); v != "" {
			c.EmbedModel = v
		}
	}
	if env.EmbedDimensions != "" {
		if v := os.Getenv(env.EmbedDimensions); v != "" {
			var n int
			if _, err := fmt.Sscanf(v, "%d", &n); err == nil && n > 0 {
				c.EmbedDimensions = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api_key required")
	}
	if c.EmbedDimensions <= 0 {
		return fmt.Errorf("embed_dimensions must be positive")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if c.RequestsPerMinute < 1 {
		return fmt.Errorf("requests_per_minute must be positive")
	}
	return nil
}

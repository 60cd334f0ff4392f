package queue

import (
	"fmt"
	"os"
	"time"
)

// Config holds NATS connection settings for the ingestion queue.
type Config struct {
	URL            string `toml:"url"`
	Subject        string `toml:"subject"`
	Group          string `toml:"group"`
	ConnectTimeout string `toml:"connect_timeout"`
	ReconnectWait  string `toml:"reconnect_wait"`
	MaxReconnects  int    `toml:"max_reconnects"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	URL     string
	Subject string
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
	if overlay.URL != "" {
		c.URL = overlay.URL
	}
	if overlay.Subject != "" {
		c.Subject = overlay.Subject
	}
	if overlay.Group != "" {
		c.Group = overlay.Group
	}
	if overlay.ConnectTimeout != "" {
		c.ConnectTimeout = overlay.ConnectTimeout
	}
	if overlay.ReconnectWait != "" {
		c.ReconnectWait = overlay.ReconnectWait
	}
	if overlay.MaxReconnects != 0 {
		c.MaxReconnects = overlay.MaxReconnects
	}
}

// ConnectTimeoutDuration returns ConnectTimeout as a time.Duration.
func (c *Config) ConnectTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ConnectTimeout)
	return d
}

// ReconnectWaitDuration returns ReconnectWait as a time.Duration.
func (c *Config) ReconnectWaitDuration() time.Duration {
	d, _ := time.ParseDuration(c.ReconnectWait)
	return d
}

func (c *Config) loadDefaults() {
	if c.URL == "" {
		c.URL = "nats://127.0.0.1:4222"
	}
	if c.Subject == "" {
		c.Subject = "documents.ingest"
	}
	if c.Group == "" {
		c.Group = "workers"
	}
	if c.ConnectTimeout == "" {
		c.ConnectTimeout = "2s"
	}
	if c.ReconnectWait == "" {
		c.ReconnectWait = "2s"
	}
	if c.MaxReconnects == 0 {
		c.MaxReconnects = 60
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.URL != "" {
		if v := os.Getenv(env.URL); v != "" {
			c.URL = v
		}
	}
	if env.Subject != "" {
		if v := os.Getenv(env.Subject); v != "" {
			c.Subject = v
		}
	}
}

func (c *Config) validate() error {
	if c.URL == "" {
		return fmt.Errorf("url required")
	}
	if c.Subject == "" {
		return fmt.Errorf("subject required")
	}
	if c.Group == "" {
		return fmt.Errorf("group required")
	}
	if _, err := time.ParseDuration(c.ConnectTimeout); err != nil {
		return fmt.Errorf("invalid connect_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.ReconnectWait); err != nil {
		return fmt.Errorf("invalid reconnect_wait: %w", err)
	}
	return nil
}

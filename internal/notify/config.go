package notify

import (
	"fmt"
	"os"
)

// Config holds SMTP settings and the per-department recipient lists. An
// empty host disables notifications entirely.
type Config struct {
	Host       string              `toml:"host"`
	Port       int                 `toml:"port"`
	Username   string              `toml:"username"`
	Password   string              `toml:"password"`
	From       string              `toml:"from"`
	Recipients map[string][]string `toml:"recipients"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Host     string
	Username string
	Password string
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
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	if overlay.Username != "" {
		c.Username = overlay.Username
	}
	if overlay.Password != "" {
		c.Password = overlay.Password
	}
	if overlay.From != "" {
		c.From = overlay.From
	}
	if len(overlay.Recipients) != 0 {
		c.Recipients = overlay.Recipients
	}
}

// Enabled reports whether an SMTP host is configured.
func (c *Config) Enabled() bool {
	return c.Host != ""
}

func (c *Config) loadDefaults() {
	if c.Port == 0 {
		c.Port = 587
	}
	if c.From == "" {
		c.From = "switchyard@localhost"
	}
	if c.Recipients == nil {
		c.Recipients = map[string][]string{}
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Host != "" {
		if v := os.Getenv(env.Host); v != "" {
			c.Host = v
		}
	}
	if env.Username != "" {
		if v := os.Getenv(env.Username); v != "" {
			c.Username = v
		}
	}
	if env.Password != "" {
		if v := os.Getenv(env.Password); v != "" {
			c.Password = v
		}
	}
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return nil
}

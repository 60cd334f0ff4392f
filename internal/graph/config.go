package graph

import (
	"fmt"
	"os"
)

// Config holds Neo4j connection settings. An empty URI disables the graph
// system entirely.
type Config struct {
	URI      string `toml:"uri"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	Database string `toml:"database"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	URI      string
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
	if overlay.URI != "" {
		c.URI = overlay.URI
	}
	if overlay.Username != "" {
		c.Username = overlay.Username
	}
	if overlay.Password != "" {
		c.Password = overlay.Password
	}
	if overlay.Database != "" {
		c.Database = overlay.Database
	}
}

// Enabled reports whether a graph endpoint is configured.
func (c *Config) Enabled() bool {
	return c.URI != ""
}

func (c *Config) loadDefaults() {
	if c.Database == "" {
		c.Database = "neo4j"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.URI != "" {
		if v := os.Getenv(env.URI); v != "" {
			c.URI = v
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
	if c.URI != "" && c.Database == "" {
		return fmt.Errorf("database required when uri is set")
	}
	return nil
}

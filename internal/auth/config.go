package auth

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config holds token signing, password hashing, and OIDC settings.
// OIDC verification is enabled only when Issuer is set.
type Config struct {
	TokenSecret  string `toml:"token_secret"`
	TokenTTL     string `toml:"token_ttl"`
	BcryptCost   int    `toml:"bcrypt_cost"`
	OIDCIssuer   string `toml:"oidc_issuer"`
	OIDCClientID string `toml:"oidc_client_id"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	TokenSecret  string
	TokenTTL     string
	BcryptCost   string
	OIDCIssuer   string
	OIDCClientID string
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
	if overlay.TokenSecret != "" {
		c.TokenSecret = overlay.TokenSecret
	}
	if overlay.TokenTTL != "" {
		c.TokenTTL = overlay.TokenTTL
	}
	if overlay.BcryptCost != 0 {
		c.BcryptCost = overlay.BcryptCost
	}
	if overlay.OIDCIssuer != "" {
		c.OIDCIssuer = overlay.OIDCIssuer
	}
	if overlay.OIDCClientID != "" {
		c.OIDCClientID = overlay.OIDCClientID
	}
}

// TokenTTLDuration returns TokenTTL as a time.Duration.
func (c *Config) TokenTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TokenTTL)
	return d
}

// OIDCEnabled reports whether an OIDC issuer is configured.
func (c *Config) OIDCEnabled() bool {
	return c.OIDCIssuer != ""
}

func (c *Config) loadDefaults() {
	if c.TokenTTL == "" {
		c.TokenTTL = "24h"
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = 12
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.TokenSecret != "" {
		if v := os.Getenv(env.TokenSecret); v != "" {
			c.TokenSecret = v
		}
	}
	if env.TokenTTL != "" {
		if v := os.Getenv(env.TokenTTL); v != "" {
			c.TokenTTL = v
		}
	}
	if env.BcryptCost != "" {
		if v := os.Getenv(env.BcryptCost); v != "" {
			var n int
			if _, err := fmt.Sscanf(v, "%d", &n); err == nil && n > 0 {
				c.BcryptCost = n
			}
		}
	}
	if env.OIDCIssuer != "" {
		if v := os.Getenv(env.OIDCIssuer); v != "" {
			c.OIDCIssuer = v
		}
	}
	if env.OIDCClientID != "" {
		if v := os.Getenv(env.OIDCClientID); v != "" {
			c.OIDCClientID = v
		}
	}
}

func (c *Config) validate() error {
	if c.TokenSecret == "" {
		return fmt.Errorf("token_secret required")
	}
	if _, err := time.ParseDuration(c.TokenTTL); err != nil {
		return fmt.Errorf("invalid token_ttl: %w", err)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.OIDCIssuer != "" && c.OIDCClientID == "" {
		return fmt.Errorf("oidc_client_id required when oidc_issuer is set")
	}
	return nil
}

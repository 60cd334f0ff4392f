package classify

import (
	"fmt"
	"os"
)

// Extractor selection values.
const (
	ExtractorLexical = "lexical"
	ExtractorRemote  = "remote"
)

// Extractor failure handling modes. Degrade falls back to keyword-only
// scoring; fail rejects the single document.
const (
	FailureModeDegrade = "degrade"
	FailureModeFail    = "fail"
)

// Config holds classification engine settings. An empty RulesPath selects
// the embedded default catalog.
type Config struct {
	RulesPath          string `toml:"rules_path"`
	Extractor          string `toml:"extractor"`
	RemoteURL          string `toml:"remote_url"`
	OnExtractorFailure string `toml:"on_extractor_failure"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	RulesPath          string
	Extractor          string
	RemoteURL          string
	OnExtractorFailure string
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
	if overlay.RulesPath != "" {
		c.RulesPath = overlay.RulesPath
	}
	if overlay.Extractor != "" {
		c.Extractor = overlay.Extractor
	}
	if overlay.RemoteURL != "" {
		c.RemoteURL = overlay.RemoteURL
	}
	if overlay.OnExtractorFailure != "" {
		c.OnExtractorFailure = overlay.OnExtractorFailure
	}
}

// Catalog loads the configured rule catalog, falling back to the
// embedded default when no path is set.
func (c *Config) Catalog() (*Catalog, error) {
	if c.RulesPath == "" {
		return DefaultCatalog(), nil
	}
	return LoadCatalog(c.RulesPath)
}

func (c *Config) loadDefaults() {
	if c.Extractor == "" {
		c.Extractor = ExtractorLexical
	}
	if c.OnExtractorFailure == "" {
		c.OnExtractorFailure = FailureModeDegrade
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.RulesPath != "" {
		if v := os.Getenv(env.RulesPath); v != "" {
			c.RulesPath = v
		}
	}
	if env.Extractor != "" {
		if v := os.Getenv(env.Extractor); v != "" {
			c.Extractor = v
		}
	}
	if env.RemoteURL != "" {
		if v := os.Getenv(env.RemoteURL); v != "" {
			c.RemoteURL = v
		}
	}
	if env.OnExtractorFailure != "" {
		if v := os.Getenv(env.OnExtractorFailure); v != "" {
			c.OnExtractorFailure = v
		}
	}
}

func (c *Config) validate() error {
	switch c.Extractor {
	case ExtractorLexical, ExtractorRemote:
	default:
		return fmt.Errorf("invalid extractor %q", c.Extractor)
	}

	if c.Extractor == ExtractorRemote && c.RemoteURL == "" {
		return fmt.Errorf("remote_url required for remote extractor")
	}

	switch c.OnExtractorFailure {
	case FailureModeDegrade, FailureModeFail:
	default:
		return fmt.Errorf("invalid on_extractor_failure %q", c.OnExtractorFailure)
	}

	return nil
}

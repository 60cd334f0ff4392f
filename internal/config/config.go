package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/switchyard-io/switchyard/internal/auth"
	"github.com/switchyard-io/switchyard/internal/classify"
	"github.com/switchyard-io/switchyard/internal/graph"
	"github.com/switchyard-io/switchyard/internal/llm"
	"github.com/switchyard-io/switchyard/internal/notify"
	"github.com/switchyard-io/switchyard/internal/queue"
	"github.com/switchyard-io/switchyard/pkg/database"
	"github.com/switchyard-io/switchyard/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvSwitchyardEnv             = "SWITCHYARD_ENV"
	EnvSwitchyardShutdownTimeout = "SWITCHYARD_SHUTDOWN_TIMEOUT"
	EnvSwitchyardVersion         = "SWITCHYARD_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "SWITCHYARD_DB_HOST",
	Port:            "SWITCHYARD_DB_PORT",
	Name:            "SWITCHYARD_DB_NAME",
	User:            "SWITCHYARD_DB_USER",
	Password:        "SWITCHYARD_DB_PASSWORD",
	SSLMode:         "SWITCHYARD_DB_SSL_MODE",
	MaxOpenConns:    "SWITCHYARD_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "SWITCHYARD_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "SWITCHYARD_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "SWITCHYARD_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "SWITCHYARD_STORAGE_CONTAINER_NAME",
	ConnectionString: "SWITCHYARD_STORAGE_CONNECTION_STRING",
}

var queueEnv = &queue.Env{
	URL:     "SWITCHYARD_QUEUE_URL",
	Subject: "SWITCHYARD_QUEUE_SUBJECT",
}

var llmEnv = &llm.Env{
	APIKey:          "SWITCHYARD_LLM_API_KEY",
	BaseURL:         "SWITCHYARD_LLM_BASE_URL",
	Model:           "SWITCHYARD_LLM_MODEL",
	EmbedModel:      "SWITCHYARD_LLM_EMBED_MODEL",
	EmbedDimensions: "SWITCHYARD_LLM_EMBED_DIMENSIONS",
}

var graphEnv = &graph.Env{
	URI:      "SWITCHYARD_GRAPH_URI",
	Username: "SWITCHYARD_GRAPH_USERNAME",
	Password: "SWITCHYARD_GRAPH_PASSWORD",
}

var authEnv = &auth.Env{
	TokenSecret:  "SWITCHYARD_AUTH_TOKEN_SECRET",
	TokenTTL:     "SWITCHYARD_AUTH_TOKEN_TTL",
	BcryptCost:   "SWITCHYARD_AUTH_BCRYPT_COST",
	OIDCIssuer:   "SWITCHYARD_AUTH_OIDC_ISSUER",
	OIDCClientID: "SWITCHYARD_AUTH_OIDC_CLIENT_ID",
}

var notifyEnv = &notify.Env{
	Host:     "SWITCHYARD_SMTP_HOST",
	Username: "SWITCHYARD_SMTP_USERNAME",
	Password: "SWITCHYARD_SMTP_PASSWORD",
}

var classifyEnv = &classify.Env{
	RulesPath:          "SWITCHYARD_CLASSIFY_RULES_PATH",
	Extractor:          "SWITCHYARD_CLASSIFY_EXTRACTOR",
	RemoteURL:          "SWITCHYARD_CLASSIFY_REMOTE_URL",
	OnExtractorFailure: "SWITCHYARD_CLASSIFY_ON_EXTRACTOR_FAILURE",
}

// Config is the root configuration for the Switchyard service and worker.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	Queue           queue.Config    `toml:"queue"`
	LLM             llm.Config      `toml:"llm"`
	Graph           graph.Config    `toml:"graph"`
	Auth            auth.Config     `toml:"auth"`
	Notify          notify.Config   `toml:"smtp"`
	Classify        classify.Config `toml:"classify"`
	Worker          WorkerConfig    `toml:"worker"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the SWITCHYARD_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvSwitchyardEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Queue.Merge(&overlay.Queue)
	c.LLM.Merge(&overlay.LLM)
	c.Graph.Merge(&overlay.Graph)
	c.Auth.Merge(&overlay.Auth)
	c.Notify.Merge(&overlay.Notify)
	c.Classify.Merge(&overlay.Classify)
	c.Worker.Merge(&overlay.Worker)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Queue.Finalize(queueEnv); err != nil {
		return fmt.Errorf("queue: %w", err)
	}
	if err := c.LLM.Finalize(llmEnv); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if err := c.Graph.Finalize(graphEnv); err != nil {
		return fmt.Errorf("graph: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Notify.Finalize(notifyEnv); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	if err := c.Classify.Finalize(classifyEnv); err != nil {
		return fmt.Errorf("classify: %w", err)
	}
	if err := c.Worker.Finalize(); err != nil {
		return fmt.Errorf("worker: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvSwitchyardShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvSwitchyardVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvSwitchyardEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

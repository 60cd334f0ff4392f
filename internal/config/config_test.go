package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/switchyard-io/switchyard/internal/config"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "1m"
write_timeout = "15m"

[database]
host = "localhost"
port = 5432
name = "switchyard"
user = "switchyard"
password = "switchyard"

[storage]
container_name = "documents"
connection_string = "conn"

[api]
base_path = "/api"

[api.pagination]
default_page_size = 25
max_page_size = 50

[auth]
token_secret = "test-secret"

[llm]
api_key = "test-key"
`

const overlayConfig = `
[server]
port = 9090

[database]
host = "prodhost"
`

// minimalConfig provides the minimum fields required for validation to
// pass; everything else falls back to defaults.
const minimalConfig = `
[database]
name = "switchyard"
user = "switchyard"

[storage]
container_name = "documents"
connection_string = "conn"

[auth]
token_secret = "test-secret"

[llm]
api_key = "test-key"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("db host: got %s, want localhost", cfg.Database.Host)
	}
	if cfg.Storage.ContainerName != "documents" {
		t.Errorf("storage container: got %s, want documents", cfg.Storage.ContainerName)
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("api base_path: got %s, want /api", cfg.API.BasePath)
	}
	if cfg.API.Pagination.DefaultPageSize != 25 {
		t.Errorf("pagination default_page_size: got %d, want 25", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.Pagination.MaxPageSize != 50 {
		t.Errorf("pagination max_page_size: got %d, want 50", cfg.API.Pagination.MaxPageSize)
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	chdir(t, dir)

	t.Setenv("SWITCHYARD_ENV", "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090 (from overlay)", cfg.Server.Port)
	}
	if cfg.Database.Host != "prodhost" {
		t.Errorf("db host: got %s, want prodhost (from overlay)", cfg.Database.Host)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("db port: got %d, want 5432 (from base)", cfg.Database.Port)
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port default: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.ShutdownTimeout != "30s" {
		t.Errorf("shutdown_timeout default: got %s, want 30s", cfg.ShutdownTimeout)
	}
	if cfg.Queue.URL != "nats://127.0.0.1:4222" {
		t.Errorf("queue url default: got %s", cfg.Queue.URL)
	}
	if cfg.Queue.Subject != "documents.ingest" {
		t.Errorf("queue subject default: got %s", cfg.Queue.Subject)
	}
	if cfg.LLM.EmbedDimensions != 1024 {
		t.Errorf("embed dimensions default: got %d, want 1024", cfg.LLM.EmbedDimensions)
	}
	if cfg.Worker.MetricsAddr != ":9091" {
		t.Errorf("worker metrics addr default: got %s, want :9091", cfg.Worker.MetricsAddr)
	}
	if cfg.Worker.EmbedConcurrency != 4 {
		t.Errorf("worker embed concurrency default: got %d, want 4", cfg.Worker.EmbedConcurrency)
	}
	if cfg.Worker.SectionWindow != 6 || cfg.Worker.SectionOverlap != 2 {
		t.Errorf("section window/overlap defaults: got %d/%d, want 6/2",
			cfg.Worker.SectionWindow, cfg.Worker.SectionOverlap)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig)
	chdir(t, dir)

	t.Setenv("SWITCHYARD_DB_HOST", "envhost")
	t.Setenv("SWITCHYARD_SHUTDOWN_TIMEOUT", "45s")
	t.Setenv("SWITCHYARD_WORKER_EMBED_CONCURRENCY", "8")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Database.Host != "envhost" {
		t.Errorf("db host: got %s, want envhost", cfg.Database.Host)
	}
	if cfg.ShutdownTimeout != "45s" {
		t.Errorf("shutdown_timeout: got %s, want 45s", cfg.ShutdownTimeout)
	}
	if cfg.Worker.EmbedConcurrency != 8 {
		t.Errorf("worker embed concurrency: got %d, want 8", cfg.Worker.EmbedConcurrency)
	}
}

func TestLoadInvalidShutdownTimeout(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", strings.Replace(minimalConfig, `[database]`, "shutdown_timeout = \"banana\"\n[database]", 1))
	chdir(t, dir)

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for invalid shutdown_timeout")
	}
}

func TestLoadMissingRequired(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", `
[storage]
container_name = "documents"
connection_string = "conn"
`)
	chdir(t, dir)

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error for missing database name/user")
	}
	if !strings.Contains(err.Error(), "database") {
		t.Errorf("error should name the database section: %v", err)
	}
}

func TestShutdownTimeoutDuration(t *testing.T) {
	cfg := config.Config{ShutdownTimeout: "45s"}
	if d := cfg.ShutdownTimeoutDuration(); d != 45*time.Second {
		t.Errorf("duration: got %v, want 45s", d)
	}
}

func TestMerge(t *testing.T) {
	base := config.Config{Version: "1.0.0", ShutdownTimeout: "30s"}
	overlay := config.Config{Version: "2.0.0"}

	base.Merge(&overlay)

	if base.Version != "2.0.0" {
		t.Errorf("version: got %s, want 2.0.0", base.Version)
	}
	if base.ShutdownTimeout != "30s" {
		t.Errorf("shutdown_timeout: got %s, want 30s (unchanged)", base.ShutdownTimeout)
	}
}

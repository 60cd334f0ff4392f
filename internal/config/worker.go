package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvWorkerMetricsAddr      = "SWITCHYARD_WORKER_METRICS_ADDR"
	EnvWorkerEmbedConcurrency = "SWITCHYARD_WORKER_EMBED_CONCURRENCY"
)

// WorkerConfig holds ingestion worker parameters: the standalone metrics
// listener and the section chunking/embedding knobs.
type WorkerConfig struct {
	MetricsAddr      string `toml:"metrics_addr"`
	EmbedConcurrency int    `toml:"embed_concurrency"`
	SectionWindow    int    `toml:"section_window"`
	SectionOverlap   int    `toml:"section_overlap"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *WorkerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *WorkerConfig) Merge(overlay *WorkerConfig) {
	if overlay.MetricsAddr != "" {
		c.MetricsAddr = overlay.MetricsAddr
	}
	if overlay.EmbedConcurrency != 0 {
		c.EmbedConcurrency = overlay.EmbedConcurrency
	}
	if overlay.SectionWindow != 0 {
		c.SectionWindow = overlay.SectionWindow
	}
	if overlay.SectionOverlap != 0 {
		c.SectionOverlap = overlay.SectionOverlap
	}
}

func (c *WorkerConfig) loadDefaults() {
	if c.MetricsAddr == "" {
		c.MetricsAddr = ":9091"
	}
	if c.EmbedConcurrency == 0 {
		c.EmbedConcurrency = 4
	}
	if c.SectionWindow == 0 {
		c.SectionWindow = 6
	}
	if c.SectionOverlap == 0 {
		c.SectionOverlap = 2
	}
}

func (c *WorkerConfig) loadEnv() {
	if v := os.Getenv(EnvWorkerMetricsAddr); v != "" {
		c.MetricsAddr = v
	}
	if v := os.Getenv(EnvWorkerEmbedConcurrency); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.EmbedConcurrency = n
		}
	}
}

func (c *WorkerConfig) validate() error {
	if c.EmbedConcurrency < 1 {
		return fmt.Errorf("embed_concurrency must be positive")
	}
	if c.SectionWindow < 1 {
		return fmt.Errorf("section_window must be positive")
	}
	if c.SectionOverlap < 0 || c.SectionOverlap >= c.SectionWindow {
		return fmt.Errorf("section_overlap must be non-negative and below section_window")
	}
	return nil
}

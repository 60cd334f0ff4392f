package resilience

import "time"

// Config tunes retry and circuit breaker behavior for an Executor.
// Zero values fall back to the defaults applied by normalize.
type Config struct {
	RetryMaxAttempts    int     `toml:"retry_max_attempts"`
	RetryInitialBackoff string  `toml:"retry_initial_backoff"`
	RetryMaxBackoff     string  `toml:"retry_max_backoff"`
	RetryMultiplier     float64 `toml:"retry_multiplier"`

	BreakerEnabled          bool    `toml:"breaker_enabled"`
	BreakerMinRequests      uint32  `toml:"breaker_min_requests"`
	BreakerFailureRatio     float64 `toml:"breaker_failure_ratio"`
	BreakerOpenTimeout      string  `toml:"breaker_open_timeout"`
	BreakerHalfOpenMaxCalls uint32  `toml:"breaker_half_open_max_calls"`
}

// DefaultConfig returns the settings used when fields are unset: three
// attempts with doubling backoff and a breaker that trips at a 50%
// failure ratio.
func DefaultConfig() Config {
	return Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: "100ms",
		RetryMaxBackoff:     "2s",
		RetryMultiplier:     2.0,

		BreakerEnabled:          true,
		BreakerMinRequests:      10,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      "30s",
		BreakerHalfOpenMaxCalls: 2,
	}
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.RetryMaxAttempts != 0 {
		c.RetryMaxAttempts = overlay.RetryMaxAttempts
	}
	if overlay.RetryInitialBackoff != "" {
		c.RetryInitialBackoff = overlay.RetryInitialBackoff
	}
	if overlay.RetryMaxBackoff != "" {
		c.RetryMaxBackoff = overlay.RetryMaxBackoff
	}
	if overlay.RetryMultiplier != 0 {
		c.RetryMultiplier = overlay.RetryMultiplier
	}
	if overlay.BreakerEnabled {
		c.BreakerEnabled = true
	}
	if overlay.BreakerMinRequests != 0 {
		c.BreakerMinRequests = overlay.BreakerMinRequests
	}
	if overlay.BreakerFailureRatio != 0 {
		c.BreakerFailureRatio = overlay.BreakerFailureRatio
	}
	if overlay.BreakerOpenTimeout != "" {
		c.BreakerOpenTimeout = overlay.BreakerOpenTimeout
	}
	if overlay.BreakerHalfOpenMaxCalls != 0 {
		c.BreakerHalfOpenMaxCalls = overlay.BreakerHalfOpenMaxCalls
	}
}

// policy is the parsed, validated runtime form of Config.
type policy struct {
	retryMaxAttempts    int
	retryInitialBackoff time.Duration
	retryMaxBackoff     time.Duration
	retryMultiplier     float64

	breakerEnabled          bool
	breakerMinRequests      uint32
	breakerFailureRatio     float64
	breakerOpenTimeout      time.Duration
	breakerHalfOpenMaxCalls uint32
}

func (c Config) normalize() policy {
	def := DefaultConfig()

	p := policy{
		retryMaxAttempts:        c.RetryMaxAttempts,
		retryMultiplier:         c.RetryMultiplier,
		breakerEnabled:          c.BreakerEnabled,
		breakerMinRequests:      c.BreakerMinRequests,
		breakerFailureRatio:     c.BreakerFailureRatio,
		breakerHalfOpenMaxCalls: c.BreakerHalfOpenMaxCalls,
	}

	p.retryInitialBackoff = parseDuration(c.RetryInitialBackoff, def.RetryInitialBackoff)
	p.retryMaxBackoff = parseDuration(c.RetryMaxBackoff, def.RetryMaxBackoff)
	p.breakerOpenTimeout = parseDuration(c.BreakerOpenTimeout, def.BreakerOpenTimeout)

	if p.retryMaxAttempts <= 0 {
		p.retryMaxAttempts = def.RetryMaxAttempts
	}
	if p.retryMaxBackoff < p.retryInitialBackoff {
		p.retryMaxBackoff = p.retryInitialBackoff
	}
	if p.retryMultiplier < 1.0 {
		p.retryMultiplier = def.RetryMultiplier
	}
	if p.breakerMinRequests == 0 {
		p.breakerMinRequests = def.BreakerMinRequests
	}
	if p.breakerFailureRatio <= 0 || p.breakerFailureRatio > 1 {
		p.breakerFailureRatio = def.BreakerFailureRatio
	}
	if p.breakerHalfOpenMaxCalls == 0 {
		p.breakerHalfOpenMaxCalls = def.BreakerHalfOpenMaxCalls
	}

	return p
}

func parseDuration(raw string, fallback string) time.Duration {
	if raw == "" {
		raw = fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

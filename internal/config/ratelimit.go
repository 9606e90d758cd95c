package config

import "time"

// RateLimitConfig configures a token bucket. Capacity tokens are available
// up front and RefillTokens are added every RefillInterval.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
	Debug          bool
}

// LoadRateLimitConfig reads the limits for one audience. prefix selects the
// variable family, e.g. "PUBLIC" reads PUBLIC_RATE_LIMIT_CAPACITY.
func LoadRateLimitConfig(prefix string, capacity int, every time.Duration) RateLimitConfig {
	p := prefix + "_RATE_LIMIT_"
	cfg := RateLimitConfig{
		Enabled:        envBool(p+"ENABLED", true),
		Capacity:       envInt(p+"CAPACITY", capacity),
		RefillTokens:   envInt(p+"REFILL_TOKENS", 1),
		RefillInterval: envDur(p+"REFILL_INTERVAL", every),
		TTL:            envDur(p+"TTL", 10*time.Minute),
		Prefix:         getenv(p+"PREFIX", "rl:"+prefix),
		Debug:          envBool(p+"DEBUG", false),
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	if minTTL := 5 * cfg.RefillInterval; cfg.TTL < minTTL {
		cfg.TTL = minTTL
	}
	return cfg
}

package config

import (
	"log"
	"strings"
	"time"
)

// Rate limit bucket key strategies.
const (
	KeyByIP      = "ip"       // one bucket per client IP
	KeyByRoute   = "route"    // one bucket per method + route, shared by all clients
	KeyByIPRoute = "ip_route" // one bucket per client IP per route
)

// RateLimitConfig sizes the Redis token bucket placed in front of the API.
// A bucket holds Capacity tokens and regains RefillTokens every
// RefillInterval; idle buckets expire after TTL.  KeyStrategy chooses what a
// bucket is keyed on and is one of KeyByIP, KeyByRoute or KeyByIPRoute.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	KeyStrategy    string
	Prefix         string // Redis key prefix
	Debug          bool   // log limiter decisions and expose X-RateLimit-Key
}

// LoadRateLimitConfig reads RATE_LIMIT_* variables. The limiter is off
// unless RATE_LIMIT_ENABLED is set, since it needs a reachable Redis.
// Out-of-range numbers are raised to the smallest usable value.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        envBool("RATE_LIMIT_ENABLED", false),
		Capacity:       max(envInt("RATE_LIMIT_CAPACITY", 60), 1),
		RefillTokens:   max(envInt("RATE_LIMIT_REFILL_TOKENS", 1), 1),
		RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
		TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
		KeyStrategy:    keyStrategy(envStr("RATE_LIMIT_KEY_STRATEGY", KeyByIPRoute)),
		Prefix:         envStr("RATE_LIMIT_PREFIX", "rl"),
		Debug:          envBool("RATE_LIMIT_DEBUG", false),
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	// a bucket must outlive a few refills or it resets to full capacity
	cfg.TTL = max(cfg.TTL, 5*cfg.RefillInterval)
	return cfg
}

func keyStrategy(s string) string {
	switch s = strings.ToLower(strings.TrimSpace(s)); s {
	case KeyByIP, KeyByRoute, KeyByIPRoute:
		return s
	}
	log.Printf("config: unknown RATE_LIMIT_KEY_STRATEGY %q, using %q", s, KeyByIPRoute)
	return KeyByIPRoute
}

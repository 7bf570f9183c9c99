package config

import "time"

// CacheConfig drives the Redis response cache on the public browse
// routes.  Only GET responses are cached; KeyStrategy decides how much
// of the request shapes the key ("route", "route_query", or
// "route_query_user" for replies that differ per caller).
// MaxBodyBytes caps what gets stored so a huge map payload cannot
// bloat Redis.
type CacheConfig struct {
    Enabled      bool
    TTL          time.Duration
    KeyStrategy  string
    Prefix       string
    MaxBodyBytes int
}

// LoadCacheConfig reads the CACHE_* environment variables, falling
// back to defaults tuned for the map and timeslot endpoints: short
// TTL, route plus query keying.
func LoadCacheConfig() CacheConfig {
    cfg := CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        TTL:          envDur("CACHE_TTL", 30*time.Second),
        KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
        Prefix:       envStr("CACHE_PREFIX", "mkt:cache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
    }
    if cfg.TTL <= 0 {
        cfg.TTL = 30 * time.Second
    }
    return cfg
}

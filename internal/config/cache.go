package config

import "time"

// CacheConfig controls the club/court lookup cache. A zero TTL disables it;
// an empty RedisAddr keeps entries in process memory.
type CacheConfig struct {
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// WarmPlaces are prefetched every WarmInterval while the cache is enabled.
	WarmPlaces   []string
	WarmInterval time.Duration
}

// Enabled reports whether lookups should be cached at all.
func (c CacheConfig) Enabled() bool {
	return c.TTL > 0
}

func loadCache() CacheConfig {
	return CacheConfig{
		TTL:           durationEnvOrDefault(envCacheTTL, 0),
		RedisAddr:     envOrDefault(envRedisAddr, ""),
		RedisPassword: envOrDefault(envRedisPassword, ""),
		RedisDB:       intEnvOrDefault(envRedisDB, 0),
		WarmPlaces:    listEnv(envWarmPlaces),
		WarmInterval:  durationEnvOrDefault(envWarmInterval, defaultWarmInterval),
	}
}

// WarmingEnabled reports whether a background warmer should run.
func (c CacheConfig) WarmingEnabled() bool {
	return c.Enabled() && len(c.WarmPlaces) > 0
}

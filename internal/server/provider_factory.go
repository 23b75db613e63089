package server

import (
	"io"
	"log/slog"

	"github.com/preston-bernstein/court-availability-service/internal/cache"
	"github.com/preston-bernstein/court-availability-service/internal/config"
	"github.com/preston-bernstein/court-availability-service/internal/metrics"
	"github.com/preston-bernstein/court-availability-service/internal/providers"
)

// directoryChain is the decorated venue directory plus the handles the server
// needs for readiness and shutdown.
type directoryChain struct {
	directory providers.VenueDirectory
	breaker   *providers.BreakerDirectory
	closer    io.Closer
	name      string
}

// ready reports whether the upstream breaker lets calls through.
func (c directoryChain) ready() bool {
	if c.breaker == nil {
		return true
	}
	return c.breaker.Ready()
}

// Close releases the lookup cache, if any.
func (c directoryChain) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// providerFactory assembles the directory with shared wrappers: metrics, retry,
// rate limit, circuit breaker and lookup cache, innermost first.
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder) providerFactory {
	return providerFactory{logger: logger, metrics: metrics}
}

func (f providerFactory) build(cfg config.Config) directoryChain {
	return f.wrap(cfg, selectProvider(cfg, f.logger))
}

func (f providerFactory) wrap(cfg config.Config, base providers.VenueDirectory) directoryChain {
	name := normalizeProviderName(cfg.Provider, base)
	up := cfg.Upstream

	dir := providers.NewInstrumentedDirectory(base, f.metrics, f.logger, name)
	if up.RetryAttempts > 1 {
		dir = providers.NewRetryingDirectory(dir, f.logger, name, up.RetryAttempts, up.RetryBackoff)
	}
	if up.RateLimit > 0 {
		dir = providers.NewRateLimitedDirectory(dir, up.RateLimit, up.RateBurst, f.logger, name)
	}

	chain := directoryChain{name: name}
	if up.BreakerEnabled {
		chain.breaker = providers.NewBreakerDirectory(dir, f.logger, name)
		dir = chain.breaker
	}
	if cfg.Cache.Enabled() {
		store := buildCache(cfg.Cache, f.logger)
		dir = providers.NewCachingDirectory(dir, store, cfg.Cache.TTL, f.logger, name)
		chain.closer = store
	}
	chain.directory = dir
	return chain
}

func buildCache(cfg config.CacheConfig, logger *slog.Logger) cache.Cache {
	if cfg.RedisAddr == "" {
		if logger != nil {
			logger.Info("lookup cache enabled", slog.String("backend", "memory"), slog.Duration("ttl", cfg.TTL))
		}
		return cache.NewMemoryCache()
	}
	if logger != nil {
		logger.Info("lookup cache enabled",
			slog.String("backend", "redis"),
			slog.String("addr", cfg.RedisAddr),
			slog.Duration("ttl", cfg.TTL),
		)
	}
	return cache.NewRedisCache(cache.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

package config

import "time"

const (
	envPort               = "PORT"
	envProvider           = "PROVIDER"
	envAtcBaseURL         = "ATC_BASE_URL"
	envAtcTimeout         = "ATC_TIMEOUT"
	envMaxConcurrency     = "UPSTREAM_MAX_CONCURRENCY"
	envRetryAttempts      = "UPSTREAM_RETRY_ATTEMPTS"
	envRetryBackoff       = "UPSTREAM_RETRY_BACKOFF"
	envRateLimit          = "UPSTREAM_RATE_LIMIT"
	envRateBurst          = "UPSTREAM_RATE_BURST"
	envBreakerEnabled     = "UPSTREAM_BREAKER_ENABLED"
	envCacheTTL           = "CACHE_TTL"
	envRedisAddr          = "REDIS_ADDR"
	envRedisPassword      = "REDIS_PASSWORD"
	envRedisDB            = "REDIS_DB"
	envWarmPlaces         = "CACHE_WARM_PLACES"
	envWarmInterval       = "CACHE_WARM_INTERVAL"
	envMetricsPort        = "METRICS_PORT"
	envMetricsOn          = "METRICS_ENABLED"
	envOtelEndpoint       = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService        = "OTEL_SERVICE_NAME"
	envOtelInsecure       = "OTEL_EXPORTER_OTLP_INSECURE"
	envLogLevel           = "LOG_LEVEL"
	envLogFormat          = "LOG_FORMAT"
	defaultServiceName    = "court-availability-service"
	defaultPort           = "3000"
	defaultProvider       = ProviderAlquilaTuCancha
	defaultAtcBaseURL     = "http://localhost:4000"
	defaultAtcTimeout     = 5 * time.Second
	defaultRetryAttempts  = 1
	defaultRetryBackoff   = 200 * time.Millisecond
	defaultRateBurst      = 10
	defaultBreakerEnabled = true
	defaultMetricsPort    = "9090"
	defaultWarmInterval   = 5 * time.Minute
	defaultLogLevel       = "info"
	defaultLogFormat      = "text"
)

// Supported directory providers.
const (
	ProviderAlquilaTuCancha = "alquilatucancha"
	ProviderFixture         = "fixture"
)

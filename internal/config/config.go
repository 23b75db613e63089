package config

// Config holds runtime configuration for the server.
type Config struct {
	Port     string
	Provider string
	Upstream UpstreamConfig
	Cache    CacheConfig
	Metrics  MetricsConfig
	Log      LogConfig
}

// LogConfig selects logger level and output format.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:     envOrDefault(envPort, defaultPort),
		Provider: envOrDefault(envProvider, defaultProvider),
		Upstream: loadUpstream(),
		Cache:    loadCache(),
		Metrics:  loadMetrics(),
		Log: LogConfig{
			Level:  envOrDefault(envLogLevel, defaultLogLevel),
			Format: envOrDefault(envLogFormat, defaultLogFormat),
		},
	}
}

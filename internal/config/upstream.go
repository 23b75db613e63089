package config

import "time"

// UpstreamConfig controls how we talk to the venue directory API and how hard we lean on it.
type UpstreamConfig struct {
	BaseURL        string
	Timeout        time.Duration
	MaxConcurrency int // per fan-out batch; 0 means unlimited
	RetryAttempts  int // 1 disables retries
	RetryBackoff   time.Duration
	RateLimit      float64 // requests per second; 0 means unlimited
	RateBurst      int
	BreakerEnabled bool
}

func loadUpstream() UpstreamConfig {
	return UpstreamConfig{
		BaseURL:        envOrDefault(envAtcBaseURL, defaultAtcBaseURL),
		Timeout:        durationEnvOrDefault(envAtcTimeout, defaultAtcTimeout),
		MaxConcurrency: intEnvOrDefault(envMaxConcurrency, 0),
		RetryAttempts:  intEnvOrDefault(envRetryAttempts, defaultRetryAttempts),
		RetryBackoff:   durationEnvOrDefault(envRetryBackoff, defaultRetryBackoff),
		RateLimit:      floatEnvOrDefault(envRateLimit, 0),
		RateBurst:      intEnvOrDefault(envRateBurst, defaultRateBurst),
		BreakerEnabled: boolEnvOrDefault(envBreakerEnabled, defaultBreakerEnabled),
	}
}

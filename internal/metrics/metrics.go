package metrics

import (
	"sync"
	"time"
)

type providerStats struct {
	calls           int
	errors          int
	rateLimitHits   int
	lastRetryAfter  time.Duration
	lastCallLatency time.Duration
	operations      map[string]int
}

type warmStats struct {
	cycles   int
	failures int
}

type aggregationStats struct {
	runs      int
	failures  int
	lastClubs int
}

// Recorder captures lightweight, in-memory metrics about upstream calls and
// aggregations, mirroring them into OpenTelemetry instruments when configured.
type Recorder struct {
	mu          sync.Mutex
	stats       map[string]*providerStats
	aggregation aggregationStats
	warm        warmStats
	otel        *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: make(map[string]*providerStats),
		otel:  otel,
	}
}

// RecordProviderAttempt increments counters for one upstream call and stores the last observed latency.
func (r *Recorder) RecordProviderAttempt(provider, operation string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	stats := r.ensureStats(provider)
	stats.calls++
	stats.operations[operation]++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordProviderAttempt(provider, operation, duration, err)
	}
}

// RecordRateLimit tracks that a provider response hit a rate limit and stores the last Retry-After.
func (r *Recorder) RecordRateLimit(provider string, retryAfter time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	stats := r.ensureStats(provider)
	stats.rateLimitHits++
	if retryAfter > 0 {
		stats.lastRetryAfter = retryAfter
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRateLimit(provider, retryAfter)
	}
}

// RecordAggregation tracks one availability search: its latency, outcome and
// how many clubs it returned.
func (r *Recorder) RecordAggregation(duration time.Duration, clubs int, outcome string, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.aggregation.runs++
	r.aggregation.lastClubs = clubs
	if err != nil {
		r.aggregation.failures++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordAggregation(duration, clubs, outcome)
	}
}

// RecordWarmCycle tracks one cache warming pass.
func (r *Recorder) RecordWarmCycle(duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.warm.cycles++
	if err != nil {
		r.warm.failures++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordWarmCycle(duration, err)
	}
}

// WarmCycles returns the recorded warming passes and how many failed.
func (r *Recorder) WarmCycles() (cycles, failures int) {
	if r == nil {
		return 0, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.warm.cycles, r.warm.failures
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// ProviderCalls returns the total attempts recorded for a provider.
func (r *Recorder) ProviderCalls(provider string) int {
	return r.Snapshot(provider).Calls
}

// ProviderErrors returns the total failed attempts recorded for a provider.
func (r *Recorder) ProviderErrors(provider string) int {
	return r.Snapshot(provider).Errors
}

// OperationCalls returns the attempts recorded for one provider operation.
func (r *Recorder) OperationCalls(provider, operation string) int {
	return r.Snapshot(provider).Operations[operation]
}

// RateLimitHits returns the number of rate limit events seen for a provider.
func (r *Recorder) RateLimitHits(provider string) int {
	return r.Snapshot(provider).RateLimitHits
}

// LastRetryAfter returns the most recent Retry-After recorded for a provider.
func (r *Recorder) LastRetryAfter(provider string) time.Duration {
	return r.Snapshot(provider).LastRetryAfter
}

// LastCallLatency returns the last recorded latency for a provider call.
func (r *Recorder) LastCallLatency(provider string) time.Duration {
	return r.Snapshot(provider).LastCallLatency
}

// Snapshot returns a copy of the current stats for the provider.
type Snapshot struct {
	Calls           int
	Errors          int
	RateLimitHits   int
	LastRetryAfter  time.Duration
	LastCallLatency time.Duration
	Operations      map[string]int
}

func (r *Recorder) Snapshot(provider string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stats, ok := r.stats[provider]
	if !ok || stats == nil {
		return Snapshot{}
	}
	ops := make(map[string]int, len(stats.operations))
	for op, n := range stats.operations {
		ops[op] = n
	}
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		RateLimitHits:   stats.rateLimitHits,
		LastRetryAfter:  stats.lastRetryAfter,
		LastCallLatency: stats.lastCallLatency,
		Operations:      ops,
	}
}

// AggregationSnapshot summarizes recorded availability searches.
type AggregationSnapshot struct {
	Runs      int
	Failures  int
	LastClubs int
}

func (r *Recorder) Aggregations() AggregationSnapshot {
	if r == nil {
		return AggregationSnapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return AggregationSnapshot{
		Runs:      r.aggregation.runs,
		Failures:  r.aggregation.failures,
		LastClubs: r.aggregation.lastClubs,
	}
}

// ensureStats must be called with r.mu held.
func (r *Recorder) ensureStats(provider string) *providerStats {
	stats, ok := r.stats[provider]
	if !ok {
		stats = &providerStats{operations: make(map[string]int)}
		r.stats[provider] = stats
	}
	return stats
}

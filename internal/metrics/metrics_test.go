package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestRecorderTracksProviderAttemptsAndErrors(t *testing.T) {
	rec := NewRecorder()

	rec.RecordProviderAttempt("alquilatucancha", "list_clubs", 10*time.Millisecond, nil)
	rec.RecordProviderAttempt("alquilatucancha", "list_courts", 15*time.Millisecond, errors.New("boom"))
	rec.RecordProviderAttempt("alquilatucancha", "list_courts", 5*time.Millisecond, nil)

	if got := rec.ProviderCalls("alquilatucancha"); got != 3 {
		t.Fatalf("expected 3 calls, got %d", got)
	}
	if got := rec.ProviderErrors("alquilatucancha"); got != 1 {
		t.Fatalf("expected 1 error, got %d", got)
	}
	if got := rec.OperationCalls("alquilatucancha", "list_courts"); got != 2 {
		t.Fatalf("expected 2 list_courts calls, got %d", got)
	}
	if got := rec.LastCallLatency("alquilatucancha"); got != 5*time.Millisecond {
		t.Fatalf("expected last latency to be 5ms, got %s", got)
	}

	snap := rec.Snapshot("alquilatucancha")
	snap.Operations["list_clubs"] = 99
	if rec.OperationCalls("alquilatucancha", "list_clubs") != 1 {
		t.Fatal("expected snapshot operations to be a copy")
	}
}

func TestRecorderTracksRateLimits(t *testing.T) {
	rec := NewRecorder()

	rec.RecordRateLimit("alquilatucancha", 5*time.Second)
	rec.RecordRateLimit("alquilatucancha", 0)

	if got := rec.RateLimitHits("alquilatucancha"); got != 2 {
		t.Fatalf("expected 2 rate limit hits, got %d", got)
	}
	if got := rec.LastRetryAfter("alquilatucancha"); got != 5*time.Second {
		t.Fatalf("expected last retry-after to be 5s, got %s", got)
	}
}

func TestRecorderTracksAggregations(t *testing.T) {
	rec := NewRecorder()

	rec.RecordAggregation(time.Millisecond, 3, "ok", nil)
	rec.RecordAggregation(time.Millisecond, 0, "not_found", errors.New("none"))

	agg := rec.Aggregations()
	if agg.Runs != 2 || agg.Failures != 1 || agg.LastClubs != 0 {
		t.Fatalf("unexpected aggregation snapshot %+v", agg)
	}
}

func TestRecorderTracksWarmCycles(t *testing.T) {
	rec := NewRecorder()
	rec.RecordWarmCycle(time.Millisecond, nil)
	rec.RecordWarmCycle(time.Millisecond, errors.New("upstream down"))

	if cycles, failures := rec.WarmCycles(); cycles != 2 || failures != 1 {
		t.Fatalf("expected 2 cycles and 1 failure, got %d/%d", cycles, failures)
	}
}

func TestRecorderIsSafeForConcurrentFanOut(t *testing.T) {
	rec := NewRecorder()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec.RecordProviderAttempt("fixture", "list_slots", time.Millisecond, nil)
		}()
	}
	wg.Wait()

	if got := rec.OperationCalls("fixture", "list_slots"); got != 50 {
		t.Fatalf("expected 50 calls, got %d", got)
	}
}

func TestNilRecorderIsNoop(t *testing.T) {
	var rec *Recorder
	rec.RecordProviderAttempt("p", "op", time.Millisecond, nil)
	rec.RecordRateLimit("p", time.Second)
	rec.RecordAggregation(time.Millisecond, 1, "ok", nil)
	rec.RecordHTTPRequest("GET", "/search", 200, time.Millisecond)
	rec.RecordWarmCycle(time.Millisecond, nil)
	if cycles, _ := rec.WarmCycles(); cycles != 0 {
		t.Fatal("expected no warm cycles from nil recorder")
	}
	if rec.ProviderCalls("p") != 0 || rec.Aggregations().Runs != 0 {
		t.Fatal("expected zero values from nil recorder")
	}
}

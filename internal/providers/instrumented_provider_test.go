package providers

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/court-availability-service/internal/apperr"
	"github.com/preston-bernstein/court-availability-service/internal/domain/venues"
	"github.com/preston-bernstein/court-availability-service/internal/metrics"
)

func TestInstrumentedDirectoryRecordsCallsPerOperation(t *testing.T) {
	rec := metrics.NewRecorder()
	logger, buf := bufferLogger()
	inner := &scriptedDirectory{
		clubs: func(string) ([]venues.Club, error) { return []venues.Club{{ID: 1}, {ID: 2}}, nil },
		courts: func(int) ([]venues.Court, error) {
			return nil, apperr.Unavailable("Service Unavailable", nil)
		},
	}
	d := NewInstrumentedDirectory(inner, rec, logger, "atc")

	if _, err := d.ListClubs(context.Background(), "p1"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if _, err := d.ListCourts(context.Background(), 1); err == nil {
		t.Fatal("expected courts failure")
	}
	_, _ = d.ListAvailableSlots(context.Background(), 1, 2, time.Date(2022, 12, 5, 0, 0, 0, 0, time.UTC))

	if rec.ProviderCalls("atc") != 3 || rec.ProviderErrors("atc") != 1 {
		t.Fatalf("unexpected totals %+v", rec.Snapshot("atc"))
	}
	if rec.OperationCalls("atc", OpListClubs) != 1 || rec.OperationCalls("atc", OpListSlots) != 1 {
		t.Fatalf("unexpected per-operation counts %+v", rec.Snapshot("atc"))
	}

	out := buf.String()
	if !strings.Contains(out, "provider call failed") || !strings.Contains(out, "operation=list_courts") {
		t.Fatalf("expected failure log, got %q", out)
	}
	if !strings.Contains(out, "count=2") || !strings.Contains(out, "date=2022-12-05") {
		t.Fatalf("expected success logs with count and date, got %q", out)
	}
}

func TestInstrumentedDirectoryRecordsRateLimits(t *testing.T) {
	rec := metrics.NewRecorder()
	inner := &scriptedDirectory{
		clubs: func(string) ([]venues.Club, error) {
			return nil, apperr.Unavailable("Service Unavailable", &RateLimitError{
				Provider:   "atc",
				StatusCode: 429,
				RetryAfter: 3 * time.Second,
			})
		},
	}
	d := NewInstrumentedDirectory(inner, rec, nil, "atc")

	if _, err := d.ListClubs(context.Background(), "p1"); err == nil {
		t.Fatal("expected error")
	}
	if rec.RateLimitHits("atc") != 1 || rec.LastRetryAfter("atc") != 3*time.Second {
		t.Fatalf("expected rate limit recorded, got %+v", rec.Snapshot("atc"))
	}
}

func TestInstrumentedDirectoryToleratesNilRecorder(t *testing.T) {
	d := NewInstrumentedDirectory(&scriptedDirectory{}, nil, nil, "atc")
	if _, err := d.ListCourts(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestInstrumentedDirectorySkipsMetricsForAbandonedCalls(t *testing.T) {
	rec := metrics.NewRecorder()
	logger, buf := bufferLogger()
	ctx, cancel := context.WithCancel(context.Background())
	inner := &scriptedDirectory{
		courts: func(int) ([]venues.Court, error) {
			cancel()
			return nil, apperr.Unavailable("Service Unavailable", context.Canceled)
		},
	}
	d := NewInstrumentedDirectory(inner, rec, logger, "atc")

	if _, err := d.ListCourts(ctx, 7); err == nil {
		t.Fatal("expected abandoned call to return its error")
	}
	if rec.ProviderCalls("atc") != 0 || rec.ProviderErrors("atc") != 0 {
		t.Fatalf("expected no provider metrics, got %+v", rec.Snapshot("atc"))
	}
	out := buf.String()
	if strings.Contains(out, "provider call failed") || !strings.Contains(out, "provider call abandoned") {
		t.Fatalf("expected debug abandon log only, got %q", out)
	}
}

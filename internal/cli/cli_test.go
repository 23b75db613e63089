package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/preston-bernstein/court-availability-service/internal/apperr"
	"github.com/preston-bernstein/court-availability-service/internal/config"
	"github.com/preston-bernstein/court-availability-service/internal/domain/venues"
	"github.com/preston-bernstein/court-availability-service/internal/providers/fixture"
	"github.com/preston-bernstein/court-availability-service/internal/testutil"
)

type stubSearcher struct {
	clubs []venues.ClubWithAvailability
	err   error
	got   venues.AvailabilityQuery
}

func (s *stubSearcher) Search(_ context.Context, q venues.AvailabilityQuery) ([]venues.ClubWithAvailability, error) {
	s.got = q
	return s.clubs, s.err
}

type closeCounter struct{ n int }

func (c *closeCounter) Close() error { c.n++; return nil }

func execute(t *testing.T, factory SearcherFactory, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand("test", factory)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func sampleResult() []venues.ClubWithAvailability {
	court := venues.NewCourtWithAvailability(testutil.SampleCourt(10), []venues.Slot{testutil.SampleSlot("08:00"), testutil.SampleSlot("09:00")})
	return []venues.ClubWithAvailability{venues.NewClubWithAvailability(testutil.SampleClub(1), []venues.CourtWithAvailability{court})}
}

func TestSearchPrintsTable(t *testing.T) {
	stub := &stubSearcher{clubs: sampleResult()}
	closer := &closeCounter{}
	factory := func(config.Config, *slog.Logger) (Searcher, io.Closer) { return stub, closer }

	out, err := execute(t, factory, "search", "--place-id", "place-1", "--date", "2022-08-25")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.got.PlaceID != "place-1" || stub.got.Date.Format("2006-01-02") != "2022-08-25" {
		t.Fatalf("unexpected query %+v", stub.got)
	}
	if !strings.Contains(out, "FREE SLOTS") || !strings.Contains(out, "Club 1") || !strings.Contains(out, "Court 10") {
		t.Fatalf("unexpected table output:\n%s", out)
	}
	if closer.n != 1 {
		t.Fatalf("expected closer to run once, got %d", closer.n)
	}
}

func TestSearchPrintsJSON(t *testing.T) {
	stub := &stubSearcher{clubs: sampleResult()}
	factory := func(config.Config, *slog.Logger) (Searcher, io.Closer) { return stub, nil }

	out, err := execute(t, factory, "search", "-p", "place-1", "-d", "2022-08-25", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("expected JSON output, got %v:\n%s", err, out)
	}
	courts, _ := decoded[0]["courts"].([]any)
	if len(decoded) != 1 || len(courts) != 1 {
		t.Fatalf("unexpected JSON shape %v", decoded)
	}
}

func TestSearchPassesInvalidDateAsZero(t *testing.T) {
	stub := &stubSearcher{err: apperr.InvalidRequest("Invalid date format")}
	factory := func(config.Config, *slog.Logger) (Searcher, io.Closer) { return stub, nil }

	_, err := execute(t, factory, "search", "--place-id", "p", "--date", "25/08/2022")
	if err == nil || err.Error() != "Invalid date format" {
		t.Fatalf("expected service error, got %v", err)
	}
	if !stub.got.Date.IsZero() {
		t.Fatalf("expected zero date, got %v", stub.got.Date)
	}
}

func TestSearchRequiresPlaceID(t *testing.T) {
	factory := func(config.Config, *slog.Logger) (Searcher, io.Closer) {
		t.Fatalf("factory should not run without a place id")
		return nil, nil
	}
	if _, err := execute(t, factory, "search", "--date", "2022-08-25"); err == nil {
		t.Fatalf("expected missing flag error")
	}
}

func TestSearchProviderOverride(t *testing.T) {
	t.Setenv("PROVIDER", "alquilatucancha")
	var got config.Config
	factory := func(cfg config.Config, _ *slog.Logger) (Searcher, io.Closer) {
		got = cfg
		return &stubSearcher{}, nil
	}
	if _, err := execute(t, factory, "search", "-p", "p", "-d", "2022-08-25", "--provider", "fixture"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Provider != "fixture" || got.Metrics.Enabled {
		t.Fatalf("expected fixture provider with metrics off, got %+v", got)
	}
}

func TestSearchAgainstFixtureDirectory(t *testing.T) {
	out, err := execute(t, defaultFactory, "search", "-p", fixture.PlaceID, "-d", "2022-08-25", "--provider", "fixture")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Club Norte") || strings.Contains(out, "Club Centro") {
		t.Fatalf("expected clubs with courts only:\n%s", out)
	}
}

func TestSearchSurfacesUpstreamErrors(t *testing.T) {
	boom := errors.New("boom")
	factory := func(config.Config, *slog.Logger) (Searcher, io.Closer) { return &stubSearcher{err: boom}, nil }
	if _, err := execute(t, factory, "search", "-p", "p", "-d", "2022-08-25"); !errors.Is(err, boom) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestAttributeText(t *testing.T) {
	attrs := venues.Attributes{"name": json.RawMessage(`"Norte"`), "n": json.RawMessage(`42`)}
	if got := attributeText(attrs, "name"); got != "Norte" {
		t.Fatalf("expected string attribute, got %q", got)
	}
	if got := attributeText(attrs, "n"); got != "42" {
		t.Fatalf("expected raw attribute, got %q", got)
	}
	if got := attributeText(attrs, "missing"); got != "-" {
		t.Fatalf("expected placeholder, got %q", got)
	}
}

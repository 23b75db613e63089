package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/preston-bernstein/court-availability-service/internal/domain/venues"
	"github.com/preston-bernstein/court-availability-service/internal/logging"
	"github.com/preston-bernstein/court-availability-service/internal/metrics"
	"github.com/preston-bernstein/court-availability-service/internal/timeutil"
)

// instrumentedDirectory records per-call metrics and logs upstream failures.
type instrumentedDirectory struct {
	inner    VenueDirectory
	recorder *metrics.Recorder
	logger   *slog.Logger
	provider string
	now      func() time.Time
}

// NewInstrumentedDirectory wraps inner so every upstream call is measured under the given provider name.
func NewInstrumentedDirectory(inner VenueDirectory, recorder *metrics.Recorder, logger *slog.Logger, provider string) VenueDirectory {
	return &instrumentedDirectory{
		inner:    inner,
		recorder: recorder,
		logger:   logger,
		provider: provider,
		now:      time.Now,
	}
}

func (d *instrumentedDirectory) ListClubs(ctx context.Context, placeID string) ([]venues.Club, error) {
	start := d.now()
	clubs, err := d.inner.ListClubs(ctx, placeID)
	d.observe(ctx, OpListClubs, start, len(clubs), err, slog.String(logging.FieldPlaceID, placeID))
	return clubs, err
}

func (d *instrumentedDirectory) ListCourts(ctx context.Context, clubID int) ([]venues.Court, error) {
	start := d.now()
	courts, err := d.inner.ListCourts(ctx, clubID)
	d.observe(ctx, OpListCourts, start, len(courts), err, slog.Int(logging.FieldClubID, clubID))
	return courts, err
}

func (d *instrumentedDirectory) ListAvailableSlots(ctx context.Context, clubID, courtID int, date time.Time) ([]venues.Slot, error) {
	start := d.now()
	slots, err := d.inner.ListAvailableSlots(ctx, clubID, courtID, date)
	d.observe(ctx, OpListSlots, start, len(slots), err,
		slog.Int(logging.FieldClubID, clubID),
		slog.Int(logging.FieldCourtID, courtID),
		slog.String(logging.FieldDate, timeutil.FormatDate(date)),
	)
	return slots, err
}

// observe skips metrics for abandoned calls; they are not upstream outcomes.
func (d *instrumentedDirectory) observe(ctx context.Context, op string, start time.Time, count int, err error, attrs ...any) {
	elapsed := d.now().Sub(start)
	attrs = append(attrs,
		slog.String(logging.FieldOperation, op),
		slog.Int64(logging.FieldDurationMS, elapsed.Milliseconds()),
	)
	if Abandoned(ctx, err) {
		logWithProvider(ctx, d.logger, slog.LevelDebug, d.provider, "provider call abandoned", append(attrs, "error", err)...)
		return
	}

	d.recorder.RecordProviderAttempt(d.provider, op, elapsed, err)
	if rl, ok := AsRateLimitError(err); ok {
		d.recorder.RecordRateLimit(d.provider, rl.RetryAfter)
	}
	if err != nil {
		logWithProvider(ctx, d.logger, slog.LevelWarn, d.provider, "provider call failed", append(attrs, "error", err)...)
		return
	}
	logWithProvider(ctx, d.logger, slog.LevelDebug, d.provider, "provider call complete", append(attrs, slog.Int(logging.FieldCount, count))...)
}

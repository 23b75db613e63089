package providers

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/preston-bernstein/court-availability-service/internal/apperr"
	"github.com/preston-bernstein/court-availability-service/internal/domain/venues"
)

// rateLimitedDirectory holds every upstream call behind a shared token bucket
// so a wide fan-out cannot exceed the upstream quota.
type rateLimitedDirectory struct {
	next     VenueDirectory
	limiter  *rate.Limiter
	logger   *slog.Logger
	provider string
}

// NewRateLimitedDirectory returns a VenueDirectory allowing at most rps calls per second
// with the given burst. A non-positive rps disables limiting.
func NewRateLimitedDirectory(next VenueDirectory, rps float64, burst int, logger *slog.Logger, provider string) VenueDirectory {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	if burst <= 0 {
		burst = 1
	}
	return &rateLimitedDirectory{
		next:     next,
		limiter:  rate.NewLimiter(limit, burst),
		logger:   logger,
		provider: provider,
	}
}

func (d *rateLimitedDirectory) ListClubs(ctx context.Context, placeID string) ([]venues.Club, error) {
	if err := d.wait(ctx, OpListClubs); err != nil {
		return nil, err
	}
	return d.next.ListClubs(ctx, placeID)
}

func (d *rateLimitedDirectory) ListCourts(ctx context.Context, clubID int) ([]venues.Court, error) {
	if err := d.wait(ctx, OpListCourts); err != nil {
		return nil, err
	}
	return d.next.ListCourts(ctx, clubID)
}

func (d *rateLimitedDirectory) ListAvailableSlots(ctx context.Context, clubID, courtID int, date time.Time) ([]venues.Slot, error) {
	if err := d.wait(ctx, OpListSlots); err != nil {
		return nil, err
	}
	return d.next.ListAvailableSlots(ctx, clubID, courtID, date)
}

func (d *rateLimitedDirectory) wait(ctx context.Context, op string) error {
	if err := d.limiter.Wait(ctx); err != nil {
		level := slog.LevelWarn
		if Abandoned(ctx, err) {
			level = slog.LevelDebug
		}
		logWithProvider(ctx, d.logger, level, d.provider, "rate-limited fetch canceled", "operation", op, "error", err)
		return apperr.Unavailable(msgServiceUnavailable, err)
	}
	return nil
}

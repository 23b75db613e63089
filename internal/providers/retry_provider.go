package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/preston-bernstein/court-availability-service/internal/apperr"
	"github.com/preston-bernstein/court-availability-service/internal/domain/venues"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
)

// retryingDirectory retries Unavailable failures with exponential backoff.
// Parameter and not-found rejections are returned on the first attempt.
type retryingDirectory struct {
	inner       VenueDirectory
	logger      *slog.Logger
	provider    string
	maxAttempts int
	newBackOff  func() backoff.BackOff
}

// NewRetryingDirectory wraps the given directory with retries. If maxAttempts/backoff are <= 0, defaults are used.
func NewRetryingDirectory(inner VenueDirectory, logger *slog.Logger, provider string, maxAttempts int, initial time.Duration) VenueDirectory {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if initial <= 0 {
		initial = defaultBackoff
	}
	return &retryingDirectory{
		inner:       inner,
		logger:      logger,
		provider:    provider,
		maxAttempts: maxAttempts,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = initial
			b.MaxElapsedTime = 0
			return b
		},
	}
}

func (r *retryingDirectory) ListClubs(ctx context.Context, placeID string) ([]venues.Club, error) {
	return withRetry(ctx, r, OpListClubs, func() ([]venues.Club, error) {
		return r.inner.ListClubs(ctx, placeID)
	})
}

func (r *retryingDirectory) ListCourts(ctx context.Context, clubID int) ([]venues.Court, error) {
	return withRetry(ctx, r, OpListCourts, func() ([]venues.Court, error) {
		return r.inner.ListCourts(ctx, clubID)
	})
}

func (r *retryingDirectory) ListAvailableSlots(ctx context.Context, clubID, courtID int, date time.Time) ([]venues.Slot, error) {
	return withRetry(ctx, r, OpListSlots, func() ([]venues.Slot, error) {
		return r.inner.ListAvailableSlots(ctx, clubID, courtID, date)
	})
}

func withRetry[T any](ctx context.Context, r *retryingDirectory, op string, call func() (T, error)) (T, error) {
	policy := backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), uint64(r.maxAttempts-1)), ctx)

	attempt := 0
	result, err := backoff.RetryNotifyWithData(func() (T, error) {
		attempt++
		res, err := call()
		if err != nil && !apperr.Is(err, apperr.KindUnavailable) {
			return res, backoff.Permanent(err)
		}
		return res, err
	}, policy, func(err error, wait time.Duration) {
		logWithProvider(ctx, r.logger, slog.LevelWarn, r.provider, "provider fetch retry",
			"operation", op,
			"attempt", attempt,
			"max_attempts", r.maxAttempts,
			"backoff_ms", wait.Milliseconds(),
			"error", err,
		)
	})
	if err != nil && attempt > 1 {
		logWithProvider(ctx, r.logger, slog.LevelWarn, r.provider, "provider fetch failed",
			"operation", op,
			"attempts", attempt,
			"error", err,
		)
	}
	return result, err
}

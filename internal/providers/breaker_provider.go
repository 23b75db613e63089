package providers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/preston-bernstein/court-availability-service/internal/apperr"
	"github.com/preston-bernstein/court-availability-service/internal/domain/venues"
)

const (
	breakerMaxHalfOpen  = 5
	breakerInterval     = 30 * time.Second
	breakerOpenTimeout  = 10 * time.Second
	breakerTripFailures = 5
	breakerOpenMessage  = "Upstream circuit open"
)

// BreakerDirectory stops calling an upstream that keeps failing. Only
// Unavailable failures count against it; rejected parameters are the caller's
// fault and abandoned calls say nothing about upstream health.
type BreakerDirectory struct {
	next     VenueDirectory
	cb       *gobreaker.CircuitBreaker
	logger   *slog.Logger
	provider string
}

// NewBreakerDirectory wraps next with a circuit breaker named after the provider.
func NewBreakerDirectory(next VenueDirectory, logger *slog.Logger, provider string) *BreakerDirectory {
	d := &BreakerDirectory{next: next, logger: logger, provider: provider}
	d.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        provider,
		MaxRequests: breakerMaxHalfOpen,
		Interval:    breakerInterval,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTripFailures
		},
		IsSuccessful: func(err error) bool {
			var abandoned abandonedCall
			if errors.As(err, &abandoned) {
				return true
			}
			return err == nil || !apperr.Is(err, apperr.KindUnavailable)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logWithProvider(context.Background(), d.logger, slog.LevelWarn, d.provider, "circuit breaker state change",
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
	return d
}

// State reports the current breaker state.
func (d *BreakerDirectory) State() gobreaker.State {
	return d.cb.State()
}

// Ready reports whether upstream calls are currently allowed through.
func (d *BreakerDirectory) Ready() bool {
	return d.cb.State() != gobreaker.StateOpen
}

func (d *BreakerDirectory) ListClubs(ctx context.Context, placeID string) ([]venues.Club, error) {
	return throughBreaker(ctx, d, func() ([]venues.Club, error) {
		return d.next.ListClubs(ctx, placeID)
	})
}

func (d *BreakerDirectory) ListCourts(ctx context.Context, clubID int) ([]venues.Court, error) {
	return throughBreaker(ctx, d, func() ([]venues.Court, error) {
		return d.next.ListCourts(ctx, clubID)
	})
}

func (d *BreakerDirectory) ListAvailableSlots(ctx context.Context, clubID, courtID int, date time.Time) ([]venues.Slot, error) {
	return throughBreaker(ctx, d, func() ([]venues.Slot, error) {
		return d.next.ListAvailableSlots(ctx, clubID, courtID, date)
	})
}

// abandonedCall carries an error through the breaker without counting it as a failure.
type abandonedCall struct{ err error }

func (a abandonedCall) Error() string { return a.err.Error() }

func throughBreaker[T any](ctx context.Context, d *BreakerDirectory, call func() (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, apperr.Unavailable(msgServiceUnavailable, err)
	}
	res, err := d.cb.Execute(func() (interface{}, error) {
		out, err := call()
		if Abandoned(ctx, err) {
			return out, abandonedCall{err: err}
		}
		return out, err
	})
	var abandoned abandonedCall
	if errors.As(err, &abandoned) {
		return zero, abandoned.err
	}
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, apperr.Unavailable(breakerOpenMessage, err)
		}
		return zero, err
	}
	out, _ := res.(T)
	return out, nil
}

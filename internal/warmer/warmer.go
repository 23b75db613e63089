// Package warmer keeps club and court lookups for busy places in the cache
// by refetching and rewriting them through the caching directory on an interval.
package warmer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/court-availability-service/internal/logging"
	"github.com/preston-bernstein/court-availability-service/internal/metrics"
	"github.com/preston-bernstein/court-availability-service/internal/providers"
)

const defaultInterval = 5 * time.Minute

// Warmer refreshes clubs and courts for a fixed set of places.
type Warmer struct {
	directory providers.VenueDirectory
	places    []string
	logger    *slog.Logger
	metrics   *metrics.Recorder
	interval  time.Duration

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the warming loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// New constructs a Warmer. A non-positive interval uses the default.
func New(directory providers.VenueDirectory, places []string, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *Warmer {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Warmer{
		directory: directory,
		places:    append([]string(nil), places...),
		logger:    logger,
		metrics:   recorder,
		interval:  interval,
		done:      make(chan struct{}),
	}
}

// Start runs one pass immediately, then one per interval until the context
// is cancelled or Stop is called.
func (w *Warmer) Start(ctx context.Context) {
	w.startMu.Lock()
	if w.started {
		w.startMu.Unlock()
		return
	}
	w.started = true
	w.startMu.Unlock()

	w.ticker = time.NewTicker(w.interval)

	go func() {
		w.logInfo("cache warmer started",
			slog.Int("places", len(w.places)),
			slog.Int64(logging.FieldDurationMS, w.interval.Milliseconds()),
		)
		w.warmOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				w.stopTicker()
				w.logInfo("cache warmer stopped")
				return
			case <-w.done:
				w.stopTicker()
				w.logInfo("cache warmer stopped")
				return
			case <-w.ticker.C:
				w.warmOnce(ctx)
			}
		}
	}()
}

// Stop halts the warming loop.
func (w *Warmer) Stop(ctx context.Context) error {
	_ = ctx
	w.stopOnce.Do(func() {
		close(w.done)
		w.stopTicker()
	})
	return nil
}

// warmOnce fetches every place's clubs and each club's courts. A failing
// place does not stop the others.
func (w *Warmer) warmOnce(ctx context.Context) {
	start := time.Now()
	w.recordAttempt(start)

	var errs []error
	clubs := 0
	for _, place := range w.places {
		n, err := w.warmPlace(ctx, place)
		clubs += n
		if err != nil {
			w.logError("cache warm failed", err, slog.String(logging.FieldPlaceID, place))
			errs = append(errs, err)
		}
	}
	err := errors.Join(errs...)
	w.metrics.RecordWarmCycle(time.Since(start), err)
	if err != nil {
		w.recordFailure(err, start)
		return
	}
	w.recordSuccess(start)
	w.logInfo("cache warmed",
		logging.FieldCount, clubs,
		logging.FieldDurationMS, time.Since(start).Milliseconds(),
	)
}

// warmPlace bypasses cached entries so every pass restarts their TTL.
func (w *Warmer) warmPlace(ctx context.Context, place string) (int, error) {
	ctx = providers.WithCacheRefresh(ctx)
	clubs, err := w.directory.ListClubs(ctx, place)
	if err != nil {
		return 0, err
	}
	for _, club := range clubs {
		if _, err := w.directory.ListCourts(ctx, club.ID); err != nil {
			return len(clubs), err
		}
	}
	return len(clubs), nil
}

func (w *Warmer) stopTicker() {
	if w.ticker != nil {
		w.ticker.Stop()
	}
}

func (w *Warmer) logInfo(msg string, args ...any) {
	if w.logger != nil {
		w.logger.Info(msg, args...)
	}
}

func (w *Warmer) logError(msg string, err error, attrs ...any) {
	if w.logger != nil {
		w.logger.Error(msg, append(attrs, "error", err)...)
	}
}

func (w *Warmer) recordAttempt(at time.Time) {
	w.statusMu.Lock()
	defer w.statusMu.Unlock()
	w.status.LastAttempt = at
}

func (w *Warmer) recordSuccess(at time.Time) {
	w.statusMu.Lock()
	defer w.statusMu.Unlock()
	w.status.ConsecutiveFailures = 0
	w.status.LastError = ""
	w.status.LastSuccess = at
}

func (w *Warmer) recordFailure(err error, at time.Time) {
	w.statusMu.Lock()
	defer w.statusMu.Unlock()
	w.status.ConsecutiveFailures++
	if err != nil {
		w.status.LastError = err.Error()
	}
	w.status.LastAttempt = at
}

// Status returns a snapshot of the warmer's recent health.
func (w *Warmer) Status() Status {
	w.statusMu.RLock()
	defer w.statusMu.RUnlock()
	return w.status
}

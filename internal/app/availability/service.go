package availability

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/preston-bernstein/court-availability-service/internal/apperr"
	"github.com/preston-bernstein/court-availability-service/internal/domain/venues"
	"github.com/preston-bernstein/court-availability-service/internal/logging"
	"github.com/preston-bernstein/court-availability-service/internal/metrics"
	"github.com/preston-bernstein/court-availability-service/internal/providers"
	"github.com/preston-bernstein/court-availability-service/internal/timeutil"
	"github.com/preston-bernstein/court-availability-service/internal/tracing"
)

const (
	msgPlaceRequired   = "PlaceId is required"
	msgInvalidDate     = "Invalid date format"
	msgNoClubs         = "No clubs found for placeId: %s"
	msgNoCourtsForDate = "No available courts found for the specified date"
)

const outcomeOK = "ok"

// Service answers availability searches by fanning out over a VenueDirectory:
// clubs for the place, courts per club, then free slots per court.
type Service struct {
	directory      providers.VenueDirectory
	maxConcurrency int
	recorder       *metrics.Recorder
	logger         *slog.Logger
	tracer         trace.Tracer
	now            func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithMaxConcurrency bounds how many upstream calls one batch keeps in flight.
// Zero or negative means unbounded.
func WithMaxConcurrency(n int) Option {
	return func(s *Service) { s.maxConcurrency = n }
}

// WithRecorder records every search into rec.
func WithRecorder(rec *metrics.Recorder) Option {
	return func(s *Service) { s.recorder = rec }
}

// WithLogger sets the fallback logger used when the request context carries none.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithTracer overrides the tracer used for search spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// NewService constructs a Service reading from directory.
func NewService(directory providers.VenueDirectory, opts ...Option) *Service {
	s := &Service{
		directory: directory,
		tracer:    tracing.Tracer(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search returns every club at the place with at least one court, each court
// carrying its free slots for the query date. Clubs and courts keep upstream
// order. Any upstream failure aborts the whole search and is returned as is.
func (s *Service) Search(ctx context.Context, q venues.AvailabilityQuery) ([]venues.ClubWithAvailability, error) {
	ctx, span := s.tracer.Start(ctx, "availability.search", trace.WithAttributes(
		attribute.String(logging.FieldPlaceID, q.PlaceID),
		attribute.String(logging.FieldDate, formatQueryDate(q.Date)),
	))
	defer span.End()

	start := s.now()
	result, err := s.search(ctx, q)
	elapsed := s.now().Sub(start)

	outcome := outcomeOK
	if err != nil {
		outcome = apperr.KindOf(err).String()
		span.RecordError(err)
		span.SetStatus(codes.Error, apperr.Message(err))
	}
	span.SetAttributes(attribute.Int("clubs", len(result)), attribute.String("outcome", outcome))
	s.recorder.RecordAggregation(elapsed, len(result), outcome, err)

	logger := logging.FromContext(ctx, s.logger)
	if err != nil {
		logging.Warn(logger, "availability search failed",
			logging.FieldPlaceID, q.PlaceID,
			logging.FieldDate, formatQueryDate(q.Date),
			"outcome", outcome,
			logging.FieldDurationMS, elapsed.Milliseconds(),
			"error", err,
		)
		return nil, err
	}
	logging.Debug(logger, "availability search complete",
		logging.FieldPlaceID, q.PlaceID,
		logging.FieldDate, formatQueryDate(q.Date),
		logging.FieldCount, len(result),
		logging.FieldDurationMS, elapsed.Milliseconds(),
	)
	return result, nil
}

func (s *Service) search(ctx context.Context, q venues.AvailabilityQuery) ([]venues.ClubWithAvailability, error) {
	if strings.TrimSpace(q.PlaceID) == "" {
		return nil, apperr.InvalidRequest(msgPlaceRequired)
	}
	if q.Date.IsZero() {
		return nil, apperr.InvalidRequest(msgInvalidDate)
	}

	clubs, err := s.listClubs(ctx, q.PlaceID)
	if err != nil {
		return nil, err
	}
	if len(clubs) == 0 {
		return nil, apperr.NotFound(fmt.Sprintf(msgNoClubs, q.PlaceID))
	}

	courtsByClub, err := s.listCourts(ctx, clubs)
	if err != nil {
		return nil, err
	}

	surviving := make([]clubCourts, 0, len(clubs))
	for i, club := range clubs {
		if len(courtsByClub[i]) == 0 {
			continue
		}
		surviving = append(surviving, clubCourts{club: club, courts: courtsByClub[i]})
	}
	if len(surviving) == 0 {
		return nil, apperr.NotFound(msgNoCourtsForDate)
	}

	slots, err := s.listSlots(ctx, surviving, q.Date)
	if err != nil {
		return nil, err
	}

	result := make([]venues.ClubWithAvailability, 0, len(surviving))
	for i, entry := range surviving {
		courts := make([]venues.CourtWithAvailability, 0, len(entry.courts))
		for j, court := range entry.courts {
			courts = append(courts, venues.NewCourtWithAvailability(court, slots[i][j]))
		}
		result = append(result, venues.NewClubWithAvailability(entry.club, courts))
	}
	return result, nil
}

type clubCourts struct {
	club   venues.Club
	courts []venues.Court
}

func (s *Service) listClubs(ctx context.Context, placeID string) ([]venues.Club, error) {
	ctx, span := s.tracer.Start(ctx, "availability.list_clubs")
	defer span.End()

	clubs, err := s.directory.ListClubs(ctx, placeID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int(logging.FieldCount, len(clubs)))
	return clubs, nil
}

// listCourts fetches courts for every club concurrently. Results are indexed
// like clubs.
func (s *Service) listCourts(ctx context.Context, clubs []venues.Club) ([][]venues.Court, error) {
	ctx, span := s.tracer.Start(ctx, "availability.list_courts", trace.WithAttributes(
		attribute.Int("clubs", len(clubs)),
	))
	defer span.End()

	courts := make([][]venues.Court, len(clubs))
	g, gctx := s.batch(ctx)
	for i, club := range clubs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.directory.ListCourts(gctx, club.ID)
			if err != nil {
				return err
			}
			courts[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return courts, nil
}

// listSlots fetches slots for every (club, court) pair concurrently. Results
// are indexed like entries and their courts.
func (s *Service) listSlots(ctx context.Context, entries []clubCourts, date time.Time) ([][][]venues.Slot, error) {
	slots := make([][][]venues.Slot, len(entries))
	pairs := 0
	for i, entry := range entries {
		slots[i] = make([][]venues.Slot, len(entry.courts))
		pairs += len(entry.courts)
	}

	ctx, span := s.tracer.Start(ctx, "availability.list_slots", trace.WithAttributes(
		attribute.Int("courts", pairs),
	))
	defer span.End()

	g, gctx := s.batch(ctx)
	for i, entry := range entries {
		for j, court := range entry.courts {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				res, err := s.directory.ListAvailableSlots(gctx, entry.club.ID, court.ID, date)
				if err != nil {
					return err
				}
				slots[i][j] = res
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return slots, nil
}

// batch returns an errgroup whose context is cancelled on the first failure.
func (s *Service) batch(ctx context.Context) (*errgroup.Group, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	if s.maxConcurrency > 0 {
		g.SetLimit(s.maxConcurrency)
	}
	return g, gctx
}

func formatQueryDate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return timeutil.FormatDate(date)
}

package providers

import (
	"context"
	"time"

	"github.com/preston-bernstein/court-availability-service/internal/domain/venues"
)

// Operation names used in logs and metrics.
const (
	OpListClubs  = "list_clubs"
	OpListCourts = "list_courts"
	OpListSlots  = "list_slots"
)

const msgServiceUnavailable = "Service Unavailable"

// VenueDirectory is the upstream capability the availability search consumes.
// Implementations return typed apperr failures; a nil slice with a nil error
// means the upstream had nothing to report.
type VenueDirectory interface {
	ListClubs(ctx context.Context, placeID string) ([]venues.Club, error)
	ListCourts(ctx context.Context, clubID int) ([]venues.Court, error)
	ListAvailableSlots(ctx context.Context, clubID, courtID int, date time.Time) ([]venues.Slot, error)
}

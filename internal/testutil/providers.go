package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/preston-bernstein/court-availability-service/internal/domain/venues"
)

// Operation names recorded by VenueDirectoryStub.
const (
	OpClubs  = "clubs"
	OpCourts = "courts"
	OpSlots  = "slots"
)

// SlotKey builds the lookup key for slots: clubId_courtId_YYYY-MM-DD.
func SlotKey(clubID, courtID int, date time.Time) string {
	return fmt.Sprintf("%d_%d_%s", clubID, courtID, date.Format("2006-01-02"))
}

// VenueDirectoryStub serves clubs, courts and slots from maps and records every call.
// Missing keys yield nil results, which callers must treat as empty.
type VenueDirectoryStub struct {
	Clubs  map[string][]venues.Club
	Courts map[int][]venues.Court
	Slots  map[string][]venues.Slot

	ClubsErr  error
	CourtsErr map[int]error
	SlotsErr  map[string]error

	// BeforeCall runs before every lookup, after the call is counted as in flight.
	// A non-nil error is returned instead of the configured result.
	BeforeCall func(ctx context.Context, op, key string) error

	mu          sync.Mutex
	calls       []string
	inFlight    int
	maxInFlight int
}

func (s *VenueDirectoryStub) ListClubs(ctx context.Context, placeID string) ([]venues.Club, error) {
	done, err := s.enter(ctx, OpClubs, placeID)
	defer done()
	if err != nil {
		return nil, err
	}
	if s.ClubsErr != nil {
		return nil, s.ClubsErr
	}
	return s.Clubs[placeID], nil
}

func (s *VenueDirectoryStub) ListCourts(ctx context.Context, clubID int) ([]venues.Court, error) {
	done, err := s.enter(ctx, OpCourts, fmt.Sprint(clubID))
	defer done()
	if err != nil {
		return nil, err
	}
	if err := s.CourtsErr[clubID]; err != nil {
		return nil, err
	}
	return s.Courts[clubID], nil
}

func (s *VenueDirectoryStub) ListAvailableSlots(ctx context.Context, clubID, courtID int, date time.Time) ([]venues.Slot, error) {
	key := SlotKey(clubID, courtID, date)
	done, err := s.enter(ctx, OpSlots, key)
	defer done()
	if err != nil {
		return nil, err
	}
	if err := s.SlotsErr[key]; err != nil {
		return nil, err
	}
	return s.Slots[key], nil
}

func (s *VenueDirectoryStub) enter(ctx context.Context, op, key string) (func(), error) {
	s.mu.Lock()
	s.calls = append(s.calls, op+":"+key)
	s.inFlight++
	if s.inFlight > s.maxInFlight {
		s.maxInFlight = s.inFlight
	}
	s.mu.Unlock()

	done := func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}
	if s.BeforeCall != nil {
		if err := s.BeforeCall(ctx, op, key); err != nil {
			return done, err
		}
	}
	return done, nil
}

// Calls returns every recorded call as "op:key" in arrival order.
func (s *VenueDirectoryStub) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallCount returns how many calls were made for op.
func (s *VenueDirectoryStub) CallCount(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	prefix := op + ":"
	for _, c := range s.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

// Called reports whether op was invoked with key.
func (s *VenueDirectoryStub) Called(op, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.calls {
		if c == op+":"+key {
			return true
		}
	}
	return false
}

// MaxInFlight reports the highest number of simultaneous calls observed.
func (s *VenueDirectoryStub) MaxInFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxInFlight
}

// ErrDirectory fails every lookup with Err.
type ErrDirectory struct {
	Err error
}

func (d ErrDirectory) ListClubs(context.Context, string) ([]venues.Club, error) {
	return nil, d.Err
}

func (d ErrDirectory) ListCourts(context.Context, int) ([]venues.Court, error) {
	return nil, d.Err
}

func (d ErrDirectory) ListAvailableSlots(context.Context, int, int, time.Time) ([]venues.Slot, error) {
	return nil, d.Err
}

package providers

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/court-availability-service/internal/domain/venues"
)

// scriptedDirectory answers from per-method funcs and counts calls.
type scriptedDirectory struct {
	mu     sync.Mutex
	calls  map[string]int
	clubs  func(placeID string) ([]venues.Club, error)
	courts func(clubID int) ([]venues.Court, error)
	slots  func(clubID, courtID int, date time.Time) ([]venues.Slot, error)
}

func (s *scriptedDirectory) hit(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = map[string]int{}
	}
	s.calls[op]++
}

func (s *scriptedDirectory) count(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *scriptedDirectory) ListClubs(_ context.Context, placeID string) ([]venues.Club, error) {
	s.hit(OpListClubs)
	if s.clubs == nil {
		return nil, nil
	}
	return s.clubs(placeID)
}

func (s *scriptedDirectory) ListCourts(_ context.Context, clubID int) ([]venues.Court, error) {
	s.hit(OpListCourts)
	if s.courts == nil {
		return nil, nil
	}
	return s.courts(clubID)
}

func (s *scriptedDirectory) ListAvailableSlots(_ context.Context, clubID, courtID int, date time.Time) ([]venues.Slot, error) {
	s.hit(OpListSlots)
	if s.slots == nil {
		return nil, nil
	}
	return s.slots(clubID, courtID, date)
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

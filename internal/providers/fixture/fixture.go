package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/preston-bernstein/court-availability-service/internal/domain/venues"
)

// Name identifies the fixture directory in logs and metrics.
const Name = "fixture"

// PlaceID is the only place the fixture directory knows about.
const PlaceID = "ChIJW9fXNZNTtpURV6VYAumGQOw"

type fixtureCourt struct {
	id      int
	name    string
	surface string
	starts  []string
}

type fixtureClub struct {
	id     int
	name   string
	zone   string
	courts []fixtureCourt
}

// clubs is the static directory. Club 3 has no courts and club 1's court 2
// is fully booked, so both filtering paths are exercised locally.
var clubs = []fixtureClub{
	{
		id:   1,
		name: "Club Norte",
		zone: "Palermo",
		courts: []fixtureCourt{
			{id: 1, name: "Cancha 1", surface: "synthetic", starts: []string{"08:00", "09:30", "19:00"}},
			{id: 2, name: "Cancha 2", surface: "synthetic"},
		},
	},
	{
		id:   2,
		name: "Club Sur",
		zone: "Barracas",
		courts: []fixtureCourt{
			{id: 3, name: "Central", surface: "glass", starts: []string{"18:00"}},
		},
	},
	{id: 3, name: "Club Centro", zone: "San Nicolas"},
}

// Provider returns a deterministic set of clubs, courts and slots useful for
// local runs and demos.
type Provider struct{}

// New creates a fixture provider.
func New() *Provider {
	return &Provider{}
}

// ListClubs returns the fixture clubs for PlaceID and nothing for any other place.
func (p *Provider) ListClubs(_ context.Context, placeID string) ([]venues.Club, error) {
	if placeID != PlaceID {
		return []venues.Club{}, nil
	}
	out := make([]venues.Club, 0, len(clubs))
	for _, c := range clubs {
		out = append(out, venues.Club{
			ID: c.id,
			Attributes: attributes(map[string]any{
				"name":     c.name,
				"location": map[string]any{"name": c.zone, "city": "Buenos Aires"},
			}),
		})
	}
	return out, nil
}

// ListCourts returns the courts of a fixture club.
func (p *Provider) ListCourts(_ context.Context, clubID int) ([]venues.Court, error) {
	club, ok := findClub(clubID)
	if !ok {
		return []venues.Court{}, nil
	}
	out := make([]venues.Court, 0, len(club.courts))
	for _, c := range club.courts {
		out = append(out, venues.Court{
			ID:         c.id,
			Attributes: attributes(map[string]any{"name": c.name, "surface": c.surface}),
		})
	}
	return out, nil
}

// ListAvailableSlots returns one-hour slots on date for each fixture start time.
func (p *Provider) ListAvailableSlots(_ context.Context, clubID, courtID int, date time.Time) ([]venues.Slot, error) {
	club, ok := findClub(clubID)
	if !ok {
		return []venues.Slot{}, nil
	}
	out := []venues.Slot{}
	for _, court := range club.courts {
		if court.id != courtID {
			continue
		}
		day := date.Format("2006-01-02")
		for i, start := range court.starts {
			raw, err := json.Marshal(map[string]any{
				"start":    fmt.Sprintf("%sT%s:00", day, start),
				"duration": 60,
				"price":    1200 + i*300,
				"priority": i,
			})
			if err != nil {
				return nil, err
			}
			out = append(out, venues.Slot(raw))
		}
	}
	return out, nil
}

func findClub(id int) (fixtureClub, bool) {
	for _, c := range clubs {
		if c.id == id {
			return c, true
		}
	}
	return fixtureClub{}, false
}

func attributes(values map[string]any) venues.Attributes {
	attrs := make(venues.Attributes, len(values))
	for k, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			continue
		}
		attrs[k] = raw
	}
	return attrs
}

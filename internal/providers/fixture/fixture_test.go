package fixture

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestListClubsReturnsDeterministicClubs(t *testing.T) {
	p := New()

	clubs, err := p.ListClubs(context.Background(), PlaceID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(clubs) != 3 {
		t.Fatalf("expected 3 clubs, got %d", len(clubs))
	}
	if clubs[0].ID != 1 || string(clubs[0].Attributes["name"]) != `"Club Norte"` {
		t.Fatalf("unexpected first club: %+v", clubs[0])
	}
}

func TestListClubsUnknownPlaceIsEmpty(t *testing.T) {
	clubs, err := New().ListClubs(context.Background(), "elsewhere")
	if err != nil || len(clubs) != 0 {
		t.Fatalf("expected no clubs, got %v %v", clubs, err)
	}
}

func TestListCourtsIncludesClubWithoutCourts(t *testing.T) {
	p := New()
	courts, err := p.ListCourts(context.Background(), 1)
	if err != nil || len(courts) != 2 {
		t.Fatalf("expected 2 courts, got %v %v", courts, err)
	}
	empty, err := p.ListCourts(context.Background(), 3)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected no courts for club 3, got %v %v", empty, err)
	}
}

func TestListAvailableSlotsUsesRequestedDate(t *testing.T) {
	p := New()
	date := time.Date(2022, 12, 5, 0, 0, 0, 0, time.UTC)

	slots, err := p.ListAvailableSlots(context.Background(), 1, 1, date)
	if err != nil || len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %v %v", slots, err)
	}
	var first struct {
		Start string `json:"start"`
		Price int    `json:"price"`
	}
	if err := json.Unmarshal(slots[0], &first); err != nil {
		t.Fatalf("unmarshal slot: %v", err)
	}
	if first.Start != "2022-12-05T08:00:00" || first.Price != 1200 {
		t.Fatalf("unexpected slot %+v", first)
	}

	booked, err := p.ListAvailableSlots(context.Background(), 1, 2, date)
	if err != nil || booked == nil || len(booked) != 0 {
		t.Fatalf("expected empty non-nil slots, got %v %v", booked, err)
	}
}

package testutil

import (
	"encoding/json"
	"fmt"

	"github.com/preston-bernstein/court-availability-service/internal/domain/venues"
)

// SampleClub returns a club fixture with the provided id and a name attribute.
func SampleClub(id int) venues.Club {
	return venues.Club{
		ID:         id,
		Attributes: venues.Attributes{"name": json.RawMessage(fmt.Sprintf("%q", fmt.Sprintf("Club %d", id)))},
	}
}

// SampleCourt returns a court fixture with the provided id.
func SampleCourt(id int) venues.Court {
	return venues.Court{
		ID:         id,
		Attributes: venues.Attributes{"name": json.RawMessage(fmt.Sprintf("%q", fmt.Sprintf("Court %d", id)))},
	}
}

// SampleSlot returns an opaque slot starting at the given time of day.
func SampleSlot(start string) venues.Slot {
	return venues.Slot(fmt.Sprintf(`{"start":%q,"price":1200}`, start))
}

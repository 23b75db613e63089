package venues

import (
	"encoding/json"
	"time"
)

// Attributes holds upstream fields the service passes through untouched.
type Attributes map[string]json.RawMessage

// Club is a venue returned by the upstream directory.
type Club struct {
	ID         int
	Attributes Attributes
}

// Court is a bookable unit within a club.
type Court struct {
	ID         int
	Attributes Attributes
}

// Slot is an available time unit for one court on one date. Its shape is owned
// by the upstream and is never interpreted here.
type Slot json.RawMessage

// CourtWithAvailability decorates a court with its free slots, in upstream order.
type CourtWithAvailability struct {
	Court
	Available []Slot
}

// ClubWithAvailability decorates a club with the availability of each of its courts.
type ClubWithAvailability struct {
	Club
	Courts []CourtWithAvailability
}

// AvailabilityQuery scopes a search to a place and a calendar date.
// A zero Date means the caller supplied no valid date.
type AvailabilityQuery struct {
	PlaceID string
	Date    time.Time
}

// NewCourtWithAvailability normalizes a missing slot list to an empty one.
func NewCourtWithAvailability(court Court, slots []Slot) CourtWithAvailability {
	if slots == nil {
		slots = []Slot{}
	}
	return CourtWithAvailability{Court: court, Available: slots}
}

// NewClubWithAvailability builds the aggregated view for one club.
func NewClubWithAvailability(club Club, courts []CourtWithAvailability) ClubWithAvailability {
	if courts == nil {
		courts = []CourtWithAvailability{}
	}
	return ClubWithAvailability{Club: club, Courts: courts}
}

func (c Club) MarshalJSON() ([]byte, error) {
	return encodeEntity(c.ID, c.Attributes, "", nil)
}

func (c *Club) UnmarshalJSON(data []byte) error {
	id, attrs, err := decodeEntity(data)
	if err != nil {
		return err
	}
	c.ID, c.Attributes = id, attrs
	return nil
}

func (c Court) MarshalJSON() ([]byte, error) {
	return encodeEntity(c.ID, c.Attributes, "", nil)
}

func (c *Court) UnmarshalJSON(data []byte) error {
	id, attrs, err := decodeEntity(data)
	if err != nil {
		return err
	}
	c.ID, c.Attributes = id, attrs
	return nil
}

func (s Slot) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	return []byte(s), nil
}

func (s *Slot) UnmarshalJSON(data []byte) error {
	*s = append((*s)[0:0], data...)
	return nil
}

func (c CourtWithAvailability) MarshalJSON() ([]byte, error) {
	available := c.Available
	if available == nil {
		available = []Slot{}
	}
	return encodeEntity(c.ID, c.Attributes, "available", available)
}

func (c *CourtWithAvailability) UnmarshalJSON(data []byte) error {
	var available []Slot
	id, attrs, err := decodeEntityWith(data, "available", &available)
	if err != nil {
		return err
	}
	*c = NewCourtWithAvailability(Court{ID: id, Attributes: attrs}, available)
	return nil
}

func (c ClubWithAvailability) MarshalJSON() ([]byte, error) {
	courts := c.Courts
	if courts == nil {
		courts = []CourtWithAvailability{}
	}
	return encodeEntity(c.ID, c.Attributes, "courts", courts)
}

func (c *ClubWithAvailability) UnmarshalJSON(data []byte) error {
	var courts []CourtWithAvailability
	id, attrs, err := decodeEntityWith(data, "courts", &courts)
	if err != nil {
		return err
	}
	*c = NewClubWithAvailability(Club{ID: id, Attributes: attrs}, courts)
	return nil
}

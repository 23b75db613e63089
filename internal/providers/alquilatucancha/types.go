package alquilatucancha

import "time"

// errorResponse is the body the upstream sends with non-2xx statuses.
type errorResponse struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

type clubsParams struct {
	PlaceID string `validate:"required"`
}

type courtsParams struct {
	ClubID int `validate:"gt=0"`
}

type slotsParams struct {
	ClubID  int       `validate:"gt=0"`
	CourtID int       `validate:"gt=0"`
	Date    time.Time `validate:"required"`
}

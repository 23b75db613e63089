package alquilatucancha

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/preston-bernstein/court-availability-service/internal/apperr"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// fieldMessages maps parameter fields to the message reported when they fail validation.
var fieldMessages = map[string]string{
	"PlaceID": "PlaceId is required",
	"ClubID":  "ClubId must be greater than 0",
	"CourtID": "CourtId must be greater than 0",
	"Date":    "Date must be a valid date",
}

// validateParams checks params before any request is made. Only the first
// failing field is reported, in declaration order.
func validateParams(params any) error {
	err := validate.Struct(params)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		if msg, ok := fieldMessages[fieldErrs[0].StructField()]; ok {
			return apperr.InvalidArgument(msg)
		}
		return apperr.InvalidArgument(fieldErrs[0].Error())
	}
	return apperr.InvalidArgument(err.Error())
}

package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ItsCharrs/logipro/internal/core/domain"
)

// pickupDateLayouts are the formats a date picker or API caller may send.
var pickupDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

var bookingMessages = map[string]string{
	"job_type":                "Please choose residential or commercial.",
	"service_type":            "Please choose a service for this job type.",
	"cargo_description":       "Please provide a more detailed description (at least 10 chars).",
	"pickup_address":          "Pickup address is required.",
	"pickup_city":             "Pickup city is required.",
	"pickup_contact_person":   "Contact name required.",
	"pickup_contact_phone":    "Valid phone number required.",
	"delivery_address":        "Delivery address is required.",
	"delivery_city":           "Delivery city is required.",
	"delivery_contact_person": "Contact name required.",
	"delivery_contact_phone":  "Valid phone number required.",
	"requested_pickup_date":   "Please select a valid date and time.",
	"weight_lbs":              "Weight is required for commercial jobs",
	"pallet_count":            "Pallet count must be at least 1",
}

// newJSONValidator reports fields by their json names.
func newJSONValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func newBookingValidator() *validator.Validate {
	v := newJSONValidator()
	_ = v.RegisterValidation("pickupdate", func(fl validator.FieldLevel) bool {
		_, ok := parsePickupDate(fl.Field().String())
		return ok
	})
	v.RegisterStructValidation(bookingStructLevel, domain.BookingForm{})
	return v
}

// bookingStructLevel applies the rules that depend on the job type.
func bookingStructLevel(sl validator.StructLevel) {
	f := sl.Current().Interface().(domain.BookingForm)

	if f.ServiceType != "" && f.JobType != "" && f.ServiceType.JobType() != f.JobType {
		sl.ReportError(f.ServiceType, "service_type", "ServiceType", "jobtype", string(f.JobType))
	}

	switch f.JobType {
	case domain.JobResidential:
		if f.RoomCount < 1 {
			sl.ReportError(f.RoomCount, "room_count", "RoomCount", "min", "1")
		} else if f.RoomCount > 20 {
			sl.ReportError(f.RoomCount, "room_count", "RoomCount", "max", "20")
		}
	case domain.JobCommercial:
		if f.WeightLbs < 1 {
			sl.ReportError(f.WeightLbs, "weight_lbs", "WeightLbs", "min", "1")
		}
		if f.PalletCount < 0 {
			sl.ReportError(f.PalletCount, "pallet_count", "PalletCount", "min", "1")
		}
	}
}

func parsePickupDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range pickupDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// toValidationErrors converts validator output into per-field messages.
func toValidationErrors(err error) error {
	return fieldErrors(err, bookingFieldMessage)
}

// fieldErrors keeps the first message per field. Errors that are not
// validation failures pass through.
func fieldErrors(err error, message func(validator.FieldError) string) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := make(domain.ValidationErrors, len(ve))
	for _, fe := range ve {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = message(fe)
	}
	return out
}

func bookingFieldMessage(fe validator.FieldError) string {
	if fe.Field() == "room_count" {
		if fe.Tag() == "max" {
			return "Maximum 20 rooms"
		}
		return "At least 1 room required"
	}
	if msg, ok := bookingMessages[fe.Field()]; ok {
		return msg
	}
	return fmt.Sprintf("%s failed validation (%s)", fe.Field(), fe.Tag())
}

package service

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/ItsCharrs/logipro/internal/core/domain"
)

var registrationMessages = map[string]string{
	"first_name":       "First name is required.",
	"last_name":        "Last name is required.",
	"email":            "Invalid email address",
	"confirm_password": "Passwords do not match",
}

var warehouseMessages = map[string]string{
	"name":    "Warehouse name is required.",
	"address": "Address is required.",
	"city":    "City is required.",
	"country": "Country is required.",
}

// checkRegistration reports the first problem per field. A mismatch between
// the two passwords is reported ahead of a short one.
func checkRegistration(v *validator.Validate, reg domain.Registration) error {
	err := v.Struct(reg)
	if err == nil {
		return nil
	}
	err = fieldErrors(err, registrationFieldMessage)
	if ve, ok := err.(domain.ValidationErrors); ok {
		if _, mismatch := ve["confirm_password"]; mismatch {
			delete(ve, "password")
		}
	}
	return err
}

func registrationFieldMessage(fe validator.FieldError) string {
	if fe.Field() == "password" {
		if fe.Tag() == "min" {
			return fmt.Sprintf("Password must be at least %d characters", domain.MinPasswordLength)
		}
		return "Password is required."
	}
	return messageOr(registrationMessages, fe)
}

func checkWarehouse(v *validator.Validate, w domain.Warehouse) error {
	if err := v.Struct(w); err != nil {
		return fieldErrors(err, func(fe validator.FieldError) string {
			if fe.Tag() == "max" {
				return fmt.Sprintf("%s must be at most %s characters.", fe.Field(), fe.Param())
			}
			return messageOr(warehouseMessages, fe)
		})
	}
	return nil
}

func messageOr(messages map[string]string, fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()]; ok {
		return msg
	}
	return fmt.Sprintf("%s failed validation (%s)", fe.Field(), fe.Tag())
}

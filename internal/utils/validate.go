package utils

import "github.com/go-playground/validator/v10"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a request payload against its struct tags.
func Validate(payload any) error {
	return validate.Struct(payload)
}

package dto

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate runs struct-tag validation over a request payload.
func Validate(payload any) error {
	return validate.Struct(payload)
}

// ValidationDetails flattens validator errors into a field -> constraint map
// suitable for an error response body.
func ValidationDetails(err error) map[string]any {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fe.Tag()
	}
	return details
}

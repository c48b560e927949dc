package validator

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/garrettladley/fitgate/internal/apperr"
)

// Validator is implemented by request types whose Validate runs
// validation.ValidateStruct over their fields.
type Validator interface {
	Validate() error
}

// Validate converts ozzo field errors into an apperr validation error keyed
// by JSON field name. Returns nil when v is valid.
func Validate(v Validator) *apperr.Error {
	err := v.Validate()
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		fields := make(map[string]string, len(fieldErrs))
		for name, fieldErr := range fieldErrs {
			if fieldErr != nil {
				fields[name] = fieldErr.Error()
			}
		}
		return apperr.Validation(fields)
	}

	return apperr.Validation(map[string]string{"request": err.Error()})
}

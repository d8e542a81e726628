// Package dto defines request/response shapes for the HTTP API. Admin CRUD
// payloads carry validator tags; intake-form fields are checked by the
// bespoke validators in internal/validation instead.
package dto

import (
	"github.com/go-playground/validator/v10"

	apperrors "github.com/fleetdesk/fleetdesk/pkg/util"
)

var validate = validator.New()

// ValidateStruct runs tag validation and converts failures into a
// field-keyed validation error.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]any{}
		for _, fe := range verrs {
			details[fe.Field()] = "failed " + fe.Tag() + " validation"
		}
		return apperrors.NewValidationError("invalid payload", details)
	}
	return apperrors.NewValidationError("invalid payload", nil)
}

package handler

import (
	"github.com/orderly/orders-api/internal/pkg/validation"
)

// echoValidator adapts validation.Validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validation.Validator
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator(v *validation.Validator) *echoValidator {
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface. Field failures come back as
// *domain.ValidationError.
func (ev *echoValidator) Validate(i any) error {
	return ev.v.Struct(i)
}

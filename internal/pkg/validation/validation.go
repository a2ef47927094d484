// Package validation wraps go-playground/validator so every layer reports
// field failures the same way: a *domain.ValidationError keyed by JSON name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/orderly/orders-api/internal/core/domain"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// Validator validates tagged structs.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with the custom order_status and bcrypt_len rules
// registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return strings.ToLower(f.Name)
		}
		return name
	})
	_ = v.RegisterValidation("order_status", func(fl validator.FieldLevel) bool {
		return domain.OrderStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("bcrypt_len", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxPasswordBytes
	})
	return &Validator{v: v}
}

// Struct validates i. Field failures are accumulated into a
// *domain.ValidationError; any other error is returned unchanged.
func (v *Validator) Struct(i any) error {
	err := v.v.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	out := domain.NewValidationError()
	for _, fe := range ve {
		out.Add(fe.Field(), fieldError(fe))
	}
	return out
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "bcrypt_len":
		return fmt.Sprintf("%s must be at most %d bytes", field, MaxPasswordBytes)
	case "order_status":
		return field + " must be one of: " + joinStatuses()
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

func joinStatuses() string {
	names := make([]string, len(domain.OrderStatuses))
	for i, s := range domain.OrderStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

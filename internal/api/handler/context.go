package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/labstack/echo/v4"

	"github.com/orderly/orders-api/internal/core/domain"
)

// ctxIdentity returns the caller injected by the Auth middleware. A missing
// identity means the route was not gated and is reported as 401.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := domain.IdentityFrom(c.Request().Context())
	if !ok || id.UserID <= 0 {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication token not provided")
	}
	return id, nil
}

func errInvalidPayload() error {
	return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
}

// bindError converts a body binding failure into a response error. A JSON
// value of the wrong type is reported against its field as a validation
// error; anything else is a malformed payload.
func bindError(err error) error {
	var ute *json.UnmarshalTypeError
	if !errors.As(err, &ute) || ute.Field == "" || ute.Type == nil {
		return errInvalidPayload()
	}
	verr := domain.NewValidationError()
	verr.Add(ute.Field, fmt.Sprintf("%s must be %s", ute.Field, jsonKind(ute.Type)))
	return verr
}

func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Bool:
		return "a boolean"
	default:
		return "a valid value"
	}
}

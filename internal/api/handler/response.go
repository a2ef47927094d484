package handler

import (
	"github.com/labstack/echo/v4"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// successResponse is the envelope of every 2xx response.
type successResponse struct {
	Status  string `json:"status"  example:"success"`
	Code    int    `json:"code"    example:"200"`
	Message string `json:"message" example:"ok"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse is the envelope of every non-validation 4xx/5xx response.
type ErrorResponse struct {
	Status  string `json:"status"  example:"error"`
	Code    int    `json:"code"    example:"404"`
	Message string `json:"message" example:"order not found"`
	Details any    `json:"details,omitempty"`
}

// ValidationErrorResponse is returned with 422 and lists every failing field.
type ValidationErrorResponse struct {
	Status  string            `json:"status"  example:"error"`
	Code    int               `json:"code"    example:"422"`
	Message string            `json:"message" example:"validation failed"`
	Errors  map[string]string `json:"errors"`
}

func respond(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, successResponse{
		Status:  statusSuccess,
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// RespondError writes the error envelope.
func RespondError(c echo.Context, code int, message string, details any) error {
	return c.JSON(code, ErrorResponse{
		Status:  statusError,
		Code:    code,
		Message: message,
		Details: details,
	})
}

// RespondValidation writes the 422 envelope for fields.
func RespondValidation(c echo.Context, code int, fields map[string]string) error {
	return c.JSON(code, ValidationErrorResponse{
		Status:  statusError,
		Code:    code,
		Message: "validation failed",
		Errors:  fields,
	})
}

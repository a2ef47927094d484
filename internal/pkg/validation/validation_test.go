package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/orderly/orders-api/internal/core/domain"
)

type sample struct {
	Name   string   `json:"name"   validate:"required,min=2,max=5"`
	Email  string   `json:"email"  validate:"required,email"`
	Status *string  `json:"status" validate:"omitempty,order_status"`
	Total  *float64 `json:"total"  validate:"omitempty,gte=0"`
}

func ptr[T any](v T) *T { return &v }

func TestValidator_AccumulatesAllFields(t *testing.T) {
	v := New()

	err := v.Struct(&sample{
		Name:   "x",
		Email:  "not-an-email",
		Status: ptr("shipped"),
		Total:  ptr(-1.0),
	})

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *domain.ValidationError, got %T (%v)", err, err)
	}
	for _, field := range []string{"name", "email", "status", "total"} {
		if _, ok := ve.Fields[field]; !ok {
			t.Fatalf("expected error for %q, got %+v", field, ve.Fields)
		}
	}
	if ve.Fields["name"] != "name must be at least 2 characters" {
		t.Fatalf("unexpected name message: %q", ve.Fields["name"])
	}
	if !strings.Contains(ve.Fields["status"], "in_progress") {
		t.Fatalf("status message should list allowed values: %q", ve.Fields["status"])
	}
}

func TestValidator_OptionalFieldsSkippedWhenNil(t *testing.T) {
	v := New()

	if err := v.Struct(&sample{Name: "ana", Email: "ana@example.com"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidator_AcceptsEveryStatus(t *testing.T) {
	v := New()

	for _, s := range domain.OrderStatuses {
		in := sample{Name: "ana", Email: "ana@example.com", Status: ptr(string(s)), Total: ptr(0.0)}
		if err := v.Struct(&in); err != nil {
			t.Fatalf("status %q rejected: %v", s, err)
		}
	}
}

type bounded struct {
	Password string  `json:"password" validate:"bcrypt_len"`
	Total    float64 `json:"total"    validate:"lte=99999999.99"`
}

func TestValidator_PasswordAndTotalBounds(t *testing.T) {
	v := New()

	if err := v.Struct(&bounded{Password: strings.Repeat("a", MaxPasswordBytes), Total: 99999999.99}); err != nil {
		t.Fatalf("values at the bound must pass, got %v", err)
	}

	err := v.Struct(&bounded{Password: strings.Repeat("a", MaxPasswordBytes+1), Total: 1e8})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *domain.ValidationError, got %T (%v)", err, err)
	}
	if ve.Fields["password"] != "password must be at most 72 bytes" {
		t.Fatalf("unexpected password message: %q", ve.Fields["password"])
	}
	if ve.Fields["total"] != "total must be less than or equal to 99999999.99" {
		t.Fatalf("unexpected total message: %q", ve.Fields["total"])
	}
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/orderly/orders-api/internal/core/domain"
	"github.com/orderly/orders-api/internal/core/ports"
)

type stubOrderService struct {
	listFn   func(ctx context.Context, in ports.ListOrdersInput) (*ports.ListOrdersResult, error)
	getFn    func(ctx context.Context, id, userID int64) (*domain.Order, error)
	createFn func(ctx context.Context, in ports.CreateOrderInput) (int64, error)
	updateFn func(ctx context.Context, id, userID int64, in ports.UpdateOrderInput) error
	deleteFn func(ctx context.Context, id, userID int64) error
}

func (s *stubOrderService) ListOrders(ctx context.Context, in ports.ListOrdersInput) (*ports.ListOrdersResult, error) {
	return s.listFn(ctx, in)
}

func (s *stubOrderService) GetOrder(ctx context.Context, id, userID int64) (*domain.Order, error) {
	return s.getFn(ctx, id, userID)
}

func (s *stubOrderService) CreateOrder(ctx context.Context, in ports.CreateOrderInput) (int64, error) {
	return s.createFn(ctx, in)
}

func (s *stubOrderService) UpdateOrder(ctx context.Context, id, userID int64, in ports.UpdateOrderInput) error {
	return s.updateFn(ctx, id, userID, in)
}

func (s *stubOrderService) DeleteOrder(ctx context.Context, id, userID int64) error {
	return s.deleteFn(ctx, id, userID)
}

const callerID int64 = 4

func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder) echo.Context {
	req = req.WithContext(domain.WithIdentity(req.Context(), domain.Identity{UserID: callerID}))
	return e.NewContext(req, rec)
}

func TestOrderHandler_List(t *testing.T) {
	e := newTestEcho()
	h := NewOrderHandler(&stubOrderService{
		listFn: func(_ context.Context, in ports.ListOrdersInput) (*ports.ListOrdersResult, error) {
			if in.UserID != callerID || in.Page != 2 || in.Limit == nil || *in.Limit != 5 || in.Status != "pending" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.ListOrdersResult{
				Items:      []*domain.Order{{ID: 1, UserID: callerID, Description: "first order", Status: domain.OrderPending}},
				Total:      6,
				Page:       2,
				Limit:      5,
				TotalPages: 2,
				HasPrev:    true,
			}, nil
		},
	})

	rec := httptest.NewRecorder()
	c := authedContext(e, httptest.NewRequest(http.MethodGet, "/orders?page=2&limit=5&status=pending", nil), rec)
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	pag := data["pagination"].(map[string]any)
	if pag["current_page"] != float64(2) || pag["per_page"] != float64(5) || pag["total_pages"] != float64(2) {
		t.Fatalf("unexpected pagination: %+v", pag)
	}
	if pag["has_next"] != false || pag["has_prev"] != true || pag["total"] != float64(6) {
		t.Fatalf("unexpected pagination flags: %+v", pag)
	}
	if items := data["items"].([]any); len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
}

func TestOrderHandler_List_MalformedQueryIsZero(t *testing.T) {
	e := newTestEcho()
	h := NewOrderHandler(&stubOrderService{
		listFn: func(_ context.Context, in ports.ListOrdersInput) (*ports.ListOrdersResult, error) {
			if in.Page != 0 || in.Limit == nil || *in.Limit != 0 {
				t.Fatalf("expected zero values for malformed query, got %+v", in)
			}
			return &ports.ListOrdersResult{Items: []*domain.Order{}, Page: 1, Limit: 1}, nil
		},
	})

	c := authedContext(e, httptest.NewRequest(http.MethodGet, "/orders?page=abc&limit=", nil), httptest.NewRecorder())
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestOrderHandler_List_AbsentLimitIsNil(t *testing.T) {
	e := newTestEcho()
	h := NewOrderHandler(&stubOrderService{
		listFn: func(_ context.Context, in ports.ListOrdersInput) (*ports.ListOrdersResult, error) {
			if in.Limit != nil {
				t.Fatalf("expected nil limit when the parameter is absent, got %d", *in.Limit)
			}
			return &ports.ListOrdersResult{Items: []*domain.Order{}, Page: 1, Limit: 10}, nil
		},
	})

	c := authedContext(e, httptest.NewRequest(http.MethodGet, "/orders?page=1", nil), httptest.NewRecorder())
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestOrderHandler_Get_InvalidIDIsNotFound(t *testing.T) {
	e := newTestEcho()
	h := NewOrderHandler(&stubOrderService{
		getFn: func(context.Context, int64, int64) (*domain.Order, error) {
			t.Fatal("service must not be called with a malformed id")
			return nil, nil
		},
	})

	for _, raw := range []string{"abc", "0", "-3"} {
		c := authedContext(e, httptest.NewRequest(http.MethodGet, "/orders/"+raw, nil), httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(raw)
		if err := h.Get(c); !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("id %q: expected ErrOrderNotFound, got %v", raw, err)
		}
	}
}

func TestOrderHandler_Get(t *testing.T) {
	e := newTestEcho()
	h := NewOrderHandler(&stubOrderService{
		getFn: func(_ context.Context, id, userID int64) (*domain.Order, error) {
			return &domain.Order{ID: id, UserID: userID, UserName: "Ana", Description: "lamp", Status: domain.OrderCompleted, Total: 3.5}, nil
		},
	})

	rec := httptest.NewRecorder()
	c := authedContext(e, httptest.NewRequest(http.MethodGet, "/orders/12", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("12")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	if data["id"] != float64(12) || data["user_id"] != float64(callerID) || data["status"] != "completed" {
		t.Fatalf("unexpected order payload: %+v", data)
	}
}

func TestOrderHandler_Create(t *testing.T) {
	e := newTestEcho()
	h := NewOrderHandler(&stubOrderService{
		createFn: func(_ context.Context, in ports.CreateOrderInput) (int64, error) {
			if in.UserID != callerID || in.Description != "two boxes" || in.Total == nil || *in.Total != 9.5 || in.Status != nil {
				t.Fatalf("unexpected input: %+v", in)
			}
			return 77, nil
		},
	})

	rec := httptest.NewRecorder()
	c := authedContext(e, jsonRequest(http.MethodPost, "/orders", `{"description":"two boxes","total":9.5}`), rec)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if data := decodeEnvelope(t, rec)["data"].(map[string]any); data["order_id"] != float64(77) {
		t.Fatalf("unexpected payload: %+v", data)
	}
}

func TestOrderHandler_Create_MalformedJSON(t *testing.T) {
	e := newTestEcho()
	h := NewOrderHandler(&stubOrderService{})

	c := authedContext(e, jsonRequest(http.MethodPost, "/orders", `{"description":`), httptest.NewRecorder())
	var he *echo.HTTPError
	if err := h.Create(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestOrderHandler_WrongFieldTypeIsValidationError(t *testing.T) {
	e := newTestEcho()
	h := NewOrderHandler(&stubOrderService{})

	cases := []struct {
		name, field, body string
		call              func(echo.Context) error
	}{
		{"create total", "total", `{"description":"hello world","total":"abc"}`, h.Create},
		{"create description", "description", `{"description":42}`, h.Create},
		{"update status", "status", `{"status":true}`, h.Update},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := authedContext(e, jsonRequest(http.MethodPost, "/orders/5", tc.body), httptest.NewRecorder())
			c.SetParamNames("id")
			c.SetParamValues("5")

			var ve *domain.ValidationError
			err := tc.call(c)
			if !errors.As(err, &ve) {
				t.Fatalf("expected *domain.ValidationError, got %T (%v)", err, err)
			}
			if ve.Fields[tc.field] == "" || len(ve.Fields) != 1 {
				t.Fatalf("expected a single %s error, got %+v", tc.field, ve.Fields)
			}
		})
	}
}

func TestOrderHandler_Update_IgnoresUnknownFields(t *testing.T) {
	e := newTestEcho()
	h := NewOrderHandler(&stubOrderService{
		updateFn: func(_ context.Context, id, userID int64, in ports.UpdateOrderInput) error {
			if id != 5 || userID != callerID {
				t.Fatalf("unexpected ids: %d %d", id, userID)
			}
			if in.Status == nil || *in.Status != "cancelled" || in.Description != nil || in.Total != nil {
				t.Fatalf("unexpected input: %+v", in)
			}
			return nil
		},
	})

	rec := httptest.NewRecorder()
	c := authedContext(e, jsonRequest(http.MethodPut, "/orders/5", `{"status":"cancelled","user_id":999,"id":1}`), rec)
	c.SetParamNames("id")
	c.SetParamValues("5")
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if data := decodeEnvelope(t, rec)["data"].(map[string]any); data["order_id"] != float64(5) {
		t.Fatalf("unexpected payload: %+v", data)
	}
}

func TestOrderHandler_Delete_PropagatesNotFound(t *testing.T) {
	e := newTestEcho()
	h := NewOrderHandler(&stubOrderService{
		deleteFn: func(context.Context, int64, int64) error { return domain.ErrOrderNotFound },
	})

	c := authedContext(e, httptest.NewRequest(http.MethodDelete, "/orders/5", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("5")
	if err := h.Delete(c); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestRoot(t *testing.T) {
	e := newTestEcho()
	rec := httptest.NewRecorder()
	if err := Root(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	if data["name"] != "orders-api" || data["version"] != Version {
		t.Fatalf("unexpected root payload: %+v", data)
	}
}

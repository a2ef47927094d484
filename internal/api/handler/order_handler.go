package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/orderly/orders-api/internal/api/metrics"
	"github.com/orderly/orders-api/internal/core/ports"
)

// OrderHandler handles HTTP requests for the caller's orders.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// List handles GET /orders.
//
// @Summary      List the caller's orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number (1-based)"  default(1)
// @Param        limit   query     int     false  "Page size (1-50)"       default(10)
// @Param        status  query     string  false  "Filter by status"  Enums(pending, in_progress, completed, cancelled)
// @Success      200     {object}  successResponse{data=listOrdersResponse}
// @Failure      401     {object}  ErrorResponse
// @Failure      422     {object}  ValidationErrorResponse
// @Router       /orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	res, err := h.service.ListOrders(c.Request().Context(), ports.ListOrdersInput{
		UserID: id.UserID,
		Status: c.QueryParam("status"),
		Page:   queryInt(c.QueryParam("page")),
		Limit:  optionalQueryInt(c.QueryParams(), "limit"),
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "orders retrieved", toListOrdersResponse(res))
}

// Get handles GET /orders/:id.
//
// @Summary      Get one of the caller's orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order id"
// @Success      200  {object}  successResponse{data=orderResponse}
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	orderID, err := parseOrderID(c.Param("id"))
	if err != nil {
		return err
	}

	order, err := h.service.GetOrder(c.Request().Context(), orderID, id.UserID)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "order retrieved", toOrderResponse(order))
}

// Create handles POST /orders.
//
// @Summary      Create an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOrderRequest  true  "Order details"
// @Success      201   {object}  successResponse{data=orderIDResponse}
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      422   {object}  ValidationErrorResponse
// @Router       /orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}

	orderID, err := h.service.CreateOrder(c.Request().Context(), toCreateOrderInput(req, id.UserID))
	if err != nil {
		return err
	}
	metrics.OrderMutationsTotal.WithLabelValues("create").Inc()

	return respond(c, http.StatusCreated, "order created successfully", orderIDResponse{OrderID: orderID})
}

// Update handles PUT /orders/:id.
//
// @Summary      Update an order
// @Description  Only description, status and total are applied; other fields are ignored.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "Order id"
// @Param        body  body      updateOrderRequest  true  "Fields to change"
// @Success      200   {object}  successResponse{data=orderIDResponse}
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      422   {object}  ValidationErrorResponse
// @Router       /orders/{id} [put]
func (h *OrderHandler) Update(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	orderID, err := parseOrderID(c.Param("id"))
	if err != nil {
		return err
	}

	var req updateOrderRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return bindError(err)
	}

	if err := h.service.UpdateOrder(c.Request().Context(), orderID, id.UserID, toUpdateOrderInput(req)); err != nil {
		return err
	}
	metrics.OrderMutationsTotal.WithLabelValues("update").Inc()

	return respond(c, http.StatusOK, "order updated successfully", orderIDResponse{OrderID: orderID})
}

// Delete handles DELETE /orders/:id.
//
// @Summary      Delete an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order id"
// @Success      200  {object}  successResponse{data=orderIDResponse}
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /orders/{id} [delete]
func (h *OrderHandler) Delete(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	orderID, err := parseOrderID(c.Param("id"))
	if err != nil {
		return err
	}

	if err := h.service.DeleteOrder(c.Request().Context(), orderID, id.UserID); err != nil {
		return err
	}
	metrics.OrderMutationsTotal.WithLabelValues("delete").Inc()

	return respond(c, http.StatusOK, "order deleted successfully", orderIDResponse{OrderID: orderID})
}

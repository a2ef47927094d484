package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Version is stamped at build time with -ldflags "-X ...handler.Version=...".
var Version = "1.0.0"

type rootResponse struct {
	Name      string            `json:"name"    example:"orders-api"`
	Version   string            `json:"version" example:"1.0.0"`
	Endpoints map[string]string `json:"endpoints"`
}

// Root handles GET /.
//
// @Summary      API information
// @Tags         meta
// @Produce      json
// @Success      200  {object}  successResponse{data=rootResponse}
// @Router       / [get]
func Root(c echo.Context) error {
	return respond(c, http.StatusOK, "orders API", rootResponse{
		Name:    "orders-api",
		Version: Version,
		Endpoints: map[string]string{
			"auth":   "/auth",
			"orders": "/orders",
			"health": "/health",
			"docs":   "/swagger/index.html",
		},
	})
}

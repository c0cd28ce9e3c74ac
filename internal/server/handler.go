package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"MarketPulse/internal/model"
)

// ViewBuilder produces a fresh view model per request.
type ViewBuilder interface {
	Build(ctx context.Context) *model.DashboardViewModel
}

// DashboardHandler serves the single page.
type DashboardHandler struct {
	builder ViewBuilder
}

func NewDashboardHandler(builder ViewBuilder) *DashboardHandler {
	return &DashboardHandler{builder: builder}
}

// RegisterRoutes registers GET /.
func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.index)
}

func (h *DashboardHandler) index(c echo.Context) error {
	vm := h.builder.Build(c.Request().Context())
	return c.Render(http.StatusOK, "index.html", vm)
}

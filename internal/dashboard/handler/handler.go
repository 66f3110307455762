package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/dashboard"
	"github.com/fekuna/omnipos-erp-service/pkg/logger"
	"github.com/labstack/echo/v4"
)

type DashboardHandler struct {
	uc     dashboard.UseCase
	logger logger.ZapLogger
}

func NewDashboardHandler(uc dashboard.UseCase, log logger.ZapLogger) *DashboardHandler {
	return &DashboardHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *DashboardHandler) MapRoutes(g *echo.Group) {
	g.GET("/stats", h.Stats)
	g.GET("/low-stock", h.LowStock)
}

func (h *DashboardHandler) Stats(c echo.Context) error {
	id, err := auth.FromEcho(c)
	if err != nil {
		return err
	}
	stats, err := h.uc.Stats(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"stats": stats})
}

func (h *DashboardHandler) LowStock(c echo.Context) error {
	id, err := auth.FromEcho(c)
	if err != nil {
		return err
	}
	items, err := h.uc.LowStock(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"lowStockItems": items})
}

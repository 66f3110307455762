package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/location"
	"github.com/fekuna/omnipos-erp-service/internal/location/dto"
	"github.com/fekuna/omnipos-erp-service/pkg/apperror"
	"github.com/fekuna/omnipos-erp-service/pkg/logger"
	"github.com/labstack/echo/v4"
)

type LocationHandler struct {
	uc     location.UseCase
	logger logger.ZapLogger
}

func NewLocationHandler(uc location.UseCase, log logger.ZapLogger) *LocationHandler {
	return &LocationHandler{
		uc:     uc,
		logger: log,
	}
}

// MapRoutes mounts the routes on g, which must already run auth.Authenticate.
func (h *LocationHandler) MapRoutes(g *echo.Group) {
	g.GET("/stores", h.ListStores)
	g.GET("/warehouses", h.ListWarehouses)
	g.POST("/stores", h.CreateStore, auth.RequireHeadquarter())
	g.POST("/warehouses", h.CreateWarehouse, auth.RequireHeadquarter())
}

func (h *LocationHandler) ListStores(c echo.Context) error {
	id, err := auth.FromEcho(c)
	if err != nil {
		return err
	}
	stores, err := h.uc.ListStores(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"stores": stores})
}

func (h *LocationHandler) ListWarehouses(c echo.Context) error {
	id, err := auth.FromEcho(c)
	if err != nil {
		return err
	}
	warehouses, err := h.uc.ListWarehouses(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"warehouses": warehouses})
}

func (h *LocationHandler) CreateStore(c echo.Context) error {
	id, err := auth.FromEcho(c)
	if err != nil {
		return err
	}
	var req dto.CreateStoreRequest
	if err := c.Bind(&req); err != nil {
		return apperror.Validation("Invalid request body").WithID("ValidationFailed")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	store, err := h.uc.CreateStore(c.Request().Context(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Store created successfully", "store": store})
}

func (h *LocationHandler) CreateWarehouse(c echo.Context) error {
	id, err := auth.FromEcho(c)
	if err != nil {
		return err
	}
	var req dto.CreateWarehouseRequest
	if err := c.Bind(&req); err != nil {
		return apperror.Validation("Invalid request body").WithID("ValidationFailed")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	warehouse, err := h.uc.CreateWarehouse(c.Request().Context(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Warehouse created successfully", "warehouse": warehouse})
}

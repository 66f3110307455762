package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/inventory"
	"github.com/fekuna/omnipos-erp-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-erp-service/pkg/apperror"
	"github.com/fekuna/omnipos-erp-service/pkg/logger"
	"github.com/labstack/echo/v4"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

// MapRoutes mounts the routes on g, which must already run auth.Authenticate.
func (h *InventoryHandler) MapRoutes(g *echo.Group) {
	g.GET("", h.ListInventory)
	g.POST("/adjust", h.AdjustInventory, auth.RequireWrite())
	g.GET("/audit", h.ListAudit, auth.RequireHeadquarter())
}

func (h *InventoryHandler) ListInventory(c echo.Context) error {
	id, err := auth.FromEcho(c)
	if err != nil {
		return err
	}

	var q dto.ListInventoryQuery
	if err := echo.QueryParamsBinder(c).
		Bool("lowStock", &q.LowStock).
		BindError(); err != nil {
		return apperror.Validation("Invalid query parameters").WithID("ValidationFailed")
	}
	if q.StoreID, err = queryID(c, "storeId"); err != nil {
		return err
	}
	if q.WarehouseID, err = queryID(c, "warehouseId"); err != nil {
		return err
	}
	if q.ProductID, err = queryID(c, "productId"); err != nil {
		return err
	}

	items, err := h.uc.ListInventory(c.Request().Context(), id, &q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"inventory": items})
}

func (h *InventoryHandler) AdjustInventory(c echo.Context) error {
	id, err := auth.FromEcho(c)
	if err != nil {
		return err
	}

	var req dto.AdjustInventoryRequest
	if err := c.Bind(&req); err != nil {
		return apperror.Validation("Invalid request body").WithID("ValidationFailed")
	}
	req.Normalize()
	if err := c.Validate(&req); err != nil {
		return err
	}

	inv, err := h.uc.AdjustInventory(c.Request().Context(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Inventory adjusted successfully", "inventory": inv})
}

func (h *InventoryHandler) ListAudit(c echo.Context) error {
	id, err := auth.FromEcho(c)
	if err != nil {
		return err
	}

	var q dto.ListAuditQuery
	if err := echo.QueryParamsBinder(c).
		Int("page", &q.Page).
		Int("limit", &q.Limit).
		BindError(); err != nil {
		return apperror.Validation("Invalid query parameters").WithID("ValidationFailed")
	}
	if q.ProductID, err = queryID(c, "productId"); err != nil {
		return err
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	page, err := h.uc.ListAudit(c.Request().Context(), id, &q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// queryID reads an optional id filter. An absent parameter is nil; anything present must be a
// positive integer.
func queryID(c echo.Context, name string) (*int64, error) {
	if c.QueryParam(name) == "" {
		return nil, nil
	}
	var v int64
	if err := echo.QueryParamsBinder(c).Int64(name, &v).BindError(); err != nil || v <= 0 {
		return nil, apperror.Validation("Invalid query parameters",
			apperror.FieldError{Field: name, Message: "must be a positive integer"}).WithID("ValidationFailed")
	}
	return &v, nil
}

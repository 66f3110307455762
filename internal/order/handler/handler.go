package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/order"
	"github.com/fekuna/omnipos-erp-service/internal/order/dto"
	"github.com/fekuna/omnipos-erp-service/pkg/apperror"
	"github.com/fekuna/omnipos-erp-service/pkg/logger"
	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		logger: log,
	}
}

// MapRoutes mounts the routes on g, which must already run auth.Authenticate.
func (h *OrderHandler) MapRoutes(g *echo.Group) {
	g.GET("", h.ListOrders)
	g.POST("", h.CreateOrder)
	g.GET("/:id", h.GetOrder)
	g.PATCH("/:id/status", h.UpdateStatus, auth.RequireWrite())
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	id, err := auth.FromEcho(c)
	if err != nil {
		return err
	}

	var q dto.ListOrdersQuery
	if err := echo.QueryParamsBinder(c).
		Int("page", &q.Page).
		Int("limit", &q.Limit).
		String("status", &q.Status).
		String("orderType", &q.OrderType).
		BindError(); err != nil {
		return apperror.Validation("Invalid query parameters").WithID("ValidationFailed")
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	page, err := h.uc.ListOrders(c.Request().Context(), id, &q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := auth.FromEcho(c)
	if err != nil {
		return err
	}
	orderID, err := pathID(c)
	if err != nil {
		return err
	}

	o, err := h.uc.GetOrder(c.Request().Context(), id, orderID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"order": o})
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	id, err := auth.FromEcho(c)
	if err != nil {
		return err
	}

	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return apperror.Validation("Invalid request body").WithID("ValidationFailed")
	}
	req.Normalize()
	if err := c.Validate(&req); err != nil {
		return err
	}

	o, err := h.uc.CreateOrder(c.Request().Context(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Order created successfully", "order": o})
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := auth.FromEcho(c)
	if err != nil {
		return err
	}
	orderID, err := pathID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return apperror.Validation("Invalid request body").WithID("ValidationFailed")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	o, err := h.uc.UpdateStatus(c.Request().Context(), id, orderID, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Order status updated successfully", "order": o})
}

func pathID(c echo.Context) (int64, error) {
	var orderID int64
	if err := echo.PathParamsBinder(c).MustInt64("id", &orderID).BindError(); err != nil || orderID <= 0 {
		return 0, apperror.Validation("Invalid order id").WithID("ValidationFailed")
	}
	return orderID, nil
}

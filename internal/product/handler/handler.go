package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/product"
	"github.com/fekuna/omnipos-erp-service/internal/product/dto"
	"github.com/fekuna/omnipos-erp-service/pkg/apperror"
	"github.com/fekuna/omnipos-erp-service/pkg/logger"
	"github.com/labstack/echo/v4"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

// MapRoutes mounts the routes on g, which must already run auth.Authenticate.
func (h *ProductHandler) MapRoutes(g *echo.Group) {
	g.GET("", h.ListProducts)
	g.POST("", h.CreateProduct, auth.RequireWrite())
	g.GET("/:id", h.GetProduct)
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	id, err := auth.FromEcho(c)
	if err != nil {
		return err
	}

	var q dto.ListProductsQuery
	if err := echo.QueryParamsBinder(c).
		Int("page", &q.Page).
		Int("limit", &q.Limit).
		String("search", &q.Search).
		String("category", &q.Category).
		BindError(); err != nil {
		return apperror.Validation("Invalid query parameters").WithID("ValidationFailed")
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	page, err := h.uc.ListProducts(c.Request().Context(), id, &q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := auth.FromEcho(c)
	if err != nil {
		return err
	}

	var productID int64
	if err := echo.PathParamsBinder(c).MustInt64("id", &productID).BindError(); err != nil {
		return apperror.Validation("Invalid product ID").WithID("ValidationFailed")
	}

	p, err := h.uc.GetProduct(c.Request().Context(), id, productID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"product": p})
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	id, err := auth.FromEcho(c)
	if err != nil {
		return err
	}

	var req dto.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return apperror.Validation("Invalid request body").WithID("ValidationFailed")
	}
	req.Normalize()
	if err := c.Validate(&req); err != nil {
		return err
	}

	p, err := h.uc.CreateProduct(c.Request().Context(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"product": p})
}

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/model"
	"github.com/fekuna/omnipos-erp-service/internal/product/dto"
	"github.com/fekuna/omnipos-erp-service/pkg/apperror"
	"github.com/fekuna/omnipos-erp-service/pkg/logger"
	"github.com/fekuna/omnipos-erp-service/pkg/validator"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type stubUseCase struct {
	created *dto.CreateProductRequest
	query   *dto.ListProductsQuery
}

func (s *stubUseCase) ListProducts(_ context.Context, _ *auth.Identity, q *dto.ListProductsQuery) (*dto.ProductPage, error) {
	s.query = q
	return &dto.ProductPage{Products: []model.ProductListItem{}}, nil
}

func (s *stubUseCase) GetProduct(_ context.Context, _ *auth.Identity, id int64) (*model.ProductDetail, error) {
	return nil, apperror.NotFound("Product not found").WithID("ProductNotFound")
}

func (s *stubUseCase) CreateProduct(_ context.Context, id *auth.Identity, in *dto.CreateProductRequest) (*model.Product, error) {
	s.created = in
	return &model.Product{SKU: in.SKU, CompanyID: id.CompanyID}, nil
}

func (s *stubUseCase) EnsureInTenant(context.Context, int64, ...int64) error { return nil }

func newServer(uc *stubUseCase, role auth.Role) *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = apperror.NewHTTPErrorHandler(logger.NewNop(), nil)
	g := e.Group("/api/products", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := &auth.Identity{UserID: 1, CompanyID: 1, Role: role}
			c.SetRequest(c.Request().WithContext(auth.WithIdentity(c.Request().Context(), id)))
			return next(c)
		}
	})
	NewProductHandler(uc, logger.NewNop()).MapRoutes(g)
	return e
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCreateProduct_StoreRoleForbidden(t *testing.T) {
	uc := &stubUseCase{}
	rec := serve(newServer(uc, auth.RoleStore), http.MethodPost, "/api/products",
		`{"sku":"A","name":"B","unitPrice":1,"costPrice":1}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, uc.created)
}

func TestCreateProduct_NegativePrice(t *testing.T) {
	uc := &stubUseCase{}
	rec := serve(newServer(uc, auth.RoleWarehouse), http.MethodPost, "/api/products",
		`{"sku":"A","name":"B","unitPrice":-1,"costPrice":1}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unitPrice")
	assert.Nil(t, uc.created)
}

func TestCreateProduct_PriceAboveColumnRange(t *testing.T) {
	uc := &stubUseCase{}
	rec := serve(newServer(uc, auth.RoleHeadquarter), http.MethodPost, "/api/products",
		`{"sku":"A","name":"B","unitPrice":1,"costPrice":"100000000.00"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "costPrice")
	assert.Nil(t, uc.created)
}

func TestCreateProduct_Created(t *testing.T) {
	uc := &stubUseCase{}
	rec := serve(newServer(uc, auth.RoleHeadquarter), http.MethodPost, "/api/products",
		`{"sku":" A-1 ","name":"Widget","unitPrice":"12.50","costPrice":3}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "A-1", uc.created.SKU)
	assert.Equal(t, "12.5", uc.created.UnitPrice.String())
}

func TestListProducts_LimitOutOfRange(t *testing.T) {
	uc := &stubUseCase{}
	rec := serve(newServer(uc, auth.RoleStore), http.MethodGet, "/api/products?limit=500", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, uc.query)

	rec = serve(newServer(uc, auth.RoleStore), http.MethodGet, "/api/products?page=2&search=wid", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, uc.query.Page)
	assert.Equal(t, "wid", uc.query.Search)
}

func TestGetProduct_BadID(t *testing.T) {
	rec := serve(newServer(&stubUseCase{}, auth.RoleStore), http.MethodGet, "/api/products/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(newServer(&stubUseCase{}, auth.RoleStore), http.MethodGet, "/api/products/7", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

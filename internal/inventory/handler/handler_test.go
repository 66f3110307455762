package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/inventory"
	"github.com/fekuna/omnipos-erp-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-erp-service/internal/inventory/usecase"
	"github.com/fekuna/omnipos-erp-service/internal/model"
	"github.com/fekuna/omnipos-erp-service/pkg/apperror"
	"github.com/fekuna/omnipos-erp-service/pkg/logger"
	"github.com/fekuna/omnipos-erp-service/pkg/validator"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUseCase struct {
	listed   *dto.ListInventoryQuery
	adjusted *dto.AdjustInventoryRequest
	audit    *dto.ListAuditQuery
}

func (s *stubUseCase) ListInventory(_ context.Context, _ *auth.Identity, q *dto.ListInventoryQuery) ([]model.InventoryView, error) {
	s.listed = q
	return []model.InventoryView{}, nil
}

func (s *stubUseCase) AdjustInventory(_ context.Context, _ *auth.Identity, req *dto.AdjustInventoryRequest) (*model.Inventory, error) {
	s.adjusted = req
	return &model.Inventory{ID: 9, ProductID: req.ProductID, Quantity: *req.Quantity}, nil
}

func (s *stubUseCase) ListAudit(_ context.Context, _ *auth.Identity, q *dto.ListAuditQuery) (*dto.AuditPage, error) {
	s.audit = q
	return &dto.AuditPage{AuditLogs: []model.AuditLogView{}}, nil
}

func newServer(uc inventory.UseCase, role auth.Role) *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = apperror.NewHTTPErrorHandler(logger.NewNop(), nil)
	g := e.Group("/api/inventory", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := &auth.Identity{UserID: 1, CompanyID: 1, Role: role}
			c.SetRequest(c.Request().WithContext(auth.WithIdentity(c.Request().Context(), id)))
			return next(c)
		}
	})
	NewInventoryHandler(uc, logger.NewNop()).MapRoutes(g)
	return e
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAdjustInventory(t *testing.T) {
	uc := &stubUseCase{}
	rec := serve(newServer(uc, auth.RoleHeadquarter), http.MethodPost, "/api/inventory/adjust",
		`{"productId":1,"warehouseId":2,"quantity":-5,"reason":"  damaged  "}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Inventory adjusted successfully")
	require.NotNil(t, uc.adjusted)
	assert.Equal(t, int64(-5), *uc.adjusted.Quantity)
	assert.Equal(t, "damaged", uc.adjusted.Reason)
}

func TestAdjustInventory_ZeroDelta(t *testing.T) {
	uc := &stubUseCase{}
	rec := serve(newServer(uc, auth.RoleHeadquarter), http.MethodPost, "/api/inventory/adjust",
		`{"productId":1,"storeId":2,"quantity":0,"reason":"count"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.adjusted)
	assert.Equal(t, int64(0), *uc.adjusted.Quantity)
}

func TestAdjustInventory_Invalid(t *testing.T) {
	tests := []struct {
		name, body, want string
	}{
		{"missing quantity", `{"productId":1,"storeId":2,"reason":"x"}`, "quantity"},
		{"fractional delta", `{"productId":1,"storeId":2,"quantity":1.5,"reason":"x"}`, "Invalid request body"},
		{"delta above integer range", `{"productId":1,"storeId":2,"quantity":2147483648,"reason":"x"}`, "quantity"},
		{"delta below integer range", `{"productId":1,"storeId":2,"quantity":-2147483649,"reason":"x"}`, "quantity"},
		{"missing reason", `{"productId":1,"storeId":2,"quantity":1}`, "reason"},
		{"missing product", `{"storeId":2,"quantity":1,"reason":"x"}`, "productId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUseCase{}
			rec := serve(newServer(uc, auth.RoleHeadquarter), http.MethodPost, "/api/inventory/adjust", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
			assert.Nil(t, uc.adjusted)
		})
	}
}

func TestAdjustInventory_LocationXOR(t *testing.T) {
	// The location check runs before any dependency is touched.
	uc := usecase.NewInventoryUseCase(nil, nil, nil, usecase.Options{}, logger.NewNop())

	for name, body := range map[string]string{
		"both":    `{"productId":1,"storeId":2,"warehouseId":3,"quantity":1,"reason":"x"}`,
		"neither": `{"productId":1,"quantity":1,"reason":"x"}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := serve(newServer(uc, auth.RoleHeadquarter), http.MethodPost, "/api/inventory/adjust", body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "Must specify either storeId or warehouseId, not both")
		})
	}
}

func TestListAudit_StoreForbidden(t *testing.T) {
	uc := &stubUseCase{}
	rec := serve(newServer(uc, auth.RoleStore), http.MethodGet, "/api/inventory/audit", "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, uc.audit)
}

func TestListInventory_Filters(t *testing.T) {
	uc := &stubUseCase{}
	rec := serve(newServer(uc, auth.RoleHeadquarter), http.MethodGet, "/api/inventory?storeId=4&lowStock=true", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.listed)
	require.NotNil(t, uc.listed.StoreID)
	assert.Equal(t, int64(4), *uc.listed.StoreID)
	assert.Nil(t, uc.listed.WarehouseID)
	assert.Nil(t, uc.listed.ProductID)
	assert.True(t, uc.listed.LowStock)
}

func TestListInventory_NonPositiveID(t *testing.T) {
	for _, target := range []string{
		"/api/inventory?storeId=-1",
		"/api/inventory?storeId=0",
		"/api/inventory?warehouseId=abc",
		"/api/inventory?productId=-7",
		"/api/inventory/audit?productId=0",
	} {
		t.Run(target, func(t *testing.T) {
			uc := &stubUseCase{}
			rec := serve(newServer(uc, auth.RoleHeadquarter), http.MethodGet, target, "")

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "Invalid query parameters")
			assert.Nil(t, uc.listed)
			assert.Nil(t, uc.audit)
		})
	}
}

func TestListAudit(t *testing.T) {
	uc := &stubUseCase{}
	rec := serve(newServer(uc, auth.RoleHeadquarter), http.MethodGet, "/api/inventory/audit?productId=3&page=2", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.audit)
	require.NotNil(t, uc.audit.ProductID)
	assert.Equal(t, int64(3), *uc.audit.ProductID)
	assert.Equal(t, 2, uc.audit.Page)
}

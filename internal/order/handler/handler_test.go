package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/model"
	"github.com/fekuna/omnipos-erp-service/internal/order/dto"
	"github.com/fekuna/omnipos-erp-service/pkg/apperror"
	"github.com/fekuna/omnipos-erp-service/pkg/logger"
	"github.com/fekuna/omnipos-erp-service/pkg/validator"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUseCase struct {
	created *dto.CreateOrderRequest
	status  *dto.UpdateStatusRequest
	query   *dto.ListOrdersQuery
}

func (s *stubUseCase) ListOrders(_ context.Context, _ *auth.Identity, q *dto.ListOrdersQuery) (*dto.OrderPage, error) {
	s.query = q
	return &dto.OrderPage{Orders: []model.OrderSummary{}}, nil
}

func (s *stubUseCase) GetOrder(_ context.Context, _ *auth.Identity, id int64) (*model.OrderDetail, error) {
	return nil, apperror.NotFound("Order not found").WithID("OrderNotFound")
}

func (s *stubUseCase) CreateOrder(_ context.Context, _ *auth.Identity, req *dto.CreateOrderRequest) (*model.OrderDetail, error) {
	s.created = req
	return &model.OrderDetail{Order: model.Order{OrderNumber: "SALES-1"}}, nil
}

func (s *stubUseCase) UpdateStatus(_ context.Context, _ *auth.Identity, id int64, req *dto.UpdateStatusRequest) (*model.OrderDetail, error) {
	s.status = req
	return &model.OrderDetail{Order: model.Order{Status: model.OrderStatus(req.Status)}}, nil
}

func newServer(uc *stubUseCase, role auth.Role) *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = apperror.NewHTTPErrorHandler(logger.NewNop(), nil)
	g := e.Group("/api/orders", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := &auth.Identity{UserID: 1, CompanyID: 1, Role: role}
			c.SetRequest(c.Request().WithContext(auth.WithIdentity(c.Request().Context(), id)))
			return next(c)
		}
	})
	NewOrderHandler(uc, logger.NewNop()).MapRoutes(g)
	return e
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCreateOrder(t *testing.T) {
	uc := &stubUseCase{}
	rec := serve(newServer(uc, auth.RoleStore), http.MethodPost, "/api/orders",
		`{"orderType":"sales","customerName":"  Ann ","items":[{"productId":1,"quantity":2,"unitPrice":5}]}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Order created successfully")
	require.NotNil(t, uc.created)
	assert.Equal(t, "Ann", uc.created.CustomerName)
}

func TestCreateOrder_Invalid(t *testing.T) {
	tests := []struct {
		name, body, field string
	}{
		{"no items", `{"orderType":"sales","items":[]}`, "items"},
		{"bad type", `{"orderType":"gift","items":[{"productId":1,"quantity":1,"unitPrice":1}]}`, "orderType"},
		{"zero quantity", `{"orderType":"sales","items":[{"productId":1,"quantity":0,"unitPrice":1}]}`, "quantity"},
		{"quantity above integer range", `{"orderType":"sales","items":[{"productId":1,"quantity":2147483648,"unitPrice":1}]}`, "quantity"},
		{"price above column range", `{"orderType":"sales","items":[{"productId":1,"quantity":1,"unitPrice":100000000}]}`, "unitPrice"},
		{"negative price", `{"orderType":"sales","items":[{"productId":1,"quantity":1,"unitPrice":-1}]}`, "unitPrice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUseCase{}
			rec := serve(newServer(uc, auth.RoleHeadquarter), http.MethodPost, "/api/orders", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.field)
			assert.Nil(t, uc.created)
		})
	}
}

func TestUpdateStatus_StoreForbidden(t *testing.T) {
	uc := &stubUseCase{}
	rec := serve(newServer(uc, auth.RoleStore), http.MethodPatch, "/api/orders/5/status", `{"status":"confirmed"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, uc.status)
}

func TestUpdateStatus(t *testing.T) {
	uc := &stubUseCase{}
	rec := serve(newServer(uc, auth.RoleWarehouse), http.MethodPatch, "/api/orders/5/status", `{"status":"confirmed"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Order status updated successfully")
}

func TestGetOrder_BadID(t *testing.T) {
	rec := serve(newServer(&stubUseCase{}, auth.RoleHeadquarter), http.MethodGet, "/api/orders/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListOrders_Query(t *testing.T) {
	uc := &stubUseCase{}
	rec := serve(newServer(uc, auth.RoleHeadquarter), http.MethodGet, "/api/orders?status=pending&page=2", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.query)
	assert.Equal(t, "pending", uc.query.Status)
	assert.Equal(t, 2, uc.query.Page)
}

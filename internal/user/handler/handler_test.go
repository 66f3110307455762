package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/model"
	"github.com/fekuna/omnipos-erp-service/internal/user/dto"
	"github.com/fekuna/omnipos-erp-service/pkg/apperror"
	"github.com/fekuna/omnipos-erp-service/pkg/logger"
	"github.com/fekuna/omnipos-erp-service/pkg/validator"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUseCase struct {
	got *dto.RegisterRequest
}

func (s *stubUseCase) ResolveIdentity(context.Context, string) (*auth.Identity, error) {
	return nil, apperror.NotFound("User not found")
}

func (s *stubUseCase) Register(_ context.Context, req *dto.RegisterRequest) (*dto.RegisteredUser, error) {
	s.got = req
	return &dto.RegisteredUser{ID: 1, Email: req.Email, Role: req.Role, CompanyID: 1}, nil
}

func (s *stubUseCase) Profile(context.Context, *auth.Identity) (*model.UserProfile, error) {
	return &model.UserProfile{ID: 1}, nil
}

func newServer(uc *stubUseCase) *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = apperror.NewHTTPErrorHandler(logger.NewNop(), nil)
	h := NewUserHandler(uc, logger.NewNop())
	h.MapRoutes(e.Group("/api/auth"), func(next echo.HandlerFunc) echo.HandlerFunc { return next })
	return e
}

func post(e *echo.Echo, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRegister_AcceptsAliasFields(t *testing.T) {
	uc := &stubUseCase{}
	rec := post(newServer(uc), `{"firebaseUid":"fb-1","email":"a@b.co","name":"Ann","role":"headquarter","companyCode":"DEMO"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "fb-1", uc.got.ExternalUID)
	assert.Equal(t, "DEMO", uc.got.TenantCode)

	var body struct {
		Message string `json:"message"`
		User    struct {
			CompanyID int64 `json:"companyId"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "User registered successfully", body.Message)
	assert.Equal(t, int64(1), body.User.CompanyID)
}

func TestRegister_ValidationFailure(t *testing.T) {
	uc := &stubUseCase{}
	rec := post(newServer(uc), `{"externalUid":"x","email":"not-an-email","name":"A","role":"admin","tenantCode":"DEMO"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, uc.got)
	assert.Contains(t, rec.Body.String(), `"field":"email"`)
}

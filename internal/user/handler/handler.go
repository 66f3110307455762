package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/user"
	"github.com/fekuna/omnipos-erp-service/internal/user/dto"
	"github.com/fekuna/omnipos-erp-service/pkg/apperror"
	"github.com/fekuna/omnipos-erp-service/pkg/logger"
	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	uc     user.UseCase
	logger logger.ZapLogger
}

func NewUserHandler(uc user.UseCase, log logger.ZapLogger) *UserHandler {
	return &UserHandler{
		uc:     uc,
		logger: log,
	}
}

// MapRoutes mounts registration publicly and the profile behind authenticate.
func (h *UserHandler) MapRoutes(g *echo.Group, authenticate echo.MiddlewareFunc) {
	g.POST("/register", h.Register)
	g.GET("/profile", h.Profile, authenticate)
}

func (h *UserHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperror.Validation("Invalid request body").WithID("ValidationFailed")
	}
	req.Normalize()
	if err := c.Validate(&req); err != nil {
		return err
	}

	u, err := h.uc.Register(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "User registered successfully", "user": u})
}

func (h *UserHandler) Profile(c echo.Context) error {
	id, err := auth.FromEcho(c)
	if err != nil {
		return err
	}
	profile, err := h.uc.Profile(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"user": profile})
}

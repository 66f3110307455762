package auth

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-erp-service/pkg/apperror"
	"github.com/fekuna/omnipos-erp-service/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// IdentityResolver maps a verified external user id to the internal active user.
// It returns an apperror of KindNotFound when no active user exists.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, externalUID string) (*Identity, error)
}

// Authenticate verifies the bearer token and stores the resolved Identity in the request context.
func Authenticate(v Verifier, resolver IdentityResolver, log logger.ZapLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" {
				return apperror.New(apperror.KindUnauthenticated, "Access token required").WithID("AccessTokenRequired")
			}

			ctx := c.Request().Context()
			claim, err := v.Verify(ctx, token)
			if err != nil {
				logger.FromContext(ctx, log).Debug("token verification failed", zap.Error(err))
				return apperror.New(apperror.KindInvalidCredential, "Invalid or expired token").WithID("InvalidToken")
			}

			id, err := resolver.ResolveIdentity(ctx, claim.UID)
			if err != nil {
				return err
			}

			reqLog := logger.FromContext(ctx, log).With(
				zap.Int64("user_id", id.UserID),
				zap.Int64("company_id", id.CompanyID),
				zap.String("role", id.Role.String()),
			)
			ctx = logger.WithContext(WithIdentity(ctx, id), reqLog)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// RequireWrite rejects roles that may not mutate products or inventory.
func RequireWrite() echo.MiddlewareFunc {
	return requireIdentity(func(id *Identity) bool { return id.CanWrite() })
}

func RequireHeadquarter() echo.MiddlewareFunc {
	return requireIdentity(func(id *Identity) bool { return id.IsHeadquarter() })
}

func requireIdentity(allowed func(*Identity) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := FromEcho(c)
			if err != nil {
				return err
			}
			if !allowed(id) {
				return apperror.Forbidden("Insufficient permissions").WithID("InsufficientPermissions")
			}
			return next(c)
		}
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

package auth

import (
	"context"

	"github.com/fekuna/omnipos-erp-service/pkg/apperror"
	"github.com/labstack/echo/v4"
)

type identityKey struct{}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}

// FromEcho returns the identity resolved by Authenticate. Handlers behind Authenticate
// always have one; the error only fires when a route is wired without it.
func FromEcho(c echo.Context) (*Identity, error) {
	id, ok := IdentityFromContext(c.Request().Context())
	if !ok {
		return nil, apperror.New(apperror.KindUnauthenticated, "Authentication required")
	}
	return id, nil
}

// GetCompanyID returns the tenant of the request, or 0 when unauthenticated.
func GetCompanyID(ctx context.Context) int64 {
	if id, ok := IdentityFromContext(ctx); ok {
		return id.CompanyID
	}
	return 0
}

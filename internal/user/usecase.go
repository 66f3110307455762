package user

import (
	"context"

	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/model"
	"github.com/fekuna/omnipos-erp-service/internal/user/dto"
)

type UseCase interface {
	auth.IdentityResolver

	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisteredUser, error)
	Profile(ctx context.Context, id *auth.Identity) (*model.UserProfile, error)
}

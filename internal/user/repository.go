package user

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-erp-service/internal/model"
	"github.com/fekuna/omnipos-erp-service/internal/user/dto"
)

var (
	ErrCompanyNotFound   = errors.New("company not found")
	ErrStoreNotFound     = errors.New("store not found")
	ErrWarehouseNotFound = errors.New("warehouse not found")
	ErrUserExists        = errors.New("user already exists")
)

type Repository interface {
	FindActiveByExternalID(ctx context.Context, externalUID string) (*model.User, error)
	FindProfile(ctx context.Context, companyID, userID int64) (*model.UserProfileRow, error)

	// Register checks the tenant, the location and uniqueness, then inserts, all in one transaction.
	// It returns one of the package sentinel errors when a check fails.
	Register(ctx context.Context, input *dto.RegisterInput) (*model.User, error)
}

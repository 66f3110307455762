package usecase

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/model"
	"github.com/fekuna/omnipos-erp-service/internal/user"
	"github.com/fekuna/omnipos-erp-service/internal/user/dto"
	"github.com/fekuna/omnipos-erp-service/pkg/apperror"
	"github.com/fekuna/omnipos-erp-service/pkg/logger"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
)

type userUseCase struct {
	repo   user.Repository
	logger logger.ZapLogger
}

func NewUserUseCase(repo user.Repository, log logger.ZapLogger) user.UseCase {
	return &userUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *userUseCase) ResolveIdentity(ctx context.Context, externalUID string) (*auth.Identity, error) {
	u, err := uc.repo.FindActiveByExternalID(ctx, externalUID)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to resolve user")
	}
	if u == nil {
		return nil, apperror.NotFound("User not found").WithID("UserNotFound")
	}

	role, err := auth.ParseRole(u.Role)
	if err != nil {
		return nil, apperror.Internal(pkgerrors.Wrapf(err, "user %d", u.ID), "Failed to resolve user")
	}

	return &auth.Identity{
		UserID:      u.ID,
		ExternalUID: u.ExternalUID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        role,
		CompanyID:   u.CompanyID,
		StoreID:     u.StoreID,
		WarehouseID: u.WarehouseID,
	}, nil
}

// Register expects a normalized, validated request.
func (uc *userUseCase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisteredUser, error) {
	role, err := auth.ParseRole(req.Role)
	if err != nil {
		return nil, apperror.Validation("Validation failed", apperror.FieldError{Field: "role", Message: "is invalid"}).
			WithID("ValidationFailed")
	}

	needStore, needWarehouse := auth.RequiredLocation(role)
	if needStore && req.StoreID == nil {
		return nil, apperror.Validation("Store ID is required for store role").WithID("StoreIDRequired")
	}
	if needWarehouse && req.WarehouseID == nil {
		return nil, apperror.Validation("Warehouse ID is required for warehouse role").WithID("WarehouseIDRequired")
	}

	u, err := uc.repo.Register(ctx, &dto.RegisterInput{
		ExternalUID: req.ExternalUID,
		Email:       req.Email,
		Name:        req.Name,
		Role:        role.String(),
		TenantCode:  req.TenantCode,
		StoreID:     req.StoreID,
		WarehouseID: req.WarehouseID,
	})
	switch {
	case errors.Is(err, user.ErrCompanyNotFound):
		return nil, apperror.NotFound("Company not found").WithID("CompanyNotFound")
	case errors.Is(err, user.ErrStoreNotFound):
		return nil, apperror.NotFound("Store not found").WithID("StoreNotFound")
	case errors.Is(err, user.ErrWarehouseNotFound):
		return nil, apperror.NotFound("Warehouse not found").WithID("WarehouseNotFound")
	case errors.Is(err, user.ErrUserExists):
		return nil, apperror.Conflict("User already exists").WithID("UserAlreadyExists")
	case err != nil:
		return nil, apperror.Internal(err, "Registration failed").WithID("RegistrationFailed")
	}

	logger.FromContext(ctx, uc.logger).Info("user registered",
		zap.Int64("user_id", u.ID),
		zap.Int64("company_id", u.CompanyID),
		zap.String("role", u.Role),
	)

	return &dto.RegisteredUser{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		CompanyID:   u.CompanyID,
		StoreID:     u.StoreID,
		WarehouseID: u.WarehouseID,
	}, nil
}

func (uc *userUseCase) Profile(ctx context.Context, id *auth.Identity) (*model.UserProfile, error) {
	row, err := uc.repo.FindProfile(ctx, id.CompanyID, id.UserID)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to fetch profile")
	}
	if row == nil {
		return nil, apperror.NotFound("User not found").WithID("UserNotFound")
	}
	return row.Profile(), nil
}

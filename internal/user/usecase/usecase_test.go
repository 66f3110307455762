package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/model"
	"github.com/fekuna/omnipos-erp-service/internal/user"
	"github.com/fekuna/omnipos-erp-service/internal/user/dto"
	"github.com/fekuna/omnipos-erp-service/pkg/apperror"
	"github.com/fekuna/omnipos-erp-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	users       map[string]*model.User
	registerErr error
	registered  *dto.RegisterInput
}

func (f *fakeRepo) FindActiveByExternalID(_ context.Context, uid string) (*model.User, error) {
	return f.users[uid], nil
}

func (f *fakeRepo) FindProfile(_ context.Context, companyID, userID int64) (*model.UserProfileRow, error) {
	for _, u := range f.users {
		if u.ID == userID && u.CompanyID == companyID {
			return &model.UserProfileRow{ID: u.ID, Email: u.Email, Role: u.Role, CompanyID: u.CompanyID, CompanyName: "Demo"}, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) Register(_ context.Context, in *dto.RegisterInput) (*model.User, error) {
	f.registered = in
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &model.User{BaseModel: model.BaseModel{ID: 42}, Email: in.Email, Name: in.Name, Role: in.Role,
		CompanyID: 1, StoreID: in.StoreID, WarehouseID: in.WarehouseID}, nil
}

func int64Ptr(v int64) *int64 { return &v }

func TestResolveIdentity(t *testing.T) {
	repo := &fakeRepo{users: map[string]*model.User{
		"uid-1": {BaseModel: model.BaseModel{ID: 1}, Role: "warehouse", CompanyID: 3, WarehouseID: int64Ptr(9)},
		"uid-2": {BaseModel: model.BaseModel{ID: 2}, Role: "headquarters", CompanyID: 3},
	}}
	uc := NewUserUseCase(repo, logger.NewNop())
	ctx := context.Background()

	id, err := uc.ResolveIdentity(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleWarehouse, id.Role)
	assert.Equal(t, int64(3), id.CompanyID)
	assert.Equal(t, int64(9), *id.WarehouseID)

	id, err = uc.ResolveIdentity(ctx, "uid-2")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleHeadquarter, id.Role)

	_, err = uc.ResolveIdentity(ctx, "missing")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestRegister_LocationRequiredForRole(t *testing.T) {
	repo := &fakeRepo{}
	uc := NewUserUseCase(repo, logger.NewNop())

	_, err := uc.Register(context.Background(), &dto.RegisterRequest{
		ExternalUID: "u", Email: "a@b.co", Name: "Ann", Role: "store", TenantCode: "DEMO",
	})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Nil(t, repo.registered, "no row may be written")

	_, err = uc.Register(context.Background(), &dto.RegisterRequest{
		ExternalUID: "u", Email: "a@b.co", Name: "Ann", Role: "warehouse", TenantCode: "DEMO", StoreID: int64Ptr(1),
	})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestRegister_CanonicalRole(t *testing.T) {
	repo := &fakeRepo{}
	uc := NewUserUseCase(repo, logger.NewNop())

	u, err := uc.Register(context.Background(), &dto.RegisterRequest{
		ExternalUID: "u", Email: "a@b.co", Name: "Ann", Role: "headquarters", TenantCode: "DEMO",
	})
	require.NoError(t, err)
	assert.Equal(t, "headquarter", repo.registered.Role)
	assert.Equal(t, int64(42), u.ID)
}

func TestRegister_RepositoryErrors(t *testing.T) {
	tests := []struct {
		err  error
		kind apperror.Kind
	}{
		{user.ErrCompanyNotFound, apperror.KindNotFound},
		{user.ErrStoreNotFound, apperror.KindNotFound},
		{user.ErrWarehouseNotFound, apperror.KindNotFound},
		{user.ErrUserExists, apperror.KindConflict},
		{assert.AnError, apperror.KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			uc := NewUserUseCase(&fakeRepo{registerErr: tt.err}, logger.NewNop())
			_, err := uc.Register(context.Background(), &dto.RegisterRequest{
				ExternalUID: "u", Email: "a@b.co", Name: "Ann", Role: "store", TenantCode: "DEMO", StoreID: int64Ptr(1),
			})
			assert.Equal(t, tt.kind, apperror.KindOf(err))
		})
	}
}

func TestProfile(t *testing.T) {
	repo := &fakeRepo{users: map[string]*model.User{
		"uid-1": {BaseModel: model.BaseModel{ID: 1}, Email: "hq@demo.co", Role: "headquarter", CompanyID: 3},
	}}
	uc := NewUserUseCase(repo, logger.NewNop())

	p, err := uc.Profile(context.Background(), &auth.Identity{UserID: 1, CompanyID: 3})
	require.NoError(t, err)
	assert.Equal(t, "Demo", p.Company.Name)
	assert.Nil(t, p.Store)

	_, err = uc.Profile(context.Background(), &auth.Identity{UserID: 1, CompanyID: 4})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

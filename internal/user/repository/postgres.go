package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-erp-service/internal/model"
	"github.com/fekuna/omnipos-erp-service/internal/user"
	"github.com/fekuna/omnipos-erp-service/internal/user/dto"
	"github.com/fekuna/omnipos-erp-service/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
	pkgerrors "github.com/pkg/errors"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindActiveByExternalID(ctx context.Context, externalUID string) (*model.User, error) {
	var u model.User
	query := `
		SELECT id, external_uid, email, name, role, company_id, store_id, warehouse_id, is_active, created_at, updated_at
		FROM users
		WHERE external_uid = $1 AND is_active = true`
	if err := r.DB.GetContext(ctx, &u, query, externalUID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(err, "user.FindActiveByExternalID")
	}
	return &u, nil
}

func (r *PGRepository) FindProfile(ctx context.Context, companyID, userID int64) (*model.UserProfileRow, error) {
	var row model.UserProfileRow
	query := `
		SELECT u.id, u.email, u.name, u.role, u.company_id,
			c.name AS company_name, c.code AS company_code,
			u.store_id, s.name AS store_name, s.store_code,
			u.warehouse_id, w.name AS warehouse_name, w.warehouse_code
		FROM users u
		JOIN companies c ON u.company_id = c.id
		LEFT JOIN stores s ON u.store_id = s.id
		LEFT JOIN warehouses w ON u.warehouse_id = w.id
		WHERE u.id = $1 AND u.company_id = $2`
	if err := r.DB.GetContext(ctx, &row, query, userID, companyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(err, "user.FindProfile")
	}
	return &row, nil
}

func (r *PGRepository) Register(ctx context.Context, in *dto.RegisterInput) (*model.User, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "user.Register.BeginTxx")
	}
	defer tx.Rollback()

	var companyID int64
	if err := tx.GetContext(ctx, &companyID, `SELECT id FROM companies WHERE code = $1`, in.TenantCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrCompanyNotFound
		}
		return nil, pkgerrors.Wrap(err, "user.Register.Company")
	}

	if in.StoreID != nil {
		ok, err := exists(ctx, tx, `SELECT EXISTS (SELECT 1 FROM stores WHERE id = $1 AND company_id = $2)`, *in.StoreID, companyID)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "user.Register.Store")
		}
		if !ok {
			return nil, user.ErrStoreNotFound
		}
	}
	if in.WarehouseID != nil {
		ok, err := exists(ctx, tx, `SELECT EXISTS (SELECT 1 FROM warehouses WHERE id = $1 AND company_id = $2)`, *in.WarehouseID, companyID)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "user.Register.Warehouse")
		}
		if !ok {
			return nil, user.ErrWarehouseNotFound
		}
	}

	taken, err := exists(ctx, tx, `SELECT EXISTS (SELECT 1 FROM users WHERE external_uid = $1 OR email = $2)`, in.ExternalUID, in.Email)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "user.Register.Exists")
	}
	if taken {
		return nil, user.ErrUserExists
	}

	u := &model.User{
		ExternalUID: in.ExternalUID,
		Email:       in.Email,
		Name:        in.Name,
		Role:        in.Role,
		CompanyID:   companyID,
		StoreID:     in.StoreID,
		WarehouseID: in.WarehouseID,
	}
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO users (external_uid, email, name, role, company_id, store_id, warehouse_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, is_active, created_at, updated_at`,
		u.ExternalUID, u.Email, u.Name, u.Role, u.CompanyID, u.StoreID, u.WarehouseID,
	).Scan(&u.ID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		// Lost a race with a concurrent registration of the same uid or email.
		if postgres.IsUniqueViolation(err) {
			return nil, user.ErrUserExists
		}
		return nil, pkgerrors.Wrap(err, "user.Register.Insert")
	}

	if err := tx.Commit(); err != nil {
		return nil, pkgerrors.Wrap(err, "user.Register.Commit")
	}
	return u, nil
}

func exists(ctx context.Context, tx *sqlx.Tx, query string, args ...interface{}) (bool, error) {
	var ok bool
	err := tx.GetContext(ctx, &ok, query, args...)
	return ok, err
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fekuna/omnipos-erp-service/internal/location"
	"github.com/fekuna/omnipos-erp-service/internal/location/dto"
	"github.com/fekuna/omnipos-erp-service/internal/model"
	"github.com/fekuna/omnipos-erp-service/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
	pkgerrors "github.com/pkg/errors"
)

const storeColumns = `id, company_id, store_code, name, region, state, main_contact, phone, email, address,
	is_active, created_at, updated_at`

const warehouseColumns = `id, company_id, warehouse_code, name, location, manager_name, phone, email,
	is_active, created_at, updated_at`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func filterClause(f *dto.LocationFilters) (string, map[string]interface{}) {
	conditions := []string{"company_id = :company_id", "is_active = true"}
	args := map[string]interface{}{"company_id": f.CompanyID}
	if f.ID != nil {
		conditions = append(conditions, "id = :id")
		args["id"] = *f.ID
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *PGRepository) ListStores(ctx context.Context, f *dto.LocationFilters) ([]model.Store, error) {
	where, args := filterClause(f)
	query, qargs, err := sqlx.Named("SELECT "+storeColumns+" FROM stores"+where+" ORDER BY name", args)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "location.ListStores.Named")
	}

	stores := []model.Store{}
	if err := r.DB.SelectContext(ctx, &stores, r.DB.Rebind(query), qargs...); err != nil {
		return nil, pkgerrors.Wrap(err, "location.ListStores")
	}
	return stores, nil
}

func (r *PGRepository) ListWarehouses(ctx context.Context, f *dto.LocationFilters) ([]model.Warehouse, error) {
	where, args := filterClause(f)
	query, qargs, err := sqlx.Named("SELECT "+warehouseColumns+" FROM warehouses"+where+" ORDER BY name", args)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "location.ListWarehouses.Named")
	}

	warehouses := []model.Warehouse{}
	if err := r.DB.SelectContext(ctx, &warehouses, r.DB.Rebind(query), qargs...); err != nil {
		return nil, pkgerrors.Wrap(err, "location.ListWarehouses")
	}
	return warehouses, nil
}

func (r *PGRepository) FindStore(ctx context.Context, companyID, id int64) (*model.Store, error) {
	var s model.Store
	err := r.DB.GetContext(ctx, &s,
		"SELECT "+storeColumns+" FROM stores WHERE id = $1 AND company_id = $2 AND is_active = true", id, companyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(err, "location.FindStore")
	}
	return &s, nil
}

func (r *PGRepository) FindWarehouse(ctx context.Context, companyID, id int64) (*model.Warehouse, error) {
	var w model.Warehouse
	err := r.DB.GetContext(ctx, &w,
		"SELECT "+warehouseColumns+" FROM warehouses WHERE id = $1 AND company_id = $2 AND is_active = true", id, companyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(err, "location.FindWarehouse")
	}
	return &w, nil
}

func (r *PGRepository) CreateStore(ctx context.Context, s *model.Store) error {
	query := `
		INSERT INTO stores (company_id, store_code, name, region, state, main_contact, phone, email, address)
		VALUES (:company_id, :store_code, :name, :region, :state, :main_contact, :phone, :email, :address)
		RETURNING id, is_active, created_at, updated_at`
	return r.insertReturning(ctx, "location.CreateStore", query, s)
}

func (r *PGRepository) CreateWarehouse(ctx context.Context, w *model.Warehouse) error {
	query := `
		INSERT INTO warehouses (company_id, warehouse_code, name, location, manager_name, phone, email)
		VALUES (:company_id, :warehouse_code, :name, :location, :manager_name, :phone, :email)
		RETURNING id, is_active, created_at, updated_at`
	return r.insertReturning(ctx, "location.CreateWarehouse", query, w)
}

func (r *PGRepository) insertReturning(ctx context.Context, op, query string, dest interface{}) error {
	stmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return pkgerrors.Wrap(err, op+".Prepare")
	}
	defer stmt.Close()

	if err := stmt.GetContext(ctx, dest, dest); err != nil {
		if postgres.IsUniqueViolation(err) {
			return location.ErrDuplicateCode
		}
		return pkgerrors.Wrap(err, op)
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fekuna/omnipos-erp-service/internal/model"
	"github.com/fekuna/omnipos-erp-service/internal/product"
	"github.com/fekuna/omnipos-erp-service/internal/product/dto"
	"github.com/fekuna/omnipos-erp-service/pkg/database/postgres"
	"github.com/fekuna/omnipos-erp-service/pkg/pagination"
	"github.com/jmoiron/sqlx"
	pkgerrors "github.com/pkg/errors"
)

const productColumns = `p.id, p.company_id, p.sku, p.name, p.description, p.category, p.unit_price, p.cost_price,
	p.barcode, p.is_active, p.created_at, p.updated_at`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
		INSERT INTO products (company_id, sku, name, description, category, unit_price, cost_price, barcode)
		VALUES (:company_id, :sku, :name, :description, :category, :unit_price, :cost_price, :barcode)
		RETURNING id, is_active, created_at, updated_at`

	stmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return pkgerrors.Wrap(err, "product.Create.Prepare")
	}
	defer stmt.Close()

	if err := stmt.GetContext(ctx, p, p); err != nil {
		if postgres.IsUniqueViolation(err) {
			return product.ErrDuplicateSKU
		}
		return pkgerrors.Wrap(err, "product.Create")
	}
	return nil
}

func (r *PGRepository) FindDetail(ctx context.Context, companyID, id int64) (*model.ProductDetail, error) {
	var d model.ProductDetail
	query := `
		SELECT ` + productColumns + `, COALESCE(SUM(i.quantity), 0) AS total_stock
		FROM products p
		LEFT JOIN inventory i ON p.id = i.product_id
		WHERE p.id = $1 AND p.company_id = $2 AND p.is_active = true
		GROUP BY p.id`
	if err := r.DB.GetContext(ctx, &d, query, id, companyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(err, "product.FindDetail")
	}

	d.InventoryLocations = []model.ProductLocationStock{}
	locations := `
		SELECT CASE WHEN i.store_id IS NOT NULL THEN 'store' ELSE 'warehouse' END AS location_type,
			COALESCE(i.store_id, i.warehouse_id) AS location_id,
			COALESCE(s.name, w.name) AS location_name,
			i.quantity, i.reserved_quantity
		FROM inventory i
		LEFT JOIN stores s ON i.store_id = s.id
		LEFT JOIN warehouses w ON i.warehouse_id = w.id
		WHERE i.product_id = $1 AND i.company_id = $2
		ORDER BY location_type, location_name`
	if err := r.DB.SelectContext(ctx, &d.InventoryLocations, locations, id, companyID); err != nil {
		return nil, pkgerrors.Wrap(err, "product.FindDetail.Locations")
	}
	return &d, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.ProductListItem, int, error) {
	products := []model.ProductListItem{}
	var count int

	conditions := []string{"p.company_id = :company_id", "p.is_active = true"}
	args := map[string]interface{}{"company_id": f.CompanyID}

	if f.Search != "" {
		conditions = append(conditions, "(p.name ILIKE :search OR p.sku ILIKE :search OR p.description ILIKE :search)")
		args["search"] = "%" + f.Search + "%"
	}
	if f.Category != "" {
		conditions = append(conditions, "p.category = :category")
		args["category"] = f.Category
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countStmt, err := r.DB.PrepareNamedContext(ctx, "SELECT COUNT(*) FROM products p"+whereClause)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(err, "product.FindAll.PrepareCount")
	}
	defer countStmt.Close()
	if err := countStmt.GetContext(ctx, &count, args); err != nil {
		return nil, 0, pkgerrors.Wrap(err, "product.FindAll.Count")
	}

	args["limit"] = f.Limit
	args["offset"] = pagination.Offset(f.Page, f.Limit)
	query := `
		SELECT ` + productColumns + `,
			COALESCE(SUM(i.quantity), 0) AS total_stock,
			COUNT(i.id) AS locations_count
		FROM products p
		LEFT JOIN inventory i ON p.id = i.product_id` + whereClause + `
		GROUP BY p.id
		ORDER BY p.name
		LIMIT :limit OFFSET :offset`

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(err, "product.FindAll.Prepare")
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &products, args); err != nil {
		return nil, 0, pkgerrors.Wrap(err, "product.FindAll")
	}
	return products, count, nil
}

func (r *PGRepository) FindByIDs(ctx context.Context, companyID int64, ids []int64) ([]model.ProductListItem, error) {
	products := []model.ProductListItem{}
	if len(ids) == 0 {
		return products, nil
	}

	query, args, err := sqlx.In(`
		SELECT `+productColumns+`,
			COALESCE(SUM(i.quantity), 0) AS total_stock,
			COUNT(i.id) AS locations_count
		FROM products p
		LEFT JOIN inventory i ON p.id = i.product_id
		WHERE p.company_id = ? AND p.is_active = true AND p.id IN (?)
		GROUP BY p.id`, companyID, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "product.FindByIDs.In")
	}

	if err := r.DB.SelectContext(ctx, &products, r.DB.Rebind(query), args...); err != nil {
		return nil, pkgerrors.Wrap(err, "product.FindByIDs")
	}
	return products, nil
}

func (r *PGRepository) ListActiveAfter(ctx context.Context, afterID int64, limit int) ([]model.Product, error) {
	products := []model.Product{}
	query := `
		SELECT ` + productColumns + `
		FROM products p
		WHERE p.is_active = true AND p.id > $1
		ORDER BY p.id
		LIMIT $2`
	if err := r.DB.SelectContext(ctx, &products, query, afterID, limit); err != nil {
		return nil, pkgerrors.Wrap(err, "product.ListActiveAfter")
	}
	return products, nil
}

func (r *PGRepository) ExistingIDs(ctx context.Context, companyID int64, ids []int64) ([]int64, error) {
	found := []int64{}
	if len(ids) == 0 {
		return found, nil
	}

	query, args, err := sqlx.In(`SELECT id FROM products WHERE company_id = ? AND id IN (?)`, companyID, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "product.ExistingIDs.In")
	}
	if err := r.DB.SelectContext(ctx, &found, r.DB.Rebind(query), args...); err != nil {
		return nil, pkgerrors.Wrap(err, "product.ExistingIDs")
	}
	return found, nil
}

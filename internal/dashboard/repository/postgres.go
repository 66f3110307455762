package repository

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/model"
	"github.com/jmoiron/sqlx"
	pkgerrors "github.com/pkg/errors"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// scoped builds a WHERE clause for alias filtered by tenant and scope, returning the bound
// query and its positional args.
func (r *PGRepository) scoped(query, alias string, companyID int64, scope auth.LocationFilter, extra map[string]interface{}) (string, []interface{}, error) {
	conditions := []string{alias + ".company_id = :company_id"}
	args := map[string]interface{}{"company_id": companyID}
	for k, v := range extra {
		args[k] = v
	}
	conditions = scope.Conditions(alias, conditions, args)

	q, qargs, err := sqlx.Named(strings.Replace(query, "{where}", strings.Join(conditions, " AND "), 1), args)
	if err != nil {
		return "", nil, err
	}
	return r.DB.Rebind(q), qargs, nil
}

func (r *PGRepository) CountProducts(ctx context.Context, companyID int64) (int64, error) {
	var n int64
	err := r.DB.GetContext(ctx, &n, `SELECT COUNT(*) FROM products WHERE company_id = $1 AND is_active = true`, companyID)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "dashboard.CountProducts")
	}
	return n, nil
}

func (r *PGRepository) CountOrdersByType(ctx context.Context, companyID int64, scope auth.LocationFilter) (map[model.OrderType]int64, error) {
	query, args, err := r.scoped(`
		SELECT o.order_type, COUNT(*) AS total
		FROM orders o
		WHERE {where}
		GROUP BY o.order_type`, "o", companyID, scope, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "dashboard.CountOrdersByType.Named")
	}

	var rows []struct {
		OrderType model.OrderType `db:"order_type"`
		Total     int64           `db:"total"`
	}
	if err := r.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, pkgerrors.Wrap(err, "dashboard.CountOrdersByType")
	}

	counts := make(map[model.OrderType]int64, len(rows))
	for _, row := range rows {
		counts[row.OrderType] = row.Total
	}
	return counts, nil
}

func (r *PGRepository) StockTotals(ctx context.Context, companyID int64, scope auth.LocationFilter) (int64, int64, error) {
	query, args, err := r.scoped(`
		SELECT COALESCE(SUM(i.quantity), 0) AS total_stock, COUNT(*) AS locations
		FROM inventory i
		WHERE {where}`, "i", companyID, scope, nil)
	if err != nil {
		return 0, 0, pkgerrors.Wrap(err, "dashboard.StockTotals.Named")
	}

	var row struct {
		TotalStock int64 `db:"total_stock"`
		Locations  int64 `db:"locations"`
	}
	if err := r.DB.GetContext(ctx, &row, query, args...); err != nil {
		return 0, 0, pkgerrors.Wrap(err, "dashboard.StockTotals")
	}
	return row.TotalStock, row.Locations, nil
}

func (r *PGRepository) RecentOrders(ctx context.Context, companyID int64, scope auth.LocationFilter, limit int) ([]model.RecentOrder, error) {
	query, args, err := r.scoped(`
		SELECT o.id, o.company_id, o.order_number, o.order_type, o.status, o.store_id, o.warehouse_id,
			o.customer_name, o.customer_email, o.customer_phone, o.total_amount, o.order_date, o.created_by,
			o.created_at, o.updated_at,
			s.name AS store_name, w.name AS warehouse_name
		FROM orders o
		LEFT JOIN stores s ON o.store_id = s.id
		LEFT JOIN warehouses w ON o.warehouse_id = w.id
		WHERE {where}
		ORDER BY o.order_date DESC
		LIMIT :limit`, "o", companyID, scope, map[string]interface{}{"limit": limit})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "dashboard.RecentOrders.Named")
	}

	orders := []model.RecentOrder{}
	if err := r.DB.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, pkgerrors.Wrap(err, "dashboard.RecentOrders")
	}
	return orders, nil
}

func (r *PGRepository) CountStores(ctx context.Context, companyID int64) (int64, error) {
	var n int64
	err := r.DB.GetContext(ctx, &n, `SELECT COUNT(*) FROM stores WHERE company_id = $1 AND is_active = true`, companyID)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "dashboard.CountStores")
	}
	return n, nil
}

func (r *PGRepository) CountWarehouses(ctx context.Context, companyID int64) (int64, error) {
	var n int64
	err := r.DB.GetContext(ctx, &n, `SELECT COUNT(*) FROM warehouses WHERE company_id = $1 AND is_active = true`, companyID)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "dashboard.CountWarehouses")
	}
	return n, nil
}

func (r *PGRepository) LowStock(ctx context.Context, companyID int64, scope auth.LocationFilter, limit int) ([]model.LowStockItem, error) {
	query, args, err := r.scoped(`
		SELECT i.id, i.company_id, i.product_id, i.store_id, i.warehouse_id, i.quantity,
			i.reserved_quantity, i.reorder_level, i.max_stock_level, i.last_updated,
			p.name AS product_name, p.sku,
			s.name AS store_name, s.store_code,
			w.name AS warehouse_name, w.warehouse_code
		FROM inventory i
		JOIN products p ON i.product_id = p.id
		LEFT JOIN stores s ON i.store_id = s.id
		LEFT JOIN warehouses w ON i.warehouse_id = w.id
		WHERE {where} AND i.quantity <= i.reorder_level
		ORDER BY (i.quantity - i.reorder_level) ASC
		LIMIT :limit`, "i", companyID, scope, map[string]interface{}{"limit": limit})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "dashboard.LowStock.Named")
	}

	items := []model.LowStockItem{}
	if err := r.DB.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, pkgerrors.Wrap(err, "dashboard.LowStock")
	}
	return items, nil
}

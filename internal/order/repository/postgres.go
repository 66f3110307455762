package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/model"
	"github.com/fekuna/omnipos-erp-service/internal/order"
	"github.com/fekuna/omnipos-erp-service/internal/order/dto"
	"github.com/fekuna/omnipos-erp-service/pkg/database/postgres"
	"github.com/fekuna/omnipos-erp-service/pkg/pagination"
	"github.com/jmoiron/sqlx"
	pkgerrors "github.com/pkg/errors"
)

const orderNumberConstraint = "orders_company_number_key"

const orderColumns = `o.id, o.company_id, o.order_number, o.order_type, o.status, o.store_id, o.warehouse_id,
	o.customer_name, o.customer_email, o.customer_phone, o.total_amount, o.order_date, o.created_by,
	o.created_at, o.updated_at`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.OrderSummary, int, error) {
	orders := []model.OrderSummary{}
	var count int

	conditions := []string{"o.company_id = :company_id"}
	args := map[string]interface{}{"company_id": f.CompanyID}

	conditions = f.Scope.Conditions("o", conditions, args)
	if f.Status != "" {
		conditions = append(conditions, "o.status = :status")
		args["status"] = f.Status
	}
	if f.OrderType != "" {
		conditions = append(conditions, "o.order_type = :order_type")
		args["order_type"] = f.OrderType
	}
	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countStmt, err := r.DB.PrepareNamedContext(ctx, "SELECT COUNT(*) FROM orders o"+whereClause)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(err, "order.FindAll.PrepareCount")
	}
	defer countStmt.Close()
	if err := countStmt.GetContext(ctx, &count, args); err != nil {
		return nil, 0, pkgerrors.Wrap(err, "order.FindAll.Count")
	}

	args["limit"] = f.Limit
	args["offset"] = pagination.Offset(f.Page, f.Limit)
	query := `
		SELECT ` + orderColumns + `,
			s.name AS store_name, s.store_code,
			w.name AS warehouse_name, w.warehouse_code,
			u.name AS created_by_name,
			COUNT(oi.id) AS items_count
		FROM orders o
		LEFT JOIN stores s ON o.store_id = s.id
		LEFT JOIN warehouses w ON o.warehouse_id = w.id
		LEFT JOIN users u ON o.created_by = u.id
		LEFT JOIN order_items oi ON o.id = oi.order_id` + whereClause + `
		GROUP BY o.id, s.name, s.store_code, w.name, w.warehouse_code, u.name
		ORDER BY o.order_date DESC, o.id DESC
		LIMIT :limit OFFSET :offset`

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(err, "order.FindAll.Prepare")
	}
	defer nstmt.Close()
	if err := nstmt.SelectContext(ctx, &orders, args); err != nil {
		return nil, 0, pkgerrors.Wrap(err, "order.FindAll")
	}
	return orders, count, nil
}

func (r *PGRepository) FindDetail(ctx context.Context, companyID, id int64, scope auth.LocationFilter) (*model.OrderDetail, error) {
	conditions := []string{"o.id = :id", "o.company_id = :company_id"}
	args := map[string]interface{}{"id": id, "company_id": companyID}
	conditions = scope.Conditions("o", conditions, args)

	query, qargs, err := sqlx.Named(`
		SELECT `+orderColumns+`, s.name AS store_name, w.name AS warehouse_name
		FROM orders o
		LEFT JOIN stores s ON o.store_id = s.id
		LEFT JOIN warehouses w ON o.warehouse_id = w.id
		WHERE `+strings.Join(conditions, " AND "), args)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "order.FindDetail.Named")
	}

	var d model.OrderDetail
	if err := r.DB.GetContext(ctx, &d, r.DB.Rebind(query), qargs...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(err, "order.FindDetail")
	}

	d.Items = []model.OrderItemDetail{}
	err = r.DB.SelectContext(ctx, &d.Items, `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.unit_price, oi.total_price, oi.created_at,
			p.name AS product_name, p.sku
		FROM order_items oi
		LEFT JOIN products p ON oi.product_id = p.id
		WHERE oi.order_id = $1
		ORDER BY oi.id`, d.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "order.FindDetail.Items")
	}
	return &d, nil
}

func (r *PGRepository) Create(ctx context.Context, o *model.Order, items []model.OrderItem) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return pkgerrors.Wrap(err, "order.Create.BeginTxx")
	}
	defer tx.Rollback()

	err = tx.QueryRowxContext(ctx, `
		INSERT INTO orders (company_id, order_number, order_type, store_id, warehouse_id,
			customer_name, customer_email, customer_phone, total_amount, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, status, order_date, created_at, updated_at`,
		o.CompanyID, o.OrderNumber, o.OrderType, o.StoreID, o.WarehouseID,
		o.CustomerName, o.CustomerEmail, o.CustomerPhone, o.TotalAmount, o.CreatedBy,
	).Scan(&o.ID, &o.Status, &o.OrderDate, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) && postgres.ConstraintName(err) == orderNumberConstraint {
			return order.ErrOrderNumberTaken
		}
		return pkgerrors.Wrap(err, "order.Create.Header")
	}

	for i := range items {
		items[i].OrderID = o.ID
		err = tx.QueryRowxContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, unit_price, total_price)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at`,
			items[i].OrderID, items[i].ProductID, items[i].Quantity, items[i].UnitPrice, items[i].TotalPrice,
		).Scan(&items[i].ID, &items[i].CreatedAt)
		if err != nil {
			if postgres.IsForeignKeyViolation(err) {
				return order.ErrUnknownProduct
			}
			return pkgerrors.Wrapf(err, "order.Create.Item[%d]", i)
		}
	}

	if err := tx.Commit(); err != nil {
		return pkgerrors.Wrap(err, "order.Create.Commit")
	}
	return nil
}

func (r *PGRepository) UpdateStatus(ctx context.Context, companyID, id int64, from, to model.OrderStatus) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2 AND company_id = $3 AND status = $4`,
		to, id, companyID, from)
	if err != nil {
		return false, pkgerrors.Wrap(err, "order.UpdateStatus")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, pkgerrors.Wrap(err, "order.UpdateStatus.RowsAffected")
	}
	return n == 1, nil
}

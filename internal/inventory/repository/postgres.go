package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/fekuna/omnipos-erp-service/internal/inventory"
	"github.com/fekuna/omnipos-erp-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-erp-service/internal/model"
	"github.com/fekuna/omnipos-erp-service/pkg/database/postgres"
	"github.com/fekuna/omnipos-erp-service/pkg/pagination"
	"github.com/jmoiron/sqlx"
	pkgerrors "github.com/pkg/errors"
)

const inventoryColumns = `id, company_id, product_id, store_id, warehouse_id, quantity, reserved_quantity,
	reorder_level, max_stock_level, last_updated`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.InventoryFilters) ([]model.InventoryView, error) {
	items := []model.InventoryView{}

	conditions := []string{"i.company_id = :company_id"}
	args := map[string]interface{}{"company_id": f.CompanyID}

	conditions = f.Scope.Conditions("i", conditions, args)
	if f.ProductID != nil {
		conditions = append(conditions, "i.product_id = :product_id")
		args["product_id"] = *f.ProductID
	}
	if f.LowStock {
		conditions = append(conditions, "i.quantity <= i.reorder_level")
	}

	query := `
		SELECT i.id, i.company_id, i.product_id, i.store_id, i.warehouse_id, i.quantity, i.reserved_quantity,
			i.reorder_level, i.max_stock_level, i.last_updated,
			p.name AS product_name, p.sku, p.unit_price,
			s.name AS store_name, s.store_code,
			w.name AS warehouse_name, w.warehouse_code,
			(i.quantity - i.reserved_quantity) AS available_quantity
		FROM inventory i
		JOIN products p ON i.product_id = p.id
		LEFT JOIN stores s ON i.store_id = s.id
		LEFT JOIN warehouses w ON i.warehouse_id = w.id
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY p.name, s.name, w.name`

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "inventory.FindAll.Prepare")
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &items, args); err != nil {
		return nil, pkgerrors.Wrap(err, "inventory.FindAll")
	}
	return items, nil
}

type auditNewValues struct {
	Quantity          int64  `json:"quantity"`
	Reason            string `json:"reason"`
	ResultingQuantity int64  `json:"resulting_quantity"`
}

type auditOldValues struct {
	Quantity int64 `json:"quantity"`
}

func (r *PGRepository) Adjust(ctx context.Context, in *dto.AdjustInput) (*dto.AdjustResult, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "inventory.Adjust.BeginTxx")
	}
	defer tx.Rollback()

	var existing model.Inventory
	err = tx.GetContext(ctx, &existing, `
		SELECT `+inventoryColumns+`
		FROM inventory
		WHERE company_id = $1 AND product_id = $2
			AND ((store_id = $3 AND warehouse_id IS NULL) OR (warehouse_id = $4 AND store_id IS NULL))
		FOR UPDATE`,
		in.CompanyID, in.ProductID, in.StoreID, in.WarehouseID)
	found := err == nil
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, pkgerrors.Wrap(err, "inventory.Adjust.Select")
	}

	res := &dto.AdjustResult{}
	if found {
		// The update is a relative increment and does not clamp at zero.
		prev := existing.Quantity
		res.Path = dto.PathUpdate
		res.PreviousQuantity = &prev
		err = tx.GetContext(ctx, &res.Inventory, `
			UPDATE inventory
			SET quantity = quantity + $1, last_updated = NOW()
			WHERE id = $2
			RETURNING `+inventoryColumns,
			in.Delta, existing.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "inventory.Adjust.Update")
		}
	} else {
		// A new row never starts negative.
		initial := in.Delta
		if initial < 0 {
			initial = 0
		}
		res.Path = dto.PathInsert
		err = tx.GetContext(ctx, &res.Inventory, `
			INSERT INTO inventory (company_id, product_id, store_id, warehouse_id, quantity)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+inventoryColumns,
			in.CompanyID, in.ProductID, in.StoreID, in.WarehouseID, initial)
		if err != nil {
			if postgres.IsUniqueViolation(err) {
				return nil, inventory.ErrConcurrentInsert
			}
			return nil, pkgerrors.Wrap(err, "inventory.Adjust.Insert")
		}
	}

	newValues, err := json.Marshal(auditNewValues{
		Quantity:          in.Delta,
		Reason:            in.Reason,
		ResultingQuantity: res.Inventory.Quantity,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "inventory.Adjust.MarshalAudit")
	}
	var oldValues *string
	if res.PreviousQuantity != nil {
		b, err := json.Marshal(auditOldValues{Quantity: *res.PreviousQuantity})
		if err != nil {
			return nil, pkgerrors.Wrap(err, "inventory.Adjust.MarshalAudit")
		}
		s := string(b)
		oldValues = &s
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO audit_logs (company_id, user_id, table_name, record_id, action, old_values, new_values)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		in.CompanyID, in.UserID, model.AuditTableInventory, res.Inventory.ID, model.AuditActionQuantityAdjust,
		oldValues, string(newValues))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "inventory.Adjust.Audit")
	}

	if err := tx.Commit(); err != nil {
		return nil, pkgerrors.Wrap(err, "inventory.Adjust.Commit")
	}
	return res, nil
}

func (r *PGRepository) ListAudit(ctx context.Context, f *dto.AuditFilters) ([]model.AuditLogView, int, error) {
	logs := []model.AuditLogView{}
	var count int

	conditions := []string{"a.company_id = :company_id", "a.table_name = :table_name"}
	args := map[string]interface{}{"company_id": f.CompanyID, "table_name": model.AuditTableInventory}
	if f.ProductID != nil {
		conditions = append(conditions,
			"a.record_id IN (SELECT id FROM inventory WHERE company_id = :company_id AND product_id = :product_id)")
		args["product_id"] = *f.ProductID
	}
	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countStmt, err := r.DB.PrepareNamedContext(ctx, "SELECT COUNT(*) FROM audit_logs a"+whereClause)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(err, "inventory.ListAudit.PrepareCount")
	}
	defer countStmt.Close()
	if err := countStmt.GetContext(ctx, &count, args); err != nil {
		return nil, 0, pkgerrors.Wrap(err, "inventory.ListAudit.Count")
	}

	args["limit"] = f.Limit
	args["offset"] = pagination.Offset(f.Page, f.Limit)
	query := `
		SELECT a.id, a.company_id, a.user_id, a.table_name, a.record_id, a.action, a.old_values, a.new_values,
			a.created_at, u.name AS user_name
		FROM audit_logs a
		LEFT JOIN users u ON a.user_id = u.id` + whereClause + `
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT :limit OFFSET :offset`

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(err, "inventory.ListAudit.Prepare")
	}
	defer nstmt.Close()
	if err := nstmt.SelectContext(ctx, &logs, args); err != nil {
		return nil, 0, pkgerrors.Wrap(err, "inventory.ListAudit")
	}
	return logs, count, nil
}

package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/inventory"
	"github.com/fekuna/omnipos-erp-service/internal/inventory/dto"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var invColumns = []string{"id", "company_id", "product_id", "store_id", "warehouse_id", "quantity",
	"reserved_quantity", "reorder_level", "max_stock_level", "last_updated"}

func newMock(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPGRepository(sqlx.NewDb(db, "postgres")), mock
}

func int64Ptr(v int64) *int64 { return &v }

const (
	selectExisting = "FROM inventory WHERE company_id = $1 AND product_id = $2"
	insertAudit    = "INSERT INTO audit_logs"
)

func TestAdjust_NewRowClampsNegativeDelta(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectExisting)).
		WithArgs(int64(1), int64(7), nil, int64(2)).
		WillReturnRows(sqlmock.NewRows(invColumns))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO inventory")).
		WithArgs(int64(1), int64(7), nil, int64(2), int64(0)).
		WillReturnRows(sqlmock.NewRows(invColumns).AddRow(31, 1, 7, nil, 2, 0, 0, 0, nil, now))
	mock.ExpectExec(regexp.QuoteMeta(insertAudit)).
		WithArgs(int64(1), int64(5), "inventory", int64(31), "quantity_adjustment", nil,
			`{"quantity":-5,"reason":"correction","resulting_quantity":0}`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	res, err := repo.Adjust(context.Background(), &dto.AdjustInput{
		CompanyID: 1, UserID: 5, ProductID: 7, WarehouseID: int64Ptr(2), Delta: -5, Reason: "correction",
	})
	require.NoError(t, err)
	assert.Equal(t, dto.PathInsert, res.Path)
	assert.Equal(t, int64(0), res.Inventory.Quantity)
	assert.Nil(t, res.PreviousQuantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjust_ExistingRowAddsDelta(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectExisting)).
		WithArgs(int64(1), int64(7), int64(3), nil).
		WillReturnRows(sqlmock.NewRows(invColumns).AddRow(12, 1, 7, 3, nil, 10, 0, 0, nil, now))
	mock.ExpectQuery(regexp.QuoteMeta("SET quantity = quantity + $1, last_updated = NOW()")).
		WithArgs(int64(-5), int64(12)).
		WillReturnRows(sqlmock.NewRows(invColumns).AddRow(12, 1, 7, 3, nil, 5, 0, 0, nil, now))
	mock.ExpectExec(regexp.QuoteMeta(insertAudit)).
		WithArgs(int64(1), int64(5), "inventory", int64(12), "quantity_adjustment",
			`{"quantity":10}`, `{"quantity":-5,"reason":"sold","resulting_quantity":5}`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	res, err := repo.Adjust(context.Background(), &dto.AdjustInput{
		CompanyID: 1, UserID: 5, ProductID: 7, StoreID: int64Ptr(3), Delta: -5, Reason: "sold",
	})
	require.NoError(t, err)
	assert.Equal(t, dto.PathUpdate, res.Path)
	assert.Equal(t, int64(5), res.Inventory.Quantity)
	require.NotNil(t, res.PreviousQuantity)
	assert.Equal(t, int64(10), *res.PreviousQuantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjust_UpdateMayGoNegative(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectExisting)).
		WillReturnRows(sqlmock.NewRows(invColumns).AddRow(12, 1, 7, nil, 2, 3, 0, 0, nil, now))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE inventory")).
		WithArgs(int64(-8), int64(12)).
		WillReturnRows(sqlmock.NewRows(invColumns).AddRow(12, 1, 7, nil, 2, -5, 0, 0, nil, now))
	mock.ExpectExec(regexp.QuoteMeta(insertAudit)).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	res, err := repo.Adjust(context.Background(), &dto.AdjustInput{
		CompanyID: 1, UserID: 5, ProductID: 7, WarehouseID: int64Ptr(2), Delta: -8, Reason: "shrinkage",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-5), res.Inventory.Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjust_ConcurrentInsert(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectExisting)).WillReturnRows(sqlmock.NewRows(invColumns))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO inventory")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "inventory_warehouse_partition_key"})
	mock.ExpectRollback()

	_, err := repo.Adjust(context.Background(), &dto.AdjustInput{
		CompanyID: 1, UserID: 5, ProductID: 7, WarehouseID: int64Ptr(2), Delta: 4, Reason: "recount",
	})
	assert.ErrorIs(t, err, inventory.ErrConcurrentInsert)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjust_AuditFailureRollsBack(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectExisting)).WillReturnRows(sqlmock.NewRows(invColumns))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO inventory")).
		WillReturnRows(sqlmock.NewRows(invColumns).AddRow(31, 1, 7, nil, 2, 4, 0, 0, nil, now))
	mock.ExpectExec(regexp.QuoteMeta(insertAudit)).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := repo.Adjust(context.Background(), &dto.AdjustInput{
		CompanyID: 1, UserID: 5, ProductID: 7, WarehouseID: int64Ptr(2), Delta: 4, Reason: "recount",
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAll_StoreScope(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectPrepare(regexp.QuoteMeta("WHERE i.company_id = $1 AND i.store_id = $2 AND i.quantity <= i.reorder_level")).
		ExpectQuery().
		WithArgs(int64(1), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	items, err := repo.FindAll(context.Background(), &dto.InventoryFilters{
		CompanyID: 1,
		Scope:     auth.LocationFilter{StoreID: int64Ptr(3)},
		LowStock:  true,
	})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-erp-service/internal/location"
	"github.com/fekuna/omnipos-erp-service/internal/location/dto"
	"github.com/fekuna/omnipos-erp-service/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPGRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestFindStore_NotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM stores WHERE id = $1 AND company_id = $2")).
		WithArgs(int64(5), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	s, err := repo.FindStore(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListWarehouses_FilteredByID(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "company_id", "warehouse_code", "name", "location", "manager_name",
		"phone", "email", "is_active", "created_at", "updated_at"}).
		AddRow(2, 1, "WH001", "Central", nil, nil, nil, nil, true, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM warehouses WHERE company_id = $1 AND is_active = true AND id = $2 ORDER BY name")).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(rows)

	id := int64(2)
	got, err := repo.ListWarehouses(context.Background(), &dto.LocationFilters{CompanyID: 1, ID: &id})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "WH001", got[0].WarehouseCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStore_UniqueViolation(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectPrepare("INSERT INTO stores").
		ExpectQuery().
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "stores_company_id_store_code_key"})

	err := repo.CreateStore(context.Background(), &model.Store{CompanyID: 1, StoreCode: "ST001", Name: "Main"})
	assert.ErrorIs(t, err, location.ErrDuplicateCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

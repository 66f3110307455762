package migrations

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// statements are idempotent; Migrate can run on every start.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS companies (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		code VARCHAR(50) UNIQUE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS stores (
		id BIGSERIAL PRIMARY KEY,
		company_id BIGINT NOT NULL REFERENCES companies(id),
		store_code VARCHAR(50) NOT NULL,
		name VARCHAR(255) NOT NULL,
		region VARCHAR(100),
		state VARCHAR(100),
		main_contact VARCHAR(255),
		phone VARCHAR(50),
		email VARCHAR(255),
		address TEXT,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (company_id, store_code)
	)`,
	`CREATE TABLE IF NOT EXISTS warehouses (
		id BIGSERIAL PRIMARY KEY,
		company_id BIGINT NOT NULL REFERENCES companies(id),
		warehouse_code VARCHAR(50) NOT NULL,
		name VARCHAR(255) NOT NULL,
		location VARCHAR(255),
		manager_name VARCHAR(255),
		phone VARCHAR(50),
		email VARCHAR(255),
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (company_id, warehouse_code)
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		external_uid VARCHAR(255) UNIQUE NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		role VARCHAR(50) NOT NULL CHECK (role IN ('headquarter', 'warehouse', 'store')),
		company_id BIGINT NOT NULL REFERENCES companies(id),
		store_id BIGINT REFERENCES stores(id),
		warehouse_id BIGINT REFERENCES warehouses(id),
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		company_id BIGINT NOT NULL REFERENCES companies(id),
		sku VARCHAR(100) NOT NULL,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		category VARCHAR(100),
		unit_price NUMERIC(10,2) NOT NULL DEFAULT 0,
		cost_price NUMERIC(10,2) NOT NULL DEFAULT 0,
		barcode VARCHAR(255),
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (company_id, sku)
	)`,
	`CREATE TABLE IF NOT EXISTS inventory (
		id BIGSERIAL PRIMARY KEY,
		company_id BIGINT NOT NULL REFERENCES companies(id),
		product_id BIGINT NOT NULL REFERENCES products(id),
		store_id BIGINT REFERENCES stores(id),
		warehouse_id BIGINT REFERENCES warehouses(id),
		quantity INTEGER NOT NULL DEFAULT 0,
		reserved_quantity INTEGER NOT NULL DEFAULT 0,
		reorder_level INTEGER NOT NULL DEFAULT 0,
		max_stock_level INTEGER,
		last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT inventory_one_location CHECK (
			(store_id IS NOT NULL AND warehouse_id IS NULL) OR (store_id IS NULL AND warehouse_id IS NOT NULL)
		)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		company_id BIGINT NOT NULL REFERENCES companies(id),
		order_number VARCHAR(100) NOT NULL,
		order_type VARCHAR(50) NOT NULL CHECK (order_type IN ('purchase', 'sales', 'transfer')),
		status VARCHAR(50) NOT NULL DEFAULT 'pending'
			CHECK (status IN ('pending', 'confirmed', 'shipped', 'delivered', 'cancelled')),
		store_id BIGINT REFERENCES stores(id),
		warehouse_id BIGINT REFERENCES warehouses(id),
		customer_name VARCHAR(255),
		customer_email VARCHAR(255),
		customer_phone VARCHAR(50),
		total_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
		order_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_by BIGINT REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT orders_company_number_key UNIQUE (company_id, order_number)
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id BIGINT NOT NULL REFERENCES products(id),
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		unit_price NUMERIC(10,2) NOT NULL,
		total_price NUMERIC(12,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id BIGSERIAL PRIMARY KEY,
		company_id BIGINT NOT NULL REFERENCES companies(id),
		customer_code VARCHAR(50),
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255),
		phone VARCHAR(50),
		address TEXT,
		city VARCHAR(100),
		state VARCHAR(100),
		postal_code VARCHAR(20),
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (company_id, customer_code)
	)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id BIGSERIAL PRIMARY KEY,
		company_id BIGINT NOT NULL REFERENCES companies(id),
		user_id BIGINT REFERENCES users(id),
		table_name VARCHAR(100) NOT NULL,
		record_id BIGINT NOT NULL,
		action VARCHAR(50) NOT NULL,
		old_values JSONB,
		new_values JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS inventory_store_partition_key
		ON inventory (company_id, product_id, store_id) WHERE store_id IS NOT NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS inventory_warehouse_partition_key
		ON inventory (company_id, product_id, warehouse_id) WHERE warehouse_id IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS idx_users_external_uid ON users (external_uid)`,
	`CREATE INDEX IF NOT EXISTS idx_users_company_id ON users (company_id)`,
	`CREATE INDEX IF NOT EXISTS idx_stores_company_id ON stores (company_id)`,
	`CREATE INDEX IF NOT EXISTS idx_warehouses_company_id ON warehouses (company_id)`,
	`CREATE INDEX IF NOT EXISTS idx_products_company_id ON products (company_id)`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_product_store ON inventory (product_id, store_id)`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_product_warehouse ON inventory (product_id, warehouse_id)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_company_id ON orders (company_id)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_store_id ON orders (store_id)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_warehouse_id ON orders (warehouse_id)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items (order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_logs_company_id ON audit_logs (company_id, created_at DESC)`,
}

// Migrate creates the schema in one transaction.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "migrations.Migrate.BeginTxx")
	}
	defer tx.Rollback()

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "migrations.Migrate statement %d", i)
		}
	}
	return errors.Wrap(tx.Commit(), "migrations.Migrate.Commit")
}

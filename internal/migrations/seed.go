package migrations

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const DemoCompanyCode = "DEMO"

const seedStores = `
	INSERT INTO stores (company_id, store_code, name, region, state, main_contact, phone, email) VALUES
	($1, 'WH1-CA', 'California Store 1', 'West', 'California', 'John Doe', '555-0101', 'ca1@demo.com'),
	($1, 'WH2-GA', 'Georgia Store 1', 'South', 'Georgia', 'Jane Smith', '555-0102', 'ga1@demo.com'),
	($1, 'WH3-TX', 'Texas Store 1', 'South', 'Texas', 'Bob Johnson', '555-0103', 'tx1@demo.com'),
	($1, 'WH4-FL', 'Florida Store 1', 'South', 'Florida', 'Alice Brown', '555-0104', 'fl1@demo.com'),
	($1, 'WH5-NJ', 'New Jersey Store 1', 'Northeast', 'New Jersey', 'Charlie Wilson', '555-0105', 'nj1@demo.com')
	ON CONFLICT (company_id, store_code) DO NOTHING`

const seedWarehouses = `
	INSERT INTO warehouses (company_id, warehouse_code, name, location, manager_name, phone, email) VALUES
	($1, 'WH-CENTRAL', 'Central Warehouse', 'Dallas, TX', 'Mike Davis', '555-0201', 'central@demo.com'),
	($1, 'WH-WEST', 'West Coast Warehouse', 'Los Angeles, CA', 'Sarah Miller', '555-0202', 'west@demo.com'),
	($1, 'WH-EAST', 'East Coast Warehouse', 'Atlanta, GA', 'Tom Anderson', '555-0203', 'east@demo.com')
	ON CONFLICT (company_id, warehouse_code) DO NOTHING`

const seedProducts = `
	INSERT INTO products (company_id, sku, name, description, category, unit_price, cost_price, barcode) VALUES
	($1, 'PROD-001', 'Wireless Headphones', 'Premium wireless headphones with noise cancellation', 'Electronics', 199.99, 120.00, '1234567890123'),
	($1, 'PROD-002', 'Smartphone Case', 'Protective case for smartphones', 'Accessories', 29.99, 15.00, '1234567890124'),
	($1, 'PROD-003', 'Bluetooth Speaker', 'Portable bluetooth speaker', 'Electronics', 89.99, 50.00, '1234567890125'),
	($1, 'PROD-004', 'USB Cable', 'USB-C charging cable', 'Accessories', 19.99, 8.00, '1234567890126'),
	($1, 'PROD-005', 'Power Bank', '10000mAh portable power bank', 'Electronics', 49.99, 25.00, '1234567890127')
	ON CONFLICT (company_id, sku) DO NOTHING`

// The dev users match the uids DevVerifier hands out.
const seedDevUsers = `
	INSERT INTO users (external_uid, email, name, role, company_id, store_id, warehouse_id) VALUES
	('test-hq-001', 'admin@demo.com', 'Demo Headquarter', 'headquarter', $1, NULL, NULL),
	('test-store-001', 'store@demo.com', 'Demo Store Manager', 'store', $1,
		(SELECT id FROM stores WHERE company_id = $1 AND store_code = 'WH1-CA'), NULL),
	('test-warehouse-001', 'warehouse@demo.com', 'Demo Warehouse Manager', 'warehouse', $1,
		NULL, (SELECT id FROM warehouses WHERE company_id = $1 AND warehouse_code = 'WH-CENTRAL'))
	ON CONFLICT (external_uid) DO NOTHING`

// Seed inserts the demo company, its locations and products. Running it twice is a no-op.
func Seed(ctx context.Context, db *sqlx.DB, withDevUsers bool) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "migrations.Seed.BeginTxx")
	}
	defer tx.Rollback()

	var companyID int64
	err = tx.GetContext(ctx, &companyID, `
		INSERT INTO companies (name, code) VALUES ('Demo Retail Company', $1)
		ON CONFLICT (code) DO UPDATE SET code = EXCLUDED.code
		RETURNING id`, DemoCompanyCode)
	if err != nil {
		return errors.Wrap(err, "migrations.Seed.company")
	}

	stmts := []string{seedStores, seedWarehouses, seedProducts}
	if withDevUsers {
		stmts = append(stmts, seedDevUsers)
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt, companyID); err != nil {
			return errors.Wrap(err, "migrations.Seed")
		}
	}

	return errors.Wrap(tx.Commit(), "migrations.Seed.Commit")
}

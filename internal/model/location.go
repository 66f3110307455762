package model

type Store struct {
	BaseModel
	CompanyID   int64   `db:"company_id" json:"company_id"`
	StoreCode   string  `db:"store_code" json:"store_code"`
	Name        string  `db:"name" json:"name"`
	Region      *string `db:"region" json:"region"`
	State       *string `db:"state" json:"state"`
	MainContact *string `db:"main_contact" json:"main_contact"`
	Phone       *string `db:"phone" json:"phone"`
	Email       *string `db:"email" json:"email"`
	Address     *string `db:"address" json:"address"`
	IsActive    bool    `db:"is_active" json:"is_active"`
}

type Warehouse struct {
	BaseModel
	CompanyID     int64   `db:"company_id" json:"company_id"`
	WarehouseCode string  `db:"warehouse_code" json:"warehouse_code"`
	Name          string  `db:"name" json:"name"`
	Location      *string `db:"location" json:"location"`
	ManagerName   *string `db:"manager_name" json:"manager_name"`
	Phone         *string `db:"phone" json:"phone"`
	Email         *string `db:"email" json:"email"`
	IsActive      bool    `db:"is_active" json:"is_active"`
}

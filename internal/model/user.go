package model

type User struct {
	BaseModel
	ExternalUID string `db:"external_uid" json:"-"`
	Email       string `db:"email" json:"email"`
	Name        string `db:"name" json:"name"`
	Role        string `db:"role" json:"role"`
	CompanyID   int64  `db:"company_id" json:"company_id"`
	StoreID     *int64 `db:"store_id" json:"store_id"`
	WarehouseID *int64 `db:"warehouse_id" json:"warehouse_id"`
	IsActive    bool   `db:"is_active" json:"is_active"`
}

// Ref is the short form of a company or location embedded in another response.
type Ref struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type UserProfile struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Company   Ref    `json:"company"`
	Store     *Ref   `json:"store,omitempty"`
	Warehouse *Ref   `json:"warehouse,omitempty"`
}

// UserProfileRow is the joined row behind UserProfile.
type UserProfileRow struct {
	ID            int64   `db:"id"`
	Email         string  `db:"email"`
	Name          string  `db:"name"`
	Role          string  `db:"role"`
	CompanyID     int64   `db:"company_id"`
	CompanyName   string  `db:"company_name"`
	CompanyCode   string  `db:"company_code"`
	StoreID       *int64  `db:"store_id"`
	StoreName     *string `db:"store_name"`
	StoreCode     *string `db:"store_code"`
	WarehouseID   *int64  `db:"warehouse_id"`
	WarehouseName *string `db:"warehouse_name"`
	WarehouseCode *string `db:"warehouse_code"`
}

func (r *UserProfileRow) Profile() *UserProfile {
	p := &UserProfile{
		ID:      r.ID,
		Email:   r.Email,
		Name:    r.Name,
		Role:    r.Role,
		Company: Ref{ID: r.CompanyID, Name: r.CompanyName, Code: r.CompanyCode},
	}
	if r.StoreID != nil {
		p.Store = &Ref{ID: *r.StoreID, Name: deref(r.StoreName), Code: deref(r.StoreCode)}
	}
	if r.WarehouseID != nil {
		p.Warehouse = &Ref{ID: *r.WarehouseID, Name: deref(r.WarehouseName), Code: deref(r.WarehouseCode)}
	}
	return p
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

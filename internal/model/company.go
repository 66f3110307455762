package model

// Company is the tenant. Every other row carries its id.
type Company struct {
	BaseModel
	Name string `db:"name" json:"name"`
	Code string `db:"code" json:"code"`
}

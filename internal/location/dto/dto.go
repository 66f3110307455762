package dto

type LocationFilters struct {
	CompanyID int64
	ID        *int64
}

package product

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-erp-service/internal/model"
	"github.com/fekuna/omnipos-erp-service/internal/product/dto"
)

var ErrDuplicateSKU = errors.New("sku already exists")

type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	FindDetail(ctx context.Context, companyID, id int64) (*model.ProductDetail, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.ProductListItem, int, error)

	// FindByIDs returns the active products of companyID among ids, in no particular order.
	FindByIDs(ctx context.Context, companyID int64, ids []int64) ([]model.ProductListItem, error)

	// ListActiveAfter pages through the active products of every company in id order,
	// starting after afterID.
	ListActiveAfter(ctx context.Context, afterID int64, limit int) ([]model.Product, error)

	// ExistingIDs returns the subset of ids that are products of companyID.
	ExistingIDs(ctx context.Context, companyID int64, ids []int64) ([]int64, error)
}

package usecase

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/event"
	"github.com/fekuna/omnipos-erp-service/internal/model"
	"github.com/fekuna/omnipos-erp-service/internal/product"
	"github.com/fekuna/omnipos-erp-service/internal/product/dto"
	"github.com/fekuna/omnipos-erp-service/pkg/apperror"
	"github.com/fekuna/omnipos-erp-service/pkg/logger"
	"github.com/fekuna/omnipos-erp-service/pkg/search"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	products  map[int64]model.ProductListItem
	createErr error
	findAll   int
	lastFind  *dto.ProductFilters
}

func (f *fakeRepo) Create(_ context.Context, p *model.Product) error {
	if f.createErr != nil {
		return f.createErr
	}
	p.ID = 100
	p.IsActive = true
	return nil
}

func (f *fakeRepo) FindDetail(_ context.Context, companyID, id int64) (*model.ProductDetail, error) {
	p, ok := f.products[id]
	if !ok || p.CompanyID != companyID {
		return nil, nil
	}
	return &model.ProductDetail{Product: p.Product, InventoryLocations: []model.ProductLocationStock{}}, nil
}

func (f *fakeRepo) FindAll(_ context.Context, filters *dto.ProductFilters) ([]model.ProductListItem, int, error) {
	f.findAll++
	f.lastFind = filters
	out := []model.ProductListItem{}
	for _, p := range f.products {
		if p.CompanyID == filters.CompanyID {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) FindByIDs(_ context.Context, companyID int64, ids []int64) ([]model.ProductListItem, error) {
	out := []model.ProductListItem{}
	for _, id := range ids {
		if p, ok := f.products[id]; ok && p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	// Unordered on purpose; the use case restores search order.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) ListActiveAfter(_ context.Context, afterID int64, limit int) ([]model.Product, error) {
	ids := make([]int64, 0, len(f.products))
	for id := range f.products {
		if id > afterID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := []model.Product{}
	for _, id := range ids {
		if len(out) == limit {
			break
		}
		out = append(out, f.products[id].Product)
	}
	return out, nil
}

func (f *fakeRepo) ExistingIDs(_ context.Context, companyID int64, ids []int64) ([]int64, error) {
	out := []int64{}
	for _, id := range ids {
		if p, ok := f.products[id]; ok && p.CompanyID == companyID {
			out = append(out, id)
		}
	}
	return out, nil
}

type fakeSearch struct {
	ids   []string
	total int
	err   error
	query map[string]interface{}
}

func (s *fakeSearch) Index(context.Context, string, string, interface{}) error { return nil }

func (s *fakeSearch) Search(_ context.Context, _ string, q map[string]interface{}) (*search.SearchResult, error) {
	s.query = q
	if s.err != nil {
		return nil, s.err
	}
	return &search.SearchResult{IDs: s.ids, Total: s.total}, nil
}

type bulkRecorder struct {
	batches [][]search.Document
	err     error
}

func (b *bulkRecorder) BulkIndex(_ context.Context, _ string, docs []search.Document) error {
	if b.err != nil {
		return b.err
	}
	b.batches = append(b.batches, docs)
	return nil
}

type recordingPublisher struct{ types []string }

func (r *recordingPublisher) Publish(_ context.Context, _ int64, eventType string, _ interface{}) {
	r.types = append(r.types, eventType)
}

var _ event.Publisher = (*recordingPublisher)(nil)

func item(id, company int64, name string) model.ProductListItem {
	return model.ProductListItem{Product: model.Product{BaseModel: model.BaseModel{ID: id}, CompanyID: company, Name: name}}
}

func newRepo() *fakeRepo {
	return &fakeRepo{products: map[int64]model.ProductListItem{
		1: item(1, 1, "Widget"),
		2: item(2, 1, "Gadget"),
		3: item(3, 2, "Other tenant"),
	}}
}

var hq = &auth.Identity{UserID: 1, CompanyID: 1, Role: auth.RoleHeadquarter}

func TestListProducts_DefaultsAndTenant(t *testing.T) {
	repo := newRepo()
	uc := NewProductUseCase(repo, Options{}, logger.NewNop())

	page, err := uc.ListProducts(context.Background(), hq, &dto.ListProductsQuery{})
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, 20, page.Pagination.Limit)
	assert.Equal(t, int64(1), repo.lastFind.CompanyID)
}

func TestListProducts_SearchUsesIndexOrder(t *testing.T) {
	repo := newRepo()
	es := &fakeSearch{ids: []string{"2", "3", "1"}, total: 2}
	uc := NewProductUseCase(repo, Options{Search: es, Index: "erp-products"}, logger.NewNop())

	page, err := uc.ListProducts(context.Background(), hq, &dto.ListProductsQuery{Search: " gad "})
	require.NoError(t, err)
	require.Len(t, page.Products, 2)
	assert.Equal(t, int64(2), page.Products[0].ID)
	assert.Equal(t, int64(1), page.Products[1].ID)
	assert.Equal(t, 2, page.Pagination.Total)
	assert.Zero(t, repo.findAll)
	assert.NotNil(t, es.query["query"])
}

func TestListProducts_SearchFallsBackToDatabase(t *testing.T) {
	repo := newRepo()
	uc := NewProductUseCase(repo, Options{Search: &fakeSearch{err: errors.New("unavailable")}}, logger.NewNop())

	_, err := uc.ListProducts(context.Background(), hq, &dto.ListProductsQuery{Search: "gad"})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.findAll)
	assert.Equal(t, "gad", repo.lastFind.Search)
}

func TestListProducts_EmptyIndexFallsBackToDatabase(t *testing.T) {
	repo := newRepo()
	es := &fakeSearch{ids: []string{}, total: 0}
	uc := NewProductUseCase(repo, Options{Search: es, Index: "erp-products"}, logger.NewNop())

	page, err := uc.ListProducts(context.Background(), hq, &dto.ListProductsQuery{Search: "Widget"})
	require.NoError(t, err)
	assert.NotNil(t, es.query)
	assert.Equal(t, 1, repo.findAll)
	assert.Equal(t, "Widget", repo.lastFind.Search)
	assert.Len(t, page.Products, 2)
}

func TestListProducts_SearchIsSubstring(t *testing.T) {
	es := &fakeSearch{ids: []string{"1"}, total: 1}
	uc := NewProductUseCase(newRepo(), Options{Search: es, Index: "erp-products"}, logger.NewNop())

	_, err := uc.ListProducts(context.Background(), hq, &dto.ListProductsQuery{Search: "12*3"})
	require.NoError(t, err)

	boolQuery := es.query["query"].(map[string]interface{})["bool"].(map[string]interface{})
	assert.Equal(t, 1, boolQuery["minimum_should_match"])
	should := boolQuery["should"].([]map[string]interface{})
	require.Len(t, should, 4)
	sku := should[1]["wildcard"].(map[string]interface{})["sku"].(map[string]interface{})
	assert.Equal(t, `*12\*3*`, sku["value"])
	assert.Equal(t, true, sku["case_insensitive"])
	assert.Contains(t, should[2]["wildcard"], "name.raw")
}

func TestBackfill(t *testing.T) {
	repo := &fakeRepo{products: map[int64]model.ProductListItem{}}
	for id := int64(1); id <= backfillBatchSize+3; id++ {
		repo.products[id] = item(id, 1+id%2, "Product")
	}
	idx := &bulkRecorder{}

	n, err := Backfill(context.Background(), repo, idx, "erp-products", logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, backfillBatchSize+3, n)
	require.Len(t, idx.batches, 2)
	assert.Len(t, idx.batches[0], backfillBatchSize)
	assert.Equal(t, "1", idx.batches[0][0].ID)
	assert.Equal(t, "503", idx.batches[1][2].ID)
	doc, ok := idx.batches[1][2].Body.(dto.Document)
	require.True(t, ok)
	assert.Equal(t, int64(2), doc.CompanyID)
}

func TestBackfill_IndexError(t *testing.T) {
	idx := &bulkRecorder{err: errors.New("cluster red")}

	n, err := Backfill(context.Background(), newRepo(), idx, "erp-products", logger.NewNop())
	assert.EqualError(t, err, "cluster red")
	assert.Zero(t, n)
}

func TestCreateProduct(t *testing.T) {
	pub := &recordingPublisher{}
	uc := NewProductUseCase(newRepo(), Options{Publisher: pub}, logger.NewNop())
	price := decimal.RequireFromString("10.00")
	cost := decimal.RequireFromString("6.50")

	p, err := uc.CreateProduct(context.Background(), hq, &dto.CreateProductRequest{
		SKU: "SKU-1", Name: "Widget", UnitPrice: &price, CostPrice: &cost,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), p.ID)
	assert.Equal(t, int64(1), p.CompanyID)
	assert.Nil(t, p.Description)
	assert.True(t, p.UnitPrice.Equal(price))
	assert.Equal(t, []string{event.TypeProductCreated}, pub.types)
}

func TestCreateProduct_DuplicateSKU(t *testing.T) {
	repo := newRepo()
	repo.createErr = product.ErrDuplicateSKU
	uc := NewProductUseCase(repo, Options{}, logger.NewNop())
	price := decimal.Zero

	_, err := uc.CreateProduct(context.Background(), hq, &dto.CreateProductRequest{
		SKU: "SKU-1", Name: "Widget", UnitPrice: &price, CostPrice: &price,
	})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Equal(t, "Product with this SKU already exists", err.Error())
}

func TestGetProduct_OtherTenantIsNotFound(t *testing.T) {
	uc := NewProductUseCase(newRepo(), Options{}, logger.NewNop())

	_, err := uc.GetProduct(context.Background(), hq, 3)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	d, err := uc.GetProduct(context.Background(), hq, 1)
	require.NoError(t, err)
	assert.Equal(t, "Widget", d.Name)
}

func TestEnsureInTenant(t *testing.T) {
	uc := NewProductUseCase(newRepo(), Options{}, logger.NewNop())
	ctx := context.Background()

	assert.NoError(t, uc.EnsureInTenant(ctx, 1, 1, 2, 1))
	assert.True(t, apperror.Is(uc.EnsureInTenant(ctx, 1, 1, 3), apperror.KindNotFound))
}

package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/cachekey"
	"github.com/fekuna/omnipos-erp-service/internal/event"
	"github.com/fekuna/omnipos-erp-service/internal/model"
	"github.com/fekuna/omnipos-erp-service/internal/product"
	"github.com/fekuna/omnipos-erp-service/internal/product/dto"
	"github.com/fekuna/omnipos-erp-service/pkg/apperror"
	"github.com/fekuna/omnipos-erp-service/pkg/cache"
	"github.com/fekuna/omnipos-erp-service/pkg/logger"
	"github.com/fekuna/omnipos-erp-service/pkg/metrics"
	"github.com/fekuna/omnipos-erp-service/pkg/pagination"
	"github.com/fekuna/omnipos-erp-service/pkg/search"
	"go.uber.org/zap"
)

const (
	listCacheName     = "products"
	backfillBatchSize = 500
)

type Searcher interface {
	Search(ctx context.Context, index string, query map[string]interface{}) (*search.SearchResult, error)
}

// Indexer writes product documents. It is left nil when a product.created consumer keeps
// the index in sync instead.
type Indexer interface {
	Index(ctx context.Context, index, id string, doc interface{}) error
}

type BulkIndexer interface {
	BulkIndex(ctx context.Context, index string, docs []search.Document) error
}

type Options struct {
	Cache     *cache.RedisClient
	CacheTTL  time.Duration
	Search    Searcher
	Indexer   Indexer
	Index     string
	Publisher event.Publisher
	Metrics   *metrics.Metrics
}

type productUseCase struct {
	repo      product.Repository
	cache     *cache.RedisClient
	cacheTTL  time.Duration
	es        Searcher
	indexer   Indexer
	index     string
	publisher event.Publisher
	metrics   *metrics.Metrics
	logger    logger.ZapLogger
}

func NewProductUseCase(repo product.Repository, opts Options, log logger.ZapLogger) product.UseCase {
	uc := &productUseCase{
		repo:      repo,
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTL,
		es:        opts.Search,
		indexer:   opts.Indexer,
		index:     opts.Index,
		publisher: opts.Publisher,
		metrics:   opts.Metrics,
		logger:    log,
	}
	if uc.cacheTTL <= 0 {
		uc.cacheTTL = 5 * time.Minute
	}
	if uc.publisher == nil {
		uc.publisher = event.NopPublisher{}
	}
	return uc
}

func (uc *productUseCase) CreateProduct(ctx context.Context, id *auth.Identity, input *dto.CreateProductRequest) (*model.Product, error) {
	p := &model.Product{
		CompanyID:   id.CompanyID,
		SKU:         input.SKU,
		Name:        input.Name,
		Description: model.StringPtr(input.Description),
		Category:    model.StringPtr(input.Category),
		UnitPrice:   *input.UnitPrice,
		CostPrice:   *input.CostPrice,
		Barcode:     model.StringPtr(input.Barcode),
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		if errors.Is(err, product.ErrDuplicateSKU) {
			return nil, apperror.Conflict("Product with this SKU already exists").WithID("DuplicateSKU")
		}
		return nil, apperror.Internal(err, "Failed to create product")
	}

	log := logger.FromContext(ctx, uc.logger)
	log.Info("product created", zap.Int64("product_id", p.ID), zap.String("sku", p.SKU))

	bg := context.WithoutCancel(ctx)
	go uc.invalidateListCache(bg, p.CompanyID)
	go uc.syncToElastic(bg, p)

	uc.publisher.Publish(ctx, p.CompanyID, event.TypeProductCreated, p)
	return p, nil
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.indexer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := uc.indexer.Index(ctx, uc.index, strconv.FormatInt(p.ID, 10), dto.NewDocument(p)); err != nil {
		logger.FromContext(ctx, uc.logger).Error("failed to index product", zap.Int64("product_id", p.ID), zap.Error(err))
	}
}

func (uc *productUseCase) invalidateListCache(ctx context.Context, companyID int64) {
	if err := uc.cache.DeletePattern(ctx, cachekey.ProductListPattern(companyID)); err != nil {
		logger.FromContext(ctx, uc.logger).Warn("failed to invalidate product cache", zap.Error(err))
	}
}

func (uc *productUseCase) GetProduct(ctx context.Context, id *auth.Identity, productID int64) (*model.ProductDetail, error) {
	d, err := uc.repo.FindDetail(ctx, id.CompanyID, productID)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to fetch product")
	}
	if d == nil {
		return nil, apperror.NotFound("Product not found").WithID("ProductNotFound")
	}
	return d, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, id *auth.Identity, q *dto.ListProductsQuery) (*dto.ProductPage, error) {
	page, limit := pagination.Normalize(q.Page, q.Limit)
	filters := &dto.ProductFilters{
		CompanyID: id.CompanyID,
		Search:    strings.TrimSpace(q.Search),
		Category:  strings.TrimSpace(q.Category),
		Page:      page,
		Limit:     limit,
	}
	log := logger.FromContext(ctx, uc.logger)

	cacheKey, err := cachekey.ProductList(filters.CompanyID, filters)
	if err == nil {
		var cached dto.ProductPage
		hit, err := uc.cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			log.Warn("product cache read failed", zap.Error(err))
		}
		if uc.cache != nil {
			uc.metrics.CacheResult(listCacheName, hit)
		}
		if hit {
			return &cached, nil
		}
	}

	var result *dto.ProductPage
	if filters.Search != "" && uc.es != nil {
		result, err = uc.searchIndex(ctx, filters)
		if err != nil {
			log.Warn("search index query failed, falling back to database", zap.Error(err))
			result = nil
		}
	}

	if result == nil {
		products, count, err := uc.repo.FindAll(ctx, filters)
		if err != nil {
			return nil, apperror.Internal(err, "Failed to fetch products")
		}
		result = &dto.ProductPage{Products: products, Pagination: pagination.New(page, limit, count)}
	}

	if cacheKey != "" {
		if err := uc.cache.SetJSON(ctx, cacheKey, result, uc.cacheTTL); err != nil {
			log.Warn("product cache write failed", zap.Error(err))
		}
	}
	return result, nil
}

// searchIndex takes the matching ids from the search index and reads the rows back from the
// database, so stock figures stay current. It returns a nil page when the index has no hits,
// leaving the answer to the database.
func (uc *productUseCase) searchIndex(ctx context.Context, f *dto.ProductFilters) (*dto.ProductPage, error) {
	filter := []map[string]interface{}{
		{"term": map[string]interface{}{"company_id": f.CompanyID}},
		{"term": map[string]interface{}{"is_active": true}},
	}
	if f.Category != "" {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"category": f.Category}})
	}

	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should":               searchClauses(f.Search),
				"minimum_should_match": 1,
				"filter":               filter,
			},
		},
		"from": pagination.Offset(f.Page, f.Limit),
		"size": f.Limit,
		"sort": []interface{}{"_score", map[string]interface{}{"_doc": "asc"}},
	}

	res, err := uc.es.Search(ctx, uc.index, q)
	if err != nil {
		return nil, err
	}
	if res.Total == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(res.IDs))
	for _, raw := range res.IDs {
		pid, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, pid)
	}

	rows, err := uc.repo.FindByIDs(ctx, f.CompanyID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]model.ProductListItem, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}

	products := make([]model.ProductListItem, 0, len(rows))
	for _, pid := range ids {
		if p, ok := byID[pid]; ok {
			products = append(products, p)
		}
	}
	return &dto.ProductPage{Products: products, Pagination: pagination.New(f.Page, f.Limit, res.Total)}, nil
}

// searchClauses matches term as a case-insensitive substring of the sku, name or description,
// the same rule as the ILIKE query. Word prefixes score higher.
func searchClauses(term string) []map[string]interface{} {
	pattern := "*" + wildcardEscaper.Replace(term) + "*"
	wildcard := func(field string, boost float64) map[string]interface{} {
		return map[string]interface{}{"wildcard": map[string]interface{}{
			field: map[string]interface{}{"value": pattern, "case_insensitive": true, "boost": boost},
		}}
	}
	return []map[string]interface{}{
		{
			"multi_match": map[string]interface{}{
				"query":  term,
				"type":   "phrase_prefix",
				"fields": []string{"name^3", "sku^2", "description"},
			},
		},
		wildcard("sku", 2),
		wildcard("name.raw", 1.5),
		wildcard("description.raw", 1),
	}
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

// Backfill writes every active product into index, so rows created before the index existed
// are searchable. It returns the number of documents written.
func Backfill(ctx context.Context, repo product.Repository, idx BulkIndexer, index string, log logger.ZapLogger) (int, error) {
	var afterID int64
	written := 0
	for {
		batch, err := repo.ListActiveAfter(ctx, afterID, backfillBatchSize)
		if err != nil {
			return written, err
		}
		if len(batch) == 0 {
			break
		}

		docs := make([]search.Document, 0, len(batch))
		for i := range batch {
			docs = append(docs, search.Document{ID: strconv.FormatInt(batch[i].ID, 10), Body: dto.NewDocument(&batch[i])})
		}
		if err := idx.BulkIndex(ctx, index, docs); err != nil {
			return written, err
		}
		written += len(docs)
		afterID = batch[len(batch)-1].ID

		log.Debug("indexed product batch", zap.Int("count", len(docs)), zap.Int64("last_id", afterID))
		if len(batch) < backfillBatchSize {
			break
		}
	}
	return written, nil
}

func (uc *productUseCase) EnsureInTenant(ctx context.Context, companyID int64, productIDs ...int64) error {
	unique := make(map[int64]struct{}, len(productIDs))
	ids := make([]int64, 0, len(productIDs))
	for _, pid := range productIDs {
		if _, ok := unique[pid]; !ok {
			unique[pid] = struct{}{}
			ids = append(ids, pid)
		}
	}

	found, err := uc.repo.ExistingIDs(ctx, companyID, ids)
	if err != nil {
		return apperror.Internal(err, "Failed to look up products")
	}
	if len(found) != len(ids) {
		return apperror.NotFound("Product not found").WithID("ProductNotFound")
	}
	return nil
}

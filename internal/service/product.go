package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"gameshop/internal/config"
	"gameshop/internal/dto"
	"gameshop/internal/model"
	"gameshop/internal/repository"
	"log/slog"
	"strings"
	"time"

	"gorm.io/datatypes"
)

var categoryOrder = []model.ProductCategory{
	model.CategoryRanks,
	model.CategoryKeys,
	model.CategoryBundles,
}

type ProductService interface {
	List(ctx context.Context, filter repository.ProductFilter) ([]*model.Product, error)
	Categories(ctx context.Context) ([]model.CategoryCount, error)
	FilterStats(ctx context.Context) (*model.FilterStats, error)
	Get(ctx context.Context, id uint) (*model.Product, error)
	Create(ctx context.Context, req *dto.ProductRequest) (*model.Product, error)
	Update(ctx context.Context, id uint, req *dto.ProductRequest) (*model.Product, error)
	Delete(ctx context.Context, id uint) error
	Seed(ctx context.Context) error
}

type productServiceImpl struct {
	productRepo   repository.ProductRepository
	cache         repository.ProductCache
	productsTTL   time.Duration
	categoriesTTL time.Duration
	logger        *slog.Logger
}

func NewProductService(
	productRepo repository.ProductRepository,
	cache repository.ProductCache,
	redisCfg *config.Redis,
	logger *slog.Logger,
) ProductService {
	return &productServiceImpl{
		productRepo:   productRepo,
		cache:         cache,
		productsTTL:   redisCfg.ProductsTTL,
		categoriesTTL: redisCfg.CategoriesTTL,
		logger:        logger.With("component", "catalog"),
	}
}

// remember serves key from the cache, or loads and stores it. Cache failures
// fall through to load.
func remember[T any](ctx context.Context, s *productServiceImpl, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	if b, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("product cache read failed", "key", key, "error", err)
	} else if ok {
		var cached T
		if err := json.Unmarshal(b, &cached); err == nil {
			return cached, nil
		}
		s.logger.Warn("discarding undecodable cache entry", "key", key)
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	if b, err := json.Marshal(value); err == nil {
		if err := s.cache.Set(ctx, key, b, ttl); err != nil {
			s.logger.Warn("product cache write failed", "key", key, "error", err)
		}
	}
	return value, nil
}

func (s *productServiceImpl) List(ctx context.Context, filter repository.ProductFilter) ([]*model.Product, error) {
	if filter.Category != "" && !validCategory(model.ProductCategory(filter.Category)) {
		return nil, NewValidationError("category", "must be one of ranks, keys, bundles")
	}

	return remember(ctx, s, filter.CacheKey(), s.productsTTL, func() ([]*model.Product, error) {
		products, err := s.productRepo.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("list products: %w", err)
		}
		return products, nil
	})
}

func (s *productServiceImpl) Categories(ctx context.Context) ([]model.CategoryCount, error) {
	return remember(ctx, s, repository.CategoriesCacheKey, s.categoriesTTL, func() ([]model.CategoryCount, error) {
		counts, err := s.productRepo.CategoryCounts(ctx)
		if err != nil {
			return nil, fmt.Errorf("count categories: %w", err)
		}

		categories := make([]model.CategoryCount, 0, len(categoryOrder))
		for _, c := range categoryOrder {
			categories = append(categories, model.CategoryCount{
				Value: string(c),
				Label: strings.ToUpper(string(c[:1])) + string(c[1:]),
				Count: counts[string(c)],
			})
		}
		return categories, nil
	})
}

func (s *productServiceImpl) FilterStats(ctx context.Context) (*model.FilterStats, error) {
	return remember(ctx, s, repository.FilterStatsCacheKey, s.productsTTL, func() (*model.FilterStats, error) {
		stats, err := s.productRepo.FilterStats(ctx)
		if err != nil {
			return nil, fmt.Errorf("filter stats: %w", err)
		}
		return stats, nil
	})
}

func (s *productServiceImpl) Get(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

func (s *productServiceImpl) Create(ctx context.Context, req *dto.ProductRequest) (*model.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	product := &model.Product{}
	applyProductRequest(product, req)
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.invalidate(ctx, string(product.Category))
	return product, nil
}

func (s *productServiceImpl) Update(ctx context.Context, id uint, req *dto.ProductRequest) (*model.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	oldCategory := string(product.Category)
	applyProductRequest(product, req)
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.invalidate(ctx, oldCategory, string(product.Category))
	return product, nil
}

func (s *productServiceImpl) Delete(ctx context.Context, id uint) error {
	product, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.invalidate(ctx, string(product.Category))
	return nil
}

func (s *productServiceImpl) Seed(ctx context.Context) error {
	if err := s.productRepo.Seed(ctx, defaultProducts()); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	s.invalidate(ctx, string(model.CategoryRanks), string(model.CategoryKeys), string(model.CategoryBundles))
	return nil
}

func (s *productServiceImpl) invalidate(ctx context.Context, categories ...string) {
	if err := s.cache.Delete(ctx, repository.InvalidationKeys(categories...)...); err != nil {
		s.logger.Error("product cache invalidation failed", "categories", categories, "error", err)
	}
}

func validCategory(c model.ProductCategory) bool {
	for _, known := range categoryOrder {
		if c == known {
			return true
		}
	}
	return false
}

func validateProduct(req *dto.ProductRequest) error {
	verr := &ValidationError{}
	if strings.TrimSpace(req.Name) == "" {
		verr.Add("name", "is required")
	}
	if req.Price.IsNegative() {
		verr.Add("price", "must not be negative")
	}
	if req.OriginalPrice.Valid && req.OriginalPrice.Decimal.IsNegative() {
		verr.Add("original_price", "must not be negative")
	}
	if !validCategory(req.Category) {
		verr.Add("category", "must be one of ranks, keys, bundles")
	}
	if req.Discount != nil && (*req.Discount < 0 || *req.Discount > 100) {
		verr.Add("discount", "must be between 0 and 100")
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func applyProductRequest(p *model.Product, req *dto.ProductRequest) {
	p.Name = req.Name
	p.Price = req.Price
	p.OriginalPrice = req.OriginalPrice
	p.ImageURL = req.ImageURL
	p.Duration = req.Duration
	p.ShortDesc = req.ShortDesc
	p.Description = req.Description
	p.Features = datatypes.NewJSONType(req.Features)
	p.Contents = datatypes.NewJSONType(req.Contents)
	p.Color = req.Color
	p.Category = req.Category
	p.Discount = req.Discount
	p.Featured = req.Featured
	p.Popular = req.Popular
	p.BestOffer = req.BestOffer
}

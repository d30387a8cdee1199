package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tkaraca/shopapp-backend/internal/app/model"
	"github.com/tkaraca/shopapp-backend/internal/app/repository"
	"github.com/tkaraca/shopapp-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
)

const productListCacheKey = "catalog:products"

type CatalogService interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	SearchProducts(ctx context.Context, query, category string) ([]model.Product, error)
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	cache       *redis.Client // nil disables caching
	cacheTTL    time.Duration
}

func NewCatalogService(productRepo repository.ProductRepository, cache *redis.Client, cacheTTL time.Duration) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
	}
}

func (s *catalogService) ListProducts(ctx context.Context) ([]model.Product, error) {
	if products, ok := s.cachedProducts(ctx); ok {
		return products, nil
	}

	products, err := s.productRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list products", err)
		return nil, err
	}

	s.storeProducts(ctx, products)

	logger.Info("Products listed successfully", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (s *catalogService) SearchProducts(ctx context.Context, query, category string) ([]model.Product, error) {
	logger.Info("Searching products", map[string]interface{}{
		"query":    query,
		"category": category,
	})

	var categoryID uint
	if category != "" {
		cat, err := s.productRepo.FindCategoryByName(category)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Search failed: category not found", map[string]interface{}{
					"category": category,
				})
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		categoryID = cat.ID
	}

	products, err := s.productRepo.Search(query, categoryID)
	if err != nil {
		logger.Error("Failed to search products", err, map[string]interface{}{
			"query": query,
		})
		return nil, err
	}

	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.productRepo.FindAllCategories()
	if err != nil {
		logger.Error("Failed to list categories", err)
		return nil, err
	}
	return categories, nil
}

// cachedProducts returns the cached full product list when present.
// Cache failures are logged and treated as misses.
func (s *catalogService) cachedProducts(ctx context.Context) ([]model.Product, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, productListCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("Product cache read failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return nil, false
	}

	var products []model.Product
	if err := json.Unmarshal(data, &products); err != nil {
		logger.Warn("Product cache entry corrupt, ignoring", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, false
	}

	logger.Debug("Products served from cache", map[string]interface{}{
		"count": len(products),
	})
	return products, true
}

func (s *catalogService) storeProducts(ctx context.Context, products []model.Product) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}

	data, err := json.Marshal(products)
	if err != nil {
		logger.Warn("Failed to marshal products for cache", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if err := s.cache.Set(ctx, productListCacheKey, data, s.cacheTTL).Err(); err != nil {
		logger.Warn("Product cache write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront/internal/domain/entity"
	"github.com/oksasatya/storefront/internal/domain/repository"
	"github.com/oksasatya/storefront/pkg/helpers"
)

const (
	featuredCacheKey = "catalog:featured"
	featuredCacheTTL = 60 * time.Second
	featuredLimit    = 8

	defaultPageSize   = 20
	maxPageSize       = 100
	defaultSearchSize = 10
	maxSearchSize     = 50
)

type CatalogService struct {
	Products repository.ProductRepository
	Index    repository.ProductSearch
	Cache    *redis.Client // optional
	Logger   *logrus.Logger
}

func NewCatalogService(products repository.ProductRepository, search repository.ProductSearch, cache *redis.Client, logger *logrus.Logger) *CatalogService {
	return &CatalogService{Products: products, Index: search, Cache: cache, Logger: logger}
}

func clamp(v, def, hi int) int {
	if v <= 0 {
		return def
	}
	if v > hi {
		return hi
	}
	return v
}

// Featured returns in-stock featured products for the home page.
func (s *CatalogService) Featured(ctx context.Context) ([]entity.Product, error) {
	if s.Cache != nil {
		var cached []entity.Product
		hit, err := helpers.RedisGetJSON(ctx, s.Cache, featuredCacheKey, &cached)
		if err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("featured cache read failed")
		}
		if hit {
			return cached, nil
		}
	}

	products, err := s.Products.ListFeatured(ctx, featuredLimit)
	if err != nil {
		return nil, fmt.Errorf("list featured: %w", err)
	}
	if s.Cache != nil {
		if err := helpers.RedisSetJSON(ctx, s.Cache, featuredCacheKey, products, featuredCacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("featured cache write failed")
		}
	}
	return products, nil
}

func (s *CatalogService) List(ctx context.Context, category string, limit, offset int) ([]entity.Product, error) {
	if offset < 0 {
		offset = 0
	}
	products, err := s.Products.List(ctx, repository.ProductFilter{
		Category: category,
		Limit:    clamp(limit, defaultPageSize, maxPageSize),
		Offset:   offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := s.Products.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load product %d: %w", id, err)
	}
	return p, nil
}

// Search resolves index hits against live rows, keeping the ranking.
// Hits whose product no longer exists are dropped.
func (s *CatalogService) Search(ctx context.Context, q string, size int) ([]entity.Product, error) {
	if s.Index == nil || q == "" {
		return []entity.Product{}, nil
	}
	ids, err := s.Index.Search(ctx, q, clamp(size, defaultSearchSize, maxSearchSize))
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	rows, err := s.Products.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load search hits: %w", err)
	}
	byID := make(map[int64]entity.Product, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}
	out := make([]entity.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// Reindex pushes the whole catalog into the search index page by page.
func (s *CatalogService) Reindex(ctx context.Context) (int, error) {
	if s.Index == nil {
		return 0, nil
	}
	total := 0
	for offset := 0; ; offset += maxPageSize {
		page, err := s.Products.List(ctx, repository.ProductFilter{Limit: maxPageSize, Offset: offset})
		if err != nil {
			return total, fmt.Errorf("list products: %w", err)
		}
		if len(page) == 0 {
			break
		}
		if err := s.Index.Index(ctx, page...); err != nil {
			return total, fmt.Errorf("index products: %w", err)
		}
		total += len(page)
		if len(page) < maxPageSize {
			break
		}
	}
	return total, nil
}

// InvalidateFeatured drops the cached home page listing.
func (s *CatalogService) InvalidateFeatured(ctx context.Context) error {
	if s.Cache == nil {
		return nil
	}
	return helpers.RedisDel(ctx, s.Cache, featuredCacheKey)
}

var _ FeaturedCache = (*CatalogService)(nil)

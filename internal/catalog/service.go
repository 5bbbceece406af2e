package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Anand-247/FE-VF/internal/api"
	"github.com/Anand-247/FE-VF/internal/domain"
	"github.com/Anand-247/FE-VF/internal/logger"
)

const (
	RelatedLimit        = 4
	HomeFeaturedLimit   = 8
	HomeCategoriesLimit = 6
)

// Source is the read side of the shop API.
type Source interface {
	ListProducts(ctx context.Context, q api.ProductQuery) (domain.ProductPage, error)
	GetProductBySlug(ctx context.Context, slug string) (domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (domain.Category, error)
	ListBanners(ctx context.Context) ([]domain.Banner, error)
	GetPublicSettings(ctx context.Context) (domain.Settings, error)
}

// Service is a read-through cache in front of Source. A nil cache or a zero
// TTL disables caching.
type Service struct {
	source Source
	cache  *Cache
	sfg    singleflight.Group
	log    *zap.Logger
}

func NewService(source Source, store *Cache, log *zap.Logger) *Service {
	if store != nil && store.baseTTL <= 0 {
		store = nil
	}
	return &Service{source: source, cache: store, log: logger.OrNop(log)}
}

func (s *Service) Products(ctx context.Context, q api.ProductQuery) (domain.ProductPage, error) {
	return cached(ctx, s, q.CacheKey(), func(ctx context.Context) (domain.ProductPage, error) {
		return s.source.ListProducts(ctx, q)
	})
}

func (s *Service) Product(ctx context.Context, slug string) (domain.Product, error) {
	return cached(ctx, s, "product:"+slug, func(ctx context.Context) (domain.Product, error) {
		return s.source.GetProductBySlug(ctx, slug)
	})
}

func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	return cached(ctx, s, "categories", s.source.ListCategories)
}

func (s *Service) Category(ctx context.Context, slug string) (domain.Category, error) {
	return cached(ctx, s, "category:"+slug, func(ctx context.Context) (domain.Category, error) {
		return s.source.GetCategoryBySlug(ctx, slug)
	})
}

func (s *Service) Banners(ctx context.Context) ([]domain.Banner, error) {
	return cached(ctx, s, "banners", s.source.ListBanners)
}

// Settings returns the public shop settings, or DefaultSettings when they
// cannot be fetched.
func (s *Service) Settings(ctx context.Context) domain.Settings {
	settings, err := cached(ctx, s, "settings", s.source.GetPublicSettings)
	if err != nil {
		s.log.Warn("using default shop settings", zap.Error(err))
		return domain.DefaultSettings()
	}
	return settings
}

// RelatedProducts lists up to limit other products of the same category.
func (s *Service) RelatedProducts(ctx context.Context, product domain.Product, limit int) ([]domain.Product, error) {
	if product.Category == nil || product.Category.ID == "" {
		return nil, nil
	}
	page, err := s.Products(ctx, api.ProductQuery{
		Category: product.Category.ID,
		Limit:    limit,
		Exclude:  product.ID,
	})
	if err != nil {
		return nil, err
	}

	related := make([]domain.Product, 0, len(page.Products))
	for _, p := range page.Products {
		if p.ID == product.ID {
			continue
		}
		related = append(related, p)
		if len(related) == limit {
			break
		}
	}
	return related, nil
}

type HomePage struct {
	Featured   []domain.Product  `json:"featured"`
	Categories []domain.Category `json:"categories"`
	Banners    []domain.Banner   `json:"banners"`
}

// Home loads the landing page sections concurrently. Sections that fail are
// left empty; the first failure is returned alongside the partial page.
func (s *Service) Home(ctx context.Context) (HomePage, error) {
	page := HomePage{
		Featured:   []domain.Product{},
		Categories: []domain.Category{},
		Banners:    []domain.Banner{},
	}

	var g errgroup.Group
	g.Go(func() error {
		featured, err := s.Products(ctx, api.ProductQuery{Featured: true, Limit: HomeFeaturedLimit})
		if err != nil {
			return fmt.Errorf("featured products: %w", err)
		}
		if featured.Products != nil {
			page.Featured = featured.Products
		}
		return nil
	})
	g.Go(func() error {
		categories, err := s.Categories(ctx)
		if err != nil {
			return fmt.Errorf("categories: %w", err)
		}
		if len(categories) > HomeCategoriesLimit {
			categories = categories[:HomeCategoriesLimit]
		}
		if categories != nil {
			page.Categories = categories
		}
		return nil
	})
	g.Go(func() error {
		banners, err := s.Banners(ctx)
		if err != nil {
			return fmt.Errorf("banners: %w", err)
		}
		if banners != nil {
			page.Banners = banners
		}
		return nil
	})

	err := g.Wait()
	return page, err
}

func cached[T any](ctx context.Context, s *Service, key string, fetch func(context.Context) (T, error)) (T, error) {
	v, err, _ := s.sfg.Do(key, func() (any, error) {
		var out T
		if s.cache != nil {
			err := s.cache.Get(ctx, key, &out)
			if err == nil {
				return out, nil
			}
			if !errors.Is(err, ErrCacheMiss) {
				s.log.Warn("cache get error", zap.String("key", key), zap.Error(err))
			}
		}

		start := time.Now()
		out, err := fetch(ctx)
		if err != nil {
			return out, err
		}
		s.log.Debug("catalog fetched", zap.String("key", key), zap.Duration("took", time.Since(start)))

		if s.cache != nil {
			if err := s.cache.Set(ctx, key, out); err != nil {
				s.log.Warn("cache set error", zap.String("key", key), zap.Error(err))
			}
		}
		return out, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

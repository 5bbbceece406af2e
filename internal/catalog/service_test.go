package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anand-247/FE-VF/internal/api"
	"github.com/Anand-247/FE-VF/internal/domain"
	"github.com/Anand-247/FE-VF/internal/storage"
)

type mockSource struct {
	m          sync.RWMutex
	products   []domain.Product
	categories []domain.Category
	banners    []domain.Banner
	settings   domain.Settings
	err        error
	delay      time.Duration

	calls     atomic.Int32
	lastQuery api.ProductQuery
}

func (m *mockSource) ListProducts(_ context.Context, q api.ProductQuery) (domain.ProductPage, error) {
	m.calls.Add(1)
	time.Sleep(m.delay)
	m.m.Lock()
	defer m.m.Unlock()
	m.lastQuery = q
	if m.err != nil {
		return domain.ProductPage{}, m.err
	}
	return domain.ProductPage{Products: m.products, Total: len(m.products)}, nil
}

func (m *mockSource) GetProductBySlug(_ context.Context, slug string) (domain.Product, error) {
	m.calls.Add(1)
	m.m.RLock()
	defer m.m.RUnlock()
	for _, p := range m.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return domain.Product{}, &api.Error{StatusCode: 404, Message: "Product not found"}
}

func (m *mockSource) ListCategories(context.Context) ([]domain.Category, error) {
	m.calls.Add(1)
	m.m.RLock()
	defer m.m.RUnlock()
	return m.categories, m.err
}

func (m *mockSource) GetCategoryBySlug(_ context.Context, slug string) (domain.Category, error) {
	m.calls.Add(1)
	m.m.RLock()
	defer m.m.RUnlock()
	for _, c := range m.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return domain.Category{}, &api.Error{StatusCode: 404}
}

func (m *mockSource) ListBanners(context.Context) ([]domain.Banner, error) {
	m.calls.Add(1)
	m.m.RLock()
	defer m.m.RUnlock()
	return m.banners, m.err
}

func (m *mockSource) GetPublicSettings(context.Context) (domain.Settings, error) {
	m.calls.Add(1)
	m.m.RLock()
	defer m.m.RUnlock()
	return m.settings, m.err
}

func (m *mockSource) query() api.ProductQuery {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.lastQuery
}

func setupRedisCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCache(storage.NewRedisStore(client, "test"), ttl), mr
}

func TestProducts_ReadThrough(t *testing.T) {
	src := &mockSource{products: []domain.Product{{ID: "p1", Slug: "chair", Price: 200}}}
	cache, mr := setupRedisCache(t, time.Minute)
	svc := NewService(src, cache, nil)
	ctx := context.Background()

	first, err := svc.Products(ctx, api.ProductQuery{Featured: true, Limit: 8})
	require.NoError(t, err)
	second, err := svc.Products(ctx, api.ProductQuery{Featured: true, Limit: 8})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), src.calls.Load())
	assert.True(t, mr.Exists("test:catalog:products?featured=true&limit=8"))
	assert.Greater(t, mr.TTL("test:catalog:products?featured=true&limit=8"), time.Duration(0))
}

func TestCache_ExpiredEntryIsMiss(t *testing.T) {
	src := &mockSource{categories: []domain.Category{{ID: "c1", Slug: "chairs"}}}
	cache := NewCache(storage.NewMemoryStore(), time.Minute)
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	svc := NewService(src, cache, nil)
	ctx := context.Background()

	_, err := svc.Categories(ctx)
	require.NoError(t, err)
	_, err = svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), src.calls.Load())

	now = now.Add(2 * time.Minute)
	_, err = svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestCache_CorruptEntryRefetches(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), "catalog:banners", []byte("not json")))
	src := &mockSource{banners: []domain.Banner{{ID: "b1", Title: "Diwali Sale", IsActive: true}}}
	svc := NewService(src, NewCache(store, time.Minute), nil)

	banners, err := svc.Banners(context.Background())
	require.NoError(t, err)
	require.Len(t, banners, 1)
	assert.Equal(t, "Diwali Sale", banners[0].Title)
}

func TestZeroTTLDisablesCache(t *testing.T) {
	src := &mockSource{banners: []domain.Banner{{ID: "b1"}}}
	svc := NewService(src, NewCache(storage.NewMemoryStore(), 0), nil)

	for i := 0; i < 3; i++ {
		_, err := svc.Banners(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), src.calls.Load())
}

func TestProducts_ConcurrentCallsShareFetch(t *testing.T) {
	src := &mockSource{products: []domain.Product{{ID: "p1"}}, delay: 50 * time.Millisecond}
	svc := NewService(src, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Products(context.Background(), api.ProductQuery{Search: "teak"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Less(t, src.calls.Load(), int32(10))
}

func TestProduct_NotFound(t *testing.T) {
	svc := NewService(&mockSource{}, nil, nil)
	_, err := svc.Product(context.Background(), "missing")
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestSettings_FallsBackToDefaults(t *testing.T) {
	src := &mockSource{err: errors.New("connection refused")}
	svc := NewService(src, nil, nil)

	assert.Equal(t, domain.DefaultSettings(), svc.Settings(context.Background()))
}

func TestSettings_Live(t *testing.T) {
	src := &mockSource{settings: domain.Settings{WhatsappNumber: "919876543210"}}
	svc := NewService(src, nil, nil)

	assert.Equal(t, "919876543210", svc.Settings(context.Background()).WhatsappNumber)
}

func TestRelatedProducts(t *testing.T) {
	src := &mockSource{products: []domain.Product{{ID: "p2"}, {ID: "p1"}, {ID: "p3"}}}
	svc := NewService(src, nil, nil)
	product := domain.Product{ID: "p1", Category: &domain.CategoryRef{ID: "c1"}}

	related, err := svc.RelatedProducts(context.Background(), product, RelatedLimit)
	require.NoError(t, err)

	assert.Equal(t, api.ProductQuery{Category: "c1", Limit: 4, Exclude: "p1"}, src.query())
	require.Len(t, related, 2)
	assert.Equal(t, "p2", related[0].ID)
	assert.Equal(t, "p3", related[1].ID)
}

func TestRelatedProducts_NoCategory(t *testing.T) {
	src := &mockSource{}
	svc := NewService(src, nil, nil)

	related, err := svc.RelatedProducts(context.Background(), domain.Product{ID: "p1"}, RelatedLimit)
	require.NoError(t, err)
	assert.Empty(t, related)
	assert.Equal(t, int32(0), src.calls.Load())
}

func TestHome(t *testing.T) {
	categories := make([]domain.Category, 8)
	for i := range categories {
		categories[i] = domain.Category{ID: string(rune('a' + i))}
	}
	src := &mockSource{
		products:   []domain.Product{{ID: "p1", Featured: true}},
		categories: categories,
		banners:    []domain.Banner{{ID: "b1"}},
	}
	svc := NewService(src, nil, nil)

	page, err := svc.Home(context.Background())
	require.NoError(t, err)
	assert.Len(t, page.Featured, 1)
	assert.Len(t, page.Categories, HomeCategoriesLimit)
	assert.Len(t, page.Banners, 1)
	assert.Equal(t, api.ProductQuery{Featured: true, Limit: HomeFeaturedLimit}, src.query())
}

func TestHome_FailuresLeaveEmptySections(t *testing.T) {
	svc := NewService(&mockSource{err: errors.New("timeout")}, nil, nil)

	page, err := svc.Home(context.Background())
	assert.Error(t, err)
	assert.NotNil(t, page.Featured)
	assert.Empty(t, page.Featured)
	assert.Empty(t, page.Categories)
	assert.Empty(t, page.Banners)
}

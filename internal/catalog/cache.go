package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/Anand-247/FE-VF/internal/storage"
)

var ErrCacheMiss = errors.New("cache miss")

// ttlStore is implemented by backends that expire keys natively.
type ttlStore interface {
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type entry struct {
	ExpiresAt time.Time       `json:"expires_at"`
	Value     json.RawMessage `json:"value"`
}

// Cache keeps API responses in the persisted store. Entries carry their own
// expiry so backends without TTL support behave the same.
type Cache struct {
	store   storage.Store
	baseTTL time.Duration
	now     func() time.Time
}

func NewCache(store storage.Store, ttl time.Duration) *Cache {
	return &Cache{store: store, baseTTL: ttl, now: time.Now}
}

func (c *Cache) Get(ctx context.Context, key string, out any) error {
	data, err := c.store.Get(ctx, cacheKey(key))
	if errors.Is(err, storage.ErrNotFound) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("cache get failed: %w", err)
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return fmt.Errorf("unmarshal cache entry failed: %w", err)
	}
	if !c.now().Before(e.ExpiresAt) {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(e.Value, out); err != nil {
		return fmt.Errorf("unmarshal cached value failed: %w", err)
	}
	return nil
}

func (c *Cache) Set(ctx context.Context, key string, v any) error {
	value, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal cached value failed: %w", err)
	}

	// up to 10% jitter so entries written together do not expire together
	ttl := c.baseTTL
	if spread := int64(ttl / 10); spread > 0 {
		ttl += time.Duration(rand.Int63n(spread))
	}

	data, err := json.Marshal(entry{ExpiresAt: c.now().Add(ttl), Value: value})
	if err != nil {
		return fmt.Errorf("marshal cache entry failed: %w", err)
	}

	if ts, ok := c.store.(ttlStore); ok {
		err = ts.SetWithTTL(ctx, cacheKey(key), data, ttl)
	} else {
		err = c.store.Set(ctx, cacheKey(key), data)
	}
	if err != nil {
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

func cacheKey(key string) string {
	return "catalog:" + key
}

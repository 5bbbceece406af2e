package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Anand-247/FE-VF/internal/domain"
	"github.com/Anand-247/FE-VF/internal/logger"
	"github.com/Anand-247/FE-VF/internal/storage"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrInvalidProduct  = errors.New("product must have an id")
)

// Store is the shopping cart of one installation. Mutations are applied in
// call order; after hydration each mutation writes the whole cart back to the
// persisted store.
type Store struct {
	mu    sync.RWMutex
	items []domain.CartLineItem
	state State
	seq   uint64

	// serializes write-backs; written is the seq of the last snapshot stored
	writeMu sync.Mutex
	written uint64

	persist storage.Store
	key     string
	log     *zap.Logger
	now     func() time.Time
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = logger.OrNop(l) }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithKey overrides the storage key, mainly for tests sharing a backend.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

func NewStore(persist storage.Store, opts ...Option) *Store {
	s := &Store{
		persist: persist,
		key:     storage.CartKey,
		log:     zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Hydrate loads the saved cart once. A missing, unreadable or corrupt record
// leaves the cart empty; lines that fail to decode or are invalid are dropped
// one by one. Items added before hydration finished are merged on
// top of the saved cart and the result is written back.
func (s *Store) Hydrate(ctx context.Context) {
	s.mu.Lock()
	if s.state != StateUninitialized {
		s.mu.Unlock()
		return
	}
	s.state = StateHydrating
	s.mu.Unlock()

	saved := s.load(ctx)

	s.mu.Lock()
	pending := s.items
	s.items = saved
	for _, item := range pending {
		s.mergeLocked(item)
	}
	s.state = StateReady
	seq, data := s.snapshotLocked()
	s.mu.Unlock()

	if len(pending) > 0 {
		s.write(ctx, seq, data)
	}
	s.log.Debug("cart hydrated", zap.Int("items", len(saved)), zap.Int("pending", len(pending)))
}

func (s *Store) load(ctx context.Context) []domain.CartLineItem {
	data, err := s.persist.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Error("error loading cart", zap.String("key", s.key), zap.Error(err))
		}
		return nil
	}

	var lines []json.RawMessage
	if err := json.Unmarshal(data, &lines); err != nil {
		s.log.Error("saved cart is corrupt, starting empty", zap.String("key", s.key), zap.Error(err))
		return nil
	}

	items := make([]domain.CartLineItem, 0, len(lines))
	for i, raw := range lines {
		var item domain.CartLineItem
		if err := json.Unmarshal(raw, &item); err != nil {
			s.log.Warn("dropping unreadable saved cart line", zap.Int("line", i), zap.Error(err))
			continue
		}
		if item.ID == "" || item.Quantity < 1 {
			s.log.Warn("dropping invalid saved cart line", zap.String("product_id", item.ID), zap.Int("quantity", item.Quantity))
			continue
		}
		items = append(items, item)
	}
	return items
}

// AddToCart adds quantity of product, merging into an existing line with the
// same product and variant. Stock limits are not checked here. The returned
// bool reports whether an existing line was updated.
func (s *Store) AddToCart(ctx context.Context, product domain.Product, quantity int, variant *domain.Variant) (domain.CartLineItem, bool, error) {
	return s.AddToCartIf(ctx, product, quantity, variant, nil)
}

// AddToCartIf is AddToCart with a guard. allow is called under the cart lock
// with the quantity the line would hold after the add; a non-nil error aborts
// the add and is returned as is.
func (s *Store) AddToCartIf(ctx context.Context, product domain.Product, quantity int, variant *domain.Variant,
	allow func(resulting int) error,
) (domain.CartLineItem, bool, error) {
	if quantity < 1 {
		return domain.CartLineItem{}, false, ErrInvalidQuantity
	}
	if product.ID == "" {
		return domain.CartLineItem{}, false, ErrInvalidProduct
	}

	line := domain.CartLineItem{
		Product:         product.Clone(),
		Quantity:        quantity,
		SelectedVariant: variant.Clone(),
		AddedAt:         s.now().UTC(),
	}

	s.mu.Lock()
	if allow != nil {
		resulting := quantity
		if i := s.indexLocked(product.ID, variant); i >= 0 {
			resulting += s.items[i].Quantity
		}
		if err := allow(resulting); err != nil {
			s.mu.Unlock()
			return domain.CartLineItem{}, false, err
		}
	}
	idx, merged := s.mergeLocked(line)
	result := s.items[idx].Clone()
	seq, data := s.snapshotLocked()
	s.mu.Unlock()

	s.write(ctx, seq, data)
	return result, merged, nil
}

func (s *Store) mergeLocked(line domain.CartLineItem) (int, bool) {
	if i := s.indexLocked(line.ID, line.SelectedVariant); i >= 0 {
		s.items[i].Quantity += line.Quantity
		return i, true
	}
	s.items = append(s.items, line)
	return len(s.items) - 1, false
}

// RemoveFromCart drops the matching line. Removing an absent line is a no-op.
func (s *Store) RemoveFromCart(ctx context.Context, productID string, variant *domain.Variant) bool {
	s.mu.Lock()
	i := s.indexLocked(productID, variant)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	seq, data := s.snapshotLocked()
	s.mu.Unlock()

	s.write(ctx, seq, data)
	return true
}

// UpdateQuantity sets the line quantity to exactly quantity; zero or less
// removes the line. It reports whether a line matched.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int, variant *domain.Variant) bool {
	if quantity <= 0 {
		return s.RemoveFromCart(ctx, productID, variant)
	}

	s.mu.Lock()
	i := s.indexLocked(productID, variant)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.items[i].Quantity = quantity
	seq, data := s.snapshotLocked()
	s.mu.Unlock()

	s.write(ctx, seq, data)
	return true
}

func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	seq, data := s.snapshotLocked()
	s.mu.Unlock()

	s.write(ctx, seq, data)
}

// ItemsCount is the sum of quantities over all lines.
func (s *Store) ItemsCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Total is the sum of effective unit price times quantity over all lines,
// each line rounded to paise.
func (s *Store) Total() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.CartTotal(s.items)
}

func (s *Store) IsInCart(productID string, variant *domain.Variant) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexLocked(productID, variant) >= 0
}

func (s *Store) GetCartItem(productID string, variant *domain.Variant) (domain.CartLineItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(productID, variant)
	if i < 0 {
		return domain.CartLineItem{}, false
	}
	return s.items[i].Clone(), true
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []domain.CartLineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.CartLineItem, len(s.items))
	for i, item := range s.items {
		items[i] = item.Clone()
	}
	return items
}

func (s *Store) indexLocked(productID string, variant *domain.Variant) int {
	for i, item := range s.items {
		if item.Matches(productID, variant) {
			return i
		}
	}
	return -1
}

// snapshotLocked serializes the full cart for write-back. It returns seq 0
// while the store is not Ready, which suppresses the write.
func (s *Store) snapshotLocked() (uint64, []byte) {
	if s.state != StateReady {
		return 0, nil
	}

	items := s.items
	if items == nil {
		items = []domain.CartLineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		s.log.Error("error encoding cart", zap.Error(err))
		return 0, nil
	}

	s.seq++
	return s.seq, data
}

func (s *Store) write(ctx context.Context, seq uint64, data []byte) {
	if seq == 0 {
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	// a newer snapshot already reached the store
	if seq <= s.written {
		return
	}
	if err := s.persist.Set(ctx, s.key, data); err != nil {
		s.log.Error("error saving cart", zap.String("key", s.key), zap.Error(err))
		return
	}
	s.written = seq
}

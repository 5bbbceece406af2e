package storefront

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anand-247/FE-VF/internal/api"
	"github.com/Anand-247/FE-VF/internal/cart"
	"github.com/Anand-247/FE-VF/internal/checkout"
	"github.com/Anand-247/FE-VF/internal/domain"
	"github.com/Anand-247/FE-VF/internal/events"
	"github.com/Anand-247/FE-VF/internal/form"
	"github.com/Anand-247/FE-VF/internal/profile"
	"github.com/Anand-247/FE-VF/internal/storage"
	"github.com/Anand-247/FE-VF/internal/whatsapp"
)

type mockCatalog struct {
	products map[string]domain.Product
	settings domain.Settings
}

func (m *mockCatalog) Product(_ context.Context, slug string) (domain.Product, error) {
	p, ok := m.products[slug]
	if !ok {
		return domain.Product{}, &api.Error{StatusCode: 404, Message: "Product not found"}
	}
	return p, nil
}

func (m *mockCatalog) Settings(context.Context) domain.Settings {
	return m.settings
}

type mockBackend struct {
	m        sync.RWMutex
	orders   []domain.Order
	contacts []domain.ContactMessage
	err      error
}

func (m *mockBackend) CreateOrder(_ context.Context, order domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.orders = append(m.orders, order)
	return nil
}

func (m *mockBackend) CreateContact(_ context.Context, msg domain.ContactMessage) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.contacts = append(m.contacts, msg)
	return nil
}

type mockPublisher struct {
	m      sync.RWMutex
	events []events.OrderPlacedEvent
	err    error
}

func (m *mockPublisher) PublishOrderPlaced(_ context.Context, e events.OrderPlacedEvent) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.events = append(m.events, e)
	return m.err
}

func (m *mockPublisher) Close() error { return nil }

type fixture struct {
	svc       *Service
	cart      *cart.Store
	profile   *profile.Store
	catalog   *mockCatalog
	backend   *mockBackend
	publisher *mockPublisher
}

func price(v float64) *float64 { return &v }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	persist := storage.NewMemoryStore()

	cartStore := cart.NewStore(persist)
	cartStore.Hydrate(ctx)
	profileStore := profile.NewStore(persist, nil)
	profileStore.Load(ctx)

	catalog := &mockCatalog{
		products: map[string]domain.Product{
			"chair": {ID: "p1", Name: "Chair", Slug: "chair", Price: 200, Stock: 3},
			"table": {
				ID: "p2", Name: "Table", Slug: "table", Price: 1000, Stock: 10,
				Variants: []domain.Variant{
					{ID: "v-oak", Name: "Oak", Price: price(1200)},
					{ID: "v-pine", Name: "Pine"},
				},
			},
			"sold-out": {ID: "p3", Name: "Stool", Slug: "sold-out", Price: 50, Stock: 0},
		},
		settings: domain.Settings{WhatsappNumber: "+91 98765 43210"},
	}
	backend := &mockBackend{}
	publisher := &mockPublisher{}

	svc := NewService(Deps{
		Cart:     cartStore,
		Profile:  profileStore,
		Catalog:  catalog,
		Backend:  backend,
		Composer: checkout.NewComposer("https://woodcraft.example", ""),
		Launcher: whatsapp.NewLauncher(whatsapp.NopOpener{}, nil),
		Events:   publisher,
	})
	svc.now = func() time.Time { return time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC) }
	svc.newRef = func() string { return "WC-TEST" }

	return &fixture{svc: svc, cart: cartStore, profile: profileStore, catalog: catalog, backend: backend, publisher: publisher}
}

func customer() domain.UserProfile {
	return domain.UserProfile{Name: "Asha", Phone: "9876543210", Address: "12 MG Road, Pune"}
}

func TestAddToCart_RespectsStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddToCart(ctx, "chair", 2, nil)
	require.NoError(t, err)

	_, err = f.svc.AddToCart(ctx, "chair", 2, nil)
	assert.ErrorIs(t, err, ErrStockLimit)
	assert.Equal(t, 2, f.cart.ItemsCount())

	line, err := f.svc.AddToCart(ctx, "chair", 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, line.Quantity)
}

func TestAddToCart_ConcurrentAddsNeverExceedStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		added   int
		limited int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.AddToCart(ctx, "chair", 1, nil)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				added++
			case errors.Is(err, ErrStockLimit):
				limited++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, added)
	assert.Equal(t, 47, limited)
	assert.Equal(t, 3, f.cart.ItemsCount())
}

func TestAddToCart_OutOfStock(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddToCart(context.Background(), "sold-out", 1, nil)
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Empty(t, f.cart.Items())
}

func TestAddToCart_UnknownProduct(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddToCart(context.Background(), "missing", 1, nil)
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestAddToCart_InvalidQuantity(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddToCart(context.Background(), "chair", 0, nil)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
}

func TestAddToCart_ResolvesVariantFromCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// the caller's price is ignored in favour of the catalog's
	line, err := f.svc.AddToCart(ctx, "table", 1, &domain.Variant{ID: "v-oak", Price: price(1)})
	require.NoError(t, err)
	require.NotNil(t, line.SelectedVariant)
	assert.Equal(t, "Oak", line.SelectedVariant.Name)
	assert.Equal(t, 1200.0, line.UnitPrice())

	line, err = f.svc.AddToCart(ctx, "table", 1, &domain.Variant{Name: "Pine"})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, line.UnitPrice())

	_, err = f.svc.AddToCart(ctx, "table", 1, &domain.Variant{Name: "Walnut"})
	assert.ErrorIs(t, err, ErrUnknownVariant)

	_, err = f.svc.AddToCart(ctx, "chair", 1, &domain.Variant{Name: "Oak"})
	assert.ErrorIs(t, err, ErrUnknownVariant)

	assert.Equal(t, 2200.0, f.cart.Total())
}

func TestUpdateQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.AddToCart(ctx, "chair", 1, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.UpdateQuantity(ctx, "p1", 4, nil), ErrStockLimit)
	require.NoError(t, f.svc.UpdateQuantity(ctx, "p1", 3, nil))
	assert.Equal(t, 3, f.cart.ItemsCount())

	require.NoError(t, f.svc.UpdateQuantity(ctx, "p1", 0, nil))
	assert.Empty(t, f.cart.Items())

	assert.ErrorIs(t, f.svc.UpdateQuantity(ctx, "p1", 1, nil), ErrItemNotInCart)
}

func TestRemoveFromCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.AddToCart(ctx, "chair", 1, nil)
	require.NoError(t, err)

	require.NoError(t, f.svc.RemoveFromCart(ctx, "p1", nil))
	assert.ErrorIs(t, f.svc.RemoveFromCart(ctx, "p1", nil), ErrItemNotInCart)
}

func TestCartView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.AddToCart(ctx, "chair", 2, nil)
	require.NoError(t, err)

	view := f.svc.Cart()
	assert.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.ItemsCount)
	assert.Equal(t, 400.0, view.Total)
	assert.Equal(t, "₹", view.Currency)

	f.svc.ClearCart(ctx)
	assert.Empty(t, f.svc.Cart().Items)
}

func decodeLink(t *testing.T, link string) (string, string) {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	return strings.TrimPrefix(u.Path, "/"), u.Query().Get("text")
}

func TestBuyNow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.BuyNow(ctx, "chair", 3, nil, customer())
	require.NoError(t, err)

	phone, text := decodeLink(t, res.Link)
	assert.Equal(t, "919876543210", phone)
	assert.Equal(t, res.Message, text)
	assert.Contains(t, text, "Chair")
	assert.Contains(t, text, "Total: ₹600")
	assert.Contains(t, text, "Name: Asha")
	assert.Equal(t, "WC-TEST", res.OrderRef)
	assert.Equal(t, 600.0, res.Total)

	saved, ok := f.profile.Current()
	require.True(t, ok)
	assert.Equal(t, customer(), saved)

	require.Len(t, f.backend.orders, 1)
	order := f.backend.orders[0]
	assert.Equal(t, domain.OrderSourceBuyNow, order.Source)
	assert.Equal(t, "whatsapp", order.Channel)
	assert.Equal(t, 600.0, order.TotalAmount)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, "WC-TEST", f.publisher.events[0].Reference)

	assert.Empty(t, f.cart.Items())
}

func TestBuyNow_Rules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.BuyNow(ctx, "chair", 4, nil, customer())
	assert.ErrorIs(t, err, ErrStockLimit)

	_, err = f.svc.BuyNow(ctx, "sold-out", 1, nil, customer())
	assert.ErrorIs(t, err, ErrOutOfStock)

	_, err = f.svc.BuyNow(ctx, "chair", 1, nil, domain.UserProfile{Name: "Asha", Phone: "999"})
	var verr *form.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Please enter a valid 10-digit phone number", verr.Fields["phone"])
	assert.Equal(t, "Address is required", verr.Fields["address"])

	assert.Empty(t, f.backend.orders)
}

func TestBuyNow_NoWhatsAppNumber(t *testing.T) {
	f := newFixture(t)
	f.catalog.settings = domain.DefaultSettings()

	_, err := f.svc.BuyNow(context.Background(), "chair", 1, nil, customer())
	assert.ErrorIs(t, err, ErrWhatsAppNotConfigured)

	f.svc.whatsappNumber = "919000000000"
	res, err := f.svc.BuyNow(context.Background(), "chair", 1, nil, customer())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Link, "https://wa.me/919000000000?text="))
}

func TestCheckoutCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.AddToCart(ctx, "chair", 2, nil)
	require.NoError(t, err)
	_, err = f.svc.AddToCart(ctx, "table", 1, &domain.Variant{ID: "v-oak"})
	require.NoError(t, err)

	res, err := f.svc.CheckoutCart(ctx, customer())
	require.NoError(t, err)

	_, text := decodeLink(t, res.Link)
	assert.Contains(t, text, "1. Chair\n")
	assert.Contains(t, text, "2. Table\n   Variant: Oak\n   Price: ₹1200\n")
	assert.Contains(t, text, "*Total Amount: ₹1600*")
	assert.Equal(t, 1600.0, res.Total)

	require.Len(t, f.backend.orders, 1)
	order := f.backend.orders[0]
	assert.Equal(t, domain.OrderSourceCart, order.Source)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 1200.0, order.Items[1].Price)

	// the cart stays until the shop confirms
	assert.Equal(t, 3, f.cart.ItemsCount())
}

func TestCheckoutCart_FractionalPrices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		product := domain.Product{ID: fmt.Sprintf("f%d", i), Name: fmt.Sprintf("Shelf %d", i), Price: 33.333, Stock: 10}
		_, err := f.svc.AddProduct(ctx, product, 3, nil)
		require.NoError(t, err)
	}

	res, err := f.svc.CheckoutCart(ctx, customer())
	require.NoError(t, err)

	_, text := decodeLink(t, res.Link)
	assert.Equal(t, 7, strings.Count(text, "Subtotal: ₹100\n"))
	assert.Contains(t, text, "*Total Amount: ₹700*")
	assert.Equal(t, 700.0, res.Total)
	assert.Equal(t, 700.0, f.svc.Cart().Total)
}

func TestCheckoutCart_Empty(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckoutCart(context.Background(), customer())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckout_RecordingFailuresDoNotFail(t *testing.T) {
	f := newFixture(t)
	f.backend.err = errors.New("orders api down")
	f.publisher.err = errors.New("kafka down")

	res, err := f.svc.BuyNow(context.Background(), "chair", 1, nil, customer())
	require.NoError(t, err)
	assert.NotEmpty(t, res.Link)
}

func TestSubmitContact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.svc.SubmitContact(ctx, domain.ContactMessage{Name: " ", Email: "asha@example.com"})
	var verr *form.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Name is required", verr.Fields["name"])
	assert.Equal(t, "Message is required", verr.Fields["message"])

	require.NoError(t, f.svc.SubmitContact(ctx, domain.ContactMessage{Name: "Asha", Email: "asha@example.com", Message: " Hi "}))
	require.Len(t, f.backend.contacts, 1)
	assert.Equal(t, "Hi", f.backend.contacts[0].Message)

	f.backend.err = errors.New("down")
	err = f.svc.SubmitContact(ctx, domain.ContactMessage{Name: "Asha", Email: "asha@example.com", Message: "Hi"})
	assert.ErrorContains(t, err, "failed to send message")
}

func TestNewOrderRef(t *testing.T) {
	ref := newOrderRef()
	assert.True(t, strings.HasPrefix(ref, "WC-"))
	assert.Len(t, ref, 13)
	assert.NotEqual(t, ref, newOrderRef())
}

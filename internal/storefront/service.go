package storefront

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Anand-247/FE-VF/internal/cart"
	"github.com/Anand-247/FE-VF/internal/checkout"
	"github.com/Anand-247/FE-VF/internal/domain"
	"github.com/Anand-247/FE-VF/internal/events"
	"github.com/Anand-247/FE-VF/internal/form"
	"github.com/Anand-247/FE-VF/internal/logger"
	"github.com/Anand-247/FE-VF/internal/profile"
)

const whatsappChannel = "whatsapp"

type Catalog interface {
	Product(ctx context.Context, slug string) (domain.Product, error)
	Settings(ctx context.Context) domain.Settings
}

// Backend receives the records the shop follows up on.
type Backend interface {
	CreateOrder(ctx context.Context, order domain.Order) error
	CreateContact(ctx context.Context, msg domain.ContactMessage) error
}

type Launcher interface {
	Launch(ctx context.Context, phone, encoded string) (string, error)
}

// Deps are the handles the storefront works with. Cart and Profile must be
// hydrated by the caller before use.
type Deps struct {
	Cart     *cart.Store
	Profile  *profile.Store
	Catalog  Catalog
	Backend  Backend
	Composer *checkout.Composer
	Launcher Launcher
	Events   events.Publisher

	// WhatsappNumber is used when the shop settings carry none.
	WhatsappNumber string
	Currency       string
	Logger         *zap.Logger
}

// Service holds the storefront rules that sit between user actions and the
// stores: stock limits, profile validation and the WhatsApp handoff.
type Service struct {
	cart     *cart.Store
	profile  *profile.Store
	catalog  Catalog
	backend  Backend
	composer *checkout.Composer
	launcher Launcher
	events   events.Publisher

	whatsappNumber string
	currency       string
	log            *zap.Logger
	now            func() time.Time
	newRef         func() string
}

func NewService(d Deps) *Service {
	pub := d.Events
	if pub == nil {
		pub = events.NopPublisher{}
	}
	currency := d.Currency
	if currency == "" {
		currency = checkout.DefaultCurrency
	}
	return &Service{
		cart:           d.Cart,
		profile:        d.Profile,
		catalog:        d.Catalog,
		backend:        d.Backend,
		composer:       d.Composer,
		launcher:       d.Launcher,
		events:         pub,
		whatsappNumber: d.WhatsappNumber,
		currency:       currency,
		log:            logger.OrNop(d.Logger),
		now:            time.Now,
		newRef:         newOrderRef,
	}
}

func newOrderRef() string {
	return "WC-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

// AddToCart looks the product up by slug and adds it.
func (s *Service) AddToCart(ctx context.Context, slug string, quantity int, variant *domain.Variant) (domain.CartLineItem, error) {
	product, err := s.catalog.Product(ctx, slug)
	if err != nil {
		return domain.CartLineItem{}, err
	}
	return s.AddProduct(ctx, product, quantity, variant)
}

// AddProduct adds quantity of product unless that would exceed its stock.
func (s *Service) AddProduct(ctx context.Context, product domain.Product, quantity int, variant *domain.Variant) (domain.CartLineItem, error) {
	if quantity < 1 {
		return domain.CartLineItem{}, cart.ErrInvalidQuantity
	}
	if !product.Available() {
		return domain.CartLineItem{}, ErrOutOfStock
	}
	variant, err := resolveVariant(product, variant)
	if err != nil {
		return domain.CartLineItem{}, err
	}

	line, merged, err := s.cart.AddToCartIf(ctx, product, quantity, variant, func(resulting int) error {
		return checkStock(product, resulting)
	})
	if err != nil {
		return domain.CartLineItem{}, err
	}
	s.log.Info("added to cart",
		zap.String("product_id", product.ID),
		zap.Int("quantity", quantity),
		zap.Bool("merged", merged))
	return line, nil
}

// UpdateQuantity sets the quantity of a cart line, bounded by the stock
// recorded when the item was added. Zero or less removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, productID string, quantity int, variant *domain.Variant) error {
	item, ok := s.cart.GetCartItem(productID, variant)
	if !ok {
		return ErrItemNotInCart
	}
	if quantity > 0 {
		if err := checkStock(item.Product, quantity); err != nil {
			return err
		}
	}
	s.cart.UpdateQuantity(ctx, productID, quantity, variant)
	return nil
}

func (s *Service) RemoveFromCart(ctx context.Context, productID string, variant *domain.Variant) error {
	if !s.cart.RemoveFromCart(ctx, productID, variant) {
		return ErrItemNotInCart
	}
	return nil
}

type CartView struct {
	Items      []domain.CartLineItem `json:"items"`
	ItemsCount int                   `json:"items_count"`
	Total      float64               `json:"total"`
	Currency   string                `json:"currency"`
}

func (s *Service) Cart() CartView {
	return CartView{
		Items:      s.cart.Items(),
		ItemsCount: s.cart.ItemsCount(),
		Total:      s.cart.Total(),
		Currency:   s.currency,
	}
}

func (s *Service) ClearCart(ctx context.Context) {
	s.cart.ClearCart(ctx)
}

type CheckoutResult struct {
	Link     string  `json:"link"`
	Message  string  `json:"message"`
	OrderRef string  `json:"order_ref"`
	Total    float64 `json:"total"`
}

// BuyNow sends a single product straight to WhatsApp without touching the
// cart.
func (s *Service) BuyNow(ctx context.Context, slug string, quantity int, variant *domain.Variant, user domain.UserProfile) (CheckoutResult, error) {
	if quantity < 1 {
		return CheckoutResult{}, cart.ErrInvalidQuantity
	}
	user, err := s.saveProfile(ctx, user)
	if err != nil {
		return CheckoutResult{}, err
	}

	product, err := s.catalog.Product(ctx, slug)
	if err != nil {
		return CheckoutResult{}, err
	}
	if !product.Available() {
		return CheckoutResult{}, ErrOutOfStock
	}
	variant, err = resolveVariant(product, variant)
	if err != nil {
		return CheckoutResult{}, err
	}
	if err := checkStock(product, quantity); err != nil {
		return CheckoutResult{}, err
	}

	phone, err := s.shopNumber(ctx)
	if err != nil {
		return CheckoutResult{}, err
	}

	payload := checkout.Payload{User: &user, Product: &product, Variant: variant, Quantity: quantity}
	price := variant.EffectivePrice(product.Price)
	items := []domain.OrderItem{{
		ProductID:   product.ID,
		ProductName: product.Name,
		Variant:     variant,
		Quantity:    quantity,
		Price:       price,
	}}
	return s.handoff(ctx, checkout.KindSingleItem, payload, phone, user, items, domain.RoundAmount(price*float64(quantity)), domain.OrderSourceBuyNow)
}

// CheckoutCart sends the whole cart to WhatsApp. The cart is kept; the shop
// confirms the order in the chat.
func (s *Service) CheckoutCart(ctx context.Context, user domain.UserProfile) (CheckoutResult, error) {
	items := s.cart.Items()
	if len(items) == 0 {
		return CheckoutResult{}, ErrEmptyCart
	}
	user, err := s.saveProfile(ctx, user)
	if err != nil {
		return CheckoutResult{}, err
	}
	phone, err := s.shopNumber(ctx)
	if err != nil {
		return CheckoutResult{}, err
	}

	total := domain.CartTotal(items)
	orderItems := make([]domain.OrderItem, len(items))
	for i, item := range items {
		orderItems[i] = domain.OrderItem{
			ProductID:   item.ID,
			ProductName: item.Name,
			Variant:     item.SelectedVariant,
			Quantity:    item.Quantity,
			Price:       item.UnitPrice(),
		}
	}

	payload := checkout.Payload{User: &user, Items: items, Total: total}
	return s.handoff(ctx, checkout.KindCart, payload, phone, user, orderItems, total, domain.OrderSourceCart)
}

func (s *Service) handoff(ctx context.Context, kind checkout.Kind, payload checkout.Payload, phone string,
	user domain.UserProfile, items []domain.OrderItem, total float64, source domain.OrderSource,
) (CheckoutResult, error) {
	text, err := s.composer.Text(kind, payload)
	if err != nil {
		return CheckoutResult{}, fmt.Errorf("failed to compose message: %w", err)
	}
	link, err := s.launcher.Launch(ctx, phone, checkout.EncodeURIComponent(text))
	if err != nil {
		return CheckoutResult{}, err
	}

	order := domain.Order{
		Reference:   s.newRef(),
		Customer:    user,
		Items:       items,
		TotalAmount: total,
		Source:      source,
		Channel:     whatsappChannel,
		CreatedAt:   s.now().UTC(),
	}
	s.record(ctx, order)

	return CheckoutResult{Link: link, Message: text, OrderRef: order.Reference, Total: total}, nil
}

// record stores the order and emits the event. Both are best effort: the
// customer is already in the chat with the shop.
func (s *Service) record(ctx context.Context, order domain.Order) {
	log := s.log.With(zap.String("order_ref", order.Reference), zap.String("source", string(order.Source)))

	if s.backend != nil {
		if err := s.backend.CreateOrder(ctx, order); err != nil {
			log.Warn("failed to record order", zap.Error(err))
		}
	}

	err := s.events.PublishOrderPlaced(ctx, events.OrderPlacedEvent{
		Reference:   order.Reference,
		Source:      order.Source,
		Customer:    order.Customer,
		Items:       order.Items,
		TotalAmount: order.TotalAmount,
		Currency:    s.currency,
		PlacedAt:    order.CreatedAt,
	})
	if err != nil {
		log.Warn("failed to publish order event", zap.Error(err))
	}
	log.Info("order handed off", zap.Int("items", len(order.Items)), zap.Float64("total", order.TotalAmount))
}

// saveProfile validates the form and stores it. A failed write is logged; the
// checkout can still go ahead with the entered details.
func (s *Service) saveProfile(ctx context.Context, user domain.UserProfile) (domain.UserProfile, error) {
	user = profile.Normalize(user)
	if err := form.Validate(user); err != nil {
		return domain.UserProfile{}, err
	}
	if err := s.profile.SaveUser(ctx, user); err != nil {
		s.log.Warn("continuing checkout without saved profile", zap.Error(err))
	}
	return user, nil
}

func (s *Service) shopNumber(ctx context.Context) (string, error) {
	if n := s.catalog.Settings(ctx).WhatsappNumber; n != "" {
		return n, nil
	}
	if s.whatsappNumber != "" {
		return s.whatsappNumber, nil
	}
	return "", ErrWhatsAppNotConfigured
}

// SubmitContact validates the contact form and sends it to the shop.
func (s *Service) SubmitContact(ctx context.Context, msg domain.ContactMessage) error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Message = strings.TrimSpace(msg.Message)
	if err := form.Validate(msg); err != nil {
		return err
	}
	if err := s.backend.CreateContact(ctx, msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func checkStock(product domain.Product, wanted int) error {
	if product.Stock > 0 && wanted > product.Stock {
		return fmt.Errorf("%w: %d requested, %d available", ErrStockLimit, wanted, product.Stock)
	}
	return nil
}

// resolveVariant maps the requested variant onto the product's own variant
// list, so price and options come from the catalog rather than the caller.
func resolveVariant(product domain.Product, requested *domain.Variant) (*domain.Variant, error) {
	if requested == nil {
		return nil, nil
	}
	for i := range product.Variants {
		v := &product.Variants[i]
		switch {
		case requested.ID != "":
			if v.ID == requested.ID {
				return v.Clone(), nil
			}
		case requested.Name != "":
			if v.Name == requested.Name {
				return v.Clone(), nil
			}
		case domain.SameVariant(v, requested):
			return v.Clone(), nil
		}
	}
	return nil, ErrUnknownVariant
}

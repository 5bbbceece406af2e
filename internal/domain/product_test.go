package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductStockStatus(t *testing.T) {
	cases := map[int]StockStatus{
		-1: StockOut,
		0:  StockOut,
		1:  StockLow,
		5:  StockLow,
		6:  StockLimited,
		10: StockLimited,
		11: StockIn,
	}
	for stock, want := range cases {
		assert.Equal(t, want, Product{Stock: stock}.StockStatus(), "stock %d", stock)
	}
}

func TestProductAvailable(t *testing.T) {
	assert.True(t, Product{Stock: 3}.Available())
	assert.False(t, Product{Stock: 0}.Available())
	assert.False(t, Product{Stock: 3, InStock: ptr(false)}.Available())
	assert.True(t, Product{Stock: 0, InStock: ptr(true)}.Available())
}

func TestProductDiscountPercent(t *testing.T) {
	assert.Equal(t, 0, Product{Price: 100}.DiscountPercent())
	assert.Equal(t, 0, Product{Price: 100, OriginalPrice: ptr(90.0)}.DiscountPercent())
	assert.Equal(t, 25, Product{Price: 75, OriginalPrice: ptr(100.0)}.DiscountPercent())
	assert.Equal(t, 33, Product{Price: 200, OriginalPrice: ptr(300.0)}.DiscountPercent())
}

func TestProductMainImage(t *testing.T) {
	assert.Equal(t, "", Product{}.MainImage())
	assert.Equal(t, "a.jpg", Product{Images: []Image{{URL: "a.jpg"}, {URL: "b.jpg"}}}.MainImage())
}

func TestProductCloneIsDeep(t *testing.T) {
	p := Product{
		ID:       "p1",
		Images:   []Image{{URL: "a.jpg"}},
		Category: &CategoryRef{ID: "c1"},
		Variants: []Variant{{Name: "Oak", Options: map[string]string{"size": "L"}}},
	}
	c := p.Clone()

	c.Images[0].URL = "b.jpg"
	c.Category.ID = "c2"
	c.Variants[0].Options["size"] = "S"

	assert.Equal(t, "a.jpg", p.Images[0].URL)
	assert.Equal(t, "c1", p.Category.ID)
	assert.Equal(t, "L", p.Variants[0].Options["size"])
}

func TestProductPageTotals(t *testing.T) {
	page := ProductPage{Total: 12, TotalPages: 2}
	assert.Equal(t, 12, page.TotalCount())
	assert.Equal(t, 2, page.PageCount())

	page = ProductPage{Pagination: &Pagination{Current: 1, Pages: 3, Total: 30}}
	assert.Equal(t, 30, page.TotalCount())
	assert.Equal(t, 3, page.PageCount())

	assert.Equal(t, 1, ProductPage{}.PageCount())
}

func TestCartLineItemPricing(t *testing.T) {
	item := CartLineItem{Product: Product{ID: "p1", Price: 100}, Quantity: 3}
	assert.Equal(t, 100.0, item.UnitPrice())
	assert.Equal(t, 300.0, item.Subtotal())

	item.SelectedVariant = &Variant{Name: "Oak"}
	assert.Equal(t, 100.0, item.UnitPrice())

	item.SelectedVariant.Price = ptr(0.0)
	assert.Equal(t, 0.0, item.UnitPrice())

	item.SelectedVariant.Price = ptr(150.0)
	assert.Equal(t, 450.0, item.Subtotal())
}

func TestCartTotalUsesRoundedSubtotals(t *testing.T) {
	items := make([]CartLineItem, 7)
	for i := range items {
		items[i] = CartLineItem{Product: Product{ID: "p", Price: 33.333}, Quantity: 3}
	}
	assert.Equal(t, 100.0, items[0].Subtotal())
	assert.Equal(t, 700.0, CartTotal(items))

	assert.Equal(t, 0.3, CartTotal([]CartLineItem{
		{Product: Product{Price: 0.1}, Quantity: 1},
		{Product: Product{Price: 0.2}, Quantity: 1},
	}))
	assert.Equal(t, 0.0, CartTotal(nil))
}

func TestRoundAmount(t *testing.T) {
	assert.Equal(t, 99.5, RoundAmount(99.499999))
	assert.Equal(t, 100.0, RoundAmount(99.999))
	assert.Equal(t, 12.35, RoundAmount(12.345000001))
}

func TestCartLineItemMatches(t *testing.T) {
	item := CartLineItem{Product: Product{ID: "p1"}, SelectedVariant: &Variant{ID: "v1"}}
	assert.True(t, item.Matches("p1", &Variant{ID: "v1", Name: "ignored"}))
	assert.False(t, item.Matches("p1", nil))
	assert.False(t, item.Matches("p2", &Variant{ID: "v1"}))
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	require.NotNil(t, s.BusinessHours)
	assert.Equal(t, "WoodCraft", s.ShopName)
	assert.Empty(t, s.WhatsappNumber)
	assert.Equal(t, "Closed", s.BusinessHours["Sunday"])
}

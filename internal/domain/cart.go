package domain

import (
	"math"
	"time"
)

// CartLineItem is one product (plus optional variant) in the cart. The product
// fields are flattened into the JSON record next to quantity, selectedVariant
// and addedAt.
type CartLineItem struct {
	Product
	Quantity        int       `json:"quantity"`
	SelectedVariant *Variant  `json:"selectedVariant"`
	AddedAt         time.Time `json:"addedAt"`
}

// UnitPrice is the effective price: the variant price when the variant has
// one, the product price otherwise.
func (i CartLineItem) UnitPrice() float64 {
	return i.SelectedVariant.EffectivePrice(i.Price)
}

// Subtotal is unit price times quantity, rounded to paise like every amount
// shown to the customer.
func (i CartLineItem) Subtotal() float64 {
	return RoundAmount(i.UnitPrice() * float64(i.Quantity))
}

func (i CartLineItem) Matches(productID string, variant *Variant) bool {
	return i.ID == productID && SameVariant(i.SelectedVariant, variant)
}

func (i CartLineItem) Clone() CartLineItem {
	c := i
	c.Product = i.Product.Clone()
	c.SelectedVariant = i.SelectedVariant.Clone()
	return c
}

// CartTotal sums the line subtotals. Since each subtotal is already rounded,
// the total equals the sum of the subtotals as printed.
func CartTotal(items []CartLineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Subtotal()
	}
	return RoundAmount(total)
}

// RoundAmount rounds a money amount to two decimals.
func RoundAmount(v float64) float64 {
	return math.Round(v*100) / 100
}

package domain

import (
	"sort"
	"strconv"
	"strings"
)

// Variant is an optional sub-selection of a product (color, size, finish).
// Two variants are the same cart identity when their Key values match.
type Variant struct {
	ID      string            `json:"_id,omitempty"`
	Name    string            `json:"name,omitempty"`
	SKU     string            `json:"sku,omitempty"`
	Options map[string]string `json:"options,omitempty"`
	Price   *float64          `json:"price,omitempty"`
}

// Key returns a canonical identity for the variant. A nil variant has the
// empty key. Variants carrying an ID are identified by it alone; otherwise
// the semantic fields are quoted and joined in a fixed order, so neither map
// iteration order nor separator characters inside values can make two
// variants collide.
func (v *Variant) Key() string {
	if v == nil {
		return ""
	}
	if v.ID != "" {
		return "id:" + strconv.Quote(v.ID)
	}

	var b strings.Builder
	b.WriteString("name:")
	b.WriteString(strconv.Quote(v.Name))
	b.WriteString("|sku:")
	b.WriteString(strconv.Quote(v.SKU))

	keys := make([]string, 0, len(v.Options))
	for k := range v.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString("|opt:")
		b.WriteString(strconv.Quote(k))
		b.WriteString("=")
		b.WriteString(strconv.Quote(v.Options[k]))
	}

	b.WriteString("|price:")
	if v.Price != nil {
		b.WriteString(strconv.FormatFloat(*v.Price, 'f', -1, 64))
	}
	return b.String()
}

// SameVariant is the identity rule used by the cart: both absent matches.
func SameVariant(a, b *Variant) bool {
	return a.Key() == b.Key()
}

func (v *Variant) Clone() *Variant {
	if v == nil {
		return nil
	}
	c := *v
	if v.Options != nil {
		c.Options = make(map[string]string, len(v.Options))
		for k, val := range v.Options {
			c.Options[k] = val
		}
	}
	if v.Price != nil {
		p := *v.Price
		c.Price = &p
	}
	return &c
}

// EffectivePrice returns the variant price when set, base otherwise. A nil
// variant always yields base.
func (v *Variant) EffectivePrice(base float64) float64 {
	if v != nil && v.Price != nil {
		return *v.Price
	}
	return base
}

// Label is the human readable name used in order messages.
func (v *Variant) Label() string {
	if v == nil {
		return ""
	}
	if v.Name != "" {
		return v.Name
	}
	keys := make([]string, 0, len(v.Options))
	for k := range v.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v.Options[k])
	}
	return strings.Join(parts, ", ")
}

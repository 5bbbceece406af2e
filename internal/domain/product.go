package domain

import (
	"math"
	"time"
)

type Image struct {
	URL      string `json:"url"`
	Alt      string `json:"alt,omitempty"`
	PublicID string `json:"publicId,omitempty"`
}

type CategoryRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

type Dimensions struct {
	Length float64 `json:"length,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Unit   string  `json:"unit,omitempty"`
}

// Product is the catalog record returned by the products API. Cart line items
// embed a copy of it taken when the item was added.
type Product struct {
	ID            string       `json:"_id"`
	Name          string       `json:"name"`
	Slug          string       `json:"slug"`
	Description   string       `json:"description,omitempty"`
	Price         float64      `json:"price"`
	OriginalPrice *float64     `json:"originalPrice,omitempty"`
	Images        []Image      `json:"images,omitempty"`
	Stock         int          `json:"stock"`
	InStock       *bool        `json:"inStock,omitempty"`
	Category      *CategoryRef `json:"category,omitempty"`
	Featured      bool         `json:"featured,omitempty"`
	Rating        *float64     `json:"rating,omitempty"`
	Material      string       `json:"material,omitempty"`
	Dimensions    *Dimensions  `json:"dimensions,omitempty"`
	Variants      []Variant    `json:"variants,omitempty"`
	CreatedAt     *time.Time   `json:"createdAt,omitempty"`
}

type StockStatus string

const (
	StockOut     StockStatus = "out"
	StockLow     StockStatus = "low"
	StockLimited StockStatus = "medium"
	StockIn      StockStatus = "in"
)

// Available reports whether the product can be ordered at all. An explicit
// inStock flag from the API wins over the stock counter.
func (p Product) Available() bool {
	if p.InStock != nil {
		return *p.InStock
	}
	return p.Stock > 0
}

func (p Product) StockStatus() StockStatus {
	switch {
	case p.Stock <= 0:
		return StockOut
	case p.Stock <= 5:
		return StockLow
	case p.Stock <= 10:
		return StockLimited
	default:
		return StockIn
	}
}

// DiscountPercent is the rounded saving against the original price, 0 when
// there is none.
func (p Product) DiscountPercent() int {
	if p.OriginalPrice == nil || *p.OriginalPrice <= 0 || *p.OriginalPrice <= p.Price {
		return 0
	}
	return int(math.Round((*p.OriginalPrice - p.Price) / *p.OriginalPrice * 100))
}

func (p Product) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

type Pagination struct {
	Current int `json:"current"`
	Pages   int `json:"pages"`
	Total   int `json:"total"`
}

// ProductPage is a page of the products listing. The API reports totals both
// at the top level and inside pagination depending on the endpoint version.
type ProductPage struct {
	Products   []Product   `json:"products"`
	Total      int         `json:"total,omitempty"`
	TotalPages int         `json:"totalPages,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

func (p ProductPage) TotalCount() int {
	if p.Pagination != nil && p.Pagination.Total > 0 {
		return p.Pagination.Total
	}
	return p.Total
}

func (p ProductPage) PageCount() int {
	if p.Pagination != nil && p.Pagination.Pages > 0 {
		return p.Pagination.Pages
	}
	if p.TotalPages > 0 {
		return p.TotalPages
	}
	return 1
}

// Clone returns a deep copy so a snapshot never aliases the caller's data.
func (p Product) Clone() Product {
	c := p
	if p.OriginalPrice != nil {
		v := *p.OriginalPrice
		c.OriginalPrice = &v
	}
	if p.InStock != nil {
		v := *p.InStock
		c.InStock = &v
	}
	if p.Rating != nil {
		v := *p.Rating
		c.Rating = &v
	}
	if p.Category != nil {
		v := *p.Category
		c.Category = &v
	}
	if p.Dimensions != nil {
		v := *p.Dimensions
		c.Dimensions = &v
	}
	if p.CreatedAt != nil {
		v := *p.CreatedAt
		c.CreatedAt = &v
	}
	if p.Images != nil {
		c.Images = append([]Image(nil), p.Images...)
	}
	if p.Variants != nil {
		c.Variants = make([]Variant, len(p.Variants))
		for i := range p.Variants {
			c.Variants[i] = *p.Variants[i].Clone()
		}
	}
	return c
}

package api

import (
	"net/url"
	"strconv"
)

// ProductQuery holds the filters of GET /products. Zero values are not sent.
type ProductQuery struct {
	Search    string
	Category  string
	MinPrice  float64
	MaxPrice  float64
	Rating    float64
	InStock   bool
	Featured  bool
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
	Exclude   string
}

func (q ProductQuery) Values() url.Values {
	v := url.Values{}
	setString := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	setFloat := func(key string, value float64) {
		if value > 0 {
			v.Set(key, strconv.FormatFloat(value, 'f', -1, 64))
		}
	}
	setInt := func(key string, value int) {
		if value > 0 {
			v.Set(key, strconv.Itoa(value))
		}
	}

	setString("search", q.Search)
	setString("category", q.Category)
	setFloat("minPrice", q.MinPrice)
	setFloat("maxPrice", q.MaxPrice)
	setFloat("rating", q.Rating)
	if q.InStock {
		v.Set("inStock", "true")
	}
	if q.Featured {
		v.Set("featured", "true")
	}
	setString("sortBy", q.SortBy)
	setString("sortOrder", q.SortOrder)
	setInt("page", q.Page)
	setInt("limit", q.Limit)
	setString("exclude", q.Exclude)
	return v
}

// CacheKey is a stable identifier of the query, used by read-through caches.
func (q ProductQuery) CacheKey() string {
	return "products?" + q.Values().Encode()
}

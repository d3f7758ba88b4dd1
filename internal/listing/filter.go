package listing

import (
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// Params are the optional search filters the listing index accepts.
// Price bounds stay strings until parsed so an absent bound and a
// present one are distinguishable.
type Params struct {
	Condition string
	Brand     string
	MinPrice  string
	MaxPrice  string
	City      string
	Search    string
}

// ParamsFromQuery pulls the supported filters out of a query string.
func ParamsFromQuery(q url.Values) Params {
	return Params{
		Condition: q.Get("condition"),
		Brand:     q.Get("brand"),
		MinPrice:  q.Get("minPrice"),
		MaxPrice:  q.Get("maxPrice"),
		City:      q.Get("city"),
		Search:    q.Get("search"),
	}
}

// Apply builds the listing query: active cars only, the present filters
// ANDed together, newest first. Case-insensitive matches go through
// LOWER() LIKE so the predicate behaves the same on every backend.
func Apply(db *gorm.DB, p Params) *gorm.DB {
	tx := db.Where("is_active = ?", true)

	if p.Condition != "" {
		tx = tx.Where("condition = ?", p.Condition)
	}
	if p.Brand != "" {
		tx = tx.Where("brand = ?", p.Brand)
	}
	if p.MinPrice != "" {
		if v, err := strconv.ParseFloat(p.MinPrice, 64); err == nil {
			tx = tx.Where("price >= ?", v)
		}
	}
	if p.MaxPrice != "" {
		if v, err := strconv.ParseFloat(p.MaxPrice, 64); err == nil {
			tx = tx.Where("price <= ?", v)
		}
	}
	if p.City != "" {
		tx = tx.Where("LOWER(city) LIKE ?", contains(p.City))
	}
	if p.Search != "" {
		s := contains(p.Search)
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(model) LIKE ?", s, s, s)
	}

	return tx.Order("created_at DESC")
}

func contains(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawProduct mirrors a product row as stored. Any column may be NULL.
type RawProduct struct {
	ID          string
	Name        *string
	Description *string
	Price       decimal.NullDecimal
	CategoryID  *string
	ImageURL    *string
	Stock       *int
	IsActive    *bool
	Tags        []string
	CreatedAt   *time.Time
	UpdatedAt   *time.Time
}

// Product is the normalized catalog product handed to callers.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  string          `json:"categoryId,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Stock       int             `json:"stock"`
	IsActive    bool            `json:"isActive"`
	Tags        []string        `json:"tags"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// NormalizeProduct is the only place product defaults are decided. Missing
// text becomes empty, a missing price is zero and a missing active flag
// means active.
func NormalizeProduct(r RawProduct) Product {
	p := Product{
		ID:          r.ID,
		Name:        deref(r.Name, ""),
		Description: deref(r.Description, ""),
		CategoryID:  deref(r.CategoryID, ""),
		ImageURL:    deref(r.ImageURL, ""),
		Stock:       deref(r.Stock, 0),
		IsActive:    deref(r.IsActive, true),
		Tags:        append([]string{}, r.Tags...),
		CreatedAt:   deref(r.CreatedAt, time.Time{}),
		UpdatedAt:   deref(r.UpdatedAt, time.Time{}),
	}
	if r.Price.Valid {
		p.Price = r.Price.Decimal
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	return p
}

// RawCategory mirrors a category row as stored.
type RawCategory struct {
	ID          string
	Name        *string
	Description *string
	ParentID    *string
	SortOrder   *int
	IsActive    *bool
}

// Category is the normalized catalog category.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    string `json:"parentId,omitempty"`
	SortOrder   int    `json:"sortOrder"`
	IsActive    bool   `json:"isActive"`
}

// NormalizeCategory applies the category defaults.
func NormalizeCategory(r RawCategory) Category {
	return Category{
		ID:          r.ID,
		Name:        deref(r.Name, ""),
		Description: deref(r.Description, ""),
		ParentID:    deref(r.ParentID, ""),
		SortOrder:   deref(r.SortOrder, 0),
		IsActive:    deref(r.IsActive, true),
	}
}

// ProductFilter narrows catalog listings. Zero values do not filter.
type ProductFilter struct {
	CategoryID string `json:"categoryId,omitempty"`
	Search     string `json:"search,omitempty"`
	ActiveOnly bool   `json:"activeOnly,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category is the fixed set of craft categories sold in the store.
type Category string

const (
	CategoryThaalis Category = "thaalis"
	CategoryLoataas Category = "loataas"
	CategoryDiyaas  Category = "diyaas"
	CategoryCrafts  Category = "crafts"
)

// Categories lists all valid categories in display order.
func Categories() []Category {
	return []Category{CategoryThaalis, CategoryLoataas, CategoryDiyaas, CategoryCrafts}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryThaalis, CategoryLoataas, CategoryDiyaas, CategoryCrafts:
		return true
	}
	return false
}

// ParseCategory converts a raw string into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

var (
	ErrInvalidCategory = errors.New("product category is not a known category")
	ErrNegativePrice   = errors.New("product price must not be negative")
	ErrNegativeStock   = errors.New("product stock must not be negative")
)

// Product represents a product in the catalog. ImageBase64 is an opaque
// encoded blob supplied by the admin; this service never decodes it.
type Product struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Category    Category        `json:"category" db:"category"`
	ImageBase64 string          `json:"imageBase64" db:"image_base64"`
	Stock       int             `json:"stock" db:"stock"`
	Rating      float64         `json:"rating,omitempty" db:"rating"`
	ReviewCount int             `json:"reviewCount,omitempty" db:"review_count"`
	Featured    bool            `json:"featured,omitempty" db:"featured"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

// Validate checks the invariants every stored product must satisfy. Records
// read from the store that fail this check are quarantined rather than served.
func (p *Product) Validate() error {
	if !p.Category.Valid() {
		return ErrInvalidCategory
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	if p.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}

// InsertProduct is the admin-supplied payload for creating a product.
// ID and timestamps are assigned by the store.
type InsertProduct struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category"`
	ImageBase64 string          `json:"imageBase64"`
	Stock       int             `json:"stock"`
	Rating      float64         `json:"rating,omitempty"`
	ReviewCount int             `json:"reviewCount,omitempty"`
	Featured    bool            `json:"featured,omitempty"`
}

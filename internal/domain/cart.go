package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is one line of a session cart. Price, name, image, and stock are
// snapshots taken when the product was first added; Stock only caps the
// quantity controls and is not reconciled against later catalog edits.
type CartItem struct {
	ProductID   uuid.UUID       `json:"productId"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	ImageBase64 string          `json:"imageBase64"`
	Stock       int             `json:"stock"`
}

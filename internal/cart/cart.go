// Package cart holds the session cart state machine and its session-scoped
// storage. A cart is mutated by exactly one writer (the owning session);
// stores only serialize whole-cart load/save, never concurrent line edits.
package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"aipan-bazaar/internal/domain"
)

// Cart is the per-session line-item state. The Open flag is the cart drawer
// visibility; it shares the cart's lifecycle but carries no purchase meaning.
type Cart struct {
	Items []domain.CartItem `json:"items"`
	Open  bool              `json:"open"`
}

// New returns an empty, closed cart.
func New() *Cart {
	return &Cart{Items: []domain.CartItem{}}
}

func (c *Cart) find(productID uuid.UUID) *domain.CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// AddItem adds one unit of the product. An existing line is incremented,
// capped at the stock snapshot taken when the line was created; a new line
// starts at quantity 1 with fresh price/name/image/stock snapshots.
// It reports whether the cart changed.
func (c *Cart) AddItem(p *domain.Product) bool {
	if item := c.find(p.ID); item != nil {
		if item.Quantity >= item.Stock {
			return false
		}
		item.Quantity++
		return true
	}
	if p.Stock < 1 {
		return false
	}
	c.Items = append(c.Items, domain.CartItem{
		ProductID:   p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Quantity:    1,
		ImageBase64: p.ImageBase64,
		Stock:       p.Stock,
	})
	return true
}

// UpdateQuantity sets the line's quantity, clamped to [1, stock snapshot].
// Going to zero is not a removal; RemoveItem is the explicit operation for
// that. Returns the applied quantity, or 0 when the line does not exist.
func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int) int {
	item := c.find(productID)
	if item == nil {
		return 0
	}
	if quantity < 1 {
		quantity = 1
	}
	if quantity > item.Stock {
		quantity = item.Stock
	}
	item.Quantity = quantity
	return quantity
}

// RemoveItem deletes the line unconditionally. Absent lines are a no-op.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Clear empties all lines. Called after a successful checkout.
func (c *Cart) Clear() {
	c.Items = c.Items[:0]
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalItems is the sum of quantities across lines (the cart badge counter).
func (c *Cart) TotalItems() int {
	total := 0
	for i := range c.Items {
		total += c.Items[i].Quantity
	}
	return total
}

// TotalPrice is the sum of price x quantity across lines.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Items {
		line := c.Items[i].Price.Mul(decimal.NewFromInt(int64(c.Items[i].Quantity)))
		total = total.Add(line)
	}
	return total
}

package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus tracks the fulfillment state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// ParseOrderStatus converts a raw string into an OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return st, nil
}

// OrderItem is one line of an order: a frozen copy of the product data at the
// moment of placement, not a live reference.
type OrderItem struct {
	ProductID   uuid.UUID       `json:"productId"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	ImageBase64 string          `json:"imageBase64"`
}

// Order is a placed order. Items and TotalAmount are immutable snapshots;
// only Status changes after placement, and only by admin action.
type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	UserID          string          `json:"userId" db:"user_id"`
	CustomerName    string          `json:"customerName" db:"customer_name"`
	CustomerEmail   string          `json:"customerEmail" db:"customer_email"`
	CustomerPhone   string          `json:"customerPhone,omitempty" db:"customer_phone"`
	ShippingAddress string          `json:"shippingAddress" db:"shipping_address"`
	Items           []OrderItem     `json:"items" db:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount" db:"total_amount"`
	Status          OrderStatus     `json:"status" db:"status"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"aipan-bazaar/internal/cart"
	"aipan-bazaar/internal/domain"
	"aipan-bazaar/internal/repository"
)

// Shipping policy constants. Orders at or above the threshold ship free;
// everything below pays the flat fee. Fixed policy, not configuration.
var (
	FreeShippingThreshold = decimal.NewFromInt(1000)
	StandardShippingFee   = decimal.NewFromInt(100)
)

var (
	ErrEmptyCart             = errors.New("cart is empty")
	ErrNotAuthenticated      = errors.New("checkout requires an authenticated user")
	ErrCheckoutInProgress    = errors.New("a checkout submission is already in progress for this session")
	ErrMissingRequiredFields = errors.New("customer name, email, and shipping address are required")
	ErrInvalidEmail          = errors.New("customer email is not a valid email address")
)

// Matches the storefront's local@domain.tld shape; anything stricter rejects
// addresses the identity provider accepts.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ShippingFee computes the fee owed for a given subtotal.
func ShippingFee(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		return decimal.Zero
	}
	return StandardShippingFee
}

// CheckoutRequest carries the customer-entered contact and shipping fields.
type CheckoutRequest struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress string
}

// CheckoutResult reports the placed order and its pricing breakdown.
type CheckoutResult struct {
	OrderID     uuid.UUID
	Subtotal    decimal.Decimal
	ShippingFee decimal.Decimal
	Total       decimal.Decimal
}

// CheckoutService orchestrates order placement: validation, pricing, order
// assembly, submission, and clearing the cart on success.
type CheckoutService interface {
	Submit(ctx context.Context, sessionID string, user *domain.User, req CheckoutRequest) (*CheckoutResult, error)
}

type checkoutService struct {
	orders repository.OrderRepository
	carts  cart.Store
	locks  SubmitLocker
	logger *zap.Logger
}

// NewCheckoutService creates a new instance of CheckoutService
func NewCheckoutService(
	orders repository.OrderRepository,
	carts cart.Store,
	locks SubmitLocker,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutService{
		orders: orders,
		carts:  carts,
		locks:  locks,
		logger: logger,
	}
}

// Submit runs one checkout attempt. Validation strictly precedes submission,
// and the cart is cleared only after the order is persisted; every failure
// leaves the cart intact so the user can retry without re-entering items.
func (s *checkoutService) Submit(ctx context.Context, sessionID string, user *domain.User, req CheckoutRequest) (*CheckoutResult, error) {
	if user == nil || user.ID == "" {
		return nil, ErrNotAuthenticated
	}

	c, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	if err := validateCheckout(&req); err != nil {
		return nil, err
	}

	acquired, err := s.locks.Acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrCheckoutInProgress
	}
	defer func() {
		if err := s.locks.Release(ctx, sessionID); err != nil {
			s.logger.Warn("Failed to release submit lock",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
		}
	}()

	subtotal := c.TotalPrice()
	fee := ShippingFee(subtotal)
	total := subtotal.Add(fee)

	now := time.Now()
	order := &domain.Order{
		ID:              uuid.New(),
		UserID:          user.ID,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerEmail:   strings.TrimSpace(req.CustomerEmail),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		ShippingAddress: strings.TrimSpace(req.ShippingAddress),
		Items:           snapshotItems(c),
		TotalAmount:     total,
		Status:          domain.OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	// Cart-clear strictly follows submission success. If the clear itself
	// fails the order still stands, so the failure is logged, not returned.
	if err := s.carts.Delete(ctx, sessionID); err != nil {
		s.logger.Warn("Order placed but cart could not be cleared",
			zap.String("session_id", sessionID),
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", user.ID),
		zap.String("total", total.String()),
	)

	return &CheckoutResult{
		OrderID:     order.ID,
		Subtotal:    subtotal,
		ShippingFee: fee,
		Total:       total,
	}, nil
}

func validateCheckout(req *CheckoutRequest) error {
	if strings.TrimSpace(req.CustomerName) == "" ||
		strings.TrimSpace(req.CustomerEmail) == "" ||
		strings.TrimSpace(req.ShippingAddress) == "" {
		return ErrMissingRequiredFields
	}

	if !emailPattern.MatchString(strings.TrimSpace(req.CustomerEmail)) {
		return ErrInvalidEmail
	}

	return nil
}

// snapshotItems freezes the cart lines into order lines. The stock snapshot
// stays behind: it only ever capped the quantity controls.
func snapshotItems(c *cart.Cart) []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(c.Items))
	for _, line := range c.Items {
		items = append(items, domain.OrderItem{
			ProductID:   line.ProductID,
			Name:        line.Name,
			Price:       line.Price,
			Quantity:    line.Quantity,
			ImageBase64: line.ImageBase64,
		})
	}
	return items
}

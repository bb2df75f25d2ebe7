package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"aipan-bazaar/internal/cart"
	"aipan-bazaar/internal/repository"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
)

// CartService applies cart operations with load-modify-save against the
// session store. The session is the single logical writer; the store only
// serializes whole-cart persistence.
type CartService interface {
	Get(ctx context.Context, sessionID string) (*cart.Cart, error)
	AddItem(ctx context.Context, sessionID string, productID uuid.UUID) (*cart.Cart, error)
	UpdateQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*cart.Cart, error)
	RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*cart.Cart, error)
	Clear(ctx context.Context, sessionID string) error
	SetOpen(ctx context.Context, sessionID string, open bool) (*cart.Cart, error)
}

type cartService struct {
	carts    cart.Store
	products repository.ProductRepository
}

// NewCartService creates a new instance of CartService
func NewCartService(carts cart.Store, products repository.ProductRepository) CartService {
	return &cartService{carts: carts, products: products}
}

// Get loads the session's cart, which may be empty.
func (s *cartService) Get(ctx context.Context, sessionID string) (*cart.Cart, error) {
	return s.carts.Load(ctx, sessionID)
}

// AddItem snapshots the product into the cart, or increments an existing
// line up to its stock snapshot. An at-cap add is a no-op, not an error.
func (s *cartService) AddItem(ctx context.Context, sessionID string, productID uuid.UUID) (*cart.Cart, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	c, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if changed := c.AddItem(product); changed {
		if err := s.carts.Save(ctx, sessionID, c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// UpdateQuantity sets a line's quantity, clamped to [1, stock snapshot].
func (s *cartService) UpdateQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*cart.Cart, error) {
	c, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if applied := c.UpdateQuantity(productID, quantity); applied == 0 {
		return nil, fmt.Errorf("product %s: %w", productID, ErrCartItemNotFound)
	}

	if err := s.carts.Save(ctx, sessionID, c); err != nil {
		return nil, err
	}

	return c, nil
}

// RemoveItem deletes a line unconditionally; removing an absent line is fine.
func (s *cartService) RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*cart.Cart, error) {
	c, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c.RemoveItem(productID)

	if err := s.carts.Save(ctx, sessionID, c); err != nil {
		return nil, err
	}

	return c, nil
}

// Clear discards the session's cart entirely.
func (s *cartService) Clear(ctx context.Context, sessionID string) error {
	return s.carts.Delete(ctx, sessionID)
}

// SetOpen toggles the cart drawer visibility flag.
func (s *cartService) SetOpen(ctx context.Context, sessionID string, open bool) (*cart.Cart, error) {
	c, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c.Open = open

	if err := s.carts.Save(ctx, sessionID, c); err != nil {
		return nil, err
	}

	return c, nil
}

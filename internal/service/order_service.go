package service

import (
	"context"

	"github.com/google/uuid"

	"aipan-bazaar/internal/domain"
	"aipan-bazaar/internal/repository"
)

// OrderService is the query and admin surface over placed orders.
// Order creation goes through CheckoutService, never through here.
type OrderService interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	ListUserOrders(ctx context.Context, userID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
}

type orderService struct {
	orders repository.OrderRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orders repository.OrderRepository) OrderService {
	return &orderService{orders: orders}
}

// ListOrders retrieves all orders, newest first (admin view)
func (s *orderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.List(ctx)
}

// ListUserOrders retrieves one user's orders, newest first
func (s *orderService) ListUserOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// UpdateStatus changes an order's fulfillment status (admin action)
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	return s.orders.UpdateStatus(ctx, id, status)
}

package transport

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"aipan-bazaar/internal/domain"
	"aipan-bazaar/internal/middleware"
	"aipan-bazaar/internal/repository"
	"aipan-bazaar/internal/service"
)

// UpdateOrderStatusRequest is the admin payload for a status change
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending shipped delivered cancelled"`
}

// OrderListResponse wraps an order listing
type OrderListResponse struct {
	Orders []domain.Order `json:"orders"`
}

// OrderHandler handles HTTP requests for order queries and admin updates
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(authMiddleware)

		// Any authenticated user can see their own orders
		r.Get("/mine", h.ListMine)

		// Admin order management
		r.Group(func(r chi.Router) {
			r.Use(adminMiddleware)
			r.Get("/", h.List)
			r.Patch("/{id}/status", h.UpdateStatus)
		})
	})
}

// List returns all orders, newest first (admin view)
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListOrders(r.Context())
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, OrderListResponse{Orders: orders})
}

// ListMine returns the authenticated user's orders, newest first
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	orders, err := h.orderService.ListUserOrders(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("Failed to list user orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, OrderListResponse{Orders: orders})
}

// UpdateStatus changes an order's fulfillment status (admin action)
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req UpdateOrderStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Order status validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "unknown order status")
		return
	}

	if err := h.orderService.UpdateStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("Failed to update order status", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update order status")
		return
	}

	h.logger.Info("Order status updated",
		zap.String("order_id", id.String()),
		zap.String("status", string(status)),
	)
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "order status updated"})
}

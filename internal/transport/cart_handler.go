package transport

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"aipan-bazaar/internal/cart"
	"aipan-bazaar/internal/domain"
	"aipan-bazaar/internal/middleware"
	"aipan-bazaar/internal/repository"
	"aipan-bazaar/internal/service"
)

// AddCartItemRequest identifies the product to add one unit of
type AddCartItemRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
}

// UpdateCartItemRequest carries the requested quantity; the store clamps it
// to the line's valid range.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartResponse is the session cart with its derived totals
type CartResponse struct {
	Items      []domain.CartItem `json:"items"`
	TotalItems int               `json:"totalItems"`
	TotalPrice decimal.Decimal   `json:"totalPrice"`
	Open       bool              `json:"open"`
}

func newCartResponse(c *cart.Cart) CartResponse {
	return CartResponse{
		Items:      c.Items,
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
		Open:       c.Open,
	}
}

// CartHandler handles HTTP requests for session cart operations
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router, sessionMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Use(sessionMiddleware)
		r.Get("/", h.Get)
		r.Delete("/", h.Clear)
		r.Post("/items", h.AddItem)
		r.Put("/items/{productID}", h.UpdateQuantity)
		r.Delete("/items/{productID}", h.RemoveItem)
		r.Post("/open", h.Open)
		r.Post("/close", h.Close)
	})
}

func (h *CartHandler) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		h.logger.Error("Session ID not found in context")
		middleware.RespondWithError(w, http.StatusInternalServerError, "missing session")
		return "", false
	}
	return sessionID, true
}

// Get returns the session's cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	c, err := h.cartService.Get(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("Failed to load cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newCartResponse(c))
}

// AddItem adds one unit of a product to the cart
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req AddCartItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Add to cart validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	c, err := h.cartService.AddItem(r.Context(), sessionID, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to add cart item", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add item to cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newCartResponse(c))
}

// UpdateQuantity sets a line's quantity, clamped to its valid range
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req UpdateCartItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Cart quantity validation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.cartService.UpdateQuantity(r.Context(), sessionID, productID, req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "cart item not found")
			return
		}
		h.logger.Error("Failed to update cart quantity", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newCartResponse(c))
}

// RemoveItem deletes a line from the cart
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	c, err := h.cartService.RemoveItem(r.Context(), sessionID, productID)
	if err != nil {
		h.logger.Error("Failed to remove cart item", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newCartResponse(c))
}

// Clear empties the session's cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	if err := h.cartService.Clear(r.Context(), sessionID); err != nil {
		h.logger.Error("Failed to clear cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "cart cleared"})
}

// Open marks the cart drawer visible
func (h *CartHandler) Open(w http.ResponseWriter, r *http.Request) {
	h.setOpen(w, r, true)
}

// Close marks the cart drawer hidden
func (h *CartHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.setOpen(w, r, false)
}

func (h *CartHandler) setOpen(w http.ResponseWriter, r *http.Request, open bool) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	c, err := h.cartService.SetOpen(r.Context(), sessionID, open)
	if err != nil {
		h.logger.Error("Failed to toggle cart visibility", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newCartResponse(c))
}

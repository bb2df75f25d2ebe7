package transport

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"aipan-bazaar/internal/middleware"
	"aipan-bazaar/internal/repository"
	"aipan-bazaar/internal/service"
)

// CheckoutRequest carries the customer contact and shipping fields.
// The email shape check lives in the checkout service, not in tags, so the
// transport and the orchestrator cannot disagree about what is valid.
type CheckoutRequest struct {
	CustomerName    string `json:"customerName" validate:"required"`
	CustomerEmail   string `json:"customerEmail" validate:"required"`
	CustomerPhone   string `json:"customerPhone,omitempty"`
	ShippingAddress string `json:"shippingAddress" validate:"required"`
}

// CheckoutResponse reports the placed order and its pricing breakdown
type CheckoutResponse struct {
	OrderID     string          `json:"orderId"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shippingFee"`
	Total       decimal.Decimal `json:"total"`
	Status      string          `json:"status"`
}

// CheckoutHandler handles HTTP requests for order placement
type CheckoutHandler struct {
	checkoutService service.CheckoutService
	logger          *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService service.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		logger:          logger,
	}
}

// RegisterRoutes registers the checkout route. Submission requires an
// authenticated identity; an anonymous submit gets 401 so the client can
// surface its sign-in prompt and retry without losing the cart.
func (h *CheckoutHandler) RegisterRoutes(r chi.Router, sessionMiddleware, authMiddleware, rateLimitMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(sessionMiddleware)
		r.Use(authMiddleware)
		r.Use(rateLimitMiddleware)
		r.Post("/api/checkout", h.Submit)
	})
}

// Submit handles one checkout attempt
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		h.logger.Error("Session ID not found in context")
		middleware.RespondWithError(w, http.StatusInternalServerError, "missing session")
		return
	}

	user, ok := middleware.GetUser(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req CheckoutRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Checkout validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.checkoutService.Submit(r.Context(), sessionID, user, service.CheckoutRequest{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			middleware.RespondWithError(w, http.StatusBadRequest, "cart is empty")
		case errors.Is(err, service.ErrMissingRequiredFields),
			errors.Is(err, service.ErrInvalidEmail):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNotAuthenticated):
			middleware.RespondWithError(w, http.StatusUnauthorized, "authentication required")
		case errors.Is(err, service.ErrCheckoutInProgress):
			middleware.RespondWithError(w, http.StatusConflict, "checkout already in progress")
		case errors.Is(err, repository.ErrInsufficientStock):
			middleware.RespondWithError(w, http.StatusConflict, "one or more items are no longer in stock")
		default:
			h.logger.Error("Checkout failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to place order, please try again")
		}
		return
	}

	h.logger.Info("Checkout complete",
		zap.String("order_id", result.OrderID.String()),
		zap.String("user_id", user.ID),
	)

	middleware.RespondWithJSON(w, http.StatusCreated, CheckoutResponse{
		OrderID:     result.OrderID.String(),
		Subtotal:    result.Subtotal,
		ShippingFee: result.ShippingFee,
		Total:       result.Total,
		Status:      "pending",
	})
}

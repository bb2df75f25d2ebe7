package transport

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"aipan-bazaar/internal/catalog"
	"aipan-bazaar/internal/domain"
	"aipan-bazaar/internal/middleware"
	"aipan-bazaar/internal/repository"
	"aipan-bazaar/internal/service"
)

// CreateProductRequest is the admin payload for a new product
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category" validate:"required,oneof=thaalis loataas diyaas crafts"`
	ImageBase64 string          `json:"imageBase64" validate:"required"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Rating      float64         `json:"rating,omitempty"`
	ReviewCount int             `json:"reviewCount,omitempty"`
	Featured    bool            `json:"featured,omitempty"`
}

// UpdateProductRequest is a partial admin edit; absent fields stay unchanged
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Category    *string          `json:"category,omitempty" validate:"omitempty,oneof=thaalis loataas diyaas crafts"`
	ImageBase64 *string          `json:"imageBase64,omitempty"`
	Stock       *int             `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Rating      *float64         `json:"rating,omitempty"`
	ReviewCount *int             `json:"reviewCount,omitempty"`
	Featured    *bool            `json:"featured,omitempty"`
}

// ProductListResponse is one window of the browsing pipeline
type ProductListResponse struct {
	Products    []domain.Product `json:"products"`
	Total       int              `json:"total"`
	HasMore     bool             `json:"hasMore"`
	EmptyReason string           `json:"emptyReason,omitempty"`
}

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalogService service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		// Public browsing routes
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		// Admin catalog management
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(adminMiddleware)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// List handles catalog browsing with category, search, sort, and windowing
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	query := catalog.Query{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
		Sort:     catalog.ParseSortKey(r.URL.Query().Get("sort")),
	}

	if query.Category != "" && query.Category != catalog.CategoryAll {
		if _, err := domain.ParseCategory(query.Category); err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "unknown category")
			return
		}
	}

	visibleCount := catalog.PageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		visibleCount = parsed
	}

	view, err := h.catalogService.Browse(r.Context(), query, visibleCount)
	if err != nil {
		h.logger.Error("Failed to browse catalog", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to fetch products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{
		Products:    view.Products,
		Total:       view.Total,
		HasMore:     view.HasMore,
		EmptyReason: string(view.EmptyReason),
	})
}

// Get handles fetching a single product by ID
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	product, err := h.catalogService.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Create handles admin product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product creation validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	insert := &domain.InsertProduct{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    domain.Category(req.Category),
		ImageBase64: req.ImageBase64,
		Stock:       req.Stock,
		Rating:      req.Rating,
		ReviewCount: req.ReviewCount,
		Featured:    req.Featured,
	}

	product, err := h.catalogService.CreateProduct(r.Context(), insert)
	if err != nil {
		if errors.Is(err, domain.ErrNegativePrice) || errors.Is(err, domain.ErrInvalidCategory) {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to create product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Update handles admin partial product edits
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req UpdateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product update validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	update := &service.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageBase64: req.ImageBase64,
		Stock:       req.Stock,
		Rating:      req.Rating,
		ReviewCount: req.ReviewCount,
		Featured:    req.Featured,
	}
	if req.Category != nil {
		category := domain.Category(*req.Category)
		update.Category = &category
	}

	product, err := h.catalogService.UpdateProduct(r.Context(), id, update)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		if errors.Is(err, domain.ErrNegativePrice) || errors.Is(err, domain.ErrNegativeStock) {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to update product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		return
	}

	h.logger.Info("Product updated", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete handles admin product removal
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := h.catalogService.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

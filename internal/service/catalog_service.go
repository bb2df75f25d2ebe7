package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"aipan-bazaar/internal/catalog"
	"aipan-bazaar/internal/domain"
	"aipan-bazaar/internal/repository"
)

// ProductUpdate carries a partial admin edit; nil fields are left unchanged.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Category    *domain.Category
	ImageBase64 *string
	Stock       *int
	Rating      *float64
	ReviewCount *int
	Featured    *bool
}

// CatalogService is the browsing and admin surface over the product store.
type CatalogService interface {
	Browse(ctx context.Context, query catalog.Query, visibleCount int) (catalog.View, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	CreateProduct(ctx context.Context, insert *domain.InsertProduct) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, update *ProductUpdate) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	products repository.ProductRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(products repository.ProductRepository) CatalogService {
	return &catalogService{products: products}
}

// Browse fetches the relevant products (all, or one category) and runs the
// filter/sort/window pipeline over them.
func (s *catalogService) Browse(ctx context.Context, query catalog.Query, visibleCount int) (catalog.View, error) {
	var (
		products []domain.Product
		err      error
	)

	if query.Category != "" && query.Category != catalog.CategoryAll {
		category, perr := domain.ParseCategory(query.Category)
		if perr != nil {
			return catalog.View{}, perr
		}
		products, err = s.products.ListByCategory(ctx, category)
	} else {
		products, err = s.products.List(ctx)
	}
	if err != nil {
		return catalog.View{}, fmt.Errorf("failed to fetch catalog: %w", err)
	}

	return catalog.Render(products, query, visibleCount), nil
}

// GetProduct retrieves one product by ID
func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

// CreateProduct persists an admin-supplied product, assigning its identity
// and timestamps.
func (s *catalogService) CreateProduct(ctx context.Context, insert *domain.InsertProduct) (*domain.Product, error) {
	now := time.Now()
	product := &domain.Product{
		ID:          uuid.New(),
		Name:        insert.Name,
		Description: insert.Description,
		Price:       insert.Price,
		Category:    insert.Category,
		ImageBase64: insert.ImageBase64,
		Stock:       insert.Stock,
		Rating:      insert.Rating,
		ReviewCount: insert.ReviewCount,
		Featured:    insert.Featured,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// UpdateProduct applies a partial edit on top of the stored product.
func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, update *ProductUpdate) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		product.Name = *update.Name
	}
	if update.Description != nil {
		product.Description = *update.Description
	}
	if update.Price != nil {
		product.Price = *update.Price
	}
	if update.Category != nil {
		product.Category = *update.Category
	}
	if update.ImageBase64 != nil {
		product.ImageBase64 = *update.ImageBase64
	}
	if update.Stock != nil {
		product.Stock = *update.Stock
	}
	if update.Rating != nil {
		product.Rating = *update.Rating
	}
	if update.ReviewCount != nil {
		product.ReviewCount = *update.ReviewCount
	}
	if update.Featured != nil {
		product.Featured = *update.Featured
	}
	product.UpdatedAt = time.Now()

	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteProduct removes a product from the catalog
func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.products.Delete(ctx, id)
}

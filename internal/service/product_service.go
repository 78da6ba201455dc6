package service

import (
	"context"
	"time"

	"shoekart/internal/domain"
	"shoekart/internal/repository"

	"github.com/google/uuid"
)

// ProductInput carries the fields an admin may set on a product.
type ProductInput struct {
	Name        string
	Description string
	PriceCents  int64
	ImageURL    string
	Stock       int
}

// BrowseParams are the catalog browsing controls.
type BrowseParams struct {
	Query     string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder repository.SortOrder
}

// ProductService defines the interface for catalog business logic. Browse
// and Get serve the storefront; the mutations are admin-only and gated at
// the transport layer.
type ProductService interface {
	Browse(ctx context.Context, params BrowseParams) ([]*domain.Product, int, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

// Browse lists the catalog with an optional name filter.
func (s *productService) Browse(ctx context.Context, params BrowseParams) ([]*domain.Product, int, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}
	return s.productRepo.List(ctx, params.Query, params.Page, params.PageSize, params.SortBy, params.SortOrder)
}

// Get retrieves a single product.
func (s *productService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// Create adds a product to the catalog.
func (s *productService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	product := &domain.Product{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		PriceCents:  input.PriceCents,
		ImageURL:    input.ImageURL,
		Stock:       input.Stock,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Update replaces a product's attributes.
func (s *productService) Update(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.PriceCents = input.PriceCents
	product.ImageURL = input.ImageURL
	product.Stock = input.Stock
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Delete removes a product from the catalog.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

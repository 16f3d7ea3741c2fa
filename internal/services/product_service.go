package services

import (
	"context"
	"errors"
	"fmt"

	"pasar/internal/apperror"
	"pasar/internal/auth"
	"pasar/internal/logging"
	"pasar/internal/models"
	"pasar/internal/repositories"
)

const msgProductNotFound = "Product not found"

// ProductInput carries the writable fields of a product.
type ProductInput struct {
	StallID     string  `json:"stall_id" validate:"required"`
	Name        string  `json:"name" validate:"required,min=3,max=100"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	IsWholesale bool    `json:"is_wholesale"`
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo   repositories.ProductRepository
	stalls repositories.StallRepository
	log    logging.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, stalls repositories.StallRepository, log logging.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		stalls: stalls,
		log:    log.With("component", "product_service"),
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, storeFailure(ctx, s.log, "list_products", err)
	}
	return products, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(ctx, s.log, "get_product", err, msgProductNotFound)
	}
	return product, nil
}

// GetProductByName retrieves the first product listed under name.
func (s *ProductService) GetProductByName(ctx context.Context, name string) (*models.Product, error) {
	if name == "" {
		return nil, apperror.BadRequest("Product name is required")
	}
	product, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, lookupError(ctx, s.log, "get_product_by_name", err, fmt.Sprintf("Product with name %q not found", name))
	}
	return product, nil
}

// CreateProduct lists a new product in a stall. New products wait for
// moderation in PENDING.
func (s *ProductService) CreateProduct(ctx context.Context, caller auth.Claims, in ProductInput) (*models.Product, error) {
	if _, err := s.stalls.GetByID(ctx, in.StallID); err != nil {
		return nil, lookupError(ctx, s.log, "create_product", err, msgStallNotFound)
	}
	if err := s.ensureNameFree(ctx, in.StallID, in.Name, ""); err != nil {
		return nil, err
	}

	product := &models.Product{
		StallID:     in.StallID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		IsWholesale: in.IsWholesale,
		Status:      models.ProductPending,
		CreatedByID: caller.Subject,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, storeFailure(ctx, s.log, "create_product", err)
	}
	return product, nil
}

// UpdateProduct replaces the editable fields of a product. The moderation
// status is kept.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	product, err := s.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.StallID != product.StallID {
		if _, err := s.stalls.GetByID(ctx, in.StallID); err != nil {
			return nil, lookupError(ctx, s.log, "update_product", err, msgStallNotFound)
		}
	}
	if err := s.ensureNameFree(ctx, in.StallID, in.Name, id); err != nil {
		return nil, err
	}

	product.StallID = in.StallID
	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.Stock = in.Stock
	product.IsWholesale = in.IsWholesale
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, lookupError(ctx, s.log, "update_product", err, msgProductNotFound)
	}
	return product, nil
}

// UpdateStatus moves a product through moderation.
func (s *ProductService) UpdateStatus(ctx context.Context, id string, status models.ProductStatus) (*models.Product, error) {
	if !status.Valid() {
		return nil, apperror.BadRequest("Invalid product status")
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, lookupError(ctx, s.log, "update_product_status", err, msgProductNotFound)
	}
	return s.GetProductByID(ctx, id)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(ctx, s.log, "delete_product", err, msgProductNotFound)
	}
	return nil
}

// ensureNameFree fails with Conflict when another product of the stall
// already uses name. except is the id of the product being edited.
func (s *ProductService) ensureNameFree(ctx context.Context, stallID, name, except string) error {
	existing, err := s.repo.FindByNameInStall(ctx, stallID, name)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return nil
	case err != nil:
		return storeFailure(ctx, s.log, "find_product_by_name", err)
	case existing.ID == except:
		return nil
	default:
		return apperror.Conflict("product already exists")
	}
}

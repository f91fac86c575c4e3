package service

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"github.com/sangkips/gstbill-api/internal/domain/repository"
	"github.com/sangkips/gstbill-api/pkg/apperror"
	"github.com/sangkips/gstbill-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ProductService handles product catalog operations
type ProductService struct {
	productRepo repository.ProductRepository
	events      repository.EventPublisher
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository, events repository.EventPublisher) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		events:      events,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Name    string
	Price   decimal.Decimal
	Unit    string
	Packing string
	HSNCode string
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if input.Price.IsNegative() {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "price", Message: "must not be negative"}})
	}

	product := &entity.Product{
		Name:    strings.TrimSpace(input.Name),
		Price:   input.Price,
		Unit:    strings.TrimSpace(input.Unit),
		Packing: strings.TrimSpace(input.Packing),
		HSNCode: strings.TrimSpace(input.HSNCode),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.publish(ctx, entity.ActionCreated, product.ID)
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products whose name contains search
func (s *ProductService) ListProducts(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Product], error) {
	params.Validate()
	products, total, err := s.productRepo.List(ctx, params, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	ID      uuid.UUID
	Name    *string
	Price   *decimal.Decimal
	Unit    *string
	Packing *string
	HSNCode *string
}

// UpdateProduct updates a product. Lines already in a cart or a saved bill
// keep the values they were created with.
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "price", Message: "must not be negative"}})
		}
		product.Price = *input.Price
	}
	if input.Unit != nil {
		product.Unit = strings.TrimSpace(*input.Unit)
	}
	if input.Packing != nil {
		product.Packing = strings.TrimSpace(*input.Packing)
	}
	if input.HSNCode != nil {
		product.HSNCode = strings.TrimSpace(*input.HSNCode)
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.publish(ctx, entity.ActionUpdated, product.ID)
	return product, nil
}

// DeleteProduct deletes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, entity.ActionDeleted, id)
	return nil
}

func (s *ProductService) publish(ctx context.Context, action string, id uuid.UUID) {
	if err := s.events.Publish(ctx, entity.NewEvent(entity.TopicProducts, action, id.String())); err != nil {
		log.Printf("Warning: failed to publish products event: %v", err)
	}
}

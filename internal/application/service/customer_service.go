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
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
	events       repository.EventPublisher
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository, events repository.EventPublisher) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		events:       events,
	}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	Name  string
	City  string
	Phone *string
	GSTIN *string
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	customer := &entity.Customer{
		Name:  strings.TrimSpace(input.Name),
		City:  strings.TrimSpace(input.City),
		Phone: input.Phone,
		GSTIN: input.GSTIN,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.publish(ctx, entity.ActionCreated, customer.ID)
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers whose name or city contains search
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	params.Validate()
	customers, total, err := s.customerRepo.List(ctx, params, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// UpdateCustomerInput represents the update customer input
type UpdateCustomerInput struct {
	ID    uuid.UUID
	Name  *string
	City  *string
	Phone *string
	GSTIN *string
}

// UpdateCustomer updates a customer
func (s *CustomerService) UpdateCustomer(ctx context.Context, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	if input.Name != nil {
		customer.Name = strings.TrimSpace(*input.Name)
	}
	if input.City != nil {
		customer.City = strings.TrimSpace(*input.City)
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}
	if input.GSTIN != nil {
		customer.GSTIN = input.GSTIN
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	s.publish(ctx, entity.ActionUpdated, customer.ID)
	return customer, nil
}

// DeleteCustomer deletes a customer. Saved bills keep the name and city
// they were issued with.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}

	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, entity.ActionDeleted, id)
	return nil
}

func (s *CustomerService) publish(ctx context.Context, action string, id uuid.UUID) {
	if err := s.events.Publish(ctx, entity.NewEvent(entity.TopicCustomers, action, id.String())); err != nil {
		log.Printf("Warning: failed to publish customers event: %v", err)
	}
}

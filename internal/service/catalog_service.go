package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/agrimech/crm-service/internal/domain"
	"github.com/agrimech/crm-service/internal/repository"
	apperrors "github.com/agrimech/crm-service/pkg/util"
)

// CatalogService covers the product catalog and the customer directory.
type CatalogService struct {
	products  repository.ProductRepository
	customers repository.CustomerRepository
}

// CatalogDependencies bundles requirements for the catalog service.
type CatalogDependencies struct {
	ProductRepo  repository.ProductRepository
	CustomerRepo repository.CustomerRepository
}

// ProductInput describes a product create or update.
type ProductInput struct {
	Code       string
	Name       string
	Category   domain.ProductCategory
	Price      int64
	StockLevel int
	IsActive   bool
}

// CustomerInput describes a customer create or update.
type CustomerInput struct {
	Name       string
	Phone      string
	Email      string
	Address    string
	ShowroomID *string
}

// NewCatalogService constructs the service.
func NewCatalogService(deps CatalogDependencies) *CatalogService {
	return &CatalogService{
		products:  deps.ProductRepo,
		customers: deps.CustomerRepo,
	}
}

func (s *CatalogService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	if existing, err := s.products.GetByCode(ctx, input.Code); err == nil && existing != nil {
		return nil, apperrors.NewConflict("product code already in use", map[string]any{"code": input.Code})
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	product := &domain.Product{
		Code:       strings.TrimSpace(input.Code),
		Name:       strings.TrimSpace(input.Name),
		Category:   input.Category,
		Price:      input.Price,
		StockLevel: input.StockLevel,
		IsActive:   input.IsActive,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, apperrors.MapError(err)
	}
	return product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id string, input ProductInput) (*domain.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("product", map[string]any{"product_id": id})
		}
		return nil, apperrors.MapError(err)
	}

	product.Code = strings.TrimSpace(input.Code)
	product.Name = strings.TrimSpace(input.Name)
	product.Category = input.Category
	product.Price = input.Price
	product.StockLevel = input.StockLevel
	product.IsActive = input.IsActive
	if err := s.products.Update(ctx, product); err != nil {
		return nil, apperrors.MapError(err)
	}
	return product, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("product", map[string]any{"product_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return product, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, category *domain.ProductCategory, activeOnly bool, limit, offset int) ([]domain.Product, error) {
	products, err := s.products.List(ctx, category, activeOnly, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

func (s *CatalogService) CreateCustomer(ctx context.Context, input CustomerInput) (*domain.Customer, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("customer name required", nil)
	}
	customer := &domain.Customer{
		Name:       strings.TrimSpace(input.Name),
		Phone:      strings.TrimSpace(input.Phone),
		Email:      strings.TrimSpace(input.Email),
		Address:    input.Address,
		ShowroomID: input.ShowroomID,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

func (s *CatalogService) UpdateCustomer(ctx context.Context, id string, input CustomerInput) (*domain.Customer, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("customer name required", nil)
	}
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer", map[string]any{"customer_id": id})
		}
		return nil, apperrors.MapError(err)
	}

	customer.Name = strings.TrimSpace(input.Name)
	customer.Phone = strings.TrimSpace(input.Phone)
	customer.Email = strings.TrimSpace(input.Email)
	customer.Address = input.Address
	customer.ShowroomID = input.ShowroomID
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

func (s *CatalogService) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer", map[string]any{"customer_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

func (s *CatalogService) ListCustomers(ctx context.Context, showroomID *string, search string, limit, offset int) ([]domain.Customer, error) {
	customers, err := s.customers.List(ctx, showroomID, search, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if customers == nil {
		customers = []domain.Customer{}
	}
	return customers, nil
}

func validateProductInput(input ProductInput) error {
	details := map[string]any{}
	if strings.TrimSpace(input.Code) == "" {
		details["code"] = "required"
	}
	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "required"
	}
	if input.Price < 0 {
		details["price"] = "must not be negative"
	}
	if input.StockLevel < 0 {
		details["stock_level"] = "must not be negative"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid product payload", details)
	}
	return nil
}

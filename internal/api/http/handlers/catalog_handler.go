package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/agrimech/crm-service/internal/api/dto"
	"github.com/agrimech/crm-service/internal/domain"
	"github.com/agrimech/crm-service/internal/service"
	apperrors "github.com/agrimech/crm-service/pkg/util"
)

// CatalogHandler manages product and customer endpoints.
type CatalogHandler struct {
	service *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: catalogService}
}

// CreateProduct POST /products.
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	product, err := h.service.CreateProduct(c.UserContext(), productInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": productResponse(product)})
}

// UpdateProduct PUT /products/:id.
func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	product, err := h.service.UpdateProduct(c.UserContext(), c.Params("id"), productInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": productResponse(product)})
}

// GetProduct GET /products/:id.
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": productResponse(product)})
}

// ListProducts GET /products.
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	var category *domain.ProductCategory
	if categoryStr := c.Query("category"); categoryStr != "" {
		val := domain.ProductCategory(categoryStr)
		category = &val
	}
	activeOnly := c.QueryBool("active_only", false)
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)

	products, err := h.service.ListProducts(c.UserContext(), category, activeOnly, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, productResponse(&products[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateCustomer POST /customers.
func (h *CatalogHandler) CreateCustomer(c *fiber.Ctx) error {
	var req dto.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	customer, err := h.service.CreateCustomer(c.UserContext(), customerInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": customerResponse(customer)})
}

// UpdateCustomer PUT /customers/:id.
func (h *CatalogHandler) UpdateCustomer(c *fiber.Ctx) error {
	var req dto.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	customer, err := h.service.UpdateCustomer(c.UserContext(), c.Params("id"), customerInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": customerResponse(customer)})
}

// GetCustomer GET /customers/:id.
func (h *CatalogHandler) GetCustomer(c *fiber.Ctx) error {
	customer, err := h.service.GetCustomer(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": customerResponse(customer)})
}

// ListCustomers GET /customers.
func (h *CatalogHandler) ListCustomers(c *fiber.Ctx) error {
	var showroomID *string
	if showroom := c.Query("showroom_id"); showroom != "" {
		showroomID = &showroom
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)

	customers, err := h.service.ListCustomers(c.UserContext(), showroomID, c.Query("q"), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, customerResponse(&customers[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func productInput(req dto.ProductRequest) service.ProductInput {
	return service.ProductInput{
		Code:       req.Code,
		Name:       req.Name,
		Category:   req.Category,
		Price:      req.Price,
		StockLevel: req.StockLevel,
		IsActive:   req.IsActive,
	}
}

func productResponse(product *domain.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:         product.ID,
		Code:       product.Code,
		Name:       product.Name,
		Category:   product.Category,
		Price:      product.Price,
		StockLevel: product.StockLevel,
		IsActive:   product.IsActive,
		CreatedAt:  product.CreatedAt,
		UpdatedAt:  product.UpdatedAt,
	}
}

func customerInput(req dto.CustomerRequest) service.CustomerInput {
	return service.CustomerInput{
		Name:       req.Name,
		Phone:      req.Phone,
		Email:      req.Email,
		Address:    req.Address,
		ShowroomID: req.ShowroomID,
	}
}

func customerResponse(customer *domain.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:         customer.ID,
		Name:       customer.Name,
		Phone:      customer.Phone,
		Email:      customer.Email,
		Address:    customer.Address,
		ShowroomID: customer.ShowroomID,
		CreatedAt:  customer.CreatedAt,
		UpdatedAt:  customer.UpdatedAt,
	}
}

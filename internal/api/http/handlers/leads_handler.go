package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/agrimech/crm-service/internal/api/dto"
	"github.com/agrimech/crm-service/internal/domain"
	"github.com/agrimech/crm-service/internal/service"
	apperrors "github.com/agrimech/crm-service/pkg/util"
)

// LeadsHandler manages sales pipeline endpoints.
type LeadsHandler struct {
	service *service.LeadService
}

// NewLeadsHandler constructs handler.
func NewLeadsHandler(leadService *service.LeadService) *LeadsHandler {
	return &LeadsHandler{service: leadService}
}

// CreateLead POST /leads.
func (h *LeadsHandler) CreateLead(c *fiber.Ctx) error {
	var req dto.CreateLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	lead, err := h.service.CreateLead(c.UserContext(), service.LeadCreateInput{
		CustomerName:    req.CustomerName,
		Phone:           req.Phone,
		Source:          req.Source,
		ProductInterest: req.ProductInterest,
		ShowroomID:      req.ShowroomID,
		Notes:           req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": lead})
}

// UpdateLead PATCH /leads/:id.
func (h *LeadsHandler) UpdateLead(c *fiber.Ctx) error {
	var req dto.UpdateLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	lead, err := h.service.UpdateLead(c.UserContext(), c.Params("id"), service.LeadPatch{
		CustomerName:    req.CustomerName,
		Phone:           req.Phone,
		Source:          req.Source,
		Stage:           req.Stage,
		ProductInterest: req.ProductInterest,
		ShowroomID:      req.ShowroomID,
		Notes:           req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": lead})
}

// ListLeads GET /leads.
func (h *LeadsHandler) ListLeads(c *fiber.Ctx) error {
	var stage *domain.LeadStage
	if stageStr := c.Query("stage"); stageStr != "" {
		val := domain.LeadStage(stageStr)
		stage = &val
	}
	leads, err := h.service.ListLeads(c.UserContext(), stage)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": leads})
}

// ScheduleDemo POST /demos.
func (h *LeadsHandler) ScheduleDemo(c *fiber.Ctx) error {
	var req dto.ScheduleDemoRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, demo, err := h.service.ScheduleDemo(c.UserContext(), service.DemoRequest{
		LeadID:       req.LeadID,
		CustomerName: req.CustomerName,
		ProductID:    req.ProductID,
		ScheduledAt:  req.ScheduledAt,
		Location:     req.Location,
	})
	if err != nil {
		return err
	}
	body := fiber.Map{"result": dto.ServiceResultResponse{Success: result.Success, Message: result.Message}}
	if demo != nil {
		body["demo"] = demo
	}
	status := http.StatusCreated
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	return c.Status(status).JSON(fiber.Map{"data": body})
}

// ListDemos GET /demos.
func (h *LeadsHandler) ListDemos(c *fiber.Ctx) error {
	demos, err := h.service.ListDemos(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": demos})
}

// CheckStock POST /stock/check.
func (h *LeadsHandler) CheckStock(c *fiber.Ctx) error {
	var req dto.StockCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, err := h.service.CheckStockAvailability(c.UserContext(), req.ProductID, req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ServiceResultResponse{Success: result.Success, Message: result.Message}})
}

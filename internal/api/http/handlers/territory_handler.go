package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/agrimech/crm-service/internal/api/dto"
	"github.com/agrimech/crm-service/internal/domain"
	"github.com/agrimech/crm-service/internal/service"
	apperrors "github.com/agrimech/crm-service/pkg/util"
)

// TerritoryHandler administers the sales hierarchy rows.
type TerritoryHandler struct {
	service *service.TerritoryService
}

// NewTerritoryHandler constructs handler.
func NewTerritoryHandler(territoryService *service.TerritoryService) *TerritoryHandler {
	return &TerritoryHandler{service: territoryService}
}

// CreateRegion POST /regions.
func (h *TerritoryHandler) CreateRegion(c *fiber.Ctx) error {
	var req dto.RegionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	region, err := h.service.CreateRegion(c.UserContext(), regionInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": regionResponse(region)})
}

// UpdateRegion PUT /regions/:id.
func (h *TerritoryHandler) UpdateRegion(c *fiber.Ctx) error {
	var req dto.RegionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	region, err := h.service.UpdateRegion(c.UserContext(), c.Params("id"), regionInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": regionResponse(region)})
}

// DeleteRegion DELETE /regions/:id.
func (h *TerritoryHandler) DeleteRegion(c *fiber.Ctx) error {
	if err := h.service.DeleteRegion(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// GetRegion GET /regions/:id.
func (h *TerritoryHandler) GetRegion(c *fiber.Ctx) error {
	region, err := h.service.GetRegion(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": regionResponse(region)})
}

// ListRegions GET /regions.
func (h *TerritoryHandler) ListRegions(c *fiber.Ctx) error {
	regions, err := h.service.ListRegions(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.RegionResponse, 0, len(regions))
	for i := range regions {
		resp = append(resp, regionResponse(&regions[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// ListSubRegions GET /regions/:id/sub-regions.
func (h *TerritoryHandler) ListSubRegions(c *fiber.Ctx) error {
	subs, err := h.service.ListSubRegions(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	resp := make([]dto.SubRegionResponse, 0, len(subs))
	for _, sub := range subs {
		resp = append(resp, dto.SubRegionResponse{
			ID:                     sub.ID,
			RegionID:               sub.RegionID,
			Name:                   sub.Name,
			AnnualTarget:           sub.AnnualTarget,
			CurrentYearAchievement: sub.CurrentYearAchievement,
			LastYearRevenue:        sub.LastYearRevenue,
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// ListShowrooms GET /sub-regions/:id/showrooms.
func (h *TerritoryHandler) ListShowrooms(c *fiber.Ctx) error {
	showrooms, err := h.service.ListShowrooms(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	resp := make([]dto.ShowroomResponse, 0, len(showrooms))
	for _, showroom := range showrooms {
		resp = append(resp, dto.ShowroomResponse{
			ID:                     showroom.ID,
			SubRegionID:            showroom.SubRegionID,
			Name:                   showroom.Name,
			City:                   showroom.City,
			AnnualTarget:           showroom.AnnualTarget,
			CurrentYearAchievement: showroom.CurrentYearAchievement,
			LastYearRevenue:        showroom.LastYearRevenue,
			IsActive:               showroom.IsActive,
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

func regionInput(req dto.RegionRequest) service.RegionInput {
	return service.RegionInput{
		Name:                   req.Name,
		CurrentYearAchievement: req.CurrentYearAchievement,
		LastYearRevenue:        req.LastYearRevenue,
	}
}

func regionResponse(region *domain.RegionalZone) dto.RegionResponse {
	return dto.RegionResponse{
		ID:                     region.ID,
		Name:                   region.Name,
		AnnualTarget:           region.AnnualTarget,
		CurrentYearAchievement: region.CurrentYearAchievement,
		LastYearRevenue:        region.LastYearRevenue,
		CreatedAt:              region.CreatedAt,
		UpdatedAt:              region.UpdatedAt,
	}
}

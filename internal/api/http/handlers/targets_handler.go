package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agrimech/crm-service/internal/api/dto"
	"github.com/agrimech/crm-service/internal/service"
	apperrors "github.com/agrimech/crm-service/pkg/util"
)

// TargetsHandler manages target distribution endpoints.
type TargetsHandler struct {
	service *service.TargetService
}

// NewTargetsHandler constructs handler.
func NewTargetsHandler(targetService *service.TargetService) *TargetsHandler {
	return &TargetsHandler{service: targetService}
}

// Summary GET /targets.
func (h *TargetsHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summaryResponse(summary)})
}

// SetNationalTarget PUT /targets/national.
func (h *TargetsHandler) SetNationalTarget(c *fiber.Ctx) error {
	var req dto.SetNationalTargetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	summary, err := h.service.SetNationalTarget(c.UserContext(), actorID(c), req.Target)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summaryResponse(summary)})
}

// DistributeByPerformance POST /targets/national/distribute.
func (h *TargetsHandler) DistributeByPerformance(c *fiber.Ctx) error {
	var req dto.SetNationalTargetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	summary, err := h.service.DistributeByPerformance(c.UserContext(), actorID(c), req.Target)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summaryResponse(summary)})
}

// SetRegionTarget PUT /targets/regions/:id.
func (h *TargetsHandler) SetRegionTarget(c *fiber.Ctx) error {
	var req dto.SetLevelTargetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	summary, err := h.service.SetRegionTarget(c.UserContext(), actorID(c), c.Params("id"), req.Target)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summaryResponse(summary)})
}

// SetSubRegionTarget PUT /targets/sub-regions/:id.
func (h *TargetsHandler) SetSubRegionTarget(c *fiber.Ctx) error {
	var req dto.SetLevelTargetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.service.SetSubRegionTarget(c.UserContext(), c.Params("id"), req.Target); err != nil {
		return err
	}
	return h.Summary(c)
}

// SetShowroomTarget PUT /targets/showrooms/:id.
func (h *TargetsHandler) SetShowroomTarget(c *fiber.Ctx) error {
	var req dto.SetLevelTargetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.service.SetShowroomTarget(c.UserContext(), c.Params("id"), req.Target); err != nil {
		return err
	}
	return h.Summary(c)
}

// AutoBalanceRegion POST /targets/regions/:id/auto-balance.
func (h *TargetsHandler) AutoBalanceRegion(c *fiber.Ctx) error {
	if err := h.service.AutoBalanceRegion(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return h.Summary(c)
}

// AutoBalanceSubRegion POST /targets/sub-regions/:id/auto-balance.
func (h *TargetsHandler) AutoBalanceSubRegion(c *fiber.Ctx) error {
	if err := h.service.AutoBalanceSubRegion(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return h.Summary(c)
}

func summaryResponse(summary *service.DistributionSummary) dto.DistributionSummaryResponse {
	resp := dto.DistributionSummaryResponse{
		NationalTarget: summary.NationalTarget,
		Regions:        make([]dto.RegionAllocationResponse, 0, len(summary.Regions)),
	}
	for _, region := range summary.Regions {
		regionResp := dto.RegionAllocationResponse{
			RegionID:      region.Region.ID,
			Name:          region.Region.Name,
			AnnualTarget:  region.Region.AnnualTarget,
			Allocated:     region.Allocated,
			OverAllocated: region.OverAllocated,
			SubRegions:    make([]dto.SubRegionAllocationResponse, 0, len(region.SubRegions)),
		}
		for _, sub := range region.SubRegions {
			subResp := dto.SubRegionAllocationResponse{
				SubRegionID:   sub.SubRegion.ID,
				Name:          sub.SubRegion.Name,
				AnnualTarget:  sub.SubRegion.AnnualTarget,
				Allocated:     sub.Allocated,
				OverAllocated: sub.OverAllocated,
				Showrooms:     make([]dto.ShowroomAllocationResponse, 0, len(sub.Showrooms)),
			}
			for _, showroom := range sub.Showrooms {
				subResp.Showrooms = append(subResp.Showrooms, dto.ShowroomAllocationResponse{
					ShowroomID:             showroom.ID,
					Name:                   showroom.Name,
					AnnualTarget:           showroom.AnnualTarget,
					CurrentYearAchievement: showroom.CurrentYearAchievement,
					LastYearRevenue:        showroom.LastYearRevenue,
				})
			}
			regionResp.SubRegions = append(regionResp.SubRegions, subResp)
		}
		resp.Regions = append(resp.Regions, regionResp)
	}
	return resp
}

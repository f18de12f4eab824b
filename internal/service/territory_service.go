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

// TerritoryService administers the sales hierarchy itself. Target amounts on
// the hierarchy are managed by TargetService; this service owns the rows.
type TerritoryService struct {
	regions repository.RegionRepository
}

// TerritoryDependencies bundles requirements for the territory service.
type TerritoryDependencies struct {
	RegionRepo repository.RegionRepository
}

// RegionInput describes a regional zone create or update.
type RegionInput struct {
	Name                   string
	CurrentYearAchievement int64
	LastYearRevenue        int64
}

// NewTerritoryService constructs the service.
func NewTerritoryService(deps TerritoryDependencies) *TerritoryService {
	return &TerritoryService{regions: deps.RegionRepo}
}

// CreateRegion registers a new regional zone with a zero target. Targets are
// assigned afterwards through the distribution operations.
func (s *TerritoryService) CreateRegion(ctx context.Context, input RegionInput) (*domain.RegionalZone, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("region name required", nil)
	}
	if input.CurrentYearAchievement < 0 || input.LastYearRevenue < 0 {
		return nil, apperrors.NewValidationError("performance metrics cannot be negative", nil)
	}

	region := &domain.RegionalZone{
		Name:                   name,
		CurrentYearAchievement: input.CurrentYearAchievement,
		LastYearRevenue:        input.LastYearRevenue,
	}
	if err := s.regions.CreateRegion(ctx, region); err != nil {
		return nil, apperrors.MapError(err)
	}
	return region, nil
}

// UpdateRegion renames a region or revises its performance metrics. The
// annual target is left untouched.
func (s *TerritoryService) UpdateRegion(ctx context.Context, regionID string, input RegionInput) (*domain.RegionalZone, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("region name required", nil)
	}
	if input.CurrentYearAchievement < 0 || input.LastYearRevenue < 0 {
		return nil, apperrors.NewValidationError("performance metrics cannot be negative", nil)
	}

	region, err := s.GetRegion(ctx, regionID)
	if err != nil {
		return nil, err
	}
	region.Name = name
	region.CurrentYearAchievement = input.CurrentYearAchievement
	region.LastYearRevenue = input.LastYearRevenue
	if err := s.regions.UpdateRegion(ctx, region); err != nil {
		return nil, apperrors.MapError(err)
	}
	return region, nil
}

// DeleteRegion removes a region and, through the schema, its sub-regions and
// showrooms.
func (s *TerritoryService) DeleteRegion(ctx context.Context, regionID string) error {
	if err := s.regions.DeleteRegion(ctx, regionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("region", map[string]any{"region_id": regionID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// GetRegion fetches a single regional zone.
func (s *TerritoryService) GetRegion(ctx context.Context, regionID string) (*domain.RegionalZone, error) {
	region, err := s.regions.GetRegion(ctx, regionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("region", map[string]any{"region_id": regionID})
		}
		return nil, apperrors.MapError(err)
	}
	return region, nil
}

// ListRegions returns every regional zone.
func (s *TerritoryService) ListRegions(ctx context.Context) ([]domain.RegionalZone, error) {
	regions, err := s.regions.ListRegions(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if regions == nil {
		regions = []domain.RegionalZone{}
	}
	return regions, nil
}

// ListSubRegions returns the sub-regions under a region.
func (s *TerritoryService) ListSubRegions(ctx context.Context, regionID string) ([]domain.SubRegional, error) {
	if _, err := s.GetRegion(ctx, regionID); err != nil {
		return nil, err
	}
	subs, err := s.regions.ListSubRegions(ctx, regionID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if subs == nil {
		subs = []domain.SubRegional{}
	}
	return subs, nil
}

// ListShowrooms returns the showrooms under a sub-region.
func (s *TerritoryService) ListShowrooms(ctx context.Context, subRegionID string) ([]domain.Showroom, error) {
	if _, err := s.regions.GetSubRegion(ctx, subRegionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("sub-region", map[string]any{"sub_region_id": subRegionID})
		}
		return nil, apperrors.MapError(err)
	}
	showrooms, err := s.regions.ListShowrooms(ctx, subRegionID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if showrooms == nil {
		showrooms = []domain.Showroom{}
	}
	return showrooms, nil
}

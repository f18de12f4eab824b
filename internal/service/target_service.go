package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/agrimech/crm-service/internal/config"
	"github.com/agrimech/crm-service/internal/domain"
	"github.com/agrimech/crm-service/internal/events"
	"github.com/agrimech/crm-service/internal/repository"
	apperrors "github.com/agrimech/crm-service/pkg/util"
)

// TargetService allocates the national revenue target across the
// Region -> SubRegion -> Showroom hierarchy. Parent/child consistency is
// advisory: summaries flag over-allocation but writes are never blocked.
type TargetService struct {
	regions    repository.RegionRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	sim        config.SimulationConfig
}

// TargetDependencies bundles requirements for the target service.
type TargetDependencies struct {
	RegionRepo repository.RegionRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewTargetService constructs the service.
func NewTargetService(cfg config.Config, deps TargetDependencies) *TargetService {
	return &TargetService{
		regions:    deps.RegionRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		sim:        cfg.Simulation,
	}
}

// SubRegionAllocation reports one sub-region with its showroom allocations.
type SubRegionAllocation struct {
	SubRegion     domain.SubRegional
	Allocated     int64
	OverAllocated bool
	Showrooms     []domain.Showroom
}

// RegionAllocation reports one region with its sub-region allocations.
type RegionAllocation struct {
	Region        domain.RegionalZone
	Allocated     int64
	OverAllocated bool
	SubRegions    []SubRegionAllocation
}

// DistributionSummary is the full allocation picture. NationalTarget is the
// sum of region targets, reported rather than enforced.
type DistributionSummary struct {
	NationalTarget int64
	Regions        []RegionAllocation
}

// proportionalShare computes part's share of total preserving its existing
// proportion of partsTotal, rounded to the nearest whole currency unit.
func proportionalShare(total, part, partsTotal int64) int64 {
	if partsTotal == 0 {
		return 0
	}
	return int64(math.Round(float64(total) * float64(part) / float64(partsTotal)))
}

// weightedSplit divides total among nodes by weight, rounding each node
// independently. A zero weight sum falls back to an equal split. Rounding
// drift between the node sum and total is accepted.
func weightedSplit(total int64, weights []int64) []int64 {
	if len(weights) == 0 {
		return nil
	}
	var sum int64
	for _, w := range weights {
		sum += w
	}
	shares := make([]int64, len(weights))
	if sum == 0 {
		equal := int64(math.Round(float64(total) / float64(len(weights))))
		for i := range shares {
			shares[i] = equal
		}
		return shares
	}
	for i, w := range weights {
		shares[i] = int64(math.Round(float64(total) * float64(w) / float64(sum)))
	}
	return shares
}

// SetNationalTarget redistributes a new national total proportionally to
// each region's current share, cascading down the tree. A zero prior total
// makes the whole operation a no-op.
func (s *TargetService) SetNationalTarget(ctx context.Context, actorID *string, newTotal int64) (*DistributionSummary, error) {
	if newTotal < 0 {
		return nil, apperrors.NewValidationError("national target must not be negative", nil)
	}
	regions, err := s.regions.ListRegions(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	var oldNational int64
	for _, region := range regions {
		oldNational += region.AnnualTarget
	}
	if oldNational == 0 {
		// nothing to scale against; leave every node unchanged
		return s.Summary(ctx)
	}

	for _, region := range regions {
		newRegionTarget := proportionalShare(newTotal, region.AnnualTarget, oldNational)
		if err := s.cascadeRegion(ctx, region, newRegionTarget); err != nil {
			return nil, err
		}
	}

	s.publishEvent(ctx, actorID, "proportional", newTotal)
	return s.Summary(ctx)
}

// SetRegionTarget sets one region's target and cascades below it. Sibling
// regions are untouched; the national total is recomputed as a sum.
func (s *TargetService) SetRegionTarget(ctx context.Context, actorID *string, regionID string, newTarget int64) (*DistributionSummary, error) {
	if newTarget < 0 {
		return nil, apperrors.NewValidationError("region target must not be negative", nil)
	}
	region, err := s.regions.GetRegion(ctx, regionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("region", map[string]any{"region_id": regionID})
		}
		return nil, apperrors.MapError(err)
	}
	if err := s.cascadeRegion(ctx, *region, newTarget); err != nil {
		return nil, err
	}
	return s.Summary(ctx)
}

// cascadeRegion writes a region's new target, redistributes it across its
// sub-regions by their existing proportions, and carries each sub-region's
// change ratio down to its showrooms multiplicatively.
func (s *TargetService) cascadeRegion(ctx context.Context, region domain.RegionalZone, newTarget int64) error {
	if err := s.regions.UpdateRegionTarget(ctx, region.ID, newTarget); err != nil {
		return apperrors.MapError(err)
	}
	subs, err := s.regions.ListSubRegions(ctx, region.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	var subTotal int64
	for _, sub := range subs {
		subTotal += sub.AnnualTarget
	}
	if subTotal == 0 {
		return nil
	}
	for _, sub := range subs {
		newSubTarget := proportionalShare(newTarget, sub.AnnualTarget, subTotal)
		if err := s.regions.UpdateSubRegionTarget(ctx, sub.ID, newSubTarget); err != nil {
			return apperrors.MapError(err)
		}
		if sub.AnnualTarget == 0 {
			continue
		}
		showrooms, err := s.regions.ListShowrooms(ctx, sub.ID)
		if err != nil {
			return apperrors.MapError(err)
		}
		for _, showroom := range showrooms {
			carried := int64(math.Round(float64(showroom.AnnualTarget) * float64(newSubTarget) / float64(sub.AnnualTarget)))
			if err := s.regions.UpdateShowroomTarget(ctx, showroom.ID, carried); err != nil {
				return apperrors.MapError(err)
			}
		}
	}
	return nil
}

// DistributeByPerformance ignores prior allocation and splits the national
// target by performance weight, three independent top-down passes. Regions
// and showrooms weigh by current-year achievement while sub-regions weigh by
// last-year revenue, matching the established business rule.
func (s *TargetService) DistributeByPerformance(ctx context.Context, actorID *string, nationalTarget int64) (*DistributionSummary, error) {
	if nationalTarget <= 0 {
		return nil, apperrors.NewValidationError("national target must be positive", nil)
	}
	// the sync delay stands in for the external scoring call
	if err := simulateLatency(ctx, s.sim.Latency()); err != nil {
		return nil, err
	}

	regions, err := s.regions.ListRegions(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(regions) == 0 {
		return s.Summary(ctx)
	}

	regionWeights := make([]int64, len(regions))
	for i, region := range regions {
		regionWeights[i] = region.CurrentYearAchievement
	}
	regionShares := weightedSplit(nationalTarget, regionWeights)

	for i, region := range regions {
		if err := s.regions.UpdateRegionTarget(ctx, region.ID, regionShares[i]); err != nil {
			return nil, apperrors.MapError(err)
		}
		subs, err := s.regions.ListSubRegions(ctx, region.ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if len(subs) == 0 {
			continue
		}
		subWeights := make([]int64, len(subs))
		for j, sub := range subs {
			subWeights[j] = sub.LastYearRevenue
		}
		subShares := weightedSplit(regionShares[i], subWeights)

		for j, sub := range subs {
			if err := s.regions.UpdateSubRegionTarget(ctx, sub.ID, subShares[j]); err != nil {
				return nil, apperrors.MapError(err)
			}
			showrooms, err := s.regions.ListShowrooms(ctx, sub.ID)
			if err != nil {
				return nil, apperrors.MapError(err)
			}
			if len(showrooms) == 0 {
				continue
			}
			showroomWeights := make([]int64, len(showrooms))
			for k, showroom := range showrooms {
				showroomWeights[k] = showroom.CurrentYearAchievement
			}
			showroomShares := weightedSplit(subShares[j], showroomWeights)
			for k, showroom := range showrooms {
				if err := s.regions.UpdateShowroomTarget(ctx, showroom.ID, showroomShares[k]); err != nil {
					return nil, apperrors.MapError(err)
				}
			}
		}
	}

	s.publishEvent(ctx, actorID, "performance", nationalTarget)
	return s.Summary(ctx)
}

// SetSubRegionTarget overrides one sub-region directly, no cascade.
func (s *TargetService) SetSubRegionTarget(ctx context.Context, subRegionID string, newTarget int64) error {
	if newTarget < 0 {
		return apperrors.NewValidationError("target must not be negative", nil)
	}
	if err := s.regions.UpdateSubRegionTarget(ctx, subRegionID, newTarget); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("sub-region", map[string]any{"sub_region_id": subRegionID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// SetShowroomTarget overrides one showroom directly, no cascade.
func (s *TargetService) SetShowroomTarget(ctx context.Context, showroomID string, newTarget int64) error {
	if newTarget < 0 {
		return apperrors.NewValidationError("target must not be negative", nil)
	}
	if err := s.regions.UpdateShowroomTarget(ctx, showroomID, newTarget); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("showroom", map[string]any{"showroom_id": showroomID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// AutoBalanceRegion redistributes one region's stored target across its
// sub-regions by last-year revenue, equal split when total weight is zero.
func (s *TargetService) AutoBalanceRegion(ctx context.Context, regionID string) error {
	region, err := s.regions.GetRegion(ctx, regionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("region", map[string]any{"region_id": regionID})
		}
		return apperrors.MapError(err)
	}
	subs, err := s.regions.ListSubRegions(ctx, regionID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if len(subs) == 0 {
		return nil
	}
	weights := make([]int64, len(subs))
	for i, sub := range subs {
		weights[i] = sub.LastYearRevenue
	}
	shares := weightedSplit(region.AnnualTarget, weights)
	for i, sub := range subs {
		if err := s.regions.UpdateSubRegionTarget(ctx, sub.ID, shares[i]); err != nil {
			return apperrors.MapError(err)
		}
	}
	return nil
}

// AutoBalanceSubRegion redistributes one sub-region's stored target across
// its showrooms by current-year achievement, equal split on zero weight.
func (s *TargetService) AutoBalanceSubRegion(ctx context.Context, subRegionID string) error {
	sub, err := s.regions.GetSubRegion(ctx, subRegionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("sub-region", map[string]any{"sub_region_id": subRegionID})
		}
		return apperrors.MapError(err)
	}
	showrooms, err := s.regions.ListShowrooms(ctx, subRegionID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if len(showrooms) == 0 {
		return nil
	}
	weights := make([]int64, len(showrooms))
	for i, showroom := range showrooms {
		weights[i] = showroom.CurrentYearAchievement
	}
	shares := weightedSplit(sub.AnnualTarget, weights)
	for i, showroom := range showrooms {
		if err := s.regions.UpdateShowroomTarget(ctx, showroom.ID, shares[i]); err != nil {
			return apperrors.MapError(err)
		}
	}
	return nil
}

// Summary builds the full allocation picture with over-allocation flags.
func (s *TargetService) Summary(ctx context.Context) (*DistributionSummary, error) {
	regions, err := s.regions.ListRegions(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	summary := &DistributionSummary{}
	for _, region := range regions {
		summary.NationalTarget += region.AnnualTarget

		subs, err := s.regions.ListSubRegions(ctx, region.ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		regionAlloc := RegionAllocation{Region: region}
		for _, sub := range subs {
			regionAlloc.Allocated += sub.AnnualTarget

			showrooms, err := s.regions.ListShowrooms(ctx, sub.ID)
			if err != nil {
				return nil, apperrors.MapError(err)
			}
			subAlloc := SubRegionAllocation{SubRegion: sub, Showrooms: showrooms}
			for _, showroom := range showrooms {
				subAlloc.Allocated += showroom.AnnualTarget
			}
			subAlloc.OverAllocated = subAlloc.Allocated > sub.AnnualTarget
			regionAlloc.SubRegions = append(regionAlloc.SubRegions, subAlloc)
		}
		regionAlloc.OverAllocated = regionAlloc.Allocated > region.AnnualTarget
		summary.Regions = append(summary.Regions, regionAlloc)
	}
	return summary, nil
}

func (s *TargetService) publishEvent(ctx context.Context, actorID *string, strategy string, nationalTarget int64) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTargetDistributed,
		SubjectID: "national",
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload: events.TargetDistributedPayload{
			Strategy:       strategy,
			NationalTarget: nationalTarget,
		},
	})
	if s.logger != nil {
		s.logger.Info("targets distributed",
			zap.String("strategy", strategy),
			zap.Int64("national_target", nationalTarget))
	}
}

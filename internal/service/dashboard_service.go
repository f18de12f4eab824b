package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/agrimech/crm-service/internal/config"
	"github.com/agrimech/crm-service/internal/domain"
	"github.com/agrimech/crm-service/internal/repository"
	apperrors "github.com/agrimech/crm-service/pkg/util"
)

const (
	dashboardCacheKey = "crm:dashboard"
	dashboardCacheTTL = 60 * time.Second
)

// DashboardSummary aggregates the landing-page numbers.
type DashboardSummary struct {
	GeneratedAt      time.Time                   `json:"generated_at"`
	TicketsByStatus  map[domain.TicketStatus]int `json:"tickets_by_status"`
	TicketsBySLA     map[domain.SLAState]int     `json:"tickets_by_sla"`
	LeadsByStage     map[domain.LeadStage]int    `json:"leads_by_stage"`
	UpcomingDemos    int                         `json:"upcoming_demos"`
	CustomerCount    int                         `json:"customer_count"`
	ProductCount     int                         `json:"product_count"`
	RegionAttainment []RegionAttainment          `json:"region_attainment"`
}

// RegionAttainment reports target progress for one regional zone.
type RegionAttainment struct {
	RegionID     string  `json:"region_id"`
	RegionName   string  `json:"region_name"`
	AnnualTarget int64   `json:"annual_target"`
	Achieved     int64   `json:"achieved"`
	Percent      float64 `json:"percent"`
}

// DashboardService assembles the summary and caches it briefly so repeated
// page loads do not re-run the aggregate queries.
type DashboardService struct {
	tickets   repository.TicketRepository
	regions   repository.RegionRepository
	customers repository.CustomerRepository
	products  repository.ProductRepository
	store     repository.CRMStore
	cache     *redis.Client
	sla       config.SLAConfig
	logger    *zap.Logger
	now       Clock
}

// DashboardDependencies bundles requirements for the dashboard service.
type DashboardDependencies struct {
	TicketRepo   repository.TicketRepository
	RegionRepo   repository.RegionRepository
	CustomerRepo repository.CustomerRepository
	ProductRepo  repository.ProductRepository
	Store        repository.CRMStore
	Cache        *redis.Client
}

// NewDashboardService constructs the service.
func NewDashboardService(cfg config.Config, logger *zap.Logger, deps DashboardDependencies) *DashboardService {
	return &DashboardService{
		tickets:   deps.TicketRepo,
		regions:   deps.RegionRepo,
		customers: deps.CustomerRepo,
		products:  deps.ProductRepo,
		store:     deps.Store,
		cache:     deps.Cache,
		sla:       cfg.SLA,
		logger:    logger,
		now:       time.Now,
	}
}

// Summary returns the dashboard aggregate, served from cache when fresh.
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	summary, err := s.build(ctx)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, summary)
	return summary, nil
}

func (s *DashboardService) build(ctx context.Context) (*DashboardSummary, error) {
	now := s.now()
	summary := &DashboardSummary{
		GeneratedAt:     now,
		TicketsByStatus: map[domain.TicketStatus]int{},
		TicketsBySLA:    map[domain.SLAState]int{},
		LeadsByStage:    map[domain.LeadStage]int{},
	}

	statusCounts, err := s.tickets.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	summary.TicketsByStatus = statusCounts

	// SLA buckets come from the unresolved backlog only.
	open, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		Statuses: []domain.TicketStatus{
			domain.TicketStatusOpen,
			domain.TicketStatusReadyToProcess,
			domain.TicketStatusInProgress,
			domain.TicketStatusWaitingParts,
		},
		Limit: 1000,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for _, ticket := range open {
		state := ClassifySLA(ticket.CreatedAt, ticket.Status, now, s.sla.Warning(), s.sla.Breach())
		summary.TicketsBySLA[state]++
	}
	summary.TicketsBySLA[domain.SLADone] = statusCounts[domain.TicketStatusResolved]

	leads, err := s.store.Leads(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for _, lead := range leads {
		summary.LeadsByStage[lead.Stage]++
	}

	demos, err := s.store.Demos(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for _, demo := range demos {
		if demo.Status != domain.DemoStatusCancelled && demo.ScheduledAt.After(now) {
			summary.UpcomingDemos++
		}
	}

	if summary.CustomerCount, err = s.customers.Count(ctx); err != nil {
		return nil, apperrors.MapError(err)
	}
	if summary.ProductCount, err = s.products.Count(ctx); err != nil {
		return nil, apperrors.MapError(err)
	}

	regions, err := s.regions.ListRegions(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	summary.RegionAttainment = make([]RegionAttainment, 0, len(regions))
	for _, region := range regions {
		att := RegionAttainment{
			RegionID:     region.ID,
			RegionName:   region.Name,
			AnnualTarget: region.AnnualTarget,
			Achieved:     region.CurrentYearAchievement,
		}
		if region.AnnualTarget > 0 {
			att.Percent = float64(region.CurrentYearAchievement) / float64(region.AnnualTarget) * 100
		}
		summary.RegionAttainment = append(summary.RegionAttainment, att)
	}

	return summary, nil
}

func (s *DashboardService) fromCache(ctx context.Context) *DashboardSummary {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, dashboardCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
		return nil
	}
	var summary DashboardSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil
	}
	return &summary
}

func (s *DashboardService) toCache(ctx context.Context, summary *DashboardSummary) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, dashboardCacheKey, raw, dashboardCacheTTL).Err(); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
}

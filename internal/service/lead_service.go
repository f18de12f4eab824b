package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/agrimech/crm-service/internal/config"
	"github.com/agrimech/crm-service/internal/domain"
	"github.com/agrimech/crm-service/internal/events"
	"github.com/agrimech/crm-service/internal/repository"
	apperrors "github.com/agrimech/crm-service/pkg/util"
)

// ServiceResult is the canned outcome of the simulated external calls.
type ServiceResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LeadService manages the sales pipeline: leads, demo appointments and the
// stock availability stub. Leads and demos are durable JSON blobs in the
// blob store, last write wins.
type LeadService struct {
	store      repository.CRMStore
	products   repository.ProductRepository
	dispatcher events.Dispatcher
	sim        config.SimulationConfig
	now        Clock
}

// LeadDependencies bundles requirements for the lead service.
type LeadDependencies struct {
	Store       repository.CRMStore
	ProductRepo repository.ProductRepository
	Dispatcher  events.Dispatcher
}

// LeadCreateInput describes a new lead.
type LeadCreateInput struct {
	CustomerName    string
	Phone           string
	Source          string
	ProductInterest string
	ShowroomID      *string
	Notes           string
}

// LeadPatch carries a partial lead update; nil fields are left untouched.
type LeadPatch struct {
	CustomerName    *string
	Phone           *string
	Source          *string
	Stage           *domain.LeadStage
	ProductInterest *string
	ShowroomID      *string
	Notes           *string
}

// DemoRequest describes a demo appointment request.
type DemoRequest struct {
	LeadID       *string
	CustomerName string
	ProductID    string
	ScheduledAt  time.Time
	Location     string
}

// NewLeadService constructs the service.
func NewLeadService(cfg config.Config, deps LeadDependencies) *LeadService {
	return &LeadService{
		store:      deps.Store,
		products:   deps.ProductRepo,
		dispatcher: deps.Dispatcher,
		sim:        cfg.Simulation,
		now:        time.Now,
	}
}

// CreateLead appends a new lead to the stored collection.
func (s *LeadService) CreateLead(ctx context.Context, input LeadCreateInput) (*domain.Lead, error) {
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, apperrors.NewValidationError("customer name required", nil)
	}
	leads, err := s.store.Leads(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	now := s.now()
	lead := domain.Lead{
		ID:              uuid.NewString(),
		CustomerName:    strings.TrimSpace(input.CustomerName),
		Phone:           strings.TrimSpace(input.Phone),
		Source:          strings.TrimSpace(input.Source),
		Stage:           domain.LeadStageNew,
		ProductInterest: strings.TrimSpace(input.ProductInterest),
		ShowroomID:      input.ShowroomID,
		Notes:           input.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	leads = append(leads, lead)
	if err := s.store.SaveLeads(ctx, leads); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventLeadCreated,
		SubjectID: lead.ID,
		Payload: events.LeadCreatedPayload{
			CustomerName: lead.CustomerName,
			Stage:        lead.Stage,
		},
	})
	return &lead, nil
}

// UpdateLead merges a partial update into the stored lead.
func (s *LeadService) UpdateLead(ctx context.Context, leadID string, patch LeadPatch) (*domain.Lead, error) {
	leads, err := s.store.Leads(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for i := range leads {
		if leads[i].ID != leadID {
			continue
		}
		if patch.CustomerName != nil {
			leads[i].CustomerName = *patch.CustomerName
		}
		if patch.Phone != nil {
			leads[i].Phone = *patch.Phone
		}
		if patch.Source != nil {
			leads[i].Source = *patch.Source
		}
		if patch.Stage != nil {
			leads[i].Stage = *patch.Stage
		}
		if patch.ProductInterest != nil {
			leads[i].ProductInterest = *patch.ProductInterest
		}
		if patch.ShowroomID != nil {
			leads[i].ShowroomID = patch.ShowroomID
		}
		if patch.Notes != nil {
			leads[i].Notes = *patch.Notes
		}
		leads[i].UpdatedAt = s.now()
		if err := s.store.SaveLeads(ctx, leads); err != nil {
			return nil, apperrors.MapError(err)
		}
		updated := leads[i]
		return &updated, nil
	}
	return nil, apperrors.NewNotFound("lead", map[string]any{"lead_id": leadID})
}

// ListLeads returns all stored leads, optionally filtered by stage.
func (s *LeadService) ListLeads(ctx context.Context, stage *domain.LeadStage) ([]domain.Lead, error) {
	leads, err := s.store.Leads(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if stage == nil {
		return leads, nil
	}
	filtered := make([]domain.Lead, 0, len(leads))
	for _, lead := range leads {
		if lead.Stage == *stage {
			filtered = append(filtered, lead)
		}
	}
	return filtered, nil
}

// ScheduleDemo runs the demo booking stub: artificial latency, then a
// deterministic outcome. Weekend requests are always declined.
func (s *LeadService) ScheduleDemo(ctx context.Context, req DemoRequest) (*ServiceResult, *domain.DemoSchedule, error) {
	if strings.TrimSpace(req.CustomerName) == "" || req.ProductID == "" {
		return nil, nil, apperrors.NewValidationError("customer name and product required", nil)
	}
	if err := simulateLatency(ctx, s.sim.Latency()); err != nil {
		return nil, nil, err
	}

	switch req.ScheduledAt.Weekday() {
	case time.Saturday, time.Sunday:
		return &ServiceResult{
			Success: false,
			Message: "demo team unavailable on weekends, please pick a weekday",
		}, nil, nil
	}

	demos, err := s.store.Demos(ctx)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	demo := domain.DemoSchedule{
		ID:           uuid.NewString(),
		LeadID:       req.LeadID,
		CustomerName: strings.TrimSpace(req.CustomerName),
		ProductID:    req.ProductID,
		ScheduledAt:  req.ScheduledAt,
		Location:     strings.TrimSpace(req.Location),
		Status:       domain.DemoStatusRequested,
		CreatedAt:    s.now(),
	}
	demos = append(demos, demo)
	if err := s.store.SaveDemos(ctx, demos); err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventDemoScheduled,
		SubjectID: demo.ID,
		Payload: events.DemoScheduledPayload{
			CustomerName: demo.CustomerName,
			ProductID:    demo.ProductID,
			ScheduledAt:  demo.ScheduledAt,
		},
	})
	return &ServiceResult{Success: true, Message: "demo scheduled"}, &demo, nil
}

// ListDemos returns all stored demo appointments.
func (s *LeadService) ListDemos(ctx context.Context) ([]domain.DemoSchedule, error) {
	demos, err := s.store.Demos(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return demos, nil
}

// CheckStockAvailability runs the stock lookup stub against the catalog.
func (s *LeadService) CheckStockAvailability(ctx context.Context, productID string, qty int) (*ServiceResult, error) {
	if qty <= 0 {
		return nil, apperrors.NewValidationError("quantity must be positive", nil)
	}
	if err := simulateLatency(ctx, s.sim.Latency()); err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("product", map[string]any{"product_id": productID})
		}
		return nil, apperrors.MapError(err)
	}
	if product.StockLevel >= qty {
		return &ServiceResult{
			Success: true,
			Message: fmt.Sprintf("%d unit(s) of %s available", product.StockLevel, product.Name),
		}, nil
	}
	return &ServiceResult{
		Success: false,
		Message: fmt.Sprintf("only %d unit(s) of %s in stock", product.StockLevel, product.Name),
	}, nil
}

func (s *LeadService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

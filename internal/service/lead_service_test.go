package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/agrimech/crm-service/internal/domain"
)

type fakeCRMStore struct {
	leads []domain.Lead
	demos []domain.DemoSchedule
}

func (f *fakeCRMStore) Leads(ctx context.Context) ([]domain.Lead, error) {
	return append([]domain.Lead{}, f.leads...), nil
}

func (f *fakeCRMStore) SaveLeads(ctx context.Context, leads []domain.Lead) error {
	f.leads = append([]domain.Lead{}, leads...)
	return nil
}

func (f *fakeCRMStore) Demos(ctx context.Context) ([]domain.DemoSchedule, error) {
	return append([]domain.DemoSchedule{}, f.demos...), nil
}

func (f *fakeCRMStore) SaveDemos(ctx context.Context, demos []domain.DemoSchedule) error {
	f.demos = append([]domain.DemoSchedule{}, demos...)
	return nil
}

type fakeProductRepo struct {
	products map[string]domain.Product
}

func (f *fakeProductRepo) Create(ctx context.Context, product *domain.Product) error {
	f.products[product.ID] = *product
	return nil
}

func (f *fakeProductRepo) Update(ctx context.Context, product *domain.Product) error {
	if _, ok := f.products[product.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.products[product.ID] = *product
	return nil
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := product
	return &copied, nil
}

func (f *fakeProductRepo) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	for _, product := range f.products {
		if product.Code == code {
			copied := product
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeProductRepo) List(ctx context.Context, category *domain.ProductCategory, activeOnly bool, limit, offset int) ([]domain.Product, error) {
	var result []domain.Product
	for _, product := range f.products {
		result = append(result, product)
	}
	return result, nil
}

func (f *fakeProductRepo) Count(ctx context.Context) (int, error) {
	return len(f.products), nil
}

func newTestLeadService(store *fakeCRMStore, products *fakeProductRepo) *LeadService {
	if products == nil {
		products = &fakeProductRepo{products: map[string]domain.Product{}}
	}
	return NewLeadService(testConfig(), LeadDependencies{
		Store:       store,
		ProductRepo: products,
	})
}

// nextWeekday returns the next occurrence of the given weekday after base.
func nextWeekday(base time.Time, day time.Weekday) time.Time {
	for base.Weekday() != day {
		base = base.AddDate(0, 0, 1)
	}
	return base
}

func TestCreateAndListLeads(t *testing.T) {
	store := &fakeCRMStore{}
	svc := newTestLeadService(store, nil)

	lead, err := svc.CreateLead(context.Background(), LeadCreateInput{
		CustomerName: "  Ibu Sari  ",
		Phone:        "0811",
		Source:       "walk-in",
	})
	if err != nil {
		t.Fatalf("CreateLead: %v", err)
	}
	if lead.CustomerName != "Ibu Sari" {
		t.Errorf("name = %q, not trimmed", lead.CustomerName)
	}
	if lead.Stage != domain.LeadStageNew {
		t.Errorf("stage = %s, want NEW", lead.Stage)
	}
	if lead.ID == "" {
		t.Error("lead id missing")
	}

	leads, err := svc.ListLeads(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListLeads: %v", err)
	}
	if len(leads) != 1 {
		t.Fatalf("lead count = %d, want 1", len(leads))
	}
}

func TestCreateLeadRequiresName(t *testing.T) {
	svc := newTestLeadService(&fakeCRMStore{}, nil)
	if _, err := svc.CreateLead(context.Background(), LeadCreateInput{CustomerName: "   "}); err == nil {
		t.Error("expected validation error for blank name")
	}
}

func TestUpdateLeadMergesAndFiltersByStage(t *testing.T) {
	store := &fakeCRMStore{}
	svc := newTestLeadService(store, nil)

	lead, err := svc.CreateLead(context.Background(), LeadCreateInput{CustomerName: "Pak Joko"})
	if err != nil {
		t.Fatalf("CreateLead: %v", err)
	}

	stage := domain.LeadStageQualified
	updated, err := svc.UpdateLead(context.Background(), lead.ID, LeadPatch{Stage: &stage})
	if err != nil {
		t.Fatalf("UpdateLead: %v", err)
	}
	if updated.Stage != domain.LeadStageQualified {
		t.Errorf("stage = %s", updated.Stage)
	}
	if updated.CustomerName != "Pak Joko" {
		t.Error("untouched field changed")
	}

	want := domain.LeadStageQualified
	filtered, err := svc.ListLeads(context.Background(), &want)
	if err != nil {
		t.Fatalf("ListLeads: %v", err)
	}
	if len(filtered) != 1 {
		t.Errorf("filtered count = %d, want 1", len(filtered))
	}
	other := domain.LeadStageLost
	empty, err := svc.ListLeads(context.Background(), &other)
	if err != nil {
		t.Fatalf("ListLeads: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("filtered count = %d, want 0", len(empty))
	}
}

func TestUpdateLeadUnknownID(t *testing.T) {
	svc := newTestLeadService(&fakeCRMStore{}, nil)
	name := "x"
	if _, err := svc.UpdateLead(context.Background(), "missing", LeadPatch{CustomerName: &name}); err == nil {
		t.Error("expected not-found for unknown lead")
	}
}

func TestScheduleDemoRejectsWeekends(t *testing.T) {
	store := &fakeCRMStore{}
	svc := newTestLeadService(store, nil)

	saturday := nextWeekday(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), time.Saturday)
	result, demo, err := svc.ScheduleDemo(context.Background(), DemoRequest{
		CustomerName: "Pak Budi",
		ProductID:    "prod-1",
		ScheduledAt:  saturday,
	})
	if err != nil {
		t.Fatalf("ScheduleDemo: %v", err)
	}
	if result.Success {
		t.Error("weekend demo must be declined")
	}
	if demo != nil {
		t.Error("declined demo must not be persisted")
	}
	if len(store.demos) != 0 {
		t.Error("store modified by declined request")
	}
}

func TestScheduleDemoWeekday(t *testing.T) {
	store := &fakeCRMStore{}
	svc := newTestLeadService(store, nil)

	tuesday := nextWeekday(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), time.Tuesday)
	result, demo, err := svc.ScheduleDemo(context.Background(), DemoRequest{
		CustomerName: "Pak Budi",
		ProductID:    "prod-1",
		ScheduledAt:  tuesday,
		Location:     "demo field",
	})
	if err != nil {
		t.Fatalf("ScheduleDemo: %v", err)
	}
	if !result.Success {
		t.Fatalf("weekday demo declined: %s", result.Message)
	}
	if demo == nil || demo.Status != domain.DemoStatusRequested {
		t.Error("demo not created as REQUESTED")
	}
	if len(store.demos) != 1 {
		t.Errorf("stored demo count = %d, want 1", len(store.demos))
	}
}

func TestScheduleDemoHonorsContextCancellation(t *testing.T) {
	cfg := testConfig()
	cfg.Simulation.LatencyMillis = 5000
	svc := NewLeadService(cfg, LeadDependencies{
		Store:       &fakeCRMStore{},
		ProductRepo: &fakeProductRepo{products: map[string]domain.Product{}},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tuesday := nextWeekday(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), time.Tuesday)
	if _, _, err := svc.ScheduleDemo(ctx, DemoRequest{CustomerName: "x", ProductID: "p", ScheduledAt: tuesday}); err == nil {
		t.Error("expected context cancellation error")
	}
}

func TestCheckStockAvailability(t *testing.T) {
	products := &fakeProductRepo{products: map[string]domain.Product{
		"prod-1": {ID: "prod-1", Code: "TRX-90", Name: "TRX 90 Tractor", StockLevel: 3},
	}}
	svc := newTestLeadService(&fakeCRMStore{}, products)

	result, err := svc.CheckStockAvailability(context.Background(), "prod-1", 2)
	if err != nil {
		t.Fatalf("CheckStockAvailability: %v", err)
	}
	if !result.Success {
		t.Errorf("in-stock check failed: %s", result.Message)
	}

	result, err = svc.CheckStockAvailability(context.Background(), "prod-1", 5)
	if err != nil {
		t.Fatalf("CheckStockAvailability: %v", err)
	}
	if result.Success {
		t.Error("out-of-stock request must not succeed")
	}

	if _, err := svc.CheckStockAvailability(context.Background(), "missing", 1); err == nil {
		t.Error("expected not-found for unknown product")
	}
	if _, err := svc.CheckStockAvailability(context.Background(), "prod-1", 0); err == nil {
		t.Error("expected validation error for non-positive quantity")
	}
}

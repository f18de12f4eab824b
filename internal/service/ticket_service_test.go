package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/agrimech/crm-service/internal/config"
	"github.com/agrimech/crm-service/internal/domain"
	"github.com/agrimech/crm-service/internal/repository"
)

type fakeTicketRepo struct {
	seq     int
	tickets map[string]domain.ServiceTicket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]domain.ServiceTicket{}}
}

func (f *fakeTicketRepo) Create(ctx context.Context, ticket *domain.ServiceTicket) error {
	f.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", f.seq)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	f.tickets[ticket.ID] = *ticket
	return nil
}

func (f *fakeTicketRepo) Update(ctx context.Context, ticket *domain.ServiceTicket) error {
	if _, ok := f.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	f.tickets[ticket.ID] = *ticket
	return nil
}

func (f *fakeTicketRepo) GetByID(ctx context.Context, id string) (*domain.ServiceTicket, error) {
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := ticket
	return &copied, nil
}

func (f *fakeTicketRepo) GetByNumber(ctx context.Context, number string) (*domain.ServiceTicket, error) {
	for _, ticket := range f.tickets {
		if ticket.TicketNumber == number {
			copied := ticket
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTicketRepo) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.ServiceTicket, error) {
	var result []domain.ServiceTicket
	for _, ticket := range f.tickets {
		if len(filter.Statuses) > 0 {
			matched := false
			for _, status := range filter.Statuses {
				if ticket.Status == status {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		result = append(result, ticket)
	}
	return result, nil
}

func (f *fakeTicketRepo) CountByStatus(ctx context.Context) (map[domain.TicketStatus]int, error) {
	counts := map[domain.TicketStatus]int{}
	for _, ticket := range f.tickets {
		counts[ticket.Status]++
	}
	return counts, nil
}

type fakeHistoryRepo struct {
	entries []domain.TicketHistory
}

func (f *fakeHistoryRepo) Create(ctx context.Context, entry *domain.TicketHistory) error {
	entry.ID = fmt.Sprintf("hist-%d", len(f.entries)+1)
	entry.CreatedAt = time.Now()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeHistoryRepo) ListByTicket(ctx context.Context, ticketID string, limit, offset int) ([]domain.TicketHistory, error) {
	var result []domain.TicketHistory
	for _, entry := range f.entries {
		if entry.TicketID == ticketID {
			result = append(result, entry)
		}
	}
	return result, nil
}

type fakeUserRepo struct {
	users map[string]domain.User
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[string]domain.User{}}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(f.users)+1)
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	var result []domain.User
	for _, user := range f.users {
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		if filter.Active != nil && user.Active != *filter.Active {
			continue
		}
		result = append(result, user)
	}
	return result, nil
}

func testConfig() config.Config {
	return config.Config{
		SLA:        config.SLAConfig{WarningHours: 24, BreachHours: 48},
		Simulation: config.SimulationConfig{LatencyMillis: 0},
	}
}

func newTestTicketService(repo *fakeTicketRepo, users *fakeUserRepo) (*TicketService, *fakeHistoryRepo) {
	history := &fakeHistoryRepo{}
	cfg := testConfig()
	svc := NewTicketService(cfg, TicketDependencies{
		TicketRepo:  repo,
		HistoryRepo: history,
		UserRepo:    users,
	})
	return svc, history
}

func mechanic(id string) domain.User {
	return domain.User{ID: id, Name: "Tech " + id, Role: domain.RoleMechanic, Active: true}
}

func createOpenTicket(t *testing.T, svc *TicketService) *domain.ServiceTicket {
	t.Helper()
	ticket, err := svc.CreateTicket(context.Background(), nil, TicketCreateInput{
		ReporterName: "Pak Budi",
		Subject:      "engine overheating",
	})
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	return ticket
}

func TestCreateTicketDefaults(t *testing.T) {
	svc, _ := newTestTicketService(newFakeTicketRepo(), newFakeUserRepo())
	ticket := createOpenTicket(t, svc)

	if ticket.Status != domain.TicketStatusOpen {
		t.Errorf("status = %s, want OPEN", ticket.Status)
	}
	if ticket.Priority != domain.TicketPriorityMedium {
		t.Errorf("priority = %s, want MEDIUM", ticket.Priority)
	}
	if ticket.Report != nil {
		t.Error("new ticket must not carry a report")
	}
	if len(ticket.TicketNumber) == 0 {
		t.Error("ticket number missing")
	}
}

func TestCreateTicketRequiresReporterAndSubject(t *testing.T) {
	svc, _ := newTestTicketService(newFakeTicketRepo(), newFakeUserRepo())
	if _, err := svc.CreateTicket(context.Background(), nil, TicketCreateInput{Subject: "x"}); err == nil {
		t.Error("expected validation error without reporter name")
	}
	if _, err := svc.CreateTicket(context.Background(), nil, TicketCreateInput{ReporterName: "x"}); err == nil {
		t.Error("expected validation error without subject")
	}
}

func TestTransitionLegality(t *testing.T) {
	cases := []struct {
		from, to domain.TicketStatus
		ok       bool
	}{
		{domain.TicketStatusOpen, domain.TicketStatusReadyToProcess, true},
		{domain.TicketStatusOpen, domain.TicketStatusInProgress, true},
		{domain.TicketStatusOpen, domain.TicketStatusResolved, false},
		{domain.TicketStatusOpen, domain.TicketStatusWaitingParts, false},
		{domain.TicketStatusReadyToProcess, domain.TicketStatusInProgress, true},
		{domain.TicketStatusReadyToProcess, domain.TicketStatusOpen, false},
		{domain.TicketStatusInProgress, domain.TicketStatusWaitingParts, true},
		{domain.TicketStatusInProgress, domain.TicketStatusResolved, true},
		{domain.TicketStatusWaitingParts, domain.TicketStatusInProgress, true},
		{domain.TicketStatusWaitingParts, domain.TicketStatusResolved, false},
		{domain.TicketStatusResolved, domain.TicketStatusOpen, false},
		{domain.TicketStatusResolved, domain.TicketStatusInProgress, false},
	}
	for _, tc := range cases {
		if got := isValidTransition(tc.from, tc.to); got != tc.ok {
			t.Errorf("isValidTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}

func TestRequestTransitionRequirements(t *testing.T) {
	if got := RequestTransition(domain.TicketStatusOpen, domain.TicketStatusReadyToProcess); got != RequirementAssignPIC {
		t.Errorf("OPEN->READY_TO_PROCESS requirement = %s, want ASSIGN_PIC", got)
	}
	if got := RequestTransition(domain.TicketStatusOpen, domain.TicketStatusInProgress); got != RequirementCorrectiveActions {
		t.Errorf("OPEN->IN_PROGRESS requirement = %s, want CORRECTIVE_ACTIONS", got)
	}
	if got := RequestTransition(domain.TicketStatusWaitingParts, domain.TicketStatusInProgress); got != RequirementCorrectiveActions {
		t.Errorf("WAITING_PARTS->IN_PROGRESS requirement = %s, want CORRECTIVE_ACTIONS", got)
	}
	if got := RequestTransition(domain.TicketStatusInProgress, domain.TicketStatusResolved); got != RequirementNone {
		t.Errorf("IN_PROGRESS->RESOLVED requirement = %s, want NONE", got)
	}
}

func TestTransitionToReadyToProcess(t *testing.T) {
	repo := newFakeTicketRepo()
	svc, history := newTestTicketService(repo, newFakeUserRepo(mechanic("mech-1")))
	ticket := createOpenTicket(t, svc)

	pic := "mech-1"
	updated, err := svc.Transition(context.Background(), nil, ticket.ID, domain.TicketStatusReadyToProcess, TransitionInput{PIC: &pic})
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if updated.Status != domain.TicketStatusReadyToProcess {
		t.Errorf("status = %s", updated.Status)
	}
	if updated.AssignedTo == nil || *updated.AssignedTo != "mech-1" {
		t.Error("assignee not stamped")
	}
	if updated.ResponseDate == nil {
		t.Error("response date not stamped")
	}
	if len(history.entries) == 0 {
		t.Error("no history recorded")
	}
}

func TestTransitionToReadyToProcessRejectsBlankPICWithoutAssignee(t *testing.T) {
	svc, _ := newTestTicketService(newFakeTicketRepo(), newFakeUserRepo())
	ticket := createOpenTicket(t, svc)

	if _, err := svc.Transition(context.Background(), nil, ticket.ID, domain.TicketStatusReadyToProcess, TransitionInput{}); err == nil {
		t.Error("expected error when no PIC and no prior assignee")
	}
}

func TestTransitionToReadyToProcessFallsBackToPriorAssignee(t *testing.T) {
	repo := newFakeTicketRepo()
	svc, _ := newTestTicketService(repo, newFakeUserRepo(mechanic("mech-1")))
	ticket := createOpenTicket(t, svc)

	prior := "mech-1"
	stored := repo.tickets[ticket.ID]
	stored.AssignedTo = &prior
	repo.tickets[ticket.ID] = stored

	blank := "   "
	updated, err := svc.Transition(context.Background(), nil, ticket.ID, domain.TicketStatusReadyToProcess, TransitionInput{PIC: &blank})
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if updated.AssignedTo == nil || *updated.AssignedTo != "mech-1" {
		t.Error("prior assignee not kept")
	}
}

func TestTransitionRejectsNonMechanicPIC(t *testing.T) {
	sales := domain.User{ID: "sales-1", Role: domain.RoleSalesArea, Active: true}
	svc, _ := newTestTicketService(newFakeTicketRepo(), newFakeUserRepo(sales))
	ticket := createOpenTicket(t, svc)

	pic := "sales-1"
	if _, err := svc.Transition(context.Background(), nil, ticket.ID, domain.TicketStatusReadyToProcess, TransitionInput{PIC: &pic}); err == nil {
		t.Error("expected rejection of non-mechanic PIC")
	}
}

func TestTransitionToInProgressAttachesReportOnce(t *testing.T) {
	repo := newFakeTicketRepo()
	svc, _ := newTestTicketService(repo, newFakeUserRepo(mechanic("mech-1")))
	ticket := createOpenTicket(t, svc)

	actions := []string{"replace oil filter", "  ", "flush radiator"}
	updated, err := svc.Transition(context.Background(), nil, ticket.ID, domain.TicketStatusInProgress, TransitionInput{CorrectiveActions: actions})
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if updated.Report == nil {
		t.Fatal("report not attached on first IN_PROGRESS")
	}
	if updated.CorrectiveAction != "replace oil filter\nflush radiator" {
		t.Errorf("corrective action = %q", updated.CorrectiveAction)
	}

	firstReport := *updated.Report
	firstReport.DiagnosisCause = "worn gasket"
	stored := repo.tickets[ticket.ID]
	stored.Report = &firstReport
	repo.tickets[ticket.ID] = stored

	// waiting for parts and back again must not reset the report
	if _, err := svc.Transition(context.Background(), nil, ticket.ID, domain.TicketStatusWaitingParts, TransitionInput{}); err != nil {
		t.Fatalf("to WAITING_PARTS: %v", err)
	}
	again, err := svc.Transition(context.Background(), nil, ticket.ID, domain.TicketStatusInProgress, TransitionInput{CorrectiveActions: []string{"fit new gasket"}})
	if err != nil {
		t.Fatalf("back to IN_PROGRESS: %v", err)
	}
	if again.Report.DiagnosisCause != "worn gasket" {
		t.Error("report was reset on re-entry")
	}
}

func TestTransitionToInProgressRequiresActions(t *testing.T) {
	svc, _ := newTestTicketService(newFakeTicketRepo(), newFakeUserRepo())
	ticket := createOpenTicket(t, svc)

	_, err := svc.Transition(context.Background(), nil, ticket.ID, domain.TicketStatusInProgress, TransitionInput{CorrectiveActions: []string{"   "}})
	if err == nil {
		t.Error("expected validation error for blank corrective actions")
	}
}

func TestTransitionToResolvedStampsCompletion(t *testing.T) {
	svc, _ := newTestTicketService(newFakeTicketRepo(), newFakeUserRepo())
	ticket := createOpenTicket(t, svc)

	if _, err := svc.Transition(context.Background(), nil, ticket.ID, domain.TicketStatusInProgress, TransitionInput{CorrectiveActions: []string{"weld bracket"}}); err != nil {
		t.Fatalf("to IN_PROGRESS: %v", err)
	}
	resolved, err := svc.Transition(context.Background(), nil, ticket.ID, domain.TicketStatusResolved, TransitionInput{})
	if err != nil {
		t.Fatalf("to RESOLVED: %v", err)
	}
	if resolved.CompletionDate == nil {
		t.Error("completion date not stamped")
	}
}

func TestPatchReportRequiresReport(t *testing.T) {
	svc, _ := newTestTicketService(newFakeTicketRepo(), newFakeUserRepo())
	ticket := createOpenTicket(t, svc)

	warranty := true
	if _, err := svc.UpdateReport(context.Background(), nil, ticket.ID, ReportPatch{IsWarranty: &warranty}); err == nil {
		t.Error("expected conflict when ticket has no report")
	}
}

func TestPatchReportMergesOnlyProvidedFields(t *testing.T) {
	repo := newFakeTicketRepo()
	svc, _ := newTestTicketService(repo, newFakeUserRepo())
	ticket := createOpenTicket(t, svc)

	if _, err := svc.Transition(context.Background(), nil, ticket.ID, domain.TicketStatusInProgress, TransitionInput{CorrectiveActions: []string{"inspect pump"}}); err != nil {
		t.Fatalf("to IN_PROGRESS: %v", err)
	}

	symptom := "white smoke"
	updated, err := svc.UpdateReport(context.Background(), nil, ticket.ID, ReportPatch{DiagnosisSymptom: &symptom})
	if err != nil {
		t.Fatalf("UpdateReport: %v", err)
	}
	if updated.Report.DiagnosisSymptom != "white smoke" {
		t.Errorf("symptom = %q", updated.Report.DiagnosisSymptom)
	}
	if updated.Report.StartTime == "" {
		t.Error("start time cleared by unrelated patch")
	}

	smoke := domain.ConditionAbnormal
	updated, err = svc.MergeChecklist(context.Background(), nil, ticket.ID, ChecklistPatch{SmokeStatus: &smoke})
	if err != nil {
		t.Fatalf("MergeChecklist: %v", err)
	}
	if updated.Report.Checklist.SmokeStatus != domain.ConditionAbnormal {
		t.Error("checklist patch not applied")
	}
	if updated.Report.DiagnosisSymptom != "white smoke" {
		t.Error("checklist patch clobbered report fields")
	}

	taken := true
	updated, err = svc.MergeEvidenceChecklist(context.Background(), nil, ticket.ID, EvidencePatch{UnitPhoto: &taken})
	if err != nil {
		t.Fatalf("MergeEvidenceChecklist: %v", err)
	}
	if !updated.Report.Evidence.UnitPhoto {
		t.Error("evidence patch not applied")
	}
}

func TestAttachPhotoCap(t *testing.T) {
	svc, _ := newTestTicketService(newFakeTicketRepo(), newFakeUserRepo())
	ticket := createOpenTicket(t, svc)

	for i := 0; i < domain.MaxEvidencePhotos; i++ {
		if _, err := svc.AttachPhoto(context.Background(), nil, ticket.ID, fmt.Sprintf("https://cdn.example.com/photo-%d.jpg", i)); err != nil {
			t.Fatalf("AttachPhoto %d: %v", i, err)
		}
	}
	if _, err := svc.AttachPhoto(context.Background(), nil, ticket.ID, "https://cdn.example.com/extra.jpg"); err == nil {
		t.Error("expected rejection beyond photo cap")
	}
	stored, _ := svc.GetTicket(context.Background(), ticket.ID)
	if len(stored.EvidenceURLs) != domain.MaxEvidencePhotos {
		t.Errorf("photo count = %d, want %d", len(stored.EvidenceURLs), domain.MaxEvidencePhotos)
	}
}

func TestClassifySLA(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	warning := 24 * time.Hour
	breach := 48 * time.Hour

	cases := []struct {
		name    string
		age     time.Duration
		status  domain.TicketStatus
		want    domain.SLAState
	}{
		{"fresh", time.Hour, domain.TicketStatusOpen, domain.SLAActive},
		{"just under warning", 23 * time.Hour, domain.TicketStatusInProgress, domain.SLAActive},
		{"at warning", 24 * time.Hour, domain.TicketStatusOpen, domain.SLAWarning},
		{"mid warning", 36 * time.Hour, domain.TicketStatusWaitingParts, domain.SLAWarning},
		{"at breach", 48 * time.Hour, domain.TicketStatusOpen, domain.SLABreached},
		{"deep breach", 50 * time.Hour, domain.TicketStatusInProgress, domain.SLABreached},
		{"resolved is done regardless of age", 90 * time.Hour, domain.TicketStatusResolved, domain.SLADone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifySLA(now.Add(-tc.age), tc.status, now, warning, breach)
			if got != tc.want {
				t.Errorf("ClassifySLA(age=%s, status=%s) = %s, want %s", tc.age, tc.status, got, tc.want)
			}
		})
	}
}

func TestBoardColumnsInWorkflowOrder(t *testing.T) {
	svc, _ := newTestTicketService(newFakeTicketRepo(), newFakeUserRepo())
	createOpenTicket(t, svc)
	ticket := createOpenTicket(t, svc)
	if _, err := svc.Transition(context.Background(), nil, ticket.ID, domain.TicketStatusInProgress, TransitionInput{CorrectiveActions: []string{"check wiring"}}); err != nil {
		t.Fatalf("Transition: %v", err)
	}

	columns, err := svc.Board(context.Background(), repository.TicketFilter{})
	if err != nil {
		t.Fatalf("Board: %v", err)
	}
	want := []domain.TicketStatus{
		domain.TicketStatusOpen,
		domain.TicketStatusReadyToProcess,
		domain.TicketStatusInProgress,
		domain.TicketStatusWaitingParts,
		domain.TicketStatusResolved,
	}
	if len(columns) != len(want) {
		t.Fatalf("column count = %d, want %d", len(columns), len(want))
	}
	for i, status := range want {
		if columns[i].Status != status {
			t.Errorf("column %d = %s, want %s", i, columns[i].Status, status)
		}
	}
	if len(columns[0].Tickets) != 1 || len(columns[2].Tickets) != 1 {
		t.Error("tickets not bucketed by status")
	}
}

func TestGetTicketByNumber(t *testing.T) {
	svc, _ := newTestTicketService(newFakeTicketRepo(), newFakeUserRepo())
	ticket := createOpenTicket(t, svc)

	byNumber, err := svc.GetTicket(context.Background(), ticket.TicketNumber)
	if err != nil {
		t.Fatalf("GetTicket by number: %v", err)
	}
	if byNumber.ID != ticket.ID {
		t.Errorf("resolved %s, want %s", byNumber.ID, ticket.ID)
	}
	if _, err := svc.GetTicket(context.Background(), "SVC-DEADBEEF"); err == nil {
		t.Error("expected not-found for unknown number")
	}
}

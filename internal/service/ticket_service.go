package service

import (
	"context"
	"errors"
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

// TicketService governs the after-sales service ticket lifecycle.
type TicketService struct {
	tickets    repository.TicketRepository
	history    repository.TicketHistoryRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	sla        config.SLAConfig
	sim        config.SimulationConfig
	now        Clock
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	HistoryRepo repository.TicketHistoryRepository
	UserRepo    repository.UserRepository
	Dispatcher  events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	CustomerID    *string
	ReporterName  string
	ReporterPhone string
	ChassisNumber string
	EngineNumber  string
	HourMeter     int
	Subject       string
	Description   string
	Priority      domain.TicketPriority
	ShowroomID    *string
}

// TransitionRequirement tells the caller which operator input a status
// change needs before it can be applied.
type TransitionRequirement string

const (
	RequirementNone              TransitionRequirement = "NONE"
	RequirementAssignPIC         TransitionRequirement = "ASSIGN_PIC"
	RequirementCorrectiveActions TransitionRequirement = "CORRECTIVE_ACTIONS"
)

// TransitionInput carries the operator-confirmed values for a transition.
type TransitionInput struct {
	PIC               *string
	CorrectiveActions []string
}

// ReportPatch carries a partial update to a service report. Nil fields are
// left untouched; last write wins.
type ReportPatch struct {
	IsWarranty       *bool
	StartTime        *string
	FinishTime       *string
	DiagnosisSymptom *string
	DiagnosisCause   *string
	SpareParts       *[]domain.SparePart
}

// ChecklistPatch carries a partial update to the engine checklist.
type ChecklistPatch struct {
	OilPressureBefore *string
	OilPressureAfter  *string
	Temperature       *string
	SmokeStatus       *domain.ConditionStatus
	IntakeStatus      *domain.ConditionStatus
	NoiseStatus       *domain.ConditionStatus
	BatteryVoltage    *string
	RadiatorLevel     *string
	AirFilterStatus   *domain.FilterStatus
	FuelFilterStatus  *domain.FilterStatus
}

// EvidencePatch carries a partial update to the evidence checklist.
type EvidencePatch struct {
	UnitPhoto       *bool
	ChassisPhoto    *bool
	HourMeterPhoto  *bool
	DamagePhoto     *bool
	SparePartPhoto  *bool
	AfterRepairShot *bool
}

// BoardColumn groups tickets for kanban rendering.
type BoardColumn struct {
	Status  domain.TicketStatus
	Tickets []domain.ServiceTicket
}

// NewTicketService constructs the service.
func NewTicketService(cfg config.Config, deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		history:    deps.HistoryRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		sla:        cfg.SLA,
		sim:        cfg.Simulation,
		now:        time.Now,
	}
}

var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:           {domain.TicketStatusReadyToProcess, domain.TicketStatusInProgress},
	domain.TicketStatusReadyToProcess: {domain.TicketStatusInProgress},
	domain.TicketStatusInProgress:     {domain.TicketStatusWaitingParts, domain.TicketStatusResolved},
	domain.TicketStatusWaitingParts:   {domain.TicketStatusInProgress},
	domain.TicketStatusResolved:       {},
}

func isValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// RequestTransition reports which operator input the given status change
// needs before it can be applied. Moving into READY_TO_PROCESS requires a
// responsible technician; entering IN_PROGRESS requires an initial list of
// corrective-action points; everything else applies immediately.
func RequestTransition(current, target domain.TicketStatus) TransitionRequirement {
	switch {
	case target == domain.TicketStatusReadyToProcess:
		return RequirementAssignPIC
	case target == domain.TicketStatusInProgress && current != domain.TicketStatusInProgress:
		return RequirementCorrectiveActions
	default:
		return RequirementNone
	}
}

// ClassifySLA is the pure aging classification: resolved tickets are done,
// otherwise elapsed time since creation is graded against the warning and
// breach thresholds.
func ClassifySLA(createdAt time.Time, status domain.TicketStatus, now time.Time, warning, breach time.Duration) domain.SLAState {
	if status == domain.TicketStatusResolved {
		return domain.SLADone
	}
	elapsed := now.Sub(createdAt)
	switch {
	case elapsed >= breach:
		return domain.SLABreached
	case elapsed >= warning:
		return domain.SLAWarning
	default:
		return domain.SLAActive
	}
}

// ComputeSLA classifies a ticket against the configured thresholds.
func (s *TicketService) ComputeSLA(createdAt time.Time, status domain.TicketStatus) domain.SLAState {
	return ClassifySLA(createdAt, status, s.now(), s.sla.Warning(), s.sla.Breach())
}

// CreateTicket registers a new complaint as OPEN with no report attached.
// The call goes through the simulated dispatch latency before returning.
func (s *TicketService) CreateTicket(ctx context.Context, actorID *string, input TicketCreateInput) (*domain.ServiceTicket, error) {
	if strings.TrimSpace(input.ReporterName) == "" || strings.TrimSpace(input.Subject) == "" {
		return nil, apperrors.NewValidationError("reporter name and subject required", nil)
	}
	if err := simulateLatency(ctx, s.sim.Latency()); err != nil {
		return nil, err
	}

	ticket := &domain.ServiceTicket{
		TicketNumber:  generateTicketNumber(),
		CustomerID:    input.CustomerID,
		ReporterName:  strings.TrimSpace(input.ReporterName),
		ReporterPhone: strings.TrimSpace(input.ReporterPhone),
		ChassisNumber: strings.TrimSpace(input.ChassisNumber),
		EngineNumber:  strings.TrimSpace(input.EngineNumber),
		HourMeter:     input.HourMeter,
		Subject:       strings.TrimSpace(input.Subject),
		Description:   strings.TrimSpace(input.Description),
		Status:        domain.TicketStatusOpen,
		Priority:      input.Priority,
		EvidenceURLs:  []string{},
		ShowroomID:    input.ShowroomID,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketCreated,
		SubjectID: ticket.ID,
		ActorID:   actorID,
		Payload: events.TicketCreatedPayload{
			TicketNumber: ticket.TicketNumber,
			Priority:     ticket.Priority,
			Subject:      ticket.Subject,
			ShowroomID:   ticket.ShowroomID,
		},
	})
	return ticket, nil
}

// Transition applies a status change with the operator inputs it requires.
// Either the whole mutation applies or the ticket is left untouched.
func (s *TicketService) Transition(ctx context.Context, actorID *string, ticketID string, target domain.TicketStatus, input TransitionInput) (*domain.ServiceTicket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !isValidTransition(ticket.Status, target) {
		return nil, apperrors.NewConflict("invalid status transition", map[string]any{
			"from": ticket.Status,
			"to":   target,
		})
	}

	oldStatus := ticket.Status
	oldAssignee := ticket.AssignedTo
	now := s.now()

	switch target {
	case domain.TicketStatusReadyToProcess:
		pic := ""
		if input.PIC != nil {
			pic = strings.TrimSpace(*input.PIC)
		}
		if pic == "" {
			// blank PIC falls back to whoever already holds the ticket
			if ticket.AssignedTo == nil {
				return nil, apperrors.NewValidationError("responsible technician (PIC) required", nil)
			}
		} else {
			if err := s.verifyMechanic(ctx, pic); err != nil {
				return nil, err
			}
			ticket.AssignedTo = &pic
		}
		ticket.ResponseDate = &now

	case domain.TicketStatusInProgress:
		actions := make([]string, 0, len(input.CorrectiveActions))
		for _, action := range input.CorrectiveActions {
			if trimmed := strings.TrimSpace(action); trimmed != "" {
				actions = append(actions, trimmed)
			}
		}
		if len(actions) == 0 {
			return nil, apperrors.NewValidationError("at least one corrective action required", nil)
		}
		ticket.CorrectiveAction = strings.Join(actions, "\n")
		if ticket.Report == nil {
			ticket.Report = domain.NewServiceReport(now)
		}

	case domain.TicketStatusResolved:
		ticket.CompletionDate = &now
	}

	ticket.Status = target
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.recordHistory(ctx, actorID, ticket.ID, domain.ChangeTypeStatus,
		map[string]any{"status": oldStatus},
		map[string]any{"status": target})
	if !equalAssignee(oldAssignee, ticket.AssignedTo) {
		s.recordHistory(ctx, actorID, ticket.ID, domain.ChangeTypeAssignee,
			map[string]any{"assigned_to": oldAssignee},
			map[string]any{"assigned_to": ticket.AssignedTo})
		s.publishEvent(ctx, events.Event{
			Type:      events.EventTicketAssigned,
			SubjectID: ticket.ID,
			ActorID:   actorID,
			Payload:   events.TicketAssignedPayload{AssignedTo: *ticket.AssignedTo},
		})
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketStatusChanged,
		SubjectID: ticket.ID,
		ActorID:   actorID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: target,
		},
	})
	return ticket, nil
}

// UpdateReport merges a partial report update into the ticket's report.
func (s *TicketService) UpdateReport(ctx context.Context, actorID *string, ticketID string, patch ReportPatch) (*domain.ServiceTicket, error) {
	return s.patchReport(ctx, actorID, ticketID, "report", func(report *domain.ServiceReport) {
		if patch.IsWarranty != nil {
			report.IsWarranty = *patch.IsWarranty
		}
		if patch.StartTime != nil {
			report.StartTime = *patch.StartTime
		}
		if patch.FinishTime != nil {
			report.FinishTime = *patch.FinishTime
		}
		if patch.DiagnosisSymptom != nil {
			report.DiagnosisSymptom = *patch.DiagnosisSymptom
		}
		if patch.DiagnosisCause != nil {
			report.DiagnosisCause = *patch.DiagnosisCause
		}
		if patch.SpareParts != nil {
			report.SpareParts = *patch.SpareParts
		}
	})
}

// MergeChecklist merges a partial checklist update.
func (s *TicketService) MergeChecklist(ctx context.Context, actorID *string, ticketID string, patch ChecklistPatch) (*domain.ServiceTicket, error) {
	return s.patchReport(ctx, actorID, ticketID, "checklist", func(report *domain.ServiceReport) {
		cl := &report.Checklist
		if patch.OilPressureBefore != nil {
			cl.OilPressureBefore = *patch.OilPressureBefore
		}
		if patch.OilPressureAfter != nil {
			cl.OilPressureAfter = *patch.OilPressureAfter
		}
		if patch.Temperature != nil {
			cl.Temperature = *patch.Temperature
		}
		if patch.SmokeStatus != nil {
			cl.SmokeStatus = *patch.SmokeStatus
		}
		if patch.IntakeStatus != nil {
			cl.IntakeStatus = *patch.IntakeStatus
		}
		if patch.NoiseStatus != nil {
			cl.NoiseStatus = *patch.NoiseStatus
		}
		if patch.BatteryVoltage != nil {
			cl.BatteryVoltage = *patch.BatteryVoltage
		}
		if patch.RadiatorLevel != nil {
			cl.RadiatorLevel = *patch.RadiatorLevel
		}
		if patch.AirFilterStatus != nil {
			cl.AirFilterStatus = *patch.AirFilterStatus
		}
		if patch.FuelFilterStatus != nil {
			cl.FuelFilterStatus = *patch.FuelFilterStatus
		}
	})
}

// MergeEvidenceChecklist merges a partial evidence checklist update.
func (s *TicketService) MergeEvidenceChecklist(ctx context.Context, actorID *string, ticketID string, patch EvidencePatch) (*domain.ServiceTicket, error) {
	return s.patchReport(ctx, actorID, ticketID, "evidence", func(report *domain.ServiceReport) {
		ev := &report.Evidence
		if patch.UnitPhoto != nil {
			ev.UnitPhoto = *patch.UnitPhoto
		}
		if patch.ChassisPhoto != nil {
			ev.ChassisPhoto = *patch.ChassisPhoto
		}
		if patch.HourMeterPhoto != nil {
			ev.HourMeterPhoto = *patch.HourMeterPhoto
		}
		if patch.DamagePhoto != nil {
			ev.DamagePhoto = *patch.DamagePhoto
		}
		if patch.SparePartPhoto != nil {
			ev.SparePartPhoto = *patch.SparePartPhoto
		}
		if patch.AfterRepairShot != nil {
			ev.AfterRepairShot = *patch.AfterRepairShot
		}
	})
}

// AttachPhoto appends an evidence photo reference, capped at five.
func (s *TicketService) AttachPhoto(ctx context.Context, actorID *string, ticketID, url string) (*domain.ServiceTicket, error) {
	if strings.TrimSpace(url) == "" {
		return nil, apperrors.NewValidationError("photo url required", nil)
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if len(ticket.EvidenceURLs) >= domain.MaxEvidencePhotos {
		return nil, apperrors.NewValidationError("maximum of 5 evidence photos reached", map[string]any{
			"ticket_id": ticketID,
		})
	}
	ticket.EvidenceURLs = append(ticket.EvidenceURLs, strings.TrimSpace(url))
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.recordHistory(ctx, actorID, ticket.ID, domain.ChangeTypePhoto,
		map[string]any{"count": len(ticket.EvidenceURLs) - 1},
		map[string]any{"count": len(ticket.EvidenceURLs)})
	return ticket, nil
}

// GetTicket fetches one ticket.
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*domain.ServiceTicket, error) {
	return s.getTicket(ctx, ticketID)
}

// ListTickets returns tickets matching the filter.
func (s *TicketService) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.ServiceTicket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// Board groups open work into kanban columns in workflow order.
func (s *TicketService) Board(ctx context.Context, filter repository.TicketFilter) ([]BoardColumn, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	order := []domain.TicketStatus{
		domain.TicketStatusOpen,
		domain.TicketStatusReadyToProcess,
		domain.TicketStatusInProgress,
		domain.TicketStatusWaitingParts,
		domain.TicketStatusResolved,
	}
	byStatus := make(map[domain.TicketStatus][]domain.ServiceTicket, len(order))
	for _, ticket := range tickets {
		byStatus[ticket.Status] = append(byStatus[ticket.Status], ticket)
	}
	columns := make([]BoardColumn, 0, len(order))
	for _, status := range order {
		columns = append(columns, BoardColumn{Status: status, Tickets: byStatus[status]})
	}
	return columns, nil
}

// ListHistory returns audit entries for a ticket.
func (s *TicketService) ListHistory(ctx context.Context, ticketID string, limit, offset int) ([]domain.TicketHistory, error) {
	if s.history == nil {
		return []domain.TicketHistory{}, nil
	}
	if _, err := s.getTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	entries, err := s.history.ListByTicket(ctx, ticketID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// getTicket resolves either the row ID or the human-facing SVC- number.
func (s *TicketService) getTicket(ctx context.Context, ticketID string) (*domain.ServiceTicket, error) {
	var (
		ticket *domain.ServiceTicket
		err    error
	)
	if strings.HasPrefix(ticketID, "SVC-") {
		ticket, err = s.tickets.GetByNumber(ctx, ticketID)
	} else {
		ticket, err = s.tickets.GetByID(ctx, ticketID)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) patchReport(ctx context.Context, actorID *string, ticketID, section string, apply func(*domain.ServiceReport)) (*domain.ServiceTicket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Report == nil {
		return nil, apperrors.NewConflict("ticket has no report; start work first", map[string]any{
			"ticket_id": ticketID,
			"status":    ticket.Status,
		})
	}
	apply(ticket.Report)
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.recordHistory(ctx, actorID, ticket.ID, domain.ChangeTypeReport,
		nil, map[string]any{"section": section})
	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketReportUpdated,
		SubjectID: ticket.ID,
		ActorID:   actorID,
		Payload:   events.TicketReportUpdatedPayload{Section: section},
	})
	return ticket, nil
}

func (s *TicketService) verifyMechanic(ctx context.Context, userID string) error {
	if s.users == nil {
		return nil
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("technician not found", map[string]any{"user_id": userID})
		}
		return apperrors.MapError(err)
	}
	if user.Role != domain.RoleMechanic {
		return apperrors.NewValidationError("PIC must be a mechanic", map[string]any{"user_id": userID})
	}
	if !user.Active {
		return apperrors.NewConflict("technician inactive", map[string]any{"user_id": userID})
	}
	return nil
}

func (s *TicketService) recordHistory(ctx context.Context, actorID *string, ticketID string, changeType domain.TicketChangeType, oldValue, newValue map[string]any) {
	if s.history == nil {
		return
	}
	entry := &domain.TicketHistory{
		TicketID:   ticketID,
		ChangedBy:  actorID,
		ChangeType: changeType,
		OldValue:   oldValue,
		NewValue:   newValue,
	}
	_ = s.history.Create(ctx, entry)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
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

func generateTicketNumber() string {
	return "SVC-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func equalAssignee(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

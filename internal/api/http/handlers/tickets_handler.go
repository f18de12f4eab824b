package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/agrimech/crm-service/internal/api/dto"
	"github.com/agrimech/crm-service/internal/auth"
	"github.com/agrimech/crm-service/internal/domain"
	"github.com/agrimech/crm-service/internal/repository"
	"github.com/agrimech/crm-service/internal/service"
	apperrors "github.com/agrimech/crm-service/pkg/util"
)

// TicketsHandler manages service ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.TicketCreateInput{
		CustomerID:    req.CustomerID,
		ReporterName:  req.ReporterName,
		ReporterPhone: req.ReporterPhone,
		ChassisNumber: req.ChassisNumber,
		EngineNumber:  req.EngineNumber,
		HourMeter:     req.HourMeter,
		Subject:       req.Subject,
		Description:   req.Description,
		Priority:      req.Priority,
		ShowroomID:    req.ShowroomID,
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), actorID(c), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": h.ticketDetail(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter := parseTicketQuery(c)
	tickets, err := h.service.ListTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, h.ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Board GET /tickets/board.
func (h *TicketsHandler) Board(c *fiber.Ctx) error {
	filter := parseTicketQuery(c)
	columns, err := h.service.Board(c.UserContext(), filter)
	if err != nil {
		return err
	}
	resp := make([]dto.BoardColumnResponse, 0, len(columns))
	for _, column := range columns {
		tickets := make([]dto.TicketSummary, 0, len(column.Tickets))
		for i := range column.Tickets {
			tickets = append(tickets, h.ticketSummary(&column.Tickets[i]))
		}
		resp = append(resp, dto.BoardColumnResponse{Status: column.Status, Tickets: tickets})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.ticketDetail(ticket)})
}

// PreviewTransition GET /tickets/:id/transition.
func (h *TicketsHandler) PreviewTransition(c *fiber.Ctx) error {
	target := domain.TicketStatus(c.Query("to"))
	if target == "" {
		return apperrors.NewValidationError("target status required", nil)
	}
	ticket, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TransitionPreviewResponse{
		From:        ticket.Status,
		To:          target,
		Requirement: string(service.RequestTransition(ticket.Status, target)),
	}})
}

// Transition POST /tickets/:id/transition.
func (h *TicketsHandler) Transition(c *fiber.Ctx) error {
	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}
	ticket, err := h.service.Transition(c.UserContext(), actorID(c), c.Params("id"), req.Status, service.TransitionInput{
		PIC:               req.PIC,
		CorrectiveActions: req.CorrectiveActions,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.ticketDetail(ticket)})
}

// UpdateReport PATCH /tickets/:id/report.
func (h *TicketsHandler) UpdateReport(c *fiber.Ctx) error {
	var req dto.ReportPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ctx := c.UserContext()
	actor := actorID(c)
	ticketID := c.Params("id")

	ticket, err := h.service.UpdateReport(ctx, actor, ticketID, service.ReportPatch{
		IsWarranty:       req.IsWarranty,
		StartTime:        req.StartTime,
		FinishTime:       req.FinishTime,
		DiagnosisSymptom: req.DiagnosisSymptom,
		DiagnosisCause:   req.DiagnosisCause,
		SpareParts:       req.SpareParts,
	})
	if err != nil {
		return err
	}
	if req.Checklist != nil {
		if ticket, err = h.service.MergeChecklist(ctx, actor, ticketID, checklistPatch(req.Checklist)); err != nil {
			return err
		}
	}
	if req.Evidence != nil {
		if ticket, err = h.service.MergeEvidenceChecklist(ctx, actor, ticketID, evidencePatch(req.Evidence)); err != nil {
			return err
		}
	}
	return c.JSON(fiber.Map{"data": h.ticketDetail(ticket)})
}

// UpdateChecklist PATCH /tickets/:id/report/checklist.
func (h *TicketsHandler) UpdateChecklist(c *fiber.Ctx) error {
	var req dto.ChecklistPatchBody
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.MergeChecklist(c.UserContext(), actorID(c), c.Params("id"), checklistPatch(&req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.ticketDetail(ticket)})
}

// UpdateEvidence PATCH /tickets/:id/report/evidence.
func (h *TicketsHandler) UpdateEvidence(c *fiber.Ctx) error {
	var req dto.EvidencePatchBody
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.MergeEvidenceChecklist(c.UserContext(), actorID(c), c.Params("id"), evidencePatch(&req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.ticketDetail(ticket)})
}

// AttachPhoto POST /tickets/:id/photos.
func (h *TicketsHandler) AttachPhoto(c *fiber.Ctx) error {
	var req dto.AttachPhotoRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.AttachPhoto(c.UserContext(), actorID(c), c.Params("id"), req.URL)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": h.ticketDetail(ticket)})
}

// ListHistory GET /tickets/:id/history.
func (h *TicketsHandler) ListHistory(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	entries, err := h.service.ListHistory(c.UserContext(), c.Params("id"), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	resp := make([]dto.TicketHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.TicketHistoryResponse{
			ID:         entry.ID,
			ChangedBy:  entry.ChangedBy,
			ChangeType: entry.ChangeType,
			OldValue:   entry.OldValue,
			NewValue:   entry.NewValue,
			CreatedAt:  entry.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

func (h *TicketsHandler) ticketSummary(ticket *domain.ServiceTicket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:           ticket.ID,
		TicketNumber: ticket.TicketNumber,
		ReporterName: ticket.ReporterName,
		Subject:      ticket.Subject,
		Status:       ticket.Status,
		Priority:     ticket.Priority,
		SLA:          h.service.ComputeSLA(ticket.CreatedAt, ticket.Status),
		AssignedTo:   ticket.AssignedTo,
		ShowroomID:   ticket.ShowroomID,
		CreatedAt:    ticket.CreatedAt,
		UpdatedAt:    ticket.UpdatedAt,
	}
}

func (h *TicketsHandler) ticketDetail(ticket *domain.ServiceTicket) dto.TicketDetailResponse {
	return dto.TicketDetailResponse{
		ID:               ticket.ID,
		TicketNumber:     ticket.TicketNumber,
		CustomerID:       ticket.CustomerID,
		ReporterName:     ticket.ReporterName,
		ReporterPhone:    ticket.ReporterPhone,
		ChassisNumber:    ticket.ChassisNumber,
		EngineNumber:     ticket.EngineNumber,
		HourMeter:        ticket.HourMeter,
		Subject:          ticket.Subject,
		Description:      ticket.Description,
		Status:           ticket.Status,
		Priority:         ticket.Priority,
		SLA:              h.service.ComputeSLA(ticket.CreatedAt, ticket.Status),
		AssignedTo:       ticket.AssignedTo,
		CorrectiveAction: ticket.CorrectiveAction,
		ResponseDate:     ticket.ResponseDate,
		CompletionDate:   ticket.CompletionDate,
		EvidenceURLs:     ticket.EvidenceURLs,
		Report:           ticket.Report,
		ShowroomID:       ticket.ShowroomID,
		CreatedAt:        ticket.CreatedAt,
		UpdatedAt:        ticket.UpdatedAt,
	}
}

func checklistPatch(body *dto.ChecklistPatchBody) service.ChecklistPatch {
	return service.ChecklistPatch{
		OilPressureBefore: body.OilPressureBefore,
		OilPressureAfter:  body.OilPressureAfter,
		Temperature:       body.Temperature,
		SmokeStatus:       body.SmokeStatus,
		IntakeStatus:      body.IntakeStatus,
		NoiseStatus:       body.NoiseStatus,
		BatteryVoltage:    body.BatteryVoltage,
		RadiatorLevel:     body.RadiatorLevel,
		AirFilterStatus:   body.AirFilterStatus,
		FuelFilterStatus:  body.FuelFilterStatus,
	}
}

func evidencePatch(body *dto.EvidencePatchBody) service.EvidencePatch {
	return service.EvidencePatch{
		UnitPhoto:       body.UnitPhoto,
		ChassisPhoto:    body.ChassisPhoto,
		HourMeterPhoto:  body.HourMeterPhoto,
		DamagePhoto:     body.DamagePhoto,
		SparePartPhoto:  body.SparePartPhoto,
		AfterRepairShot: body.AfterRepairShot,
	}
}

func parseTicketQuery(c *fiber.Ctx) repository.TicketFilter {
	filter := repository.TicketFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			filter.Priorities = append(filter.Priorities, domain.TicketPriority(strings.TrimSpace(part)))
		}
	}
	if assigned := c.Query("assigned_to"); assigned != "" {
		filter.AssignedTo = &assigned
	}
	if showroom := c.Query("showroom_id"); showroom != "" {
		filter.ShowroomID = &showroom
	}
	if search := c.Query("q"); search != "" {
		filter.SearchTerm = &search
	}
	if from := parseTime(c.Query("created_from")); from != nil {
		filter.CreatedFrom = from
	}
	if to := parseTime(c.Query("created_to")); to != nil {
		filter.CreatedTo = to
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func actorID(c *fiber.Ctx) *string {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return nil
	}
	return &user.ID
}

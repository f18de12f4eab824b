package events

import (
	"time"

	"github.com/agrimech/crm-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketReportUpdated EventType = "ticket_report_updated"
	EventTargetDistributed   EventType = "target_distributed"
	EventLeadCreated         EventType = "lead_created"
	EventDemoScheduled       EventType = "demo_scheduled"
)

// Event represents a domain event emitted by services. SubjectID names the
// entity the event concerns (ticket, region, lead) depending on the type.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	ActorID   *string     `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketNumber string                `json:"ticket_number"`
	Priority     domain.TicketPriority `json:"priority"`
	Subject      string                `json:"subject"`
	ShowroomID   *string               `json:"showroom_id,omitempty"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssignedTo string `json:"assigned_to"`
}

// TicketReportUpdatedPayload payload.
type TicketReportUpdatedPayload struct {
	Section string `json:"section"`
}

// TargetDistributedPayload payload.
type TargetDistributedPayload struct {
	Strategy       string `json:"strategy"`
	NationalTarget int64  `json:"national_target"`
}

// LeadCreatedPayload payload.
type LeadCreatedPayload struct {
	CustomerName string           `json:"customer_name"`
	Stage        domain.LeadStage `json:"stage"`
}

// DemoScheduledPayload payload.
type DemoScheduledPayload struct {
	CustomerName string    `json:"customer_name"`
	ProductID    string    `json:"product_id"`
	ScheduledAt  time.Time `json:"scheduled_at"`
}

package domain

import "time"

// TicketStatus enumerates lifecycle states for service tickets.
type TicketStatus string

const (
	TicketStatusOpen           TicketStatus = "OPEN"
	TicketStatusReadyToProcess TicketStatus = "READY_TO_PROCESS"
	TicketStatusInProgress     TicketStatus = "IN_PROGRESS"
	TicketStatusWaitingParts   TicketStatus = "WAITING_PARTS"
	TicketStatusResolved       TicketStatus = "RESOLVED"
)

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
)

// SLAState classifies ticket aging against response thresholds.
type SLAState string

const (
	SLADone     SLAState = "DONE"
	SLAActive   SLAState = "ACTIVE"
	SLAWarning  SLAState = "WARNING"
	SLABreached SLAState = "BREACHED"
)

// MaxEvidencePhotos caps evidence attachments per ticket.
const MaxEvidencePhotos = 5

// ServiceTicket is the aggregate for after-sales work orders.
type ServiceTicket struct {
	ID               string
	TicketNumber     string
	CustomerID       *string
	ReporterName     string
	ReporterPhone    string
	ChassisNumber    string
	EngineNumber     string
	HourMeter        int
	Subject          string
	Description      string
	Status           TicketStatus
	Priority         TicketPriority
	AssignedTo       *string
	CorrectiveAction string
	ResponseDate     *time.Time
	CompletionDate   *time.Time
	EvidenceURLs     []string
	Report           *ServiceReport
	ShowroomID       *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

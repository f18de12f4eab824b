package dto

import (
	"time"

	"github.com/agrimech/crm-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	CustomerID    *string               `json:"customer_id"`
	ReporterName  string                `json:"reporter_name"`
	ReporterPhone string                `json:"reporter_phone"`
	ChassisNumber string                `json:"chassis_number"`
	EngineNumber  string                `json:"engine_number"`
	HourMeter     int                   `json:"hour_meter"`
	Subject       string                `json:"subject"`
	Description   string                `json:"description"`
	Priority      domain.TicketPriority `json:"priority"`
	ShowroomID    *string               `json:"showroom_id"`
}

// TransitionRequest payload for a status change.
type TransitionRequest struct {
	Status            domain.TicketStatus `json:"status"`
	PIC               *string             `json:"pic"`
	CorrectiveActions []string            `json:"corrective_actions"`
}

// ReportPatchRequest carries a partial service report update.
type ReportPatchRequest struct {
	IsWarranty       *bool                `json:"is_warranty"`
	StartTime        *string              `json:"start_time"`
	FinishTime       *string              `json:"finish_time"`
	DiagnosisSymptom *string              `json:"diagnosis_symptom"`
	DiagnosisCause   *string              `json:"diagnosis_cause"`
	SpareParts       *[]domain.SparePart  `json:"spare_parts"`
	Checklist        *ChecklistPatchBody  `json:"checklist"`
	Evidence         *EvidencePatchBody   `json:"evidence"`
}

// ChecklistPatchBody carries a partial engine checklist update.
type ChecklistPatchBody struct {
	OilPressureBefore *string                 `json:"oil_pressure_before"`
	OilPressureAfter  *string                 `json:"oil_pressure_after"`
	Temperature       *string                 `json:"temperature"`
	SmokeStatus       *domain.ConditionStatus `json:"smoke_status"`
	IntakeStatus      *domain.ConditionStatus `json:"intake_status"`
	NoiseStatus       *domain.ConditionStatus `json:"noise_status"`
	BatteryVoltage    *string                 `json:"battery_voltage"`
	RadiatorLevel     *string                 `json:"radiator_level"`
	AirFilterStatus   *domain.FilterStatus    `json:"air_filter_status"`
	FuelFilterStatus  *domain.FilterStatus    `json:"fuel_filter_status"`
}

// EvidencePatchBody carries a partial evidence checklist update.
type EvidencePatchBody struct {
	UnitPhoto       *bool `json:"unit_photo"`
	ChassisPhoto    *bool `json:"chassis_photo"`
	HourMeterPhoto  *bool `json:"hour_meter_photo"`
	DamagePhoto     *bool `json:"damage_photo"`
	SparePartPhoto  *bool `json:"spare_part_photo"`
	AfterRepairShot *bool `json:"after_repair_shot"`
}

// AttachPhotoRequest payload.
type AttachPhotoRequest struct {
	URL string `json:"url"`
}

// TicketSummary response.
type TicketSummary struct {
	ID           string                `json:"id"`
	TicketNumber string                `json:"ticket_number"`
	ReporterName string                `json:"reporter_name"`
	Subject      string                `json:"subject"`
	Status       domain.TicketStatus   `json:"status"`
	Priority     domain.TicketPriority `json:"priority"`
	SLA          domain.SLAState       `json:"sla"`
	AssignedTo   *string               `json:"assigned_to"`
	ShowroomID   *string               `json:"showroom_id"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	ID               string                `json:"id"`
	TicketNumber     string                `json:"ticket_number"`
	CustomerID       *string               `json:"customer_id"`
	ReporterName     string                `json:"reporter_name"`
	ReporterPhone    string                `json:"reporter_phone"`
	ChassisNumber    string                `json:"chassis_number"`
	EngineNumber     string                `json:"engine_number"`
	HourMeter        int                   `json:"hour_meter"`
	Subject          string                `json:"subject"`
	Description      string                `json:"description"`
	Status           domain.TicketStatus   `json:"status"`
	Priority         domain.TicketPriority `json:"priority"`
	SLA              domain.SLAState       `json:"sla"`
	AssignedTo       *string               `json:"assigned_to"`
	CorrectiveAction string                `json:"corrective_action"`
	ResponseDate     *time.Time            `json:"response_date"`
	CompletionDate   *time.Time            `json:"completion_date"`
	EvidenceURLs     []string              `json:"evidence_urls"`
	Report           *domain.ServiceReport `json:"report"`
	ShowroomID       *string               `json:"showroom_id"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// TransitionPreviewResponse tells the client which operator input a status
// change needs before it can be applied.
type TransitionPreviewResponse struct {
	From        domain.TicketStatus `json:"from"`
	To          domain.TicketStatus `json:"to"`
	Requirement string              `json:"requirement"`
}

// BoardColumnResponse groups summaries for kanban rendering.
type BoardColumnResponse struct {
	Status  domain.TicketStatus `json:"status"`
	Tickets []TicketSummary     `json:"tickets"`
}

// TicketHistoryResponse is one audit trail entry.
type TicketHistoryResponse struct {
	ID         string                  `json:"id"`
	ChangedBy  *string                 `json:"changed_by"`
	ChangeType domain.TicketChangeType `json:"change_type"`
	OldValue   map[string]any          `json:"old_value"`
	NewValue   map[string]any          `json:"new_value"`
	CreatedAt  time.Time               `json:"created_at"`
}

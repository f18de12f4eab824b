package domain

import "time"

// LeadStage enumerates pipeline positions.
type LeadStage string

const (
	LeadStageNew       LeadStage = "NEW"
	LeadStageContacted LeadStage = "CONTACTED"
	LeadStageQualified LeadStage = "QUALIFIED"
	LeadStageQuoted    LeadStage = "QUOTED"
	LeadStageWon       LeadStage = "WON"
	LeadStageLost      LeadStage = "LOST"
)

// DemoStatus enumerates demo appointment states.
type DemoStatus string

const (
	DemoStatusRequested DemoStatus = "REQUESTED"
	DemoStatusConfirmed DemoStatus = "CONFIRMED"
	DemoStatusCompleted DemoStatus = "COMPLETED"
	DemoStatusCancelled DemoStatus = "CANCELLED"
)

// Lead is a sales prospect. Leads and demos are persisted as JSON blobs
// under fixed store keys, so both carry serialization tags.
type Lead struct {
	ID              string    `json:"id"`
	CustomerName    string    `json:"customer_name"`
	Phone           string    `json:"phone"`
	Source          string    `json:"source"`
	Stage           LeadStage `json:"stage"`
	ProductInterest string    `json:"product_interest"`
	ShowroomID      *string   `json:"showroom_id,omitempty"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DemoSchedule is a field demonstration appointment.
type DemoSchedule struct {
	ID           string     `json:"id"`
	LeadID       *string    `json:"lead_id,omitempty"`
	CustomerName string     `json:"customer_name"`
	ProductID    string     `json:"product_id"`
	ScheduledAt  time.Time  `json:"scheduled_at"`
	Location     string     `json:"location"`
	Status       DemoStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
}

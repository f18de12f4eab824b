package dto

import (
	"time"

	"github.com/agrimech/crm-service/internal/domain"
)

// CreateLeadRequest payload.
type CreateLeadRequest struct {
	CustomerName    string  `json:"customer_name"`
	Phone           string  `json:"phone"`
	Source          string  `json:"source"`
	ProductInterest string  `json:"product_interest"`
	ShowroomID      *string `json:"showroom_id"`
	Notes           string  `json:"notes"`
}

// UpdateLeadRequest carries a partial lead update.
type UpdateLeadRequest struct {
	CustomerName    *string           `json:"customer_name"`
	Phone           *string           `json:"phone"`
	Source          *string           `json:"source"`
	Stage           *domain.LeadStage `json:"stage"`
	ProductInterest *string           `json:"product_interest"`
	ShowroomID      *string           `json:"showroom_id"`
	Notes           *string           `json:"notes"`
}

// ScheduleDemoRequest payload.
type ScheduleDemoRequest struct {
	LeadID       *string   `json:"lead_id"`
	CustomerName string    `json:"customer_name"`
	ProductID    string    `json:"product_id"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	Location     string    `json:"location"`
}

// StockCheckRequest payload.
type StockCheckRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// ServiceResultResponse is the outcome of the simulated external calls.
type ServiceResultResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

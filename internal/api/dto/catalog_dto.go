package dto

import (
	"time"

	"github.com/agrimech/crm-service/internal/domain"
)

// ProductRequest payload for create and update.
type ProductRequest struct {
	Code       string                 `json:"code"`
	Name       string                 `json:"name"`
	Category   domain.ProductCategory `json:"category"`
	Price      int64                  `json:"price"`
	StockLevel int                    `json:"stock_level"`
	IsActive   bool                   `json:"is_active"`
}

// ProductResponse is one catalog entry.
type ProductResponse struct {
	ID         string                 `json:"id"`
	Code       string                 `json:"code"`
	Name       string                 `json:"name"`
	Category   domain.ProductCategory `json:"category"`
	Price      int64                  `json:"price"`
	StockLevel int                    `json:"stock_level"`
	IsActive   bool                   `json:"is_active"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// CustomerRequest payload for create and update.
type CustomerRequest struct {
	Name       string  `json:"name"`
	Phone      string  `json:"phone"`
	Email      string  `json:"email"`
	Address    string  `json:"address"`
	ShowroomID *string `json:"showroom_id"`
}

// CustomerResponse is one customer record.
type CustomerResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	Address    string    `json:"address"`
	ShowroomID *string   `json:"showroom_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

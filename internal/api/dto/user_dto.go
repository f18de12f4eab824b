package dto

import (
	"time"

	"github.com/agrimech/crm-service/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse returns a signed access token.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// CreateUserRequest payload.
type CreateUserRequest struct {
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Password     string          `json:"password"`
	Role         domain.UserRole `json:"role"`
	RegionID     *string         `json:"region_id"`
	SubRegionID  *string         `json:"sub_region_id"`
	ShowroomID   *string         `json:"showroom_id"`
	Permissions  []string        `json:"permissions"`
	AnnualTarget *int64          `json:"annual_target"`
}

// UpdateUserRequest carries a partial personnel update.
type UpdateUserRequest struct {
	Name            *string          `json:"name"`
	Role            *domain.UserRole `json:"role"`
	RegionID        *string          `json:"region_id"`
	SubRegionID     *string          `json:"sub_region_id"`
	ShowroomID      *string          `json:"showroom_id"`
	Permissions     []string         `json:"permissions"`
	AnnualTarget    *int64           `json:"annual_target"`
	AchievedRevenue *int64           `json:"achieved_revenue"`
	Active          *bool            `json:"active"`
}

// UserResponse is one personnel record, password hash excluded.
type UserResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Role            domain.UserRole `json:"role"`
	RegionID        *string         `json:"region_id"`
	SubRegionID     *string         `json:"sub_region_id"`
	ShowroomID      *string         `json:"showroom_id"`
	Permissions     []string        `json:"permissions"`
	AnnualTarget    *int64          `json:"annual_target"`
	AchievedRevenue *int64          `json:"achieved_revenue"`
	Active          bool            `json:"active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

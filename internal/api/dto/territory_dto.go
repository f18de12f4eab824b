package dto

import "time"

// RegionRequest payload for creating or updating a regional zone.
type RegionRequest struct {
	Name                   string `json:"name"`
	CurrentYearAchievement int64  `json:"current_year_achievement"`
	LastYearRevenue        int64  `json:"last_year_revenue"`
}

// RegionResponse represents a regional zone.
type RegionResponse struct {
	ID                     string    `json:"id"`
	Name                   string    `json:"name"`
	AnnualTarget           int64     `json:"annual_target"`
	CurrentYearAchievement int64     `json:"current_year_achievement"`
	LastYearRevenue        int64     `json:"last_year_revenue"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// SubRegionResponse represents a sub-region.
type SubRegionResponse struct {
	ID                     string `json:"id"`
	RegionID               string `json:"region_id"`
	Name                   string `json:"name"`
	AnnualTarget           int64  `json:"annual_target"`
	CurrentYearAchievement int64  `json:"current_year_achievement"`
	LastYearRevenue        int64  `json:"last_year_revenue"`
}

// ShowroomResponse represents a showroom.
type ShowroomResponse struct {
	ID                     string `json:"id"`
	SubRegionID            string `json:"sub_region_id"`
	Name                   string `json:"name"`
	City                   string `json:"city"`
	AnnualTarget           int64  `json:"annual_target"`
	CurrentYearAchievement int64  `json:"current_year_achievement"`
	LastYearRevenue        int64  `json:"last_year_revenue"`
	IsActive               bool   `json:"is_active"`
}

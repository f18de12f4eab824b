package domain

import "time"

// RegionalZone is the top level of the sales territory hierarchy.
// AnnualTarget holds the current allocation in whole currency units.
type RegionalZone struct {
	ID                     string
	Name                   string
	AnnualTarget           int64
	CurrentYearAchievement int64
	LastYearRevenue        int64
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// SubRegional sits between a regional zone and its showrooms.
type SubRegional struct {
	ID                     string
	RegionID               string
	Name                   string
	AnnualTarget           int64
	CurrentYearAchievement int64
	LastYearRevenue        int64
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// Showroom is the leaf sales unit carrying its own annual target.
type Showroom struct {
	ID                     string
	SubRegionID            string
	Name                   string
	City                   string
	AnnualTarget           int64
	CurrentYearAchievement int64
	LastYearRevenue        int64
	IsActive               bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

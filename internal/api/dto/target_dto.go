package dto

// SetNationalTargetRequest payload.
type SetNationalTargetRequest struct {
	Target int64 `json:"target"`
}

// SetLevelTargetRequest payload for region/sub-region/showroom overrides.
type SetLevelTargetRequest struct {
	Target int64 `json:"target"`
}

// ShowroomAllocationResponse reports one showroom's target.
type ShowroomAllocationResponse struct {
	ShowroomID             string `json:"showroom_id"`
	Name                   string `json:"name"`
	AnnualTarget           int64  `json:"annual_target"`
	CurrentYearAchievement int64  `json:"current_year_achievement"`
	LastYearRevenue        int64  `json:"last_year_revenue"`
}

// SubRegionAllocationResponse reports one sub-region with its showrooms.
type SubRegionAllocationResponse struct {
	SubRegionID   string                       `json:"sub_region_id"`
	Name          string                       `json:"name"`
	AnnualTarget  int64                        `json:"annual_target"`
	Allocated     int64                        `json:"allocated"`
	OverAllocated bool                         `json:"over_allocated"`
	Showrooms     []ShowroomAllocationResponse `json:"showrooms"`
}

// RegionAllocationResponse reports one region with its sub-regions.
type RegionAllocationResponse struct {
	RegionID      string                        `json:"region_id"`
	Name          string                        `json:"name"`
	AnnualTarget  int64                         `json:"annual_target"`
	Allocated     int64                         `json:"allocated"`
	OverAllocated bool                          `json:"over_allocated"`
	SubRegions    []SubRegionAllocationResponse `json:"sub_regions"`
}

// DistributionSummaryResponse is the full allocation picture.
type DistributionSummaryResponse struct {
	NationalTarget int64                      `json:"national_target"`
	Regions        []RegionAllocationResponse `json:"regions"`
}

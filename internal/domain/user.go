package domain

import "time"

// UserRole enumerates organizational roles across the dealer network.
type UserRole string

const (
	RoleSuperAdmin        UserRole = "SUPER_ADMIN"
	RoleNationalSales     UserRole = "NATIONAL_SALES_MANAGER"
	RoleRegionalManager   UserRole = "REGIONAL_MANAGER"
	RoleSubRegionalMgr    UserRole = "SUB_REGIONAL_MANAGER"
	RoleShowroomManager   UserRole = "SHOWROOM_MANAGER"
	RoleSalesArea         UserRole = "SALES_AREA"
	RoleServiceManager    UserRole = "SERVICE_MANAGER"
	RoleServiceAdmin      UserRole = "SERVICE_ADMIN"
	RoleMechanic          UserRole = "MECHANIC"
	RoleInventoryAdmin    UserRole = "INVENTORY_ADMIN"
	RoleMarketingAnalyst  UserRole = "MARKETING_ANALYST"
	RoleAfterSalesSupport UserRole = "AFTER_SALES_SUPPORT"
)

// User is a personnel record. Region/sub-region/showroom assignment and page
// permissions are optional; AnnualTarget and AchievedRevenue are meaningful
// for the SALES_AREA role only.
type User struct {
	ID              string
	Name            string
	Email           string
	PasswordHash    string
	Role            UserRole
	RegionID        *string
	SubRegionID     *string
	ShowroomID      *string
	Permissions     []string
	AnnualTarget    *int64
	AchievedRevenue *int64
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasPermission reports whether the user may open the given page. An empty
// permission list means the role's default pages apply.
func (u *User) HasPermission(page string) bool {
	if len(u.Permissions) == 0 {
		return true
	}
	for _, p := range u.Permissions {
		if p == page {
			return true
		}
	}
	return false
}

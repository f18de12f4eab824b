package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agrimech/crm-service/internal/api/http/handlers"
	"github.com/agrimech/crm-service/internal/auth"
	"github.com/agrimech/crm-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Targets        *handlers.TargetsHandler
	Territory      *handlers.TerritoryHandler
	Leads          *handlers.LeadsHandler
	Catalog        *handlers.CatalogHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Users.Login)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle)
	authProtected.Get("/me", cfg.Users.Me)
	authProtected.Post("/password/change", cfg.Users.ChangePassword)

	api := app.Group("/api/v1", cfg.AuthMiddleware.Handle)

	serviceRoles := auth.RequireRole(
		domain.RoleServiceManager,
		domain.RoleServiceAdmin,
		domain.RoleMechanic,
		domain.RoleAfterSalesSupport,
		domain.RoleShowroomManager,
	)
	tickets := api.Group("/tickets", serviceRoles)
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/board", cfg.Tickets.Board)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Get("/:id/transition", cfg.Tickets.PreviewTransition)
	tickets.Post("/:id/transition", cfg.Tickets.Transition)
	tickets.Patch("/:id/report", cfg.Tickets.UpdateReport)
	tickets.Patch("/:id/report/checklist", cfg.Tickets.UpdateChecklist)
	tickets.Patch("/:id/report/evidence", cfg.Tickets.UpdateEvidence)
	tickets.Post("/:id/photos", cfg.Tickets.AttachPhoto)
	tickets.Get("/:id/history", cfg.Tickets.ListHistory)

	salesManagement := auth.RequireRole(
		domain.RoleNationalSales,
		domain.RoleRegionalManager,
		domain.RoleSubRegionalMgr,
	)
	targets := api.Group("/targets", salesManagement)
	targets.Get("", cfg.Targets.Summary)
	targets.Put("/national", cfg.Targets.SetNationalTarget)
	targets.Post("/national/distribute", cfg.Targets.DistributeByPerformance)
	targets.Put("/regions/:id", cfg.Targets.SetRegionTarget)
	targets.Post("/regions/:id/auto-balance", cfg.Targets.AutoBalanceRegion)
	targets.Put("/sub-regions/:id", cfg.Targets.SetSubRegionTarget)
	targets.Post("/sub-regions/:id/auto-balance", cfg.Targets.AutoBalanceSubRegion)
	targets.Put("/showrooms/:id", cfg.Targets.SetShowroomTarget)

	regions := api.Group("/regions", salesManagement)
	regions.Get("", cfg.Territory.ListRegions)
	regions.Get("/:id", cfg.Territory.GetRegion)
	regions.Get("/:id/sub-regions", cfg.Territory.ListSubRegions)
	territoryAdmin := auth.RequireRole(domain.RoleNationalSales)
	regions.Post("", territoryAdmin, cfg.Territory.CreateRegion)
	regions.Put("/:id", territoryAdmin, cfg.Territory.UpdateRegion)
	regions.Delete("/:id", territoryAdmin, cfg.Territory.DeleteRegion)

	api.Get("/sub-regions/:id/showrooms", salesManagement, cfg.Territory.ListShowrooms)

	salesRoles := auth.RequireRole(
		domain.RoleNationalSales,
		domain.RoleRegionalManager,
		domain.RoleSubRegionalMgr,
		domain.RoleShowroomManager,
		domain.RoleSalesArea,
		domain.RoleMarketingAnalyst,
	)
	leads := api.Group("/leads", salesRoles)
	leads.Post("", cfg.Leads.CreateLead)
	leads.Get("", cfg.Leads.ListLeads)
	leads.Patch("/:id", cfg.Leads.UpdateLead)

	demos := api.Group("/demos", salesRoles)
	demos.Post("", cfg.Leads.ScheduleDemo)
	demos.Get("", cfg.Leads.ListDemos)

	api.Post("/stock/check", salesRoles, cfg.Leads.CheckStock)

	products := api.Group("/products")
	products.Get("", cfg.Catalog.ListProducts)
	products.Get("/:id", cfg.Catalog.GetProduct)
	inventoryWrite := auth.RequireRole(domain.RoleInventoryAdmin)
	products.Post("", inventoryWrite, cfg.Catalog.CreateProduct)
	products.Put("/:id", inventoryWrite, cfg.Catalog.UpdateProduct)

	customers := api.Group("/customers")
	customers.Post("", cfg.Catalog.CreateCustomer)
	customers.Get("", cfg.Catalog.ListCustomers)
	customers.Get("/:id", cfg.Catalog.GetCustomer)
	customers.Put("/:id", cfg.Catalog.UpdateCustomer)

	// mechanic pool is visible to service staff for PIC assignment
	api.Get("/users/mechanics", serviceRoles, cfg.Users.ListMechanics)

	users := api.Group("/users", auth.RequireRole())
	users.Post("", cfg.Users.CreateUser)
	users.Get("", cfg.Users.ListUsers)
	users.Get("/:id", cfg.Users.GetUser)
	users.Patch("/:id", cfg.Users.UpdateUser)
	users.Delete("/:id", cfg.Users.DeactivateUser)

	api.Get("/dashboard", auth.RequirePage("dashboard"), cfg.Dashboard.Summary)

	api.Get("/metrics", auth.RequireRole(), cfg.Health.Metrics)
}

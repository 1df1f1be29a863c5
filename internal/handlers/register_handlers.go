package handlers

import (
	portssvc "github.com/facturo/ledger_backend/internal/core/ports/services"
	"github.com/facturo/ledger_backend/internal/middleware"
	"github.com/facturo/ledger_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerCustomValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Setup API v1 routes, passing service interfaces
	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	_ *config.Config,
	service *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1")

	// All operational routes are scoped to a tenant
	tenants := v1.Group("/tenants/:tenant_id", middleware.TenantScoping())

	// Delegate route registration to specific handlers, passing required services
	registerChartRoutes(tenants, service.Chart)
	registerMappingRoutes(tenants, service.Mapping)
	registerTaxRateRoutes(tenants, service.TaxRate)
	registerPostingRoutes(tenants, service.Posting)
	registerLedgerRoutes(tenants, service.Ledger)
	registerReportingRoutes(tenants, service.Reporting, service.Init)
	registerInitRoutes(tenants, service.Init)
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/facturo/ledger_backend/internal/apperrors"
	portssvc "github.com/facturo/ledger_backend/internal/core/ports/services"
	"github.com/facturo/ledger_backend/internal/dto"
	"github.com/facturo/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// initHandler handles HTTP requests for tenant initialization and settings.
type initHandler struct {
	initService portssvc.InitSvcFacade
}

// newInitHandler creates a new initHandler.
func newInitHandler(initService portssvc.InitSvcFacade) *initHandler {
	return &initHandler{
		initService: initService,
	}
}

// registerInitRoutes registers the init and settings routes on the tenant group.
func registerInitRoutes(rg *gin.RouterGroup, initService portssvc.InitSvcFacade) {
	h := newInitHandler(initService)
	rg.POST("/initialize", h.initialize)
	rg.GET("/settings", h.getSettings)
	rg.PATCH("/settings", h.updateSettings)
}

// initialize seeds the tenant from its jurisdiction template. Retrying a
// partially failed run is safe; counts already written are reported.
func (h *initHandler) initialize(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _ := middleware.GetTenantIDFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	var req dto.InitializeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for Initialize", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.initService.Initialize(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidJurisdiction):
			logger.Warn("Unknown jurisdiction", slog.String("jurisdiction", req.Jurisdiction))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error initializing tenant", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to initialize tenant", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initialize tenant"})
		}
		return
	}

	status := http.StatusOK
	if !result.Success {
		// Partial seeding: the tenant stays uninitialized, retry is safe.
		status = http.StatusMultiStatus
	}
	logger.Info("Tenant initialization finished",
		slog.Bool("success", result.Success),
		slog.Int("accounts", result.AccountsCount),
		slog.Int("mappings", result.MappingsCount),
		slog.Int("tax_rates", result.TaxRatesCount))
	c.JSON(status, dto.ToInitResultResponse(result))
}

// getSettings returns the tenant's settings row.
func (h *initHandler) getSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _ := middleware.GetTenantIDFromContext(c)

	settings, err := h.initService.GetSettings(c.Request.Context(), tenantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Tenant settings not found", slog.String("tenant_id", tenantID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Tenant settings not found"})
			return
		}
		logger.Error("Failed to get tenant settings", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve settings"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTenantSettingsResponse(settings))
}

// updateSettings patches the tenant's company profile. Only fields present
// in the request body are touched.
func (h *initHandler) updateSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _ := middleware.GetTenantIDFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	var req dto.UpdateTenantSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for UpdateSettings", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	settings, err := h.initService.UpdateSettings(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Tenant settings not found", slog.String("tenant_id", tenantID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Tenant settings not found"})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error updating settings", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update tenant settings", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
		}
		return
	}

	logger.Info("Tenant settings updated")
	c.JSON(http.StatusOK, dto.ToTenantSettingsResponse(settings))
}

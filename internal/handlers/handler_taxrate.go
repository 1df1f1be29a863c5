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

// taxRateHandler handles HTTP requests related to tax rates.
type taxRateHandler struct {
	taxRateService portssvc.TaxRateSvcFacade
}

// newTaxRateHandler creates a new taxRateHandler.
func newTaxRateHandler(taxRateService portssvc.TaxRateSvcFacade) *taxRateHandler {
	return &taxRateHandler{
		taxRateService: taxRateService,
	}
}

// registerTaxRateRoutes registers the tax-rate routes on the tenant group.
func registerTaxRateRoutes(rg *gin.RouterGroup, taxRateService portssvc.TaxRateSvcFacade) {
	h := newTaxRateHandler(taxRateService)
	rates := rg.Group("/tax-rates")
	{
		rates.GET("", h.listTaxRates)
		rates.POST("", h.upsertTaxRate)
	}
}

// listTaxRates returns the tenant's tax rate table.
func (h *taxRateHandler) listTaxRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _ := middleware.GetTenantIDFromContext(c)

	rates, err := h.taxRateService.ListTaxRates(c.Request.Context(), tenantID)
	if err != nil {
		logger.Error("Failed to list tax rates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tax rates"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListTaxRatesResponse(rates))
}

// upsertTaxRate creates or updates a tax rate. Marking a rate as default
// demotes the previous default of the same tax type.
func (h *taxRateHandler) upsertTaxRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _ := middleware.GetTenantIDFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	var req dto.UpsertTaxRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for UpsertTaxRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	rate, err := h.taxRateService.UpsertTaxRate(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error upserting tax rate", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to upsert tax rate", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save tax rate"})
		}
		return
	}

	logger.Info("Tax rate upserted",
		slog.String("tax_rate_id", rate.TaxRateID),
		slog.String("name", rate.Name))
	c.JSON(http.StatusOK, dto.ToTaxRateResponse(rate))
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/facturo/ledger_backend/internal/apperrors"
	portssvc "github.com/facturo/ledger_backend/internal/core/ports/services"
	"github.com/facturo/ledger_backend/internal/dto"
	"github.com/facturo/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests for financial reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
	initService      portssvc.InitSvcFacade
}

// newReportingHandler creates a new reportingHandler. The init service
// supplies the tenant profile printed on composite report headers.
func newReportingHandler(reportingService portssvc.ReportingSvcFacade, initService portssvc.InitSvcFacade) *reportingHandler {
	return &reportingHandler{
		reportingService: reportingService,
		initService:      initService,
	}
}

// registerReportingRoutes registers the report routes on the tenant group.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade, initService portssvc.InitSvcFacade) {
	h := newReportingHandler(reportingService, initService)
	reports := rg.Group("/reports")
	{
		reports.GET("", h.getFinancialReport)
		reports.GET("/trial-balance", h.getTrialBalance)
		reports.GET("/balance-sheet", h.getBalanceSheet)
		reports.GET("/income-statement", h.getIncomeStatement)
		reports.GET("/vat-summary", h.getVATSummary)
		reports.GET("/tax-estimate", h.getTaxEstimate)
	}
}

// bindReportPeriod parses and validates the fromDate/toDate query pair.
func bindReportPeriod(c *gin.Context) (dto.ReportParams, bool) {
	var params dto.ReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fromDate and toDate are required (YYYY-MM-DD)"})
		return params, false
	}
	if params.ToDate.Before(params.FromDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "toDate must not precede fromDate"})
		return params, false
	}
	return params, true
}

// getFinancialReport returns the composite report bundle under the tenant's
// company header.
func (h *reportingHandler) getFinancialReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _ := middleware.GetTenantIDFromContext(c)

	params, ok := bindReportPeriod(c)
	if !ok {
		return
	}

	settings, err := h.initService.GetSettings(c.Request.Context(), tenantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Tenant not initialized", slog.String("tenant_id", tenantID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Tenant is not initialized"})
			return
		}
		logger.Error("Failed to load tenant settings", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build financial report"})
		return
	}

	report, err := h.reportingService.FinancialReport(c.Request.Context(), tenantID, params.FromDate, params.ToDate)
	if err != nil {
		h.reportError(c, logger, err, "financial report")
		return
	}

	c.JSON(http.StatusOK, dto.ToFinancialReportResponse(settings, report, params.FromDate, params.ToDate))
}

// getTrialBalance lists every account with activity in the period.
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _ := middleware.GetTenantIDFromContext(c)

	params, ok := bindReportPeriod(c)
	if !ok {
		return
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), tenantID, params.FromDate, params.ToDate)
	if err != nil {
		h.reportError(c, logger, err, "trial balance")
		return
	}

	c.JSON(http.StatusOK, dto.TrialBalanceResponse{
		Period: dto.NewReportPeriod(params.FromDate, params.ToDate),
		Report: *report,
	})
}

// getBalanceSheet states assets against liabilities and equity as of a date.
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _ := middleware.GetTenantIDFromContext(c)

	asOfRaw := c.DefaultQuery("asOf", time.Now().UTC().Format("2006-01-02"))
	asOf, err := time.Parse("2006-01-02", asOfRaw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "asOf must be a YYYY-MM-DD date"})
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), tenantID, asOf)
	if err != nil {
		h.reportError(c, logger, err, "balance sheet")
		return
	}

	c.JSON(http.StatusOK, dto.BalanceSheetResponse{
		AsOf:   asOf.Format("2006-01-02"),
		Report: *report,
	})
}

// getIncomeStatement nets revenue against expenses for the period.
func (h *reportingHandler) getIncomeStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _ := middleware.GetTenantIDFromContext(c)

	params, ok := bindReportPeriod(c)
	if !ok {
		return
	}

	report, err := h.reportingService.IncomeStatement(c.Request.Context(), tenantID, params.FromDate, params.ToDate)
	if err != nil {
		h.reportError(c, logger, err, "income statement")
		return
	}

	c.JSON(http.StatusOK, dto.IncomeStatementResponse{
		Period: dto.NewReportPeriod(params.FromDate, params.ToDate),
		Report: *report,
	})
}

// getVATSummary nets output tax against deductible input tax for the period.
func (h *reportingHandler) getVATSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _ := middleware.GetTenantIDFromContext(c)

	params, ok := bindReportPeriod(c)
	if !ok {
		return
	}

	summary, err := h.reportingService.VATSummary(c.Request.Context(), tenantID, params.FromDate, params.ToDate)
	if err != nil {
		h.reportError(c, logger, err, "VAT summary")
		return
	}

	c.JSON(http.StatusOK, dto.VATSummaryResponse{
		Period:  dto.NewReportPeriod(params.FromDate, params.ToDate),
		Summary: *summary,
	})
}

// getTaxEstimate applies the jurisdiction's bracket table to net income.
func (h *reportingHandler) getTaxEstimate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _ := middleware.GetTenantIDFromContext(c)

	params, ok := bindReportPeriod(c)
	if !ok {
		return
	}

	estimate, err := h.reportingService.TaxEstimate(c.Request.Context(), tenantID, params.FromDate, params.ToDate)
	if err != nil {
		h.reportError(c, logger, err, "tax estimate")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"period":   dto.NewReportPeriod(params.FromDate, params.ToDate),
		"estimate": estimate,
	})
}

// reportError maps report generation failures onto HTTP responses.
func (h *reportingHandler) reportError(c *gin.Context, logger *slog.Logger, err error, report string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Report prerequisites missing", slog.String("report", report), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidJurisdiction):
		logger.Warn("Unknown jurisdiction for report", slog.String("report", report), slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to build report", slog.String("report", report), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build " + report})
	}
}

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

// chartHandler handles HTTP requests related to the chart of accounts.
type chartHandler struct {
	chartService portssvc.ChartSvcFacade
}

// newChartHandler creates a new chartHandler.
func newChartHandler(chartService portssvc.ChartSvcFacade) *chartHandler {
	return &chartHandler{
		chartService: chartService,
	}
}

// registerChartRoutes registers the chart-of-accounts routes on the tenant group.
func registerChartRoutes(rg *gin.RouterGroup, chartService portssvc.ChartSvcFacade) {
	h := newChartHandler(chartService)
	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.GET("/:code", h.getAccount)
		accounts.POST("", h.upsertAccount)
	}
}

// listAccounts returns the tenant's chart of accounts ordered by code.
// Inactive accounts are excluded unless includeInactive=true.
func (h *chartHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _ := middleware.GetTenantIDFromContext(c)

	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query for ListAccounts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	accounts, err := h.chartService.ListAccounts(c.Request.Context(), tenantID, params.IncludeInactive)
	if err != nil {
		logger.Error("Failed to list accounts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list accounts"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountsResponse(accounts))
}

// getAccount returns a single account by code.
func (h *chartHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _ := middleware.GetTenantIDFromContext(c)
	code := c.Param("code")

	account, err := h.chartService.GetAccountByCode(c.Request.Context(), tenantID, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Account not found", slog.String("account_code", code))
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		logger.Error("Failed to get account", slog.String("error", err.Error()), slog.String("account_code", code))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve account"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// upsertAccount creates or updates a user-defined account.
func (h *chartHandler) upsertAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _ := middleware.GetTenantIDFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	var req dto.UpsertAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for UpsertAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	account, err := h.chartService.UpsertAccount(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrParentCycle):
			logger.Warn("Parent cycle rejected", slog.String("account_code", req.Code))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error upserting account", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Referenced account not found", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to upsert account", slog.String("error", err.Error()), slog.String("account_code", req.Code))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save account"})
		}
		return
	}

	logger.Info("Account upserted", slog.String("account_code", account.Code))
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

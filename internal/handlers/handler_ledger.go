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

// ledgerHandler handles HTTP requests over the posted journal.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(ledgerService portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{
		ledgerService: ledgerService,
	}
}

// registerLedgerRoutes registers the ledger read routes on the tenant group.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)
	rg.GET("/ledger", h.getGeneralLedger)
	rg.GET("/journal-book", h.getJournalBook)
	rg.GET("/journal/:entryID", h.getEntry)
}

// getGeneralLedger returns per-account aggregates for the period.
func (h *ledgerHandler) getGeneralLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _ := middleware.GetTenantIDFromContext(c)

	var params dto.LedgerParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query for GetGeneralLedger", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "fromDate and toDate are required (YYYY-MM-DD)"})
		return
	}
	if params.ToDate.Before(params.FromDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "toDate must not precede fromDate"})
		return
	}

	aggregates, err := h.ledgerService.GetGeneralLedger(c.Request.Context(), tenantID, params.FromDate, params.ToDate)
	if err != nil {
		logger.Error("Failed to build general ledger", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build general ledger"})
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerResponse(aggregates, params.FromDate, params.ToDate))
}

// getJournalBook returns one page of the chronological journal book.
func (h *ledgerHandler) getJournalBook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _ := middleware.GetTenantIDFromContext(c)

	var params dto.JournalBookParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query for GetJournalBook", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "fromDate and toDate are required (YYYY-MM-DD)"})
		return
	}
	if params.ToDate.Before(params.FromDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "toDate must not precede fromDate"})
		return
	}

	page, err := h.ledgerService.GetJournalBook(c.Request.Context(), tenantID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Invalid journal book parameters", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to build journal book", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build journal book"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// getEntry returns a single journal entry with its lines.
func (h *ledgerHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _ := middleware.GetTenantIDFromContext(c)
	entryID := c.Param("entryID")

	entry, err := h.ledgerService.GetEntryByID(c.Request.Context(), tenantID, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Journal entry not found", slog.String("entry_id", entryID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
			return
		}
		logger.Error("Failed to get journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve journal entry"})
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

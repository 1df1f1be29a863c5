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

// postingHandler handles HTTP requests that write to the journal.
type postingHandler struct {
	postingService portssvc.PostingSvcFacade
}

// newPostingHandler creates a new postingHandler.
func newPostingHandler(postingService portssvc.PostingSvcFacade) *postingHandler {
	return &postingHandler{
		postingService: postingService,
	}
}

// registerPostingRoutes registers the posting routes on the tenant group.
func registerPostingRoutes(rg *gin.RouterGroup, postingService portssvc.PostingSvcFacade) {
	h := newPostingHandler(postingService)
	rg.POST("/postings", h.postDocuments)
	rg.POST("/journal/:entryID/reverse", h.reverseEntry)
}

// postDocuments runs the entry generator over a document batch and saves the
// resulting entries. Unmapped and malformed documents are reported, not
// failed, unless strictMapping is set.
func (h *postingHandler) postDocuments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _ := middleware.GetTenantIDFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	var req dto.PostDocumentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for PostDocuments", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.postingService.PostDocuments(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotInitialized):
			logger.Warn("Posting rejected for uninitialized tenant", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrUnmappedCategory):
			logger.Warn("Strict posting rejected unmapped category", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error posting documents", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrImbalancedEntry):
			logger.Error("Generated entry did not balance", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			logger.Warn("Duplicate posting rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to post documents", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post documents"})
		}
		return
	}

	logger.Info("Documents posted",
		slog.Int("entries", len(result.Entries)),
		slog.Int("unmapped", len(result.Unmapped)),
		slog.Int("skipped", len(result.Skipped)))
	c.JSON(http.StatusOK, dto.ToPostingResultResponse(result))
}

// reverseEntry creates the balancing reversal of a posted entry and marks
// the original as reversed.
func (h *postingHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _ := middleware.GetTenantIDFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)
	entryID := c.Param("entryID")

	reversal, err := h.postingService.ReverseEntry(c.Request.Context(), tenantID, entryID, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Entry to reverse not found", slog.String("entry_id", entryID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
		case errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Entry cannot be reversed", slog.String("entry_id", entryID), slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to reverse entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reverse entry"})
		}
		return
	}

	logger.Info("Entry reversed",
		slog.String("entry_id", entryID),
		slog.String("reversal_entry_id", reversal.EntryID))
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(reversal))
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/facturo/ledger_backend/internal/apperrors"
	"github.com/facturo/ledger_backend/internal/core/domain"
	portssvc "github.com/facturo/ledger_backend/internal/core/ports/services"
	"github.com/facturo/ledger_backend/internal/dto"
	"github.com/facturo/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// mappingHandler handles HTTP requests related to posting mappings.
type mappingHandler struct {
	mappingService portssvc.MappingSvcFacade
}

// newMappingHandler creates a new mappingHandler.
func newMappingHandler(mappingService portssvc.MappingSvcFacade) *mappingHandler {
	return &mappingHandler{
		mappingService: mappingService,
	}
}

// registerMappingRoutes registers the mapping routes on the tenant group.
func registerMappingRoutes(rg *gin.RouterGroup, mappingService portssvc.MappingSvcFacade) {
	h := newMappingHandler(mappingService)
	mappings := rg.Group("/mappings")
	{
		mappings.GET("", h.listMappings)
		mappings.POST("", h.upsertMapping)
		mappings.DELETE("", h.deleteMapping)
	}
	rg.GET("/unmapped-categories", h.listUnmapped)
}

// listMappings returns the tenant's posting mappings, optionally filtered
// by sourceType.
func (h *mappingHandler) listMappings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _ := middleware.GetTenantIDFromContext(c)

	var sourceType *domain.SourceType
	if raw := c.Query("sourceType"); raw != "" {
		st := domain.SourceType(raw)
		sourceType = &st
	}

	mappings, err := h.mappingService.ListMappings(c.Request.Context(), tenantID, sourceType)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Invalid source type filter", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list mappings", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list mappings"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListMappingsResponse(mappings))
}

// upsertMapping creates or replaces the posting rule for a
// (sourceType, sourceCategory) pair.
func (h *mappingHandler) upsertMapping(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _ := middleware.GetTenantIDFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	var req dto.UpsertMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for UpsertMapping", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	mapping, err := h.mappingService.UpsertMapping(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error upserting mapping", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to upsert mapping", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save mapping"})
		}
		return
	}

	logger.Info("Mapping upserted",
		slog.String("source_type", string(mapping.SourceType)),
		slog.String("source_category", mapping.SourceCategory))
	c.JSON(http.StatusOK, dto.ToMappingResponse(mapping))
}

// deleteMapping removes the posting rule identified by the sourceType and
// sourceCategory query parameters.
func (h *mappingHandler) deleteMapping(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _ := middleware.GetTenantIDFromContext(c)

	sourceType := c.Query("sourceType")
	sourceCategory := c.Query("sourceCategory")
	if sourceType == "" || sourceCategory == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sourceType and sourceCategory are required"})
		return
	}

	err := h.mappingService.DeleteMapping(c.Request.Context(), tenantID, domain.SourceType(sourceType), sourceCategory)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Mapping not found",
				slog.String("source_type", sourceType),
				slog.String("source_category", sourceCategory))
			c.JSON(http.StatusNotFound, gin.H{"error": "Mapping not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to delete mapping", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete mapping"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// listUnmapped returns the (sourceType, category) pairs the tenant has no
// posting rule for.
func (h *mappingHandler) listUnmapped(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _ := middleware.GetTenantIDFromContext(c)

	unmapped, err := h.mappingService.ListUnmapped(c.Request.Context(), tenantID)
	if err != nil {
		logger.Error("Failed to list unmapped categories", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list unmapped categories"})
		return
	}

	if unmapped == nil {
		unmapped = []domain.UnmappedCategory{}
	}
	c.JSON(http.StatusOK, dto.UnmappedCategoriesResponse{Unmapped: unmapped})
}

package services

import (
	"context"

	"github.com/facturo/ledger_backend/internal/core/domain"
	"github.com/facturo/ledger_backend/internal/dto"
)

// MappingReaderSvc defines read operations for posting mappings
type MappingReaderSvc interface {
	// Resolve returns the mapping for a (source type, category) pair, or
	// apperrors.ErrNotFound when the category is unmapped.
	Resolve(ctx context.Context, tenantID string, sourceType domain.SourceType, sourceCategory string) (*domain.Mapping, error)

	// ListMappings retrieves all mappings, optionally filtered by source type.
	ListMappings(ctx context.Context, tenantID string, sourceType *domain.SourceType) ([]domain.Mapping, error)

	// ListUnmapped diffs the fixed category universe of every source type
	// against the tenant's stored mappings.
	ListUnmapped(ctx context.Context, tenantID string) ([]domain.UnmappedCategory, error)
}

// MappingWriterSvc defines write operations for posting mappings
type MappingWriterSvc interface {
	// UpsertMapping creates or overwrites a single mapping, last write wins.
	UpsertMapping(ctx context.Context, tenantID string, req dto.UpsertMappingRequest, userID string) (*domain.Mapping, error)

	// BulkSeed loads the jurisdiction's default mappings into the tenant and
	// returns the number of mappings written. Existing rows are overwritten,
	// rows outside the template are left alone.
	BulkSeed(ctx context.Context, tenantID string, jurisdiction string, userID string) (int, error)

	// DeleteMapping removes a single mapping.
	DeleteMapping(ctx context.Context, tenantID string, sourceType domain.SourceType, sourceCategory string) error
}

// MappingSvcFacade combines all mapping service interfaces
type MappingSvcFacade interface {
	MappingReaderSvc
	MappingWriterSvc
}

package repositories

import (
	"context"

	"github.com/facturo/ledger_backend/internal/core/domain"
)

// MappingReader defines read operations for posting mappings
type MappingReader interface {
	// FindMapping retrieves the mapping for a (source type, category) pair.
	FindMapping(ctx context.Context, tenantID string, sourceType domain.SourceType, sourceCategory string) (*domain.Mapping, error)

	// ListMappings retrieves all mappings for a tenant, optionally filtered by
	// source type, ordered by (source_type, source_category).
	ListMappings(ctx context.Context, tenantID string, sourceType *domain.SourceType) ([]domain.Mapping, error)
}

// MappingWriter defines write operations for posting mappings
type MappingWriter interface {
	// UpsertMappings inserts or updates mappings keyed on
	// (tenant, source_type, source_category), last write wins. Returns the
	// number of rows written.
	UpsertMappings(ctx context.Context, mappings []domain.Mapping) (int, error)

	// DeleteMapping removes a single mapping row.
	DeleteMapping(ctx context.Context, tenantID string, sourceType domain.SourceType, sourceCategory string) error
}

// MappingRepositoryFacade combines all mapping-related repository interfaces
type MappingRepositoryFacade interface {
	MappingReader
	MappingWriter
}

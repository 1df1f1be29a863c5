package dto

import (
	"time"

	"github.com/facturo/ledger_backend/internal/core/domain"
)

// UpsertMappingRequest defines the data needed to create or replace a
// posting mapping. The (sourceType, sourceCategory) pair is the key;
// upserting an existing pair overwrites it.
type UpsertMappingRequest struct {
	SourceType        domain.SourceType `json:"sourceType" binding:"required,oneof=INVOICE EXPENSE SUPPLIER_INVOICE PAYMENT CREDIT_NOTE SUPPLIER_PAYMENT"`
	SourceCategory    string            `json:"sourceCategory" binding:"required"`
	DebitAccountCode  string            `json:"debitAccountCode" binding:"required"`
	CreditAccountCode string            `json:"creditAccountCode" binding:"required"`
	Description       string            `json:"description"`
}

// MappingResponse defines the data returned for a mapping.
type MappingResponse struct {
	SourceType        domain.SourceType `json:"sourceType"`
	SourceCategory    string            `json:"sourceCategory"`
	DebitAccountCode  string            `json:"debitAccountCode"`
	CreditAccountCode string            `json:"creditAccountCode"`
	Description       string            `json:"description"`
	CreatedAt         time.Time         `json:"createdAt"`
	LastUpdatedAt     time.Time         `json:"lastUpdatedAt"`
}

// ListMappingsParams defines query parameters for listing mappings.
type ListMappingsParams struct {
	SourceType *domain.SourceType `form:"sourceType"`
}

// ListMappingsResponse wraps the list of mappings.
type ListMappingsResponse struct {
	Mappings []MappingResponse `json:"mappings"`
}

// UnmappedCategoriesResponse lists the (type, category) pairs a tenant has
// no posting rule for.
type UnmappedCategoriesResponse struct {
	Unmapped []domain.UnmappedCategory `json:"unmapped"`
}

// ToMappingResponse converts a domain.Mapping to MappingResponse DTO
func ToMappingResponse(m *domain.Mapping) MappingResponse {
	return MappingResponse{
		SourceType:        m.SourceType,
		SourceCategory:    m.SourceCategory,
		DebitAccountCode:  m.DebitAccountCode,
		CreditAccountCode: m.CreditAccountCode,
		Description:       m.Description,
		CreatedAt:         m.CreatedAt,
		LastUpdatedAt:     m.LastUpdatedAt,
	}
}

// ToListMappingsResponse converts a slice of domain.Mapping to the list DTO
func ToListMappingsResponse(mappings []domain.Mapping) ListMappingsResponse {
	res := make([]MappingResponse, len(mappings))
	for i, m := range mappings {
		res[i] = ToMappingResponse(&m)
	}
	return ListMappingsResponse{Mappings: res}
}

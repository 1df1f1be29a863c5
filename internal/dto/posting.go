package dto

import (
	"time"

	"github.com/facturo/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SourceDocumentRequest is one business document submitted for posting.
// TaxRate is a fraction ("0.21" for 21%); zero means untaxed.
type SourceDocumentRequest struct {
	DocumentID   string            `json:"documentID" binding:"required"`
	Type         domain.SourceType `json:"type" binding:"required,oneof=INVOICE EXPENSE SUPPLIER_INVOICE PAYMENT CREDIT_NOTE SUPPLIER_PAYMENT"`
	Category     string            `json:"category"`
	AmountHT     decimal.Decimal   `json:"amountHT" binding:"required"`
	TaxRate      decimal.Decimal   `json:"taxRate"`
	CurrencyCode string            `json:"currencyCode"`
	Date         time.Time         `json:"date" binding:"required"`
}

// PostDocumentsRequest submits a document batch to the journal generator.
type PostDocumentsRequest struct {
	Documents     []SourceDocumentRequest `json:"documents" binding:"required,min=1,dive"`
	StrictMapping bool                    `json:"strictMapping"`
}

// PostingResultResponse reports the outcome of a posting run.
type PostingResultResponse struct {
	Entries  []JournalEntryResponse    `json:"entries"`
	Unmapped []domain.UnmappedDocument `json:"unmapped"`
	Skipped  []domain.SkippedDocument  `json:"skipped"`
}

// ToSourceDocument converts a request document into the domain type,
// binding it to the tenant.
func (r SourceDocumentRequest) ToSourceDocument(tenantID string) domain.SourceDocument {
	return domain.SourceDocument{
		DocumentID:   r.DocumentID,
		TenantID:     tenantID,
		Type:         r.Type,
		Category:     r.Category,
		AmountHT:     r.AmountHT,
		TaxRate:      r.TaxRate,
		CurrencyCode: r.CurrencyCode,
		Date:         r.Date,
	}
}

// ToPostingResultResponse converts a domain.PostingResult to its DTO.
func ToPostingResultResponse(res *domain.PostingResult) PostingResultResponse {
	out := PostingResultResponse{
		Entries:  ToJournalEntryResponses(res.Entries),
		Unmapped: res.Unmapped,
		Skipped:  res.Skipped,
	}
	if out.Unmapped == nil {
		out.Unmapped = []domain.UnmappedDocument{}
	}
	if out.Skipped == nil {
		out.Skipped = []domain.SkippedDocument{}
	}
	return out
}

package services

import (
	"context"
	"time"

	"github.com/facturo/ledger_backend/internal/core/domain"
	"github.com/facturo/ledger_backend/internal/dto"
)

// LedgerReaderSvc defines read operations over the posted journal.
type LedgerReaderSvc interface {
	// GetGeneralLedger aggregates the period's lines per account with opening
	// and closing balances signed by account type.
	GetGeneralLedger(ctx context.Context, tenantID string, from, to time.Time) ([]domain.LedgerAccountAggregate, error)

	// GetJournalBook retrieves the period's entries in chronological order,
	// grouped by entry, token-paginated.
	GetJournalBook(ctx context.Context, tenantID string, params dto.JournalBookParams) (*dto.JournalBookResponse, error)

	// GetEntryByID retrieves a single journal entry with its lines.
	GetEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error)
}

// LedgerSvcFacade combines all ledger service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
}

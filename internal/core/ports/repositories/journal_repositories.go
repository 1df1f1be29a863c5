package repositories

import (
	"context"
	"time"

	"github.com/facturo/ledger_backend/internal/core/domain"
)

// JournalEntryReader defines read operations for journal entries
type JournalEntryReader interface {
	// FindEntryByID retrieves a journal entry and its lines by identifier.
	FindEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error)

	// FindEntryBySource retrieves the POSTED entry generated from a given
	// source document, if one exists. Used to keep document posting idempotent.
	FindEntryBySource(ctx context.Context, tenantID string, sourceType domain.SourceType, sourceID string) (*domain.JournalEntry, error)

	// FindEntriesByDateRange retrieves entries with their lines for a date
	// range, ordered by entry date ascending then creation order. Reversed
	// entries and their reversals are included when includeReversed is true.
	FindEntriesByDateRange(ctx context.Context, tenantID string, from, to time.Time, includeReversed bool) ([]domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries with their lines for a
	// date range using token-based pagination. Returns the entries and a token
	// for the next page.
	ListEntries(ctx context.Context, tenantID string, from, to time.Time, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalEntryWriter defines write operations for journal entries
type JournalEntryWriter interface {
	// SaveEntries persists entries and their lines atomically. The journal is
	// append-only: existing entries are never modified by this call.
	SaveEntries(ctx context.Context, entries []domain.JournalEntry) error

	// UpdateEntryStatusAndLinks updates the status and reversal linkage of an
	// entry. This is the only permitted mutation of a persisted entry.
	UpdateEntryStatusAndLinks(ctx context.Context, tenantID string, entryID string, status domain.EntryStatus, reversingEntryID *string, originalEntryID *string, updatedBy string, updatedAt time.Time) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalEntryReader
	JournalEntryWriter
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction capabilities
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}

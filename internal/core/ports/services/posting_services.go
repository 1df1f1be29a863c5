package services

import (
	"context"

	"github.com/facturo/ledger_backend/internal/core/domain"
	"github.com/facturo/ledger_backend/internal/dto"
)

// EntryGeneratorSvc turns source documents into balanced journal entries
// without persisting anything.
type EntryGeneratorSvc interface {
	// GenerateEntries builds one balanced entry per resolvable document.
	// Documents with no mapping land in the result's Unmapped list (or fail
	// the batch under StrictMapping); malformed documents land in Skipped.
	GenerateEntries(ctx context.Context, tenantID string, docs []domain.SourceDocument, opts domain.PostingOptions) (*domain.PostingResult, error)
}

// DocumentPosterSvc persists generator output to the journal.
type DocumentPosterSvc interface {
	// PostDocuments runs the generator over a document batch and saves the
	// resulting entries. Documents already posted are skipped.
	PostDocuments(ctx context.Context, tenantID string, req dto.PostDocumentsRequest, userID string) (*domain.PostingResult, error)
}

// EntryReverserSvc defines the append-only correction mechanism.
type EntryReverserSvc interface {
	// ReverseEntry creates the balancing reversal of a POSTED entry and marks
	// the original REVERSED. Reversing twice is a conflict.
	ReverseEntry(ctx context.Context, tenantID string, entryID string, userID string) (*domain.JournalEntry, error)
}

// PostingSvcFacade combines all posting service interfaces
type PostingSvcFacade interface {
	EntryGeneratorSvc
	DocumentPosterSvc
	EntryReverserSvc
}

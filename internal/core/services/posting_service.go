package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/facturo/ledger_backend/internal/apperrors"
	"github.com/facturo/ledger_backend/internal/core/domain"
	portsrepo "github.com/facturo/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/facturo/ledger_backend/internal/core/ports/services"
	"github.com/facturo/ledger_backend/internal/dto"
	"github.com/facturo/ledger_backend/internal/utils/accounting"
)

// systemUserID stamps audit fields of entries the engine generates before a
// posting user is known.
const systemUserID = "system"

var (
	decimalZero = decimal.Zero
	oneHundred  = decimal.NewFromInt(100)
)

// postingService turns source documents into balanced journal entries.
type postingService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	tenantRepo  portsrepo.TenantRepositoryFacade
	mappingSvc  portssvc.MappingSvcFacade
	taxRateSvc  portssvc.TaxRateSvcFacade
}

// NewPostingService creates a new posting service.
func NewPostingService(journalRepo portsrepo.JournalRepositoryFacade, tenantRepo portsrepo.TenantRepositoryFacade, mappingSvc portssvc.MappingSvcFacade, taxRateSvc portssvc.TaxRateSvcFacade) portssvc.PostingSvcFacade {
	return &postingService{
		journalRepo: journalRepo,
		tenantRepo:  tenantRepo,
		mappingSvc:  mappingSvc,
		taxRateSvc:  taxRateSvc,
	}
}

// Ensure postingService implements the portssvc.PostingSvcFacade interface
var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// taxTypeForSource returns which tax side a source type touches, or "" when
// the document type carries no tax (payments move gross cash only).
func taxTypeForSource(t domain.SourceType) domain.TaxType {
	switch t {
	case domain.SourceInvoice, domain.SourceCreditNote:
		return domain.TaxOutput
	case domain.SourceExpense, domain.SourceSupplierInvoice:
		return domain.TaxInput
	}
	return ""
}

// taxOnDebitSide reports whether the tax line of a source type is a debit.
// Invoices credit the output control account (VAT collected); credit notes
// and purchases debit it (VAT given back or deductible). The counterparty
// line on the opposite side is grossed to amount+tax so the entry balances.
func taxOnDebitSide(t domain.SourceType) bool {
	return t != domain.SourceInvoice
}

// validateDocument returns a human-readable reason when the document is too
// malformed to post, or "" when it is postable.
func validateDocument(doc domain.SourceDocument) string {
	if !domain.ValidSourceType(doc.Type) {
		return fmt.Sprintf("unknown source type %q", doc.Type)
	}
	if doc.AmountHT.IsZero() || doc.AmountHT.IsNegative() {
		return fmt.Sprintf("amount must be positive, got %s", doc.AmountHT)
	}
	if doc.Date.IsZero() {
		return "document date is missing"
	}
	if doc.TaxRate.IsNegative() {
		return fmt.Sprintf("tax rate must not be negative, got %s", doc.TaxRate)
	}
	return ""
}

// GenerateEntries builds one balanced journal entry per resolvable document.
// Soft failures (no mapping, malformed document) are accumulated on the
// result and never abort the batch, unless StrictMapping is set.
func (s *postingService) GenerateEntries(ctx context.Context, tenantID string, docs []domain.SourceDocument, opts domain.PostingOptions) (*domain.PostingResult, error) {
	result := &domain.PostingResult{
		Entries:  make([]domain.JournalEntry, 0, len(docs)),
		Unmapped: make([]domain.UnmappedDocument, 0),
		Skipped:  make([]domain.SkippedDocument, 0),
	}

	for _, doc := range docs {
		if reason := validateDocument(doc); reason != "" {
			s.LogWarn(ctx, "Skipping malformed document",
				slog.String("tenant_id", tenantID),
				slog.String("document_id", doc.DocumentID),
				slog.String("reason", reason))
			result.Skipped = append(result.Skipped, domain.SkippedDocument{DocumentID: doc.DocumentID, Reason: reason})
			continue
		}

		category := doc.MappingCategory()
		mapping, err := s.mappingSvc.Resolve(ctx, tenantID, doc.Type, category)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				if opts.StrictMapping {
					return nil, fmt.Errorf("%w: %s/%s (document %s)", apperrors.ErrUnmappedCategory, doc.Type, category, doc.DocumentID)
				}
				result.Unmapped = append(result.Unmapped, domain.UnmappedDocument{
					DocumentID: doc.DocumentID,
					SourceType: doc.Type,
					Category:   category,
				})
				continue
			}
			return nil, err
		}

		entry, skipReason, err := s.buildEntry(ctx, tenantID, doc, mapping)
		if err != nil {
			return nil, err
		}
		if skipReason != "" {
			result.Skipped = append(result.Skipped, domain.SkippedDocument{DocumentID: doc.DocumentID, Reason: skipReason})
			continue
		}

		if err := accounting.ValidateEntryBalance(entry.Lines); err != nil {
			// A generated entry failing the balance check is a bug, not bad
			// input. Fail loudly instead of persisting a broken journal.
			s.LogError(ctx, err, "Generated entry does not balance",
				slog.String("tenant_id", tenantID),
				slog.String("document_id", doc.DocumentID))
			return nil, err
		}

		result.Entries = append(result.Entries, *entry)
	}

	return result, nil
}

// buildEntry assembles the journal entry for one document. It returns a skip
// reason instead of an entry when the document references tax configuration
// the tenant does not have.
func (s *postingService) buildEntry(ctx context.Context, tenantID string, doc domain.SourceDocument, mapping *domain.Mapping) (*domain.JournalEntry, string, error) {
	now := time.Now().UTC()
	entryID := uuid.NewString()
	journalCode := domain.JournalCodeForSource(doc.Type)

	taxAmount := doc.TaxAmount()
	taxType := taxTypeForSource(doc.Type)
	applyTax := taxType != "" && !doc.TaxRate.IsZero() && !taxAmount.IsZero()

	var taxAccountCode string
	if applyTax {
		rate, err := s.taxRateSvc.ResolveRate(ctx, tenantID, taxType, doc.TaxRate)
		if errors.Is(err, apperrors.ErrNotFound) {
			// Unknown rate value: fall back to the default rate's control
			// account so a slightly off configuration still posts somewhere
			// auditable.
			rate, err = s.taxRateSvc.GetDefaultRate(ctx, tenantID, taxType)
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Sprintf("no %s tax rate configured for rate %s", taxType, doc.TaxRate), nil
			}
		}
		if err != nil {
			return nil, "", err
		}
		taxAccountCode = rate.AccountCode
	}

	gross := doc.AmountHT
	if applyTax {
		gross = doc.AmountHT.Add(taxAmount)
	}

	// The tax line sits on one side; the line on the opposite side carries
	// the grossed amount so the entry balances.
	debitAmount := doc.AmountHT
	creditAmount := doc.AmountHT
	if applyTax {
		if taxOnDebitSide(doc.Type) {
			creditAmount = gross
		} else {
			debitAmount = gross
		}
	}

	lines := []domain.JournalLine{
		{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			AccountCode: mapping.DebitAccountCode,
			Debit:       debitAmount,
			Credit:      decimalZero,
			Description: mapping.Description,
		},
		{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			AccountCode: mapping.CreditAccountCode,
			Debit:       decimalZero,
			Credit:      creditAmount,
			Description: mapping.Description,
		},
	}
	if applyTax {
		taxLine := domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			AccountCode: taxAccountCode,
			Description: fmt.Sprintf("%s VAT %s%%", taxType, doc.TaxRate.Mul(oneHundred)),
		}
		if taxOnDebitSide(doc.Type) {
			taxLine.Debit = taxAmount
			taxLine.Credit = decimalZero
		} else {
			taxLine.Debit = decimalZero
			taxLine.Credit = taxAmount
		}
		lines = append(lines, taxLine)
	}

	description := mapping.Description
	if description == "" {
		description = fmt.Sprintf("%s %s", doc.Type, doc.DocumentID)
	}

	entry := &domain.JournalEntry{
		EntryID:      entryID,
		TenantID:     tenantID,
		EntryRef:     fmt.Sprintf("%s-%s", journalCode, doc.DocumentID),
		JournalCode:  journalCode,
		EntryDate:    doc.Date,
		Description:  description,
		CurrencyCode: doc.CurrencyCode,
		Status:       domain.Posted,
		IsAuto:       true,
		SourceType:   doc.Type,
		SourceID:     doc.DocumentID,
		Lines:        lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     systemUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: systemUserID,
		},
	}
	return entry, "", nil
}

// PostDocuments runs the generator over a batch and persists the resulting
// entries. The tenant must have completed initialization first, so entries
// never land in a ledger without a chart of accounts. A document whose
// source ID already has a posted entry is skipped, making retries of the
// same batch idempotent.
func (s *postingService) PostDocuments(ctx context.Context, tenantID string, req dto.PostDocumentsRequest, userID string) (*domain.PostingResult, error) {
	settings, err := s.tenantRepo.FindSettings(ctx, tenantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: tenant %s has no settings", apperrors.ErrNotInitialized, tenantID)
		}
		s.LogError(ctx, err, "Failed to load tenant settings for posting", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to load tenant settings: %w", err)
	}
	if !settings.IsInitialized {
		return nil, fmt.Errorf("%w: tenant %s", apperrors.ErrNotInitialized, tenantID)
	}

	docs := make([]domain.SourceDocument, 0, len(req.Documents))
	alreadyPosted := make([]domain.SkippedDocument, 0)
	for _, docReq := range req.Documents {
		existing, err := s.journalRepo.FindEntryBySource(ctx, tenantID, docReq.Type, docReq.DocumentID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to check for existing entry",
				slog.String("tenant_id", tenantID),
				slog.String("document_id", docReq.DocumentID))
			return nil, fmt.Errorf("failed to check document %s: %w", docReq.DocumentID, err)
		}
		if existing != nil {
			alreadyPosted = append(alreadyPosted, domain.SkippedDocument{
				DocumentID: docReq.DocumentID,
				Reason:     fmt.Sprintf("already posted as entry %s", existing.EntryID),
			})
			continue
		}
		docs = append(docs, docReq.ToSourceDocument(tenantID))
	}

	result, err := s.GenerateEntries(ctx, tenantID, docs, domain.PostingOptions{StrictMapping: req.StrictMapping})
	if err != nil {
		return nil, err
	}
	result.Skipped = append(result.Skipped, alreadyPosted...)

	for i := range result.Entries {
		result.Entries[i].CreatedBy = userID
		result.Entries[i].LastUpdatedBy = userID
	}

	if len(result.Entries) > 0 {
		if err := s.journalRepo.SaveEntries(ctx, result.Entries); err != nil {
			s.LogError(ctx, err, "Failed to save generated entries", slog.String("tenant_id", tenantID))
			return nil, fmt.Errorf("failed to save generated entries: %w", err)
		}
	}

	s.LogInfo(ctx, "Documents posted",
		slog.String("tenant_id", tenantID),
		slog.Int("entries", len(result.Entries)),
		slog.Int("unmapped", len(result.Unmapped)),
		slog.Int("skipped", len(result.Skipped)))
	return result, nil
}

// ReverseEntry creates the balancing reversal of a POSTED entry and marks
// the original REVERSED. The journal stays append-only: the original entry
// keeps its lines, the correction is a new entry with the sides swapped.
func (s *postingService) ReverseEntry(ctx context.Context, tenantID string, entryID string, userID string) (*domain.JournalEntry, error) {
	original, err := s.journalRepo.FindEntryByID(ctx, tenantID, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("entry %s: %w", entryID, apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "Failed to fetch entry for reversal", slog.String("tenant_id", tenantID), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to retrieve entry %s: %w", entryID, err)
	}

	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: entry status is %s, expected POSTED", apperrors.ErrConflict, original.Status)
	}
	if original.OriginalEntryID != nil {
		return nil, fmt.Errorf("%w: cannot reverse an entry that is already a reversal", apperrors.ErrConflict)
	}

	now := time.Now().UTC()
	reversingID := uuid.NewString()

	reversedLines := make([]domain.JournalLine, len(original.Lines))
	for i, line := range original.Lines {
		reversedLines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     reversingID,
			AccountCode: line.AccountCode,
			Debit:       line.Credit,
			Credit:      line.Debit,
			Description: line.Description,
		}
	}

	reversing := domain.JournalEntry{
		EntryID:         reversingID,
		TenantID:        tenantID,
		EntryRef:        fmt.Sprintf("REV-%s", original.EntryRef),
		JournalCode:     original.JournalCode,
		EntryDate:       original.EntryDate,
		Description:     fmt.Sprintf("Reversal of entry: %s", original.Description),
		CurrencyCode:    original.CurrencyCode,
		Status:          domain.Posted,
		IsAuto:          false,
		SourceType:      original.SourceType,
		SourceID:        original.SourceID,
		OriginalEntryID: &original.EntryID,
		Lines:           reversedLines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := accounting.ValidateEntryBalance(reversing.Lines); err != nil {
		return nil, err
	}

	if err := s.journalRepo.SaveEntries(ctx, []domain.JournalEntry{reversing}); err != nil {
		s.LogError(ctx, err, "Failed to save reversing entry", slog.String("tenant_id", tenantID), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to save reversing entry: %w", err)
	}

	if err := s.journalRepo.UpdateEntryStatusAndLinks(ctx, tenantID, original.EntryID, domain.Reversed, &reversingID, nil, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to mark original entry reversed",
			slog.String("tenant_id", tenantID),
			slog.String("entry_id", original.EntryID),
			slog.String("reversing_entry_id", reversingID))
		return nil, fmt.Errorf("failed to update original entry status: %w", err)
	}

	s.LogInfo(ctx, "Entry reversed",
		slog.String("tenant_id", tenantID),
		slog.String("entry_id", original.EntryID),
		slog.String("reversing_entry_id", reversingID))
	return &reversing, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/facturo/ledger_backend/internal/apperrors"
	"github.com/facturo/ledger_backend/internal/core/domain"
	portsrepo "github.com/facturo/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/facturo/ledger_backend/internal/core/ports/services"
	"github.com/facturo/ledger_backend/internal/dto"
	"github.com/facturo/ledger_backend/internal/utils/accounting"
)

// ledgerService derives the general ledger and journal book views from the
// posted journal. The builders are pure; the service only adds fetching.
type ledgerService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
}

// Ensure ledgerService implements the portssvc.LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// BuildGeneralLedger groups journal lines per account with debit/credit
// totals and a balance signed by account type. Accounts missing from the
// chart still aggregate, with a raw debit-credit balance, so a ledger over
// historic entries never loses lines.
func BuildGeneralLedger(entries []domain.JournalEntry, accounts map[string]domain.Account) []domain.LedgerAccountAggregate {
	byAccount := make(map[string]*domain.LedgerAccountAggregate)
	for _, entry := range entries {
		for _, line := range entry.Lines {
			agg, ok := byAccount[line.AccountCode]
			if !ok {
				agg = &domain.LedgerAccountAggregate{AccountCode: line.AccountCode}
				if acc, found := accounts[line.AccountCode]; found {
					agg.AccountName = acc.Name
					agg.AccountType = acc.AccountType
				}
				byAccount[line.AccountCode] = agg
			}
			agg.TotalDebit = agg.TotalDebit.Add(line.Debit)
			agg.TotalCredit = agg.TotalCredit.Add(line.Credit)
			agg.Entries = append(agg.Entries, domain.LedgerLine{
				EntryID:     entry.EntryID,
				EntryRef:    entry.EntryRef,
				Date:        entry.EntryDate,
				AccountCode: line.AccountCode,
				Debit:       line.Debit,
				Credit:      line.Credit,
				Description: line.Description,
			})
		}
	}

	result := make([]domain.LedgerAccountAggregate, 0, len(byAccount))
	for _, agg := range byAccount {
		balance, err := accounting.NetBalance(agg.AccountType, agg.TotalDebit, agg.TotalCredit)
		if err != nil {
			balance = agg.TotalDebit.Sub(agg.TotalCredit)
		}
		agg.Balance = balance
		result = append(result, *agg)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AccountCode < result[j].AccountCode })
	return result
}

// BuildJournalBook orders entries by date ascending with a stable tie-break,
// so same-day entries keep their insertion order.
func BuildJournalBook(entries []domain.JournalEntry) []domain.EntryGroup {
	ordered := make([]domain.JournalEntry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].EntryDate.Before(ordered[j].EntryDate)
	})

	groups := make([]domain.EntryGroup, len(ordered))
	for i, entry := range ordered {
		groups[i] = domain.EntryGroup{Entry: entry, Lines: entry.Lines}
	}
	return groups
}

// GetGeneralLedger aggregates the period's lines per account. Reversed
// entries and their reversals are included so the ledger always explains
// the full audit trail.
func (s *ledgerService) GetGeneralLedger(ctx context.Context, tenantID string, from, to time.Time) ([]domain.LedgerAccountAggregate, error) {
	entries, err := s.journalRepo.FindEntriesByDateRange(ctx, tenantID, from, to, true)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch entries for general ledger", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to retrieve entries: %w", err)
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, tenantID, true)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch chart for general ledger", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to retrieve accounts: %w", err)
	}
	accountsByCode := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		accountsByCode[acc.Code] = acc
	}

	ledger := BuildGeneralLedger(entries, accountsByCode)
	s.LogDebug(ctx, "General ledger built",
		slog.String("tenant_id", tenantID),
		slog.Int("accounts", len(ledger)),
		slog.Int("entries", len(entries)))
	return ledger, nil
}

// GetJournalBook retrieves one page of the chronological journal book.
func (s *ledgerService) GetJournalBook(ctx context.Context, tenantID string, params dto.JournalBookParams) (*dto.JournalBookResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	entries, nextToken, err := s.journalRepo.ListEntries(ctx, tenantID, params.FromDate, params.ToDate, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list entries for journal book", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to retrieve entries: %w", err)
	}

	ordered := BuildJournalBook(entries)
	responses := make([]dto.JournalEntryResponse, len(ordered))
	for i, group := range ordered {
		responses[i] = dto.ToJournalEntryResponse(&group.Entry)
	}

	return &dto.JournalBookResponse{
		Entries:   responses,
		NextToken: nextToken,
	}, nil
}

// GetEntryByID retrieves a single journal entry with its lines.
func (s *ledgerService) GetEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, tenantID, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find entry", slog.String("tenant_id", tenantID), slog.String("entry_id", entryID))
		}
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	return entry, nil
}

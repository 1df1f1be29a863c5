package accounting

import (
	"fmt"

	"github.com/facturo/ledger_backend/internal/apperrors"
	"github.com/facturo/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// NetBalance converts gross debit/credit totals into a signed balance
// following the accounting convention for the account type:
// ASSET/EXPENSE grow on the debit side, LIABILITY/EQUITY/REVENUE on the
// credit side. Used by the ledger and every report builder so sign logic
// lives in exactly one place.
func NetBalance(accountType domain.AccountType, totalDebit, totalCredit decimal.Decimal) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return totalDebit.Sub(totalCredit), nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return totalCredit.Sub(totalDebit), nil
	}
	return decimal.Zero, fmt.Errorf("unknown account type %q", accountType)
}

// ValidateEntryBalance checks that an entry's lines are well formed and
// that total debits equal total credits exactly.
func ValidateEntryBalance(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: entry must have at least two lines", apperrors.ErrImbalancedEntry)
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, l := range lines {
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return fmt.Errorf("%w: negative amount on account %s", apperrors.ErrImbalancedEntry, l.AccountCode)
		}
		if !l.Debit.IsZero() && !l.Credit.IsZero() {
			return fmt.Errorf("%w: line on account %s is both debit and credit", apperrors.ErrImbalancedEntry, l.AccountCode)
		}
		totalDebit = totalDebit.Add(l.Debit)
		totalCredit = totalCredit.Add(l.Credit)
	}

	if !totalDebit.Equal(totalCredit) {
		return fmt.Errorf("%w: debits %s != credits %s", apperrors.ErrImbalancedEntry, totalDebit, totalCredit)
	}
	return nil
}

package accounting

import (
	"errors"
	"testing"

	"github.com/facturo/ledger_backend/internal/apperrors"
	"github.com/facturo/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestNetBalance(t *testing.T) {
	// Debit-normal accounts: balance grows with debits.
	bal, err := NetBalance(domain.Asset, dec("121.00"), dec("21.00"))
	require.NoError(t, err)
	assert.True(t, bal.Equal(dec("100.00")))

	// Credit-normal accounts: balance grows with credits.
	bal, err = NetBalance(domain.Revenue, dec("0"), dec("100.00"))
	require.NoError(t, err)
	assert.True(t, bal.Equal(dec("100.00")))

	// A credit-normal account in a debit position goes negative.
	bal, err = NetBalance(domain.Liability, dec("50"), dec("20"))
	require.NoError(t, err)
	assert.True(t, bal.Equal(dec("-30")))

	_, err = NetBalance(domain.AccountType("BOGUS"), decimal.Zero, decimal.Zero)
	assert.Error(t, err)
}

func TestValidateEntryBalance(t *testing.T) {
	balanced := []domain.JournalLine{
		{AccountCode: "400", Debit: dec("121.00"), Credit: decimal.Zero},
		{AccountCode: "7061", Debit: decimal.Zero, Credit: dec("100.00")},
		{AccountCode: "4510", Debit: decimal.Zero, Credit: dec("21.00")},
	}
	assert.NoError(t, ValidateEntryBalance(balanced))

	imbalanced := []domain.JournalLine{
		{AccountCode: "400", Debit: dec("121.00"), Credit: decimal.Zero},
		{AccountCode: "7061", Debit: decimal.Zero, Credit: dec("100.00")},
	}
	err := ValidateEntryBalance(imbalanced)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrImbalancedEntry))

	single := balanced[:1]
	assert.Error(t, ValidateEntryBalance(single))

	negative := []domain.JournalLine{
		{AccountCode: "400", Debit: dec("-5"), Credit: decimal.Zero},
		{AccountCode: "7061", Debit: decimal.Zero, Credit: dec("-5")},
	}
	assert.Error(t, ValidateEntryBalance(negative))

	bothSides := []domain.JournalLine{
		{AccountCode: "400", Debit: dec("5"), Credit: dec("5")},
		{AccountCode: "7061", Debit: decimal.Zero, Credit: decimal.Zero},
	}
	assert.Error(t, ValidateEntryBalance(bothSides))
}

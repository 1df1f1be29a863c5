package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/facturo/ledger_backend/internal/apperrors"
	"github.com/facturo/ledger_backend/internal/core/domain"
	portssvc "github.com/facturo/ledger_backend/internal/core/ports/services"
	"github.com/facturo/ledger_backend/internal/core/services"
	"github.com/facturo/ledger_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

func saleEntry(entryID string, date time.Time) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:     entryID,
		EntryRef:    "SALES-" + entryID,
		JournalCode: domain.JournalSales,
		EntryDate:   date,
		Status:      domain.Posted,
		Lines: []domain.JournalLine{
			{LineID: uuid.NewString(), EntryID: entryID, AccountCode: "400", Debit: decimal.RequireFromString("121"), Credit: decimal.Zero},
			{LineID: uuid.NewString(), EntryID: entryID, AccountCode: "7061", Debit: decimal.Zero, Credit: decimal.RequireFromString("100")},
			{LineID: uuid.NewString(), EntryID: entryID, AccountCode: "4510", Debit: decimal.Zero, Credit: decimal.RequireFromString("21")},
		},
	}
}

func TestBuildGeneralLedger(t *testing.T) {
	date := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	entries := []domain.JournalEntry{
		saleEntry("e1", date),
		saleEntry("e2", date.AddDate(0, 0, 1)),
	}
	accounts := map[string]domain.Account{
		"400":  {Code: "400", Name: "Trade receivables", AccountType: domain.Asset},
		"4510": {Code: "4510", Name: "VAT payable", AccountType: domain.Liability},
		"7061": {Code: "7061", Name: "Service revenue", AccountType: domain.Revenue},
	}

	ledger := services.BuildGeneralLedger(entries, accounts)

	if assert.Len(t, ledger, 3) {
		// Sorted by account code.
		assert.Equal(t, "400", ledger[0].AccountCode)
		assert.Equal(t, "4510", ledger[1].AccountCode)
		assert.Equal(t, "7061", ledger[2].AccountCode)

		// Receivable: 2 x 121 debit, asset balance stays on the debit side.
		assert.True(t, ledger[0].TotalDebit.Equal(decimal.RequireFromString("242")))
		assert.True(t, ledger[0].TotalCredit.IsZero())
		assert.True(t, ledger[0].Balance.Equal(decimal.RequireFromString("242")))
		assert.Len(t, ledger[0].Entries, 2)

		// VAT control: liability balance is credit minus debit.
		assert.True(t, ledger[1].Balance.Equal(decimal.RequireFromString("42")))

		// Revenue balance is credit-normal too.
		assert.Equal(t, "Service revenue", ledger[2].AccountName)
		assert.True(t, ledger[2].Balance.Equal(decimal.RequireFromString("200")))
	}
}

func TestBuildGeneralLedger_AccountMissingFromChart(t *testing.T) {
	date := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	entries := []domain.JournalEntry{saleEntry("e1", date)}

	ledger := services.BuildGeneralLedger(entries, map[string]domain.Account{})

	if assert.Len(t, ledger, 3) {
		// Untyped accounts fall back to a raw debit-credit balance.
		assert.Empty(t, ledger[0].AccountName)
		assert.True(t, ledger[0].Balance.Equal(decimal.RequireFromString("121")))
		assert.True(t, ledger[2].Balance.Equal(decimal.RequireFromString("-100")))
	}
}

func TestBuildJournalBook_OrdersByDateKeepingInsertionOrder(t *testing.T) {
	base := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	entries := []domain.JournalEntry{
		saleEntry("late", base.AddDate(0, 0, 5)),
		saleEntry("first-of-day", base),
		saleEntry("second-of-day", base),
	}

	book := services.BuildJournalBook(entries)

	if assert.Len(t, book, 3) {
		assert.Equal(t, "first-of-day", book[0].Entry.EntryID)
		assert.Equal(t, "second-of-day", book[1].Entry.EntryID)
		assert.Equal(t, "late", book[2].Entry.EntryID)
		assert.Len(t, book[0].Lines, 3)
	}
}

type LedgerServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.LedgerSvcFacade
	tenantID        string
	from            time.Time
	to              time.Time
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewLedgerService(suite.mockJournalRepo, suite.mockAccountRepo)
	suite.tenantID = uuid.NewString()
	suite.from = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.to = time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
}

func (suite *LedgerServiceTestSuite) TestGetGeneralLedger_IncludesReversedEntries() {
	ctx := context.Background()
	entries := []domain.JournalEntry{saleEntry("e1", suite.from.AddDate(0, 1, 0))}

	suite.mockJournalRepo.On("FindEntriesByDateRange", ctx, suite.tenantID, suite.from, suite.to, true).Return(entries, nil).Once()
	suite.mockAccountRepo.On("ListAccounts", ctx, suite.tenantID, true).Return([]domain.Account{
		{Code: "400", Name: "Trade receivables", AccountType: domain.Asset},
	}, nil).Once()

	ledger, err := suite.service.GetGeneralLedger(ctx, suite.tenantID, suite.from, suite.to)

	suite.Require().NoError(err)
	suite.Require().Len(ledger, 3)
	suite.Equal("Trade receivables", ledger[0].AccountName)
	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestGetJournalBook_PassesPaginationThrough() {
	ctx := context.Background()
	token := "next-page"
	params := dto.JournalBookParams{
		FromDate: suite.from,
		ToDate:   suite.to,
		Limit:    10,
	}
	entries := []domain.JournalEntry{saleEntry("e1", suite.from.AddDate(0, 1, 0))}

	suite.mockJournalRepo.On("ListEntries", ctx, suite.tenantID, suite.from, suite.to, 10, (*string)(nil)).Return(entries, token, nil).Once()

	book, err := suite.service.GetJournalBook(ctx, suite.tenantID, params)

	suite.Require().NoError(err)
	suite.Require().Len(book.Entries, 1)
	suite.Require().NotNil(book.NextToken)
	suite.Equal(token, *book.NextToken)
}

func (suite *LedgerServiceTestSuite) TestGetEntryByID_NotFound() {
	ctx := context.Background()
	entryID := uuid.NewString()

	suite.mockJournalRepo.On("FindEntryByID", ctx, suite.tenantID, entryID).Return(nil, apperrors.ErrNotFound).Once()

	entry, err := suite.service.GetEntryByID(ctx, suite.tenantID, entryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(entry)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

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
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PostingServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockTenantRepo  *MockTenantRepository
	mockMappingSvc  *MockMappingService
	mockTaxRateSvc  *MockTaxRateService
	service         portssvc.PostingSvcFacade
	tenantID        string
	userID          string
	entryDate       time.Time
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockTenantRepo = new(MockTenantRepository)
	suite.mockMappingSvc = new(MockMappingService)
	suite.mockTaxRateSvc = new(MockTaxRateService)
	suite.service = services.NewPostingService(suite.mockJournalRepo, suite.mockTenantRepo, suite.mockMappingSvc, suite.mockTaxRateSvc)

	suite.tenantID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.entryDate = time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
}

// stubInitializedTenant lets PostDocuments pass the initialization gate.
func (suite *PostingServiceTestSuite) stubInitializedTenant() {
	suite.mockTenantRepo.On("FindSettings", mock.Anything, suite.tenantID).Return(&domain.TenantSettings{
		TenantID:      suite.tenantID,
		Jurisdiction:  "BE",
		IsInitialized: true,
	}, nil).Once()
}

func (suite *PostingServiceTestSuite) serviceInvoiceDoc(amountHT string) domain.SourceDocument {
	return domain.SourceDocument{
		DocumentID:   "INV-0042",
		TenantID:     suite.tenantID,
		Type:         domain.SourceInvoice,
		Category:     "service",
		AmountHT:     decimal.RequireFromString(amountHT),
		TaxRate:      decimal.RequireFromString("0.21"),
		CurrencyCode: "EUR",
		Date:         suite.entryDate,
	}
}

// 100.00 HT at 21% on a service invoice must produce the canonical Belgian
// posting: debit 400 for 121.00, credit 7061 for 100.00, credit 4510 for 21.00.
func (suite *PostingServiceTestSuite) TestGenerateEntries_ServiceInvoiceWithVAT() {
	ctx := context.Background()
	doc := suite.serviceInvoiceDoc("100")

	suite.mockMappingSvc.On("Resolve", ctx, suite.tenantID, domain.SourceInvoice, "service").Return(&domain.Mapping{
		TenantID:          suite.tenantID,
		SourceType:        domain.SourceInvoice,
		SourceCategory:    "service",
		DebitAccountCode:  "400",
		CreditAccountCode: "7061",
		Description:       "Service revenue",
	}, nil).Once()
	suite.mockTaxRateSvc.On("ResolveRate", ctx, suite.tenantID, domain.TaxOutput, mock.Anything).Return(&domain.TaxRate{
		TaxRateID:   uuid.NewString(),
		Rate:        decimal.RequireFromString("0.21"),
		TaxType:     domain.TaxOutput,
		AccountCode: "4510",
	}, nil).Once()

	result, err := suite.service.GenerateEntries(ctx, suite.tenantID, []domain.SourceDocument{doc}, domain.PostingOptions{})

	suite.Require().NoError(err)
	suite.Require().Len(result.Entries, 1)
	suite.Empty(result.Unmapped)
	suite.Empty(result.Skipped)

	entry := result.Entries[0]
	suite.Equal(domain.Posted, entry.Status)
	suite.True(entry.IsAuto)
	suite.Equal(domain.JournalSales, entry.JournalCode)
	suite.Equal("SALES-INV-0042", entry.EntryRef)
	suite.Equal(domain.SourceInvoice, entry.SourceType)
	suite.Equal("INV-0042", entry.SourceID)

	suite.Require().Len(entry.Lines, 3)
	suite.Equal("400", entry.Lines[0].AccountCode)
	suite.True(entry.Lines[0].Debit.Equal(decimal.RequireFromString("121")), "receivable debit should be the gross amount, got %s", entry.Lines[0].Debit)
	suite.True(entry.Lines[0].Credit.IsZero())

	suite.Equal("7061", entry.Lines[1].AccountCode)
	suite.True(entry.Lines[1].Credit.Equal(decimal.RequireFromString("100")))
	suite.True(entry.Lines[1].Debit.IsZero())

	suite.Equal("4510", entry.Lines[2].AccountCode)
	suite.True(entry.Lines[2].Credit.Equal(decimal.RequireFromString("21")))
	suite.True(entry.Lines[2].Debit.IsZero())

	suite.True(entry.IsBalanced())

	suite.mockMappingSvc.AssertExpectations(suite.T())
	suite.mockTaxRateSvc.AssertExpectations(suite.T())
}

// Purchases carry deductible VAT on the debit side and gross the payable.
func (suite *PostingServiceTestSuite) TestGenerateEntries_ExpenseGrossesCreditSide() {
	ctx := context.Background()
	doc := domain.SourceDocument{
		DocumentID:   "EXP-7",
		TenantID:     suite.tenantID,
		Type:         domain.SourceExpense,
		Category:     "rent",
		AmountHT:     decimal.RequireFromString("50"),
		TaxRate:      decimal.RequireFromString("0.21"),
		CurrencyCode: "EUR",
		Date:         suite.entryDate,
	}

	suite.mockMappingSvc.On("Resolve", ctx, suite.tenantID, domain.SourceExpense, "rent").Return(&domain.Mapping{
		DebitAccountCode:  "610",
		CreditAccountCode: "440",
	}, nil).Once()
	suite.mockTaxRateSvc.On("ResolveRate", ctx, suite.tenantID, domain.TaxInput, mock.Anything).Return(&domain.TaxRate{
		Rate:        decimal.RequireFromString("0.21"),
		TaxType:     domain.TaxInput,
		AccountCode: "4110",
	}, nil).Once()

	result, err := suite.service.GenerateEntries(ctx, suite.tenantID, []domain.SourceDocument{doc}, domain.PostingOptions{})

	suite.Require().NoError(err)
	suite.Require().Len(result.Entries, 1)
	entry := result.Entries[0]
	suite.Equal(domain.JournalPurchases, entry.JournalCode)

	suite.Require().Len(entry.Lines, 3)
	suite.Equal("610", entry.Lines[0].AccountCode)
	suite.True(entry.Lines[0].Debit.Equal(decimal.RequireFromString("50")))
	suite.Equal("440", entry.Lines[1].AccountCode)
	suite.True(entry.Lines[1].Credit.Equal(decimal.RequireFromString("60.5")))
	suite.Equal("4110", entry.Lines[2].AccountCode)
	suite.True(entry.Lines[2].Debit.Equal(decimal.RequireFromString("10.5")))
	suite.True(entry.IsBalanced())
}

// Payments move gross cash and never get a tax line.
func (suite *PostingServiceTestSuite) TestGenerateEntries_PaymentHasNoTaxLine() {
	ctx := context.Background()
	doc := domain.SourceDocument{
		DocumentID:   "PAY-1",
		TenantID:     suite.tenantID,
		Type:         domain.SourcePayment,
		AmountHT:     decimal.RequireFromString("121"),
		CurrencyCode: "EUR",
		Date:         suite.entryDate,
	}

	suite.mockMappingSvc.On("Resolve", ctx, suite.tenantID, domain.SourcePayment, domain.CategoryGeneral).Return(&domain.Mapping{
		DebitAccountCode:  "5500",
		CreditAccountCode: "400",
	}, nil).Once()

	result, err := suite.service.GenerateEntries(ctx, suite.tenantID, []domain.SourceDocument{doc}, domain.PostingOptions{})

	suite.Require().NoError(err)
	suite.Require().Len(result.Entries, 1)
	entry := result.Entries[0]
	suite.Equal(domain.JournalBank, entry.JournalCode)
	suite.Require().Len(entry.Lines, 2)
	suite.True(entry.Lines[0].Debit.Equal(decimal.RequireFromString("121")))
	suite.True(entry.Lines[1].Credit.Equal(decimal.RequireFromString("121")))
	suite.mockTaxRateSvc.AssertNotCalled(suite.T(), "ResolveRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestGenerateEntries_UnmappedCategoryIsSoftSkip() {
	ctx := context.Background()
	doc := suite.serviceInvoiceDoc("100")
	doc.Category = "licensing"

	suite.mockMappingSvc.On("Resolve", ctx, suite.tenantID, domain.SourceInvoice, "licensing").Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.GenerateEntries(ctx, suite.tenantID, []domain.SourceDocument{doc}, domain.PostingOptions{})

	suite.Require().NoError(err)
	suite.Empty(result.Entries)
	suite.Require().Len(result.Unmapped, 1)
	suite.Equal("INV-0042", result.Unmapped[0].DocumentID)
	suite.Equal(domain.SourceInvoice, result.Unmapped[0].SourceType)
	suite.Equal("licensing", result.Unmapped[0].Category)
}

func (suite *PostingServiceTestSuite) TestGenerateEntries_StrictMappingFailsHard() {
	ctx := context.Background()
	doc := suite.serviceInvoiceDoc("100")
	doc.Category = "licensing"

	suite.mockMappingSvc.On("Resolve", ctx, suite.tenantID, domain.SourceInvoice, "licensing").Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.GenerateEntries(ctx, suite.tenantID, []domain.SourceDocument{doc}, domain.PostingOptions{StrictMapping: true})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnmappedCategory)
	suite.Nil(result)
}

func (suite *PostingServiceTestSuite) TestGenerateEntries_MalformedDocumentSkipped() {
	ctx := context.Background()
	doc := suite.serviceInvoiceDoc("100")
	doc.AmountHT = decimal.RequireFromString("-5")

	result, err := suite.service.GenerateEntries(ctx, suite.tenantID, []domain.SourceDocument{doc}, domain.PostingOptions{})

	suite.Require().NoError(err)
	suite.Empty(result.Entries)
	suite.Require().Len(result.Skipped, 1)
	suite.Equal("INV-0042", result.Skipped[0].DocumentID)
	suite.Contains(result.Skipped[0].Reason, "amount must be positive")
	suite.mockMappingSvc.AssertNotCalled(suite.T(), "Resolve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// An unknown rate value falls back to the default rate's control account.
func (suite *PostingServiceTestSuite) TestGenerateEntries_UnknownRateFallsBackToDefault() {
	ctx := context.Background()
	doc := suite.serviceInvoiceDoc("100")
	doc.TaxRate = decimal.RequireFromString("0.2")

	suite.mockMappingSvc.On("Resolve", ctx, suite.tenantID, domain.SourceInvoice, "service").Return(&domain.Mapping{
		DebitAccountCode:  "400",
		CreditAccountCode: "7061",
	}, nil).Once()
	suite.mockTaxRateSvc.On("ResolveRate", ctx, suite.tenantID, domain.TaxOutput, mock.Anything).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockTaxRateSvc.On("GetDefaultRate", ctx, suite.tenantID, domain.TaxOutput).Return(&domain.TaxRate{
		Rate:        decimal.RequireFromString("0.21"),
		TaxType:     domain.TaxOutput,
		AccountCode: "4510",
		IsDefault:   true,
	}, nil).Once()

	result, err := suite.service.GenerateEntries(ctx, suite.tenantID, []domain.SourceDocument{doc}, domain.PostingOptions{})

	suite.Require().NoError(err)
	suite.Require().Len(result.Entries, 1)
	// Tax amount still follows the document's own rate (20.00), only the
	// control account comes from the default.
	entry := result.Entries[0]
	suite.Require().Len(entry.Lines, 3)
	suite.Equal("4510", entry.Lines[2].AccountCode)
	suite.True(entry.Lines[2].Credit.Equal(decimal.RequireFromString("20")))
	suite.True(entry.IsBalanced())
}

func (suite *PostingServiceTestSuite) TestGenerateEntries_NoTaxRateConfiguredSkips() {
	ctx := context.Background()
	doc := suite.serviceInvoiceDoc("100")

	suite.mockMappingSvc.On("Resolve", ctx, suite.tenantID, domain.SourceInvoice, "service").Return(&domain.Mapping{
		DebitAccountCode:  "400",
		CreditAccountCode: "7061",
	}, nil).Once()
	suite.mockTaxRateSvc.On("ResolveRate", ctx, suite.tenantID, domain.TaxOutput, mock.Anything).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockTaxRateSvc.On("GetDefaultRate", ctx, suite.tenantID, domain.TaxOutput).Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.GenerateEntries(ctx, suite.tenantID, []domain.SourceDocument{doc}, domain.PostingOptions{})

	suite.Require().NoError(err)
	suite.Empty(result.Entries)
	suite.Require().Len(result.Skipped, 1)
	suite.Contains(result.Skipped[0].Reason, "no OUTPUT tax rate configured")
}

func (suite *PostingServiceTestSuite) TestPostDocuments_SavesEntriesStampedWithUser() {
	ctx := context.Background()
	req := dto.PostDocumentsRequest{
		Documents: []dto.SourceDocumentRequest{{
			DocumentID:   "INV-0042",
			Type:         domain.SourceInvoice,
			Category:     "service",
			AmountHT:     decimal.RequireFromString("100"),
			TaxRate:      decimal.RequireFromString("0.21"),
			CurrencyCode: "EUR",
			Date:         suite.entryDate,
		}},
	}

	suite.stubInitializedTenant()
	suite.mockJournalRepo.On("FindEntryBySource", ctx, suite.tenantID, domain.SourceInvoice, "INV-0042").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockMappingSvc.On("Resolve", ctx, suite.tenantID, domain.SourceInvoice, "service").Return(&domain.Mapping{
		DebitAccountCode:  "400",
		CreditAccountCode: "7061",
	}, nil).Once()
	suite.mockTaxRateSvc.On("ResolveRate", ctx, suite.tenantID, domain.TaxOutput, mock.Anything).Return(&domain.TaxRate{
		Rate:        decimal.RequireFromString("0.21"),
		AccountCode: "4510",
	}, nil).Once()
	suite.mockJournalRepo.On("SaveEntries", ctx, mock.AnythingOfType("[]domain.JournalEntry")).Return(nil).Once()

	result, err := suite.service.PostDocuments(ctx, suite.tenantID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(result.Entries, 1)
	suite.Equal(suite.userID, result.Entries[0].CreatedBy)
	suite.Equal(suite.userID, result.Entries[0].LastUpdatedBy)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

// Re-posting a document that already produced a POSTED entry is a no-op.
func (suite *PostingServiceTestSuite) TestPostDocuments_AlreadyPostedIsIdempotent() {
	ctx := context.Background()
	existingID := uuid.NewString()
	req := dto.PostDocumentsRequest{
		Documents: []dto.SourceDocumentRequest{{
			DocumentID: "INV-0042",
			Type:       domain.SourceInvoice,
			Category:   "service",
			AmountHT:   decimal.RequireFromString("100"),
			Date:       suite.entryDate,
		}},
	}

	suite.stubInitializedTenant()
	suite.mockJournalRepo.On("FindEntryBySource", ctx, suite.tenantID, domain.SourceInvoice, "INV-0042").Return(&domain.JournalEntry{
		EntryID:  existingID,
		TenantID: suite.tenantID,
		Status:   domain.Posted,
	}, nil).Once()

	result, err := suite.service.PostDocuments(ctx, suite.tenantID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Empty(result.Entries)
	suite.Require().Len(result.Skipped, 1)
	suite.Contains(result.Skipped[0].Reason, existingID)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntries", mock.Anything, mock.Anything)
}

// Posting into a tenant that never completed initialization must be refused
// before any document is examined: there is no chart of accounts to post to.
func (suite *PostingServiceTestSuite) TestPostDocuments_UninitializedTenantRejected() {
	ctx := context.Background()
	req := dto.PostDocumentsRequest{
		Documents: []dto.SourceDocumentRequest{{
			DocumentID: "INV-0042",
			Type:       domain.SourceInvoice,
			Category:   "service",
			AmountHT:   decimal.RequireFromString("100"),
			Date:       suite.entryDate,
		}},
	}

	suite.mockTenantRepo.On("FindSettings", ctx, suite.tenantID).Return(&domain.TenantSettings{
		TenantID:      suite.tenantID,
		Jurisdiction:  "BE",
		IsInitialized: false,
	}, nil).Once()

	result, err := suite.service.PostDocuments(ctx, suite.tenantID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotInitialized)
	suite.Nil(result)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "FindEntryBySource", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntries", mock.Anything, mock.Anything)
}

// A tenant without a settings row at all counts as uninitialized too.
func (suite *PostingServiceTestSuite) TestPostDocuments_UnknownTenantRejected() {
	ctx := context.Background()
	req := dto.PostDocumentsRequest{
		Documents: []dto.SourceDocumentRequest{{
			DocumentID: "INV-0042",
			Type:       domain.SourceInvoice,
			AmountHT:   decimal.RequireFromString("100"),
			Date:       suite.entryDate,
		}},
	}

	suite.mockTenantRepo.On("FindSettings", ctx, suite.tenantID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.PostDocuments(ctx, suite.tenantID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotInitialized)
}

func (suite *PostingServiceTestSuite) TestReverseEntry_SwapsSidesAndLinksEntries() {
	ctx := context.Background()
	entryID := uuid.NewString()
	original := &domain.JournalEntry{
		EntryID:      entryID,
		TenantID:     suite.tenantID,
		EntryRef:     "SALES-INV-0042",
		JournalCode:  domain.JournalSales,
		EntryDate:    suite.entryDate,
		Description:  "Service revenue",
		CurrencyCode: "EUR",
		Status:       domain.Posted,
		IsAuto:       true,
		SourceType:   domain.SourceInvoice,
		SourceID:     "INV-0042",
		Lines: []domain.JournalLine{
			{LineID: uuid.NewString(), EntryID: entryID, AccountCode: "400", Debit: decimal.RequireFromString("121"), Credit: decimal.Zero},
			{LineID: uuid.NewString(), EntryID: entryID, AccountCode: "7061", Debit: decimal.Zero, Credit: decimal.RequireFromString("100")},
			{LineID: uuid.NewString(), EntryID: entryID, AccountCode: "4510", Debit: decimal.Zero, Credit: decimal.RequireFromString("21")},
		},
	}

	suite.mockJournalRepo.On("FindEntryByID", ctx, suite.tenantID, entryID).Return(original, nil).Once()
	suite.mockJournalRepo.On("SaveEntries", ctx, mock.AnythingOfType("[]domain.JournalEntry")).Return(nil).Once()
	suite.mockJournalRepo.On("UpdateEntryStatusAndLinks", ctx, suite.tenantID, entryID, domain.Reversed, mock.AnythingOfType("*string"), (*string)(nil), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	reversing, err := suite.service.ReverseEntry(ctx, suite.tenantID, entryID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversing)
	suite.Equal("REV-SALES-INV-0042", reversing.EntryRef)
	suite.Equal(domain.Posted, reversing.Status)
	suite.False(reversing.IsAuto)
	suite.Require().NotNil(reversing.OriginalEntryID)
	suite.Equal(entryID, *reversing.OriginalEntryID)

	suite.Require().Len(reversing.Lines, 3)
	suite.True(reversing.Lines[0].Credit.Equal(decimal.RequireFromString("121")))
	suite.True(reversing.Lines[1].Debit.Equal(decimal.RequireFromString("100")))
	suite.True(reversing.Lines[2].Debit.Equal(decimal.RequireFromString("21")))
	suite.True(reversing.IsBalanced())

	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestReverseEntry_AlreadyReversedConflicts() {
	ctx := context.Background()
	entryID := uuid.NewString()

	suite.mockJournalRepo.On("FindEntryByID", ctx, suite.tenantID, entryID).Return(&domain.JournalEntry{
		EntryID: entryID,
		Status:  domain.Reversed,
	}, nil).Once()

	reversing, err := suite.service.ReverseEntry(ctx, suite.tenantID, entryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(reversing)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntries", mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestReverseEntry_ReversalOfReversalConflicts() {
	ctx := context.Background()
	entryID := uuid.NewString()
	originalID := uuid.NewString()

	suite.mockJournalRepo.On("FindEntryByID", ctx, suite.tenantID, entryID).Return(&domain.JournalEntry{
		EntryID:         entryID,
		Status:          domain.Posted,
		OriginalEntryID: &originalID,
	}, nil).Once()

	_, err := suite.service.ReverseEntry(ctx, suite.tenantID, entryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *PostingServiceTestSuite) TestReverseEntry_NotFound() {
	ctx := context.Background()
	entryID := uuid.NewString()

	suite.mockJournalRepo.On("FindEntryByID", ctx, suite.tenantID, entryID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ReverseEntry(ctx, suite.tenantID, entryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}

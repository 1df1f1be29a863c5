package services_test

import (
	"context"
	"time"

	"github.com/facturo/ledger_backend/internal/core/domain"
	portsrepo "github.com/facturo/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/facturo/ledger_backend/internal/core/ports/services"
	"github.com/facturo/ledger_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, tenantID string, code string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByCodes(ctx context.Context, tenantID string, codes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tenantID, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, tenantID string, includeInactive bool) ([]domain.Account, error) {
	args := m.Called(ctx, tenantID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpsertAccounts(ctx context.Context, accounts []domain.Account) (int, error) {
	args := m.Called(ctx, accounts)
	return args.Int(0), args.Error(1)
}

// --- Mock MappingRepository ---
type MockMappingRepository struct {
	mock.Mock
}

var _ portsrepo.MappingRepositoryFacade = (*MockMappingRepository)(nil)

func (m *MockMappingRepository) FindMapping(ctx context.Context, tenantID string, sourceType domain.SourceType, sourceCategory string) (*domain.Mapping, error) {
	args := m.Called(ctx, tenantID, sourceType, sourceCategory)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Mapping), args.Error(1)
}

func (m *MockMappingRepository) ListMappings(ctx context.Context, tenantID string, sourceType *domain.SourceType) ([]domain.Mapping, error) {
	args := m.Called(ctx, tenantID, sourceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Mapping), args.Error(1)
}

func (m *MockMappingRepository) UpsertMappings(ctx context.Context, mappings []domain.Mapping) (int, error) {
	args := m.Called(ctx, mappings)
	return args.Int(0), args.Error(1)
}

func (m *MockMappingRepository) DeleteMapping(ctx context.Context, tenantID string, sourceType domain.SourceType, sourceCategory string) error {
	args := m.Called(ctx, tenantID, sourceType, sourceCategory)
	return args.Error(0)
}

// --- Mock TaxRateRepository ---
type MockTaxRateRepository struct {
	mock.Mock
}

var _ portsrepo.TaxRateRepositoryFacade = (*MockTaxRateRepository)(nil)

func (m *MockTaxRateRepository) FindTaxRateByID(ctx context.Context, tenantID string, taxRateID string) (*domain.TaxRate, error) {
	args := m.Called(ctx, tenantID, taxRateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxRate), args.Error(1)
}

func (m *MockTaxRateRepository) FindTaxRateByName(ctx context.Context, tenantID string, name string, taxType domain.TaxType) (*domain.TaxRate, error) {
	args := m.Called(ctx, tenantID, name, taxType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxRate), args.Error(1)
}

func (m *MockTaxRateRepository) FindDefaultTaxRate(ctx context.Context, tenantID string, taxType domain.TaxType) (*domain.TaxRate, error) {
	args := m.Called(ctx, tenantID, taxType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxRate), args.Error(1)
}

func (m *MockTaxRateRepository) FindTaxRateByValue(ctx context.Context, tenantID string, taxType domain.TaxType, rate decimal.Decimal) (*domain.TaxRate, error) {
	args := m.Called(ctx, tenantID, taxType, rate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxRate), args.Error(1)
}

func (m *MockTaxRateRepository) ListTaxRates(ctx context.Context, tenantID string) ([]domain.TaxRate, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxRate), args.Error(1)
}

func (m *MockTaxRateRepository) UpsertTaxRates(ctx context.Context, rates []domain.TaxRate) (int, error) {
	args := m.Called(ctx, rates)
	return args.Int(0), args.Error(1)
}

func (m *MockTaxRateRepository) ClearDefault(ctx context.Context, tenantID string, taxType domain.TaxType, keepID string) error {
	args := m.Called(ctx, tenantID, taxType, keepID)
	return args.Error(0)
}

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindEntryBySource(ctx context.Context, tenantID string, sourceType domain.SourceType, sourceID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, sourceType, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindEntriesByDateRange(ctx context.Context, tenantID string, from, to time.Time, includeReversed bool) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, from, to, includeReversed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, tenantID string, from, to time.Time, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, tenantID, from, to, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.JournalEntry), returnedNextToken, args.Error(2)
}

func (m *MockJournalRepository) SaveEntries(ctx context.Context, entries []domain.JournalEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockJournalRepository) UpdateEntryStatusAndLinks(ctx context.Context, tenantID string, entryID string, status domain.EntryStatus, reversingEntryID *string, originalEntryID *string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tenantID, entryID, status, reversingEntryID, originalEntryID, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Mock TenantRepository ---
type MockTenantRepository struct {
	mock.Mock
}

var _ portsrepo.TenantRepositoryFacade = (*MockTenantRepository)(nil)

func (m *MockTenantRepository) FindSettings(ctx context.Context, tenantID string) (*domain.TenantSettings, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TenantSettings), args.Error(1)
}

func (m *MockTenantRepository) SaveSettings(ctx context.Context, settings domain.TenantSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *MockTenantRepository) MarkInitialized(ctx context.Context, tenantID string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tenantID, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Mock ChartService ---
type MockChartService struct {
	mock.Mock
}

var _ portssvc.ChartSvcFacade = (*MockChartService)(nil)

func (m *MockChartService) GetAccountByCode(ctx context.Context, tenantID string, code string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockChartService) ListAccounts(ctx context.Context, tenantID string, includeInactive bool) ([]domain.Account, error) {
	args := m.Called(ctx, tenantID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockChartService) UpsertAccount(ctx context.Context, tenantID string, req dto.UpsertAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockChartService) SeedFromTemplate(ctx context.Context, tenantID string, jurisdiction string, userID string) (int, error) {
	args := m.Called(ctx, tenantID, jurisdiction, userID)
	return args.Int(0), args.Error(1)
}

// --- Mock MappingService ---
type MockMappingService struct {
	mock.Mock
}

var _ portssvc.MappingSvcFacade = (*MockMappingService)(nil)

func (m *MockMappingService) Resolve(ctx context.Context, tenantID string, sourceType domain.SourceType, sourceCategory string) (*domain.Mapping, error) {
	args := m.Called(ctx, tenantID, sourceType, sourceCategory)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Mapping), args.Error(1)
}

func (m *MockMappingService) ListMappings(ctx context.Context, tenantID string, sourceType *domain.SourceType) ([]domain.Mapping, error) {
	args := m.Called(ctx, tenantID, sourceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Mapping), args.Error(1)
}

func (m *MockMappingService) ListUnmapped(ctx context.Context, tenantID string) ([]domain.UnmappedCategory, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UnmappedCategory), args.Error(1)
}

func (m *MockMappingService) UpsertMapping(ctx context.Context, tenantID string, req dto.UpsertMappingRequest, userID string) (*domain.Mapping, error) {
	args := m.Called(ctx, tenantID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Mapping), args.Error(1)
}

func (m *MockMappingService) BulkSeed(ctx context.Context, tenantID string, jurisdiction string, userID string) (int, error) {
	args := m.Called(ctx, tenantID, jurisdiction, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockMappingService) DeleteMapping(ctx context.Context, tenantID string, sourceType domain.SourceType, sourceCategory string) error {
	args := m.Called(ctx, tenantID, sourceType, sourceCategory)
	return args.Error(0)
}

// --- Mock TaxRateService ---
type MockTaxRateService struct {
	mock.Mock
}

var _ portssvc.TaxRateSvcFacade = (*MockTaxRateService)(nil)

func (m *MockTaxRateService) ListTaxRates(ctx context.Context, tenantID string) ([]domain.TaxRate, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxRate), args.Error(1)
}

func (m *MockTaxRateService) GetDefaultRate(ctx context.Context, tenantID string, taxType domain.TaxType) (*domain.TaxRate, error) {
	args := m.Called(ctx, tenantID, taxType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxRate), args.Error(1)
}

func (m *MockTaxRateService) ResolveRate(ctx context.Context, tenantID string, taxType domain.TaxType, rate decimal.Decimal) (*domain.TaxRate, error) {
	args := m.Called(ctx, tenantID, taxType, rate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxRate), args.Error(1)
}

func (m *MockTaxRateService) UpsertTaxRate(ctx context.Context, tenantID string, req dto.UpsertTaxRateRequest, userID string) (*domain.TaxRate, error) {
	args := m.Called(ctx, tenantID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxRate), args.Error(1)
}

func (m *MockTaxRateService) SeedFromTemplate(ctx context.Context, tenantID string, jurisdiction string, userID string) (int, error) {
	args := m.Called(ctx, tenantID, jurisdiction, userID)
	return args.Int(0), args.Error(1)
}

package services_test

import (
	"context"
	"testing"

	"github.com/facturo/ledger_backend/internal/apperrors"
	"github.com/facturo/ledger_backend/internal/core/domain"
	portssvc "github.com/facturo/ledger_backend/internal/core/ports/services"
	"github.com/facturo/ledger_backend/internal/core/services"
	"github.com/facturo/ledger_backend/internal/dto"
	"github.com/facturo/ledger_backend/internal/jurisdiction"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TaxRateServiceTestSuite struct {
	suite.Suite
	mockTaxRateRepo *MockTaxRateRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.TaxRateSvcFacade
	tenantID        string
	userID          string
}

func (suite *TaxRateServiceTestSuite) SetupTest() {
	suite.mockTaxRateRepo = new(MockTaxRateRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewTaxRateService(suite.mockTaxRateRepo, suite.mockAccountRepo)
	suite.tenantID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *TaxRateServiceTestSuite) TestUpsertTaxRate_DemotesPreviousDefault() {
	ctx := context.Background()
	req := dto.UpsertTaxRateRequest{
		Name:        "Standard VAT",
		Rate:        decimal.RequireFromString("0.21"),
		TaxType:     domain.TaxOutput,
		AccountCode: "4510",
		IsDefault:   true,
	}
	storedID := uuid.NewString()

	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, suite.tenantID, []string{"4510"}).Return(map[string]domain.Account{
		"4510": {Code: "4510", AccountType: domain.Liability},
	}, nil).Once()
	suite.mockTaxRateRepo.On("UpsertTaxRates", ctx, mock.AnythingOfType("[]domain.TaxRate")).Return(1, nil).Once()
	suite.mockTaxRateRepo.On("FindTaxRateByName", ctx, suite.tenantID, "Standard VAT", domain.TaxOutput).Return(&domain.TaxRate{
		TaxRateID:   storedID,
		TenantID:    suite.tenantID,
		Name:        "Standard VAT",
		Rate:        req.Rate,
		TaxType:     domain.TaxOutput,
		AccountCode: "4510",
		IsDefault:   true,
	}, nil).Once()
	suite.mockTaxRateRepo.On("ClearDefault", ctx, suite.tenantID, domain.TaxOutput, storedID).Return(nil).Once()

	rate, err := suite.service.UpsertTaxRate(ctx, suite.tenantID, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(rate.IsDefault)
	suite.Equal(storedID, rate.TaxRateID)
	suite.mockTaxRateRepo.AssertExpectations(suite.T())
}

// Updating an existing rate hits the (tenant, name, tax_type) conflict in the
// repo, which keeps the original row's tax_rate_id. The demotion must spare
// that stored ID, not the freshly generated one the conflict discarded, or
// re-marking the current default would leave the tenant with no default at
// all. The caller must also get the stored identifier back.
func (suite *TaxRateServiceTestSuite) TestUpsertTaxRate_RepeatDefaultKeepsStoredRow() {
	ctx := context.Background()
	req := dto.UpsertTaxRateRequest{
		Name:        "Standard VAT",
		Rate:        decimal.RequireFromString("0.21"),
		TaxType:     domain.TaxOutput,
		AccountCode: "4510",
		IsDefault:   true,
	}
	stored := &domain.TaxRate{
		TaxRateID:   "existing-rate-id",
		TenantID:    suite.tenantID,
		Name:        "Standard VAT",
		Rate:        req.Rate,
		TaxType:     domain.TaxOutput,
		AccountCode: "4510",
		IsDefault:   true,
	}

	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, suite.tenantID, []string{"4510"}).Return(map[string]domain.Account{
		"4510": {Code: "4510", AccountType: domain.Liability},
	}, nil).Once()
	var attemptedID string
	suite.mockTaxRateRepo.On("UpsertTaxRates", ctx, mock.AnythingOfType("[]domain.TaxRate")).Run(func(args mock.Arguments) {
		attemptedID = args.Get(1).([]domain.TaxRate)[0].TaxRateID
	}).Return(1, nil).Once()
	suite.mockTaxRateRepo.On("FindTaxRateByName", ctx, suite.tenantID, "Standard VAT", domain.TaxOutput).Return(stored, nil).Once()
	suite.mockTaxRateRepo.On("ClearDefault", ctx, suite.tenantID, domain.TaxOutput, "existing-rate-id").Return(nil).Once()

	rate, err := suite.service.UpsertTaxRate(ctx, suite.tenantID, req, suite.userID)

	suite.Require().NoError(err)
	suite.NotEqual(attemptedID, stored.TaxRateID, "conflicting upsert should have discarded the generated ID")
	suite.Equal("existing-rate-id", rate.TaxRateID)
	suite.True(rate.IsDefault)
	suite.mockTaxRateRepo.AssertExpectations(suite.T())
}

func (suite *TaxRateServiceTestSuite) TestUpsertTaxRate_NonDefaultLeavesDefaultAlone() {
	ctx := context.Background()
	req := dto.UpsertTaxRateRequest{
		Name:        "Reduced VAT",
		Rate:        decimal.RequireFromString("0.06"),
		TaxType:     domain.TaxOutput,
		AccountCode: "4510",
	}

	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, suite.tenantID, []string{"4510"}).Return(map[string]domain.Account{
		"4510": {Code: "4510", AccountType: domain.Liability},
	}, nil).Once()
	suite.mockTaxRateRepo.On("UpsertTaxRates", ctx, mock.AnythingOfType("[]domain.TaxRate")).Return(1, nil).Once()
	suite.mockTaxRateRepo.On("FindTaxRateByName", ctx, suite.tenantID, "Reduced VAT", domain.TaxOutput).Return(&domain.TaxRate{
		TaxRateID: uuid.NewString(),
		Name:      "Reduced VAT",
		TaxType:   domain.TaxOutput,
	}, nil).Once()

	_, err := suite.service.UpsertTaxRate(ctx, suite.tenantID, req, suite.userID)

	suite.Require().NoError(err)
	suite.mockTaxRateRepo.AssertNotCalled(suite.T(), "ClearDefault", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TaxRateServiceTestSuite) TestUpsertTaxRate_RateOutOfRange() {
	ctx := context.Background()
	req := dto.UpsertTaxRateRequest{
		Name:        "Broken",
		Rate:        decimal.RequireFromString("21"), // percent instead of fraction
		TaxType:     domain.TaxOutput,
		AccountCode: "4510",
	}

	_, err := suite.service.UpsertTaxRate(ctx, suite.tenantID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTaxRateRepo.AssertNotCalled(suite.T(), "UpsertTaxRates", mock.Anything, mock.Anything)
}

// The rate column is constrained to [0,1) in the schema; exactly 1 must be
// caught here as a validation error instead of surfacing as a raw database
// failure.
func (suite *TaxRateServiceTestSuite) TestUpsertTaxRate_RateOfExactlyOneRejected() {
	ctx := context.Background()
	req := dto.UpsertTaxRateRequest{
		Name:        "Everything VAT",
		Rate:        decimal.RequireFromString("1"),
		TaxType:     domain.TaxOutput,
		AccountCode: "4510",
	}

	_, err := suite.service.UpsertTaxRate(ctx, suite.tenantID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTaxRateRepo.AssertNotCalled(suite.T(), "UpsertTaxRates", mock.Anything, mock.Anything)
}

func (suite *TaxRateServiceTestSuite) TestUpsertTaxRate_MissingControlAccount() {
	ctx := context.Background()
	req := dto.UpsertTaxRateRequest{
		Name:        "Standard VAT",
		Rate:        decimal.RequireFromString("0.21"),
		TaxType:     domain.TaxOutput,
		AccountCode: "4599",
	}

	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, suite.tenantID, []string{"4599"}).Return(map[string]domain.Account{}, nil).Once()

	_, err := suite.service.UpsertTaxRate(ctx, suite.tenantID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "4599")
}

func (suite *TaxRateServiceTestSuite) TestResolveRate_NotFoundPassesThrough() {
	ctx := context.Background()
	value := decimal.RequireFromString("0.19")

	suite.mockTaxRateRepo.On("FindTaxRateByValue", ctx, suite.tenantID, domain.TaxOutput, value).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ResolveRate(ctx, suite.tenantID, domain.TaxOutput, value)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TaxRateServiceTestSuite) TestSeedFromTemplate_WritesTemplateRates() {
	ctx := context.Background()
	tpl, err := jurisdiction.Get("BE")
	suite.Require().NoError(err)

	suite.mockTaxRateRepo.On("UpsertTaxRates", ctx, mock.AnythingOfType("[]domain.TaxRate")).Return(len(tpl.TaxRates), nil).Once()

	count, err := suite.service.SeedFromTemplate(ctx, suite.tenantID, "BE", suite.userID)

	suite.Require().NoError(err)
	suite.Equal(len(tpl.TaxRates), count)
}

func TestTaxRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaxRateServiceTestSuite))
}

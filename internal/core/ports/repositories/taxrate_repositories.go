package repositories

import (
	"context"

	"github.com/facturo/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TaxRateReader defines read operations for tax rates
type TaxRateReader interface {
	// FindTaxRateByID retrieves a tax rate by its identifier within a tenant.
	FindTaxRateByID(ctx context.Context, tenantID string, taxRateID string) (*domain.TaxRate, error)

	// FindTaxRateByName retrieves a tax rate by its natural key
	// (tenant, name, tax_type), the same key UpsertTaxRates conflicts on.
	FindTaxRateByName(ctx context.Context, tenantID string, name string, taxType domain.TaxType) (*domain.TaxRate, error)

	// FindDefaultTaxRate retrieves the default rate for a tax type, if any.
	FindDefaultTaxRate(ctx context.Context, tenantID string, taxType domain.TaxType) (*domain.TaxRate, error)

	// FindTaxRateByValue retrieves the rate matching an exact decimal value for
	// a tax type, used to resolve a document's rate to its control account.
	FindTaxRateByValue(ctx context.Context, tenantID string, taxType domain.TaxType, rate decimal.Decimal) (*domain.TaxRate, error)

	// ListTaxRates retrieves all tax rates for a tenant.
	ListTaxRates(ctx context.Context, tenantID string) ([]domain.TaxRate, error)
}

// TaxRateWriter defines write operations for tax rates
type TaxRateWriter interface {
	// UpsertTaxRates inserts or updates tax rates keyed on
	// (tenant, name, tax_type) and returns the number of rows written.
	UpsertTaxRates(ctx context.Context, rates []domain.TaxRate) (int, error)

	// ClearDefault unsets is_default on every rate of the given tax type except
	// the one identified by keepID. Used to keep at most one default per type.
	ClearDefault(ctx context.Context, tenantID string, taxType domain.TaxType, keepID string) error
}

// TaxRateRepositoryFacade combines all tax-rate repository interfaces
type TaxRateRepositoryFacade interface {
	TaxRateReader
	TaxRateWriter
}

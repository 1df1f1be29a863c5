package services

import (
	"context"

	"github.com/facturo/ledger_backend/internal/core/domain"
	"github.com/facturo/ledger_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// TaxRateReaderSvc defines read operations for tax rates
type TaxRateReaderSvc interface {
	// ListTaxRates retrieves all tax rates of a tenant.
	ListTaxRates(ctx context.Context, tenantID string) ([]domain.TaxRate, error)

	// GetDefaultRate retrieves the default rate for a tax type.
	GetDefaultRate(ctx context.Context, tenantID string, taxType domain.TaxType) (*domain.TaxRate, error)

	// ResolveRate finds the tax rate matching a document's decimal rate for a
	// tax type, falling back to nothing (ErrNotFound) when no rate matches.
	ResolveRate(ctx context.Context, tenantID string, taxType domain.TaxType, rate decimal.Decimal) (*domain.TaxRate, error)
}

// TaxRateWriterSvc defines write operations for tax rates
type TaxRateWriterSvc interface {
	// UpsertTaxRate creates or updates a tax rate. Marking a rate default
	// demotes the previous default of the same tax type.
	UpsertTaxRate(ctx context.Context, tenantID string, req dto.UpsertTaxRateRequest, userID string) (*domain.TaxRate, error)

	// SeedFromTemplate loads the jurisdiction's default rates into the tenant
	// and returns the number of rates written.
	SeedFromTemplate(ctx context.Context, tenantID string, jurisdiction string, userID string) (int, error)
}

// TaxRateSvcFacade combines all tax-rate service interfaces
type TaxRateSvcFacade interface {
	TaxRateReaderSvc
	TaxRateWriterSvc
}

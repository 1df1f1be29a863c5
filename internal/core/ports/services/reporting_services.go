package services

import (
	"context"
	"time"

	"github.com/facturo/ledger_backend/internal/core/domain"
)

// ReportingSvcFacade defines operations for generating financial reports.
// Reports are recomputed from the journal on every call and never persisted.
type ReportingSvcFacade interface {
	// TrialBalance lists every account with activity in the period and checks
	// that total debits equal total credits.
	TrialBalance(ctx context.Context, tenantID string, from, to time.Time) (*domain.TrialBalanceReport, error)

	// BalanceSheet states assets against liabilities and equity as of a date.
	// An identity mismatch is reported as a warning, never an error.
	BalanceSheet(ctx context.Context, tenantID string, asOf time.Time) (*domain.BalanceSheetReport, error)

	// IncomeStatement nets revenue against expenses for the period.
	IncomeStatement(ctx context.Context, tenantID string, from, to time.Time) (*domain.IncomeStatementReport, error)

	// VATSummary nets output tax against deductible input tax for the period.
	// The payable amount may be negative (a credit position).
	VATSummary(ctx context.Context, tenantID string, from, to time.Time) (*domain.VATSummary, error)

	// TaxEstimate applies the tenant jurisdiction's bracket table to the
	// period's net income.
	TaxEstimate(ctx context.Context, tenantID string, from, to time.Time) (*domain.TaxEstimate, error)

	// FinancialReport bundles every report for the period under the tenant's
	// company header.
	FinancialReport(ctx context.Context, tenantID string, from, to time.Time) (*domain.FinancialReport, error)
}

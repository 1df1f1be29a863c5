package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/facturo/ledger_backend/internal/core/domain"
	portsrepo "github.com/facturo/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/facturo/ledger_backend/internal/core/ports/services"
	"github.com/facturo/ledger_backend/internal/jurisdiction"
	"github.com/facturo/ledger_backend/internal/utils/accounting"
)

// balanceSheetTolerance is how far the accounting identity may drift (from
// rounding) before the report carries a warning.
var balanceSheetTolerance = decimal.RequireFromString("0.01")

// reportingService derives statutory reports from the posted journal. Every
// report is recomputed from entries on each call; nothing is cached or
// persisted.
type reportingService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	taxRateRepo portsrepo.TaxRateRepositoryFacade
	tenantRepo  portsrepo.TenantRepositoryFacade
}

// NewReportingService creates a new reporting service.
func NewReportingService(
	journalRepo portsrepo.JournalRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	taxRateRepo portsrepo.TaxRateRepositoryFacade,
	tenantRepo portsrepo.TenantRepositoryFacade,
) portssvc.ReportingSvcFacade {
	return &reportingService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		taxRateRepo: taxRateRepo,
		tenantRepo:  tenantRepo,
	}
}

// Ensure reportingService implements the portssvc.ReportingSvcFacade interface
var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// accountTotals carries the gross debit/credit movement of one account.
type accountTotals struct {
	debit  decimal.Decimal
	credit decimal.Decimal
}

// fetchTotals sums debit/credit per account code over a period and returns
// the chart for naming and typing the rows.
func (s *reportingService) fetchTotals(ctx context.Context, tenantID string, from, to time.Time) (map[string]accountTotals, map[string]domain.Account, error) {
	entries, err := s.journalRepo.FindEntriesByDateRange(ctx, tenantID, from, to, true)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch entries for reporting", slog.String("tenant_id", tenantID))
		return nil, nil, fmt.Errorf("failed to retrieve entries: %w", err)
	}

	totals := make(map[string]accountTotals)
	for _, entry := range entries {
		for _, line := range entry.Lines {
			t := totals[line.AccountCode]
			t.debit = t.debit.Add(line.Debit)
			t.credit = t.credit.Add(line.Credit)
			totals[line.AccountCode] = t
		}
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, tenantID, true)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch chart for reporting", slog.String("tenant_id", tenantID))
		return nil, nil, fmt.Errorf("failed to retrieve accounts: %w", err)
	}
	accountsByCode := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		accountsByCode[acc.Code] = acc
	}
	return totals, accountsByCode, nil
}

// sortedCodes returns account codes in ascending order for stable rows.
func sortedCodes(totals map[string]accountTotals) []string {
	codes := make([]string, 0, len(totals))
	for code := range totals {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// TrialBalance lists every account with a non-zero net movement in the
// period, placing the net on the debit or credit column by its sign.
func (s *reportingService) TrialBalance(ctx context.Context, tenantID string, from, to time.Time) (*domain.TrialBalanceReport, error) {
	totals, accounts, err := s.fetchTotals(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	report := &domain.TrialBalanceReport{Rows: make([]domain.TrialBalanceRow, 0, len(totals))}
	for _, code := range sortedCodes(totals) {
		t := totals[code]
		net := t.debit.Sub(t.credit)
		if net.IsZero() {
			continue
		}
		row := domain.TrialBalanceRow{AccountCode: code}
		if acc, ok := accounts[code]; ok {
			row.AccountName = acc.Name
			row.AccountType = acc.AccountType
		}
		if net.IsPositive() {
			row.Debit = net
			row.Credit = decimal.Zero
		} else {
			row.Debit = decimal.Zero
			row.Credit = net.Neg()
		}
		report.TotalDebit = report.TotalDebit.Add(row.Debit)
		report.TotalCredit = report.TotalCredit.Add(row.Credit)
		report.Rows = append(report.Rows, row)
	}

	s.LogInfo(ctx, "Trial balance generated",
		slog.String("tenant_id", tenantID),
		slog.Int("rows", len(report.Rows)))
	return report, nil
}

// BalanceSheet states assets against liabilities and equity as of a date.
// Because revenue and expenses are not closed to equity by this engine, the
// current period's net income is presented as an equity line so the identity
// can hold; any residual mismatch becomes a warning.
func (s *reportingService) BalanceSheet(ctx context.Context, tenantID string, asOf time.Time) (*domain.BalanceSheetReport, error) {
	totals, accounts, err := s.fetchTotals(ctx, tenantID, time.Time{}, asOf)
	if err != nil {
		return nil, err
	}

	report := &domain.BalanceSheetReport{
		Assets:      make([]domain.AccountAmount, 0),
		Liabilities: make([]domain.AccountAmount, 0),
		Equity:      make([]domain.AccountAmount, 0),
	}
	retained := decimal.Zero

	for _, code := range sortedCodes(totals) {
		t := totals[code]
		acc, ok := accounts[code]
		if !ok {
			continue
		}
		balance, err := accounting.NetBalance(acc.AccountType, t.debit, t.credit)
		if err != nil || balance.IsZero() {
			continue
		}
		amount := domain.AccountAmount{AccountCode: code, Name: acc.Name, NetAmount: balance}
		switch acc.AccountType {
		case domain.Asset:
			report.Assets = append(report.Assets, amount)
			report.TotalAssets = report.TotalAssets.Add(balance)
		case domain.Liability:
			report.Liabilities = append(report.Liabilities, amount)
			report.TotalLiabilities = report.TotalLiabilities.Add(balance)
		case domain.Equity:
			report.Equity = append(report.Equity, amount)
			report.TotalEquity = report.TotalEquity.Add(balance)
		case domain.Revenue:
			retained = retained.Add(balance)
		case domain.Expense:
			retained = retained.Sub(balance)
		}
	}

	if !retained.IsZero() {
		report.Equity = append(report.Equity, domain.AccountAmount{
			Name:      "Current period result",
			NetAmount: retained,
		})
		report.TotalEquity = report.TotalEquity.Add(retained)
	}

	diff := report.TotalAssets.Sub(report.TotalLiabilities.Add(report.TotalEquity))
	if diff.Abs().GreaterThan(balanceSheetTolerance) {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("accounting identity broken: assets %s != liabilities+equity %s (difference %s)",
				report.TotalAssets, report.TotalLiabilities.Add(report.TotalEquity), diff))
		s.LogWarn(ctx, "Balance sheet identity mismatch",
			slog.String("tenant_id", tenantID),
			slog.String("difference", diff.String()))
	}

	return report, nil
}

// IncomeStatement nets revenue against expenses for the period.
func (s *reportingService) IncomeStatement(ctx context.Context, tenantID string, from, to time.Time) (*domain.IncomeStatementReport, error) {
	totals, accounts, err := s.fetchTotals(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	report := &domain.IncomeStatementReport{
		Revenue:  make([]domain.AccountAmount, 0),
		Expenses: make([]domain.AccountAmount, 0),
	}
	for _, code := range sortedCodes(totals) {
		t := totals[code]
		acc, ok := accounts[code]
		if !ok {
			continue
		}
		if acc.AccountType != domain.Revenue && acc.AccountType != domain.Expense {
			continue
		}
		balance, err := accounting.NetBalance(acc.AccountType, t.debit, t.credit)
		if err != nil || balance.IsZero() {
			continue
		}
		amount := domain.AccountAmount{AccountCode: code, Name: acc.Name, NetAmount: balance}
		if acc.AccountType == domain.Revenue {
			report.Revenue = append(report.Revenue, amount)
			report.TotalRevenue = report.TotalRevenue.Add(balance)
		} else {
			report.Expenses = append(report.Expenses, amount)
			report.TotalExpense = report.TotalExpense.Add(balance)
		}
	}
	report.NetIncome = report.TotalRevenue.Sub(report.TotalExpense)

	s.LogInfo(ctx, "Income statement generated",
		slog.String("tenant_id", tenantID),
		slog.String("net_income", report.NetIncome.String()))
	return report, nil
}

// VATSummary nets the movement on the output tax control accounts against
// the input ones. Output grows on the credit side, input on the debit side;
// credit notes and corrections naturally reduce the respective total, so
// the payable amount may come out negative (a refund position).
func (s *reportingService) VATSummary(ctx context.Context, tenantID string, from, to time.Time) (*domain.VATSummary, error) {
	rates, err := s.taxRateRepo.ListTaxRates(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list tax rates for VAT summary", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to retrieve tax rates: %w", err)
	}
	controlAccounts := make(map[string]domain.TaxType, len(rates))
	for _, rate := range rates {
		controlAccounts[rate.AccountCode] = rate.TaxType
	}

	totals, _, err := s.fetchTotals(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	summary := &domain.VATSummary{}
	for code, taxType := range controlAccounts {
		t, ok := totals[code]
		if !ok {
			continue
		}
		switch taxType {
		case domain.TaxOutput:
			summary.OutputVAT = summary.OutputVAT.Add(t.credit.Sub(t.debit))
		case domain.TaxInput:
			summary.InputVAT = summary.InputVAT.Add(t.debit.Sub(t.credit))
		}
	}
	summary.VATPayable = summary.OutputVAT.Sub(summary.InputVAT)
	return summary, nil
}

// TaxEstimate applies the tenant jurisdiction's bracket table to the
// period's net income.
func (s *reportingService) TaxEstimate(ctx context.Context, tenantID string, from, to time.Time) (*domain.TaxEstimate, error) {
	settings, err := s.tenantRepo.FindSettings(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tenant settings: %w", err)
	}
	tpl, err := jurisdiction.Get(settings.Jurisdiction)
	if err != nil {
		return nil, err
	}

	income, err := s.IncomeStatement(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	estimate := applyBrackets(income.NetIncome, tpl.TaxBrackets)
	s.LogInfo(ctx, "Tax estimate generated",
		slog.String("tenant_id", tenantID),
		slog.String("jurisdiction", tpl.Code),
		slog.String("estimated_tax", estimate.EstimatedTax.String()))
	return estimate, nil
}

// applyBrackets runs net income through a marginal bracket table. A
// non-positive base yields zero tax and no bracket lines.
func applyBrackets(netIncome decimal.Decimal, brackets []domain.TaxBracket) *domain.TaxEstimate {
	estimate := &domain.TaxEstimate{
		NetIncome: netIncome,
		Brackets:  make([]domain.TaxBracketLine, 0, len(brackets)),
	}
	if !netIncome.IsPositive() {
		return estimate
	}

	remaining := netIncome
	prevUpTo := decimal.Zero
	for _, bracket := range brackets {
		if remaining.IsZero() {
			break
		}
		slice := remaining
		if bracket.UpTo != nil {
			width := bracket.UpTo.Sub(prevUpTo)
			if slice.GreaterThan(width) {
				slice = width
			}
			prevUpTo = *bracket.UpTo
		}
		tax := slice.Mul(bracket.Rate).Round(2)
		estimate.Brackets = append(estimate.Brackets, domain.TaxBracketLine{
			Bracket: bracket,
			Taxable: slice,
			Tax:     tax,
		})
		estimate.EstimatedTax = estimate.EstimatedTax.Add(tax)
		remaining = remaining.Sub(slice)
	}

	estimate.EffectiveRate = estimate.EstimatedTax.Div(netIncome).Round(4)
	return estimate
}

// FinancialReport bundles every report for the period. The balance sheet is
// taken as of the period's end date.
func (s *reportingService) FinancialReport(ctx context.Context, tenantID string, from, to time.Time) (*domain.FinancialReport, error) {
	trialBalance, err := s.TrialBalance(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	balanceSheet, err := s.BalanceSheet(ctx, tenantID, to)
	if err != nil {
		return nil, err
	}
	incomeStatement, err := s.IncomeStatement(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	vatSummary, err := s.VATSummary(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	taxEstimate, err := s.TaxEstimate(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	return &domain.FinancialReport{
		TrialBalance:    trialBalance,
		BalanceSheet:    balanceSheet,
		IncomeStatement: incomeStatement,
		VATSummary:      vatSummary,
		TaxEstimate:     taxEstimate,
	}, nil
}

package dto

import (
	"time"

	"github.com/facturo/ledger_backend/internal/core/domain"
)

// ReportParams defines query parameters shared by the report endpoints.
type ReportParams struct {
	FromDate time.Time `form:"fromDate" time_format:"2006-01-02" binding:"required"`
	ToDate   time.Time `form:"toDate" time_format:"2006-01-02" binding:"required"`
}

// ReportPeriod carries the reporting period in every report response.
type ReportPeriod struct {
	FromDate string `json:"fromDate"`
	ToDate   string `json:"toDate"`
}

// TrialBalanceResponse represents the trial balance report response.
type TrialBalanceResponse struct {
	Period ReportPeriod              `json:"period"`
	Report domain.TrialBalanceReport `json:"report"`
}

// BalanceSheetResponse represents the balance sheet report response.
type BalanceSheetResponse struct {
	AsOf   string                    `json:"asOf"`
	Report domain.BalanceSheetReport `json:"report"`
}

// IncomeStatementResponse represents the income statement report response.
type IncomeStatementResponse struct {
	Period ReportPeriod                 `json:"period"`
	Report domain.IncomeStatementReport `json:"report"`
}

// VATSummaryResponse represents the VAT summary report response.
type VATSummaryResponse struct {
	Period  ReportPeriod      `json:"period"`
	Summary domain.VATSummary `json:"summary"`
}

// CompanyHeader is the tenant profile block on top of a financial report.
type CompanyHeader struct {
	CompanyName  string `json:"companyName"`
	Address      string `json:"address,omitempty"`
	TaxID        string `json:"taxID,omitempty"`
	CurrencyCode string `json:"currencyCode"`
	Jurisdiction string `json:"jurisdiction"`
}

// FinancialReportResponse bundles every report for a period.
type FinancialReportResponse struct {
	Company         CompanyHeader                 `json:"company"`
	Period          ReportPeriod                  `json:"period"`
	TrialBalance    *domain.TrialBalanceReport    `json:"trialBalance"`
	BalanceSheet    *domain.BalanceSheetReport    `json:"balanceSheet"`
	IncomeStatement *domain.IncomeStatementReport `json:"incomeStatement"`
	VATSummary      *domain.VATSummary            `json:"vatSummary"`
	TaxEstimate     *domain.TaxEstimate           `json:"taxEstimate"`
}

// NewReportPeriod formats a period for responses.
func NewReportPeriod(from, to time.Time) ReportPeriod {
	return ReportPeriod{
		FromDate: from.Format("2006-01-02"),
		ToDate:   to.Format("2006-01-02"),
	}
}

// ToCompanyHeader converts tenant settings to the report header block.
func ToCompanyHeader(s *domain.TenantSettings) CompanyHeader {
	return CompanyHeader{
		CompanyName:  s.CompanyName,
		Address:      s.Address,
		TaxID:        s.TaxID,
		CurrencyCode: s.CurrencyCode,
		Jurisdiction: s.Jurisdiction,
	}
}

// ToFinancialReportResponse assembles the composite report response.
func ToFinancialReportResponse(settings *domain.TenantSettings, report *domain.FinancialReport, from, to time.Time) FinancialReportResponse {
	return FinancialReportResponse{
		Company:         ToCompanyHeader(settings),
		Period:          NewReportPeriod(from, to),
		TrialBalance:    report.TrialBalance,
		BalanceSheet:    report.BalanceSheet,
		IncomeStatement: report.IncomeStatement,
		VATSummary:      report.VATSummary,
		TaxEstimate:     report.TaxEstimate,
	}
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerLine is one journal line enriched with its entry's date and ref,
// as shown in a per-account ledger view.
type LedgerLine struct {
	EntryID     string          `json:"entryID"`
	EntryRef    string          `json:"entryRef"`
	Date        time.Time       `json:"date"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// LedgerAccountAggregate is the derived per-account view of the general
// ledger over a date range. Never persisted; recomputed per request.
type LedgerAccountAggregate struct {
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Balance     decimal.Decimal `json:"balance"`
	Entries     []LedgerLine    `json:"entries"`
}

// EntryGroup is one journal entry with its lines as presented in the
// chronological journal book.
type EntryGroup struct {
	Entry JournalEntry  `json:"entry"`
	Lines []JournalLine `json:"lines"`
}

// TrialBalanceRow carries one account's net balance, placed on the debit or
// credit column according to its sign.
type TrialBalanceRow struct {
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceReport lists every account with activity in range.
// Invariant: TotalDebit equals TotalCredit.
type TrialBalanceReport struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
}

// AccountAmount is an account with its net amount for a financial report.
type AccountAmount struct {
	AccountCode string          `json:"accountCode"`
	Name        string          `json:"name"`
	NetAmount   decimal.Decimal `json:"netAmount"`
}

// BalanceSheetReport partitions balances into assets vs liabilities+equity.
// A broken accounting identity is reported through Warnings, never hidden
// and never turned into an error.
type BalanceSheetReport struct {
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	Warnings         []string        `json:"warnings,omitempty"`
}

// IncomeStatementReport partitions activity into revenue vs expenses.
type IncomeStatementReport struct {
	Revenue      []AccountAmount `json:"revenue"`
	Expenses     []AccountAmount `json:"expenses"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	NetIncome    decimal.Decimal `json:"netIncome"`
}

// VATSummary nets collected output VAT against deductible input VAT.
// VATPayable may be negative, meaning a refund position.
type VATSummary struct {
	OutputVAT  decimal.Decimal `json:"outputVAT"`
	InputVAT   decimal.Decimal `json:"inputVAT"`
	VATPayable decimal.Decimal `json:"vatPayable"`
}

// TaxBracket is one slice of a jurisdiction's corporate tax scale.
// UpTo is nil for the open-ended top bracket.
type TaxBracket struct {
	UpTo *decimal.Decimal `json:"upTo,omitempty"`
	Rate decimal.Decimal  `json:"rate"`
}

// TaxBracketLine shows how much of the taxable base fell into one bracket.
type TaxBracketLine struct {
	Bracket TaxBracket      `json:"bracket"`
	Taxable decimal.Decimal `json:"taxable"`
	Tax     decimal.Decimal `json:"tax"`
}

// TaxEstimate is a bracketed corporate tax estimate over net income.
type TaxEstimate struct {
	NetIncome     decimal.Decimal  `json:"netIncome"`
	EstimatedTax  decimal.Decimal  `json:"estimatedTax"`
	EffectiveRate decimal.Decimal  `json:"effectiveRate"`
	Brackets      []TaxBracketLine `json:"brackets"`
}

// FinancialReport is the composite report bundle returned per request.
type FinancialReport struct {
	TrialBalance    *TrialBalanceReport    `json:"trialBalance"`
	BalanceSheet    *BalanceSheetReport    `json:"balanceSheet"`
	IncomeStatement *IncomeStatementReport `json:"incomeStatement"`
	VATSummary      *VATSummary            `json:"vatSummary"`
	TaxEstimate     *TaxEstimate           `json:"taxEstimate"`
}

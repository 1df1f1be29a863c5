package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceDocument is the engine's read-only view of a business document
// (invoice, expense, supplier invoice, payment, credit note, supplier
// payment). The surrounding business modules own and mutate these; the
// ledger engine only consumes them.
type SourceDocument struct {
	DocumentID   string          `json:"documentID"`
	TenantID     string          `json:"tenantID"`
	Type         SourceType      `json:"type"`
	Category     string          `json:"category"`
	AmountHT     decimal.Decimal `json:"amountHT"` // pre-tax amount
	TaxRate      decimal.Decimal `json:"taxRate"`  // fraction, e.g. 0.21; zero when untaxed
	CurrencyCode string          `json:"currencyCode"`
	Date         time.Time       `json:"date"`
}

// TaxAmount returns the tax portion of the document, rounded to 2 decimals.
func (d SourceDocument) TaxAmount() decimal.Decimal {
	return d.AmountHT.Mul(d.TaxRate).Round(2)
}

// MappingCategory returns the mapping category the generator resolves for
// the document. Payment-like documents have no intrinsic category and use
// the fixed "general" key.
func (d SourceDocument) MappingCategory() string {
	switch d.Type {
	case SourcePayment, SourceSupplierPayment, SourceCreditNote:
		return CategoryGeneral
	}
	return d.Category
}

// CategoryGeneral is the fixed category used by documents that carry none.
const CategoryGeneral = "general"

// PostingOptions tunes the behaviour of the journal entry generator.
type PostingOptions struct {
	// StrictMapping turns a missing mapping from a silent skip into a hard
	// error for the whole batch.
	StrictMapping bool
}

// expenseCategories is the fixed universe of expense document categories.
var expenseCategories = []string{
	"rent",
	"salaries",
	"social_charges",
	"utilities",
	"insurance",
	"marketing",
	"travel",
	"meals",
	"office_supplies",
	"software",
	"telecom",
	"bank_fees",
	"taxes",
	"maintenance",
	"training",
	"other",
}

// invoiceCategories is the fixed universe of sales document categories.
var invoiceCategories = []string{
	"service",
	"goods",
	"subscription",
	"consulting",
	"other",
}

// CategoriesForSourceType returns the fixed category universe of a source
// type. The mapping service diffs this against stored mappings to warn about
// unmapped categories; an unmapped category is not an error, documents in it
// simply produce no journal entry.
func CategoriesForSourceType(t SourceType) []string {
	switch t {
	case SourceExpense:
		return expenseCategories
	case SourceInvoice:
		return invoiceCategories
	case SourceSupplierInvoice:
		return expenseCategories
	case SourcePayment, SourceCreditNote, SourceSupplierPayment:
		return []string{CategoryGeneral}
	}
	return nil
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
)

// Journal book codes; which book an entry belongs to follows its source type.
const (
	JournalSales     = "SALES"
	JournalPurchases = "PURCHASES"
	JournalBank      = "BANK"
	JournalMisc      = "MISC"
)

// JournalEntry is a single balanced accounting event. Entries are
// append-only: once created they are never edited, corrections are posted
// as reversing entries linked through OriginalEntryID/ReversingEntryID.
type JournalEntry struct {
	EntryID          string        `json:"entryID"`
	TenantID         string        `json:"tenantID"`
	EntryRef         string        `json:"entryRef"` // human-readable reference, e.g. "SALES-INV-0042"
	JournalCode      string        `json:"journalCode"`
	EntryDate        time.Time     `json:"entryDate"`
	Description      string        `json:"description"`
	CurrencyCode     string        `json:"currencyCode"`
	Status           EntryStatus   `json:"status"`
	IsAuto           bool          `json:"isAuto"` // true when generated by the engine
	SourceType       SourceType    `json:"sourceType,omitempty"`
	SourceID         string        `json:"sourceID,omitempty"` // originating document
	OriginalEntryID  *string       `json:"originalEntryID,omitempty"`
	ReversingEntryID *string       `json:"reversingEntryID,omitempty"`
	Lines            []JournalLine `json:"lines,omitempty"`
	AuditFields
}

// JournalLine is one debit or credit line of a journal entry. Exactly one
// of Debit/Credit is non-zero for engine-generated lines.
type JournalLine struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// TotalDebit sums the debit side of the entry.
func (e JournalEntry) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Debit)
	}
	return total
}

// TotalCredit sums the credit side of the entry.
func (e JournalEntry) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Credit)
	}
	return total
}

// IsBalanced reports whether debits equal credits exactly.
func (e JournalEntry) IsBalanced() bool {
	return e.TotalDebit().Equal(e.TotalCredit())
}

// JournalCodeForSource returns the journal book an auto entry belongs to.
func JournalCodeForSource(t SourceType) string {
	switch t {
	case SourceInvoice, SourceCreditNote:
		return JournalSales
	case SourceExpense, SourceSupplierInvoice:
		return JournalPurchases
	case SourcePayment, SourceSupplierPayment:
		return JournalBank
	}
	return JournalMisc
}

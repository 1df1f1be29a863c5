package models

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

// JournalEntry is a journal entry header row. Lines live in journal_lines.
type JournalEntry struct {
	EntryID          string      `db:"entry_id"`
	TenantID         string      `db:"tenant_id"`
	EntryRef         string      `db:"entry_ref"`
	JournalCode      string      `db:"journal_code"`
	EntryDate        time.Time   `db:"entry_date"`
	Description      string      `db:"description"`
	CurrencyCode     string      `db:"currency_code"`
	Status           EntryStatus `db:"status"`
	IsAuto           bool        `db:"is_auto"`
	SourceType       string      `db:"source_type"` // Nullable
	SourceID         string      `db:"source_id"`   // Nullable
	OriginalEntryID  *string     `db:"original_entry_id"`
	ReversingEntryID *string     `db:"reversing_entry_id"`
	AuditFields
}

// JournalLine is one debit or credit line of a journal entry.
type JournalLine struct {
	LineID      string          `db:"line_id"`
	EntryID     string          `db:"entry_id"`
	AccountCode string          `db:"account_code"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	Description string          `db:"description"`
}

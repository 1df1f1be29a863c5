package dto

import (
	"time"

	"github.com/facturo/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID      string          `json:"lineID"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID          string                `json:"entryID"`
	EntryRef         string                `json:"entryRef"`
	JournalCode      string                `json:"journalCode"`
	EntryDate        time.Time             `json:"entryDate"`
	Description      string                `json:"description"`
	CurrencyCode     string                `json:"currencyCode"`
	Status           domain.EntryStatus    `json:"status"`
	IsAuto           bool                  `json:"isAuto"`
	SourceType       domain.SourceType     `json:"sourceType,omitempty"`
	SourceID         string                `json:"sourceID,omitempty"`
	OriginalEntryID  *string               `json:"originalEntryID,omitempty"`
	ReversingEntryID *string               `json:"reversingEntryID,omitempty"`
	Lines            []JournalLineResponse `json:"lines"`
	CreatedAt        time.Time             `json:"createdAt"`
	CreatedBy        string                `json:"createdBy"`
}

// JournalBookParams defines query parameters for the journal book listing.
type JournalBookParams struct {
	FromDate  time.Time `form:"fromDate" time_format:"2006-01-02" binding:"required"`
	ToDate    time.Time `form:"toDate" time_format:"2006-01-02" binding:"required"`
	Limit     int       `form:"limit,default=50"`
	NextToken *string   `form:"nextToken"`
}

// JournalBookResponse is one page of the chronological journal book.
type JournalBookResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// LedgerParams defines query parameters for the general ledger view.
type LedgerParams struct {
	FromDate time.Time `form:"fromDate" time_format:"2006-01-02" binding:"required"`
	ToDate   time.Time `form:"toDate" time_format:"2006-01-02" binding:"required"`
}

// LedgerLineResponse is one line of a per-account ledger view.
type LedgerLineResponse struct {
	EntryID     string          `json:"entryID"`
	EntryRef    string          `json:"entryRef"`
	Date        time.Time       `json:"date"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// LedgerAccountResponse is the aggregated ledger view of one account.
type LedgerAccountResponse struct {
	AccountCode string               `json:"accountCode"`
	AccountName string               `json:"accountName"`
	AccountType domain.AccountType   `json:"accountType"`
	TotalDebit  decimal.Decimal      `json:"totalDebit"`
	TotalCredit decimal.Decimal      `json:"totalCredit"`
	Balance     decimal.Decimal      `json:"balance"`
	Entries     []LedgerLineResponse `json:"entries"`
}

// LedgerResponse wraps the general ledger for a period.
type LedgerResponse struct {
	FromDate string                  `json:"fromDate"`
	ToDate   string                  `json:"toDate"`
	Accounts []LedgerAccountResponse `json:"accounts"`
}

// ToJournalLineResponse converts a domain.JournalLine to its DTO.
func ToJournalLineResponse(l *domain.JournalLine) JournalLineResponse {
	return JournalLineResponse{
		LineID:      l.LineID,
		AccountCode: l.AccountCode,
		Debit:       l.Debit,
		Credit:      l.Credit,
		Description: l.Description,
	}
}

// ToJournalEntryResponse converts a domain.JournalEntry to its DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = ToJournalLineResponse(&l)
	}
	return JournalEntryResponse{
		EntryID:          e.EntryID,
		EntryRef:         e.EntryRef,
		JournalCode:      e.JournalCode,
		EntryDate:        e.EntryDate,
		Description:      e.Description,
		CurrencyCode:     e.CurrencyCode,
		Status:           e.Status,
		IsAuto:           e.IsAuto,
		SourceType:       e.SourceType,
		SourceID:         e.SourceID,
		OriginalEntryID:  e.OriginalEntryID,
		ReversingEntryID: e.ReversingEntryID,
		Lines:            lines,
		CreatedAt:        e.CreatedAt,
		CreatedBy:        e.CreatedBy,
	}
}

// ToJournalEntryResponses converts a slice of entries to DTOs.
func ToJournalEntryResponses(entries []domain.JournalEntry) []JournalEntryResponse {
	res := make([]JournalEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = ToJournalEntryResponse(&e)
	}
	return res
}

// ToLedgerResponse converts the ledger aggregates to the response DTO.
func ToLedgerResponse(aggs []domain.LedgerAccountAggregate, from, to time.Time) LedgerResponse {
	accounts := make([]LedgerAccountResponse, len(aggs))
	for i, agg := range aggs {
		lines := make([]LedgerLineResponse, len(agg.Entries))
		for j, l := range agg.Entries {
			lines[j] = LedgerLineResponse{
				EntryID:     l.EntryID,
				EntryRef:    l.EntryRef,
				Date:        l.Date,
				Debit:       l.Debit,
				Credit:      l.Credit,
				Description: l.Description,
			}
		}
		accounts[i] = LedgerAccountResponse{
			AccountCode: agg.AccountCode,
			AccountName: agg.AccountName,
			AccountType: agg.AccountType,
			TotalDebit:  agg.TotalDebit,
			TotalCredit: agg.TotalCredit,
			Balance:     agg.Balance,
			Entries:     lines,
		}
	}
	return LedgerResponse{
		FromDate: from.Format("2006-01-02"),
		ToDate:   to.Format("2006-01-02"),
		Accounts: accounts,
	}
}

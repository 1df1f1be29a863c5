package mapping

import (
	"github.com/facturo/ledger_backend/internal/core/domain"
	"github.com/facturo/ledger_backend/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry.
// Lines are persisted separately and are not carried over.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:          d.EntryID,
		TenantID:         d.TenantID,
		EntryRef:         d.EntryRef,
		JournalCode:      d.JournalCode,
		EntryDate:        d.EntryDate,
		Description:      d.Description,
		CurrencyCode:     d.CurrencyCode,
		Status:           models.EntryStatus(d.Status),
		IsAuto:           d.IsAuto,
		SourceType:       string(d.SourceType),
		SourceID:         d.SourceID,
		OriginalEntryID:  d.OriginalEntryID,
		ReversingEntryID: d.ReversingEntryID,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:          m.EntryID,
		TenantID:         m.TenantID,
		EntryRef:         m.EntryRef,
		JournalCode:      m.JournalCode,
		EntryDate:        m.EntryDate,
		Description:      m.Description,
		CurrencyCode:     m.CurrencyCode,
		Status:           domain.EntryStatus(m.Status),
		IsAuto:           m.IsAuto,
		SourceType:       domain.SourceType(m.SourceType),
		SourceID:         m.SourceID,
		OriginalEntryID:  m.OriginalEntryID,
		ReversingEntryID: m.ReversingEntryID,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:      d.LineID,
		EntryID:     d.EntryID,
		AccountCode: d.AccountCode,
		Debit:       d.Debit,
		Credit:      d.Credit,
		Description: d.Description,
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:      m.LineID,
		EntryID:     m.EntryID,
		AccountCode: m.AccountCode,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Description: m.Description,
	}
}

// ToDomainJournalLineSlice converts a slice of model JournalLines to domain JournalLines
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLine(m)
	}
	return ds
}

package mapping

import (
	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
	"github.com/stewardbooks/fund_accounting_app/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:         d.EntryID,
		EntryDate:       d.EntryDate,
		Description:     d.Description,
		ReferenceNumber: d.ReferenceNumber,
		DonorID:         d.DonorID,
		IsVoided:        d.IsVoided,
		VoidedAt:        d.VoidedAt,
		VoidedReason:    d.VoidedReason,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:         m.EntryID,
		EntryDate:       m.EntryDate,
		Description:     m.Description,
		ReferenceNumber: m.ReferenceNumber,
		DonorID:         m.DonorID,
		IsVoided:        m.IsVoided,
		VoidedAt:        m.VoidedAt,
		VoidedReason:    m.VoidedReason,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLedgerLine converts a domain LedgerLine to a model LedgerLine
func ToModelLedgerLine(d domain.LedgerLine) models.LedgerLine {
	return models.LedgerLine{
		LineID:      d.LineID,
		EntryID:     d.EntryID,
		AccountID:   d.AccountID,
		FundID:      d.FundID,
		Debit:       d.Debit,
		Credit:      d.Credit,
		Memo:        d.Memo,
		IsCleared:   d.IsCleared,
		ClearedAt:   d.ClearedAt,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerLine converts a model LedgerLine to a domain LedgerLine
func ToDomainLedgerLine(m models.LedgerLine) domain.LedgerLine {
	return domain.LedgerLine{
		LineID:      m.LineID,
		EntryID:     m.EntryID,
		AccountID:   m.AccountID,
		FundID:      m.FundID,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Memo:        m.Memo,
		IsCleared:   m.IsCleared,
		ClearedAt:   m.ClearedAt,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLedgerLineSlice converts a slice of model LedgerLines to domain LedgerLines
func ToDomainLedgerLineSlice(ms []models.LedgerLine) []domain.LedgerLine {
	ds := make([]domain.LedgerLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerLine(m)
	}
	return ds
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry represents one atomic double-entry transaction. Its ledger
// lines always sum debits == credits. An entry is immutable after creation
// except for line edits and the one-way transition to voided.
type JournalEntry struct {
	EntryID         string     `json:"entryID"` // Primary key (UUID)
	EntryDate       time.Time  `json:"entryDate"`
	Description     string     `json:"description"`
	ReferenceNumber string     `json:"referenceNumber"` // Nullable check/deposit reference
	DonorID         string     `json:"donorID"`         // Nullable FK -> donors.donor_id
	IsVoided        bool       `json:"isVoided"`
	VoidedAt        *time.Time `json:"voidedAt"`
	VoidedReason    string     `json:"voidedReason"`
	AuditFields
	Lines []LedgerLine `json:"lines,omitempty"`
}

// LedgerLine is one debit-or-credit row belonging to a journal entry,
// tagged with an account and a fund. Exactly one of Debit/Credit is nonzero.
type LedgerLine struct {
	LineID    string          `json:"lineID"`  // Primary key (UUID)
	EntryID   string          `json:"entryID"` // FK -> journal_entries.entry_id
	AccountID string          `json:"accountID"`
	FundID    string          `json:"fundID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo"`
	IsCleared bool            `json:"isCleared"`
	ClearedAt *time.Time      `json:"clearedAt"`
	AuditFields
}

// IsDebit reports whether the line carries a nonzero debit amount.
func (l LedgerLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Amount returns the nonzero side of the line.
func (l LedgerLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.Debit
	}
	return l.Credit
}

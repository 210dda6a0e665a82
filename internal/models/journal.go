package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry mirrors the journal_entries table.
type JournalEntry struct {
	EntryID         string     `json:"entryID"`
	EntryDate       time.Time  `json:"entryDate"`
	Description     string     `json:"description"`
	ReferenceNumber string     `json:"referenceNumber"` // Nullable
	DonorID         string     `json:"donorID"`         // Nullable
	IsVoided        bool       `json:"isVoided"`
	VoidedAt        *time.Time `json:"voidedAt"`
	VoidedReason    string     `json:"voidedReason"`
	AuditFields
}

// LedgerLine mirrors the ledger_lines table.
type LedgerLine struct {
	LineID    string          `json:"lineID"`
	EntryID   string          `json:"entryID"`
	AccountID string          `json:"accountID"`
	FundID    string          `json:"fundID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo"`
	IsCleared bool            `json:"isCleared"`
	ClearedAt *time.Time      `json:"clearedAt"`
	AuditFields
}

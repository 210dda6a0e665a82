package services

import (
	"context"

	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
	"github.com/stewardbooks/fund_accounting_app/internal/dto"
)

// EntryReaderSvc defines read operations for journal entries.
type EntryReaderSvc interface {
	// GetEntryByID retrieves an entry with its ledger lines.
	GetEntryByID(ctx context.Context, entryID string, requestingUserID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries, voided excluded by default.
	ListEntries(ctx context.Context, userID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)

	// ListLinesByAccount retrieves the non-voided lines posted to one account.
	ListLinesByAccount(ctx context.Context, accountID string, unclearedOnly bool, userID string) ([]domain.LedgerLine, error)
}

// EntryBuilderSvc constructs balanced journal entries for each transaction
// archetype. Every operation validates the debit/credit totals before any
// write and persists the entry with its lines atomically.
type EntryBuilderSvc interface {
	RecordGiving(ctx context.Context, req dto.RecordGivingRequest, userID string) (*domain.JournalEntry, error)
	RecordExpense(ctx context.Context, req dto.RecordExpenseRequest, userID string) (*domain.JournalEntry, error)
	RecordAccountTransfer(ctx context.Context, req dto.RecordAccountTransferRequest, userID string) (*domain.JournalEntry, error)
	RecordFundTransfer(ctx context.Context, req dto.RecordFundTransferRequest, userID string) (*domain.JournalEntry, error)
	RecordInKindDonation(ctx context.Context, req dto.RecordInKindDonationRequest, userID string) (*domain.JournalEntry, error)
	RecordOpeningBalance(ctx context.Context, req dto.RecordOpeningBalanceRequest, userID string) (*domain.JournalEntry, error)
	RecordBatchDonation(ctx context.Context, req dto.RecordBatchDonationRequest, userID string) (*domain.JournalEntry, error)
}

// EntryMutatorSvc covers the void/edit lifecycle of persisted entries.
type EntryMutatorSvc interface {
	// VoidEntry marks an entry voided with a mandatory reason. One-way.
	VoidEntry(ctx context.Context, entryID string, reason string, userID string) (*domain.JournalEntry, error)

	// UpdateEntryLines replaces existing lines of a non-voided entry. The
	// replacement set must re-balance and may not introduce new lines.
	UpdateEntryLines(ctx context.Context, entryID string, req dto.UpdateEntryLinesRequest, userID string) (*domain.JournalEntry, error)
}

// EntrySvcFacade combines all journal entry service interfaces.
type EntrySvcFacade interface {
	EntryReaderSvc
	EntryBuilderSvc
	EntryMutatorSvc
}

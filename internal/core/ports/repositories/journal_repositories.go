package repositories

import (
	"context"
	"time"

	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
)

// EntryReader defines read operations for journal entry data
type EntryReader interface {
	// FindEntryByID retrieves a specific journal entry by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of journal entries using
	// token-based pagination. Voided entries are excluded unless includeVoided
	// is set. It returns the entries, a token for the next page, and an error.
	ListEntries(ctx context.Context, limit int, nextToken *string, includeVoided bool) ([]domain.JournalEntry, *string, error)
}

// EntryWriter defines write operations for journal entry data
type EntryWriter interface {
	// SaveEntry persists a journal entry and its ledger lines atomically
	// within one database transaction. The lines must already balance.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.LedgerLine) error

	// VoidEntry marks an entry voided with the given reason and timestamp.
	// The entry's lines are never modified or deleted by voiding.
	VoidEntry(ctx context.Context, entryID string, reason string, userID string, voidedAt time.Time) error

	// ReplaceEntryLines updates the given existing lines of an entry in one
	// database transaction. Line IDs must already belong to the entry.
	ReplaceEntryLines(ctx context.Context, entryID string, lines []domain.LedgerLine, userID string, now time.Time) error
}

// LineReader defines read operations for ledger line data
type LineReader interface {
	// FindLinesByEntryID retrieves all lines of one entry in line order.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.LedgerLine, error)

	// FindLinesByIDs retrieves specific lines by their IDs.
	FindLinesByIDs(ctx context.Context, lineIDs []string) ([]domain.LedgerLine, error)

	// ListLinesByAccount retrieves the non-voided lines posted to one account,
	// optionally restricted to uncleared lines, newest first.
	ListLinesByAccount(ctx context.Context, accountID string, unclearedOnly bool) ([]domain.LedgerLine, error)
}

// LineWriter defines write operations for ledger line data
type LineWriter interface {
	// SetLinesCleared flips the cleared flag and timestamp on the given lines.
	SetLinesCleared(ctx context.Context, lineIDs []string, cleared bool, clearedAt time.Time) error
}

// EntryRepositoryFacade combines all journal entry repository interfaces.
type EntryRepositoryFacade interface {
	EntryReader
	EntryWriter
	LineReader
	LineWriter
}

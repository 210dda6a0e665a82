package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
	"github.com/stewardbooks/fund_accounting_app/internal/dto"
)

// ReconciliationSvcFacade drives the bank reconciliation lifecycle.
type ReconciliationSvcFacade interface {
	// Start opens a session for an account. Fails with a conflict error if an
	// IN_PROGRESS session already exists for the account.
	Start(ctx context.Context, req dto.StartReconciliationRequest, userID string) (*domain.Reconciliation, error)

	// GetByID retrieves a session.
	GetByID(ctx context.Context, reconciliationID string, userID string) (*domain.Reconciliation, error)

	// ListByAccount retrieves an account's sessions, newest first.
	ListByAccount(ctx context.Context, accountID string, userID string) ([]domain.Reconciliation, error)

	// GetInProgressByAccount retrieves the account's open session, or a not
	// found error when the account has none.
	GetInProgressByAccount(ctx context.Context, accountID string, userID string) (*domain.Reconciliation, error)

	// MarkCleared flips the cleared flag on ledger lines, independent of any
	// session state (users may pre-clear lines before finalizing).
	MarkCleared(ctx context.Context, req dto.MarkClearedRequest, userID string) error

	// ComputeClearedBalance sums debit-credit (Asset) or credit-debit
	// (Liability) over the given lines, or all cleared lines when none given.
	ComputeClearedBalance(ctx context.Context, accountID string, lineIDs []string, userID string) (decimal.Decimal, error)

	// Finalize completes a session iff the balance over exactly the given
	// lines matches the statement balance within a cent. On mismatch it
	// reports both balances and the delta, and no lines are touched.
	Finalize(ctx context.Context, reconciliationID string, req dto.FinalizeReconciliationRequest, userID string) (*domain.Reconciliation, error)

	// Delete removes an IN_PROGRESS session. Completed sessions are immutable.
	Delete(ctx context.Context, reconciliationID string, userID string) error
}

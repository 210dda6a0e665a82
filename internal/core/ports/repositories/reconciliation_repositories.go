package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
)

// ReconciliationRepositoryFacade defines operations for reconciliation data.
type ReconciliationRepositoryFacade interface {
	// FindReconciliationByID retrieves a specific reconciliation session.
	FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.Reconciliation, error)

	// FindInProgressByAccount retrieves the account's IN_PROGRESS session, if any.
	FindInProgressByAccount(ctx context.Context, accountID string) (*domain.Reconciliation, error)

	// ListReconciliationsByAccount retrieves sessions for an account, newest first.
	ListReconciliationsByAccount(ctx context.Context, accountID string) ([]domain.Reconciliation, error)

	// SaveReconciliation persists a new session. The store's partial unique
	// index rejects a second IN_PROGRESS session for the same account; the
	// violation surfaces as a conflict error.
	SaveReconciliation(ctx context.Context, reconciliation domain.Reconciliation) error

	// CompleteReconciliation transitions the session to COMPLETED and marks
	// the given lines cleared, all within one database transaction.
	CompleteReconciliation(ctx context.Context, reconciliationID string, reconciledBalance decimal.Decimal, lineIDs []string, userID string, completedAt time.Time) error

	// DeleteReconciliation removes a session. Only IN_PROGRESS sessions may be
	// deleted; completed ones are immutable audit records.
	DeleteReconciliation(ctx context.Context, reconciliationID string) error
}

package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/stewardbooks/fund_accounting_app/internal/apperrors"
	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
	portsrepo "github.com/stewardbooks/fund_accounting_app/internal/core/ports/repositories"
	"github.com/stewardbooks/fund_accounting_app/internal/models"
	"github.com/stewardbooks/fund_accounting_app/internal/utils/mapping"
)

const reconciliationColumns = `reconciliation_id, account_id, statement_date, statement_balance, reconciled_balance, status, notes, completed_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxReconciliationRepository struct {
	BaseRepository
}

// newPgxReconciliationRepository creates a new repository for reconciliation data.
func newPgxReconciliationRepository(pool *pgxpool.Pool) portsrepo.ReconciliationRepositoryFacade {
	return &PgxReconciliationRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ReconciliationRepositoryFacade = (*PgxReconciliationRepository)(nil)

func scanReconciliation(row pgx.Row) (*models.Reconciliation, error) {
	var m models.Reconciliation
	var notes sql.NullString
	var completedAt sql.NullTime
	err := row.Scan(
		&m.ReconciliationID,
		&m.AccountID,
		&m.StatementDate,
		&m.StatementBalance,
		&m.ReconciledBalance,
		&m.Status,
		&notes,
		&completedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	m.Notes = fromNullString(notes)
	if completedAt.Valid {
		t := completedAt.Time
		m.CompletedAt = &t
	}
	return &m, nil
}

// SaveReconciliation inserts a new session. The partial unique index on
// (account_id) WHERE status = 'IN_PROGRESS' rejects a second open session for
// the same account, even under concurrent requests.
func (r *PgxReconciliationRepository) SaveReconciliation(ctx context.Context, reconciliation domain.Reconciliation) error {
	m := mapping.ToModelReconciliation(reconciliation)

	query := `
		INSERT INTO reconciliations (` + reconciliationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ReconciliationID,
		m.AccountID,
		m.StatementDate,
		m.StatementBalance,
		m.ReconciledBalance,
		m.Status,
		nullString(m.Notes),
		m.CompletedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: account %s already has a reconciliation in progress", apperrors.ErrConflict, m.AccountID)
		}
		return fmt.Errorf("failed to save reconciliation %s: %w", m.ReconciliationID, err)
	}
	return nil
}

// FindReconciliationByID retrieves a session by its ID.
func (r *PgxReconciliationRepository) FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.Reconciliation, error) {
	query := `SELECT ` + reconciliationColumns + ` FROM reconciliations WHERE reconciliation_id = $1;`

	m, err := scanReconciliation(r.Pool.QueryRow(ctx, query, reconciliationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reconciliation by ID %s: %w", reconciliationID, err)
	}

	reconciliation := mapping.ToDomainReconciliation(*m)
	return &reconciliation, nil
}

// FindInProgressByAccount retrieves the account's IN_PROGRESS session, if any.
func (r *PgxReconciliationRepository) FindInProgressByAccount(ctx context.Context, accountID string) (*domain.Reconciliation, error) {
	query := `SELECT ` + reconciliationColumns + ` FROM reconciliations WHERE account_id = $1 AND status = 'IN_PROGRESS';`

	m, err := scanReconciliation(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find in-progress reconciliation for account %s: %w", accountID, err)
	}

	reconciliation := mapping.ToDomainReconciliation(*m)
	return &reconciliation, nil
}

// ListReconciliationsByAccount retrieves sessions for an account, newest first.
func (r *PgxReconciliationRepository) ListReconciliationsByAccount(ctx context.Context, accountID string) ([]domain.Reconciliation, error) {
	query := `
		SELECT ` + reconciliationColumns + `
		FROM reconciliations
		WHERE account_id = $1
		ORDER BY statement_date DESC, created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reconciliations for account %s: %w", accountID, err)
	}
	defer rows.Close()

	reconciliations := []domain.Reconciliation{}
	for rows.Next() {
		m, err := scanReconciliation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reconciliation row: %w", err)
		}
		reconciliations = append(reconciliations, mapping.ToDomainReconciliation(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reconciliation rows: %w", err)
	}

	return reconciliations, nil
}

// CompleteReconciliation transitions the session to COMPLETED and marks the
// given lines cleared, all within one transaction. The status guard makes the
// transition one-way.
func (r *PgxReconciliationRepository) CompleteReconciliation(ctx context.Context, reconciliationID string, reconciledBalance decimal.Decimal, lineIDs []string, userID string, completedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	query := `
		UPDATE reconciliations
		SET status = 'COMPLETED', reconciled_balance = $2, completed_at = $3, last_updated_at = $3, last_updated_by = $4
		WHERE reconciliation_id = $1 AND status = 'IN_PROGRESS';
	`
	cmdTag, err := tx.Exec(ctx, query, reconciliationID, reconciledBalance, completedAt, userID)
	if err != nil {
		return fmt.Errorf("failed to complete reconciliation %s: %w", reconciliationID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: reconciliation %s is not in progress", apperrors.ErrConflict, reconciliationID)
	}

	if len(lineIDs) > 0 {
		lineQuery := `
			UPDATE ledger_lines
			SET is_cleared = TRUE, cleared_at = $2
			WHERE line_id = ANY($1);
		`
		lineTag, err := tx.Exec(ctx, lineQuery, lineIDs, completedAt)
		if err != nil {
			return fmt.Errorf("failed to clear lines for reconciliation %s: %w", reconciliationID, err)
		}
		if lineTag.RowsAffected() != int64(len(lineIDs)) {
			return fmt.Errorf("%w: cleared %d of %d lines", apperrors.ErrNotFound, lineTag.RowsAffected(), len(lineIDs))
		}
	}

	return r.Commit(ctx, tx)
}

// DeleteReconciliation removes a session. The status guard keeps completed
// sessions immutable.
func (r *PgxReconciliationRepository) DeleteReconciliation(ctx context.Context, reconciliationID string) error {
	query := `DELETE FROM reconciliations WHERE reconciliation_id = $1 AND status = 'IN_PROGRESS';`

	cmdTag, err := r.Pool.Exec(ctx, query, reconciliationID)
	if err != nil {
		return fmt.Errorf("failed to delete reconciliation %s: %w", reconciliationID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		_, findErr := r.FindReconciliationByID(ctx, reconciliationID)
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return fmt.Errorf("failed to check reconciliation status after delete attempt for %s: %w", reconciliationID, findErr)
		}
		return fmt.Errorf("%w: reconciliation %s is completed", apperrors.ErrConflict, reconciliationID)
	}
	return nil
}

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

	"github.com/stewardbooks/fund_accounting_app/internal/apperrors"
	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
	portsrepo "github.com/stewardbooks/fund_accounting_app/internal/core/ports/repositories"
	"github.com/stewardbooks/fund_accounting_app/internal/models"
	"github.com/stewardbooks/fund_accounting_app/internal/utils/mapping"
)

const fundColumns = `fund_id, name, description, is_restricted, net_asset_account_id, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxFundRepository struct {
	pool *pgxpool.Pool
}

// newPgxFundRepository creates a new repository for fund data.
func newPgxFundRepository(pool *pgxpool.Pool) portsrepo.FundRepositoryFacade {
	return &PgxFundRepository{pool: pool}
}

var _ portsrepo.FundRepositoryFacade = (*PgxFundRepository)(nil)

func scanFund(row pgx.Row) (*models.Fund, error) {
	var m models.Fund
	var description, netAssetID sql.NullString
	err := row.Scan(
		&m.FundID,
		&m.Name,
		&description,
		&m.IsRestricted,
		&netAssetID,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	m.Description = fromNullString(description)
	m.NetAssetAccountID = fromNullString(netAssetID)
	return &m, nil
}

// SaveFund inserts a new fund.
func (r *PgxFundRepository) SaveFund(ctx context.Context, fund domain.Fund) error {
	m := mapping.ToModelFund(fund)

	query := `
		INSERT INTO funds (` + fundColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.pool.Exec(ctx, query,
		m.FundID,
		m.Name,
		nullString(m.Description),
		m.IsRestricted,
		nullString(m.NetAssetAccountID),
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: fund %q already exists", apperrors.ErrDuplicate, m.Name)
		}
		return fmt.Errorf("failed to save fund %s: %w", m.FundID, err)
	}
	return nil
}

// FindFundByID retrieves a fund by its ID.
func (r *PgxFundRepository) FindFundByID(ctx context.Context, fundID string) (*domain.Fund, error) {
	query := `SELECT ` + fundColumns + ` FROM funds WHERE fund_id = $1;`

	m, err := scanFund(r.pool.QueryRow(ctx, query, fundID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fund by ID %s: %w", fundID, err)
	}

	fund := mapping.ToDomainFund(*m)
	return &fund, nil
}

// FindFundsByIDs retrieves multiple funds by their IDs, keyed by ID.
func (r *PgxFundRepository) FindFundsByIDs(ctx context.Context, fundIDs []string) (map[string]domain.Fund, error) {
	if len(fundIDs) == 0 {
		return map[string]domain.Fund{}, nil
	}

	query := `SELECT ` + fundColumns + ` FROM funds WHERE fund_id = ANY($1);`

	rows, err := r.pool.Query(ctx, query, fundIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query funds by IDs: %w", err)
	}
	defer rows.Close()

	fundsMap := make(map[string]domain.Fund)
	for rows.Next() {
		m, err := scanFund(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fund row during batch fetch: %w", err)
		}
		fundsMap[m.FundID] = mapping.ToDomainFund(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund rows during batch fetch: %w", err)
	}

	return fundsMap, nil
}

// ListFunds retrieves funds ordered by name.
func (r *PgxFundRepository) ListFunds(ctx context.Context, includeInactive bool) ([]domain.Fund, error) {
	query := `SELECT ` + fundColumns + ` FROM funds`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query funds: %w", err)
	}
	defer rows.Close()

	funds := []domain.Fund{}
	for rows.Next() {
		m, err := scanFund(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fund row: %w", err)
		}
		funds = append(funds, mapping.ToDomainFund(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund rows: %w", err)
	}

	return funds, nil
}

// UpdateFund updates an existing fund's details.
func (r *PgxFundRepository) UpdateFund(ctx context.Context, fund domain.Fund) error {
	m := mapping.ToModelFund(fund)

	query := `
		UPDATE funds
		SET name = $2, description = $3, is_restricted = $4, net_asset_account_id = $5, is_active = $6, last_updated_at = $7, last_updated_by = $8
		WHERE fund_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query,
		m.FundID,
		m.Name,
		nullString(m.Description),
		m.IsRestricted,
		nullString(m.NetAssetAccountID),
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: fund %q already exists", apperrors.ErrDuplicate, m.Name)
		}
		return fmt.Errorf("failed to execute update fund %s: %w", m.FundID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateFund marks a fund as inactive.
func (r *PgxFundRepository) DeactivateFund(ctx context.Context, fundID string, userID string, now time.Time) error {
	query := `
		UPDATE funds
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE fund_id = $1 AND is_active = TRUE;
	`
	cmdTag, err := r.pool.Exec(ctx, query, fundID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to execute deactivate fund %s: %w", fundID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		_, findErr := r.FindFundByID(ctx, fundID)
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return fmt.Errorf("failed to check fund status after deactivation attempt for %s: %w", fundID, findErr)
		}
		return apperrors.ErrValidation
	}
	return nil
}

// DeleteFund physically removes a fund row. Callers must verify the fund has
// no ledger lines first.
func (r *PgxFundRepository) DeleteFund(ctx context.Context, fundID string) error {
	query := `DELETE FROM funds WHERE fund_id = $1;`

	cmdTag, err := r.pool.Exec(ctx, query, fundID)
	if err != nil {
		return fmt.Errorf("failed to execute delete fund %s: %w", fundID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CountLinesForFund reports how many ledger lines reference the fund.
func (r *PgxFundRepository) CountLinesForFund(ctx context.Context, fundID string) (int64, error) {
	query := `SELECT COUNT(*) FROM ledger_lines WHERE fund_id = $1;`

	var count int64
	if err := r.pool.QueryRow(ctx, query, fundID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count lines for fund %s: %w", fundID, err)
	}
	return count, nil
}

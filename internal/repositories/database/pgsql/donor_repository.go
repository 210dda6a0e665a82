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

const donorColumns = `donor_id, name, email, address, envelope_number, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxDonorRepository struct {
	pool *pgxpool.Pool
}

// newPgxDonorRepository creates a new repository for donor data.
func newPgxDonorRepository(pool *pgxpool.Pool) portsrepo.DonorRepositoryFacade {
	return &PgxDonorRepository{pool: pool}
}

var _ portsrepo.DonorRepositoryFacade = (*PgxDonorRepository)(nil)

func scanDonor(row pgx.Row) (*models.Donor, error) {
	var m models.Donor
	var email, address sql.NullString
	var envelope sql.NullInt32
	err := row.Scan(
		&m.DonorID,
		&m.Name,
		&email,
		&address,
		&envelope,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	m.Email = fromNullString(email)
	m.Address = fromNullString(address)
	if envelope.Valid {
		n := int(envelope.Int32)
		m.EnvelopeNumber = &n
	}
	return &m, nil
}

// SaveDonor inserts a new donor.
func (r *PgxDonorRepository) SaveDonor(ctx context.Context, donor domain.Donor) error {
	m := mapping.ToModelDonor(donor)

	query := `
		INSERT INTO donors (` + donorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.pool.Exec(ctx, query,
		m.DonorID,
		m.Name,
		nullString(m.Email),
		nullString(m.Address),
		m.EnvelopeNumber,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: envelope number already assigned", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save donor %s: %w", m.DonorID, err)
	}
	return nil
}

// FindDonorByID retrieves a donor by its ID.
func (r *PgxDonorRepository) FindDonorByID(ctx context.Context, donorID string) (*domain.Donor, error) {
	query := `SELECT ` + donorColumns + ` FROM donors WHERE donor_id = $1;`

	m, err := scanDonor(r.pool.QueryRow(ctx, query, donorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find donor by ID %s: %w", donorID, err)
	}

	donor := mapping.ToDomainDonor(*m)
	return &donor, nil
}

// ListDonors retrieves donors ordered by name.
func (r *PgxDonorRepository) ListDonors(ctx context.Context, includeInactive bool) ([]domain.Donor, error) {
	query := `SELECT ` + donorColumns + ` FROM donors`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query donors: %w", err)
	}
	defer rows.Close()

	donors := []domain.Donor{}
	for rows.Next() {
		m, err := scanDonor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan donor row: %w", err)
		}
		donors = append(donors, mapping.ToDomainDonor(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating donor rows: %w", err)
	}

	return donors, nil
}

// UpdateDonor updates an existing donor's details.
func (r *PgxDonorRepository) UpdateDonor(ctx context.Context, donor domain.Donor) error {
	m := mapping.ToModelDonor(donor)

	query := `
		UPDATE donors
		SET name = $2, email = $3, address = $4, envelope_number = $5, is_active = $6, last_updated_at = $7, last_updated_by = $8
		WHERE donor_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query,
		m.DonorID,
		m.Name,
		nullString(m.Email),
		nullString(m.Address),
		m.EnvelopeNumber,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: envelope number already assigned", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to execute update donor %s: %w", m.DonorID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateDonor marks a donor as inactive.
func (r *PgxDonorRepository) DeactivateDonor(ctx context.Context, donorID string, userID string, now time.Time) error {
	query := `
		UPDATE donors
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE donor_id = $1 AND is_active = TRUE;
	`
	cmdTag, err := r.pool.Exec(ctx, query, donorID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to execute deactivate donor %s: %w", donorID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		_, findErr := r.FindDonorByID(ctx, donorID)
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return fmt.Errorf("failed to check donor status after deactivation attempt for %s: %w", donorID, findErr)
		}
		return apperrors.ErrValidation
	}
	return nil
}

// DeleteDonor physically removes a donor row. Callers must verify the donor
// has no journal entries first.
func (r *PgxDonorRepository) DeleteDonor(ctx context.Context, donorID string) error {
	query := `DELETE FROM donors WHERE donor_id = $1;`

	cmdTag, err := r.pool.Exec(ctx, query, donorID)
	if err != nil {
		return fmt.Errorf("failed to execute delete donor %s: %w", donorID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CountEntriesForDonor reports how many journal entries reference the donor.
func (r *PgxDonorRepository) CountEntriesForDonor(ctx context.Context, donorID string) (int64, error) {
	query := `SELECT COUNT(*) FROM journal_entries WHERE donor_id = $1;`

	var count int64
	if err := r.pool.QueryRow(ctx, query, donorID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entries for donor %s: %w", donorID, err)
	}
	return count, nil
}

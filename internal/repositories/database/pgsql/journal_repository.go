package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stewardbooks/fund_accounting_app/internal/apperrors"
	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
	portsrepo "github.com/stewardbooks/fund_accounting_app/internal/core/ports/repositories"
	"github.com/stewardbooks/fund_accounting_app/internal/models"
	"github.com/stewardbooks/fund_accounting_app/internal/utils/mapping"
	"github.com/stewardbooks/fund_accounting_app/internal/utils/pagination"
)

const entryColumns = `entry_id, entry_date, description, reference_number, donor_id, is_voided, voided_at, voided_reason, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, account_id, fund_id, debit, credit, memo, is_cleared, cleared_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxEntryRepository struct {
	BaseRepository
}

// newPgxEntryRepository creates a new repository for journal entry data.
func newPgxEntryRepository(pool *pgxpool.Pool) portsrepo.EntryRepositoryFacade {
	return &PgxEntryRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxEntryRepository implements portsrepo.EntryRepositoryFacade
var _ portsrepo.EntryRepositoryFacade = (*PgxEntryRepository)(nil)

func scanEntry(row pgx.Row) (*models.JournalEntry, error) {
	var m models.JournalEntry
	var referenceNumber, donorID, voidedReason sql.NullString
	var voidedAt sql.NullTime
	err := row.Scan(
		&m.EntryID,
		&m.EntryDate,
		&m.Description,
		&referenceNumber,
		&donorID,
		&m.IsVoided,
		&voidedAt,
		&voidedReason,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	m.ReferenceNumber = fromNullString(referenceNumber)
	m.DonorID = fromNullString(donorID)
	m.VoidedReason = fromNullString(voidedReason)
	if voidedAt.Valid {
		t := voidedAt.Time
		m.VoidedAt = &t
	}
	return &m, nil
}

func scanLine(row pgx.Row) (*models.LedgerLine, error) {
	var m models.LedgerLine
	var memo sql.NullString
	var clearedAt sql.NullTime
	err := row.Scan(
		&m.LineID,
		&m.EntryID,
		&m.AccountID,
		&m.FundID,
		&m.Debit,
		&m.Credit,
		&memo,
		&m.IsCleared,
		&clearedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	m.Memo = fromNullString(memo)
	if clearedAt.Valid {
		t := clearedAt.Time
		m.ClearedAt = &t
	}
	return &m, nil
}

// SaveEntry persists a journal entry and its lines in one transaction. Either
// the entry and every line commit together or nothing is written.
func (r *PgxEntryRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.LedgerLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	m := mapping.ToModelJournalEntry(entry)
	entryQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, entryQuery,
		m.EntryID,
		m.EntryDate,
		m.Description,
		nullString(m.ReferenceNumber),
		nullString(m.DonorID),
		m.IsVoided,
		m.VoidedAt,
		nullString(m.VoidedReason),
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry %s: %w", m.EntryID, err)
	}

	lineQuery := `
		INSERT INTO ledger_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		ml := mapping.ToModelLedgerLine(line)
		batch.Queue(lineQuery,
			ml.LineID,
			ml.EntryID,
			ml.AccountID,
			ml.FundID,
			ml.Debit,
			ml.Credit,
			nullString(ml.Memo),
			ml.IsCleared,
			ml.ClearedAt,
			ml.CreatedAt,
			ml.CreatedBy,
			ml.LastUpdatedAt,
			ml.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("failed to insert line %d of entry %s: %w", i+1, m.EntryID, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close line insert batch for entry %s: %w", m.EntryID, err)
	}

	return r.Commit(ctx, tx)
}

// FindEntryByID retrieves an entry by its ID, without lines.
func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`

	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry by ID %s: %w", entryID, err)
	}

	entry := mapping.ToDomainJournalEntry(*m)
	return &entry, nil
}

// ListEntries retrieves a page of entries newest first using token-based
// pagination on (entry_date, created_at).
func (r *PgxEntryRepository) ListEntries(ctx context.Context, limit int, nextToken *string, includeVoided bool) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + entryColumns + ` FROM journal_entries`
	conditions := []string{}
	args := []any{}
	if !includeVoided {
		conditions = append(conditions, `is_voided = FALSE`)
	}
	if nextToken != nil && *nextToken != "" {
		entryDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		conditions = append(conditions, fmt.Sprintf(`(entry_date, created_at) < ($%d, $%d)`, len(args)+1, len(args)+2))
		args = append(args, entryDate, createdAt)
	}
	for i, cond := range conditions {
		if i == 0 {
			query += ` WHERE ` + cond
		} else {
			query += ` AND ` + cond
		}
	}
	// Fetch one extra row to know whether another page exists.
	query += fmt.Sprintf(` ORDER BY entry_date DESC, created_at DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		entries = append(entries, mapping.ToDomainJournalEntry(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating entry rows: %w", err)
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		t := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		token = &t
	}

	return entries, token, nil
}

// VoidEntry marks an entry voided. The guard on is_voided makes the
// transition one-way at the store level.
func (r *PgxEntryRepository) VoidEntry(ctx context.Context, entryID string, reason string, userID string, voidedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET is_voided = TRUE, voided_at = $2, voided_reason = $3, last_updated_at = $2, last_updated_by = $4
		WHERE entry_id = $1 AND is_voided = FALSE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, entryID, voidedAt, reason, userID)
	if err != nil {
		return fmt.Errorf("failed to execute void entry %s: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		_, findErr := r.FindEntryByID(ctx, entryID)
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return fmt.Errorf("failed to check entry status after void attempt for %s: %w", entryID, findErr)
		}
		return fmt.Errorf("%w: entry %s is already voided", apperrors.ErrConflict, entryID)
	}
	return nil
}

// ReplaceEntryLines updates existing lines of an entry in one transaction.
func (r *PgxEntryRepository) ReplaceEntryLines(ctx context.Context, entryID string, lines []domain.LedgerLine, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	query := `
		UPDATE ledger_lines
		SET account_id = $3, fund_id = $4, debit = $5, credit = $6, memo = $7, last_updated_at = $8, last_updated_by = $9
		WHERE line_id = $1 AND entry_id = $2;
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		ml := mapping.ToModelLedgerLine(line)
		batch.Queue(query,
			ml.LineID,
			entryID,
			ml.AccountID,
			ml.FundID,
			ml.Debit,
			ml.Credit,
			nullString(ml.Memo),
			now,
			userID,
		)
	}
	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			_ = br.Close()
			return fmt.Errorf("failed to update line %s of entry %s: %w", lines[i].LineID, entryID, err)
		}
		if ct.RowsAffected() == 0 {
			_ = br.Close()
			return fmt.Errorf("%w: line %s does not belong to entry %s", apperrors.ErrNotFound, lines[i].LineID, entryID)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close line update batch for entry %s: %w", entryID, err)
	}

	entryQuery := `UPDATE journal_entries SET last_updated_at = $2, last_updated_by = $3 WHERE entry_id = $1;`
	if _, err := tx.Exec(ctx, entryQuery, entryID, now, userID); err != nil {
		return fmt.Errorf("failed to touch entry %s: %w", entryID, err)
	}

	return r.Commit(ctx, tx)
}

// FindLinesByEntryID retrieves all lines of one entry in creation order.
func (r *PgxEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.LedgerLine, error) {
	query := `SELECT ` + lineColumns + ` FROM ledger_lines WHERE entry_id = $1 ORDER BY created_at, line_id;`

	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	return collectLines(rows)
}

// FindLinesByIDs retrieves specific lines by their IDs.
func (r *PgxEntryRepository) FindLinesByIDs(ctx context.Context, lineIDs []string) ([]domain.LedgerLine, error) {
	if len(lineIDs) == 0 {
		return []domain.LedgerLine{}, nil
	}

	query := `SELECT ` + lineColumns + ` FROM ledger_lines WHERE line_id = ANY($1);`

	rows, err := r.Pool.Query(ctx, query, lineIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines by IDs: %w", err)
	}
	defer rows.Close()

	return collectLines(rows)
}

// ListLinesByAccount retrieves the lines of non-voided entries posted to one
// account, newest first.
func (r *PgxEntryRepository) ListLinesByAccount(ctx context.Context, accountID string, unclearedOnly bool) ([]domain.LedgerLine, error) {
	query := `
		SELECT ` + prefixColumns("l", lineColumns) + `
		FROM ledger_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1 AND e.is_voided = FALSE`
	if unclearedOnly {
		query += ` AND l.is_cleared = FALSE`
	}
	query += ` ORDER BY e.entry_date DESC, l.created_at DESC;`

	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for account %s: %w", accountID, err)
	}
	defer rows.Close()

	return collectLines(rows)
}

// SetLinesCleared flips the cleared flag and timestamp on the given lines.
func (r *PgxEntryRepository) SetLinesCleared(ctx context.Context, lineIDs []string, cleared bool, clearedAt time.Time) error {
	if len(lineIDs) == 0 {
		return nil
	}

	query := `
		UPDATE ledger_lines
		SET is_cleared = $2, cleared_at = CASE WHEN $2 THEN $3 ELSE NULL END
		WHERE line_id = ANY($1);
	`
	cmdTag, err := r.Pool.Exec(ctx, query, lineIDs, cleared, clearedAt)
	if err != nil {
		return fmt.Errorf("failed to update cleared flags: %w", err)
	}
	if cmdTag.RowsAffected() != int64(len(lineIDs)) {
		return fmt.Errorf("%w: updated %d of %d lines", apperrors.ErrNotFound, cmdTag.RowsAffected(), len(lineIDs))
	}
	return nil
}

func collectLines(rows pgx.Rows) ([]domain.LedgerLine, error) {
	lines := []models.LedgerLine{}
	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row: %w", err)
		}
		lines = append(lines, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows: %w", err)
	}
	return mapping.ToDomainLedgerLineSlice(lines), nil
}

// prefixColumns qualifies a comma-separated column list with a table alias.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}

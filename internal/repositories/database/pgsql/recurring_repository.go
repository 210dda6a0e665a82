package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stewardbooks/fund_accounting_app/internal/apperrors"
	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
	portsrepo "github.com/stewardbooks/fund_accounting_app/internal/core/ports/repositories"
	"github.com/stewardbooks/fund_accounting_app/internal/models"
	"github.com/stewardbooks/fund_accounting_app/internal/utils/mapping"
)

const templateColumns = `template_id, description, frequency, start_date, end_date, next_run_date, last_run_date, is_active, fund_id, amount, created_at, created_by, last_updated_at, last_updated_by`

const templateLineColumns = `template_line_id, template_id, account_id, debit, credit, memo, line_order`

const historyColumns = `history_id, template_id, entry_id, run_date, status, error_message, created_at`

type PgxRecurringRepository struct {
	BaseRepository
}

// newPgxRecurringRepository creates a new repository for recurring template data.
func newPgxRecurringRepository(pool *pgxpool.Pool) portsrepo.RecurringRepositoryFacade {
	return &PgxRecurringRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.RecurringRepositoryFacade = (*PgxRecurringRepository)(nil)

func scanTemplate(row pgx.Row) (*models.RecurringTemplate, error) {
	var m models.RecurringTemplate
	var endDate, lastRunDate sql.NullTime
	err := row.Scan(
		&m.TemplateID,
		&m.Description,
		&m.Frequency,
		&m.StartDate,
		&endDate,
		&m.NextRunDate,
		&lastRunDate,
		&m.IsActive,
		&m.FundID,
		&m.Amount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if endDate.Valid {
		t := endDate.Time
		m.EndDate = &t
	}
	if lastRunDate.Valid {
		t := lastRunDate.Time
		m.LastRunDate = &t
	}
	return &m, nil
}

func scanTemplateLine(row pgx.Row) (*models.RecurringTemplateLine, error) {
	var m models.RecurringTemplateLine
	var memo sql.NullString
	err := row.Scan(
		&m.TemplateLineID,
		&m.TemplateID,
		&m.AccountID,
		&m.Debit,
		&m.Credit,
		&memo,
		&m.LineOrder,
	)
	if err != nil {
		return nil, err
	}
	m.Memo = fromNullString(memo)
	return &m, nil
}

// FindTemplateByID retrieves a template with its lines.
func (r *PgxRecurringRepository) FindTemplateByID(ctx context.Context, templateID string) (*domain.RecurringTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM recurring_templates WHERE template_id = $1;`

	m, err := scanTemplate(r.Pool.QueryRow(ctx, query, templateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find template by ID %s: %w", templateID, err)
	}

	template := mapping.ToDomainRecurringTemplate(*m)
	lines, err := r.findTemplateLines(ctx, templateID)
	if err != nil {
		return nil, err
	}
	template.Lines = lines
	return &template, nil
}

func (r *PgxRecurringRepository) findTemplateLines(ctx context.Context, templateID string) ([]domain.RecurringTemplateLine, error) {
	query := `SELECT ` + templateLineColumns + ` FROM recurring_template_lines WHERE template_id = $1 ORDER BY line_order;`

	rows, err := r.Pool.Query(ctx, query, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for template %s: %w", templateID, err)
	}
	defer rows.Close()

	lines := []models.RecurringTemplateLine{}
	for rows.Next() {
		m, err := scanTemplateLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template line row: %w", err)
		}
		lines = append(lines, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating template line rows: %w", err)
	}
	return mapping.ToDomainRecurringTemplateLineSlice(lines), nil
}

// ListTemplates retrieves templates ordered by next run date, without lines.
func (r *PgxRecurringRepository) ListTemplates(ctx context.Context, includeInactive bool) ([]domain.RecurringTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM recurring_templates`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY next_run_date, template_id;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	templates := []domain.RecurringTemplate{}
	for rows.Next() {
		m, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template row: %w", err)
		}
		templates = append(templates, mapping.ToDomainRecurringTemplate(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating template rows: %w", err)
	}

	return templates, nil
}

// ListDueTemplates retrieves active templates with next_run_date <= asOf,
// lines included.
func (r *PgxRecurringRepository) ListDueTemplates(ctx context.Context, asOf time.Time) ([]domain.RecurringTemplate, error) {
	query := `
		SELECT ` + templateColumns + `
		FROM recurring_templates
		WHERE is_active = TRUE AND next_run_date <= $1
		ORDER BY next_run_date, template_id;
	`
	rows, err := r.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query due templates: %w", err)
	}
	defer rows.Close()

	templates := []domain.RecurringTemplate{}
	for rows.Next() {
		m, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan due template row: %w", err)
		}
		templates = append(templates, mapping.ToDomainRecurringTemplate(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating due template rows: %w", err)
	}

	for i := range templates {
		lines, err := r.findTemplateLines(ctx, templates[i].TemplateID)
		if err != nil {
			return nil, err
		}
		templates[i].Lines = lines
	}

	return templates, nil
}

// SaveTemplate persists a template and its lines in one transaction.
func (r *PgxRecurringRepository) SaveTemplate(ctx context.Context, template domain.RecurringTemplate) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	m := mapping.ToModelRecurringTemplate(template)
	query := `
		INSERT INTO recurring_templates (` + templateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, query,
		m.TemplateID,
		m.Description,
		m.Frequency,
		m.StartDate,
		m.EndDate,
		m.NextRunDate,
		m.LastRunDate,
		m.IsActive,
		m.FundID,
		m.Amount,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert template %s: %w", m.TemplateID, err)
	}

	if err := insertTemplateLines(ctx, tx, template.Lines); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func insertTemplateLines(ctx context.Context, tx pgx.Tx, lines []domain.RecurringTemplateLine) error {
	query := `
		INSERT INTO recurring_template_lines (` + templateLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		ml := mapping.ToModelRecurringTemplateLine(line)
		batch.Queue(query,
			ml.TemplateLineID,
			ml.TemplateID,
			ml.AccountID,
			ml.Debit,
			ml.Credit,
			nullString(ml.Memo),
			ml.LineOrder,
		)
	}
	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("failed to insert template line %d: %w", i+1, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close template line batch: %w", err)
	}
	return nil
}

// UpdateTemplate updates a template's header fields and replaces its lines in
// one transaction.
func (r *PgxRecurringRepository) UpdateTemplate(ctx context.Context, template domain.RecurringTemplate) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	m := mapping.ToModelRecurringTemplate(template)
	query := `
		UPDATE recurring_templates
		SET description = $2, end_date = $3, is_active = $4, amount = $5, last_updated_at = $6, last_updated_by = $7
		WHERE template_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.TemplateID,
		m.Description,
		m.EndDate,
		m.IsActive,
		m.Amount,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update template %s: %w", m.TemplateID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if len(template.Lines) > 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM recurring_template_lines WHERE template_id = $1;`, m.TemplateID); err != nil {
			return fmt.Errorf("failed to clear lines for template %s: %w", m.TemplateID, err)
		}
		if err := insertTemplateLines(ctx, tx, template.Lines); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// AdvanceTemplate records a successful run: next_run_date and last_run_date
// move forward.
func (r *PgxRecurringRepository) AdvanceTemplate(ctx context.Context, templateID string, nextRunDate, lastRunDate time.Time, userID string, now time.Time) error {
	query := `
		UPDATE recurring_templates
		SET next_run_date = $2, last_run_date = $3, last_updated_at = $4, last_updated_by = $5
		WHERE template_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, templateID, nextRunDate, lastRunDate, now, userID)
	if err != nil {
		return fmt.Errorf("failed to advance template %s: %w", templateID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateTemplate marks a template inactive.
func (r *PgxRecurringRepository) DeactivateTemplate(ctx context.Context, templateID string, userID string, now time.Time) error {
	query := `
		UPDATE recurring_templates
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE template_id = $1 AND is_active = TRUE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, templateID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate template %s: %w", templateID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		_, findErr := r.FindTemplateByID(ctx, templateID)
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return fmt.Errorf("failed to check template status after deactivation attempt for %s: %w", templateID, findErr)
		}
		return apperrors.ErrValidation
	}
	return nil
}

// SaveHistory appends one execution history row.
func (r *PgxRecurringRepository) SaveHistory(ctx context.Context, history domain.RecurringHistory) error {
	m := mapping.ToModelRecurringHistory(history)

	query := `
		INSERT INTO recurring_history (` + historyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.HistoryID,
		m.TemplateID,
		m.EntryID,
		m.RunDate,
		m.Status,
		nullString(m.ErrorMessage),
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save history for template %s: %w", m.TemplateID, err)
	}
	return nil
}

// ListHistoryByTemplate retrieves execution history newest first.
func (r *PgxRecurringRepository) ListHistoryByTemplate(ctx context.Context, templateID string, limit int) ([]domain.RecurringHistory, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + historyColumns + `
		FROM recurring_history
		WHERE template_id = $1
		ORDER BY run_date DESC, created_at DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, templateID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history for template %s: %w", templateID, err)
	}
	defer rows.Close()

	history := []domain.RecurringHistory{}
	for rows.Next() {
		var m models.RecurringHistory
		var entryID, errorMessage sql.NullString
		err := rows.Scan(
			&m.HistoryID,
			&m.TemplateID,
			&entryID,
			&m.RunDate,
			&m.Status,
			&errorMessage,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		if entryID.Valid {
			s := entryID.String
			m.EntryID = &s
		}
		m.ErrorMessage = fromNullString(errorMessage)
		history = append(history, mapping.ToDomainRecurringHistory(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}

	return history, nil
}

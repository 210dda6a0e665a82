package repositories

import (
	"context"
	"time"

	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
)

// RecurringRepositoryFacade defines operations for recurring template data.
type RecurringRepositoryFacade interface {
	// FindTemplateByID retrieves a template with its lines.
	FindTemplateByID(ctx context.Context, templateID string) (*domain.RecurringTemplate, error)

	// ListTemplates retrieves templates ordered by next run date.
	ListTemplates(ctx context.Context, includeInactive bool) ([]domain.RecurringTemplate, error)

	// ListDueTemplates retrieves active templates with next_run_date <= asOf,
	// lines included, ordered by next run date.
	ListDueTemplates(ctx context.Context, asOf time.Time) ([]domain.RecurringTemplate, error)

	// SaveTemplate persists a template and its lines atomically.
	SaveTemplate(ctx context.Context, template domain.RecurringTemplate) error

	// UpdateTemplate updates a template's header fields and replaces its lines.
	UpdateTemplate(ctx context.Context, template domain.RecurringTemplate) error

	// AdvanceTemplate records a successful run: next_run_date and
	// last_run_date move forward.
	AdvanceTemplate(ctx context.Context, templateID string, nextRunDate, lastRunDate time.Time, userID string, now time.Time) error

	// DeactivateTemplate marks a template inactive.
	DeactivateTemplate(ctx context.Context, templateID string, userID string, now time.Time) error

	// SaveHistory appends one execution history row.
	SaveHistory(ctx context.Context, history domain.RecurringHistory) error

	// ListHistoryByTemplate retrieves execution history newest first.
	ListHistoryByTemplate(ctx context.Context, templateID string, limit int) ([]domain.RecurringHistory, error)
}

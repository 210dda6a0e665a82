package services

import (
	"context"
	"time"

	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
	"github.com/stewardbooks/fund_accounting_app/internal/dto"
)

// RecurringSvcFacade manages recurring templates and their scheduled
// materialization into journal entries.
type RecurringSvcFacade interface {
	// CreateTemplate persists a balanced recurring template.
	CreateTemplate(ctx context.Context, req dto.CreateRecurringTemplateRequest, userID string) (*domain.RecurringTemplate, error)

	// GetTemplateByID retrieves a template with its lines.
	GetTemplateByID(ctx context.Context, templateID string, userID string) (*domain.RecurringTemplate, error)

	// ListTemplates retrieves templates ordered by next run date.
	ListTemplates(ctx context.Context, includeInactive bool, userID string) ([]domain.RecurringTemplate, error)

	// UpdateTemplate updates a template; replacement lines must re-balance.
	UpdateTemplate(ctx context.Context, templateID string, req dto.UpdateRecurringTemplateRequest, userID string) (*domain.RecurringTemplate, error)

	// ProcessDueTemplates materializes every active template whose
	// next_run_date is on or before processDate. Failures are isolated per
	// template; a failed template stays due and is retried next invocation.
	ProcessDueTemplates(ctx context.Context, processDate time.Time, userID string) (*dto.ProcessTemplatesResponse, error)

	// ListHistory retrieves execution history for one template, newest first.
	ListHistory(ctx context.Context, templateID string, limit int, userID string) ([]domain.RecurringHistory, error)
}

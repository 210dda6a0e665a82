package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stewardbooks/fund_accounting_app/internal/apperrors"
	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
	portsrepo "github.com/stewardbooks/fund_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/stewardbooks/fund_accounting_app/internal/core/ports/services"
	"github.com/stewardbooks/fund_accounting_app/internal/dto"
	"github.com/stewardbooks/fund_accounting_app/internal/middleware"
	"github.com/stewardbooks/fund_accounting_app/internal/utils/accounting"
)

// recurringService manages recurring templates and materializes due ones
// into journal entries.
type recurringService struct {
	recurringRepo portsrepo.RecurringRepositoryFacade
	entryRepo     portsrepo.EntryRepositoryFacade
	accountSvc    portssvc.AccountSvcFacade
	fundSvc       portssvc.FundSvcFacade
	userSvc       portssvc.UserSvcFacade
}

// NewRecurringService creates a new recurring template service.
func NewRecurringService(recurringRepo portsrepo.RecurringRepositoryFacade, entryRepo portsrepo.EntryRepositoryFacade, accountSvc portssvc.AccountSvcFacade, fundSvc portssvc.FundSvcFacade, userSvc portssvc.UserSvcFacade) portssvc.RecurringSvcFacade {
	return &recurringService{
		recurringRepo: recurringRepo,
		entryRepo:     entryRepo,
		accountSvc:    accountSvc,
		fundSvc:       fundSvc,
		userSvc:       userSvc,
	}
}

var _ portssvc.RecurringSvcFacade = (*recurringService)(nil)

func (s *recurringService) authorize(ctx context.Context, userID string, required domain.UserRole) error {
	if s.userSvc == nil {
		return nil
	}
	return s.userSvc.AuthorizeUserAction(ctx, userID, required)
}

// buildTemplateLines validates and converts request lines into domain lines.
func (s *recurringService) buildTemplateLines(ctx context.Context, templateID string, reqLines []dto.CreateTemplateLineRequest) ([]domain.RecurringTemplateLine, error) {
	amounts := make([]accounting.LineAmounts, len(reqLines))
	accountIDs := make([]string, 0, len(reqLines))
	seen := make(map[string]struct{})
	for i, l := range reqLines {
		amounts[i] = accounting.LineAmounts{Debit: l.Debit, Credit: l.Credit}
		if _, ok := seen[l.AccountID]; !ok {
			seen[l.AccountID] = struct{}{}
			accountIDs = append(accountIDs, l.AccountID)
		}
	}
	if err := accounting.ValidateBalanced(amounts); err != nil {
		return nil, err
	}

	accountsMap, err := s.accountSvc.GetAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range accountIDs {
		acc, found := accountsMap[id]
		if !found {
			return nil, fmt.Errorf("%w: ID %s", ErrAccountNotFound, id)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %d (%s) is inactive", apperrors.ErrValidation, acc.AccountNumber, acc.Name)
		}
	}

	lines := make([]domain.RecurringTemplateLine, len(reqLines))
	for i, l := range reqLines {
		lines[i] = domain.RecurringTemplateLine{
			TemplateLineID: uuid.NewString(),
			TemplateID:     templateID,
			AccountID:      l.AccountID,
			Debit:          l.Debit,
			Credit:         l.Credit,
			Memo:           l.Memo,
			LineOrder:      i + 1,
		}
	}
	return lines, nil
}

// CreateTemplate persists a balanced recurring template. The first run is
// scheduled for the start date itself.
func (s *recurringService) CreateTemplate(ctx context.Context, req dto.CreateRecurringTemplateRequest, userID string) (*domain.RecurringTemplate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, userID, domain.RoleBookkeeper); err != nil {
		return nil, err
	}

	if !req.Frequency.IsValid() {
		return nil, fmt.Errorf("%w: invalid frequency %q", apperrors.ErrValidation, req.Frequency)
	}
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: end date precedes start date", apperrors.ErrValidation)
	}
	if _, err := s.fundSvc.GetFundByID(ctx, req.FundID); err != nil {
		return nil, err
	}

	templateID := uuid.NewString()
	lines, err := s.buildTemplateLines(ctx, templateID, req.Lines)
	if err != nil {
		return nil, err
	}

	debits, _ := accounting.ComputeTotals(accounting.TemplateLineAmounts(lines))
	now := time.Now().UTC()
	template := domain.RecurringTemplate{
		TemplateID:  templateID,
		Description: req.Description,
		Frequency:   req.Frequency,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		NextRunDate: req.StartDate,
		IsActive:    true,
		FundID:      req.FundID,
		Amount:      debits,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
		Lines: lines,
	}

	if err := s.recurringRepo.SaveTemplate(ctx, template); err != nil {
		logger.Error("Failed to save recurring template", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save recurring template: %w", err)
	}

	logger.Info("Recurring template created", slog.String("template_id", templateID), slog.String("frequency", string(req.Frequency)))
	return &template, nil
}

func (s *recurringService) GetTemplateByID(ctx context.Context, templateID string, userID string) (*domain.RecurringTemplate, error) {
	if err := s.authorize(ctx, userID, domain.RoleViewer); err != nil {
		return nil, err
	}
	template, err := s.recurringRepo.FindTemplateByID(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to find template %s: %w", templateID, err)
	}
	return template, nil
}

func (s *recurringService) ListTemplates(ctx context.Context, includeInactive bool, userID string) ([]domain.RecurringTemplate, error) {
	if err := s.authorize(ctx, userID, domain.RoleViewer); err != nil {
		return nil, err
	}
	return s.recurringRepo.ListTemplates(ctx, includeInactive)
}

// UpdateTemplate applies partial updates. Replacement lines must re-balance;
// frequency and start date are fixed so the run schedule keeps its anchor.
func (s *recurringService) UpdateTemplate(ctx context.Context, templateID string, req dto.UpdateRecurringTemplateRequest, userID string) (*domain.RecurringTemplate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, userID, domain.RoleBookkeeper); err != nil {
		return nil, err
	}

	template, err := s.recurringRepo.FindTemplateByID(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to find template %s: %w", templateID, err)
	}

	if req.Description != nil {
		template.Description = *req.Description
	}
	if req.EndDate != nil {
		if req.EndDate.Before(template.StartDate) {
			return nil, fmt.Errorf("%w: end date precedes start date", apperrors.ErrValidation)
		}
		template.EndDate = req.EndDate
	}
	if req.IsActive != nil {
		template.IsActive = *req.IsActive
	}
	if len(req.Lines) > 0 {
		lines, err := s.buildTemplateLines(ctx, templateID, req.Lines)
		if err != nil {
			return nil, err
		}
		template.Lines = lines
		debits, _ := accounting.ComputeTotals(accounting.TemplateLineAmounts(lines))
		template.Amount = debits
	}
	template.LastUpdatedAt = time.Now().UTC()
	template.LastUpdatedBy = userID

	if err := s.recurringRepo.UpdateTemplate(ctx, *template); err != nil {
		logger.Error("Failed to update recurring template", slog.String("error", err.Error()), slog.String("template_id", templateID))
		return nil, fmt.Errorf("failed to update template %s: %w", templateID, err)
	}

	return template, nil
}

// ProcessDueTemplates materializes every active template whose next_run_date
// is on or before processDate. A template that is several periods behind
// catches up one occurrence at a time. A failure is recorded in history and
// leaves next_run_date untouched, so the template stays due and is retried on
// the next invocation; one template's failure never blocks the others.
func (s *recurringService) ProcessDueTemplates(ctx context.Context, processDate time.Time, userID string) (*dto.ProcessTemplatesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, userID, domain.RoleBookkeeper); err != nil {
		return nil, err
	}

	due, err := s.recurringRepo.ListDueTemplates(ctx, processDate)
	if err != nil {
		logger.Error("Failed to list due templates", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list due templates: %w", err)
	}

	resp := &dto.ProcessTemplatesResponse{Results: make([]dto.TemplateRunResult, 0, len(due))}

	for i := range due {
		template := due[i]
		for !template.NextRunDate.After(processDate) {
			occurrence := template.NextRunDate

			if template.EndDate != nil && occurrence.After(*template.EndDate) {
				result := s.skipExpiredTemplate(ctx, &template, occurrence, userID)
				resp.Skipped++
				resp.Results = append(resp.Results, result)
				break
			}

			entryID, runErr := s.materializeTemplate(ctx, &template, occurrence, userID)
			if runErr != nil {
				logger.Warn("Recurring template run failed",
					slog.String("template_id", template.TemplateID),
					slog.String("error", runErr.Error()))
				s.recordHistory(ctx, template.TemplateID, nil, occurrence, domain.RunFailed, runErr.Error())
				resp.Failed++
				resp.Results = append(resp.Results, dto.TemplateRunResult{
					TemplateID:  template.TemplateID,
					Description: template.Description,
					Status:      string(domain.RunFailed),
					Error:       runErr.Error(),
				})
				break
			}

			next := template.Frequency.NextAfter(occurrence)
			if err := s.recurringRepo.AdvanceTemplate(ctx, template.TemplateID, next, occurrence, userID, time.Now().UTC()); err != nil {
				logger.Error("Failed to advance template schedule",
					slog.String("template_id", template.TemplateID),
					slog.String("error", err.Error()))
				resp.Failed++
				resp.Results = append(resp.Results, dto.TemplateRunResult{
					TemplateID:  template.TemplateID,
					Description: template.Description,
					Status:      string(domain.RunFailed),
					EntryID:     &entryID,
					Error:       fmt.Sprintf("entry %s created but schedule not advanced: %v", entryID, err),
				})
				break
			}

			s.recordHistory(ctx, template.TemplateID, &entryID, occurrence, domain.RunSuccess, "")
			resp.Processed++
			resp.Results = append(resp.Results, dto.TemplateRunResult{
				TemplateID:  template.TemplateID,
				Description: template.Description,
				Status:      string(domain.RunSuccess),
				EntryID:     &entryID,
			})

			template.NextRunDate = next
			template.LastRunDate = &occurrence
		}
	}

	logger.Info("Recurring templates processed",
		slog.Int("processed", resp.Processed),
		slog.Int("failed", resp.Failed),
		slog.Int("skipped", resp.Skipped))
	return resp, nil
}

// skipExpiredTemplate records a skip and deactivates a template whose end
// date has passed.
func (s *recurringService) skipExpiredTemplate(ctx context.Context, template *domain.RecurringTemplate, occurrence time.Time, userID string) dto.TemplateRunResult {
	logger := middleware.GetLoggerFromCtx(ctx)

	s.recordHistory(ctx, template.TemplateID, nil, occurrence, domain.RunSkipped, "end date passed")
	if err := s.recurringRepo.DeactivateTemplate(ctx, template.TemplateID, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to deactivate expired template",
			slog.String("template_id", template.TemplateID),
			slog.String("error", err.Error()))
	}

	return dto.TemplateRunResult{
		TemplateID:  template.TemplateID,
		Description: template.Description,
		Status:      string(domain.RunSkipped),
		Error:       "end date passed",
	}
}

// materializeTemplate builds and persists one journal entry from a template.
// The template's amounts are re-validated at run time; a template edited into
// an unbalanced state fails here instead of corrupting the ledger.
func (s *recurringService) materializeTemplate(ctx context.Context, template *domain.RecurringTemplate, occurrence time.Time, userID string) (string, error) {
	if len(template.Lines) == 0 {
		return "", fmt.Errorf("%w: template has no lines", apperrors.ErrValidation)
	}
	if err := accounting.ValidateBalanced(accounting.TemplateLineAmounts(template.Lines)); err != nil {
		return "", err
	}

	fund, err := s.fundSvc.GetFundByID(ctx, template.FundID)
	if err != nil {
		return "", err
	}
	if !fund.IsActive {
		return "", fmt.Errorf("%w: fund %s is inactive", apperrors.ErrValidation, fund.Name)
	}

	accountIDs := make([]string, 0, len(template.Lines))
	seen := make(map[string]struct{})
	for _, l := range template.Lines {
		if _, ok := seen[l.AccountID]; !ok {
			seen[l.AccountID] = struct{}{}
			accountIDs = append(accountIDs, l.AccountID)
		}
	}
	accountsMap, err := s.accountSvc.GetAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return "", fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range accountIDs {
		acc, found := accountsMap[id]
		if !found {
			return "", fmt.Errorf("%w: ID %s", ErrAccountNotFound, id)
		}
		if !acc.IsActive {
			return "", fmt.Errorf("%w: account %d (%s) is inactive", apperrors.ErrValidation, acc.AccountNumber, acc.Name)
		}
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
	entry := domain.JournalEntry{
		EntryID:     entryID,
		EntryDate:   occurrence,
		Description: template.Description,
		AuditFields: audit,
	}
	lines := make([]domain.LedgerLine, len(template.Lines))
	for i, l := range template.Lines {
		lines[i] = domain.LedgerLine{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			AccountID:   l.AccountID,
			FundID:      template.FundID,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Memo:        l.Memo,
			AuditFields: audit,
		}
	}

	if err := s.entryRepo.SaveEntry(ctx, entry, lines); err != nil {
		return "", fmt.Errorf("failed to save materialized entry: %w", err)
	}
	return entryID, nil
}

// recordHistory appends one execution record. History is best-effort: a
// failure to write it is logged but never fails the run itself.
func (s *recurringService) recordHistory(ctx context.Context, templateID string, entryID *string, runDate time.Time, status domain.RunStatus, errMsg string) {
	history := domain.RecurringHistory{
		HistoryID:    uuid.NewString(),
		TemplateID:   templateID,
		EntryID:      entryID,
		RunDate:      runDate,
		Status:       status,
		ErrorMessage: errMsg,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.recurringRepo.SaveHistory(ctx, history); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to record template run history",
			slog.String("template_id", templateID),
			slog.String("error", err.Error()))
	}
}

func (s *recurringService) ListHistory(ctx context.Context, templateID string, limit int, userID string) ([]domain.RecurringHistory, error) {
	if err := s.authorize(ctx, userID, domain.RoleViewer); err != nil {
		return nil, err
	}
	if _, err := s.recurringRepo.FindTemplateByID(ctx, templateID); err != nil {
		return nil, fmt.Errorf("failed to find template %s: %w", templateID, err)
	}
	if limit <= 0 {
		limit = 50
	}
	return s.recurringRepo.ListHistoryByTemplate(ctx, templateID, limit)
}

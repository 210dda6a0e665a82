package services

import (
	"context"
	"errors"
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
)

// budgetService manages budget rows.
type budgetService struct {
	budgetRepo portsrepo.BudgetRepositoryFacade
	accountSvc portssvc.AccountSvcFacade
	fundSvc    portssvc.FundSvcFacade
	userSvc    portssvc.UserSvcFacade
}

// NewBudgetService creates a new budget service.
func NewBudgetService(budgetRepo portsrepo.BudgetRepositoryFacade, accountSvc portssvc.AccountSvcFacade, fundSvc portssvc.FundSvcFacade, userSvc portssvc.UserSvcFacade) portssvc.BudgetSvcFacade {
	return &budgetService{
		budgetRepo: budgetRepo,
		accountSvc: accountSvc,
		fundSvc:    fundSvc,
		userSvc:    userSvc,
	}
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

func (s *budgetService) authorize(ctx context.Context, userID string, required domain.UserRole) error {
	if s.userSvc == nil {
		return nil
	}
	return s.userSvc.AuthorizeUserAction(ctx, userID, required)
}

// CreateBudget persists a budget row for one fund, account and fiscal year.
// Only income and expense accounts are budgeted.
func (s *budgetService) CreateBudget(ctx context.Context, req dto.CreateBudgetRequest, userID string) (*domain.Budget, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, userID, domain.RoleBookkeeper); err != nil {
		return nil, err
	}

	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: budget amount cannot be negative", apperrors.ErrValidation)
	}

	account, err := s.accountSvc.GetAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if account.AccountType != domain.Income && account.AccountType != domain.Expense {
		return nil, fmt.Errorf("%w: only INCOME and EXPENSE accounts are budgeted, got %s", apperrors.ErrValidation, account.AccountType)
	}
	if _, err := s.fundSvc.GetFundByID(ctx, req.FundID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	budget := domain.Budget{
		BudgetID:   uuid.NewString(),
		FundID:     req.FundID,
		AccountID:  req.AccountID,
		FiscalYear: req.FiscalYear,
		Amount:     req.Amount,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.budgetRepo.SaveBudget(ctx, budget); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("a budget for this fund, account and year already exists: %w", apperrors.ErrDuplicate)
		}
		logger.Error("Failed to save budget", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save budget: %w", err)
	}

	logger.Info("Budget created", slog.String("budget_id", budget.BudgetID), slog.Int("fiscal_year", req.FiscalYear))
	return &budget, nil
}

func (s *budgetService) ListBudgetsByYear(ctx context.Context, fiscalYear int, userID string) ([]domain.Budget, error) {
	if err := s.authorize(ctx, userID, domain.RoleViewer); err != nil {
		return nil, err
	}
	return s.budgetRepo.ListBudgetsByYear(ctx, fiscalYear)
}

// UpdateBudget changes a budget row's amount. Fund, account and year are
// fixed after creation.
func (s *budgetService) UpdateBudget(ctx context.Context, budgetID string, req dto.UpdateBudgetRequest, userID string) (*domain.Budget, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, userID, domain.RoleBookkeeper); err != nil {
		return nil, err
	}
	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: budget amount cannot be negative", apperrors.ErrValidation)
	}

	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to find budget %s: %w", budgetID, err)
	}

	budget.Amount = req.Amount
	budget.LastUpdatedAt = time.Now().UTC()
	budget.LastUpdatedBy = userID

	if err := s.budgetRepo.UpdateBudget(ctx, *budget); err != nil {
		logger.Error("Failed to update budget", slog.String("error", err.Error()), slog.String("budget_id", budgetID))
		return nil, fmt.Errorf("failed to update budget %s: %w", budgetID, err)
	}

	return budget, nil
}

func (s *budgetService) DeleteBudget(ctx context.Context, budgetID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, userID, domain.RoleBookkeeper); err != nil {
		return err
	}

	if _, err := s.budgetRepo.FindBudgetByID(ctx, budgetID); err != nil {
		return fmt.Errorf("failed to find budget %s: %w", budgetID, err)
	}

	if err := s.budgetRepo.DeleteBudget(ctx, budgetID); err != nil {
		logger.Error("Failed to delete budget", slog.String("error", err.Error()), slog.String("budget_id", budgetID))
		return fmt.Errorf("failed to delete budget %s: %w", budgetID, err)
	}

	logger.Info("Budget deleted", slog.String("budget_id", budgetID))
	return nil
}

package services

import (
	"context"
	"time"

	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
	"github.com/stewardbooks/fund_accounting_app/internal/dto"
)

// ReportingSvcFacade produces read-only aggregations. All reports exclude
// voided entries.
type ReportingSvcFacade interface {
	// AccountBalances reports per-account positions as of a date.
	AccountBalances(ctx context.Context, asOf time.Time, userID string) ([]domain.AccountBalance, error)

	// FundBalances reports per-fund net positions as of a date.
	FundBalances(ctx context.Context, asOf time.Time, userID string) ([]domain.FundBalance, error)

	// GivingStatements aggregates donor contributions over a period.
	GivingStatements(ctx context.Context, from, to time.Time, userID string) ([]domain.DonorGivingSummary, error)

	// BudgetVariance compares budgeted amounts against actuals for one fiscal
	// year. A zero budget with nonzero actual is flagged NO_BUDGET rather
	// than reported as a 0% variance.
	BudgetVariance(ctx context.Context, fiscalYear int, userID string) ([]domain.BudgetVariance, error)
}

// BudgetSvcFacade manages budget rows.
type BudgetSvcFacade interface {
	CreateBudget(ctx context.Context, req dto.CreateBudgetRequest, userID string) (*domain.Budget, error)
	ListBudgetsByYear(ctx context.Context, fiscalYear int, userID string) ([]domain.Budget, error)
	UpdateBudget(ctx context.Context, budgetID string, req dto.UpdateBudgetRequest, userID string) (*domain.Budget, error)
	DeleteBudget(ctx context.Context, budgetID string, userID string) error
}

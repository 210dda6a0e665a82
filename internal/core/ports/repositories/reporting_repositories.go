package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
)

// FundAccountKey builds the map key used by ActualsByFundAccount.
func FundAccountKey(fundID, accountID string) string {
	return fundID + "|" + accountID
}

// ReportingRepositoryFacade defines aggregate read operations for reports.
// Every aggregation excludes voided entries.
type ReportingRepositoryFacade interface {
	// AccountBalances computes per-account debit/credit totals as of a date.
	AccountBalances(ctx context.Context, asOf time.Time) ([]domain.AccountBalance, error)

	// FundBalances computes per-fund net positions as of a date.
	FundBalances(ctx context.Context, asOf time.Time) ([]domain.FundBalance, error)

	// DonorGivingSummaries aggregates contributions per donor over a period.
	DonorGivingSummaries(ctx context.Context, from, to time.Time) ([]domain.DonorGivingSummary, error)

	// ActualsByFundAccount sums income/expense activity per fund and account
	// for one fiscal year, for budget comparison.
	ActualsByFundAccount(ctx context.Context, fiscalYear int) (map[string]decimal.Decimal, error)
}

// BudgetRepositoryFacade defines operations for budget data.
type BudgetRepositoryFacade interface {
	// FindBudgetByID retrieves a budget row.
	FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error)

	// ListBudgetsByYear retrieves all budget rows for one fiscal year.
	ListBudgetsByYear(ctx context.Context, fiscalYear int) ([]domain.Budget, error)

	// SaveBudget persists a new budget row.
	SaveBudget(ctx context.Context, budget domain.Budget) error

	// UpdateBudget updates a budget row's amount.
	UpdateBudget(ctx context.Context, budget domain.Budget) error

	// DeleteBudget removes a budget row.
	DeleteBudget(ctx context.Context, budgetID string) error
}

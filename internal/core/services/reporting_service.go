package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stewardbooks/fund_accounting_app/internal/apperrors"
	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
	portsrepo "github.com/stewardbooks/fund_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/stewardbooks/fund_accounting_app/internal/core/ports/services"
	"github.com/stewardbooks/fund_accounting_app/internal/middleware"
)

var oneHundred = decimal.NewFromInt(100)

// reportingService produces read-only aggregations over the ledger.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepositoryFacade
	budgetRepo    portsrepo.BudgetRepositoryFacade
	accountSvc    portssvc.AccountSvcFacade
	userSvc       portssvc.UserSvcFacade
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepositoryFacade, budgetRepo portsrepo.BudgetRepositoryFacade, accountSvc portssvc.AccountSvcFacade, userSvc portssvc.UserSvcFacade) portssvc.ReportingSvcFacade {
	return &reportingService{
		reportingRepo: reportingRepo,
		budgetRepo:    budgetRepo,
		accountSvc:    accountSvc,
		userSvc:       userSvc,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

func (s *reportingService) authorize(ctx context.Context, userID string, required domain.UserRole) error {
	if s.userSvc == nil {
		return nil
	}
	return s.userSvc.AuthorizeUserAction(ctx, userID, required)
}

// AccountBalances reports per-account positions as of a date.
func (s *reportingService) AccountBalances(ctx context.Context, asOf time.Time, userID string) ([]domain.AccountBalance, error) {
	if err := s.authorize(ctx, userID, domain.RoleViewer); err != nil {
		return nil, err
	}
	balances, err := s.reportingRepo.AccountBalances(ctx, asOf)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to compute account balances", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to compute account balances: %w", err)
	}
	return balances, nil
}

// FundBalances reports per-fund net positions as of a date.
func (s *reportingService) FundBalances(ctx context.Context, asOf time.Time, userID string) ([]domain.FundBalance, error) {
	if err := s.authorize(ctx, userID, domain.RoleViewer); err != nil {
		return nil, err
	}
	balances, err := s.reportingRepo.FundBalances(ctx, asOf)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to compute fund balances", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to compute fund balances: %w", err)
	}
	return balances, nil
}

// GivingStatements aggregates donor contributions over a period.
func (s *reportingService) GivingStatements(ctx context.Context, from, to time.Time, userID string) ([]domain.DonorGivingSummary, error) {
	if err := s.authorize(ctx, userID, domain.RoleViewer); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: period end precedes period start", apperrors.ErrValidation)
	}
	summaries, err := s.reportingRepo.DonorGivingSummaries(ctx, from, to)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to compute giving summaries", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to compute giving summaries: %w", err)
	}
	return summaries, nil
}

// BudgetVariance compares budgeted amounts against actuals for one fiscal
// year. Rows exist for every budget and for every fund/account pair with
// actual activity. Actual activity against a zero or missing budget is
// flagged NO_BUDGET; its percentage is left at zero and must not be read as
// an on-budget result.
func (s *reportingService) BudgetVariance(ctx context.Context, fiscalYear int, userID string) ([]domain.BudgetVariance, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, userID, domain.RoleViewer); err != nil {
		return nil, err
	}

	budgets, err := s.budgetRepo.ListBudgetsByYear(ctx, fiscalYear)
	if err != nil {
		logger.Error("Failed to list budgets", slog.String("error", err.Error()), slog.Int("fiscal_year", fiscalYear))
		return nil, fmt.Errorf("failed to list budgets for %d: %w", fiscalYear, err)
	}

	actuals, err := s.reportingRepo.ActualsByFundAccount(ctx, fiscalYear)
	if err != nil {
		logger.Error("Failed to compute actuals", slog.String("error", err.Error()), slog.Int("fiscal_year", fiscalYear))
		return nil, fmt.Errorf("failed to compute actuals for %d: %w", fiscalYear, err)
	}

	accountIDs := make([]string, 0, len(budgets)+len(actuals))
	seen := make(map[string]struct{})
	collect := func(accountID string) {
		if _, ok := seen[accountID]; !ok {
			seen[accountID] = struct{}{}
			accountIDs = append(accountIDs, accountID)
		}
	}
	for _, b := range budgets {
		collect(b.AccountID)
	}
	for key := range actuals {
		if _, accountID, ok := splitFundAccountKey(key); ok {
			collect(accountID)
		}
	}
	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	rows := make([]domain.BudgetVariance, 0, len(budgets))
	budgeted := make(map[string]struct{}, len(budgets))

	for _, b := range budgets {
		key := portsrepo.FundAccountKey(b.FundID, b.AccountID)
		budgeted[key] = struct{}{}
		actual := actuals[key]
		rows = append(rows, buildVarianceRow(b.FundID, b.AccountID, accounts[b.AccountID], fiscalYear, b.Amount, actual))
	}

	// Activity with no budget row at all still shows up, flagged NO_BUDGET.
	for key, actual := range actuals {
		if _, ok := budgeted[key]; ok {
			continue
		}
		if actual.IsZero() {
			continue
		}
		fundID, accountID, ok := splitFundAccountKey(key)
		if !ok {
			continue
		}
		rows = append(rows, buildVarianceRow(fundID, accountID, accounts[accountID], fiscalYear, decimal.Zero, actual))
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].FundID != rows[j].FundID {
			return rows[i].FundID < rows[j].FundID
		}
		return rows[i].AccountNumber < rows[j].AccountNumber
	})
	return rows, nil
}

func buildVarianceRow(fundID, accountID string, account domain.Account, fiscalYear int, budgetedAmount, actual decimal.Decimal) domain.BudgetVariance {
	row := domain.BudgetVariance{
		FundID:         fundID,
		AccountID:      accountID,
		AccountNumber:  account.AccountNumber,
		AccountName:    account.Name,
		FiscalYear:     fiscalYear,
		BudgetedAmount: budgetedAmount,
		ActualAmount:   actual,
		Variance:       actual.Sub(budgetedAmount),
		Flag:           domain.VarianceNormal,
	}
	if budgetedAmount.IsZero() {
		if actual.IsZero() {
			return row
		}
		row.Flag = domain.VarianceNoBudget
		return row
	}
	row.VariancePercentage = row.Variance.Div(budgetedAmount).Mul(oneHundred).Round(2)
	return row
}

func splitFundAccountKey(key string) (fundID, accountID string, ok bool) {
	for i := 0; i < len(key); i++ {
		if key[i] == '|' {
			return key[:i], key[i+1:], true
		}
	}
	return "", "", false
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
)

// CreateBudgetRequest defines the data needed to create a budget row.
type CreateBudgetRequest struct {
	FundID     string          `json:"fundID" binding:"required"`
	AccountID  string          `json:"accountID" binding:"required"`
	FiscalYear int             `json:"fiscalYear" binding:"required,min=1900"`
	Amount     decimal.Decimal `json:"amount"`
}

// UpdateBudgetRequest defines the data allowed for updating a budget row.
type UpdateBudgetRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// BudgetResponse defines the data returned for a budget row.
type BudgetResponse struct {
	BudgetID   string          `json:"budgetID"`
	FundID     string          `json:"fundID"`
	AccountID  string          `json:"accountID"`
	FiscalYear int             `json:"fiscalYear"`
	Amount     decimal.Decimal `json:"amount"`
}

// ToBudgetResponse converts a domain.Budget to BudgetResponse DTO
func ToBudgetResponse(b *domain.Budget) BudgetResponse {
	return BudgetResponse{
		BudgetID:   b.BudgetID,
		FundID:     b.FundID,
		AccountID:  b.AccountID,
		FiscalYear: b.FiscalYear,
		Amount:     b.Amount,
	}
}

// BalanceReportParams selects the as-of date for balance reports.
type BalanceReportParams struct {
	AsOf *time.Time `form:"asOf" time_format:"2006-01-02"`
}

// GivingStatementParams selects the period for donor giving summaries.
type GivingStatementParams struct {
	From time.Time `form:"from" time_format:"2006-01-02" binding:"required"`
	To   time.Time `form:"to" time_format:"2006-01-02" binding:"required"`
}

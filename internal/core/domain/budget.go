package domain

import "github.com/shopspring/decimal"

// Budget is a planned amount for one account within a fund for a fiscal year.
type Budget struct {
	BudgetID   string          `json:"budgetID"` // Primary key (UUID)
	FundID     string          `json:"fundID"`
	AccountID  string          `json:"accountID"`
	FiscalYear int             `json:"fiscalYear"`
	Amount     decimal.Decimal `json:"amount"`
	AuditFields
}

// VarianceFlag qualifies a budget variance row.
type VarianceFlag string

const (
	// VarianceNormal means budgeted is nonzero and the percentage is meaningful.
	VarianceNormal VarianceFlag = "NORMAL"
	// VarianceNoBudget means actual activity was posted against a zero budget;
	// the percentage is undefined and must not be read as 0.
	VarianceNoBudget VarianceFlag = "NO_BUDGET"
)

// BudgetVariance is one row of a budget-vs-actual report.
type BudgetVariance struct {
	FundID             string          `json:"fundID"`
	AccountID          string          `json:"accountID"`
	AccountNumber      int             `json:"accountNumber"`
	AccountName        string          `json:"accountName"`
	FiscalYear         int             `json:"fiscalYear"`
	BudgetedAmount     decimal.Decimal `json:"budgetedAmount"`
	ActualAmount       decimal.Decimal `json:"actualAmount"`
	Variance           decimal.Decimal `json:"variance"`
	VariancePercentage decimal.Decimal `json:"variancePercentage"` // Meaningless when Flag == NO_BUDGET
	Flag               VarianceFlag    `json:"flag"`
}

package models

import "github.com/shopspring/decimal"

// User mirrors the users table.
type User struct {
	UserID       string `json:"userID"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	IsActive     bool   `json:"isActive"`
	AuditFields
}

// Budget mirrors the budgets table.
type Budget struct {
	BudgetID   string          `json:"budgetID"`
	FundID     string          `json:"fundID"`
	AccountID  string          `json:"accountID"`
	FiscalYear int             `json:"fiscalYear"`
	Amount     decimal.Decimal `json:"amount"`
	AuditFields
}

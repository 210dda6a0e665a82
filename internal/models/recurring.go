package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurringTemplate mirrors the recurring_templates table.
type RecurringTemplate struct {
	TemplateID  string          `json:"templateID"`
	Description string          `json:"description"`
	Frequency   string          `json:"frequency"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     *time.Time      `json:"endDate"` // Nullable
	NextRunDate time.Time       `json:"nextRunDate"`
	LastRunDate *time.Time      `json:"lastRunDate"` // Nullable
	IsActive    bool            `json:"isActive"`
	FundID      string          `json:"fundID"`
	Amount      decimal.Decimal `json:"amount"`
	AuditFields
}

// RecurringTemplateLine mirrors the recurring_template_lines table.
type RecurringTemplateLine struct {
	TemplateLineID string          `json:"templateLineID"`
	TemplateID     string          `json:"templateID"`
	AccountID      string          `json:"accountID"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Memo           string          `json:"memo"`
	LineOrder      int             `json:"lineOrder"`
}

// RecurringHistory mirrors the recurring_history table. EntryID is NULL for
// failed and skipped runs.
type RecurringHistory struct {
	HistoryID    string    `json:"historyID"`
	TemplateID   string    `json:"templateID"`
	EntryID      *string   `json:"entryID"`
	RunDate      time.Time `json:"runDate"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"errorMessage"`
	CreatedAt    time.Time `json:"createdAt"`
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is the recurrence step of a recurring template.
type Frequency string

const (
	Weekly       Frequency = "WEEKLY"
	Biweekly     Frequency = "BIWEEKLY"
	Monthly      Frequency = "MONTHLY"
	Quarterly    Frequency = "QUARTERLY"
	Semiannually Frequency = "SEMIANNUALLY"
	Yearly       Frequency = "YEARLY"
)

// IsValid reports whether f is a known frequency.
func (f Frequency) IsValid() bool {
	switch f {
	case Weekly, Biweekly, Monthly, Quarterly, Semiannually, Yearly:
		return true
	}
	return false
}

// NextAfter returns the run date following prev. The step is always taken
// from the previous scheduled date, never from the processing date, so a
// delayed run does not drift the schedule.
func (f Frequency) NextAfter(prev time.Time) time.Time {
	switch f {
	case Weekly:
		return prev.AddDate(0, 0, 7)
	case Biweekly:
		return prev.AddDate(0, 0, 14)
	case Monthly:
		return prev.AddDate(0, 1, 0)
	case Quarterly:
		return prev.AddDate(0, 3, 0)
	case Semiannually:
		return prev.AddDate(0, 6, 0)
	case Yearly:
		return prev.AddDate(1, 0, 0)
	}
	return prev
}

// RecurringTemplate is a stored blueprint that periodically materializes
// into a concrete journal entry.
type RecurringTemplate struct {
	TemplateID  string          `json:"templateID"` // Primary key (UUID)
	Description string          `json:"description"`
	Frequency   Frequency       `json:"frequency"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     *time.Time      `json:"endDate"` // Nullable; template deactivates once passed
	NextRunDate time.Time       `json:"nextRunDate"`
	LastRunDate *time.Time      `json:"lastRunDate"`
	IsActive    bool            `json:"isActive"`
	FundID      string          `json:"fundID"` // Fund applied to every materialized line
	Amount      decimal.Decimal `json:"amount"` // Total entry amount (sum of one side)
	AuditFields
	Lines []RecurringTemplateLine `json:"lines,omitempty"`
}

// RecurringTemplateLine is the template-level analog of a ledger line.
// A template's lines balance the same way entry lines do.
type RecurringTemplateLine struct {
	TemplateLineID string          `json:"templateLineID"` // Primary key (UUID)
	TemplateID     string          `json:"templateID"`     // FK -> recurring_templates.template_id
	AccountID      string          `json:"accountID"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Memo           string          `json:"memo"`
	LineOrder      int             `json:"lineOrder"`
}

// RunStatus is the outcome of a single template execution.
type RunStatus string

const (
	RunSuccess RunStatus = "SUCCESS"
	RunFailed  RunStatus = "FAILED"
	RunSkipped RunStatus = "SKIPPED"
)

// RecurringHistory records one execution attempt of a template.
// EntryID is nil when no journal entry was created (failed or skipped runs).
type RecurringHistory struct {
	HistoryID    string    `json:"historyID"` // Primary key (UUID)
	TemplateID   string    `json:"templateID"`
	EntryID      *string   `json:"entryID"` // Nullable FK -> journal_entries.entry_id
	RunDate      time.Time `json:"runDate"`
	Status       RunStatus `json:"status"`
	ErrorMessage string    `json:"errorMessage"`
	CreatedAt    time.Time `json:"createdAt"`
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
)

// CreateTemplateLineRequest defines one line of a recurring template.
type CreateTemplateLineRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Debit     decimal.Decimal `json:"debit" binding:"gte=0"`
	Credit    decimal.Decimal `json:"credit" binding:"gte=0"`
	Memo      string          `json:"memo"`
}

// CreateRecurringTemplateRequest defines the data needed to create a template.
// Lines must balance the same way journal entry lines do.
type CreateRecurringTemplateRequest struct {
	Description string                      `json:"description" binding:"required"`
	Frequency   domain.Frequency            `json:"frequency" binding:"required,oneof=WEEKLY BIWEEKLY MONTHLY QUARTERLY SEMIANNUALLY YEARLY"`
	StartDate   time.Time                   `json:"startDate" binding:"required"`
	EndDate     *time.Time                  `json:"endDate"` // Optional
	FundID      string                      `json:"fundID" binding:"required"`
	Lines       []CreateTemplateLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// UpdateRecurringTemplateRequest defines the data allowed for updating a template.
type UpdateRecurringTemplateRequest struct {
	Description *string                     `json:"description"`
	EndDate     *time.Time                  `json:"endDate"`
	IsActive    *bool                       `json:"isActive"`
	Lines       []CreateTemplateLineRequest `json:"lines" binding:"omitempty,min=2,dive"`
}

// ProcessTemplatesRequest triggers due-template materialization. ProcessDate
// defaults to today when omitted.
type ProcessTemplatesRequest struct {
	ProcessDate *time.Time `json:"processDate"`
}

// TemplateRunResult is the per-template outcome of one scheduler invocation.
type TemplateRunResult struct {
	TemplateID  string  `json:"templateID"`
	Description string  `json:"description"`
	Status      string  `json:"status"` // SUCCESS, FAILED or SKIPPED
	EntryID     *string `json:"entryID,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// ProcessTemplatesResponse aggregates one scheduler invocation.
type ProcessTemplatesResponse struct {
	Processed int                 `json:"processed"`
	Failed    int                 `json:"failed"`
	Skipped   int                 `json:"skipped"`
	Results   []TemplateRunResult `json:"results"`
}

// TemplateLineResponse defines the data returned for one template line.
type TemplateLineResponse struct {
	TemplateLineID string          `json:"templateLineID"`
	AccountID      string          `json:"accountID"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Memo           string          `json:"memo"`
	LineOrder      int             `json:"lineOrder"`
}

// RecurringTemplateResponse defines the data returned for a template.
type RecurringTemplateResponse struct {
	TemplateID  string                 `json:"templateID"`
	Description string                 `json:"description"`
	Frequency   domain.Frequency       `json:"frequency"`
	StartDate   time.Time              `json:"startDate"`
	EndDate     *time.Time             `json:"endDate,omitempty"`
	NextRunDate time.Time              `json:"nextRunDate"`
	LastRunDate *time.Time             `json:"lastRunDate,omitempty"`
	IsActive    bool                   `json:"isActive"`
	FundID      string                 `json:"fundID"`
	Amount      decimal.Decimal        `json:"amount"`
	Lines       []TemplateLineResponse `json:"lines,omitempty"`
}

// RecurringHistoryResponse defines the data returned for one execution record.
type RecurringHistoryResponse struct {
	HistoryID    string    `json:"historyID"`
	TemplateID   string    `json:"templateID"`
	EntryID      *string   `json:"entryID,omitempty"`
	RunDate      time.Time `json:"runDate"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
}

// ToRecurringTemplateResponse converts a domain template to its response DTO.
func ToRecurringTemplateResponse(t *domain.RecurringTemplate) RecurringTemplateResponse {
	resp := RecurringTemplateResponse{
		TemplateID:  t.TemplateID,
		Description: t.Description,
		Frequency:   t.Frequency,
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		NextRunDate: t.NextRunDate,
		LastRunDate: t.LastRunDate,
		IsActive:    t.IsActive,
		FundID:      t.FundID,
		Amount:      t.Amount,
	}
	if len(t.Lines) > 0 {
		resp.Lines = make([]TemplateLineResponse, len(t.Lines))
		for i, l := range t.Lines {
			resp.Lines[i] = TemplateLineResponse{
				TemplateLineID: l.TemplateLineID,
				AccountID:      l.AccountID,
				Debit:          l.Debit,
				Credit:         l.Credit,
				Memo:           l.Memo,
				LineOrder:      l.LineOrder,
			}
		}
	}
	return resp
}

// ToRecurringHistoryResponses converts domain history rows to response DTOs.
func ToRecurringHistoryResponses(hs []domain.RecurringHistory) []RecurringHistoryResponse {
	responses := make([]RecurringHistoryResponse, len(hs))
	for i, h := range hs {
		responses[i] = RecurringHistoryResponse{
			HistoryID:    h.HistoryID,
			TemplateID:   h.TemplateID,
			EntryID:      h.EntryID,
			RunDate:      h.RunDate,
			Status:       string(h.Status),
			ErrorMessage: h.ErrorMessage,
		}
	}
	return responses
}

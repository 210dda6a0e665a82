package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
)

// StartReconciliationRequest opens a new reconciliation session for an account.
type StartReconciliationRequest struct {
	AccountID        string          `json:"accountID" binding:"required"`
	StatementDate    time.Time       `json:"statementDate" binding:"required"`
	StatementBalance decimal.Decimal `json:"statementBalance"`
	Notes            string          `json:"notes"`
}

// MarkClearedRequest flips the cleared flag on a set of ledger lines.
type MarkClearedRequest struct {
	LineIDs []string `json:"lineIDs" binding:"required,min=1"`
	Cleared bool     `json:"cleared"`
}

// FinalizeReconciliationRequest completes a session over the given lines.
type FinalizeReconciliationRequest struct {
	StatementBalance decimal.Decimal `json:"statementBalance"`
	LineIDs          []string        `json:"lineIDs" binding:"required,min=1"`
}

// ClearedBalanceParams selects the lines for a cleared balance computation.
// When LineIDs is empty, all cleared lines of the account are summed.
type ClearedBalanceParams struct {
	LineIDs []string `json:"lineIDs"`
}

// ClearedBalanceResponse returns a cleared balance computation.
type ClearedBalanceResponse struct {
	AccountID      string          `json:"accountID"`
	ClearedBalance decimal.Decimal `json:"clearedBalance"`
}

// ReconciliationResponse defines the data returned for a reconciliation session.
type ReconciliationResponse struct {
	ReconciliationID  string          `json:"reconciliationID"`
	AccountID         string          `json:"accountID"`
	StatementDate     time.Time       `json:"statementDate"`
	StatementBalance  decimal.Decimal `json:"statementBalance"`
	ReconciledBalance decimal.Decimal `json:"reconciledBalance"`
	Status            string          `json:"status"`
	Notes             string          `json:"notes,omitempty"`
	CompletedAt       *time.Time      `json:"completedAt,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// ToReconciliationResponse converts a domain.Reconciliation to its response DTO.
func ToReconciliationResponse(r *domain.Reconciliation) ReconciliationResponse {
	return ReconciliationResponse{
		ReconciliationID:  r.ReconciliationID,
		AccountID:         r.AccountID,
		StatementDate:     r.StatementDate,
		StatementBalance:  r.StatementBalance,
		ReconciledBalance: r.ReconciledBalance,
		Status:            string(r.Status),
		Notes:             r.Notes,
		CompletedAt:       r.CompletedAt,
		CreatedAt:         r.CreatedAt,
	}
}

// ToReconciliationResponses converts a slice of sessions to response DTOs.
func ToReconciliationResponses(rs []domain.Reconciliation) []ReconciliationResponse {
	responses := make([]ReconciliationResponse, len(rs))
	for i := range rs {
		responses[i] = ToReconciliationResponse(&rs[i])
	}
	return responses
}

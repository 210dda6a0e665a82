package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reconciliation mirrors the reconciliations table. A partial unique index on
// (account_id) WHERE status = 'IN_PROGRESS' enforces the single-session rule.
type Reconciliation struct {
	ReconciliationID  string          `json:"reconciliationID"`
	AccountID         string          `json:"accountID"`
	StatementDate     time.Time       `json:"statementDate"`
	StatementBalance  decimal.Decimal `json:"statementBalance"`
	ReconciledBalance decimal.Decimal `json:"reconciledBalance"`
	Status            string          `json:"status"`
	Notes             string          `json:"notes"`
	CompletedAt       *time.Time      `json:"completedAt"`
	AuditFields
}

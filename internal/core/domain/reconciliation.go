package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationStatus is the lifecycle state of a reconciliation session.
// The only transition is IN_PROGRESS -> COMPLETED.
type ReconciliationStatus string

const (
	ReconciliationInProgress ReconciliationStatus = "IN_PROGRESS"
	ReconciliationCompleted  ReconciliationStatus = "COMPLETED"
)

// Reconciliation matches cleared ledger lines against a bank statement
// balance for one account. At most one IN_PROGRESS session may exist per
// account at any time; the store enforces this with a partial unique index.
type Reconciliation struct {
	ReconciliationID  string               `json:"reconciliationID"` // Primary key (UUID)
	AccountID         string               `json:"accountID"`
	StatementDate     time.Time            `json:"statementDate"`
	StatementBalance  decimal.Decimal      `json:"statementBalance"`
	ReconciledBalance decimal.Decimal      `json:"reconciledBalance"` // Set on completion
	Status            ReconciliationStatus `json:"status"`
	Notes             string               `json:"notes"`
	CompletedAt       *time.Time           `json:"completedAt"`
	AuditFields
}

package mapping

import (
	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
	"github.com/stewardbooks/fund_accounting_app/internal/models"
)

// ToModelReconciliation converts a domain Reconciliation to its model
func ToModelReconciliation(d domain.Reconciliation) models.Reconciliation {
	return models.Reconciliation{
		ReconciliationID:  d.ReconciliationID,
		AccountID:         d.AccountID,
		StatementDate:     d.StatementDate,
		StatementBalance:  d.StatementBalance,
		ReconciledBalance: d.ReconciledBalance,
		Status:            string(d.Status),
		Notes:             d.Notes,
		CompletedAt:       d.CompletedAt,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainReconciliation converts a model Reconciliation to its domain form
func ToDomainReconciliation(m models.Reconciliation) domain.Reconciliation {
	return domain.Reconciliation{
		ReconciliationID:  m.ReconciliationID,
		AccountID:         m.AccountID,
		StatementDate:     m.StatementDate,
		StatementBalance:  m.StatementBalance,
		ReconciledBalance: m.ReconciledBalance,
		Status:            domain.ReconciliationStatus(m.Status),
		Notes:             m.Notes,
		CompletedAt:       m.CompletedAt,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelUser converts a domain User to its model
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:       d.UserID,
		Username:     d.Username,
		Name:         d.Name,
		PasswordHash: d.PasswordHash,
		Role:         string(d.Role),
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainUser converts a model User to its domain form
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:       m.UserID,
		Username:     m.Username,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		Role:         domain.UserRole(m.Role),
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelBudget converts a domain Budget to its model
func ToModelBudget(d domain.Budget) models.Budget {
	return models.Budget{
		BudgetID:    d.BudgetID,
		FundID:      d.FundID,
		AccountID:   d.AccountID,
		FiscalYear:  d.FiscalYear,
		Amount:      d.Amount,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBudget converts a model Budget to its domain form
func ToDomainBudget(m models.Budget) domain.Budget {
	return domain.Budget{
		BudgetID:    m.BudgetID,
		FundID:      m.FundID,
		AccountID:   m.AccountID,
		FiscalYear:  m.FiscalYear,
		Amount:      m.Amount,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

package services

import (
	portsrepo "github.com/stewardbooks/fund_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/stewardbooks/fund_accounting_app/internal/core/ports/services"
	"github.com/stewardbooks/fund_accounting_app/pkg/config"
)

// NewServiceContainer wires every service with its repositories. The user
// service is built first because the ledger services consult it for role
// checks.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, cfg *config.Config) *portssvc.ServiceContainer {
	userSvc := NewUserService(repos.UserRepo)
	accountSvc := NewAccountService(repos.AccountRepo, userSvc)
	fundSvc := NewFundService(repos.FundRepo, repos.AccountRepo, userSvc)
	donorSvc := NewDonorService(repos.DonorRepo, userSvc)
	entrySvc := NewEntryService(repos.EntryRepo, accountSvc, fundSvc, donorSvc, userSvc)
	recurringSvc := NewRecurringService(repos.RecurringRepo, repos.EntryRepo, accountSvc, fundSvc, userSvc)
	reconciliationSvc := NewReconciliationService(repos.ReconciliationRepo, repos.EntryRepo, accountSvc, userSvc)
	budgetSvc := NewBudgetService(repos.BudgetRepo, accountSvc, fundSvc, userSvc)
	reportingSvc := NewReportingService(repos.ReportingRepo, repos.BudgetRepo, accountSvc, userSvc)
	authSvc := NewAuthService(repos.UserRepo, cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer)

	return &portssvc.ServiceContainer{
		Account:        accountSvc,
		Fund:           fundSvc,
		Donor:          donorSvc,
		Entry:          entrySvc,
		Recurring:      recurringSvc,
		Reconciliation: reconciliationSvc,
		Budget:         budgetSvc,
		Reporting:      reportingSvc,
		User:           userSvc,
		Auth:           authSvc,
	}
}

package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/stewardbooks/fund_accounting_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every repository against one connection pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:        newPgxAccountRepository(dbPool),
		FundRepo:           newPgxFundRepository(dbPool),
		DonorRepo:          newPgxDonorRepository(dbPool),
		EntryRepo:          newPgxEntryRepository(dbPool),
		RecurringRepo:      newPgxRecurringRepository(dbPool),
		ReconciliationRepo: newPgxReconciliationRepository(dbPool),
		BudgetRepo:         newPgxBudgetRepository(dbPool),
		ReportingRepo:      newReportingRepository(dbPool),
		UserRepo:           newPgxUserRepository(dbPool),
	}
}

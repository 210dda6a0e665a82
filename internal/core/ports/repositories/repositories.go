package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	AccountRepo        AccountRepositoryFacade
	FundRepo           FundRepositoryFacade
	DonorRepo          DonorRepositoryFacade
	EntryRepo          EntryRepositoryFacade
	RecurringRepo      RecurringRepositoryFacade
	ReconciliationRepo ReconciliationRepositoryFacade
	BudgetRepo         BudgetRepositoryFacade
	ReportingRepo      ReportingRepositoryFacade
	UserRepo           UserRepositoryFacade
}

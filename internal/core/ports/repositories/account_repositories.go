package repositories

import (
	"context"
	"time"

	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
)

// AccountReader defines read operations for chart-of-accounts data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByNumber retrieves an account by its chart number.
	FindAccountByNumber(ctx context.Context, accountNumber int) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs, keyed by ID.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves accounts ordered by account number.
	ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error)
}

// AccountWriter defines write operations for chart-of-accounts data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error

	// DeleteAccount physically removes an account row.
	DeleteAccount(ctx context.Context, accountID string) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter

	// CountLinesForAccount reports how many ledger lines reference the account.
	// A referenced account may only be deactivated, never deleted.
	CountLinesForAccount(ctx context.Context, accountID string) (int64, error)
}

// FundRepositoryFacade defines operations for fund data.
type FundRepositoryFacade interface {
	// FindFundByID retrieves a specific fund by its unique identifier.
	FindFundByID(ctx context.Context, fundID string) (*domain.Fund, error)

	// FindFundsByIDs retrieves multiple funds by their IDs, keyed by ID.
	FindFundsByIDs(ctx context.Context, fundIDs []string) (map[string]domain.Fund, error)

	// ListFunds retrieves funds ordered by name.
	ListFunds(ctx context.Context, includeInactive bool) ([]domain.Fund, error)

	// SaveFund persists a new fund.
	SaveFund(ctx context.Context, fund domain.Fund) error

	// UpdateFund updates an existing fund's details.
	UpdateFund(ctx context.Context, fund domain.Fund) error

	// DeactivateFund marks a fund as inactive.
	DeactivateFund(ctx context.Context, fundID string, userID string, now time.Time) error

	// DeleteFund physically removes a fund row.
	DeleteFund(ctx context.Context, fundID string) error

	// CountLinesForFund reports how many ledger lines reference the fund.
	CountLinesForFund(ctx context.Context, fundID string) (int64, error)
}

// DonorRepositoryFacade defines operations for donor data.
type DonorRepositoryFacade interface {
	// FindDonorByID retrieves a specific donor by its unique identifier.
	FindDonorByID(ctx context.Context, donorID string) (*domain.Donor, error)

	// ListDonors retrieves donors ordered by name.
	ListDonors(ctx context.Context, includeInactive bool) ([]domain.Donor, error)

	// SaveDonor persists a new donor.
	SaveDonor(ctx context.Context, donor domain.Donor) error

	// UpdateDonor updates an existing donor's details.
	UpdateDonor(ctx context.Context, donor domain.Donor) error

	// DeactivateDonor marks a donor as inactive.
	DeactivateDonor(ctx context.Context, donorID string, userID string, now time.Time) error

	// DeleteDonor physically removes a donor row.
	DeleteDonor(ctx context.Context, donorID string) error

	// CountEntriesForDonor reports how many journal entries reference the donor.
	CountEntriesForDonor(ctx context.Context, donorID string) (int64, error)
}

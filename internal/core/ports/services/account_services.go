package services

import (
	"context"

	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
	"github.com/stewardbooks/fund_accounting_app/internal/dto"
)

// AccountSvcFacade manages the chart of accounts.
type AccountSvcFacade interface {
	// CreateAccount persists a new account; the account number must be unique.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// GetAccountByID retrieves an account.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountsByIDs retrieves multiple accounts keyed by ID.
	GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves accounts ordered by account number.
	ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error)

	// UpdateAccount updates account details.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeactivateAccount soft-deletes an account. An account referenced by
	// ledger lines can never be physically deleted.
	DeactivateAccount(ctx context.Context, accountID string, userID string) error

	// DeleteAccount physically removes an account with no ledger lines.
	// A referenced account returns a conflict error; deactivate it instead.
	DeleteAccount(ctx context.Context, accountID string, userID string) error
}

// FundSvcFacade manages funds.
type FundSvcFacade interface {
	CreateFund(ctx context.Context, req dto.CreateFundRequest, userID string) (*domain.Fund, error)
	GetFundByID(ctx context.Context, fundID string) (*domain.Fund, error)
	GetFundsByIDs(ctx context.Context, fundIDs []string) (map[string]domain.Fund, error)
	ListFunds(ctx context.Context, includeInactive bool) ([]domain.Fund, error)
	UpdateFund(ctx context.Context, fundID string, req dto.UpdateFundRequest, userID string) (*domain.Fund, error)
	DeactivateFund(ctx context.Context, fundID string, userID string) error

	// DeleteFund physically removes a fund with no ledger lines. A referenced
	// fund returns a conflict error; deactivate it instead.
	DeleteFund(ctx context.Context, fundID string, userID string) error
}

// DonorSvcFacade manages donors.
type DonorSvcFacade interface {
	CreateDonor(ctx context.Context, req dto.CreateDonorRequest, userID string) (*domain.Donor, error)
	GetDonorByID(ctx context.Context, donorID string) (*domain.Donor, error)
	ListDonors(ctx context.Context, includeInactive bool) ([]domain.Donor, error)
	UpdateDonor(ctx context.Context, donorID string, req dto.UpdateDonorRequest, userID string) (*domain.Donor, error)
	DeactivateDonor(ctx context.Context, donorID string, userID string) error

	// DeleteDonor physically removes a donor with no journal entries. A
	// referenced donor returns a conflict error; deactivate it instead.
	DeleteDonor(ctx context.Context, donorID string, userID string) error
}

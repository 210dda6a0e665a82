package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
	portsrepo "github.com/stewardbooks/fund_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/stewardbooks/fund_accounting_app/internal/core/ports/services"
	"github.com/stewardbooks/fund_accounting_app/internal/dto"
)

// --- Mock EntryRepository ---

type MockEntryRepository struct {
	mock.Mock
}

var _ portsrepo.EntryRepositoryFacade = (*MockEntryRepository)(nil)

func (m *MockEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockEntryRepository) ListEntries(ctx context.Context, limit int, nextToken *string, includeVoided bool) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, limit, nextToken, includeVoided)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.JournalEntry), returnedNextToken, args.Error(2)
}

func (m *MockEntryRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.LedgerLine) error {
	args := m.Called(ctx, entry, lines)
	return args.Error(0)
}

func (m *MockEntryRepository) VoidEntry(ctx context.Context, entryID string, reason string, userID string, voidedAt time.Time) error {
	args := m.Called(ctx, entryID, reason, userID, voidedAt)
	return args.Error(0)
}

func (m *MockEntryRepository) ReplaceEntryLines(ctx context.Context, entryID string, lines []domain.LedgerLine, userID string, now time.Time) error {
	args := m.Called(ctx, entryID, lines, userID, now)
	return args.Error(0)
}

func (m *MockEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.LedgerLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerLine), args.Error(1)
}

func (m *MockEntryRepository) FindLinesByIDs(ctx context.Context, lineIDs []string) ([]domain.LedgerLine, error) {
	args := m.Called(ctx, lineIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerLine), args.Error(1)
}

func (m *MockEntryRepository) ListLinesByAccount(ctx context.Context, accountID string, unclearedOnly bool) ([]domain.LedgerLine, error) {
	args := m.Called(ctx, accountID, unclearedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerLine), args.Error(1)
}

func (m *MockEntryRepository) SetLinesCleared(ctx context.Context, lineIDs []string, cleared bool, clearedAt time.Time) error {
	args := m.Called(ctx, lineIDs, cleared, clearedAt)
	return args.Error(0)
}

// --- Mock RecurringRepository ---

type MockRecurringRepository struct {
	mock.Mock
}

var _ portsrepo.RecurringRepositoryFacade = (*MockRecurringRepository)(nil)

func (m *MockRecurringRepository) FindTemplateByID(ctx context.Context, templateID string) (*domain.RecurringTemplate, error) {
	args := m.Called(ctx, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringTemplate), args.Error(1)
}

func (m *MockRecurringRepository) ListTemplates(ctx context.Context, includeInactive bool) ([]domain.RecurringTemplate, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringTemplate), args.Error(1)
}

func (m *MockRecurringRepository) ListDueTemplates(ctx context.Context, asOf time.Time) ([]domain.RecurringTemplate, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringTemplate), args.Error(1)
}

func (m *MockRecurringRepository) SaveTemplate(ctx context.Context, template domain.RecurringTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockRecurringRepository) UpdateTemplate(ctx context.Context, template domain.RecurringTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockRecurringRepository) AdvanceTemplate(ctx context.Context, templateID string, nextRunDate, lastRunDate time.Time, userID string, now time.Time) error {
	args := m.Called(ctx, templateID, nextRunDate, lastRunDate, userID, now)
	return args.Error(0)
}

func (m *MockRecurringRepository) DeactivateTemplate(ctx context.Context, templateID string, userID string, now time.Time) error {
	args := m.Called(ctx, templateID, userID, now)
	return args.Error(0)
}

func (m *MockRecurringRepository) SaveHistory(ctx context.Context, history domain.RecurringHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockRecurringRepository) ListHistoryByTemplate(ctx context.Context, templateID string, limit int) ([]domain.RecurringHistory, error) {
	args := m.Called(ctx, templateID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringHistory), args.Error(1)
}

// --- Mock ReconciliationRepository ---

type MockReconciliationRepository struct {
	mock.Mock
}

var _ portsrepo.ReconciliationRepositoryFacade = (*MockReconciliationRepository)(nil)

func (m *MockReconciliationRepository) FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.Reconciliation, error) {
	args := m.Called(ctx, reconciliationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reconciliation), args.Error(1)
}

func (m *MockReconciliationRepository) FindInProgressByAccount(ctx context.Context, accountID string) (*domain.Reconciliation, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reconciliation), args.Error(1)
}

func (m *MockReconciliationRepository) ListReconciliationsByAccount(ctx context.Context, accountID string) ([]domain.Reconciliation, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reconciliation), args.Error(1)
}

func (m *MockReconciliationRepository) SaveReconciliation(ctx context.Context, reconciliation domain.Reconciliation) error {
	args := m.Called(ctx, reconciliation)
	return args.Error(0)
}

func (m *MockReconciliationRepository) CompleteReconciliation(ctx context.Context, reconciliationID string, reconciledBalance decimal.Decimal, lineIDs []string, userID string, completedAt time.Time) error {
	args := m.Called(ctx, reconciliationID, reconciledBalance, lineIDs, userID, completedAt)
	return args.Error(0)
}

func (m *MockReconciliationRepository) DeleteReconciliation(ctx context.Context, reconciliationID string) error {
	args := m.Called(ctx, reconciliationID)
	return args.Error(0)
}

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber int) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockAccountRepository) CountLinesForAccount(ctx context.Context, accountID string) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock FundRepository ---

type MockFundRepository struct {
	mock.Mock
}

var _ portsrepo.FundRepositoryFacade = (*MockFundRepository)(nil)

func (m *MockFundRepository) FindFundByID(ctx context.Context, fundID string) (*domain.Fund, error) {
	args := m.Called(ctx, fundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fund), args.Error(1)
}

func (m *MockFundRepository) FindFundsByIDs(ctx context.Context, fundIDs []string) (map[string]domain.Fund, error) {
	args := m.Called(ctx, fundIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Fund), args.Error(1)
}

func (m *MockFundRepository) ListFunds(ctx context.Context, includeInactive bool) ([]domain.Fund, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Fund), args.Error(1)
}

func (m *MockFundRepository) SaveFund(ctx context.Context, fund domain.Fund) error {
	args := m.Called(ctx, fund)
	return args.Error(0)
}

func (m *MockFundRepository) UpdateFund(ctx context.Context, fund domain.Fund) error {
	args := m.Called(ctx, fund)
	return args.Error(0)
}

func (m *MockFundRepository) DeactivateFund(ctx context.Context, fundID string, userID string, now time.Time) error {
	args := m.Called(ctx, fundID, userID, now)
	return args.Error(0)
}

func (m *MockFundRepository) DeleteFund(ctx context.Context, fundID string) error {
	args := m.Called(ctx, fundID)
	return args.Error(0)
}

func (m *MockFundRepository) CountLinesForFund(ctx context.Context, fundID string) (int64, error) {
	args := m.Called(ctx, fundID)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock DonorRepository ---

type MockDonorRepository struct {
	mock.Mock
}

var _ portsrepo.DonorRepositoryFacade = (*MockDonorRepository)(nil)

func (m *MockDonorRepository) FindDonorByID(ctx context.Context, donorID string) (*domain.Donor, error) {
	args := m.Called(ctx, donorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donor), args.Error(1)
}

func (m *MockDonorRepository) ListDonors(ctx context.Context, includeInactive bool) ([]domain.Donor, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Donor), args.Error(1)
}

func (m *MockDonorRepository) SaveDonor(ctx context.Context, donor domain.Donor) error {
	args := m.Called(ctx, donor)
	return args.Error(0)
}

func (m *MockDonorRepository) UpdateDonor(ctx context.Context, donor domain.Donor) error {
	args := m.Called(ctx, donor)
	return args.Error(0)
}

func (m *MockDonorRepository) DeactivateDonor(ctx context.Context, donorID string, userID string, now time.Time) error {
	args := m.Called(ctx, donorID, userID, now)
	return args.Error(0)
}

func (m *MockDonorRepository) DeleteDonor(ctx context.Context, donorID string) error {
	args := m.Called(ctx, donorID)
	return args.Error(0)
}

func (m *MockDonorRepository) CountEntriesForDonor(ctx context.Context, donorID string) (int64, error) {
	args := m.Called(ctx, donorID)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) DeactivateUser(ctx context.Context, userID string, updatedBy string, now time.Time) error {
	args := m.Called(ctx, userID, updatedBy, now)
	return args.Error(0)
}

// --- Mock AccountService ---

type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, accountID string, userID string) error {
	args := m.Called(ctx, accountID, userID)
	return args.Error(0)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	args := m.Called(ctx, accountID, userID)
	return args.Error(0)
}

// --- Mock FundService ---

type MockFundService struct {
	mock.Mock
}

var _ portssvc.FundSvcFacade = (*MockFundService)(nil)

func (m *MockFundService) CreateFund(ctx context.Context, req dto.CreateFundRequest, userID string) (*domain.Fund, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fund), args.Error(1)
}

func (m *MockFundService) GetFundByID(ctx context.Context, fundID string) (*domain.Fund, error) {
	args := m.Called(ctx, fundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fund), args.Error(1)
}

func (m *MockFundService) GetFundsByIDs(ctx context.Context, fundIDs []string) (map[string]domain.Fund, error) {
	args := m.Called(ctx, fundIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Fund), args.Error(1)
}

func (m *MockFundService) ListFunds(ctx context.Context, includeInactive bool) ([]domain.Fund, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Fund), args.Error(1)
}

func (m *MockFundService) UpdateFund(ctx context.Context, fundID string, req dto.UpdateFundRequest, userID string) (*domain.Fund, error) {
	args := m.Called(ctx, fundID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fund), args.Error(1)
}

func (m *MockFundService) DeleteFund(ctx context.Context, fundID string, userID string) error {
	args := m.Called(ctx, fundID, userID)
	return args.Error(0)
}

func (m *MockFundService) DeactivateFund(ctx context.Context, fundID string, userID string) error {
	args := m.Called(ctx, fundID, userID)
	return args.Error(0)
}

// --- Mock DonorService ---

type MockDonorService struct {
	mock.Mock
}

var _ portssvc.DonorSvcFacade = (*MockDonorService)(nil)

func (m *MockDonorService) CreateDonor(ctx context.Context, req dto.CreateDonorRequest, userID string) (*domain.Donor, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donor), args.Error(1)
}

func (m *MockDonorService) GetDonorByID(ctx context.Context, donorID string) (*domain.Donor, error) {
	args := m.Called(ctx, donorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donor), args.Error(1)
}

func (m *MockDonorService) ListDonors(ctx context.Context, includeInactive bool) ([]domain.Donor, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Donor), args.Error(1)
}

func (m *MockDonorService) UpdateDonor(ctx context.Context, donorID string, req dto.UpdateDonorRequest, userID string) (*domain.Donor, error) {
	args := m.Called(ctx, donorID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donor), args.Error(1)
}

func (m *MockDonorService) DeleteDonor(ctx context.Context, donorID string, userID string) error {
	args := m.Called(ctx, donorID, userID)
	return args.Error(0)
}

func (m *MockDonorService) DeactivateDonor(ctx context.Context, donorID string, userID string) error {
	args := m.Called(ctx, donorID, userID)
	return args.Error(0)
}

// --- Mock UserService ---

type MockUserService struct {
	mock.Mock
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

func (m *MockUserService) CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, requestingUserID string) ([]domain.User, error) {
	args := m.Called(ctx, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	args := m.Called(ctx, userID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) DeactivateUser(ctx context.Context, userID string, requestingUserID string) error {
	args := m.Called(ctx, userID, requestingUserID)
	return args.Error(0)
}

func (m *MockUserService) AuthorizeUserAction(ctx context.Context, userID string, required domain.UserRole) error {
	args := m.Called(ctx, userID, required)
	return args.Error(0)
}

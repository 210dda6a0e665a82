package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/stewardbooks/fund_accounting_app/internal/apperrors"
	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
	portssvc "github.com/stewardbooks/fund_accounting_app/internal/core/ports/services"
	"github.com/stewardbooks/fund_accounting_app/internal/core/services"
	"github.com/stewardbooks/fund_accounting_app/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockUserSvc     *MockUserService
	service         portssvc.AccountSvcFacade
	ctx             context.Context

	adminUserID string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockUserSvc = new(MockUserService)
	suite.service = services.NewAccountService(suite.mockAccountRepo, suite.mockUserSvc)
	suite.ctx = context.Background()
	suite.adminUserID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) expectAdmin() {
	suite.mockUserSvc.On("AuthorizeUserAction", suite.ctx, suite.adminUserID, domain.RoleAdmin).Return(nil).Once()
}

func (suite *AccountServiceTestSuite) TestCreateAccountSuccess() {
	suite.expectAdmin()
	req := dto.CreateAccountRequest{
		AccountNumber: 1010,
		Name:          "Checking",
		AccountType:   domain.Asset,
		Description:   "Primary operating account",
	}

	suite.mockAccountRepo.On("SaveAccount", suite.ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.AccountNumber == 1010 && a.AccountType == domain.Asset && a.IsActive
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(suite.ctx, req, suite.adminUserID)

	suite.Require().NoError(err)
	suite.NotEmpty(account.AccountID)
	suite.Equal("Checking", account.Name)
	suite.Equal(suite.adminUserID, account.CreatedBy)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccountInvalidType() {
	suite.expectAdmin()
	req := dto.CreateAccountRequest{
		AccountNumber: 1010,
		Name:          "Checking",
		AccountType:   domain.AccountType("BANK"),
	}

	account, err := suite.service.CreateAccount(suite.ctx, req, suite.adminUserID)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "invalid account type")
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccountNonPositiveNumber() {
	suite.expectAdmin()
	req := dto.CreateAccountRequest{
		AccountNumber: 0,
		Name:          "Checking",
		AccountType:   domain.Asset,
	}

	account, err := suite.service.CreateAccount(suite.ctx, req, suite.adminUserID)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.Contains(err.Error(), "account number must be positive")
}

func (suite *AccountServiceTestSuite) TestCreateAccountDuplicateNumber() {
	suite.expectAdmin()
	req := dto.CreateAccountRequest{
		AccountNumber: 1010,
		Name:          "Checking",
		AccountType:   domain.Asset,
	}

	suite.mockAccountRepo.On("SaveAccount", suite.ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	account, err := suite.service.CreateAccount(suite.ctx, req, suite.adminUserID)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Contains(err.Error(), "account number 1010 already exists")
}

func (suite *AccountServiceTestSuite) TestCreateAccountParentTypeMismatch() {
	suite.expectAdmin()
	parentID := uuid.NewString()
	parent := &domain.Account{AccountID: parentID, AccountNumber: 4000, AccountType: domain.Income, IsActive: true}
	req := dto.CreateAccountRequest{
		AccountNumber:   1011,
		Name:            "Sub-checking",
		AccountType:     domain.Asset,
		ParentAccountID: &parentID,
	}

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, parentID).Return(parent, nil).Once()

	account, err := suite.service.CreateAccount(suite.ctx, req, suite.adminUserID)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "parent account type")
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccountAuthorizationDenied() {
	suite.mockUserSvc.On("AuthorizeUserAction", suite.ctx, suite.adminUserID, domain.RoleAdmin).Return(apperrors.ErrForbidden).Once()
	req := dto.CreateAccountRequest{
		AccountNumber: 1010,
		Name:          "Checking",
		AccountType:   domain.Asset,
	}

	account, err := suite.service.CreateAccount(suite.ctx, req, suite.adminUserID)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestGetAccountsByIDsEmptySet() {
	accounts, err := suite.service.GetAccountsByIDs(suite.ctx, nil)

	suite.Require().NoError(err)
	suite.Empty(accounts)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountsByIDs", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccountPartial() {
	suite.expectAdmin()
	accountID := uuid.NewString()
	existing := &domain.Account{
		AccountID:     accountID,
		AccountNumber: 1010,
		Name:          "Checking",
		AccountType:   domain.Asset,
		Description:   "Primary operating account",
		IsActive:      true,
	}
	newName := "Main Checking"
	req := dto.UpdateAccountRequest{Name: &newName}

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, accountID).Return(existing, nil).Once()
	suite.mockAccountRepo.On("UpdateAccount", suite.ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Name == "Main Checking" && a.Description == "Primary operating account"
	})).Return(nil).Once()

	account, err := suite.service.UpdateAccount(suite.ctx, accountID, req, suite.adminUserID)

	suite.Require().NoError(err)
	suite.Equal("Main Checking", account.Name)
	suite.Equal(suite.adminUserID, account.LastUpdatedBy)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccountSuccess() {
	suite.expectAdmin()
	accountID := uuid.NewString()
	existing := &domain.Account{AccountID: accountID, AccountNumber: 1010, AccountType: domain.Asset, IsActive: true}

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, accountID).Return(existing, nil).Once()
	suite.mockAccountRepo.On("DeactivateAccount", suite.ctx, accountID, suite.adminUserID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeactivateAccount(suite.ctx, accountID, suite.adminUserID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccountNotFound() {
	suite.expectAdmin()
	accountID := uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, accountID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeactivateAccount(suite.ctx, accountID, suite.adminUserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeleteAccountSuccess() {
	suite.expectAdmin()
	accountID := uuid.NewString()
	existing := &domain.Account{AccountID: accountID, AccountNumber: 1015, AccountType: domain.Asset, IsActive: true}

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, accountID).Return(existing, nil).Once()
	suite.mockAccountRepo.On("CountLinesForAccount", suite.ctx, accountID).Return(int64(0), nil).Once()
	suite.mockAccountRepo.On("DeleteAccount", suite.ctx, accountID).Return(nil).Once()

	err := suite.service.DeleteAccount(suite.ctx, accountID, suite.adminUserID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeleteAccountWithLines() {
	suite.expectAdmin()
	accountID := uuid.NewString()
	existing := &domain.Account{AccountID: accountID, AccountNumber: 1010, AccountType: domain.Asset, IsActive: true}

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, accountID).Return(existing, nil).Once()
	suite.mockAccountRepo.On("CountLinesForAccount", suite.ctx, accountID).Return(int64(3), nil).Once()

	err := suite.service.DeleteAccount(suite.ctx, accountID, suite.adminUserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Contains(err.Error(), "referenced by 3 ledger lines")
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "DeleteAccount", mock.Anything, mock.Anything)
}

func TestAccountServiceSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

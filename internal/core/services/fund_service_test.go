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

type FundServiceTestSuite struct {
	suite.Suite
	mockFundRepo    *MockFundRepository
	mockAccountRepo *MockAccountRepository
	mockUserSvc     *MockUserService
	service         portssvc.FundSvcFacade
	ctx             context.Context

	adminUserID string
}

func (suite *FundServiceTestSuite) SetupTest() {
	suite.mockFundRepo = new(MockFundRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockUserSvc = new(MockUserService)
	suite.service = services.NewFundService(suite.mockFundRepo, suite.mockAccountRepo, suite.mockUserSvc)
	suite.ctx = context.Background()
	suite.adminUserID = uuid.NewString()
}

func (suite *FundServiceTestSuite) expectAdmin() {
	suite.mockUserSvc.On("AuthorizeUserAction", suite.ctx, suite.adminUserID, domain.RoleAdmin).Return(nil).Once()
}

func (suite *FundServiceTestSuite) TestCreateFundSuccess() {
	suite.expectAdmin()
	req := dto.CreateFundRequest{Name: "Building Fund", IsRestricted: true}

	suite.mockFundRepo.On("SaveFund", suite.ctx, mock.MatchedBy(func(f domain.Fund) bool {
		return f.Name == "Building Fund" && f.IsRestricted && f.IsActive
	})).Return(nil).Once()

	fund, err := suite.service.CreateFund(suite.ctx, req, suite.adminUserID)

	suite.Require().NoError(err)
	suite.NotEmpty(fund.FundID)
	suite.mockFundRepo.AssertExpectations(suite.T())
}

func (suite *FundServiceTestSuite) TestCreateFundDuplicateName() {
	suite.expectAdmin()
	req := dto.CreateFundRequest{Name: "General Fund"}

	suite.mockFundRepo.On("SaveFund", suite.ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	fund, err := suite.service.CreateFund(suite.ctx, req, suite.adminUserID)

	suite.Require().Error(err)
	suite.Nil(fund)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Contains(err.Error(), `fund "General Fund" already exists`)
}

func (suite *FundServiceTestSuite) TestCreateFundNonEquityNetAssetAccount() {
	suite.expectAdmin()
	accountID := uuid.NewString()
	req := dto.CreateFundRequest{Name: "Missions Fund", NetAssetAccountID: &accountID}

	asset := &domain.Account{AccountID: accountID, AccountNumber: 1010, AccountType: domain.Asset, IsActive: true}
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, accountID).Return(asset, nil).Once()

	fund, err := suite.service.CreateFund(suite.ctx, req, suite.adminUserID)

	suite.Require().Error(err)
	suite.Nil(fund)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "net asset account must be an EQUITY account")
	suite.mockFundRepo.AssertNotCalled(suite.T(), "SaveFund", mock.Anything, mock.Anything)
}

func (suite *FundServiceTestSuite) TestDeleteFundSuccess() {
	suite.expectAdmin()
	fundID := uuid.NewString()
	existing := &domain.Fund{FundID: fundID, Name: "Youth Fund", IsActive: true}

	suite.mockFundRepo.On("FindFundByID", suite.ctx, fundID).Return(existing, nil).Once()
	suite.mockFundRepo.On("CountLinesForFund", suite.ctx, fundID).Return(int64(0), nil).Once()
	suite.mockFundRepo.On("DeleteFund", suite.ctx, fundID).Return(nil).Once()

	err := suite.service.DeleteFund(suite.ctx, fundID, suite.adminUserID)

	suite.Require().NoError(err)
	suite.mockFundRepo.AssertExpectations(suite.T())
}

func (suite *FundServiceTestSuite) TestDeleteFundWithLines() {
	suite.expectAdmin()
	fundID := uuid.NewString()
	existing := &domain.Fund{FundID: fundID, Name: "General Fund", IsActive: true}

	suite.mockFundRepo.On("FindFundByID", suite.ctx, fundID).Return(existing, nil).Once()
	suite.mockFundRepo.On("CountLinesForFund", suite.ctx, fundID).Return(int64(12), nil).Once()

	err := suite.service.DeleteFund(suite.ctx, fundID, suite.adminUserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Contains(err.Error(), "referenced by 12 ledger lines")
	suite.mockFundRepo.AssertNotCalled(suite.T(), "DeleteFund", mock.Anything, mock.Anything)
}

func TestFundServiceSuite(t *testing.T) {
	suite.Run(t, new(FundServiceTestSuite))
}

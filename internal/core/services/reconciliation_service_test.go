package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/stewardbooks/fund_accounting_app/internal/apperrors"
	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
	portssvc "github.com/stewardbooks/fund_accounting_app/internal/core/ports/services"
	"github.com/stewardbooks/fund_accounting_app/internal/core/services"
	"github.com/stewardbooks/fund_accounting_app/internal/dto"
)

type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockReconciliationRepo *MockReconciliationRepository
	mockEntryRepo          *MockEntryRepository
	mockAccountSvc         *MockAccountService
	mockUserSvc            *MockUserService
	service                portssvc.ReconciliationSvcFacade
	ctx                    context.Context

	userID          string
	checkingAccount domain.Account
	incomeAccount   domain.Account
	statementDate   time.Time
}

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	suite.mockReconciliationRepo = new(MockReconciliationRepository)
	suite.mockEntryRepo = new(MockEntryRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.mockUserSvc = new(MockUserService)
	suite.service = services.NewReconciliationService(suite.mockReconciliationRepo, suite.mockEntryRepo, suite.mockAccountSvc, suite.mockUserSvc)
	suite.ctx = context.Background()

	suite.userID = uuid.NewString()
	suite.checkingAccount = domain.Account{AccountID: uuid.NewString(), AccountNumber: 1010, Name: "Checking", AccountType: domain.Asset, IsActive: true}
	suite.incomeAccount = domain.Account{AccountID: uuid.NewString(), AccountNumber: 4010, Name: "Tithes and Offerings", AccountType: domain.Income, IsActive: true}
	suite.statementDate = time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
}

func (suite *ReconciliationServiceTestSuite) expectAuthorized(role domain.UserRole) {
	suite.mockUserSvc.On("AuthorizeUserAction", suite.ctx, suite.userID, role).Return(nil).Once()
}

func (suite *ReconciliationServiceTestSuite) inProgressFixture() *domain.Reconciliation {
	return &domain.Reconciliation{
		ReconciliationID: uuid.NewString(),
		AccountID:        suite.checkingAccount.AccountID,
		StatementDate:    suite.statementDate,
		StatementBalance: decimal.NewFromFloat(500.00),
		Status:           domain.ReconciliationInProgress,
	}
}

func (suite *ReconciliationServiceTestSuite) accountLines(amounts ...float64) []domain.LedgerLine {
	lines := make([]domain.LedgerLine, len(amounts))
	for i, a := range amounts {
		line := domain.LedgerLine{LineID: uuid.NewString(), EntryID: uuid.NewString(), AccountID: suite.checkingAccount.AccountID}
		if a >= 0 {
			line.Debit = decimal.NewFromFloat(a)
		} else {
			line.Credit = decimal.NewFromFloat(-a)
		}
		lines[i] = line
	}
	return lines
}

func lineIDs(lines []domain.LedgerLine) []string {
	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.LineID
	}
	return ids
}

func (suite *ReconciliationServiceTestSuite) TestStartSuccess() {
	suite.expectAuthorized(domain.RoleBookkeeper)
	req := dto.StartReconciliationRequest{
		AccountID:        suite.checkingAccount.AccountID,
		StatementDate:    suite.statementDate,
		StatementBalance: decimal.NewFromFloat(500.00),
		Notes:            "March statement",
	}

	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, suite.checkingAccount.AccountID).Return(&suite.checkingAccount, nil).Once()
	suite.mockReconciliationRepo.On("SaveReconciliation", suite.ctx, mock.MatchedBy(func(r domain.Reconciliation) bool {
		return r.AccountID == suite.checkingAccount.AccountID && r.Status == domain.ReconciliationInProgress
	})).Return(nil).Once()

	reconciliation, err := suite.service.Start(suite.ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ReconciliationInProgress, reconciliation.Status)
	suite.Equal("March statement", reconciliation.Notes)
	suite.mockReconciliationRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestStartSecondSessionConflict() {
	suite.expectAuthorized(domain.RoleBookkeeper)
	req := dto.StartReconciliationRequest{
		AccountID:        suite.checkingAccount.AccountID,
		StatementDate:    suite.statementDate,
		StatementBalance: decimal.NewFromFloat(500.00),
	}

	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, suite.checkingAccount.AccountID).Return(&suite.checkingAccount, nil).Once()
	suite.mockReconciliationRepo.On("SaveReconciliation", suite.ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	reconciliation, err := suite.service.Start(suite.ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(reconciliation)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Contains(err.Error(), "already has a reconciliation in progress")
}

func (suite *ReconciliationServiceTestSuite) TestStartNonReconcilableAccount() {
	suite.expectAuthorized(domain.RoleBookkeeper)
	req := dto.StartReconciliationRequest{
		AccountID:        suite.incomeAccount.AccountID,
		StatementDate:    suite.statementDate,
		StatementBalance: decimal.NewFromFloat(500.00),
	}

	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, suite.incomeAccount.AccountID).Return(&suite.incomeAccount, nil).Once()

	reconciliation, err := suite.service.Start(suite.ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(reconciliation)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "cannot be reconciled")
	suite.mockReconciliationRepo.AssertNotCalled(suite.T(), "SaveReconciliation", mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestGetInProgressByAccount() {
	suite.mockUserSvc.On("AuthorizeUserAction", suite.ctx, suite.userID, domain.RoleViewer).Return(nil).Once()
	reconciliation := suite.inProgressFixture()

	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, suite.checkingAccount.AccountID).Return(&suite.checkingAccount, nil).Once()
	suite.mockReconciliationRepo.On("FindInProgressByAccount", suite.ctx, suite.checkingAccount.AccountID).Return(reconciliation, nil).Once()

	found, err := suite.service.GetInProgressByAccount(suite.ctx, suite.checkingAccount.AccountID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(reconciliation.ReconciliationID, found.ReconciliationID)
	suite.Equal(domain.ReconciliationInProgress, found.Status)
}

func (suite *ReconciliationServiceTestSuite) TestGetInProgressByAccountNone() {
	suite.mockUserSvc.On("AuthorizeUserAction", suite.ctx, suite.userID, domain.RoleViewer).Return(nil).Once()

	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, suite.checkingAccount.AccountID).Return(&suite.checkingAccount, nil).Once()
	suite.mockReconciliationRepo.On("FindInProgressByAccount", suite.ctx, suite.checkingAccount.AccountID).Return(nil, apperrors.ErrNotFound).Once()

	found, err := suite.service.GetInProgressByAccount(suite.ctx, suite.checkingAccount.AccountID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(found)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ReconciliationServiceTestSuite) TestMarkClearedSuccess() {
	suite.expectAuthorized(domain.RoleBookkeeper)
	lines := suite.accountLines(100.00, -40.00)
	ids := lineIDs(lines)
	req := dto.MarkClearedRequest{LineIDs: ids, Cleared: true}

	suite.mockEntryRepo.On("FindLinesByIDs", suite.ctx, ids).Return(lines, nil).Once()
	for _, l := range lines {
		suite.mockEntryRepo.On("FindEntryByID", suite.ctx, l.EntryID).Return(&domain.JournalEntry{EntryID: l.EntryID}, nil).Once()
	}
	suite.mockEntryRepo.On("SetLinesCleared", suite.ctx, ids, true, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.MarkCleared(suite.ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestMarkClearedVoidedEntry() {
	suite.expectAuthorized(domain.RoleBookkeeper)
	lines := suite.accountLines(100.00)
	ids := lineIDs(lines)
	req := dto.MarkClearedRequest{LineIDs: ids, Cleared: true}

	voided := &domain.JournalEntry{EntryID: lines[0].EntryID, IsVoided: true}
	suite.mockEntryRepo.On("FindLinesByIDs", suite.ctx, ids).Return(lines, nil).Once()
	suite.mockEntryRepo.On("FindEntryByID", suite.ctx, lines[0].EntryID).Return(voided, nil).Once()

	err := suite.service.MarkCleared(suite.ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "belongs to voided entry")
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SetLinesCleared", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestMarkClearedMissingLines() {
	suite.expectAuthorized(domain.RoleBookkeeper)
	lines := suite.accountLines(100.00)
	ids := append(lineIDs(lines), uuid.NewString())
	req := dto.MarkClearedRequest{LineIDs: ids, Cleared: true}

	suite.mockEntryRepo.On("FindLinesByIDs", suite.ctx, ids).Return(lines, nil).Once()

	err := suite.service.MarkCleared(suite.ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "1 of 2 lines not found")
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SetLinesCleared", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestComputeClearedBalanceAssetAccount() {
	suite.mockUserSvc.On("AuthorizeUserAction", suite.ctx, suite.userID, domain.RoleViewer).Return(nil).Once()
	lines := suite.accountLines(600.00, -117.87)
	ids := lineIDs(lines)

	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, suite.checkingAccount.AccountID).Return(&suite.checkingAccount, nil).Once()
	suite.mockEntryRepo.On("FindLinesByIDs", suite.ctx, ids).Return(lines, nil).Once()

	balance, err := suite.service.ComputeClearedBalance(suite.ctx, suite.checkingAccount.AccountID, ids, suite.userID)

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromFloat(482.13)), "got %s", balance)
}

func (suite *ReconciliationServiceTestSuite) TestComputeClearedBalanceDefaultsToClearedLines() {
	suite.mockUserSvc.On("AuthorizeUserAction", suite.ctx, suite.userID, domain.RoleViewer).Return(nil).Once()
	lines := suite.accountLines(600.00, -100.00, 50.00)
	lines[0].IsCleared = true
	lines[1].IsCleared = true

	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, suite.checkingAccount.AccountID).Return(&suite.checkingAccount, nil).Once()
	suite.mockEntryRepo.On("ListLinesByAccount", suite.ctx, suite.checkingAccount.AccountID, false).Return(lines, nil).Once()

	balance, err := suite.service.ComputeClearedBalance(suite.ctx, suite.checkingAccount.AccountID, nil, suite.userID)

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromFloat(500.00)), "got %s", balance)
}

func (suite *ReconciliationServiceTestSuite) TestFinalizeSuccess() {
	suite.expectAuthorized(domain.RoleBookkeeper)
	reconciliation := suite.inProgressFixture()
	lines := suite.accountLines(600.00, -100.00)
	ids := lineIDs(lines)
	req := dto.FinalizeReconciliationRequest{StatementBalance: decimal.NewFromFloat(500.00), LineIDs: ids}

	suite.mockReconciliationRepo.On("FindReconciliationByID", suite.ctx, reconciliation.ReconciliationID).Return(reconciliation, nil).Once()
	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, suite.checkingAccount.AccountID).Return(&suite.checkingAccount, nil).Once()
	suite.mockEntryRepo.On("FindLinesByIDs", suite.ctx, ids).Return(lines, nil).Once()
	suite.mockReconciliationRepo.On("CompleteReconciliation", suite.ctx, reconciliation.ReconciliationID, mock.MatchedBy(func(b decimal.Decimal) bool {
		return b.Equal(decimal.NewFromFloat(500.00))
	}), ids, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	completed, err := suite.service.Finalize(suite.ctx, reconciliation.ReconciliationID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ReconciliationCompleted, completed.Status)
	suite.True(completed.ReconciledBalance.Equal(decimal.NewFromFloat(500.00)))
	suite.Require().NotNil(completed.CompletedAt)
	suite.mockReconciliationRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestFinalizeOneCentDifference() {
	suite.expectAuthorized(domain.RoleBookkeeper)
	reconciliation := suite.inProgressFixture()
	lines := suite.accountLines(600.00, -99.99)
	ids := lineIDs(lines)
	req := dto.FinalizeReconciliationRequest{StatementBalance: decimal.NewFromFloat(500.00), LineIDs: ids}

	suite.mockReconciliationRepo.On("FindReconciliationByID", suite.ctx, reconciliation.ReconciliationID).Return(reconciliation, nil).Once()
	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, suite.checkingAccount.AccountID).Return(&suite.checkingAccount, nil).Once()
	suite.mockEntryRepo.On("FindLinesByIDs", suite.ctx, ids).Return(lines, nil).Once()
	suite.mockReconciliationRepo.On("CompleteReconciliation", suite.ctx, reconciliation.ReconciliationID, mock.MatchedBy(func(b decimal.Decimal) bool {
		return b.Equal(decimal.NewFromFloat(500.01))
	}), ids, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	completed, err := suite.service.Finalize(suite.ctx, reconciliation.ReconciliationID, req, suite.userID)

	suite.Require().NoError(err, "a one cent difference still reconciles")
	suite.Equal(domain.ReconciliationCompleted, completed.Status)
	suite.mockReconciliationRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestFinalizeBalanceMismatch() {
	suite.expectAuthorized(domain.RoleBookkeeper)
	reconciliation := suite.inProgressFixture()
	lines := suite.accountLines(600.00, -117.87)
	ids := lineIDs(lines)
	req := dto.FinalizeReconciliationRequest{StatementBalance: decimal.NewFromFloat(500.00), LineIDs: ids}

	suite.mockReconciliationRepo.On("FindReconciliationByID", suite.ctx, reconciliation.ReconciliationID).Return(reconciliation, nil).Once()
	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, suite.checkingAccount.AccountID).Return(&suite.checkingAccount, nil).Once()
	suite.mockEntryRepo.On("FindLinesByIDs", suite.ctx, ids).Return(lines, nil).Once()

	completed, err := suite.service.Finalize(suite.ctx, reconciliation.ReconciliationID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(completed)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "cleared balance 482.13 does not match statement balance 500.00, difference -17.87")
	suite.mockReconciliationRepo.AssertNotCalled(suite.T(), "CompleteReconciliation", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestFinalizeAlreadyCompleted() {
	suite.expectAuthorized(domain.RoleBookkeeper)
	reconciliation := suite.inProgressFixture()
	reconciliation.Status = domain.ReconciliationCompleted
	req := dto.FinalizeReconciliationRequest{StatementBalance: decimal.NewFromFloat(500.00), LineIDs: []string{uuid.NewString()}}

	suite.mockReconciliationRepo.On("FindReconciliationByID", suite.ctx, reconciliation.ReconciliationID).Return(reconciliation, nil).Once()

	completed, err := suite.service.Finalize(suite.ctx, reconciliation.ReconciliationID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(completed)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Contains(err.Error(), services.ErrReconciliationCompleted.Error())
}

func (suite *ReconciliationServiceTestSuite) TestFinalizeForeignLine() {
	suite.expectAuthorized(domain.RoleBookkeeper)
	reconciliation := suite.inProgressFixture()
	lines := suite.accountLines(500.00)
	lines = append(lines, domain.LedgerLine{LineID: uuid.NewString(), AccountID: uuid.NewString(), Debit: decimal.NewFromFloat(10.00)})
	ids := lineIDs(lines)
	req := dto.FinalizeReconciliationRequest{StatementBalance: decimal.NewFromFloat(510.00), LineIDs: ids}

	suite.mockReconciliationRepo.On("FindReconciliationByID", suite.ctx, reconciliation.ReconciliationID).Return(reconciliation, nil).Once()
	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, suite.checkingAccount.AccountID).Return(&suite.checkingAccount, nil).Once()
	suite.mockEntryRepo.On("FindLinesByIDs", suite.ctx, ids).Return(lines, nil).Once()

	completed, err := suite.service.Finalize(suite.ctx, reconciliation.ReconciliationID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(completed)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "does not belong to account")
}

func (suite *ReconciliationServiceTestSuite) TestDeleteInProgress() {
	suite.expectAuthorized(domain.RoleBookkeeper)
	reconciliation := suite.inProgressFixture()

	suite.mockReconciliationRepo.On("FindReconciliationByID", suite.ctx, reconciliation.ReconciliationID).Return(reconciliation, nil).Once()
	suite.mockReconciliationRepo.On("DeleteReconciliation", suite.ctx, reconciliation.ReconciliationID).Return(nil).Once()

	err := suite.service.Delete(suite.ctx, reconciliation.ReconciliationID, suite.userID)

	suite.Require().NoError(err)
	suite.mockReconciliationRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestDeleteCompletedSession() {
	suite.expectAuthorized(domain.RoleBookkeeper)
	reconciliation := suite.inProgressFixture()
	reconciliation.Status = domain.ReconciliationCompleted

	suite.mockReconciliationRepo.On("FindReconciliationByID", suite.ctx, reconciliation.ReconciliationID).Return(reconciliation, nil).Once()

	err := suite.service.Delete(suite.ctx, reconciliation.ReconciliationID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockReconciliationRepo.AssertNotCalled(suite.T(), "DeleteReconciliation", mock.Anything, mock.Anything)
}

func TestReconciliationServiceSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}

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
	"github.com/stewardbooks/fund_accounting_app/internal/utils"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
	ctx          context.Context

	admin      domain.User
	bookkeeper domain.User
	viewer     domain.User
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockUserRepo)
	suite.ctx = context.Background()

	suite.admin = domain.User{UserID: uuid.NewString(), Username: "treasurer", Name: "Treasurer", Role: domain.RoleAdmin, IsActive: true}
	suite.bookkeeper = domain.User{UserID: uuid.NewString(), Username: "bookkeeper", Name: "Bookkeeper", Role: domain.RoleBookkeeper, IsActive: true}
	suite.viewer = domain.User{UserID: uuid.NewString(), Username: "boardmember", Name: "Board Member", Role: domain.RoleViewer, IsActive: true}
}

func (suite *UserServiceTestSuite) TestAuthorizeUserAction() {
	tests := []struct {
		name     string
		user     *domain.User
		required domain.UserRole
		wantErr  string
	}{
		{name: "admin may do admin work", user: &suite.admin, required: domain.RoleAdmin},
		{name: "bookkeeper may post entries", user: &suite.bookkeeper, required: domain.RoleBookkeeper},
		{name: "bookkeeper may read", user: &suite.bookkeeper, required: domain.RoleViewer},
		{name: "viewer may not post entries", user: &suite.viewer, required: domain.RoleBookkeeper, wantErr: "requires BOOKKEEPER role"},
		{name: "bookkeeper may not administer", user: &suite.bookkeeper, required: domain.RoleAdmin, wantErr: "requires ADMIN role"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.mockUserRepo.On("FindUserByID", suite.ctx, tt.user.UserID).Return(tt.user, nil).Once()

			err := suite.service.AuthorizeUserAction(suite.ctx, tt.user.UserID, tt.required)

			if tt.wantErr == "" {
				suite.NoError(err)
			} else {
				suite.Require().Error(err)
				suite.ErrorIs(err, apperrors.ErrForbidden)
				suite.Contains(err.Error(), tt.wantErr)
			}
		})
	}
}

func (suite *UserServiceTestSuite) TestAuthorizeUserActionInactiveUser() {
	inactive := suite.bookkeeper
	inactive.IsActive = false

	suite.mockUserRepo.On("FindUserByID", suite.ctx, inactive.UserID).Return(&inactive, nil).Once()

	err := suite.service.AuthorizeUserAction(suite.ctx, inactive.UserID, domain.RoleViewer)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Contains(err.Error(), "user is inactive")
}

func (suite *UserServiceTestSuite) TestAuthorizeUserActionUnknownUser() {
	userID := uuid.NewString()
	suite.mockUserRepo.On("FindUserByID", suite.ctx, userID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.AuthorizeUserAction(suite.ctx, userID, domain.RoleViewer)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Contains(err.Error(), "unknown user")
}

func (suite *UserServiceTestSuite) TestAuthorizeUserActionMissingUserID() {
	err := suite.service.AuthorizeUserAction(suite.ctx, "", domain.RoleViewer)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "FindUserByID", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestCreateUserSuccess() {
	req := dto.CreateUserRequest{
		Username: "newbookkeeper",
		Name:     "New Bookkeeper",
		Password: "a-strong-password",
		Role:     domain.RoleBookkeeper,
	}

	suite.mockUserRepo.On("FindUserByID", suite.ctx, suite.admin.UserID).Return(&suite.admin, nil).Once()
	suite.mockUserRepo.On("SaveUser", suite.ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Username == "newbookkeeper" && u.Role == domain.RoleBookkeeper && u.IsActive &&
			u.PasswordHash != "" && u.PasswordHash != req.Password &&
			utils.CheckPasswordHash(req.Password, u.PasswordHash)
	})).Return(nil).Once()

	user, err := suite.service.CreateUser(suite.ctx, req, suite.admin.UserID)

	suite.Require().NoError(err)
	suite.NotEmpty(user.UserID)
	suite.Equal(suite.admin.UserID, user.CreatedBy)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUserRequiresAdmin() {
	req := dto.CreateUserRequest{
		Username: "newuser",
		Name:     "New User",
		Password: "a-strong-password",
		Role:     domain.RoleViewer,
	}

	suite.mockUserRepo.On("FindUserByID", suite.ctx, suite.bookkeeper.UserID).Return(&suite.bookkeeper, nil).Once()

	user, err := suite.service.CreateUser(suite.ctx, req, suite.bookkeeper.UserID)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestCreateUserDuplicateUsername() {
	req := dto.CreateUserRequest{
		Username: "treasurer",
		Name:     "Second Treasurer",
		Password: "a-strong-password",
		Role:     domain.RoleAdmin,
	}

	suite.mockUserRepo.On("FindUserByID", suite.ctx, suite.admin.UserID).Return(&suite.admin, nil).Once()
	suite.mockUserRepo.On("SaveUser", suite.ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	user, err := suite.service.CreateUser(suite.ctx, req, suite.admin.UserID)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Contains(err.Error(), `username "treasurer" is taken`)
}

func (suite *UserServiceTestSuite) TestDeactivateUserSelf() {
	suite.mockUserRepo.On("FindUserByID", suite.ctx, suite.admin.UserID).Return(&suite.admin, nil).Once()

	err := suite.service.DeactivateUser(suite.ctx, suite.admin.UserID, suite.admin.UserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "cannot deactivate yourself")
	suite.mockUserRepo.AssertNotCalled(suite.T(), "DeactivateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestDeactivateUserSuccess() {
	suite.mockUserRepo.On("FindUserByID", suite.ctx, suite.admin.UserID).Return(&suite.admin, nil).Once()
	suite.mockUserRepo.On("FindUserByID", suite.ctx, suite.viewer.UserID).Return(&suite.viewer, nil).Once()
	suite.mockUserRepo.On("DeactivateUser", suite.ctx, suite.viewer.UserID, suite.admin.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeactivateUser(suite.ctx, suite.viewer.UserID, suite.admin.UserID)

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

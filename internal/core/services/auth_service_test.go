package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/stewardbooks/fund_accounting_app/internal/apperrors"
	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
	portssvc "github.com/stewardbooks/fund_accounting_app/internal/core/ports/services"
	"github.com/stewardbooks/fund_accounting_app/internal/core/services"
	"github.com/stewardbooks/fund_accounting_app/internal/dto"
	"github.com/stewardbooks/fund_accounting_app/internal/utils"
)

const (
	testJWTSecret = "test-secret-key-that-is-long-enough"
	testJWTIssuer = "fab-test"
	testPassword  = "a-strong-password"
)

type AuthServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.AuthSvcFacade
	ctx          context.Context

	user domain.User
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewAuthService(suite.mockUserRepo, testJWTSecret, time.Hour, testJWTIssuer)
	suite.ctx = context.Background()

	hash, err := utils.HashPassword(testPassword)
	suite.Require().NoError(err)
	suite.user = domain.User{
		UserID:       uuid.NewString(),
		Username:     "treasurer",
		Name:         "Treasurer",
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
}

func (suite *AuthServiceTestSuite) TestLoginSuccess() {
	suite.mockUserRepo.On("FindUserByUsername", suite.ctx, "treasurer").Return(&suite.user, nil).Once()

	resp, err := suite.service.Login(suite.ctx, dto.LoginRequest{Username: "treasurer", Password: testPassword})

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.NotEmpty(resp.Token)
	suite.Equal(suite.user.UserID, resp.User.UserID)
	suite.WithinDuration(time.Now().UTC().Add(time.Hour), resp.ExpiresAt, 5*time.Second)

	// The token must verify against the secret and carry the user as subject.
	token, err := jwt.ParseWithClaims(resp.Token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	suite.Require().NoError(err)
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	suite.Require().True(ok)
	suite.Equal(suite.user.UserID, claims.Subject)
	suite.Equal(testJWTIssuer, claims.Issuer)
}

func (suite *AuthServiceTestSuite) TestLoginWrongPassword() {
	suite.mockUserRepo.On("FindUserByUsername", suite.ctx, "treasurer").Return(&suite.user, nil).Once()

	resp, err := suite.service.Login(suite.ctx, dto.LoginRequest{Username: "treasurer", Password: "wrong-password"})

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Contains(err.Error(), services.ErrInvalidCredentials.Error())
}

func (suite *AuthServiceTestSuite) TestLoginUnknownUsername() {
	suite.mockUserRepo.On("FindUserByUsername", suite.ctx, "nobody").Return(nil, apperrors.ErrNotFound).Once()

	resp, err := suite.service.Login(suite.ctx, dto.LoginRequest{Username: "nobody", Password: testPassword})

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	// Same error as a wrong password, so usernames cannot be probed.
	suite.Contains(err.Error(), services.ErrInvalidCredentials.Error())
}

func (suite *AuthServiceTestSuite) TestLoginInactiveUser() {
	inactive := suite.user
	inactive.IsActive = false
	suite.mockUserRepo.On("FindUserByUsername", suite.ctx, "treasurer").Return(&inactive, nil).Once()

	resp, err := suite.service.Login(suite.ctx, dto.LoginRequest{Username: "treasurer", Password: testPassword})

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Contains(err.Error(), "user is inactive")
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

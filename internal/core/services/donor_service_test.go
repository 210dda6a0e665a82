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

type DonorServiceTestSuite struct {
	suite.Suite
	mockDonorRepo *MockDonorRepository
	mockUserSvc   *MockUserService
	service       portssvc.DonorSvcFacade
	ctx           context.Context

	userID string
}

func (suite *DonorServiceTestSuite) SetupTest() {
	suite.mockDonorRepo = new(MockDonorRepository)
	suite.mockUserSvc = new(MockUserService)
	suite.service = services.NewDonorService(suite.mockDonorRepo, suite.mockUserSvc)
	suite.ctx = context.Background()
	suite.userID = uuid.NewString()
}

func (suite *DonorServiceTestSuite) expectBookkeeper() {
	suite.mockUserSvc.On("AuthorizeUserAction", suite.ctx, suite.userID, domain.RoleBookkeeper).Return(nil).Once()
}

func (suite *DonorServiceTestSuite) TestCreateDonorSuccess() {
	suite.expectBookkeeper()
	envelope := 42
	req := dto.CreateDonorRequest{Name: "The Smith Family", EnvelopeNumber: &envelope}

	suite.mockDonorRepo.On("SaveDonor", suite.ctx, mock.MatchedBy(func(d domain.Donor) bool {
		return d.Name == "The Smith Family" && d.EnvelopeNumber != nil && *d.EnvelopeNumber == 42 && d.IsActive
	})).Return(nil).Once()

	donor, err := suite.service.CreateDonor(suite.ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.NotEmpty(donor.DonorID)
	suite.mockDonorRepo.AssertExpectations(suite.T())
}

func (suite *DonorServiceTestSuite) TestCreateDonorDuplicateEnvelope() {
	suite.expectBookkeeper()
	envelope := 42
	req := dto.CreateDonorRequest{Name: "The Jones Family", EnvelopeNumber: &envelope}

	suite.mockDonorRepo.On("SaveDonor", suite.ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	donor, err := suite.service.CreateDonor(suite.ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(donor)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Contains(err.Error(), "envelope number 42 is already assigned")
}

func (suite *DonorServiceTestSuite) TestDeleteDonorSuccess() {
	suite.expectBookkeeper()
	donorID := uuid.NewString()
	existing := &domain.Donor{DonorID: donorID, Name: "One-Time Visitor", IsActive: true}

	suite.mockDonorRepo.On("FindDonorByID", suite.ctx, donorID).Return(existing, nil).Once()
	suite.mockDonorRepo.On("CountEntriesForDonor", suite.ctx, donorID).Return(int64(0), nil).Once()
	suite.mockDonorRepo.On("DeleteDonor", suite.ctx, donorID).Return(nil).Once()

	err := suite.service.DeleteDonor(suite.ctx, donorID, suite.userID)

	suite.Require().NoError(err)
	suite.mockDonorRepo.AssertExpectations(suite.T())
}

func (suite *DonorServiceTestSuite) TestDeleteDonorWithEntries() {
	suite.expectBookkeeper()
	donorID := uuid.NewString()
	existing := &domain.Donor{DonorID: donorID, Name: "The Smith Family", IsActive: true}

	suite.mockDonorRepo.On("FindDonorByID", suite.ctx, donorID).Return(existing, nil).Once()
	suite.mockDonorRepo.On("CountEntriesForDonor", suite.ctx, donorID).Return(int64(7), nil).Once()

	err := suite.service.DeleteDonor(suite.ctx, donorID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Contains(err.Error(), "referenced by 7 journal entries")
	suite.mockDonorRepo.AssertNotCalled(suite.T(), "DeleteDonor", mock.Anything, mock.Anything)
}

func TestDonorServiceSuite(t *testing.T) {
	suite.Run(t, new(DonorServiceTestSuite))
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stewardbooks/fund_accounting_app/internal/apperrors"
	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
	portsrepo "github.com/stewardbooks/fund_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/stewardbooks/fund_accounting_app/internal/core/ports/services"
	"github.com/stewardbooks/fund_accounting_app/internal/dto"
	"github.com/stewardbooks/fund_accounting_app/internal/middleware"
)

// donorService manages donor records.
type donorService struct {
	donorRepo portsrepo.DonorRepositoryFacade
	userSvc   portssvc.UserSvcFacade
}

// NewDonorService creates a new donor service.
func NewDonorService(donorRepo portsrepo.DonorRepositoryFacade, userSvc portssvc.UserSvcFacade) portssvc.DonorSvcFacade {
	return &donorService{donorRepo: donorRepo, userSvc: userSvc}
}

var _ portssvc.DonorSvcFacade = (*donorService)(nil)

func (s *donorService) authorize(ctx context.Context, userID string, required domain.UserRole) error {
	if s.userSvc == nil {
		return nil
	}
	return s.userSvc.AuthorizeUserAction(ctx, userID, required)
}

// CreateDonor persists a new donor. Envelope numbers are unique when present.
func (s *donorService) CreateDonor(ctx context.Context, req dto.CreateDonorRequest, userID string) (*domain.Donor, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, userID, domain.RoleBookkeeper); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	donor := domain.Donor{
		DonorID:        uuid.NewString(),
		Name:           req.Name,
		Email:          req.Email,
		Address:        req.Address,
		EnvelopeNumber: req.EnvelopeNumber,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.donorRepo.SaveDonor(ctx, donor); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) && req.EnvelopeNumber != nil {
			return nil, fmt.Errorf("envelope number %d is already assigned: %w", *req.EnvelopeNumber, apperrors.ErrDuplicate)
		}
		logger.Error("Failed to save donor", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save donor: %w", err)
	}

	logger.Info("Donor created", slog.String("donor_id", donor.DonorID))
	return &donor, nil
}

func (s *donorService) GetDonorByID(ctx context.Context, donorID string) (*domain.Donor, error) {
	donor, err := s.donorRepo.FindDonorByID(ctx, donorID)
	if err != nil {
		return nil, fmt.Errorf("failed to find donor %s: %w", donorID, err)
	}
	return donor, nil
}

func (s *donorService) ListDonors(ctx context.Context, includeInactive bool) ([]domain.Donor, error) {
	return s.donorRepo.ListDonors(ctx, includeInactive)
}

// UpdateDonor applies partial updates to a donor.
func (s *donorService) UpdateDonor(ctx context.Context, donorID string, req dto.UpdateDonorRequest, userID string) (*domain.Donor, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, userID, domain.RoleBookkeeper); err != nil {
		return nil, err
	}

	donor, err := s.donorRepo.FindDonorByID(ctx, donorID)
	if err != nil {
		return nil, fmt.Errorf("failed to find donor %s: %w", donorID, err)
	}

	if req.Name != nil {
		donor.Name = *req.Name
	}
	if req.Email != nil {
		donor.Email = *req.Email
	}
	if req.Address != nil {
		donor.Address = *req.Address
	}
	if req.EnvelopeNumber != nil {
		donor.EnvelopeNumber = req.EnvelopeNumber
	}
	donor.LastUpdatedAt = time.Now().UTC()
	donor.LastUpdatedBy = userID

	if err := s.donorRepo.UpdateDonor(ctx, *donor); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) && req.EnvelopeNumber != nil {
			return nil, fmt.Errorf("envelope number %d is already assigned: %w", *req.EnvelopeNumber, apperrors.ErrDuplicate)
		}
		logger.Error("Failed to update donor", slog.String("error", err.Error()), slog.String("donor_id", donorID))
		return nil, fmt.Errorf("failed to update donor %s: %w", donorID, err)
	}

	return donor, nil
}

// DeactivateDonor soft-deletes a donor. Donors referenced by journal entries
// keep their history.
func (s *donorService) DeactivateDonor(ctx context.Context, donorID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, userID, domain.RoleBookkeeper); err != nil {
		return err
	}

	if _, err := s.donorRepo.FindDonorByID(ctx, donorID); err != nil {
		return fmt.Errorf("failed to find donor %s: %w", donorID, err)
	}

	if err := s.donorRepo.DeactivateDonor(ctx, donorID, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to deactivate donor", slog.String("error", err.Error()), slog.String("donor_id", donorID))
		return fmt.Errorf("failed to deactivate donor %s: %w", donorID, err)
	}

	logger.Info("Donor deactivated", slog.String("donor_id", donorID))
	return nil
}

// DeleteDonor physically removes a donor with no recorded gifts. A donor
// referenced by journal entries returns a conflict; deactivate it instead.
func (s *donorService) DeleteDonor(ctx context.Context, donorID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, userID, domain.RoleBookkeeper); err != nil {
		return err
	}

	if _, err := s.donorRepo.FindDonorByID(ctx, donorID); err != nil {
		return fmt.Errorf("failed to find donor %s: %w", donorID, err)
	}

	count, err := s.donorRepo.CountEntriesForDonor(ctx, donorID)
	if err != nil {
		return fmt.Errorf("failed to count entries for donor %s: %w", donorID, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: donor %s is referenced by %d journal entries; deactivate it instead", apperrors.ErrConflict, donorID, count)
	}

	if err := s.donorRepo.DeleteDonor(ctx, donorID); err != nil {
		logger.Error("Failed to delete donor", slog.String("error", err.Error()), slog.String("donor_id", donorID))
		return fmt.Errorf("failed to delete donor %s: %w", donorID, err)
	}

	logger.Info("Donor deleted", slog.String("donor_id", donorID))
	return nil
}

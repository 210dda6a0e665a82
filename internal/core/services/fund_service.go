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

// fundService manages funds.
type fundService struct {
	fundRepo    portsrepo.FundRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	userSvc     portssvc.UserSvcFacade
}

// NewFundService creates a new fund service.
func NewFundService(fundRepo portsrepo.FundRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, userSvc portssvc.UserSvcFacade) portssvc.FundSvcFacade {
	return &fundService{fundRepo: fundRepo, accountRepo: accountRepo, userSvc: userSvc}
}

var _ portssvc.FundSvcFacade = (*fundService)(nil)

func (s *fundService) authorize(ctx context.Context, userID string, required domain.UserRole) error {
	if s.userSvc == nil {
		return nil
	}
	return s.userSvc.AuthorizeUserAction(ctx, userID, required)
}

// validateNetAssetAccount ensures the mapped net-asset account is an equity
// account.
func (s *fundService) validateNetAssetAccount(ctx context.Context, accountID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to resolve net asset account: %w", err)
	}
	if account.AccountType != domain.Equity {
		return fmt.Errorf("%w: net asset account must be an EQUITY account, got %s", apperrors.ErrValidation, account.AccountType)
	}
	return nil
}

// CreateFund persists a new fund. Fund names are unique.
func (s *fundService) CreateFund(ctx context.Context, req dto.CreateFundRequest, userID string) (*domain.Fund, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, userID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	if req.NetAssetAccountID != nil {
		if err := s.validateNetAssetAccount(ctx, *req.NetAssetAccountID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	fund := domain.Fund{
		FundID:       uuid.NewString(),
		Name:         req.Name,
		Description:  req.Description,
		IsRestricted: req.IsRestricted,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if req.NetAssetAccountID != nil {
		fund.NetAssetAccountID = *req.NetAssetAccountID
	}

	if err := s.fundRepo.SaveFund(ctx, fund); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("fund %q already exists: %w", req.Name, apperrors.ErrDuplicate)
		}
		logger.Error("Failed to save fund", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save fund: %w", err)
	}

	logger.Info("Fund created", slog.String("fund_id", fund.FundID), slog.String("name", fund.Name))
	return &fund, nil
}

func (s *fundService) GetFundByID(ctx context.Context, fundID string) (*domain.Fund, error) {
	fund, err := s.fundRepo.FindFundByID(ctx, fundID)
	if err != nil {
		return nil, fmt.Errorf("failed to find fund %s: %w", fundID, err)
	}
	return fund, nil
}

func (s *fundService) GetFundsByIDs(ctx context.Context, fundIDs []string) (map[string]domain.Fund, error) {
	if len(fundIDs) == 0 {
		return map[string]domain.Fund{}, nil
	}
	return s.fundRepo.FindFundsByIDs(ctx, fundIDs)
}

func (s *fundService) ListFunds(ctx context.Context, includeInactive bool) ([]domain.Fund, error) {
	return s.fundRepo.ListFunds(ctx, includeInactive)
}

// UpdateFund applies partial updates to a fund.
func (s *fundService) UpdateFund(ctx context.Context, fundID string, req dto.UpdateFundRequest, userID string) (*domain.Fund, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, userID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	fund, err := s.fundRepo.FindFundByID(ctx, fundID)
	if err != nil {
		return nil, fmt.Errorf("failed to find fund %s: %w", fundID, err)
	}

	if req.Name != nil {
		fund.Name = *req.Name
	}
	if req.Description != nil {
		fund.Description = *req.Description
	}
	if req.IsRestricted != nil {
		fund.IsRestricted = *req.IsRestricted
	}
	if req.NetAssetAccountID != nil {
		if err := s.validateNetAssetAccount(ctx, *req.NetAssetAccountID); err != nil {
			return nil, err
		}
		fund.NetAssetAccountID = *req.NetAssetAccountID
	}
	fund.LastUpdatedAt = time.Now().UTC()
	fund.LastUpdatedBy = userID

	if err := s.fundRepo.UpdateFund(ctx, *fund); err != nil {
		logger.Error("Failed to update fund", slog.String("error", err.Error()), slog.String("fund_id", fundID))
		return nil, fmt.Errorf("failed to update fund %s: %w", fundID, err)
	}

	return fund, nil
}

// DeactivateFund soft-deletes a fund. Funds referenced by ledger lines are
// never physically removed.
func (s *fundService) DeactivateFund(ctx context.Context, fundID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, userID, domain.RoleAdmin); err != nil {
		return err
	}

	if _, err := s.fundRepo.FindFundByID(ctx, fundID); err != nil {
		return fmt.Errorf("failed to find fund %s: %w", fundID, err)
	}

	if err := s.fundRepo.DeactivateFund(ctx, fundID, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to deactivate fund", slog.String("error", err.Error()), slog.String("fund_id", fundID))
		return fmt.Errorf("failed to deactivate fund %s: %w", fundID, err)
	}

	logger.Info("Fund deactivated", slog.String("fund_id", fundID))
	return nil
}

// DeleteFund physically removes a fund that has never been posted to. A fund
// referenced by ledger lines returns a conflict; deactivate it instead.
func (s *fundService) DeleteFund(ctx context.Context, fundID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, userID, domain.RoleAdmin); err != nil {
		return err
	}

	if _, err := s.fundRepo.FindFundByID(ctx, fundID); err != nil {
		return fmt.Errorf("failed to find fund %s: %w", fundID, err)
	}

	count, err := s.fundRepo.CountLinesForFund(ctx, fundID)
	if err != nil {
		return fmt.Errorf("failed to count lines for fund %s: %w", fundID, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: fund %s is referenced by %d ledger lines; deactivate it instead", apperrors.ErrConflict, fundID, count)
	}

	if err := s.fundRepo.DeleteFund(ctx, fundID); err != nil {
		logger.Error("Failed to delete fund", slog.String("error", err.Error()), slog.String("fund_id", fundID))
		return fmt.Errorf("failed to delete fund %s: %w", fundID, err)
	}

	logger.Info("Fund deleted", slog.String("fund_id", fundID))
	return nil
}

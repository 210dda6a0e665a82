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

// accountService manages the chart of accounts.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	userSvc     portssvc.UserSvcFacade
}

// NewAccountService creates a new chart-of-accounts service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, userSvc portssvc.UserSvcFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo, userSvc: userSvc}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) authorize(ctx context.Context, userID string, required domain.UserRole) error {
	if s.userSvc == nil {
		return nil
	}
	return s.userSvc.AuthorizeUserAction(ctx, userID, required)
}

// CreateAccount persists a new account. Account numbers are unique across the
// chart; a duplicate number maps to a conflict from the store.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, userID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: invalid account type %q", apperrors.ErrValidation, req.AccountType)
	}
	if req.AccountNumber <= 0 {
		return nil, fmt.Errorf("%w: account number must be positive", apperrors.ErrValidation)
	}

	if req.ParentAccountID != nil {
		parent, err := s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve parent account: %w", err)
		}
		if parent.AccountType != req.AccountType {
			return nil, fmt.Errorf("%w: parent account type %s does not match %s", apperrors.ErrValidation, parent.AccountType, req.AccountType)
		}
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		AccountNumber: req.AccountNumber,
		Name:          req.Name,
		AccountType:   req.AccountType,
		Description:   req.Description,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if req.ParentAccountID != nil {
		account.ParentAccountID = *req.ParentAccountID
	}
	if req.DefaultLiabilityAccountID != nil {
		account.DefaultLiabilityAccountID = *req.DefaultLiabilityAccountID
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("account number %d already exists: %w", req.AccountNumber, apperrors.ErrDuplicate)
		}
		logger.Error("Failed to save account", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.Int("account_number", account.AccountNumber))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return account, nil
}

func (s *accountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	return s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
}

func (s *accountService) ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx, includeInactive)
}

// UpdateAccount applies partial updates. Account number and type are fixed
// after creation so historical reports keep their meaning.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, userID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.DefaultLiabilityAccountID != nil {
		account.DefaultLiabilityAccountID = *req.DefaultLiabilityAccountID
	}
	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account %s: %w", accountID, err)
	}

	return account, nil
}

// DeactivateAccount soft-deletes an account. Accounts referenced by ledger
// lines are never physically removed, only deactivated.
func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, userID, domain.RoleAdmin); err != nil {
		return err
	}

	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return fmt.Errorf("failed to find account %s: %w", accountID, err)
	}

	if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return fmt.Errorf("failed to deactivate account %s: %w", accountID, err)
	}

	logger.Info("Account deactivated", slog.String("account_id", accountID))
	return nil
}

// DeleteAccount physically removes an account that has never been posted to.
// An account referenced by ledger lines returns a conflict; deactivate it
// instead.
func (s *accountService) DeleteAccount(ctx context.Context, accountID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, userID, domain.RoleAdmin); err != nil {
		return err
	}

	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return fmt.Errorf("failed to find account %s: %w", accountID, err)
	}

	count, err := s.accountRepo.CountLinesForAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to count lines for account %s: %w", accountID, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: account %s is referenced by %d ledger lines; deactivate it instead", apperrors.ErrConflict, accountID, count)
	}

	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		logger.Error("Failed to delete account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return fmt.Errorf("failed to delete account %s: %w", accountID, err)
	}

	logger.Info("Account deleted", slog.String("account_id", accountID))
	return nil
}

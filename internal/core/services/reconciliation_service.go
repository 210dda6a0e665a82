package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stewardbooks/fund_accounting_app/internal/apperrors"
	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
	portsrepo "github.com/stewardbooks/fund_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/stewardbooks/fund_accounting_app/internal/core/ports/services"
	"github.com/stewardbooks/fund_accounting_app/internal/dto"
	"github.com/stewardbooks/fund_accounting_app/internal/middleware"
	"github.com/stewardbooks/fund_accounting_app/internal/utils/accounting"
)

var ErrReconciliationCompleted = errors.New("reconciliation is completed and immutable")

// reconciliationService drives the bank reconciliation lifecycle.
type reconciliationService struct {
	reconciliationRepo portsrepo.ReconciliationRepositoryFacade
	entryRepo          portsrepo.EntryRepositoryFacade
	accountSvc         portssvc.AccountSvcFacade
	userSvc            portssvc.UserSvcFacade
}

// NewReconciliationService creates a new reconciliation service.
func NewReconciliationService(reconciliationRepo portsrepo.ReconciliationRepositoryFacade, entryRepo portsrepo.EntryRepositoryFacade, accountSvc portssvc.AccountSvcFacade, userSvc portssvc.UserSvcFacade) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		reconciliationRepo: reconciliationRepo,
		entryRepo:          entryRepo,
		accountSvc:         accountSvc,
		userSvc:            userSvc,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

func (s *reconciliationService) authorize(ctx context.Context, userID string, required domain.UserRole) error {
	if s.userSvc == nil {
		return nil
	}
	return s.userSvc.AuthorizeUserAction(ctx, userID, required)
}

// reconcilableAccount loads the account and checks it can be reconciled.
// Only Asset and Liability accounts carry a bank statement.
func (s *reconciliationService) reconcilableAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountSvc.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.AccountType != domain.Asset && account.AccountType != domain.Liability {
		return nil, fmt.Errorf("%w: account type %s cannot be reconciled", apperrors.ErrValidation, account.AccountType)
	}
	return account, nil
}

// Start opens a reconciliation session for an account. The store's partial
// unique index guarantees at most one IN_PROGRESS session per account even
// under concurrent requests; a second attempt surfaces as a conflict.
func (s *reconciliationService) Start(ctx context.Context, req dto.StartReconciliationRequest, userID string) (*domain.Reconciliation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, userID, domain.RoleBookkeeper); err != nil {
		return nil, err
	}

	if _, err := s.reconcilableAccount(ctx, req.AccountID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	reconciliation := domain.Reconciliation{
		ReconciliationID: uuid.NewString(),
		AccountID:        req.AccountID,
		StatementDate:    req.StatementDate,
		StatementBalance: req.StatementBalance,
		Status:           domain.ReconciliationInProgress,
		Notes:            req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.reconciliationRepo.SaveReconciliation(ctx, reconciliation); err != nil {
		if errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("account %s already has a reconciliation in progress: %w", req.AccountID, apperrors.ErrConflict)
		}
		logger.Error("Failed to save reconciliation", slog.String("error", err.Error()), slog.String("account_id", req.AccountID))
		return nil, fmt.Errorf("failed to start reconciliation: %w", err)
	}

	logger.Info("Reconciliation started",
		slog.String("reconciliation_id", reconciliation.ReconciliationID),
		slog.String("account_id", req.AccountID))
	return &reconciliation, nil
}

func (s *reconciliationService) GetByID(ctx context.Context, reconciliationID string, userID string) (*domain.Reconciliation, error) {
	if err := s.authorize(ctx, userID, domain.RoleViewer); err != nil {
		return nil, err
	}
	reconciliation, err := s.reconciliationRepo.FindReconciliationByID(ctx, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find reconciliation %s: %w", reconciliationID, err)
	}
	return reconciliation, nil
}

func (s *reconciliationService) ListByAccount(ctx context.Context, accountID string, userID string) ([]domain.Reconciliation, error) {
	if err := s.authorize(ctx, userID, domain.RoleViewer); err != nil {
		return nil, err
	}
	if _, err := s.accountSvc.GetAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.reconciliationRepo.ListReconciliationsByAccount(ctx, accountID)
}

// GetInProgressByAccount returns the account's open session, or not found
// when none is open.
func (s *reconciliationService) GetInProgressByAccount(ctx context.Context, accountID string, userID string) (*domain.Reconciliation, error) {
	if err := s.authorize(ctx, userID, domain.RoleViewer); err != nil {
		return nil, err
	}
	if _, err := s.accountSvc.GetAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	reconciliation, err := s.reconciliationRepo.FindInProgressByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find in-progress reconciliation for account %s: %w", accountID, err)
	}
	return reconciliation, nil
}

// MarkCleared flips the cleared flag on the given lines. Clearing is
// independent of any session: lines may be pre-cleared before finalizing.
// Lines of voided entries cannot be cleared; the void already removed them
// from the books.
func (s *reconciliationService) MarkCleared(ctx context.Context, req dto.MarkClearedRequest, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, userID, domain.RoleBookkeeper); err != nil {
		return err
	}

	lines, err := s.entryRepo.FindLinesByIDs(ctx, req.LineIDs)
	if err != nil {
		return fmt.Errorf("failed to fetch lines: %w", err)
	}
	if len(lines) != len(req.LineIDs) {
		return fmt.Errorf("%w: %d of %d lines not found", apperrors.ErrValidation, len(req.LineIDs)-len(lines), len(req.LineIDs))
	}

	checked := make(map[string]bool, len(lines))
	for _, l := range lines {
		if checked[l.EntryID] {
			continue
		}
		checked[l.EntryID] = true
		entry, err := s.entryRepo.FindEntryByID(ctx, l.EntryID)
		if err != nil {
			return fmt.Errorf("failed to find entry %s: %w", l.EntryID, err)
		}
		if entry.IsVoided {
			return fmt.Errorf("%w: line %s belongs to voided entry %s", apperrors.ErrValidation, l.LineID, l.EntryID)
		}
	}

	if err := s.entryRepo.SetLinesCleared(ctx, req.LineIDs, req.Cleared, time.Now().UTC()); err != nil {
		logger.Error("Failed to update cleared flags", slog.String("error", err.Error()))
		return fmt.Errorf("failed to update cleared flags: %w", err)
	}

	logger.Info("Cleared flags updated", slog.Int("line_count", len(req.LineIDs)), slog.Bool("cleared", req.Cleared))
	return nil
}

// ComputeClearedBalance sums the given lines of one account, or all of its
// cleared lines when no IDs are given. Asset accounts sum debit minus credit,
// Liability accounts the reverse.
func (s *reconciliationService) ComputeClearedBalance(ctx context.Context, accountID string, lineIDs []string, userID string) (decimal.Decimal, error) {
	if err := s.authorize(ctx, userID, domain.RoleViewer); err != nil {
		return decimal.Zero, err
	}

	account, err := s.reconcilableAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	lines, err := s.loadAccountLines(ctx, accountID, lineIDs)
	if err != nil {
		return decimal.Zero, err
	}

	return accounting.ClearedBalance(lines, account.AccountType)
}

// loadAccountLines resolves the line set for a balance computation. Explicit
// IDs must all exist and belong to the account; an empty set means every
// cleared line of the account.
func (s *reconciliationService) loadAccountLines(ctx context.Context, accountID string, lineIDs []string) ([]domain.LedgerLine, error) {
	if len(lineIDs) == 0 {
		all, err := s.entryRepo.ListLinesByAccount(ctx, accountID, false)
		if err != nil {
			return nil, fmt.Errorf("failed to list lines for account %s: %w", accountID, err)
		}
		cleared := make([]domain.LedgerLine, 0, len(all))
		for _, l := range all {
			if l.IsCleared {
				cleared = append(cleared, l)
			}
		}
		return cleared, nil
	}

	lines, err := s.entryRepo.FindLinesByIDs(ctx, lineIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lines: %w", err)
	}
	if len(lines) != len(lineIDs) {
		return nil, fmt.Errorf("%w: %d of %d lines not found", apperrors.ErrValidation, len(lineIDs)-len(lines), len(lineIDs))
	}
	for _, l := range lines {
		if l.AccountID != accountID {
			return nil, fmt.Errorf("%w: line %s does not belong to account %s", apperrors.ErrValidation, l.LineID, accountID)
		}
	}
	return lines, nil
}

// Finalize completes a session over exactly the given lines. The computed
// balance must match the statement balance within a cent; on mismatch the
// error reports both balances and the delta and nothing is written. On match
// the session transitions to COMPLETED and the lines are marked cleared in
// one database transaction.
func (s *reconciliationService) Finalize(ctx context.Context, reconciliationID string, req dto.FinalizeReconciliationRequest, userID string) (*domain.Reconciliation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, userID, domain.RoleBookkeeper); err != nil {
		return nil, err
	}

	reconciliation, err := s.reconciliationRepo.FindReconciliationByID(ctx, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find reconciliation %s: %w", reconciliationID, err)
	}
	if reconciliation.Status != domain.ReconciliationInProgress {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, ErrReconciliationCompleted)
	}

	account, err := s.reconcilableAccount(ctx, reconciliation.AccountID)
	if err != nil {
		return nil, err
	}

	lines, err := s.loadAccountLines(ctx, reconciliation.AccountID, req.LineIDs)
	if err != nil {
		return nil, err
	}

	computed, err := accounting.ClearedBalance(lines, account.AccountType)
	if err != nil {
		return nil, err
	}

	// A difference of exactly one cent still reconciles.
	delta := computed.Sub(req.StatementBalance)
	if delta.Abs().GreaterThan(accounting.Tolerance) {
		return nil, fmt.Errorf("%w: cleared balance %s does not match statement balance %s, difference %s",
			apperrors.ErrValidation, computed.StringFixed(2), req.StatementBalance.StringFixed(2), delta.StringFixed(2))
	}

	now := time.Now().UTC()
	if err := s.reconciliationRepo.CompleteReconciliation(ctx, reconciliationID, computed, req.LineIDs, userID, now); err != nil {
		logger.Error("Failed to complete reconciliation",
			slog.String("error", err.Error()),
			slog.String("reconciliation_id", reconciliationID))
		return nil, fmt.Errorf("failed to complete reconciliation %s: %w", reconciliationID, err)
	}

	logger.Info("Reconciliation completed",
		slog.String("reconciliation_id", reconciliationID),
		slog.String("account_id", reconciliation.AccountID),
		slog.String("reconciled_balance", computed.StringFixed(2)))

	reconciliation.Status = domain.ReconciliationCompleted
	reconciliation.ReconciledBalance = computed
	reconciliation.StatementBalance = req.StatementBalance
	reconciliation.CompletedAt = &now
	reconciliation.LastUpdatedAt = now
	reconciliation.LastUpdatedBy = userID
	return reconciliation, nil
}

// Delete removes an IN_PROGRESS session. Completed sessions are audit
// records and cannot be deleted.
func (s *reconciliationService) Delete(ctx context.Context, reconciliationID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, userID, domain.RoleBookkeeper); err != nil {
		return err
	}

	reconciliation, err := s.reconciliationRepo.FindReconciliationByID(ctx, reconciliationID)
	if err != nil {
		return fmt.Errorf("failed to find reconciliation %s: %w", reconciliationID, err)
	}
	if reconciliation.Status != domain.ReconciliationInProgress {
		return fmt.Errorf("%w: %s", apperrors.ErrConflict, ErrReconciliationCompleted)
	}

	if err := s.reconciliationRepo.DeleteReconciliation(ctx, reconciliationID); err != nil {
		logger.Error("Failed to delete reconciliation", slog.String("error", err.Error()), slog.String("reconciliation_id", reconciliationID))
		return fmt.Errorf("failed to delete reconciliation %s: %w", reconciliationID, err)
	}

	logger.Info("Reconciliation deleted", slog.String("reconciliation_id", reconciliationID))
	return nil
}

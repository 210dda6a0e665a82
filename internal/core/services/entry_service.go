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

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrFundNotFound        = errors.New("fund not found")
	ErrSameAccountTransfer = errors.New("source and destination accounts must differ")
	ErrSameFundTransfer    = errors.New("source and destination funds must differ")
	ErrEntryVoided         = errors.New("entry is voided")
	ErrVoidReasonMissing   = errors.New("a void reason is required")
)

// entryLine is the normalized input every archetype reduces to: one
// debit-or-credit row tagged with an account and a fund.
type entryLine struct {
	AccountID string
	FundID    string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Memo      string
}

// entryService builds, voids and edits journal entries.
type entryService struct {
	entryRepo  portsrepo.EntryRepositoryFacade
	accountSvc portssvc.AccountSvcFacade
	fundSvc    portssvc.FundSvcFacade
	donorSvc   portssvc.DonorSvcFacade
	userSvc    portssvc.UserSvcFacade
}

// NewEntryService creates a new journal entry service.
func NewEntryService(entryRepo portsrepo.EntryRepositoryFacade, accountSvc portssvc.AccountSvcFacade, fundSvc portssvc.FundSvcFacade, donorSvc portssvc.DonorSvcFacade, userSvc portssvc.UserSvcFacade) portssvc.EntrySvcFacade {
	return &entryService{
		entryRepo:  entryRepo,
		accountSvc: accountSvc,
		fundSvc:    fundSvc,
		donorSvc:   donorSvc,
		userSvc:    userSvc,
	}
}

// Ensure entryService implements the portssvc.EntrySvcFacade interface
var _ portssvc.EntrySvcFacade = (*entryService)(nil)

func (s *entryService) authorize(ctx context.Context, userID string, required domain.UserRole) error {
	if s.userSvc == nil {
		middleware.GetLoggerFromCtx(ctx).Warn("User service not available for authorization check")
		return nil
	}
	return s.userSvc.AuthorizeUserAction(ctx, userID, required)
}

// lineAmounts projects entry lines onto the validator's shape.
func lineAmounts(lines []entryLine) []accounting.LineAmounts {
	out := make([]accounting.LineAmounts, len(lines))
	for i, l := range lines {
		out[i] = accounting.LineAmounts{Debit: l.Debit, Credit: l.Credit}
	}
	return out
}

// validateReferences checks that every referenced account and fund exists and
// is active, and that the optional donor exists.
func (s *entryService) validateReferences(ctx context.Context, lines []entryLine, donorID string) error {
	accountIDs := make([]string, 0, len(lines))
	fundIDs := make([]string, 0, len(lines))
	seenAccounts := make(map[string]struct{})
	seenFunds := make(map[string]struct{})
	for _, l := range lines {
		if _, ok := seenAccounts[l.AccountID]; !ok {
			seenAccounts[l.AccountID] = struct{}{}
			accountIDs = append(accountIDs, l.AccountID)
		}
		if _, ok := seenFunds[l.FundID]; !ok {
			seenFunds[l.FundID] = struct{}{}
			fundIDs = append(fundIDs, l.FundID)
		}
	}

	accountsMap, err := s.accountSvc.GetAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range accountIDs {
		acc, found := accountsMap[id]
		if !found {
			return fmt.Errorf("%w: ID %s", ErrAccountNotFound, id)
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: account %d (%s) is inactive", apperrors.ErrValidation, acc.AccountNumber, acc.Name)
		}
	}

	fundsMap, err := s.fundSvc.GetFundsByIDs(ctx, fundIDs)
	if err != nil {
		return fmt.Errorf("failed to fetch funds: %w", err)
	}
	for _, id := range fundIDs {
		f, found := fundsMap[id]
		if !found {
			return fmt.Errorf("%w: ID %s", ErrFundNotFound, id)
		}
		if !f.IsActive {
			return fmt.Errorf("%w: fund %s is inactive", apperrors.ErrValidation, f.Name)
		}
	}

	if donorID != "" {
		if _, err := s.donorSvc.GetDonorByID(ctx, donorID); err != nil {
			return fmt.Errorf("failed to resolve donor %s: %w", donorID, err)
		}
	}

	return nil
}

// entryHeader carries the archetype-independent fields of a new entry.
type entryHeader struct {
	EntryDate       time.Time
	Description     string
	ReferenceNumber string
	DonorID         string
}

// createEntry is the single balanced-entry constructor every archetype feeds.
// It validates the line set, resolves references, and persists the entry and
// its lines in one database transaction.
func (s *entryService) createEntry(ctx context.Context, userID string, header entryHeader, lines []entryLine) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, userID, domain.RoleBookkeeper); err != nil {
		logger.Warn("Authorization failed for entry creation", slog.String("user_id", userID), slog.String("error", err.Error()))
		return nil, err
	}

	if header.Description == "" {
		return nil, fmt.Errorf("%w: entry description is required", apperrors.ErrValidation)
	}

	if err := accounting.ValidateBalanced(lineAmounts(lines)); err != nil {
		return nil, err
	}

	if err := s.validateReferences(ctx, lines, header.DonorID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	entry := domain.JournalEntry{
		EntryID:         entryID,
		EntryDate:       header.EntryDate,
		Description:     header.Description,
		ReferenceNumber: header.ReferenceNumber,
		DonorID:         header.DonorID,
		IsVoided:        false,
		AuditFields:     audit,
	}

	domainLines := make([]domain.LedgerLine, len(lines))
	for i, l := range lines {
		domainLines[i] = domain.LedgerLine{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			AccountID:   l.AccountID,
			FundID:      l.FundID,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Memo:        l.Memo,
			AuditFields: audit,
		}
	}

	if err := s.entryRepo.SaveEntry(ctx, entry, domainLines); err != nil {
		logger.Error("Failed to save journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	logger.Info("Journal entry created", slog.String("entry_id", entryID), slog.Int("line_count", len(domainLines)))
	entry.Lines = domainLines
	return &entry, nil
}

// requirePositive rejects non-positive amounts before any store access.
func requirePositive(amount decimal.Decimal, what string) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: %s must be greater than zero", apperrors.ErrValidation, what)
	}
	return nil
}

// RecordGiving records weekly giving: debit checking/cash, credit income.
func (s *entryService) RecordGiving(ctx context.Context, req dto.RecordGivingRequest, userID string) (*domain.JournalEntry, error) {
	if err := requirePositive(req.Amount, "giving amount"); err != nil {
		return nil, err
	}

	lines := []entryLine{
		{AccountID: req.CheckingAccountID, FundID: req.FundID, Debit: req.Amount},
		{AccountID: req.IncomeAccountID, FundID: req.FundID, Credit: req.Amount},
	}
	return s.createEntry(ctx, userID, entryHeader{
		EntryDate:       req.EntryDate,
		Description:     req.Description,
		ReferenceNumber: req.ReferenceNumber,
		DonorID:         req.DonorID,
	}, lines)
}

// RecordExpense records an expense: debit the expense account, credit the
// checking account for cash payments or the liability account for purchases
// on credit.
func (s *entryService) RecordExpense(ctx context.Context, req dto.RecordExpenseRequest, userID string) (*domain.JournalEntry, error) {
	if err := requirePositive(req.Amount, "expense amount"); err != nil {
		return nil, err
	}

	creditAccountID := req.CheckingAccountID
	if req.PaidByCredit {
		creditAccountID = req.LiabilityAccountID
	}
	if creditAccountID == "" {
		return nil, fmt.Errorf("%w: a checking or liability account is required", apperrors.ErrValidation)
	}

	lines := []entryLine{
		{AccountID: req.ExpenseAccountID, FundID: req.FundID, Debit: req.Amount, Memo: req.Memo},
		{AccountID: creditAccountID, FundID: req.FundID, Credit: req.Amount, Memo: req.Memo},
	}
	return s.createEntry(ctx, userID, entryHeader{
		EntryDate:       req.EntryDate,
		Description:     req.Description,
		ReferenceNumber: req.ReferenceNumber,
	}, lines)
}

// RecordAccountTransfer moves an amount between two accounts within one fund.
// The fund's total balance is unchanged.
func (s *entryService) RecordAccountTransfer(ctx context.Context, req dto.RecordAccountTransferRequest, userID string) (*domain.JournalEntry, error) {
	if err := requirePositive(req.Amount, "transfer amount"); err != nil {
		return nil, err
	}
	if req.FromAccountID == req.ToAccountID {
		return nil, fmt.Errorf("%w", ErrSameAccountTransfer)
	}

	lines := []entryLine{
		{AccountID: req.ToAccountID, FundID: req.FundID, Debit: req.Amount},
		{AccountID: req.FromAccountID, FundID: req.FundID, Credit: req.Amount},
	}
	return s.createEntry(ctx, userID, entryHeader{
		EntryDate:   req.EntryDate,
		Description: req.Description,
	}, lines)
}

// RecordFundTransfer moves an amount between two funds through the same
// checking account. The account's total balance is unchanged.
func (s *entryService) RecordFundTransfer(ctx context.Context, req dto.RecordFundTransferRequest, userID string) (*domain.JournalEntry, error) {
	if err := requirePositive(req.Amount, "transfer amount"); err != nil {
		return nil, err
	}
	if req.FromFundID == req.ToFundID {
		return nil, fmt.Errorf("%w", ErrSameFundTransfer)
	}

	lines := []entryLine{
		{AccountID: req.CheckingAccountID, FundID: req.ToFundID, Debit: req.Amount},
		{AccountID: req.CheckingAccountID, FundID: req.FromFundID, Credit: req.Amount},
	}
	return s.createEntry(ctx, userID, entryHeader{
		EntryDate:   req.EntryDate,
		Description: req.Description,
	}, lines)
}

// RecordInKindDonation records a non-cash donation at fair market value:
// debit an asset or expense account, credit a non-cash-contribution income
// account.
func (s *entryService) RecordInKindDonation(ctx context.Context, req dto.RecordInKindDonationRequest, userID string) (*domain.JournalEntry, error) {
	if err := requirePositive(req.FairMarketValue, "fair market value"); err != nil {
		return nil, err
	}

	memo := req.ItemDescription
	lines := []entryLine{
		{AccountID: req.DebitAccountID, FundID: req.FundID, Debit: req.FairMarketValue, Memo: memo},
		{AccountID: req.IncomeAccountID, FundID: req.FundID, Credit: req.FairMarketValue, Memo: memo},
	}
	return s.createEntry(ctx, userID, entryHeader{
		EntryDate:   req.EntryDate,
		Description: req.Description,
		DonorID:     req.DonorID,
	}, lines)
}

// RecordOpeningBalance seeds an account's starting position: debit the asset
// account, credit the fund's equity account.
func (s *entryService) RecordOpeningBalance(ctx context.Context, req dto.RecordOpeningBalanceRequest, userID string) (*domain.JournalEntry, error) {
	if err := requirePositive(req.Amount, "opening balance"); err != nil {
		return nil, err
	}

	lines := []entryLine{
		{AccountID: req.AssetAccountID, FundID: req.FundID, Debit: req.Amount},
		{AccountID: req.EquityAccountID, FundID: req.FundID, Credit: req.Amount},
	}
	return s.createEntry(ctx, userID, entryHeader{
		EntryDate:   req.EntryDate,
		Description: req.Description,
	}, lines)
}

// RecordBatchDonation records an online giving deposit. The checking account
// receives the net amount and processor fees post as an expense, while one
// income line per donor allocation carries the gross. Allocations must sum to
// netDeposit + fees exactly; otherwise the remaining amount to assign is
// reported and nothing is written.
func (s *entryService) RecordBatchDonation(ctx context.Context, req dto.RecordBatchDonationRequest, userID string) (*domain.JournalEntry, error) {
	if err := requirePositive(req.NetDeposit, "net deposit"); err != nil {
		return nil, err
	}
	if req.Fees.IsNegative() {
		return nil, fmt.Errorf("%w: fees cannot be negative", apperrors.ErrValidation)
	}
	if req.Fees.IsPositive() && req.FeesAccountID == "" {
		return nil, fmt.Errorf("%w: a fees expense account is required when fees are present", apperrors.ErrValidation)
	}

	gross := req.NetDeposit.Add(req.Fees)
	allocated := decimal.Zero
	for i, alloc := range req.Allocations {
		if alloc.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: allocation %d must be greater than zero", apperrors.ErrValidation, i+1)
		}
		allocated = allocated.Add(alloc.Amount)
	}
	if remaining := gross.Sub(allocated); !remaining.Abs().LessThan(accounting.Tolerance) {
		return nil, fmt.Errorf("%w: donor allocations (%s) do not match the gross deposit (%s): %s remaining to assign",
			apperrors.ErrValidation, allocated.StringFixed(2), gross.StringFixed(2), remaining.StringFixed(2))
	}

	lines := make([]entryLine, 0, len(req.Allocations)+2)
	lines = append(lines, entryLine{AccountID: req.CheckingAccountID, FundID: req.FundID, Debit: req.NetDeposit})
	if req.Fees.IsPositive() {
		lines = append(lines, entryLine{AccountID: req.FeesAccountID, FundID: req.FundID, Debit: req.Fees, Memo: "processor fees"})
	}
	for _, alloc := range req.Allocations {
		lines = append(lines, entryLine{
			AccountID: alloc.IncomeAccountID,
			FundID:    alloc.FundID,
			Credit:    alloc.Amount,
			Memo:      alloc.Memo,
		})
	}

	return s.createEntry(ctx, userID, entryHeader{
		EntryDate:       req.EntryDate,
		Description:     req.Description,
		ReferenceNumber: req.ReferenceNumber,
	}, lines)
}

// GetEntryByID retrieves an entry with its ledger lines.
func (s *entryService) GetEntryByID(ctx context.Context, entryID string, requestingUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, requestingUserID, domain.RoleViewer); err != nil {
		return nil, err
	}

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find entry by ID", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}

	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		logger.Error("Failed to fetch lines for entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, apperrors.ErrInternal)
	}
	entry.Lines = lines

	return entry, nil
}

// ListEntries retrieves a paginated list of entries. Voided entries are
// excluded unless the caller asks for them.
func (s *entryService) ListEntries(ctx context.Context, userID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, userID, domain.RoleViewer); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20 // Default limit
	}

	entries, nextToken, err := s.entryRepo.ListEntries(ctx, limit, params.NextToken, params.IncludeVoided)
	if err != nil {
		logger.Error("Failed to list entries from repository", "error", err)
		return nil, fmt.Errorf("failed to retrieve entries: %w", err)
	}

	entryResponses := make([]dto.EntryResponse, len(entries))
	for i := range entries {
		entryResponses[i] = dto.ToEntryResponse(&entries[i])
	}

	return &dto.ListEntriesResponse{
		Entries:   entryResponses,
		NextToken: nextToken,
	}, nil
}

// ListLinesByAccount retrieves the non-voided lines posted to one account.
func (s *entryService) ListLinesByAccount(ctx context.Context, accountID string, unclearedOnly bool, userID string) ([]domain.LedgerLine, error) {
	if err := s.authorize(ctx, userID, domain.RoleViewer); err != nil {
		return nil, err
	}
	if _, err := s.accountSvc.GetAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.entryRepo.ListLinesByAccount(ctx, accountID, unclearedOnly)
}

// VoidEntry marks an entry voided. The transition is one-way and requires a
// non-empty reason; the entry's lines are preserved untouched for audit.
func (s *entryService) VoidEntry(ctx context.Context, entryID string, reason string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, userID, domain.RoleBookkeeper); err != nil {
		return nil, err
	}

	if reason == "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrVoidReasonMissing)
	}

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if entry.IsVoided {
		return nil, fmt.Errorf("%w: entry %s is already voided", apperrors.ErrConflict, entryID)
	}

	now := time.Now().UTC()
	if err := s.entryRepo.VoidEntry(ctx, entryID, reason, userID, now); err != nil {
		logger.Error("Failed to void entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to void entry %s: %w", entryID, err)
	}

	logger.Info("Entry voided", slog.String("entry_id", entryID), slog.String("reason", reason))
	entry.IsVoided = true
	entry.VoidedAt = &now
	entry.VoidedReason = reason
	return entry, nil
}

// UpdateEntryLines replaces the full line set of a non-voided entry. Every
// replacement line must reference a line already on the entry; adding lines
// to a persisted entry is unsupported (void and recreate instead). The
// replacement set must re-pass balance validation before any write.
func (s *entryService) UpdateEntryLines(ctx context.Context, entryID string, req dto.UpdateEntryLinesRequest, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorize(ctx, userID, domain.RoleBookkeeper); err != nil {
		return nil, err
	}

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if entry.IsVoided {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, ErrEntryVoided)
	}

	existing, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, err)
	}
	existingByID := make(map[string]domain.LedgerLine, len(existing))
	for _, l := range existing {
		existingByID[l.LineID] = l
	}

	if len(req.Lines) != len(existing) {
		return nil, fmt.Errorf("%w: entry %s has %d lines, got %d replacement lines; adding or removing lines requires void and recreate",
			apperrors.ErrValidation, entryID, len(existing), len(req.Lines))
	}

	now := time.Now().UTC()
	replacement := make([]domain.LedgerLine, len(req.Lines))
	seen := make(map[string]struct{}, len(req.Lines))
	lines := make([]entryLine, len(req.Lines))
	for i, edit := range req.Lines {
		orig, found := existingByID[edit.LineID]
		if !found {
			return nil, fmt.Errorf("%w: line %s does not belong to entry %s", apperrors.ErrValidation, edit.LineID, entryID)
		}
		if _, dup := seen[edit.LineID]; dup {
			return nil, fmt.Errorf("%w: line %s appears more than once", apperrors.ErrValidation, edit.LineID)
		}
		seen[edit.LineID] = struct{}{}

		replacement[i] = orig
		replacement[i].AccountID = edit.AccountID
		replacement[i].FundID = edit.FundID
		replacement[i].Debit = edit.Debit
		replacement[i].Credit = edit.Credit
		replacement[i].Memo = edit.Memo
		replacement[i].LastUpdatedAt = now
		replacement[i].LastUpdatedBy = userID

		lines[i] = entryLine{
			AccountID: edit.AccountID,
			FundID:    edit.FundID,
			Debit:     edit.Debit,
			Credit:    edit.Credit,
			Memo:      edit.Memo,
		}
	}

	if err := accounting.ValidateBalanced(lineAmounts(lines)); err != nil {
		return nil, err
	}
	if err := s.validateReferences(ctx, lines, ""); err != nil {
		return nil, err
	}

	if err := s.entryRepo.ReplaceEntryLines(ctx, entryID, replacement, userID, now); err != nil {
		logger.Error("Failed to update entry lines", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to update lines for entry %s: %w", entryID, err)
	}

	logger.Info("Entry lines updated", slog.String("entry_id", entryID), slog.Int("line_count", len(replacement)))
	entry.Lines = replacement
	return entry, nil
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
)

// RecordGivingRequest records weekly giving: debit checking, credit income.
type RecordGivingRequest struct {
	EntryDate         time.Time       `json:"entryDate" binding:"required"`
	Description       string          `json:"description" binding:"required"`
	ReferenceNumber   string          `json:"referenceNumber"`
	DonorID           string          `json:"donorID"` // Optional
	FundID            string          `json:"fundID" binding:"required"`
	CheckingAccountID string          `json:"checkingAccountID" binding:"required"`
	IncomeAccountID   string          `json:"incomeAccountID" binding:"required"`
	Amount            decimal.Decimal `json:"amount" binding:"required,gt=0"`
}

// RecordExpenseRequest records an expense paid by cash or on credit.
// When PaidByCredit is set, LiabilityAccountID (accounts payable) is credited
// instead of the checking account.
type RecordExpenseRequest struct {
	EntryDate          time.Time       `json:"entryDate" binding:"required"`
	Description        string          `json:"description" binding:"required"`
	ReferenceNumber    string          `json:"referenceNumber"`
	FundID             string          `json:"fundID" binding:"required"`
	ExpenseAccountID   string          `json:"expenseAccountID" binding:"required"`
	CheckingAccountID  string          `json:"checkingAccountID"`
	PaidByCredit       bool            `json:"paidByCredit"`
	LiabilityAccountID string          `json:"liabilityAccountID"`
	Amount             decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Memo               string          `json:"memo"`
}

// RecordAccountTransferRequest moves an amount between two accounts within
// the same fund.
type RecordAccountTransferRequest struct {
	EntryDate     time.Time       `json:"entryDate" binding:"required"`
	Description   string          `json:"description" binding:"required"`
	FundID        string          `json:"fundID" binding:"required"`
	FromAccountID string          `json:"fromAccountID" binding:"required"`
	ToAccountID   string          `json:"toAccountID" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required,gt=0"`
}

// RecordFundTransferRequest moves an amount between two funds through the
// same checking account.
type RecordFundTransferRequest struct {
	EntryDate         time.Time       `json:"entryDate" binding:"required"`
	Description       string          `json:"description" binding:"required"`
	CheckingAccountID string          `json:"checkingAccountID" binding:"required"`
	FromFundID        string          `json:"fromFundID" binding:"required"`
	ToFundID          string          `json:"toFundID" binding:"required"`
	Amount            decimal.Decimal `json:"amount" binding:"required,gt=0"`
}

// RecordInKindDonationRequest records a non-cash donation: debit an asset or
// expense account, credit a non-cash-contribution income account.
type RecordInKindDonationRequest struct {
	EntryDate       time.Time       `json:"entryDate" binding:"required"`
	Description     string          `json:"description" binding:"required"`
	DonorID         string          `json:"donorID"` // Optional
	FundID          string          `json:"fundID" binding:"required"`
	DebitAccountID  string          `json:"debitAccountID" binding:"required"`
	IncomeAccountID string          `json:"incomeAccountID" binding:"required"`
	FairMarketValue decimal.Decimal `json:"fairMarketValue" binding:"required,gt=0"`
	ItemDescription string          `json:"itemDescription"`
}

// RecordOpeningBalanceRequest seeds an account's starting position: debit the
// asset account, credit the fund's equity account.
type RecordOpeningBalanceRequest struct {
	EntryDate       time.Time       `json:"entryDate" binding:"required"`
	Description     string          `json:"description" binding:"required"`
	FundID          string          `json:"fundID" binding:"required"`
	AssetAccountID  string          `json:"assetAccountID" binding:"required"`
	EquityAccountID string          `json:"equityAccountID" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required,gt=0"`
}

// BatchDonationAllocation is one donor/fund slice of an online deposit batch.
type BatchDonationAllocation struct {
	DonorID         string          `json:"donorID"` // Optional
	FundID          string          `json:"fundID" binding:"required"`
	IncomeAccountID string          `json:"incomeAccountID" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Memo            string          `json:"memo"`
}

// RecordBatchDonationRequest records an online giving deposit: the checking
// account receives the net amount, processor fees post to a fees expense
// account, and income lines carry the gross per-donor allocations.
// Allocations must sum to NetDeposit + Fees.
type RecordBatchDonationRequest struct {
	EntryDate         time.Time                 `json:"entryDate" binding:"required"`
	Description       string                    `json:"description" binding:"required"`
	ReferenceNumber   string                    `json:"referenceNumber"`
	FundID            string                    `json:"fundID" binding:"required"` // Fund receiving the deposit and fee lines
	CheckingAccountID string                    `json:"checkingAccountID" binding:"required"`
	FeesAccountID     string                    `json:"feesAccountID"`
	NetDeposit        decimal.Decimal           `json:"netDeposit" binding:"required,gt=0"`
	Fees              decimal.Decimal           `json:"fees" binding:"gte=0"`
	Allocations       []BatchDonationAllocation `json:"allocations" binding:"required,min=1,dive"`
}

// VoidEntryRequest marks an entry voided. The reason is mandatory.
type VoidEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// EditLine is one replacement line for an existing ledger line. LineID must
// reference a line already on the entry; adding new lines is not supported.
type EditLine struct {
	LineID    string          `json:"lineID" binding:"required"`
	AccountID string          `json:"accountID" binding:"required"`
	FundID    string          `json:"fundID" binding:"required"`
	Debit     decimal.Decimal `json:"debit" binding:"gte=0"`
	Credit    decimal.Decimal `json:"credit" binding:"gte=0"`
	Memo      string          `json:"memo"`
}

// UpdateEntryLinesRequest replaces the full line set of a non-voided entry.
type UpdateEntryLinesRequest struct {
	Lines []EditLine `json:"lines" binding:"required,min=2,dive"`
}

// ListEntriesParams holds query parameters for listing journal entries.
type ListEntriesParams struct {
	Limit         int     `form:"limit"`
	NextToken     *string `form:"nextToken"`
	IncludeVoided bool    `form:"includeVoided"`
}

// LedgerLineResponse defines the data returned for one ledger line.
type LedgerLineResponse struct {
	LineID    string          `json:"lineID"`
	AccountID string          `json:"accountID"`
	FundID    string          `json:"fundID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo"`
	IsCleared bool            `json:"isCleared"`
	ClearedAt *time.Time      `json:"clearedAt,omitempty"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID         string               `json:"entryID"`
	EntryDate       time.Time            `json:"entryDate"`
	Description     string               `json:"description"`
	ReferenceNumber string               `json:"referenceNumber,omitempty"`
	DonorID         string               `json:"donorID,omitempty"`
	IsVoided        bool                 `json:"isVoided"`
	VoidedAt        *time.Time           `json:"voidedAt,omitempty"`
	VoidedReason    string               `json:"voidedReason,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
	CreatedBy       string               `json:"createdBy"`
	Lines           []LedgerLineResponse `json:"lines,omitempty"`
}

// ListEntriesResponse wraps a page of entries with the next page token.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToLedgerLineResponse converts a domain.LedgerLine to its response DTO.
func ToLedgerLineResponse(l *domain.LedgerLine) LedgerLineResponse {
	return LedgerLineResponse{
		LineID:    l.LineID,
		AccountID: l.AccountID,
		FundID:    l.FundID,
		Debit:     l.Debit,
		Credit:    l.Credit,
		Memo:      l.Memo,
		IsCleared: l.IsCleared,
		ClearedAt: l.ClearedAt,
	}
}

// ToEntryResponse converts a domain.JournalEntry to its response DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:         e.EntryID,
		EntryDate:       e.EntryDate,
		Description:     e.Description,
		ReferenceNumber: e.ReferenceNumber,
		DonorID:         e.DonorID,
		IsVoided:        e.IsVoided,
		VoidedAt:        e.VoidedAt,
		VoidedReason:    e.VoidedReason,
		CreatedAt:       e.CreatedAt,
		CreatedBy:       e.CreatedBy,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]LedgerLineResponse, len(e.Lines))
		for i := range e.Lines {
			resp.Lines[i] = ToLedgerLineResponse(&e.Lines[i])
		}
	}
	return resp
}

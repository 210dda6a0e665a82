package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalance is one account's position as of a date, voided entries
// excluded.
type AccountBalance struct {
	AccountID     string          `json:"accountID"`
	AccountNumber int             `json:"accountNumber"`
	AccountName   string          `json:"accountName"`
	AccountType   AccountType     `json:"accountType"`
	TotalDebits   decimal.Decimal `json:"totalDebits"`
	TotalCredits  decimal.Decimal `json:"totalCredits"`
	Balance       decimal.Decimal `json:"balance"` // Signed per account type convention
}

// FundBalance is one fund's net position, voided entries excluded.
type FundBalance struct {
	FundID       string          `json:"fundID"`
	FundName     string          `json:"fundName"`
	IsRestricted bool            `json:"isRestricted"`
	Balance      decimal.Decimal `json:"balance"`
}

// DonorGivingSummary aggregates one donor's contributions over a period, for
// giving statements.
type DonorGivingSummary struct {
	DonorID     string          `json:"donorID"`
	DonorName   string          `json:"donorName"`
	PeriodStart time.Time       `json:"periodStart"`
	PeriodEnd   time.Time       `json:"periodEnd"`
	EntryCount  int             `json:"entryCount"`
	TotalGiven  decimal.Decimal `json:"totalGiven"`
}

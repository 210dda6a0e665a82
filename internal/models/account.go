package models

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// Account mirrors the accounts table (chart of accounts).
type Account struct {
	AccountID                 string      `json:"accountID"`
	AccountNumber             int         `json:"accountNumber"`
	Name                      string      `json:"name"`
	AccountType               AccountType `json:"accountType"`
	Description               string      `json:"description"`
	ParentAccountID           string      `json:"parentAccountID"`           // Nullable self-reference
	DefaultLiabilityAccountID string      `json:"defaultLiabilityAccountID"` // Nullable
	IsActive                  bool        `json:"isActive"`
	AuditFields
}

// Fund mirrors the funds table.
type Fund struct {
	FundID            string `json:"fundID"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	IsRestricted      bool   `json:"isRestricted"`
	NetAssetAccountID string `json:"netAssetAccountID"` // Nullable
	IsActive          bool   `json:"isActive"`
	AuditFields
}

// Donor mirrors the donors table.
type Donor struct {
	DonorID        string `json:"donorID"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Address        string `json:"address"`
	EnvelopeNumber *int   `json:"envelopeNumber"` // Nullable, unique when present
	IsActive       bool   `json:"isActive"`
	AuditFields
}

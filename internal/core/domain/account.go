package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether t is one of the five known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// Account is one row of the chart of accounts.
// Account numbers follow the conventional buckets: 1000s Asset, 2000s
// Liability, 3000s Equity, 4000s Income, 5000s Expense.
type Account struct {
	AccountID                 string      `json:"accountID"`     // Primary key (UUID)
	AccountNumber             int         `json:"accountNumber"` // Unique within the chart
	Name                      string      `json:"name"`
	AccountType               AccountType `json:"accountType"`
	Description               string      `json:"description"`               // Nullable user description
	ParentAccountID           string      `json:"parentAccountID"`           // Nullable FK -> accounts.account_id
	DefaultLiabilityAccountID string      `json:"defaultLiabilityAccountID"` // Nullable FK, used for credit purchases
	IsActive                  bool        `json:"isActive"`                  // Soft delete flag; referenced accounts are deactivated, never deleted
	AuditFields
}

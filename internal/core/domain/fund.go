package domain

// Fund is a donor-restriction bucket tracked alongside the chart of accounts.
// Every ledger line is tagged with both an account and a fund.
type Fund struct {
	FundID            string `json:"fundID"` // Primary key (UUID)
	Name              string `json:"name"`   // Unique
	Description       string `json:"description"`
	IsRestricted      bool   `json:"isRestricted"`
	NetAssetAccountID string `json:"netAssetAccountID"` // Nullable FK -> an Equity account for balance-sheet rollup
	IsActive          bool   `json:"isActive"`
	AuditFields
}

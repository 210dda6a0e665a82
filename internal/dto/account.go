package dto

import (
	"time"

	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	AccountNumber             int                `json:"accountNumber" binding:"required"`
	Name                      string             `json:"name" binding:"required"`
	AccountType               domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	Description               string             `json:"description"`
	ParentAccountID           *string            `json:"parentAccountID"`           // Optional
	DefaultLiabilityAccountID *string            `json:"defaultLiabilityAccountID"` // Optional
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name                      *string `json:"name"`
	Description               *string `json:"description"`
	DefaultLiabilityAccountID *string `json:"defaultLiabilityAccountID"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID                 string             `json:"accountID"`
	AccountNumber             int                `json:"accountNumber"`
	Name                      string             `json:"name"`
	AccountType               domain.AccountType `json:"accountType"`
	Description               string             `json:"description"`
	ParentAccountID           string             `json:"parentAccountID,omitempty"`
	DefaultLiabilityAccountID string             `json:"defaultLiabilityAccountID,omitempty"`
	IsActive                  bool               `json:"isActive"`
	CreatedAt                 time.Time          `json:"createdAt"`
	LastUpdatedAt             time.Time          `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:                 acc.AccountID,
		AccountNumber:             acc.AccountNumber,
		Name:                      acc.Name,
		AccountType:               acc.AccountType,
		Description:               acc.Description,
		ParentAccountID:           acc.ParentAccountID,
		DefaultLiabilityAccountID: acc.DefaultLiabilityAccountID,
		IsActive:                  acc.IsActive,
		CreatedAt:                 acc.CreatedAt,
		LastUpdatedAt:             acc.LastUpdatedAt,
	}
}

// ToAccountResponses converts a slice of domain accounts to response DTOs.
func ToAccountResponses(accs []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accs))
	for i := range accs {
		responses[i] = ToAccountResponse(&accs[i])
	}
	return responses
}

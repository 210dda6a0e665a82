package dto

import (
	"time"

	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
)

// CreateFundRequest defines the data needed to create a new fund.
type CreateFundRequest struct {
	Name              string  `json:"name" binding:"required"`
	Description       string  `json:"description"`
	IsRestricted      bool    `json:"isRestricted"`
	NetAssetAccountID *string `json:"netAssetAccountID"` // Optional Equity account mapping
}

// UpdateFundRequest defines the data allowed for updating a fund.
type UpdateFundRequest struct {
	Name              *string `json:"name"`
	Description       *string `json:"description"`
	IsRestricted      *bool   `json:"isRestricted"`
	NetAssetAccountID *string `json:"netAssetAccountID"`
}

// FundResponse defines the data returned for a fund.
type FundResponse struct {
	FundID            string    `json:"fundID"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	IsRestricted      bool      `json:"isRestricted"`
	NetAssetAccountID string    `json:"netAssetAccountID,omitempty"`
	IsActive          bool      `json:"isActive"`
	CreatedAt         time.Time `json:"createdAt"`
	LastUpdatedAt     time.Time `json:"lastUpdatedAt"`
}

// ToFundResponse converts a domain.Fund to FundResponse DTO
func ToFundResponse(f *domain.Fund) FundResponse {
	return FundResponse{
		FundID:            f.FundID,
		Name:              f.Name,
		Description:       f.Description,
		IsRestricted:      f.IsRestricted,
		NetAssetAccountID: f.NetAssetAccountID,
		IsActive:          f.IsActive,
		CreatedAt:         f.CreatedAt,
		LastUpdatedAt:     f.LastUpdatedAt,
	}
}

// ToFundResponses converts a slice of domain funds to response DTOs.
func ToFundResponses(funds []domain.Fund) []FundResponse {
	responses := make([]FundResponse, len(funds))
	for i := range funds {
		responses[i] = ToFundResponse(&funds[i])
	}
	return responses
}

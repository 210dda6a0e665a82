package dto

import (
	"time"

	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
)

// CreateDonorRequest defines the data needed to create a new donor.
type CreateDonorRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"omitempty,email"`
	Address        string `json:"address"`
	EnvelopeNumber *int   `json:"envelopeNumber"` // Optional, unique when present
}

// UpdateDonorRequest defines the data allowed for updating a donor.
type UpdateDonorRequest struct {
	Name           *string `json:"name"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Address        *string `json:"address"`
	EnvelopeNumber *int    `json:"envelopeNumber"`
}

// DonorResponse defines the data returned for a donor.
type DonorResponse struct {
	DonorID        string    `json:"donorID"`
	Name           string    `json:"name"`
	Email          string    `json:"email,omitempty"`
	Address        string    `json:"address,omitempty"`
	EnvelopeNumber *int      `json:"envelopeNumber,omitempty"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	LastUpdatedAt  time.Time `json:"lastUpdatedAt"`
}

// ToDonorResponse converts a domain.Donor to DonorResponse DTO
func ToDonorResponse(d *domain.Donor) DonorResponse {
	return DonorResponse{
		DonorID:        d.DonorID,
		Name:           d.Name,
		Email:          d.Email,
		Address:        d.Address,
		EnvelopeNumber: d.EnvelopeNumber,
		IsActive:       d.IsActive,
		CreatedAt:      d.CreatedAt,
		LastUpdatedAt:  d.LastUpdatedAt,
	}
}

// ToDonorResponses converts a slice of domain donors to response DTOs.
func ToDonorResponses(donors []domain.Donor) []DonorResponse {
	responses := make([]DonorResponse, len(donors))
	for i := range donors {
		responses[i] = ToDonorResponse(&donors[i])
	}
	return responses
}

package domain

// Donor is a giving unit (person or household) referenced by journal entries
// for contribution tracking and year-end statements.
type Donor struct {
	DonorID        string `json:"donorID"` // Primary key (UUID)
	Name           string `json:"name"`
	Email          string `json:"email"`          // Nullable
	Address        string `json:"address"`        // Nullable
	EnvelopeNumber *int   `json:"envelopeNumber"` // Nullable, unique when present
	IsActive       bool   `json:"isActive"`
	AuditFields
}

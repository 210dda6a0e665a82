package mapping

import (
	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
	"github.com/stewardbooks/fund_accounting_app/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:                 d.AccountID,
		AccountNumber:             d.AccountNumber,
		Name:                      d.Name,
		AccountType:               models.AccountType(d.AccountType),
		Description:               d.Description,
		ParentAccountID:           d.ParentAccountID,
		DefaultLiabilityAccountID: d.DefaultLiabilityAccountID,
		IsActive:                  d.IsActive,
		AuditFields:               ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:                 m.AccountID,
		AccountNumber:             m.AccountNumber,
		Name:                      m.Name,
		AccountType:               domain.AccountType(m.AccountType),
		Description:               m.Description,
		ParentAccountID:           m.ParentAccountID,
		DefaultLiabilityAccountID: m.DefaultLiabilityAccountID,
		IsActive:                  m.IsActive,
		AuditFields:               ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelFund converts a domain Fund to a model Fund
func ToModelFund(d domain.Fund) models.Fund {
	return models.Fund{
		FundID:            d.FundID,
		Name:              d.Name,
		Description:       d.Description,
		IsRestricted:      d.IsRestricted,
		NetAssetAccountID: d.NetAssetAccountID,
		IsActive:          d.IsActive,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFund converts a model Fund to a domain Fund
func ToDomainFund(m models.Fund) domain.Fund {
	return domain.Fund{
		FundID:            m.FundID,
		Name:              m.Name,
		Description:       m.Description,
		IsRestricted:      m.IsRestricted,
		NetAssetAccountID: m.NetAssetAccountID,
		IsActive:          m.IsActive,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelDonor converts a domain Donor to a model Donor
func ToModelDonor(d domain.Donor) models.Donor {
	return models.Donor{
		DonorID:        d.DonorID,
		Name:           d.Name,
		Email:          d.Email,
		Address:        d.Address,
		EnvelopeNumber: d.EnvelopeNumber,
		IsActive:       d.IsActive,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDonor converts a model Donor to a domain Donor
func ToDomainDonor(m models.Donor) domain.Donor {
	return domain.Donor{
		DonorID:        m.DonorID,
		Name:           m.Name,
		Email:          m.Email,
		Address:        m.Address,
		EnvelopeNumber: m.EnvelopeNumber,
		IsActive:       m.IsActive,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

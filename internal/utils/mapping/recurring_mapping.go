package mapping

import (
	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
	"github.com/stewardbooks/fund_accounting_app/internal/models"
)

// ToModelRecurringTemplate converts a domain RecurringTemplate to its model
func ToModelRecurringTemplate(d domain.RecurringTemplate) models.RecurringTemplate {
	return models.RecurringTemplate{
		TemplateID:  d.TemplateID,
		Description: d.Description,
		Frequency:   string(d.Frequency),
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		NextRunDate: d.NextRunDate,
		LastRunDate: d.LastRunDate,
		IsActive:    d.IsActive,
		FundID:      d.FundID,
		Amount:      d.Amount,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainRecurringTemplate converts a model RecurringTemplate to its domain form
func ToDomainRecurringTemplate(m models.RecurringTemplate) domain.RecurringTemplate {
	return domain.RecurringTemplate{
		TemplateID:  m.TemplateID,
		Description: m.Description,
		Frequency:   domain.Frequency(m.Frequency),
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		NextRunDate: m.NextRunDate,
		LastRunDate: m.LastRunDate,
		IsActive:    m.IsActive,
		FundID:      m.FundID,
		Amount:      m.Amount,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelRecurringTemplateLine converts a domain template line to its model
func ToModelRecurringTemplateLine(d domain.RecurringTemplateLine) models.RecurringTemplateLine {
	return models.RecurringTemplateLine{
		TemplateLineID: d.TemplateLineID,
		TemplateID:     d.TemplateID,
		AccountID:      d.AccountID,
		Debit:          d.Debit,
		Credit:         d.Credit,
		Memo:           d.Memo,
		LineOrder:      d.LineOrder,
	}
}

// ToDomainRecurringTemplateLine converts a model template line to its domain form
func ToDomainRecurringTemplateLine(m models.RecurringTemplateLine) domain.RecurringTemplateLine {
	return domain.RecurringTemplateLine{
		TemplateLineID: m.TemplateLineID,
		TemplateID:     m.TemplateID,
		AccountID:      m.AccountID,
		Debit:          m.Debit,
		Credit:         m.Credit,
		Memo:           m.Memo,
		LineOrder:      m.LineOrder,
	}
}

// ToDomainRecurringTemplateLineSlice converts model template lines to domain form
func ToDomainRecurringTemplateLineSlice(ms []models.RecurringTemplateLine) []domain.RecurringTemplateLine {
	ds := make([]domain.RecurringTemplateLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainRecurringTemplateLine(m)
	}
	return ds
}

// ToModelRecurringHistory converts a domain RecurringHistory to its model
func ToModelRecurringHistory(d domain.RecurringHistory) models.RecurringHistory {
	return models.RecurringHistory{
		HistoryID:    d.HistoryID,
		TemplateID:   d.TemplateID,
		EntryID:      d.EntryID,
		RunDate:      d.RunDate,
		Status:       string(d.Status),
		ErrorMessage: d.ErrorMessage,
		CreatedAt:    d.CreatedAt,
	}
}

// ToDomainRecurringHistory converts a model RecurringHistory to its domain form
func ToDomainRecurringHistory(m models.RecurringHistory) domain.RecurringHistory {
	return domain.RecurringHistory{
		HistoryID:    m.HistoryID,
		TemplateID:   m.TemplateID,
		EntryID:      m.EntryID,
		RunDate:      m.RunDate,
		Status:       domain.RunStatus(m.Status),
		ErrorMessage: m.ErrorMessage,
		CreatedAt:    m.CreatedAt,
	}
}

package mapping

import (
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/SscSPs/backoffice_ledger/internal/models"
)

func ToDomainWorkplace(m models.Workplace) domain.Workplace {
	return domain.Workplace{
		WorkplaceID: m.WorkplaceID,
		Name:        m.Name,
		Description: m.Description,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainUserWorkplace(m models.UserWorkplace) domain.UserWorkplace {
	return domain.UserWorkplace{
		UserID:      m.UserID,
		WorkplaceID: m.WorkplaceID,
		Role:        domain.UserWorkplaceRole(m.Role),
		JoinedAt:    m.JoinedAt,
	}
}

func ToDomainWorkplaceSettings(m models.WorkplaceSettings) domain.WorkplaceSettings {
	return domain.WorkplaceSettings{
		WorkplaceID:          m.WorkplaceID,
		DefaultCashDrawerID:  m.DefaultCashDrawerID,
		DefaultBankAccountID: m.DefaultBankAccountID,
		LastUpdatedAt:        m.LastUpdatedAt,
		LastUpdatedBy:        m.LastUpdatedBy,
	}
}

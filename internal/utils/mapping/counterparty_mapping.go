package mapping

import (
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/SscSPs/backoffice_ledger/internal/models"
)

func ToModelCounterparty(d domain.Counterparty) models.Counterparty {
	return models.Counterparty{
		CounterpartyID:     d.CounterpartyID,
		WorkplaceID:        d.WorkplaceID,
		Name:               d.Name,
		Email:              d.Email,
		Phone:              d.Phone,
		Address:            d.Address,
		OutstandingBalance: d.OutstandingBalance,
		CreditBalance:      d.CreditBalance,
		CreditLimit:        d.CreditLimit,
		IsActive:           d.IsActive,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCounterparty needs the kind because the row does not carry it.
func ToDomainCounterparty(m models.Counterparty, kind domain.CounterpartyKind) domain.Counterparty {
	return domain.Counterparty{
		CounterpartyID:     m.CounterpartyID,
		WorkplaceID:        m.WorkplaceID,
		Kind:               kind,
		Name:               m.Name,
		Email:              m.Email,
		Phone:              m.Phone,
		Address:            m.Address,
		OutstandingBalance: m.OutstandingBalance,
		CreditBalance:      m.CreditBalance,
		CreditLimit:        m.CreditLimit,
		IsActive:           m.IsActive,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

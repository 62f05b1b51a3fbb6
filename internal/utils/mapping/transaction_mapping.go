package mapping

import (
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/SscSPs/backoffice_ledger/internal/models"
)

// ToModelTransaction flattens the polymorphic references into kind/id pairs.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	m := models.Transaction{
		TransactionID:     d.TransactionID,
		WorkplaceID:       d.WorkplaceID,
		ReferenceNumber:   d.ReferenceNumber,
		TransactionDate:   d.TransactionDate,
		TransactionTime:   d.TransactionTime,
		TypeID:            d.TypeID,
		PaymentMethodID:   strPtr(d.PaymentMethodID),
		Amount:            d.Amount,
		Description:       d.Description,
		ReferenceDocument: d.ReferenceDocument,
		Status:            string(d.Status),
		VoidedAt:          d.VoidedAt,
		VoidedBy:          d.VoidedBy,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
	if d.Account != nil && !d.Account.IsZero() {
		m.AccountKind, m.AccountID = strPtr(string(d.Account.Kind)), strPtr(d.Account.ID)
	}
	if d.TransferTo != nil && !d.TransferTo.IsZero() {
		m.TransferToKind, m.TransferToID = strPtr(string(d.TransferTo.Kind)), strPtr(d.TransferTo.ID)
	}
	if d.Counterparty != nil && !d.Counterparty.IsZero() {
		m.CounterpartyKind, m.CounterpartyID = strPtr(string(d.Counterparty.Kind)), strPtr(d.Counterparty.ID)
	}
	return m
}

func ToDomainTransaction(m models.Transaction) domain.Transaction {
	d := domain.Transaction{
		TransactionID:     m.TransactionID,
		WorkplaceID:       m.WorkplaceID,
		ReferenceNumber:   m.ReferenceNumber,
		TransactionDate:   m.TransactionDate,
		TransactionTime:   m.TransactionTime,
		TypeID:            m.TypeID,
		PaymentMethodID:   derefStr(m.PaymentMethodID),
		Amount:            m.Amount,
		Description:       m.Description,
		ReferenceDocument: m.ReferenceDocument,
		Status:            domain.TransactionStatus(m.Status),
		VoidedAt:          m.VoidedAt,
		VoidedBy:          m.VoidedBy,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
	if m.AccountID != nil {
		d.Account = &domain.AccountRef{Kind: domain.AccountKind(derefStr(m.AccountKind)), ID: *m.AccountID}
	}
	if m.TransferToID != nil {
		d.TransferTo = &domain.AccountRef{Kind: domain.AccountKind(derefStr(m.TransferToKind)), ID: *m.TransferToID}
	}
	if m.CounterpartyID != nil {
		d.Counterparty = &domain.CounterpartyRef{Kind: domain.CounterpartyKind(derefStr(m.CounterpartyKind)), ID: *m.CounterpartyID}
	}
	return d
}

func ToModelAllocation(d domain.Allocation) models.Allocation {
	return models.Allocation{
		AllocationID:   d.AllocationID,
		WorkplaceID:    d.WorkplaceID,
		TransactionID:  d.TransactionID,
		TargetKind:     string(d.Target.Kind),
		TargetID:       d.Target.ID,
		Amount:         d.Amount,
		CreditedAmount: d.CreditedAmount,
		Notes:          d.Notes,
		VoidedAt:       d.VoidedAt,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainAllocation(m models.Allocation) domain.Allocation {
	return domain.Allocation{
		AllocationID:   m.AllocationID,
		WorkplaceID:    m.WorkplaceID,
		TransactionID:  m.TransactionID,
		Target:         domain.AllocationTarget{Kind: domain.InvoiceKind(m.TargetKind), ID: m.TargetID},
		Amount:         m.Amount,
		CreditedAmount: m.CreditedAmount,
		Notes:          m.Notes,
		VoidedAt:       m.VoidedAt,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAllocationSlice converts a slice of allocation rows.
func ToDomainAllocationSlice(ms []models.Allocation) []domain.Allocation {
	ds := make([]domain.Allocation, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAllocation(m)
	}
	return ds
}

func ToDomainTransactionType(m models.TransactionType) domain.TransactionType {
	return domain.TransactionType{
		TypeID:        m.TypeID,
		Code:          m.Code,
		Name:          m.Name,
		FlowDirection: domain.FlowDirection(m.FlowDirection),
		Description:   m.Description,
	}
}

func ToDomainPaymentMethod(m models.PaymentMethod) domain.PaymentMethod {
	return domain.PaymentMethod{
		MethodID:    m.MethodID,
		Code:        m.Code,
		Name:        m.Name,
		Category:    domain.PaymentCategory(m.Category),
		Description: m.Description,
	}
}

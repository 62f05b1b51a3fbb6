package mapping

import (
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/SscSPs/backoffice_ledger/internal/models"
)

func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:      d.InvoiceID,
		WorkplaceID:    d.WorkplaceID,
		InvoiceNumber:  d.InvoiceNumber,
		CounterpartyID: d.CounterpartyID,
		IssueDate:      d.IssueDate,
		DueDate:        d.DueDate,
		TotalAmount:    d.TotalAmount,
		PaidAmount:     d.PaidAmount,
		Balance:        d.Balance,
		Status:         string(d.Status),
		Notes:          d.Notes,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainInvoice(m models.Invoice, kind domain.InvoiceKind) domain.Invoice {
	return domain.Invoice{
		InvoiceID:      m.InvoiceID,
		WorkplaceID:    m.WorkplaceID,
		Kind:           kind,
		InvoiceNumber:  m.InvoiceNumber,
		CounterpartyID: m.CounterpartyID,
		IssueDate:      m.IssueDate,
		DueDate:        m.DueDate,
		TotalAmount:    m.TotalAmount,
		PaidAmount:     m.PaidAmount,
		Balance:        m.Balance,
		Status:         domain.InvoiceStatus(m.Status),
		Notes:          m.Notes,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

package dto

import (
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest defines a sales or purchase invoice. A positive
// PaidAmount records an initial payment using PaymentMethodID.
type CreateInvoiceRequest struct {
	InvoiceNumber   string          `json:"invoiceNumber" binding:"required,max=64"`
	CounterpartyID  string          `json:"counterpartyID" binding:"required"`
	IssueDate       string          `json:"issueDate" binding:"required,datetime=2006-01-02"`
	DueDate         string          `json:"dueDate" binding:"required,datetime=2006-01-02"`
	TotalAmount     decimal.Decimal `json:"totalAmount" binding:"decimal_gte0" swaggertype:"string"`
	PaidAmount      decimal.Decimal `json:"paidAmount" binding:"decimal_gte0" swaggertype:"string"`
	PaymentMethodID *string         `json:"paymentMethodID"`
	Notes           string          `json:"notes"`
}

// UpdateInvoiceRequest uses pointers to distinguish omitted fields. Setting
// Status to "paid" without a PaidAmount marks the invoice fully paid.
type UpdateInvoiceRequest struct {
	InvoiceNumber  *string          `json:"invoiceNumber" binding:"omitempty,max=64"`
	CounterpartyID *string          `json:"counterpartyID"`
	IssueDate      *string          `json:"issueDate" binding:"omitempty,datetime=2006-01-02"`
	DueDate        *string          `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
	TotalAmount    *decimal.Decimal `json:"totalAmount" binding:"omitempty,decimal_gte0" swaggertype:"string"`
	PaidAmount     *decimal.Decimal `json:"paidAmount" binding:"omitempty,decimal_gte0" swaggertype:"string"`
	Status         *string          `json:"status" binding:"omitempty,oneof=paid"`
	Notes          *string          `json:"notes"`
}

// ListInvoicesParams defines query parameters for listing invoices.
type ListInvoicesParams struct {
	Limit          int     `form:"limit,default=20" binding:"gte=0,lte=200"`
	NextToken      *string `form:"nextToken"`
	Status         *string `form:"status" binding:"omitempty,oneof=unpaid partially_paid paid overdue cancelled"`
	CounterpartyID *string `form:"counterpartyID"`
}

type InvoiceResponse struct {
	InvoiceID      string               `json:"invoiceID"`
	Kind           domain.InvoiceKind   `json:"kind"`
	InvoiceNumber  string               `json:"invoiceNumber"`
	CounterpartyID string               `json:"counterpartyID"`
	IssueDate      string               `json:"issueDate"`
	DueDate        string               `json:"dueDate"`
	TotalAmount    decimal.Decimal      `json:"totalAmount" swaggertype:"string"`
	PaidAmount     decimal.Decimal      `json:"paidAmount" swaggertype:"string"`
	Balance        decimal.Decimal      `json:"balance" swaggertype:"string"`
	Status         domain.InvoiceStatus `json:"status"`
	Notes          string               `json:"notes"`
	CreatedAt      time.Time            `json:"createdAt"`
	CreatedBy      string               `json:"createdBy"`
	LastUpdatedAt  time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy  string               `json:"lastUpdatedBy"`
}

func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:      inv.InvoiceID,
		Kind:           inv.Kind,
		InvoiceNumber:  inv.InvoiceNumber,
		CounterpartyID: inv.CounterpartyID,
		IssueDate:      inv.IssueDate.Format(DateLayout),
		DueDate:        inv.DueDate.Format(DateLayout),
		TotalAmount:    inv.TotalAmount,
		PaidAmount:     inv.PaidAmount,
		Balance:        inv.Balance,
		Status:         inv.Status,
		Notes:          inv.Notes,
		CreatedAt:      inv.CreatedAt,
		CreatedBy:      inv.CreatedBy,
		LastUpdatedAt:  inv.LastUpdatedAt,
		LastUpdatedBy:  inv.LastUpdatedBy,
	}
}

type ListInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	NextToken *string           `json:"nextToken,omitempty"`
}

func ToListInvoicesResponse(invoices []domain.Invoice, nextToken *string) ListInvoicesResponse {
	res := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		res[i] = ToInvoiceResponse(&invoices[i])
	}
	return ListInvoicesResponse{Invoices: res, NextToken: nextToken}
}

// InvoiceWithPaymentResponse is returned when an invoice is created.
type InvoiceWithPaymentResponse struct {
	Invoice     InvoiceResponse      `json:"invoice"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
	Allocation  *AllocationResponse  `json:"allocation,omitempty"`
}

func ToInvoiceWithPaymentResponse(r *domain.InvoiceWithPayment) InvoiceWithPaymentResponse {
	res := InvoiceWithPaymentResponse{Invoice: ToInvoiceResponse(&r.Invoice)}
	if r.Transaction != nil {
		t := ToTransactionResponse(r.Transaction, nil)
		res.Transaction = &t
	}
	if r.Allocation != nil {
		a := ToAllocationResponse(r.Allocation)
		res.Allocation = &a
	}
	return res
}

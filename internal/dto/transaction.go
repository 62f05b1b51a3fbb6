package dto

import (
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountRefRequest identifies a bank account or cash drawer.
type AccountRefRequest struct {
	Kind domain.AccountKind `json:"kind" binding:"required,oneof=bank_account cash_drawer"`
	ID   string             `json:"id" binding:"required"`
}

// CounterpartyRefRequest identifies a customer or supplier.
type CounterpartyRefRequest struct {
	Kind domain.CounterpartyKind `json:"kind" binding:"required,oneof=customer supplier"`
	ID   string                  `json:"id" binding:"required"`
}

// AllocationRequest settles part of a payment against one invoice.
type AllocationRequest struct {
	TargetKind string          `json:"targetKind" binding:"required,oneof=sales_invoice purchase_invoice"`
	TargetID   string          `json:"targetID" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"decimal_gt0" swaggertype:"string"`
	Notes      string          `json:"notes"`
}

// CreateTransactionRequest records a payment, receipt or transfer.
type CreateTransactionRequest struct {
	ReferenceNumber   string                  `json:"referenceNumber" binding:"max=64"`
	TransactionDate   string                  `json:"transactionDate" binding:"required,datetime=2006-01-02"`
	TransactionTime   string                  `json:"transactionTime" binding:"omitempty,datetime=15:04"`
	TypeID            string                  `json:"typeID" binding:"required"`
	PaymentMethodID   string                  `json:"paymentMethodID"`
	Amount            decimal.Decimal         `json:"amount" binding:"decimal_gt0" swaggertype:"string"`
	Account           *AccountRefRequest      `json:"account"`
	TransferTo        *AccountRefRequest      `json:"transferTo"`
	Counterparty      *CounterpartyRefRequest `json:"counterparty"`
	Description       string                  `json:"description"`
	ReferenceDocument string                  `json:"referenceDocument"`
	Allocations       []AllocationRequest     `json:"allocations" binding:"omitempty,dive"`
}

// UpdateTransactionRequest changes a completed transaction. Omitted fields
// keep their value. Allocations are replaced only when the field is present.
type UpdateTransactionRequest struct {
	ReferenceNumber   *string                 `json:"referenceNumber" binding:"omitempty,max=64"`
	TransactionDate   *string                 `json:"transactionDate" binding:"omitempty,datetime=2006-01-02"`
	TransactionTime   *string                 `json:"transactionTime" binding:"omitempty,datetime=15:04"`
	TypeID            *string                 `json:"typeID"`
	PaymentMethodID   *string                 `json:"paymentMethodID"`
	Amount            *decimal.Decimal        `json:"amount" binding:"omitempty,decimal_gt0" swaggertype:"string"`
	Account           *AccountRefRequest      `json:"account"`
	TransferTo        *AccountRefRequest      `json:"transferTo"`
	Counterparty      *CounterpartyRefRequest `json:"counterparty"`
	Description       *string                 `json:"description"`
	ReferenceDocument *string                 `json:"referenceDocument"`
	Allocations       *[]AllocationRequest    `json:"allocations" binding:"omitempty,dive"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit       int     `form:"limit,default=20" binding:"gte=0,lte=200"`
	NextToken   *string `form:"nextToken"`
	IncludeVoid bool    `form:"includeVoid"`
}

type AllocationResponse struct {
	AllocationID   string             `json:"allocationID"`
	TransactionID  string             `json:"transactionID"`
	TargetKind     domain.InvoiceKind `json:"targetKind"`
	TargetID       string             `json:"targetID"`
	Amount         decimal.Decimal    `json:"amount" swaggertype:"string"`
	CreditedAmount decimal.Decimal    `json:"creditedAmount" swaggertype:"string"`
	Notes          string             `json:"notes"`
	CreatedAt      time.Time          `json:"createdAt"`
}

func ToAllocationResponse(a *domain.Allocation) AllocationResponse {
	return AllocationResponse{
		AllocationID:   a.AllocationID,
		TransactionID:  a.TransactionID,
		TargetKind:     a.Target.Kind,
		TargetID:       a.Target.ID,
		Amount:         a.Amount,
		CreditedAmount: a.CreditedAmount,
		Notes:          a.Notes,
		CreatedAt:      a.CreatedAt,
	}
}

func ToAllocationResponses(allocs []domain.Allocation) []AllocationResponse {
	res := make([]AllocationResponse, len(allocs))
	for i := range allocs {
		res[i] = ToAllocationResponse(&allocs[i])
	}
	return res
}

type TransactionResponse struct {
	TransactionID     string                   `json:"transactionID"`
	ReferenceNumber   string                   `json:"referenceNumber"`
	TransactionDate   string                   `json:"transactionDate"`
	TransactionTime   string                   `json:"transactionTime"`
	TypeID            string                   `json:"typeID"`
	PaymentMethodID   string                   `json:"paymentMethodID,omitempty"`
	Amount            decimal.Decimal          `json:"amount" swaggertype:"string"`
	Account           *domain.AccountRef       `json:"account,omitempty"`
	TransferTo        *domain.AccountRef       `json:"transferTo,omitempty"`
	Counterparty      *domain.CounterpartyRef  `json:"counterparty,omitempty"`
	Description       string                   `json:"description"`
	ReferenceDocument string                   `json:"referenceDocument"`
	Status            domain.TransactionStatus `json:"status"`
	VoidedAt          *time.Time               `json:"voidedAt,omitempty"`
	Allocations       []AllocationResponse     `json:"allocations,omitempty"`
	CreatedAt         time.Time                `json:"createdAt"`
	CreatedBy         string                   `json:"createdBy"`
	LastUpdatedAt     time.Time                `json:"lastUpdatedAt"`
	LastUpdatedBy     string                   `json:"lastUpdatedBy"`
}

func ToTransactionResponse(t *domain.Transaction, allocs []domain.Allocation) TransactionResponse {
	res := TransactionResponse{
		TransactionID:     t.TransactionID,
		ReferenceNumber:   t.ReferenceNumber,
		TransactionDate:   t.TransactionDate.Format(DateLayout),
		TransactionTime:   t.TransactionTime,
		TypeID:            t.TypeID,
		PaymentMethodID:   t.PaymentMethodID,
		Amount:            t.Amount,
		Account:           t.Account,
		TransferTo:        t.TransferTo,
		Counterparty:      t.Counterparty,
		Description:       t.Description,
		ReferenceDocument: t.ReferenceDocument,
		Status:            t.Status,
		VoidedAt:          t.VoidedAt,
		CreatedAt:         t.CreatedAt,
		CreatedBy:         t.CreatedBy,
		LastUpdatedAt:     t.LastUpdatedAt,
		LastUpdatedBy:     t.LastUpdatedBy,
	}
	if len(allocs) > 0 {
		res.Allocations = ToAllocationResponses(allocs)
	}
	return res
}

// RecordedPaymentResponse is returned when a payment is recorded or edited.
type RecordedPaymentResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Invoices    []InvoiceResponse   `json:"invoices"`
}

func ToRecordedPaymentResponse(p *domain.RecordedPayment) RecordedPaymentResponse {
	invoices := make([]InvoiceResponse, len(p.Invoices))
	for i := range p.Invoices {
		invoices[i] = ToInvoiceResponse(&p.Invoices[i])
	}
	return RecordedPaymentResponse{
		Transaction: ToTransactionResponse(&p.Transaction, p.Allocations),
		Invoices:    invoices,
	}
}

type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

type ListAllocationsResponse struct {
	Allocations []AllocationResponse `json:"allocations"`
}

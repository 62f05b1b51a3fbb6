package services

import (
	"context"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
)

// InvoiceReaderSvc reads invoices with their status evaluated against today.
type InvoiceReaderSvc interface {
	GetInvoice(ctx context.Context, workplaceID string, kind domain.InvoiceKind, invoiceID string, userID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, workplaceID string, kind domain.InvoiceKind, params dto.ListInvoicesParams, userID string) ([]domain.Invoice, *string, error)
	ListInvoiceAllocations(ctx context.Context, workplaceID string, target domain.AllocationTarget, userID string) ([]domain.Allocation, error)
}

// TransactionReaderSvc reads ledger transactions and their allocations.
type TransactionReaderSvc interface {
	GetTransaction(ctx context.Context, workplaceID string, transactionID string, userID string) (*domain.Transaction, []domain.Allocation, error)
	ListTransactions(ctx context.Context, workplaceID string, params dto.ListTransactionsParams, userID string) ([]domain.Transaction, *string, error)
	ListTransactionAllocations(ctx context.Context, workplaceID string, transactionID string, userID string) ([]domain.Allocation, error)
}

// InvoiceReconcilerSvc mutates invoices and keeps counterparty balances in step.
type InvoiceReconcilerSvc interface {
	// CreateInvoiceWithPayment creates an invoice and, when PaidAmount is
	// positive, posts the initial payment and its allocation in the same unit.
	CreateInvoiceWithPayment(ctx context.Context, workplaceID string, kind domain.InvoiceKind, req dto.CreateInvoiceRequest, userID string) (*domain.InvoiceWithPayment, error)

	UpdateInvoice(ctx context.Context, workplaceID string, kind domain.InvoiceKind, invoiceID string, req dto.UpdateInvoiceRequest, userID string) (*domain.Invoice, error)

	// DeleteInvoice removes an invoice that no live allocation references.
	DeleteInvoice(ctx context.Context, workplaceID string, kind domain.InvoiceKind, invoiceID string, userID string) error

	CancelInvoice(ctx context.Context, workplaceID string, kind domain.InvoiceKind, invoiceID string, userID string) (*domain.Invoice, error)
}

// PaymentReconcilerSvc posts transactions and settles invoices with them.
type PaymentReconcilerSvc interface {
	RecordPayment(ctx context.Context, workplaceID string, req dto.CreateTransactionRequest, userID string) (*domain.RecordedPayment, error)
	UpdateTransaction(ctx context.Context, workplaceID string, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.RecordedPayment, error)

	// DeleteTransaction reverses the posting, unapplies allocations and voids the transaction.
	DeleteTransaction(ctx context.Context, workplaceID string, transactionID string, userID string) error
}

// ReconciliationSvcFacade combines every operation that changes balances.
type ReconciliationSvcFacade interface {
	InvoiceReconcilerSvc
	PaymentReconcilerSvc
}

// ReferenceDataSvc exposes the seeded transaction types and payment methods.
type ReferenceDataSvc interface {
	ListTransactionTypes(ctx context.Context) ([]domain.TransactionType, error)
	ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error)
}

package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// InvoiceFilter narrows an invoice listing.
type InvoiceFilter struct {
	CounterpartyID *string
	Status         *domain.InvoiceStatus
	AsOf           time.Time // date the overdue overlay is evaluated at
	Limit          int
	NextToken      *string
}

// InvoiceReader defines read operations for invoices
type InvoiceReader interface {
	FindInvoiceByID(ctx context.Context, workplaceID string, kind domain.InvoiceKind, invoiceID string) (*domain.Invoice, error)

	// ListInvoices returns a page ordered by issue date descending and the token for the next page.
	ListInvoices(ctx context.Context, workplaceID string, kind domain.InvoiceKind, filter InvoiceFilter) ([]domain.Invoice, *string, error)
}

// InvoiceTransactionSupport defines invoice writes, all of which run inside a unit of work
type InvoiceTransactionSupport interface {
	SaveInvoiceInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error
	FindInvoiceForUpdate(ctx context.Context, tx pgx.Tx, workplaceID string, kind domain.InvoiceKind, invoiceID string) (*domain.Invoice, error)
	UpdateInvoiceInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error
	DeleteInvoiceInTx(ctx context.Context, tx pgx.Tx, workplaceID string, kind domain.InvoiceKind, invoiceID string) error
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceTransactionSupport
}

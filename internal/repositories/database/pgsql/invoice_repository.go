package pgsql

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/backoffice_ledger/internal/models"
	"github.com/SscSPs/backoffice_ledger/internal/utils/mapping"
	"github.com/SscSPs/backoffice_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// invoiceTable maps an invoice kind to its table and counterparty column.
type invoiceTable struct {
	name               string
	counterpartyColumn string
}

var invoiceTables = map[domain.InvoiceKind]invoiceTable{
	domain.SalesInvoice:    {name: "sales_invoices", counterpartyColumn: "customer_id"},
	domain.PurchaseInvoice: {name: "purchase_invoices", counterpartyColumn: "supplier_id"},
}

func invoiceTableFor(kind domain.InvoiceKind) (invoiceTable, error) {
	t, ok := invoiceTables[kind]
	if !ok {
		return invoiceTable{}, fmt.Errorf("%w: unknown invoice kind %q", apperrors.ErrValidation, kind)
	}
	return t, nil
}

type PgxInvoiceRepository struct {
	BaseRepository
}

func newPgxInvoiceRepository(pool *pgxpool.Pool) *PgxInvoiceRepository {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

func selectInvoices(ctx context.Context, q querier, kind domain.InvoiceKind, filter string, args ...any) ([]domain.Invoice, error) {
	t, err := invoiceTableFor(kind)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT invoice_id, workplace_id, invoice_number, ` + t.counterpartyColumn + ` AS counterparty_id,
			issue_date, due_date, total_amount, paid_amount, balance, status, notes,
			created_at, created_by, last_updated_at, last_updated_by
		FROM ` + t.name + ` ` + filter
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "query "+t.name)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Invoice])
	if err != nil {
		return nil, mapPgError(err, "collect "+t.name+" rows")
	}
	out := make([]domain.Invoice, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainInvoice(m, kind)
	}
	return out, nil
}

func (r *PgxInvoiceRepository) findOne(ctx context.Context, q querier, workplaceID string, kind domain.InvoiceKind, invoiceID string, suffix string) (*domain.Invoice, error) {
	invoices, err := selectInvoices(ctx, q, kind, "WHERE workplace_id = $1 AND invoice_id = $2 "+suffix, workplaceID, invoiceID)
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, kind, invoiceID)
	}
	return &invoices[0], nil
}

func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, workplaceID string, kind domain.InvoiceKind, invoiceID string) (*domain.Invoice, error) {
	return r.findOne(ctx, r.Pool, workplaceID, kind, invoiceID, "")
}

// ListInvoices retrieves a page of invoices ordered by issue date, newest first,
// using the same keyset token scheme as transactions.
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, workplaceID string, kind domain.InvoiceKind, filter portsrepo.InvoiceFilter) ([]domain.Invoice, *string, error) {
	t, err := invoiceTableFor(kind)
	if err != nil {
		return nil, nil, err
	}
	limit := pageSize(filter.Limit)

	where := "WHERE workplace_id = $1"
	args := []any{workplaceID}
	if filter.CounterpartyID != nil && *filter.CounterpartyID != "" {
		args = append(args, *filter.CounterpartyID)
		where += " AND " + t.counterpartyColumn + " = $" + strconv.Itoa(len(args))
	}
	if filter.Status != nil && *filter.Status != "" {
		// Stored unpaid rows past their due date read as overdue.
		switch *filter.Status {
		case domain.StatusOverdue:
			args = append(args, filter.AsOf)
			where += " AND (status = 'overdue' OR (status = 'unpaid' AND due_date < $" + strconv.Itoa(len(args)) + "::date))"
		case domain.StatusUnpaid:
			args = append(args, filter.AsOf)
			where += " AND status = 'unpaid' AND due_date >= $" + strconv.Itoa(len(args)) + "::date"
		default:
			args = append(args, string(*filter.Status))
			where += " AND status = $" + strconv.Itoa(len(args))
		}
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		lastDate, lastID, decodeErr := pagination.DecodeToken(*filter.NextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(http.StatusBadRequest, "invalid nextToken", fmt.Errorf("%w: %v", apperrors.ErrValidation, decodeErr))
		}
		args = append(args, lastDate, lastID)
		where += " AND (issue_date, invoice_id) < ($" + strconv.Itoa(len(args)-1) + ", $" + strconv.Itoa(len(args)) + ")"
	}
	args = append(args, limit+1)
	query := where + " ORDER BY issue_date DESC, invoice_id DESC LIMIT $" + strconv.Itoa(len(args))

	invoices, err := selectInvoices(ctx, r.Pool, kind, query, args...)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(invoices) > limit {
		last := invoices[limit-1]
		token := pagination.EncodeToken(last.IssueDate, last.InvoiceID)
		next = &token
		invoices = invoices[:limit]
	}
	return invoices, next, nil
}

func (r *PgxInvoiceRepository) SaveInvoiceInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error {
	t, err := invoiceTableFor(invoice.Kind)
	if err != nil {
		return err
	}
	m := mapping.ToModelInvoice(invoice)
	query := `
		INSERT INTO ` + t.name + ` (invoice_id, workplace_id, invoice_number, ` + t.counterpartyColumn + `,
			issue_date, due_date, total_amount, paid_amount, balance, status, notes,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`
	_, err = tx.Exec(ctx, query,
		m.InvoiceID, m.WorkplaceID, m.InvoiceNumber, m.CounterpartyID,
		m.IssueDate, m.DueDate, m.TotalAmount, m.PaidAmount, m.Balance, m.Status, m.Notes,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return mapPgError(err, "save "+string(invoice.Kind)+" "+invoice.InvoiceNumber)
}

// FindInvoiceForUpdate reads and locks the invoice row. Must be called within a transaction.
func (r *PgxInvoiceRepository) FindInvoiceForUpdate(ctx context.Context, tx pgx.Tx, workplaceID string, kind domain.InvoiceKind, invoiceID string) (*domain.Invoice, error) {
	return r.findOne(ctx, tx, workplaceID, kind, invoiceID, "FOR UPDATE")
}

func (r *PgxInvoiceRepository) UpdateInvoiceInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error {
	t, err := invoiceTableFor(invoice.Kind)
	if err != nil {
		return err
	}
	m := mapping.ToModelInvoice(invoice)
	query := `
		UPDATE ` + t.name + `
		SET invoice_number = $3, ` + t.counterpartyColumn + ` = $4, issue_date = $5, due_date = $6,
			total_amount = $7, paid_amount = $8, balance = $9, status = $10, notes = $11,
			last_updated_at = $12, last_updated_by = $13
		WHERE workplace_id = $1 AND invoice_id = $2;`
	ct, err := tx.Exec(ctx, query,
		m.WorkplaceID, m.InvoiceID, m.InvoiceNumber, m.CounterpartyID, m.IssueDate, m.DueDate,
		m.TotalAmount, m.PaidAmount, m.Balance, m.Status, m.Notes,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "update "+string(invoice.Kind)+" "+invoice.InvoiceID)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, invoice.Kind, invoice.InvoiceID)
	}
	return nil
}

func (r *PgxInvoiceRepository) DeleteInvoiceInTx(ctx context.Context, tx pgx.Tx, workplaceID string, kind domain.InvoiceKind, invoiceID string) error {
	t, err := invoiceTableFor(kind)
	if err != nil {
		return err
	}
	ct, err := tx.Exec(ctx, "DELETE FROM "+t.name+" WHERE workplace_id = $1 AND invoice_id = $2;", workplaceID, invoiceID)
	if err != nil {
		return mapPgError(err, "delete "+string(kind)+" "+invoiceID)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, kind, invoiceID)
	}
	return nil
}

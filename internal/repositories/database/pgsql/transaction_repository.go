package pgsql

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/backoffice_ledger/internal/models"
	"github.com/SscSPs/backoffice_ledger/internal/utils/mapping"
	"github.com/SscSPs/backoffice_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionSelect = `
	SELECT transaction_id, workplace_id, reference_number, transaction_date, transaction_time, type_id,
		payment_method_id, amount, account_kind, account_id, transfer_to_kind, transfer_to_id,
		counterparty_kind, counterparty_id, description, reference_document, status, voided_at, voided_by,
		created_at, created_by, last_updated_at, last_updated_by
	FROM transactions `

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func selectTransactions(ctx context.Context, q querier, filter string, args ...any) ([]domain.Transaction, error) {
	rows, err := q.Query(ctx, transactionSelect+filter, args...)
	if err != nil {
		return nil, mapPgError(err, "query transactions")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, mapPgError(err, "collect transaction rows")
	}
	out := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainTransaction(m)
	}
	return out, nil
}

func (r *PgxTransactionRepository) findOne(ctx context.Context, q querier, workplaceID, transactionID, suffix string) (*domain.Transaction, error) {
	txns, err := selectTransactions(ctx, q, "WHERE workplace_id = $1 AND transaction_id = $2 "+suffix, workplaceID, transactionID)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return &txns[0], nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, workplaceID string, transactionID string) (*domain.Transaction, error) {
	return r.findOne(ctx, r.Pool, workplaceID, transactionID, "")
}

// ListTransactions retrieves a page of transactions, newest first. Voided
// transactions are skipped unless requested.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, workplaceID string, filter portsrepo.TransactionFilter) ([]domain.Transaction, *string, error) {
	limit := pageSize(filter.Limit)
	where := "WHERE workplace_id = $1"
	args := []any{workplaceID}
	if !filter.IncludeVoid {
		where += " AND status = 'completed'"
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		lastDate, lastID, decodeErr := pagination.DecodeToken(*filter.NextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(http.StatusBadRequest, "invalid nextToken", fmt.Errorf("%w: %v", apperrors.ErrValidation, decodeErr))
		}
		args = append(args, lastDate, lastID)
		where += " AND (transaction_date, transaction_id) < ($2, $3)"
	}
	args = append(args, limit+1)
	txns, err := selectTransactions(ctx, r.Pool,
		where+" ORDER BY transaction_date DESC, transaction_id DESC LIMIT $"+strconv.Itoa(len(args)), args...)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(txns) > limit {
		last := txns[limit-1]
		token := pagination.EncodeToken(last.TransactionDate, last.TransactionID)
		next = &token
		txns = txns[:limit]
	}
	return txns, next, nil
}

func (r *PgxTransactionRepository) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	_, err := tx.Exec(ctx, `
		INSERT INTO transactions (transaction_id, workplace_id, reference_number, transaction_date, transaction_time, type_id,
			payment_method_id, amount, account_kind, account_id, transfer_to_kind, transfer_to_id,
			counterparty_kind, counterparty_id, description, reference_document, status,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);`,
		m.TransactionID, m.WorkplaceID, m.ReferenceNumber, m.TransactionDate, m.TransactionTime, m.TypeID,
		m.PaymentMethodID, m.Amount, m.AccountKind, m.AccountID, m.TransferToKind, m.TransferToID,
		m.CounterpartyKind, m.CounterpartyID, m.Description, m.ReferenceDocument, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return mapPgError(err, "save transaction "+txn.TransactionID)
}

// FindTransactionForUpdate reads and locks the transaction row. Must be called within a transaction.
func (r *PgxTransactionRepository) FindTransactionForUpdate(ctx context.Context, tx pgx.Tx, workplaceID string, transactionID string) (*domain.Transaction, error) {
	return r.findOne(ctx, tx, workplaceID, transactionID, "FOR UPDATE")
}

func (r *PgxTransactionRepository) UpdateTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	ct, err := tx.Exec(ctx, `
		UPDATE transactions
		SET reference_number = $3, transaction_date = $4, transaction_time = $5, type_id = $6, payment_method_id = $7,
			amount = $8, account_kind = $9, account_id = $10, transfer_to_kind = $11, transfer_to_id = $12,
			counterparty_kind = $13, counterparty_id = $14, description = $15, reference_document = $16,
			last_updated_at = $17, last_updated_by = $18
		WHERE workplace_id = $1 AND transaction_id = $2 AND status = 'completed';`,
		m.WorkplaceID, m.TransactionID, m.ReferenceNumber, m.TransactionDate, m.TransactionTime, m.TypeID, m.PaymentMethodID,
		m.Amount, m.AccountKind, m.AccountID, m.TransferToKind, m.TransferToID,
		m.CounterpartyKind, m.CounterpartyID, m.Description, m.ReferenceDocument,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "update transaction "+txn.TransactionID)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: completed transaction %s", apperrors.ErrNotFound, txn.TransactionID)
	}
	return nil
}

func (r *PgxTransactionRepository) VoidTransactionInTx(ctx context.Context, tx pgx.Tx, workplaceID string, transactionID string, userID string, now time.Time) error {
	ct, err := tx.Exec(ctx, `
		UPDATE transactions
		SET status = 'void', voided_at = $3, voided_by = $4, last_updated_at = $3, last_updated_by = $4
		WHERE workplace_id = $1 AND transaction_id = $2 AND status = 'completed';`,
		workplaceID, transactionID, now, userID,
	)
	if err != nil {
		return mapPgError(err, "void transaction "+transactionID)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s is already void", apperrors.ErrInvalidState, transactionID)
	}
	return nil
}

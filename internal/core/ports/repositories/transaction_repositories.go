package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// TransactionFilter narrows a transaction listing.
type TransactionFilter struct {
	IncludeVoid bool
	Limit       int
	NextToken   *string
}

// TransactionReader defines read operations for ledger transactions
type TransactionReader interface {
	FindTransactionByID(ctx context.Context, workplaceID string, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, workplaceID string, filter TransactionFilter) ([]domain.Transaction, *string, error)
}

// TransactionTransactionSupport defines ledger writes inside a unit of work
type TransactionTransactionSupport interface {
	SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error
	FindTransactionForUpdate(ctx context.Context, tx pgx.Tx, workplaceID string, transactionID string) (*domain.Transaction, error)
	UpdateTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error
	// VoidTransactionInTx marks a completed transaction void. It never deletes the row.
	VoidTransactionInTx(ctx context.Context, tx pgx.Tx, workplaceID string, transactionID string, userID string, now time.Time) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionTransactionSupport
}

// AllocationReader defines read operations for allocations
type AllocationReader interface {
	ListAllocationsByTransaction(ctx context.Context, workplaceID string, transactionID string) ([]domain.Allocation, error)
	ListAllocationsByTarget(ctx context.Context, workplaceID string, target domain.AllocationTarget) ([]domain.Allocation, error)
}

// AllocationTransactionSupport defines allocation writes inside a unit of work
type AllocationTransactionSupport interface {
	// SaveAllocationsInTx inserts allocations. It has no effect on invoices.
	SaveAllocationsInTx(ctx context.Context, tx pgx.Tx, allocations []domain.Allocation) error
	ListAllocationsByTransactionInTx(ctx context.Context, tx pgx.Tx, workplaceID string, transactionID string) ([]domain.Allocation, error)
	CountActiveAllocationsForTargetInTx(ctx context.Context, tx pgx.Tx, workplaceID string, target domain.AllocationTarget) (int, error)
	VoidAllocationsByTransactionInTx(ctx context.Context, tx pgx.Tx, workplaceID string, transactionID string, userID string, now time.Time) error
}

// AllocationRepositoryFacade combines all allocation-related repository interfaces
type AllocationRepositoryFacade interface {
	AllocationReader
	AllocationTransactionSupport
}

package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// CounterpartyReader defines read operations for customers and suppliers
type CounterpartyReader interface {
	FindCounterpartyByID(ctx context.Context, workplaceID string, ref domain.CounterpartyRef) (*domain.Counterparty, error)
	ListCounterparties(ctx context.Context, workplaceID string, kind domain.CounterpartyKind, limit int, offset int) ([]domain.Counterparty, error)
}

// CounterpartyWriter defines write operations for customers and suppliers
type CounterpartyWriter interface {
	SaveCounterparty(ctx context.Context, cp domain.Counterparty) error
	// UpdateCounterparty updates contact details and the credit limit, never balances.
	UpdateCounterparty(ctx context.Context, cp domain.Counterparty) error
}

// CounterpartyTransactionSupport defines balance operations used inside a unit of work
type CounterpartyTransactionSupport interface {
	// FindCounterpartyInTx reads a counterparty on the unit's connection without locking it.
	FindCounterpartyInTx(ctx context.Context, tx pgx.Tx, workplaceID string, ref domain.CounterpartyRef) (*domain.Counterparty, error)

	// FindCounterpartyForUpdate reads and locks a counterparty row.
	FindCounterpartyForUpdate(ctx context.Context, tx pgx.Tx, workplaceID string, ref domain.CounterpartyRef) (*domain.Counterparty, error)

	// ApplyOutstandingDeltaInTx adds delta to outstanding_balance, flooring the result at zero.
	ApplyOutstandingDeltaInTx(ctx context.Context, tx pgx.Tx, workplaceID string, ref domain.CounterpartyRef, delta decimal.Decimal, userID string, now time.Time) error

	// ApplyCreditDeltaInTx adds delta to credit_balance.
	ApplyCreditDeltaInTx(ctx context.Context, tx pgx.Tx, workplaceID string, ref domain.CounterpartyRef, delta decimal.Decimal, userID string, now time.Time) error
}

// CounterpartyRepositoryFacade combines all counterparty-related repository interfaces
type CounterpartyRepositoryFacade interface {
	CounterpartyReader
	CounterpartyWriter
	CounterpartyTransactionSupport
}

package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for bank accounts and cash drawers
type AccountReader interface {
	// FindAccountByID retrieves one account of the given kind within a workplace.
	FindAccountByID(ctx context.Context, workplaceID string, ref domain.AccountRef) (*domain.Account, error)

	// ListAccounts retrieves a page of accounts of one kind for a workplace.
	ListAccounts(ctx context.Context, workplaceID string, kind domain.AccountKind, limit int, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account including its opening balance.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates descriptive fields. It never touches the balance.
	UpdateAccount(ctx context.Context, account domain.Account) error
}

// AccountTransactionSupport defines the balance operations used inside a unit of work
type AccountTransactionSupport interface {
	// LockAccountsForUpdate locks the given accounts in ascending ref order and
	// fails with ErrNotFound if any of them does not exist in the workplace.
	LockAccountsForUpdate(ctx context.Context, tx pgx.Tx, workplaceID string, refs []domain.AccountRef) (map[domain.AccountRef]domain.Account, error)

	// ApplyBalanceDeltaInTx adds delta to the account balance in a single statement
	// and returns the new balance.
	ApplyBalanceDeltaInTx(ctx context.Context, tx pgx.Tx, workplaceID string, ref domain.AccountRef, delta decimal.Decimal, userID string, now time.Time) (decimal.Decimal, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}

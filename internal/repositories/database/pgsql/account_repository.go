package pgsql

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/backoffice_ledger/internal/models"
	"github.com/SscSPs/backoffice_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// accountTable describes how one account kind is stored.
type accountTable struct {
	name     string
	idColumn string
}

var accountTables = map[domain.AccountKind]accountTable{
	domain.BankAccount: {name: "bank_accounts", idColumn: "bank_account_id"},
	domain.CashDrawer:  {name: "cash_drawers", idColumn: "cash_drawer_id"},
}

const (
	bankAccountColumns = `bank_account_id, workplace_id, bank_name, account_number, account_name, account_type,
		current_balance, is_active, created_at, created_by, last_updated_at, last_updated_by`
	cashDrawerColumns = `cash_drawer_id, workplace_id, name, location, current_balance, last_counted_at,
		is_active, created_at, created_by, last_updated_at, last_updated_by`
)

func tableFor(kind domain.AccountKind) (accountTable, error) {
	t, ok := accountTables[kind]
	if !ok {
		return accountTable{}, fmt.Errorf("%w: unknown account kind %q", apperrors.ErrValidation, kind)
	}
	return t, nil
}

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for bank accounts and cash drawers.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// selectAccounts runs a query against the table of kind and maps the rows.
func selectAccounts(ctx context.Context, q querier, kind domain.AccountKind, filter string, args ...any) ([]domain.Account, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	switch kind {
	case domain.BankAccount:
		rows, err := q.Query(ctx, "SELECT "+bankAccountColumns+" FROM "+t.name+" "+filter, args...)
		if err != nil {
			return nil, mapPgError(err, "query bank accounts")
		}
		ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.BankAccount])
		if err != nil {
			return nil, mapPgError(err, "collect bank account rows")
		}
		out := make([]domain.Account, len(ms))
		for i, m := range ms {
			out[i] = mapping.ToDomainBankAccount(m)
		}
		return out, nil
	default:
		rows, err := q.Query(ctx, "SELECT "+cashDrawerColumns+" FROM "+t.name+" "+filter, args...)
		if err != nil {
			return nil, mapPgError(err, "query cash drawers")
		}
		ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.CashDrawer])
		if err != nil {
			return nil, mapPgError(err, "collect cash drawer rows")
		}
		out := make([]domain.Account, len(ms))
		for i, m := range ms {
			out[i] = mapping.ToDomainCashDrawer(m)
		}
		return out, nil
	}
}

// SaveAccount inserts a new bank account or cash drawer with its opening balance.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	var err error
	switch account.Kind {
	case domain.BankAccount:
		m := mapping.ToModelBankAccount(account)
		_, err = r.Pool.Exec(ctx, `
			INSERT INTO bank_accounts (bank_account_id, workplace_id, bank_name, account_number, account_name, account_type,
				current_balance, is_active, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`,
			m.BankAccountID, m.WorkplaceID, m.BankName, m.AccountNumber, m.AccountName, m.AccountType,
			m.CurrentBalance, m.IsActive, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
	case domain.CashDrawer:
		m := mapping.ToModelCashDrawer(account)
		_, err = r.Pool.Exec(ctx, `
			INSERT INTO cash_drawers (cash_drawer_id, workplace_id, name, location, current_balance, last_counted_at,
				is_active, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`,
			m.CashDrawerID, m.WorkplaceID, m.Name, m.Location, m.CurrentBalance, m.LastCountedAt,
			m.IsActive, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
	default:
		_, err = tableFor(account.Kind)
		return err
	}
	return mapPgError(err, "save "+string(account.Kind)+" "+account.AccountID)
}

// FindAccountByID retrieves an account by its reference within a workplace.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, workplaceID string, ref domain.AccountRef) (*domain.Account, error) {
	t, err := tableFor(ref.Kind)
	if err != nil {
		return nil, err
	}
	accounts, err := selectAccounts(ctx, r.Pool, ref.Kind, "WHERE workplace_id = $1 AND "+t.idColumn+" = $2", workplaceID, ref.ID)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNotFound, ref)
	}
	return &accounts[0], nil
}

// ListAccounts retrieves a paginated list of accounts of one kind for a workplace.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, workplaceID string, kind domain.AccountKind, limit int, offset int) ([]domain.Account, error) {
	if offset < 0 {
		offset = 0
	}
	order := "name"
	if kind == domain.BankAccount {
		order = "account_name"
	}
	return selectAccounts(ctx, r.Pool, kind,
		"WHERE workplace_id = $1 ORDER BY "+order+" LIMIT $2 OFFSET $3", workplaceID, pageSize(limit), offset)
}

// UpdateAccount updates descriptive fields. current_balance is deliberately absent.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	var (
		tagRows int64
		err     error
	)
	switch account.Kind {
	case domain.BankAccount:
		m := mapping.ToModelBankAccount(account)
		ct, execErr := r.Pool.Exec(ctx, `
			UPDATE bank_accounts
			SET bank_name = $3, account_number = $4, account_name = $5, account_type = $6, is_active = $7,
				last_updated_at = $8, last_updated_by = $9
			WHERE workplace_id = $1 AND bank_account_id = $2;`,
			m.WorkplaceID, m.BankAccountID, m.BankName, m.AccountNumber, m.AccountName, m.AccountType, m.IsActive,
			m.LastUpdatedAt, m.LastUpdatedBy,
		)
		tagRows, err = ct.RowsAffected(), execErr
	case domain.CashDrawer:
		m := mapping.ToModelCashDrawer(account)
		ct, execErr := r.Pool.Exec(ctx, `
			UPDATE cash_drawers
			SET name = $3, location = $4, last_counted_at = $5, is_active = $6, last_updated_at = $7, last_updated_by = $8
			WHERE workplace_id = $1 AND cash_drawer_id = $2;`,
			m.WorkplaceID, m.CashDrawerID, m.Name, m.Location, m.LastCountedAt, m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		tagRows, err = ct.RowsAffected(), execErr
	default:
		_, err = tableFor(account.Kind)
		return err
	}
	if err != nil {
		return mapPgError(err, "update "+account.Ref().String())
	}
	if tagRows == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, account.Ref())
	}
	return nil
}

// LockAccountsForUpdate locks the accounts in ascending ref order so that two
// units touching the same pair of accounts always lock them in the same order.
// Must be called within a transaction.
func (r *PgxAccountRepository) LockAccountsForUpdate(ctx context.Context, tx pgx.Tx, workplaceID string, refs []domain.AccountRef) (map[domain.AccountRef]domain.Account, error) {
	sorted := make([]domain.AccountRef, len(refs))
	copy(sorted, refs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	locked := make(map[domain.AccountRef]domain.Account, len(sorted))
	for _, ref := range sorted {
		if _, done := locked[ref]; done {
			continue
		}
		t, err := tableFor(ref.Kind)
		if err != nil {
			return nil, err
		}
		accounts, err := selectAccounts(ctx, tx, ref.Kind,
			"WHERE workplace_id = $1 AND "+t.idColumn+" = $2 FOR UPDATE", workplaceID, ref.ID)
		if err != nil {
			return nil, err
		}
		if len(accounts) == 0 {
			slog.WarnContext(ctx, "Account requested for update lock was not found", "account", ref.String(), "workplace_id", workplaceID)
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, ref)
		}
		locked[ref] = accounts[0]
	}
	return locked, nil
}

// ApplyBalanceDeltaInTx adds delta to current_balance in one statement and
// returns the resulting balance. Negative results are allowed.
func (r *PgxAccountRepository) ApplyBalanceDeltaInTx(ctx context.Context, tx pgx.Tx, workplaceID string, ref domain.AccountRef, delta decimal.Decimal, userID string, now time.Time) (decimal.Decimal, error) {
	t, err := tableFor(ref.Kind)
	if err != nil {
		return decimal.Zero, err
	}
	query := `
		UPDATE ` + t.name + `
		SET current_balance = current_balance + $3, last_updated_at = $4, last_updated_by = $5
		WHERE workplace_id = $1 AND ` + t.idColumn + ` = $2
		RETURNING current_balance;`

	var balance decimal.Decimal
	if err := tx.QueryRow(ctx, query, workplaceID, ref.ID, delta, now, userID).Scan(&balance); err != nil {
		return decimal.Zero, mapPgError(err, "apply balance change to "+ref.String())
	}
	return balance, nil
}

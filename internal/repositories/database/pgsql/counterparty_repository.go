package pgsql

import (
	"context"
	"fmt"
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

var counterpartyTables = map[domain.CounterpartyKind]accountTable{
	domain.Customer: {name: "customers", idColumn: "customer_id"},
	domain.Supplier: {name: "suppliers", idColumn: "supplier_id"},
}

func counterpartyTableFor(kind domain.CounterpartyKind) (accountTable, error) {
	t, ok := counterpartyTables[kind]
	if !ok {
		return accountTable{}, fmt.Errorf("%w: unknown counterparty kind %q", apperrors.ErrValidation, kind)
	}
	return t, nil
}

type PgxCounterpartyRepository struct {
	BaseRepository
}

func newPgxCounterpartyRepository(pool *pgxpool.Pool) *PgxCounterpartyRepository {
	return &PgxCounterpartyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CounterpartyRepositoryFacade = (*PgxCounterpartyRepository)(nil)

func selectCounterparties(ctx context.Context, q querier, kind domain.CounterpartyKind, filter string, args ...any) ([]domain.Counterparty, error) {
	t, err := counterpartyTableFor(kind)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT ` + t.idColumn + ` AS counterparty_id, workplace_id, name, email, phone, address,
			outstanding_balance, credit_balance, credit_limit, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		FROM ` + t.name + ` ` + filter
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "query "+t.name)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Counterparty])
	if err != nil {
		return nil, mapPgError(err, "collect "+t.name+" rows")
	}
	out := make([]domain.Counterparty, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainCounterparty(m, kind)
	}
	return out, nil
}

func (r *PgxCounterpartyRepository) SaveCounterparty(ctx context.Context, cp domain.Counterparty) error {
	t, err := counterpartyTableFor(cp.Kind)
	if err != nil {
		return err
	}
	m := mapping.ToModelCounterparty(cp)
	query := `
		INSERT INTO ` + t.name + ` (` + t.idColumn + `, workplace_id, name, email, phone, address,
			outstanding_balance, credit_balance, credit_limit, is_active,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);`
	_, err = r.Pool.Exec(ctx, query,
		m.CounterpartyID, m.WorkplaceID, m.Name, m.Email, m.Phone, m.Address,
		m.OutstandingBalance, m.CreditBalance, m.CreditLimit, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return mapPgError(err, "save "+string(cp.Kind)+" "+cp.CounterpartyID)
}

func (r *PgxCounterpartyRepository) FindCounterpartyByID(ctx context.Context, workplaceID string, ref domain.CounterpartyRef) (*domain.Counterparty, error) {
	return r.findOne(ctx, r.Pool, workplaceID, ref, "")
}

func (r *PgxCounterpartyRepository) findOne(ctx context.Context, q querier, workplaceID string, ref domain.CounterpartyRef, suffix string) (*domain.Counterparty, error) {
	t, err := counterpartyTableFor(ref.Kind)
	if err != nil {
		return nil, err
	}
	cps, err := selectCounterparties(ctx, q, ref.Kind, "WHERE workplace_id = $1 AND "+t.idColumn+" = $2 "+suffix, workplaceID, ref.ID)
	if err != nil {
		return nil, err
	}
	if len(cps) == 0 {
		return nil, fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, ref.Kind, ref.ID)
	}
	return &cps[0], nil
}

func (r *PgxCounterpartyRepository) ListCounterparties(ctx context.Context, workplaceID string, kind domain.CounterpartyKind, limit int, offset int) ([]domain.Counterparty, error) {
	if offset < 0 {
		offset = 0
	}
	return selectCounterparties(ctx, r.Pool, kind, "WHERE workplace_id = $1 ORDER BY name LIMIT $2 OFFSET $3",
		workplaceID, pageSize(limit), offset)
}

// UpdateCounterparty updates contact details, credit limit and active flag.
func (r *PgxCounterpartyRepository) UpdateCounterparty(ctx context.Context, cp domain.Counterparty) error {
	t, err := counterpartyTableFor(cp.Kind)
	if err != nil {
		return err
	}
	query := `
		UPDATE ` + t.name + `
		SET name = $3, email = $4, phone = $5, address = $6, credit_limit = $7, is_active = $8,
			last_updated_at = $9, last_updated_by = $10
		WHERE workplace_id = $1 AND ` + t.idColumn + ` = $2;`
	ct, err := r.Pool.Exec(ctx, query, cp.WorkplaceID, cp.CounterpartyID, cp.Name, cp.Email, cp.Phone, cp.Address,
		cp.CreditLimit, cp.IsActive, cp.LastUpdatedAt, cp.LastUpdatedBy)
	if err != nil {
		return mapPgError(err, "update "+string(cp.Kind)+" "+cp.CounterpartyID)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, cp.Kind, cp.CounterpartyID)
	}
	return nil
}

func (r *PgxCounterpartyRepository) FindCounterpartyInTx(ctx context.Context, tx pgx.Tx, workplaceID string, ref domain.CounterpartyRef) (*domain.Counterparty, error) {
	return r.findOne(ctx, tx, workplaceID, ref, "")
}

// FindCounterpartyForUpdate reads the counterparty and locks its row. Must be called within a transaction.
func (r *PgxCounterpartyRepository) FindCounterpartyForUpdate(ctx context.Context, tx pgx.Tx, workplaceID string, ref domain.CounterpartyRef) (*domain.Counterparty, error) {
	return r.findOne(ctx, tx, workplaceID, ref, "FOR UPDATE")
}

// ApplyOutstandingDeltaInTx increments outstanding_balance atomically, never going below zero.
func (r *PgxCounterpartyRepository) ApplyOutstandingDeltaInTx(ctx context.Context, tx pgx.Tx, workplaceID string, ref domain.CounterpartyRef, delta decimal.Decimal, userID string, now time.Time) error {
	return r.applyDelta(ctx, tx, workplaceID, ref,
		"outstanding_balance = GREATEST(outstanding_balance + $3, 0)", delta, userID, now)
}

// ApplyCreditDeltaInTx increments credit_balance atomically.
func (r *PgxCounterpartyRepository) ApplyCreditDeltaInTx(ctx context.Context, tx pgx.Tx, workplaceID string, ref domain.CounterpartyRef, delta decimal.Decimal, userID string, now time.Time) error {
	return r.applyDelta(ctx, tx, workplaceID, ref, "credit_balance = credit_balance + $3", delta, userID, now)
}

func (r *PgxCounterpartyRepository) applyDelta(ctx context.Context, tx pgx.Tx, workplaceID string, ref domain.CounterpartyRef, set string, delta decimal.Decimal, userID string, now time.Time) error {
	if delta.IsZero() {
		return nil
	}
	t, err := counterpartyTableFor(ref.Kind)
	if err != nil {
		return err
	}
	query := `
		UPDATE ` + t.name + `
		SET ` + set + `, last_updated_at = $4, last_updated_by = $5
		WHERE workplace_id = $1 AND ` + t.idColumn + ` = $2;`
	ct, err := tx.Exec(ctx, query, workplaceID, ref.ID, delta, now, userID)
	if err != nil {
		return mapPgError(err, "apply balance change to "+string(ref.Kind)+" "+ref.ID)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, ref.Kind, ref.ID)
	}
	return nil
}

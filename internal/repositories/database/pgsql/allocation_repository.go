package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/backoffice_ledger/internal/models"
	"github.com/SscSPs/backoffice_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const allocationSelect = `
	SELECT allocation_id, workplace_id, transaction_id, target_kind, target_id, amount, credited_amount, notes, voided_at,
		created_at, created_by, last_updated_at, last_updated_by
	FROM transaction_allocations `

// PgxAllocationRepository stores allocations. Inserting or voiding an
// allocation never touches the invoice it points at.
type PgxAllocationRepository struct {
	BaseRepository
}

func newPgxAllocationRepository(pool *pgxpool.Pool) *PgxAllocationRepository {
	return &PgxAllocationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AllocationRepositoryFacade = (*PgxAllocationRepository)(nil)

func selectAllocations(ctx context.Context, q querier, filter string, args ...any) ([]domain.Allocation, error) {
	rows, err := q.Query(ctx, allocationSelect+filter, args...)
	if err != nil {
		return nil, mapPgError(err, "query allocations")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Allocation])
	if err != nil {
		return nil, mapPgError(err, "collect allocation rows")
	}
	return mapping.ToDomainAllocationSlice(ms), nil
}

// SaveAllocationsInTx inserts all allocations in one batch.
func (r *PgxAllocationRepository) SaveAllocationsInTx(ctx context.Context, tx pgx.Tx, allocations []domain.Allocation) error {
	if len(allocations) == 0 {
		return nil
	}
	query := `
		INSERT INTO transaction_allocations (allocation_id, workplace_id, transaction_id, target_kind, target_id,
			amount, credited_amount, notes, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`

	batch := &pgx.Batch{}
	for _, a := range allocations {
		m := mapping.ToModelAllocation(a)
		batch.Queue(query, m.AllocationID, m.WorkplaceID, m.TransactionID, m.TargetKind, m.TargetID,
			m.Amount, m.CreditedAmount, m.Notes, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := range allocations {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = mapPgError(err, "save allocation to "+allocations[i].Target.String())
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close allocation batch: %w", err)
	}
	return batchErr
}

func (r *PgxAllocationRepository) ListAllocationsByTransaction(ctx context.Context, workplaceID string, transactionID string) ([]domain.Allocation, error) {
	return selectAllocations(ctx, r.Pool,
		"WHERE workplace_id = $1 AND transaction_id = $2 AND voided_at IS NULL ORDER BY created_at, allocation_id",
		workplaceID, transactionID)
}

func (r *PgxAllocationRepository) ListAllocationsByTarget(ctx context.Context, workplaceID string, target domain.AllocationTarget) ([]domain.Allocation, error) {
	return selectAllocations(ctx, r.Pool,
		"WHERE workplace_id = $1 AND target_kind = $2 AND target_id = $3 AND voided_at IS NULL ORDER BY created_at, allocation_id",
		workplaceID, string(target.Kind), target.ID)
}

func (r *PgxAllocationRepository) ListAllocationsByTransactionInTx(ctx context.Context, tx pgx.Tx, workplaceID string, transactionID string) ([]domain.Allocation, error) {
	return selectAllocations(ctx, tx,
		"WHERE workplace_id = $1 AND transaction_id = $2 AND voided_at IS NULL ORDER BY target_kind, target_id FOR UPDATE",
		workplaceID, transactionID)
}

func (r *PgxAllocationRepository) CountActiveAllocationsForTargetInTx(ctx context.Context, tx pgx.Tx, workplaceID string, target domain.AllocationTarget) (int, error) {
	var n int
	err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM transaction_allocations
		WHERE workplace_id = $1 AND target_kind = $2 AND target_id = $3 AND voided_at IS NULL;`,
		workplaceID, string(target.Kind), target.ID,
	).Scan(&n)
	if err != nil {
		return 0, mapPgError(err, "count allocations for "+target.String())
	}
	return n, nil
}

func (r *PgxAllocationRepository) VoidAllocationsByTransactionInTx(ctx context.Context, tx pgx.Tx, workplaceID string, transactionID string, userID string, now time.Time) error {
	_, err := tx.Exec(ctx, `
		UPDATE transaction_allocations
		SET voided_at = $3, last_updated_at = $3, last_updated_by = $4
		WHERE workplace_id = $1 AND transaction_id = $2 AND voided_at IS NULL;`,
		workplaceID, transactionID, now, userID,
	)
	return mapPgError(err, "void allocations of transaction "+transactionID)
}

package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/backoffice_ledger/internal/models"
	"github.com/SscSPs/backoffice_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxReferenceRepository reads the seeded transaction types and payment methods.
type PgxReferenceRepository struct {
	BaseRepository
}

func newPgxReferenceRepository(pool *pgxpool.Pool) *PgxReferenceRepository {
	return &PgxReferenceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReferenceDataReader = (*PgxReferenceRepository)(nil)

func (r *PgxReferenceRepository) queryTypes(ctx context.Context, filter string, args ...any) ([]domain.TransactionType, error) {
	rows, err := r.Pool.Query(ctx, "SELECT type_id, code, name, flow_direction, description FROM transaction_types "+filter, args...)
	if err != nil {
		return nil, mapPgError(err, "query transaction types")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.TransactionType])
	if err != nil {
		return nil, mapPgError(err, "collect transaction type rows")
	}
	out := make([]domain.TransactionType, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainTransactionType(m)
	}
	return out, nil
}

func (r *PgxReferenceRepository) ListTransactionTypes(ctx context.Context) ([]domain.TransactionType, error) {
	return r.queryTypes(ctx, "ORDER BY name")
}

func (r *PgxReferenceRepository) FindTransactionTypeByID(ctx context.Context, typeID string) (*domain.TransactionType, error) {
	types, err := r.queryTypes(ctx, "WHERE type_id = $1", typeID)
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("%w: transaction type %s", apperrors.ErrNotFound, typeID)
	}
	return &types[0], nil
}

func (r *PgxReferenceRepository) FindTransactionTypeByCode(ctx context.Context, code string) (*domain.TransactionType, error) {
	types, err := r.queryTypes(ctx, "WHERE code = $1", code)
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("%w: transaction type %q", apperrors.ErrNotFound, code)
	}
	return &types[0], nil
}

func (r *PgxReferenceRepository) queryMethods(ctx context.Context, filter string, args ...any) ([]domain.PaymentMethod, error) {
	rows, err := r.Pool.Query(ctx, "SELECT method_id, code, name, category, description FROM payment_methods "+filter, args...)
	if err != nil {
		return nil, mapPgError(err, "query payment methods")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.PaymentMethod])
	if err != nil {
		return nil, mapPgError(err, "collect payment method rows")
	}
	out := make([]domain.PaymentMethod, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainPaymentMethod(m)
	}
	return out, nil
}

func (r *PgxReferenceRepository) ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	return r.queryMethods(ctx, "ORDER BY name")
}

func (r *PgxReferenceRepository) FindPaymentMethodByID(ctx context.Context, methodID string) (*domain.PaymentMethod, error) {
	methods, err := r.queryMethods(ctx, "WHERE method_id = $1", methodID)
	if err != nil {
		return nil, err
	}
	if len(methods) == 0 {
		return nil, fmt.Errorf("%w: payment method %s", apperrors.ErrNotFound, methodID)
	}
	return &methods[0], nil
}

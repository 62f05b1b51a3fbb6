package pgsql

import (
	"context"
	"errors"
	"net/http"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/backoffice_ledger/internal/models"
	"github.com/SscSPs/backoffice_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxWorkplaceRepository struct {
	BaseRepository
}

// newPgxWorkplaceRepository creates a new repository for workplace data.
func newPgxWorkplaceRepository(pool *pgxpool.Pool) *PgxWorkplaceRepository {
	return &PgxWorkplaceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxWorkplaceRepository implements portsrepo.WorkplaceRepositoryFacade
var _ portsrepo.WorkplaceRepositoryFacade = (*PgxWorkplaceRepository)(nil)

const fullWorkplaceSelectQuery = `
SELECT
	w.workplace_id, w.name, w.description, w.is_active,
	w.created_at, w.created_by, w.last_updated_at, w.last_updated_by
FROM workplaces w
`

// getWorkplaces runs the workplace select with the given filter.
func (r *PgxWorkplaceRepository) getWorkplaces(ctx context.Context, filterQuery string, args ...any) ([]domain.Workplace, error) {
	rows, err := r.Pool.Query(ctx, fullWorkplaceSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query workplaces", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Workplace])
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to collect workplace rows", err)
	}
	out := make([]domain.Workplace, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainWorkplace(m)
	}
	return out, nil
}

// SaveWorkplace inserts the workplace and its first admin in one transaction.
func (r *PgxWorkplaceRepository) SaveWorkplace(ctx context.Context, workplace domain.Workplace, admin domain.UserWorkplace) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO workplaces (workplace_id, name, description, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		workplace.WorkplaceID, workplace.Name, workplace.Description, workplace.IsActive,
		workplace.CreatedAt, workplace.CreatedBy, workplace.LastUpdatedAt, workplace.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "save workplace "+workplace.WorkplaceID)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO user_workplaces (user_id, workplace_id, role, joined_at) VALUES ($1, $2, $3, $4);`,
		admin.UserID, admin.WorkplaceID, string(admin.Role), admin.JoinedAt,
	); err != nil {
		return mapPgError(err, "add admin to workplace "+workplace.WorkplaceID)
	}
	return r.Commit(ctx, tx)
}

func (r *PgxWorkplaceRepository) FindWorkplaceByID(ctx context.Context, workplaceID string) (*domain.Workplace, error) {
	workplaces, err := r.getWorkplaces(ctx, `WHERE w.workplace_id = $1`, workplaceID)
	if err != nil {
		return nil, err
	}
	if len(workplaces) == 0 {
		return nil, apperrors.NewNotFoundError("workplace not found")
	}
	return &workplaces[0], nil
}

// ListWorkplacesByUserID lists active memberships only.
func (r *PgxWorkplaceRepository) ListWorkplacesByUserID(ctx context.Context, userID string) ([]domain.Workplace, error) {
	return r.getWorkplaces(ctx,
		`JOIN user_workplaces uw ON w.workplace_id = uw.workplace_id
		WHERE uw.user_id = $1 AND uw.role <> 'REMOVED' AND w.is_active = TRUE
		ORDER BY w.name`, userID)
}

func (r *PgxWorkplaceRepository) AddUserToWorkplace(ctx context.Context, membership domain.UserWorkplace) error {
	query := `
		INSERT INTO user_workplaces (user_id, workplace_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, workplace_id) DO UPDATE SET role = EXCLUDED.role;
	` // Upsert: Add user or update their role if they already exist
	_, err := r.Pool.Exec(ctx, query,
		membership.UserID,
		membership.WorkplaceID,
		string(membership.Role),
		membership.JoinedAt,
	)
	return mapPgError(err, "add user "+membership.UserID+" to workplace "+membership.WorkplaceID)
}

func (r *PgxWorkplaceRepository) FindUserWorkplaceRole(ctx context.Context, userID, workplaceID string) (*domain.UserWorkplace, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT user_id, workplace_id, role, joined_at
		FROM user_workplaces
		WHERE user_id = $1 AND workplace_id = $2;`, userID, workplaceID)
	if err != nil {
		return nil, mapPgError(err, "find workplace role")
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.UserWorkplace])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("workplace not found")
		}
		return nil, mapPgError(err, "find user "+userID+" workplace role in "+workplaceID)
	}
	uw := mapping.ToDomainUserWorkplace(m)
	return &uw, nil
}

// FindSettings returns empty settings when none have been saved for the workplace.
func (r *PgxWorkplaceRepository) FindSettings(ctx context.Context, workplaceID string) (*domain.WorkplaceSettings, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT workplace_id, default_cash_drawer_id, default_bank_account_id, last_updated_at, last_updated_by
		FROM workplace_settings WHERE workplace_id = $1;`, workplaceID)
	if err != nil {
		return nil, mapPgError(err, "find workplace settings")
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.WorkplaceSettings])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.WorkplaceSettings{WorkplaceID: workplaceID}, nil
		}
		return nil, mapPgError(err, "find workplace settings")
	}
	s := mapping.ToDomainWorkplaceSettings(m)
	return &s, nil
}

func (r *PgxWorkplaceRepository) SaveSettings(ctx context.Context, settings domain.WorkplaceSettings) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO workplace_settings (workplace_id, default_cash_drawer_id, default_bank_account_id, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (workplace_id) DO UPDATE SET
			default_cash_drawer_id = EXCLUDED.default_cash_drawer_id,
			default_bank_account_id = EXCLUDED.default_bank_account_id,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;`,
		settings.WorkplaceID, settings.DefaultCashDrawerID, settings.DefaultBankAccountID,
		settings.LastUpdatedAt, settings.LastUpdatedBy,
	)
	return mapPgError(err, "save workplace settings")
}

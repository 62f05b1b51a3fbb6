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

type PgxUserRepository struct {
	db *pgxpool.Pool
}

func newPgxUserRepository(db *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{db: db}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const userSelect = `
	SELECT user_id, username, email, name, password_hash, auth_provider, provider_user_id, email_verified,
		created_at, created_by, last_updated_at, last_updated_by, deleted_at
	FROM users `

func (r *PgxUserRepository) findOne(ctx context.Context, filter string, args ...any) (*domain.User, error) {
	rows, err := r.db.Query(ctx, userSelect+filter+" AND deleted_at IS NULL", args...)
	if err != nil {
		return nil, mapPgError(err, "query users")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		return nil, mapPgError(err, "collect user rows")
	}
	if len(ms) == 0 {
		return nil, fmt.Errorf("%w: user", apperrors.ErrNotFound)
	}
	u := mapping.ToDomainUser(ms[0])
	return &u, nil
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (user_id, username, email, name, password_hash, auth_provider, provider_user_id, email_verified,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`,
		m.UserID, m.Username, m.Email, m.Name, m.PasswordHash, m.AuthProvider, m.ProviderUserID, m.EmailVerified,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return mapPgError(err, "save user "+user.Username)
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findOne(ctx, "WHERE user_id = $1", userID)
}

func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "WHERE username = $1", username)
}

func (r *PgxUserRepository) FindUserByProviderDetails(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error) {
	return r.findOne(ctx, "WHERE auth_provider = $1 AND provider_user_id = $2", string(provider), providerUserID)
}

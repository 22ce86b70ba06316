// Package role implements back-office role lookups using PostgreSQL.
package role

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/catering-backend/internal/adapter/postgres"
	"github.com/heartmarshall/catering-backend/internal/domain"
)

// Repo provides role lookups backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new role repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// HasRole reports whether userID holds role.
func (r *Repo) HasRole(ctx context.Context, userID uuid.UUID, role domain.UserRole) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var ok bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)`,
		userID, string(role),
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check role %s for %s: %w", role, userID, err)
	}
	return ok, nil
}

// IsAdmin reports whether userID holds the admin role.
func (r *Repo) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	return r.HasRole(ctx, userID, domain.UserRoleAdmin)
}

// Grant gives userID role. Granting an existing role is a no-op.
func (r *Repo) Grant(ctx context.Context, userID uuid.UUID, role domain.UserRole) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx,
		`INSERT INTO user_roles (user_id, role) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, string(role),
	)
	if err != nil {
		return postgres.MapError(err, "user_role", userID)
	}
	return nil
}
